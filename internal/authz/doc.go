// Package authz decides whether a principal may act on the API.
//
// Decisions are made at two granularities:
//   - request level, before any resource is loaded (list, create)
//   - object level, once the target resource has been fetched (retrieve, update, delete)
//
// Predicates encode a single rule for both levels. AnyOf and AllOf join
// predicates into an ordered, short-circuiting composition. Every check is a
// pure function of (principal, method, resource); nothing is cached between
// requests and unknown input always denies.
package authz
