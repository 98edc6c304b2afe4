// Package auth issues and validates access tokens and manages the
// one-time confirmation codes exchanged for them.
//
// The signup flow is: a confirmation code is generated, its bcrypt hash is
// stored in Redis with a TTL and the plain code is handed to a Mailer. A
// later token request presents the code; on a match the code is consumed
// and an HS256 access token carrying the user ID as subject is returned.
package auth
