package authz

import "net/http"

// Request is the per-request input to a predicate.
type Request struct {
	Principal Principal
	Method    string
}

// IsSafeMethod reports whether method is read-only (GET, HEAD, OPTIONS).
func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// Safe reports whether the request method is read-only.
func (r Request) Safe() bool {
	return IsSafeMethod(r.Method)
}

// Predicate is a single authorization rule evaluated at request and object level.
type Predicate interface {
	// Name identifies the predicate in logs and metrics.
	Name() string

	// AllowsRequest runs before any resource is loaded.
	AllowsRequest(req Request) bool

	// AllowsObject runs once the target resource has been resolved.
	AllowsObject(req Request, res Resource) bool
}

// PredicateFunc builds a Predicate from two plain functions.
type PredicateFunc struct {
	Label   string
	Request func(req Request) bool
	Object  func(req Request, res Resource) bool
}

func (f PredicateFunc) Name() string { return f.Label }

// AllowsRequest denies when no request function is set.
func (f PredicateFunc) AllowsRequest(req Request) bool {
	if f.Request == nil {
		return false
	}
	return f.Request(req)
}

// AllowsObject denies when no object function is set.
func (f PredicateFunc) AllowsObject(req Request, res Resource) bool {
	if f.Object == nil {
		return false
	}
	return f.Object(req, res)
}

func safeOrAuthenticated(req Request) bool {
	return req.Safe() || req.Principal.IsAuthenticated()
}

func adminOrSuperuser(p Principal) bool {
	return p.IsSuperuser() || p.IsAdmin()
}

var (
	// ReadOnlyOrAuthenticated lets anyone read, any authenticated user
	// create, and moderators change existing objects.
	ReadOnlyOrAuthenticated Predicate = PredicateFunc{
		Label:   "read_only_or_authenticated",
		Request: safeOrAuthenticated,
		Object: func(req Request, _ Resource) bool {
			return req.Safe() || req.Principal.IsModerator()
		},
	}

	// AuthorOrReadOnly lets anyone read and only the author change an object.
	AuthorOrReadOnly Predicate = PredicateFunc{
		Label:   "author_or_read_only",
		Request: safeOrAuthenticated,
		Object: func(req Request, res Resource) bool {
			return req.Safe() || req.Principal.IsAuthor(res)
		},
	}

	// AdminOrSuperuser restricts the endpoint to administrators. Objects are
	// readable once the request-level check has passed.
	AdminOrSuperuser Predicate = PredicateFunc{
		Label: "admin_or_superuser",
		Request: func(req Request) bool {
			return req.Principal.IsAuthenticated() && adminOrSuperuser(req.Principal)
		},
		Object: func(req Request, _ Resource) bool {
			return req.Safe() || adminOrSuperuser(req.Principal)
		},
	}

	// AdminOrReadOnly lets anyone read and administrators write.
	AdminOrReadOnly Predicate = PredicateFunc{
		Label: "admin_or_read_only",
		Request: func(req Request) bool {
			return req.Safe() || (req.Principal.IsAuthenticated() && adminOrSuperuser(req.Principal))
		},
		Object: func(req Request, _ Resource) bool {
			return req.Safe() || (req.Principal.IsAuthenticated() && adminOrSuperuser(req.Principal))
		},
	}

	// Authenticated requires credentials for every method.
	Authenticated Predicate = PredicateFunc{
		Label: "authenticated",
		Request: func(req Request) bool {
			return req.Principal.IsAuthenticated()
		},
		Object: func(req Request, _ Resource) bool {
			return req.Principal.IsAuthenticated()
		},
	}
)
