package authz

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated is returned when an anonymous principal is denied.
	ErrUnauthenticated = errors.New("authentication credentials were not provided")

	// ErrForbidden is returned when a known principal lacks the capability.
	ErrForbidden = errors.New("you do not have permission to perform this action")
)

// Level names the granularity at which a decision was made.
type Level string

const (
	LevelRequest Level = "request"
	LevelObject  Level = "object"
)

// DeniedError describes a denial. It unwraps to ErrUnauthenticated or ErrForbidden.
type DeniedError struct {
	Predicate string
	Level     Level
	Err       error
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("%s denied by %s at %s level", e.Err, e.Predicate, e.Level)
}

func (e *DeniedError) Unwrap() error { return e.Err }

func deny(p Predicate, level Level, req Request) error {
	cause := ErrForbidden
	if !req.Principal.IsAuthenticated() {
		cause = ErrUnauthenticated
	}
	return &DeniedError{Predicate: p.Name(), Level: level, Err: cause}
}

// CheckRequest evaluates the request-level rule of p.
// It returns nil when allowed and a *DeniedError otherwise.
func CheckRequest(p Predicate, req Request) error {
	if p == nil {
		return &DeniedError{Predicate: "nil", Level: LevelRequest, Err: ErrForbidden}
	}
	if p.AllowsRequest(req) {
		return nil
	}
	return deny(p, LevelRequest, req)
}

// CheckObject evaluates the object-level rule of p against res.
func CheckObject(p Predicate, req Request, res Resource) error {
	if p == nil {
		return &DeniedError{Predicate: "nil", Level: LevelObject, Err: ErrForbidden}
	}
	if p.AllowsObject(req, res) {
		return nil
	}
	return deny(p, LevelObject, req)
}
