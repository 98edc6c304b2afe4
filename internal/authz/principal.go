package authz

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/google/uuid"
)

// Role is the coarse capability level stored on a user account.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// ErrUnknownRole is returned by ParseRole for values outside the enum.
var ErrUnknownRole = errors.New("unknown role")

// Valid reports whether r is one of the fixed role values.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// ParseRole converts a stored or submitted role string into a Role.
// The empty string maps to RoleUser.
func ParseRole(s string) (Role, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return RoleUser, nil
	}
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
	return r, nil
}

// Resource is an owned entity whose author may be compared with a principal.
type Resource interface {
	AuthorID() uuid.UUID
}

// Principal is an immutable snapshot of the identity behind a request.
// Derived capabilities are computed once in NewPrincipal.
type Principal struct {
	id            uuid.UUID
	authenticated bool
	role          Role
	superuser     bool
	staff         bool

	admin     bool
	moderator bool
}

// Anonymous returns the principal used when a request carries no credentials.
func Anonymous() Principal {
	return Principal{role: RoleUser}
}

// NewPrincipal builds an authenticated principal. A role outside the enum is
// stored as RoleUser so it can never grant moderator or admin rights.
func NewPrincipal(id uuid.UUID, role Role, superuser, staff bool) Principal {
	if !role.Valid() {
		role = RoleUser
	}
	return Principal{
		id:            id,
		authenticated: true,
		role:          role,
		superuser:     superuser,
		staff:         staff,
		admin:         role == RoleAdmin || superuser || staff,
		moderator:     role == RoleModerator,
	}
}

func (p Principal) ID() uuid.UUID { return p.id }
func (p Principal) IsAuthenticated() bool { return p.authenticated }
func (p Principal) Role() Role { return p.role }
func (p Principal) IsSuperuser() bool { return p.authenticated && p.superuser }
func (p Principal) IsStaff() bool { return p.authenticated && p.staff }

// IsAdmin reports admin capability: admin role, superuser or staff.
func (p Principal) IsAdmin() bool { return p.authenticated && p.admin }

// IsModerator reports whether the principal holds the moderator role.
func (p Principal) IsModerator() bool { return p.authenticated && p.moderator }

// IsAuthor reports whether the principal authored res. It is false for
// anonymous principals and for absent resources.
func (p Principal) IsAuthor(res Resource) bool {
	if !p.authenticated || isNilResource(res) {
		return false
	}
	author := res.AuthorID()
	return author != uuid.Nil && author == p.id
}

func isNilResource(res Resource) bool {
	if res == nil {
		return true
	}
	v := reflect.ValueOf(res)
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func:
		return v.IsNil()
	}
	return false
}

// String renders the principal for log fields.
func (p Principal) String() string {
	if !p.authenticated {
		return "anonymous"
	}
	return fmt.Sprintf("%s(%s)", p.id, p.role)
}
