package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/upb/yamdb/internal/authz"
)

// ReservedUsername cannot be registered because it collides with the /users/me route.
const ReservedUsername = "me"

// User represents an account that signs in with an emailed confirmation code
type User struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Username    string     `json:"username" db:"username"`
	Email       string     `json:"email" db:"email"`
	FirstName   string     `json:"first_name" db:"first_name"`
	LastName    string     `json:"last_name" db:"last_name"`
	Bio         string     `json:"bio" db:"bio"`
	Role        authz.Role `json:"role" db:"role"`
	IsSuperuser bool       `json:"-" db:"is_superuser"`
	IsStaff     bool       `json:"-" db:"is_staff"`
	CreatedAt   time.Time  `json:"-" db:"created_at"`
	UpdatedAt   time.Time  `json:"-" db:"updated_at"`
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// NewUser creates a new User with the default role
func NewUser(username, email string) *User {
	now := time.Now().UTC()
	return &User{
		ID:        uuid.New(),
		Username:  username,
		Email:     email,
		Role:      authz.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Principal builds the authorization snapshot for this user
func (u *User) Principal() authz.Principal {
	if u == nil {
		return authz.Anonymous()
	}
	return authz.NewPrincipal(u.ID, u.Role, u.IsSuperuser, u.IsStaff)
}
