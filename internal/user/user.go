package user

import (
	"time"
)

// User is the identity record. PasswordHash never serializes; timestamps are
// pointers because a freshly inserted record is returned without re-fetching
// its database-generated timestamps.
type User struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Phone        string     `json:"phone,omitempty"`
	RoleID       int64      `json:"role_id"`
	FactoryID    int64      `json:"factory_id,omitempty"`
	PasswordHash string     `json:"-"`
	CreatedAt    *time.Time `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
	Permissions  []string   `json:"permissions,omitempty"`
}

// Role groups permission tags; users reference exactly one role.
type Role struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// Permission is a string tag of the form "resource.action".
type Permission struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// RolePermission links a role to a permission. Only links with Status == 1
// grant access.
type RolePermission struct {
	ID           int64 `json:"id"`
	RoleID       int64 `json:"role_id"`
	PermissionID int64 `json:"permission_id"`
	Status       int   `json:"status"`
}

// Patch carries the optional fields of a partial update. Nil means "leave
// unchanged"; PasswordHash is already hashed by the service.
type Patch struct {
	Email        *string
	FirstName    *string
	LastName     *string
	PasswordHash *string
}

func (p Patch) Empty() bool {
	return p.Email == nil && p.FirstName == nil && p.LastName == nil && p.PasswordHash == nil
}

// Page is the paginated listing envelope.
type Page struct {
	CurrentPage int     `json:"currentPage"`
	TotalPages  int     `json:"totalPages"`
	Users       []*User `json:"users"`
}
