package models

// Role is the access role carried on an authenticated identity. It is
// stored opaquely; hera does not implement a permission model on top.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
)

// Identity is the authenticated session's user record.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}
