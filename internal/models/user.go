package models

// Role represents the single role held by a user.
type Role string

const (
	// RoleAdmin sees every project and creates them, but cannot spend.
	RoleAdmin Role = "admin"
	// RoleFinance books receipts and manages the RAB of one project.
	RoleFinance Role = "finance"
	// RoleVerifier toggles receipt verification on one project.
	RoleVerifier Role = "verifier"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleFinance, RoleVerifier:
		return true
	}
	return false
}

// Scoped reports whether the role is bound to exactly one project.
func (r Role) Scoped() bool {
	return r == RoleFinance || r == RoleVerifier
}

// User is an entry of the preloaded user directory.
type User struct {
	ID                string `json:"id" toml:"id" validate:"required"`
	Username          string `json:"username" toml:"username" validate:"required"`
	Role              Role   `json:"role" toml:"role" validate:"user_role"`
	Secret            string `json:"-" toml:"secret"`
	AssignedProjectID string `json:"assigned_project_id,omitempty" toml:"assigned_project_id"`
}

// CanAccessProject reports whether the user may see projectID at all.
func (u User) CanAccessProject(projectID string) bool {
	if u.Role == RoleAdmin {
		return true
	}
	return u.AssignedProjectID != "" && u.AssignedProjectID == projectID
}
