package entity

import "time"

// Roles de cuenta.
const (
	RoleUser    = "USER"
	RoleCompany = "COMPANY"
	RoleAdmin   = "ADMIN"
)

// Account identidad con credenciales y rol. Nunca se borra físicamente.
type Account struct {
	ID                  string
	Email               string
	PasswordHash        string // bcrypt
	Role                string
	IsLocked            bool
	ResetToken          *string
	ResetTokenExpiresAt *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// ValidRole informa si el rol es uno de los conocidos.
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleCompany, RoleAdmin:
		return true
	}
	return false
}
