package user

import "time"

type Role string

const (
	RoleCustomer   Role = "customer"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// IsAdminRole reports whether a role grants back-office access. Unknown
// or empty roles are not admins.
func IsAdminRole(r Role) bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

type Profile struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	FullName        string    `json:"full_name"`
	Phone           *string   `json:"phone,omitempty"`
	Role            Role      `json:"role"`
	WhatsAppEnabled bool      `json:"whatsapp_enabled"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (p *Profile) IsAdmin() bool {
	if p == nil {
		return false
	}
	return IsAdminRole(p.Role)
}
