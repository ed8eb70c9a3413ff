package domain

import (
	"strings"
	"time"
)

// Tenant is a hotel organisation. It has no tenant_id of its own.
type Tenant struct {
	Audit
	Name         string  `json:"name"`
	Domain       string  `json:"domain"`
	ContactEmail *string `json:"contact_email"`
	Phone        *string `json:"phone"`
	Address      *string `json:"address"`
	Plan         string  `json:"plan"`
	IsActive     bool    `json:"is_active"`
}

func (t *Tenant) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return invalid("name", "required")
	}
	t.Domain = strings.ToLower(strings.TrimSpace(t.Domain))
	if t.Domain == "" {
		return invalid("domain", "required")
	}
	if strings.ContainsAny(t.Domain, " /") {
		return invalid("domain", "malformed")
	}
	if t.Plan == "" {
		t.Plan = "basic"
	}
	return nil
}

type Role string

const (
	RoleSuperAdmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleStaff      Role = "staff"
)

func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleStaff:
		return true
	}
	return false
}

// AdminUser is tenant-less when Role is superadmin and bound to one tenant otherwise.
type AdminUser struct {
	Audit
	TenantID     *int64     `json:"tenant_id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	FullName     *string    `json:"full_name"`
	Role         Role       `json:"role"`
	IsActive     bool       `json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	PasswordHash string     `json:"-"`
}

func (a *AdminUser) Validate() error {
	a.Username = strings.TrimSpace(a.Username)
	if a.Username == "" {
		return invalid("username", "required")
	}
	if !strings.Contains(a.Email, "@") {
		return invalid("email", "malformed")
	}
	if !a.Role.Valid() {
		return invalid("role", "must be superadmin, admin or staff")
	}
	if a.Role == RoleSuperAdmin && a.TenantID != nil {
		return invalid("tenant_id", "superadmin cannot belong to a tenant")
	}
	if a.Role != RoleSuperAdmin && a.TenantID == nil {
		return invalid("tenant_id", "required for role "+string(a.Role))
	}
	if a.PasswordHash == "" {
		return invalid("password", "required")
	}
	return nil
}

func (a *AdminUser) IsSuperAdmin() bool { return a.Role == RoleSuperAdmin }
