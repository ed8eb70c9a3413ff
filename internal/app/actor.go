package app

import (
	"errors"

	"hotel_saas/internal/domain"
)

var ErrForbidden = errors.New("forbidden")

// Actor is the authenticated admin a call is made on behalf of.
type Actor struct {
	UserID   int64
	Username string
	Role     domain.Role
	TenantID *int64
}

func (a Actor) IsSuperAdmin() bool { return a.Role == domain.RoleSuperAdmin }

// CanPurge reports whether the actor may hard-delete records.
func (a Actor) CanPurge() bool { return a.Role == domain.RoleSuperAdmin || a.Role == domain.RoleAdmin }
