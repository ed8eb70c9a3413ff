package app

import (
	"context"
	"encoding/json"

	"hotel_saas/internal/domain"
)

// Admins manages admin accounts. Superadmins see every account; tenant
// admins only the accounts of their own tenant.
type Admins struct {
	repo domain.AdminUserRepository
}

func NewAdmins(r domain.AdminUserRepository) *Admins { return &Admins{repo: r} }

func visibleTo(actor Actor, a domain.AdminUser) bool {
	if actor.IsSuperAdmin() {
		return true
	}
	return a.TenantID != nil && actor.TenantID != nil && *a.TenantID == *actor.TenantID
}

func (s *Admins) Get(ctx context.Context, actor Actor, id int64) (domain.AdminUser, error) {
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return a, err
	}
	if !visibleTo(actor, a) {
		return domain.AdminUser{}, domain.ErrNotFound
	}
	return a, nil
}

func (s *Admins) Page(ctx context.Context, actor Actor, p domain.Page) (domain.PageResult[domain.AdminUser], error) {
	p = p.Normalize()
	var (
		items []domain.AdminUser
		total int64
		err   error
	)
	if actor.IsSuperAdmin() {
		if items, err = s.repo.List(ctx, p); err == nil {
			total, err = s.repo.Count(ctx, p.IncludeDeleted)
		}
	} else {
		if actor.TenantID == nil {
			return domain.PageResult[domain.AdminUser]{}, ErrForbidden
		}
		if items, err = s.repo.ListByTenant(ctx, *actor.TenantID, p); err == nil {
			total, err = s.repo.CountByTenant(ctx, *actor.TenantID, p.IncludeDeleted)
		}
	}
	if err != nil {
		return domain.PageResult[domain.AdminUser]{}, err
	}
	return domain.PageResult[domain.AdminUser]{Items: items, Total: total, Skip: p.Skip, Limit: p.Limit}, nil
}

// Create stores a new account. Tenant admins can only create non-superadmin
// accounts inside their own tenant.
func (s *Admins) Create(ctx context.Context, actor Actor, in domain.AdminUser, password string) (domain.AdminUser, error) {
	switch actor.Role {
	case domain.RoleSuperAdmin:
	case domain.RoleAdmin:
		if in.Role == domain.RoleSuperAdmin {
			return domain.AdminUser{}, ErrForbidden
		}
		in.TenantID = actor.TenantID
	default:
		return domain.AdminUser{}, ErrForbidden
	}
	hash, err := HashPassword(password)
	if err != nil {
		return domain.AdminUser{}, err
	}
	in.PasswordHash = hash
	return s.repo.Create(ctx, in, actor.Username)
}

// Patch applies changes; a "password" entry is hashed instead of merged.
func (s *Admins) Patch(ctx context.Context, actor Actor, id int64, changes domain.Changes) (domain.AdminUser, error) {
	existing, err := s.Get(ctx, actor, id)
	if err != nil {
		return existing, err
	}
	if actor.Role == domain.RoleStaff && existing.ID != actor.UserID {
		return domain.AdminUser{}, ErrForbidden
	}
	if raw, ok := changes["password"]; ok {
		var pw string
		if err := json.Unmarshal(raw, &pw); err != nil {
			return domain.AdminUser{}, &domain.ValidationError{Field: "password", Reason: "must be a string"}
		}
		hash, err := HashPassword(pw)
		if err != nil {
			return domain.AdminUser{}, err
		}
		existing.PasswordHash = hash
		rest := make(domain.Changes, len(changes))
		for k, v := range changes {
			if k != "password" {
				rest[k] = v
			}
		}
		changes = rest
	}
	if raw, ok := changes["role"]; ok && !actor.IsSuperAdmin() {
		var r domain.Role
		if err := json.Unmarshal(raw, &r); err == nil && r != existing.Role {
			return domain.AdminUser{}, ErrForbidden
		}
	}
	return s.repo.Update(ctx, existing, changes, actor.Username)
}

func (s *Admins) Remove(ctx context.Context, actor Actor, id int64) (domain.AdminUser, error) {
	if actor.Role == domain.RoleStaff {
		return domain.AdminUser{}, ErrForbidden
	}
	if _, err := s.Get(ctx, actor, id); err != nil {
		return domain.AdminUser{}, err
	}
	if id == actor.UserID {
		return domain.AdminUser{}, &domain.ValidationError{Field: "id", Reason: "cannot remove yourself"}
	}
	return s.repo.Remove(ctx, id, actor.Username)
}

// Restore and HardDelete address rows a tenant admin can no longer see, so
// they are reserved to superadmins.
func (s *Admins) Restore(ctx context.Context, actor Actor, id int64) (domain.AdminUser, error) {
	if !actor.IsSuperAdmin() {
		return domain.AdminUser{}, ErrForbidden
	}
	return s.repo.Restore(ctx, id, actor.Username)
}

func (s *Admins) HardDelete(ctx context.Context, actor Actor, id int64) (domain.AdminUser, error) {
	if !actor.IsSuperAdmin() {
		return domain.AdminUser{}, ErrForbidden
	}
	return s.repo.HardDelete(ctx, id)
}
