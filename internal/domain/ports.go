package domain

import "context"

// TenantScopedRepository is the data access contract for tenant-owned records.
// Every lookup is keyed by (id, tenantID) and hides soft-deleted rows.
type TenantScopedRepository[E any] interface {
	Get(ctx context.Context, id, tenantID int64) (E, error)
	List(ctx context.Context, tenantID int64, p Page) ([]E, error)
	Count(ctx context.Context, tenantID int64, includeDeleted bool) (int64, error)
	Create(ctx context.Context, e E, tenantID int64, createdBy string) (E, error)
	Update(ctx context.Context, existing E, changes Changes, updatedBy string) (E, error)
	Remove(ctx context.Context, id, tenantID int64, deletedBy string) (E, error)
	Restore(ctx context.Context, id, tenantID int64, updatedBy string) (E, error)
	HardDelete(ctx context.Context, id, tenantID int64) (E, error)
}

// GlobalRepository is the narrower contract for records that are not owned by a tenant.
type GlobalRepository[E any] interface {
	Get(ctx context.Context, id int64) (E, error)
	List(ctx context.Context, p Page) ([]E, error)
	Count(ctx context.Context, includeDeleted bool) (int64, error)
	Create(ctx context.Context, e E, createdBy string) (E, error)
	Update(ctx context.Context, existing E, changes Changes, updatedBy string) (E, error)
	Remove(ctx context.Context, id int64, deletedBy string) (E, error)
	Restore(ctx context.Context, id int64, updatedBy string) (E, error)
	HardDelete(ctx context.Context, id int64) (E, error)
}

type TenantRepository interface {
	GlobalRepository[Tenant]
	GetByDomain(ctx context.Context, domain string) (Tenant, error)
}

type AdminUserRepository interface {
	GlobalRepository[AdminUser]
	// GetByUsername returns an active, non-deleted admin.
	GetByUsername(ctx context.Context, username string) (AdminUser, error)
	ListByTenant(ctx context.Context, tenantID int64, p Page) ([]AdminUser, error)
	CountByTenant(ctx context.Context, tenantID int64, includeDeleted bool) (int64, error)
	TouchLogin(ctx context.Context, id int64) error
}

type StatsRepository interface {
	TenantStats(ctx context.Context, tenantID int64) (Dashboard, error)
}

type ContentClient interface {
	GetProperty(ctx context.Context, id int64) (map[string]any, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
