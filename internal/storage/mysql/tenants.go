package mysql

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"hotel_saas/internal/domain"
)

type Tenants struct {
	*Global[domain.Tenant, *domain.Tenant]
}

func NewTenants(db *sql.DB) *Tenants {
	return &Tenants{Global: NewGlobal[domain.Tenant](db, tenantSchema)}
}

func (r *Tenants) GetByDomain(ctx context.Context, name string) (t domain.Tenant, err error) {
	defer r.t.observe("get_by_domain", time.Now(), &err)
	w := where{clauses: []string{"domain = ?", "deleted = 0"}, args: []any{strings.ToLower(strings.TrimSpace(name))}}
	return r.t.one(ctx, r.t.db, w, false)
}
