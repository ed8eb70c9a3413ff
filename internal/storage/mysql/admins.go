package mysql

import (
	"context"
	"database/sql"
	"time"

	"hotel_saas/internal/domain"
)

type AdminUsers struct {
	*Global[domain.AdminUser, *domain.AdminUser]
}

func NewAdminUsers(db *sql.DB) *AdminUsers {
	return &AdminUsers{Global: NewGlobal[domain.AdminUser](db, adminSchema)}
}

func (r *AdminUsers) GetByUsername(ctx context.Context, username string) (a domain.AdminUser, err error) {
	defer r.t.observe("get_by_username", time.Now(), &err)
	w := where{clauses: []string{"username = ?", "is_active = 1", "deleted = 0"}, args: []any{username}}
	return r.t.one(ctx, r.t.db, w, false)
}

func (r *AdminUsers) ListByTenant(ctx context.Context, tenantID int64, p domain.Page) (out []domain.AdminUser, err error) {
	defer r.t.observe("list_by_tenant", time.Now(), &err)
	w := where{clauses: []string{"tenant_id = ?"}, args: []any{tenantID}}
	return r.t.many(ctx, w.andVisible(p.IncludeDeleted), p)
}

func (r *AdminUsers) CountByTenant(ctx context.Context, tenantID int64, includeDeleted bool) (n int64, err error) {
	defer r.t.observe("count_by_tenant", time.Now(), &err)
	w := where{clauses: []string{"tenant_id = ?"}, args: []any{tenantID}}
	return r.t.count(ctx, w.andVisible(includeDeleted))
}

func (r *AdminUsers) TouchLogin(ctx context.Context, id int64) (err error) {
	defer r.t.observe("touch_login", time.Now(), &err)
	_, err = r.t.db.ExecContext(ctx, "UPDATE admin_users SET last_login_at = ? WHERE id = ?", r.t.now(), id)
	return err
}
