package mysql

import (
	"context"
	"database/sql"
	"time"

	"hotel_saas/internal/domain"
)

// Scoped is the tenant-scoped soft-delete repository. tenant_id is part of
// every predicate, so a record of tenant A is invisible to a call made for B.
type Scoped[E any, P tenantPtr[E]] struct {
	t *table[E, P]
}

func NewScoped[E any, P tenantPtr[E]](db *sql.DB, s Schema[E]) *Scoped[E, P] {
	return &Scoped[E, P]{t: newTable[E, P](db, s, func(p P) *int64 { return p.Owner() })}
}

func owned(id, tenantID int64) where {
	return whereID(id).and("tenant_id = ?", tenantID)
}

func (r *Scoped[E, P]) Get(ctx context.Context, id, tenantID int64) (e E, err error) {
	defer r.t.observe("get", time.Now(), &err)
	return r.t.one(ctx, r.t.db, owned(id, tenantID).and("deleted = 0"), false)
}

func (r *Scoped[E, P]) List(ctx context.Context, tenantID int64, p domain.Page) (out []E, err error) {
	defer r.t.observe("list", time.Now(), &err)
	w := where{clauses: []string{"tenant_id = ?"}, args: []any{tenantID}}
	return r.t.many(ctx, w.andVisible(p.IncludeDeleted), p)
}

func (r *Scoped[E, P]) Count(ctx context.Context, tenantID int64, includeDeleted bool) (n int64, err error) {
	defer r.t.observe("count", time.Now(), &err)
	w := where{clauses: []string{"tenant_id = ?"}, args: []any{tenantID}}
	return r.t.count(ctx, w.andVisible(includeDeleted))
}

// Create ignores any tenant_id, id or audit values carried by e.
func (r *Scoped[E, P]) Create(ctx context.Context, e E, tenantID int64, createdBy string) (out E, err error) {
	defer r.t.observe("create", time.Now(), &err)
	*P(&e).Owner() = tenantID
	if err := r.t.insert(ctx, &e, createdBy); err != nil {
		var zero E
		return zero, err
	}
	return e, nil
}

func (r *Scoped[E, P]) Update(ctx context.Context, existing E, changes domain.Changes, updatedBy string) (out E, err error) {
	defer r.t.observe("update", time.Now(), &err)
	p := P(&existing)
	w := owned(p.Meta().ID, *p.Owner()).and("deleted = 0")
	return r.t.update(ctx, existing, changes, updatedBy, w)
}

// Remove soft-deletes. A second Remove of the same id reports ErrNotFound.
func (r *Scoped[E, P]) Remove(ctx context.Context, id, tenantID int64, deletedBy string) (e E, err error) {
	defer r.t.observe("remove", time.Now(), &err)
	return r.t.markDeleted(ctx, owned(id, tenantID), deletedBy)
}

// Restore only matches records that are currently soft-deleted.
func (r *Scoped[E, P]) Restore(ctx context.Context, id, tenantID int64, updatedBy string) (e E, err error) {
	defer r.t.observe("restore", time.Now(), &err)
	return r.t.markRestored(ctx, owned(id, tenantID), updatedBy)
}

// HardDelete removes the row whatever its deletion flag. Nothing is audited.
func (r *Scoped[E, P]) HardDelete(ctx context.Context, id, tenantID int64) (e E, err error) {
	defer r.t.observe("hard_delete", time.Now(), &err)
	return r.t.purge(ctx, owned(id, tenantID))
}
