package mysql

import (
	"context"
	"database/sql"
	"time"

	"hotel_saas/internal/domain"
)

// Global has the same lifecycle as Scoped without the tenant predicate. It
// backs the records that are not owned by a tenant.
type Global[E any, P entityPtr[E]] struct {
	t *table[E, P]
}

func NewGlobal[E any, P entityPtr[E]](db *sql.DB, s Schema[E]) *Global[E, P] {
	return &Global[E, P]{t: newTable[E, P](db, s, nil)}
}

func (r *Global[E, P]) Get(ctx context.Context, id int64) (e E, err error) {
	defer r.t.observe("get", time.Now(), &err)
	return r.t.one(ctx, r.t.db, whereID(id).and("deleted = 0"), false)
}

func (r *Global[E, P]) List(ctx context.Context, p domain.Page) (out []E, err error) {
	defer r.t.observe("list", time.Now(), &err)
	return r.t.many(ctx, where{}.andVisible(p.IncludeDeleted), p)
}

func (r *Global[E, P]) Count(ctx context.Context, includeDeleted bool) (n int64, err error) {
	defer r.t.observe("count", time.Now(), &err)
	return r.t.count(ctx, where{}.andVisible(includeDeleted))
}

func (r *Global[E, P]) Create(ctx context.Context, e E, createdBy string) (out E, err error) {
	defer r.t.observe("create", time.Now(), &err)
	if err := r.t.insert(ctx, &e, createdBy); err != nil {
		var zero E
		return zero, err
	}
	return e, nil
}

func (r *Global[E, P]) Update(ctx context.Context, existing E, changes domain.Changes, updatedBy string) (out E, err error) {
	defer r.t.observe("update", time.Now(), &err)
	w := whereID(P(&existing).Meta().ID).and("deleted = 0")
	return r.t.update(ctx, existing, changes, updatedBy, w)
}

func (r *Global[E, P]) Remove(ctx context.Context, id int64, deletedBy string) (e E, err error) {
	defer r.t.observe("remove", time.Now(), &err)
	return r.t.markDeleted(ctx, whereID(id), deletedBy)
}

func (r *Global[E, P]) Restore(ctx context.Context, id int64, updatedBy string) (e E, err error) {
	defer r.t.observe("restore", time.Now(), &err)
	return r.t.markRestored(ctx, whereID(id), updatedBy)
}

func (r *Global[E, P]) HardDelete(ctx context.Context, id int64) (e E, err error) {
	defer r.t.observe("hard_delete", time.Now(), &err)
	return r.t.purge(ctx, whereID(id))
}
