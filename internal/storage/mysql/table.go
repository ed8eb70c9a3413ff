package mysql

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"hotel_saas/internal/adapters/observability"
	"hotel_saas/internal/domain"
)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Schema maps one entity type onto its table. Columns lists the domain
// columns only; Fields must return addresses in the same order.
type Schema[E any] struct {
	Table   string
	Columns []string
	Fields  func(e *E) []any
}

type entityPtr[E any] interface {
	*E
	domain.Entity
}

type tenantPtr[E any] interface {
	*E
	domain.TenantEntity
}

var auditColumns = []string{
	"deleted", "deleted_at", "deleted_by", "created_by", "updated_by", "created_at", "updated_at",
}

// table is the shared machinery behind Scoped and Global. owner is nil for
// tables without a tenant_id column.
type table[E any, P entityPtr[E]] struct {
	db     *sql.DB
	schema Schema[E]
	owner  func(P) *int64
	now    func() time.Time

	selectSQL string
	insertSQL string
	updateSQL string
}

func newTable[E any, P entityPtr[E]](db *sql.DB, s Schema[E], owner func(P) *int64) *table[E, P] {
	t := &table[E, P]{
		db:     db,
		schema: s,
		owner:  owner,
		now:    func() time.Time { return time.Now().UTC().Truncate(time.Second) },
	}
	cols := t.columns()
	t.selectSQL = "SELECT " + strings.Join(cols, ", ") + " FROM " + s.Table
	t.insertSQL = "INSERT INTO " + s.Table + " (" + strings.Join(cols[1:], ", ") + ") VALUES (" + placeholders(len(cols)-1) + ")"

	sets := make([]string, 0, len(s.Columns)+2)
	for _, c := range s.Columns {
		sets = append(sets, c+" = ?")
	}
	sets = append(sets, "updated_by = ?", "updated_at = ?")
	t.updateSQL = "UPDATE " + s.Table + " SET " + strings.Join(sets, ", ")
	return t
}

func (t *table[E, P]) columns() []string {
	cols := []string{"id"}
	if t.owner != nil {
		cols = append(cols, "tenant_id")
	}
	cols = append(cols, t.schema.Columns...)
	return append(cols, auditColumns...)
}

func (t *table[E, P]) fields(e *E) []any {
	p := P(e)
	m := p.Meta()
	out := []any{&m.ID}
	if t.owner != nil {
		out = append(out, t.owner(p))
	}
	out = append(out, t.schema.Fields(e)...)
	return append(out, &m.Deleted, &m.DeletedAt, &m.DeletedBy, &m.CreatedBy, &m.UpdatedBy, &m.CreatedAt, &m.UpdatedAt)
}

func (t *table[E, P]) one(ctx context.Context, q querier, w where, lock bool) (E, error) {
	query := t.selectSQL + w.sql()
	if lock {
		query += " FOR UPDATE"
	}
	var e E
	if err := q.QueryRowContext(ctx, query, w.args...).Scan(t.fields(&e)...); err != nil {
		var zero E
		return zero, err
	}
	return e, nil
}

func (t *table[E, P]) many(ctx context.Context, w where, p domain.Page) ([]E, error) {
	p = p.Normalize()
	args := append(append([]any{}, w.args...), p.Limit, p.Skip)
	rows, err := t.db.QueryContext(ctx, t.selectSQL+w.sql()+" ORDER BY id LIMIT ? OFFSET ?", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]E, 0, p.Limit)
	for rows.Next() {
		var e E
		if err := rows.Scan(t.fields(&e)...); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (t *table[E, P]) count(ctx context.Context, w where) (int64, error) {
	var n int64
	err := t.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+t.schema.Table+w.sql(), w.args...).Scan(&n)
	return n, err
}

// insert stamps a fresh audit block, validates and writes e. Any id or audit
// values the caller left on e are discarded.
func (t *table[E, P]) insert(ctx context.Context, e *E, createdBy string) error {
	p := P(e)
	now := t.now()
	by := createdBy
	*p.Meta() = domain.Audit{CreatedBy: &by, CreatedAt: now, UpdatedAt: now}
	if err := p.Validate(); err != nil {
		return err
	}
	res, err := t.db.ExecContext(ctx, t.insertSQL, t.fields(e)[1:]...)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.Meta().ID = id
	return nil
}

// update merges changes onto existing and writes the domain columns back.
// Identity, ownership and deletion markers are never part of the write.
func (t *table[E, P]) update(ctx context.Context, existing E, changes domain.Changes, updatedBy string, w where) (E, error) {
	merged, err := domain.Merge(existing, changes)
	if err != nil {
		return existing, err
	}
	p := P(&merged)
	if err := p.Validate(); err != nil {
		return existing, err
	}
	m := p.Meta()
	by := updatedBy
	m.UpdatedBy = &by
	m.UpdatedAt = t.now()

	args := append(t.schema.Fields(&merged), m.UpdatedBy, m.UpdatedAt)
	args = append(args, w.args...)
	if _, err := t.db.ExecContext(ctx, t.updateSQL+w.sql(), args...); err != nil {
		return existing, err
	}
	return merged, nil
}

func (t *table[E, P]) markDeleted(ctx context.Context, w where, deletedBy string) (E, error) {
	var out E
	err := t.tx(ctx, func(q querier) error {
		cur, err := t.one(ctx, q, w.and("deleted = 0"), true)
		if err != nil {
			return err
		}
		m := P(&cur).Meta()
		now, by := t.now(), deletedBy
		if _, err := q.ExecContext(ctx, "UPDATE "+t.schema.Table+" SET deleted = 1, deleted_at = ?, deleted_by = ? WHERE id = ?",
			now, by, m.ID); err != nil {
			return err
		}
		m.Deleted, m.DeletedAt, m.DeletedBy = true, &now, &by
		out = cur
		return nil
	})
	return out, err
}

func (t *table[E, P]) markRestored(ctx context.Context, w where, updatedBy string) (E, error) {
	var out E
	err := t.tx(ctx, func(q querier) error {
		cur, err := t.one(ctx, q, w.and("deleted = 1"), true)
		if err != nil {
			return err
		}
		m := P(&cur).Meta()
		by := updatedBy
		if _, err := q.ExecContext(ctx, "UPDATE "+t.schema.Table+" SET deleted = 0, deleted_at = NULL, deleted_by = NULL, updated_by = ? WHERE id = ?",
			by, m.ID); err != nil {
			return err
		}
		m.Deleted, m.DeletedAt, m.DeletedBy, m.UpdatedBy = false, nil, nil, &by
		out = cur
		return nil
	})
	return out, err
}

func (t *table[E, P]) purge(ctx context.Context, w where) (E, error) {
	var out E
	err := t.tx(ctx, func(q querier) error {
		cur, err := t.one(ctx, q, w, true)
		if err != nil {
			return err
		}
		if _, err := q.ExecContext(ctx, "DELETE FROM "+t.schema.Table+" WHERE id = ?", P(&cur).Meta().ID); err != nil {
			return err
		}
		out = cur
		return nil
	})
	return out, err
}

// tx runs fn in a transaction. The transaction is always finished before tx
// returns: committed when fn succeeds, rolled back otherwise.
func (t *table[E, P]) tx(ctx context.Context, fn func(q querier) error) (err error) {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// observe records the outcome of op and converts err into the domain taxonomy.
func (t *table[E, P]) observe(op string, start time.Time, err *error) {
	*err = classify(t.schema.Table+"."+op, *err)
	observability.ObserveStore(t.schema.Table, op, outcome(*err), time.Since(start))
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrConstraint):
		return "constraint"
	default:
		return "error"
	}
}

type where struct {
	clauses []string
	args    []any
}

func whereID(id int64) where { return where{clauses: []string{"id = ?"}, args: []any{id}} }

func (w where) and(clause string, args ...any) where {
	return where{
		clauses: append(append([]string{}, w.clauses...), clause),
		args:    append(append([]any{}, w.args...), args...),
	}
}

func (w where) sql() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func visible(includeDeleted bool) string {
	if includeDeleted {
		return ""
	}
	return "deleted = 0"
}

func (w where) andVisible(includeDeleted bool) where {
	if c := visible(includeDeleted); c != "" {
		return w.and(c)
	}
	return w
}
