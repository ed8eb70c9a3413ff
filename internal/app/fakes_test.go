package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"

	"hotel_saas/internal/domain"
)

// ---- fakes ----

type fakeRooms struct {
	mu     sync.Mutex
	rows   map[int64]domain.Room
	nextID int64
	gets   int
}

func newFakeRooms() *fakeRooms { return &fakeRooms{rows: map[int64]domain.Room{}} }

func (f *fakeRooms) Get(ctx context.Context, id, tenantID int64) (domain.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	r, ok := f.rows[id]
	if !ok || r.TenantID != tenantID || r.Deleted {
		return domain.Room{}, domain.ErrNotFound
	}
	return r, nil
}

func (f *fakeRooms) List(ctx context.Context, tenantID int64, p domain.Page) ([]domain.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Room
	for _, r := range f.rows {
		if r.TenantID == tenantID && (p.IncludeDeleted || !r.Deleted) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if p.Skip >= len(out) {
		return []domain.Room{}, nil
	}
	out = out[p.Skip:]
	if len(out) > p.Limit {
		out = out[:p.Limit]
	}
	return out, nil
}

func (f *fakeRooms) Count(ctx context.Context, tenantID int64, includeDeleted bool) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, r := range f.rows {
		if r.TenantID == tenantID && (includeDeleted || !r.Deleted) {
			n++
		}
	}
	return n, nil
}

func (f *fakeRooms) Create(ctx context.Context, r domain.Room, tenantID int64, by string) (domain.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	r.Audit = domain.Audit{ID: f.nextID, CreatedBy: &by}
	r.TenantID = tenantID
	if err := r.Validate(); err != nil {
		return domain.Room{}, err
	}
	f.rows[r.ID] = r
	return r, nil
}

func (f *fakeRooms) Update(ctx context.Context, existing domain.Room, ch domain.Changes, by string) (domain.Room, error) {
	merged, err := domain.Merge(existing, ch)
	if err != nil {
		return existing, err
	}
	if err := merged.Validate(); err != nil {
		return existing, err
	}
	merged.UpdatedBy = &by
	f.mu.Lock()
	f.rows[merged.ID] = merged
	f.mu.Unlock()
	return merged, nil
}

func (f *fakeRooms) Remove(ctx context.Context, id, tenantID int64, by string) (domain.Room, error) {
	r, err := f.Get(ctx, id, tenantID)
	if err != nil {
		return r, err
	}
	r.Deleted, r.DeletedBy = true, &by
	f.mu.Lock()
	f.rows[id] = r
	f.mu.Unlock()
	return r, nil
}

func (f *fakeRooms) Restore(ctx context.Context, id, tenantID int64, by string) (domain.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok || r.TenantID != tenantID || !r.Deleted {
		return domain.Room{}, domain.ErrNotFound
	}
	r.Deleted, r.DeletedBy, r.UpdatedBy = false, nil, &by
	f.rows[id] = r
	return r, nil
}

func (f *fakeRooms) HardDelete(ctx context.Context, id, tenantID int64) (domain.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok || r.TenantID != tenantID {
		return domain.Room{}, domain.ErrNotFound
	}
	delete(f.rows, id)
	return r, nil
}

// fakeCache stores JSON like the Redis adapter does.
type fakeCache struct {
	store map[string][]byte
	fail  bool
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if c.fail {
		return false, errors.New("cache down")
	}
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.fail {
		return errors.New("cache down")
	}
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	if c.fail {
		return errors.New("cache down")
	}
	delete(c.store, key)
	return nil
}

type fakeAdmins struct {
	rows    map[int64]domain.AdminUser
	nextID  int64
	touched []int64
}

func newFakeAdmins(as ...domain.AdminUser) *fakeAdmins {
	f := &fakeAdmins{rows: map[int64]domain.AdminUser{}}
	for _, a := range as {
		f.rows[a.ID] = a
		if a.ID > f.nextID {
			f.nextID = a.ID
		}
	}
	return f
}

func (f *fakeAdmins) Get(ctx context.Context, id int64) (domain.AdminUser, error) {
	a, ok := f.rows[id]
	if !ok || a.Deleted {
		return domain.AdminUser{}, domain.ErrNotFound
	}
	return a, nil
}

func (f *fakeAdmins) List(ctx context.Context, p domain.Page) ([]domain.AdminUser, error) {
	var out []domain.AdminUser
	for _, a := range f.rows {
		if p.IncludeDeleted || !a.Deleted {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeAdmins) Count(ctx context.Context, includeDeleted bool) (int64, error) {
	out, _ := f.List(ctx, domain.Page{IncludeDeleted: includeDeleted})
	return int64(len(out)), nil
}

func (f *fakeAdmins) Create(ctx context.Context, a domain.AdminUser, by string) (domain.AdminUser, error) {
	if err := a.Validate(); err != nil {
		return domain.AdminUser{}, err
	}
	for _, x := range f.rows {
		if x.Username == a.Username {
			return domain.AdminUser{}, &domain.ConstraintError{Constraint: "unique", Err: errors.New("duplicate username")}
		}
	}
	f.nextID++
	a.Audit = domain.Audit{ID: f.nextID, CreatedBy: &by}
	f.rows[a.ID] = a
	return a, nil
}

func (f *fakeAdmins) Update(ctx context.Context, existing domain.AdminUser, ch domain.Changes, by string) (domain.AdminUser, error) {
	merged, err := domain.Merge(existing, ch)
	if err != nil {
		return existing, err
	}
	if err := merged.Validate(); err != nil {
		return existing, err
	}
	merged.UpdatedBy = &by
	f.rows[merged.ID] = merged
	return merged, nil
}

func (f *fakeAdmins) Remove(ctx context.Context, id int64, by string) (domain.AdminUser, error) {
	a, err := f.Get(ctx, id)
	if err != nil {
		return a, err
	}
	a.Deleted, a.DeletedBy = true, &by
	f.rows[id] = a
	return a, nil
}

func (f *fakeAdmins) Restore(ctx context.Context, id int64, by string) (domain.AdminUser, error) {
	a, ok := f.rows[id]
	if !ok || !a.Deleted {
		return domain.AdminUser{}, domain.ErrNotFound
	}
	a.Deleted, a.DeletedBy = false, nil
	f.rows[id] = a
	return a, nil
}

func (f *fakeAdmins) HardDelete(ctx context.Context, id int64) (domain.AdminUser, error) {
	a, ok := f.rows[id]
	if !ok {
		return domain.AdminUser{}, domain.ErrNotFound
	}
	delete(f.rows, id)
	return a, nil
}

func (f *fakeAdmins) GetByUsername(ctx context.Context, username string) (domain.AdminUser, error) {
	for _, a := range f.rows {
		if a.Username == username && a.IsActive && !a.Deleted {
			return a, nil
		}
	}
	return domain.AdminUser{}, domain.ErrNotFound
}

func (f *fakeAdmins) ListByTenant(ctx context.Context, tenantID int64, p domain.Page) ([]domain.AdminUser, error) {
	all, _ := f.List(ctx, p)
	var out []domain.AdminUser
	for _, a := range all {
		if a.TenantID != nil && *a.TenantID == tenantID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAdmins) CountByTenant(ctx context.Context, tenantID int64, includeDeleted bool) (int64, error) {
	out, _ := f.ListByTenant(ctx, tenantID, domain.Page{IncludeDeleted: includeDeleted})
	return int64(len(out)), nil
}

func (f *fakeAdmins) TouchLogin(ctx context.Context, id int64) error {
	f.touched = append(f.touched, id)
	return nil
}

func ptr[T any](v T) *T { return &v }
