package domain

import "time"

// Audit holds the bookkeeping columns shared by every stored record.
// The repository owns these fields; client payloads never set them.
type Audit struct {
	ID        int64      `json:"id"`
	Deleted   bool       `json:"deleted"`
	DeletedAt *time.Time `json:"deleted_at"`
	DeletedBy *string    `json:"deleted_by"`
	CreatedBy *string    `json:"created_by"`
	UpdatedBy *string    `json:"updated_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (a *Audit) Meta() *Audit { return a }

// Owned marks a record as belonging to exactly one tenant.
type Owned struct {
	TenantID int64 `json:"tenant_id"`
}

func (o *Owned) Owner() *int64 { return &o.TenantID }

type Entity interface {
	Meta() *Audit
	Validate() error
}

type TenantEntity interface {
	Entity
	Owner() *int64
}

// protectedFields are never taken from a partial update.
var protectedFields = map[string]struct{}{
	"id":            {},
	"tenant_id":     {},
	"deleted":       {},
	"deleted_at":    {},
	"deleted_by":    {},
	"created_by":    {},
	"updated_by":    {},
	"created_at":    {},
	"updated_at":    {},
	"last_login_at": {},
}

func IsProtectedField(name string) bool {
	_, ok := protectedFields[name]
	return ok
}

type activatable interface{ activate() }

func (f *Facility) activate()  { f.IsActive = true }
func (s *Service) activate()   { s.IsActive = true }
func (v *Voucher) activate()   { v.IsActive = true }
func (p *Promotion) activate() { p.IsActive = true }
func (t *Tenant) activate()    { t.IsActive = true }
func (a *AdminUser) activate() { a.IsActive = true }

// New returns a blank E carrying the column defaults a create body may omit:
// records with an is_active flag start active.
func New[E any]() E {
	var e E
	if a, ok := any(&e).(activatable); ok {
		a.activate()
	}
	return e
}
