package domain

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// Page is simple offset pagination. Totals are computed separately and may
// drift from the page contents under concurrent writes.
type Page struct {
	Skip           int
	Limit          int
	IncludeDeleted bool
}

func (p Page) Normalize() Page {
	if p.Skip < 0 {
		p.Skip = 0
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

type PageResult[E any] struct {
	Items []E   `json:"items"`
	Total int64 `json:"total"`
	Skip  int   `json:"skip"`
	Limit int   `json:"limit"`
}

// Dashboard is the per-tenant summary shown on the admin home page.
type Dashboard struct {
	TenantID         int64            `json:"tenant_id"`
	RoomsByStatus    map[string]int64 `json:"rooms_by_status"`
	BookingsByStatus map[string]int64 `json:"bookings_by_status"`
	Revenue          float64          `json:"revenue"`
	Customers        int64            `json:"customers"`
}
