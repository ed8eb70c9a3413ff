package mysql

import "hotel_saas/internal/domain"

// Table layouts. Column order must match the Fields order.

var Rooms = Schema[domain.Room]{
	Table:   "rooms",
	Columns: []string{"name", "room_type", "floor", "capacity", "price", "status", "description"},
	Fields: func(r *domain.Room) []any {
		return []any{&r.Name, &r.RoomType, &r.Floor, &r.Capacity, &r.Price, &r.Status, &r.Description}
	},
}

var Facilities = Schema[domain.Facility]{
	Table:   "facilities",
	Columns: []string{"name", "category", "description", "is_active"},
	Fields: func(f *domain.Facility) []any {
		return []any{&f.Name, &f.Category, &f.Description, &f.IsActive}
	},
}

var Services = Schema[domain.Service]{
	Table:   "services",
	Columns: []string{"name", "price", "unit", "description", "is_active"},
	Fields: func(s *domain.Service) []any {
		return []any{&s.Name, &s.Price, &s.Unit, &s.Description, &s.IsActive}
	},
}

var Customers = Schema[domain.Customer]{
	Table:   "customers",
	Columns: []string{"full_name", "email", "phone", "id_number", "nationality", "notes"},
	Fields: func(c *domain.Customer) []any {
		return []any{&c.FullName, &c.Email, &c.Phone, &c.IDNumber, &c.Nationality, &c.Notes}
	},
}

var Bookings = Schema[domain.Booking]{
	Table:   "bookings",
	Columns: []string{"customer_id", "room_id", "check_in", "check_out", "guests", "status", "total_amount", "voucher_id", "notes"},
	Fields: func(b *domain.Booking) []any {
		return []any{&b.CustomerID, &b.RoomID, &b.CheckIn, &b.CheckOut, &b.Guests, &b.Status, &b.TotalAmount, &b.VoucherID, &b.Notes}
	},
}

var Vouchers = Schema[domain.Voucher]{
	Table:   "vouchers",
	Columns: []string{"code", "discount_type", "discount_value", "valid_from", "valid_to", "max_uses", "used_count", "is_active"},
	Fields: func(v *domain.Voucher) []any {
		return []any{&v.Code, &v.DiscountType, &v.DiscountValue, &v.ValidFrom, &v.ValidTo, &v.MaxUses, &v.UsedCount, &v.IsActive}
	},
}

var Promotions = Schema[domain.Promotion]{
	Table:   "promotions",
	Columns: []string{"title", "description", "discount_percent", "starts_at", "ends_at", "is_active"},
	Fields: func(p *domain.Promotion) []any {
		return []any{&p.Title, &p.Description, &p.DiscountPercent, &p.StartsAt, &p.EndsAt, &p.IsActive}
	},
}

var tenantSchema = Schema[domain.Tenant]{
	Table:   "tenants",
	Columns: []string{"name", "domain", "contact_email", "phone", "address", "plan", "is_active"},
	Fields: func(t *domain.Tenant) []any {
		return []any{&t.Name, &t.Domain, &t.ContactEmail, &t.Phone, &t.Address, &t.Plan, &t.IsActive}
	},
}

// tenant_id is an ordinary nullable column here: superadmins have none.
var adminSchema = Schema[domain.AdminUser]{
	Table:   "admin_users",
	Columns: []string{"tenant_id", "username", "email", "full_name", "role", "is_active", "last_login_at", "password_hash"},
	Fields: func(a *domain.AdminUser) []any {
		return []any{&a.TenantID, &a.Username, &a.Email, &a.FullName, &a.Role, &a.IsActive, &a.LastLoginAt, &a.PasswordHash}
	},
}

// -----------------------------------------------------------------------------
// DASHBOARD QUERIES
// -----------------------------------------------------------------------------

const roomsByStatusSQL = `
SELECT status, COUNT(*)
FROM rooms
WHERE tenant_id = ? AND deleted = 0
GROUP BY status
`

const bookingsByStatusSQL = `
SELECT status, COUNT(*), COALESCE(SUM(total_amount), 0)
FROM bookings
WHERE tenant_id = ? AND deleted = 0
GROUP BY status
`

const activeCustomersSQL = `
SELECT COUNT(*)
FROM customers
WHERE tenant_id = ? AND deleted = 0
`
