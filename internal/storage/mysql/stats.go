package mysql

import (
	"context"
	"database/sql"
	"time"

	"hotel_saas/internal/adapters/observability"
	"hotel_saas/internal/domain"
)

// Stats runs the dashboard aggregates. The three queries are independent
// reads and are not taken from one snapshot.
type Stats struct{ db *sql.DB }

func NewStats(db *sql.DB) *Stats { return &Stats{db: db} }

func (s *Stats) TenantStats(ctx context.Context, tenantID int64) (d domain.Dashboard, err error) {
	start := time.Now()
	defer func() {
		err = classify("stats.tenant", err)
		observability.ObserveStore("dashboard", "tenant_stats", outcome(err), time.Since(start))
	}()

	d = domain.Dashboard{
		TenantID:         tenantID,
		RoomsByStatus:    map[string]int64{},
		BookingsByStatus: map[string]int64{},
	}

	rows, err := s.db.QueryContext(ctx, roomsByStatusSQL, tenantID)
	if err != nil {
		return domain.Dashboard{}, err
	}
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			rows.Close()
			return domain.Dashboard{}, err
		}
		d.RoomsByStatus[status] = n
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return domain.Dashboard{}, err
	}

	rows, err = s.db.QueryContext(ctx, bookingsByStatusSQL, tenantID)
	if err != nil {
		return domain.Dashboard{}, err
	}
	for rows.Next() {
		var status string
		var n int64
		var amount float64
		if err := rows.Scan(&status, &n, &amount); err != nil {
			rows.Close()
			return domain.Dashboard{}, err
		}
		d.BookingsByStatus[status] = n
		if domain.BookingStatus(status) != domain.BookingCancelled {
			d.Revenue += amount
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return domain.Dashboard{}, err
	}

	if err := s.db.QueryRowContext(ctx, activeCustomersSQL, tenantID).Scan(&d.Customers); err != nil {
		return domain.Dashboard{}, err
	}
	return d, nil
}
