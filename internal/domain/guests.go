package domain

import (
	"strings"
	"time"
)

type Customer struct {
	Audit
	Owned
	FullName    string  `json:"full_name"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	IDNumber    *string `json:"id_number"`
	Nationality *string `json:"nationality"`
	Notes       *string `json:"notes"`
}

func (c *Customer) Validate() error {
	if strings.TrimSpace(c.FullName) == "" {
		return invalid("full_name", "required")
	}
	if c.Email != nil && *c.Email != "" && !strings.Contains(*c.Email, "@") {
		return invalid("email", "malformed")
	}
	return nil
}

type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingConfirmed  BookingStatus = "confirmed"
	BookingCheckedIn  BookingStatus = "checked_in"
	BookingCheckedOut BookingStatus = "checked_out"
	BookingCancelled  BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCheckedIn, BookingCheckedOut, BookingCancelled:
		return true
	}
	return false
}

type Booking struct {
	Audit
	Owned
	CustomerID  int64         `json:"customer_id"`
	RoomID      int64         `json:"room_id"`
	CheckIn     time.Time     `json:"check_in"`
	CheckOut    time.Time     `json:"check_out"`
	Guests      int           `json:"guests"`
	Status      BookingStatus `json:"status"`
	TotalAmount float64       `json:"total_amount"`
	VoucherID   *int64        `json:"voucher_id"`
	Notes       *string       `json:"notes"`
}

func (b *Booking) Validate() error {
	if b.CustomerID <= 0 {
		return invalid("customer_id", "required")
	}
	if b.RoomID <= 0 {
		return invalid("room_id", "required")
	}
	if b.CheckIn.IsZero() {
		return invalid("check_in", "required")
	}
	if !b.CheckOut.After(b.CheckIn) {
		return invalid("check_out", "must be after check_in")
	}
	if b.Guests < 1 {
		return invalid("guests", "must be at least 1")
	}
	if b.TotalAmount < 0 {
		return invalid("total_amount", "must not be negative")
	}
	if b.Status == "" {
		b.Status = BookingPending
	}
	if !b.Status.Valid() {
		return invalid("status", "unknown booking status")
	}
	return nil
}
