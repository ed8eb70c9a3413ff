package domain

import (
	"strings"
	"time"
)

type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountAmount  DiscountType = "amount"
)

// Voucher codes are unique within a tenant.
type Voucher struct {
	Audit
	Owned
	Code          string       `json:"code"`
	DiscountType  DiscountType `json:"discount_type"`
	DiscountValue float64      `json:"discount_value"`
	ValidFrom     *time.Time   `json:"valid_from"`
	ValidTo       *time.Time   `json:"valid_to"`
	MaxUses       *int         `json:"max_uses"`
	UsedCount     int          `json:"used_count"`
	IsActive      bool         `json:"is_active"`
}

func (v *Voucher) Validate() error {
	v.Code = strings.ToUpper(strings.TrimSpace(v.Code))
	if v.Code == "" {
		return invalid("code", "required")
	}
	switch v.DiscountType {
	case DiscountPercent:
		if v.DiscountValue <= 0 || v.DiscountValue > 100 {
			return invalid("discount_value", "percent must be in (0, 100]")
		}
	case DiscountAmount:
		if v.DiscountValue <= 0 {
			return invalid("discount_value", "must be positive")
		}
	default:
		return invalid("discount_type", "must be percent or amount")
	}
	if v.ValidFrom != nil && v.ValidTo != nil && v.ValidTo.Before(*v.ValidFrom) {
		return invalid("valid_to", "must not be before valid_from")
	}
	if v.MaxUses != nil && *v.MaxUses < 0 {
		return invalid("max_uses", "must not be negative")
	}
	return nil
}

type Promotion struct {
	Audit
	Owned
	Title           string    `json:"title"`
	Description     *string   `json:"description"`
	DiscountPercent float64   `json:"discount_percent"`
	StartsAt        time.Time `json:"starts_at"`
	EndsAt          time.Time `json:"ends_at"`
	IsActive        bool      `json:"is_active"`
}

func (p *Promotion) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return invalid("title", "required")
	}
	if p.DiscountPercent < 0 || p.DiscountPercent > 100 {
		return invalid("discount_percent", "must be in [0, 100]")
	}
	if p.StartsAt.IsZero() {
		return invalid("starts_at", "required")
	}
	if !p.EndsAt.After(p.StartsAt) {
		return invalid("ends_at", "must be after starts_at")
	}
	return nil
}
