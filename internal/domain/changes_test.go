package domain_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"hotel_saas/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func sampleRoom() domain.Room {
	r := domain.Room{
		Name:        "Deluxe 101",
		RoomType:    "deluxe",
		Floor:       1,
		Capacity:    2,
		Price:       100,
		Status:      domain.RoomAvailable,
		Description: ptr("sea view"),
	}
	r.ID = 10
	r.TenantID = 1
	r.CreatedBy = ptr("admin1")
	return r
}

func TestMerge_PartialUpdateKeepsUntouchedFields(t *testing.T) {
	existing := sampleRoom()
	out, err := domain.Merge(existing, domain.Changes{
		"price":     json.RawMessage(`150`),
		"tenant_id": json.RawMessage(`999`),
		"id":        json.RawMessage(`5`),
		"deleted":   json.RawMessage(`true`),
	})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if out.Price != 150 {
		t.Fatalf("price not applied: %v", out.Price)
	}
	if out.Name != "Deluxe 101" || out.Floor != 1 || out.Capacity != 2 || *out.Description != "sea view" {
		t.Fatalf("untouched fields changed: %+v", out)
	}
	if out.ID != 10 || out.TenantID != 1 || out.Deleted {
		t.Fatalf("protected fields changed: id=%d tenant=%d deleted=%v", out.ID, out.TenantID, out.Deleted)
	}
	if *out.CreatedBy != "admin1" {
		t.Fatalf("created_by changed: %s", *out.CreatedBy)
	}
}

func TestMerge_DoesNotWriteThroughExistingPointers(t *testing.T) {
	existing := sampleRoom()
	out, err := domain.Merge(existing, domain.Changes{"description": json.RawMessage(`"garden"`)})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if *out.Description != "garden" {
		t.Fatalf("description = %q", *out.Description)
	}
	if *existing.Description != "sea view" {
		t.Fatalf("existing mutated: %q", *existing.Description)
	}
}

func TestMerge_NullClearsOptionalField(t *testing.T) {
	out, err := domain.Merge(sampleRoom(), domain.Changes{"description": json.RawMessage(`null`)})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if out.Description != nil {
		t.Fatalf("expected nil description, got %q", *out.Description)
	}
}

func TestMerge_RejectsUnknownAndMistypedFields(t *testing.T) {
	_, err := domain.Merge(sampleRoom(), domain.Changes{"colour": json.RawMessage(`"red"`)})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("unknown field: expected validation error, got %v", err)
	}
	_, err = domain.Merge(sampleRoom(), domain.Changes{"floor": json.RawMessage(`"third"`)})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("mistyped field: expected validation error, got %v", err)
	}
}

func TestMerge_KeepsHiddenFields(t *testing.T) {
	a := domain.AdminUser{Username: "ops", Email: "ops@example.com", Role: domain.RoleAdmin, PasswordHash: "hash"}
	out, err := domain.Merge(a, domain.Changes{"email": json.RawMessage(`"new@example.com"`)})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if out.PasswordHash != "hash" || out.Email != "new@example.com" {
		t.Fatalf("unexpected admin: %+v", out)
	}
}

func TestMerge_IgnoresLastLogin(t *testing.T) {
	seen := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	a := domain.AdminUser{Username: "ops", Email: "ops@example.com", Role: domain.RoleAdmin, LastLoginAt: &seen}
	out, err := domain.Merge(a, domain.Changes{"last_login_at": json.RawMessage(`"2030-01-01T00:00:00Z"`)})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if out.LastLoginAt == nil || !out.LastLoginAt.Equal(seen) {
		t.Fatalf("last_login_at changed: %v", out.LastLoginAt)
	}
}
