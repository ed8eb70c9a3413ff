package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"hotel_saas/internal/app"
	"hotel_saas/internal/domain"
)

var (
	superActor = app.Actor{UserID: 1, Username: "root", Role: domain.RoleSuperAdmin}
	hotelAdmin = app.Actor{UserID: 10, Username: "owner", Role: domain.RoleAdmin, TenantID: ptr(int64(3))}
)

func seededAdmins() *fakeAdmins {
	return newFakeAdmins(
		domain.AdminUser{Audit: domain.Audit{ID: 1}, Username: "root", Email: "root@example.com", Role: domain.RoleSuperAdmin, IsActive: true, PasswordHash: "x"},
		domain.AdminUser{Audit: domain.Audit{ID: 10}, TenantID: ptr(int64(3)), Username: "owner", Email: "o@example.com", Role: domain.RoleAdmin, IsActive: true, PasswordHash: "x"},
		domain.AdminUser{Audit: domain.Audit{ID: 20}, TenantID: ptr(int64(4)), Username: "elsewhere", Email: "e@example.com", Role: domain.RoleAdmin, IsActive: true, PasswordHash: "x"},
	)
}

func TestAdmins_TenantAdminCreatesInOwnTenant(t *testing.T) {
	s := app.NewAdmins(seededAdmins())

	in := domain.AdminUser{TenantID: ptr(int64(4)), Username: "desk", Email: "desk@example.com", Role: domain.RoleStaff, IsActive: true}
	got, err := s.Create(context.Background(), hotelAdmin, in, "long-enough")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got.TenantID == nil || *got.TenantID != 3 {
		t.Fatalf("expected tenant 3, got %v", got.TenantID)
	}
	if bcrypt.CompareHashAndPassword([]byte(got.PasswordHash), []byte("long-enough")) != nil {
		t.Fatalf("password was not hashed")
	}
	if got.CreatedBy == nil || *got.CreatedBy != "owner" {
		t.Fatalf("unexpected created_by: %v", got.CreatedBy)
	}

	in.Role = domain.RoleSuperAdmin
	if _, err := s.Create(context.Background(), hotelAdmin, in, "long-enough"); !errors.Is(err, app.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestAdmins_VisibilityFollowsTenant(t *testing.T) {
	ctx := context.Background()
	s := app.NewAdmins(seededAdmins())

	if _, err := s.Get(ctx, hotelAdmin, 20); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for other tenant's admin, got %v", err)
	}
	if _, err := s.Get(ctx, superActor, 20); err != nil {
		t.Fatalf("superadmin get: %v", err)
	}

	pg, err := s.Page(ctx, hotelAdmin, domain.Page{})
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if pg.Total != 1 || len(pg.Items) != 1 || pg.Items[0].Username != "owner" {
		t.Fatalf("unexpected page: %+v", pg)
	}
	pg, err = s.Page(ctx, superActor, domain.Page{})
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if pg.Total != 3 {
		t.Fatalf("superadmin should see all admins, got %d", pg.Total)
	}
}

func TestAdmins_PatchHashesPassword(t *testing.T) {
	repo := seededAdmins()
	s := app.NewAdmins(repo)

	got, err := s.Patch(context.Background(), hotelAdmin, 10, domain.Changes{
		"password":  json.RawMessage(`"brand-new-pass"`),
		"full_name": json.RawMessage(`"Hotel Owner"`),
	})
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if got.FullName == nil || *got.FullName != "Hotel Owner" {
		t.Fatalf("full name not applied: %+v", got)
	}
	if bcrypt.CompareHashAndPassword([]byte(repo.rows[10].PasswordHash), []byte("brand-new-pass")) != nil {
		t.Fatalf("stored password hash not updated")
	}

	_, err = s.Patch(context.Background(), hotelAdmin, 10, domain.Changes{"role": json.RawMessage(`"staff"`)})
	if !errors.Is(err, app.ErrForbidden) {
		t.Fatalf("expected forbidden role change, got %v", err)
	}
}

func TestAdmins_RestoreAndPurgeAreSuperadminOnly(t *testing.T) {
	ctx := context.Background()
	s := app.NewAdmins(seededAdmins())

	if _, err := s.Remove(ctx, superActor, 20); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := s.Restore(ctx, hotelAdmin, 20); !errors.Is(err, app.ErrForbidden) {
		t.Fatalf("expected forbidden restore, got %v", err)
	}
	if _, err := s.Restore(ctx, superActor, 20); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if _, err := s.HardDelete(ctx, hotelAdmin, 20); !errors.Is(err, app.ErrForbidden) {
		t.Fatalf("expected forbidden purge, got %v", err)
	}
	if _, err := s.Remove(ctx, hotelAdmin, 10); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected self removal to be rejected, got %v", err)
	}
}
