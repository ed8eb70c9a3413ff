package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redisad "hotel_saas/internal/adapters/redis"
	"hotel_saas/internal/domain"
)

func TestCache_SetGetDel(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	defer c.Close()
	ctx := context.Background()

	if err := c.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	var miss domain.Room
	ok, err := c.Get(ctx, "room:1:10", &miss)
	if err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	in := domain.Room{Name: "Deluxe 101", RoomType: "deluxe", Capacity: 2}
	in.ID, in.TenantID = 10, 1
	if err := c.Set(ctx, "room:1:10", in, 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	if ttl := mr.TTL("room:1:10"); ttl != 60*time.Second {
		t.Fatalf("ttl = %v", ttl)
	}

	var out domain.Room
	ok, err = c.Get(ctx, "room:1:10", &out)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if out.ID != 10 || out.TenantID != 1 || out.Name != "Deluxe 101" {
		t.Fatalf("unexpected room: %+v", out)
	}

	if err := c.Del(ctx, "room:1:10"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if mr.Exists("room:1:10") {
		t.Fatalf("key still present after Del")
	}
}

func TestCache_Expiry(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "dashboard:1", domain.Dashboard{TenantID: 1, Customers: 4}, 5); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(6 * time.Second)

	var d domain.Dashboard
	if ok, _ := c.Get(ctx, "dashboard:1", &d); ok {
		t.Fatalf("expected expired entry")
	}
}
