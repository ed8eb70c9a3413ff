package observability_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"hotel_saas/internal/adapters/observability"
)

func TestMetricsRegistryAndHandler(t *testing.T) {
	reg := observability.InitRegistry()

	// record one sample per family so the vectors show up in the output
	observability.ObserveHTTP("/test", "GET", 200, 12*time.Millisecond)
	observability.ObserveStore("rooms", "get", "not_found", 3*time.Millisecond)
	observability.ObserveAuth("login", "ok")

	mh := observability.MetricsHandler(reg)
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	out := string(body)
	for _, name := range []string{
		"hotel_http_requests_total",
		`hotel_store_operations_total{op="get",outcome="not_found",table="rooms"}`,
		"hotel_auth_events_total",
	} {
		if !strings.Contains(out, name) {
			t.Fatalf("expected %s in output", name)
		}
	}
}

func TestNewLogger_Level(t *testing.T) {
	if got := observability.NewLogger("prod", "warn").GetLevel(); got != zerolog.WarnLevel {
		t.Fatalf("level = %v", got)
	}
	if got := observability.NewLogger("dev", "nonsense").GetLevel(); got != zerolog.InfoLevel {
		t.Fatalf("fallback level = %v", got)
	}
}
