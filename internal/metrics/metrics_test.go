package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/eugenenazirov/layered-configs/internal/properties"
)

func TestCollectorCountsLookupsAndWrites(t *testing.T) {
	t.Parallel()

	c := NewCollector("test")
	c.ObserveLookup(properties.SourceStore)
	c.ObserveLookup(properties.SourceStore)
	c.ObserveLookup(properties.SourceDefault)
	c.ObserveWrite(WriteProtected)

	if got := testutil.ToFloat64(c.lookups.WithLabelValues("store")); got != 2 {
		t.Fatalf("expected 2 store lookups, got %v", got)
	}
	if got := testutil.ToFloat64(c.lookups.WithLabelValues("default")); got != 1 {
		t.Fatalf("expected 1 default lookup, got %v", got)
	}
	if got := testutil.ToFloat64(c.writes.WithLabelValues(WriteProtected)); got != 1 {
		t.Fatalf("expected 1 protected write, got %v", got)
	}
}

func TestCollectorHandlerExposesMetrics(t *testing.T) {
	t.Parallel()

	c := NewCollector("test")
	c.ObserveRequest("/api/properties", http.MethodGet, http.StatusOK, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"test_http_requests_total", "test_http_request_duration_seconds", `status="200"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected exposition to contain %q", want)
		}
	}
}

func TestNilCollectorIsNoop(t *testing.T) {
	t.Parallel()

	var c *Collector
	c.ObserveLookup(properties.SourceNone)
	c.ObserveWrite(WriteOK)
	c.ObserveRequest("/", http.MethodGet, http.StatusOK, time.Millisecond)

	if c.Registry() != nil {
		t.Fatalf("expected nil registry from nil collector")
	}
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 from nil collector handler, got %d", rec.Code)
	}
}
