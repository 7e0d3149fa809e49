package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"studio/internal/adapters/http/perf"
)

func okHandler(status int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	})
}

// TestTiming_RecordsRouteAndStatus verifies the recorded entry carries the route label and status.
func TestTiming_RecordsRouteAndStatus(t *testing.T) {
	collector := perf.NewCollector(1)
	handler := Timing(collector)(okHandler(http.StatusCreated))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("POST", "/api/students", nil))

	snap := collector.Snapshot(time.Now().Add(-time.Minute), 10)
	if len(snap.SlowestRoutes) != 1 {
		t.Fatalf("SlowestRoutes=%d, want 1", len(snap.SlowestRoutes))
	}
	if got := snap.SlowestRoutes[0].Name; got != "POST /api/students" {
		t.Errorf("Name=%q, want POST /api/students", got)
	}
	if snap.SlowestRoutes[0].AvgMs < 0 {
		t.Errorf("AvgMs=%v, want >= 0", snap.SlowestRoutes[0].AvgMs)
	}
}

// TestTiming_SkipsStatic verifies static assets are not timed.
func TestTiming_SkipsStatic(t *testing.T) {
	collector := perf.NewCollector(100)
	rr := httptest.NewRecorder()
	Timing(collector)(okHandler(http.StatusOK)).ServeHTTP(rr, httptest.NewRequest("GET", "/static/app.css", nil))

	if collector.TotalRecorded() != 0 {
		t.Errorf("TotalRecorded=%d, want 0", collector.TotalRecorded())
	}
	if rr.Code != http.StatusOK {
		t.Errorf("status=%d, want 200", rr.Code)
	}
}

// TestTiming_NilCollector verifies the middleware works without a collector.
func TestTiming_NilCollector(t *testing.T) {
	rr := httptest.NewRecorder()
	Timing(nil)(okHandler(http.StatusNoContent)).ServeHTTP(rr, httptest.NewRequest("GET", "/api/students", nil))
	if rr.Code != http.StatusNoContent {
		t.Errorf("status=%d, want 204", rr.Code)
	}
}

// TestTiming_HandlerPanic verifies the entry is recorded even when the handler panics.
func TestTiming_HandlerPanic(t *testing.T) {
	collector := perf.NewCollector(100)
	handler := Timing(collector)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic to propagate")
		}
		if collector.TotalRecorded() != 1 {
			t.Errorf("TotalRecorded=%d, want 1", collector.TotalRecorded())
		}
	}()
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/dashboard/overview", nil))
}

// TestTiming_PoolDoesNotLeakStatus verifies a reused writer starts at 200.
func TestTiming_PoolDoesNotLeakStatus(t *testing.T) {
	collector := perf.NewCollector(100)
	Timing(collector)(okHandler(http.StatusInternalServerError)).
		ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/fail", nil))

	implicit := Timing(collector)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	implicit.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/ok", nil))

	snap := collector.Snapshot(time.Now().Add(-time.Minute), 10)
	if snap.ServerErrors != 1 {
		t.Errorf("ServerErrors=%d, want 1 (second request must record 200)", snap.ServerErrors)
	}
}

// TestRouteLabel verifies entity IDs collapse to a placeholder.
func TestRouteLabel(t *testing.T) {
	tests := map[string]string{
		"/api/students":                                               "GET /api/students",
		"/api/equipment/6f1c2a4e-8d3b-4f7a-9c21-5e0b7d9a1f33/status":  "GET /api/equipment/{id}/status",
		"/api/dashboard/overview":                                     "GET /api/dashboard/overview",
		"/api/students/6f1c2a4e-8d3b-4f7a-9c21-5e0b7d9a1f33/activate": "GET /api/students/{id}/activate",
	}
	for path, want := range tests {
		if got := RouteLabel("GET", path); got != want {
			t.Errorf("RouteLabel(%q)=%q, want %q", path, got, want)
		}
	}
}

// BenchmarkTiming measures per-request overhead.
func BenchmarkTiming(b *testing.B) {
	handler := Timing(perf.NewCollector(perf.DefaultRingSize))(okHandler(http.StatusOK))
	req := httptest.NewRequest("GET", "/api/dashboard/overview", nil)
	b.ReportAllocs()
	for b.Loop() {
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}
}
