package perf

import (
	"sync"
	"testing"
	"time"
)

// TestCollector_RoutesAndQueries verifies requests and queries are aggregated separately.
func TestCollector_RoutesAndQueries(t *testing.T) {
	c := NewCollector(100)
	now := time.Now()

	c.Record(Entry{Kind: KindRequest, Name: "GET /api/dashboard/{view}", Status: 200, DurationMs: 10, At: now})
	c.Record(Entry{Kind: KindRequest, Name: "GET /api/dashboard/{view}", Status: 500, DurationMs: 30, At: now})
	c.Record(Entry{Kind: KindQuery, Name: "SELECT enrollment", DurationMs: 5, At: now})

	snap := c.Snapshot(now.Add(-time.Minute), 10)
	if snap.TotalRecorded != 3 || snap.Requests != 2 {
		t.Errorf("TotalRecorded=%d Requests=%d, want 3 and 2", snap.TotalRecorded, snap.Requests)
	}
	if snap.ServerErrors != 1 {
		t.Errorf("ServerErrors=%d, want 1", snap.ServerErrors)
	}
	if len(snap.SlowestRoutes) != 1 || snap.SlowestRoutes[0].AvgMs != 20 || snap.SlowestRoutes[0].MaxMs != 30 {
		t.Fatalf("SlowestRoutes=%+v", snap.SlowestRoutes)
	}
	if len(snap.SlowestQueries) != 1 || snap.SlowestQueries[0].Name != "SELECT enrollment" {
		t.Fatalf("SlowestQueries=%+v", snap.SlowestQueries)
	}
}

// TestCollector_RingOverwritesOldest verifies a full buffer keeps only the latest entries.
func TestCollector_RingOverwritesOldest(t *testing.T) {
	c := NewCollector(3)
	now := time.Now()
	for i := 0; i < 5; i++ {
		c.Record(Entry{Kind: KindRequest, Name: "GET /x", DurationMs: float64(i), At: now})
	}

	if c.TotalRecorded() != 5 {
		t.Errorf("TotalRecorded=%d, want 5", c.TotalRecorded())
	}
	snap := c.Snapshot(now.Add(-time.Minute), 10)
	if snap.SlowestRoutes[0].Count != 3 || snap.SlowestRoutes[0].AvgMs != 3 {
		t.Errorf("route=%+v, want entries 2,3,4", snap.SlowestRoutes[0])
	}
}

// TestCollector_Percentiles verifies interpolated P50/P95/P99.
func TestCollector_Percentiles(t *testing.T) {
	c := NewCollector(200)
	now := time.Now()
	for i := 1; i <= 100; i++ {
		c.Record(Entry{Kind: KindRequest, Name: "GET /p", DurationMs: float64(i), At: now})
	}

	snap := c.Snapshot(now.Add(-time.Minute), 10)
	tests := []struct {
		name   string
		got    float64
		lo, hi float64
	}{
		{"p50", snap.RequestP50Ms, 49, 51},
		{"p95", snap.RequestP95Ms, 94, 96},
		{"p99", snap.RequestP99Ms, 98, 100},
	}
	for _, tt := range tests {
		if tt.got < tt.lo || tt.got > tt.hi {
			t.Errorf("%s=%v, want within [%v, %v]", tt.name, tt.got, tt.lo, tt.hi)
		}
	}
}

// TestCollector_SnapshotWindow verifies entries before since are excluded.
func TestCollector_SnapshotWindow(t *testing.T) {
	c := NewCollector(100)
	now := time.Now()
	c.Record(Entry{Kind: KindRequest, Name: "GET /old", DurationMs: 100, At: now.Add(-2 * time.Hour)})
	c.Record(Entry{Kind: KindRequest, Name: "GET /new", DurationMs: 10, At: now})

	snap := c.Snapshot(now.Add(-time.Hour), 10)
	if len(snap.SlowestRoutes) != 1 || snap.SlowestRoutes[0].Name != "GET /new" {
		t.Fatalf("SlowestRoutes=%+v, want only GET /new", snap.SlowestRoutes)
	}
}

// TestCollector_TopNTiesByName verifies the top-N cut is deterministic.
func TestCollector_TopNTiesByName(t *testing.T) {
	c := NewCollector(10)
	now := time.Now()
	for _, name := range []string{"SELECT student", "SELECT account", "SELECT staff"} {
		c.Record(Entry{Kind: KindQuery, Name: name, DurationMs: 4, At: now})
	}

	snap := c.Snapshot(now.Add(-time.Minute), 2)
	if len(snap.SlowestQueries) != 2 {
		t.Fatalf("SlowestQueries=%d, want 2", len(snap.SlowestQueries))
	}
	if snap.SlowestQueries[0].Name != "SELECT account" || snap.SlowestQueries[1].Name != "SELECT staff" {
		t.Errorf("order=%+v", snap.SlowestQueries)
	}
}

// TestCollector_ConcurrentWrites verifies Record is safe across goroutines.
func TestCollector_ConcurrentWrites(t *testing.T) {
	c := NewCollector(1000)
	now := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				c.Record(Entry{Kind: KindRequest, Name: "GET /c", DurationMs: float64(n), At: now})
			}
		}(i)
	}
	wg.Wait()
	if c.TotalRecorded() != 1000 {
		t.Errorf("TotalRecorded=%d, want 1000", c.TotalRecorded())
	}
}

// BenchmarkCollectorRecord measures the per-call cost of Record.
func BenchmarkCollectorRecord(b *testing.B) {
	c := NewCollector(DefaultRingSize)
	e := Entry{Kind: KindRequest, Name: "GET /api/students", Status: 200, DurationMs: 1.5, At: time.Now()}
	b.ReportAllocs()
	for b.Loop() {
		c.Record(e)
	}
}
