package perf

import (
	"cmp"
	"math"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRingSize is the default capacity of the ring buffer.
const DefaultRingSize = 10000

// EntryKind distinguishes request vs query entries.
type EntryKind uint8

const (
	KindRequest EntryKind = iota
	KindQuery
)

// Entry is a single timing record stored in the ring buffer.
type Entry struct {
	Kind       EntryKind
	Name       string // route pattern ("GET /api/dashboard/{view}") or query label ("SELECT enrollment")
	Status     int    // HTTP status; 0 for queries
	DurationMs float64
	At         time.Time
}

// Collector is a fixed-size ring buffer of request and query timings.
// Record never blocks on aggregation; when full, the oldest entry is overwritten.
type Collector struct {
	mu      sync.Mutex
	entries []Entry
	pos     int
	count   atomic.Int64
}

// NewCollector creates a collector with the given ring buffer capacity.
// PRE: size > 0, otherwise DefaultRingSize is used
// POST: Returns a ready-to-use collector with pre-allocated storage
func NewCollector(size int) *Collector {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Collector{entries: make([]Entry, size)}
}

// Record stores e, overwriting the oldest entry when the buffer is full.
func (c *Collector) Record(e Entry) {
	c.mu.Lock()
	c.entries[c.pos] = e
	c.pos = (c.pos + 1) % len(c.entries)
	c.mu.Unlock()
	c.count.Add(1)
}

// TotalRecorded returns the number of entries ever recorded, including overwritten ones.
func (c *Collector) TotalRecorded() int64 {
	return c.count.Load()
}

// Snapshot is the aggregated view served by the admin perf endpoint.
type Snapshot struct {
	Since          time.Time `json:"since"`
	TotalRecorded  int64     `json:"totalRecorded"`
	Requests       int       `json:"requests"`
	ServerErrors   int       `json:"serverErrors"`
	RequestP50Ms   float64   `json:"requestP50Ms"`
	RequestP95Ms   float64   `json:"requestP95Ms"`
	RequestP99Ms   float64   `json:"requestP99Ms"`
	SlowestRoutes  []Stat    `json:"slowestRoutes"`
	SlowestQueries []Stat    `json:"slowestQueries"`
}

// Stat aggregates timings for one route or query label.
type Stat struct {
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	AvgMs   float64 `json:"avgMs"`
	MaxMs   float64 `json:"maxMs"`
	TotalMs float64 `json:"-"`
}

func (s *Stat) add(durationMs float64) {
	s.Count++
	s.TotalMs += durationMs
	s.MaxMs = max(s.MaxMs, durationMs)
}

// Snapshot aggregates entries recorded at or after since.
// It copies the ring under the lock and sorts outside it.
// POST: SlowestRoutes and SlowestQueries hold at most topN stats each, slowest average first
func (c *Collector) Snapshot(since time.Time, topN int) Snapshot {
	c.mu.Lock()
	buf := slices.Clone(c.entries)
	c.mu.Unlock()

	snap := Snapshot{Since: since, TotalRecorded: c.TotalRecorded()}
	var durations []float64
	routes := make(map[string]*Stat)
	queries := make(map[string]*Stat)

	for _, e := range buf {
		if e.At.IsZero() || e.At.Before(since) {
			continue
		}
		stats := queries
		if e.Kind == KindRequest {
			stats = routes
			durations = append(durations, e.DurationMs)
			if e.Status >= 500 {
				snap.ServerErrors++
			}
		}
		s, ok := stats[e.Name]
		if !ok {
			s = &Stat{Name: e.Name}
			stats[e.Name] = s
		}
		s.add(e.DurationMs)
	}

	snap.Requests = len(durations)
	snap.SlowestRoutes = topByAvg(routes, topN)
	snap.SlowestQueries = topByAvg(queries, topN)
	if len(durations) > 0 {
		slices.Sort(durations)
		snap.RequestP50Ms = percentile(durations, 50)
		snap.RequestP95Ms = percentile(durations, 95)
		snap.RequestP99Ms = percentile(durations, 99)
	}
	return snap
}

// percentile interpolates the p-th percentile of a sorted slice.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (p / 100) * float64(len(sorted)-1)
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))
	if lower == upper {
		return sorted[lower]
	}
	frac := idx - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

// topByAvg returns at most n stats, slowest average first; ties sort by name.
func topByAvg(stats map[string]*Stat, n int) []Stat {
	list := make([]Stat, 0, len(stats))
	for _, s := range stats {
		s.AvgMs = s.TotalMs / float64(s.Count)
		list = append(list, *s)
	}
	slices.SortFunc(list, func(a, b Stat) int {
		if c := cmp.Compare(b.AvgMs, a.AvgMs); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	if len(list) > n {
		list = list[:n]
	}
	return list
}
