package chartdata

// Point is one bucket's count.
type Point struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// TimeSeriesAggregate is a gap-free sequence of bucket counts.
type TimeSeriesAggregate struct {
	Unit    Unit     `json:"unit"`
	Points  []Point  `json:"points"`
	Buckets []Bucket `json:"-"`
	Total   int      `json:"total"`
	IsEmpty bool     `json:"isEmpty"`
}

// Series counts records per bucket of g across rng.
// PRE: g came from SelectGranularity; timestampOf is non-nil
// POST: len(Points) equals the bucket count; zero buckets are kept
// INVARIANT: each record inside rng is counted in exactly one bucket
func Series[T any](records []T, rng DateRange, g Granularity, timestampOf TimestampFunc[T]) TimeSeriesAggregate {
	buckets := g.Buckets(rng)
	counts := make([]int, len(buckets))

	total := 0
	for _, r := range Filter(records, rng, timestampOf) {
		ts := timestampOf(r)
		for i, b := range buckets {
			if g.SameBucket(ts, b.Anchor) {
				counts[i]++
				total++
				break
			}
		}
	}

	points := make([]Point, len(buckets))
	for i, b := range buckets {
		points[i] = Point{Label: b.Label, Count: counts[i]}
	}

	return TimeSeriesAggregate{
		Unit:    g.Unit,
		Points:  points,
		Buckets: buckets,
		Total:   total,
		IsEmpty: total == 0,
	}
}
