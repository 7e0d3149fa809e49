// Package chartdata turns fetched record collections into chart-ready
// aggregates: range filtering, categorical breakdowns and time series with
// adaptive day/week buckets. Everything here is pure and synchronous.
package chartdata

import "time"

// TimestampFunc extracts the timestamp a chart filters on.
// A zero time.Time means the record has no timestamp.
type TimestampFunc[T any] func(T) time.Time

// Filter returns the records whose timestamp lies inside rng.
// PRE: timestampOf is non-nil
// POST: Returns a new slice in input order; records without a timestamp are dropped
// INVARIANT: records is not mutated
func Filter[T any](records []T, rng DateRange, timestampOf TimestampFunc[T]) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		ts := timestampOf(r)
		if ts.IsZero() || !rng.Contains(ts) {
			continue
		}
		out = append(out, r)
	}
	return out
}
