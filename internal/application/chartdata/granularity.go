package chartdata

import (
	"fmt"
	"time"
)

// DailyThresholdDays is the longest span, in days, still charted per day.
// Ranges longer than this switch to weekly buckets.
const DailyThresholdDays = 14

// Unit is the bucketing unit of a time series.
type Unit string

const (
	UnitDay  Unit = "day"
	UnitWeek Unit = "week"
)

// Bucket is one slot on a time axis. Anchor is used for membership tests.
type Bucket struct {
	Label  string
	Anchor time.Time
	Start  time.Time
	End    time.Time // exclusive
}

// BucketFormatter renders bucket labels. Injected so labels can follow the
// deployment's locale without the core knowing about it.
type BucketFormatter interface {
	FormatBucket(unit Unit, anchor time.Time) string
	LabelFormat(unit Unit) string
}

// LayoutFormatter formats days with a time layout and weeks with a
// fmt pattern taking the ISO week number.
type LayoutFormatter struct {
	DayLayout   string
	WeekPattern string
}

// DefaultFormatter labels days "02/01" and weeks "Week 7".
var DefaultFormatter = LayoutFormatter{DayLayout: "02/01", WeekPattern: "Week %d"}

// FormatBucket renders the label for the bucket anchored at anchor.
func (f LayoutFormatter) FormatBucket(unit Unit, anchor time.Time) string {
	if unit == UnitWeek {
		_, week := anchor.ISOWeek()
		return fmt.Sprintf(f.WeekPattern, week)
	}
	return anchor.Format(f.DayLayout)
}

// LabelFormat returns the pattern used for unit.
func (f LayoutFormatter) LabelFormat(unit Unit) string {
	if unit == UnitWeek {
		return f.WeekPattern
	}
	return f.DayLayout
}

// Granularity is the bucketing strategy chosen for a range.
type Granularity struct {
	Unit        Unit
	LabelFormat string
	Buckets     func(DateRange) []Bucket
	SameBucket  func(a, b time.Time) bool
}

// SelectGranularity picks daily buckets for spans up to DailyThresholdDays
// and Monday-start weekly buckets beyond that.
// PRE: rng.From <= rng.To
// POST: Returns a Granularity whose Buckets cover rng without gaps
func SelectGranularity(rng DateRange, f BucketFormatter) Granularity {
	if f == nil {
		f = DefaultFormatter
	}
	loc := rng.Location()

	if rng.SpanDays() <= DailyThresholdDays {
		return Granularity{
			Unit:        UnitDay,
			LabelFormat: f.LabelFormat(UnitDay),
			Buckets: func(r DateRange) []Bucket {
				return dayBuckets(r, loc, f)
			},
			SameBucket: func(a, b time.Time) bool {
				return startOfDay(a.In(loc)).Equal(startOfDay(b.In(loc)))
			},
		}
	}

	return Granularity{
		Unit:        UnitWeek,
		LabelFormat: f.LabelFormat(UnitWeek),
		Buckets: func(r DateRange) []Bucket {
			return weekBuckets(r, loc, f)
		},
		SameBucket: func(a, b time.Time) bool {
			ay, aw := a.In(loc).ISOWeek()
			by, bw := b.In(loc).ISOWeek()
			return ay == by && aw == bw
		},
	}
}

func dayBuckets(r DateRange, loc *time.Location, f BucketFormatter) []Bucket {
	var out []Bucket
	end := r.To.In(loc)
	for d := startOfDay(r.From.In(loc)); !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, Bucket{
			Label:  f.FormatBucket(UnitDay, d),
			Anchor: d,
			Start:  d,
			End:    d.AddDate(0, 0, 1),
		})
	}
	return out
}

func weekBuckets(r DateRange, loc *time.Location, f BucketFormatter) []Bucket {
	var out []Bucket
	end := r.To.In(loc)
	for w := startOfWeek(r.From.In(loc)); !w.After(end); w = w.AddDate(0, 0, 7) {
		out = append(out, Bucket{
			Label:  f.FormatBucket(UnitWeek, w),
			Anchor: w,
			Start:  w,
			End:    w.AddDate(0, 0, 7),
		})
	}
	return out
}

// startOfWeek returns midnight of the Monday on or before t.
func startOfWeek(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return startOfDay(t).AddDate(0, 0, -(weekday - 1))
}
