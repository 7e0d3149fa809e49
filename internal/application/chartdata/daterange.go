package chartdata

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidRange is returned when a range starts after it ends.
var ErrInvalidRange = errors.New("invalid date range: from is after to")

const day = 24 * time.Hour

// DateRange is an inclusive [From, To] window selected for a dashboard view.
type DateRange struct {
	From time.Time
	To   time.Time
}

// NewDateRange builds a range and rejects inverted bounds.
// PRE: none
// POST: Returns a range with From <= To, or ErrInvalidRange
func NewDateRange(from, to time.Time) (DateRange, error) {
	if from.After(to) {
		return DateRange{}, fmt.Errorf("%w (%s > %s)", ErrInvalidRange, from.Format(time.RFC3339), to.Format(time.RFC3339))
	}
	return DateRange{From: from, To: to}, nil
}

// ParseDateRange parses YYYY-MM-DD or RFC 3339 bounds in loc.
// A date-only "to" covers the whole of that day.
func ParseDateRange(from, to string, loc *time.Location) (DateRange, error) {
	if loc == nil {
		loc = time.Local
	}
	f, _, err := parseBound(from, loc)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid from: %w", err)
	}
	t, dateOnly, err := parseBound(to, loc)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid to: %w", err)
	}
	if dateOnly {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return NewDateRange(f, t)
}

func parseBound(s string, loc *time.Location) (time.Time, bool, error) {
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false, err
	}
	return t.In(loc), false, nil
}

// LastDays returns the range covering the n calendar days ending on now's day.
func LastDays(now time.Time, n int) DateRange {
	if n < 1 {
		n = 1
	}
	end := startOfDay(now).AddDate(0, 0, 1).Add(-time.Nanosecond)
	return DateRange{From: startOfDay(now).AddDate(0, 0, -(n - 1)), To: end}
}

// Contains reports whether t lies inside the range, bounds included.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.From) && !t.After(r.To)
}

// SpanDays is the range length in calendar days of Location, rounded up.
// A day that gains or loses an hour to DST still counts as one day.
func (r DateRange) SpanDays() int {
	from, to := r.From, r.To.In(r.Location())
	days := civilDays(to) - civilDays(from)
	if clock(to) > clock(from) {
		days++
	}
	return days
}

// civilDays numbers t's calendar date, ignoring its zone offset.
func civilDays(t time.Time) int {
	return int(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).Unix() / int64(day/time.Second))
}

// clock is the wall-clock time of day.
func clock(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second + time.Duration(t.Nanosecond())
}

// Location is the calendar used for bucketing.
func (r DateRange) Location() *time.Location {
	return r.From.Location()
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
