package chartdata

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Classifier assigns a record to exactly one label.
type Classifier[T any] interface {
	Classify(T) string
}

// ClassifierFunc adapts a plain function to Classifier.
type ClassifierFunc[T any] func(T) string

// Classify calls f(v).
func (f ClassifierFunc[T]) Classify(v T) string {
	return f(v)
}

// AmountFunc returns the monetary amount a record contributes to its label.
type AmountFunc[T any] func(T) decimal.Decimal

// CategoricalOptions configures one categorical chart.
type CategoricalOptions[T any] struct {
	Classifier Classifier[T]
	// Amount sums per label when set; nil counts records.
	Amount AmountFunc[T]
	// Order fixes the label order for state splits. Nil sorts by value descending.
	Order  []string
	Colors map[string]string
	// Percentages fills Slice.Percentage.
	Percentages bool
	// Denominator overrides the computed total for percentages.
	Denominator decimal.NullDecimal
}

// Slice is one visible segment of a categorical chart.
type Slice struct {
	Label      string  `json:"label"`
	Value      float64 `json:"value"`
	ColorKey   string  `json:"color,omitempty"`
	Percentage float64 `json:"percentage"`
}

// Tally is a label's value before zero entries are dropped.
type Tally struct {
	Label string
	Value decimal.Decimal
}

// CategoricalAggregate is a label -> value breakdown.
type CategoricalAggregate struct {
	Slices  []Slice `json:"slices"`
	Total   float64 `json:"total"`
	IsEmpty bool    `json:"isEmpty"`
	// Tallies keeps every label including zero values, in output order.
	Tallies []Tally `json:"-"`
}

// Categorize counts or sums records per label.
// PRE: opts.Classifier is non-nil
// POST: Total equals the record count (or amount sum); zero-valued labels are absent from Slices
// INVARIANT: records is not mutated
func Categorize[T any](records []T, opts CategoricalOptions[T]) CategoricalAggregate {
	values := make(map[string]decimal.Decimal, len(opts.Order))
	for _, label := range opts.Order {
		values[label] = decimal.Zero
	}

	one := decimal.NewFromInt(1)
	total := decimal.Zero
	for _, r := range records {
		label := opts.Classifier.Classify(r)
		v := one
		if opts.Amount != nil {
			v = opts.Amount(r)
		}
		values[label] = values[label].Add(v)
		total = total.Add(v)
	}

	tallies := orderTallies(values, opts.Order)

	denominator := total
	if opts.Denominator.Valid {
		denominator = opts.Denominator.Decimal
	}

	agg := CategoricalAggregate{
		Total:   total.InexactFloat64(),
		Tallies: tallies,
		Slices:  make([]Slice, 0, len(tallies)),
	}
	for _, t := range tallies {
		if t.Value.IsZero() {
			continue
		}
		s := Slice{
			Label:    t.Label,
			Value:    t.Value.InexactFloat64(),
			ColorKey: opts.Colors[t.Label],
		}
		if opts.Percentages {
			s.Percentage = Percentage(t.Value, denominator)
		}
		agg.Slices = append(agg.Slices, s)
	}
	agg.IsEmpty = len(agg.Slices) == 0
	return agg
}

// Percentage returns value/total*100 rounded to one decimal place, or 0 when total is 0.
func Percentage(value, total decimal.Decimal) float64 {
	if total.IsZero() {
		return 0
	}
	return value.Div(total).Mul(decimal.NewFromInt(100)).Round(1).InexactFloat64()
}

// orderTallies lists fixed labels first, then the rest by value descending.
func orderTallies(values map[string]decimal.Decimal, order []string) []Tally {
	out := make([]Tally, 0, len(values))
	fixed := make(map[string]bool, len(order))
	for _, label := range order {
		if fixed[label] {
			continue
		}
		fixed[label] = true
		out = append(out, Tally{Label: label, Value: values[label]})
	}

	rest := make([]Tally, 0, len(values)-len(fixed))
	for label, v := range values {
		if !fixed[label] {
			rest = append(rest, Tally{Label: label, Value: v})
		}
	}
	sort.Slice(rest, func(i, j int) bool {
		if c := rest[i].Value.Cmp(rest[j].Value); c != 0 {
			return c > 0
		}
		return rest[i].Label < rest[j].Label
	})
	return append(out, rest...)
}
