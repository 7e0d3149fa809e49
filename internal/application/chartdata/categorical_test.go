package chartdata

import (
	"testing"

	"github.com/shopspring/decimal"
)

type payment struct {
	amount   decimal.Decimal
	category string
}

type visit struct {
	status string
}

var byCategory = ClassifierFunc[payment](func(p payment) string { return p.category })

var byStatus = ClassifierFunc[visit](func(v visit) string { return v.status })

// TestCategorize_AmountBreakdown verifies the income example: amounts summed per category, descending, with percentages.
func TestCategorize_AmountBreakdown(t *testing.T) {
	records := []payment{
		{decimal.NewFromInt(300), "Subscrições"},
		{decimal.NewFromInt(150), "Personal Training"},
		{decimal.NewFromInt(50), "Subscrições"},
	}

	agg := Categorize(records, CategoricalOptions[payment]{
		Classifier:  byCategory,
		Amount:      func(p payment) decimal.Decimal { return p.amount },
		Percentages: true,
		Denominator: decimal.NewNullDecimal(decimal.NewFromInt(500)),
	})

	if len(agg.Slices) != 2 {
		t.Fatalf("slices=%d, want 2", len(agg.Slices))
	}
	want := []Slice{
		{Label: "Subscrições", Value: 350, Percentage: 70.0},
		{Label: "Personal Training", Value: 150, Percentage: 30.0},
	}
	for i, w := range want {
		if agg.Slices[i] != w {
			t.Errorf("slice[%d]=%+v, want %+v", i, agg.Slices[i], w)
		}
	}
	if agg.Total != 500 {
		t.Errorf("Total=%v, want 500", agg.Total)
	}
	if agg.IsEmpty {
		t.Error("IsEmpty should be false")
	}
}

// TestCategorize_FixedOrderDropsZero verifies state splits keep caller order and hide empty labels.
func TestCategorize_FixedOrderDropsZero(t *testing.T) {
	records := []visit{{"cancelled"}, {"attended"}, {"attended"}}

	agg := Categorize(records, CategoricalOptions[visit]{
		Classifier: byStatus,
		Order:      []string{"attended", "absent", "cancelled"},
		Colors:     map[string]string{"attended": "green", "absent": "amber", "cancelled": "red"},
	})

	if len(agg.Slices) != 2 {
		t.Fatalf("slices=%d, want 2 (absent dropped)", len(agg.Slices))
	}
	if agg.Slices[0].Label != "attended" || agg.Slices[0].Value != 2 || agg.Slices[0].ColorKey != "green" {
		t.Errorf("slice[0]=%+v", agg.Slices[0])
	}
	if agg.Slices[1].Label != "cancelled" || agg.Slices[1].Value != 1 {
		t.Errorf("slice[1]=%+v", agg.Slices[1])
	}
	if len(agg.Tallies) != 3 || agg.Tallies[1].Label != "absent" || !agg.Tallies[1].Value.IsZero() {
		t.Errorf("tallies should keep the zero label in place: %+v", agg.Tallies)
	}
}

// TestCategorize_Conservation verifies the total matches the record count for any classifier.
func TestCategorize_Conservation(t *testing.T) {
	records := []visit{{"a"}, {"b"}, {"c"}, {"a"}, {"z"}}
	classifiers := map[string]Classifier[visit]{
		"identity": byStatus,
		"constant": ClassifierFunc[visit](func(visit) string { return "all" }),
		"binary": ClassifierFunc[visit](func(v visit) string {
			if v.status == "a" {
				return "a"
			}
			return "other"
		}),
	}
	for name, c := range classifiers {
		t.Run(name, func(t *testing.T) {
			agg := Categorize(records, CategoricalOptions[visit]{Classifier: c, Order: []string{"a"}})
			sum := decimalSum(agg.Tallies)
			if sum != 5 || agg.Total != 5 {
				t.Errorf("tally sum=%v total=%v, want 5", sum, agg.Total)
			}
		})
	}
}

// TestCategorize_ZeroTotalPercentage verifies percentages are 0 rather than NaN when the denominator is zero.
func TestCategorize_ZeroTotalPercentage(t *testing.T) {
	records := []payment{{decimal.NewFromInt(40), "Gear"}}
	agg := Categorize(records, CategoricalOptions[payment]{
		Classifier:  byCategory,
		Amount:      func(p payment) decimal.Decimal { return p.amount },
		Percentages: true,
		Denominator: decimal.NewNullDecimal(decimal.Zero),
	})
	if len(agg.Slices) != 1 || agg.Slices[0].Percentage != 0 {
		t.Fatalf("slices=%+v, want one slice with 0%%", agg.Slices)
	}

	if got := Percentage(decimal.Zero, decimal.Zero); got != 0 {
		t.Errorf("Percentage(0,0)=%v, want 0", got)
	}
}

// TestCategorize_EmptyInput verifies no records produces an empty aggregate, not an error.
func TestCategorize_EmptyInput(t *testing.T) {
	agg := Categorize(nil, CategoricalOptions[visit]{
		Classifier:  byStatus,
		Order:       []string{"attended", "absent"},
		Percentages: true,
	})
	if !agg.IsEmpty {
		t.Error("IsEmpty should be true")
	}
	if len(agg.Slices) != 0 {
		t.Errorf("slices=%d, want 0", len(agg.Slices))
	}
	if agg.Total != 0 {
		t.Errorf("Total=%v, want 0", agg.Total)
	}
}

// TestCategorize_TiesSortByLabel verifies equal values are ordered by label for deterministic output.
func TestCategorize_TiesSortByLabel(t *testing.T) {
	records := []visit{{"yoga"}, {"boxing"}, {"spin"}, {"spin"}}
	agg := Categorize(records, CategoricalOptions[visit]{Classifier: byStatus, Percentages: true})

	got := []string{agg.Slices[0].Label, agg.Slices[1].Label, agg.Slices[2].Label}
	want := []string{"spin", "boxing", "yoga"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order=%v, want %v", got, want)
		}
	}
	if agg.Slices[0].Percentage != 50 || agg.Slices[1].Percentage != 25 {
		t.Errorf("percentages=%v/%v, want 50/25", agg.Slices[0].Percentage, agg.Slices[1].Percentage)
	}
}

// TestPercentage_RoundsToOneDecimal verifies one-decimal rounding.
func TestPercentage_RoundsToOneDecimal(t *testing.T) {
	got := Percentage(decimal.NewFromInt(1), decimal.NewFromInt(3))
	if got != 33.3 {
		t.Errorf("Percentage(1,3)=%v, want 33.3", got)
	}
	got = Percentage(decimal.NewFromInt(2), decimal.NewFromInt(3))
	if got != 66.7 {
		t.Errorf("Percentage(2,3)=%v, want 66.7", got)
	}
}

func decimalSum(tallies []Tally) float64 {
	sum := decimal.Zero
	for _, t := range tallies {
		sum = sum.Add(t.Value)
	}
	return sum.InexactFloat64()
}
