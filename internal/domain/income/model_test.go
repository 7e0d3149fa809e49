package income

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// TestEntry_Validate covers the validation rules.
func TestEntry_Validate(t *testing.T) {
	at := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		e       Entry
		wantErr error
	}{
		{"valid", Entry{Amount: decimal.RequireFromString("49.90"), Category: "Subscrições", ReceivedAt: at}, nil},
		{"zero amount", Entry{Amount: decimal.Zero, Category: "Subscrições", ReceivedAt: at}, ErrNonPositive},
		{"negative amount", Entry{Amount: decimal.NewFromInt(-5), Category: "Subscrições", ReceivedAt: at}, ErrNonPositive},
		{"no category", Entry{Amount: decimal.NewFromInt(5), ReceivedAt: at}, ErrEmptyCategory},
		{"no timestamp", Entry{Amount: decimal.NewFromInt(5), Category: "Shop"}, ErrMissingTimestamp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.e.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate()=%v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestSum verifies amounts add up exactly.
func TestSum(t *testing.T) {
	entries := []Entry{
		{Amount: decimal.RequireFromString("0.10")},
		{Amount: decimal.RequireFromString("0.20")},
	}
	if got := Sum(entries); !got.Equal(decimal.RequireFromString("0.30")) {
		t.Errorf("Sum=%s, want 0.30", got)
	}
	if !Sum(nil).IsZero() {
		t.Error("Sum(nil) should be zero")
	}
}
