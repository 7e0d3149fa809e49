package income

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Max length constants for user-editable fields.
const (
	MaxCategoryLength    = 50
	MaxDescriptionLength = 200
)

// Domain errors
var (
	ErrEmptyCategory    = errors.New("income category cannot be empty")
	ErrNonPositive      = errors.New("income amount must be greater than zero")
	ErrMissingTimestamp = errors.New("income must have a received time")
)

// Entry is one payment received by the studio.
type Entry struct {
	ID          string
	Amount      decimal.Decimal
	Category    string // e.g. "Subscrições", "Personal Training"
	Description string
	ReceivedAt  time.Time
}

// Validate checks if the Entry has valid data.
// PRE: Entry struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Amount is positive, Category is non-empty
func (e *Entry) Validate() error {
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if len(e.Category) > MaxCategoryLength {
		return errors.New("income category cannot exceed 50 characters")
	}
	if len(e.Description) > MaxDescriptionLength {
		return errors.New("income description cannot exceed 200 characters")
	}
	if !e.Amount.IsPositive() {
		return ErrNonPositive
	}
	if e.ReceivedAt.IsZero() {
		return ErrMissingTimestamp
	}
	return nil
}

// Sum adds up the amounts of entries.
func Sum(entries []Entry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Amount)
	}
	return total
}
