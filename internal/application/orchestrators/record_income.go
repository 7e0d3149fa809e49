package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"studio/internal/domain/income"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IncomeStore defines the interface for income persistence.
type IncomeStore interface {
	Save(ctx context.Context, e income.Entry) error
}

// RecordIncomeInput carries input for the orchestrator.
type RecordIncomeInput struct {
	Amount      string // decimal text, e.g. "45.00"
	Category    string
	Description string
	ReceivedAt  time.Time // optional: defaults to now
}

// RecordIncomeDeps holds dependencies for RecordIncome.
type RecordIncomeDeps struct {
	IncomeStore IncomeStore
	Now         func() time.Time
}

var ErrInvalidAmount = errors.New("amount must be a decimal number")

// ExecuteRecordIncome records a payment received by the studio.
// PRE: Amount parses as a positive decimal; Category is non-empty
// POST: Entry persisted with the amount rounded to cents
func ExecuteRecordIncome(ctx context.Context, input RecordIncomeInput, deps RecordIncomeDeps) (string, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(input.Amount))
	if err != nil {
		return "", invalidInput(ErrInvalidAmount)
	}

	e := income.Entry{
		ID:          uuid.New().String(),
		Amount:      amount.Round(2),
		Category:    strings.TrimSpace(input.Category),
		Description: strings.TrimSpace(input.Description),
		ReceivedAt:  input.ReceivedAt,
	}
	if e.ReceivedAt.IsZero() {
		e.ReceivedAt = nowOr(deps.Now)
	}
	if err := e.Validate(); err != nil {
		return "", invalidInput(err)
	}
	if err := deps.IncomeStore.Save(ctx, e); err != nil {
		return "", err
	}

	slog.Info("record_event", "event", "income_recorded", "income_id", e.ID, "category", e.Category, "amount", e.Amount.StringFixed(2))
	return e.ID, nil
}
