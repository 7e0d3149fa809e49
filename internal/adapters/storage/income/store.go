package income

import (
	"context"
	"time"

	domain "studio/internal/domain/income"
)

// Store persists income Entry state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Entry, error)
	Save(ctx context.Context, value domain.Entry) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Entry, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]domain.Entry, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Limit    int
	Offset   int
	Category string
}
