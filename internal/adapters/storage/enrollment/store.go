package enrollment

import (
	"context"
	"time"

	domain "studio/internal/domain/enrollment"
)

// Store persists Enrollment state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Enrollment, error)
	Save(ctx context.Context, value domain.Enrollment) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Enrollment, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]domain.Enrollment, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Limit     int
	Offset    int
	StudentID string
}
