package student

import (
	"context"
	"time"

	domain "studio/internal/domain/student"
)

// Store persists Student state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Student, error)
	GetByEmail(ctx context.Context, email string) (domain.Student, error)
	Save(ctx context.Context, value domain.Student) error
	List(ctx context.Context, filter ListFilter) ([]domain.Student, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]domain.Student, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Limit  int
	Offset int
	Status domain.Status
}
