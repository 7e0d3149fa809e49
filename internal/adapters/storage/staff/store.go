package staff

import (
	"context"

	domain "studio/internal/domain/staff"
)

// Store persists staff Member state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Member, error)
	Save(ctx context.Context, value domain.Member) error
	List(ctx context.Context, filter ListFilter) ([]domain.Member, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Limit  int
	Offset int
	Role   string
	Status domain.Status
}
