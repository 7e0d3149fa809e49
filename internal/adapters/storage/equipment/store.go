package equipment

import (
	"context"

	domain "studio/internal/domain/equipment"
)

// Store persists equipment Item state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Item, error)
	Save(ctx context.Context, value domain.Item) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Item, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Limit    int
	Offset   int
	Category string
	Status   domain.Status
}
