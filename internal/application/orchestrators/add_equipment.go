package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"studio/internal/domain/equipment"

	"github.com/google/uuid"
)

// EquipmentStore defines the interface for equipment persistence.
type EquipmentStore interface {
	Save(ctx context.Context, i equipment.Item) error
	GetByID(ctx context.Context, id string) (equipment.Item, error)
}

// AddEquipmentInput carries input for the orchestrator.
type AddEquipmentInput struct {
	Name     string
	Category string
	Status   equipment.Status // optional: defaults to operational
}

// EquipmentDeps holds dependencies for the equipment orchestrators.
type EquipmentDeps struct {
	EquipmentStore EquipmentStore
	Now            func() time.Time
}

// ExecuteAddEquipment records a new piece of equipment.
// PRE: Non-empty name and category
// POST: Item persisted with ID and CreatedAt
func ExecuteAddEquipment(ctx context.Context, input AddEquipmentInput, deps EquipmentDeps) (string, error) {
	item := equipment.Item{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(input.Name),
		Category:  strings.TrimSpace(input.Category),
		Status:    input.Status,
		CreatedAt: nowOr(deps.Now),
	}
	if item.Status == "" {
		item.Status = equipment.StatusOperational
	}
	if err := item.Validate(); err != nil {
		return "", invalidInput(err)
	}
	if err := deps.EquipmentStore.Save(ctx, item); err != nil {
		return "", err
	}

	slog.Info("record_event", "event", "equipment_added", "equipment_id", item.ID, "category", item.Category)
	return item.ID, nil
}

// SetEquipmentStatusInput carries input for a health-state change.
type SetEquipmentStatusInput struct {
	ID     string
	Status equipment.Status
}

// ExecuteSetEquipmentStatus moves an item to a new health state.
// PRE: ID refers to an existing item
// POST: Item status updated; equipment.ErrAlreadyInState when unchanged
func ExecuteSetEquipmentStatus(ctx context.Context, input SetEquipmentStatusInput, deps EquipmentDeps) error {
	item, err := deps.EquipmentStore.GetByID(ctx, input.ID)
	if err != nil {
		return fmt.Errorf("load equipment: %w", err)
	}
	previous := item.Status
	if err := item.SetStatus(input.Status); err != nil {
		return invalidInput(err)
	}
	if err := deps.EquipmentStore.Save(ctx, item); err != nil {
		return err
	}

	slog.Info("record_event", "event", "equipment_status_changed", "equipment_id", item.ID, "from", previous, "to", item.Status)
	return nil
}
