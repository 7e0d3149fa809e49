package equipment

import (
	"errors"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength     = 100
	MaxCategoryLength = 50
)

// Status is the health state of a piece of equipment.
type Status string

// Status values.
const (
	StatusOperational Status = "operational"
	StatusMaintenance Status = "maintenance"
	StatusBroken      Status = "broken"
)

// Statuses lists every status in chart order.
var Statuses = []Status{StatusOperational, StatusMaintenance, StatusBroken}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusOperational, StatusMaintenance, StatusBroken:
		return true
	}
	return false
}

// Domain errors
var (
	ErrEmptyName      = errors.New("equipment name cannot be empty")
	ErrEmptyCategory  = errors.New("equipment category cannot be empty")
	ErrInvalidStatus  = errors.New("status must be 'operational', 'maintenance', or 'broken'")
	ErrAlreadyInState = errors.New("equipment is already in that state")
)

// Item is a piece of studio equipment.
type Item struct {
	ID        string
	Name      string
	Category  string
	Status    Status
	CreatedAt time.Time
}

// Validate checks if the Item has valid data.
// PRE: Item struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (i *Item) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return ErrEmptyName
	}
	if len(i.Name) > MaxNameLength {
		return errors.New("equipment name cannot exceed 100 characters")
	}
	if strings.TrimSpace(i.Category) == "" {
		return ErrEmptyCategory
	}
	if len(i.Category) > MaxCategoryLength {
		return errors.New("equipment category cannot exceed 50 characters")
	}
	if !i.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// SetStatus moves the item to a new health state.
// PRE: next is a valid status different from the current one
// POST: Status is next
func (i *Item) SetStatus(next Status) error {
	if !next.Valid() {
		return ErrInvalidStatus
	}
	if i.Status == next {
		return ErrAlreadyInState
	}
	i.Status = next
	return nil
}

// NeedsAttention returns true when the item is not usable.
// INVARIANT: Item fields are not mutated
func (i *Item) NeedsAttention() bool {
	return i.Status != StatusOperational
}
