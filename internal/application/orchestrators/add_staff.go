package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"studio/internal/domain/staff"

	"github.com/google/uuid"
)

// StaffStore defines the interface for staff persistence.
type StaffStore interface {
	Save(ctx context.Context, m staff.Member) error
}

// AddStaffInput carries input for the orchestrator.
type AddStaffInput struct {
	Name   string
	Email  string
	Role   string
	Status staff.Status // optional: defaults to active
}

// AddStaffDeps holds dependencies for AddStaff.
type AddStaffDeps struct {
	StaffStore StaffStore
	Now        func() time.Time
}

// ExecuteAddStaff records a new staff member.
// PRE: Non-empty name, valid email and role
// POST: Member persisted with ID and CreatedAt
func ExecuteAddStaff(ctx context.Context, input AddStaffInput, deps AddStaffDeps) (string, error) {
	m := staff.Member{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(input.Name),
		Email:     strings.ToLower(strings.TrimSpace(input.Email)),
		Role:      input.Role,
		Status:    input.Status,
		CreatedAt: nowOr(deps.Now),
	}
	if m.Status == "" {
		m.Status = staff.StatusActive
	}
	if err := m.Validate(); err != nil {
		return "", invalidInput(err)
	}
	if err := deps.StaffStore.Save(ctx, m); err != nil {
		return "", err
	}

	slog.Info("record_event", "event", "staff_added", "staff_id", m.ID, "role", m.Role)
	return m.ID, nil
}
