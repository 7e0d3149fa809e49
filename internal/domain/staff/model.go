package staff

import (
	"errors"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength = 100
)

// Role constants
const (
	RoleInstructor  = "instructor"
	RoleReception   = "reception"
	RoleManager     = "manager"
	RoleMaintenance = "maintenance"
)

// ValidRoles contains all valid role values.
var ValidRoles = []string{RoleInstructor, RoleReception, RoleManager, RoleMaintenance}

// Status is a staff member's employment state.
type Status string

// Status values.
const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusPending  Status = "pending"
)

// Statuses lists every status in chart order.
var Statuses = []Status{StatusActive, StatusInactive, StatusPending}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusPending:
		return true
	}
	return false
}

// Domain errors
var (
	ErrEmptyName     = errors.New("staff name cannot be empty")
	ErrInvalidEmail  = errors.New("staff email must be valid")
	ErrInvalidRole   = errors.New("role must be one of: instructor, reception, manager, maintenance")
	ErrInvalidStatus = errors.New("status must be 'active', 'inactive', or 'pending'")
)

// Member is someone employed by the studio.
type Member struct {
	ID        string
	Name      string
	Email     string
	Role      string
	Status    Status
	CreatedAt time.Time
}

// Validate checks if the Member has valid data.
// PRE: Member struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (m *Member) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrEmptyName
	}
	if len(m.Name) > MaxNameLength {
		return errors.New("staff name cannot exceed 100 characters")
	}
	if !strings.Contains(m.Email, "@") {
		return ErrInvalidEmail
	}
	if !isValidRole(m.Role) {
		return ErrInvalidRole
	}
	if !m.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

func isValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
