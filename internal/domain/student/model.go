package student

import (
	"errors"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength = 100
)

// Status is a student's membership state.
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
	ErrEmptyName     = errors.New("student name cannot be empty")
	ErrInvalidEmail  = errors.New("student email must be valid")
	ErrInvalidStatus = errors.New("status must be 'active', 'inactive', or 'pending'")
	ErrAlreadyActive = errors.New("student is already active")
)

// Student is a registered studio member.
type Student struct {
	ID        string
	Name      string
	Email     string
	Status    Status
	CreatedAt time.Time
}

// Validate checks if the Student has valid data.
// PRE: Student struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Email must contain '@', Name must not be empty
func (s *Student) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	if len(s.Name) > MaxNameLength {
		return errors.New("student name cannot exceed 100 characters")
	}
	if !strings.Contains(s.Email, "@") {
		return ErrInvalidEmail
	}
	if !s.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// Activate moves a pending or inactive student to active.
// PRE: Student is not already active
// POST: Status is active
func (s *Student) Activate() error {
	if s.Status == StatusActive {
		return ErrAlreadyActive
	}
	s.Status = StatusActive
	return nil
}
