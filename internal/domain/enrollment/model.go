package enrollment

import (
	"errors"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxClassNameLength = 100
)

// Status is the outcome of an enrollment in a class session.
type Status string

// Status values.
const (
	StatusAttended  Status = "attended"
	StatusAbsent    Status = "absent"
	StatusCancelled Status = "cancelled"
)

// Statuses lists every status in chart order.
var Statuses = []Status{StatusAttended, StatusAbsent, StatusCancelled}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusAttended, StatusAbsent, StatusCancelled:
		return true
	}
	return false
}

// Domain errors
var (
	ErrEmptyStudentID = errors.New("enrollment must be associated with a student")
	ErrEmptyClassName = errors.New("class name cannot be empty")
	ErrInvalidStatus  = errors.New("status must be 'attended', 'absent', or 'cancelled'")
)

// Enrollment is a student's booking for one class session.
type Enrollment struct {
	ID         string
	StudentID  string
	ClassName  string
	EnrolledAt time.Time // when the booking was made
	SessionAt  time.Time // when the class runs; zero if not scheduled yet
	Status     Status
}

// Validate checks if the Enrollment has valid data.
// PRE: Enrollment struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: StudentID and ClassName must not be empty, Status must be known
func (e *Enrollment) Validate() error {
	if e.StudentID == "" {
		return ErrEmptyStudentID
	}
	if strings.TrimSpace(e.ClassName) == "" {
		return ErrEmptyClassName
	}
	if len(e.ClassName) > MaxClassNameLength {
		return errors.New("class name cannot exceed 100 characters")
	}
	if !e.Status.Valid() {
		return ErrInvalidStatus
	}
	if e.EnrolledAt.IsZero() {
		return errors.New("enrollment time must be set")
	}
	return nil
}

// Attended returns true if the student showed up.
// INVARIANT: Enrollment fields are not mutated
func (e *Enrollment) Attended() bool {
	return e.Status == StatusAttended
}
