package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"studio/internal/domain/student"

	"github.com/google/uuid"
)

// StudentStore defines the interface for student persistence.
type StudentStore interface {
	Save(ctx context.Context, s student.Student) error
	GetByID(ctx context.Context, id string) (student.Student, error)
	GetByEmail(ctx context.Context, email string) (student.Student, error)
}

// RegisterStudentInput carries input for the orchestrator.
type RegisterStudentInput struct {
	Name   string
	Email  string
	Status student.Status // optional: defaults to pending
}

// RegisterStudentDeps holds dependencies for RegisterStudent.
type RegisterStudentDeps struct {
	StudentStore StudentStore
	Now          func() time.Time
}

var ErrStudentEmailExists = errors.New("a student with this email already exists")

// ExecuteRegisterStudent coordinates student registration.
// PRE: Valid email, non-empty name
// POST: Student created with ID and CreatedAt; Status defaults to pending
// INVARIANT: Email must be unique
func ExecuteRegisterStudent(ctx context.Context, input RegisterStudentInput, deps RegisterStudentDeps) (string, error) {
	s := student.Student{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(input.Name),
		Email:     strings.ToLower(strings.TrimSpace(input.Email)),
		Status:    input.Status,
		CreatedAt: nowOr(deps.Now),
	}
	if s.Status == "" {
		s.Status = student.StatusPending
	}
	if err := s.Validate(); err != nil {
		return "", invalidInput(err)
	}

	if _, err := deps.StudentStore.GetByEmail(ctx, s.Email); err == nil {
		return "", ErrStudentEmailExists
	}

	if err := deps.StudentStore.Save(ctx, s); err != nil {
		return "", err
	}

	slog.Info("record_event", "event", "student_registered", "student_id", s.ID, "status", s.Status)
	return s.ID, nil
}

// ExecuteActivateStudent moves a pending or inactive student to active.
// PRE: id refers to an existing student
// POST: Student status is active
func ExecuteActivateStudent(ctx context.Context, id string, deps RegisterStudentDeps) error {
	s, err := deps.StudentStore.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load student: %w", err)
	}
	if err := s.Activate(); err != nil {
		return invalidInput(err)
	}
	if err := deps.StudentStore.Save(ctx, s); err != nil {
		return err
	}
	slog.Info("record_event", "event", "student_activated", "student_id", s.ID)
	return nil
}
