package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"studio/internal/domain/enrollment"
	"studio/internal/domain/student"

	"github.com/google/uuid"
)

// EnrollmentStore defines the interface for enrollment persistence.
type EnrollmentStore interface {
	Save(ctx context.Context, e enrollment.Enrollment) error
	GetByID(ctx context.Context, id string) (enrollment.Enrollment, error)
}

// StudentLookup resolves the student an enrollment belongs to.
type StudentLookup interface {
	GetByID(ctx context.Context, id string) (student.Student, error)
}

// EnrollStudentInput carries input for the orchestrator.
type EnrollStudentInput struct {
	StudentID string
	ClassName string
	SessionAt time.Time // optional: zero when the session is not scheduled yet
	Status    enrollment.Status
}

// EnrollStudentDeps holds dependencies for EnrollStudent.
type EnrollStudentDeps struct {
	EnrollmentStore EnrollmentStore
	StudentStore    StudentLookup
	Now             func() time.Time
}

var ErrStudentInactive = errors.New("inactive students cannot be enrolled")

// ExecuteEnrollStudent books a student into a class session.
// PRE: StudentID refers to an existing, non-inactive student
// POST: Enrollment persisted with EnrolledAt = now
func ExecuteEnrollStudent(ctx context.Context, input EnrollStudentInput, deps EnrollStudentDeps) (string, error) {
	s, err := deps.StudentStore.GetByID(ctx, input.StudentID)
	if err != nil {
		return "", fmt.Errorf("load student: %w", err)
	}
	if s.Status == student.StatusInactive {
		return "", ErrStudentInactive
	}

	e := enrollment.Enrollment{
		ID:         uuid.New().String(),
		StudentID:  s.ID,
		ClassName:  strings.TrimSpace(input.ClassName),
		EnrolledAt: nowOr(deps.Now),
		SessionAt:  input.SessionAt,
		Status:     input.Status,
	}
	if err := e.Validate(); err != nil {
		return "", invalidInput(err)
	}
	if err := deps.EnrollmentStore.Save(ctx, e); err != nil {
		return "", err
	}

	slog.Info("record_event", "event", "student_enrolled", "enrollment_id", e.ID, "student_id", s.ID, "class", e.ClassName)
	return e.ID, nil
}

// ExecuteSetEnrollmentStatus records the outcome of a session.
// PRE: id refers to an existing enrollment; status is valid
// POST: Enrollment status updated
func ExecuteSetEnrollmentStatus(ctx context.Context, id string, status enrollment.Status, deps EnrollStudentDeps) error {
	if !status.Valid() {
		return invalidInput(enrollment.ErrInvalidStatus)
	}
	e, err := deps.EnrollmentStore.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load enrollment: %w", err)
	}
	e.Status = status
	if err := deps.EnrollmentStore.Save(ctx, e); err != nil {
		return err
	}

	slog.Info("record_event", "event", "enrollment_status_changed", "enrollment_id", e.ID, "status", status)
	return nil
}
