package projections

import (
	"context"
	"time"

	"studio/internal/adapters/storage/equipment"
	"studio/internal/adapters/storage/income"
	"studio/internal/adapters/storage/staff"
	"studio/internal/adapters/storage/student"
	domainEnrollment "studio/internal/domain/enrollment"
	domainEquipment "studio/internal/domain/equipment"
	domainIncome "studio/internal/domain/income"
	domainStaff "studio/internal/domain/staff"
	domainStudent "studio/internal/domain/student"
)

// EnrollmentStore interface for enrollment queries.
type EnrollmentStore interface {
	ListByDateRange(ctx context.Context, from, to time.Time) ([]domainEnrollment.Enrollment, error)
}

// IncomeStore interface for income queries.
type IncomeStore interface {
	List(ctx context.Context, filter income.ListFilter) ([]domainIncome.Entry, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]domainIncome.Entry, error)
}

// StudentStore interface for student queries.
type StudentStore interface {
	List(ctx context.Context, filter student.ListFilter) ([]domainStudent.Student, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]domainStudent.Student, error)
}

// StaffStore interface for staff queries.
type StaffStore interface {
	List(ctx context.Context, filter staff.ListFilter) ([]domainStaff.Member, error)
}

// EquipmentStore interface for equipment queries.
type EquipmentStore interface {
	List(ctx context.Context, filter equipment.ListFilter) ([]domainEquipment.Item, error)
}
