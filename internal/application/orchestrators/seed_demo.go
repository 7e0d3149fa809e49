package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	studentStore "studio/internal/adapters/storage/student"
	"studio/internal/domain/enrollment"
	"studio/internal/domain/equipment"
	"studio/internal/domain/income"
	"studio/internal/domain/staff"
	"studio/internal/domain/student"
)

// DemoSeedDeps holds all stores needed for demo data seeding.
type DemoSeedDeps struct {
	StudentStore    demoStudentStore
	StaffStore      StaffStore
	EquipmentStore  EquipmentStore
	EnrollmentStore EnrollmentStore
	IncomeStore     IncomeStore
}

type demoStudentStore interface {
	Save(ctx context.Context, s student.Student) error
	List(ctx context.Context, filter studentStore.ListFilter) ([]student.Student, error)
}

// ExecuteSeedDemo populates an empty database with two months of studio activity
// ending at now, so every dashboard has something to draw in development.
// It is idempotent: it skips when any student exists.
func ExecuteSeedDemo(ctx context.Context, deps DemoSeedDeps, now time.Time) error {
	existing, err := deps.StudentStore.List(ctx, studentStore.ListFilter{Limit: 1})
	if err != nil {
		return fmt.Errorf("seed_demo: list students: %w", err)
	}
	if len(existing) > 0 {
		slog.Info("seed_event", "event", "demo_skip", "reason", "already_seeded")
		return nil
	}

	// --- Students: registrations spread over the last 60 days ---
	roster := []struct {
		Name   string
		Email  string
		Status student.Status
	}{
		{"Ana Ferreira", "ana.ferreira@example.com", student.StatusActive},
		{"Rui Costa", "rui.costa@example.com", student.StatusActive},
		{"Marta Sousa", "marta.sousa@example.com", student.StatusActive},
		{"João Pereira", "joao.pereira@example.com", student.StatusInactive},
		{"Inês Almeida", "ines.almeida@example.com", student.StatusActive},
		{"Tiago Santos", "tiago.santos@example.com", student.StatusPending},
		{"Beatriz Lopes", "beatriz.lopes@example.com", student.StatusActive},
		{"Miguel Rocha", "miguel.rocha@example.com", student.StatusPending},
		{"Sofia Martins", "sofia.martins@example.com", student.StatusActive},
		{"Diogo Gomes", "diogo.gomes@example.com", student.StatusActive},
	}
	studentIDs := make([]string, len(roster))
	for i, r := range roster {
		s := student.Student{
			ID:        uuid.New().String(),
			Name:      r.Name,
			Email:     r.Email,
			Status:    r.Status,
			CreatedAt: now.AddDate(0, 0, -60+i*6),
		}
		if err := deps.StudentStore.Save(ctx, s); err != nil {
			return fmt.Errorf("seed student %s: %w", r.Name, err)
		}
		studentIDs[i] = s.ID
	}

	// --- Staff ---
	team := []staff.Member{
		{Name: "Carla Nunes", Email: "carla@example.com", Role: staff.RoleManager, Status: staff.StatusActive},
		{Name: "Pedro Lima", Email: "pedro@example.com", Role: staff.RoleInstructor, Status: staff.StatusActive},
		{Name: "Joana Reis", Email: "joana@example.com", Role: staff.RoleInstructor, Status: staff.StatusPending},
		{Name: "Luís Faria", Email: "luis@example.com", Role: staff.RoleReception, Status: staff.StatusInactive},
	}
	for i, m := range team {
		m.ID = uuid.New().String()
		m.CreatedAt = now.AddDate(0, 0, -50+i*12)
		if err := deps.StaffStore.Save(ctx, m); err != nil {
			return fmt.Errorf("seed staff %s: %w", m.Name, err)
		}
	}

	// --- Equipment ---
	kit := []equipment.Item{
		{Name: "Reformer 1", Category: "Pilates", Status: equipment.StatusOperational},
		{Name: "Reformer 2", Category: "Pilates", Status: equipment.StatusMaintenance},
		{Name: "Spin bike 1", Category: "Cardio", Status: equipment.StatusOperational},
		{Name: "Spin bike 2", Category: "Cardio", Status: equipment.StatusBroken},
		{Name: "Rower", Category: "Cardio", Status: equipment.StatusOperational},
		{Name: "Kettlebell set", Category: "Strength", Status: equipment.StatusOperational},
	}
	for i, item := range kit {
		item.ID = uuid.New().String()
		item.CreatedAt = now.AddDate(0, 0, -55+i*9)
		if err := deps.EquipmentStore.Save(ctx, item); err != nil {
			return fmt.Errorf("seed equipment %s: %w", item.Name, err)
		}
	}

	// --- Enrollments: three classes a day for the last 30 days ---
	classes := []string{"Pilates", "Spinning", "Yoga"}
	outcomes := []enrollment.Status{enrollment.StatusAttended, enrollment.StatusAttended, enrollment.StatusAttended, enrollment.StatusAbsent, enrollment.StatusCancelled}
	n := 0
	for day := 30; day >= 0; day-- {
		session := time.Date(now.Year(), now.Month(), now.Day(), 18, 0, 0, 0, now.Location()).AddDate(0, 0, -day)
		for c, class := range classes {
			e := enrollment.Enrollment{
				ID:         uuid.New().String(),
				StudentID:  studentIDs[(day+c)%len(studentIDs)],
				ClassName:  class,
				EnrolledAt: session.AddDate(0, 0, -2),
				SessionAt:  session,
				Status:     outcomes[n%len(outcomes)],
			}
			n++
			if err := deps.EnrollmentStore.Save(ctx, e); err != nil {
				return fmt.Errorf("seed enrollment: %w", err)
			}
		}
	}

	// --- Income: weekly subscriptions plus occasional extras ---
	for week := 0; week < 8; week++ {
		received := now.AddDate(0, 0, -7*week)
		entries := []income.Entry{
			{Amount: decimal.RequireFromString("420.00"), Category: "Subscrições", Description: "Weekly memberships"},
			{Amount: decimal.NewFromInt(int64(60 + 15*(week%3))), Category: "Personal Training"},
		}
		if week%2 == 0 {
			entries = append(entries, income.Entry{Amount: decimal.RequireFromString("24.50"), Category: "Loja", Description: "Water and towels"})
		}
		for _, e := range entries {
			e.ID = uuid.New().String()
			e.ReceivedAt = received
			if err := deps.IncomeStore.Save(ctx, e); err != nil {
				return fmt.Errorf("seed income: %w", err)
			}
		}
	}

	slog.Info("seed_event", "event", "demo_seeded", "students", len(roster), "enrollments", n)
	return nil
}
