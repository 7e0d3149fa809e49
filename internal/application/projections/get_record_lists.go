package projections

import (
	"context"
	"fmt"
	"time"

	"studio/internal/adapters/storage/equipment"
	"studio/internal/adapters/storage/income"
	"studio/internal/adapters/storage/staff"
	"studio/internal/adapters/storage/student"
	"studio/internal/application/listutil"
	domainEquipment "studio/internal/domain/equipment"
	domainStaff "studio/internal/domain/staff"
	domainStudent "studio/internal/domain/student"
)

// Filter keys accepted by each list endpoint.
var (
	StudentFilterKeys   = []string{"status"}
	StaffFilterKeys     = []string{"role", "status"}
	EquipmentFilterKeys = []string{"category", "status"}
	IncomeFilterKeys    = []string{"category"}
)

// RecordListResult is one page of records.
type RecordListResult[T any] struct {
	Items []T               `json:"items"`
	Page  listutil.PageInfo `json:"page"`
}

// StudentView is a student row for list endpoints.
type StudentView struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	Email     string               `json:"email"`
	Status    domainStudent.Status `json:"status"`
	CreatedAt *time.Time           `json:"createdAt,omitempty"`
}

// StaffView is a staff row for list endpoints.
type StaffView struct {
	ID     string             `json:"id"`
	Name   string             `json:"name"`
	Email  string             `json:"email"`
	Role   string             `json:"role"`
	Status domainStaff.Status `json:"status"`
}

// EquipmentView is an equipment row for list endpoints.
type EquipmentView struct {
	ID       string                 `json:"id"`
	Name     string                 `json:"name"`
	Category string                 `json:"category"`
	Status   domainEquipment.Status `json:"status"`
}

// IncomeView is an income row for list endpoints; Amount keeps two decimals.
type IncomeView struct {
	ID          string    `json:"id"`
	Amount      string    `json:"amount"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	ReceivedAt  time.Time `json:"receivedAt"`
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// QueryListStudents returns one page of students.
// PRE: params came from listutil.ParseListParams with StudentFilterKeys
// POST: At most params.PerPage items; Page.HasMore reports a following page
func QueryListStudents(ctx context.Context, params listutil.ListParams, store StudentStore) (RecordListResult[StudentView], error) {
	rows, err := store.List(ctx, student.ListFilter{
		Limit:  params.Probe(),
		Offset: params.Offset(),
		Status: domainStudent.Status(params.Filters["status"]),
	})
	if err != nil {
		return RecordListResult[StudentView]{}, fmt.Errorf("list students: %w", err)
	}
	rows, page := listutil.Trim(params.PageParams, rows)
	items := make([]StudentView, len(rows))
	for i, s := range rows {
		items[i] = StudentView{ID: s.ID, Name: s.Name, Email: s.Email, Status: s.Status, CreatedAt: optionalTime(s.CreatedAt)}
	}
	return RecordListResult[StudentView]{Items: items, Page: page}, nil
}

// QueryListStaff returns one page of staff members.
func QueryListStaff(ctx context.Context, params listutil.ListParams, store StaffStore) (RecordListResult[StaffView], error) {
	rows, err := store.List(ctx, staff.ListFilter{
		Limit:  params.Probe(),
		Offset: params.Offset(),
		Role:   params.Filters["role"],
		Status: domainStaff.Status(params.Filters["status"]),
	})
	if err != nil {
		return RecordListResult[StaffView]{}, fmt.Errorf("list staff: %w", err)
	}
	rows, page := listutil.Trim(params.PageParams, rows)
	items := make([]StaffView, len(rows))
	for i, m := range rows {
		items[i] = StaffView{ID: m.ID, Name: m.Name, Email: m.Email, Role: m.Role, Status: m.Status}
	}
	return RecordListResult[StaffView]{Items: items, Page: page}, nil
}

// QueryListEquipment returns one page of equipment.
func QueryListEquipment(ctx context.Context, params listutil.ListParams, store EquipmentStore) (RecordListResult[EquipmentView], error) {
	rows, err := store.List(ctx, equipment.ListFilter{
		Limit:    params.Probe(),
		Offset:   params.Offset(),
		Category: params.Filters["category"],
		Status:   domainEquipment.Status(params.Filters["status"]),
	})
	if err != nil {
		return RecordListResult[EquipmentView]{}, fmt.Errorf("list equipment: %w", err)
	}
	rows, page := listutil.Trim(params.PageParams, rows)
	items := make([]EquipmentView, len(rows))
	for i, it := range rows {
		items[i] = EquipmentView{ID: it.ID, Name: it.Name, Category: it.Category, Status: it.Status}
	}
	return RecordListResult[EquipmentView]{Items: items, Page: page}, nil
}

// QueryListIncome returns one page of income entries, most recent first.
func QueryListIncome(ctx context.Context, params listutil.ListParams, store IncomeStore) (RecordListResult[IncomeView], error) {
	rows, err := store.List(ctx, income.ListFilter{
		Limit:    params.Probe(),
		Offset:   params.Offset(),
		Category: params.Filters["category"],
	})
	if err != nil {
		return RecordListResult[IncomeView]{}, fmt.Errorf("list income: %w", err)
	}
	rows, page := listutil.Trim(params.PageParams, rows)
	items := make([]IncomeView, len(rows))
	for i, e := range rows {
		items[i] = IncomeView{ID: e.ID, Amount: e.Amount.StringFixed(2), Category: e.Category, Description: e.Description, ReceivedAt: e.ReceivedAt}
	}
	return RecordListResult[IncomeView]{Items: items, Page: page}, nil
}
