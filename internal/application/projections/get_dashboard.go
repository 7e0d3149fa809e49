package projections

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"studio/internal/adapters/storage/equipment"
	"studio/internal/adapters/storage/staff"
	"studio/internal/adapters/storage/student"
	"studio/internal/application/chartdata"
	domainEquipment "studio/internal/domain/equipment"
	domainIncome "studio/internal/domain/income"
	domainStaff "studio/internal/domain/staff"
)

// DashboardQuery carries input shared by every dashboard projection.
type DashboardQuery struct {
	Range chartdata.DateRange
	// Formatter labels time buckets; nil uses chartdata.DefaultFormatter.
	Formatter chartdata.BucketFormatter
}

// RangeView echoes the resolved range back to the client.
type RangeView struct {
	From        string         `json:"from"`
	To          string         `json:"to"`
	Granularity chartdata.Unit `json:"granularity"`
}

func newRangeView(q DashboardQuery) RangeView {
	return RangeView{
		From:        q.Range.From.Format("2006-01-02"),
		To:          q.Range.To.Format("2006-01-02"),
		Granularity: chartdata.SelectGranularity(q.Range, q.Formatter).Unit,
	}
}

// GetOverviewDashboardDeps holds dependencies for the overview dashboard.
type GetOverviewDashboardDeps struct {
	EnrollmentStore EnrollmentStore
	IncomeStore     IncomeStore
	StudentStore    StudentStore
}

// OverviewDashboardResult carries the overview charts.
type OverviewDashboardResult struct {
	Range           RangeView                      `json:"range"`
	Attendance      chartdata.CategoricalAggregate `json:"attendance"`
	Income          chartdata.CategoricalAggregate `json:"income"`
	IncomeTotal     string                         `json:"incomeTotal"`
	Registrations   chartdata.TimeSeriesAggregate  `json:"registrations"`
	EnrollmentTrend chartdata.TimeSeriesAggregate  `json:"enrollmentTrend"`
}

// QueryGetOverviewDashboard builds attendance, income, registration and booking charts for a range.
// PRE: query.Range.From <= query.Range.To
// POST: Every chart is populated; empty data is reported through IsEmpty, never as an error
func QueryGetOverviewDashboard(ctx context.Context, query DashboardQuery, deps GetOverviewDashboardDeps) (OverviewDashboardResult, error) {
	rng := query.Range
	enrollments, err := deps.EnrollmentStore.ListByDateRange(ctx, rng.From, rng.To)
	if err != nil {
		return OverviewDashboardResult{}, fmt.Errorf("list enrollments: %w", err)
	}
	entries, err := deps.IncomeStore.ListByDateRange(ctx, rng.From, rng.To)
	if err != nil {
		return OverviewDashboardResult{}, fmt.Errorf("list income: %w", err)
	}
	students, err := deps.StudentStore.ListByDateRange(ctx, rng.From, rng.To)
	if err != nil {
		return OverviewDashboardResult{}, fmt.Errorf("list students: %w", err)
	}

	total := domainIncome.Sum(chartdata.Filter(entries, rng, incomeReceivedAt))
	return OverviewDashboardResult{
		Range:           newRangeView(query),
		Attendance:      PrepareAttendanceChart(enrollments, rng),
		Income:          PrepareIncomeBreakdown(entries, rng, decimal.NewNullDecimal(total)),
		IncomeTotal:     total.StringFixed(2),
		Registrations:   PrepareRegistrationsChart(students, rng, query.Formatter),
		EnrollmentTrend: PrepareEnrollmentTrend(enrollments, rng, query.Formatter),
	}, nil
}

// GetStudentsDashboardDeps holds dependencies for the students dashboard.
type GetStudentsDashboardDeps struct {
	StudentStore StudentStore
}

// StudentsDashboardResult carries the student charts.
type StudentsDashboardResult struct {
	Range         RangeView                      `json:"range"`
	Status        chartdata.CategoricalAggregate `json:"status"`
	Registrations chartdata.TimeSeriesAggregate  `json:"registrations"`
}

// QueryGetStudentsDashboard builds the status split and registration trend for students registered in the range.
// PRE: query.Range.From <= query.Range.To
// POST: Returns both charts or a wrapped store error
func QueryGetStudentsDashboard(ctx context.Context, query DashboardQuery, deps GetStudentsDashboardDeps) (StudentsDashboardResult, error) {
	students, err := deps.StudentStore.List(ctx, student.ListFilter{})
	if err != nil {
		return StudentsDashboardResult{}, fmt.Errorf("list students: %w", err)
	}
	return StudentsDashboardResult{
		Range:         newRangeView(query),
		Status:        PrepareStudentStatusChart(students, query.Range),
		Registrations: PrepareRegistrationsChart(students, query.Range, query.Formatter),
	}, nil
}

// GetStaffDashboardDeps holds dependencies for the staff dashboard.
type GetStaffDashboardDeps struct {
	StaffStore StaffStore
}

// StaffDashboardResult carries the staff charts.
type StaffDashboardResult struct {
	Range  RangeView                      `json:"range"`
	Status chartdata.CategoricalAggregate `json:"status"`
	Roles  chartdata.CategoricalAggregate `json:"roles"`
}

// QueryGetStaffDashboard builds the status split and role breakdown for staff hired in the range.
// PRE: query.Range.From <= query.Range.To
// POST: Returns both charts or a wrapped store error
func QueryGetStaffDashboard(ctx context.Context, query DashboardQuery, deps GetStaffDashboardDeps) (StaffDashboardResult, error) {
	members, err := deps.StaffStore.List(ctx, staff.ListFilter{})
	if err != nil {
		return StaffDashboardResult{}, fmt.Errorf("list staff: %w", err)
	}
	hired := chartdata.Filter(members, query.Range, memberCreatedAt)
	return StaffDashboardResult{
		Range:  newRangeView(query),
		Status: PrepareStaffStatusChart(members, query.Range),
		Roles: chartdata.Categorize(hired, chartdata.CategoricalOptions[domainStaff.Member]{
			Classifier: chartdata.ClassifierFunc[domainStaff.Member](func(m domainStaff.Member) string {
				return m.Role
			}),
			Percentages: true,
		}),
	}, nil
}

// GetEquipmentDashboardDeps holds dependencies for the equipment dashboard.
type GetEquipmentDashboardDeps struct {
	EquipmentStore EquipmentStore
}

// AttentionItem is equipment that is not operational.
type AttentionItem struct {
	ID       string                 `json:"id"`
	Name     string                 `json:"name"`
	Category string                 `json:"category"`
	Status   domainEquipment.Status `json:"status"`
}

// EquipmentDashboardResult carries the equipment charts.
type EquipmentDashboardResult struct {
	Range          RangeView                      `json:"range"`
	Status         chartdata.CategoricalAggregate `json:"status"`
	Categories     chartdata.CategoricalAggregate `json:"categories"`
	NeedsAttention []AttentionItem                `json:"needsAttention"`
}

// QueryGetEquipmentDashboard builds health and category charts plus the current repair list.
// NeedsAttention lists every non-operational item regardless of range.
// PRE: query.Range.From <= query.Range.To
// POST: Returns the charts or a wrapped store error
func QueryGetEquipmentDashboard(ctx context.Context, query DashboardQuery, deps GetEquipmentDashboardDeps) (EquipmentDashboardResult, error) {
	items, err := deps.EquipmentStore.List(ctx, equipment.ListFilter{})
	if err != nil {
		return EquipmentDashboardResult{}, fmt.Errorf("list equipment: %w", err)
	}

	attention := []AttentionItem{}
	for _, item := range items {
		if item.NeedsAttention() {
			attention = append(attention, AttentionItem{ID: item.ID, Name: item.Name, Category: item.Category, Status: item.Status})
		}
	}
	return EquipmentDashboardResult{
		Range:          newRangeView(query),
		Status:         PrepareEquipmentStatusChart(items, query.Range),
		Categories:     PrepareEquipmentCategoryChart(items, query.Range),
		NeedsAttention: attention,
	}, nil
}
