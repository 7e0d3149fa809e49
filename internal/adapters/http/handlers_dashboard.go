package web

import (
	"context"
	"errors"
	"net/http"

	"studio/internal/application/chartdata"
	"studio/internal/application/listutil"
	"studio/internal/application/projections"
)

var errHalfRange = errors.New("from and to must be given together")

// dashboardRange reads ?from=&to= in the studio's time zone. With neither
// bound it defaults to the last DefaultRangeDays days.
func dashboardRange(r *http.Request) (chartdata.DateRange, error) {
	q := r.URL.Query()
	from, to := q.Get("from"), q.Get("to")
	switch {
	case from == "" && to == "":
		return chartdata.LastDays(timeNow().In(dashboardLocation), DefaultRangeDays), nil
	case from == "" || to == "":
		return chartdata.DateRange{}, errHalfRange
	}
	return chartdata.ParseDateRange(from, to, dashboardLocation)
}

// handleDashboard handles GET /api/dashboard/{view}
func handleDashboard(w http.ResponseWriter, r *http.Request) {
	rng, err := dashboardRange(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ctx := r.Context()
	query := projections.DashboardQuery{Range: rng, Formatter: dashboardFormatter}

	var result any
	switch r.PathValue("view") {
	case "overview":
		result, err = projections.QueryGetOverviewDashboard(ctx, query, projections.GetOverviewDashboardDeps{
			EnrollmentStore: stores.EnrollmentStore,
			IncomeStore:     stores.IncomeStore,
			StudentStore:    stores.StudentStore,
		})
	case "students":
		result, err = projections.QueryGetStudentsDashboard(ctx, query, projections.GetStudentsDashboardDeps{StudentStore: stores.StudentStore})
	case "staff":
		result, err = projections.QueryGetStaffDashboard(ctx, query, projections.GetStaffDashboardDeps{StaffStore: stores.StaffStore})
	case "equipment":
		result, err = projections.QueryGetEquipmentDashboard(ctx, query, projections.GetEquipmentDashboardDeps{EquipmentStore: stores.EquipmentStore})
	default:
		http.NotFound(w, r)
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// serveList parses paging and filters for one of the record lists.
func serveList[T any](w http.ResponseWriter, r *http.Request, filterKeys []string, query func(context.Context, listutil.ListParams) (projections.RecordListResult[T], error)) {
	params := listutil.ParseListParams(r.URL.Query(), filterKeys)
	result, err := query(r.Context(), params)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleListStudents handles GET /api/students?status=&page=&per_page=
func handleListStudents(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, projections.StudentFilterKeys, func(ctx context.Context, p listutil.ListParams) (projections.RecordListResult[projections.StudentView], error) {
		return projections.QueryListStudents(ctx, p, stores.StudentStore)
	})
}

// handleListStaff handles GET /api/staff?role=&status=
func handleListStaff(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, projections.StaffFilterKeys, func(ctx context.Context, p listutil.ListParams) (projections.RecordListResult[projections.StaffView], error) {
		return projections.QueryListStaff(ctx, p, stores.StaffStore)
	})
}

// handleListEquipment handles GET /api/equipment?category=&status=
func handleListEquipment(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, projections.EquipmentFilterKeys, func(ctx context.Context, p listutil.ListParams) (projections.RecordListResult[projections.EquipmentView], error) {
		return projections.QueryListEquipment(ctx, p, stores.EquipmentStore)
	})
}

// handleListIncome handles GET /api/income?category=
func handleListIncome(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, projections.IncomeFilterKeys, func(ctx context.Context, p listutil.ListParams) (projections.RecordListResult[projections.IncomeView], error) {
		return projections.QueryListIncome(ctx, p, stores.IncomeStore)
	})
}
