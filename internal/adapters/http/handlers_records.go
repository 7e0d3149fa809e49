package web

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"studio/internal/adapters/http/middleware"
	"studio/internal/application/orchestrators"
	"studio/internal/domain/enrollment"
	"studio/internal/domain/equipment"
	"studio/internal/domain/staff"
	"studio/internal/domain/student"
)

// maxImportBytes caps CSV uploads.
const maxImportBytes = 5 << 20

func created(w http.ResponseWriter, id string) {
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// handleRegisterStudent handles POST /api/students
func handleRegisterStudent(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name   string `json:"name"`
		Email  string `json:"email"`
		Status string `json:"status"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	id, err := orchestrators.ExecuteRegisterStudent(r.Context(), orchestrators.RegisterStudentInput{
		Name:   input.Name,
		Email:  input.Email,
		Status: student.Status(input.Status),
	}, orchestrators.RegisterStudentDeps{StudentStore: stores.StudentStore, Now: timeNow})
	if err != nil {
		writeError(w, err)
		return
	}
	created(w, id)
}

// handleActivateStudent handles POST /api/students/{id}/activate
func handleActivateStudent(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteActivateStudent(r.Context(), r.PathValue("id"), orchestrators.RegisterStudentDeps{StudentStore: stores.StudentStore})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleImportStudents handles POST /api/students/import?dry_run=1&update=1.
// The CSV comes as the "file" field of a multipart form or as a text/csv body.
func handleImportStudents(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)

	var csvReader io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("file")
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "file too large", http.StatusRequestEntityTooLarge)
			return
		}
		if err != nil {
			http.Error(w, "missing file field", http.StatusBadRequest)
			return
		}
		defer file.Close()
		csvReader = file
	}

	session, _ := middleware.GetSessionFromContext(r.Context())
	q := r.URL.Query()
	result, err := orchestrators.ExecuteImportStudents(r.Context(), orchestrators.ImportStudentsInput{
		Reader:         csvReader,
		AdminAccountID: session.AccountID,
		DryRun:         queryFlag(q.Get("dry_run")),
		UpdateMode:     queryFlag(q.Get("update")),
	}, orchestrators.ImportStudentsDeps{
		StudentStore: stores.StudentStore,
		GenerateID:   generateID,
		Now:          timeNow,
		Location:     dashboardLocation,
	})

	var structural *orchestrators.ImportValidationError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &structural):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case errors.As(err, &tooLarge):
		http.Error(w, "file too large", http.StatusRequestEntityTooLarge)
		return
	case err != nil:
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func queryFlag(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// handleAddStaff handles POST /api/staff
func handleAddStaff(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name   string `json:"name"`
		Email  string `json:"email"`
		Role   string `json:"role"`
		Status string `json:"status"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	id, err := orchestrators.ExecuteAddStaff(r.Context(), orchestrators.AddStaffInput{
		Name:   input.Name,
		Email:  input.Email,
		Role:   input.Role,
		Status: staff.Status(input.Status),
	}, orchestrators.AddStaffDeps{StaffStore: stores.StaffStore, Now: timeNow})
	if err != nil {
		writeError(w, err)
		return
	}
	created(w, id)
}

// handleAddEquipment handles POST /api/equipment
func handleAddEquipment(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name     string `json:"name"`
		Category string `json:"category"`
		Status   string `json:"status"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	id, err := orchestrators.ExecuteAddEquipment(r.Context(), orchestrators.AddEquipmentInput{
		Name:     input.Name,
		Category: input.Category,
		Status:   equipment.Status(input.Status),
	}, orchestrators.EquipmentDeps{EquipmentStore: stores.EquipmentStore, Now: timeNow})
	if err != nil {
		writeError(w, err)
		return
	}
	created(w, id)
}

// handleSetEquipmentStatus handles PATCH /api/equipment/{id}/status
func handleSetEquipmentStatus(w http.ResponseWriter, r *http.Request) {
	status, err := decodeStatus[equipment.Status](r)
	if err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	err = orchestrators.ExecuteSetEquipmentStatus(r.Context(), orchestrators.SetEquipmentStatusInput{
		ID:     r.PathValue("id"),
		Status: status,
	}, orchestrators.EquipmentDeps{EquipmentStore: stores.EquipmentStore, Now: timeNow})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func enrollDeps() orchestrators.EnrollStudentDeps {
	return orchestrators.EnrollStudentDeps{
		EnrollmentStore: stores.EnrollmentStore,
		StudentStore:    stores.StudentStore,
		Now:             timeNow,
	}
}

// handleEnrollStudent handles POST /api/enrollments
func handleEnrollStudent(w http.ResponseWriter, r *http.Request) {
	var input struct {
		StudentID string    `json:"studentId"`
		ClassName string    `json:"className"`
		SessionAt time.Time `json:"sessionAt"`
		Status    string    `json:"status"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	id, err := orchestrators.ExecuteEnrollStudent(r.Context(), orchestrators.EnrollStudentInput{
		StudentID: input.StudentID,
		ClassName: input.ClassName,
		SessionAt: input.SessionAt,
		Status:    enrollment.Status(input.Status),
	}, enrollDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	created(w, id)
}

// handleSetEnrollmentStatus handles PATCH /api/enrollments/{id}/status
func handleSetEnrollmentStatus(w http.ResponseWriter, r *http.Request) {
	status, err := decodeStatus[enrollment.Status](r)
	if err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := orchestrators.ExecuteSetEnrollmentStatus(r.Context(), r.PathValue("id"), status, enrollDeps()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleRecordIncome handles POST /api/income
func handleRecordIncome(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Amount      string    `json:"amount"`
		Category    string    `json:"category"`
		Description string    `json:"description"`
		ReceivedAt  time.Time `json:"receivedAt"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	id, err := orchestrators.ExecuteRecordIncome(r.Context(), orchestrators.RecordIncomeInput{
		Amount:      input.Amount,
		Category:    input.Category,
		Description: input.Description,
		ReceivedAt:  input.ReceivedAt,
	}, orchestrators.RecordIncomeDeps{IncomeStore: stores.IncomeStore, Now: timeNow})
	if err != nil {
		writeError(w, err)
		return
	}
	created(w, id)
}
