package orchestrators

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"studio/internal/domain/student"
)

// ImportStudentsInput carries the CSV stream and import options.
// PRE: Reader is a CSV stream with a header row containing NAME and EMAIL.
// INVARIANT: Existing students are never deleted; IDs are preserved on update.
type ImportStudentsInput struct {
	Reader         io.Reader
	AdminAccountID string
	DryRun         bool
	UpdateMode     bool
}

// ImportStudentsResult holds aggregate counts and per-row errors from an import run.
type ImportStudentsResult struct {
	Total   int                     `json:"total"`
	Created int                     `json:"created"`
	Updated int                     `json:"updated"`
	Skipped int                     `json:"skipped"`
	Errors  []ImportStudentRowError `json:"errors"`
	DryRun  bool                    `json:"dryRun"`
	Unknown []string                `json:"unknownColumns,omitempty"`
}

// ImportStudentRowError describes a validation or processing error for a single CSV row.
type ImportStudentRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportStudentsDeps holds external dependencies for the import orchestrator.
type ImportStudentsDeps struct {
	StudentStore StudentStore
	GenerateID   func() string
	Now          func() time.Time
	Location     *time.Location // calendar for REGISTERED dates; nil means UTC
}

// ImportValidationError is returned when the CSV structure is unusable.
type ImportValidationError struct {
	Message string
}

// Error implements the error interface.
func (e *ImportValidationError) Error() string {
	return e.Message
}

var importColumns = map[string]bool{"NAME": true, "EMAIL": true, "STATUS": true, "REGISTERED": true}

// ExecuteImportStudents parses a CSV stream and creates or updates students.
// REGISTERED (YYYY-MM-DD) backfills the creation time as midnight in
// deps.Location, the calendar the dashboards bucket by.
// POST: Counts and per-row errors returned; no writes when DryRun is set
// POST: A failing reader aborts the import with its error; only CSV syntax errors are per-row
func ExecuteImportStudents(ctx context.Context, input ImportStudentsInput, deps ImportStudentsDeps) (ImportStudentsResult, error) {
	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}
	cr := csv.NewReader(input.Reader)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return ImportStudentsResult{}, &ImportValidationError{Message: "CSV is empty"}
	}
	if err != nil {
		return ImportStudentsResult{}, err
	}

	colIdx := make(map[string]int, len(header))
	var unknown []string
	for i, h := range header {
		key := strings.ToUpper(strings.TrimSpace(h))
		colIdx[key] = i
		if !importColumns[key] {
			unknown = append(unknown, h)
		}
	}
	for _, required := range []string{"NAME", "EMAIL"} {
		if _, ok := colIdx[required]; !ok {
			return ImportStudentsResult{}, &ImportValidationError{Message: "CSV missing required column: " + required}
		}
	}

	getCol := func(row []string, col string) string {
		i, ok := colIdx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	result := ImportStudentsResult{DryRun: input.DryRun, Unknown: unknown, Errors: []ImportStudentRowError{}}
	rowNum := 1
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNum++
		var syntaxErr *csv.ParseError
		if errors.As(err, &syntaxErr) {
			result.Errors = append(result.Errors, ImportStudentRowError{Row: rowNum, Message: "malformed row"})
			continue
		}
		if err != nil {
			return result, fmt.Errorf("read row %d: %w", rowNum, err)
		}
		result.Total++

		addr, parseErr := mail.ParseAddress(getCol(row, "EMAIL"))
		if parseErr != nil {
			result.Errors = append(result.Errors, ImportStudentRowError{Row: rowNum, Message: "invalid email: " + getCol(row, "EMAIL")})
			continue
		}

		candidate := student.Student{
			Name:   getCol(row, "NAME"),
			Email:  strings.ToLower(addr.Address),
			Status: student.Status(strings.ToLower(getCol(row, "STATUS"))),
		}
		if candidate.Status == "" {
			candidate.Status = student.StatusActive
		}
		if raw := getCol(row, "REGISTERED"); raw != "" {
			registered, err := time.ParseInLocation("2006-01-02", raw, loc)
			if err != nil {
				result.Errors = append(result.Errors, ImportStudentRowError{Row: rowNum, Message: "invalid registered date: " + raw})
				continue
			}
			candidate.CreatedAt = registered
		}
		if err := candidate.Validate(); err != nil {
			result.Errors = append(result.Errors, ImportStudentRowError{Row: rowNum, Message: err.Error()})
			continue
		}

		existing, lookupErr := deps.StudentStore.GetByEmail(ctx, candidate.Email)
		if lookupErr != nil && !errors.Is(lookupErr, sql.ErrNoRows) {
			slog.Error("students_import_lookup_failed", "row", rowNum, "email", candidate.Email, "err", lookupErr)
			result.Errors = append(result.Errors, ImportStudentRowError{Row: rowNum, Message: "lookup failed (see server log)"})
			continue
		}
		exists := lookupErr == nil
		if exists && !input.UpdateMode {
			result.Skipped++
			continue
		}
		if input.DryRun {
			if exists {
				result.Updated++
			} else {
				result.Created++
			}
			continue
		}

		if exists {
			existing.Name = candidate.Name
			existing.Status = candidate.Status
			if !candidate.CreatedAt.IsZero() {
				existing.CreatedAt = candidate.CreatedAt
			}
			candidate = existing
		} else {
			candidate.ID = deps.GenerateID()
			if candidate.CreatedAt.IsZero() {
				candidate.CreatedAt = nowOr(deps.Now)
			}
		}
		if err := deps.StudentStore.Save(ctx, candidate); err != nil {
			slog.Error("students_import_save_failed", "row", rowNum, "email", candidate.Email, "err", err)
			result.Errors = append(result.Errors, ImportStudentRowError{Row: rowNum, Message: "save failed (see server log)"})
			continue
		}
		if exists {
			result.Updated++
		} else {
			result.Created++
		}
	}

	slog.Info("students_import",
		"admin", input.AdminAccountID,
		"dry_run", input.DryRun,
		"update_mode", input.UpdateMode,
		"total", result.Total,
		"created", result.Created,
		"updated", result.Updated,
		"skipped", result.Skipped,
		"errors", len(result.Errors),
	)
	return result, nil
}
