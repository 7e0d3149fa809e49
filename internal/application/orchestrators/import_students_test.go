package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"studio/internal/domain/student"
)

// failingStudentStore rejects every Save.
type failingStudentStore struct {
	*mockStudentStore
}

func (f failingStudentStore) Save(context.Context, student.Student) error {
	return errors.New("disk full")
}

// unreachableStudentStore fails every email lookup.
type unreachableStudentStore struct {
	*mockStudentStore
}

func (u unreachableStudentStore) GetByEmail(context.Context, string) (student.Student, error) {
	return student.Student{}, errors.New("database is locked")
}

func importDeps(store StudentStore) ImportStudentsDeps {
	n := 0
	return ImportStudentsDeps{
		StudentStore: store,
		GenerateID: func() string {
			n++
			return fmt.Sprintf("gen-%d", n)
		},
		Now: fixedClock(recordsNow),
	}
}

// TestImportStudents_CreatesRows verifies valid rows are created with backfilled registration dates.
func TestImportStudents_CreatesRows(t *testing.T) {
	csv := "Name,Email,Status,Registered\n" +
		"Ana Costa,ana@example.com,pending,2026-03-02\n" +
		"Rui Lima,RUI@example.com,,\n"
	store := newMockStudentStore()

	result, err := ExecuteImportStudents(context.Background(), ImportStudentsInput{Reader: strings.NewReader(csv)}, importDeps(store))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 2 || result.Created != 2 || len(result.Errors) != 0 {
		t.Fatalf("result=%+v", result)
	}

	ana := store.byID["gen-1"]
	if ana.Status != student.StatusPending || !ana.CreatedAt.Equal(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("ana=%+v", ana)
	}
	rui := store.byID["gen-2"]
	if rui.Email != "rui@example.com" || rui.Status != student.StatusActive || !rui.CreatedAt.Equal(recordsNow) {
		t.Errorf("rui=%+v", rui)
	}
}

// TestImportStudents_RowErrors verifies bad rows are reported by line number without stopping the import.
func TestImportStudents_RowErrors(t *testing.T) {
	csv := "NAME,EMAIL,REGISTERED,NOTES\n" +
		"No Email,not-an-email,,\n" +
		"Bad Date,bad@example.com,02/03/2026,\n" +
		",blank@example.com,,\n" +
		"Good,good@example.com,,hello\n"
	store := newMockStudentStore()

	result, err := ExecuteImportStudents(context.Background(), ImportStudentsInput{Reader: strings.NewReader(csv)}, importDeps(store))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Created != 1 || len(result.Errors) != 3 {
		t.Fatalf("result=%+v", result)
	}
	wantRows := []int{2, 3, 4}
	for i, row := range wantRows {
		if result.Errors[i].Row != row {
			t.Errorf("error[%d].Row=%d, want %d", i, result.Errors[i].Row, row)
		}
	}
	if len(result.Unknown) != 1 || result.Unknown[0] != "NOTES" {
		t.Errorf("unknown=%v, want [NOTES]", result.Unknown)
	}
}

// TestImportStudents_ExistingEmail verifies duplicates are skipped unless update mode is on.
func TestImportStudents_ExistingEmail(t *testing.T) {
	original := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	csv := "NAME,EMAIL,STATUS\nAna Maria Costa,ana@example.com,inactive\n"

	store := newMockStudentStore(student.Student{ID: "s1", Name: "Ana Costa", Email: "ana@example.com", Status: student.StatusActive, CreatedAt: original})
	result, err := ExecuteImportStudents(context.Background(), ImportStudentsInput{Reader: strings.NewReader(csv)}, importDeps(store))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Skipped != 1 || store.byID["s1"].Name != "Ana Costa" {
		t.Fatalf("skip: result=%+v stored=%+v", result, store.byID["s1"])
	}

	result, err = ExecuteImportStudents(context.Background(), ImportStudentsInput{Reader: strings.NewReader(csv), UpdateMode: true}, importDeps(store))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := store.byID["s1"]
	if result.Updated != 1 || got.Name != "Ana Maria Costa" || got.Status != student.StatusInactive {
		t.Errorf("update: result=%+v stored=%+v", result, got)
	}
	if !got.CreatedAt.Equal(original) {
		t.Errorf("CreatedAt changed to %v", got.CreatedAt)
	}
	if len(store.byID) != 1 {
		t.Errorf("students=%d, want 1", len(store.byID))
	}
}

// TestImportStudents_DryRun verifies counts are reported and nothing is written.
func TestImportStudents_DryRun(t *testing.T) {
	csv := "NAME,EMAIL\nAna,ana@example.com\nRui,rui@example.com\n"
	store := newMockStudentStore()

	result, err := ExecuteImportStudents(context.Background(), ImportStudentsInput{Reader: strings.NewReader(csv), DryRun: true}, importDeps(store))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.DryRun || result.Created != 2 {
		t.Errorf("result=%+v", result)
	}
	if len(store.byID) != 0 {
		t.Errorf("dry run wrote %d students", len(store.byID))
	}
}

// TestImportStudents_InvalidStructure verifies unusable CSVs return ImportValidationError.
func TestImportStudents_InvalidStructure(t *testing.T) {
	for name, body := range map[string]string{
		"empty":         "",
		"missing email": "NAME,STATUS\nAna,active\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ExecuteImportStudents(context.Background(), ImportStudentsInput{Reader: strings.NewReader(body)}, importDeps(newMockStudentStore()))
			var verr *ImportValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err=%v, want ImportValidationError", err)
			}
		})
	}
}

// TestImportStudents_SaveFailure verifies store errors become row errors.
func TestImportStudents_SaveFailure(t *testing.T) {
	csv := "NAME,EMAIL\nAna,ana@example.com\n"
	store := failingStudentStore{newMockStudentStore()}

	result, err := ExecuteImportStudents(context.Background(), ImportStudentsInput{Reader: strings.NewReader(csv)}, importDeps(store))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Created != 0 || len(result.Errors) != 1 {
		t.Errorf("result=%+v", result)
	}
}

// TestImportStudents_ReaderFailureAborts verifies a failing stream ends the import with its error.
func TestImportStudents_ReaderFailureAborts(t *testing.T) {
	errCut := errors.New("connection reset")
	reader := io.MultiReader(strings.NewReader("NAME,EMAIL\nAna,ana@example.com\n"), iotest.ErrReader(errCut))
	store := newMockStudentStore()

	done := make(chan error, 1)
	go func() {
		_, err := ExecuteImportStudents(context.Background(), ImportStudentsInput{Reader: reader}, importDeps(store))
		done <- err
	}()

	select {
	case err := <-done:
		if !errors.Is(err, errCut) {
			t.Errorf("err=%v, want the reader error", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("import did not stop on a failing reader")
	}
}

// TestImportStudents_MalformedRowContinues verifies CSV syntax errors stay per-row.
func TestImportStudents_MalformedRowContinues(t *testing.T) {
	csv := "NAME,EMAIL\n\"Ana\"x,ana@example.com\nRui,rui@example.com\n"
	store := newMockStudentStore()

	result, err := ExecuteImportStudents(context.Background(), ImportStudentsInput{Reader: strings.NewReader(csv)}, importDeps(store))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Created != 1 || len(result.Errors) != 1 || result.Errors[0].Row != 2 {
		t.Errorf("result=%+v", result)
	}
}

// TestImportStudents_RegisteredInStudioZone verifies REGISTERED dates are midnight in the studio's zone.
func TestImportStudents_RegisteredInStudioZone(t *testing.T) {
	loc := time.FixedZone("UTC-4", -4*3600)
	csv := "NAME,EMAIL,REGISTERED\nAna,ana@example.com,2026-06-01\n"
	store := newMockStudentStore()
	deps := importDeps(store)
	deps.Location = loc

	if _, err := ExecuteImportStudents(context.Background(), ImportStudentsInput{Reader: strings.NewReader(csv)}, deps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := store.byID["gen-1"].CreatedAt
	if !got.Equal(time.Date(2026, 6, 1, 0, 0, 0, 0, loc)) {
		t.Errorf("CreatedAt=%v, want 2026-06-01 00:00 UTC-4", got)
	}
	if local := got.In(loc); local.Day() != 1 {
		t.Errorf("local day=%d, want 1", local.Day())
	}
}

// TestImportStudents_LookupFailure verifies a store error on lookup is a row error, not an insert.
func TestImportStudents_LookupFailure(t *testing.T) {
	csv := "NAME,EMAIL\nAna,ana@example.com\n"
	inner := newMockStudentStore()
	store := unreachableStudentStore{inner}

	result, err := ExecuteImportStudents(context.Background(), ImportStudentsInput{Reader: strings.NewReader(csv)}, importDeps(store))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Created != 0 || len(result.Errors) != 1 || !strings.Contains(result.Errors[0].Message, "lookup failed") {
		t.Errorf("result=%+v", result)
	}
	if len(inner.byID) != 0 {
		t.Errorf("students=%d, want 0", len(inner.byID))
	}
}
