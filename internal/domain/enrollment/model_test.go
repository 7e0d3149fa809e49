package enrollment

import (
	"testing"
	"time"
)

func validEnrollment() Enrollment {
	return Enrollment{
		ID:         "e1",
		StudentID:  "s1",
		ClassName:  "Morning HIIT",
		EnrolledAt: time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC),
		Status:     StatusAttended,
	}
}

// TestEnrollment_Validate covers the validation rules.
func TestEnrollment_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(e *Enrollment)
		wantErr bool
	}{
		{"valid", func(e *Enrollment) {}, false},
		{"missing student", func(e *Enrollment) { e.StudentID = "" }, true},
		{"blank class", func(e *Enrollment) { e.ClassName = "  " }, true},
		{"unknown status", func(e *Enrollment) { e.Status = "late" }, true},
		{"missing enrolled time", func(e *Enrollment) { e.EnrolledAt = time.Time{} }, true},
		{"unscheduled session is fine", func(e *Enrollment) { e.SessionAt = time.Time{} }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEnrollment()
			tt.mutate(&e)
			err := e.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err=%v, wantErr=%v", err, tt.wantErr)
			}
		})
	}
}

// TestStatus_Valid verifies the closed status set.
func TestStatus_Valid(t *testing.T) {
	for _, s := range Statuses {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	if Status("pending").Valid() {
		t.Error("pending should not be a valid enrollment status")
	}
}
