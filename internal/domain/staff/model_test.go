package staff

import (
	"errors"
	"testing"
)

// TestMember_Validate covers the validation rules.
func TestMember_Validate(t *testing.T) {
	base := Member{Name: "Rui", Email: "rui@example.com", Role: RoleInstructor, Status: StatusActive}

	if err := base.Validate(); err != nil {
		t.Fatalf("valid member rejected: %v", err)
	}

	bad := base
	bad.Role = "janitor"
	if err := bad.Validate(); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("role: got %v, want ErrInvalidRole", err)
	}

	bad = base
	bad.Status = "fired"
	if err := bad.Validate(); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("status: got %v, want ErrInvalidStatus", err)
	}

	bad = base
	bad.Email = "rui.example.com"
	if err := bad.Validate(); !errors.Is(err, ErrInvalidEmail) {
		t.Errorf("email: got %v, want ErrInvalidEmail", err)
	}
}
