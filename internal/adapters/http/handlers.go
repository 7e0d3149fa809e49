package web

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"

	"studio/internal/adapters/http/middleware"
	"studio/internal/application/orchestrators"
	"studio/internal/domain/equipment"
	"studio/internal/domain/student"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json_encode_failed", "error", err.Error())
	}
}

// conflictErrors are state clashes reported as 409.
var conflictErrors = []error{
	orchestrators.ErrEmailAlreadyExists,
	orchestrators.ErrStudentEmailExists,
	orchestrators.ErrStudentInactive,
	student.ErrAlreadyActive,
	equipment.ErrAlreadyInState,
}

// writeError maps an orchestrator error to a status code. Anything that is
// neither a known conflict, a missing record nor invalid input is a 500.
func writeError(w http.ResponseWriter, err error) {
	for _, c := range conflictErrors {
		if errors.Is(err, c) {
			http.Error(w, c.Error(), http.StatusConflict)
			return
		}
	}
	if errors.Is(err, sql.ErrNoRows) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	var invalid *orchestrators.InvalidInputError
	if errors.As(err, &invalid) {
		http.Error(w, invalid.Error(), http.StatusBadRequest)
		return
	}
	internalError(w, err)
}

func isHTMLRequest(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") || strings.Contains(accept, "application/xhtml+xml")
}

// handleLogin handles POST /api/login
func handleLogin(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	result, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
		Email:    input.Email,
		Password: input.Password,
	}, orchestrators.LoginDeps{AccountStore: stores.AccountStore, Now: timeNow})
	switch {
	case errors.Is(err, orchestrators.ErrAccountLocked):
		http.Error(w, err.Error(), http.StatusTooManyRequests)
		return
	case errors.Is(err, orchestrators.ErrInvalidCredentials):
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	case err != nil:
		internalError(w, err)
		return
	}

	token, err := sessions.Create(middleware.Session{
		AccountID:              result.AccountID,
		Email:                  result.Email,
		Role:                   result.Role,
		PasswordChangeRequired: result.PasswordChangeRequired,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)
	writeJSON(w, http.StatusOK, map[string]any{
		"email":                  result.Email,
		"role":                   result.Role,
		"passwordChangeRequired": result.PasswordChangeRequired,
	})
}

// handleLogout handles POST /api/logout
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.SessionToken(r); token != "" {
		sessions.Delete(token)
	}
	middleware.ClearSessionCookie(w)
	if isHTMLRequest(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleChangePassword handles POST /api/change-password
func handleChangePassword(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}
	var input struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if input.NewPassword != input.ConfirmPassword {
		http.Error(w, "new passwords do not match", http.StatusBadRequest)
		return
	}

	err := orchestrators.ExecuteChangePassword(r.Context(), orchestrators.ChangePasswordInput{
		AccountID:       session.AccountID,
		CurrentPassword: input.CurrentPassword,
		NewPassword:     input.NewPassword,
	}, orchestrators.ChangePasswordDeps{AccountStore: stores.AccountStore})
	if err != nil {
		writeError(w, err)
		return
	}

	session.PasswordChangeRequired = false
	sessions.Update(middleware.SessionToken(r), session)
	w.WriteHeader(http.StatusNoContent)
}

// handleMe handles GET /api/me
func handleMe(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"email":                  session.Email,
		"role":                   session.Role,
		"passwordChangeRequired": session.PasswordChangeRequired,
		"canViewDashboards":      session.CanViewDashboards(),
	})
}

// handleCSRFToken handles GET /api/csrf-token; multipart uploads send it back
// in the X-CSRF-Token header.
func handleCSRFToken(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"token": csrf.Token(r)})
}

// decodeStatus reads a JSON body of the form {"status": "..."}.
// The orchestrator validates the value.
func decodeStatus[S ~string](r *http.Request) (S, error) {
	var input struct {
		Status string `json:"status"`
	}
	if err := strictDecode(r, &input); err != nil {
		return "", err
	}
	return S(strings.ToLower(strings.TrimSpace(input.Status))), nil
}
