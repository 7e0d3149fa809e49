package web

import (
	"net/http"
	"strconv"
	"time"

	"studio/internal/application/orchestrators"
)

// handleCreateAccount handles POST /api/accounts. New accounts must change
// their password on first login.
func handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	id, err := orchestrators.ExecuteCreateAccount(r.Context(), orchestrators.CreateAccountInput{
		Email:                  input.Email,
		Password:               input.Password,
		Role:                   input.Role,
		PasswordChangeRequired: true,
	}, orchestrators.CreateAccountDeps{AccountStore: stores.AccountStore})
	if err != nil {
		writeError(w, err)
		return
	}
	created(w, id)
}

// handleAdminPerf handles GET /api/admin/perf?minutes=60&top=10
func handleAdminPerf(w http.ResponseWriter, r *http.Request) {
	if perfCollector == nil {
		http.Error(w, "performance collection disabled", http.StatusNotFound)
		return
	}
	minutes := boundedInt(r.URL.Query().Get("minutes"), 60, 1, 24*60)
	top := boundedInt(r.URL.Query().Get("top"), 10, 1, 100)
	since := timeNow().Add(-time.Duration(minutes) * time.Minute)
	writeJSON(w, http.StatusOK, perfCollector.Snapshot(since, top))
}

// boundedInt parses v, falling back to def when empty or out of [lo, hi].
func boundedInt(v string, def, lo, hi int) int {
	n, err := strconv.Atoi(v)
	if err != nil || n < lo || n > hi {
		return def
	}
	return n
}

// handleSendDigest handles POST /api/admin/digest: sends the dashboard digest now.
func handleSendDigest(w http.ResponseWriter, r *http.Request) {
	if digestDeps == nil {
		http.Error(w, "digest not configured", http.StatusNotFound)
		return
	}
	deps := *digestDeps
	deps.Now = timeNow
	result, err := orchestrators.ExecuteSendDashboardDigest(r.Context(), deps)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"from": result.Range.From.Format(time.DateOnly),
		"to":   result.Range.To.Format(time.DateOnly),
		"sent": result.Sent,
	})
}
