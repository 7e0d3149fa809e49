package web

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"studio/internal/adapters/http/perf"
	"studio/internal/application/orchestrators"
	domainAccount "studio/internal/domain/account"
)

const (
	routeAdminEmail    = "owner@studio.test"
	routeAdminPassword = "initial admin password"
	routeStaffEmail    = "desk@studio.test"
	routeStaffPassword = "front desk password"
)

// newTestServer builds the full middleware chain over fresh stores with a
// seeded admin (who must change the password) and a ready staff account.
func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	s := newTestStores(t)
	ctx := context.Background()
	deps := orchestrators.CreateAccountDeps{AccountStore: s.AccountStore}
	if err := orchestrators.ExecuteSeedAdmin(ctx, deps, routeAdminEmail, routeAdminPassword); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	if _, err := orchestrators.ExecuteCreateAccount(ctx, orchestrators.CreateAccountInput{
		Email:    routeStaffEmail,
		Password: routeStaffPassword,
		Role:     domainAccount.RoleStaff,
	}, deps); err != nil {
		t.Fatalf("create staff: %v", err)
	}

	RateLimitPerSecond = 1000
	digestDeps = nil
	t.Cleanup(Shutdown)
	return NewMux(Config{CSRFKey: bytes.Repeat([]byte("k"), 32), Location: time.UTC}, s, perf.NewCollector(100))
}

func serve(h http.Handler, req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(method, url, body string) *http.Request {
	req := httptest.NewRequest(method, url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// login posts credentials and returns the session cookie.
func login(t *testing.T, h http.Handler, email, password string) *http.Cookie {
	t.Helper()
	rec := serve(h, jsonRequest("POST", "/api/login", `{"email":"`+email+`","password":"`+password+`"}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: got %d. Body: %s", email, rec.Code, rec.Body.String())
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == "studio_session" {
			return c
		}
	}
	t.Fatal("login did not set a session cookie")
	return nil
}

// TestRoutes_RequireSession verifies protected routes reject anonymous requests.
func TestRoutes_RequireSession(t *testing.T) {
	h := newTestServer(t)

	for _, path := range []string{"/api/students", "/api/dashboard/overview", "/api/admin/perf"} {
		if rec := serve(h, httptest.NewRequest("GET", path, nil)); rec.Code != http.StatusUnauthorized {
			t.Errorf("GET %s: got %d, want 401", path, rec.Code)
		}
	}
}

// TestRoutes_Login verifies wrong passwords are refused and lock the account after repeated failures.
func TestRoutes_Login(t *testing.T) {
	h := newTestServer(t)

	body := `{"email":"` + routeStaffEmail + `","password":"wrong password here"}`
	for i := range domainAccount.MaxFailedLogins {
		if rec := serve(h, jsonRequest("POST", "/api/login", body)); rec.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: got %d, want 401", i+1, rec.Code)
		}
	}
	good := `{"email":"` + routeStaffEmail + `","password":"` + routeStaffPassword + `"}`
	if rec := serve(h, jsonRequest("POST", "/api/login", good)); rec.Code != http.StatusTooManyRequests {
		t.Errorf("locked account: got %d, want 429", rec.Code)
	}
}

// TestRoutes_StaffCannotWrite verifies staff may read dashboards but not change records.
func TestRoutes_StaffCannotWrite(t *testing.T) {
	h := newTestServer(t)
	session := login(t, h, routeStaffEmail, routeStaffPassword)

	if rec := serve(h, httptest.NewRequest("GET", "/api/dashboard/overview", nil), session); rec.Code != http.StatusOK {
		t.Errorf("dashboard: got %d, want 200", rec.Code)
	}
	rec := serve(h, jsonRequest("POST", "/api/students", `{"name":"Ana","email":"ana@example.com"}`), session)
	if rec.Code != http.StatusForbidden {
		t.Errorf("register student: got %d, want 403", rec.Code)
	}
	if rec := serve(h, httptest.NewRequest("GET", "/api/admin/perf", nil), session); rec.Code != http.StatusForbidden {
		t.Errorf("perf: got %d, want 403", rec.Code)
	}
}

// TestRoutes_PasswordChangeGate verifies the seeded admin must change the password before using the API.
func TestRoutes_PasswordChangeGate(t *testing.T) {
	h := newTestServer(t)
	session := login(t, h, routeAdminEmail, routeAdminPassword)

	if rec := serve(h, httptest.NewRequest("GET", "/api/students", nil), session); rec.Code != http.StatusForbidden {
		t.Fatalf("before change: got %d, want 403", rec.Code)
	}
	if rec := serve(h, httptest.NewRequest("GET", "/api/me", nil), session); rec.Code != http.StatusOK {
		t.Errorf("me: got %d, want 200", rec.Code)
	}

	mismatch := `{"currentPassword":"` + routeAdminPassword + `","newPassword":"a brand new secret","confirmPassword":"something else"}`
	if rec := serve(h, jsonRequest("POST", "/api/change-password", mismatch), session); rec.Code != http.StatusBadRequest {
		t.Errorf("mismatch: got %d, want 400", rec.Code)
	}
	change := `{"currentPassword":"` + routeAdminPassword + `","newPassword":"a brand new secret","confirmPassword":"a brand new secret"}`
	if rec := serve(h, jsonRequest("POST", "/api/change-password", change), session); rec.Code != http.StatusNoContent {
		t.Fatalf("change: got %d, want 204", rec.Code)
	}
	if rec := serve(h, httptest.NewRequest("GET", "/api/students", nil), session); rec.Code != http.StatusOK {
		t.Errorf("after change: got %d, want 200", rec.Code)
	}
}

// TestRoutes_ImportNeedsCSRFToken verifies form uploads need the token while JSON calls do not.
func TestRoutes_ImportNeedsCSRFToken(t *testing.T) {
	h := newTestServer(t)
	session := login(t, h, routeAdminEmail, routeAdminPassword)
	change := `{"currentPassword":"` + routeAdminPassword + `","newPassword":"a brand new secret","confirmPassword":"a brand new secret"}`
	if rec := serve(h, jsonRequest("POST", "/api/change-password", change), session); rec.Code != http.StatusNoContent {
		t.Fatalf("change: got %d", rec.Code)
	}

	upload := func() *http.Request {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		part, _ := mw.CreateFormFile("file", "students.csv")
		part.Write([]byte("NAME,EMAIL\nAna,ana@example.com\n"))
		mw.Close()
		req := httptest.NewRequest("POST", "/api/students/import", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		return req
	}

	if rec := serve(h, upload(), session); rec.Code != http.StatusForbidden {
		t.Fatalf("without token: got %d, want 403", rec.Code)
	}

	rec := serve(h, httptest.NewRequest("GET", "/api/csrf-token", nil), session)
	if rec.Code != http.StatusOK {
		t.Fatalf("csrf-token: got %d", rec.Code)
	}
	token := decodeBody[map[string]string](t, rec)["token"]
	cookies := append([]*http.Cookie{session}, rec.Result().Cookies()...)

	req := upload()
	req.Header.Set("X-CSRF-Token", token)
	if rec := serve(h, req, cookies...); rec.Code != http.StatusOK {
		t.Errorf("with token: got %d, want 200. Body: %s", rec.Code, rec.Body.String())
	}

	if rec := serve(h, jsonRequest("POST", "/api/students", `{"name":"Rui","email":"rui@example.com"}`), session); rec.Code != http.StatusCreated {
		t.Errorf("json write: got %d, want 201", rec.Code)
	}
}

// TestRoutes_DigestDisabled verifies the digest endpoint is absent until configured.
func TestRoutes_DigestDisabled(t *testing.T) {
	h := newTestServer(t)
	session := login(t, h, routeAdminEmail, routeAdminPassword)
	change := `{"currentPassword":"` + routeAdminPassword + `","newPassword":"a brand new secret","confirmPassword":"a brand new secret"}`
	serve(h, jsonRequest("POST", "/api/change-password", change), session)

	if rec := serve(h, jsonRequest("POST", "/api/admin/digest", `{}`), session); rec.Code != http.StatusNotFound {
		t.Errorf("got %d, want 404", rec.Code)
	}
}

// TestNewMux_StopsPreviousLimiter verifies rebuilding the mux stops the old limiter's sweep.
func TestNewMux_StopsPreviousLimiter(t *testing.T) {
	newTestServer(t)
	first := limiter

	newTestServer(t)
	select {
	case <-first.Done():
	case <-time.After(time.Second):
		t.Fatal("previous limiter still running")
	}

	current := limiter
	Shutdown()
	select {
	case <-current.Done():
	default:
		t.Error("Shutdown should stop the current limiter")
	}
}
