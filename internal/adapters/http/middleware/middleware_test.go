package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	domainAccount "studio/internal/domain/account"
)

// TestRateLimiter_RefillsAfterInterval verifies the bucket empties and refills.
func TestRateLimiter_RefillsAfterInterval(t *testing.T) {
	rl := NewRateLimiter(2, time.Second)
	defer rl.Stop()
	now := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	if !rl.Allow("10.0.0.1") || !rl.Allow("10.0.0.1") {
		t.Fatal("first two requests should pass")
	}
	if rl.Allow("10.0.0.1") {
		t.Fatal("third request should be limited")
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("other IPs have their own bucket")
	}

	now = now.Add(time.Second)
	if !rl.Allow("10.0.0.1") {
		t.Error("bucket should refill after the interval")
	}
}

// TestRateLimiter_StopIsIdempotent verifies Stop closes Done and may be called twice.
func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(1, time.Second)
	rl.Stop()
	rl.Stop()

	select {
	case <-rl.Done():
	default:
		t.Fatal("Done should be closed after Stop")
	}
}

// TestRateLimit_IgnoresPort verifies connections from one host share a bucket.
func TestRateLimit_IgnoresPort(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour)
	defer rl.Stop()
	handler := RateLimit(rl)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	for i, addr := range []string{"192.0.2.7:5000", "192.0.2.7:5001"} {
		req := httptest.NewRequest("GET", "/api/dashboard/overview", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		want := http.StatusOK
		if i == 1 {
			want = http.StatusTooManyRequests
		}
		if rr.Code != want {
			t.Errorf("request %d from %s: status=%d, want %d", i, addr, rr.Code, want)
		}
	}
}

// TestSecurityHeaders verifies the headers are set on every response.
func TestSecurityHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).
		ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	for _, h := range []string{"Content-Security-Policy", "X-Frame-Options", "X-Content-Type-Options", "Referrer-Policy"} {
		if rr.Header().Get(h) == "" {
			t.Errorf("missing %s", h)
		}
	}
}

// TestSessionStore_Expiry verifies sessions vanish after SessionTTL.
func TestSessionStore_Expiry(t *testing.T) {
	ss := NewSessionStore()
	now := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	ss.now = func() time.Time { return now }

	token, err := ss.Create(Session{AccountID: "a1", Role: domainAccount.RoleStaff})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, ok := ss.Get(token); !ok {
		t.Fatal("fresh session should be found")
	}
	now = now.Add(SessionTTL + time.Minute)
	if _, ok := ss.Get(token); ok {
		t.Error("expired session should not be found")
	}
}

// TestPasswordChangeGate verifies flagged sessions only reach the allowed paths.
func TestPasswordChangeGate(t *testing.T) {
	gate := PasswordChangeGate("/api/change-password", "/api/logout")
	handler := gate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	flagged := Session{AccountID: "a1", Role: domainAccount.RoleAdmin, PasswordChangeRequired: true}

	tests := []struct {
		name    string
		path    string
		session *Session
		want    int
	}{
		{"flagged api", "/api/dashboard/overview", &flagged, http.StatusForbidden},
		{"flagged page", "/", &flagged, http.StatusSeeOther},
		{"flagged change password", "/api/change-password", &flagged, http.StatusNoContent},
		{"flagged logout", "/api/logout", &flagged, http.StatusNoContent},
		{"anonymous", "/api/dashboard/overview", nil, http.StatusNoContent},
		{"cleared", "/api/dashboard/overview", &Session{AccountID: "a2", Role: domainAccount.RoleStaff}, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.session != nil {
				req = req.WithContext(ContextWithSession(req.Context(), *tt.session))
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Errorf("status=%d, want %d", rr.Code, tt.want)
			}
		})
	}
}

// TestRequireRole verifies 401 without a session and 403 for other roles.
func TestRequireRole(t *testing.T) {
	handler := RequireRole(domainAccount.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/api/admin/perf", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("anonymous status=%d, want 401", rr.Code)
	}

	req := httptest.NewRequest("GET", "/api/admin/perf", nil)
	req = req.WithContext(ContextWithSession(req.Context(), Session{AccountID: "s", Role: domainAccount.RoleStaff}))
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Errorf("staff status=%d, want 403", rr.Code)
	}
}
