package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"
	"sync"
	"time"

	domainAccount "studio/internal/domain/account"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const sessionContextKey contextKey = "session"

// SessionTTL is how long a login stays valid.
const SessionTTL = 24 * time.Hour

// SecureCookies marks session cookies Secure; set in production.
var SecureCookies bool

// Session represents an authenticated session.
type Session struct {
	AccountID              string
	Email                  string
	Role                   string
	PasswordChangeRequired bool
	CreatedAt              time.Time
}

// CanViewDashboards reports whether the session may read dashboards and lists.
func (s Session) CanViewDashboards() bool {
	return s.Role == domainAccount.RoleAdmin || s.Role == domainAccount.RoleStaff
}

// SessionStore is an in-memory session store.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]Session
	now      func() time.Time
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]Session),
		now:      time.Now,
	}
}

// Create stores a new session and returns its token.
// PRE: s.AccountID and s.Role are non-empty
// POST: Session is stored with CreatedAt = now
func (ss *SessionStore) Create(s Session) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	s.CreatedAt = ss.now()
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.sessions[token] = s
	return token, nil
}

// Get retrieves a session by token, dropping it once SessionTTL has passed.
func (ss *SessionStore) Get(token string) (Session, bool) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	s, ok := ss.sessions[token]
	if !ok {
		return Session{}, false
	}
	if ss.now().Sub(s.CreatedAt) > SessionTTL {
		delete(ss.sessions, token)
		return Session{}, false
	}
	return s, true
}

// Delete removes a session by token.
func (ss *SessionStore) Delete(token string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.sessions, token)
}

// Update replaces the session for a given token in place.
// POST: Returns false when the token is unknown
func (ss *SessionStore) Update(token string, s Session) bool {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	if _, ok := ss.sessions[token]; !ok {
		return false
	}
	ss.sessions[token] = s
	return true
}

const sessionCookieName = "studio_session"

// Auth extracts the session from the cookie and puts it in the request context.
// It does not block unauthenticated requests; RequireRole does that.
func Auth(sessions *SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := SessionToken(r); token != "" {
				if s, ok := sessions.Get(token); ok {
					r = r.WithContext(ContextWithSession(r.Context(), s))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// PasswordChangeGate blocks sessions that must change their password from
// everything except the paths in allowed. API requests get 403; page
// requests are redirected to /change-password.
func PasswordChangeGate(allowed ...string) func(http.Handler) http.Handler {
	open := make(map[string]bool, len(allowed))
	for _, p := range allowed {
		open[p] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := GetSessionFromContext(r.Context())
			if !ok || !s.PasswordChangeRequired || open[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}
			if strings.HasPrefix(r.URL.Path, "/api/") {
				http.Error(w, "password change required", http.StatusForbidden)
				return
			}
			http.Redirect(w, r, "/change-password", http.StatusSeeOther)
		})
	}
}

// RequireRole blocks requests without a session holding one of roles.
// Unauthenticated requests get 401, wrong roles get 403.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	roleSet := make(map[string]bool, len(roles))
	for _, r := range roles {
		roleSet[r] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := GetSessionFromContext(r.Context())
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if !roleSet[s.Role] {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetSessionFromContext extracts the session from the request context.
func GetSessionFromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionContextKey).(Session)
	return s, ok
}

// ContextWithSession returns a context carrying s.
func ContextWithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, s)
}

// SessionToken returns the session cookie value, or "".
func SessionToken(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// SetSessionCookie sets the session cookie on the response.
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   int(SessionTTL.Seconds()),
	})
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
