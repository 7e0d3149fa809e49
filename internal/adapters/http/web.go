package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"time"

	"studio/internal/adapters/http/middleware"
	"studio/internal/adapters/http/perf"
	accountStore "studio/internal/adapters/storage/account"
	enrollmentStore "studio/internal/adapters/storage/enrollment"
	equipmentStore "studio/internal/adapters/storage/equipment"
	incomeStore "studio/internal/adapters/storage/income"
	staffStore "studio/internal/adapters/storage/staff"
	studentStore "studio/internal/adapters/storage/student"
	"studio/internal/application/chartdata"
	"studio/internal/application/orchestrators"
	domainAccount "studio/internal/domain/account"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore    accountStore.Store
	StudentStore    studentStore.Store
	StaffStore      staffStore.Store
	EquipmentStore  equipmentStore.Store
	EnrollmentStore enrollmentStore.Store
	IncomeStore     incomeStore.Store
}

// Config carries the settings NewMux needs from the environment.
type Config struct {
	StaticDir      string
	Production     bool
	CSRFKey        []byte // nil generates a random key outside production
	TrustedOrigins []string
	Location       *time.Location            // calendar-day bucketing; nil means time.Local
	Formatter      chartdata.BucketFormatter // nil means chartdata.DefaultFormatter
}

// DefaultRangeDays is the dashboard range when the request names none.
const DefaultRangeDays = 30

// LoadCSRFKey reads the CSRF secret from STUDIO_CSRF_KEY (hex-encoded, 32 bytes).
// Production refuses to start without it; development generates one per startup.
func LoadCSRFKey(production bool) []byte {
	if keyHex := os.Getenv("STUDIO_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("STUDIO_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if production {
		log.Fatal("STUDIO_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (forms won't survive restart). Set STUDIO_CSRF_KEY for production.")
	return key
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Rate limiter of the current mux; replaced and stopped by the next NewMux.
var limiter *middleware.RateLimiter

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// Dashboard calendar settings (set by NewMux)
var (
	dashboardLocation  *time.Location            = time.Local
	dashboardFormatter chartdata.BucketFormatter = chartdata.DefaultFormatter
)

// Digest settings (set by SetDigest); nil disables POST /api/admin/digest.
var digestDeps *orchestrators.DigestDeps

// SetDigest enables on-demand digests with the same settings as the worker.
func SetDigest(deps orchestrators.DigestDeps) {
	digestDeps = &deps
}

// NewMux wires HTTP handlers for the app.
func NewMux(cfg Config, s *Stores, collector *perf.Collector) http.Handler {
	stores = s
	perfCollector = collector
	sessions = middleware.NewSessionStore()
	middleware.SecureCookies = cfg.Production
	if cfg.Location != nil {
		dashboardLocation = cfg.Location
	}
	if cfg.Formatter != nil {
		dashboardFormatter = cfg.Formatter
	}

	mux := http.NewServeMux()
	if cfg.StaticDir != "" {
		mux.Handle("GET /", http.FileServer(http.Dir(cfg.StaticDir)))
	}
	registerRoutes(mux)

	csrfKey := cfg.CSRFKey
	if csrfKey == nil {
		csrfKey = LoadCSRFKey(cfg.Production)
	}
	Shutdown()
	limiter = middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Request order: Timing -> RateLimit -> Auth -> CSRF -> SecurityHeaders -> PasswordChangeGate -> Mux
	return middleware.Chain(mux,
		middleware.PasswordChangeGate("/api/change-password", "/api/logout", "/api/me", "/change-password"),
		middleware.SecurityHeaders,
		middleware.CSRF(middleware.CSRFConfig{Key: csrfKey, Secure: cfg.Production, TrustedOrigins: cfg.TrustedOrigins}),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(collector),
	)
}

// Shutdown stops the background work started by NewMux.
func Shutdown() {
	if limiter != nil {
		limiter.Stop()
	}
}

// registerRoutes maps every endpoint. Viewer routes accept staff and admins;
// write routes are admin-only.
func registerRoutes(mux *http.ServeMux) {
	viewer := middleware.RequireRole(domainAccount.RoleAdmin, domainAccount.RoleStaff)
	admin := middleware.RequireRole(domainAccount.RoleAdmin)
	asViewer := func(h http.HandlerFunc) http.Handler { return viewer(h) }
	asAdmin := func(h http.HandlerFunc) http.Handler { return admin(h) }

	// Auth
	mux.HandleFunc("POST /api/login", handleLogin)
	mux.HandleFunc("POST /api/logout", handleLogout)
	mux.HandleFunc("POST /api/change-password", handleChangePassword)
	mux.HandleFunc("GET /api/me", handleMe)
	mux.HandleFunc("GET /api/csrf-token", handleCSRFToken)

	// Dashboards and lists
	mux.Handle("GET /api/dashboard/{view}", asViewer(handleDashboard))
	mux.Handle("GET /api/students", asViewer(handleListStudents))
	mux.Handle("GET /api/staff", asViewer(handleListStaff))
	mux.Handle("GET /api/equipment", asViewer(handleListEquipment))
	mux.Handle("GET /api/income", asViewer(handleListIncome))

	// Records
	mux.Handle("POST /api/students", asAdmin(handleRegisterStudent))
	mux.Handle("POST /api/students/import", asAdmin(handleImportStudents))
	mux.Handle("POST /api/students/{id}/activate", asAdmin(handleActivateStudent))
	mux.Handle("POST /api/staff", asAdmin(handleAddStaff))
	mux.Handle("POST /api/equipment", asAdmin(handleAddEquipment))
	mux.Handle("PATCH /api/equipment/{id}/status", asAdmin(handleSetEquipmentStatus))
	mux.Handle("POST /api/enrollments", asAdmin(handleEnrollStudent))
	mux.Handle("PATCH /api/enrollments/{id}/status", asAdmin(handleSetEnrollmentStatus))
	mux.Handle("POST /api/income", asAdmin(handleRecordIncome))

	// Admin
	mux.Handle("POST /api/accounts", asAdmin(handleCreateAccount))
	mux.Handle("GET /api/admin/perf", asAdmin(handleAdminPerf))
	mux.Handle("POST /api/admin/digest", asAdmin(handleSendDigest))
}
