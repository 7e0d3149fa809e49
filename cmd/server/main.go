package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	emailPkg "studio/internal/adapters/email"
	web "studio/internal/adapters/http"
	"studio/internal/adapters/http/perf"
	"studio/internal/adapters/storage"
	accountStore "studio/internal/adapters/storage/account"
	enrollmentStore "studio/internal/adapters/storage/enrollment"
	equipmentStore "studio/internal/adapters/storage/equipment"
	incomeStore "studio/internal/adapters/storage/income"
	staffStore "studio/internal/adapters/storage/staff"
	studentStore "studio/internal/adapters/storage/student"
	"studio/internal/application/chartdata"
	"studio/internal/application/orchestrators"
	"studio/internal/application/projections"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	ctx := context.Background()
	production := os.Getenv("STUDIO_ENV") == "production"

	// WAL mode, foreign keys and a busy timeout for concurrent handlers
	dbPath := envOrDefault("STUDIO_DB", "studio.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}
	if err := storage.MigrateDB(ctx, db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector)

	stores := &web.Stores{
		AccountStore:    accountStore.NewSQLiteStore(timedDB),
		StudentStore:    studentStore.NewSQLiteStore(timedDB),
		StaffStore:      staffStore.NewSQLiteStore(timedDB),
		EquipmentStore:  equipmentStore.NewSQLiteStore(timedDB),
		EnrollmentStore: enrollmentStore.NewSQLiteStore(timedDB),
		IncomeStore:     incomeStore.NewSQLiteStore(timedDB),
	}

	// Seed the first admin; it must change its password on first login
	adminEmail := envOrDefault("STUDIO_ADMIN_EMAIL", "admin@studio.local")
	adminPassword := os.Getenv("STUDIO_ADMIN_PASSWORD")
	if adminPassword == "" {
		if production {
			log.Fatal("STUDIO_ADMIN_PASSWORD is required in production")
		}
		adminPassword = "change me on first login"
	}
	seedDeps := orchestrators.CreateAccountDeps{AccountStore: stores.AccountStore}
	if err := orchestrators.ExecuteSeedAdmin(ctx, seedDeps, adminEmail, adminPassword); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}

	if os.Getenv("STUDIO_SEED_DEMO") != "" && !production {
		demoDeps := orchestrators.DemoSeedDeps{
			StudentStore:    stores.StudentStore,
			StaffStore:      stores.StaffStore,
			EquipmentStore:  stores.EquipmentStore,
			EnrollmentStore: stores.EnrollmentStore,
			IncomeStore:     stores.IncomeStore,
		}
		if err := orchestrators.ExecuteSeedDemo(ctx, demoDeps, time.Now()); err != nil {
			log.Fatalf("failed to seed demo data: %v", err)
		}
		log.Println("Demo data loaded")
	}

	loc := time.Local
	if tz := os.Getenv("STUDIO_TIMEZONE"); tz != "" {
		if loc, err = time.LoadLocation(tz); err != nil {
			log.Fatalf("invalid STUDIO_TIMEZONE %q: %v", tz, err)
		}
	}
	formatter := chartdata.LayoutFormatter{
		DayLayout:   envOrDefault("STUDIO_DAY_LAYOUT", "02/01"),
		WeekPattern: envOrDefault("STUDIO_WEEK_LABEL", "Week %d"),
	}

	// Email sender for the dashboard digest
	resendKey := os.Getenv("STUDIO_RESEND_KEY")
	emailFrom := envOrDefault("STUDIO_RESEND_FROM", "Studio <reports@studio.local>")
	emailReply := os.Getenv("STUDIO_REPLY_TO")
	var sender emailPkg.Sender
	if resendKey != "" {
		sender = emailPkg.NewResendSender(resendKey, emailFrom, emailReply)
		log.Println("Email sender configured (Resend)")
	} else {
		sender = emailPkg.NewNoopSender()
		if production {
			log.Println("WARNING: STUDIO_RESEND_KEY is not set, digest email is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop, set STUDIO_RESEND_KEY for real delivery)")
		}
	}

	if recipients := splitList(os.Getenv("STUDIO_DIGEST_TO")); len(recipients) > 0 {
		period, err := time.ParseDuration(envOrDefault("STUDIO_DIGEST_INTERVAL", "168h"))
		if err != nil || period < 24*time.Hour {
			log.Fatal("STUDIO_DIGEST_INTERVAL must be a duration of at least 24h")
		}
		digest := orchestrators.DigestDeps{
			Overview: projections.GetOverviewDashboardDeps{
				EnrollmentStore: stores.EnrollmentStore,
				IncomeStore:     stores.IncomeStore,
				StudentStore:    stores.StudentStore,
			},
			Sender:     sender,
			Recipients: recipients,
			Period:     period,
			Location:   loc,
			Formatter:  formatter,
		}
		web.SetDigest(digest)

		digestStopCh := make(chan struct{})
		orchestrators.StartDigestWorker(digest, digestStopCh)
		defer close(digestStopCh)
		log.Printf("Dashboard digest every %s to %d recipient(s)", period, len(recipients))
	}

	mux := web.NewMux(web.Config{
		StaticDir:      os.Getenv("STUDIO_STATIC_DIR"),
		Production:     production,
		TrustedOrigins: splitList(os.Getenv("STUDIO_TRUSTED_ORIGINS")),
		Location:       loc,
		Formatter:      formatter,
	}, stores, collector)
	defer web.Shutdown()

	addr := envOrDefault("STUDIO_ADDR", ":8080")
	log.Printf("Studio %s starting on %s (env=%s, schema=%d)", version, addr, envOrDefault("STUDIO_ENV", "development"), storage.LatestSchemaVersion())

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitList parses a comma-separated environment value.
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
