package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// migration is one forward-only schema step.
type migration struct {
	version int
	name    string
	sql     string
}

// migrations are applied in order; never edit a released entry, append a new one.
var migrations = []migration{
	{1, "accounts", `
	CREATE TABLE IF NOT EXISTS account (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL,
		created_at TEXT NOT NULL,
		failed_logins INTEGER NOT NULL DEFAULT 0,
		locked_until TEXT,
		password_change_required INTEGER NOT NULL DEFAULT 0
	);`},
	{2, "students_and_staff", `
	CREATE TABLE IF NOT EXISTS student (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		status TEXT NOT NULL,
		created_at TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_student_created_at ON student(created_at);

	CREATE TABLE IF NOT EXISTS staff (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		role TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at TEXT
	);`},
	{3, "equipment", `
	CREATE TABLE IF NOT EXISTS equipment (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at TEXT
	);`},
	{4, "enrollments", `
	CREATE TABLE IF NOT EXISTS enrollment (
		id TEXT PRIMARY KEY,
		student_id TEXT NOT NULL,
		class_name TEXT NOT NULL,
		enrolled_at TEXT NOT NULL,
		session_at TEXT,
		status TEXT NOT NULL,
		FOREIGN KEY (student_id) REFERENCES student(id)
	);
	CREATE INDEX IF NOT EXISTS idx_enrollment_enrolled_at ON enrollment(enrolled_at);
	CREATE INDEX IF NOT EXISTS idx_enrollment_session_at ON enrollment(session_at);`},
	{5, "income", `
	CREATE TABLE IF NOT EXISTS income_entry (
		id TEXT PRIMARY KEY,
		amount TEXT NOT NULL,
		category TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		received_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_income_received_at ON income_entry(received_at);`},
}

// LatestSchemaVersion returns the version the database reaches after MigrateDB.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// MigrateDB brings the schema up to LatestSchemaVersion.
// PRE: db is a valid database connection
// POST: Every pending migration is applied inside its own transaction
func MigrateDB(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("failed to create schema_version: %w", err)
	}

	current, err := CurrentSchemaVersion(ctx, db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := applyMigration(ctx, db, m); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
		slog.Info("schema_migrated", "version", m.version, "name", m.name)
	}
	return nil
}

// CurrentSchemaVersion returns the highest applied migration, or 0.
func CurrentSchemaVersion(ctx context.Context, db *sql.DB) (int, error) {
	var v sql.NullInt64
	if err := db.QueryRowContext(ctx, "SELECT MAX(version) FROM schema_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return int(v.Int64), nil
}

func applyMigration(ctx context.Context, db *sql.DB, m migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, m.sql); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO schema_version (version, name, applied_at) VALUES (?, ?, ?)",
		m.version, m.name, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	return tx.Commit()
}

// TimeLayout is fixed width and always UTC so TEXT columns sort chronologically.
const TimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// FormatTime encodes t for a TEXT column; the zero time becomes NULL.
func FormatTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(TimeLayout)
}

// PageArgs returns LIMIT/OFFSET arguments; a non-positive limit means no limit.
func PageArgs(limit, offset int) []any {
	if limit <= 0 {
		limit = -1
	}
	if offset < 0 {
		offset = 0
	}
	return []any{limit, offset}
}

// ParseTime decodes a nullable TEXT time column; NULL becomes the zero time.
func ParseTime(value sql.NullString) (time.Time, error) {
	if !value.Valid || value.String == "" {
		return time.Time{}, nil
	}
	v := value.String
	if idx := strings.Index(v, " m="); idx != -1 {
		v = v[:idx]
	}
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, v); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported time format: %q", v)
}
