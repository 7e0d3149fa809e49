package enrollment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"studio/internal/adapters/storage"
	domain "studio/internal/domain/enrollment"
)

const enrollmentColumns = "id, student_id, class_name, enrolled_at, session_at, status"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new EnrollmentStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves an Enrollment by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Enrollment, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+enrollmentColumns+" FROM enrollment WHERE id = ?", id)
	entity, err := scanEnrollment(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Enrollment{}, fmt.Errorf("enrollment not found: %w", err)
	}
	return entity, err
}

// Save persists an Enrollment to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Enrollment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	updates := []string{
		"student_id=excluded.student_id",
		"class_name=excluded.class_name",
		"enrolled_at=excluded.enrolled_at",
		"session_at=excluded.session_at",
		"status=excluded.status",
	}
	query := fmt.Sprintf(
		"INSERT INTO enrollment (%s) VALUES (?, ?, ?, ?, ?, ?) ON CONFLICT(id) DO UPDATE SET %s",
		enrollmentColumns,
		strings.Join(updates, ", "),
	)

	_, err = tx.ExecContext(ctx, query,
		entity.ID,
		entity.StudentID,
		entity.ClassName,
		storage.FormatTime(entity.EnrolledAt),
		storage.FormatTime(entity.SessionAt),
		string(entity.Status),
	)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// Delete removes an Enrollment from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM enrollment WHERE id = ?", id)
	return err
}

// List retrieves Enrollments based on the filter, newest booking first.
// PRE: filter has valid parameters
// POST: Returns matching entities
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Enrollment, error) {
	var qb strings.Builder
	var args []any

	qb.WriteString("SELECT " + enrollmentColumns + " FROM enrollment")
	if filter.StudentID != "" {
		qb.WriteString(" WHERE student_id = ?")
		args = append(args, filter.StudentID)
	}
	qb.WriteString(" ORDER BY enrolled_at DESC LIMIT ? OFFSET ?")
	args = append(args, storage.PageArgs(filter.Limit, filter.Offset)...)

	return s.query(ctx, qb.String(), args...)
}

// ListByDateRange retrieves Enrollments booked or held between from and to inclusive.
// A row matches when either its enrolled_at or its session_at falls in the range,
// so callers can chart both the booking trend and session attendance from one read.
// PRE: from <= to
// POST: Returns enrollments ordered by enrolled_at
func (s *SQLiteStore) ListByDateRange(ctx context.Context, from, to time.Time) ([]domain.Enrollment, error) {
	lo, hi := storage.FormatTime(from), storage.FormatTime(to)
	return s.query(ctx,
		"SELECT "+enrollmentColumns+" FROM enrollment "+
			"WHERE (enrolled_at >= ? AND enrolled_at <= ?) OR (session_at >= ? AND session_at <= ?) "+
			"ORDER BY enrolled_at",
		lo, hi, lo, hi)
}

func (s *SQLiteStore) query(ctx context.Context, query string, args ...any) ([]domain.Enrollment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Enrollment
	for rows.Next() {
		entity, err := scanEnrollment(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

func scanEnrollment(scan func(dest ...any) error) (domain.Enrollment, error) {
	var entity domain.Enrollment
	var status string
	var enrolledAt, sessionAt sql.NullString
	if err := scan(&entity.ID, &entity.StudentID, &entity.ClassName, &enrolledAt, &sessionAt, &status); err != nil {
		return domain.Enrollment{}, err
	}
	entity.Status = domain.Status(status)
	var err error
	if entity.EnrolledAt, err = storage.ParseTime(enrolledAt); err != nil {
		return domain.Enrollment{}, fmt.Errorf("failed to parse enrolled_at: %w", err)
	}
	if entity.SessionAt, err = storage.ParseTime(sessionAt); err != nil {
		return domain.Enrollment{}, fmt.Errorf("failed to parse session_at: %w", err)
	}
	return entity, nil
}
