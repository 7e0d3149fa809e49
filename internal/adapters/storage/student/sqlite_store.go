package student

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"studio/internal/adapters/storage"
	domain "studio/internal/domain/student"
)

const studentColumns = "id, name, email, status, created_at"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new StudentStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Student by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Student, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+studentColumns+" FROM student WHERE id = ?", id)
	entity, err := scanStudent(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Student{}, fmt.Errorf("student not found: %w", err)
	}
	return entity, err
}

// GetByEmail retrieves a Student by email.
// PRE: email is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Student, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+studentColumns+" FROM student WHERE email = ? COLLATE NOCASE", email)
	entity, err := scanStudent(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Student{}, fmt.Errorf("student not found: %w", err)
	}
	return entity, err
}

// Save persists a Student to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Student) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO student ("+studentColumns+") VALUES (?, ?, ?, ?, ?) "+
			"ON CONFLICT(id) DO UPDATE SET name=excluded.name, email=excluded.email, status=excluded.status, created_at=excluded.created_at",
		entity.ID,
		entity.Name,
		entity.Email,
		string(entity.Status),
		storage.FormatTime(entity.CreatedAt),
	)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// List retrieves Students based on the filter, ordered by name.
// PRE: filter has valid parameters
// POST: Returns matching entities
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Student, error) {
	var qb strings.Builder
	var args []any

	qb.WriteString("SELECT " + studentColumns + " FROM student")
	if filter.Status != "" {
		qb.WriteString(" WHERE status = ?")
		args = append(args, string(filter.Status))
	}
	qb.WriteString(" ORDER BY name LIMIT ? OFFSET ?")
	args = append(args, storage.PageArgs(filter.Limit, filter.Offset)...)

	return s.query(ctx, qb.String(), args...)
}

// ListByDateRange retrieves Students registered between from and to inclusive.
// PRE: from <= to
// POST: Returns students ordered by creation time; students without a creation time are excluded
func (s *SQLiteStore) ListByDateRange(ctx context.Context, from, to time.Time) ([]domain.Student, error) {
	return s.query(ctx,
		"SELECT "+studentColumns+" FROM student WHERE created_at >= ? AND created_at <= ? ORDER BY created_at",
		storage.FormatTime(from), storage.FormatTime(to))
}

func (s *SQLiteStore) query(ctx context.Context, query string, args ...any) ([]domain.Student, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Student
	for rows.Next() {
		entity, err := scanStudent(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

func scanStudent(scan func(dest ...any) error) (domain.Student, error) {
	var entity domain.Student
	var status string
	var createdAt sql.NullString
	if err := scan(&entity.ID, &entity.Name, &entity.Email, &status, &createdAt); err != nil {
		return domain.Student{}, err
	}
	entity.Status = domain.Status(status)
	var err error
	if entity.CreatedAt, err = storage.ParseTime(createdAt); err != nil {
		return domain.Student{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return entity, nil
}
