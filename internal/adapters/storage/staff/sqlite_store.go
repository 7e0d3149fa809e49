package staff

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"studio/internal/adapters/storage"
	domain "studio/internal/domain/staff"
)

const memberColumns = "id, name, email, role, status, created_at"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new staff store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Member by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Member, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+memberColumns+" FROM staff WHERE id = ?", id)
	entity, err := scanMember(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Member{}, fmt.Errorf("staff member not found: %w", err)
	}
	return entity, err
}

// Save persists a Member to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Member) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO staff ("+memberColumns+") VALUES (?, ?, ?, ?, ?, ?) "+
			"ON CONFLICT(id) DO UPDATE SET name=excluded.name, email=excluded.email, role=excluded.role, status=excluded.status",
		entity.ID,
		entity.Name,
		entity.Email,
		entity.Role,
		string(entity.Status),
		storage.FormatTime(entity.CreatedAt),
	)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// List retrieves Members based on the filter, ordered by name.
// PRE: filter has valid parameters
// POST: Returns matching entities
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Member, error) {
	var qb strings.Builder
	var where []string
	var args []any

	qb.WriteString("SELECT " + memberColumns + " FROM staff")
	if filter.Role != "" {
		where = append(where, "role = ?")
		args = append(args, filter.Role)
	}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(filter.Status))
	}
	if len(where) > 0 {
		qb.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	qb.WriteString(" ORDER BY name LIMIT ? OFFSET ?")
	args = append(args, storage.PageArgs(filter.Limit, filter.Offset)...)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Member
	for rows.Next() {
		entity, err := scanMember(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

func scanMember(scan func(dest ...any) error) (domain.Member, error) {
	var entity domain.Member
	var status string
	var createdAt sql.NullString
	if err := scan(&entity.ID, &entity.Name, &entity.Email, &entity.Role, &status, &createdAt); err != nil {
		return domain.Member{}, err
	}
	entity.Status = domain.Status(status)
	var err error
	if entity.CreatedAt, err = storage.ParseTime(createdAt); err != nil {
		return domain.Member{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return entity, nil
}
