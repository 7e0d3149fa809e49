package equipment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"studio/internal/adapters/storage"
	domain "studio/internal/domain/equipment"
)

const itemColumns = "id, name, category, status, created_at"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new equipment store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves an Item by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Item, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+itemColumns+" FROM equipment WHERE id = ?", id)
	entity, err := scanItem(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Item{}, fmt.Errorf("equipment not found: %w", err)
	}
	return entity, err
}

// Save persists an Item to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Item) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO equipment ("+itemColumns+") VALUES (?, ?, ?, ?, ?) "+
			"ON CONFLICT(id) DO UPDATE SET name=excluded.name, category=excluded.category, status=excluded.status",
		entity.ID,
		entity.Name,
		entity.Category,
		string(entity.Status),
		storage.FormatTime(entity.CreatedAt),
	)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// Delete removes an Item from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM equipment WHERE id = ?", id)
	return err
}

// List retrieves Items based on the filter, ordered by category then name.
// PRE: filter has valid parameters
// POST: Returns matching entities
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Item, error) {
	var qb strings.Builder
	var where []string
	var args []any

	qb.WriteString("SELECT " + itemColumns + " FROM equipment")
	if filter.Category != "" {
		where = append(where, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(filter.Status))
	}
	if len(where) > 0 {
		qb.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	qb.WriteString(" ORDER BY category, name LIMIT ? OFFSET ?")
	args = append(args, storage.PageArgs(filter.Limit, filter.Offset)...)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Item
	for rows.Next() {
		entity, err := scanItem(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

func scanItem(scan func(dest ...any) error) (domain.Item, error) {
	var entity domain.Item
	var status string
	var createdAt sql.NullString
	if err := scan(&entity.ID, &entity.Name, &entity.Category, &status, &createdAt); err != nil {
		return domain.Item{}, err
	}
	entity.Status = domain.Status(status)
	var err error
	if entity.CreatedAt, err = storage.ParseTime(createdAt); err != nil {
		return domain.Item{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return entity, nil
}
