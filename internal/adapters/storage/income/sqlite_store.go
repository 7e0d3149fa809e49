package income

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"studio/internal/adapters/storage"
	domain "studio/internal/domain/income"
)

const entryColumns = "id, amount, category, description, received_at"

// SQLiteStore implements Store using SQLite.
// Amounts are stored as decimal text so no precision is lost to REAL.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new income store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves an Entry by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Entry, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+entryColumns+" FROM income_entry WHERE id = ?", id)
	entity, err := scanEntry(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Entry{}, fmt.Errorf("income entry not found: %w", err)
	}
	return entity, err
}

// Save persists an Entry to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO income_entry ("+entryColumns+") VALUES (?, ?, ?, ?, ?) "+
			"ON CONFLICT(id) DO UPDATE SET amount=excluded.amount, category=excluded.category, "+
			"description=excluded.description, received_at=excluded.received_at",
		entity.ID,
		entity.Amount.String(),
		entity.Category,
		entity.Description,
		storage.FormatTime(entity.ReceivedAt),
	)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// Delete removes an Entry from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM income_entry WHERE id = ?", id)
	return err
}

// List retrieves Entries based on the filter, most recent first.
// PRE: filter has valid parameters
// POST: Returns matching entities
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Entry, error) {
	var qb strings.Builder
	var args []any

	qb.WriteString("SELECT " + entryColumns + " FROM income_entry")
	if filter.Category != "" {
		qb.WriteString(" WHERE category = ?")
		args = append(args, filter.Category)
	}
	qb.WriteString(" ORDER BY received_at DESC LIMIT ? OFFSET ?")
	args = append(args, storage.PageArgs(filter.Limit, filter.Offset)...)

	return s.query(ctx, qb.String(), args...)
}

// ListByDateRange retrieves Entries received between from and to inclusive.
// PRE: from <= to
// POST: Returns entries ordered by received_at
func (s *SQLiteStore) ListByDateRange(ctx context.Context, from, to time.Time) ([]domain.Entry, error) {
	return s.query(ctx,
		"SELECT "+entryColumns+" FROM income_entry WHERE received_at >= ? AND received_at <= ? ORDER BY received_at",
		storage.FormatTime(from), storage.FormatTime(to))
}

func (s *SQLiteStore) query(ctx context.Context, query string, args ...any) ([]domain.Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Entry
	for rows.Next() {
		entity, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

func scanEntry(scan func(dest ...any) error) (domain.Entry, error) {
	var entity domain.Entry
	var amount string
	var receivedAt sql.NullString
	if err := scan(&entity.ID, &amount, &entity.Category, &entity.Description, &receivedAt); err != nil {
		return domain.Entry{}, err
	}
	var err error
	if entity.Amount, err = decimal.NewFromString(amount); err != nil {
		return domain.Entry{}, fmt.Errorf("failed to parse amount: %w", err)
	}
	if entity.ReceivedAt, err = storage.ParseTime(receivedAt); err != nil {
		return domain.Entry{}, fmt.Errorf("failed to parse received_at: %w", err)
	}
	return entity, nil
}
