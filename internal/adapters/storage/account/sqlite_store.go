package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"studio/internal/adapters/storage"
	domain "studio/internal/domain/account"
)

const accountColumns = "id, email, password_hash, role, created_at, failed_logins, locked_until, password_change_required"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new AccountStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves an Account by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Account, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+accountColumns+" FROM account WHERE id = ?", id)
	entity, err := scanAccount(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Account{}, fmt.Errorf("account not found: %w", err)
	}
	return entity, err
}

// GetByEmail retrieves an Account by email, case-insensitively.
// PRE: email is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+accountColumns+" FROM account WHERE email = ? COLLATE NOCASE", email)
	entity, err := scanAccount(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Account{}, fmt.Errorf("account not found: %w", err)
	}
	return entity, err
}

// Save persists an Account to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Account) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	updates := []string{
		"email=excluded.email",
		"password_hash=excluded.password_hash",
		"role=excluded.role",
		"failed_logins=excluded.failed_logins",
		"locked_until=excluded.locked_until",
		"password_change_required=excluded.password_change_required",
	}
	query := fmt.Sprintf(
		"INSERT INTO account (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?) ON CONFLICT(id) DO UPDATE SET %s",
		accountColumns,
		strings.Join(updates, ", "),
	)

	_, err = tx.ExecContext(ctx, query,
		entity.ID,
		entity.Email,
		entity.PasswordHash,
		entity.Role,
		storage.FormatTime(entity.CreatedAt),
		entity.FailedLogins,
		storage.FormatTime(entity.LockedUntil),
		entity.PasswordChangeRequired,
	)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// Delete removes an Account from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM account WHERE id = ?", id)
	return err
}

// List retrieves Accounts based on the filter, newest first.
// PRE: filter has valid parameters
// POST: Returns matching entities
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Account, error) {
	var qb strings.Builder
	var args []any

	qb.WriteString("SELECT " + accountColumns + " FROM account")
	if filter.Role != "" {
		qb.WriteString(" WHERE role = ?")
		args = append(args, filter.Role)
	}
	qb.WriteString(" ORDER BY created_at DESC LIMIT ? OFFSET ?")
	args = append(args, storage.PageArgs(filter.Limit, filter.Offset)...)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Account
	for rows.Next() {
		entity, err := scanAccount(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// Count returns the total number of accounts.
// PRE: none
// POST: Returns total account count
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM account").Scan(&count)
	return count, err
}

// scanAccount extracts an Account from a row scanner function.
func scanAccount(scan func(dest ...any) error) (domain.Account, error) {
	var entity domain.Account
	var createdAt, lockedUntil sql.NullString
	err := scan(
		&entity.ID,
		&entity.Email,
		&entity.PasswordHash,
		&entity.Role,
		&createdAt,
		&entity.FailedLogins,
		&lockedUntil,
		&entity.PasswordChangeRequired,
	)
	if err != nil {
		return domain.Account{}, err
	}
	if entity.CreatedAt, err = storage.ParseTime(createdAt); err != nil {
		return domain.Account{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if entity.LockedUntil, err = storage.ParseTime(lockedUntil); err != nil {
		return domain.Account{}, fmt.Errorf("failed to parse locked_until: %w", err)
	}
	return entity, nil
}
