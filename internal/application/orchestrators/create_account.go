package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"studio/internal/domain/account"

	"github.com/google/uuid"
)

// AccountStoreForCreate defines the store interface needed by CreateAccount.
type AccountStoreForCreate interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
	Count(ctx context.Context) (int, error)
}

// CreateAccountInput carries input for the orchestrator.
type CreateAccountInput struct {
	Email                  string
	Password               string
	Role                   string
	PasswordChangeRequired bool
}

// CreateAccountDeps holds dependencies for CreateAccount.
type CreateAccountDeps struct {
	AccountStore AccountStoreForCreate
}

var ErrEmailAlreadyExists = errors.New("an account with this email already exists")

// ExecuteCreateAccount coordinates account creation.
// PRE: Valid email, password >= 12 chars, valid role
// POST: Account created with hashed password
// INVARIANT: Email must be unique
func ExecuteCreateAccount(ctx context.Context, input CreateAccountInput, deps CreateAccountDeps) (string, error) {
	acct := account.Account{
		ID:                     uuid.New().String(),
		Email:                  strings.ToLower(strings.TrimSpace(input.Email)),
		Role:                   input.Role,
		CreatedAt:              time.Now(),
		PasswordChangeRequired: input.PasswordChangeRequired,
	}
	if err := acct.Validate(); err != nil {
		return "", invalidInput(err)
	}

	if _, err := deps.AccountStore.GetByEmail(ctx, acct.Email); err == nil {
		return "", ErrEmailAlreadyExists
	}

	// SetPassword hashes and enforces the minimum length
	if err := acct.SetPassword(input.Password); err != nil {
		return "", invalidInput(err)
	}

	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return "", err
	}

	slog.Info("auth_event", "event", "account_created", "email", acct.Email, "role", acct.Role)
	return acct.ID, nil
}

// ExecuteSeedAdmin creates a default admin account if no accounts exist.
// The seeded admin must change the password on first login.
// PRE: Database is migrated
// POST: Admin account created if count == 0
func ExecuteSeedAdmin(ctx context.Context, deps CreateAccountDeps, email, password string) error {
	count, err := deps.AccountStore.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if _, err := ExecuteCreateAccount(ctx, CreateAccountInput{
		Email:                  email,
		Password:               password,
		Role:                   account.RoleAdmin,
		PasswordChangeRequired: true,
	}, deps); err != nil {
		return err
	}

	slog.Info("auth_event", "event", "admin_seeded", "email", email)
	return nil
}
