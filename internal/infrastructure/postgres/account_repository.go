package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"kakeibo/internal/domain/account"
)

// AccountRepository implements the account.Repository interface for PostgreSQL
type AccountRepository struct {
	db *DB
}

// NewAccountRepository creates a new PostgreSQL account repository
func NewAccountRepository(db *DB) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `id, user_id, account_number, account_name, balance, currency, account_type, created_at, updated_at`

// Create creates a new account
func (r *AccountRepository) Create(ctx context.Context, params account.CreateParams) (*account.Account, error) {
	query := `
		INSERT INTO accounts (id, user_id, account_number, account_name, balance, currency, account_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + accountColumns + `
	`

	var acc account.Account
	err := r.db.QueryRowContext(
		ctx, query,
		uuid.New().String(), params.UserID, params.AccountNumber, params.AccountName,
		params.Balance, params.Currency, params.Type,
	).Scan(
		&acc.ID, &acc.UserID, &acc.AccountNumber, &acc.AccountName,
		&acc.Balance, &acc.Currency, &acc.Type,
		&acc.CreatedAt, &acc.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return &acc, nil
}

// GetByID retrieves an account by its ID
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*account.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE id = $1
	`

	var acc account.Account
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&acc.ID, &acc.UserID, &acc.AccountNumber, &acc.AccountName,
		&acc.Balance, &acc.Currency, &acc.Type,
		&acc.CreatedAt, &acc.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		// Intentionally returns (nil, nil) instead of an error
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return &acc, nil
}

// ListByUserID retrieves all accounts for a specific user
func (r *AccountRepository) ListByUserID(ctx context.Context, userID string) ([]*account.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE user_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]*account.Account, 0)
	for rows.Next() {
		var acc account.Account
		err := rows.Scan(
			&acc.ID, &acc.UserID, &acc.AccountNumber, &acc.AccountName,
			&acc.Balance, &acc.Currency, &acc.Type,
			&acc.CreatedAt, &acc.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, &acc)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}

	return accounts, nil
}

// Update modifies the mutable fields of an account. Balance is excluded:
// it only moves through transaction mutations.
func (r *AccountRepository) Update(ctx context.Context, id string, params account.UpdateParams) (*account.Account, error) {
	query := `
		UPDATE accounts
		SET account_name = COALESCE($1, account_name),
		    account_type = COALESCE($2, account_type),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $3
		RETURNING ` + accountColumns + `
	`

	var acc account.Account
	err := r.db.QueryRowContext(ctx, query, params.AccountName, params.Type, id).Scan(
		&acc.ID, &acc.UserID, &acc.AccountNumber, &acc.AccountName,
		&acc.Balance, &acc.Currency, &acc.Type,
		&acc.CreatedAt, &acc.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, account.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	return &acc, nil
}

// Delete removes an account
func (r *AccountRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete account: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows > 0, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
