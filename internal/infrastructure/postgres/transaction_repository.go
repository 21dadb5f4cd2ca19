package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"kakeibo/internal/domain/transaction"
)

// TransactionRepository implements transaction.Repository on PostgreSQL.
// Mutations run inside a SQL transaction that writes the row and applies
// the balance delta to the owning account, so neither lands without the
// other.
type TransactionRepository struct {
	db *DB
}

func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const txColumns = `id, user_id, account_id, amount, description, category, merchant, tags,
       transaction_date, type, created_at, updated_at`

func (r *TransactionRepository) Insert(ctx context.Context, t *transaction.Transaction, delta float64) error {
	return r.db.withTx(ctx, "db.InsertTransaction", func(tx *sql.Tx) error {
		if err := insertTx(ctx, tx, t); err != nil {
			return err
		}
		return applyDelta(ctx, tx, t.AccountID, delta)
	})
}

func (r *TransactionRepository) InsertBatch(ctx context.Context, txs []*transaction.Transaction, deltas map[string]float64) error {
	return r.db.withTx(ctx, "db.InsertTransactionBatch", func(tx *sql.Tx) error {
		for _, t := range txs {
			if err := insertTx(ctx, tx, t); err != nil {
				return err
			}
		}
		for accountID, delta := range deltas {
			if err := applyDelta(ctx, tx, accountID, delta); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*transaction.Transaction, error) {
	query := `
		SELECT ` + txColumns + `
		FROM transactions
		WHERE id = $1
	`

	t, err := scanTx(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return t, nil
}

func (r *TransactionRepository) ListByUserID(ctx context.Context, userID string) ([]*transaction.Transaction, error) {
	query := `
		SELECT ` + txColumns + `
		FROM transactions
		WHERE user_id = $1
		ORDER BY seq ASC
	`
	return r.list(ctx, query, userID)
}

func (r *TransactionRepository) ListByAccountID(ctx context.Context, accountID string) ([]*transaction.Transaction, error) {
	query := `
		SELECT ` + txColumns + `
		FROM transactions
		WHERE account_id = $1
		ORDER BY seq ASC
	`
	return r.list(ctx, query, accountID)
}

func (r *TransactionRepository) Update(ctx context.Context, t *transaction.Transaction) error {
	query := `
		UPDATE transactions
		SET amount = $1,
		    description = $2,
		    category = $3,
		    merchant = $4,
		    tags = $5,
		    transaction_date = $6,
		    type = $7,
		    updated_at = $8
		WHERE id = $9
	`

	return r.db.withTx(ctx, "db.UpdateTransaction", func(tx *sql.Tx) error {
		// Row-lock the stored record and read its old effect inside the
		// transaction, so a concurrent update cannot leave the balance
		// adjusted by a stale difference.
		var old transaction.Transaction
		err := tx.QueryRowContext(ctx,
			`SELECT amount, type FROM transactions WHERE id = $1 FOR UPDATE`, t.ID,
		).Scan(&old.Amount, &old.Type)
		if err == sql.ErrNoRows {
			return transaction.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock transaction: %w", err)
		}

		if _, err := tx.ExecContext(
			ctx, query,
			t.Amount, t.Description, t.Category, nullString(t.Merchant), pq.Array(t.Tags),
			t.Date, t.Type, t.UpdatedAt, t.ID,
		); err != nil {
			return fmt.Errorf("failed to update transaction: %w", err)
		}
		return applyDelta(ctx, tx, t.AccountID, t.BalanceDelta()-old.BalanceDelta())
	})
}

func (r *TransactionRepository) Delete(ctx context.Context, id string) (bool, error) {
	removed := false
	err := r.db.withTx(ctx, "db.DeleteTransaction", func(tx *sql.Tx) error {
		// RETURNING hands back the stored effect to reverse, read in the
		// same statement that removes the row.
		var old transaction.Transaction
		var accountID string
		err := tx.QueryRowContext(ctx,
			`DELETE FROM transactions WHERE id = $1 RETURNING account_id, amount, type`, id,
		).Scan(&accountID, &old.Amount, &old.Type)
		if err == sql.ErrNoRows {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to delete transaction: %w", err)
		}
		removed = true
		return applyDelta(ctx, tx, accountID, -old.BalanceDelta())
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

func (r *TransactionRepository) list(ctx context.Context, query string, arg any) ([]*transaction.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]*transaction.Transaction, 0)
	for rows.Next() {
		t, err := scanTx(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, nil
}

func insertTx(ctx context.Context, tx *sql.Tx, t *transaction.Transaction) error {
	query := `
		INSERT INTO transactions (id, user_id, account_id, amount, description, category,
		                          merchant, tags, transaction_date, type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := tx.ExecContext(
		ctx, query,
		t.ID, t.UserID, t.AccountID, t.Amount, t.Description, t.Category,
		nullString(t.Merchant), pq.Array(t.Tags), t.Date, t.Type, t.CreatedAt, t.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return transaction.ErrDuplicateID
	}
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// applyDelta moves the account balance by the signed effect of a
// mutation. A missing account means the write would leave the books
// unbalanced, so the whole transaction rolls back.
func applyDelta(ctx context.Context, tx *sql.Tx, accountID string, delta float64) error {
	result, err := tx.ExecContext(ctx,
		`UPDATE accounts SET balance = balance + $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		delta, accountID,
	)
	if err != nil {
		return fmt.Errorf("failed to apply balance delta: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return transaction.ErrConsistency
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTx(row scanner) (*transaction.Transaction, error) {
	var t transaction.Transaction
	var merchant sql.NullString

	err := row.Scan(
		&t.ID, &t.UserID, &t.AccountID, &t.Amount,
		&t.Description, &t.Category, &merchant, pq.Array(&t.Tags),
		&t.Date, &t.Type, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if merchant.Valid {
		t.Merchant = merchant.String
	}
	return &t, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
