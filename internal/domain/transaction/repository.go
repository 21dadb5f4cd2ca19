package transaction

import "context"

// Repository defines the interface for transaction data access.
//
// Mutations persist the transaction write and the account balance
// adjustment as one atomic step, rolling both back on failure
// (ErrConsistency). Inserts carry the delta computed from the new
// record; Update and Delete read the stored record's old effect inside
// the same atomic step, so a concurrent mutation can never apply a
// delta derived from a stale read. List methods return the full set in
// insertion order: ordering and pagination belong to the query engine,
// which relies on insertion order to break date ties deterministically.
type Repository interface {
	// Insert persists t and applies delta to the owning account balance.
	// Fails with ErrDuplicateID if the id already exists.
	Insert(ctx context.Context, t *Transaction, delta float64) error

	// InsertBatch persists all transactions and applies the per-account
	// deltas, all-or-nothing. An id colliding with the store or with
	// another entry in the batch fails with ErrDuplicateID.
	InsertBatch(ctx context.Context, txs []*Transaction, deltas map[string]float64) error

	// GetByID retrieves a transaction by id; returns (nil, nil) when absent.
	GetByID(ctx context.Context, id string) (*Transaction, error)

	// ListByUserID returns every transaction owned by the user.
	ListByUserID(ctx context.Context, userID string) ([]*Transaction, error)

	// ListByAccountID returns every transaction referencing the account.
	ListByAccountID(ctx context.Context, accountID string) ([]*Transaction, error)

	// Update persists the merged record and moves the account balance by
	// the difference between the new effect and the stored record's old
	// effect, both evaluated inside the atomic step.
	Update(ctx context.Context, t *Transaction) error

	// Delete removes the transaction and reverses the stored record's
	// balance effect. Reports whether a record was removed.
	Delete(ctx context.Context, id string) (bool, error)
}
