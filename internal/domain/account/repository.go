package account

import "context"

// Repository defines the interface for account data access.
// This interface is defined in the domain layer, but implemented in the
// infrastructure layer (in-memory store and Postgres).
type Repository interface {
	// Create creates a new account
	Create(ctx context.Context, params CreateParams) (*Account, error)

	// GetByID retrieves an account by its ID; returns (nil, nil) when absent
	GetByID(ctx context.Context, id string) (*Account, error)

	// ListByUserID retrieves all accounts for a specific user
	ListByUserID(ctx context.Context, userID string) ([]*Account, error)

	// Update applies the non-nil fields of params
	Update(ctx context.Context, id string, params UpdateParams) (*Account, error)

	// Delete removes an account; reports whether a record was removed
	Delete(ctx context.Context, id string) (bool, error)
}
