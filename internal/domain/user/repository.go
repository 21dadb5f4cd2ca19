package user

import "context"

// Repository defines the interface for user data access
type Repository interface {
	Create(ctx context.Context, params CreateUserParams) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// List returns every registered user, used by the sync scheduler to
	// enumerate sync jobs.
	List(ctx context.Context) ([]*User, error)
}
