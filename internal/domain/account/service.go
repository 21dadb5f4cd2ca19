package account

import (
	"context"
	"errors"
)

// Service contains the business logic for account operations.
type Service struct {
	repo Repository
}

// NewService creates a new account service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateAccount creates a new account with business validation.
func (s *Service) CreateAccount(ctx context.Context, params CreateParams) (*Account, error) {
	if params.Currency == "" {
		params.Currency = "JPY"
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, params)
}

// GetAccount retrieves an account by ID and verifies user ownership.
func (s *Service) GetAccount(ctx context.Context, accountID, userID string) (*Account, error) {
	acc, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, ErrAccountNotFound
	}
	if acc.UserID != userID {
		return nil, ErrForbidden
	}
	return acc, nil
}

// ListAccounts retrieves all accounts for a specific user.
func (s *Service) ListAccounts(ctx context.Context, userID string) ([]*Account, error) {
	if userID == "" {
		return nil, errors.New("valid user ID is required")
	}
	return s.repo.ListByUserID(ctx, userID)
}

// UpdateAccount applies an update after verifying ownership.
func (s *Service) UpdateAccount(ctx context.Context, accountID, userID string, params UpdateParams) (*Account, error) {
	if _, err := s.GetAccount(ctx, accountID, userID); err != nil {
		return nil, err
	}
	if params.Type != nil && !IsValidAccountType(*params.Type) {
		return nil, ErrInvalidAccountType
	}
	return s.repo.Update(ctx, accountID, params)
}

// DeleteAccount deletes an account after verifying ownership.
func (s *Service) DeleteAccount(ctx context.Context, accountID, userID string) error {
	if _, err := s.GetAccount(ctx, accountID, userID); err != nil {
		return err
	}
	removed, err := s.repo.Delete(ctx, accountID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrAccountNotFound
	}
	return nil
}
