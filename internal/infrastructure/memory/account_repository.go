package memory

import (
	"context"
	"sort"
	"time"

	"kakeibo/internal/domain/account"

	"github.com/google/uuid"
)

// AccountRepository implements account.Repository on the in-memory store.
type AccountRepository struct {
	store *Store
}

func NewAccountRepository(store *Store) *AccountRepository {
	return &AccountRepository{store: store}
}

func (r *AccountRepository) Create(ctx context.Context, params account.CreateParams) (*account.Account, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	acc := &account.Account{
		ID:            uuid.New().String(),
		UserID:        params.UserID,
		AccountNumber: params.AccountNumber,
		AccountName:   params.AccountName,
		Balance:       params.Balance,
		Currency:      params.Currency,
		Type:          params.Type,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.accounts[acc.ID] = acc
	return copyAccount(acc), nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*account.Account, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.accounts[id]
	if !ok {
		return nil, nil
	}
	return copyAccount(acc), nil
}

func (r *AccountRepository) ListByUserID(ctx context.Context, userID string) ([]*account.Account, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*account.Account, 0)
	for _, acc := range s.accounts {
		if acc.UserID == userID {
			out = append(out, copyAccount(acc))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *AccountRepository) Update(ctx context.Context, id string, params account.UpdateParams) (*account.Account, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[id]
	if !ok {
		return nil, account.ErrAccountNotFound
	}
	if params.AccountName != nil {
		acc.AccountName = *params.AccountName
	}
	if params.Type != nil {
		acc.Type = *params.Type
	}
	acc.UpdatedAt = time.Now()
	return copyAccount(acc), nil
}

func (r *AccountRepository) Delete(ctx context.Context, id string) (bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[id]; !ok {
		return false, nil
	}
	delete(s.accounts, id)
	return true, nil
}
