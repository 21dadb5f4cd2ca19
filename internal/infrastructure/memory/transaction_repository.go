package memory

import (
	"context"
	"time"

	"kakeibo/internal/domain/transaction"
)

// TransactionRepository implements transaction.Repository on the
// in-memory store. Every mutation applies the transaction write and the
// account balance delta under the same locks, so callers never observe
// one without the other.
type TransactionRepository struct {
	store *Store
}

func NewTransactionRepository(store *Store) *TransactionRepository {
	return &TransactionRepository{store: store}
}

func (r *TransactionRepository) Insert(ctx context.Context, t *transaction.Transaction, delta float64) error {
	s := r.store
	unlock := s.lockAccounts([]string{t.AccountID})
	defer unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.txs[t.ID]; exists {
		return transaction.ErrDuplicateID
	}
	acc, ok := s.accounts[t.AccountID]
	if !ok {
		// The balance effect has nowhere to go: refuse the whole mutation.
		return transaction.ErrConsistency
	}

	s.txs[t.ID] = copyTx(t)
	s.txOrder = append(s.txOrder, t.ID)
	acc.Balance += delta
	acc.UpdatedAt = time.Now()
	return nil
}

func (r *TransactionRepository) InsertBatch(ctx context.Context, txs []*transaction.Transaction, deltas map[string]float64) error {
	s := r.store
	ids := make([]string, 0, len(deltas))
	for id := range deltas {
		ids = append(ids, id)
	}
	unlock := s.lockAccounts(ids)
	defer unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Check everything before touching anything: all-or-nothing. An id
	// may collide with the store or with another entry in the same batch;
	// both refuse the whole mutation.
	seen := make(map[string]bool, len(txs))
	for _, t := range txs {
		if seen[t.ID] {
			return transaction.ErrDuplicateID
		}
		if _, exists := s.txs[t.ID]; exists {
			return transaction.ErrDuplicateID
		}
		seen[t.ID] = true
	}
	for accID := range deltas {
		if _, ok := s.accounts[accID]; !ok {
			return transaction.ErrConsistency
		}
	}

	now := time.Now()
	for _, t := range txs {
		s.txs[t.ID] = copyTx(t)
		s.txOrder = append(s.txOrder, t.ID)
	}
	for accID, delta := range deltas {
		s.accounts[accID].Balance += delta
		s.accounts[accID].UpdatedAt = now
	}
	return nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*transaction.Transaction, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.txs[id]
	if !ok {
		return nil, nil
	}
	return copyTx(t), nil
}

func (r *TransactionRepository) ListByUserID(ctx context.Context, userID string) ([]*transaction.Transaction, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*transaction.Transaction, 0)
	for _, id := range s.txOrder {
		t := s.txs[id]
		if t != nil && t.UserID == userID {
			out = append(out, copyTx(t))
		}
	}
	return out, nil
}

func (r *TransactionRepository) ListByAccountID(ctx context.Context, accountID string) ([]*transaction.Transaction, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*transaction.Transaction, 0)
	for _, id := range s.txOrder {
		t := s.txs[id]
		if t != nil && t.AccountID == accountID {
			out = append(out, copyTx(t))
		}
	}
	return out, nil
}

func (r *TransactionRepository) Update(ctx context.Context, t *transaction.Transaction) error {
	s := r.store
	unlock := s.lockAccounts([]string{t.AccountID})
	defer unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	old, exists := s.txs[t.ID]
	if !exists {
		return transaction.ErrNotFound
	}
	acc, ok := s.accounts[t.AccountID]
	if !ok {
		return transaction.ErrConsistency
	}

	// The old effect is read under the same locks that apply the new
	// one, so a racing mutation can never leave the delta stale.
	delta := t.BalanceDelta() - old.BalanceDelta()
	s.txs[t.ID] = copyTx(t)
	acc.Balance += delta
	acc.UpdatedAt = time.Now()
	return nil
}

func (r *TransactionRepository) Delete(ctx context.Context, id string) (bool, error) {
	s := r.store

	// The account id never changes after insert, so it is safe to look
	// it up before taking the account lock.
	s.mu.RLock()
	t, exists := s.txs[id]
	var accountID string
	if exists {
		accountID = t.AccountID
	}
	s.mu.RUnlock()
	if !exists {
		return false, nil
	}

	unlock := s.lockAccounts([]string{accountID})
	defer unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	t, exists = s.txs[id]
	if !exists {
		// Lost the race with another delete of the same record.
		return false, nil
	}
	acc, ok := s.accounts[t.AccountID]
	if !ok {
		return false, transaction.ErrConsistency
	}

	delete(s.txs, id)
	for i, oid := range s.txOrder {
		if oid == id {
			s.txOrder = append(s.txOrder[:i], s.txOrder[i+1:]...)
			break
		}
	}
	acc.Balance -= t.BalanceDelta()
	acc.UpdatedAt = time.Now()
	return true, nil
}
