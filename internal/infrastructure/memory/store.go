// Package memory provides an in-process store implementing the
// transaction, account, and user repositories. It backs tests and the
// standalone deployment mode; state lives for the life of the process.
//
// The store is always an explicit handle injected into repositories,
// never package-level state. Mutations hold a per-account lock so two
// balance updates can never apply deltas against a stale read; reads
// hand out snapshot copies so aggregation never observes a half-applied
// mutation.
package memory

import (
	"sort"
	"sync"

	"kakeibo/internal/domain/account"
	"kakeibo/internal/domain/transaction"
	"kakeibo/internal/domain/user"
)

type Store struct {
	mu sync.RWMutex

	users    map[string]*user.User
	accounts map[string]*account.Account
	txs      map[string]*transaction.Transaction
	txOrder  []string // insertion order, ties the query engine's stable sort

	lockMu       sync.Mutex
	accountLocks map[string]*sync.Mutex
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		users:        make(map[string]*user.User),
		accounts:     make(map[string]*account.Account),
		txs:          make(map[string]*transaction.Transaction),
		accountLocks: make(map[string]*sync.Mutex),
	}
}

// accountLock returns the mutex serializing mutations for one account.
func (s *Store) accountLock(accountID string) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	l, ok := s.accountLocks[accountID]
	if !ok {
		l = &sync.Mutex{}
		s.accountLocks[accountID] = l
	}
	return l
}

// lockAccounts acquires the per-account locks in sorted order so batch
// mutations touching several accounts cannot deadlock each other.
func (s *Store) lockAccounts(ids []string) func() {
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)

	locks := make([]*sync.Mutex, 0, len(sorted))
	for i, id := range sorted {
		if i > 0 && sorted[i-1] == id {
			continue
		}
		l := s.accountLock(id)
		l.Lock()
		locks = append(locks, l)
	}
	return func() {
		for i := len(locks) - 1; i >= 0; i-- {
			locks[i].Unlock()
		}
	}
}

func copyTx(t *transaction.Transaction) *transaction.Transaction {
	cp := *t
	if t.Tags != nil {
		cp.Tags = append([]string(nil), t.Tags...)
	}
	return &cp
}

func copyAccount(a *account.Account) *account.Account {
	cp := *a
	return &cp
}

func copyUser(u *user.User) *user.User {
	cp := *u
	return &cp
}
