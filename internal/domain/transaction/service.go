package transaction

import (
	"context"
	"math"
	"time"

	"kakeibo/internal/domain/account"

	"github.com/google/uuid"
)

// Service contains the business logic for transaction mutations and
// queries. Every operation takes an explicit userID resolved by the
// authentication layer; ownership is verified against the referenced
// account before any write.
type Service struct {
	repo     Repository
	accounts account.Repository
	budget   float64

	now   func() time.Time
	newID func() string
}

// NewService creates a new transaction service. startingBudget seeds the
// summary budget accumulator.
func NewService(repo Repository, accounts account.Repository, startingBudget float64) *Service {
	return &Service{
		repo:     repo,
		accounts: accounts,
		budget:   startingBudget,
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
}

// Create validates the payload, verifies account ownership, and inserts
// the transaction together with its balance effect in one atomic step.
func (s *Service) Create(ctx context.Context, userID string, params CreateParams) (*Transaction, error) {
	params.Normalize()
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkAccountOwnership(ctx, params.AccountID, userID); err != nil {
		return nil, err
	}

	t := s.build(userID, params)
	if err := s.repo.Insert(ctx, t, t.BalanceDelta()); err != nil {
		return nil, err
	}
	return t, nil
}

// Update loads the transaction, verifies ownership, merges the update,
// and persists it. The repository re-applies the balance difference
// against the stored record inside its atomic step.
func (s *Service) Update(ctx context.Context, id, userID string, params UpdateParams) (*Transaction, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	current, err := s.getOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	merged := *current
	if params.Amount != nil {
		merged.Amount = math.Abs(*params.Amount)
	}
	if params.Description != nil {
		merged.Description = *params.Description
	}
	if params.Category != nil {
		merged.Category = *params.Category
	}
	if params.Merchant != nil {
		merged.Merchant = *params.Merchant
	}
	if params.Tags != nil {
		merged.Tags = params.Tags
	}
	if params.Date != nil {
		merged.Date = *params.Date
	}
	if params.Type != nil {
		merged.Type = *params.Type
	}
	merged.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, &merged); err != nil {
		return nil, err
	}
	return &merged, nil
}

// Delete removes the transaction and reverses its balance effect.
func (s *Service) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.getOwned(ctx, id, userID); err != nil {
		return err
	}

	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotFound
	}
	return nil
}

// BulkCreate validates every payload before persisting any. On success
// all records are inserted and all balance deltas applied; on any
// validation or ownership failure nothing is persisted.
func (s *Service) BulkCreate(ctx context.Context, userID string, payloads []CreateParams) ([]*Transaction, error) {
	if len(payloads) == 0 {
		return nil, &ValidationError{Fields: []string{"transactions"}}
	}

	txs := make([]*Transaction, 0, len(payloads))
	deltas := make(map[string]float64)
	checked := make(map[string]bool)
	ids := make(map[string]bool, len(payloads))

	for _, p := range payloads {
		p.Normalize()
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if !checked[p.AccountID] {
			if err := s.checkAccountOwnership(ctx, p.AccountID, userID); err != nil {
				return nil, err
			}
			checked[p.AccountID] = true
		}
		t := s.build(userID, p)
		// Bank feeds may replay the same provider id twice in one batch;
		// reject before persisting so no backend sees a half-valid batch.
		if ids[t.ID] {
			return nil, ErrDuplicateID
		}
		ids[t.ID] = true
		txs = append(txs, t)
		deltas[t.AccountID] += t.BalanceDelta()
	}

	if err := s.repo.InsertBatch(ctx, txs, deltas); err != nil {
		return nil, err
	}
	return txs, nil
}

// Get returns a single transaction after verifying ownership.
func (s *Service) Get(ctx context.Context, id, userID string) (*Transaction, error) {
	return s.getOwned(ctx, id, userID)
}

// List runs the query engine over the user's full transaction set.
func (s *Service) List(ctx context.Context, userID string, spec FilterSpec) (*Page, error) {
	txs, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return spec.Apply(txs), nil
}

// Search is a text-only query: every other filter is left unrestricted.
func (s *Service) Search(ctx context.Context, userID, query string, limit, offset int) (*Page, error) {
	spec := FilterSpec{SearchQuery: query, Offset: offset}
	if limit != 0 {
		spec.SetLimit(limit)
	}
	return s.List(ctx, userID, spec)
}

// Summary computes the dashboard snapshot from the user's full
// transaction and account sets.
func (s *Service) Summary(ctx context.Context, userID string) (*Summary, error) {
	txs, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	accounts, err := s.accounts.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	var accountTotal float64
	for _, a := range accounts {
		accountTotal += a.Balance
	}
	summary := Summarize(txs, accountTotal, s.budget)
	return &summary, nil
}

func (s *Service) build(userID string, p CreateParams) *Transaction {
	now := s.now()
	id := p.ID
	if id == "" {
		id = s.newID()
	}
	return &Transaction{
		ID:          id,
		UserID:      userID,
		AccountID:   p.AccountID,
		Amount:      p.Amount,
		Description: p.Description,
		Category:    p.Category,
		Merchant:    p.Merchant,
		Tags:        p.Tags,
		Date:        p.Date,
		Type:        p.Type,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (s *Service) getOwned(ctx context.Context, id, userID string) (*Transaction, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrNotFound
	}
	if t.UserID != userID {
		return nil, ErrForbidden
	}
	return t, nil
}

func (s *Service) checkAccountOwnership(ctx context.Context, accountID, userID string) error {
	acc, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	if acc == nil {
		return account.ErrAccountNotFound
	}
	if acc.UserID != userID {
		return ErrForbidden
	}
	return nil
}
