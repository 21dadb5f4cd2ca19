// Package banksync imports activity from the banking provider into the
// transaction store. Provider data is untrusted: every imported record
// goes through the same normalization, validation, and ownership checks
// as a user-submitted one, and already-imported records are skipped by
// their provider ID.
package banksync

import (
	"context"
	"fmt"
	"log"
	"time"

	"kakeibo/internal/domain/account"
	"kakeibo/internal/domain/transaction"
	"kakeibo/internal/domain/user"
	"kakeibo/internal/infrastructure/bank"
)

// lookback bounds how far into history a sync asks the provider for.
const lookback = 30 * 24 * time.Hour

// SyncResult contains the results of a sync operation for one user.
type SyncResult struct {
	UserID            string
	TransactionsFound int
	Created           int
	Skipped           int // Already imported or unusable provider records
	Errors            []string
}

// Service handles syncing balances and transactions from the provider.
type Service struct {
	client       bank.ClientInterface
	userRepo     user.Repository
	accounts     *account.Service
	txRepo       transaction.Repository
	transactions *transaction.Service

	now func() time.Time
}

// NewService creates a new bank sync service.
func NewService(
	client bank.ClientInterface,
	userRepo user.Repository,
	accounts *account.Service,
	txRepo transaction.Repository,
	transactions *transaction.Service,
) *Service {
	return &Service{
		client:       client,
		userRepo:     userRepo,
		accounts:     accounts,
		txRepo:       txRepo,
		transactions: transactions,
		now:          time.Now,
	}
}

// LinkAccount registers a provider account for the user, seeding the
// opening balance from the provider.
func (s *Service) LinkAccount(ctx context.Context, userID, accountNumber, accountName, accountType string) (*account.Account, error) {
	balance, err := s.client.GetBalance(ctx, accountNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch balance from provider: %w", err)
	}

	params := account.CreateParams{
		UserID:        userID,
		AccountNumber: accountNumber,
		AccountName:   accountName,
		Balance:       balance,
		Type:          accountType,
	}
	if params.AccountName == "" {
		params.AccountName = accountNumber
	}
	if params.Type == "" {
		params.Type = account.TypeChecking
	}
	return s.accounts.CreateAccount(ctx, params)
}

// SyncUser pulls recent provider activity for every account the user
// owns and imports the records not seen before.
func (s *Service) SyncUser(ctx context.Context, userID string) (*SyncResult, error) {
	result := &SyncResult{
		UserID: userID,
		Errors: []string{},
	}

	accounts, err := s.accounts.ListAccounts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user accounts: %w", err)
	}

	since := s.now().Add(-lookback)
	for _, acc := range accounts {
		if err := s.syncAccount(ctx, userID, acc, since, result); err != nil {
			errMsg := fmt.Sprintf("failed to sync account %s: %v", acc.ID, err)
			result.Errors = append(result.Errors, errMsg)
			log.Printf("Error: %s", errMsg)
		}
	}

	log.Printf("Bank sync completed for user %s: found=%d, created=%d, skipped=%d, errors=%d",
		userID, result.TransactionsFound, result.Created, result.Skipped, len(result.Errors))

	return result, nil
}

func (s *Service) syncAccount(ctx context.Context, userID string, acc *account.Account, since time.Time, result *SyncResult) error {
	fetched, err := s.client.GetTransactions(ctx, acc.AccountNumber, since)
	if err != nil {
		return fmt.Errorf("failed to fetch transactions from provider: %w", err)
	}
	result.TransactionsFound += len(fetched)

	payloads := make([]transaction.CreateParams, 0, len(fetched))
	batch := make(map[string]bool, len(fetched))
	for _, pt := range fetched {
		if pt.ID == "" || pt.Amount == 0 || pt.Date.IsZero() {
			result.Skipped++
			continue
		}

		// A record can repeat within one provider response, not just
		// across syncs; skip both kinds.
		if batch[pt.ID] {
			result.Skipped++
			continue
		}
		existing, err := s.txRepo.GetByID(ctx, pt.ID)
		if err != nil {
			return fmt.Errorf("failed to check existing transaction: %w", err)
		}
		if existing != nil {
			result.Skipped++
			continue
		}
		batch[pt.ID] = true

		category := pt.Category
		if category == "" {
			category = "uncategorized"
		}
		description := pt.Description
		if description == "" {
			description = pt.Merchant
		}

		payloads = append(payloads, transaction.CreateParams{
			ID:          pt.ID,
			AccountID:   acc.ID,
			Amount:      pt.Amount, // signed; normalized during create
			Description: description,
			Category:    category,
			Merchant:    pt.Merchant,
			Date:        pt.Date,
		})
	}

	if len(payloads) == 0 {
		return nil
	}

	created, err := s.transactions.BulkCreate(ctx, userID, payloads)
	if err != nil {
		return fmt.Errorf("failed to import transactions: %w", err)
	}
	result.Created += len(created)
	return nil
}

// SyncAllUsers syncs every registered user. Per-user failures are
// reported in that user's result instead of aborting the rest.
func (s *Service) SyncAllUsers(ctx context.Context) ([]*SyncResult, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	var results []*SyncResult
	for _, u := range users {
		result, err := s.SyncUser(ctx, u.ID)
		if err != nil {
			log.Printf("Failed to sync user %s: %v", u.ID, err)
			results = append(results, &SyncResult{
				UserID: u.ID,
				Errors: []string{err.Error()},
			})
			continue
		}
		results = append(results, result)
	}

	return results, nil
}
