package banksync

import (
	"context"
	"testing"
	"time"

	"kakeibo/internal/domain/account"
	"kakeibo/internal/domain/transaction"
	"kakeibo/internal/domain/user"
	"kakeibo/internal/infrastructure/bank"
	"kakeibo/internal/infrastructure/memory"
)

type fakeBankClient struct {
	GetBalanceFunc      func(ctx context.Context, accountNumber string) (float64, error)
	GetTransactionsFunc func(ctx context.Context, accountNumber string, since time.Time) ([]bank.ProviderTransaction, error)
}

func (f *fakeBankClient) GetBalance(ctx context.Context, accountNumber string) (float64, error) {
	return f.GetBalanceFunc(ctx, accountNumber)
}

func (f *fakeBankClient) GetTransactions(ctx context.Context, accountNumber string, since time.Time) ([]bank.ProviderTransaction, error) {
	return f.GetTransactionsFunc(ctx, accountNumber, since)
}

type env struct {
	svc      *Service
	accounts *account.Service
	txRepo   *memory.TransactionRepository
	users    *memory.UserRepository
}

func newTestEnv(t *testing.T, client bank.ClientInterface) *env {
	t.Helper()
	store := memory.NewStore()
	accountRepo := memory.NewAccountRepository(store)
	txRepo := memory.NewTransactionRepository(store)
	userRepo := memory.NewUserRepository(store)

	accounts := account.NewService(accountRepo)
	transactions := transaction.NewService(txRepo, accountRepo, 3000)

	return &env{
		svc:      NewService(client, userRepo, accounts, txRepo, transactions),
		accounts: accounts,
		txRepo:   txRepo,
		users:    userRepo,
	}
}

func TestLinkAccountSeedsOpeningBalance(t *testing.T) {
	ctx := context.Background()
	client := &fakeBankClient{
		GetBalanceFunc: func(ctx context.Context, accountNumber string) (float64, error) {
			return 2500.75, nil
		},
	}
	e := newTestEnv(t, client)

	acc, err := e.svc.LinkAccount(ctx, "u1", "0009876", "Main Checking", "")
	if err != nil {
		t.Fatalf("LinkAccount failed: %v", err)
	}
	if acc.Balance != 2500.75 {
		t.Errorf("balance = %v, want 2500.75", acc.Balance)
	}
	if acc.Type != account.TypeChecking {
		t.Errorf("type = %q, want %q", acc.Type, account.TypeChecking)
	}
	if acc.Currency == "" {
		t.Error("currency default not applied")
	}
}

func TestSyncUserImportsAndNormalizes(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	client := &fakeBankClient{
		GetBalanceFunc: func(ctx context.Context, accountNumber string) (float64, error) {
			return 1000, nil
		},
		GetTransactionsFunc: func(ctx context.Context, accountNumber string, since time.Time) ([]bank.ProviderTransaction, error) {
			return []bank.ProviderTransaction{
				{ID: "bank-1", Amount: -42.50, Description: "Coffee", Merchant: "Starbucks", Category: "dining", Date: date},
				{ID: "bank-2", Amount: 1200, Description: "Payroll", Category: "income", Date: date},
				{ID: "bank-3", Amount: -9.99, Merchant: "Netflix", Date: date}, // no description, no category
			}, nil
		},
	}
	e := newTestEnv(t, client)

	acc, err := e.svc.LinkAccount(ctx, "u1", "0009876", "Main Checking", "checking")
	if err != nil {
		t.Fatalf("LinkAccount failed: %v", err)
	}

	result, err := e.svc.SyncUser(ctx, "u1")
	if err != nil {
		t.Fatalf("SyncUser failed: %v", err)
	}
	if result.TransactionsFound != 3 || result.Created != 3 {
		t.Errorf("result = found %d created %d, want 3/3", result.TransactionsFound, result.Created)
	}

	// Signed provider amounts fold into the type convention.
	imported, err := e.txRepo.GetByID(ctx, "bank-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if imported.Amount != 42.50 || imported.Type != transaction.TypeExpense {
		t.Errorf("bank-1 = amount %v type %q, want 42.50 expense", imported.Amount, imported.Type)
	}

	payroll, _ := e.txRepo.GetByID(ctx, "bank-2")
	if payroll.Type != transaction.TypeIncome {
		t.Errorf("bank-2 type = %q, want income", payroll.Type)
	}

	// Missing description falls back to merchant, missing category to a default.
	sub, _ := e.txRepo.GetByID(ctx, "bank-3")
	if sub.Description != "Netflix" || sub.Category != "uncategorized" {
		t.Errorf("bank-3 = description %q category %q", sub.Description, sub.Category)
	}

	// 1000 opening - 42.50 - 9.99 + 1200
	got, _ := e.accounts.GetAccount(ctx, acc.ID, "u1")
	want := 1000 - 42.50 - 9.99 + 1200
	if got.Balance != want {
		t.Errorf("balance = %v, want %v", got.Balance, want)
	}
}

func TestSyncUserSkipsAlreadyImported(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	client := &fakeBankClient{
		GetBalanceFunc: func(ctx context.Context, accountNumber string) (float64, error) {
			return 0, nil
		},
		GetTransactionsFunc: func(ctx context.Context, accountNumber string, since time.Time) ([]bank.ProviderTransaction, error) {
			return []bank.ProviderTransaction{
				{ID: "bank-1", Amount: -50, Description: "Groceries", Category: "groceries", Date: date},
			}, nil
		},
	}
	e := newTestEnv(t, client)

	if _, err := e.svc.LinkAccount(ctx, "u1", "0009876", "Main Checking", "checking"); err != nil {
		t.Fatalf("LinkAccount failed: %v", err)
	}

	if _, err := e.svc.SyncUser(ctx, "u1"); err != nil {
		t.Fatalf("first sync failed: %v", err)
	}
	second, err := e.svc.SyncUser(ctx, "u1")
	if err != nil {
		t.Fatalf("second sync failed: %v", err)
	}

	if second.Created != 0 || second.Skipped != 1 {
		t.Errorf("second sync = created %d skipped %d, want 0/1", second.Created, second.Skipped)
	}

	txs, _ := e.txRepo.ListByUserID(ctx, "u1")
	if len(txs) != 1 {
		t.Errorf("transaction count = %d, want 1 (replay must not duplicate)", len(txs))
	}
}

func TestSyncUserSkipsRepeatedRecordsInOneFeed(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	// The provider delivers the same record twice in a single response.
	client := &fakeBankClient{
		GetBalanceFunc: func(ctx context.Context, accountNumber string) (float64, error) {
			return 1000, nil
		},
		GetTransactionsFunc: func(ctx context.Context, accountNumber string, since time.Time) ([]bank.ProviderTransaction, error) {
			return []bank.ProviderTransaction{
				{ID: "bank-1", Amount: -100, Description: "Rent", Category: "housing", Date: date},
				{ID: "bank-1", Amount: -100, Description: "Rent", Category: "housing", Date: date},
			}, nil
		},
	}
	e := newTestEnv(t, client)

	acc, err := e.svc.LinkAccount(ctx, "u1", "0009876", "Main Checking", "checking")
	if err != nil {
		t.Fatalf("LinkAccount failed: %v", err)
	}

	result, err := e.svc.SyncUser(ctx, "u1")
	if err != nil {
		t.Fatalf("SyncUser failed: %v", err)
	}
	if result.Created != 1 || result.Skipped != 1 {
		t.Errorf("result = created %d skipped %d, want 1/1", result.Created, result.Skipped)
	}

	txs, _ := e.txRepo.ListByUserID(ctx, "u1")
	if len(txs) != 1 {
		t.Errorf("transaction count = %d, want 1", len(txs))
	}
	// The balance moves once for the record, not once per copy.
	got, _ := e.accounts.GetAccount(ctx, acc.ID, "u1")
	if got.Balance != 900 {
		t.Errorf("balance = %v, want 900", got.Balance)
	}
}

func TestSyncAllUsersIsolatesFailures(t *testing.T) {
	ctx := context.Background()

	client := &fakeBankClient{
		GetTransactionsFunc: func(ctx context.Context, accountNumber string, since time.Time) ([]bank.ProviderTransaction, error) {
			return nil, nil
		},
	}
	e := newTestEnv(t, client)

	if _, err := e.users.Create(ctx, user.CreateUserParams{Username: "a", Email: "a@example.com", PasswordHash: "x"}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := e.users.Create(ctx, user.CreateUserParams{Username: "b", Email: "b@example.com", PasswordHash: "x"}); err != nil {
		t.Fatalf("create user: %v", err)
	}

	results, err := e.svc.SyncAllUsers(ctx)
	if err != nil {
		t.Fatalf("SyncAllUsers failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("results = %d, want one per user", len(results))
	}
}
