package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"kakeibo/internal/domain/account"
	"kakeibo/internal/domain/banksync"
	"kakeibo/internal/domain/transaction"
	"kakeibo/internal/domain/user"
	"kakeibo/internal/infrastructure/bank"
	"kakeibo/internal/infrastructure/postgres"
	"kakeibo/internal/shared/config"
)

const usage = `Kakeibo Admin CLI - Management commands for the Kakeibo API

Usage:
  admin <command> [options]

Commands:
  bank-sync   Pull recent provider activity into the transaction store
  list-users  List registered users

Examples:
  # Sync a specific user
  admin bank-sync --user-id=6f1e...

  # Sync multiple users
  admin bank-sync --user-id=6f1e...,a2c4...

  # Sync every registered user
  admin bank-sync --all

  # Run with a timeout
  admin bank-sync --all --timeout=5m
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage, "\n")
		os.Exit(1)
	}

	switch command := os.Args[1]; command {
	case "bank-sync":
		runBankSync(os.Args[2:])
	case "list-users":
		runListUsers(os.Args[2:])
	case "help", "-h", "--help":
		fmt.Print(usage, "\n")
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		fmt.Print(usage, "\n")
		os.Exit(1)
	}
}

// adminEnv is the slice of the application the admin commands need.
type adminEnv struct {
	db    *postgres.DB
	users user.Repository
	sync  *banksync.Service
}

func newAdminEnv() (*adminEnv, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.Storage.Backend != config.StoragePostgres {
		return nil, fmt.Errorf("admin commands require the postgres backend (STORAGE_BACKEND=%s)", cfg.Storage.Backend)
	}

	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}

	userRepo := postgres.NewUserRepository(db)
	accountRepo := postgres.NewAccountRepository(db)
	txRepo := postgres.NewTransactionRepository(db)

	accounts := account.NewService(accountRepo)
	transactions := transaction.NewService(txRepo, accountRepo, cfg.Summary.StartingBudget)
	sync := banksync.NewService(bank.NewMockClient(), userRepo, accounts, txRepo, transactions)

	return &adminEnv{db: db, users: userRepo, sync: sync}, nil
}

func (e *adminEnv) Close() {
	e.db.Close()
}

func runBankSync(args []string) {
	fs := flag.NewFlagSet("bank-sync", flag.ExitOnError)
	userIDStr := fs.String("user-id", "", "User ID(s) to sync (comma-separated for multiple)")
	allUsers := fs.Bool("all", false, "Sync all registered users")
	timeoutStr := fs.String("timeout", "30m", "Timeout for the operation (e.g., 5m, 1h)")
	fs.Parse(args)

	if *userIDStr == "" && !*allUsers {
		log.Fatal("Either --user-id or --all is required")
	}

	timeout, err := time.ParseDuration(*timeoutStr)
	if err != nil {
		log.Fatalf("Invalid timeout: %v", err)
	}

	env, err := newAdminEnv()
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer env.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var results []*banksync.SyncResult
	if *allUsers {
		results, err = env.sync.SyncAllUsers(ctx)
		if err != nil {
			log.Fatalf("Sync failed: %v", err)
		}
	} else {
		for _, userID := range strings.Split(*userIDStr, ",") {
			userID = strings.TrimSpace(userID)
			if userID == "" {
				continue
			}
			result, err := env.sync.SyncUser(ctx, userID)
			if err != nil {
				log.Fatalf("Sync failed for user %s: %v", userID, err)
			}
			results = append(results, result)
		}
	}

	for _, r := range results {
		fmt.Printf("user=%s found=%d created=%d skipped=%d errors=%d\n",
			r.UserID, r.TransactionsFound, r.Created, r.Skipped, len(r.Errors))
		for _, e := range r.Errors {
			fmt.Printf("  error: %s\n", e)
		}
	}
}

func runListUsers(args []string) {
	fs := flag.NewFlagSet("list-users", flag.ExitOnError)
	fs.Parse(args)

	env, err := newAdminEnv()
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer env.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users, err := env.users.List(ctx)
	if err != nil {
		log.Fatalf("Failed to list users: %v", err)
	}

	for _, u := range users {
		fmt.Printf("%s  %s  %s  created=%s\n", u.ID, u.Username, u.Email, u.CreatedAt.Format("2006-01-02"))
	}
	fmt.Printf("%d user(s)\n", len(users))
}
