package main

import (
	"log"

	"kakeibo/internal/domain/account"
	"kakeibo/internal/domain/banksync"
	"kakeibo/internal/domain/transaction"
	"kakeibo/internal/domain/user"
	"kakeibo/internal/infrastructure/bank"
	"kakeibo/internal/infrastructure/memory"
	"kakeibo/internal/infrastructure/postgres"
	httphandlers "kakeibo/internal/interfaces/http"
	"kakeibo/internal/shared/auth"
	"kakeibo/internal/shared/config"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB *postgres.DB // nil when running on the in-memory backend

	// Handlers
	AuthHandler        *httphandlers.AuthHandler
	AccountHandler     *httphandlers.AccountHandler
	TransactionHandler *httphandlers.TransactionHandler
	BankHandler        *httphandlers.BankHandler

	// Auth
	JWT *auth.JWT

	// Sync service and user repository, used by the scheduler job provider.
	SyncService *banksync.Service
	UserRepo    user.Repository
}

// NewDependencies initializes all application dependencies on the
// configured storage backend.
func NewDependencies(cfg *config.Config) (*Dependencies, error) {
	var (
		db          *postgres.DB
		userRepo    user.Repository
		accountRepo account.Repository
		txRepo      transaction.Repository
	)

	switch cfg.Storage.Backend {
	case config.StoragePostgres:
		var err error
		db, err = postgres.New(cfg.Database.ConnectionString())
		if err != nil {
			return nil, err
		}
		log.Println("Connected to database")

		userRepo = postgres.NewUserRepository(db)
		accountRepo = postgres.NewAccountRepository(db)
		txRepo = postgres.NewTransactionRepository(db)
	default:
		log.Println("Using in-memory storage")

		store := memory.NewStore()
		userRepo = memory.NewUserRepository(store)
		accountRepo = memory.NewAccountRepository(store)
		txRepo = memory.NewTransactionRepository(store)
	}

	// Domain services
	accountService := account.NewService(accountRepo)
	transactionService := transaction.NewService(txRepo, accountRepo, cfg.Summary.StartingBudget)

	// Bank provider and sync
	bankClient := bank.NewMockClient()
	syncService := banksync.NewService(bankClient, userRepo, accountService, txRepo, transactionService)

	// Auth
	jwt := auth.NewJWT(cfg.JWT.Secret)

	// Handlers
	authHandler := httphandlers.NewAuthHandler(userRepo, jwt)
	accountHandler := httphandlers.NewAccountHandler(accountService)
	transactionHandler := httphandlers.NewTransactionHandler(transactionService)
	bankHandler := httphandlers.NewBankHandler(syncService)

	return &Dependencies{
		DB:                 db,
		AuthHandler:        authHandler,
		AccountHandler:     accountHandler,
		TransactionHandler: transactionHandler,
		BankHandler:        bankHandler,
		JWT:                jwt,
		SyncService:        syncService,
		UserRepo:           userRepo,
	}, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.DB != nil {
		d.DB.Close()
	}
}
