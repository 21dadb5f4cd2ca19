package main

import (
	"net/http"

	"kakeibo/internal/shared/config"
	"kakeibo/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler
// with middleware applied.
func SetupRoutes(deps *Dependencies, cfg *config.Config) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", handleHealth)

	// Public auth routes
	mux.HandleFunc("/api/auth/register", deps.AuthHandler.HandleRegister)
	mux.HandleFunc("/api/auth/login", deps.AuthHandler.HandleLogin)
	mux.HandleFunc("/api/auth/logout", deps.AuthHandler.HandleLogout)

	// Protected routes
	authMiddleware := middleware.Auth(deps.JWT)
	protected := func(h http.HandlerFunc) http.Handler {
		return authMiddleware(h)
	}

	mux.Handle("/api/users/me", protected(deps.AuthHandler.HandleMe))

	mux.Handle("/api/accounts", protected(deps.AccountHandler.HandleAccounts))
	mux.Handle("/api/accounts/{id}", protected(deps.AccountHandler.HandleAccountByID))

	mux.Handle("/api/transactions", protected(deps.TransactionHandler.HandleTransactions))
	mux.Handle("/api/transactions/batch", protected(deps.TransactionHandler.HandleBatchCreate))
	mux.Handle("/api/transactions/search", protected(deps.TransactionHandler.HandleSearch))
	mux.Handle("/api/transactions/summary", protected(deps.TransactionHandler.HandleSummary))
	mux.Handle("/api/transactions/{id}", protected(deps.TransactionHandler.HandleTransactionByID))

	mux.Handle("/api/bank/link", protected(deps.BankHandler.HandleLinkAccount))
	mux.Handle("/api/bank/sync", protected(deps.BankHandler.HandleSync))

	// Apply global middleware, innermost first
	var handler http.Handler = mux
	handler = middleware.CORS(cfg.Server.AllowedHosts)(handler)
	handler = middleware.AllowedHosts(cfg.Server.AllowedHosts)(handler)
	if cfg.Telemetry.Enabled {
		handler = middleware.Tracing(handler)
		handler = middleware.Telemetry(handler)
	}
	handler = middleware.Logging(handler)

	return handler
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
