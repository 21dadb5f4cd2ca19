package http

import (
	"encoding/json"
	"log"
	"net/http"

	"kakeibo/internal/domain/banksync"
	"kakeibo/internal/shared/middleware"
)

type BankHandler struct {
	sync *banksync.Service
}

func NewBankHandler(sync *banksync.Service) *BankHandler {
	return &BankHandler{sync: sync}
}

type LinkAccountRequest struct {
	AccountNumber string `json:"accountNumber"`
	AccountName   string `json:"accountName"`
	Type          string `json:"type"`
}

type SyncResponse struct {
	TransactionsFound int      `json:"transactionsFound"`
	Created           int      `json:"created"`
	Skipped           int      `json:"skipped"`
	Errors            []string `json:"errors"`
}

// HandleLinkAccount registers a provider account for the user, seeding
// the opening balance from the provider.
func (h *BankHandler) HandleLinkAccount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req LinkAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.AccountNumber == "" {
		writeMessage(w, http.StatusBadRequest, "accountNumber is required")
		return
	}

	acc, err := h.sync.LinkAccount(r.Context(), userID, req.AccountNumber, req.AccountName, req.Type)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusCreated, acc)
}

// HandleSync triggers an on-demand provider sync for the user.
func (h *BankHandler) HandleSync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	result, err := h.sync.SyncUser(r.Context(), userID)
	if err != nil {
		log.Printf("Error syncing user %s: %v", userID, err)
		writeMessage(w, http.StatusInternalServerError, "Sync failed")
		return
	}

	writeData(w, http.StatusOK, SyncResponse{
		TransactionsFound: result.TransactionsFound,
		Created:           result.Created,
		Skipped:           result.Skipped,
		Errors:            result.Errors,
	})
}
