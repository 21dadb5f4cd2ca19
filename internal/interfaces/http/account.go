package http

import (
	"encoding/json"
	"net/http"

	"kakeibo/internal/domain/account"
	"kakeibo/internal/shared/middleware"
)

type AccountHandler struct {
	accounts *account.Service
}

func NewAccountHandler(accounts *account.Service) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

type CreateAccountRequest struct {
	AccountNumber string  `json:"accountNumber"`
	AccountName   string  `json:"accountName"`
	Balance       float64 `json:"balance"`
	Currency      string  `json:"currency"`
	Type          string  `json:"type"`
}

type UpdateAccountRequest struct {
	AccountName *string `json:"accountName"`
	Type        *string `json:"type"`
}

// HandleAccounts lists the user's accounts or creates a new one.
func (h *AccountHandler) HandleAccounts(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r, userID)
	case http.MethodPost:
		h.handleCreate(w, r, userID)
	default:
		writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *AccountHandler) handleList(w http.ResponseWriter, r *http.Request, userID string) {
	accounts, err := h.accounts.ListAccounts(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, accounts)
}

func (h *AccountHandler) handleCreate(w http.ResponseWriter, r *http.Request, userID string) {
	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	acc, err := h.accounts.CreateAccount(r.Context(), account.CreateParams{
		UserID:        userID,
		AccountNumber: req.AccountNumber,
		AccountName:   req.AccountName,
		Balance:       req.Balance,
		Currency:      req.Currency,
		Type:          req.Type,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusCreated, acc)
}

// HandleAccountByID serves GET, PUT, and DELETE on a single account.
func (h *AccountHandler) HandleAccountByID(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	accountID := r.PathValue("id")
	if accountID == "" {
		writeMessage(w, http.StatusBadRequest, "Account ID is required")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, r, userID, accountID)
	case http.MethodPut:
		h.handleUpdate(w, r, userID, accountID)
	case http.MethodDelete:
		h.handleDelete(w, r, userID, accountID)
	default:
		writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *AccountHandler) handleGet(w http.ResponseWriter, r *http.Request, userID, accountID string) {
	acc, err := h.accounts.GetAccount(r.Context(), accountID, userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, acc)
}

func (h *AccountHandler) handleUpdate(w http.ResponseWriter, r *http.Request, userID, accountID string) {
	var req UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	acc, err := h.accounts.UpdateAccount(r.Context(), accountID, userID, account.UpdateParams{
		AccountName: req.AccountName,
		Type:        req.Type,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, acc)
}

func (h *AccountHandler) handleDelete(w http.ResponseWriter, r *http.Request, userID, accountID string) {
	if err := h.accounts.DeleteAccount(r.Context(), accountID, userID); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
