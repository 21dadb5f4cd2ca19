package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"kakeibo/internal/domain/account"
	"kakeibo/internal/domain/transaction"
	"kakeibo/internal/domain/user"
)

// Envelope is the uniform JSON response shape. Success responses carry
// data and optionally pagination; failures carry a message.
type Envelope struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data,omitempty"`
	Message    string      `json:"message,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination echoes the applied page window plus the pre-pagination total.
type Pagination struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

func writeJSON(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, Envelope{Success: true, Data: data})
}

func writePage(w http.ResponseWriter, page *transaction.Page) {
	writeJSON(w, http.StatusOK, Envelope{
		Success: true,
		Data:    page.Transactions,
		Pagination: &Pagination{
			Total:  page.Total,
			Limit:  page.Limit,
			Offset: page.Offset,
		},
	})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Envelope{Success: status < 400, Message: message})
}

// writeDomainError maps domain errors onto HTTP status codes. Unknown
// errors are logged and reported as a generic 500 so internals do not
// leak to clients.
func writeDomainError(w http.ResponseWriter, err error) {
	var validationErr *transaction.ValidationError
	var filterErr *transaction.InvalidFilterError

	switch {
	case errors.As(err, &validationErr):
		writeMessage(w, http.StatusBadRequest, validationErr.Error())
	case errors.As(err, &filterErr):
		writeMessage(w, http.StatusBadRequest, filterErr.Error())
	case errors.Is(err, transaction.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "Transaction not found")
	case errors.Is(err, account.ErrAccountNotFound):
		writeMessage(w, http.StatusNotFound, "Account not found")
	case errors.Is(err, user.ErrUserNotFound):
		writeMessage(w, http.StatusNotFound, "User not found")
	case errors.Is(err, transaction.ErrForbidden), errors.Is(err, account.ErrForbidden):
		writeMessage(w, http.StatusForbidden, "Forbidden")
	case errors.Is(err, transaction.ErrDuplicateID):
		writeMessage(w, http.StatusConflict, "Transaction already exists")
	case errors.Is(err, user.ErrEmailTaken):
		writeMessage(w, http.StatusConflict, "User with this email already exists")
	case errors.Is(err, account.ErrInvalidAccountType), errors.Is(err, account.ErrInvalidCurrency):
		writeMessage(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("Internal error: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}
