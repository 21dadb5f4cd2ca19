package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"kakeibo/internal/domain/account"
	"kakeibo/internal/infrastructure/memory"
)

func newAccountHandler(t *testing.T) (*AccountHandler, *account.Service) {
	t.Helper()
	store := memory.NewStore()
	accounts := account.NewService(memory.NewAccountRepository(store))
	return NewAccountHandler(accounts), accounts
}

func TestHandleCreateAccount(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{
			name:           "Success",
			body:           `{"accountNumber":"0001234","accountName":"Checking","balance":500,"type":"checking"}`,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Defaults Currency",
			body:           `{"accountNumber":"0005678","accountName":"Savings","type":"savings"}`,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Invalid Type",
			body:           `{"accountNumber":"0001234","accountName":"Checking","type":"offshore"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Invalid Currency",
			body:           `{"accountNumber":"0001234","accountName":"Checking","type":"checking","currency":"XXX"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Missing Name",
			body:           `{"accountNumber":"0001234","type":"checking"}`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _ := newAccountHandler(t)
			req := authRequest(http.MethodPost, "/api/accounts", "user-1", []byte(tt.body))
			rr := httptest.NewRecorder()

			handler.HandleAccounts(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d (%s)", tt.expectedStatus, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestHandleCreateAccountDefaultCurrency(t *testing.T) {
	handler, _ := newAccountHandler(t)
	req := authRequest(http.MethodPost, "/api/accounts",
		"user-1", []byte(`{"accountNumber":"0001234","accountName":"Checking","type":"checking"}`))
	rr := httptest.NewRecorder()

	handler.HandleAccounts(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rr.Code)
	}
	env := decodeEnvelope(t, rr)
	data, _ := json.Marshal(env.Data)
	var acc account.Account
	if err := json.Unmarshal(data, &acc); err != nil {
		t.Fatalf("failed to decode account: %v", err)
	}
	if acc.Currency != "JPY" {
		t.Errorf("expected default currency JPY, got %q", acc.Currency)
	}
}

func TestHandleListAccountsScopedToUser(t *testing.T) {
	handler, accounts := newAccountHandler(t)
	for _, userID := range []string{"user-1", "user-1", "user-2"} {
		if _, err := accounts.CreateAccount(context.Background(), account.CreateParams{
			UserID:        userID,
			AccountNumber: "0001234",
			AccountName:   "Checking",
			Type:          account.TypeChecking,
		}); err != nil {
			t.Fatalf("seed account failed: %v", err)
		}
	}

	req := authRequest(http.MethodGet, "/api/accounts", "user-1", nil)
	rr := httptest.NewRecorder()

	handler.HandleAccounts(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	env := decodeEnvelope(t, rr)
	data, _ := json.Marshal(env.Data)
	var list []*account.Account
	if err := json.Unmarshal(data, &list); err != nil {
		t.Fatalf("failed to decode accounts: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("expected 2 accounts for user-1, got %d", len(list))
	}
}

func TestHandleAccountByID(t *testing.T) {
	handler, accounts := newAccountHandler(t)
	acc, err := accounts.CreateAccount(context.Background(), account.CreateParams{
		UserID:        "user-1",
		AccountNumber: "0001234",
		AccountName:   "Checking",
		Type:          account.TypeChecking,
	})
	if err != nil {
		t.Fatalf("seed account failed: %v", err)
	}

	tests := []struct {
		name           string
		method         string
		userID         string
		accountID      string
		body           []byte
		expectedStatus int
	}{
		{
			name:           "Get Success",
			method:         http.MethodGet,
			userID:         "user-1",
			accountID:      acc.ID,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Get Forbidden",
			method:         http.MethodGet,
			userID:         "user-2",
			accountID:      acc.ID,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "Get Not Found",
			method:         http.MethodGet,
			userID:         "user-1",
			accountID:      "missing",
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "Update Success",
			method:         http.MethodPut,
			userID:         "user-1",
			accountID:      acc.ID,
			body:           []byte(`{"accountName":"Daily Checking"}`),
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Update Invalid Type",
			method:         http.MethodPut,
			userID:         "user-1",
			accountID:      acc.ID,
			body:           []byte(`{"type":"offshore"}`),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Delete Success",
			method:         http.MethodDelete,
			userID:         "user-1",
			accountID:      acc.ID,
			expectedStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := authRequest(tt.method, "/api/accounts/"+tt.accountID, tt.userID, tt.body)
			req.SetPathValue("id", tt.accountID)
			rr := httptest.NewRecorder()

			handler.HandleAccountByID(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d (%s)", tt.expectedStatus, rr.Code, rr.Body.String())
			}
		})
	}
}
