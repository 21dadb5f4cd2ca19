// Package bank talks to the upstream banking provider. The provider is
// an untrusted collaborator: amounts come back signed and uncategorized,
// and everything it returns is normalized and validated by the domain
// layer before it is stored.
package bank

import (
	"context"
	"time"
)

// ClientInterface defines the methods required from the banking provider client
type ClientInterface interface {
	GetBalance(ctx context.Context, accountNumber string) (float64, error)
	GetTransactions(ctx context.Context, accountNumber string, since time.Time) ([]ProviderTransaction, error)
}

// ProviderTransaction is a transaction as the provider reports it.
// Amount is signed: negative for money leaving the account, positive
// for money coming in.
type ProviderTransaction struct {
	ID          string    `json:"id"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	Merchant    string    `json:"merchant"`
	Category    string    `json:"category"`
	Date        time.Time `json:"date"`
}
