package account

import (
	"errors"
	"time"
)

// Account types.
const (
	TypeChecking = "checking"
	TypeSavings  = "savings"
	TypeCredit   = "credit"
)

// Allowed account types and a set of common ISO 4217 currency codes.
var (
	accountTypes = map[string]struct{}{
		TypeChecking: {},
		TypeSavings:  {},
		TypeCredit:   {},
	}
	validCurrencies = map[string]struct{}{
		"JPY": {}, "USD": {}, "EUR": {}, "GBP": {}, "BRL": {},
		"CHF": {}, "CAD": {}, "AUD": {}, "NZD": {}, "CNY": {},
		"INR": {}, "MXN": {}, "ZAR": {}, "SEK": {}, "NOK": {},
		"DKK": {}, "PLN": {}, "TRY": {}, "KRW": {}, "SGD": {},
		"HKD": {}, "ARS": {}, "CLP": {}, "COP": {},
	}
)

// Domain errors
var (
	ErrInvalidAccountType = errors.New("invalid account type")
	ErrInvalidCurrency    = errors.New("valid ISO 4217 currency is required")
	ErrAccountNotFound    = errors.New("account not found")
	ErrForbidden          = errors.New("access forbidden")
)

// Account represents a bank account domain entity. Balance is the running
// total: opening balance plus the signed sum of all associated
// transactions. It is only ever adjusted together with a transaction
// write, inside the store's atomic boundary.
type Account struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	AccountNumber string    `json:"accountNumber"`
	AccountName   string    `json:"accountName"`
	Balance       float64   `json:"balance"`
	Currency      string    `json:"currency"`
	Type          string    `json:"type"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// CreateParams contains parameters for creating a new account.
type CreateParams struct {
	UserID        string
	AccountNumber string
	AccountName   string
	Balance       float64
	Currency      string
	Type          string
}

// Validate validates the create parameters.
func (p CreateParams) Validate() error {
	if p.UserID == "" {
		return errors.New("valid user ID is required")
	}
	if p.AccountName == "" {
		return errors.New("account name is required")
	}
	if p.AccountNumber == "" {
		return errors.New("account number is required")
	}
	if !IsValidAccountType(p.Type) {
		return ErrInvalidAccountType
	}
	if !IsValidCurrency(p.Currency) {
		return ErrInvalidCurrency
	}
	return nil
}

// UpdateParams contains parameters for updating an account. Balance is
// deliberately absent: balances only move through transaction mutations.
type UpdateParams struct {
	AccountName *string
	Type        *string
}

// IsValidAccountType checks if the provided account type is valid.
func IsValidAccountType(t string) bool {
	_, ok := accountTypes[t]
	return ok
}

// IsValidCurrency checks if the provided currency is a valid ISO 4217 code.
func IsValidCurrency(c string) bool {
	if len(c) != 3 {
		return false
	}
	_, ok := validCurrencies[c]
	return ok
}
