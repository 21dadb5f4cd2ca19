package transaction

import (
	"math"
	"time"
)

// Transaction types. The amount is always stored non-negative; the type
// determines the sign of the balance effect.
const (
	TypeIncome   = "income"
	TypeExpense  = "expense"
	TypeTransfer = "transfer"
)

var validTypes = map[string]struct{}{
	TypeIncome:   {},
	TypeExpense:  {},
	TypeTransfer: {},
}

// IsValidType checks if the provided transaction type is recognized.
func IsValidType(t string) bool {
	_, ok := validTypes[t]
	return ok
}

// Transaction represents a single financial event on an account.
type Transaction struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	AccountID   string    `json:"accountId"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Merchant    string    `json:"merchant,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	Date        time.Time `json:"date"`
	Type        string    `json:"type"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BalanceDelta returns the signed contribution of the transaction to its
// account's running balance: income adds, expense and transfer subtract.
// Transfers keep the expense behavior the original system had.
func (t *Transaction) BalanceDelta() float64 {
	if t.Type == TypeIncome {
		return t.Amount
	}
	return -t.Amount
}

// CreateParams contains parameters for creating a new transaction.
// Amounts may arrive signed (bank feeds store expenses as negatives);
// Normalize folds the sign into the type before validation.
type CreateParams struct {
	// ID is optional. Bank feeds supply provider IDs so replayed batches
	// are caught as duplicates; user-created transactions leave it empty
	// and get a generated one.
	ID          string
	AccountID   string
	Amount      float64
	Description string
	Category    string
	Merchant    string
	Tags        []string
	Date        time.Time
	Type        string
}

// Normalize applies the single sign convention: the stored amount is the
// absolute value and the type carries the direction. A signed amount with
// no explicit type is classified by its sign.
func (p *CreateParams) Normalize() {
	if p.Type == "" {
		if p.Amount < 0 {
			p.Type = TypeExpense
		} else {
			p.Type = TypeIncome
		}
	}
	p.Amount = math.Abs(p.Amount)
}

// Validate checks that all required fields are present and well formed.
// Returns a ValidationError naming every missing field.
func (p CreateParams) Validate() error {
	var missing []string
	if p.AccountID == "" {
		missing = append(missing, "accountId")
	}
	if p.Amount == 0 {
		missing = append(missing, "amount")
	}
	if p.Description == "" {
		missing = append(missing, "description")
	}
	if p.Category == "" {
		missing = append(missing, "category")
	}
	if p.Date.IsZero() {
		missing = append(missing, "date")
	}
	if p.Type == "" || !IsValidType(p.Type) {
		missing = append(missing, "type")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

// UpdateParams contains the mutable fields of a transaction. Nil pointers
// leave the current value untouched.
type UpdateParams struct {
	Amount      *float64
	Description *string
	Category    *string
	Merchant    *string
	Tags        []string
	Date        *time.Time
	Type        *string
}

// Validate rejects updates that would break the stored invariants.
func (p UpdateParams) Validate() error {
	var bad []string
	if p.Amount != nil && *p.Amount == 0 {
		bad = append(bad, "amount")
	}
	if p.Description != nil && *p.Description == "" {
		bad = append(bad, "description")
	}
	if p.Category != nil && *p.Category == "" {
		bad = append(bad, "category")
	}
	if p.Type != nil && !IsValidType(*p.Type) {
		bad = append(bad, "type")
	}
	if len(bad) > 0 {
		return &ValidationError{Fields: bad}
	}
	return nil
}
