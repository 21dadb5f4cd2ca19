package transaction

import (
	"errors"
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func fixtureSet() []*Transaction {
	// Insertion order matters: tx-2 and tx-3 share a date and must keep
	// this relative order after the stable sort.
	return []*Transaction{
		{ID: "tx-1", UserID: "u1", AccountID: "acc-1", Amount: 1000, Description: "Salary", Category: "income", Merchant: "Acme Corp", Tags: []string{"work"}, Date: day("2024-01-01"), Type: TypeIncome},
		{ID: "tx-2", UserID: "u1", AccountID: "acc-1", Amount: 300, Description: "Groceries", Category: "food", Merchant: "Market", Tags: []string{"essential"}, Date: day("2024-01-02"), Type: TypeExpense},
		{ID: "tx-3", UserID: "u1", AccountID: "acc-2", Amount: 50, Description: "Coffee", Category: "food", Merchant: "Starbucks", Tags: []string{"coffee", "work"}, Date: day("2024-01-02"), Type: TypeExpense},
		{ID: "tx-4", UserID: "u1", AccountID: "acc-2", Amount: 200, Description: "Savings move", Category: "transfer", Date: day("2024-01-03"), Type: TypeTransfer},
	}
}

func TestApplyNoConstraints(t *testing.T) {
	page := FilterSpec{}.Apply(fixtureSet())

	if page.Total != 4 {
		t.Fatalf("Total = %d, want 4", page.Total)
	}
	if page.Limit != DefaultLimit {
		t.Errorf("Limit = %d, want default %d", page.Limit, DefaultLimit)
	}

	wantOrder := []string{"tx-4", "tx-2", "tx-3", "tx-1"}
	if len(page.Transactions) != len(wantOrder) {
		t.Fatalf("got %d transactions, want %d", len(page.Transactions), len(wantOrder))
	}
	for i, id := range wantOrder {
		if page.Transactions[i].ID != id {
			t.Errorf("position %d: got %s, want %s", i, page.Transactions[i].ID, id)
		}
	}
}

func TestApplyFilters(t *testing.T) {
	min := 100.0
	max := 500.0
	from := day("2024-01-02")
	to := day("2024-01-02")

	tests := []struct {
		name    string
		spec    FilterSpec
		wantIDs []string
	}{
		{
			name:    "By type income",
			spec:    FilterSpec{Types: []string{TypeIncome}},
			wantIDs: []string{"tx-1"},
		},
		{
			name:    "By account",
			spec:    FilterSpec{AccountIDs: []string{"acc-2"}},
			wantIDs: []string{"tx-4", "tx-3"},
		},
		{
			name:    "By category",
			spec:    FilterSpec{Categories: []string{"food"}},
			wantIDs: []string{"tx-2", "tx-3"},
		},
		{
			name:    "Date range inclusive",
			spec:    FilterSpec{DateFrom: &from, DateTo: &to},
			wantIDs: []string{"tx-2", "tx-3"},
		},
		{
			name:    "Amount range inclusive",
			spec:    FilterSpec{MinAmount: &min, MaxAmount: &max},
			wantIDs: []string{"tx-4", "tx-2"},
		},
		{
			name:    "Search matches merchant case-insensitively",
			spec:    FilterSpec{SearchQuery: "starbucks"},
			wantIDs: []string{"tx-3"},
		},
		{
			name:    "Search matches tags",
			spec:    FilterSpec{SearchQuery: "WORK"},
			wantIDs: []string{"tx-3", "tx-1"},
		},
		{
			name:    "Constraints AND together",
			spec:    FilterSpec{Categories: []string{"food"}, AccountIDs: []string{"acc-1"}},
			wantIDs: []string{"tx-2"},
		},
		{
			name:    "No match",
			spec:    FilterSpec{SearchQuery: "does-not-exist"},
			wantIDs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := tt.spec.Apply(fixtureSet())
			if page.Total != len(tt.wantIDs) {
				t.Fatalf("Total = %d, want %d", page.Total, len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if page.Transactions[i].ID != id {
					t.Errorf("position %d: got %s, want %s", i, page.Transactions[i].ID, id)
				}
			}
		})
	}
}

func TestApplyPagination(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		limitSet  bool
		offset    int
		wantIDs   []string
		wantTotal int
	}{
		{
			name:      "First page of two",
			limit:     2,
			limitSet:  true,
			wantIDs:   []string{"tx-4", "tx-2"},
			wantTotal: 4,
		},
		{
			name:      "Second page of two",
			limit:     2,
			limitSet:  true,
			offset:    2,
			wantIDs:   []string{"tx-3", "tx-1"},
			wantTotal: 4,
		},
		{
			name:      "Offset beyond match count returns empty page",
			offset:    10,
			wantIDs:   []string{},
			wantTotal: 4,
		},
		{
			name:      "Non-positive limit returns empty page",
			limit:     0,
			limitSet:  true,
			wantIDs:   []string{},
			wantTotal: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := FilterSpec{Offset: tt.offset}
			if tt.limitSet {
				spec.SetLimit(tt.limit)
			}
			page := spec.Apply(fixtureSet())
			if page.Total != tt.wantTotal {
				t.Errorf("Total = %d, want %d", page.Total, tt.wantTotal)
			}
			if len(page.Transactions) != len(tt.wantIDs) {
				t.Fatalf("got %d transactions, want %d", len(page.Transactions), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if page.Transactions[i].ID != id {
					t.Errorf("position %d: got %s, want %s", i, page.Transactions[i].ID, id)
				}
			}
		})
	}
}

func TestParseDateBound(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantNil bool
		wantErr bool
	}{
		{name: "Empty is unbounded", value: "", wantNil: true},
		{name: "Plain date", value: "2024-01-02"},
		{name: "RFC 3339", value: "2024-01-02T15:04:05Z"},
		{name: "Malformed", value: "02/01/2024", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDateBound("dateFrom", tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				var ife *InvalidFilterError
				if !errors.As(err, &ife) {
					t.Errorf("error type = %T, want *InvalidFilterError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantNil != (got == nil) {
				t.Errorf("nil = %v, want %v", got == nil, tt.wantNil)
			}
		})
	}
}
