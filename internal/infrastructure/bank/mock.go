package bank

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

const mockBatchSize = 10

// MockClient simulates the provider for local development and tests. It
// fabricates balances and a recent transaction history instead of
// calling out over the network.
type MockClient struct {
	rng *rand.Rand
	now func() time.Time
}

var _ ClientInterface = (*MockClient)(nil)

// NewMockClient creates a mock provider seeded from the clock.
func NewMockClient() *MockClient {
	return &MockClient{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		now: time.Now,
	}
}

// NewSeededMockClient creates a mock provider with a fixed seed and
// clock so tests get reproducible output.
func NewSeededMockClient(seed int64, now func() time.Time) *MockClient {
	return &MockClient{rng: rand.New(rand.NewSource(seed)), now: now}
}

var mockMerchants = []struct {
	name     string
	category string
}{
	{"Starbucks", "dining"},
	{"Amazon", "shopping"},
	{"Netflix", "entertainment"},
	{"Grocery Store", "groceries"},
	{"Gas Station", "transport"},
}

func (c *MockClient) GetBalance(ctx context.Context, accountNumber string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return c.rng.Float64() * 10000, nil
}

// GetTransactions fabricates a batch of recent activity. Amounts are
// signed the way the provider reports them: mostly debits, the odd
// credit. Entries older than since are filtered out.
func (c *MockClient) GetTransactions(ctx context.Context, accountNumber string, since time.Time) ([]ProviderTransaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := c.now()
	out := make([]ProviderTransaction, 0, mockBatchSize)
	for i := 0; i < mockBatchSize; i++ {
		m := mockMerchants[c.rng.Intn(len(mockMerchants))]
		amount := c.rng.Float64() * 200
		if c.rng.Intn(4) != 0 {
			amount = -amount // debit
		}
		date := now.AddDate(0, 0, -c.rng.Intn(30))
		if date.Before(since) {
			continue
		}

		out = append(out, ProviderTransaction{
			ID:          fmt.Sprintf("bank_%s_%08x", accountNumber, c.rng.Uint32()),
			Amount:      amount,
			Description: fmt.Sprintf("%s purchase #%d", m.name, i+1),
			Merchant:    m.name,
			Category:    m.category,
			Date:        date,
		})
	}
	return out, nil
}
