package transaction

import "math"

// SummaryItem is one dashboard metric. PercentChange is nil when the
// budget accumulator ends at zero, since the ratio is undefined there.
type SummaryItem struct {
	Amount        float64  `json:"amount"`
	PercentChange *float64 `json:"percentChange"`
}

// Summary is the point-in-time snapshot shown on the dashboard.
type Summary struct {
	Balance  SummaryItem `json:"balance"`
	Budget   SummaryItem `json:"budget"`
	Expenses SummaryItem `json:"expenses"`
	Income   SummaryItem `json:"income"`
}

// Summarize computes the dashboard metrics from the user's full,
// unfiltered transaction set. accountTotal is the sum of all account
// balances; startingBudget is the configured budget for the period.
//
// The computation is not incremental: every call walks the whole set, so
// two calls over an unchanged set yield identical output.
func Summarize(txs []*Transaction, accountTotal, startingBudget float64) Summary {
	balance := accountTotal
	budget := startingBudget
	var income, expenses float64

	for _, t := range txs {
		if t.Type == TypeIncome {
			balance += t.Amount
			income += t.Amount
			continue
		}
		// expense and transfer both draw down balance and budget
		balance -= t.Amount
		expenses += t.Amount
		budget -= t.Amount
	}

	return Summary{
		Balance:  SummaryItem{Amount: round2(balance), PercentChange: percentOf(balance, budget)},
		Budget:   SummaryItem{Amount: round2(budget), PercentChange: percentOf(budget, budget)},
		Expenses: SummaryItem{Amount: round2(expenses), PercentChange: percentOf(expenses, budget)},
		Income:   SummaryItem{Amount: round2(income), PercentChange: percentOf(income, budget)},
	}
}

// percentOf returns amount as a percentage of the budget accumulator,
// rounded to two decimals, or nil when the budget is zero.
func percentOf(amount, budget float64) *float64 {
	if budget == 0 {
		return nil
	}
	p := round2(amount / budget * 100)
	return &p
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
