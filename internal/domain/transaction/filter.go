package transaction

import (
	"sort"
	"strings"
	"time"
)

// DefaultLimit is the page size applied when a filter does not set one.
const DefaultLimit = 100

// FilterSpec is the set of recognized query constraints. Zero values mean
// unrestricted: nil date bounds, empty sets, empty search string. All
// active constraints are combined with a logical AND.
type FilterSpec struct {
	DateFrom    *time.Time
	DateTo      *time.Time
	AccountIDs  []string
	Categories  []string
	Types       []string
	SearchQuery string
	MinAmount   *float64
	MaxAmount   *float64
	Limit       int
	Offset      int

	limitSet bool
}

// SetLimit sets an explicit page size. A limit <= 0 yields an empty page.
func (f *FilterSpec) SetLimit(limit int) {
	f.Limit = limit
	f.limitSet = true
}

// ParseDateBound parses an inclusive date bound in RFC 3339 or YYYY-MM-DD
// form. Malformed values fail with InvalidFilterError instead of being
// silently ignored.
func ParseDateBound(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, &InvalidFilterError{Field: field, Value: value, Reason: "expected YYYY-MM-DD or RFC 3339"}
	}
	return &t, nil
}

// Page is one slice of filtered results along with the total number of
// matches before pagination, so clients can render paging controls.
type Page struct {
	Transactions []*Transaction `json:"transactions"`
	Total        int            `json:"total"`
	Limit        int            `json:"limit"`
	Offset       int            `json:"offset"`
}

// Matches reports whether the transaction satisfies every active
// constraint of the filter.
func (f FilterSpec) Matches(t *Transaction) bool {
	if f.DateFrom != nil && t.Date.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && t.Date.After(*f.DateTo) {
		return false
	}
	if len(f.AccountIDs) > 0 && !containsString(f.AccountIDs, t.AccountID) {
		return false
	}
	if len(f.Categories) > 0 && !containsString(f.Categories, t.Category) {
		return false
	}
	if len(f.Types) > 0 && !containsString(f.Types, t.Type) {
		return false
	}
	if f.MinAmount != nil && t.Amount < *f.MinAmount {
		return false
	}
	if f.MaxAmount != nil && t.Amount > *f.MaxAmount {
		return false
	}
	if f.SearchQuery != "" && !matchesSearch(t, f.SearchQuery) {
		return false
	}
	return true
}

// Apply selects, orders, and paginates the subset of transactions matching
// the filter. Input order is the insertion order; the sort by date
// descending is stable so that financial histories render
// deterministically. An offset past the end returns an empty page with the
// real total.
func (f FilterSpec) Apply(txs []*Transaction) *Page {
	limit := f.Limit
	if !f.limitSet && limit == 0 {
		limit = DefaultLimit
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	matched := make([]*Transaction, 0, len(txs))
	for _, t := range txs {
		if f.Matches(t) {
			matched = append(matched, t)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Date.After(matched[j].Date)
	})

	page := &Page{Transactions: []*Transaction{}, Total: len(matched), Limit: limit, Offset: offset}
	if limit <= 0 || offset >= len(matched) {
		return page
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	page.Transactions = matched[offset:end]
	return page
}

// matchesSearch does a case-insensitive substring match against the
// description, category, merchant, and every tag.
func matchesSearch(t *Transaction, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(t.Description), q) {
		return true
	}
	if strings.Contains(strings.ToLower(t.Category), q) {
		return true
	}
	if t.Merchant != "" && strings.Contains(strings.ToLower(t.Merchant), q) {
		return true
	}
	for _, tag := range t.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

func containsString(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
