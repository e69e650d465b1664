// Package feed talks to the external transaction sources (financial
// institution APIs) the reconciliation engine consumes.
package feed

import (
	"context"
	"time"
)

// Query selects the external records for one reconciliation run.
type Query struct {
	CompanyID string
	FromDate  string // inclusive, YYYY-MM-DD
	ToDate    string // inclusive, YYYY-MM-DD
}

// Transaction is one record as the external source reports it. ID is the
// source's own identifier; the feed does not distinguish debit from credit.
type Transaction struct {
	ID          string    `json:"id"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Date is the calendar date of the record, derived from its creation time.
func (t Transaction) Date() string {
	return t.CreatedAt.Format("2006-01-02")
}

// Client fetches external transactions. Implementations return records
// sorted descending by creation time.
type Client interface {
	GetTransactions(ctx context.Context, q Query) ([]Transaction, error)
}
