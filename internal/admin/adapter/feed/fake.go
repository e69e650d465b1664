package feed

import (
	"context"
	"sort"
	"sync"
)

// Fake is a deterministic in-memory feed for tests and local development.
// Records are keyed by company id and served sorted descending by creation
// time, like the real API.
type Fake struct {
	mu      sync.Mutex
	records map[string][]Transaction
	err     error
	calls   int
}

// NewFake returns an empty fake feed.
func NewFake() *Fake {
	return &Fake{records: make(map[string][]Transaction)}
}

// Add registers records for a company.
func (f *Fake) Add(companyID string, records ...Transaction) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[companyID] = append(f.records[companyID], records...)
}

// Fail makes every subsequent call return err.
func (f *Fake) Fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// Calls reports how many fetches were served.
func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *Fake) GetTransactions(ctx context.Context, q Query) ([]Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := append([]Transaction(nil), f.records[q.CompanyID]...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

var _ Client = (*Fake)(nil)
var _ Client = (*HTTPClient)(nil)
