package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/lhpaul/finadmin/internal/shared/logger"
	"github.com/lhpaul/finadmin/internal/store"
)

const defaultRequestTimeout = 15 * time.Second

// HTTPClient fetches transactions from a financial institution's REST API.
type HTTPClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     logger.Logger
}

// NewHTTPClient builds a feed client for a base URL such as
// "https://api.institution.example". The api key travels as a bearer token.
func NewHTTPClient(baseURL, apiKey string, log logger.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: defaultRequestTimeout},
		log:     log.WithComponent("feed.http"),
	}
}

// GetTransactions calls GET /transactions with the query parameters and
// returns the records sorted descending by creation time. Transport and 5xx
// failures are coded UNAVAILABLE so the retry runner treats them as
// transient; a 429 additionally carries the server's suggested pause.
func (c *HTTPClient) GetTransactions(ctx context.Context, q Query) ([]Transaction, error) {
	endpoint := fmt.Sprintf("%s/transactions?%s", c.baseURL, url.Values{
		"companyId": {q.CompanyID},
		"fromDate":  {q.FromDate},
		"toDate":    {q.ToDate},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, store.WrapError(store.CodeInvalidArgument, "building feed request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, store.WrapError(store.CodeUnavailable, "feed request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests:
		e := store.NewError(store.CodeRetry, "feed rate limited")
		e.RetryAfter = retryAfterHeader(resp)
		return nil, e
	case resp.StatusCode >= 500:
		return nil, store.NewError(store.CodeUnavailable, fmt.Sprintf("feed returned status %d", resp.StatusCode))
	default:
		return nil, store.NewError(store.CodeInternal, fmt.Sprintf("feed returned status %d", resp.StatusCode))
	}

	var payload struct {
		Transactions []Transaction `json:"transactions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, store.WrapError(store.CodeInternal, "decoding feed response", err)
	}

	records := payload.Transactions
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	c.log.WithFields(map[string]interface{}{
		"company_id": q.CompanyID,
		"records":    len(records),
	}).Debug("feed fetch finished")
	return records, nil
}

func retryAfterHeader(resp *http.Response) time.Duration {
	if s := resp.Header.Get("Retry-After"); s != "" {
		if seconds, err := time.ParseDuration(s + "s"); err == nil {
			return seconds
		}
	}
	return 0
}
