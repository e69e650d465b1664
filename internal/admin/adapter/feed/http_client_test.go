package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lhpaul/finadmin/internal/shared/logger"
	"github.com/lhpaul/finadmin/internal/store"
)

func TestHTTPClient_GetTransactions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transactions", r.URL.Path)
		assert.Equal(t, "c1", r.URL.Query().Get("companyId"))
		assert.Equal(t, "2024-01-01", r.URL.Query().Get("fromDate"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		// Served out of order on purpose; the client re-sorts.
		w.Write([]byte(`{"transactions":[
			{"id":"a","amount":10,"description":"first","createdAt":"2024-01-02T10:00:00Z"},
			{"id":"b","amount":20,"description":"second","createdAt":"2024-01-05T10:00:00Z"}
		]}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "secret", logger.Noop())
	records, err := c.GetTransactions(context.Background(), Query{CompanyID: "c1", FromDate: "2024-01-01", ToDate: "2024-01-31"})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "b", records[0].ID)
	assert.Equal(t, "a", records[1].ID)
	assert.Equal(t, "2024-01-05", records[0].Date())
}

func TestHTTPClient_ServerErrorIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "secret", logger.Noop())
	_, err := c.GetTransactions(context.Background(), Query{CompanyID: "c1"})
	assert.Equal(t, store.CodeUnavailable, store.CodeOf(err))
}

func TestHTTPClient_RateLimitSuggestsDelay(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "2")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "secret", logger.Noop())
	_, err := c.GetTransactions(context.Background(), Query{CompanyID: "c1"})
	assert.Equal(t, store.CodeRetry, store.CodeOf(err))
	assert.Equal(t, 2*time.Second, store.RetryAfterOf(err))
}

func TestHTTPClient_ClientErrorIsNotTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "bad-key", logger.Noop())
	_, err := c.GetTransactions(context.Background(), Query{CompanyID: "c1"})
	assert.Equal(t, store.CodeInternal, store.CodeOf(err))
}

func TestFake_SortsDescending(t *testing.T) {
	f := NewFake()
	f.Add("c1",
		Transaction{ID: "old", CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		Transaction{ID: "new", CreatedAt: time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC)},
	)
	records, err := f.GetTransactions(context.Background(), Query{CompanyID: "c1"})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "new", records[0].ID)
	assert.Equal(t, 1, f.Calls())
}
