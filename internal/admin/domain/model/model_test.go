package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lhpaul/finadmin/internal/shared/errors"
)

func TestParseCompany(t *testing.T) {
	c, err := ParseCompany(map[string]interface{}{"name": "Acme"})
	require.NoError(t, err)
	assert.Equal(t, "Acme", c.Name)
}

func TestParseCompany_Invalid(t *testing.T) {
	_, err := ParseCompany(map[string]interface{}{"name": "   "})
	assert.Equal(t, errors.CodeValidation, errors.CodeOf(err))

	_, err = ParseCompany(map[string]interface{}{})
	assert.Equal(t, errors.CodeValidation, errors.CodeOf(err))
}

func TestParseTransaction(t *testing.T) {
	doc := map[string]interface{}{
		"companyId":              "c1",
		"financialInstitutionId": "fi1",
		"sourceTransactionId":    "src-1",
		"type":                   "debit",
		"amount":                 float64(120.5),
		"description":            "supplies",
		"date":                   "2024-01-10",
	}
	tx, err := ParseTransaction(doc)
	require.NoError(t, err)
	assert.Equal(t, TransactionTypeDebit, tx.Type)
	assert.Equal(t, 120.5, tx.Amount)
	assert.Equal(t, "2024-01-10", tx.Date)
}

func TestParseTransaction_IntAmount(t *testing.T) {
	tx, err := ParseTransaction(map[string]interface{}{
		"companyId": "c1",
		"type":      "credit",
		"amount":    100,
		"date":      "2024-02-01",
	})
	require.NoError(t, err)
	assert.Equal(t, float64(100), tx.Amount)
}

func TestParseTransaction_Invalid(t *testing.T) {
	base := func() map[string]interface{} {
		return map[string]interface{}{
			"companyId": "c1",
			"type":      "debit",
			"amount":    float64(1),
			"date":      "2024-01-10",
		}
	}
	cases := []struct {
		name   string
		mutate func(doc map[string]interface{})
	}{
		{"missing company", func(d map[string]interface{}) { delete(d, "companyId") }},
		{"bad type", func(d map[string]interface{}) { d["type"] = "transfer" }},
		{"missing amount", func(d map[string]interface{}) { delete(d, "amount") }},
		{"bad date", func(d map[string]interface{}) { d["date"] = "10/01/2024" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := base()
			tc.mutate(doc)
			_, err := ParseTransaction(doc)
			assert.Equal(t, errors.CodeValidation, errors.CodeOf(err))
		})
	}
}

func TestSubscription_Validate(t *testing.T) {
	now := time.Now()
	ok := Subscription{CompanyID: "c1", Status: SubscriptionStatusActive, StartsAt: now}
	assert.NoError(t, ok.Validate())

	inverted := Subscription{CompanyID: "c1", Status: SubscriptionStatusActive, StartsAt: now, EndsAt: now.Add(-time.Hour)}
	assert.Equal(t, errors.CodeValidation, errors.CodeOf(inverted.Validate()))
}

func TestSubscription_IsActiveAt(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	sub := Subscription{CompanyID: "c1", Status: SubscriptionStatusActive, StartsAt: start, EndsAt: end}

	assert.True(t, sub.IsActiveAt(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, sub.IsActiveAt(start.Add(-time.Second)))
	assert.False(t, sub.IsActiveAt(end.Add(time.Second)))

	canceled := sub
	canceled.Status = SubscriptionStatusCanceled
	assert.False(t, canceled.IsActiveAt(start.Add(time.Hour)))

	openEnded := Subscription{CompanyID: "c1", Status: SubscriptionStatusActive, StartsAt: start}
	assert.True(t, openEnded.IsActiveAt(end.AddDate(10, 0, 0)))
}

func TestUser_Validate(t *testing.T) {
	ok := User{Email: "ops@acme.test", PasswordHash: "$2a$10$hash", Role: UserRoleAdmin}
	assert.NoError(t, ok.Validate())

	bad := ok
	bad.Email = "not-an-email"
	assert.Equal(t, errors.CodeValidation, errors.CodeOf(bad.Validate()))

	bad = ok
	bad.Role = "root"
	assert.Equal(t, errors.CodeValidation, errors.CodeOf(bad.Validate()))
}
