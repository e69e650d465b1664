package model

import (
	"time"

	"github.com/lhpaul/finadmin/internal/shared/errors"
)

// DateLayout is the calendar-date format transactions carry. Dates are plain
// strings so lexicographic comparison matches chronological order.
const DateLayout = "2006-01-02"

// TransactionType is the direction of a transaction.
type TransactionType string

const (
	TransactionTypeDebit  TransactionType = "debit"
	TransactionTypeCredit TransactionType = "credit"
)

// Transaction is a money movement attributed to a company and sourced from a
// financial institution. SourceTransactionID is the institution's own id for
// the movement and is the reconciliation match key.
type Transaction struct {
	CompanyID              string          `json:"companyId"`
	FinancialInstitutionID string          `json:"financialInstitutionId"`
	SourceTransactionID    string          `json:"sourceTransactionId"`
	Type                   TransactionType `json:"type"`
	Amount                 float64         `json:"amount"`
	Description            string          `json:"description"`
	Date                   string          `json:"date"`
}

// Validate checks the entity's own invariants.
func (t Transaction) Validate() error {
	if t.CompanyID == "" {
		return errors.NewValidationError("transaction companyId is required")
	}
	if t.Type != TransactionTypeDebit && t.Type != TransactionTypeCredit {
		return errors.NewValidationError("transaction type must be debit or credit")
	}
	if _, err := time.Parse(DateLayout, t.Date); err != nil {
		return errors.NewValidationError("transaction date must be formatted as " + DateLayout)
	}
	return nil
}

// ParseTransaction builds a validated Transaction from an untyped document.
func ParseTransaction(doc map[string]interface{}) (*Transaction, error) {
	t := Transaction{
		CompanyID:              stringField(doc, "companyId"),
		FinancialInstitutionID: stringField(doc, "financialInstitutionId"),
		SourceTransactionID:    stringField(doc, "sourceTransactionId"),
		Type:                   TransactionType(stringField(doc, "type")),
		Description:            stringField(doc, "description"),
		Date:                   stringField(doc, "date"),
	}
	amount, ok := numberField(doc, "amount")
	if !ok {
		return nil, errors.NewValidationError("transaction amount is required")
	}
	t.Amount = amount
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}
