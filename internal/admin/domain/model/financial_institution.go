package model

import (
	"strings"

	"github.com/lhpaul/finadmin/internal/shared/errors"
)

// FinancialInstitution is an external transaction source a company's
// accounts are synchronized against.
type FinancialInstitution struct {
	Name string `json:"name"`
}

// Validate checks the entity's own invariants.
func (f FinancialInstitution) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return errors.NewValidationError("financial institution name is required")
	}
	return nil
}

// ParseFinancialInstitution builds a validated FinancialInstitution from an
// untyped document.
func ParseFinancialInstitution(doc map[string]interface{}) (*FinancialInstitution, error) {
	f := FinancialInstitution{Name: stringField(doc, "name")}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}
