// Package model holds the admin backend's domain entities. Entities are the
// payloads stored through the collection repositories; parse factories build
// validated instances from untyped documents.
package model

import (
	"strings"

	"github.com/lhpaul/finadmin/internal/shared/errors"
)

// Company is a customer organization. Every transaction and subscription
// hangs off a company.
type Company struct {
	Name string `json:"name"`
}

// Validate checks the entity's own invariants.
func (c Company) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.NewValidationError("company name is required")
	}
	return nil
}

// ParseCompany builds a validated Company from an untyped document.
func ParseCompany(doc map[string]interface{}) (*Company, error) {
	c := Company{Name: stringField(doc, "name")}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func stringField(doc map[string]interface{}, key string) string {
	s, _ := doc[key].(string)
	return s
}

func numberField(doc map[string]interface{}, key string) (float64, bool) {
	switch v := doc[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}
