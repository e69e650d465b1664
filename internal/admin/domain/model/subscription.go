package model

import (
	"time"

	"github.com/lhpaul/finadmin/internal/shared/errors"
)

// SubscriptionStatus is the lifecycle state of a company subscription.
type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
	SubscriptionStatusExpired  SubscriptionStatus = "expired"
)

// Subscription is a company's billing subscription window.
type Subscription struct {
	CompanyID string             `json:"companyId"`
	Status    SubscriptionStatus `json:"status"`
	StartsAt  time.Time          `json:"startsAt"`
	EndsAt    time.Time          `json:"endsAt"`
}

// Validate checks the entity's own invariants.
func (s Subscription) Validate() error {
	if s.CompanyID == "" {
		return errors.NewValidationError("subscription companyId is required")
	}
	switch s.Status {
	case SubscriptionStatusActive, SubscriptionStatusCanceled, SubscriptionStatusExpired:
	default:
		return errors.NewValidationError("subscription status is invalid")
	}
	if !s.EndsAt.IsZero() && s.EndsAt.Before(s.StartsAt) {
		return errors.NewValidationError("subscription endsAt precedes startsAt")
	}
	return nil
}

// IsActiveAt reports whether the subscription covers the given instant.
func (s Subscription) IsActiveAt(at time.Time) bool {
	if s.Status != SubscriptionStatusActive {
		return false
	}
	if at.Before(s.StartsAt) {
		return false
	}
	return s.EndsAt.IsZero() || !at.After(s.EndsAt)
}
