// Package events publishes entity-change notifications to interested
// consumers (projections, cache invalidation, audit trails). Publishing is
// fire-and-forget: a broker outage never fails the write that triggered it.
package events

import (
	"context"
	"time"
)

// Event types emitted by the admin services.
const (
	TypeCompanyCreated     = "company.created"
	TypeCompanyUpdated     = "company.updated"
	TypeCompanyDeleted     = "company.deleted"
	TypeTransactionCreated = "transaction.created"
	TypeTransactionUpdated = "transaction.updated"
	TypeTransactionDeleted = "transaction.deleted"
	TypeSyncCompleted      = "sync.completed"
)

// Event is one entity-change notification.
type Event struct {
	Type       string                 `json:"type"`
	EntityID   string                 `json:"entityId,omitempty"`
	CompanyID  string                 `json:"companyId,omitempty"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
	OccurredAt time.Time              `json:"occurredAt"`
}

// Publisher delivers events to the broker. Implementations must not block
// the caller beyond a single broker round trip and must swallow delivery
// failures after logging them.
type Publisher interface {
	Publish(ctx context.Context, e Event)
	Close() error
}

// NoopPublisher discards every event. Used by tests and by deployments
// without a broker configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) {}
func (NoopPublisher) Close() error                   { return nil }

var _ Publisher = NoopPublisher{}
