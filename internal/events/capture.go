package events

import (
	"context"
	"sync"
)

// CapturePublisher records events in memory. Test helper.
type CapturePublisher struct {
	mu     sync.Mutex
	events []Event
}

func NewCapturePublisher() *CapturePublisher {
	return &CapturePublisher{}
}

func (c *CapturePublisher) Publish(_ context.Context, e Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func (c *CapturePublisher) Close() error { return nil }

// Events returns a copy of everything published so far.
func (c *CapturePublisher) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Event(nil), c.events...)
}

// OfType returns the captured events with the given type.
func (c *CapturePublisher) OfType(eventType string) []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Event
	for _, e := range c.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

var _ Publisher = (*CapturePublisher)(nil)
