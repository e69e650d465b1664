package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// channelPrefix namespaces the pub/sub channels, one channel per event type:
// "finadmin:events:company.created" and so on.
const channelPrefix = "finadmin:events:"

// RedisPublisher delivers events over redis pub/sub.
type RedisPublisher struct {
	client *redis.Client
	log    *zap.Logger
}

// NewRedisPublisher wraps an already-connected redis client.
func NewRedisPublisher(client *redis.Client, log *zap.Logger) *RedisPublisher {
	return &RedisPublisher{client: client, log: log.Named("events")}
}

func (p *RedisPublisher) Publish(ctx context.Context, e Event) {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	payload, err := json.Marshal(e)
	if err != nil {
		p.log.Error("encoding event", zap.String("type", e.Type), zap.Error(err))
		return
	}
	if err := p.client.Publish(ctx, channelPrefix+e.Type, payload).Err(); err != nil {
		p.log.Warn("publishing event",
			zap.String("type", e.Type),
			zap.String("entity_id", e.EntityID),
			zap.Error(err))
		return
	}
	p.log.Debug("event published",
		zap.String("type", e.Type),
		zap.String("entity_id", e.EntityID))
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}

var _ Publisher = (*RedisPublisher)(nil)
