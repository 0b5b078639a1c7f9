package live

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTL constants
const (
	LiveMatchTTL     = 2 * time.Hour
	FinishedMatchTTL = 6 * time.Hour
)

// UpdatesStream is the redis stream every update is appended to.
const UpdatesStream = "matches.updates"

// RedisPublisher caches the latest update of each match and appends every update to a
// redis stream for downstream consumers.
type RedisPublisher struct {
	client    *redis.Client
	liveTTL   time.Duration
	streamLen int64
}

// NewRedisPublisher creates a publisher. liveTTL 0 uses LiveMatchTTL.
func NewRedisPublisher(client *redis.Client, liveTTL time.Duration) *RedisPublisher {
	if liveTTL <= 0 {
		liveTTL = LiveMatchTTL
	}
	return &RedisPublisher{client: client, liveTTL: liveTTL, streamLen: 10000}
}

// SummaryKey is where the latest update of a match is cached.
func SummaryKey(matchID uint) string {
	return fmt.Sprintf("match:%d:summary", matchID)
}

func (p *RedisPublisher) Publish(ctx context.Context, u Update) error {
	if u.Timestamp.IsZero() {
		u.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("marshaling match update: %w", err)
	}

	ttl := p.liveTTL
	if u.Type == UpdateMatchCompleted {
		ttl = FinishedMatchTTL
	}

	pipe := p.client.TxPipeline()
	pipe.Set(ctx, SummaryKey(u.MatchID), data, ttl)
	pipe.XAdd(ctx, &redis.XAddArgs{
		Stream: UpdatesStream,
		MaxLen: p.streamLen,
		Approx: true,
		Values: map[string]interface{}{
			"data":       string(data),
			"match_id":   u.MatchID,
			"innings_id": u.InningsID,
			"type":       string(u.Type),
		},
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publishing match %d update: %w", u.MatchID, err)
	}
	return nil
}

// Latest returns the cached latest update of a match, or nil when none is cached.
func (p *RedisPublisher) Latest(ctx context.Context, matchID uint) (json.RawMessage, error) {
	data, err := p.client.Get(ctx, SummaryKey(matchID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading match %d summary: %w", matchID, err)
	}
	return json.RawMessage(data), nil
}
