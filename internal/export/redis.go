package export

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Alias1177/matchforecast/internal/model"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the list that receives ledger rows
const DefaultRedisKey = "analyzer_log"

// RedisSink appends each ledger row as a JSON array to a Redis list
type RedisSink struct {
	client *redis.Client
	key    string
}

// NewRedisSink connects to addr. The connection is verified on first use.
func NewRedisSink(addr, password, key string) *RedisSink {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisSink{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       0,
		}),
		key: key,
	}
}

// Name implements Sink
func (s *RedisSink) Name() string {
	return "redis"
}

// Send implements Sink
func (s *RedisSink) Send(ctx context.Context, entry model.LogEntry) error {
	row, err := json.Marshal(entry.Row())
	if err != nil {
		return fmt.Errorf("encoding row: %w", err)
	}
	if err := s.client.RPush(ctx, s.key, row).Err(); err != nil {
		return fmt.Errorf("appending to %s: %w", s.key, err)
	}
	return nil
}

// Close closes the Redis connection
func (s *RedisSink) Close() error {
	return s.client.Close()
}
