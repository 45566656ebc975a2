// Package publish pushes per-cycle records to Redis for external consumers.
// Each record is published on a pub/sub channel and the newest record is kept
// in a key so late subscribers can catch up.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/banshee-data/motor.report/internal/monitoring"
	"github.com/banshee-data/motor.report/internal/motor"
)

const (
	channelName  = "motor:records"
	latestKey    = "motor:latest"
	latestExpiry = 5 * time.Minute
	publishWait  = 2 * time.Second
)

type RedisPublisher struct {
	client  *redis.Client
	pubLog  *monitoring.Occurrence
	baseCtx context.Context
}

// NewRedisPublisher connects to the given Redis address and verifies the
// connection before returning.
func NewRedisPublisher(ctx context.Context, addr string) (*RedisPublisher, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	pingCtx, cancel := context.WithTimeout(ctx, publishWait)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("publish: failed to connect to redis at %s: %w", addr, err)
	}
	return &RedisPublisher{
		client:  client,
		pubLog:  monitoring.NewOccurrence(100),
		baseCtx: ctx,
	}, nil
}

// Publish sends one record. Failures are logged and swallowed; the pipeline
// never blocks on Redis availability.
func (p *RedisPublisher) Publish(rec motor.Record) {
	msg, err := json.Marshal(rec)
	if err != nil {
		p.pubLog.Logf("publish: failed to marshal record: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(p.baseCtx, publishWait)
	defer cancel()

	pipe := p.client.Pipeline()
	pipe.Publish(ctx, channelName, msg)
	pipe.Set(ctx, latestKey, msg, latestExpiry)
	if _, err := pipe.Exec(ctx); err != nil {
		p.pubLog.Logf("publish: redis publish failed: %v", err)
	}
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
