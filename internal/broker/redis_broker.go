package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultPollTimeout is how long Dequeue blocks before returning empty.
const DefaultPollTimeout = 5 * time.Second

// DefaultQueueTTL bounds how long an unconsumed queue survives. Jobs carry
// credentials, so a queue nobody drains must not keep them indefinitely.
const DefaultQueueTTL = 24 * time.Hour

// RedisJobBroker implements JobBroker with Redis lists: LPUSH to enqueue,
// BRPOP to consume, so jobs are handled oldest first.
type RedisJobBroker struct {
	client      *redis.Client
	pollTimeout time.Duration
	queueTTL    time.Duration
}

// NewRedisClient parses a redis:// URL and checks the server is reachable.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func NewRedisJobBroker(client *redis.Client) *RedisJobBroker {
	return &RedisJobBroker{
		client:      client,
		pollTimeout: DefaultPollTimeout,
		queueTTL:    DefaultQueueTTL,
	}
}

// WithPollTimeout changes how long Dequeue waits per call.
func (b *RedisJobBroker) WithPollTimeout(d time.Duration) *RedisJobBroker {
	b.pollTimeout = d
	return b
}

// WithQueueTTL changes how long a queue lives after its last enqueue. Zero
// keeps queues forever.
func (b *RedisJobBroker) WithQueueTTL(d time.Duration) *RedisJobBroker {
	b.queueTTL = d
	return b
}

// Enqueue pushes the job and refreshes the queue expiry in one MULTI.
func (b *RedisJobBroker) Enqueue(ctx context.Context, queue, jobType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	encoded, err := json.Marshal(Job{Type: jobType, Payload: data})
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}

	_, err = b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, queue, encoded)
		if b.queueTTL > 0 {
			pipe.Expire(ctx, queue, b.queueTTL)
		}
		return nil
	})
	return err
}

func (b *RedisJobBroker) Dequeue(ctx context.Context, queues ...string) (*Delivery, error) {
	result, err := b.client.BRPop(ctx, b.pollTimeout, queues...).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	if len(result) < 2 {
		return nil, nil
	}

	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		return nil, fmt.Errorf("decode job from %s: %w", result[0], err)
	}

	return &Delivery{Queue: result[0], Job: job}, nil
}

func (b *RedisJobBroker) Close() error {
	return b.client.Close()
}

var _ JobBroker = (*RedisJobBroker)(nil)
