// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/jason-s-yu/thirtyseconds/internal/models"
)

// DefaultQueueName is the Redis list (queue) name for session action logs.
const DefaultQueueName = "thirtyseconds_actions"

const publishTimeout = 2 * time.Second

// Connect opens a Redis client and checks it with a ping.
func Connect(ctx context.Context, addr string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return rdb, nil
}

// Publisher pushes action records onto a Redis list for the historian.
type Publisher struct {
	rdb    *redis.Client
	queue  string
	logger logrus.FieldLogger
}

// NewPublisher returns a publisher writing to queue, or DefaultQueueName if empty.
func NewPublisher(rdb *redis.Client, queue string, logger logrus.FieldLogger) *Publisher {
	if queue == "" {
		queue = DefaultQueueName
	}
	return &Publisher{rdb: rdb, queue: queue, logger: logger}
}

// Push serializes rec to JSON and appends it to the queue.
func (p *Publisher) Push(ctx context.Context, rec models.ActionRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal ActionRecord: %w", err)
	}
	if err := p.rdb.RPush(ctx, p.queue, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list '%s': %w", p.queue, err)
	}
	return nil
}

// PublishAction pushes rec in the background. Failures are logged and dropped.
func (p *Publisher) PublishAction(rec models.ActionRecord) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := p.Push(ctx, rec); err != nil {
			p.logger.Warnf("dropping action %d of session %s: %v", rec.ActionIndex, rec.SessionID, err)
		}
	}()
}

// Queue consumes action records pushed by a Publisher.
type Queue struct {
	rdb   *redis.Client
	queue string
}

// NewQueue returns a consumer of queue, or DefaultQueueName if empty.
func NewQueue(rdb *redis.Client, queue string) *Queue {
	if queue == "" {
		queue = DefaultQueueName
	}
	return &Queue{rdb: rdb, queue: queue}
}

// Pop waits up to wait for the next record. It returns nil, nil on timeout.
func (q *Queue) Pop(ctx context.Context, wait time.Duration) (*models.ActionRecord, error) {
	res, err := q.rdb.BLPop(ctx, wait, q.queue).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	// res[0] is the queue name and res[1] the payload.
	if len(res) < 2 {
		return nil, nil
	}
	var rec models.ActionRecord
	if err := json.Unmarshal([]byte(res[1]), &rec); err != nil {
		return nil, fmt.Errorf("invalid action record: %w", err)
	}
	return &rec, nil
}
