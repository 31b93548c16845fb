// internal/cache/redis_test.go
package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jason-s-yu/thirtyseconds/internal/models"
)

// These tests need a running Redis; set REDIS_TEST_ADDR to run them.
func testClient(t *testing.T) *Publisher {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	rdb, err := Connect(context.Background(), addr, 0)
	require.NoError(t, err)
	t.Cleanup(func() { rdb.Close() })
	logger, _ := test.NewNullLogger()
	return NewPublisher(rdb, "thirtyseconds_test_"+uuid.NewString(), logger)
}

func TestPushPopRoundTrip(t *testing.T) {
	pub := testClient(t)
	q := NewQueue(pub.rdb, pub.queue)
	ctx := context.Background()
	t.Cleanup(func() { pub.rdb.Del(ctx, pub.queue) })

	rec := models.ActionRecord{
		GameID:      uuid.New(),
		SessionID:   "AB12",
		ActionIndex: 3,
		Action:      "word_hit",
		Payload:     map[string]interface{}{"word": "Paris"},
		Timestamp:   time.Now().UnixMilli(),
	}
	require.NoError(t, pub.Push(ctx, rec))

	got, err := q.Pop(ctx, time.Second)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, rec.GameID, got.GameID)
	assert.Equal(t, "word_hit", got.Action)
	assert.Equal(t, "Paris", got.Payload["word"])

	got, err = q.Pop(ctx, time.Second)
	assert.NoError(t, err)
	assert.Nil(t, got, "empty queue times out quietly")
}

func TestPublishActionIsAsync(t *testing.T) {
	pub := testClient(t)
	q := NewQueue(pub.rdb, pub.queue)
	ctx := context.Background()
	t.Cleanup(func() { pub.rdb.Del(ctx, pub.queue) })

	pub.PublishAction(models.ActionRecord{GameID: uuid.New(), SessionID: "CD34", ActionIndex: 1, Action: "game_created"})
	got, err := q.Pop(ctx, 2*time.Second)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "CD34", got.SessionID)
}

func TestConnectFailsFast(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_, err := Connect(ctx, "127.0.0.1:1", 0)
	assert.Error(t, err)
}
