// internal/queue/queue.go
package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"sitenotify/internal/common/errors"
	"sitenotify/internal/common/metrics"
	"sitenotify/internal/integration"
	"sitenotify/internal/models"
	"sitenotify/internal/trigger"
)

// Envelope kinds carried on the queue.
const (
	KindConnections = "connections"
	KindWebPushPage = "webpush_page"
)

// Envelope is one durable queue item. Payload decodes per Kind.
type Envelope struct {
	ID         string          `json:"id"`
	Kind       string          `json:"kind"`
	Payload    json.RawMessage `json:"payload"`
	EnqueuedAt time.Time       `json:"enqueuedAt"`
}

// ConnectionsPayload is the whole dispatch tuple deferred by the
// background-processing setting.
type ConnectionsPayload struct {
	Rule models.Rule          `json:"rule"`
	Fire *trigger.FireContext `json:"fire"`
}

// WebPushPagePayload is one paginated fan-out step.
type WebPushPagePayload struct {
	Page     int                    `json:"page"`
	Trigger  *trigger.FireContext   `json:"trigger"`
	RuleID   int64                  `json:"ruleId"`
	RuleName string                 `json:"ruleName"`
	Settings map[string]interface{} `json:"settings"`
}

// Queue is a durable FIFO on a Redis list. Producers LPUSH, the worker
// RPOPs, so items come off in enqueue order. At-most-once per item: a
// popped item that crashes mid-processing is lost, not redelivered.
type Queue struct {
	client *redis.Client
	key    string
}

func New(client *redis.Client, key string) *Queue {
	return &Queue{client: client, key: key}
}

func (q *Queue) push(ctx context.Context, kind string, payload interface{}) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return errors.NewQueueEnqueueFailedError(kind, err)
	}
	env := Envelope{
		ID:         uuid.NewString(),
		Kind:       kind,
		Payload:    encoded,
		EnqueuedAt: time.Now().UTC(),
	}
	raw, err := json.Marshal(env)
	if err != nil {
		return errors.NewQueueEnqueueFailedError(kind, err)
	}
	if err := q.client.LPush(ctx, q.key, raw).Err(); err != nil {
		return errors.NewQueueEnqueueFailedError(kind, err)
	}
	if depth, err := q.client.LLen(ctx, q.key).Result(); err == nil {
		metrics.QueueDepth.Set(float64(depth))
	}
	return nil
}

// EnqueueConnections implements the processor's background path.
func (q *Queue) EnqueueConnections(ctx context.Context, rule models.Rule, fc *trigger.FireContext) error {
	return q.push(ctx, KindConnections, ConnectionsPayload{Rule: rule, Fire: fc})
}

// EnqueuePage implements the webpush batch sender's pagination path.
func (q *Queue) EnqueuePage(ctx context.Context, page int, d *integration.Delivery) error {
	return q.push(ctx, KindWebPushPage, WebPushPagePayload{
		Page:     page,
		Trigger:  d.Trigger,
		RuleID:   d.RuleID,
		RuleName: d.RuleTitle,
		Settings: d.Settings,
	})
}

// Pop removes and returns the oldest item. Returns nil with no error
// when the queue is empty.
func (q *Queue) Pop(ctx context.Context) (*Envelope, error) {
	raw, err := q.client.RPop(ctx, q.key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewStorageError("queue pop", err)
	}
	var env Envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return nil, errors.NewQueueDecodeFailedError(err)
	}
	if depth, err := q.client.LLen(ctx, q.key).Result(); err == nil {
		metrics.QueueDepth.Set(float64(depth))
	}
	return &env, nil
}

// Depth returns the number of pending items.
func (q *Queue) Depth(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.key).Result()
}
