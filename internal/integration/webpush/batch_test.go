// internal/integration/webpush/batch_test.go
package webpush

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitenotify/internal/common/logger"
	"sitenotify/internal/integration"
	"sitenotify/internal/models"
	"sitenotify/internal/trigger"
)

// ==========================
// Mock Service Implementation
// ==========================

type fakeTransport struct {
	pushed  []string
	failFor map[string]error
}

func (f *fakeTransport) Push(_ context.Context, sub models.PushSubscription, _ []byte) error {
	f.pushed = append(f.pushed, sub.Endpoint)
	if err, ok := f.failFor[sub.Endpoint]; ok {
		return err
	}
	return nil
}

type fakeSource struct {
	subs []models.PushSubscription
}

func (f *fakeSource) ListPage(_ context.Context, page, size int) ([]models.PushSubscription, error) {
	start := (page - 1) * size
	if start >= len(f.subs) {
		return nil, nil
	}
	end := start + size
	if end > len(f.subs) {
		end = len(f.subs)
	}
	return f.subs[start:end], nil
}

func (f *fakeSource) Count(_ context.Context) (int, error) {
	return len(f.subs), nil
}

type fakeRecorder struct {
	entries []models.LogEntry
}

func (f *fakeRecorder) Record(_ context.Context, entry models.LogEntry) error {
	f.entries = append(f.entries, entry)
	return nil
}

type fakeEnqueuer struct {
	pages []int
}

func (f *fakeEnqueuer) EnqueuePage(_ context.Context, page int, _ *integration.Delivery) error {
	f.pages = append(f.pages, page)
	return nil
}

// ==========================
// Test Helper Functions
// ==========================

func createSubscribers(n int) []models.PushSubscription {
	subs := make([]models.PushSubscription, n)
	for i := range subs {
		subs[i] = models.PushSubscription{
			ID:       int64(n - i),
			Endpoint: fmt.Sprintf("https://push.example.test/ep-%d", i),
			Status:   models.SubscriptionStatusSubscribed,
		}
	}
	return subs
}

func createDelivery() *integration.Delivery {
	return &integration.Delivery{
		Trigger: &trigger.FireContext{TriggerSlug: "post-published"},
		Settings: map[string]interface{}{
			"title": "Hello",
			"body":  "A post went live",
		},
	}
}

func createBatch(transport Transport, source SubscriptionSource, recorder DeliveryRecorder, enqueuer PageEnqueuer) *BatchSender {
	return NewBatchSender(transport, source, recorder, enqueuer, logger.NewNoOpLogger())
}

// ==========================
// Pagination Tests
// ==========================

// 45 subscribers at page size 20: pages 1 and 2 each enqueue a
// successor, page 3 sends the final 5 and enqueues nothing.
func TestBatchSender_ProcessPage_PaginationTerminates(t *testing.T) {
	transport := &fakeTransport{}
	source := &fakeSource{subs: createSubscribers(45)}
	recorder := &fakeRecorder{}
	enqueuer := &fakeEnqueuer{}
	batch := createBatch(transport, source, recorder, enqueuer)
	d := createDelivery()

	require.NoError(t, batch.ProcessPage(context.Background(), 1, d))
	assert.Equal(t, []int{2}, enqueuer.pages)
	assert.Len(t, transport.pushed, 20)

	require.NoError(t, batch.ProcessPage(context.Background(), 2, d))
	assert.Equal(t, []int{2, 3}, enqueuer.pages)
	assert.Len(t, transport.pushed, 40)

	require.NoError(t, batch.ProcessPage(context.Background(), 3, d))
	assert.Equal(t, []int{2, 3}, enqueuer.pages, "final partial page enqueues nothing")
	assert.Len(t, transport.pushed, 45)
	assert.Len(t, recorder.entries, 45)
}

// A count landing exactly on the page boundary still sends the last
// full page without enqueuing a trailing empty one.
// Without an enqueuer (no queue worker running) all pages are walked
// inline in a single call, so every subscriber is still reached.
func TestBatchSender_ProcessPage_NoEnqueuerWalksAllPagesInline(t *testing.T) {
	transport := &fakeTransport{}
	source := &fakeSource{subs: createSubscribers(45)}
	recorder := &fakeRecorder{}
	batch := createBatch(transport, source, recorder, nil)

	require.NoError(t, batch.ProcessPage(context.Background(), 1, createDelivery()))
	assert.Len(t, transport.pushed, 45, "pages 2 and 3 sent inline")
	assert.Len(t, recorder.entries, 45)
}

func TestBatchSender_ProcessPage_ExactBoundary(t *testing.T) {
	transport := &fakeTransport{}
	source := &fakeSource{subs: createSubscribers(40)}
	enqueuer := &fakeEnqueuer{}
	batch := createBatch(transport, source, &fakeRecorder{}, enqueuer)
	d := createDelivery()

	require.NoError(t, batch.ProcessPage(context.Background(), 1, d))
	assert.Equal(t, []int{2}, enqueuer.pages)

	require.NoError(t, batch.ProcessPage(context.Background(), 2, d))
	assert.Equal(t, []int{2}, enqueuer.pages)
	assert.Len(t, transport.pushed, 40)
}

func TestBatchSender_ProcessPage_SinglePage(t *testing.T) {
	transport := &fakeTransport{}
	enqueuer := &fakeEnqueuer{}
	batch := createBatch(transport, &fakeSource{subs: createSubscribers(5)}, &fakeRecorder{}, enqueuer)

	require.NoError(t, batch.ProcessPage(context.Background(), 1, createDelivery()))
	assert.Empty(t, enqueuer.pages)
	assert.Len(t, transport.pushed, 5)
}

// ==========================
// Per-Subscriber Logging Tests
// ==========================

func TestBatchSender_ProcessPage_PartialFailure(t *testing.T) {
	subs := createSubscribers(3)
	transport := &fakeTransport{failFor: map[string]error{
		subs[1].Endpoint: assert.AnError,
	}}
	recorder := &fakeRecorder{}
	batch := createBatch(transport, &fakeSource{subs: subs}, recorder, &fakeEnqueuer{})

	require.NoError(t, batch.ProcessPage(context.Background(), 1, createDelivery()))

	require.Len(t, recorder.entries, 3, "one entry per subscriber")
	assert.Len(t, transport.pushed, 3, "one failure does not block siblings")

	statuses := map[string]string{}
	for _, e := range recorder.entries {
		assert.Equal(t, Slug, e.Integration)
		assert.NotEmpty(t, e.ID)
		for _, sub := range subs {
			if strings.HasPrefix(e.Content, sub.Endpoint) {
				statuses[sub.Endpoint] = e.Status
			}
		}
	}
	assert.Equal(t, models.LogStatusError, statuses[subs[1].Endpoint])
	assert.Equal(t, models.LogStatusSuccess, statuses[subs[0].Endpoint])
}

// ==========================
// Configuration Tests
// ==========================

func TestIntegration_Ready(t *testing.T) {
	batch := createBatch(&fakeTransport{}, &fakeSource{}, &fakeRecorder{}, &fakeEnqueuer{})

	configured := New(Config{VAPIDPublicKey: "pub", VAPIDPrivateKey: "priv"}, batch)
	assert.NoError(t, configured.Ready())
	assert.True(t, configured.LogsOwnDeliveries())

	missing := New(Config{VAPIDPublicKey: "pub"}, batch)
	assert.Error(t, missing.Ready())
}
