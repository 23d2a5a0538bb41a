// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sitenotify/internal/common/logger"
	"sitenotify/internal/content"
	"sitenotify/internal/dispatch"
	"sitenotify/internal/integration"
	"sitenotify/internal/integration/email"
	"sitenotify/internal/mergetag"
	"sitenotify/internal/models"
	"sitenotify/internal/queue"
	"sitenotify/internal/trigger"
)

// ==========================
// Mock Service Implementation
// ==========================

type MockSES struct {
	mock.Mock
}

func (m *MockSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ses.SendEmailOutput), args.Error(1)
}

type memoryLogs struct {
	mu      sync.Mutex
	entries []models.LogEntry
}

func (l *memoryLogs) Record(_ context.Context, entry models.LogEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
	return nil
}

type memoryRules struct {
	rules []models.Rule
}

func (r *memoryRules) ByTrigger(_ context.Context, slug string) ([]models.Rule, error) {
	var out []models.Rule
	for _, rule := range r.rules {
		if rule.TriggerSlug == slug {
			out = append(out, rule)
		}
	}
	return out, nil
}

type backgroundOn struct{}

func (backgroundOn) BackgroundProcessing(_ context.Context) bool { return true }

// ==========================
// Fixture
// ==========================

type pipeline struct {
	bus    *content.HookBus
	sesSvc *MockSES
	logs   *memoryLogs
}

func createPipeline(t *testing.T, q *queue.Queue) *pipeline {
	t.Helper()
	log := logger.NewTestLogger(t)

	repo := content.NewMemoryRepository()
	repo.Users[7] = &content.User{ID: 7, Login: "alice", Email: "alice@example.test", DisplayName: "Alice", Role: "author"}
	repo.Users[9] = &content.User{ID: 9, Login: "bob", Email: "bob@example.test", DisplayName: "Bob", Role: "editor"}
	repo.Posts[42] = &content.Post{
		ID: 42, Type: "post", Title: "Hello", Slug: "hello",
		Status: content.PostStatusPublish, Permalink: "https://example.test/hello",
		AuthorID: 7,
	}
	repo.Info = content.SiteInfo{Name: "Example", URL: "https://example.test", AdminEmail: "admin@example.test"}

	sesSvc := &MockSES{}
	loader := integration.NewLoader()
	loader.Register(email.New(email.Config{FromEmail: "notify@example.test", FromName: "Notify"}, sesSvc, repo, log))

	logs := &memoryLogs{}
	engine := mergetag.NewEngine(mergetag.Defaults())
	processor := dispatch.NewProcessor(loader, engine, logs, log)
	if q != nil {
		processor.SetBackground(q, backgroundOn{})
	}

	rules := &memoryRules{rules: []models.Rule{{
		ID:          1,
		Title:       "New post alert",
		TriggerSlug: "post-published",
		Connections: []models.Connection{{
			ID:          "c1",
			Enabled:     true,
			Name:        "Editors mail",
			Integration: email.Slug,
			Settings: map[string]interface{}{
				"subject": "New: {{post.title}}",
				"body":    "{{post.title}} is live at {{post.permalink}}",
				"emails": []interface{}{
					map[string]interface{}{"type": "custom", "value": "a@x.com"},
				},
			},
		}},
	}}}

	bus := content.NewHookBus()
	registry := trigger.NewRegistry(repo, bus, rules, processor, log)
	registry.MustRegister(trigger.PostPublished("post"))

	return &pipeline{bus: bus, sesSvc: sesSvc, logs: logs}
}

func publishEvent() *content.PostEvent {
	return &content.PostEvent{
		Post: &content.Post{
			ID: 42, Type: "post", Title: "Hello", Slug: "hello",
			Status: content.PostStatusPublish, Permalink: "https://example.test/hello",
			AuthorID: 7,
		},
		OldStatus:    "draft",
		NewStatus:    content.PostStatusPublish,
		ActingUserID: 9,
	}
}

// ==========================
// Scenarios
// ==========================

func TestPublishPost_DeliversEmail(t *testing.T) {
	p := createPipeline(t, nil)
	p.sesSvc.On("SendEmail", mock.Anything, mock.Anything).Return(&ses.SendEmailOutput{}, nil)

	p.bus.Emit(context.Background(), content.EventPostStatusTransition, publishEvent())

	p.sesSvc.AssertNumberOfCalls(t, "SendEmail", 1)
	input := p.sesSvc.Calls[0].Arguments.Get(1).(*ses.SendEmailInput)
	require.Len(t, input.Destination.ToAddresses, 1)
	assert.Equal(t, "a@x.com", input.Destination.ToAddresses[0])
	assert.Equal(t, "New: Hello", *input.Message.Subject.Data)
	assert.Contains(t, *input.Message.Body.Html.Data, "https://example.test/hello")

	require.Len(t, p.logs.entries, 1)
	assert.Equal(t, email.Slug, p.logs.entries[0].Integration)
	assert.Equal(t, models.LogStatusSuccess, p.logs.entries[0].Status)
}

func TestPublishPost_GuardSkipsNonTransition(t *testing.T) {
	p := createPipeline(t, nil)

	ev := publishEvent()
	ev.OldStatus = content.PostStatusPublish

	p.bus.Emit(context.Background(), content.EventPostStatusTransition, ev)

	p.sesSvc.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything)
	assert.Empty(t, p.logs.entries)
}

func TestPublishPost_BackgroundQueueRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	q := queue.New(client, "e2e:queue")

	p := createPipeline(t, q)
	p.sesSvc.On("SendEmail", mock.Anything, mock.Anything).Return(&ses.SendEmailOutput{}, nil)

	ctx := context.Background()
	p.bus.Emit(ctx, content.EventPostStatusTransition, publishEvent())

	// nothing delivered until the worker drains the queue
	p.sesSvc.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything)
	depth, err := q.Depth(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), depth)

	// rebuild the worker-side processor over the same integrations
	worker := queue.NewWorker(q, 10*time.Millisecond, logger.NewTestLogger(t))
	worker.Handle(queue.KindConnections, queue.ConnectionsHandler(workerProcessor(t, p)))
	worker.Drain(ctx)

	p.sesSvc.AssertNumberOfCalls(t, "SendEmail", 1)
	input := p.sesSvc.Calls[0].Arguments.Get(1).(*ses.SendEmailInput)
	assert.Equal(t, "New: Hello", *input.Message.Subject.Data)

	require.Len(t, p.logs.entries, 1)
	assert.Equal(t, models.LogStatusSuccess, p.logs.entries[0].Status)
}

func workerProcessor(t *testing.T, p *pipeline) *dispatch.Processor {
	t.Helper()
	repo := content.NewMemoryRepository()
	loader := integration.NewLoader()
	loader.Register(email.New(email.Config{FromEmail: "notify@example.test", FromName: "Notify"}, p.sesSvc, repo, logger.NewTestLogger(t)))
	return dispatch.NewProcessor(loader, mergetag.NewEngine(mergetag.Defaults()), p.logs, logger.NewTestLogger(t))
}
