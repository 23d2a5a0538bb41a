// internal/queue/worker.go
package queue

import (
	"context"
	"encoding/json"
	"time"

	"sitenotify/internal/common/errors"
	"sitenotify/internal/common/logger"
	"sitenotify/internal/common/metrics"
	"sitenotify/internal/dispatch"
	"sitenotify/internal/integration"
	"sitenotify/internal/integration/webpush"
)

// Handler processes one popped envelope of a registered kind.
type Handler func(ctx context.Context, env *Envelope) error

// Worker drains the queue on a fixed poll interval. Items are handled
// one at a time in pop order; a handler error drops the item after
// logging, there is no redelivery.
type Worker struct {
	queue    *Queue
	interval time.Duration
	handlers map[string]Handler
	logger   logger.Logger
}

func NewWorker(q *Queue, interval time.Duration, log logger.Logger) *Worker {
	return &Worker{
		queue:    q,
		interval: interval,
		handlers: make(map[string]Handler),
		logger:   log.WithFields(map[string]interface{}{"component": "queue-worker"}),
	}
}

// Handle registers the handler for one envelope kind. Registration
// happens at bootstrap before Run.
func (w *Worker) Handle(kind string, h Handler) {
	w.handlers[kind] = h
}

// Run polls until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Drain(ctx)
		}
	}
}

// Drain pops and handles items until the queue reports empty. Exposed
// so the webpush pagination path can process followup pages promptly
// instead of waiting out a poll interval.
func (w *Worker) Drain(ctx context.Context) {
	for {
		env, err := w.queue.Pop(ctx)
		if err != nil {
			w.logger.Error("queue pop failed", map[string]interface{}{"error": err.Error()})
			return
		}
		if env == nil {
			return
		}
		w.dispatch(ctx, env)
	}
}

func (w *Worker) dispatch(ctx context.Context, env *Envelope) {
	h, ok := w.handlers[env.Kind]
	if !ok {
		w.logger.Error("no handler registered for queue item kind", map[string]interface{}{
			"kind": env.Kind,
			"id":   env.ID,
		})
		return
	}
	if err := h(ctx, env); err != nil {
		w.logger.Error("queue item failed", map[string]interface{}{
			"kind":  env.Kind,
			"id":    env.ID,
			"error": err.Error(),
		})
		return
	}
	metrics.QueueItemsProcessed.WithLabelValues(env.Kind).Inc()
}

// ConnectionsHandler runs a deferred dispatch tuple through the same
// connection loop the synchronous path uses.
func ConnectionsHandler(p *dispatch.Processor) Handler {
	return func(ctx context.Context, env *Envelope) error {
		var payload ConnectionsPayload
		if err := json.Unmarshal(env.Payload, &payload); err != nil {
			return errors.NewQueueDecodeFailedError(err)
		}
		p.ProcessRule(ctx, payload.Rule, payload.Fire)
		return nil
	}
}

// WebPushPageHandler sends one subscriber page and lets the batch
// sender enqueue the next.
func WebPushPageHandler(b *webpush.BatchSender) Handler {
	return func(ctx context.Context, env *Envelope) error {
		var payload WebPushPagePayload
		if err := json.Unmarshal(env.Payload, &payload); err != nil {
			return errors.NewQueueDecodeFailedError(err)
		}
		d := &integration.Delivery{
			Trigger:   payload.Trigger,
			RuleID:    payload.RuleID,
			RuleTitle: payload.RuleName,
			Settings:  payload.Settings,
		}
		return b.ProcessPage(ctx, payload.Page, d)
	}
}
