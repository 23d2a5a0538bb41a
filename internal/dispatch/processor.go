// internal/dispatch/processor.go
package dispatch

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"sitenotify/internal/common/errors"
	"sitenotify/internal/common/logger"
	"sitenotify/internal/common/metrics"
	"sitenotify/internal/integration"
	"sitenotify/internal/mergetag"
	"sitenotify/internal/models"
	"sitenotify/internal/trigger"
)

// DeliveryLogger appends delivery log entries. Backed by the Postgres
// store in production.
type DeliveryLogger interface {
	Record(ctx context.Context, entry models.LogEntry) error
}

// Enqueuer hands a whole dispatch tuple to the background queue when
// background processing is enabled.
type Enqueuer interface {
	EnqueueConnections(ctx context.Context, rule models.Rule, fc *trigger.FireContext) error
}

// BackgroundToggle reads the background-processing setting. A nil
// toggle means synchronous dispatch.
type BackgroundToggle interface {
	BackgroundProcessing(ctx context.Context) bool
}

// Processor iterates a rule's connections sequentially and drives each
// one through validate, substitute, sanitize and send. Every failure is
// recovered per connection; one bad connection never aborts its
// siblings and nothing propagates back to the originating event.
type Processor struct {
	loader     *integration.Loader
	engine     *mergetag.Engine
	logs       DeliveryLogger
	logger     logger.Logger
	enqueuer   Enqueuer
	background BackgroundToggle
}

func NewProcessor(loader *integration.Loader, engine *mergetag.Engine, logs DeliveryLogger, log logger.Logger) *Processor {
	return &Processor{
		loader: loader,
		engine: engine,
		logs:   logs,
		logger: log.WithFields(map[string]interface{}{"component": "connection-processor"}),
	}
}

// SetBackground installs the queue path. Both must be non-nil for
// dispatches to be deferred.
func (p *Processor) SetBackground(enqueuer Enqueuer, toggle BackgroundToggle) {
	p.enqueuer = enqueuer
	p.background = toggle
}

// Dispatch implements the trigger-side dispatcher contract. When
// background processing is enabled the tuple is enqueued and processed
// out-of-band by the queue worker through ProcessRule.
func (p *Processor) Dispatch(ctx context.Context, rule models.Rule, fc *trigger.FireContext) {
	if p.enqueuer != nil && p.background != nil && p.background.BackgroundProcessing(ctx) {
		if err := p.enqueuer.EnqueueConnections(ctx, rule, fc); err != nil {
			p.logger.Error("background enqueue failed, falling back to inline dispatch", map[string]interface{}{
				"rule":  rule.ID,
				"error": err.Error(),
			})
		} else {
			return
		}
	}
	p.ProcessRule(ctx, rule, fc)
}

// ProcessRule runs the connection loop inline. The queue worker calls
// this directly so both paths share one implementation.
func (p *Processor) ProcessRule(ctx context.Context, rule models.Rule, fc *trigger.FireContext) {
	for _, conn := range rule.Connections {
		if !conn.Enabled {
			continue
		}
		p.processConnection(ctx, rule, conn, fc)
	}
}

func (p *Processor) processConnection(ctx context.Context, rule models.Rule, conn models.Connection, fc *trigger.FireContext) {
	slug := conn.Integration
	defer func() {
		if rec := recover(); rec != nil {
			p.record(ctx, slug, errors.NewDeliveryPanicError(slug, rec))
		}
	}()

	integ, ok := p.loader.Get(conn.Integration)
	if !ok {
		stdErr := errors.NewInvalidIntegrationError(conn.Integration)
		p.record(ctx, conn.Integration, stdErr)
		return
	}

	slug = integ.Slug()

	if checker, ok := integ.(integration.ConfigChecker); ok {
		if err := checker.Ready(); err != nil {
			p.record(ctx, integ.Slug(), err)
			return
		}
	}

	details := integ.Schema().Validate(conn.Settings)
	if len(details) > 0 {
		p.record(ctx, integ.Slug(), errors.NewInvalidAttributesError(integ.Slug(), details))
		return
	}

	d := &integration.Delivery{
		Trigger:        fc,
		RuleID:         rule.ID,
		RuleTitle:      rule.Title,
		ConnectionID:   conn.ID,
		ConnectionName: conn.Name,
		Settings:       integration.ProcessAttributes(integ.Schema(), conn.Settings, p.engine, fc),
	}

	start := time.Now()
	err := integ.Send(ctx, d)
	metrics.DeliveryDuration.WithLabelValues(integ.Slug()).Observe(time.Since(start).Seconds())

	if err != nil {
		p.record(ctx, integ.Slug(), err)
		return
	}
	if self, ok := integ.(integration.SelfLogger); ok && self.LogsOwnDeliveries() {
		return
	}

	metrics.DeliveriesTotal.WithLabelValues(integ.Slug(), models.LogStatusSuccess).Inc()
	content, _ := json.Marshal(map[string]interface{}{
		"rule":       rule.Title,
		"trigger":    fc.TriggerSlug,
		"connection": conn.ID,
	})
	if logErr := p.logs.Record(ctx, models.LogEntry{
		ID:          uuid.NewString(),
		Integration: integ.Slug(),
		Status:      models.LogStatusSuccess,
		Content:     string(content),
		Timestamp:   time.Now().UTC(),
	}); logErr != nil {
		p.logger.Error("delivery log append failed", map[string]interface{}{
			"integration": integ.Slug(),
			"error":       logErr.Error(),
		})
	}
}

// record writes one error entry to the delivery log and the debug log.
func (p *Processor) record(ctx context.Context, integrationSlug string, err error) {
	metrics.DeliveriesTotal.WithLabelValues(integrationSlug, models.LogStatusError).Inc()

	content := err.Error()
	if stdErr, ok := err.(*errors.StandardError); ok {
		if encoded, jsonErr := json.Marshal(stdErr); jsonErr == nil {
			content = string(encoded)
		}
	}
	p.logger.Warn("delivery failed", map[string]interface{}{
		"integration": integrationSlug,
		"error":       err.Error(),
	})
	if logErr := p.logs.Record(ctx, models.LogEntry{
		ID:          uuid.NewString(),
		Integration: integrationSlug,
		Status:      models.LogStatusError,
		Content:     content,
		Timestamp:   time.Now().UTC(),
	}); logErr != nil {
		p.logger.Error("delivery log append failed", map[string]interface{}{
			"integration": integrationSlug,
			"error":       logErr.Error(),
		})
	}
}
