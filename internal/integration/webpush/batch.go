// internal/integration/webpush/batch.go
package webpush

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"sitenotify/internal/common/errors"
	"sitenotify/internal/common/logger"
	"sitenotify/internal/common/metrics"
	"sitenotify/internal/integration"
	"sitenotify/internal/models"
)

// PageSize is the fixed subscriber page handled per queue item.
const PageSize = 20

// SubscriptionSource pages through subscribed endpoints.
type SubscriptionSource interface {
	ListPage(ctx context.Context, page, size int) ([]models.PushSubscription, error)
	Count(ctx context.Context) (int, error)
}

// DeliveryRecorder appends one delivery log entry per subscriber send.
type DeliveryRecorder interface {
	Record(ctx context.Context, entry models.LogEntry) error
}

// PageEnqueuer schedules the next page as a background queue item.
type PageEnqueuer interface {
	EnqueuePage(ctx context.Context, page int, d *integration.Delivery) error
}

// message is the encrypted payload shape the service worker decodes.
type message struct {
	Title   string `json:"title"`
	Body    string `json:"body,omitempty"`
	URL     string `json:"url,omitempty"`
	IconURL string `json:"icon,omitempty"`
}

// BatchSender sends one fixed-size subscriber page per call. A crash
// mid-page loses only that page; each page is an independently logged
// unit of work with no page-completion marker.
type BatchSender struct {
	transport Transport
	source    SubscriptionSource
	recorder  DeliveryRecorder
	enqueuer  PageEnqueuer
	logger    logger.Logger
}

// NewBatchSender wires a sender over a subscription source. A nil
// enqueuer means no background worker is running; ProcessPage then
// walks the remaining pages inline instead of enqueueing them.
func NewBatchSender(transport Transport, source SubscriptionSource, recorder DeliveryRecorder, enqueuer PageEnqueuer, log logger.Logger) *BatchSender {
	return &BatchSender{
		transport: transport,
		source:    source,
		recorder:  recorder,
		enqueuer:  enqueuer,
		logger:    log.WithFields(map[string]interface{}{"integration": Slug}),
	}
}

// ProcessPage sends page (1-based) and schedules page+1 while the total
// subscriber count says more pages exist. The count check runs after
// the page is sent, so a page landing exactly on the boundary is the
// last one sent and nothing further is scheduled. With a queue wired
// the next page becomes a queue item; without one it is sent inline
// before returning.
func (b *BatchSender) ProcessPage(ctx context.Context, page int, d *integration.Delivery) error {
	payload := message{}
	payload.Title, _ = d.Settings["title"].(string)
	payload.Body, _ = d.Settings["body"].(string)
	payload.URL, _ = d.Settings["url"].(string)
	payload.IconURL, _ = d.Settings["icon_url"].(string)
	encoded, err := json.Marshal(payload)
	if err != nil {
		return errors.NewTransportError(Slug, err)
	}

	for {
		if err := b.sendPage(ctx, page, encoded); err != nil {
			return err
		}

		total, err := b.source.Count(ctx)
		if err != nil {
			return errors.NewStorageError("count push subscriptions", err)
		}
		if total <= page*PageSize {
			return nil
		}
		if b.enqueuer != nil {
			if err := b.enqueuer.EnqueuePage(ctx, page+1, d); err != nil {
				return err
			}
			b.logger.Debug("next push page enqueued", map[string]interface{}{
				"page":  page + 1,
				"total": total,
			})
			return nil
		}
		page++
	}
}

// sendPage pushes the encoded payload to every subscriber on one page
// and logs each attempt.
func (b *BatchSender) sendPage(ctx context.Context, page int, encoded []byte) error {
	subs, err := b.source.ListPage(ctx, page, PageSize)
	if err != nil {
		return errors.NewStorageError("list push subscriptions", err)
	}

	for _, sub := range subs {
		status := models.LogStatusSuccess
		content := sub.Endpoint
		if pushErr := b.transport.Push(ctx, sub, encoded); pushErr != nil {
			status = models.LogStatusError
			content = sub.Endpoint + ": " + pushErr.Error()
			b.logger.Warn("push send failed", map[string]interface{}{
				"endpoint": sub.Endpoint,
				"page":     page,
				"error":    pushErr.Error(),
			})
		}
		metrics.DeliveriesTotal.WithLabelValues(Slug, status).Inc()
		entry := models.LogEntry{
			ID:          uuid.NewString(),
			Integration: Slug,
			Status:      status,
			Content:     content,
			Timestamp:   time.Now().UTC(),
		}
		if recordErr := b.recorder.Record(ctx, entry); recordErr != nil {
			b.logger.Error("delivery log append failed", map[string]interface{}{
				"endpoint": sub.Endpoint,
				"error":    recordErr.Error(),
			})
		}
	}

	return nil
}
