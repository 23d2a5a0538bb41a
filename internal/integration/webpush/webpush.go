// internal/integration/webpush/webpush.go
package webpush

import (
	"context"
	"io"

	webpushgo "github.com/SherClockHolmes/webpush-go"

	"sitenotify/internal/common/errors"
	"sitenotify/internal/integration"
	"sitenotify/internal/models"
)

const Slug = "webpush"

type Config struct {
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	Subscriber      string // contact mailto/URL sent with the VAPID claim
	TTL             int    // seconds
}

// Transport pushes one encrypted message to one subscriber endpoint.
// The real implementation signs with VAPID and encrypts the payload;
// this service only supplies payload and keys.
type Transport interface {
	Push(ctx context.Context, sub models.PushSubscription, message []byte) error
}

type vapidTransport struct {
	config Config
}

// NewTransport returns the production transport backed by the Web Push
// protocol library.
func NewTransport(config Config) Transport {
	return &vapidTransport{config: config}
}

func (t *vapidTransport) Push(ctx context.Context, sub models.PushSubscription, message []byte) error {
	resp, err := webpushgo.SendNotificationWithContext(ctx, message, &webpushgo.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpushgo.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}, &webpushgo.Options{
		Subscriber:      t.config.Subscriber,
		VAPIDPublicKey:  t.config.VAPIDPublicKey,
		VAPIDPrivateKey: t.config.VAPIDPrivateKey,
		TTL:             t.config.TTL,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return nil
}

// Integration fans a push message out to every subscribed endpoint in
// fixed-size pages. The synchronous call only handles the first page;
// followup pages ride the background queue.
type Integration struct {
	config Config
	batch  *BatchSender
}

func New(config Config, batch *BatchSender) *Integration {
	return &Integration{config: config, batch: batch}
}

func (i *Integration) Slug() string { return Slug }
func (i *Integration) Name() string { return "Web Push" }

// LogsOwnDeliveries marks that the batch sender records one log entry
// per subscriber instead of the processor's per-connection entry.
func (i *Integration) LogsOwnDeliveries() bool { return true }

// Ready fails before attribute validation when the VAPID keypair is
// not configured.
func (i *Integration) Ready() error {
	if i.config.VAPIDPublicKey == "" || i.config.VAPIDPrivateKey == "" {
		return errors.NewIntegrationNotConfiguredError(Slug, "VAPID keypair is not configured")
	}
	return nil
}

func (i *Integration) Schema() *integration.Object {
	return integration.NewObject(
		integration.Field{Key: "title", Property: integration.Property{
			Type:     "string",
			Label:    "Title",
			Required: true,
			Sanitize: integration.StringSanitizer(integration.SanitizeText),
		}},
		integration.Field{Key: "body", Property: integration.Property{
			Type:     "string",
			Label:    "Body",
			Sanitize: integration.StringSanitizer(integration.SanitizeText),
		}},
		integration.Field{Key: "url", Property: integration.Property{
			Type:     "string",
			Label:    "Click-through URL",
			Sanitize: integration.StringSanitizer(integration.SanitizeURL),
		}},
		integration.Field{Key: "icon_url", Property: integration.Property{
			Type:     "string",
			Label:    "Icon URL",
			Sanitize: integration.StringSanitizer(integration.SanitizeURL),
		}},
	)
}

func (i *Integration) Send(ctx context.Context, d *integration.Delivery) error {
	return i.batch.ProcessPage(ctx, 1, d)
}
