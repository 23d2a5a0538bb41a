// internal/integration/discord/discord.go
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"sitenotify/internal/common/errors"
	"sitenotify/internal/common/logger"
	"sitenotify/internal/integration"
)

const Slug = "discord"

// HTTPDoer is the transport slice the integration needs.
type HTTPDoer interface {
	DoWithContext(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Integration posts an embed to a Discord webhook URL. Discord answers
// a successful webhook execution with 204 and nothing else, so any
// other status is an error here, including 200.
type Integration struct {
	client HTTPDoer
	logger logger.Logger
}

func New(client HTTPDoer, log logger.Logger) *Integration {
	return &Integration{
		client: client,
		logger: log.WithFields(map[string]interface{}{"integration": Slug}),
	}
}

func (i *Integration) Slug() string { return Slug }
func (i *Integration) Name() string { return "Discord" }

func (i *Integration) Schema() *integration.Object {
	return integration.NewObject(
		integration.Field{Key: "webhook_url", Property: integration.Property{
			Type:     "string",
			Label:    "Webhook URL",
			Required: true,
			Sanitize: integration.StringSanitizer(integration.SanitizeURL),
		}},
		integration.Field{Key: "username", Property: integration.Property{
			Type:     "string",
			Label:    "Bot username",
			Sanitize: integration.StringSanitizer(integration.SanitizeText),
		}},
		integration.Field{Key: "content", Property: integration.Property{
			Type:     "string",
			Label:    "Message",
			Sanitize: integration.StringSanitizer(integration.SanitizeText),
		}},
		integration.Field{Key: "embed_title", Property: integration.Property{
			Type:     "string",
			Label:    "Embed title",
			Sanitize: integration.StringSanitizer(integration.SanitizeText),
		}},
		integration.Field{Key: "embed_description", Property: integration.Property{
			Type:  "string",
			Label: "Embed description",
		}},
		integration.Field{Key: "embed_url", Property: integration.Property{
			Type:     "string",
			Label:    "Embed URL",
			Sanitize: integration.StringSanitizer(integration.SanitizeURL),
		}},
	)
}

type embed struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
}

type payload struct {
	Username string  `json:"username,omitempty"`
	Content  string  `json:"content,omitempty"`
	Embeds   []embed `json:"embeds,omitempty"`
}

func (i *Integration) Send(ctx context.Context, d *integration.Delivery) error {
	target, _ := d.Settings["webhook_url"].(string)
	if target == "" {
		return errors.NewInvalidAttributesError(Slug, []string{"webhook_url: sanitization produced an empty URL"})
	}

	body := payload{}
	body.Username, _ = d.Settings["username"].(string)
	body.Content, _ = d.Settings["content"].(string)
	e := embed{}
	e.Title, _ = d.Settings["embed_title"].(string)
	e.Description, _ = d.Settings["embed_description"].(string)
	e.URL, _ = d.Settings["embed_url"].(string)
	if e != (embed{}) {
		body.Embeds = append(body.Embeds, e)
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		return errors.NewTransportError(Slug, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(encoded))
	if err != nil {
		return errors.NewTransportError(Slug, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := i.client.DoWithContext(ctx, req)
	if err != nil {
		return errors.NewTransportError(Slug, err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusNoContent {
		return errors.NewUnexpectedStatusCodeError(Slug, resp.StatusCode, string(raw))
	}

	i.logger.Debug("discord message delivered", map[string]interface{}{
		"connection": d.ConnectionID,
	})
	return nil
}
