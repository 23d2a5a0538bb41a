// internal/integration/webhook/webhook.go
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"sitenotify/internal/common/errors"
	"sitenotify/internal/common/logger"
	"sitenotify/internal/integration"
)

const Slug = "webhook"

// Body encodings for write methods.
const (
	FormatJSON = "json"
	FormatForm = "form-data"
)

// HTTPDoer is the transport slice the integration needs.
type HTTPDoer interface {
	DoWithContext(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Integration posts arbitrary key-value payloads to a configured URL.
// Completion without a transport error counts as success regardless of
// the upstream HTTP status; only the transport layer is judged here.
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
func (i *Integration) Name() string { return "Webhook" }

func (i *Integration) Schema() *integration.Object {
	pairItem := &integration.Property{
		Type: "object",
		Properties: map[string]integration.Property{
			"key":   {Type: "string", Required: true, Sanitize: integration.StringSanitizer(integration.SanitizeText)},
			"value": {Type: "string"},
		},
	}
	return integration.NewObject(
		integration.Field{Key: "url", Property: integration.Property{
			Type:     "string",
			Label:    "URL",
			Required: true,
			Sanitize: integration.StringSanitizer(integration.SanitizeURL),
		}},
		integration.Field{Key: "method", Property: integration.Property{
			Type:     "string",
			Label:    "Method",
			Required: true,
			Enum:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
			Default:  http.MethodPost,
		}},
		integration.Field{Key: "body_format", Property: integration.Property{
			Type:    "string",
			Label:   "Body format",
			Enum:    []string{FormatJSON, FormatForm},
			Default: FormatJSON,
		}},
		integration.Field{Key: "show_empty_fields", Property: integration.Property{
			Type:    "boolean",
			Label:   "Send empty fields",
			Default: false,
		}},
		integration.Field{Key: "args", Property: integration.Property{
			Type:  "array",
			Label: "Body arguments",
			Items: pairItem,
		}},
		integration.Field{Key: "headers", Property: integration.Property{
			Type:  "array",
			Label: "Headers",
			Items: pairItem,
		}},
	)
}

func (i *Integration) Send(ctx context.Context, d *integration.Delivery) error {
	target, _ := d.Settings["url"].(string)
	if target == "" {
		return errors.NewInvalidAttributesError(Slug, []string{"url: sanitization produced an empty URL"})
	}
	method, _ := d.Settings["method"].(string)
	if method == "" {
		method = http.MethodPost
	}

	body := pairsToMap(d.Settings["args"])
	if show, _ := d.Settings["show_empty_fields"].(bool); !show {
		for k, v := range body {
			if v == "" {
				delete(body, k)
			}
		}
	}

	req, err := i.buildRequest(ctx, method, target, d.Settings, body)
	if err != nil {
		return errors.NewTransportError(Slug, err)
	}
	for k, v := range pairsToMap(d.Settings["headers"]) {
		if k != "" {
			req.Header.Set(k, v)
		}
	}

	resp, err := i.client.DoWithContext(ctx, req)
	if err != nil {
		return errors.NewTransportError(Slug, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	i.logger.Debug("webhook delivered", map[string]interface{}{
		"url":        target,
		"method":     method,
		"statusCode": resp.StatusCode,
		"connection": d.ConnectionID,
	})
	return nil
}

// buildRequest places the body as a query string for GET/DELETE and as
// an encoded body for write methods.
func (i *Integration) buildRequest(ctx context.Context, method, target string, settings map[string]interface{}, body map[string]string) (*http.Request, error) {
	switch method {
	case http.MethodGet, http.MethodDelete:
		u, err := url.Parse(target)
		if err != nil {
			return nil, err
		}
		q := u.Query()
		for k, v := range body {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
		return http.NewRequestWithContext(ctx, method, u.String(), nil)
	default:
		format, _ := settings["body_format"].(string)
		if format == FormatForm {
			values := url.Values{}
			for k, v := range body {
				values.Set(k, v)
			}
			req, err := http.NewRequestWithContext(ctx, method, target, strings.NewReader(values.Encode()))
			if err != nil {
				return nil, err
			}
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			return req, nil
		}
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(encoded))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}
}

// pairsToMap flattens a [{key, value}] settings list. Later entries win
// on duplicate keys.
func pairsToMap(raw interface{}) map[string]string {
	entries, _ := raw.([]interface{})
	out := make(map[string]string, len(entries))
	for _, e := range entries {
		entry, ok := e.(map[string]interface{})
		if !ok {
			continue
		}
		key, _ := entry["key"].(string)
		if key == "" {
			continue
		}
		switch v := entry["value"].(type) {
		case string:
			out[key] = v
		case nil:
			out[key] = ""
		default:
			out[key] = fmt.Sprintf("%v", v)
		}
	}
	return out
}
