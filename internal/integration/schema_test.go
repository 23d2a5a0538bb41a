// internal/integration/schema_test.go
package integration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitenotify/internal/content"
	"sitenotify/internal/mergetag"
	"sitenotify/internal/trigger"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestSchema() *Object {
	return NewObject(
		Field{Key: "url", Property: Property{
			Type:     "string",
			Required: true,
			Sanitize: StringSanitizer(SanitizeURL),
		}},
		Field{Key: "method", Property: Property{
			Type:     "string",
			Required: true,
			Enum:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
			Default:  "POST",
		}},
		Field{Key: "subject", Property: Property{
			Type:     "string",
			Sanitize: StringSanitizer(SanitizeText),
		}},
		Field{Key: "headers", Property: Property{
			Type: "array",
			Items: &Property{
				Type: "object",
				Properties: map[string]Property{
					"key":   {Type: "string", Required: true, Sanitize: StringSanitizer(SanitizeKey)},
					"value": {Type: "string"},
				},
			},
		}},
	)
}

func createFireContext() *trigger.FireContext {
	return &trigger.FireContext{
		TriggerSlug: "post-published",
		GroupSlugs:  []string{"post"},
		Post: &content.Post{
			ID:        1,
			Title:     "Launch <b>day</b>",
			Permalink: "https://example.test/launch day",
		},
		Site: content.SiteInfo{Name: "Example Site"},
	}
}

// ==========================
// Validation Tests
// ==========================

func TestObject_Validate(t *testing.T) {
	schema := createTestSchema()

	tests := []struct {
		name       string
		attrs      map[string]interface{}
		wantErrors int
	}{
		{
			name:       "valid settings",
			attrs:      map[string]interface{}{"url": "https://example.test/hook", "method": "POST"},
			wantErrors: 0,
		},
		{
			name:       "required field absent",
			attrs:      map[string]interface{}{"method": "POST"},
			wantErrors: 1,
		},
		{
			name:       "required field empty string",
			attrs:      map[string]interface{}{"url": "", "method": "POST"},
			wantErrors: 1,
		},
		{
			name:       "absent optional field skipped",
			attrs:      map[string]interface{}{"url": "https://example.test", "method": "GET"},
			wantErrors: 0,
		},
		{
			name:       "enum mismatch",
			attrs:      map[string]interface{}{"url": "https://example.test", "method": "TRACE"},
			wantErrors: 1,
		},
		{
			name:       "type mismatch",
			attrs:      map[string]interface{}{"url": float64(7), "method": "POST"},
			wantErrors: 1,
		},
		{
			name: "nested object missing required key",
			attrs: map[string]interface{}{
				"url":    "https://example.test",
				"method": "POST",
				"headers": []interface{}{
					map[string]interface{}{"value": "x"},
				},
			},
			wantErrors: 1,
		},
		{
			name: "multiple violations reported together",
			attrs: map[string]interface{}{
				"method": "TRACE",
			},
			wantErrors: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			details := schema.Validate(tt.attrs)
			assert.Len(t, details, tt.wantErrors, "details: %v", details)
		})
	}
}

// ==========================
// Attribute Processing Tests
// ==========================

func TestProcessAttributes_Defaults(t *testing.T) {
	schema := createTestSchema()
	engine := mergetag.NewEngine(mergetag.Defaults())

	out := ProcessAttributes(schema, map[string]interface{}{
		"url": "https://example.test/hook",
	}, engine, createFireContext())

	assert.Equal(t, "POST", out["method"])
	_, present := out["subject"]
	assert.False(t, present, "optional field without default stays absent")
}

// The sanitize callback must run on the substituted value, so escaping
// applies to the resolved tag text rather than the token.
func TestProcessAttributes_SubstituteThenSanitize(t *testing.T) {
	schema := createTestSchema()
	engine := mergetag.NewEngine(mergetag.Defaults())
	fc := createFireContext()

	out := ProcessAttributes(schema, map[string]interface{}{
		"url":     "{{post.permalink}}",
		"subject": "New: {{post.title}}",
	}, engine, fc)

	// SanitizeURL sees the substituted permalink with its raw space.
	url, ok := out["url"].(string)
	require.True(t, ok)
	assert.NotContains(t, url, "{{")
	assert.Equal(t, SanitizeURL(fc.Post.Permalink), url)

	// SanitizeText strips the markup that arrived via the tag value.
	assert.Equal(t, "New: Launch day", out["subject"])
}

func TestProcessAttributes_NestedSanitize(t *testing.T) {
	schema := createTestSchema()
	engine := mergetag.NewEngine(mergetag.Defaults())

	out := ProcessAttributes(schema, map[string]interface{}{
		"url": "https://example.test",
		"headers": []interface{}{
			map[string]interface{}{"key": "X-Site Name!", "value": "{{general.site_name}}"},
		},
	}, engine, createFireContext())

	headers, ok := out["headers"].([]interface{})
	require.True(t, ok)
	header, ok := headers[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "x-sitename", header["key"])
	assert.Equal(t, "Example Site", header["value"])
}

// ==========================
// Sanitizer Tests
// ==========================

func TestSanitizers(t *testing.T) {
	assert.Equal(t, "a b", SanitizeText("<p>a</p>\n  b"))
	assert.Equal(t, "", SanitizeURL("javascript:alert(1)"))
	assert.Equal(t, "https://example.test/x", SanitizeURL(" https://example.test/x "))
	assert.Equal(t, "user@example.test", SanitizeEmail(" User@Example.Test "))
	assert.Equal(t, "", SanitizeEmail("not-an-email"))
	assert.True(t, IsValidEmail("a@x.com"))
	assert.False(t, IsValidEmail(""))
}
