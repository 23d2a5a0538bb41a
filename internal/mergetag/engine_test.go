// internal/mergetag/engine_test.go
package mergetag

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitenotify/internal/content"
	"sitenotify/internal/trigger"
)

// ==========================
// Test Helper Functions
// ==========================

func createPostContext() *trigger.FireContext {
	return &trigger.FireContext{
		TriggerSlug: "post-published",
		GroupSlugs:  []string{"post", "post_author", "post_publishing_user"},
		Post: &content.Post{
			ID:        42,
			Title:     "Hello World",
			Permalink: "https://example.test/hello-world",
			Status:    content.PostStatusPublish,
		},
		Author: &content.User{
			ID:          7,
			DisplayName: "Alice",
			Email:       "alice@example.test",
		},
		PublishingUser: &content.User{
			ID:          9,
			DisplayName: "Bob",
			Email:       "bob@example.test",
		},
		Site: content.SiteInfo{
			Name:       "Example Site",
			URL:        "https://example.test",
			AdminEmail: "admin@example.test",
		},
	}
}

func createPluginContext(slug string) *trigger.FireContext {
	return &trigger.FireContext{
		TriggerSlug: slug,
		GroupSlugs:  []string{"plugin"},
		Plugin: &content.Plugin{
			Slug:    "shop",
			Name:    "Shop",
			Version: "2.1.0",
		},
		PluginOldVersion: "2.0.3",
	}
}

func createTestEngine() *Engine {
	return NewEngine(Defaults())
}

// ==========================
// Substitution Tests
// ==========================

func TestEngine_ProcessString_Substitution(t *testing.T) {
	engine := createTestEngine()
	fc := createPostContext()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "single tag",
			input:    "New: {{post.title}}",
			expected: "New: Hello World",
		},
		{
			name:     "repeated tag replaced everywhere",
			input:    "{{post.title}} / {{post.title}}",
			expected: "Hello World / Hello World",
		},
		{
			name:     "tags from several groups",
			input:    "{{post.title}} by {{post_author.display_name}}, published by {{post_publishing_user.display_name}}",
			expected: "Hello World by Alice, published by Bob",
		},
		{
			name:     "general group always available",
			input:    "{{general.site_name}} <{{general.admin_email}}>",
			expected: "Example Site <admin@example.test>",
		},
		{
			name:     "no tokens",
			input:    "plain text",
			expected: "plain text",
		},
		{
			name:     "numeric field formatted",
			input:    "id={{post.id}}",
			expected: "id=42",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, engine.ProcessString(fc, tt.input))
		})
	}
}

func TestEngine_ProcessString_Passthrough(t *testing.T) {
	engine := createTestEngine()
	fc := createPostContext()

	tests := []struct {
		name  string
		input string
	}{
		{name: "unregistered group", input: "{{nonexistent_group.x}}"},
		{name: "undefined key in known group", input: "{{post.no_such_key}}"},
		{name: "group not declared by trigger", input: "{{comment.content}}"},
		{name: "malformed token", input: "{{post.title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.input, engine.ProcessString(fc, tt.input))
		})
	}
}

// Tokens qualified with one group's slug must never be resolved by a
// different group, even when both define the same key.
func TestEngine_ProcessString_GroupIsolation(t *testing.T) {
	engine := createTestEngine()
	fc := createPostContext()

	out := engine.ProcessString(fc, "{{post.id}} vs {{post_author.id}}")
	assert.Equal(t, "42 vs 7", out)

	out = engine.ProcessString(fc, "{{post_author.email}} vs {{post_publishing_user.email}}")
	assert.Equal(t, "alice@example.test vs bob@example.test", out)
}

func TestEngine_ProcessString_RestrictedTag(t *testing.T) {
	engine := createTestEngine()

	t.Run("resolves under its own trigger", func(t *testing.T) {
		out := engine.ProcessString(createPluginContext("plugin-updated"), "was {{plugin.old_version}}")
		assert.Equal(t, "was 2.0.3", out)
	})

	t.Run("zeroed under any other trigger", func(t *testing.T) {
		out := engine.ProcessString(createPluginContext("plugin-activated"), "was {{plugin.old_version}}")
		assert.Equal(t, "was ", out)
	})
}

func TestEngine_ProcessString_MissingEntity(t *testing.T) {
	engine := createTestEngine()
	fc := createPostContext()
	fc.Author = nil

	out := engine.ProcessString(fc, "by {{post_author.display_name}}")
	assert.Equal(t, "by ", out)
}

// ==========================
// Container Tests
// ==========================

func TestEngine_ProcessAny_NestedContainers(t *testing.T) {
	engine := createTestEngine()
	fc := createPostContext()

	input := map[string]interface{}{
		"subject": "New: {{post.title}}",
		"headers": []interface{}{
			map[string]interface{}{"key": "X-Site", "value": "{{general.site_name}}"},
		},
		"retries": float64(3),
		"html":    true,
	}

	out, ok := engine.ProcessAny(fc, input).(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "New: Hello World", out["subject"])
	assert.Equal(t, float64(3), out["retries"])
	assert.Equal(t, true, out["html"])

	headers, ok := out["headers"].([]interface{})
	require.True(t, ok)
	header, ok := headers[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Example Site", header["value"])
}

// ==========================
// Registry Tests
// ==========================

func TestRegistry_AddTag(t *testing.T) {
	registry := Defaults()
	engine := NewEngine(registry)

	err := registry.AddTag("post", Tag{
		Key:   "publication_date",
		Label: "Publication date",
		Resolve: func(fc *trigger.FireContext) string {
			if fc.Post == nil {
				return ""
			}
			return fc.Post.PublishedAt.Format("2006-01-02")
		},
	})
	require.NoError(t, err)

	fc := createPostContext()
	fc.Post.PublishedAt = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "on 2025-03-14", engine.ProcessString(fc, "on {{post.publication_date}}"))
}

func TestRegistry_AddTag_UnknownGroup(t *testing.T) {
	registry := Defaults()
	err := registry.AddTag("no_such_group", Tag{Key: "x", Resolve: func(*trigger.FireContext) string { return "" }})
	assert.Error(t, err)
}

// A tag without a resolver would blow up the first substitution that
// reaches it, so registration rejects it up front.
func TestRegistry_AddTag_NilResolverRejected(t *testing.T) {
	registry := Defaults()
	err := registry.AddTag("post", Tag{Key: "broken", Label: "Broken"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no resolver")
}

func TestEngine_GroupsFor_AppendsGeneralLast(t *testing.T) {
	engine := createTestEngine()
	groups := engine.GroupsFor(createPostContext())

	require.NotEmpty(t, groups)
	assert.Equal(t, GeneralGroupSlug, groups[len(groups)-1].Slug)
}
