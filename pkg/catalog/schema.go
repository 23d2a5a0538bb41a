// pkg/catalog/schema.go
package catalog

// Document is the exported catalog of registered triggers and
// integrations. The dashboard build consumes it as JSON.
type Document struct {
	Version      string             `json:"version"`
	GeneratedAt  string             `json:"generatedAt"`
	Triggers     []TriggerEntry     `json:"triggers"`
	Integrations []IntegrationEntry `json:"integrations"`
}

type TriggerEntry struct {
	Slug           string   `json:"slug"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Group          string   `json:"group"`
	MergeTagGroups []string `json:"mergeTagGroups"`
}

type IntegrationEntry struct {
	Slug   string       `json:"slug"`
	Name   string       `json:"name"`
	Fields []FieldEntry `json:"fields"`
}

type FieldEntry struct {
	Key         string       `json:"key"`
	Type        string       `json:"type"`
	Label       string       `json:"label,omitempty"`
	Description string       `json:"description,omitempty"`
	Required    bool         `json:"required"`
	Default     interface{}  `json:"default,omitempty"`
	Enum        []string     `json:"enum,omitempty"`
	Items       []FieldEntry `json:"items,omitempty"`
}

// documentSchema is the JSON schema every exported document is checked
// against before it is written or served.
var documentSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"version", "generatedAt", "triggers", "integrations"},
	"properties": map[string]interface{}{
		"version":     map[string]interface{}{"type": "string", "minLength": 1},
		"generatedAt": map[string]interface{}{"type": "string", "minLength": 1},
		"triggers": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type":     "object",
				"required": []interface{}{"slug", "name", "group", "mergeTagGroups"},
				"properties": map[string]interface{}{
					"slug":  map[string]interface{}{"type": "string", "minLength": 1},
					"name":  map[string]interface{}{"type": "string", "minLength": 1},
					"group": map[string]interface{}{"type": "string", "minLength": 1},
					"mergeTagGroups": map[string]interface{}{
						"type":  "array",
						"items": map[string]interface{}{"type": "string"},
					},
				},
			},
		},
		"integrations": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type":     "object",
				"required": []interface{}{"slug", "name", "fields"},
				"properties": map[string]interface{}{
					"slug": map[string]interface{}{"type": "string", "minLength": 1},
					"name": map[string]interface{}{"type": "string", "minLength": 1},
					"fields": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type":     "object",
							"required": []interface{}{"key", "type"},
							"properties": map[string]interface{}{
								"key":  map[string]interface{}{"type": "string", "minLength": 1},
								"type": map[string]interface{}{"type": "string", "minLength": 1},
							},
						},
					},
				},
			},
		},
	},
}
