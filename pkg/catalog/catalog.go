// pkg/catalog/catalog.go
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"sitenotify/internal/integration"
	"sitenotify/internal/trigger"
)

// Build snapshots the registered triggers and integrations into a
// catalog document.
func Build(triggers *trigger.Registry, integrations *integration.Loader, version string) *Document {
	doc := &Document{
		Version:     version,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}

	for _, d := range triggers.All() {
		doc.Triggers = append(doc.Triggers, TriggerEntry{
			Slug:           d.Slug,
			Name:           d.Name,
			Description:    d.Description,
			Group:          d.Group,
			MergeTagGroups: append([]string{}, d.MergeTagGroups...),
		})
	}

	for _, i := range integrations.All() {
		entry := IntegrationEntry{Slug: i.Slug(), Name: i.Name(), Fields: []FieldEntry{}}
		for _, f := range i.Schema().Fields() {
			entry.Fields = append(entry.Fields, fieldEntry(f.Key, f.Property))
		}
		doc.Integrations = append(doc.Integrations, entry)
	}

	if doc.Triggers == nil {
		doc.Triggers = []TriggerEntry{}
	}
	if doc.Integrations == nil {
		doc.Integrations = []IntegrationEntry{}
	}
	return doc
}

func fieldEntry(key string, prop integration.Property) FieldEntry {
	entry := FieldEntry{
		Key:         key,
		Type:        prop.Type,
		Label:       prop.Label,
		Description: prop.Description,
		Required:    prop.Required,
		Default:     prop.Default,
		Enum:        prop.Enum,
	}
	if prop.Items != nil && prop.Items.Properties != nil {
		for k, p := range prop.Items.Properties {
			entry.Items = append(entry.Items, fieldEntry(k, p))
		}
	}
	return entry
}

// Export marshals the document after checking it against the catalog
// schema. A document that fails its own schema never leaves the
// process.
func Export(doc *Document) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal catalog: %w", err)
	}
	if err := validate(data); err != nil {
		return nil, err
	}
	return data, nil
}

// Write exports the document to a file.
func Write(doc *Document, path string) error {
	data, err := Export(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Load reads a previously exported catalog document.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := validate(data); err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func validate(data []byte) error {
	schemaLoader := gojsonschema.NewGoLoader(documentSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("catalog validation failed: %v", errs)
	}
	return nil
}
