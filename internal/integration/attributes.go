// internal/integration/attributes.go
package integration

import (
	"sitenotify/internal/mergetag"
	"sitenotify/internal/trigger"
)

// ProcessAttributes prepares validated settings for delivery: per
// top-level field it materializes the default when the value is absent,
// substitutes merge tags into the raw value, then runs the sanitize
// callbacks. Substitution happens before sanitization so a resolved
// tag value is escaped by the same callback that would escape a
// literal value.
func ProcessAttributes(schema *Object, attrs map[string]interface{}, engine *mergetag.Engine, fc *trigger.FireContext) map[string]interface{} {
	out := make(map[string]interface{}, len(schema.fields))
	for _, f := range schema.fields {
		value, present := attrs[f.Key]
		if !present {
			if f.Default == nil {
				continue
			}
			value = f.Default
		}
		value = engine.ProcessAny(fc, value)
		out[f.Key] = sanitizeValue(value, f.Property)
	}
	return out
}

// sanitizeValue applies nested sanitize callbacks bottom-up, the
// property's own callback last so it sees fully sanitized children.
func sanitizeValue(value interface{}, prop Property) interface{} {
	switch prop.Type {
	case "array":
		if items, ok := value.([]interface{}); ok && prop.Items != nil {
			out := make([]interface{}, len(items))
			for i, item := range items {
				out[i] = sanitizeValue(item, *prop.Items)
			}
			value = out
		}
	case "object":
		if obj, ok := value.(map[string]interface{}); ok {
			out := make(map[string]interface{}, len(obj))
			for k, v := range obj {
				if sub, ok := prop.Properties[k]; ok {
					out[k] = sanitizeValue(v, sub)
				} else {
					out[k] = v
				}
			}
			value = out
		}
	}
	if prop.Sanitize != nil {
		value = prop.Sanitize(value)
	}
	return value
}
