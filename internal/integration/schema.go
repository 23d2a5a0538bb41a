// internal/integration/schema.go
package integration

import (
	"fmt"
)

// SanitizeFunc normalizes one attribute value after merge tag
// substitution. Runs on the substituted value, never on the raw token.
type SanitizeFunc func(value interface{}) interface{}

// Property describes one attribute in an integration's settings schema.
// Object and array shapes recurse through Properties and Items.
type Property struct {
	Type        string // "string", "number", "boolean", "array", "object"
	Label       string
	Description string
	Required    bool
	Default     interface{}
	Enum        []string
	Items       *Property
	Properties  map[string]Property
	Sanitize    SanitizeFunc `json:"-"`
}

// Field pairs a top-level property with its settings key. Kept as a
// slice so schema listings preserve declaration order.
type Field struct {
	Key string
	Property
}

// Object is an integration's full attributes schema.
type Object struct {
	fields []Field
	index  map[string]int
}

// NewObject builds a schema from ordered fields.
func NewObject(fields ...Field) *Object {
	o := &Object{index: make(map[string]int, len(fields))}
	for _, f := range fields {
		o.index[f.Key] = len(o.fields)
		o.fields = append(o.fields, f)
	}
	return o
}

// Fields returns the top-level fields in declaration order.
func (o *Object) Fields() []Field {
	out := make([]Field, len(o.fields))
	copy(out, o.fields)
	return out
}

// Field returns the top-level field for key.
func (o *Object) Field(key string) (Field, bool) {
	i, ok := o.index[key]
	if !ok {
		return Field{}, false
	}
	return o.fields[i], true
}

// Validate checks connection settings against the schema. A non-empty
// return means the whole integration call is aborted; details list one
// message per violation. Absent optional fields are skipped, required
// fields must be present and non-empty, present values must conform in
// type and enum membership.
func (o *Object) Validate(attrs map[string]interface{}) []string {
	var details []string
	for _, f := range o.fields {
		value, present := attrs[f.Key]
		if !present || isEmpty(value) {
			if f.Required {
				details = append(details, fmt.Sprintf("%s: required attribute is missing or empty", f.Key))
			}
			continue
		}
		details = append(details, validateValue(f.Key, value, f.Property)...)
	}
	return details
}

func validateValue(path string, value interface{}, prop Property) []string {
	var details []string
	switch prop.Type {
	case "string":
		s, ok := value.(string)
		if !ok {
			return []string{fmt.Sprintf("%s: expected string, got %T", path, value)}
		}
		if len(prop.Enum) > 0 && !enumContains(prop.Enum, s) {
			details = append(details, fmt.Sprintf("%s: %q is not one of %v", path, s, prop.Enum))
		}
	case "number":
		switch value.(type) {
		case float64, int, int64:
		default:
			details = append(details, fmt.Sprintf("%s: expected number, got %T", path, value))
		}
	case "boolean":
		if _, ok := value.(bool); !ok {
			details = append(details, fmt.Sprintf("%s: expected boolean, got %T", path, value))
		}
	case "array":
		items, ok := value.([]interface{})
		if !ok {
			return []string{fmt.Sprintf("%s: expected array, got %T", path, value)}
		}
		if prop.Items != nil {
			for i, item := range items {
				details = append(details, validateValue(fmt.Sprintf("%s[%d]", path, i), item, *prop.Items)...)
			}
		}
	case "object":
		obj, ok := value.(map[string]interface{})
		if !ok {
			return []string{fmt.Sprintf("%s: expected object, got %T", path, value)}
		}
		for key, sub := range prop.Properties {
			subValue, present := obj[key]
			if !present || isEmpty(subValue) {
				if sub.Required {
					details = append(details, fmt.Sprintf("%s.%s: required attribute is missing or empty", path, key))
				}
				continue
			}
			details = append(details, validateValue(path+"."+key, subValue, sub)...)
		}
	}
	return details
}

func enumContains(enum []string, s string) bool {
	for _, e := range enum {
		if e == s {
			return true
		}
	}
	return false
}

func isEmpty(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []interface{}:
		return len(t) == 0
	case map[string]interface{}:
		return len(t) == 0
	default:
		return false
	}
}
