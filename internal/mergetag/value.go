// internal/mergetag/value.go
package mergetag

// Value is the content tree the engine substitutes into. Only string
// leaves carry tokens; lists and maps are walked recursively and their
// shape is preserved.
type Value interface {
	isValue()
}

// String is a leaf value.
type String string

// List is an ordered container of values.
type List []Value

// Map is a keyed container of values.
type Map map[string]Value

func (String) isValue() {}
func (List) isValue()   {}
func (Map) isValue()    {}

// FromInterface converts decoded JSON-ish data (string, []interface{},
// map[string]interface{}) into a Value tree. Non-container, non-string
// leaves are passed back unchanged by ToInterface, so they round-trip
// through a substitution untouched.
func FromInterface(v interface{}) Value {
	switch t := v.(type) {
	case string:
		return String(t)
	case []interface{}:
		out := make(List, len(t))
		for i, item := range t {
			out[i] = FromInterface(item)
		}
		return out
	case map[string]interface{}:
		out := make(Map, len(t))
		for k, item := range t {
			out[k] = FromInterface(item)
		}
		return out
	default:
		return opaque{v}
	}
}

// ToInterface is the inverse of FromInterface.
func ToInterface(v Value) interface{} {
	switch t := v.(type) {
	case String:
		return string(t)
	case List:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = ToInterface(item)
		}
		return out
	case Map:
		out := make(map[string]interface{}, len(t))
		for k, item := range t {
			out[k] = ToInterface(item)
		}
		return out
	case opaque:
		return t.v
	default:
		return nil
	}
}

// opaque wraps leaves the engine has no business rewriting (numbers,
// booleans, nil). They survive a Process call byte for byte.
type opaque struct {
	v interface{}
}

func (opaque) isValue() {}
