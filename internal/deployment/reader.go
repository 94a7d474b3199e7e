package deployment

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Reader reads typed values out of an untyped input map and records a field
// error for every value that has the wrong type. Children share the error
// list of their parent.
type Reader struct {
	values map[string]any
	path   *field.Path
	errs   *field.ErrorList
}

// NewReader returns a Reader over the root of an input document.
func NewReader(values map[string]any) *Reader {
	if values == nil {
		values = map[string]any{}
	}
	return &Reader{values: values, errs: &field.ErrorList{}}
}

// Path returns the field path of a key under this reader.
func (r *Reader) Path(key string) *field.Path {
	if r.path == nil {
		return field.NewPath(key)
	}
	return r.path.Child(key)
}

// Errors returns every error recorded by this reader and its children.
func (r *Reader) Errors() field.ErrorList {
	return *r.errs
}

// Add records an error.
func (r *Reader) Add(err *field.Error) {
	*r.errs = append(*r.errs, err)
}

// Has reports whether key is present with a non-null value.
func (r *Reader) Has(key string) bool {
	v, ok := r.values[key]
	if !ok || v == nil {
		return false
	}
	if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
		return false
	}
	return true
}

// Raw returns the untyped value stored under key.
func (r *Reader) Raw(key string) any {
	return r.values[key]
}

// Child returns a reader for a nested object. A missing key yields an empty
// reader; a non-object value is recorded as an error.
func (r *Reader) Child(key string) *Reader {
	child := &Reader{values: map[string]any{}, path: r.Path(key), errs: r.errs}
	if !r.Has(key) {
		return child
	}
	m, ok := toStringMap(r.values[key])
	if !ok {
		r.Add(field.Invalid(r.Path(key), r.values[key], "must be an object"))
		return child
	}
	child.values = m
	return child
}

// Map returns a nested object as a plain map, or nil when absent or invalid.
func (r *Reader) Map(key string) map[string]any {
	if !r.Has(key) {
		return nil
	}
	m, ok := toStringMap(r.values[key])
	if !ok {
		r.Add(field.Invalid(r.Path(key), r.values[key], "must be an object"))
		return nil
	}
	return m
}

// String returns a trimmed string value or def when absent.
func (r *Reader) String(key, def string) string {
	if !r.Has(key) {
		return def
	}
	switch v := r.values[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case fmt.Stringer:
		return strings.TrimSpace(v.String())
	default:
		r.Add(field.Invalid(r.Path(key), v, "must be a string"))
		return def
	}
}

// Bool returns a boolean value or def when absent. The strings "true" and
// "false" are accepted for form input.
func (r *Reader) Bool(key string, def bool) bool {
	if !r.Has(key) {
		return def
	}
	switch v := r.values[key].(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			r.Add(field.Invalid(r.Path(key), v, "must be a boolean"))
			return def
		}
		return b
	default:
		r.Add(field.Invalid(r.Path(key), v, "must be a boolean"))
		return def
	}
}

// Int returns an integer value or def when absent.
func (r *Reader) Int(key string, def int) int {
	if !r.Has(key) {
		return def
	}
	n, ok := ToInt(r.values[key])
	if !ok {
		r.Add(field.Invalid(r.Path(key), r.values[key], "must be an integer"))
		return def
	}
	return n
}

// IntInRange returns an integer in [minValue, maxValue], or def when absent.
// A maxValue of zero means no upper bound.
func (r *Reader) IntInRange(key string, def, minValue, maxValue int) int {
	before := len(*r.errs)
	n := r.Int(key, def)
	if len(*r.errs) > before {
		return def
	}
	switch {
	case n < minValue && maxValue > 0:
		r.Add(field.Invalid(r.Path(key), n, fmt.Sprintf("must be between %d and %d", minValue, maxValue)))
	case n < minValue:
		r.Add(field.Invalid(r.Path(key), n, fmt.Sprintf("must be at least %d", minValue)))
	case maxValue > 0 && n > maxValue:
		r.Add(field.Invalid(r.Path(key), n, fmt.Sprintf("must be between %d and %d", minValue, maxValue)))
	}
	return n
}

// OptionalPositiveInt returns a pointer to a positive integer, or nil when
// absent.
func (r *Reader) OptionalPositiveInt(key string) *int {
	if !r.Has(key) {
		return nil
	}
	before := len(*r.errs)
	n := r.Int(key, 0)
	if len(*r.errs) > before {
		return nil
	}
	if n <= 0 {
		r.Add(field.Invalid(r.Path(key), n, "must be a positive integer"))
		return nil
	}
	return &n
}

// ToInt converts the numeric representations found in decoded YAML, JSON
// and form input into an int. Floats must be integral.
func ToInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

func toStringMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	default:
		return nil, false
	}
}
