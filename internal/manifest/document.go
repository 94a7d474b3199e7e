// Package manifest holds the provider-native document tree produced by the
// compilers and consumed by the status normalizers, plus the builders shared
// by every provider.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// Document is one custom resource as a tree of maps, sequences and scalars.
type Document map[string]any

// ToYAML converts the document to YAML bytes.
func (d Document) ToYAML() ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)

	if err := encoder.Encode(map[string]any(d)); err != nil {
		return nil, fmt.Errorf("failed to encode document to YAML: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode document to YAML: %w", err)
	}

	return buf.Bytes(), nil
}

// FromYAML parses YAML or JSON bytes into a Document.
func FromYAML(data []byte) (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML document: %w", err)
	}
	return doc, nil
}

// ToUnstructured converts the document into an unstructured object with
// JSON-compatible value types.
func (d Document) ToUnstructured() (*unstructured.Unstructured, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document to JSON: %w", err)
	}
	obj := &unstructured.Unstructured{}
	if err := obj.UnmarshalJSON(data); err != nil {
		return nil, fmt.Errorf("failed to convert document to unstructured: %w", err)
	}
	return obj, nil
}

// FromUnstructured wraps a live object fetched from the cluster.
func FromUnstructured(obj *unstructured.Unstructured) Document {
	if obj == nil {
		return Document{}
	}
	return Document(obj.UnstructuredContent())
}

// Kind returns the document's kind.
func (d Document) Kind() string {
	return d.String("kind")
}

// Name returns metadata.name.
func (d Document) Name() string {
	return d.String("metadata", "name")
}

// Namespace returns metadata.namespace.
func (d Document) Namespace() string {
	return d.String("metadata", "namespace")
}

// Get walks the path and returns the value found, if any.
func (d Document) Get(path ...string) (any, bool) {
	var cur any = map[string]any(d)
	for _, key := range path {
		m, ok := AsMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, cur != nil
}

// Map returns the object at path, or nil.
func (d Document) Map(path ...string) map[string]any {
	v, ok := d.Get(path...)
	if !ok {
		return nil
	}
	m, _ := AsMap(v)
	return m
}

// Slice returns the sequence at path, or nil.
func (d Document) Slice(path ...string) []any {
	v, ok := d.Get(path...)
	if !ok {
		return nil
	}
	s, _ := AsSlice(v)
	return s
}

// String returns the string at path, or "".
func (d Document) String(path ...string) string {
	v, ok := d.Get(path...)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Int returns the integer at path. Missing or non-numeric values yield
// (0, false).
func (d Document) Int(path ...string) (int, bool) {
	v, ok := d.Get(path...)
	if !ok {
		return 0, false
	}
	return toInt(v)
}

// Bool returns the boolean at path, or false.
func (d Document) Bool(path ...string) bool {
	v, ok := d.Get(path...)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// AsMap normalises the map representations that appear in built and decoded
// documents.
func AsMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Document:
		return m, true
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[k] = val
		}
		return out, true
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

// AsSlice normalises the sequence representations that appear in built and
// decoded documents.
func AsSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case []Document:
		out := make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out, true
	case []map[string]any:
		out := make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out, true
	case []string:
		out := make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out, true
	default:
		return nil, false
	}
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	default:
		return 0, false
	}
}
