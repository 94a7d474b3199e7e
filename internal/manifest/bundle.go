package manifest

import (
	"bytes"
	"fmt"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	sigsyaml "sigs.k8s.io/yaml"
)

// Bundle is the compiler output: the provider custom resource plus any
// auxiliary resources it needs (routes, services).
type Bundle struct {
	Primary   Document
	Auxiliary []Document
}

// Documents returns the primary document followed by the auxiliary ones.
func (b *Bundle) Documents() []Document {
	docs := make([]Document, 0, 1+len(b.Auxiliary))
	docs = append(docs, b.Primary)
	docs = append(docs, b.Auxiliary...)
	return docs
}

// Add appends an auxiliary document.
func (b *Bundle) Add(doc Document) {
	b.Auxiliary = append(b.Auxiliary, doc)
}

// ToYAML renders every document as multi-document YAML.
func (b *Bundle) ToYAML() ([]byte, error) {
	var buf bytes.Buffer
	for i, doc := range b.Documents() {
		out, err := sigsyaml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s document %d: %w", doc.Kind(), i, err)
		}
		if i > 0 {
			buf.WriteString("---\n")
		}
		buf.Write(out)
	}
	return buf.Bytes(), nil
}

// ToUnstructured converts every document for submission to the cluster.
func (b *Bundle) ToUnstructured() ([]*unstructured.Unstructured, error) {
	docs := b.Documents()
	objs := make([]*unstructured.Unstructured, 0, len(docs))
	for _, doc := range docs {
		obj, err := doc.ToUnstructured()
		if err != nil {
			return nil, err
		}
		objs = append(objs, obj)
	}
	return objs, nil
}
