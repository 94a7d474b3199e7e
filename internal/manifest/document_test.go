package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() Document {
	doc := Object("nvidia.com/v1alpha1", "DynamoGraphDeployment", "demo", "ns",
		map[string]string{"app.kubernetes.io/name": "demo"}, nil)
	doc["spec"] = Document{
		"services": Document{
			"Frontend": Document{"replicas": 1},
		},
		"args": []any{"a", "b"},
	}
	return doc
}

func TestDocument_Getters(t *testing.T) {
	t.Parallel()

	doc := sampleDocument()

	assert.Equal(t, "DynamoGraphDeployment", doc.Kind())
	assert.Equal(t, "demo", doc.Name())
	assert.Equal(t, "ns", doc.Namespace())

	n, ok := doc.Int("spec", "services", "Frontend", "replicas")
	assert.True(t, ok)
	assert.Equal(t, 1, n)

	_, ok = doc.Int("spec", "services", "Missing", "replicas")
	assert.False(t, ok)

	assert.Len(t, doc.Slice("spec", "args"), 2)
	assert.NotNil(t, doc.Map("spec", "services"))
	assert.Nil(t, doc.Map("spec", "args"))
	assert.Empty(t, doc.String("spec", "services"))
	assert.False(t, doc.Bool("spec", "missing"))
}

func TestDocument_YAMLRoundTrip(t *testing.T) {
	t.Parallel()

	data, err := sampleDocument().ToYAML()
	require.NoError(t, err)
	assert.Contains(t, string(data), "kind: DynamoGraphDeployment")
	assert.Contains(t, string(data), "  name: demo")

	parsed, err := FromYAML(data)
	require.NoError(t, err)
	assert.Equal(t, "demo", parsed.Name())

	n, ok := parsed.Int("spec", "services", "Frontend", "replicas")
	assert.True(t, ok)
	assert.Equal(t, 1, n)
}

func TestFromYAML_Invalid(t *testing.T) {
	t.Parallel()

	_, err := FromYAML([]byte("kind: [broken"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML document")
}

func TestDocument_Unstructured(t *testing.T) {
	t.Parallel()

	obj, err := sampleDocument().ToUnstructured()
	require.NoError(t, err)

	assert.Equal(t, "DynamoGraphDeployment", obj.GetKind())
	assert.Equal(t, "nvidia.com", obj.GroupVersionKind().Group)
	assert.Equal(t, "ns", obj.GetNamespace())
	assert.Equal(t, map[string]string{"app.kubernetes.io/name": "demo"}, obj.GetLabels())

	back := FromUnstructured(obj)
	n, ok := back.Int("spec", "services", "Frontend", "replicas")
	assert.True(t, ok)
	assert.Equal(t, 1, n)

	assert.Empty(t, FromUnstructured(nil))
}

func TestAsMapAndSlice(t *testing.T) {
	t.Parallel()

	m, ok := AsMap(map[any]any{"a": 1})
	require.True(t, ok)
	assert.Equal(t, 1, m["a"])

	m, ok = AsMap(map[string]string{"a": "b"})
	require.True(t, ok)
	assert.Equal(t, "b", m["a"])

	_, ok = AsMap("nope")
	assert.False(t, ok)

	s, ok := AsSlice([]string{"x", "y"})
	require.True(t, ok)
	assert.Equal(t, []any{"x", "y"}, s)

	s, ok = AsSlice([]Document{{"a": 1}})
	require.True(t, ok)
	assert.Len(t, s, 1)
}

func TestResourceRequirements(t *testing.T) {
	t.Parallel()

	res := ResourceRequirements(ResourceGPU, 2, "16Gi")
	assert.Equal(t, res["requests"], res["limits"])
	assert.Equal(t, Document{ResourceGPU: "2", "memory": "16Gi"}, res["limits"])

	cpuOnly := ResourceRequirements(ResourceGPU, 0, "")
	assert.Equal(t, Document{}, cpuOnly["requests"])
}

func TestSecretEnv(t *testing.T) {
	t.Parallel()

	assert.Nil(t, SecretEnv(""))

	env := SecretEnv("hf-token")
	require.Len(t, env, 1)
	entry, ok := AsMap(env[0])
	require.True(t, ok)
	assert.Equal(t, HFTokenKey, entry["name"])
	assert.Equal(t, "hf-token", Document(entry).String("valueFrom", "secretKeyRef", "name"))
}
