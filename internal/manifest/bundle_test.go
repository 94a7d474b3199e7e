package manifest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBundle_ToYAML(t *testing.T) {
	t.Parallel()

	b := &Bundle{Primary: Object("ray.io/v1", "RayService", "demo", "ns", nil, nil)}
	b.Add(Object("gateway.networking.k8s.io/v1", "HTTPRoute", "demo", "ns", nil, nil))

	out, err := b.ToYAML()
	require.NoError(t, err)

	docs := strings.Split(string(out), "---\n")
	require.Len(t, docs, 2)
	assert.Contains(t, docs[0], "kind: RayService")
	assert.Contains(t, docs[1], "kind: HTTPRoute")
}

func TestBundle_ToUnstructured(t *testing.T) {
	t.Parallel()

	b := &Bundle{Primary: Object("kaito.sh/v1beta1", "Workspace", "demo", "ns", nil, nil)}
	b.Add(Object("v1", "Service", "demo-vllm", "ns", nil, nil))

	objs, err := b.ToUnstructured()
	require.NoError(t, err)
	require.Len(t, objs, 2)
	assert.Equal(t, "Workspace", objs[0].GetKind())
	assert.Equal(t, "demo-vllm", objs[1].GetName())
	assert.Len(t, b.Documents(), 2)
}
