package deployment

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromBytes_YAML(t *testing.T) {
	t.Parallel()

	raw, err := LoadFromBytes([]byte(`
name: demo
namespace: ns
modelId: org/m
mode: disaggregated
prefillReplicas: 2
decodeReplicas: 3
resources:
  gpu: 2
engineArgs:
  foo: true
`))
	require.NoError(t, err)

	res := Validate(raw, DefaultProfile())
	require.True(t, res.Valid, "errors: %v", res.Errors)
	assert.Equal(t, ModeDisaggregated, res.Spec.Mode)
	assert.Equal(t, 5, res.Spec.TotalReplicas())
	assert.Equal(t, 2, res.Spec.Resources.GPU)
	assert.Equal(t, map[string]any{"foo": true}, res.Spec.EngineArgs)
}

func TestLoadFromBytes_JSON(t *testing.T) {
	t.Parallel()

	raw, err := LoadFromBytes([]byte(`{"name":"demo","modelId":"org/m","replicas":2}`))
	require.NoError(t, err)

	res := Validate(raw, DefaultProfile())
	require.True(t, res.Valid)
	assert.Equal(t, 2, res.Spec.Replicas)
}

func TestLoadFromBytes_Invalid(t *testing.T) {
	t.Parallel()

	_, err := LoadFromBytes([]byte("name: [unterminated"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse deployment file")
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "deployment.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: demo\nmodelId: org/m\n"), 0o600))

	raw, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "demo", raw["name"])

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read deployment file")
}
