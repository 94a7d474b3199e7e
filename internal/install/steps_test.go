package install

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sozercan/kube-foundry-sub000/internal/provider"
	"github.com/sozercan/kube-foundry-sub000/internal/versions"
)

var pinned = versions.Static{
	versions.Dynamo:  "0.7.0",
	versions.KubeRay: "1.4.2",
	versions.KAITO:   "0.7.2",
}

func TestCharts_Defaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		provider provider.Provider
		want     []ChartSpec
	}{
		{
			provider: provider.KubeRay,
			want: []ChartSpec{{
				RepoName:   "kuberay",
				Repository: "https://ray-project.github.io/kuberay-helm/",
				Name:       "kuberay-operator",
				Version:    "1.4.2",
				Namespace:  "ray-system",
				Release:    "kuberay-operator",
			}},
		},
		{
			provider: provider.KAITO,
			want: []ChartSpec{{
				RepoName:   "kaito",
				Repository: "https://kaito-project.github.io/kaito/charts/kaito",
				Name:       "workspace",
				Version:    "0.7.2",
				Namespace:  "kaito-workspace",
				Release:    "kaito-workspace",
			}},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.provider), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Charts(tt.provider, pinned, Override{}))
		})
	}

	dynamo := Charts(provider.Dynamo, pinned, Override{})
	require.Len(t, dynamo, 2)
	assert.Equal(t, "dynamo-crds", dynamo[0].Name)
	assert.Equal(t, "dynamo-platform", dynamo[1].Name)
	assert.Equal(t, "0.7.0", dynamo[1].Version)
}

func TestCharts_Override(t *testing.T) {
	t.Parallel()

	got := Charts(provider.KubeRay, pinned, Override{
		Repository: "https://mirror.example.com/charts",
		Chart:      "kuberay-operator-fork",
		Version:    "1.5.0",
		Namespace:  "ray",
	})
	require.Len(t, got, 1)
	assert.Equal(t, "https://mirror.example.com/charts", got[0].Repository)
	assert.Equal(t, "kuberay-operator-fork", got[0].Name)
	assert.Equal(t, "1.5.0", got[0].Version)
	assert.Equal(t, "ray", got[0].Namespace)

	dynamo := Charts(provider.Dynamo, pinned, Override{Chart: "ignored", Version: "0.8.0"})
	assert.Equal(t, "dynamo-crds", dynamo[0].Name)
	assert.Equal(t, "0.8.0", dynamo[0].Version)
	assert.Equal(t, "0.8.0", dynamo[1].Version)
}

func TestCharts_UnknownProvider(t *testing.T) {
	t.Parallel()
	assert.Empty(t, Charts(provider.Provider("kserve"), pinned, Override{}))
}

func TestSteps_KubeRay(t *testing.T) {
	t.Parallel()

	steps, err := Steps(provider.KubeRay, pinned, Options{
		Values: map[string]string{"image.tag": "v1.4.2", "batchScheduler.enabled": "true"},
		Wait:   true,
	})
	require.NoError(t, err)

	commands := make([]string, 0, len(steps))
	for _, s := range steps {
		assert.NotEmpty(t, s.Title)
		commands = append(commands, s.Command)
	}
	assert.Equal(t, []string{
		"helm repo add kuberay https://ray-project.github.io/kuberay-helm/",
		"helm repo update",
		"helm upgrade --install kuberay-operator kuberay/kuberay-operator --namespace ray-system --create-namespace " +
			"--version 1.4.2 --set batchScheduler.enabled=true --set image.tag=v1.4.2 --wait",
	}, commands)
}

func TestSteps_DynamoSharesRepository(t *testing.T) {
	t.Parallel()

	steps, err := Steps(provider.Dynamo, pinned, Options{})
	require.NoError(t, err)
	require.Len(t, steps, 4)
	assert.Contains(t, steps[0].Command, "helm repo add ai-dynamo")
	assert.Contains(t, steps[2].Command, "ai-dynamo/dynamo-crds")
	assert.Contains(t, steps[3].Command, "ai-dynamo/dynamo-platform")
}

func TestSteps_QuotesUnsafeValues(t *testing.T) {
	t.Parallel()

	steps, err := Steps(provider.KAITO, pinned, Options{
		Values: map[string]string{"nodeSelector": "pool=gpu nodes"},
	})
	require.NoError(t, err)
	last := steps[len(steps)-1].Command
	assert.Contains(t, last, "--set ")
	assert.NotContains(t, last, "--set nodeSelector=pool=gpu nodes")
}

func TestSteps_TokenSecret(t *testing.T) {
	t.Parallel()

	steps, err := Steps(provider.KAITO, pinned, Options{TokenSecret: "hf-token", TokenNamespace: "models"})
	require.NoError(t, err)
	last := steps[len(steps)-1]
	assert.Equal(t,
		`kubectl create secret generic hf-token --namespace models --from-literal=HF_TOKEN="$HF_TOKEN"`,
		last.Command)
}

func TestSteps_UnknownProvider(t *testing.T) {
	t.Parallel()
	_, err := Steps(provider.Provider("kserve"), pinned, Options{})
	require.Error(t, err)
}
