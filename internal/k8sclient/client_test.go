package k8sclient

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	dynamicfake "k8s.io/client-go/dynamic/fake"
	"k8s.io/client-go/kubernetes/fake"
	"k8s.io/client-go/restmapper"

	"github.com/sozercan/kube-foundry-sub000/internal/manifest"
)

var (
	workspaceGVK = schema.GroupVersionKind{Group: "kaito.sh", Version: "v1beta1", Kind: "Workspace"}
	workspaceGVR = schema.GroupVersionResource{Group: "kaito.sh", Version: "v1beta1", Resource: "workspaces"}
	rayGVK       = schema.GroupVersionKind{Group: "ray.io", Version: "v1", Kind: "RayService"}
)

func testMapper() meta.RESTMapper {
	resources := []*restmapper.APIGroupResources{
		{
			Group: metav1.APIGroup{
				Name:             "",
				Versions:         []metav1.GroupVersionForDiscovery{{GroupVersion: "v1", Version: "v1"}},
				PreferredVersion: metav1.GroupVersionForDiscovery{GroupVersion: "v1", Version: "v1"},
			},
			VersionedResources: map[string][]metav1.APIResource{
				"v1": {
					{Name: "secrets", Namespaced: true, Kind: "Secret"},
					{Name: "services", Namespaced: true, Kind: "Service"},
				},
			},
		},
		{
			Group: metav1.APIGroup{
				Name:             "kaito.sh",
				Versions:         []metav1.GroupVersionForDiscovery{{GroupVersion: "kaito.sh/v1beta1", Version: "v1beta1"}},
				PreferredVersion: metav1.GroupVersionForDiscovery{GroupVersion: "kaito.sh/v1beta1", Version: "v1beta1"},
			},
			VersionedResources: map[string][]metav1.APIResource{
				"v1beta1": {{Name: "workspaces", Namespaced: true, Kind: "Workspace"}},
			},
		},
	}
	return restmapper.NewDiscoveryRESTMapper(resources)
}

func setupTestClient(t *testing.T, objects ...runtime.Object) Client {
	t.Helper()

	//nolint:staticcheck // SA1019: NewSimpleClientset is sufficient for our testing needs
	clientset := fake.NewSimpleClientset(&corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{Name: "hf-token", Namespace: "models"},
	})
	scheme := runtime.NewScheme()
	_ = corev1.AddToScheme(scheme)
	dynamicClient := dynamicfake.NewSimpleDynamicClientWithCustomListKinds(scheme,
		map[schema.GroupVersionResource]string{workspaceGVR: "WorkspaceList"},
		objects...,
	)
	return NewFromClients(clientset, dynamicClient, testMapper())
}

func workspace(name, namespace string) *unstructured.Unstructured {
	obj := &unstructured.Unstructured{Object: map[string]any{
		"resource": map[string]any{"count": int64(2)},
		"status": map[string]any{
			"conditions": []any{map[string]any{"type": "InferenceReady", "status": "True"}},
		},
	}}
	obj.SetGroupVersionKind(workspaceGVK)
	obj.SetName(name)
	obj.SetNamespace(namespace)
	return obj
}

func TestGetResource(t *testing.T) {
	t.Parallel()

	c := setupTestClient(t, workspace("demo", "models"))

	doc, err := c.GetResource(context.Background(), workspaceGVK, "models", "demo")
	require.NoError(t, err)
	assert.Equal(t, "demo", doc.Name())
	assert.Equal(t, "Workspace", doc.Kind())
	count, ok := doc.Int("resource", "count")
	require.True(t, ok)
	assert.Equal(t, 2, count)
	assert.Len(t, doc.Slice("status", "conditions"), 1)
}

func TestGetResource_NotFound(t *testing.T) {
	t.Parallel()

	c := setupTestClient(t)

	_, err := c.GetResource(context.Background(), workspaceGVK, "models", "missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestGetResource_UnknownKind(t *testing.T) {
	t.Parallel()

	c := setupTestClient(t)

	_, err := c.GetResource(context.Background(), rayGVK, "models", "demo")
	require.Error(t, err)
	assert.False(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "failed to get REST mapping")
}

func TestHasResourceType(t *testing.T) {
	t.Parallel()

	c := setupTestClient(t)

	ok, err := c.HasResourceType(context.Background(), workspaceGVK)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.HasResourceType(context.Background(), rayGVK)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSecretExists(t *testing.T) {
	t.Parallel()

	c := setupTestClient(t)
	ctx := context.Background()

	ok, err := c.SecretExists(ctx, "models", "hf-token")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.SecretExists(ctx, "models", "other")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = c.SecretExists(ctx, "", "hf-token")
	require.Error(t, err)
	_, err = c.SecretExists(ctx, "models", "")
	require.Error(t, err)
}

func TestCreateSecret_Replaces(t *testing.T) {
	t.Parallel()

	c := setupTestClient(t)
	ctx := context.Background()

	err := c.CreateSecret(ctx, &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{Name: "hf-token", Namespace: "models"},
		StringData: map[string]string{manifest.HFTokenKey: "hf_abc"},
	})
	require.NoError(t, err)

	ok, err := c.SecretExists(ctx, "models", "hf-token")
	require.NoError(t, err)
	assert.True(t, ok)

	err = c.CreateSecret(ctx, &corev1.Secret{ObjectMeta: metav1.ObjectMeta{Name: "x"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "namespace is required")
}

func TestApplyBundle_UnknownKind(t *testing.T) {
	t.Parallel()

	c := setupTestClient(t)
	bundle := &manifest.Bundle{
		Primary: manifest.Object("ray.io/v1", "RayService", "demo", "models", nil, nil),
	}

	err := c.ApplyBundle(context.Background(), bundle, FieldManager)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to apply RayService models/demo")
}

func TestApplyBundle_MissingKind(t *testing.T) {
	t.Parallel()

	c := setupTestClient(t)
	bundle := &manifest.Bundle{Primary: manifest.Document{
		"apiVersion": "v1",
		"metadata":   map[string]any{"name": "demo"},
	}}

	err := c.ApplyBundle(context.Background(), bundle, FieldManager)
	require.Error(t, err)
}

func TestNewFromKubeconfig_Invalid(t *testing.T) {
	t.Parallel()

	_, err := NewFromKubeconfig([]byte("invalid kubeconfig content"))
	require.Error(t, err)
}
