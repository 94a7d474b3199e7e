package handlers

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/runtime/schema"

	"github.com/sozercan/kube-foundry-sub000/internal/k8sclient"
	"github.com/sozercan/kube-foundry-sub000/internal/manifest"
	"github.com/sozercan/kube-foundry-sub000/internal/versions"
)

// saveAndRestoreFactories saves the factory variables and restores them on
// cleanup. It returns a buffer that captures output.
func saveAndRestoreFactories(t *testing.T) *bytes.Buffer {
	t.Helper()

	origClient := newClusterClient
	origResolver := newResolver
	origLookPath := lookPath
	origWriteFile := writeFile
	origStdout := stdout
	origGetenv := getenv
	origInteractive := isInteractive
	origLoad := loadConfigFile

	t.Cleanup(func() {
		newClusterClient = origClient
		newResolver = origResolver
		lookPath = origLookPath
		writeFile = origWriteFile
		stdout = origStdout
		getenv = origGetenv
		isInteractive = origInteractive
		loadConfigFile = origLoad
	})

	var buf bytes.Buffer
	stdout = &buf
	isInteractive = func() bool { return false }
	getenv = func(string) string { return "" }
	newResolver = func() *versions.Resolver {
		return versions.NewResolver(versions.DefaultSources(),
			versions.WithBaseURL("http://127.0.0.1:1"),
			versions.WithRetries(0),
			versions.WithEnv(func(string) string { return "" }))
	}
	newClusterClient = func(Cluster) (k8sclient.Client, error) {
		return nil, errors.New("no cluster in tests")
	}
	return &buf
}

// writeInput writes a deployment file into a temp dir.
func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deployment.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const qwenInput = `
name: qwen
namespace: models
modelId: Qwen/Qwen3-0.6B
replicas: 2
`

// fakeClient records cluster calls.
type fakeClient struct {
	served      bool
	servedErr   error
	secrets     map[string]bool
	applyErrs   []error
	applied     []*manifest.Bundle
	applyCalls  int
	resources   map[string]manifest.Document
	getErr      error
	gotGVK      schema.GroupVersionKind
	gotResource string
	created     []*corev1.Secret
}

func (f *fakeClient) ApplyBundle(_ context.Context, bundle *manifest.Bundle, _ string) error {
	f.applyCalls++
	if len(f.applyErrs) > 0 {
		err := f.applyErrs[0]
		f.applyErrs = f.applyErrs[1:]
		if err != nil {
			return err
		}
	}
	f.applied = append(f.applied, bundle)
	return nil
}

func (f *fakeClient) GetResource(_ context.Context, gvk schema.GroupVersionKind, namespace, name string) (manifest.Document, error) {
	f.gotGVK = gvk
	f.gotResource = namespace + "/" + name
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.resources[namespace+"/"+name], nil
}

func (f *fakeClient) HasResourceType(context.Context, schema.GroupVersionKind) (bool, error) {
	return f.served, f.servedErr
}

func (f *fakeClient) SecretExists(_ context.Context, namespace, name string) (bool, error) {
	return f.secrets[namespace+"/"+name], nil
}

func (f *fakeClient) CreateSecret(_ context.Context, secret *corev1.Secret) error {
	f.created = append(f.created, secret)
	return nil
}

func useFakeClient(f *fakeClient) {
	newClusterClient = func(Cluster) (k8sclient.Client, error) { return f, nil }
}

func notFoundError() error {
	return apierrors.NewNotFound(schema.GroupResource{Group: "kaito.sh", Resource: "workspaces"}, "missing")
}
