package k8sclient

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/meta"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/discovery"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/restmapper"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/sozercan/kube-foundry-sub000/internal/manifest"
)

// FieldManager identifies kubefoundry as the owner of applied fields.
const FieldManager = "kubefoundry"

// Client provides the cluster operations used to deploy and inspect model
// deployments.
type Client interface {
	// ApplyBundle applies every document of a compiled bundle using
	// Server-Side Apply, primary resource first.
	ApplyBundle(ctx context.Context, bundle *manifest.Bundle, fieldManager string) error

	// GetResource fetches one object. A missing object returns an error
	// for which IsNotFound is true.
	GetResource(ctx context.Context, gvk schema.GroupVersionKind, namespace, name string) (manifest.Document, error)

	// HasResourceType reports whether the API server serves a kind, i.e.
	// whether the runtime's CRDs are installed.
	HasResourceType(ctx context.Context, gvk schema.GroupVersionKind) (bool, error)

	// SecretExists reports whether a secret exists.
	SecretExists(ctx context.Context, namespace, name string) (bool, error)

	// CreateSecret creates or replaces a secret.
	CreateSecret(ctx context.Context, secret *corev1.Secret) error
}

type client struct {
	clientset     kubernetes.Interface
	dynamicClient dynamic.Interface
	mapper        meta.RESTMapper
}

// NewFromKubeconfig creates a Client from kubeconfig bytes.
func NewFromKubeconfig(kubeconfig []byte) (Client, error) {
	restConfig, err := clientcmd.RESTConfigFromKubeConfig(kubeconfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create REST config from kubeconfig: %w", err)
	}
	return NewFromRESTConfig(restConfig)
}

// NewFromKubeconfigPath creates a Client using the standard kubeconfig
// loading rules. An empty path falls back to $KUBECONFIG and ~/.kube/config.
func NewFromKubeconfigPath(path, kubeContext string) (Client, error) {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	if path != "" {
		rules.ExplicitPath = path
	}
	overrides := &clientcmd.ConfigOverrides{CurrentContext: kubeContext}
	restConfig, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, overrides).ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load kubeconfig: %w", err)
	}
	return NewFromRESTConfig(restConfig)
}

// NewFromRESTConfig creates a Client from a REST config.
func NewFromRESTConfig(restConfig *rest.Config) (Client, error) {
	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes clientset: %w", err)
	}

	dynamicClient, err := dynamic.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamic client: %w", err)
	}

	discoveryClient, err := discovery.NewDiscoveryClientForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create discovery client: %w", err)
	}

	groupResources, err := restmapper.GetAPIGroupResources(discoveryClient)
	if err != nil {
		return nil, fmt.Errorf("failed to get API group resources: %w", err)
	}

	return &client{
		clientset:     clientset,
		dynamicClient: dynamicClient,
		mapper:        restmapper.NewDiscoveryRESTMapper(groupResources),
	}, nil
}

// NewFromClients creates a Client from pre-configured clients.
// This is useful for testing with fake clients.
func NewFromClients(
	clientset kubernetes.Interface,
	dynamicClient dynamic.Interface,
	mapper meta.RESTMapper,
) Client {
	return &client{
		clientset:     clientset,
		dynamicClient: dynamicClient,
		mapper:        mapper,
	}
}

// HasResourceType reports whether the REST mapper knows the kind.
func (c *client) HasResourceType(_ context.Context, gvk schema.GroupVersionKind) (bool, error) {
	_, err := c.mapper.RESTMapping(gvk.GroupKind(), gvk.Version)
	if err == nil {
		return true, nil
	}
	if meta.IsNoMatchError(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to look up %s: %w", gvk, err)
}

// resourceFor returns the dynamic interface for a kind in a namespace.
func (c *client) resourceFor(gvk schema.GroupVersionKind, namespace string) (dynamic.ResourceInterface, error) {
	mapping, err := c.mapper.RESTMapping(gvk.GroupKind(), gvk.Version)
	if err != nil {
		return nil, fmt.Errorf("failed to get REST mapping for %v: %w", gvk, err)
	}

	if mapping.Scope.Name() != meta.RESTScopeNameNamespace {
		return c.dynamicClient.Resource(mapping.Resource), nil
	}
	if namespace == "" {
		namespace = "default"
	}
	return c.dynamicClient.Resource(mapping.Resource).Namespace(namespace), nil
}
