package k8sclient

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// SecretExists reports whether a secret exists.
func (c *client) SecretExists(ctx context.Context, namespace, name string) (bool, error) {
	if namespace == "" {
		return false, fmt.Errorf("namespace is required")
	}
	if name == "" {
		return false, fmt.Errorf("secret name is required")
	}

	_, err := c.clientset.CoreV1().Secrets(namespace).Get(ctx, name, metav1.GetOptions{})
	switch {
	case err == nil:
		return true, nil
	case errors.IsNotFound(err):
		return false, nil
	default:
		return false, fmt.Errorf("failed to get secret %s/%s: %w", namespace, name, err)
	}
}

// CreateSecret creates or replaces a secret in the specified namespace.
// An existing secret is deleted first so its data is replaced, not merged.
func (c *client) CreateSecret(ctx context.Context, secret *corev1.Secret) error {
	if secret.Namespace == "" {
		return fmt.Errorf("secret namespace is required")
	}
	if secret.Name == "" {
		return fmt.Errorf("secret name is required")
	}

	secretsClient := c.clientset.CoreV1().Secrets(secret.Namespace)

	err := secretsClient.Delete(ctx, secret.Name, metav1.DeleteOptions{})
	if err != nil && !errors.IsNotFound(err) {
		return fmt.Errorf("failed to delete existing secret %s/%s: %w",
			secret.Namespace, secret.Name, err)
	}

	_, err = secretsClient.Create(ctx, secret, metav1.CreateOptions{})
	if err != nil {
		return fmt.Errorf("failed to create secret %s/%s: %w",
			secret.Namespace, secret.Name, err)
	}

	return nil
}
