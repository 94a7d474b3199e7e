package k8sclient

import (
	"context"
	"fmt"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/sozercan/kube-foundry-sub000/internal/manifest"
)

// ApplyBundle applies the primary resource, then each auxiliary resource.
func (c *client) ApplyBundle(ctx context.Context, bundle *manifest.Bundle, fieldManager string) error {
	objs, err := bundle.ToUnstructured()
	if err != nil {
		return fmt.Errorf("failed to convert bundle: %w", err)
	}
	for _, obj := range objs {
		if err := c.applyObject(ctx, obj, fieldManager); err != nil {
			return fmt.Errorf("failed to apply %s %s/%s: %w", obj.GetKind(), obj.GetNamespace(), obj.GetName(), err)
		}
	}
	return nil
}

func (c *client) applyObject(ctx context.Context, obj *unstructured.Unstructured, fieldManager string) error {
	gvk := obj.GroupVersionKind()
	if gvk.Kind == "" {
		return fmt.Errorf("object has no kind set")
	}

	resource, err := c.resourceFor(gvk, obj.GetNamespace())
	if err != nil {
		return err
	}

	data, err := obj.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal object to JSON: %w", err)
	}

	log.FromContext(ctx).V(1).Info("applying resource", "kind", gvk.Kind, "namespace", obj.GetNamespace(), "name", obj.GetName())

	force := true
	_, err = resource.Patch(ctx, obj.GetName(), types.ApplyPatchType, data, metav1.PatchOptions{
		FieldManager: fieldManager,
		Force:        &force,
	})
	if err != nil {
		return fmt.Errorf("server-side apply failed: %w", err)
	}
	return nil
}

// GetResource fetches one object as a document.
func (c *client) GetResource(ctx context.Context, gvk schema.GroupVersionKind, namespace, name string) (manifest.Document, error) {
	resource, err := c.resourceFor(gvk, namespace)
	if err != nil {
		return nil, err
	}
	obj, err := resource.Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s %s/%s: %w", gvk.Kind, namespace, name, err)
	}
	return manifest.FromUnstructured(obj), nil
}

// IsNotFound reports whether err means the object does not exist.
func IsNotFound(err error) bool {
	return apierrors.IsNotFound(err)
}
