// Package gateway compiles the Gateway API HTTPRoute that exposes a
// deployment's frontend service through a shared inference gateway.
package gateway

import (
	"fmt"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/utils/ptr"
	gatewayv1 "sigs.k8s.io/gateway-api/apis/v1"

	"github.com/sozercan/kube-foundry-sub000/internal/deployment"
	"github.com/sozercan/kube-foundry-sub000/internal/manifest"
	"github.com/sozercan/kube-foundry-sub000/internal/util/labels"
	"github.com/sozercan/kube-foundry-sub000/internal/util/naming"
)

// PreconditionError reports a route requested without the gateway fields it
// needs. Validation rejects such specs, so this signals a caller that
// skipped validation.
type PreconditionError struct {
	Missing []string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("gateway routing requires %v", e.Missing)
}

// Backend is the service a route forwards to.
type Backend struct {
	Service string
	Port    int
}

// CompileRoute builds the HTTPRoute for a deployment. It fails with a
// *PreconditionError when the gateway name or namespace is missing.
func CompileRoute(spec *deployment.Spec, provider string, backend Backend) (manifest.Document, error) {
	var missing []string
	if spec.GatewayName == "" {
		missing = append(missing, "gatewayName")
	}
	if spec.GatewayNamespace == "" {
		missing = append(missing, "gatewayNamespace")
	}
	if len(missing) > 0 {
		return nil, &PreconditionError{Missing: missing}
	}

	route := &gatewayv1.HTTPRoute{
		TypeMeta: metav1.TypeMeta{
			APIVersion: gatewayv1.GroupVersion.String(),
			Kind:       "HTTPRoute",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      naming.HTTPRoute(spec.Name),
			Namespace: spec.Namespace,
			Labels: labels.NewLabelBuilder(spec.Name).
				WithProvider(provider).
				WithComponent("route").
				Build(),
		},
		Spec: gatewayv1.HTTPRouteSpec{
			CommonRouteSpec: gatewayv1.CommonRouteSpec{
				ParentRefs: []gatewayv1.ParentReference{{
					Name:      gatewayv1.ObjectName(spec.GatewayName),
					Namespace: ptr.To(gatewayv1.Namespace(spec.GatewayNamespace)),
				}},
			},
			Rules: []gatewayv1.HTTPRouteRule{{
				Matches: []gatewayv1.HTTPRouteMatch{{
					Path: &gatewayv1.HTTPPathMatch{
						Type:  ptr.To(gatewayv1.PathMatchPathPrefix),
						Value: ptr.To("/"),
					},
				}},
				BackendRefs: []gatewayv1.HTTPBackendRef{{
					BackendRef: gatewayv1.BackendRef{
						BackendObjectReference: gatewayv1.BackendObjectReference{
							Name: gatewayv1.ObjectName(backend.Service),
							Port: ptr.To(gatewayv1.PortNumber(backend.Port)),
						},
					},
				}},
			}},
		},
	}

	obj, err := runtime.DefaultUnstructuredConverter.ToUnstructured(route)
	if err != nil {
		return nil, fmt.Errorf("failed to convert HTTPRoute: %w", err)
	}
	delete(obj, "status")
	if metadata, ok := obj["metadata"].(map[string]any); ok {
		delete(metadata, "creationTimestamp")
	}
	return manifest.Document(obj), nil
}
