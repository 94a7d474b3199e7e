// Package provider dispatches validation, compilation and status parsing to
// the runtime a deployment targets.
package provider

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/runtime/schema"

	"github.com/sozercan/kube-foundry-sub000/internal/deployment"
	"github.com/sozercan/kube-foundry-sub000/internal/manifest"
	"github.com/sozercan/kube-foundry-sub000/internal/provider/dynamo"
	"github.com/sozercan/kube-foundry-sub000/internal/provider/kaito"
	"github.com/sozercan/kube-foundry-sub000/internal/provider/kuberay"
	"github.com/sozercan/kube-foundry-sub000/internal/util/naming"
	"github.com/sozercan/kube-foundry-sub000/internal/versions"
)

// Provider is a supported serving runtime.
type Provider string

const (
	// Dynamo is NVIDIA Dynamo.
	Dynamo Provider = dynamo.Name
	// KubeRay is Ray Serve LLM on KubeRay.
	KubeRay Provider = kuberay.Name
	// KAITO is the Kubernetes AI Toolchain Operator.
	KAITO Provider = kaito.Name
)

// All returns every provider.
func All() []Provider {
	return []Provider{Dynamo, KubeRay, KAITO}
}

// IsValid returns true if the provider is known.
func (p Provider) IsValid() bool {
	switch p {
	case Dynamo, KubeRay, KAITO:
		return true
	default:
		return false
	}
}

// ParseName converts a user supplied name into a Provider.
func ParseName(s string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", fmt.Errorf("unknown provider %q (supported: %s)", s, strings.Join(names(), ", "))
	}
	return p, nil
}

func names() []string {
	out := make([]string, 0, len(All()))
	for _, p := range All() {
		out = append(out, string(p))
	}
	return out
}

// GroupVersionKind returns the custom resource type of a provider.
func (p Provider) GroupVersionKind() schema.GroupVersionKind {
	var apiVersion, kind string
	switch p {
	case Dynamo:
		apiVersion, kind = dynamo.APIVersion, dynamo.Kind
	case KubeRay:
		apiVersion, kind = kuberay.APIVersion, kuberay.Kind
	case KAITO:
		apiVersion, kind = kaito.APIVersion, kaito.Kind
	default:
		return schema.GroupVersionKind{}
	}
	return schema.FromAPIVersionAndKind(apiVersion, kind)
}

// ForDocument returns the provider owning a compiled document.
func ForDocument(doc manifest.Document) (Provider, bool) {
	gvk := schema.FromAPIVersionAndKind(doc.String("apiVersion"), doc.Kind())
	for _, p := range All() {
		if p.GroupVersionKind() == gvk {
			return p, true
		}
	}
	return "", false
}

// Profile returns the validation profile of a provider.
func Profile(p Provider) deployment.Profile {
	switch p {
	case KubeRay:
		return kuberay.Profile()
	case KAITO:
		return kaito.Profile()
	default:
		return dynamo.Profile()
	}
}

// Validate validates raw input against the base rules and the provider's
// own rules.
func Validate(p Provider, raw map[string]any) deployment.Result {
	return deployment.Validate(raw, Profile(p))
}

// Compile renders the resources of a validated spec.
func Compile(p Provider, spec *deployment.Spec, v versions.Lookup) (*manifest.Bundle, error) {
	var (
		bundle *manifest.Bundle
		err    error
	)
	switch p {
	case Dynamo:
		bundle, err = dynamo.Compile(spec, v)
	case KubeRay:
		bundle, err = kuberay.Compile(spec, v)
	case KAITO:
		bundle, err = kaito.Compile(spec, v)
	default:
		return nil, fmt.Errorf("unknown provider %q", p)
	}
	recordCompile(p, err)
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s deployment %q: %w", p, spec.Name, err)
	}
	return bundle, nil
}

// Parse reconstructs the canonical status of a provider document. It never
// fails; missing fields fall back to defaults.
func Parse(p Provider, doc manifest.Document, live map[string]any) deployment.Status {
	switch p {
	case KubeRay:
		return kuberay.Parse(doc, live)
	case KAITO:
		return kaito.Parse(doc, live)
	default:
		return dynamo.Parse(doc, live)
	}
}

// FrontendService returns the service that receives inference traffic.
func FrontendService(p Provider, name string, engine deployment.Engine) string {
	switch p {
	case KubeRay:
		return naming.RayServeService(name)
	case KAITO:
		return kaito.FrontendService(name, engine)
	default:
		return naming.DynamoFrontend(name)
	}
}

// FrontendPort returns the port of the frontend service.
func FrontendPort(p Provider, engine deployment.Engine) int {
	switch p {
	case KubeRay:
		return naming.RayServePort
	case KAITO:
		return kaito.FrontendPort(engine)
	default:
		return naming.DynamoFrontendPort
	}
}

// VersionKeys returns the version sources a provider's output depends on.
func VersionKeys(p Provider) []string {
	switch p {
	case KubeRay:
		return []string{versions.KubeRay, versions.Ray}
	case KAITO:
		return []string{versions.KAITO, versions.AIKit}
	default:
		return []string{versions.Dynamo}
	}
}
