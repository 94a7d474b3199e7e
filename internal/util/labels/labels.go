package labels

// Standard label keys.
const (
	// KeyName is the recommended application name label.
	KeyName = "app.kubernetes.io/name"

	// KeyInstance is the recommended instance label.
	KeyInstance = "app.kubernetes.io/instance"

	// KeyComponent identifies the role of a resource within a deployment
	KeyComponent = "app.kubernetes.io/component"

	// KeyManagedBy identifies the management system
	KeyManagedBy = "app.kubernetes.io/managed-by"

	// KeyProvider identifies the inference runtime
	KeyProvider = "kubefoundry.io/provider"

	// KeyDeployment identifies the canonical deployment
	KeyDeployment = "kubefoundry.io/deployment"

	// AnnotationSpecHash holds the hash of the spec a resource was compiled from.
	AnnotationSpecHash = "kubefoundry.io/spec-hash"
)

// ManagedBy values
const (
	ManagedByKubeFoundry = "kubefoundry"
)

// LabelBuilder provides a fluent interface for building resource labels.
type LabelBuilder struct {
	labels map[string]string
}

// NewLabelBuilder creates a new label builder with the deployment name pre-set.
func NewLabelBuilder(deploymentName string) *LabelBuilder {
	return &LabelBuilder{
		labels: map[string]string{
			KeyName:       deploymentName,
			KeyInstance:   deploymentName,
			KeyDeployment: deploymentName,
			KeyManagedBy:  ManagedByKubeFoundry,
		},
	}
}

// WithProvider adds the provider label (e.g., "dynamo", "kaito").
func (lb *LabelBuilder) WithProvider(provider string) *LabelBuilder {
	lb.labels[KeyProvider] = provider
	return lb
}

// WithComponent adds a component label (e.g., "frontend", "route").
func (lb *LabelBuilder) WithComponent(component string) *LabelBuilder {
	lb.labels[KeyComponent] = component
	return lb
}

// Build returns a copy of the labels map.
func (lb *LabelBuilder) Build() map[string]string {
	result := make(map[string]string, len(lb.labels))
	for k, v := range lb.labels {
		result[k] = v
	}
	return result
}
