package deployment

// Phase is the canonical lifecycle phase of a deployment.
type Phase string

const (
	PhasePending     Phase = "Pending"
	PhaseDeploying   Phase = "Deploying"
	PhaseRunning     Phase = "Running"
	PhaseFailed      Phase = "Failed"
	PhaseTerminating Phase = "Terminating"
)

// IsTerminal reports whether the phase will not change without intervention.
func (p Phase) IsTerminal() bool {
	return p == PhaseFailed
}

// ConditionStatus is the tri-state value of a condition.
type ConditionStatus string

const (
	ConditionTrue    ConditionStatus = "True"
	ConditionFalse   ConditionStatus = "False"
	ConditionUnknown ConditionStatus = "Unknown"
)

// Condition is one observation reported by the runtime.
type Condition struct {
	Type               string          `json:"type"`
	Status             ConditionStatus `json:"status"`
	Reason             string          `json:"reason,omitempty"`
	Message            string          `json:"message,omitempty"`
	LastTransitionTime string          `json:"lastTransitionTime,omitempty"`
}

// ReplicaStatus is the overall worker replica count.
type ReplicaStatus struct {
	Desired   int `json:"desired"`
	Ready     int `json:"ready"`
	Available int `json:"available"`
}

// RoleReplicas is the replica count of one disaggregated role.
type RoleReplicas struct {
	Desired int `json:"desired"`
	Ready   int `json:"ready"`
}

// Status is the canonical, provider-agnostic view of a deployed workload.
type Status struct {
	Name            string        `json:"name"`
	Namespace       string        `json:"namespace"`
	ModelID         string        `json:"modelId"`
	ServedModelName string        `json:"servedModelName,omitempty"`
	Engine          Engine        `json:"engine"`
	Mode            Mode          `json:"mode"`
	Provider        string        `json:"provider"`
	Phase           Phase         `json:"phase"`
	Replicas        ReplicaStatus `json:"replicas"`
	PrefillReplicas *RoleReplicas `json:"prefillReplicas,omitempty"`
	DecodeReplicas  *RoleReplicas `json:"decodeReplicas,omitempty"`
	FrontendService string        `json:"frontendService"`
	Conditions      []Condition   `json:"conditions"`
	CreatedAt       string        `json:"createdAt,omitempty"`
}
