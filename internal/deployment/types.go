// Package deployment defines the canonical, provider-agnostic deployment
// specification and status, and the validation that turns untyped input
// into a defaulted Spec.
package deployment

import "strings"

// Engine is an inference engine that serves the model.
type Engine string

const (
	// EngineVLLM is the vLLM engine.
	EngineVLLM Engine = "vllm"
	// EngineSGLang is the SGLang engine.
	EngineSGLang Engine = "sglang"
	// EngineTRTLLM is the TensorRT-LLM engine.
	EngineTRTLLM Engine = "trtllm"
	// EngineLlamaCpp is llama.cpp, only served by the KAITO runtime.
	EngineLlamaCpp Engine = "llamacpp"
)

// AllEngines returns every engine known to any provider, in inference order.
func AllEngines() []Engine {
	return []Engine{EngineVLLM, EngineSGLang, EngineTRTLLM, EngineLlamaCpp}
}

// IsValid returns true if the engine is a known engine.
func (e Engine) IsValid() bool {
	switch e {
	case EngineVLLM, EngineSGLang, EngineTRTLLM, EngineLlamaCpp:
		return true
	default:
		return false
	}
}

// Mode is the serving topology.
type Mode string

const (
	// ModeAggregated runs prefill and decode in one worker role.
	ModeAggregated Mode = "aggregated"
	// ModeDisaggregated runs prefill and decode as separately scaled roles.
	ModeDisaggregated Mode = "disaggregated"
)

// ValidModes returns all valid modes.
func ValidModes() []Mode {
	return []Mode{ModeAggregated, ModeDisaggregated}
}

// IsValid returns true if the mode is valid.
func (m Mode) IsValid() bool {
	return m == ModeAggregated || m == ModeDisaggregated
}

// RouterMode selects how the frontend routes requests to workers.
type RouterMode string

const (
	RouterModeNone       RouterMode = "none"
	RouterModeKV         RouterMode = "kv"
	RouterModeRoundRobin RouterMode = "round-robin"
)

// ValidRouterModes returns all valid router modes.
func ValidRouterModes() []RouterMode {
	return []RouterMode{RouterModeNone, RouterModeKV, RouterModeRoundRobin}
}

// IsValid returns true if the router mode is valid.
func (r RouterMode) IsValid() bool {
	switch r {
	case RouterModeNone, RouterModeKV, RouterModeRoundRobin:
		return true
	default:
		return false
	}
}

// ComputeType selects the node class for runtimes that can run on CPU.
type ComputeType string

const (
	ComputeGPU ComputeType = "gpu"
	ComputeCPU ComputeType = "cpu"
)

// Resources is the per-replica resource request of a worker.
type Resources struct {
	GPU    int    `json:"gpu" yaml:"gpu"`
	Memory string `json:"memory,omitempty" yaml:"memory,omitempty"`
}

// Parallelism holds model parallelism knobs of the Ray runtime.
type Parallelism struct {
	TensorParallelSize   int `json:"tensorParallelSize" yaml:"tensorParallelSize"`
	PipelineParallelSize int `json:"pipelineParallelSize" yaml:"pipelineParallelSize"`
}

// Autoscaling bounds the replica count of the Ray serve deployment.
type Autoscaling struct {
	MinReplicas int `json:"minReplicas" yaml:"minReplicas"`
	MaxReplicas int `json:"maxReplicas" yaml:"maxReplicas"`
}

// Spec is the validated, fully defaulted deployment specification shared by
// all providers. It is only produced by Validate.
type Spec struct {
	Name            string `json:"name"`
	Namespace       string `json:"namespace"`
	ModelID         string `json:"modelId"`
	ServedModelName string `json:"servedModelName,omitempty"`

	Engine     Engine     `json:"engine"`
	Mode       Mode       `json:"mode"`
	RouterMode RouterMode `json:"routerMode"`

	Replicas        int       `json:"replicas"`
	Resources       Resources `json:"resources"`
	PrefillReplicas int       `json:"prefillReplicas"`
	DecodeReplicas  int       `json:"decodeReplicas"`
	PrefillGPUs     int       `json:"prefillGpus"`
	DecodeGPUs      int       `json:"decodeGpus"`

	EnforceEager        bool           `json:"enforceEager"`
	EnablePrefixCaching bool           `json:"enablePrefixCaching"`
	TrustRemoteCode     bool           `json:"trustRemoteCode"`
	ContextLength       *int           `json:"contextLength,omitempty"`
	Gated               bool           `json:"gated,omitempty"`
	HFTokenSecret       string         `json:"hfTokenSecret,omitempty"`
	EngineArgs          map[string]any `json:"engineArgs,omitempty"`

	EnableGatewayRouting bool   `json:"enableGatewayRouting,omitempty"`
	GatewayName          string `json:"gatewayName,omitempty"`
	GatewayNamespace     string `json:"gatewayNamespace,omitempty"`

	// Ray runtime extensions.
	Parallelism *Parallelism `json:"parallelism,omitempty"`
	Autoscaling *Autoscaling `json:"autoscaling,omitempty"`

	// KAITO runtime extensions.
	ComputeType  ComputeType `json:"computeType,omitempty"`
	GGUFFile     string      `json:"ggufFile,omitempty"`
	InstanceType string      `json:"instanceType,omitempty"`
}

// IsDisaggregated reports whether the spec asks for separate prefill and
// decode roles.
func (s *Spec) IsDisaggregated() bool {
	return s.Mode == ModeDisaggregated
}

// ServedName returns the public model alias, falling back to the model id.
func (s *Spec) ServedName() string {
	if s.ServedModelName != "" {
		return s.ServedModelName
	}
	return s.ModelID
}

// TotalReplicas returns the number of worker replicas across all roles.
func (s *Spec) TotalReplicas() int {
	if s.IsDisaggregated() {
		return s.PrefillReplicas + s.DecodeReplicas
	}
	return s.Replicas
}

// gatedOrgs are model organisations whose repositories require an access
// token to download.
var gatedOrgs = []string{"meta-llama", "mistralai", "google", "nvidia"}

// IsGatedModel reports whether a model id belongs to a known gated
// organisation.
func IsGatedModel(modelID string) bool {
	org, _, found := strings.Cut(modelID, "/")
	if !found {
		return false
	}
	for _, g := range gatedOrgs {
		if strings.EqualFold(org, g) {
			return true
		}
	}
	return false
}
