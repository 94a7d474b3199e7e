package kaito

import (
	"strings"

	"k8s.io/apimachinery/pkg/util/validation/field"

	"github.com/sozercan/kube-foundry-sub000/internal/deployment"
)

// Profile returns the validation profile of the KAITO runtime. llama.cpp is
// the default engine and disaggregation is not supported.
func Profile() deployment.Profile {
	return deployment.Profile{
		Engines:        []deployment.Engine{deployment.EngineLlamaCpp, deployment.EngineVLLM},
		Disaggregation: false,
		Rules:          []deployment.Rule{validateCompute, validateModelSource},
	}
}

func validateCompute(r *deployment.Reader, spec *deployment.Spec) {
	spec.ComputeType = deployment.ComputeType(r.String("computeType", string(deployment.ComputeGPU)))
	switch spec.ComputeType {
	case deployment.ComputeGPU, deployment.ComputeCPU:
	default:
		r.Add(field.NotSupported(r.Path("computeType"), spec.ComputeType,
			[]deployment.ComputeType{deployment.ComputeGPU, deployment.ComputeCPU}))
	}
	if spec.Engine == deployment.EngineVLLM && spec.ComputeType == deployment.ComputeCPU {
		r.Add(field.Invalid(r.Path("computeType"), spec.ComputeType, "vllm requires gpu compute"))
	}
	spec.InstanceType = r.String("instanceType", "")
}

func validateModelSource(r *deployment.Reader, spec *deployment.Spec) {
	spec.GGUFFile = r.String("ggufFile", "")
	switch {
	case spec.GGUFFile == "":
	case !strings.HasSuffix(strings.ToLower(spec.GGUFFile), ".gguf"):
		r.Add(field.Invalid(r.Path("ggufFile"), spec.GGUFFile, "must name a .gguf file"))
	case strings.Contains(spec.GGUFFile, "/"):
		r.Add(field.Invalid(r.Path("ggufFile"), spec.GGUFFile, "must be a file name without directories"))
	}
	if spec.Engine != deployment.EngineLlamaCpp || spec.GGUFFile != "" {
		return
	}
	m, ok := LookupPremade(spec.ModelID)
	switch {
	case ok:
		// Premade images are identified by the catalog id.
		spec.ModelID = m.ModelID
	case spec.ModelID != "":
		r.Add(field.Required(r.Path("ggufFile"), "required for llama.cpp models outside the premade catalog"))
	}
}
