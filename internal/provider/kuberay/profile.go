package kuberay

import (
	"k8s.io/apimachinery/pkg/util/validation/field"

	"github.com/sozercan/kube-foundry-sub000/internal/deployment"
)

// Profile returns the validation profile of the Ray runtime. Only vLLM is
// served; parallelism and autoscaling are Ray specific.
func Profile() deployment.Profile {
	return deployment.Profile{
		Engines:        []deployment.Engine{deployment.EngineVLLM},
		Disaggregation: true,
		Rules:          []deployment.Rule{validateParallelism, validateAutoscaling},
	}
}

func validateParallelism(r *deployment.Reader, spec *deployment.Spec) {
	p := r.Child("parallelism")
	spec.Parallelism = &deployment.Parallelism{
		TensorParallelSize:   p.IntInRange("tensorParallelSize", spec.Resources.GPU, 1, 0),
		PipelineParallelSize: p.IntInRange("pipelineParallelSize", 1, 1, 0),
	}
}

func validateAutoscaling(r *deployment.Reader, spec *deployment.Spec) {
	if !r.Has("autoscaling") {
		return
	}
	a := r.Child("autoscaling")
	minReplicas := a.IntInRange("minReplicas", 1, 1, deployment.MaxReplicas)
	maxReplicas := a.IntInRange("maxReplicas", max(minReplicas, spec.Replicas), 1, deployment.MaxReplicas)
	if maxReplicas < minReplicas {
		r.Add(field.Invalid(a.Path("maxReplicas"), maxReplicas, "must be greater than or equal to minReplicas"))
	}
	spec.Autoscaling = &deployment.Autoscaling{MinReplicas: minReplicas, MaxReplicas: maxReplicas}
}
