// Package kaito compiles canonical deployments into KAITO Workspace resources
// and parses them back into canonical status.
package kaito

import (
	"fmt"

	"github.com/sozercan/kube-foundry-sub000/internal/deployment"
	"github.com/sozercan/kube-foundry-sub000/internal/gateway"
	"github.com/sozercan/kube-foundry-sub000/internal/manifest"
	"github.com/sozercan/kube-foundry-sub000/internal/util/labels"
	"github.com/sozercan/kube-foundry-sub000/internal/util/naming"
	"github.com/sozercan/kube-foundry-sub000/internal/versions"
)

const (
	// Name is the provider key.
	Name = "kaito"

	APIVersion = "kaito.sh/v1beta1"
	Kind       = "Workspace"

	// WorkspaceLabel is set by KAITO on every inference pod.
	WorkspaceLabel = "kaito.sh/workspace"

	baseImageRepository = "mcr.microsoft.com/aks/kaito/kaito-base"
	runnerRepository    = imageRepository + "/runners"

	llamaCppContainerPort = 8080
)

// Strategy is how the inference container is produced.
type Strategy string

const (
	// StrategyPremade uses an AIKit image with the weights baked in.
	StrategyPremade Strategy = "premade"
	// StrategyRunner downloads a GGUF file into a llama.cpp runner image.
	StrategyRunner Strategy = "runner"
	// StrategyVLLM runs vLLM from the KAITO base image.
	StrategyVLLM Strategy = "vllm"
)

// StrategyFor selects the container strategy of a validated spec.
func StrategyFor(spec *deployment.Spec) Strategy {
	if spec.Engine == deployment.EngineVLLM {
		return StrategyVLLM
	}
	if _, ok := LookupPremade(spec.ModelID); ok && spec.GGUFFile == "" {
		return StrategyPremade
	}
	return StrategyRunner
}

// FrontendService returns the service that serves the model.
func FrontendService(name string, engine deployment.Engine) string {
	if engine == deployment.EngineVLLM {
		return naming.KAITOVLLMService(name)
	}
	return naming.KAITOService(name)
}

// FrontendPort returns the port of the frontend service.
func FrontendPort(engine deployment.Engine) int {
	if engine == deployment.EngineVLLM {
		return naming.KAITOVLLMPort
	}
	return naming.KAITOLlamaCppPort
}

// Compile builds the Workspace for a validated spec. vLLM workspaces get an
// extra Service; gateway routing adds an HTTPRoute.
func Compile(spec *deployment.Spec, v versions.Lookup) (*manifest.Bundle, error) {
	hash, err := spec.Hash()
	if err != nil {
		return nil, err
	}

	doc := manifest.Object(APIVersion, Kind, spec.Name, spec.Namespace,
		labels.NewLabelBuilder(spec.Name).WithProvider(Name).Build(),
		map[string]string{labels.AnnotationSpecHash: hash},
	)

	res := manifest.Document{
		"count":         spec.Replicas,
		"labelSelector": manifest.NodeSelector(nodeLabels(spec.ComputeType)),
	}
	if spec.InstanceType != "" {
		res["instanceType"] = spec.InstanceType
	}
	doc["resource"] = res

	strategy := StrategyFor(spec)
	var container manifest.Document
	switch strategy {
	case StrategyPremade:
		container = premadeContainer(spec)
	case StrategyRunner:
		container = runnerContainer(spec, v.Current(versions.AIKit))
	default:
		container = vllmContainer(spec, v.Current(versions.KAITO))
	}
	container["resources"] = manifest.ResourceRequirements(manifest.ResourceGPU, gpuCount(spec), spec.Resources.Memory)
	if env := manifest.SecretEnv(spec.HFTokenSecret); env != nil {
		container["env"] = env
	}

	doc["inference"] = manifest.Document{
		"template": manifest.Document{
			"spec": manifest.Document{"containers": []any{container}},
		},
	}

	bundle := &manifest.Bundle{Primary: doc}
	if strategy == StrategyVLLM {
		bundle.Add(vllmService(spec))
	}
	if spec.EnableGatewayRouting {
		route, err := gateway.CompileRoute(spec, Name, gateway.Backend{
			Service: FrontendService(spec.Name, spec.Engine),
			Port:    FrontendPort(spec.Engine),
		})
		if err != nil {
			return nil, err
		}
		bundle.Add(route)
	}
	return bundle, nil
}

func nodeLabels(compute deployment.ComputeType) map[string]string {
	if compute == deployment.ComputeCPU {
		return map[string]string{"kubernetes.io/os": "linux"}
	}
	return map[string]string{"nvidia.com/gpu.present": "true"}
}

func gpuCount(spec *deployment.Spec) int {
	if spec.ComputeType == deployment.ComputeCPU {
		return 0
	}
	return spec.Resources.GPU
}

func premadeContainer(spec *deployment.Spec) manifest.Document {
	m, _ := LookupPremade(spec.ModelID)
	container := manifest.Document{
		"name":  string(deployment.EngineLlamaCpp),
		"image": m.Reference(),
		"ports": []any{manifest.Document{"containerPort": llamaCppContainerPort, "protocol": "TCP"}},
	}
	if flags := manifest.EngineArgFlags(spec.EngineArgs); len(flags) > 0 {
		args := make([]any, 0, len(flags))
		for _, f := range flags {
			args = append(args, f)
		}
		container["args"] = args
	}
	return container
}

func runnerContainer(spec *deployment.Spec, version string) manifest.Document {
	variant := "cuda"
	if spec.ComputeType == deployment.ComputeCPU {
		variant = "cpu"
	}

	args := []any{fmt.Sprintf("huggingface://%s/%s", spec.ModelID, spec.GGUFFile)}
	for _, a := range manifest.EngineArgFlags(spec.EngineArgs) {
		args = append(args, a)
	}

	return manifest.Document{
		"name":  string(deployment.EngineLlamaCpp),
		"image": fmt.Sprintf("%s/llama-cpp-%s:%s", runnerRepository, variant, version),
		"args":  args,
		"ports": []any{manifest.Document{"containerPort": llamaCppContainerPort, "protocol": "TCP"}},
	}
}

func vllmContainer(spec *deployment.Spec, version string) manifest.Document {
	cmd := manifest.NewCommand().
		Value("model", spec.ModelID).
		Value("served-model-name", spec.ServedName()).
		Value("host", "0.0.0.0").
		Value("port", naming.KAITOVLLMTargetPort).
		FlagIf(spec.EnforceEager, "enforce-eager").
		FlagIf(spec.EnablePrefixCaching, "enable-prefix-caching").
		FlagIf(spec.TrustRemoteCode, "trust-remote-code")
	if spec.ContextLength != nil {
		cmd.Value("max-model-len", *spec.ContextLength)
	}
	if spec.Resources.GPU > 1 {
		cmd.Value("tensor-parallel-size", spec.Resources.GPU)
	}
	cmd.EngineArgs(spec.EngineArgs)

	args := make([]any, 0, len(cmd.Args()))
	for _, a := range cmd.Args() {
		args = append(args, a)
	}

	return manifest.Document{
		"name":    string(deployment.EngineVLLM),
		"image":   fmt.Sprintf("%s:%s", baseImageRepository, version),
		"command": []any{"python3", "-m", "vllm.entrypoints.openai.api_server"},
		"args":    args,
		"ports":   []any{manifest.Document{"containerPort": naming.KAITOVLLMTargetPort, "protocol": "TCP"}},
	}
}

func vllmService(spec *deployment.Spec) manifest.Document {
	svc := manifest.Object("v1", "Service", naming.KAITOVLLMService(spec.Name), spec.Namespace,
		labels.NewLabelBuilder(spec.Name).WithProvider(Name).WithComponent("vllm").Build(), nil)
	svc["spec"] = manifest.Document{
		"type":     "ClusterIP",
		"selector": manifest.Document{WorkspaceLabel: spec.Name},
		"ports": []any{
			manifest.Document{
				"name":       "http",
				"port":       naming.KAITOVLLMPort,
				"targetPort": naming.KAITOVLLMTargetPort,
				"protocol":   "TCP",
			},
		},
	}
	return svc
}
