// Package dynamo compiles canonical deployments into DynamoGraphDeployment
// resources and parses them back into canonical status.
package dynamo

import (
	"fmt"

	"github.com/ettle/strcase"

	"github.com/sozercan/kube-foundry-sub000/internal/deployment"
	"github.com/sozercan/kube-foundry-sub000/internal/gateway"
	"github.com/sozercan/kube-foundry-sub000/internal/manifest"
	"github.com/sozercan/kube-foundry-sub000/internal/util/labels"
	"github.com/sozercan/kube-foundry-sub000/internal/util/naming"
	"github.com/sozercan/kube-foundry-sub000/internal/versions"
)

const (
	// Name is the provider key.
	Name = "dynamo"

	APIVersion = "nvidia.com/v1alpha1"
	Kind       = "DynamoGraphDeployment"

	// FrontendRole is the service name of the HTTP frontend.
	FrontendRole = "Frontend"

	componentFrontend   = "frontend"
	componentWorker     = "worker"
	subComponentPrefill = "prefill"
	subComponentDecode  = "decode"

	imageRegistry = "nvcr.io/nvidia/ai-dynamo"
)

// Profile returns the validation profile of the Dynamo runtime.
func Profile() deployment.Profile {
	return deployment.DefaultProfile()
}

// WorkerRole returns the aggregated worker service name, e.g. VllmWorker.
func WorkerRole(engine deployment.Engine) string {
	return strcase.ToPascal(string(engine)) + "Worker"
}

// PrefillRole returns the prefill worker service name, e.g. VllmPrefillWorker.
func PrefillRole(engine deployment.Engine) string {
	return strcase.ToPascal(string(engine)) + "PrefillWorker"
}

// DecodeRole returns the decode worker service name, e.g. VllmDecodeWorker.
func DecodeRole(engine deployment.Engine) string {
	return strcase.ToPascal(string(engine)) + "DecodeWorker"
}

// Image returns the runtime image of an engine.
func Image(engine deployment.Engine, version string) string {
	runtime := string(engine)
	if engine == deployment.EngineTRTLLM {
		runtime = "tensorrtllm"
	}
	return fmt.Sprintf("%s/%s-runtime:%s", imageRegistry, runtime, version)
}

// Compile builds the DynamoGraphDeployment for a validated spec, plus an
// HTTPRoute when gateway routing is enabled.
func Compile(spec *deployment.Spec, v versions.Lookup) (*manifest.Bundle, error) {
	hash, err := spec.Hash()
	if err != nil {
		return nil, err
	}
	version := v.Current(versions.Dynamo)

	doc := manifest.Object(APIVersion, Kind, spec.Name, spec.Namespace,
		labels.NewLabelBuilder(spec.Name).WithProvider(Name).Build(),
		map[string]string{labels.AnnotationSpecHash: hash},
	)

	services := manifest.Document{
		FrontendRole: buildFrontend(spec, version),
	}
	if spec.IsDisaggregated() {
		services[PrefillRole(spec.Engine)] = buildWorker(spec, version, subComponentPrefill, spec.PrefillReplicas, spec.PrefillGPUs)
		services[DecodeRole(spec.Engine)] = buildWorker(spec, version, subComponentDecode, spec.DecodeReplicas, spec.DecodeGPUs)
	} else {
		services[WorkerRole(spec.Engine)] = buildWorker(spec, version, "", spec.Replicas, spec.Resources.GPU)
	}

	doc["spec"] = manifest.Document{
		"backendFramework": string(spec.Engine),
		"services":         services,
	}

	bundle := &manifest.Bundle{Primary: doc}
	if spec.EnableGatewayRouting {
		route, err := gateway.CompileRoute(spec, Name, gateway.Backend{
			Service: naming.DynamoFrontend(spec.Name),
			Port:    naming.DynamoFrontendPort,
		})
		if err != nil {
			return nil, err
		}
		bundle.Add(route)
	}
	return bundle, nil
}

func buildFrontend(spec *deployment.Spec, version string) manifest.Document {
	cmd := manifest.NewCommand("python3", "-m", "dynamo.frontend").
		Value("http-port", naming.DynamoFrontendPort)

	switch {
	case spec.RouterMode != deployment.RouterModeNone:
		cmd.Value("router-mode", string(spec.RouterMode))
	case spec.IsDisaggregated():
		cmd.Value("router-mode", string(deployment.RouterModeRoundRobin))
	}

	svc := manifest.Document{
		"componentType":   componentFrontend,
		"dynamoNamespace": spec.Name,
		"replicas":        1,
		"extraPodSpec": manifest.Document{
			"mainContainer": mainContainer(spec.Engine, version, cmd),
		},
	}
	if spec.HFTokenSecret != "" {
		svc["envFromSecret"] = spec.HFTokenSecret
	}
	return svc
}

func buildWorker(spec *deployment.Spec, version, subComponent string, replicas, gpus int) manifest.Document {
	svc := manifest.Document{
		"componentType":   componentWorker,
		"dynamoNamespace": spec.Name,
		"replicas":        replicas,
		"resources":       manifest.ResourceRequirements("gpu", gpus, spec.Resources.Memory),
		"extraPodSpec": manifest.Document{
			"mainContainer": mainContainer(spec.Engine, version, workerCommand(spec, subComponent, gpus)),
		},
	}
	if subComponent != "" {
		svc["subComponentType"] = subComponent
	}
	if spec.HFTokenSecret != "" {
		svc["envFromSecret"] = spec.HFTokenSecret
	}
	return svc
}

func mainContainer(engine deployment.Engine, version string, cmd *manifest.Command) manifest.Document {
	return manifest.Document{
		"image":      Image(engine, version),
		"workingDir": "/workspace/components/backends/" + string(engine),
		"command":    []any{"/bin/sh", "-c"},
		"args":       []any{cmd.String()},
	}
}

// workerCommand renders the engine launch command. vLLM marks only the
// prefill role; SGLang and TensorRT-LLM mark both roles explicitly.
func workerCommand(spec *deployment.Spec, subComponent string, gpus int) *manifest.Command {
	cmd := manifest.NewCommand("python3", "-m", "dynamo."+string(spec.Engine))

	switch spec.Engine {
	case deployment.EngineSGLang:
		cmd.Value("model-path", spec.ModelID).
			Value("served-model-name", spec.ServedName()).
			FlagIf(spec.EnforceEager, "disable-cuda-graph").
			FlagIf(!spec.EnablePrefixCaching, "disable-radix-cache").
			FlagIf(spec.TrustRemoteCode, "trust-remote-code")
		if spec.ContextLength != nil {
			cmd.Value("context-length", *spec.ContextLength)
		}
		if gpus > 1 {
			cmd.Value("tp", gpus)
		}
		if subComponent != "" {
			cmd.Value("disaggregation-mode", subComponent).
				Value("disaggregation-transfer-backend", "nixl")
		}

	case deployment.EngineTRTLLM:
		cmd.Value("model-path", spec.ModelID).
			Value("served-model-name", spec.ServedName())
		if spec.ContextLength != nil {
			cmd.Value("max-seq-len", *spec.ContextLength)
		}
		if gpus > 1 {
			cmd.Value("tensor-parallel-size", gpus)
		}
		if subComponent != "" {
			cmd.Value("disaggregation-mode", subComponent)
		}

	default:
		cmd.Value("model", spec.ModelID).
			Value("served-model-name", spec.ServedName()).
			FlagIf(spec.EnforceEager, "enforce-eager").
			FlagIf(spec.EnablePrefixCaching, "enable-prefix-caching").
			FlagIf(spec.TrustRemoteCode, "trust-remote-code")
		if spec.ContextLength != nil {
			cmd.Value("max-model-len", *spec.ContextLength)
		}
		if gpus > 1 {
			cmd.Value("tensor-parallel-size", gpus)
		}
		cmd.FlagIf(subComponent == subComponentPrefill, "is-prefill-worker")
	}

	return cmd.EngineArgs(spec.EngineArgs)
}
