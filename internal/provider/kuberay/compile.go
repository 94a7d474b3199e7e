// Package kuberay compiles canonical deployments into RayService resources
// running Ray Serve LLM, and parses them back into canonical status.
package kuberay

import (
	"fmt"

	"dario.cat/mergo"
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
	Name = "kuberay"

	APIVersion = "ray.io/v1"
	Kind       = "RayService"

	// ApplicationName is the Serve application holding the model.
	ApplicationName = "llm"

	importAggregated    = "ray.serve.llm:build_openai_app"
	importDisaggregated = "ray.serve.llm:build_pd_openai_app"

	groupAggregated = "gpu-group"
	groupPrefill    = "prefill-group"
	groupDecode     = "decode-group"

	markerPrefill = "prefill_node"
	markerDecode  = "decode_node"

	kvConnector = "NixlConnector"
	kvProducer  = "kv_producer"
	kvConsumer  = "kv_consumer"
)

// Image returns the Ray LLM image for a Ray release.
func Image(version string) string {
	return fmt.Sprintf("rayproject/ray-llm:%s-py311-cu128", version)
}

// role is one independently scaled set of Ray workers.
type role struct {
	group    string
	marker   string
	kvRole   string
	replicas int
	gpus     int
	scaling  deployment.Autoscaling
}

// Compile builds the RayService for a validated spec, plus an HTTPRoute when
// gateway routing is enabled.
func Compile(spec *deployment.Spec, v versions.Lookup) (*manifest.Bundle, error) {
	hash, err := spec.Hash()
	if err != nil {
		return nil, err
	}
	version := v.Current(versions.Ray)

	app, err := buildServeConfig(spec, roles(spec))
	if err != nil {
		return nil, err
	}
	serveConfig, err := app.ToYAML()
	if err != nil {
		return nil, fmt.Errorf("failed to render serve config: %w", err)
	}

	doc := manifest.Object(APIVersion, Kind, spec.Name, spec.Namespace,
		labels.NewLabelBuilder(spec.Name).WithProvider(Name).Build(),
		map[string]string{labels.AnnotationSpecHash: hash},
	)
	doc["spec"] = manifest.Document{
		"serveConfigV2":    string(serveConfig),
		"rayClusterConfig": buildCluster(spec, roles(spec), version),
	}

	bundle := &manifest.Bundle{Primary: doc}
	if spec.EnableGatewayRouting {
		route, err := gateway.CompileRoute(spec, Name, gateway.Backend{
			Service: naming.RayServeService(spec.Name),
			Port:    naming.RayServePort,
		})
		if err != nil {
			return nil, err
		}
		bundle.Add(route)
	}
	return bundle, nil
}

func roles(spec *deployment.Spec) []role {
	if spec.IsDisaggregated() {
		return []role{
			{
				group: groupPrefill, marker: markerPrefill, kvRole: kvProducer,
				replicas: spec.PrefillReplicas, gpus: spec.PrefillGPUs,
				scaling: fixedScaling(spec.PrefillReplicas),
			},
			{
				group: groupDecode, marker: markerDecode, kvRole: kvConsumer,
				replicas: spec.DecodeReplicas, gpus: spec.DecodeGPUs,
				scaling: fixedScaling(spec.DecodeReplicas),
			},
		}
	}
	scaling := fixedScaling(spec.Replicas)
	if spec.Autoscaling != nil {
		scaling = *spec.Autoscaling
	}
	return []role{{group: groupAggregated, replicas: spec.Replicas, gpus: spec.Resources.GPU, scaling: scaling}}
}

func fixedScaling(replicas int) deployment.Autoscaling {
	return deployment.Autoscaling{MinReplicas: replicas, MaxReplicas: replicas}
}

func buildServeConfig(spec *deployment.Spec, rs []role) (manifest.Document, error) {
	configs := make([]manifest.Document, 0, len(rs))
	for _, r := range rs {
		cfg, err := llmConfig(spec, r)
		if err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}

	app := manifest.Document{
		"name":         ApplicationName,
		"route_prefix": "/",
	}
	if spec.IsDisaggregated() {
		app["import_path"] = importDisaggregated
		app["args"] = manifest.Document{
			"prefill_config": configs[0],
			"decode_config":  configs[1],
		}
	} else {
		app["import_path"] = importAggregated
		app["args"] = manifest.Document{
			"llm_configs": []any{configs[0]},
		}
	}
	return manifest.Document{"applications": []any{app}}, nil
}

func llmConfig(spec *deployment.Spec, r role) (manifest.Document, error) {
	deploymentConfig := manifest.Document{
		"autoscaling_config": manifest.Document{
			"min_replicas": r.scaling.MinReplicas,
			"max_replicas": r.scaling.MaxReplicas,
		},
	}
	if r.marker != "" {
		deploymentConfig["ray_actor_options"] = manifest.Document{
			"resources": manifest.Document{r.marker: 1},
		}
	}

	kwargs, err := engineKwargs(spec, r)
	if err != nil {
		return nil, err
	}
	if r.kvRole != "" {
		kwargs["kv_transfer_config"] = map[string]any{
			"kv_connector": kvConnector,
			"kv_role":      r.kvRole,
		}
	}

	return manifest.Document{
		"model_loading_config": manifest.Document{
			"model_id":     spec.ServedName(),
			"model_source": spec.ModelID,
		},
		"engine_kwargs":     kwargs,
		"deployment_config": deploymentConfig,
	}, nil
}

// engineKwargs maps the canonical flags onto vLLM engine arguments. User
// engine args are snake cased and take precedence.
func engineKwargs(spec *deployment.Spec, r role) (map[string]any, error) {
	tp, pp := r.gpus, 1
	if spec.Parallelism != nil && !spec.IsDisaggregated() {
		tp = spec.Parallelism.TensorParallelSize
		pp = spec.Parallelism.PipelineParallelSize
	}

	kwargs := map[string]any{
		"tensor_parallel_size":   tp,
		"pipeline_parallel_size": pp,
		"enforce_eager":          spec.EnforceEager,
		"enable_prefix_caching":  spec.EnablePrefixCaching,
		"trust_remote_code":      spec.TrustRemoteCode,
	}
	if spec.ContextLength != nil {
		kwargs["max_model_len"] = *spec.ContextLength
	}

	if len(spec.EngineArgs) > 0 {
		extra := make(map[string]any, len(spec.EngineArgs))
		for k, v := range spec.EngineArgs {
			extra[strcase.ToSnake(k)] = v
		}
		if err := mergo.Merge(&kwargs, extra, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge engine args: %w", err)
		}
	}
	return kwargs, nil
}

func buildCluster(spec *deployment.Spec, rs []role, version string) manifest.Document {
	image := Image(version)
	env := manifest.SecretEnv(spec.HFTokenSecret)

	head := manifest.Document{
		"name":  "ray-head",
		"image": image,
		"ports": []any{
			manifest.Document{"name": "gcs", "containerPort": 6379},
			manifest.Document{"name": "dashboard", "containerPort": 8265},
			manifest.Document{"name": "client", "containerPort": 10001},
			manifest.Document{"name": "serve", "containerPort": naming.RayServePort},
		},
		"resources": manifest.Document{
			"requests": manifest.Document{"cpu": "4", "memory": "16Gi"},
			"limits":   manifest.Document{"cpu": "4", "memory": "16Gi"},
		},
	}
	if env != nil {
		head["env"] = env
	}

	groups := make([]any, 0, len(rs))
	for _, r := range rs {
		groups = append(groups, workerGroup(spec, r, image, env))
	}

	cluster := manifest.Document{
		"rayVersion": version,
		"headGroupSpec": manifest.Document{
			"rayStartParams": manifest.Document{
				"dashboard-host": "0.0.0.0",
				"num-gpus":       "0",
			},
			"template": manifest.Document{
				"spec": manifest.Document{"containers": []any{head}},
			},
		},
		"workerGroupSpecs": groups,
	}
	if spec.Autoscaling != nil && !spec.IsDisaggregated() {
		cluster["enableInTreeAutoscaling"] = true
	}
	return cluster
}

func workerGroup(spec *deployment.Spec, r role, image string, env []any) manifest.Document {
	container := manifest.Document{
		"name":      "ray-worker",
		"image":     image,
		"resources": manifest.ResourceRequirements(manifest.ResourceGPU, r.gpus, spec.Resources.Memory),
	}
	if env != nil {
		container["env"] = env
	}

	startParams := manifest.Document{}
	if r.marker != "" {
		startParams["resources"] = fmt.Sprintf(`"{\"%s\": 1}"`, r.marker)
	}

	return manifest.Document{
		"groupName":      r.group,
		"replicas":       r.replicas,
		"minReplicas":    r.scaling.MinReplicas,
		"maxReplicas":    r.scaling.MaxReplicas,
		"rayStartParams": startParams,
		"template": manifest.Document{
			"spec": manifest.Document{"containers": []any{container}},
		},
	}
}
