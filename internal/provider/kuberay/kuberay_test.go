package kuberay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/sozercan/kube-foundry-sub000/internal/deployment"
	"github.com/sozercan/kube-foundry-sub000/internal/manifest"
	"github.com/sozercan/kube-foundry-sub000/internal/versions"
)

var testVersions = versions.Static{versions.Ray: "2.49.1"}

func validSpec(t *testing.T, raw map[string]any) *deployment.Spec {
	t.Helper()
	res := deployment.Validate(raw, Profile())
	require.True(t, res.Valid, "errors: %v", res.Errors)
	return res.Spec
}

func compile(t *testing.T, raw map[string]any) manifest.Document {
	t.Helper()
	b, err := Compile(validSpec(t, raw), testVersions)
	require.NoError(t, err)
	return b.Primary
}

func serveConfig(t *testing.T, doc manifest.Document) manifest.Document {
	t.Helper()
	var out map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(doc.String("spec", "serveConfigV2")), &out))
	return out
}

func application(t *testing.T, doc manifest.Document) manifest.Document {
	t.Helper()
	apps := serveConfig(t, doc).Slice("applications")
	require.Len(t, apps, 1)
	app, ok := manifest.AsMap(apps[0])
	require.True(t, ok)
	return app
}

func TestProfile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     map[string]any
		wantErr string
	}{
		{"sglang rejected", map[string]any{"engine": "sglang"}, "engine"},
		{"tensor parallel zero", map[string]any{"parallelism": map[string]any{"tensorParallelSize": 0}}, "parallelism.tensorParallelSize"},
		{"pipeline parallel zero", map[string]any{"parallelism": map[string]any{"pipelineParallelSize": 0}}, "parallelism.pipelineParallelSize"},
		{"min replicas zero", map[string]any{"autoscaling": map[string]any{"minReplicas": 0}}, "autoscaling.minReplicas"},
		{"max over limit", map[string]any{"autoscaling": map[string]any{"minReplicas": 1, "maxReplicas": 11}}, "autoscaling.maxReplicas"},
		{"max below min", map[string]any{"autoscaling": map[string]any{"minReplicas": 4, "maxReplicas": 2}}, "autoscaling.maxReplicas"},
		{"autoscaling not an object", map[string]any{"autoscaling": "yes"}, "autoscaling"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			raw := map[string]any{"name": "demo", "modelId": "org/m"}
			for k, v := range tt.raw {
				raw[k] = v
			}
			res := deployment.Validate(raw, Profile())
			require.False(t, res.Valid)
			var paths []string
			for _, e := range res.Errors {
				paths = append(paths, e.Path)
			}
			assert.Contains(t, paths, tt.wantErr)
		})
	}
}

func TestProfile_Defaults(t *testing.T) {
	t.Parallel()

	spec := validSpec(t, map[string]any{
		"name":      "demo",
		"modelId":   "org/m",
		"replicas":  3,
		"resources": map[string]any{"gpu": 4},
	})
	require.NotNil(t, spec.Parallelism)
	assert.Equal(t, 4, spec.Parallelism.TensorParallelSize)
	assert.Equal(t, 1, spec.Parallelism.PipelineParallelSize)
	assert.Nil(t, spec.Autoscaling)
	assert.Equal(t, deployment.EngineVLLM, spec.Engine)

	spec = validSpec(t, map[string]any{
		"name":        "demo",
		"modelId":     "org/m",
		"replicas":    3,
		"autoscaling": map[string]any{"minReplicas": 2},
	})
	require.NotNil(t, spec.Autoscaling)
	assert.Equal(t, 2, spec.Autoscaling.MinReplicas)
	assert.Equal(t, 3, spec.Autoscaling.MaxReplicas)

	again := deployment.Validate(spec.ToRaw(), Profile())
	require.True(t, again.Valid)
	assert.Equal(t, spec, again.Spec)
}

func TestCompile_Aggregated(t *testing.T) {
	t.Parallel()

	doc := compile(t, map[string]any{
		"name":            "demo",
		"namespace":       "ns",
		"modelId":         "Qwen/Qwen3-0.6B",
		"servedModelName": "qwen",
		"replicas":        2,
		"resources":       map[string]any{"gpu": 2, "memory": "64Gi"},
		"hfTokenSecret":   "hf-token",
		"contextLength":   8192,
		"engineArgs":      map[string]any{"max-num-seqs": 64, "enforceEager": false},
		"autoscaling":     map[string]any{"minReplicas": 1, "maxReplicas": 4},
	})

	assert.Equal(t, APIVersion, doc.String("apiVersion"))
	assert.Equal(t, Kind, doc.Kind())

	app := application(t, doc)
	assert.Equal(t, ApplicationName, app.String("name"))
	assert.Equal(t, importAggregated, app.String("import_path"))

	configs := app.Slice("args", "llm_configs")
	require.Len(t, configs, 1)
	cfg, _ := manifest.AsMap(configs[0])
	llm := manifest.Document(cfg)

	assert.Equal(t, "qwen", llm.String("model_loading_config", "model_id"))
	assert.Equal(t, "Qwen/Qwen3-0.6B", llm.String("model_loading_config", "model_source"))

	tp, _ := llm.Int("engine_kwargs", "tensor_parallel_size")
	assert.Equal(t, 2, tp)
	maxLen, _ := llm.Int("engine_kwargs", "max_model_len")
	assert.Equal(t, 8192, maxLen)
	seqs, _ := llm.Int("engine_kwargs", "max_num_seqs")
	assert.Equal(t, 64, seqs)
	assert.False(t, llm.Bool("engine_kwargs", "enforce_eager"), "engine args override canonical flags")

	minR, _ := llm.Int("deployment_config", "autoscaling_config", "min_replicas")
	maxR, _ := llm.Int("deployment_config", "autoscaling_config", "max_replicas")
	assert.Equal(t, 1, minR)
	assert.Equal(t, 4, maxR)

	assert.Equal(t, "2.49.1", doc.String("spec", "rayClusterConfig", "rayVersion"))
	assert.Equal(t, "0", doc.String("spec", "rayClusterConfig", "headGroupSpec", "rayStartParams", "num-gpus"))
	assert.True(t, doc.Bool("spec", "rayClusterConfig", "enableInTreeAutoscaling"))

	groups := doc.Slice("spec", "rayClusterConfig", "workerGroupSpecs")
	require.Len(t, groups, 1)
	g, _ := manifest.AsMap(groups[0])
	group := manifest.Document(g)
	assert.Equal(t, groupAggregated, group.String("groupName"))
	replicas, _ := group.Int("replicas")
	assert.Equal(t, 2, replicas)
	maxGroup, _ := group.Int("maxReplicas")
	assert.Equal(t, 4, maxGroup)

	containers := group.Slice("template", "spec", "containers")
	require.Len(t, containers, 1)
	c, _ := manifest.AsMap(containers[0])
	container := manifest.Document(c)
	assert.Equal(t, "rayproject/ray-llm:2.49.1-py311-cu128", container.String("image"))
	assert.Equal(t, "2", container.String("resources", "limits", manifest.ResourceGPU))
	assert.Equal(t, container.Map("resources", "limits"), container.Map("resources", "requests"))

	env := container.Slice("env")
	require.Len(t, env, 1)
	e, _ := manifest.AsMap(env[0])
	assert.Equal(t, manifest.HFTokenKey, e["name"])
	assert.Equal(t, "hf-token", manifest.Document(e).String("valueFrom", "secretKeyRef", "name"))
}

func TestCompile_Disaggregated(t *testing.T) {
	t.Parallel()

	doc := compile(t, map[string]any{
		"name":            "demo",
		"modelId":         "org/m",
		"mode":            "disaggregated",
		"prefillReplicas": 2,
		"decodeReplicas":  3,
		"decodeGpus":      2,
	})

	app := application(t, doc)
	assert.Equal(t, importDisaggregated, app.String("import_path"))
	assert.Equal(t, kvConnector, app.String("args", "prefill_config", "engine_kwargs", "kv_transfer_config", "kv_connector"))
	assert.Equal(t, kvProducer, app.String("args", "prefill_config", "engine_kwargs", "kv_transfer_config", "kv_role"))
	assert.Equal(t, kvConsumer, app.String("args", "decode_config", "engine_kwargs", "kv_transfer_config", "kv_role"))

	marker, ok := app.Int("args", "prefill_config", "deployment_config", "ray_actor_options", "resources", markerPrefill)
	require.True(t, ok)
	assert.Equal(t, 1, marker)
	tp, _ := app.Int("args", "decode_config", "engine_kwargs", "tensor_parallel_size")
	assert.Equal(t, 2, tp)

	groups := doc.Slice("spec", "rayClusterConfig", "workerGroupSpecs")
	require.Len(t, groups, 2)
	prefill, _ := manifest.AsMap(groups[0])
	decode, _ := manifest.AsMap(groups[1])
	assert.Equal(t, groupPrefill, prefill["groupName"])
	assert.Equal(t, groupDecode, decode["groupName"])
	assert.Contains(t, manifest.Document(prefill).String("rayStartParams", "resources"), markerPrefill)
}

func TestCompile_GatewayRoute(t *testing.T) {
	t.Parallel()

	b, err := Compile(validSpec(t, map[string]any{
		"name":                 "demo",
		"modelId":              "org/m",
		"enableGatewayRouting": true,
		"gatewayName":          "gw",
		"gatewayNamespace":     "gw-system",
	}), testVersions)
	require.NoError(t, err)
	require.Len(t, b.Auxiliary, 1)

	rule, _ := manifest.AsMap(b.Auxiliary[0].Slice("spec", "rules")[0])
	refs, _ := manifest.AsSlice(rule["backendRefs"])
	ref, _ := manifest.AsMap(refs[0])
	assert.Equal(t, "demo-serve-svc", ref["name"])
}

func TestParse_RoundTrip(t *testing.T) {
	t.Parallel()

	doc := compile(t, map[string]any{
		"name":            "demo",
		"namespace":       "ns",
		"modelId":         "org/m",
		"servedModelName": "alias",
		"mode":            "disaggregated",
		"prefillReplicas": 2,
		"decodeReplicas":  3,
	})

	st := Parse(doc, nil)
	assert.Equal(t, "demo", st.Name)
	assert.Equal(t, "ns", st.Namespace)
	assert.Equal(t, "org/m", st.ModelID)
	assert.Equal(t, "alias", st.ServedModelName)
	assert.Equal(t, deployment.EngineVLLM, st.Engine)
	assert.Equal(t, deployment.ModeDisaggregated, st.Mode)
	assert.Equal(t, Name, st.Provider)
	assert.Equal(t, "demo-serve-svc", st.FrontendService)
	assert.Equal(t, deployment.PhasePending, st.Phase)
	assert.Equal(t, 5, st.Replicas.Desired)
	require.NotNil(t, st.PrefillReplicas)
	assert.Equal(t, 2, st.PrefillReplicas.Desired)
	assert.Equal(t, 3, st.DecodeReplicas.Desired)
}

func TestParse_TreeServeConfig(t *testing.T) {
	t.Parallel()

	doc := manifest.Document{
		"metadata": map[string]any{"name": "demo"},
		"spec": map[string]any{
			"serveConfigV2": map[string]any{
				"applications": []any{
					map[string]any{
						"import_path": importAggregated,
						"args": map[string]any{
							"llm_configs": []any{
								map[string]any{"model_loading_config": map[string]any{
									"model_id":     "alias",
									"model_source": "org/m",
								}},
							},
						},
					},
				},
			},
		},
	}

	st := Parse(doc, nil)
	assert.Equal(t, "org/m", st.ModelID)
	assert.Equal(t, "alias", st.ServedModelName)
	assert.Equal(t, deployment.ModeAggregated, st.Mode)
}

func TestParse_LiveStatus(t *testing.T) {
	t.Parallel()

	doc := compile(t, map[string]any{
		"name":            "demo",
		"modelId":         "org/m",
		"mode":            "disaggregated",
		"prefillReplicas": 2,
		"decodeReplicas":  2,
	})

	tests := []struct {
		name         string
		live         map[string]any
		phase        deployment.Phase
		ready        int
		prefillReady int
	}{
		{
			name:  "running service",
			live:  map[string]any{"serviceStatus": "Running"},
			phase: deployment.PhaseRunning, ready: 4, prefillReady: 2,
		},
		{
			name: "half of the cluster ready",
			live: map[string]any{
				"activeServiceStatus": map[string]any{
					"rayClusterStatus": map[string]any{
						"state":                 "ready",
						"desiredWorkerReplicas": 4,
						"readyWorkerReplicas":   2,
					},
				},
			},
			phase: deployment.PhaseRunning, ready: 2, prefillReady: 1,
		},
		{
			name: "application deploying",
			live: map[string]any{
				"activeServiceStatus": map[string]any{
					"applicationStatuses": map[string]any{
						"llm": map[string]any{"status": "DEPLOYING"},
					},
				},
			},
			phase: deployment.PhaseDeploying,
		},
		{
			name: "application failed",
			live: map[string]any{
				"activeServiceStatus": map[string]any{
					"applicationStatuses": map[string]any{
						"llm":   map[string]any{"status": "DEPLOY_FAILED"},
						"other": map[string]any{"status": "RUNNING"},
					},
				},
			},
			phase: deployment.PhaseFailed,
		},
		{
			name: "ready condition",
			live: map[string]any{
				"conditions": []any{map[string]any{"type": "Ready", "status": "True"}},
			},
			phase: deployment.PhaseRunning, ready: 4, prefillReady: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			st := Parse(doc, tt.live)
			assert.Equal(t, tt.phase, st.Phase)
			assert.Equal(t, tt.ready, st.Replicas.Ready)
			assert.Equal(t, tt.prefillReady, st.PrefillReplicas.Ready)
		})
	}
}

func TestCompile_EngineArgsMerge(t *testing.T) {
	t.Parallel()

	doc := compile(t, map[string]any{
		"name":    "demo",
		"modelId": "org/m",
		"engineArgs": map[string]any{
			"tensorParallelSize":     4,
			"gpu-memory-utilization": 0.85,
		},
	})

	cfg, ok := manifest.AsMap(application(t, doc).Slice("args", "llm_configs")[0])
	require.True(t, ok)
	llm := manifest.Document(cfg)

	tp, _ := llm.Int("engine_kwargs", "tensor_parallel_size")
	assert.Equal(t, 4, tp)
	util, ok := llm.Get("engine_kwargs", "gpu_memory_utilization")
	require.True(t, ok)
	assert.InDelta(t, 0.85, util, 1e-9)
}

func TestParse_InfersEngineFromGroupName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		group string
		want  deployment.Engine
	}{
		{"sglang-group", deployment.EngineSGLang},
		{"SGLang-Workers", deployment.EngineSGLang},
		{"gpu-group", deployment.EngineVLLM},
	}

	for _, tt := range tests {
		t.Run(tt.group, func(t *testing.T) {
			t.Parallel()
			doc := manifest.Document{
				"metadata": map[string]any{"name": "demo"},
				"spec": map[string]any{
					"rayClusterConfig": map[string]any{
						"workerGroupSpecs": []any{
							map[string]any{"groupName": tt.group, "replicas": int64(1)},
						},
					},
				},
			}
			assert.Equal(t, tt.want, Parse(doc, nil).Engine)
		})
	}
}
