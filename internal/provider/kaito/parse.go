package kaito

import (
	"strings"

	"github.com/sozercan/kube-foundry-sub000/internal/deployment"
	"github.com/sozercan/kube-foundry-sub000/internal/manifest"
	"github.com/sozercan/kube-foundry-sub000/internal/normalize"
)

// Workspace condition types.
const (
	ConditionWorkspaceSucceeded = "WorkspaceSucceeded"
	ConditionInferenceReady     = "InferenceReady"
)

const runnerURIScheme = "huggingface://"

// Parse reconstructs the canonical status from a Workspace. live is the
// status subtree of the cluster object; when nil the document's own status
// is used.
func Parse(doc manifest.Document, live map[string]any) deployment.Status {
	name, namespace, createdAt, deleting := normalize.Metadata(doc)
	if live == nil {
		live = doc.Map("status")
	}
	st := manifest.Document(live)

	var container manifest.Document
	if containers := doc.Slice("inference", "template", "spec", "containers"); len(containers) > 0 {
		container, _ = manifest.AsMap(containers[0])
	}

	engine := deployment.Engine(container.String("name"))
	if !engine.IsValid() {
		engine = normalize.InferEngine([]string{container.String("name"), container.String("image")}, deployment.EngineLlamaCpp)
	}

	conditions := normalize.ParseConditions(st["conditions"])
	phase := normalize.ResolvePhase(normalize.Evidence{
		State:          workspaceState(conditions),
		Conditions:     conditions,
		ReadyCondition: ConditionInferenceReady,
		Deleting:       deleting,
	})

	desired, ok := doc.Int("resource", "count")
	if !ok {
		desired = 1
	}
	ready := 0
	if phase == deployment.PhaseRunning {
		ready = desired
	}

	status := deployment.Status{
		Name:            name,
		Namespace:       namespace,
		Engine:          engine,
		Mode:            deployment.ModeAggregated,
		Provider:        Name,
		Phase:           phase,
		Replicas:        normalize.Replicas(desired, ready),
		FrontendService: FrontendService(name, engine),
		Conditions:      conditions,
		CreatedAt:       createdAt,
	}
	status.ModelID, status.ServedModelName = modelFromContainer(container)
	return status
}

// workspaceState folds the two workspace conditions into a state string.
// A failed workspace reports WorkspaceSucceeded=False with a failure reason.
func workspaceState(conditions []deployment.Condition) string {
	succeeded := normalize.FindCondition(conditions, ConditionWorkspaceSucceeded)
	inference := normalize.FindCondition(conditions, ConditionInferenceReady)
	switch {
	case succeeded == nil:
		return ""
	case succeeded.Status == deployment.ConditionTrue &&
		inference != nil && inference.Status == deployment.ConditionTrue:
		return "running"
	case succeeded.Status == deployment.ConditionFalse &&
		strings.Contains(strings.ToLower(succeeded.Reason), "fail"):
		return "failed"
	default:
		return ""
	}
}

// runnerModel recovers the model id from a runner argument of the form
// huggingface://<model id>/<gguf file>. The file name never holds a slash.
func runnerModel(args any) string {
	items, _ := manifest.AsSlice(args)
	for _, item := range items {
		arg, ok := item.(string)
		if !ok {
			continue
		}
		rest, ok := strings.CutPrefix(arg, runnerURIScheme)
		if !ok {
			continue
		}
		if i := strings.LastIndex(rest, "/"); i > 0 {
			return rest[:i]
		}
	}
	return ""
}

func modelFromContainer(container manifest.Document) (modelID, served string) {
	line := normalize.CommandLine(container["command"], container["args"])
	if modelID, served = normalize.ModelFlags(line); modelID != "" {
		return modelID, served
	}
	if modelID := runnerModel(container["args"]); modelID != "" {
		return modelID, ""
	}
	if m, ok := ModelForImage(container.String("image")); ok {
		return m.ModelID, ""
	}
	return "", ""
}
