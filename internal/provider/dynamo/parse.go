package dynamo

import (
	"strings"

	"github.com/sozercan/kube-foundry-sub000/internal/deployment"
	"github.com/sozercan/kube-foundry-sub000/internal/manifest"
	"github.com/sozercan/kube-foundry-sub000/internal/normalize"
	"github.com/sozercan/kube-foundry-sub000/internal/util/naming"
)

// specFields are keys under spec that never hold a role in either shape.
var specFields = map[string]bool{
	"services":         true,
	"envs":             true,
	"backendFramework": true,
	"pvcs":             true,
	"annotations":      true,
	"labels":           true,
}

// states is the DynamoGraphDeployment state vocabulary that differs from
// the shared one. The operator reports "pending" while a rollout is in
// progress, after the graph has been accepted.
var states = map[string]deployment.Phase{
	"pending": deployment.PhaseDeploying,
}

// Parse reconstructs the canonical status from a DynamoGraphDeployment.
// live is the status subtree of the cluster object; when nil the document's
// own status is used. Missing fields degrade to defaults.
func Parse(doc manifest.Document, live map[string]any) deployment.Status {
	name, namespace, createdAt, deleting := normalize.Metadata(doc)
	if live == nil {
		live = doc.Map("status")
	}
	st := manifest.Document(live)

	roles := normalize.MergeRoles(doc.Map("spec", "services"), legacyRoles(doc.Map("spec")))

	engine := deployment.Engine(doc.String("spec", "backendFramework"))
	if !engine.IsValid() {
		engine = normalize.InferEngine(workerNames(roles), deployment.EngineVLLM)
	}

	conditions := normalize.ParseConditions(st["conditions"])
	phase := normalize.ResolvePhase(normalize.Evidence{
		State:      st.String("state"),
		States:     states,
		Phase:      st.String("phase"),
		Conditions: conditions,
		Deleting:   deleting,
	})

	status := deployment.Status{
		Name:            name,
		Namespace:       namespace,
		Engine:          engine,
		Mode:            deployment.ModeAggregated,
		Provider:        Name,
		Phase:           phase,
		FrontendService: naming.DynamoFrontend(name),
		Conditions:      conditions,
		CreatedAt:       createdAt,
	}
	status.ModelID, status.ServedModelName = modelFromRoles(roles)

	readyOf := func(role string, desired int) int {
		if n, ok := st.Int("services", role, "readyReplicas"); ok {
			return n
		}
		if phase == deployment.PhaseRunning {
			return desired
		}
		return 0
	}

	var prefill, decode *deployment.RoleReplicas
	desired, ready := 0, 0
	for _, roleName := range roles.Names() {
		role := roles[roleName]
		kind := classify(roleName, role)
		if kind == componentFrontend {
			continue
		}
		n := roleReplicas(role)
		r := readyOf(roleName, n)
		desired += n
		ready += r
		switch kind {
		case subComponentPrefill:
			prefill = addRole(prefill, n, r)
		case subComponentDecode:
			decode = addRole(decode, n, r)
		}
	}

	if prefill != nil && decode != nil {
		status.Mode = deployment.ModeDisaggregated
		status.PrefillReplicas = prefill
		status.DecodeReplicas = decode
	}
	status.Replicas = normalize.Replicas(desired, ready)
	return status
}

// legacyRoles adapts early documents that placed roles directly under spec.
func legacyRoles(spec map[string]any) map[string]any {
	out := map[string]any{}
	for key, v := range spec {
		if specFields[key] {
			continue
		}
		m, ok := manifest.AsMap(v)
		if !ok {
			continue
		}
		role := manifest.Document(m)
		if _, ok := role.Get("extraPodSpec"); ok {
			out[key] = m
			continue
		}
		if _, ok := role.Get("replicas"); ok {
			out[key] = m
			continue
		}
		if role.String("componentType") != "" {
			out[key] = m
		}
	}
	return out
}

func classify(name string, role manifest.Document) string {
	lower := strings.ToLower(name)
	switch {
	case role.String("componentType") == componentFrontend, strings.Contains(lower, componentFrontend):
		return componentFrontend
	case role.String("subComponentType") == subComponentPrefill, strings.Contains(lower, subComponentPrefill):
		return subComponentPrefill
	case role.String("subComponentType") == subComponentDecode, strings.Contains(lower, subComponentDecode):
		return subComponentDecode
	default:
		return componentWorker
	}
}

func workerNames(roles normalize.Roles) []string {
	var names []string
	for _, n := range roles.Names() {
		if classify(n, roles[n]) != componentFrontend {
			names = append(names, n)
		}
	}
	return names
}

func modelFromRoles(roles normalize.Roles) (modelID, served string) {
	for _, n := range workerNames(roles) {
		container := manifest.Document(roles[n].Map("extraPodSpec", "mainContainer"))
		line := normalize.CommandLine(container["command"], container["args"])
		modelID, served = normalize.ModelFlags(line)
		if modelID != "" {
			return modelID, served
		}
	}
	return "", ""
}

func roleReplicas(role manifest.Document) int {
	if n, ok := role.Int("replicas"); ok {
		return n
	}
	return 1
}

func addRole(acc *deployment.RoleReplicas, desired, ready int) *deployment.RoleReplicas {
	if acc == nil {
		acc = &deployment.RoleReplicas{}
	}
	acc.Desired += desired
	acc.Ready += ready
	return acc
}
