package kuberay

import (
	"regexp"
	"sort"

	"github.com/sozercan/kube-foundry-sub000/internal/deployment"
	"github.com/sozercan/kube-foundry-sub000/internal/manifest"
	"github.com/sozercan/kube-foundry-sub000/internal/normalize"
	"github.com/sozercan/kube-foundry-sub000/internal/util/naming"
)

var (
	modelSourceRe = regexp.MustCompile(`model_source:\s*['"]?([^\s'"]+)['"]?`)
	modelIDRe     = regexp.MustCompile(`model_id:\s*['"]?([^\s'"]+)['"]?`)
	pdImportRe    = regexp.MustCompile(`build_pd_openai_app`)
)

// Parse reconstructs the canonical status from a RayService. live is the
// status subtree of the cluster object; when nil the document's own status
// is used.
func Parse(doc manifest.Document, live map[string]any) deployment.Status {
	name, namespace, createdAt, deleting := normalize.Metadata(doc)
	if live == nil {
		live = doc.Map("status")
	}
	st := manifest.Document(live)

	blob := serveConfigText(doc)
	groups := workerGroups(doc)

	conditions := normalize.ParseConditions(st["conditions"])
	phase := normalize.ResolvePhase(normalize.Evidence{
		State:      serviceState(st),
		Phase:      st.String("activeServiceStatus", "rayClusterStatus", "state"),
		Conditions: conditions,
		Deleting:   deleting,
	})

	status := deployment.Status{
		Name:            name,
		Namespace:       namespace,
		ModelID:         firstMatch(modelSourceRe, blob),
		ServedModelName: firstMatch(modelIDRe, blob),
		Engine:          normalize.InferEngine(groupNames(groups), deployment.EngineVLLM),
		Mode:            deployment.ModeAggregated,
		Provider:        Name,
		Phase:           phase,
		FrontendService: naming.RayServeService(name),
		Conditions:      conditions,
		CreatedAt:       createdAt,
	}
	if status.ModelID == "" {
		status.ModelID = status.ServedModelName
	}

	desired := 0
	for _, g := range groups {
		desired += g.replicas
	}
	clusterDesired, ok := st.Int("activeServiceStatus", "rayClusterStatus", "desiredWorkerReplicas")
	if !ok {
		clusterDesired = desired
	}
	clusterReady, ok := st.Int("activeServiceStatus", "rayClusterStatus", "readyWorkerReplicas")
	if !ok {
		clusterReady = 0
		if phase == deployment.PhaseRunning {
			clusterReady = clusterDesired
		}
	}

	ready := 0
	var prefill, decode *deployment.RoleReplicas
	for _, g := range groups {
		r := normalize.EstimateReady(g.replicas, clusterReady, clusterDesired)
		ready += r
		switch g.name {
		case groupPrefill:
			prefill = &deployment.RoleReplicas{Desired: g.replicas, Ready: r}
		case groupDecode:
			decode = &deployment.RoleReplicas{Desired: g.replicas, Ready: r}
		}
	}

	if pdImportRe.MatchString(blob) || (prefill != nil && decode != nil) {
		status.Mode = deployment.ModeDisaggregated
		if prefill == nil {
			prefill = &deployment.RoleReplicas{}
		}
		if decode == nil {
			decode = &deployment.RoleReplicas{}
		}
		status.PrefillReplicas = prefill
		status.DecodeReplicas = decode
	}
	status.Replicas = normalize.Replicas(desired, ready)
	return status
}

type group struct {
	name     string
	replicas int
}

func workerGroups(doc manifest.Document) []group {
	var out []group
	for _, item := range doc.Slice("spec", "rayClusterConfig", "workerGroupSpecs") {
		m, ok := manifest.AsMap(item)
		if !ok {
			continue
		}
		g := manifest.Document(m)
		n, ok := g.Int("replicas")
		if !ok {
			n = 1
		}
		out = append(out, group{name: g.String("groupName"), replicas: n})
	}
	return out
}

func groupNames(groups []group) []string {
	names := make([]string, 0, len(groups))
	for _, g := range groups {
		names = append(names, g.name)
	}
	return names
}

// serveConfigText returns the serve config as YAML text. Older documents
// store it as a tree rather than a string.
func serveConfigText(doc manifest.Document) string {
	raw, ok := doc.Get("spec", "serveConfigV2")
	if !ok {
		return ""
	}
	if s, ok := raw.(string); ok {
		return s
	}
	m, ok := manifest.AsMap(raw)
	if !ok {
		return ""
	}
	out, err := manifest.Document(m).ToYAML()
	if err != nil {
		return ""
	}
	return string(out)
}

// serviceState returns the service status, or the least healthy Serve
// application status when the service reports none.
func serviceState(st manifest.Document) string {
	if s := st.String("serviceStatus"); s != "" {
		return s
	}
	apps := st.Map("activeServiceStatus", "applicationStatuses")
	names := make([]string, 0, len(apps))
	for n := range apps {
		names = append(names, n)
	}
	sort.Strings(names)

	state := ""
	for _, n := range names {
		s := manifest.Document(apps).String(n, "status")
		p, ok := normalize.MapPhase(s)
		if !ok {
			continue
		}
		switch {
		case p == deployment.PhaseFailed:
			return s
		case p != deployment.PhaseRunning || state == "":
			state = s
		}
	}
	return state
}

func firstMatch(re *regexp.Regexp, s string) string {
	if m := re.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return ""
}
