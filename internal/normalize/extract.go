package normalize

import (
	"regexp"
	"sort"
	"strings"

	"github.com/sozercan/kube-foundry-sub000/internal/deployment"
	"github.com/sozercan/kube-foundry-sub000/internal/manifest"
)

var (
	modelFlagRegex  = regexp.MustCompile(`(?:^|\s)--model(?:-path)?(?:\s+|=)` + flagValue)
	servedFlagRegex = regexp.MustCompile(`(?:^|\s)--served-model-name(?:\s+|=)` + flagValue)
)

// flagValue matches a single-quoted, double-quoted or bare shell word.
const flagValue = `(?:'([^']*)'|"([^"]*)"|(\S+))`

func flagMatch(re *regexp.Regexp, line string) string {
	m := re.FindStringSubmatch(line)
	if m == nil {
		return ""
	}
	for _, group := range m[1:] {
		if group != "" {
			return group
		}
	}
	return ""
}

// ModelFlags recovers the values of --model (or --model-path) and
// --served-model-name from a generated command line.
func ModelFlags(commandLine string) (modelID, servedName string) {
	return flagMatch(modelFlagRegex, commandLine), flagMatch(servedFlagRegex, commandLine)
}

// CommandLine flattens a container command or args field, which may be a
// string or a sequence, into one line.
func CommandLine(parts ...any) string {
	var out []string
	for _, p := range parts {
		switch v := p.(type) {
		case string:
			if v != "" {
				out = append(out, v)
			}
		default:
			items, ok := manifest.AsSlice(v)
			if !ok {
				continue
			}
			for _, item := range items {
				if s, ok := item.(string); ok && s != "" {
					out = append(out, s)
				}
			}
		}
	}
	return strings.Join(out, " ")
}

// InferEngine guesses the engine from role or container names. Names are
// visited in sorted order and engines in AllEngines order; the first
// case-insensitive substring match wins. fallback is returned when nothing
// matches.
func InferEngine(names []string, fallback deployment.Engine) deployment.Engine {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	for _, name := range sorted {
		lower := strings.ToLower(name)
		for _, e := range deployment.AllEngines() {
			if strings.Contains(lower, string(e)) {
				return e
			}
		}
	}
	return fallback
}

// Roles is a unified view of named worker roles.
type Roles map[string]manifest.Document

// Names returns the role names in sorted order.
func (r Roles) Names() []string {
	names := make([]string, 0, len(r))
	for n := range r {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// MergeRoles combines role maps from several document shapes. Earlier
// sources take precedence over later ones for the same role name.
func MergeRoles(sources ...map[string]any) Roles {
	roles := Roles{}
	for _, src := range sources {
		for name, v := range src {
			if _, exists := roles[name]; exists {
				continue
			}
			m, ok := manifest.AsMap(v)
			if !ok {
				continue
			}
			roles[name] = manifest.Document(m)
		}
	}
	return roles
}

// EstimateReady scales a role's desired count by the cluster-wide
// ready/desired ratio, rounding down. This is an approximation for runtimes
// that do not report per-role readiness.
func EstimateReady(roleDesired, clusterReady, clusterDesired int) int {
	if roleDesired <= 0 || clusterDesired <= 0 || clusterReady <= 0 {
		return 0
	}
	ready := roleDesired * clusterReady / clusterDesired
	if ready > roleDesired {
		return roleDesired
	}
	return ready
}

// Metadata reads the identity fields of a document.
func Metadata(doc manifest.Document) (name, namespace, createdAt string, deleting bool) {
	_, deleting = doc.Get("metadata", "deletionTimestamp")
	return doc.Name(), doc.Namespace(), timestamp(mustGet(doc, "metadata", "creationTimestamp")), deleting
}

// Replicas builds the overall replica status. Available tracks ready.
func Replicas(desired, ready int) deployment.ReplicaStatus {
	if ready > desired && desired > 0 {
		ready = desired
	}
	if ready < 0 {
		ready = 0
	}
	return deployment.ReplicaStatus{Desired: desired, Ready: ready, Available: ready}
}

func mustGet(doc manifest.Document, path ...string) any {
	v, _ := doc.Get(path...)
	return v
}
