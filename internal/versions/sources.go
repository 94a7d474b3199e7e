// Package versions resolves the runtime release used for install commands and
// image tags, with a per-provider cache in front of the GitHub releases API.
package versions

import (
	"fmt"
	"strings"
)

// Source keys.
const (
	Dynamo  = "dynamo"
	KubeRay = "kuberay"
	Ray     = "ray"
	KAITO   = "kaito"
	AIKit   = "aikit"
)

// Source describes where one version comes from.
type Source struct {
	// Key identifies the source, e.g. "dynamo".
	Key string
	// Repository is the GitHub owner/name whose latest release is used.
	Repository string
	// EnvVar optionally overrides the version when no release was fetched.
	EnvVar string
	// Fallback is used when nothing else is available.
	Fallback string
}

// DefaultSources returns the pinned sources for every supported runtime.
func DefaultSources() []Source {
	return []Source{
		{Key: Dynamo, Repository: "ai-dynamo/dynamo", EnvVar: envVar(Dynamo), Fallback: "0.7.0"},
		{Key: KubeRay, Repository: "ray-project/kuberay", EnvVar: envVar(KubeRay), Fallback: "1.4.2"},
		{Key: Ray, Repository: "ray-project/ray", EnvVar: envVar(Ray), Fallback: "2.49.1"},
		{Key: KAITO, Repository: "kaito-project/kaito", EnvVar: envVar(KAITO), Fallback: "0.7.2"},
		{Key: AIKit, Repository: "kaito-project/aikit", EnvVar: envVar(AIKit), Fallback: "0.19.2"},
	}
}

func envVar(key string) string {
	return fmt.Sprintf("KUBEFOUNDRY_%s_VERSION", strings.ToUpper(key))
}
