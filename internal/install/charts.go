// Package install generates the ordered commands that install a serving
// runtime's operator with Helm. Nothing is executed.
package install

import (
	"github.com/sozercan/kube-foundry-sub000/internal/provider"
	"github.com/sozercan/kube-foundry-sub000/internal/versions"
)

// ChartSpec identifies a Helm chart and where it is installed.
type ChartSpec struct {
	// RepoName is the local alias of the repository.
	RepoName   string
	Repository string
	Name       string
	Version    string
	Namespace  string
	Release    string
}

// Reference returns the repo/chart reference passed to helm.
func (c ChartSpec) Reference() string {
	return c.RepoName + "/" + c.Name
}

// Override replaces parts of a default chart spec.
type Override struct {
	Repository string
	Chart      string
	Version    string
	Namespace  string
}

// chartTemplate is a chart whose version comes from a version source.
type chartTemplate struct {
	spec       ChartSpec
	versionKey string
}

var defaultCharts = map[provider.Provider][]chartTemplate{
	provider.Dynamo: {
		{
			spec: ChartSpec{
				RepoName:   "ai-dynamo",
				Repository: "https://helm.ngc.nvidia.com/nvidia/ai-dynamo",
				Name:       "dynamo-crds",
				Namespace:  "default",
				Release:    "dynamo-crds",
			},
			versionKey: versions.Dynamo,
		},
		{
			spec: ChartSpec{
				RepoName:   "ai-dynamo",
				Repository: "https://helm.ngc.nvidia.com/nvidia/ai-dynamo",
				Name:       "dynamo-platform",
				Namespace:  "dynamo-system",
				Release:    "dynamo-platform",
			},
			versionKey: versions.Dynamo,
		},
	},
	provider.KubeRay: {
		{
			spec: ChartSpec{
				RepoName:   "kuberay",
				Repository: "https://ray-project.github.io/kuberay-helm/",
				Name:       "kuberay-operator",
				Namespace:  "ray-system",
				Release:    "kuberay-operator",
			},
			versionKey: versions.KubeRay,
		},
	},
	provider.KAITO: {
		{
			spec: ChartSpec{
				RepoName:   "kaito",
				Repository: "https://kaito-project.github.io/kaito/charts/kaito",
				Name:       "workspace",
				Namespace:  "kaito-workspace",
				Release:    "kaito-workspace",
			},
			versionKey: versions.KAITO,
		},
	},
}

// Charts returns the charts of a provider in install order, with versions
// taken from v. Override.Chart only applies to single-chart providers.
func Charts(p provider.Provider, v versions.Lookup, override Override) []ChartSpec {
	templates := defaultCharts[p]
	out := make([]ChartSpec, 0, len(templates))
	for _, t := range templates {
		spec := t.spec
		spec.Version = v.Current(t.versionKey)

		if override.Repository != "" {
			spec.Repository = override.Repository
		}
		if override.Chart != "" && len(templates) == 1 {
			spec.Name = override.Chart
		}
		if override.Version != "" {
			spec.Version = override.Version
		}
		if override.Namespace != "" {
			spec.Namespace = override.Namespace
		}
		out = append(out, spec)
	}
	return out
}
