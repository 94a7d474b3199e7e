package install

import (
	"fmt"
	"sort"

	"github.com/sozercan/kube-foundry-sub000/internal/manifest"
	"github.com/sozercan/kube-foundry-sub000/internal/provider"
	"github.com/sozercan/kube-foundry-sub000/internal/versions"
)

// Step is one command of an install plan.
type Step struct {
	Title   string `json:"title"`
	Command string `json:"command"`
}

// Options tunes the generated plan.
type Options struct {
	Override Override
	// Values are passed as --set key=value to every chart release.
	Values map[string]string
	// Wait adds --wait to release commands.
	Wait bool
	// TokenSecret, when set, adds a step creating the model credential
	// secret in TokenNamespace from the HF_TOKEN environment variable.
	TokenSecret    string
	TokenNamespace string
}

// Steps returns the ordered install commands of a provider.
func Steps(p provider.Provider, v versions.Lookup, opts Options) ([]Step, error) {
	if !p.IsValid() {
		return nil, fmt.Errorf("unknown provider %q", p)
	}
	charts := Charts(p, v, opts.Override)

	var steps []Step
	seen := map[string]bool{}
	for _, c := range charts {
		if seen[c.RepoName] {
			continue
		}
		seen[c.RepoName] = true
		steps = append(steps, Step{
			Title:   fmt.Sprintf("Add the %s Helm repository", c.RepoName),
			Command: manifest.ShellJoin([]string{"helm", "repo", "add", c.RepoName, c.Repository}),
		})
	}
	steps = append(steps, Step{
		Title:   "Update Helm repositories",
		Command: manifest.ShellJoin([]string{"helm", "repo", "update"}),
	})

	for _, c := range charts {
		steps = append(steps, Step{
			Title:   fmt.Sprintf("Install %s %s", c.Name, c.Version),
			Command: manifest.ShellJoin(releaseArgs(c, opts)),
		})
	}

	if opts.TokenSecret != "" {
		ns := opts.TokenNamespace
		if ns == "" {
			ns = "default"
		}
		// The token is expanded by the user's shell, never written into the plan.
		steps = append(steps, Step{
			Title: fmt.Sprintf("Create the %s credential secret", opts.TokenSecret),
			Command: manifest.ShellJoin([]string{
				"kubectl", "create", "secret", "generic", opts.TokenSecret,
				"--namespace", ns,
			}) + ` --from-literal=` + manifest.HFTokenKey + `="$` + manifest.HFTokenKey + `"`,
		})
	}
	return steps, nil
}

func releaseArgs(c ChartSpec, opts Options) []string {
	args := []string{
		"helm", "upgrade", "--install", c.Release, c.Reference(),
		"--namespace", c.Namespace,
		"--create-namespace",
	}
	if c.Version != "" {
		args = append(args, "--version", c.Version)
	}

	keys := make([]string, 0, len(opts.Values))
	for k := range opts.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "--set", k+"="+opts.Values[k])
	}

	if opts.Wait {
		args = append(args, "--wait")
	}
	return args
}
