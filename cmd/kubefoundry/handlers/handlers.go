// Package handlers implements the business logic for CLI commands.
//
// Handlers are called by the command definitions in the commands package and
// are independent of the CLI framework. Cluster access, version resolution
// and output go through package variables so tests can replace them.
package handlers

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/sozercan/kube-foundry-sub000/internal/k8sclient"
	"github.com/sozercan/kube-foundry-sub000/internal/util/prerequisites"
	"github.com/sozercan/kube-foundry-sub000/internal/versions"
)

// Cluster selects the kubeconfig and context used to reach the cluster.
type Cluster struct {
	Kubeconfig string
	Context    string
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// newClusterClient creates a client for the selected cluster.
	newClusterClient = func(c Cluster) (k8sclient.Client, error) {
		return k8sclient.NewFromKubeconfigPath(c.Kubeconfig, c.Context)
	}

	// newResolver creates the release version resolver.
	newResolver = func() *versions.Resolver {
		return versions.NewResolver(versions.DefaultSources(), versions.WithToken(os.Getenv("GITHUB_TOKEN")))
	}

	// lookPath resolves client tools for prerequisite checks.
	lookPath prerequisites.LookPathFunc

	// getenv reads credentials from the environment.
	getenv = os.Getenv

	// writeFile writes rendered output to a file.
	writeFile = os.WriteFile

	// stdout receives command output.
	stdout io.Writer = os.Stdout

	// isInteractive reports whether output goes to a terminal.
	isInteractive = isInteractiveTTY
)

func isInteractiveTTY() bool {
	f, ok := stdout.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
