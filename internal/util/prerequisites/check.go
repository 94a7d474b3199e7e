// Package prerequisites checks that the client tools an install plan relies
// on are available in PATH.
package prerequisites

import (
	"fmt"
	"os/exec"
	"strings"
)

// Tool is a client binary an install plan invokes.
type Tool struct {
	Name       string
	Required   bool
	InstallURL string
}

// InstallTools returns the tools used by generated install steps.
func InstallTools() []Tool {
	return []Tool{
		{Name: "helm", Required: true, InstallURL: "https://helm.sh/docs/intro/install/"},
		{Name: "kubectl", Required: true, InstallURL: "https://kubernetes.io/docs/tasks/tools/"},
	}
}

// Result is the outcome of checking a set of tools.
type Result struct {
	Found   map[string]string
	Missing []Tool
}

// Err returns an error naming every missing required tool.
func (r Result) Err() error {
	var missing []string
	for _, tool := range r.Missing {
		if tool.Required {
			missing = append(missing, fmt.Sprintf("%s (%s)", tool.Name, tool.InstallURL))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
}

// LookPathFunc resolves a binary name to a path.
type LookPathFunc func(name string) (string, error)

// Check looks up every tool with lookPath; nil uses exec.LookPath.
func Check(tools []Tool, lookPath LookPathFunc) Result {
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	res := Result{Found: map[string]string{}}
	for _, tool := range tools {
		path, err := lookPath(tool.Name)
		if err != nil {
			res.Missing = append(res.Missing, tool)
			continue
		}
		res.Found[tool.Name] = path
	}
	return res
}
