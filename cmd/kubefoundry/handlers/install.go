package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sozercan/kube-foundry-sub000/internal/install"
	"github.com/sozercan/kube-foundry-sub000/internal/provider"
	"github.com/sozercan/kube-foundry-sub000/internal/util/prerequisites"
)

// InstallOptions tunes InstallSteps.
type InstallOptions struct {
	Set            []string
	Version        string
	Wait           bool
	TokenSecret    string
	TokenNamespace string
	Check          bool
	Offline        bool
	JSON           bool
}

// InstallSteps prints the commands that install a provider's runtime. With
// Check it first verifies that the tools the commands use are in PATH.
func InstallSteps(ctx context.Context, providerName string, opts InstallOptions) error {
	p, err := provider.ParseName(providerName)
	if err != nil {
		return err
	}

	if opts.Check {
		if err := prerequisites.Check(prerequisites.InstallTools(), lookPath).Err(); err != nil {
			return err
		}
	}

	values, err := parseValues(opts.Set)
	if err != nil {
		return err
	}

	steps, err := install.Steps(p, lookupVersions(ctx, p, opts.Offline), install.Options{
		Override:       install.Override{Version: opts.Version},
		Values:         values,
		Wait:           opts.Wait,
		TokenSecret:    opts.TokenSecret,
		TokenNamespace: opts.TokenNamespace,
	})
	if err != nil {
		return err
	}

	if opts.JSON {
		data, err := json.MarshalIndent(steps, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal install steps: %w", err)
		}
		fmt.Fprintln(stdout, string(data))
		return nil
	}

	for i, step := range steps {
		fmt.Fprintf(stdout, "# %d. %s\n%s\n\n", i+1, step.Title, step.Command)
	}
	return nil
}

func parseValues(sets []string) (map[string]string, error) {
	values := make(map[string]string, len(sets))
	for _, s := range sets {
		key, value, ok := strings.Cut(s, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q: expected key=value", s)
		}
		values[key] = value
	}
	return values, nil
}
