package handlers

import (
	"context"
	"errors"
	"fmt"

	"helm.sh/helm/v3/pkg/strvals"

	"github.com/sozercan/kube-foundry-sub000/internal/deployment"
	"github.com/sozercan/kube-foundry-sub000/internal/manifest"
	"github.com/sozercan/kube-foundry-sub000/internal/provider"
	"github.com/sozercan/kube-foundry-sub000/internal/versions"
)

// Input names the deployment input of a command: a YAML or JSON file plus
// --set overrides applied on top.
type Input struct {
	File string
	Set  []string
}

// loadConfigFile loads a deployment file (for testing injection).
var loadConfigFile = deployment.Load

func loadInput(in Input) (map[string]any, error) {
	if in.File == "" && len(in.Set) == 0 {
		return nil, errors.New("no deployment input: pass --file or --set")
	}

	raw := map[string]any{}
	if in.File != "" {
		loaded, err := loadConfigFile(in.File)
		if err != nil {
			return nil, err
		}
		raw = loaded
	}

	for _, s := range in.Set {
		if err := strvals.ParseInto(s, raw); err != nil {
			return nil, fmt.Errorf("failed to parse --set %q: %w", s, err)
		}
	}
	return raw, nil
}

// validateInput loads the input and validates it for a provider.
func validateInput(providerName string, in Input) (provider.Provider, deployment.Result, error) {
	p, err := provider.ParseName(providerName)
	if err != nil {
		return "", deployment.Result{}, err
	}
	raw, err := loadInput(in)
	if err != nil {
		return "", deployment.Result{}, err
	}
	return p, provider.Validate(p, raw), nil
}

// lookupVersions returns the versions used for compilation. Offline mode
// uses the pinned defaults; otherwise every source the provider depends on
// is resolved before compiling.
func lookupVersions(ctx context.Context, p provider.Provider, offline bool) versions.Lookup {
	if offline {
		return versions.Static{}
	}
	r := newResolver()
	defer func() { _ = r.Close() }()
	for _, key := range provider.VersionKeys(p) {
		r.Resolve(ctx, key)
	}
	return r
}

// compileInput validates and compiles the input.
func compileInput(ctx context.Context, providerName string, in Input, offline bool) (*deployment.Spec, provider.Provider, *manifest.Bundle, error) {
	p, res, err := validateInput(providerName, in)
	if err != nil {
		return nil, "", nil, err
	}
	if err := res.Err(); err != nil {
		return nil, "", nil, err
	}

	bundle, err := provider.Compile(p, res.Spec, lookupVersions(ctx, p, offline))
	if err != nil {
		return nil, "", nil, err
	}
	return res.Spec, p, bundle, nil
}
