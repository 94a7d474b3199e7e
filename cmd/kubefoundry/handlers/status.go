package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sozercan/kube-foundry-sub000/internal/deployment"
	"github.com/sozercan/kube-foundry-sub000/internal/k8sclient"
	"github.com/sozercan/kube-foundry-sub000/internal/manifest"
	"github.com/sozercan/kube-foundry-sub000/internal/provider"
)

// StatusOptions tunes Status.
type StatusOptions struct {
	Cluster   Cluster
	Namespace string
	// FromFile reads the resource from a saved manifest instead of the
	// cluster.
	FromFile string
	Watch    bool
	JSON     bool
	Interval time.Duration
}

// Status prints the canonical status of a deployment. An empty providerName
// means the provider was not chosen: a manifest file names its own, the
// cluster defaults to Dynamo.
func Status(ctx context.Context, providerName, name string, opts StatusOptions) error {
	var p provider.Provider
	if providerName != "" {
		var err error
		if p, err = provider.ParseName(providerName); err != nil {
			return err
		}
	}

	fetch, err := statusSource(p, name, opts)
	if err != nil {
		return err
	}

	if opts.Watch {
		return watchStatus(ctx, fetch, opts)
	}
	return showStatus(ctx, fetch, opts.JSON)
}

// fetchFunc returns the current resource and the provider that owns it.
type fetchFunc func(ctx context.Context) (provider.Provider, manifest.Document, error)

func statusSource(p provider.Provider, name string, opts StatusOptions) (fetchFunc, error) {
	if opts.FromFile != "" {
		return func(context.Context) (provider.Provider, manifest.Document, error) {
			doc, err := loadManifest(opts.FromFile)
			if err != nil {
				return "", nil, err
			}
			if p != "" {
				return p, doc, nil
			}
			owner, ok := provider.ForDocument(doc)
			if !ok {
				return "", nil, fmt.Errorf("%s is not a %s, %s or %s resource; pass --provider",
					opts.FromFile, provider.Dynamo, provider.KubeRay, provider.KAITO)
			}
			return owner, doc, nil
		}, nil
	}

	if p == "" {
		p = provider.Dynamo
	}
	if name == "" {
		return nil, errors.New("deployment name is required")
	}
	ns := opts.Namespace
	if ns == "" {
		ns = deployment.DefaultNamespace
	}
	client, err := newClusterClient(opts.Cluster)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context) (provider.Provider, manifest.Document, error) {
		doc, err := client.GetResource(ctx, p.GroupVersionKind(), ns, name)
		if k8sclient.IsNotFound(err) {
			return "", nil, fmt.Errorf("%s deployment %s/%s not found", p, ns, name)
		}
		return p, doc, err
	}, nil
}

// loadManifest reads the first document of a manifest file, so the output
// of render can be passed as is.
func loadManifest(path string) (manifest.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	doc, err := manifest.FromYAML(data)
	if err != nil {
		return nil, err
	}
	if len(doc) == 0 {
		return nil, fmt.Errorf("manifest %s is empty", path)
	}
	return doc, nil
}

func showStatus(ctx context.Context, fetch fetchFunc, jsonOutput bool) error {
	p, doc, err := fetch(ctx)
	if err != nil {
		return err
	}
	status := provider.Parse(p, doc, nil)

	if jsonOutput {
		data, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal status: %w", err)
		}
		fmt.Fprintln(stdout, string(data))
		return nil
	}

	fmt.Fprint(stdout, renderStatus(status, isInteractive()))
	return nil
}

// watchStatus continuously displays the status until ctx is done.
func watchStatus(ctx context.Context, fetch fetchFunc, opts StatusOptions) error {
	interval := opts.Interval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if err := showStatus(ctx, fetch, opts.JSON); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if !opts.JSON && isInteractive() {
				fmt.Fprint(stdout, "\033[H\033[2J")
			}
			if err := showStatus(ctx, fetch, opts.JSON); err != nil {
				fmt.Fprintf(stdout, "Error: %v\n", err)
			}
		}
	}
}
