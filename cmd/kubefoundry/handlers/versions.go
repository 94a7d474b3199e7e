package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/sozercan/kube-foundry-sub000/internal/util/async"
)

// VersionInfo is one resolved runtime version.
type VersionInfo struct {
	Key        string `json:"key"`
	Repository string `json:"repository"`
	Version    string `json:"version"`
	Fallback   string `json:"fallback"`
}

// Versions prints the runtime versions used for images and charts. With
// refresh every release is fetched concurrently; sources that fail keep
// their environment override or pinned fallback.
func Versions(ctx context.Context, refresh, jsonOutput bool) error {
	r := newResolver()
	defer func() { _ = r.Close() }()

	sources := r.Sources()
	if refresh {
		keys := make([]string, 0, len(sources))
		for _, src := range sources {
			keys = append(keys, src.Key)
		}
		if _, err := async.Map(ctx, keys, r.Refresh); err != nil {
			log.FromContext(ctx).Error(err, "Some releases could not be fetched")
		}
	}

	infos := make([]VersionInfo, 0, len(sources))
	for _, src := range sources {
		infos = append(infos, VersionInfo{
			Key:        src.Key,
			Repository: src.Repository,
			Version:    r.Current(src.Key),
			Fallback:   src.Fallback,
		})
	}

	if jsonOutput {
		data, err := json.MarshalIndent(infos, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal versions: %w", err)
		}
		fmt.Fprintln(stdout, string(data))
		return nil
	}

	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SOURCE\tVERSION\tREPOSITORY")
	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%s\t%s\n", info.Key, info.Version, info.Repository)
	}
	return w.Flush()
}
