package commands

import (
	"github.com/spf13/cobra"

	"github.com/sozercan/kube-foundry-sub000/cmd/kubefoundry/handlers"
)

// Versions returns the command that lists runtime versions.
func Versions() *cobra.Command {
	var refresh bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "versions",
		Short: "Show the runtime versions used for images and charts",
		Long: `List the release used for every runtime image and chart.

Without --refresh the pinned versions are shown, overridden by
KUBEFOUNDRY_<SOURCE>_VERSION environment variables. With --refresh the
latest GitHub releases are fetched (set GITHUB_TOKEN to raise rate limits).

Examples:
  kubefoundry versions
  kubefoundry versions --refresh --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Versions(cmd.Context(), refresh, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Fetch the latest releases")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}
