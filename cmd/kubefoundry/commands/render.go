package commands

import (
	"github.com/spf13/cobra"

	"github.com/sozercan/kube-foundry-sub000/cmd/kubefoundry/handlers"
)

// Render returns the command that prints the manifests of a deployment.
func Render(g *globalFlags) *cobra.Command {
	var in handlers.Input
	var outputPath string
	var offline bool

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the Kubernetes manifests of a deployment",
		Long: `Compile a deployment into the custom resources of a serving runtime and
print them as multi-document YAML.

Examples:
  # Print the DynamoGraphDeployment for a file
  kubefoundry render -f qwen.yaml

  # Write the KAITO Workspace to a file using pinned versions
  kubefoundry render -p kaito -f qwen.yaml -o workspace.yaml --offline`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Render(cmd.Context(), g.provider, in, outputPath, offline)
		},
	}

	addInputFlags(cmd, &in)
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write manifests to a file instead of stdout")
	cmd.Flags().BoolVar(&offline, "offline", false, "Use pinned runtime versions instead of the latest releases")

	return cmd
}
