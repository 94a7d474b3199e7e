package commands

import (
	"github.com/spf13/cobra"

	"github.com/sozercan/kube-foundry-sub000/cmd/kubefoundry/handlers"
)

// InstallSteps returns the command that prints runtime install commands.
func InstallSteps(g *globalFlags) *cobra.Command {
	var opts handlers.InstallOptions

	cmd := &cobra.Command{
		Use:   "install-steps",
		Short: "Print the commands that install a provider",
		Long: `Print the helm and kubectl commands that install a serving runtime.

Nothing is executed; review the commands and run them yourself.

Examples:
  # Install NVIDIA Dynamo
  kubefoundry install-steps

  # Install KAITO with a chart value and a token secret
  kubefoundry install-steps -p kaito --set featureGates.vLLM=true --hf-token-secret hf-token`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.InstallSteps(cmd.Context(), g.provider, opts)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Set, "set", nil, "Chart value passed to helm (can be repeated)")
	cmd.Flags().StringVar(&opts.Version, "version", "", "Chart version (default: resolved release)")
	cmd.Flags().BoolVar(&opts.Wait, "wait", false, "Wait for releases to become ready")
	cmd.Flags().StringVar(&opts.TokenSecret, "hf-token-secret", "", "Also create this Hugging Face token secret from $HF_TOKEN")
	cmd.Flags().StringVar(&opts.TokenNamespace, "hf-token-namespace", "default", "Namespace of the token secret")
	cmd.Flags().BoolVar(&opts.Check, "check", false, "Verify that helm and kubectl are installed")
	cmd.Flags().BoolVar(&opts.Offline, "offline", false, "Use pinned versions instead of the latest releases")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output in JSON format")

	return cmd
}
