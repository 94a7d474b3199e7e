package commands

import (
	"github.com/spf13/cobra"

	"github.com/sozercan/kube-foundry-sub000/cmd/kubefoundry/handlers"
)

// Deploy returns the command that applies a deployment to the cluster.
func Deploy(g *globalFlags) *cobra.Command {
	var in handlers.Input
	var opts handlers.DeployOptions

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy a model to the cluster",
		Long: `Validate and compile a deployment, then apply it with server-side apply.

The runtime's custom resource must be served by the cluster and a referenced
Hugging Face token secret must exist in the deployment namespace, unless
--hf-token-from-env creates it from $HF_TOKEN.

Examples:
  # Deploy with NVIDIA Dynamo
  kubefoundry deploy -f qwen.yaml

  # Deploy with KubeRay in disaggregated mode
  kubefoundry deploy -p kuberay -f qwen.yaml --set mode=disaggregated

  # Create the token secret from the environment, then deploy
  HF_TOKEN=hf_xxx kubefoundry deploy -f llama.yaml --set hfTokenSecret=hf-token --hf-token-from-env

  # Print what would be applied
  kubefoundry deploy -f qwen.yaml --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.Cluster = g.cluster()
			return handlers.Deploy(cmd.Context(), g.provider, in, opts)
		},
	}

	addInputFlags(cmd, &in)
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Print the manifests instead of applying them")
	cmd.Flags().BoolVar(&opts.Offline, "offline", false, "Use pinned runtime versions instead of the latest releases")
	cmd.Flags().BoolVar(&opts.TokenFromEnv, "hf-token-from-env", false, "Create or replace the hfTokenSecret secret from $HF_TOKEN")

	return cmd
}
