package commands

import (
	"github.com/spf13/cobra"

	"github.com/sozercan/kube-foundry-sub000/cmd/kubefoundry/handlers"
)

// Status returns the command that shows the status of a deployment.
//
// Optional flags:
//
//	--namespace, -n: Deployment namespace (default: default)
//	--watch, -w: Continuously watch status updates
//	--json: Output in JSON format
//	--from-file: Read the resource from a saved manifest (provider taken from its kind)
func Status(g *globalFlags) *cobra.Command {
	var opts handlers.StatusOptions

	cmd := &cobra.Command{
		Use:   "status [NAME]",
		Short: "Show the status of a deployment",
		Long: `Display the phase, replicas and conditions of a deployment in a
provider independent form.

Examples:
  # Show a Dynamo deployment
  kubefoundry status qwen -n models

  # Watch a KAITO workspace
  kubefoundry status qwen -p kaito --watch

  # Normalize a saved manifest; the provider is read from its kind
  kubefoundry status --from-file rayservice.yaml --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			if len(args) > 0 {
				name = args[0]
			}
			// Without --provider a manifest file names its own provider.
			providerName := g.provider
			if !cmd.Flags().Changed("provider") {
				providerName = ""
			}
			opts.Cluster = g.cluster()
			return handlers.Status(cmd.Context(), providerName, name, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Namespace, "namespace", "n", "", "Deployment namespace (default: default)")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Continuously watch status updates")
	cmd.Flags().DurationVar(&opts.Interval, "interval", 0, "Refresh interval for --watch (default: 5s)")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output in JSON format")
	cmd.Flags().StringVar(&opts.FromFile, "from-file", "", "Read the resource from a manifest file instead of the cluster")

	return cmd
}
