// Package commands defines the CLI command structure and flag bindings.
//
// Commands handle argument parsing and flag binding; execution is delegated
// to handler functions in the handlers package.
package commands

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/sozercan/kube-foundry-sub000/cmd/kubefoundry/handlers"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	provider   string
	kubeconfig string
	context    string
	verbose    bool
}

func (g *globalFlags) cluster() handlers.Cluster {
	return handlers.Cluster{Kubeconfig: g.kubeconfig, Context: g.context}
}

// Root returns the root command for the kubefoundry CLI.
func Root() *cobra.Command {
	g := &globalFlags{}

	cmd := &cobra.Command{
		Use:           "kubefoundry",
		Short:         "Deploy LLM inference workloads on Kubernetes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logger := zap.New(zap.UseDevMode(g.verbose), zap.WriteTo(os.Stderr))
			log.SetLogger(logger)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(log.IntoContext(ctx, logger))
		},
	}

	cmd.PersistentFlags().StringVarP(&g.provider, "provider", "p", "dynamo", "Serving runtime: dynamo, kuberay or kaito")
	cmd.PersistentFlags().StringVar(&g.kubeconfig, "kubeconfig", "", "Path to the kubeconfig file (default: $KUBECONFIG or ~/.kube/config)")
	cmd.PersistentFlags().StringVar(&g.context, "context", "", "Kubeconfig context to use")
	cmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(Validate(g))
	cmd.AddCommand(Render(g))
	cmd.AddCommand(Deploy(g))
	cmd.AddCommand(Status(g))
	cmd.AddCommand(Versions())
	cmd.AddCommand(InstallSteps(g))
	cmd.AddCommand(Version())

	return cmd
}

// addInputFlags binds the deployment input flags.
func addInputFlags(cmd *cobra.Command, in *handlers.Input) {
	cmd.Flags().StringVarP(&in.File, "file", "f", "", "Path to the deployment file (YAML or JSON)")
	cmd.Flags().StringArrayVar(&in.Set, "set", nil, "Override a deployment field (can be repeated, e.g. --set replicas=2)")
}
