package commands

import (
	"github.com/spf13/cobra"

	"github.com/sozercan/kube-foundry-sub000/cmd/kubefoundry/handlers"
)

// Validate returns the command that checks a deployment input.
//
// Flags:
//
//	--file, -f: Deployment file (YAML or JSON)
//	--set: Field overrides applied on top of the file
//	--json: Output the validation result as JSON
func Validate(g *globalFlags) *cobra.Command {
	var in handlers.Input
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a deployment for a provider",
		Long: `Validate a deployment request against the rules of a serving runtime.

Defaults are applied and every invalid field is reported with its path.

Examples:
  # Validate a deployment file for NVIDIA Dynamo
  kubefoundry validate -f qwen.yaml

  # Validate inline values for KubeRay
  kubefoundry validate -p kuberay --set name=qwen,modelId=Qwen/Qwen3-0.6B

  # Get the normalized deployment as JSON
  kubefoundry validate -f qwen.yaml --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Validate(cmd.Context(), g.provider, in, jsonOutput)
		},
	}

	addInputFlags(cmd, &in)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}
