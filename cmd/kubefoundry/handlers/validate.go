package handlers

import (
	"context"
	"encoding/json"
	"fmt"
)

// Validate checks a deployment input against a provider's rules and prints
// the result. An invalid input returns its validation error.
func Validate(_ context.Context, providerName string, in Input, jsonOutput bool) error {
	p, res, err := validateInput(providerName, in)
	if err != nil {
		return err
	}

	if jsonOutput {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal validation result: %w", err)
		}
		fmt.Fprintln(stdout, string(data))
		return res.Err()
	}

	if !res.Valid {
		fmt.Fprintf(stdout, "%s deployment is invalid:\n", p)
		for _, fe := range res.Errors {
			fmt.Fprintf(stdout, "  - %s\n", fe)
		}
		return res.Err()
	}

	spec := res.Spec
	fmt.Fprintf(stdout, "%s deployment %s/%s is valid\n", p, spec.Namespace, spec.Name)
	fmt.Fprintf(stdout, "  model:    %s (served as %s)\n", spec.ModelID, spec.ServedName())
	fmt.Fprintf(stdout, "  engine:   %s\n", spec.Engine)
	fmt.Fprintf(stdout, "  mode:     %s\n", spec.Mode)
	fmt.Fprintf(stdout, "  replicas: %d\n", spec.TotalReplicas())
	return nil
}
