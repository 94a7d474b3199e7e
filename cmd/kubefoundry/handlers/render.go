package handlers

import (
	"context"
	"fmt"
)

// Render compiles a deployment input into manifests and writes them as
// multi-document YAML to outputPath, or to stdout when outputPath is empty.
func Render(ctx context.Context, providerName string, in Input, outputPath string, offline bool) error {
	_, _, bundle, err := compileInput(ctx, providerName, in, offline)
	if err != nil {
		return err
	}

	data, err := bundle.ToYAML()
	if err != nil {
		return fmt.Errorf("failed to render manifests: %w", err)
	}

	if outputPath == "" {
		_, err = stdout.Write(data)
		return err
	}
	if err := writeFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifests: %w", err)
	}
	fmt.Fprintf(stdout, "Wrote %d manifests to %s\n", len(bundle.Documents()), outputPath)
	return nil
}
