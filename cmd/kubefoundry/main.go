// Package main is the entry point for the kubefoundry CLI.
//
// kubefoundry validates model deployment requests, compiles them into the
// custom resources of a serving runtime (NVIDIA Dynamo, KubeRay or KAITO),
// applies them and reports their status in one canonical shape.
//
// For detailed usage information, run:
//
//	kubefoundry --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sozercan/kube-foundry-sub000/cmd/kubefoundry/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
