// Command starterkit runs the orchestrator agent behind the generic agent
// host. All settings come from the environment (a .env file is loaded when
// present); see config.FromEnvironment for the full list.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	starterkit "github.com/rodrigodemos/microsoft-agents-starterkit"
	"github.com/rodrigodemos/microsoft-agents-starterkit/config"
	"github.com/rodrigodemos/microsoft-agents-starterkit/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.FromEnvironment()
	logger := logging.New(logging.LevelInfo, "text")

	factory := starterkit.DefaultAgentFactory(cfg, logger)
	if err := starterkit.Run(ctx, cfg, factory, func(o *starterkit.Options) {
		o.Logger = logger
	}); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}
