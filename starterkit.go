// Package starterkit provides a high-level façade for hosting an AI agent
// behind the M365/Teams-compatible HTTP endpoint. Most applications interact
// with this package by:
//  1. Reading configuration via config.FromEnvironment()
//  2. Supplying an agent factory (DefaultAgentFactory wires the bundled
//     orchestrator) or their own agent.Factory
//  3. Calling Run, which configures telemetry, builds the host and serves
//     until the context is cancelled
//
// The façade delegates transport and lifecycle to host.Host while keeping
// setup ergonomics concise. All defaults are safe for local development;
// production deployments supply Entra ID settings and an OTLP endpoint.
package starterkit

import (
	"context"
	"fmt"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/rodrigodemos/microsoft-agents-starterkit/agent"
	"github.com/rodrigodemos/microsoft-agents-starterkit/auth"
	"github.com/rodrigodemos/microsoft-agents-starterkit/config"
	"github.com/rodrigodemos/microsoft-agents-starterkit/host"
	"github.com/rodrigodemos/microsoft-agents-starterkit/logging"
	"github.com/rodrigodemos/microsoft-agents-starterkit/mcptool"
	"github.com/rodrigodemos/microsoft-agents-starterkit/model"
	anthropicmodel "github.com/rodrigodemos/microsoft-agents-starterkit/model/anthropic"
	azuremodel "github.com/rodrigodemos/microsoft-agents-starterkit/model/azure"
	"github.com/rodrigodemos/microsoft-agents-starterkit/observability"
	"github.com/rodrigodemos/microsoft-agents-starterkit/orchestrator"
	"github.com/rodrigodemos/microsoft-agents-starterkit/session"
)

// Options configure Run.
type Options struct {
	// Logger used by the host and agent. Defaults to text output at info.
	Logger logging.Logger

	// Exchanger performs delegated token exchanges. Defaults to the local
	// pre-shared token when ENV_ID/BEARER_TOKEN are configured.
	Exchanger auth.TokenExchanger
}

// Run hosts the agent produced by the factory until the context is
// cancelled. Telemetry configuration failures degrade the startup report
// instead of aborting; a failing factory or model configuration is fatal.
func Run(ctx context.Context, cfg *config.Config, factory agent.Factory, optFns ...func(o *Options)) error {
	if cfg == nil {
		cfg = config.FromEnvironment()
	}

	opts := Options{
		Logger: logging.New(logging.LevelInfo, "text"),
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Exchanger == nil && cfg.LocalAuth.IsValid() {
		opts.Exchanger = auth.NewStaticTokenExchanger(cfg.LocalAuth.BearerToken)
	}

	report := host.NewStartupReport()
	shutdownTracing, err := observability.Configure(ctx, cfg.ServiceName, cfg.ServiceNamespace)
	if err != nil {
		opts.Logger.Warn("observability configuration failed", "error", err)
		report.Degrade("observability", err)
	} else {
		defer func() {
			if err := shutdownTracing(context.Background()); err != nil {
				opts.Logger.Warn("trace flush failed", "error", err)
			}
		}()
	}

	h, err := host.New(cfg, factory, func(o *host.Options) {
		o.Logger = opts.Logger
		o.Report = report
		o.Exchanger = opts.Exchanger
	})
	if err != nil {
		return err
	}
	return h.ListenAndServe(ctx)
}

// DefaultAgentFactory builds the bundled orchestrator agent: the configured
// model backend, the comedian sub-agent, remote MCP tools and an in-memory
// conversation store.
func DefaultAgentFactory(cfg *config.Config, logger logging.Logger) agent.Factory {
	return func() (agent.Agent, error) {
		m, err := buildModel(cfg)
		if err != nil {
			return nil, err
		}

		toolService := mcptool.NewService(cfg.ToolServerURLs, func(o *mcptool.Options) {
			o.Logger = logger
		})

		return orchestrator.New(m, func(o *orchestrator.Options) {
			o.Logger = logger
			o.ToolService = toolService
			o.Sessions = session.NewInMemoryStore()
		})
	}
}

func buildModel(cfg *config.Config) (model.Model, error) {
	switch cfg.Provider {
	case config.ProviderAnthropic:
		return anthropicmodel.NewModel(func(o *anthropicmodel.Options) {
			if cfg.AnthropicModel != "" {
				o.Model = anthropicsdk.Model(cfg.AnthropicModel)
			}
		}), nil
	case config.ProviderAzureOpenAI, "":
		return azuremodel.NewModel(cfg.AzureOpenAIConfig)
	default:
		return nil, fmt.Errorf("unknown MODEL_PROVIDER %q", cfg.Provider)
	}
}
