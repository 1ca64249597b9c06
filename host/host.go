package host

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/rodrigodemos/microsoft-agents-starterkit/activity"
	"github.com/rodrigodemos/microsoft-agents-starterkit/agent"
	"github.com/rodrigodemos/microsoft-agents-starterkit/auth"
	"github.com/rodrigodemos/microsoft-agents-starterkit/config"
	"github.com/rodrigodemos/microsoft-agents-starterkit/logging"
	"github.com/rodrigodemos/microsoft-agents-starterkit/observability"
	"github.com/rodrigodemos/microsoft-agents-starterkit/tokencache"
)

// ErrNilFactory is returned by New when no agent factory is supplied.
var ErrNilFactory = errors.New("host requires an agent factory")

const (
	agentUnavailableMsg     = "Sorry, the agent is not available."
	notificationUnsupported = "This agent doesn't support notification handling yet."
)

// Options configure the host.
type Options struct {
	Logger logging.Logger

	// Exchanger performs delegated token exchanges for the observability
	// pipeline. Nil disables the exchange.
	Exchanger auth.TokenExchanger

	// Tokens caches exchanged observability tokens per tenant and agent.
	Tokens *tokencache.Cache

	// Report collects degraded startup conditions for the banner.
	Report *StartupReport

	// Verifier overrides the auth verifier derived from configuration.
	Verifier auth.Verifier
}

// Host runs one agent instance behind the HTTP endpoint.
type Host struct {
	cfg       *config.Config
	factory   agent.Factory
	logger    logging.Logger
	verifier  auth.Verifier
	exchanger auth.TokenExchanger
	tokens    *tokencache.Cache
	report    *StartupReport

	mu    sync.Mutex
	state State
	agent agent.Agent

	cleanupOnce sync.Once
	cleanupErr  error
}

// New builds a host around an agent factory. The factory is invoked during
// Initialize, not here, so construction never touches the network.
func New(cfg *config.Config, factory agent.Factory, optFns ...func(o *Options)) (*Host, error) {
	if factory == nil {
		return nil, ErrNilFactory
	}
	if cfg == nil {
		cfg = &config.Config{Port: config.DefaultPort}
	}

	opts := Options{
		Logger: logging.NoOpLogger{},
		Report: NewStartupReport(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	h := &Host{
		cfg:       cfg,
		factory:   factory,
		logger:    opts.Logger,
		verifier:  opts.Verifier,
		exchanger: opts.Exchanger,
		tokens:    opts.Tokens,
		report:    opts.Report,
		state:     StateUninitialized,
	}
	if h.tokens == nil {
		h.tokens = tokencache.New(0, 0)
	}
	if h.verifier == nil {
		h.verifier = verifierFromConfig(cfg, h.logger)
	}

	if cfg.AuthHandlerName != "" {
		h.logger.Info("auth handler configured", "handler", cfg.AuthHandlerName)
	} else {
		h.logger.Info("no auth handler configured")
	}
	return h, nil
}

// verifierFromConfig picks the auth path: Entra ID when CLIENT_ID/TENANT_ID
// are set, the pre-shared local token when ENV_ID/BEARER_TOKEN are set,
// otherwise anonymous dev mode (nil verifier).
func verifierFromConfig(cfg *config.Config, logger logging.Logger) auth.Verifier {
	switch {
	case cfg.UseEntraID():
		logger.Info("using Entra ID authentication")
		return auth.NewEntraVerifier(cfg.ClientID, cfg.TenantID)
	case cfg.LocalAuth.IsValid():
		logger.Info("using local pre-shared token authentication")
		return auth.NewStaticTokenVerifier(cfg.LocalAuth.EnvID, cfg.LocalAuth.BearerToken)
	default:
		logger.Warn("no CLIENT_ID/TENANT_ID set; running in anonymous dev mode")
		return nil
	}
}

// State returns the current lifecycle state.
func (h *Host) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Agent returns the hosted agent, nil before Initialize.
func (h *Host) Agent() agent.Agent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.agent
}

// Report returns the startup report.
func (h *Host) Report() *StartupReport { return h.report }

// Initialize constructs and initializes the agent. It is idempotent once
// the host is ready. A failed initialization is terminal: the host moves to
// stopped and later messages get the agent-unavailable reply.
func (h *Host) Initialize(ctx context.Context) error {
	h.mu.Lock()
	switch h.state {
	case StateReady:
		h.mu.Unlock()
		return nil
	case StateShuttingDown, StateStopped:
		h.mu.Unlock()
		return fmt.Errorf("host is %s", h.state)
	case StateInitializing:
		h.mu.Unlock()
		return fmt.Errorf("initialization already in progress")
	}
	h.state = StateInitializing
	h.mu.Unlock()

	a, err := agent.Validate(h.factory())
	if err == nil {
		err = a.Initialize(ctx)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if err != nil {
		h.state = StateStopped
		return fmt.Errorf("agent initialization: %w", err)
	}
	h.agent = a
	h.state = StateReady
	h.logger.Info("agent initialized", "agent_type", agent.TypeName(a))
	return nil
}

// Shutdown transitions to stopped and runs agent cleanup exactly once.
// Cleanup failures are logged, never propagated; a failing cleanup must not
// turn an otherwise clean shutdown into a process failure. The last cleanup
// error stays inspectable through CleanupError.
func (h *Host) Shutdown(ctx context.Context) error {
	h.mu.Lock()
	if h.state == StateStopped {
		h.mu.Unlock()
		return nil
	}
	h.state = StateShuttingDown
	a := h.agent
	h.mu.Unlock()

	h.cleanupOnce.Do(func() {
		if a != nil {
			if err := a.Cleanup(ctx); err != nil {
				h.logger.Error("cleanup error", "error", err)
				h.mu.Lock()
				h.cleanupErr = err
				h.mu.Unlock()
			}
		}
	})

	h.mu.Lock()
	h.state = StateStopped
	h.mu.Unlock()
	return nil
}

// CleanupError returns the error from agent cleanup, if any. Shutdown never
// propagates it.
func (h *Host) CleanupError() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cleanupErr
}

// Dispatch routes one inbound activity. All replies go through the turn
// context; handler failures are converted to apology replies so the turn
// always completes.
func (h *Host) Dispatch(ctx context.Context, turn *activity.TurnContext) {
	act := turn.Activity()
	if act == nil {
		return
	}

	switch {
	case act.Type == activity.TypeConversationUpdate:
		if len(act.MembersAdded) > 0 {
			h.sendGreeting(ctx, turn)
		}
	case act.IsNotification():
		h.dispatchNotification(ctx, turn)
	case act.Type == activity.TypeMessage:
		h.dispatchMessage(ctx, turn)
	default:
		h.logger.Debug("ignoring activity", "type", act.Type)
	}
}

func (h *Host) dispatchMessage(ctx context.Context, turn *activity.TurnContext) {
	a := h.Agent()
	if a == nil {
		h.logger.Error("agent not available")
		_ = turn.SendText(ctx, agentUnavailableMsg)
		return
	}

	text := strings.TrimSpace(turn.Activity().Text)
	if text == "" {
		return
	}
	if text == "/help" {
		h.sendGreeting(ctx, turn)
		return
	}

	ctx = h.setupTurn(ctx, turn)

	h.logger.Info("processing message", "text", text)
	response := a.ProcessUserMessage(ctx, text, h.exchanger, h.cfg.AuthHandlerName, turn)
	h.logger.Info("agent response", "preview", preview(response))
	if err := turn.SendText(ctx, response); err != nil {
		h.logger.Error("failed to send response", "error", err)
	}
}

func (h *Host) dispatchNotification(ctx context.Context, turn *activity.TurnContext) {
	a := h.Agent()
	if a == nil {
		h.logger.Error("agent not available")
		_ = turn.SendText(ctx, agentUnavailableMsg)
		return
	}

	act := turn.Activity()
	notification := act.Notification
	if notification == nil {
		notification = &activity.Notification{}
	}

	ctx = h.setupTurn(ctx, turn)
	h.logger.Info("notification received", "notification_type", string(notification.NotificationType))

	handler, ok := a.(agent.NotificationHandler)
	if !ok {
		_ = turn.SendText(ctx, notificationUnsupported)
		return
	}

	response, err := handler.ProcessNotification(ctx, *notification, turn)
	if err != nil {
		h.logger.Error("notification error", "error", err)
		_ = turn.SendText(ctx, fmt.Sprintf("Sorry, I encountered an error processing the notification: %s", err))
		return
	}

	if notification.NotificationType == activity.NotificationEmail {
		_ = turn.SendActivity(ctx, activity.NewEmailResponse(act, response))
		return
	}
	_ = turn.SendText(ctx, response)
}

// setupTurn caches the observability token for this tenant/agent pair and
// stamps both ids onto the context as baggage.
func (h *Host) setupTurn(ctx context.Context, turn *activity.TurnContext) context.Context {
	act := turn.Activity()
	tenantID := act.TenantID()
	agentID := act.AgentID()

	h.cacheObservabilityToken(ctx, tenantID, agentID)

	ctx, err := observability.NewBaggageBuilder().
		TenantID(tenantID).
		AgentID(agentID).
		Build(ctx)
	if err != nil {
		h.logger.Warn("failed to build baggage", "error", err)
	}
	return ctx
}

// cacheObservabilityToken exchanges a delegated token for the telemetry
// pipeline and caches it per tenant/agent. A fresh cached token skips the
// exchange. Failures are logged, never fatal to the turn.
func (h *Host) cacheObservabilityToken(ctx context.Context, tenantID, agentID string) {
	if h.exchanger == nil || h.cfg.AuthHandlerName == "" {
		return
	}
	if _, ok := h.tokens.Get(tenantID, agentID); ok {
		return
	}

	token, err := h.exchanger.ExchangeToken(ctx, []string{auth.ObservabilityScope}, h.cfg.AuthHandlerName)
	if err != nil {
		h.logger.Warn("failed to cache observability token", "error", err)
		return
	}
	h.tokens.Put(tenantID, agentID, token.Value)
}

func (h *Host) sendGreeting(ctx context.Context, turn *activity.TurnContext) {
	name := agent.TypeName(h.Agent())
	greeting := fmt.Sprintf("Hi there! I'm **%s**, your AI assistant.\n\nHow can I help you today?", name)
	if err := turn.SendText(ctx, greeting); err != nil {
		h.logger.Error("failed to send greeting", "error", err)
	}
}

// preview truncates long responses for logging without splitting a rune.
func preview(s string) string {
	const max = 200
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
