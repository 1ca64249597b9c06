package mcptool

import (
	"context"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/rodrigodemos/microsoft-agents-starterkit/auth"
	"github.com/rodrigodemos/microsoft-agents-starterkit/logging"
	"github.com/rodrigodemos/microsoft-agents-starterkit/tool"
)

const (
	clientName    = "agents-starterkit"
	clientVersion = "0.1.0"
)

// Client is the subset of the MCP client used by the service. The concrete
// implementation is the mark3labs streamable HTTP client.
type Client interface {
	Start(ctx context.Context) error
	Initialize(ctx context.Context, req mcp.InitializeRequest) (*mcp.InitializeResult, error)
	ListTools(ctx context.Context, req mcp.ListToolsRequest) (*mcp.ListToolsResult, error)
	CallTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
	Close() error
}

// ClientFactory builds an MCP client for a server URL. The bearer token may
// be empty, in which case the connection is anonymous.
type ClientFactory func(url, bearerToken string) (Client, error)

func defaultClientFactory(url, bearerToken string) (Client, error) {
	var opts []transport.StreamableHTTPCOption
	if bearerToken != "" {
		opts = append(opts, transport.WithHTTPHeaders(map[string]string{
			"Authorization": "Bearer " + bearerToken,
		}))
	}
	return client.NewStreamableHttpClient(url, opts...)
}

// Options configure the remote tool service.
type Options struct {
	Logger logging.Logger

	// Scopes requested when exchanging a token for tool server access.
	// Empty scopes skip the exchange and connect anonymously.
	Scopes []string

	// Policy gates registration attempts. Defaults to AttemptOncePolicy.
	Policy RetryPolicy

	// Factory overrides client construction, used by tests.
	Factory ClientFactory
}

// Service discovers tools from remote MCP servers and exposes them as
// tool.Tool values. It is safe for concurrent use.
type Service struct {
	urls    []string
	logger  logging.Logger
	scopes  []string
	policy  RetryPolicy
	factory ClientFactory

	mu       sync.Mutex
	state    RegistrationState
	attempts int
	lastErr  error
	clients  []Client
	tools    []tool.Tool
}

// NewService creates a service for the given tool server URLs. A service
// with no URLs is valid and registers zero tools.
func NewService(urls []string, optFns ...func(o *Options)) *Service {
	opts := Options{
		Logger:  logging.NoOpLogger{},
		Policy:  AttemptOncePolicy{},
		Factory: defaultClientFactory,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Service{
		urls:    urls,
		logger:  opts.Logger,
		scopes:  opts.Scopes,
		policy:  opts.Policy,
		factory: opts.Factory,
	}
}

// State returns the current registration state.
func (s *Service) State() RegistrationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastError returns the error from the most recent failed attempt, or nil.
func (s *Service) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Tools returns the tools discovered by a successful registration. Before a
// successful registration it returns nil.
func (s *Service) Tools() []tool.Tool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tools
}

// EnsureRegistered runs registration if the retry policy allows it and
// returns the discovered tools. When the policy declines (for example after
// a failed attempt-once registration) it returns the cached result without
// contacting any server.
func (s *Service) EnsureRegistered(ctx context.Context, exchanger auth.TokenExchanger, handlerID string) ([]tool.Tool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.policy.ShouldAttempt(s.state, s.attempts) {
		if s.state == StateFailed {
			return nil, s.lastErr
		}
		return s.tools, nil
	}

	s.attempts++
	tools, clients, err := s.register(ctx, exchanger, handlerID)
	if err != nil {
		s.state = StateFailed
		s.lastErr = err
		s.logger.Warn("remote tool registration failed", "error", err, "attempt", s.attempts)
		return nil, err
	}

	s.state = StateSucceeded
	s.lastErr = nil
	s.tools = tools
	s.clients = clients
	s.logger.Info("remote tools registered", "servers", len(s.urls), "tools", len(tools))
	return tools, nil
}

func (s *Service) register(ctx context.Context, exchanger auth.TokenExchanger, handlerID string) ([]tool.Tool, []Client, error) {
	token := ""
	if len(s.scopes) > 0 && exchanger != nil {
		exchanged, err := exchanger.ExchangeToken(ctx, s.scopes, handlerID)
		if err != nil {
			return nil, nil, fmt.Errorf("tool token exchange: %w", err)
		}
		token = exchanged.Value
	}

	var (
		tools   []tool.Tool
		clients []Client
	)
	for _, url := range s.urls {
		c, err := s.connect(ctx, url, token)
		if err != nil {
			closeAll(clients)
			return nil, nil, fmt.Errorf("connect %s: %w", url, err)
		}
		clients = append(clients, c)

		listed, err := c.ListTools(ctx, mcp.ListToolsRequest{})
		if err != nil {
			closeAll(clients)
			return nil, nil, fmt.Errorf("list tools %s: %w", url, err)
		}
		for _, t := range listed.Tools {
			tools = append(tools, newRemoteTool(c, t))
		}
	}
	return tools, clients, nil
}

func (s *Service) connect(ctx context.Context, url, token string) (Client, error) {
	c, err := s.factory(url, token)
	if err != nil {
		return nil, err
	}
	if err := c.Start(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{
		Name:    clientName,
		Version: clientVersion,
	}
	if _, err := c.Initialize(ctx, initReq); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

// Cleanup closes all server connections and resets the cached tools. The
// registration state is preserved so an attempt-once policy stays spent.
func (s *Service) Cleanup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	for _, c := range s.clients {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.clients = nil
	s.tools = nil
	return firstErr
}

func closeAll(clients []Client) {
	for _, c := range clients {
		_ = c.Close()
	}
}
