package mcptool

import (
	"context"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rodrigodemos/microsoft-agents-starterkit/auth"
)

type fakeClient struct {
	tools       []mcp.Tool
	startErr    error
	initErr     error
	listErr     error
	callResult  *mcp.CallToolResult
	callErr     error
	closed      bool
	lastRequest mcp.CallToolRequest
}

func (f *fakeClient) Start(ctx context.Context) error { return f.startErr }

func (f *fakeClient) Initialize(ctx context.Context, req mcp.InitializeRequest) (*mcp.InitializeResult, error) {
	if f.initErr != nil {
		return nil, f.initErr
	}
	return &mcp.InitializeResult{}, nil
}

func (f *fakeClient) ListTools(ctx context.Context, req mcp.ListToolsRequest) (*mcp.ListToolsResult, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return &mcp.ListToolsResult{Tools: f.tools}, nil
}

func (f *fakeClient) CallTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f.lastRequest = req
	if f.callErr != nil {
		return nil, f.callErr
	}
	return f.callResult, nil
}

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

func echoTool() mcp.Tool {
	return mcp.Tool{
		Name:        "echo",
		Description: "Echoes input back",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{"text": map[string]any{"type": "string"}},
			Required:   []string{"text"},
		},
	}
}

func newTestService(fc *fakeClient, optFns ...func(o *Options)) *Service {
	fns := append([]func(o *Options){func(o *Options) {
		o.Factory = func(url, token string) (Client, error) { return fc, nil }
	}}, optFns...)
	return NewService([]string{"http://localhost:9000/mcp"}, fns...)
}

func TestEnsureRegisteredDiscoversTools(t *testing.T) {
	fc := &fakeClient{tools: []mcp.Tool{echoTool()}}
	svc := newTestService(fc)

	tools, err := svc.EnsureRegistered(context.Background(), nil, "")
	require.NoError(t, err)
	require.Len(t, tools, 1)
	assert.Equal(t, "echo", tools[0].Name())
	assert.Equal(t, StateSucceeded, svc.State())
}

func TestEnsureRegisteredFailureIsNotRetried(t *testing.T) {
	calls := 0
	svc := NewService([]string{"http://localhost:9000/mcp"}, func(o *Options) {
		o.Factory = func(url, token string) (Client, error) {
			calls++
			return nil, errors.New("connection refused")
		}
	})

	_, err := svc.EnsureRegistered(context.Background(), nil, "")
	require.Error(t, err)
	assert.Equal(t, StateFailed, svc.State())

	_, err = svc.EnsureRegistered(context.Background(), nil, "")
	require.Error(t, err)
	assert.Equal(t, 1, calls, "attempt-once policy must not reconnect")
}

func TestEnsureRegisteredMaxAttemptsRetries(t *testing.T) {
	calls := 0
	fc := &fakeClient{tools: []mcp.Tool{echoTool()}}
	svc := NewService([]string{"http://localhost:9000/mcp"},
		func(o *Options) { o.Policy = MaxAttemptsPolicy{Max: 3} },
		func(o *Options) {
			o.Factory = func(url, token string) (Client, error) {
				calls++
				if calls == 1 {
					return nil, errors.New("transient")
				}
				return fc, nil
			}
		},
	)

	_, err := svc.EnsureRegistered(context.Background(), nil, "")
	require.Error(t, err)

	tools, err := svc.EnsureRegistered(context.Background(), nil, "")
	require.NoError(t, err)
	assert.Len(t, tools, 1)
	assert.Equal(t, StateSucceeded, svc.State())
}

func TestEnsureRegisteredIdempotentAfterSuccess(t *testing.T) {
	calls := 0
	fc := &fakeClient{tools: []mcp.Tool{echoTool()}}
	svc := NewService([]string{"http://localhost:9000/mcp"}, func(o *Options) {
		o.Factory = func(url, token string) (Client, error) {
			calls++
			return fc, nil
		}
	})

	first, err := svc.EnsureRegistered(context.Background(), nil, "")
	require.NoError(t, err)
	second, err := svc.EnsureRegistered(context.Background(), nil, "")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestEnsureRegisteredExchangesTokenWhenScoped(t *testing.T) {
	var seenToken string
	fc := &fakeClient{tools: []mcp.Tool{echoTool()}}
	svc := NewService([]string{"http://localhost:9000/mcp"},
		func(o *Options) { o.Scopes = []string{"api://tools/.default"} },
		func(o *Options) {
			o.Factory = func(url, token string) (Client, error) {
				seenToken = token
				return fc, nil
			}
		},
	)

	exchanger := auth.NewStaticTokenExchanger("tool-token")
	_, err := svc.EnsureRegistered(context.Background(), exchanger, "AGENTIC")
	require.NoError(t, err)
	assert.Equal(t, "tool-token", seenToken)
}

func TestEnsureRegisteredTokenExchangeFailure(t *testing.T) {
	svc := NewService([]string{"http://localhost:9000/mcp"},
		func(o *Options) { o.Scopes = []string{"api://tools/.default"} },
	)

	exchanger := auth.TokenExchangerFunc(func(ctx context.Context, scopes []string, handlerID string) (auth.Token, error) {
		return auth.Token{}, errors.New("exchange denied")
	})
	_, err := svc.EnsureRegistered(context.Background(), exchanger, "AGENTIC")
	require.Error(t, err)
	assert.Equal(t, StateFailed, svc.State())
}

func TestNoServersRegistersNothing(t *testing.T) {
	svc := NewService(nil)
	tools, err := svc.EnsureRegistered(context.Background(), nil, "")
	require.NoError(t, err)
	assert.Empty(t, tools)
	assert.Equal(t, StateSucceeded, svc.State())
}

func TestCleanupClosesClients(t *testing.T) {
	fc := &fakeClient{tools: []mcp.Tool{echoTool()}}
	svc := newTestService(fc)

	_, err := svc.EnsureRegistered(context.Background(), nil, "")
	require.NoError(t, err)

	require.NoError(t, svc.Cleanup(context.Background()))
	assert.True(t, fc.closed)
	assert.Nil(t, svc.Tools())
	assert.Equal(t, StateSucceeded, svc.State())
}

func TestRemoteToolCall(t *testing.T) {
	fc := &fakeClient{
		tools: []mcp.Tool{echoTool()},
		callResult: &mcp.CallToolResult{
			Content: []mcp.Content{mcp.NewTextContent("hello back")},
		},
	}
	svc := newTestService(fc)

	tools, err := svc.EnsureRegistered(context.Background(), nil, "")
	require.NoError(t, err)
	require.Len(t, tools, 1)

	out, err := tools[0].Call(context.Background(), map[string]any{"text": "hello"})
	require.NoError(t, err)
	assert.Equal(t, "hello back", out)
	assert.Equal(t, "echo", fc.lastRequest.Params.Name)
}

func TestRemoteToolCallServerError(t *testing.T) {
	fc := &fakeClient{
		tools: []mcp.Tool{echoTool()},
		callResult: &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{mcp.NewTextContent("boom")},
		},
	}
	svc := newTestService(fc)

	tools, err := svc.EnsureRegistered(context.Background(), nil, "")
	require.NoError(t, err)

	_, err = tools[0].Call(context.Background(), map[string]any{"text": "hello"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestRemoteToolParameters(t *testing.T) {
	fc := &fakeClient{tools: []mcp.Tool{echoTool()}}
	svc := newTestService(fc)

	tools, err := svc.EnsureRegistered(context.Background(), nil, "")
	require.NoError(t, err)

	params := tools[0].Parameters()
	assert.Equal(t, "object", params["type"])
	assert.Contains(t, params, "properties")
	assert.Equal(t, []string{"text"}, params["required"])
}
