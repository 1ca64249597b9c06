package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/rodrigodemos/microsoft-agents-starterkit/activity"
	"github.com/rodrigodemos/microsoft-agents-starterkit/auth"
	"github.com/rodrigodemos/microsoft-agents-starterkit/logging"
	"github.com/rodrigodemos/microsoft-agents-starterkit/mcptool"
	"github.com/rodrigodemos/microsoft-agents-starterkit/model"
	"github.com/rodrigodemos/microsoft-agents-starterkit/observability"
	"github.com/rodrigodemos/microsoft-agents-starterkit/session"
	"github.com/rodrigodemos/microsoft-agents-starterkit/tool"
)

const (
	fallbackResponse = "I couldn't process your request at this time."

	defaultMaxIterations = 8
	historyWindow        = 20
)

// Options configure the orchestrator.
type Options struct {
	Logger logging.Logger

	// MaxIterations bounds the generate/execute tool loop per turn.
	MaxIterations int

	// ToolService supplies remote tools. Nil disables remote tools.
	ToolService *mcptool.Service

	// Sessions stores per-conversation history. Nil disables history.
	Sessions *session.InMemoryStore

	// DisableInstrumentation skips the model span wrapper, used by tests.
	DisableInstrumentation bool
}

// Orchestrator routes user messages through a chat model with local
// sub-agent tools and optional remote MCP tools. It implements agent.Agent.
type Orchestrator struct {
	model         model.Model
	tools         []tool.Tool
	toolService   *mcptool.Service
	sessions      *session.InMemoryStore
	logger        logging.Logger
	maxIterations int
}

// New builds the orchestrator around a model client. A nil model is a fatal
// configuration error. The comedian sub-agent is always registered; remote
// tools come from the optional tool service at first use.
func New(m model.Model, optFns ...func(o *Options)) (*Orchestrator, error) {
	if m == nil {
		return nil, fmt.Errorf("orchestrator requires a model client")
	}

	opts := Options{
		Logger:        logging.NoOpLogger{},
		MaxIterations: defaultMaxIterations,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if !opts.DisableInstrumentation {
		m = observability.InstrumentModel(m)
	}

	o := &Orchestrator{
		model:         m,
		tools:         []tool.Tool{NewComedianTool(m)},
		toolService:   opts.ToolService,
		sessions:      opts.Sessions,
		logger:        opts.Logger,
		maxIterations: opts.MaxIterations,
	}
	o.logger.Info("orchestrator created", "sub_agent_tools", len(o.tools))
	return o, nil
}

// Initialize implements agent.Agent.
func (o *Orchestrator) Initialize(ctx context.Context) error {
	o.logger.Info("orchestrator agent initialized")
	return nil
}

// ProcessUserMessage implements agent.Agent. It never returns an empty
// string and never panics; failures come back as an error-describing
// response so the host always has something to relay.
func (o *Orchestrator) ProcessUserMessage(ctx context.Context, message string, exchanger auth.TokenExchanger, authHandlerName string, turn *activity.TurnContext) (response string) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("panic while processing message", "panic", r)
			response = fmt.Sprintf("Sorry, I encountered an error: %v", r)
		}
	}()

	tools := o.availableTools(ctx, exchanger, authHandlerName)
	conversationID := o.conversationID(turn)

	reply, err := o.run(ctx, message, conversationID, tools)
	if err != nil {
		o.logger.Error("error processing message", "error", err)
		return fmt.Sprintf("Sorry, I encountered an error: %s", err)
	}
	if reply == "" {
		return fallbackResponse
	}

	o.remember(conversationID, message, reply)
	return reply
}

// Cleanup implements agent.Agent.
func (o *Orchestrator) Cleanup(ctx context.Context) error {
	if o.toolService != nil {
		if err := o.toolService.Cleanup(ctx); err != nil {
			o.logger.Error("cleanup error", "error", err)
			return err
		}
	}
	o.logger.Info("orchestrator cleanup completed")
	return nil
}

// availableTools merges local sub-agent tools with remote tools. Remote
// registration failures degrade to local-only operation; the tool service's
// retry policy decides whether a later turn tries again.
func (o *Orchestrator) availableTools(ctx context.Context, exchanger auth.TokenExchanger, authHandlerName string) []tool.Tool {
	tools := make([]tool.Tool, len(o.tools))
	copy(tools, o.tools)

	if o.toolService == nil {
		return tools
	}
	remote, err := o.toolService.EnsureRegistered(ctx, exchanger, authHandlerName)
	if err != nil {
		o.logger.Error("mcp setup error", "error", err)
		return tools
	}
	return append(tools, remote...)
}

// run executes the generate/tool loop until the model produces a final text
// answer or the iteration budget is exhausted.
func (o *Orchestrator) run(ctx context.Context, message, conversationID string, tools []tool.Tool) (string, error) {
	byName := make(map[string]tool.Tool, len(tools))
	defs := make([]model.ToolDefinition, len(tools))
	for i, t := range tools {
		byName[t.Name()] = t
		defs[i] = model.ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		}
	}

	messages := o.history(conversationID)
	messages = append(messages, model.UserMessage(message))

	for i := 0; i < o.maxIterations; i++ {
		start := time.Now()
		resp, err := o.model.Generate(ctx, model.Request{
			Instructions: orchestratorInstructions,
			Messages:     messages,
			Tools:        defs,
		})
		logging.LogModelCall(o.logger, o.model.Info().Name, time.Since(start), err)
		if err != nil {
			return "", err
		}

		calls := resp.Message.ToolCalls()
		if len(calls) == 0 {
			return resp.Message.Text(), nil
		}

		messages = append(messages, resp.Message)
		for _, call := range calls {
			messages = append(messages, o.executeTool(ctx, byName, call))
		}
	}
	return "", fmt.Errorf("tool loop exceeded %d iterations", o.maxIterations)
}

// executeTool runs one tool call and wraps the outcome as a tool result
// message. Tool failures feed back to the model as text instead of aborting
// the turn.
func (o *Orchestrator) executeTool(ctx context.Context, byName map[string]tool.Tool, call model.ToolCall) model.Message {
	t, ok := byName[call.Name]
	if !ok {
		o.logger.Warn("model requested unknown tool", "tool", call.Name)
		return model.ToolResultMessage(call.ID, fmt.Sprintf("tool %q not found", call.Name))
	}

	args, err := tool.ParseArguments(call.Arguments)
	if err != nil {
		return model.ToolResultMessage(call.ID, fmt.Sprintf("invalid arguments: %s", err))
	}

	start := time.Now()
	result, err := t.Call(ctx, args)
	logging.LogToolCall(o.logger, call.Name, time.Since(start), err)
	if err != nil {
		return model.ToolResultMessage(call.ID, fmt.Sprintf("tool error: %s", err))
	}
	return model.ToolResultMessage(call.ID, fmt.Sprint(result))
}

func (o *Orchestrator) conversationID(turn *activity.TurnContext) string {
	if turn == nil || turn.Activity() == nil {
		return ""
	}
	return turn.Activity().Conversation.ID
}

// history rebuilds prior turns as model messages, bounded to the most
// recent window.
func (o *Orchestrator) history(conversationID string) []model.Message {
	if o.sessions == nil || conversationID == "" {
		return nil
	}
	conv := o.sessions.Get(conversationID)
	turns := conv.Turns
	if len(turns) > historyWindow {
		turns = turns[len(turns)-historyWindow:]
	}

	messages := make([]model.Message, 0, len(turns))
	for _, t := range turns {
		if t.Role == "agent" {
			messages = append(messages, model.AssistantMessage(t.Text))
		} else {
			messages = append(messages, model.UserMessage(t.Text))
		}
	}
	return messages
}

func (o *Orchestrator) remember(conversationID, message, reply string) {
	if o.sessions == nil || conversationID == "" {
		return
	}
	now := time.Now()
	o.sessions.Append(conversationID, session.Turn{Role: "user", Text: message, At: now})
	o.sessions.Append(conversationID, session.Turn{Role: "agent", Text: reply, At: now})
}
