package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rodrigodemos/microsoft-agents-starterkit/activity"
	"github.com/rodrigodemos/microsoft-agents-starterkit/mcptool"
	"github.com/rodrigodemos/microsoft-agents-starterkit/model"
	"github.com/rodrigodemos/microsoft-agents-starterkit/session"
)

// scriptedModel returns queued responses in order and records every request.
type scriptedModel struct {
	responses []*model.Response
	err       error
	requests  []model.Request
}

func (s *scriptedModel) Generate(ctx context.Context, req model.Request) (*model.Response, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, s.err
	}
	if len(s.responses) == 0 {
		return nil, fmt.Errorf("script exhausted after %d requests", len(s.requests))
	}
	resp := s.responses[0]
	s.responses = s.responses[1:]
	return resp, nil
}

func (s *scriptedModel) Info() model.Info {
	return model.Info{Name: "scripted", Provider: "test", SupportsTools: true}
}

func textResponse(text string) *model.Response {
	return &model.Response{
		Message:      model.AssistantMessage(text),
		FinishReason: "stop",
	}
}

func toolCallResponse(id, name, args string) *model.Response {
	return &model.Response{
		Message: model.Message{
			Role: model.RoleAssistant,
			Parts: []model.Part{
				model.ToolCallPart{ToolCall: model.ToolCall{ID: id, Name: name, Arguments: args}},
			},
		},
		FinishReason: "tool_calls",
	}
}

func newTestOrchestrator(t *testing.T, m model.Model, optFns ...func(o *Options)) *Orchestrator {
	t.Helper()
	fns := append([]func(o *Options){func(o *Options) {
		o.DisableInstrumentation = true
	}}, optFns...)
	o, err := New(m, fns...)
	require.NoError(t, err)
	return o
}

func TestNewRequiresModel(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestProcessUserMessageDirectAnswer(t *testing.T) {
	m := &scriptedModel{responses: []*model.Response{textResponse("Paris is the capital of France.")}}
	o := newTestOrchestrator(t, m)

	out := o.ProcessUserMessage(context.Background(), "capital of France?", nil, "", nil)
	assert.Equal(t, "Paris is the capital of France.", out)

	require.Len(t, m.requests, 1)
	assert.Equal(t, orchestratorInstructions, m.requests[0].Instructions)
	require.Len(t, m.requests[0].Tools, 1)
	assert.Equal(t, "Comedian", m.requests[0].Tools[0].Name)
}

func TestProcessUserMessageDelegatesToComedian(t *testing.T) {
	m := &scriptedModel{responses: []*model.Response{
		toolCallResponse("call-1", "Comedian", `{"input":"tell me a joke about gophers"}`),
		textResponse("Why did the gopher cross the road? To avoid the garbage collector."),
		textResponse("Here's one: Why did the gopher cross the road? To avoid the garbage collector."),
	}}
	o := newTestOrchestrator(t, m)

	out := o.ProcessUserMessage(context.Background(), "tell me a joke about gophers", nil, "", nil)
	assert.Contains(t, out, "garbage collector")

	// orchestrator turn, comedian sub-agent turn, final orchestrator turn
	require.Len(t, m.requests, 3)
	assert.Equal(t, comedianInstructions, m.requests[1].Instructions)

	final := m.requests[2].Messages
	require.NotEmpty(t, final)
	last := final[len(final)-1]
	assert.Equal(t, model.RoleTool, last.Role)
	assert.Equal(t, "call-1", last.ToolCallID)
}

func TestProcessUserMessageModelError(t *testing.T) {
	m := &scriptedModel{err: errors.New("deployment not found")}
	o := newTestOrchestrator(t, m)

	out := o.ProcessUserMessage(context.Background(), "hi", nil, "", nil)
	assert.Contains(t, out, "Sorry, I encountered an error")
	assert.Contains(t, out, "deployment not found")
}

func TestProcessUserMessageEmptyResultFallback(t *testing.T) {
	m := &scriptedModel{responses: []*model.Response{textResponse("")}}
	o := newTestOrchestrator(t, m)

	out := o.ProcessUserMessage(context.Background(), "hi", nil, "", nil)
	assert.Equal(t, fallbackResponse, out)
}

func TestProcessUserMessageUnknownTool(t *testing.T) {
	m := &scriptedModel{responses: []*model.Response{
		toolCallResponse("call-1", "Mathematician", `{}`),
		textResponse("Let me answer directly instead."),
	}}
	o := newTestOrchestrator(t, m)

	out := o.ProcessUserMessage(context.Background(), "integrate x^2", nil, "", nil)
	assert.Equal(t, "Let me answer directly instead.", out)

	require.Len(t, m.requests, 2)
	msgs := m.requests[1].Messages
	last := msgs[len(msgs)-1]
	assert.Equal(t, model.RoleTool, last.Role)
	assert.Contains(t, last.Text(), "not found")
}

func TestProcessUserMessageIterationBudget(t *testing.T) {
	m := &scriptedModel{responses: []*model.Response{
		toolCallResponse("call-1", "Nope", `{}`),
		toolCallResponse("call-2", "Nope", `{}`),
		toolCallResponse("call-3", "Nope", `{}`),
	}}
	o := newTestOrchestrator(t, m, func(o *Options) { o.MaxIterations = 2 })

	out := o.ProcessUserMessage(context.Background(), "loop forever", nil, "", nil)
	assert.Contains(t, out, "Sorry, I encountered an error")
}

func TestFailedRemoteRegistrationDegradesToLocalTools(t *testing.T) {
	factoryCalls := 0
	svc := mcptool.NewService([]string{"http://localhost:9000/mcp"}, func(o *mcptool.Options) {
		o.Factory = func(url, token string) (mcptool.Client, error) {
			factoryCalls++
			return nil, errors.New("connection refused")
		}
	})

	m := &scriptedModel{responses: []*model.Response{
		textResponse("first"),
		textResponse("second"),
	}}
	o := newTestOrchestrator(t, m, func(o *Options) { o.ToolService = svc })

	assert.Equal(t, "first", o.ProcessUserMessage(context.Background(), "one", nil, "", nil))
	assert.Equal(t, "second", o.ProcessUserMessage(context.Background(), "two", nil, "", nil))
	assert.Equal(t, 1, factoryCalls, "failed registration must not be retried")
	assert.Equal(t, mcptool.StateFailed, svc.State())
}

func TestConversationHistoryCarriesAcrossTurns(t *testing.T) {
	m := &scriptedModel{responses: []*model.Response{
		textResponse("Nice to meet you, Ada."),
		textResponse("Your name is Ada."),
	}}
	store := session.NewInMemoryStore()
	o := newTestOrchestrator(t, m, func(o *Options) { o.Sessions = store })

	inbound := &activity.Activity{
		Type:         activity.TypeMessage,
		Conversation: activity.Conversation{ID: "conv-1"},
	}
	sender := activity.SenderFunc(func(ctx context.Context, a *activity.Activity) error { return nil })

	turn := activity.NewTurnContext(inbound, sender)
	o.ProcessUserMessage(context.Background(), "My name is Ada", nil, "", turn)

	turn = activity.NewTurnContext(inbound, sender)
	out := o.ProcessUserMessage(context.Background(), "What's my name?", nil, "", turn)
	assert.Equal(t, "Your name is Ada.", out)

	require.Len(t, m.requests, 2)
	msgs := m.requests[1].Messages
	require.Len(t, msgs, 3)
	assert.Equal(t, "My name is Ada", msgs[0].Text())
	assert.Equal(t, "Nice to meet you, Ada.", msgs[1].Text())
	assert.Equal(t, model.RoleAssistant, msgs[1].Role)
}

func TestCleanupClosesToolService(t *testing.T) {
	svc := mcptool.NewService(nil)
	m := &scriptedModel{}
	o := newTestOrchestrator(t, m, func(o *Options) { o.ToolService = svc })

	assert.NoError(t, o.Cleanup(context.Background()))
}
