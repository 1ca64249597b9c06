package model

import (
	"context"
	"fmt"
	"strings"
)

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ToolCall represents a function call request surfaced by a model provider,
// unified across vendors so downstream logic needs no per-provider branching.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"` // JSON string of arguments
}

// ToolDefinition declaratively exposes a callable function to the model.
// Parameters is a JSON Schema object (minimal subset expected).
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Part is one element of a message's content. The concrete shapes are
// TextPart and ToolCallPart; extraction walks parts in order so the result
// of a response is deterministic.
type Part interface{ part() }

// TextPart carries plain text content.
type TextPart struct {
	Text string `json:"text"`
}

func (TextPart) part() {}

// ToolCallPart carries a function call requested by the model.
type ToolCallPart struct {
	ToolCall ToolCall `json:"tool_call"`
}

func (ToolCallPart) part() {}

// Message is a single entry in the conversation sent to or returned by a
// model. Tool result messages set ToolCallID to correlate with the call.
type Message struct {
	Role       string `json:"role"`
	Parts      []Part `json:"parts"`
	ToolCallID string `json:"tool_call_id,omitempty"`
}

// Text concatenates the message's text parts in order.
func (m Message) Text() string {
	var b strings.Builder
	for _, p := range m.Parts {
		if tp, ok := p.(TextPart); ok {
			b.WriteString(tp.Text)
		}
	}
	return b.String()
}

// ToolCalls returns the message's tool call parts in order.
func (m Message) ToolCalls() []ToolCall {
	var calls []ToolCall
	for _, p := range m.Parts {
		if tc, ok := p.(ToolCallPart); ok {
			calls = append(calls, tc.ToolCall)
		}
	}
	return calls
}

// SystemMessage builds a system message from text.
func SystemMessage(text string) Message {
	return Message{Role: RoleSystem, Parts: []Part{TextPart{Text: text}}}
}

// UserMessage builds a user message from text.
func UserMessage(text string) Message {
	return Message{Role: RoleUser, Parts: []Part{TextPart{Text: text}}}
}

// AssistantMessage builds an assistant message from text.
func AssistantMessage(text string) Message {
	return Message{Role: RoleAssistant, Parts: []Part{TextPart{Text: text}}}
}

// ToolResultMessage builds a tool result message correlated to a call id.
func ToolResultMessage(callID, text string) Message {
	return Message{Role: RoleTool, Parts: []Part{TextPart{Text: text}}, ToolCallID: callID}
}

// Request captures the normalized model input produced by the orchestrator.
type Request struct {
	Instructions string           `json:"instructions"`
	Messages     []Message        `json:"messages"`
	Tools        []ToolDefinition `json:"tools,omitempty"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the final output of one model invocation.
type Response struct {
	ID           string      `json:"id"`
	Message      Message     `json:"message"`
	FinishReason string      `json:"finish_reason"` // "stop", "length", "tool_calls", etc.
	Usage        *TokenUsage `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "azure-openai", "anthropic", "mock"
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the minimal interface required to drive generation.
type Model interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// Info returns information about the model implementation.
	Info() Info
}

// MockModel is a lightweight in-memory Model useful for tests.
type MockModel struct {
	info      Info
	responses map[string]string
}

// NewMockModel constructs a MockModel with tool support enabled.
func NewMockModel(name, provider string) *MockModel {
	return &MockModel{
		info:      Info{Name: name, Provider: provider, SupportsTools: true},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for an input prompt.
func (m *MockModel) AddResponse(prompt, response string) { m.responses[prompt] = response }

// Generate implements Model; replies with the canned response for the last
// user or tool message, or a generic echo.
func (m *MockModel) Generate(_ context.Context, req Request) (*Response, error) {
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("no messages provided")
	}
	last := req.Messages[len(req.Messages)-1]
	full := m.responses[last.Text()]
	if full == "" {
		full = fmt.Sprintf("Mock response to: %s", last.Text())
	}
	return &Response{
		Message:      AssistantMessage(full),
		FinishReason: "stop",
	}, nil
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }
