// Package tool implements the function calling subsystem that lets the
// orchestrating model invoke structured capabilities (sub-agents, remote tool
// servers) with schema validated arguments and consistent error handling.
package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rodrigodemos/microsoft-agents-starterkit/internal/util"
)

// Tool is a callable capability exposed to the orchestrating model.
//
// Implementations should provide clear names and descriptions (the model
// selects tools based on them), define a JSON schema for parameters, handle
// errors gracefully and be safe for concurrent use.
type Tool interface {
	// Name returns the unique identifier for this tool (snake_case recommended).
	Name() string

	// Description tells the model when and how to use the tool.
	Description() string

	// Parameters returns a JSON schema describing the expected arguments.
	Parameters() map[string]any

	// Call executes the tool with arguments parsed from the model's function
	// call. Arguments are validated against the tool's schema first.
	Call(ctx context.Context, args map[string]any) (any, error)
}

// ValidationError re-exports the argument validation error type.
type ValidationError = util.ValidationError

// Error codes used by the tool layer.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeExecution  = "EXECUTION_ERROR"
	CodeNotFound   = "NOT_FOUND"
)

// ToolError represents errors that occur during tool execution.
type ToolError struct {
	Tool    string `json:"tool"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewToolError creates a ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{Tool: tool, Message: message, Code: code}
}

// ParseArguments decodes the JSON arguments of a model function call. An
// empty string decodes to an empty map.
func ParseArguments(raw string) (map[string]any, error) {
	if raw == "" {
		return map[string]any{}, nil
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, fmt.Errorf("parse tool arguments: %w", err)
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, nil
}
