package orchestrator

import (
	"context"
	"fmt"

	"github.com/rodrigodemos/microsoft-agents-starterkit/model"
	"github.com/rodrigodemos/microsoft-agents-starterkit/tool"
)

// NewComedianTool wraps a joke-telling sub-agent as a tool. It shares the
// orchestrator's model client and runs a single completion per invocation.
func NewComedianTool(m model.Model) tool.Tool {
	params := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"input": map[string]any{
				"type":        "string",
				"description": "The user's full request for humor, passed verbatim.",
			},
		},
		"required": []string{"input"},
	}

	return tool.NewFunctionTool(
		"Comedian",
		"An agent that tells jokes and funny stories on any topic. Use this when the user wants humor, jokes, or something funny.",
		params,
		func(ctx context.Context, args map[string]any) (any, error) {
			input, _ := args["input"].(string)
			resp, err := m.Generate(ctx, model.Request{
				Instructions: comedianInstructions,
				Messages:     []model.Message{model.UserMessage(input)},
			})
			if err != nil {
				return nil, fmt.Errorf("comedian sub-agent: %w", err)
			}
			return resp.Message.Text(), nil
		},
	)
}
