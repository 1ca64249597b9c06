package mcptool

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/rodrigodemos/microsoft-agents-starterkit/tool"
)

// remoteTool adapts a discovered MCP tool to the tool.Tool interface.
// Arguments pass through unvalidated; the server owns the schema.
type remoteTool struct {
	client Client
	def    mcp.Tool
}

func newRemoteTool(c Client, def mcp.Tool) *remoteTool {
	return &remoteTool{client: c, def: def}
}

func (r *remoteTool) Name() string { return r.def.Name }

func (r *remoteTool) Description() string { return r.def.Description }

func (r *remoteTool) Parameters() map[string]any {
	schema := map[string]any{
		"type": "object",
	}
	if r.def.InputSchema.Type != "" {
		schema["type"] = r.def.InputSchema.Type
	}
	if len(r.def.InputSchema.Properties) > 0 {
		schema["properties"] = r.def.InputSchema.Properties
	}
	if len(r.def.InputSchema.Required) > 0 {
		schema["required"] = r.def.InputSchema.Required
	}
	return schema
}

func (r *remoteTool) Call(ctx context.Context, args map[string]any) (any, error) {
	req := mcp.CallToolRequest{}
	req.Params.Name = r.def.Name
	req.Params.Arguments = args

	result, err := r.client.CallTool(ctx, req)
	if err != nil {
		return nil, tool.NewToolError(r.def.Name, "remote call failed: "+err.Error(), tool.CodeExecution)
	}

	text := contentText(result.Content)
	if result.IsError {
		return nil, tool.NewToolError(r.def.Name, text, tool.CodeExecution)
	}
	return text, nil
}

// contentText concatenates the text blocks of a tool result.
func contentText(content []mcp.Content) string {
	var sb strings.Builder
	for _, c := range content {
		if tc, ok := mcp.AsTextContent(c); ok {
			if sb.Len() > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(tc.Text)
		}
	}
	return sb.String()
}
