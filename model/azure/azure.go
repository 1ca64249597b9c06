// Package azure provides an implementation of model.Model using the Azure
// OpenAI Chat Completions API with Entra ID authentication. It adapts the
// starter kit's normalized Request/Response structures into the SDK's
// message format and back.
package azure

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/openai/openai-go"
	azopenai "github.com/openai/openai-go/azure"

	"github.com/rodrigodemos/microsoft-agents-starterkit/config"
	"github.com/rodrigodemos/microsoft-agents-starterkit/model"
)

// Options configure the Azure OpenAI model adapter. Fields mirror a subset
// of Chat Completion parameters intentionally kept minimal.
type Options struct {
	Temperature         float64
	MaxCompletionTokens int64

	// Credential overrides the default ManagedIdentity -> AzureCLI chain.
	Credential azcore.TokenCredential
}

// Model wraps the Azure OpenAI Chat Completions API behind the generic
// model.Model interface. The deployment name acts as the model id.
type Model struct {
	client     *openai.Client
	deployment string
	opts       Options
}

// NewChainedCredential builds the default credential chain: Managed Identity
// first, Azure CLI as the local development fallback.
func NewChainedCredential() (azcore.TokenCredential, error) {
	mi, err := azidentity.NewManagedIdentityCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("managed identity credential: %w", err)
	}
	cli, err := azidentity.NewAzureCLICredential(nil)
	if err != nil {
		return nil, fmt.Errorf("azure cli credential: %w", err)
	}
	return azidentity.NewChainedTokenCredential([]azcore.TokenCredential{mi, cli}, nil)
}

// NewModel creates an Azure OpenAI model from the given configuration.
// Missing endpoint, deployment or API version is a fatal configuration error
// reported before any network call.
func NewModel(cfg config.AzureOpenAIConfig, optFns ...func(o *Options)) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := Options{
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	cred := opts.Credential
	if cred == nil {
		var err error
		if cred, err = NewChainedCredential(); err != nil {
			return nil, err
		}
	}

	client := openai.NewClient(
		azopenai.WithEndpoint(cfg.Endpoint, cfg.APIVersion),
		azopenai.WithTokenCredential(cred),
	)

	return &Model{client: &client, deployment: cfg.Deployment, opts: opts}, nil
}

// Generate implements model.Model using a non-streaming chat completion.
func (m *Model) Generate(ctx context.Context, req model.Request) (*model.Response, error) {
	params := m.buildParams(req)

	resp, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("azure openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices returned")
	}

	ch0 := resp.Choices[0]
	parts := make([]model.Part, 0, len(ch0.Message.ToolCalls)+1)
	if ch0.Message.Content != "" {
		parts = append(parts, model.TextPart{Text: ch0.Message.Content})
	}
	for _, tc := range ch0.Message.ToolCalls {
		parts = append(parts, model.ToolCallPart{ToolCall: model.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		}})
	}

	out := &model.Response{
		ID:           resp.ID,
		Message:      model.Message{Role: model.RoleAssistant, Parts: parts},
		FinishReason: ch0.FinishReason,
	}
	if resp.Usage.TotalTokens > 0 {
		out.Usage = &model.TokenUsage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		}
	}
	return out, nil
}

// buildParams assembles the request parameters including tool definitions.
func (m *Model) buildParams(req model.Request) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Messages:            buildMessages(req),
		Model:               m.deployment,
		Temperature:         openai.Float(m.opts.Temperature),
		MaxCompletionTokens: openai.Int(m.opts.MaxCompletionTokens),
	}
	if len(req.Tools) == 0 {
		return params
	}
	tools := make([]openai.ChatCompletionToolParam, len(req.Tools))
	for i, tdef := range req.Tools {
		tools[i] = openai.ChatCompletionToolParam{
			Type: "function",
			Function: openai.FunctionDefinitionParam{
				Name:        tdef.Name,
				Description: openai.String(tdef.Description),
				Parameters:  tdef.Parameters,
			},
		}
	}
	params.Tools = tools
	return params
}

// buildMessages converts normalized messages into SDK chat messages,
// prefixing the request instructions as a system message.
func buildMessages(req model.Request) []openai.ChatCompletionMessageParamUnion {
	var messages []openai.ChatCompletionMessageParamUnion
	if req.Instructions != "" {
		messages = append(messages, openai.SystemMessage(req.Instructions))
	}

	for _, msg := range req.Messages {
		switch msg.Role {
		case model.RoleSystem:
			messages = append(messages, openai.SystemMessage(msg.Text()))
		case model.RoleUser:
			messages = append(messages, openai.UserMessage(msg.Text()))
		case model.RoleAssistant:
			calls := msg.ToolCalls()
			if len(calls) == 0 {
				messages = append(messages, openai.AssistantMessage(msg.Text()))
				continue
			}
			toolCalls := make([]openai.ChatCompletionMessageToolCallParam, len(calls))
			for i, tc := range calls {
				toolCalls[i] = openai.ChatCompletionMessageToolCallParam{
					ID:   tc.ID,
					Type: "function",
					Function: openai.ChatCompletionMessageToolCallFunctionParam{
						Name:      tc.Name,
						Arguments: tc.Arguments,
					},
				}
			}
			messages = append(messages, openai.ChatCompletionMessageParamUnion{
				OfAssistant: &openai.ChatCompletionAssistantMessageParam{
					Role:      "assistant",
					ToolCalls: toolCalls,
				},
			})
		case model.RoleTool:
			messages = append(messages, openai.ToolMessage(msg.Text(), msg.ToolCallID))
		default:
			if text := msg.Text(); text != "" {
				messages = append(messages, openai.UserMessage(text))
			}
		}
	}
	return messages
}

// Info returns metadata describing this Azure OpenAI deployment.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:          m.deployment,
		Provider:      "azure-openai",
		SupportsTools: true,
	}
}
