package azure

import (
	"context"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rodrigodemos/microsoft-agents-starterkit/config"
	"github.com/rodrigodemos/microsoft-agents-starterkit/model"
)

type staticCredential struct{}

func (staticCredential) GetToken(ctx context.Context, opts policy.TokenRequestOptions) (azcore.AccessToken, error) {
	return azcore.AccessToken{Token: "token", ExpiresOn: time.Now().Add(time.Hour)}, nil
}

func validConfig() config.AzureOpenAIConfig {
	return config.AzureOpenAIConfig{
		Endpoint:   "https://example.openai.azure.com",
		Deployment: "gpt-4o",
		APIVersion: "2024-10-21",
	}
}

func TestNewModelRejectsMissingConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *config.AzureOpenAIConfig)
		wantEnv string
	}{
		{"missing endpoint", func(c *config.AzureOpenAIConfig) { c.Endpoint = "" }, "AZURE_OPENAI_ENDPOINT"},
		{"missing deployment", func(c *config.AzureOpenAIConfig) { c.Deployment = "" }, "AZURE_OPENAI_DEPLOYMENT"},
		{"missing api version", func(c *config.AzureOpenAIConfig) { c.APIVersion = "" }, "AZURE_OPENAI_API_VERSION"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			m, err := NewModel(cfg)
			require.Error(t, err)
			assert.Nil(t, m)
			assert.Contains(t, err.Error(), tt.wantEnv)
		})
	}
}

func TestNewModelWithCredential(t *testing.T) {
	m, err := NewModel(validConfig(), func(o *Options) {
		o.Credential = staticCredential{}
	})
	require.NoError(t, err)

	info := m.Info()
	assert.Equal(t, "gpt-4o", info.Name)
	assert.Equal(t, "azure-openai", info.Provider)
	assert.True(t, info.SupportsTools)
}

func TestBuildParams(t *testing.T) {
	m := &Model{
		deployment: "gpt-4o",
		opts:       Options{Temperature: 0.2, MaxCompletionTokens: 128},
	}

	params := m.buildParams(model.Request{
		Messages: []model.Message{model.UserMessage("hi")},
		Tools: []model.ToolDefinition{{
			Name:        "tell_joke",
			Description: "Tells a joke",
			Parameters:  map[string]any{"type": "object"},
		}},
	})

	assert.Equal(t, "gpt-4o", params.Model)
	require.Len(t, params.Tools, 1)
	assert.Equal(t, "tell_joke", params.Tools[0].Function.Name)
}

func TestBuildMessages(t *testing.T) {
	req := model.Request{
		Instructions: "be helpful",
		Messages: []model.Message{
			model.UserMessage("tell me a joke"),
			{
				Role: model.RoleAssistant,
				Parts: []model.Part{
					model.ToolCallPart{ToolCall: model.ToolCall{
						ID:        "call-1",
						Name:      "tell_joke",
						Arguments: `{"topic":"go"}`,
					}},
				},
			},
			model.ToolResultMessage("call-1", "why did the gopher..."),
			model.AssistantMessage("Here you go."),
		},
	}

	messages := buildMessages(req)
	require.Len(t, messages, 5)

	assert.NotNil(t, messages[0].OfSystem)
	assert.NotNil(t, messages[1].OfUser)

	require.NotNil(t, messages[2].OfAssistant)
	require.Len(t, messages[2].OfAssistant.ToolCalls, 1)
	assert.Equal(t, "call-1", messages[2].OfAssistant.ToolCalls[0].ID)
	assert.Equal(t, "tell_joke", messages[2].OfAssistant.ToolCalls[0].Function.Name)

	assert.NotNil(t, messages[3].OfTool)
	assert.NotNil(t, messages[4].OfAssistant)
}
