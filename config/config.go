package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultPort is the port the host binds when PORT is not set.
const DefaultPort = 3978

// Provider identifies which model backend the orchestrator uses.
type Provider string

const (
	// ProviderAzureOpenAI selects the Azure OpenAI chat completions backend.
	ProviderAzureOpenAI Provider = "azure-openai"
	// ProviderAnthropic selects the Anthropic Messages backend.
	ProviderAnthropic Provider = "anthropic"
)

// Config carries every environment-driven setting consumed by the starter kit.
type Config struct {
	// Model backend selection and Azure OpenAI settings. Endpoint, Deployment
	// and APIVersion are fatal when missing for the Azure provider.
	Provider          Provider
	AzureOpenAIConfig AzureOpenAIConfig
	AnthropicModel    string

	// AuthHandlerName selects the OBO auth handler used for the
	// observability token exchange. Empty disables the exchange.
	AuthHandlerName string

	// ClientID/TenantID switch the host from anonymous dev mode to
	// identity-backed auth when both are present.
	ClientID string
	TenantID string

	// Observability resource identity.
	ServiceName      string
	ServiceNamespace string

	// Port the host attempts to bind (falls back to Port+1 when occupied).
	Port int

	// Local development auth (alternate path).
	LocalAuth LocalAuthOptions

	// ToolServerURLs lists remote MCP tool server endpoints, comma separated
	// in MCP_TOOL_SERVERS.
	ToolServerURLs []string
}

// AzureOpenAIConfig groups the settings for the Azure OpenAI chat client.
type AzureOpenAIConfig struct {
	Endpoint   string
	Deployment string
	APIVersion string
}

// Validate reports the first missing required Azure OpenAI setting.
func (c AzureOpenAIConfig) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("AZURE_OPENAI_ENDPOINT is required")
	}
	if c.Deployment == "" {
		return fmt.Errorf("AZURE_OPENAI_DEPLOYMENT is required")
	}
	if c.APIVersion == "" {
		return fmt.Errorf("AZURE_OPENAI_API_VERSION is required")
	}
	return nil
}

// LocalAuthOptions carries the ENV_ID/BEARER_TOKEN pair used for local
// development against a pre-provisioned environment.
type LocalAuthOptions struct {
	EnvID       string
	BearerToken string
}

// IsValid reports whether both local auth values are present.
func (o LocalAuthOptions) IsValid() bool {
	return o.EnvID != "" && o.BearerToken != ""
}

// Validate reports which local auth value is missing.
func (o LocalAuthOptions) Validate() error {
	if o.EnvID == "" {
		return fmt.Errorf("ENV_ID is required for local authentication")
	}
	if o.BearerToken == "" {
		return fmt.Errorf("BEARER_TOKEN is required for local authentication")
	}
	return nil
}

// UseEntraID reports whether identity-backed auth is configured.
func (c *Config) UseEntraID() bool {
	return c.ClientID != "" && c.TenantID != ""
}

// FromEnvironment reads settings from the process environment, loading a
// .env file first when one exists. Missing required values are not an error
// here; they surface when the component that needs them is constructed.
func FromEnvironment() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Provider: Provider(getenvDefault("MODEL_PROVIDER", string(ProviderAzureOpenAI))),
		AzureOpenAIConfig: AzureOpenAIConfig{
			Endpoint:   os.Getenv("AZURE_OPENAI_ENDPOINT"),
			Deployment: os.Getenv("AZURE_OPENAI_DEPLOYMENT"),
			APIVersion: os.Getenv("AZURE_OPENAI_API_VERSION"),
		},
		AnthropicModel:   os.Getenv("ANTHROPIC_MODEL"),
		AuthHandlerName:  os.Getenv("AUTH_HANDLER_NAME"),
		ClientID:         os.Getenv("CLIENT_ID"),
		TenantID:         os.Getenv("TENANT_ID"),
		ServiceName:      getenvDefault("OBSERVABILITY_SERVICE_NAME", "agents-starterkit"),
		ServiceNamespace: getenvDefault("OBSERVABILITY_SERVICE_NAMESPACE", "agents-starterkit"),
		Port:             parsePort(os.Getenv("PORT")),
		LocalAuth: LocalAuthOptions{
			EnvID:       os.Getenv("ENV_ID"),
			BearerToken: os.Getenv("BEARER_TOKEN"),
		},
		ToolServerURLs: splitList(os.Getenv("MCP_TOOL_SERVERS")),
	}
	return cfg
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parsePort(raw string) int {
	if raw == "" {
		return DefaultPort
	}
	port, err := strconv.Atoi(raw)
	if err != nil || port <= 0 || port > 65535 {
		return DefaultPort
	}
	return port
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
