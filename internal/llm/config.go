package llm

import (
	"strings"
	"time"
)

// Provider identifies one of the supported text-generation backends.
type Provider string

// Supported providers, in probe priority order.
const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGateway   Provider = "gateway"
	ProviderLocal     Provider = "local"
)

// internalGatewayHost identifies the well-known internal gateway, which
// speaks the OpenAI payload shape but authenticates with a JWT.
const internalGatewayHost = "onegpt.fplinternal.in"

// internalGatewayURL is the default endpoint for the gateway provider.
const internalGatewayURL = "https://onegpt.fplinternal.in/api/chat/completions"

// Config holds the resolved backend configuration. It is built once at
// startup and passed down; request construction never reads the environment.
type Config struct {
	Provider    Provider
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Environment is an explicit snapshot of the credential-bearing environment
// variables consulted by ResolveProvider. Taking it as a value keeps the
// probe a pure, testable function.
type Environment struct {
	OpenAIKey    string
	AnthropicKey string
	GatewayToken string
	CustomURL    string
	CustomModel  string
	CustomAPIKey string
}

// ResolveProvider selects a backend from the environment snapshot using the
// priority probe: explicit provider credential, then custom endpoint URL
// (recognizing the internal gateway URL as a special case), then the local
// model default.
func ResolveProvider(env Environment) Config {
	cfg := Config{
		Temperature: defaultTemperature,
		MaxTokens:   defaultMaxTokens,
		Timeout:     defaultTimeout,
	}

	switch {
	case env.OpenAIKey != "":
		cfg.Provider = ProviderOpenAI
		cfg.APIKey = env.OpenAIKey
		cfg.Model = "gpt-4"
	case env.AnthropicKey != "":
		cfg.Provider = ProviderAnthropic
		cfg.APIKey = env.AnthropicKey
		cfg.Model = "claude-3-sonnet-20240229"
	case env.GatewayToken != "":
		cfg.Provider = ProviderGateway
		cfg.APIKey = env.GatewayToken
		cfg.BaseURL = internalGatewayURL
		cfg.Model = "gpt-4o"
	case env.CustomURL != "":
		if strings.Contains(env.CustomURL, internalGatewayHost) {
			cfg.Provider = ProviderGateway
			cfg.APIKey = env.CustomAPIKey
			cfg.BaseURL = env.CustomURL
			cfg.Model = "gpt-4o"
			break
		}
		cfg.Provider = ProviderLocal
		cfg.BaseURL = env.CustomURL
		cfg.APIKey = env.CustomAPIKey
		cfg.Model = env.CustomModel
	default:
		cfg.Provider = ProviderLocal
		cfg.BaseURL = defaultLocalURL
		cfg.Model = env.CustomModel
	}

	if cfg.Provider == ProviderLocal && cfg.Model == "" {
		cfg.Model = defaultLocalModel
	}

	return cfg
}
