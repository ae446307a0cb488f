package main

import (
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/fraudops/alert-triage/internal/llm"
)

// createLLMClient resolves the backend configuration and builds the gateway
// client. Explicit config wins; otherwise the environment snapshot is probed
// once, here, in priority order.
func createLLMClient() (llm.Client, error) {
	cfg := resolveConfig()
	return llm.NewClient(cfg)
}

// resolveConfig merges viper settings over the environment probe. Request
// construction downstream never reads the environment again.
func resolveConfig() llm.Config {
	cfg := llm.ResolveProvider(llm.Environment{
		OpenAIKey:    os.Getenv("OPENAI_API_KEY"),
		AnthropicKey: os.Getenv("ANTHROPIC_API_KEY"),
		GatewayToken: os.Getenv("ONEGPT_JWT_TOKEN"),
		CustomURL:    os.Getenv("CUSTOM_LLM_URL"),
		CustomModel:  os.Getenv("CUSTOM_LLM_MODEL"),
		CustomAPIKey: os.Getenv("CUSTOM_LLM_API_KEY"),
	})

	if provider := viper.GetString("llm.provider"); provider != "" {
		cfg.Provider = llm.Provider(provider)
	}
	if key := viper.GetString("llm.api_key"); key != "" {
		cfg.APIKey = key
	}
	if url := viper.GetString("llm.base_url"); url != "" {
		cfg.BaseURL = url
	}
	if m := viper.GetString("llm.model"); m != "" {
		cfg.Model = m
	}
	if t := viper.GetFloat64("llm.temperature"); t != 0 {
		cfg.Temperature = t
	}
	if n := viper.GetInt("llm.max_tokens"); n != 0 {
		cfg.MaxTokens = n
	}
	if d := viper.GetDuration("llm.timeout"); d != 0 {
		cfg.Timeout = d
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return cfg
}
