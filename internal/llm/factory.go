package llm

import (
	"fmt"
	"net/http"
	"time"
)

// defaultTimeout bounds the total round trip of a single generation call.
const defaultTimeout = 30 * time.Second

// NewClient creates a backend client from the resolved configuration.
func NewClient(cfg Config) (Client, error) {
	switch cfg.Provider {
	case ProviderOpenAI:
		return newOpenAIClient(cfg)
	case ProviderAnthropic:
		return newAnthropicClient(cfg)
	case ProviderGateway:
		return newGatewayClient(cfg)
	case ProviderLocal:
		return newLocalClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}

// newHTTPClient builds the shared transport used by all providers.
func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}
