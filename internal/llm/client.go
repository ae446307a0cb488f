package llm

import (
	"context"
)

// Client defines the interface for text-generation backends. Implementations
// issue exactly one request per call and return the generated text verbatim;
// fallback substitution on error is the caller's responsibility.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// systemPrompt seeds every chat-shaped request. The instruction to answer in
// valid JSON is what makes downstream normalization tractable.
const systemPrompt = "You are a financial fraud analysis AI assistant. Always respond with valid JSON."

// Default sampling parameters shared by all providers. The low temperature
// favors deterministic, schema-conforming output.
const (
	defaultTemperature = 0.1
	defaultMaxTokens   = 2000
)
