// Package llm provides a uniform gateway over multiple text-generation
// backends (OpenAI, Anthropic, the internal gateway, and local models).
//
// Backend selection is resolved once at startup from an explicit environment
// snapshot; each client issues a single bounded POST per generation call and
// surfaces any transport or API failure as an error for the caller to handle.
package llm
