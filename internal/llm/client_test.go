package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIClient_Generate(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"model": "gpt-4",
			"choices": [{"finish_reason": "stop", "message": {"role": "assistant", "content": "{\"classification\": \"Likely Genuine\"}"}}]
		}`))
	}))
	defer server.Close()

	client, err := newOpenAIClient(Config{
		Provider: ProviderOpenAI,
		APIKey:   "sk-test",
		BaseURL:  server.URL,
	})
	require.NoError(t, err)

	got, err := client.Generate(context.Background(), "analyze this alert")
	require.NoError(t, err)
	assert.Equal(t, `{"classification": "Likely Genuine"}`, got)

	assert.Equal(t, "gpt-4", captured["model"])
	assert.InDelta(t, 0.1, captured["temperature"], 0.0001)
	assert.InDelta(t, 2000, captured["max_tokens"], 0.0001)

	messages, ok := captured["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	system := messages[0].(map[string]any)
	assert.Equal(t, "system", system["role"])
	assert.Contains(t, system["content"], "Always respond with valid JSON")
	user := messages[1].(map[string]any)
	assert.Equal(t, "user", user["role"])
	assert.Equal(t, "analyze this alert", user["content"])
}

func TestOpenAIClient_Generate_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limited"}}`))
	}))
	defer server.Close()

	client, err := newOpenAIClient(Config{Provider: ProviderOpenAI, APIKey: "sk-test", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
	assert.Contains(t, err.Error(), "rate limited")
}

func TestOpenAIClient_Generate_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id": "chatcmpl-1", "choices": []}`))
	}))
	defer server.Close()

	client, err := newOpenAIClient(Config{Provider: ProviderOpenAI, APIKey: "sk-test", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), "prompt")
	assert.ErrorContains(t, err, "no choices in response")
}

func TestAnthropicClient_Generate(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ak-test", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		_, _ = w.Write([]byte(`{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"content": [{"type": "text", "text": "{\"riskRating\": 7}"}]
		}`))
	}))
	defer server.Close()

	client, err := newAnthropicClient(Config{
		Provider: ProviderAnthropic,
		APIKey:   "ak-test",
		BaseURL:  server.URL,
	})
	require.NoError(t, err)

	got, err := client.Generate(context.Background(), "assess risk")
	require.NoError(t, err)
	assert.Equal(t, `{"riskRating": 7}`, got)

	// Anthropic takes the system instruction as a top-level field.
	assert.Contains(t, captured["system"], "financial fraud analysis AI assistant")
	messages, ok := captured["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 1)
	assert.Equal(t, "user", messages[0].(map[string]any)["role"])
}

func TestGatewayClient_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer eyJ.jwt.token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-2",
			"model": "gpt-4o",
			"choices": [{"message": {"role": "assistant", "content": "gateway answer"}}]
		}`))
	}))
	defer server.Close()

	client, err := newGatewayClient(Config{
		Provider: ProviderGateway,
		APIKey:   "eyJ.jwt.token",
		BaseURL:  server.URL,
	})
	require.NoError(t, err)

	got, err := client.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "gateway answer", got)
}

func TestLocalClient_Generate(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(`{"model": "llama2", "response": "local answer", "done": true}`))
	}))
	defer server.Close()

	client, err := newLocalClient(Config{Provider: ProviderLocal, BaseURL: server.URL})
	require.NoError(t, err)

	got, err := client.Generate(context.Background(), "prompt text")
	require.NoError(t, err)
	assert.Equal(t, "local answer", got)

	// Single-prompt shape folds the system instruction into the prompt.
	assert.Equal(t, "llama2", captured["model"])
	assert.Equal(t, false, captured["stream"])
	prompt, ok := captured["prompt"].(string)
	require.True(t, ok)
	assert.Contains(t, prompt, "financial fraud analysis AI assistant")
	assert.Contains(t, prompt, "prompt text")

	options, ok := captured["options"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 0.1, options["temperature"], 0.0001)
	assert.InDelta(t, 2000, options["num_predict"], 0.0001)
}

func TestClientsRespectContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client, err := newOpenAIClient(Config{Provider: ProviderOpenAI, APIKey: "sk-test", BaseURL: server.URL})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = client.Generate(ctx, "prompt")
	assert.Error(t, err)
}
