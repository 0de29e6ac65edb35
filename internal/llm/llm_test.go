package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	_, err := New(Config{Provider: "anthropic"})
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = New(Config{Provider: "mystery", APIKey: "k"})
	assert.Error(t, err)

	c, err := New(Config{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "anthropic/"+DefaultAnthropicModel, c.Name())

	c, err = New(Config{Provider: "OpenAI", APIKey: "k", Model: "gpt-4.1"})
	require.NoError(t, err)
	assert.Equal(t, "openai/gpt-4.1", c.Name())
}

func TestResponseText(t *testing.T) {
	var nilResp *Response
	_, ok := nilResp.Text()
	assert.False(t, ok)

	r := &Response{Blocks: []Block{{Type: "tool_use"}, {Type: "text", Text: "answer"}, {Type: "text", Text: "second"}}}
	text, ok := r.Text()
	assert.True(t, ok)
	assert.Equal(t, "answer", text)

	_, ok = (&Response{Blocks: []Block{{Type: "thinking", Text: "hmm"}}}).Text()
	assert.False(t, ok)
}

func TestAnthropicComplete(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/messages"), r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_01",
			"type": "message",
			"role": "assistant",
			"model": "claude-sonnet-4-20250514",
			"content": [{"type": "text", "text": "[]"}],
			"stop_reason": "end_turn",
			"stop_sequence": null,
			"usage": {"input_tokens": 12, "output_tokens": 2}
		}`))
	}))
	defer srv.Close()

	c := NewAnthropic("test-key", "", srv.URL+"/", option.WithMaxRetries(0))
	resp, err := c.Complete(context.Background(), Request{System: "extract insights", Message: "uploads are slow", MaxTokens: 2048})
	require.NoError(t, err)

	text, ok := resp.Text()
	require.True(t, ok)
	assert.Equal(t, "[]", text)

	assert.EqualValues(t, 2048, got["max_tokens"])
	system, ok := got["system"].([]any)
	require.True(t, ok)
	require.Len(t, system, 1)
	assert.Equal(t, "extract insights", system[0].(map[string]any)["text"])
	messages := got["messages"].([]any)
	require.Len(t, messages, 1)
	assert.Equal(t, "user", messages[0].(map[string]any)["role"])
}

func TestAnthropicCompleteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`))
	}))
	defer srv.Close()

	_, err := NewAnthropic("k", "", srv.URL+"/", option.WithMaxRetries(0)).Complete(context.Background(), Request{Message: "q", MaxTokens: 10})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "anthropic messages")
}

func TestOpenAIComplete(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1,
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "Several insights mention speed."}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 5, "completion_tokens": 5, "total_tokens": 10}
		}`))
	}))
	defer srv.Close()

	c := NewOpenAI("test-key", "", srv.URL+"/v1")
	resp, err := c.Complete(context.Background(), Request{System: "answer from insights", Message: "why slow?", MaxTokens: 300})
	require.NoError(t, err)

	text, ok := resp.Text()
	require.True(t, ok)
	assert.Equal(t, "Several insights mention speed.", text)

	assert.EqualValues(t, 300, got["max_tokens"])
	messages := got["messages"].([]any)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
	assert.Equal(t, "why slow?", messages[1].(map[string]any)["content"])
}
