package ollama

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyforge/studyforge/llm"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL, "llama3.1", 5*time.Second, zerolog.Nop())
}

func TestExecuteTask_Success(t *testing.T) {
	var captured map[string]any
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		io.WriteString(w, `{"message":{"role":"assistant","content":"hello there"},"done":true}`)
	})

	resp := p.ExecuteTask(context.Background(), &llm.ProviderRequest{
		Prompt:        "say hello",
		SystemMessage: "Be friendly.",
	})

	assert.True(t, resp.OK())
	assert.Equal(t, "hello there", resp.Content)

	assert.Equal(t, "llama3.1", captured["model"])
	assert.Equal(t, false, captured["stream"])
	messages := captured["messages"].([]any)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
	assert.Equal(t, "user", messages[1].(map[string]any)["role"])
	assert.Equal(t, "say hello", messages[1].(map[string]any)["content"])
}

func TestExecuteTask_ImagesRideAsBase64(t *testing.T) {
	image := []byte("fake image bytes")
	var captured map[string]any
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&captured)
		io.WriteString(w, `{"message":{"content":"described"}}`)
	})

	p.ExecuteTask(context.Background(), &llm.ProviderRequest{
		Prompt:     "what is this?",
		Multimodal: true,
		ImageData:  image,
	})

	messages := captured["messages"].([]any)
	require.Len(t, messages, 1)
	images := messages[0].(map[string]any)["images"].([]any)
	require.Len(t, images, 1)
	assert.Equal(t, base64.StdEncoding.EncodeToString(image), images[0])
}

func TestExecuteTask_TemperatureOption(t *testing.T) {
	temp := 0.1
	var captured map[string]any
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&captured)
		io.WriteString(w, `{"message":{"content":"ok"}}`)
	})

	p.ExecuteTask(context.Background(), &llm.ProviderRequest{Prompt: "extract", Temperature: &temp})

	options := captured["options"].(map[string]any)
	assert.Equal(t, 0.1, options["temperature"])
}

func TestExecuteTask_ServerError(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"error":"model 'nope' not found"}`)
	})

	resp := p.ExecuteTask(context.Background(), &llm.ProviderRequest{Prompt: "hi", Model: "nope"})
	assert.False(t, resp.OK())
	assert.Contains(t, resp.Err, "model 'nope' not found")
}

func TestExecuteTask_EmptyContent(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"message":{"content":""}}`)
	})

	resp := p.ExecuteTask(context.Background(), &llm.ProviderRequest{Prompt: "hi"})
	assert.False(t, resp.OK())
	assert.Contains(t, resp.Err, "empty or invalid response")
}

func TestExecuteTask_TransportFailureIsContained(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()
	p := New(server.URL, "llama3.1", time.Second, zerolog.Nop())

	resp := p.ExecuteTask(context.Background(), &llm.ProviderRequest{Prompt: "hi"})
	assert.False(t, resp.OK())
	assert.Contains(t, resp.Err, "request failed")
}
