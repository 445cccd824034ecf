package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyforge/studyforge/llm"
)

// doMultipart posts a multipart form the way the agent execution endpoint
// expects it.
func (e *testEnv) doMultipart(t *testing.T, path, token string, fields map[string]string, fileName string, fileContent []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if fileName != "" {
		part, err := writer.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write(fileContent)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestListAgents(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerUser(t, "ana@example.com", "")

	w := env.do(t, http.MethodGet, "/api/agents", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	agents := decode[[]agentInfo](t, w)
	assert.Len(t, agents, 7)
	names := make([]string, 0, len(agents))
	for _, a := range agents {
		names = append(names, a.Name)
	}
	assert.Contains(t, names, "summarizer")
	assert.Contains(t, names, "image-analyzer")
}

func TestExecuteAgent_Prompt(t *testing.T) {
	env := newTestEnv(t)
	env.provider.reply = func(req *llm.ProviderRequest) *llm.ProviderResponse {
		assert.Equal(t, llm.AgentSummarizer.Instruction, req.SystemMessage)
		assert.Equal(t, "condense this text", req.Prompt)
		return &llm.ProviderResponse{Content: "condensed"}
	}
	token := env.registerUser(t, "ana@example.com", "")

	w := env.doMultipart(t, "/api/agents/execute", token, map[string]string{
		"agent":  "summarizer",
		"prompt": "condense this text",
	}, "", nil)
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())
	assert.Contains(t, w.Body.String(), "condensed")
}

func TestExecuteAgent_FileBecomesMultimodal(t *testing.T) {
	env := newTestEnv(t)
	var seen *llm.ProviderRequest
	env.provider.reply = func(req *llm.ProviderRequest) *llm.ProviderResponse {
		seen = req
		return &llm.ProviderResponse{Content: "a diagram"}
	}
	token := env.registerUser(t, "ana@example.com", "")

	w := env.doMultipart(t, "/api/agents/execute", token, map[string]string{
		"agent":  "image-analyzer",
		"prompt": "what is this?",
	}, "diagram.png", []byte{0x89, 0x50, 0x4e, 0x47})
	require.Equal(t, http.StatusOK, w.Code)

	require.NotNil(t, seen)
	assert.True(t, seen.Multimodal)
	assert.Equal(t, []byte{0x89, 0x50, 0x4e, 0x47}, seen.ImageData)
	assert.Equal(t, "llava", seen.Model)
}

func TestExecuteAgent_ModelOverride(t *testing.T) {
	env := newTestEnv(t)
	var seen *llm.ProviderRequest
	env.provider.reply = func(req *llm.ProviderRequest) *llm.ProviderResponse {
		seen = req
		return &llm.ProviderResponse{Content: "ok"}
	}
	token := env.registerUser(t, "ana@example.com", "")

	env.doMultipart(t, "/api/agents/execute", token, map[string]string{
		"agent":  "summarizer",
		"prompt": "x",
		"model":  "mistral",
	}, "", nil)
	require.NotNil(t, seen)
	assert.Equal(t, "mistral", seen.Model)
}

func TestExecuteAgent_UnknownAgent(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerUser(t, "ana@example.com", "")

	w := env.doMultipart(t, "/api/agents/execute", token, map[string]string{
		"agent":  "fortune-teller",
		"prompt": "x",
	}, "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unknown agent")
}

func TestExecuteAgent_EmptyInput(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerUser(t, "ana@example.com", "")

	w := env.doMultipart(t, "/api/agents/execute", token, map[string]string{
		"agent": "summarizer",
	}, "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "prompt or a file")
}

func TestExecuteAgent_RepeatHitsPromptCache(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerUser(t, "ana@example.com", "")

	fields := map[string]string{"agent": "summarizer", "prompt": "same input"}
	env.doMultipart(t, "/api/agents/execute", token, fields, "", nil)
	env.doMultipart(t, "/api/agents/execute", token, fields, "", nil)
	assert.Equal(t, 1, env.provider.calls)

	w := env.do(t, http.MethodPost, "/api/agents/cache/clear", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	env.doMultipart(t, "/api/agents/execute", token, fields, "", nil)
	assert.Equal(t, 2, env.provider.calls)
}

func TestExecuteAgent_ProviderFailureIs422(t *testing.T) {
	env := newTestEnv(t)
	env.provider.reply = func(req *llm.ProviderRequest) *llm.ProviderResponse {
		return llm.ErrorResponse("groq: empty or invalid response")
	}
	token := env.registerUser(t, "ana@example.com", "")

	w := env.doMultipart(t, "/api/agents/execute", token, map[string]string{
		"agent":  "summarizer",
		"prompt": "x",
	}, "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
