package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyforge/studyforge/llm"
	"github.com/studyforge/studyforge/models"
)

func TestCreateChatSession_DefaultsAgent(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerUser(t, "ana@example.com", "")

	w := env.do(t, http.MethodPost, "/api/chat/sessions", token, gin.H{"title": "Lecture questions"})
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())

	session := decode[models.ChatSession](t, w)
	assert.Equal(t, "document-reader", session.Agent)
	assert.NotZero(t, session.UserID)
}

func TestCreateChatSession_UnknownAgent(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerUser(t, "ana@example.com", "")

	w := env.do(t, http.MethodPost, "/api/chat/sessions", token, gin.H{
		"title": "x",
		"agent": "oracle",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPostChatMessage_RoundTrip(t *testing.T) {
	env := newTestEnv(t)
	env.provider.reply = func(req *llm.ProviderRequest) *llm.ProviderResponse {
		assert.Equal(t, llm.AgentStudyPlanner.Instruction, req.SystemMessage)
		return &llm.ProviderResponse{Content: "Here is your plan."}
	}
	token := env.registerUser(t, "ana@example.com", "")

	session := decode[models.ChatSession](t, env.do(t, http.MethodPost, "/api/chat/sessions", token, gin.H{
		"title": "Plan",
		"agent": "study-planner",
	}))

	w := env.do(t, http.MethodPost, "/api/chat/sessions/"+itoa(session.ID)+"/messages", token, gin.H{
		"content": "plan my exam week",
	})
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())

	var out struct {
		Message models.ChatMessage `json:"message"`
		Reply   models.ChatMessage `json:"reply"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, models.ChatRoleUser, out.Message.Role)
	assert.Equal(t, "plan my exam week", out.Message.Content)
	assert.Equal(t, models.ChatRoleAssistant, out.Reply.Role)
	assert.Equal(t, "Here is your plan.", out.Reply.Content)

	full := decode[models.ChatSession](t, env.do(t, http.MethodGet, "/api/chat/sessions/"+itoa(session.ID), token, nil))
	require.Len(t, full.Messages, 2)
	assert.Equal(t, models.ChatRoleUser, full.Messages[0].Role)
	assert.Equal(t, models.ChatRoleAssistant, full.Messages[1].Role)
}

func TestPostChatMessage_ProviderFailureKeepsUserMessage(t *testing.T) {
	env := newTestEnv(t)
	env.provider.reply = func(req *llm.ProviderRequest) *llm.ProviderResponse {
		return llm.ErrorResponse("ollama: request failed: connection refused")
	}
	token := env.registerUser(t, "ana@example.com", "")

	session := decode[models.ChatSession](t, env.do(t, http.MethodPost, "/api/chat/sessions", token, gin.H{"title": "x"}))

	w := env.do(t, http.MethodPost, "/api/chat/sessions/"+itoa(session.ID)+"/messages", token, gin.H{"content": "hello"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var messages []models.ChatMessage
	require.NoError(t, env.db.Where("chat_session_id = ?", session.ID).Find(&messages).Error)
	require.Len(t, messages, 1)
	assert.Equal(t, models.ChatRoleUser, messages[0].Role)
}

func TestDeleteChatSession_CascadesMessages(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerUser(t, "ana@example.com", "")

	session := decode[models.ChatSession](t, env.do(t, http.MethodPost, "/api/chat/sessions", token, gin.H{"title": "x"}))
	env.do(t, http.MethodPost, "/api/chat/sessions/"+itoa(session.ID)+"/messages", token, gin.H{"content": "hi"})

	w := env.do(t, http.MethodDelete, "/api/chat/sessions/"+itoa(session.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	env.db.Model(&models.ChatMessage{}).Where("chat_session_id = ?", session.ID).Count(&count)
	assert.Zero(t, count)
}
