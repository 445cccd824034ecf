package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/studyforge/studyforge/errs"
	"github.com/studyforge/studyforge/llm"
	"github.com/studyforge/studyforge/models"
)

// RegisterChatRoutes mounts chat sessions. Posting a message runs the
// session's agent synchronously and appends the assistant reply.
func RegisterChatRoutes(rg *gin.RouterGroup, h *Handlers) {
	rg.GET("/sessions", func(c *gin.Context) { listChatSessions(c, h) })
	rg.POST("/sessions", func(c *gin.Context) { createChatSession(c, h) })
	rg.GET("/sessions/:id", func(c *gin.Context) { getChatSession(c, h) })
	rg.DELETE("/sessions/:id", func(c *gin.Context) { deleteChatSession(c, h) })
	rg.POST("/sessions/:id/messages", func(c *gin.Context) { postChatMessage(c, h) })
}

func listChatSessions(c *gin.Context, h *Handlers) {
	var sessions []models.ChatSession
	if err := h.scoped(c).Where("user_id = ?", currentUserID(c)).Order("updated_at DESC").Find(&sessions).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

func createChatSession(c *gin.Context, h *Handlers) {
	var dto models.ChatSessionDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		errs.Abort(c, errs.Validation("%s", err.Error()))
		return
	}
	agentName := dto.Agent
	if agentName == "" {
		agentName = llm.AgentDocumentReader.Name
	}
	if _, ok := llm.AgentByName(agentName); !ok {
		errs.Abort(c, errs.Validation("unknown agent %q", agentName))
		return
	}
	session := models.ChatSession{
		UserID: currentUserID(c),
		Title:  dto.Title,
		Agent:  agentName,
	}
	if err := h.DB.WithContext(h.ctx(c)).Create(&session).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

func getChatSession(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var session models.ChatSession
	err := h.scoped(c).
		Preload("Messages", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&session, id).Error
	if err != nil {
		errs.Abort(c, errs.FromDB(err, "chat session"))
		return
	}
	c.JSON(http.StatusOK, session)
}

func deleteChatSession(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	session, ok := findScoped[models.ChatSession](h, c, id, "chat session")
	if !ok {
		return
	}
	if err := h.DB.WithContext(h.ctx(c)).Delete(session).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func postChatMessage(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var dto models.ChatMessageDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		errs.Abort(c, errs.Validation("%s", err.Error()))
		return
	}
	session, ok := findScoped[models.ChatSession](h, c, id, "chat session")
	if !ok {
		return
	}
	agent, ok := llm.AgentByName(session.Agent)
	if !ok {
		agent = llm.AgentDocumentReader
	}

	userMsg := models.ChatMessage{
		ChatSessionID: session.ID,
		Role:          models.ChatRoleUser,
		Content:       dto.Content,
	}
	if err := h.DB.WithContext(h.ctx(c)).Create(&userMsg).Error; err != nil {
		errs.Abort(c, err)
		return
	}

	req := llm.BuildRequest(agent, dto.Content, nil, "")
	req.PreferredProvider = dto.Provider
	if dto.Model != "" {
		req.Model = dto.Model
	}
	resp := h.Dispatcher.Execute(h.ctx(c), req)
	if !resp.OK() {
		errs.Abort(c, errs.Business("%s", resp.Err))
		return
	}

	// The reply write is best-effort after the provider call; there is no
	// transaction spanning both.
	reply := models.ChatMessage{
		ChatSessionID: session.ID,
		Role:          models.ChatRoleAssistant,
		Content:       resp.Content,
	}
	if err := h.DB.WithContext(h.ctx(c)).Create(&reply).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": userMsg, "reply": reply})
}
