package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studyforge/studyforge/errs"
	"github.com/studyforge/studyforge/llm"
)

// RegisterAgentRoutes mounts the agent catalog and direct execution
// endpoints.
func RegisterAgentRoutes(rg *gin.RouterGroup, h *Handlers) {
	rg.GET("", func(c *gin.Context) { listAgents(c, h) })
	rg.POST("/execute", func(c *gin.Context) { executeAgent(c, h) })
	rg.POST("/cache/clear", func(c *gin.Context) { clearPromptCache(c, h) })
}

type agentInfo struct {
	Name         string `json:"name"`
	DefaultModel string `json:"defaultModel"`
	Instruction  string `json:"instruction"`
}

func listAgents(c *gin.Context, h *Handlers) {
	catalog := llm.Agents()
	out := make([]agentInfo, 0, len(catalog))
	for _, a := range catalog {
		out = append(out, agentInfo{Name: a.Name, DefaultModel: a.DefaultModel, Instruction: a.Instruction})
	}
	c.JSON(http.StatusOK, out)
}

// executeAgent accepts multipart form data: agent, prompt, optional
// provider/model overrides, optional file for multimodal agents.
func executeAgent(c *gin.Context, h *Handlers) {
	agentName := c.PostForm("agent")
	agent, ok := llm.AgentByName(agentName)
	if !ok {
		errs.Abort(c, errs.Validation("unknown agent %q", agentName))
		return
	}
	prompt := c.PostForm("prompt")

	var fileData []byte
	var mimeType string
	if fileHeader, err := c.FormFile("file"); err == nil {
		if fileHeader.Size > maxUploadBytes {
			errs.Abort(c, errs.Validation("file exceeds the %d byte limit", maxUploadBytes))
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			errs.Abort(c, err)
			return
		}
		defer file.Close()
		fileData, err = io.ReadAll(file)
		if err != nil {
			errs.Abort(c, err)
			return
		}
		mimeType = fileHeader.Header.Get("Content-Type")
	}
	if prompt == "" && len(fileData) == 0 {
		errs.Abort(c, errs.ErrEmptyAgentInput)
		return
	}

	req := llm.BuildRequest(agent, prompt, fileData, mimeType)
	req.PreferredProvider = c.PostForm("provider")
	if model := c.PostForm("model"); model != "" {
		req.Model = model
	}

	resp := h.Dispatcher.Execute(h.ctx(c), req)
	if !resp.OK() {
		errs.Abort(c, errs.Business("%s", resp.Err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"agent": agent.Name, "content": resp.Content})
}

func clearPromptCache(c *gin.Context, h *Handlers) {
	h.Dispatcher.Clear()
	c.JSON(http.StatusOK, gin.H{"cleared": true})
}
