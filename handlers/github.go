package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studyforge/studyforge/errs"
	"github.com/studyforge/studyforge/llm"
	"github.com/studyforge/studyforge/models"
)

// RegisterGitHubRoutes mounts the OAuth connect flow and source-file
// analysis endpoint.
func RegisterGitHubRoutes(rg *gin.RouterGroup, h *Handlers) {
	rg.POST("/connect", func(c *gin.Context) { connectGitHub(c, h) })
	rg.POST("/analyze", func(c *gin.Context) { analyzeGitHubFile(c, h) })
}

type githubConnectRequest struct {
	Code string `json:"code" binding:"required"`
}

// connectGitHub exchanges the OAuth code and stores the token on the
// authenticated user.
func connectGitHub(c *gin.Context, h *Handlers) {
	var req githubConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errs.Abort(c, errs.Validation("%s", err.Error()))
		return
	}

	token, err := h.GitHub.ExchangeCode(h.ctx(c), req.Code)
	if err != nil {
		errs.Abort(c, errs.Business("%s", err.Error()))
		return
	}

	user, ok := findScoped[models.User](h, c, currentUserID(c), "user")
	if !ok {
		return
	}
	user.GitHubToken = token
	if err := h.DB.WithContext(h.ctx(c)).Save(user).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"connected": true})
}

type githubAnalyzeRequest struct {
	Owner    string `json:"owner" binding:"required"`
	Repo     string `json:"repo" binding:"required"`
	Path     string `json:"path" binding:"required"`
	Question string `json:"question"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// analyzeGitHubFile fetches one file and runs the code reviewer agent
// over it.
func analyzeGitHubFile(c *gin.Context, h *Handlers) {
	var req githubAnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errs.Abort(c, errs.Validation("%s", err.Error()))
		return
	}

	user, ok := findScoped[models.User](h, c, currentUserID(c), "user")
	if !ok {
		return
	}
	if user.GitHubToken == "" {
		errs.Abort(c, errs.Business("github account is not connected"))
		return
	}

	content, err := h.GitHub.FetchFileContent(h.ctx(c), user.GitHubToken, req.Owner, req.Repo, req.Path)
	if err != nil {
		errs.Abort(c, errs.Business("%s", err.Error()))
		return
	}

	prompt := req.Question
	if prompt == "" {
		prompt = "Review this file."
	}
	prompt += "\n\nFile " + req.Path + ":\n\n" + string(content)

	provReq := llm.BuildRequest(llm.AgentCodeReviewer, prompt, nil, "")
	provReq.PreferredProvider = req.Provider
	if req.Model != "" {
		provReq.Model = req.Model
	}

	resp := h.Dispatcher.Execute(h.ctx(c), provReq)
	if !resp.OK() {
		errs.Abort(c, errs.Business("%s", resp.Err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": req.Path, "analysis": resp.Content})
}
