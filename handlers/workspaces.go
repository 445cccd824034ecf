package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studyforge/studyforge/errs"
	"github.com/studyforge/studyforge/models"
)

// RegisterWorkspaceRoutes mounts workspace CRUD.
func RegisterWorkspaceRoutes(rg *gin.RouterGroup, h *Handlers) {
	rg.GET("", func(c *gin.Context) { listWorkspaces(c, h) })
	rg.POST("", func(c *gin.Context) { createWorkspace(c, h) })
	rg.GET("/:id", func(c *gin.Context) { getWorkspace(c, h) })
	rg.PUT("/:id", func(c *gin.Context) { updateWorkspace(c, h) })
	rg.DELETE("/:id", func(c *gin.Context) { deleteWorkspace(c, h) })

	rg.GET("/:id/projects", func(c *gin.Context) { listWorkspaceProjects(c, h) })
	rg.POST("/:id/projects", func(c *gin.Context) { createProject(c, h) })
	rg.GET("/:id/subjects", func(c *gin.Context) { listWorkspaceSubjects(c, h) })
	rg.POST("/:id/subjects", func(c *gin.Context) { createSubject(c, h) })
	rg.GET("/:id/roadmaps", func(c *gin.Context) { listWorkspaceRoadmaps(c, h) })
	rg.POST("/:id/roadmaps", func(c *gin.Context) { createRoadmap(c, h) })
	rg.GET("/:id/boards", func(c *gin.Context) { listWorkspaceBoards(c, h) })
	rg.POST("/:id/boards", func(c *gin.Context) { createBoard(c, h) })
}

func listWorkspaces(c *gin.Context, h *Handlers) {
	var workspaces []models.Workspace
	if err := h.scoped(c).Order("id").Find(&workspaces).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, workspaces)
}

func createWorkspace(c *gin.Context, h *Handlers) {
	var dto models.WorkspaceDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		errs.Abort(c, errs.Validation("%s", err.Error()))
		return
	}
	ws := dto.ToWorkspace()
	if err := h.DB.WithContext(h.ctx(c)).Create(&ws).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, ws)
}

func getWorkspace(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ws, ok := findScoped[models.Workspace](h, c, id, "workspace")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ws)
}

func updateWorkspace(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var dto models.WorkspaceDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		errs.Abort(c, errs.Validation("%s", err.Error()))
		return
	}
	ws, ok := findScoped[models.Workspace](h, c, id, "workspace")
	if !ok {
		return
	}
	ws.Name = dto.Name
	ws.Description = dto.Description
	if dto.Type != "" {
		ws.Type = dto.Type
	}
	if err := h.DB.WithContext(h.ctx(c)).Save(ws).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, ws)
}

func deleteWorkspace(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ws, ok := findScoped[models.Workspace](h, c, id, "workspace")
	if !ok {
		return
	}
	// Children go with it through the ON DELETE CASCADE constraints.
	if err := h.DB.WithContext(h.ctx(c)).Delete(ws).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
