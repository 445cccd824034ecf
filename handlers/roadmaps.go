package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/studyforge/studyforge/errs"
	"github.com/studyforge/studyforge/models"
)

// RegisterRoadmapRoutes mounts roadmap CRUD and step management.
func RegisterRoadmapRoutes(rg *gin.RouterGroup, h *Handlers) {
	rg.GET("/:id", func(c *gin.Context) { getRoadmap(c, h) })
	rg.PUT("/:id", func(c *gin.Context) { updateRoadmap(c, h) })
	rg.DELETE("/:id", func(c *gin.Context) { deleteRoadmap(c, h) })

	rg.POST("/:id/steps", func(c *gin.Context) { createStep(c, h) })
	rg.PUT("/:id/steps/:stepId", func(c *gin.Context) { updateStep(c, h) })
	rg.DELETE("/:id/steps/:stepId", func(c *gin.Context) { deleteStep(c, h) })
}

func listWorkspaceRoadmaps(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if _, ok := findScoped[models.Workspace](h, c, id, "workspace"); !ok {
		return
	}
	var roadmaps []models.Roadmap
	if err := h.scoped(c).Where("workspace_id = ?", id).Order("id").Find(&roadmaps).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, roadmaps)
}

func createRoadmap(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var dto models.RoadmapDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		errs.Abort(c, errs.Validation("%s", err.Error()))
		return
	}
	if _, ok := findScoped[models.Workspace](h, c, id, "workspace"); !ok {
		return
	}
	roadmap := models.Roadmap{
		WorkspaceID: id,
		Title:       dto.Title,
		Description: dto.Description,
	}
	if err := h.DB.WithContext(h.ctx(c)).Create(&roadmap).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, roadmap)
}

func getRoadmap(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var roadmap models.Roadmap
	err := h.scoped(c).Preload("Steps", func(db *gorm.DB) *gorm.DB {
		return db.Order("position, id")
	}).First(&roadmap, id).Error
	if err != nil {
		errs.Abort(c, errs.FromDB(err, "roadmap"))
		return
	}
	c.JSON(http.StatusOK, roadmap)
}

func updateRoadmap(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var dto models.RoadmapDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		errs.Abort(c, errs.Validation("%s", err.Error()))
		return
	}
	roadmap, ok := findScoped[models.Roadmap](h, c, id, "roadmap")
	if !ok {
		return
	}
	roadmap.Title = dto.Title
	roadmap.Description = dto.Description
	if err := h.DB.WithContext(h.ctx(c)).Save(roadmap).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, roadmap)
}

func deleteRoadmap(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	roadmap, ok := findScoped[models.Roadmap](h, c, id, "roadmap")
	if !ok {
		return
	}
	if err := h.DB.WithContext(h.ctx(c)).Delete(roadmap).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func createStep(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var dto models.RoadmapStepDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		errs.Abort(c, errs.Validation("%s", err.Error()))
		return
	}
	if _, ok := findScoped[models.Roadmap](h, c, id, "roadmap"); !ok {
		return
	}
	step := models.RoadmapStep{
		RoadmapID: id,
		Title:     dto.Title,
		Position:  dto.Position,
	}
	if dto.Done != nil {
		step.Done = *dto.Done
	}
	if err := h.DB.WithContext(h.ctx(c)).Create(&step).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, step)
}

func updateStep(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	stepID, ok := pathID(c, "stepId")
	if !ok {
		return
	}
	var dto models.RoadmapStepDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		errs.Abort(c, errs.Validation("%s", err.Error()))
		return
	}
	if _, ok := findScoped[models.Roadmap](h, c, id, "roadmap"); !ok {
		return
	}
	step, ok := findChild[models.RoadmapStep](h, c, "id = ? AND roadmap_id = ?", []any{stepID, id}, "roadmap step")
	if !ok {
		return
	}
	step.Title = dto.Title
	step.Position = dto.Position
	if dto.Done != nil {
		step.Done = *dto.Done
	}
	if err := h.DB.WithContext(h.ctx(c)).Save(step).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, step)
}

func deleteStep(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	stepID, ok := pathID(c, "stepId")
	if !ok {
		return
	}
	if _, ok := findScoped[models.Roadmap](h, c, id, "roadmap"); !ok {
		return
	}
	step, ok := findChild[models.RoadmapStep](h, c, "id = ? AND roadmap_id = ?", []any{stepID, id}, "roadmap step")
	if !ok {
		return
	}
	if err := h.DB.WithContext(h.ctx(c)).Delete(step).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": stepID})
}
