package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studyforge/studyforge/errs"
	"github.com/studyforge/studyforge/models"
)

// RegisterProjectRoutes mounts project CRUD plus milestone and decision
// record sub-resources.
func RegisterProjectRoutes(rg *gin.RouterGroup, h *Handlers) {
	rg.GET("/:id", func(c *gin.Context) { getProject(c, h) })
	rg.PUT("/:id", func(c *gin.Context) { updateProject(c, h) })
	rg.DELETE("/:id", func(c *gin.Context) { deleteProject(c, h) })

	rg.GET("/:id/milestones", func(c *gin.Context) { listMilestones(c, h) })
	rg.POST("/:id/milestones", func(c *gin.Context) { createMilestone(c, h) })
	rg.PUT("/:id/milestones/:milestoneId", func(c *gin.Context) { updateMilestone(c, h) })
	rg.DELETE("/:id/milestones/:milestoneId", func(c *gin.Context) { deleteMilestone(c, h) })

	rg.GET("/:id/decisions", func(c *gin.Context) { listDecisions(c, h) })
	rg.POST("/:id/decisions", func(c *gin.Context) { createDecision(c, h) })
	rg.PUT("/:id/decisions/:decisionId", func(c *gin.Context) { updateDecision(c, h) })
	rg.DELETE("/:id/decisions/:decisionId", func(c *gin.Context) { deleteDecision(c, h) })
}

func listWorkspaceProjects(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if _, ok := findScoped[models.Workspace](h, c, id, "workspace"); !ok {
		return
	}
	var projects []models.Project
	if err := h.scoped(c).Where("workspace_id = ?", id).Order("id").Find(&projects).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

func createProject(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var dto models.ProjectDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		errs.Abort(c, errs.Validation("%s", err.Error()))
		return
	}
	if _, ok := findScoped[models.Workspace](h, c, id, "workspace"); !ok {
		return
	}
	project := models.Project{
		WorkspaceID: id,
		Name:        dto.Name,
		Description: dto.Description,
		Status:      dto.Status,
	}
	if project.Status == "" {
		project.Status = "ACTIVE"
	}
	if err := h.DB.WithContext(h.ctx(c)).Create(&project).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

func getProject(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	project, ok := findScoped[models.Project](h, c, id, "project")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, project)
}

func updateProject(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var dto models.ProjectDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		errs.Abort(c, errs.Validation("%s", err.Error()))
		return
	}
	project, ok := findScoped[models.Project](h, c, id, "project")
	if !ok {
		return
	}
	project.Name = dto.Name
	project.Description = dto.Description
	if dto.Status != "" {
		project.Status = dto.Status
	}
	if err := h.DB.WithContext(h.ctx(c)).Save(project).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func deleteProject(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	project, ok := findScoped[models.Project](h, c, id, "project")
	if !ok {
		return
	}
	if err := h.DB.WithContext(h.ctx(c)).Delete(project).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// projectOwned verifies the project exists under the current tenant
// before any child operation runs.
func projectOwned(c *gin.Context, h *Handlers) (uint, bool) {
	id, ok := pathID(c, "id")
	if !ok {
		return 0, false
	}
	if _, ok := findScoped[models.Project](h, c, id, "project"); !ok {
		return 0, false
	}
	return id, true
}

func listMilestones(c *gin.Context, h *Handlers) {
	projectID, ok := projectOwned(c, h)
	if !ok {
		return
	}
	var milestones []models.Milestone
	if err := h.DB.WithContext(h.ctx(c)).Where("project_id = ?", projectID).Order("id").Find(&milestones).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, milestones)
}

func createMilestone(c *gin.Context, h *Handlers) {
	projectID, ok := projectOwned(c, h)
	if !ok {
		return
	}
	var dto models.MilestoneDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		errs.Abort(c, errs.Validation("%s", err.Error()))
		return
	}
	milestone := models.Milestone{
		ProjectID: projectID,
		Title:     dto.Title,
		DueDate:   dto.DueDate,
		Status:    dto.Status,
	}
	if milestone.Status == "" {
		milestone.Status = "PENDING"
	}
	if err := h.DB.WithContext(h.ctx(c)).Create(&milestone).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, milestone)
}

func updateMilestone(c *gin.Context, h *Handlers) {
	projectID, ok := projectOwned(c, h)
	if !ok {
		return
	}
	milestoneID, ok := pathID(c, "milestoneId")
	if !ok {
		return
	}
	var dto models.MilestoneDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		errs.Abort(c, errs.Validation("%s", err.Error()))
		return
	}
	milestone, ok := findChild[models.Milestone](h, c, "id = ? AND project_id = ?", []any{milestoneID, projectID}, "milestone")
	if !ok {
		return
	}
	milestone.Title = dto.Title
	milestone.DueDate = dto.DueDate
	if dto.Status != "" {
		milestone.Status = dto.Status
	}
	if err := h.DB.WithContext(h.ctx(c)).Save(milestone).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, milestone)
}

func deleteMilestone(c *gin.Context, h *Handlers) {
	projectID, ok := projectOwned(c, h)
	if !ok {
		return
	}
	milestoneID, ok := pathID(c, "milestoneId")
	if !ok {
		return
	}
	milestone, ok := findChild[models.Milestone](h, c, "id = ? AND project_id = ?", []any{milestoneID, projectID}, "milestone")
	if !ok {
		return
	}
	if err := h.DB.WithContext(h.ctx(c)).Delete(milestone).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": milestoneID})
}

func listDecisions(c *gin.Context, h *Handlers) {
	projectID, ok := projectOwned(c, h)
	if !ok {
		return
	}
	var decisions []models.DecisionRecord
	if err := h.DB.WithContext(h.ctx(c)).Where("project_id = ?", projectID).Order("id").Find(&decisions).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, decisions)
}

func createDecision(c *gin.Context, h *Handlers) {
	projectID, ok := projectOwned(c, h)
	if !ok {
		return
	}
	var dto models.DecisionRecordDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		errs.Abort(c, errs.Validation("%s", err.Error()))
		return
	}
	decision := models.DecisionRecord{
		ProjectID: projectID,
		Title:     dto.Title,
		Context:   dto.Context,
		Decision:  dto.Decision,
		Status:    dto.Status,
	}
	if decision.Status == "" {
		decision.Status = "PROPOSED"
	}
	if err := h.DB.WithContext(h.ctx(c)).Create(&decision).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, decision)
}

func updateDecision(c *gin.Context, h *Handlers) {
	projectID, ok := projectOwned(c, h)
	if !ok {
		return
	}
	decisionID, ok := pathID(c, "decisionId")
	if !ok {
		return
	}
	var dto models.DecisionRecordDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		errs.Abort(c, errs.Validation("%s", err.Error()))
		return
	}
	decision, ok := findChild[models.DecisionRecord](h, c, "id = ? AND project_id = ?", []any{decisionID, projectID}, "decision record")
	if !ok {
		return
	}
	decision.Title = dto.Title
	decision.Context = dto.Context
	decision.Decision = dto.Decision
	if dto.Status != "" {
		decision.Status = dto.Status
	}
	if err := h.DB.WithContext(h.ctx(c)).Save(decision).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, decision)
}

func deleteDecision(c *gin.Context, h *Handlers) {
	projectID, ok := projectOwned(c, h)
	if !ok {
		return
	}
	decisionID, ok := pathID(c, "decisionId")
	if !ok {
		return
	}
	decision, ok := findChild[models.DecisionRecord](h, c, "id = ? AND project_id = ?", []any{decisionID, projectID}, "decision record")
	if !ok {
		return
	}
	if err := h.DB.WithContext(h.ctx(c)).Delete(decision).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": decisionID})
}
