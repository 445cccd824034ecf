package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/studyforge/studyforge/errs"
	"github.com/studyforge/studyforge/llm"
	"github.com/studyforge/studyforge/models"
	"github.com/studyforge/studyforge/versioning"
)

// RegisterMindMapRoutes mounts mind maps and knowledge items, including
// the AI proposal and version history flows.
func RegisterMindMapRoutes(rg *gin.RouterGroup, h *Handlers) {
	rg.GET("", func(c *gin.Context) { listMindMaps(c, h) })
	rg.POST("", func(c *gin.Context) { createMindMap(c, h) })
	rg.GET("/default", func(c *gin.Context) { getDefaultMindMap(c, h) })
	rg.GET("/:id", func(c *gin.Context) { getMindMap(c, h) })
	rg.DELETE("/:id", func(c *gin.Context) { deleteMindMap(c, h) })

	rg.POST("/items", func(c *gin.Context) { createKnowledgeItem(c, h) })
	rg.GET("/items/:id", func(c *gin.Context) { getKnowledgeItem(c, h) })
	rg.PUT("/items/:id", func(c *gin.Context) { updateKnowledgeItem(c, h) })
	rg.DELETE("/items/:id", func(c *gin.Context) { deleteKnowledgeItem(c, h) })
	rg.GET("/items/:id/versions", func(c *gin.Context) { knowledgeHistory(c, h) })
	rg.POST("/items/:id/versions/:versionId/rollback", func(c *gin.Context) { rollbackKnowledgeItem(c, h) })
	rg.POST("/items/:id/propose", func(c *gin.Context) { proposeKnowledgeEdit(c, h) })
}

// defaultMindMap returns the tenant's "Geral" map, creating it on first
// use. Calling it twice without an intervening write returns the same row.
func defaultMindMap(c *gin.Context, h *Handlers) (*models.MindMap, error) {
	var m models.MindMap
	err := h.scoped(c).Where("name = ?", models.DefaultMindMapName).First(&m).Error
	if err == nil {
		return &m, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	m = models.MindMap{Name: models.DefaultMindMapName}
	if err := h.DB.WithContext(h.ctx(c)).Create(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func listMindMaps(c *gin.Context, h *Handlers) {
	var maps []models.MindMap
	if err := h.scoped(c).Order("id").Find(&maps).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, maps)
}

func createMindMap(c *gin.Context, h *Handlers) {
	var dto models.MindMapDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		errs.Abort(c, errs.Validation("%s", err.Error()))
		return
	}
	m := models.MindMap{Name: dto.Name}
	if err := h.DB.WithContext(h.ctx(c)).Create(&m).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func getDefaultMindMap(c *gin.Context, h *Handlers) {
	m, err := defaultMindMap(c, h)
	if err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func getMindMap(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var m models.MindMap
	err := h.scoped(c).Preload("Items").First(&m, id).Error
	if err != nil {
		errs.Abort(c, errs.FromDB(err, "mind map"))
		return
	}
	c.JSON(http.StatusOK, m)
}

func deleteMindMap(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	m, ok := findScoped[models.MindMap](h, c, id, "mind map")
	if !ok {
		return
	}
	if err := h.DB.WithContext(h.ctx(c)).Delete(m).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func createKnowledgeItem(c *gin.Context, h *Handlers) {
	var dto models.KnowledgeItemDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		errs.Abort(c, errs.Validation("%s", err.Error()))
		return
	}

	mapID := dto.MindMapID
	if mapID == 0 {
		m, err := defaultMindMap(c, h)
		if err != nil {
			errs.Abort(c, err)
			return
		}
		mapID = m.ID
	} else if _, ok := findScoped[models.MindMap](h, c, mapID, "mind map"); !ok {
		return
	}

	item := models.KnowledgeItem{
		MindMapID: mapID,
		Title:     dto.Title,
		Content:   dto.Content,
		Category:  dto.Category,
		Tags:      dto.Tags,
	}
	err := h.DB.WithContext(h.ctx(c)).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		return versioning.RecordKnowledgeVersion(tx, &item, versioning.ChangeInitial, "", "")
	})
	if err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func getKnowledgeItem(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	item, ok := findScoped[models.KnowledgeItem](h, c, id, "knowledge item")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, item)
}

func updateKnowledgeItem(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var dto models.KnowledgeItemDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		errs.Abort(c, errs.Validation("%s", err.Error()))
		return
	}
	item, ok := findScoped[models.KnowledgeItem](h, c, id, "knowledge item")
	if !ok {
		return
	}
	item.Title = dto.Title
	item.Content = dto.Content
	item.Category = dto.Category
	item.Tags = dto.Tags
	err := h.DB.WithContext(h.ctx(c)).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(item).Error; err != nil {
			return err
		}
		return versioning.RecordKnowledgeVersion(tx, item, versioning.ChangeManualEdit, "", "")
	})
	if err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func deleteKnowledgeItem(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	item, ok := findScoped[models.KnowledgeItem](h, c, id, "knowledge item")
	if !ok {
		return
	}
	if err := h.DB.WithContext(h.ctx(c)).Delete(item).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	h.Proposals.ClearAllFor(id)
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func knowledgeHistory(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if _, ok := findScoped[models.KnowledgeItem](h, c, id, "knowledge item"); !ok {
		return
	}
	versions, err := versioning.KnowledgeHistory(h.DB.WithContext(h.ctx(c)), id)
	if err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, versions)
}

func rollbackKnowledgeItem(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	versionID, ok := pathID(c, "versionId")
	if !ok {
		return
	}
	item, ok := findScoped[models.KnowledgeItem](h, c, id, "knowledge item")
	if !ok {
		return
	}
	if err := versioning.RollbackKnowledgeItem(h.DB.WithContext(h.ctx(c)), item, versionID); err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

type proposeRequest struct {
	Instruction string `json:"instruction"`
	Provider    string `json:"provider"`
	Model       string `json:"model"`
}

// proposeKnowledgeEdit asks an agent for an improved version of the item
// and parks the result in the proposal cache until a human decides.
func proposeKnowledgeEdit(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req proposeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errs.Abort(c, errs.Validation("%s", err.Error()))
		return
	}
	item, ok := findScoped[models.KnowledgeItem](h, c, id, "knowledge item")
	if !ok {
		return
	}

	prompt := "Improve the following knowledge entry titled " + item.Title + ".\n\n" + item.Content
	if req.Instruction != "" {
		prompt = req.Instruction + "\n\n" + prompt
	}
	provReq := llm.BuildRequest(llm.AgentSummarizer, prompt, nil, "")
	provReq.PreferredProvider = req.Provider
	if req.Model != "" {
		provReq.Model = req.Model
	}

	resp := h.Dispatcher.Execute(h.ctx(c), provReq)
	if !resp.OK() {
		errs.Abort(c, errs.Business("%s", resp.Err))
		return
	}

	proposal := &llm.Proposal{
		KnowledgeItemID: item.ID,
		ProposedTitle:   item.Title,
		ProposedContent: resp.Content,
		Summary:         req.Instruction,
	}
	h.Proposals.Store(proposal)
	c.JSON(http.StatusOK, proposal)
}

// RegisterProposalRoutes mounts the apply/reject half of the proposal
// flow under /api/ai.
func RegisterProposalRoutes(rg *gin.RouterGroup, h *Handlers) {
	rg.POST("/proposals/:id/apply", func(c *gin.Context) { applyProposal(c, h) })
	rg.POST("/proposals/:id/reject", func(c *gin.Context) { rejectProposal(c, h) })
}

func applyProposal(c *gin.Context, h *Handlers) {
	proposal, ok := h.Proposals.Get(c.Param("id"))
	if !ok {
		errs.Abort(c, errs.NotFound("proposal"))
		return
	}
	item, ok := findScoped[models.KnowledgeItem](h, c, proposal.KnowledgeItemID, "knowledge item")
	if !ok {
		return
	}
	item.Title = proposal.ProposedTitle
	item.Content = proposal.ProposedContent
	err := h.DB.WithContext(h.ctx(c)).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(item).Error; err != nil {
			return err
		}
		return versioning.RecordKnowledgeVersion(tx, item, versioning.ChangeProposal, proposal.ID, proposal.Summary)
	})
	if err != nil {
		errs.Abort(c, err)
		return
	}
	h.Proposals.Remove(proposal.ID)
	c.JSON(http.StatusOK, item)
}

func rejectProposal(c *gin.Context, h *Handlers) {
	id := c.Param("id")
	if _, ok := h.Proposals.Get(id); !ok {
		errs.Abort(c, errs.NotFound("proposal"))
		return
	}
	h.Proposals.Remove(id)
	c.JSON(http.StatusOK, gin.H{"rejected": id})
}
