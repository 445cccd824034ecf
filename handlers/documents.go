package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/studyforge/studyforge/errs"
	"github.com/studyforge/studyforge/models"
	"github.com/studyforge/studyforge/tenant"
)

const maxUploadBytes = 20 << 20

// RegisterDocumentRoutes mounts file upload, download and deletion.
func RegisterDocumentRoutes(rg *gin.RouterGroup, h *Handlers) {
	rg.GET("", func(c *gin.Context) { listDocuments(c, h) })
	rg.POST("", func(c *gin.Context) { uploadDocument(c, h) })
	rg.GET("/:id", func(c *gin.Context) { getDocument(c, h) })
	rg.GET("/:id/content", func(c *gin.Context) { downloadDocument(c, h) })
	rg.DELETE("/:id", func(c *gin.Context) { deleteDocument(c, h) })
}

func listDocuments(c *gin.Context, h *Handlers) {
	var docs []models.Document
	if err := h.scoped(c).Order("id").Find(&docs).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

// optionalLinkID parses an optional numeric form field.
func optionalLinkID(c *gin.Context, field string) (*uint, bool) {
	raw := c.PostForm(field)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		errs.Abort(c, errs.Validation("invalid %s %q", field, raw))
		return nil, false
	}
	v := uint(id)
	return &v, true
}

func uploadDocument(c *gin.Context, h *Handlers) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		errs.Abort(c, errs.Validation("file field is required"))
		return
	}
	if fileHeader.Size > maxUploadBytes {
		errs.Abort(c, errs.Validation("file exceeds the %d byte limit", maxUploadBytes))
		return
	}

	taskID, ok := optionalLinkID(c, "taskId")
	if !ok {
		return
	}
	itemID, ok := optionalLinkID(c, "knowledgeItemId")
	if !ok {
		return
	}
	sessionID, ok := optionalLinkID(c, "studySessionId")
	if !ok {
		return
	}
	links := 0
	for _, id := range []*uint{taskID, itemID, sessionID} {
		if id != nil {
			links++
		}
	}
	if links > 1 {
		errs.Abort(c, errs.Validation("a document links to at most one owner"))
		return
	}
	if taskID != nil {
		// Tasks carry no tenant column; ownership resolves through the board.
		tid, _ := tenant.FromContext(h.ctx(c))
		var task models.KanbanTask
		err := h.DB.WithContext(h.ctx(c)).
			Joins("JOIN kanban_columns ON kanban_columns.id = kanban_tasks.kanban_column_id").
			Joins("JOIN kanban_boards ON kanban_boards.id = kanban_columns.kanban_board_id").
			Where("kanban_tasks.id = ? AND kanban_boards.tenant_id = ?", *taskID, tid).
			First(&task).Error
		if err != nil {
			errs.Abort(c, errs.FromDB(err, "kanban task"))
			return
		}
	}
	if itemID != nil {
		if _, ok := findScoped[models.KnowledgeItem](h, c, *itemID, "knowledge item"); !ok {
			return
		}
	}
	if sessionID != nil {
		if _, ok := findScoped[models.StudySession](h, c, *sessionID, "study session"); !ok {
			return
		}
	}

	file, err := fileHeader.Open()
	if err != nil {
		errs.Abort(c, err)
		return
	}
	defer file.Close()
	content, err := io.ReadAll(file)
	if err != nil {
		errs.Abort(c, err)
		return
	}

	storedPath, err := h.Files.Save(fileHeader.Filename, content)
	if err != nil {
		errs.Abort(c, err)
		return
	}

	doc := models.Document{
		FileName:        fileHeader.Filename,
		StoredPath:      storedPath,
		ContentType:     fileHeader.Header.Get("Content-Type"),
		Size:            fileHeader.Size,
		KanbanTaskID:    taskID,
		KnowledgeItemID: itemID,
		StudySessionID:  sessionID,
	}
	if err := h.DB.WithContext(h.ctx(c)).Create(&doc).Error; err != nil {
		// The row failed; don't leave the file orphaned on disk.
		_ = h.Files.Remove(storedPath)
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

func getDocument(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	doc, ok := findScoped[models.Document](h, c, id, "document")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, doc)
}

func downloadDocument(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	doc, ok := findScoped[models.Document](h, c, id, "document")
	if !ok {
		return
	}
	content, err := h.Files.Load(doc.StoredPath)
	if err != nil {
		errs.Abort(c, errs.NotFound("document content"))
		return
	}
	contentType := doc.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", `attachment; filename="`+doc.FileName+`"`)
	c.Data(http.StatusOK, contentType, content)
}

func deleteDocument(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	doc, ok := findScoped[models.Document](h, c, id, "document")
	if !ok {
		return
	}
	if err := h.DB.WithContext(h.ctx(c)).Delete(doc).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	_ = h.Files.Remove(doc.StoredPath)
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
