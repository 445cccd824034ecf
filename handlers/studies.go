package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/studyforge/studyforge/errs"
	"github.com/studyforge/studyforge/models"
	"github.com/studyforge/studyforge/versioning"
)

// RegisterStudyRoutes mounts study subjects and their child resources.
func RegisterStudyRoutes(rg *gin.RouterGroup, h *Handlers) {
	rg.GET("/subjects/:id", func(c *gin.Context) { getSubject(c, h) })
	rg.PUT("/subjects/:id", func(c *gin.Context) { updateSubject(c, h) })
	rg.DELETE("/subjects/:id", func(c *gin.Context) { deleteSubject(c, h) })

	rg.GET("/subjects/:id/notes", func(c *gin.Context) { listNotes(c, h) })
	rg.POST("/subjects/:id/notes", func(c *gin.Context) { createNote(c, h) })

	rg.GET("/subjects/:id/quizzes", func(c *gin.Context) { listQuizzes(c, h) })
	rg.POST("/subjects/:id/quizzes", func(c *gin.Context) { createQuiz(c, h) })
	rg.DELETE("/subjects/:id/quizzes/:quizId", func(c *gin.Context) { deleteQuiz(c, h) })

	rg.GET("/subjects/:id/sessions", func(c *gin.Context) { listSessions(c, h) })
	rg.POST("/subjects/:id/sessions", func(c *gin.Context) { createSession(c, h) })
	rg.PUT("/subjects/:id/sessions/:sessionId", func(c *gin.Context) { updateSession(c, h) })

	rg.GET("/subjects/:id/resources", func(c *gin.Context) { listResources(c, h) })
	rg.POST("/subjects/:id/resources", func(c *gin.Context) { createResource(c, h) })
	rg.DELETE("/subjects/:id/resources/:resourceId", func(c *gin.Context) { deleteResource(c, h) })
}

// RegisterNoteRoutes mounts note-level operations, including version
// history and rollback.
func RegisterNoteRoutes(rg *gin.RouterGroup, h *Handlers) {
	rg.GET("/:id", func(c *gin.Context) { getNote(c, h) })
	rg.PUT("/:id", func(c *gin.Context) { updateNote(c, h) })
	rg.DELETE("/:id", func(c *gin.Context) { deleteNote(c, h) })
	rg.GET("/:id/versions", func(c *gin.Context) { noteHistory(c, h) })
	rg.POST("/:id/versions/:versionId/rollback", func(c *gin.Context) { rollbackNote(c, h) })
}

func listWorkspaceSubjects(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if _, ok := findScoped[models.Workspace](h, c, id, "workspace"); !ok {
		return
	}
	var subjects []models.StudySubject
	if err := h.scoped(c).Where("workspace_id = ?", id).Order("id").Find(&subjects).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, subjects)
}

func createSubject(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var dto models.StudySubjectDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		errs.Abort(c, errs.Validation("%s", err.Error()))
		return
	}
	if _, ok := findScoped[models.Workspace](h, c, id, "workspace"); !ok {
		return
	}
	subject := models.StudySubject{
		WorkspaceID: id,
		Name:        dto.Name,
		Description: dto.Description,
		Color:       dto.Color,
	}
	if err := h.DB.WithContext(h.ctx(c)).Create(&subject).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, subject)
}

func getSubject(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	subject, ok := findScoped[models.StudySubject](h, c, id, "study subject")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, subject)
}

func updateSubject(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var dto models.StudySubjectDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		errs.Abort(c, errs.Validation("%s", err.Error()))
		return
	}
	subject, ok := findScoped[models.StudySubject](h, c, id, "study subject")
	if !ok {
		return
	}
	subject.Name = dto.Name
	subject.Description = dto.Description
	subject.Color = dto.Color
	if err := h.DB.WithContext(h.ctx(c)).Save(subject).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, subject)
}

func deleteSubject(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	subject, ok := findScoped[models.StudySubject](h, c, id, "study subject")
	if !ok {
		return
	}
	if err := h.DB.WithContext(h.ctx(c)).Delete(subject).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func listNotes(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if _, ok := findScoped[models.StudySubject](h, c, id, "study subject"); !ok {
		return
	}
	var notes []models.StudyNote
	if err := h.scoped(c).Where("study_subject_id = ?", id).Order("id").Find(&notes).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, notes)
}

func createNote(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var dto models.StudyNoteDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		errs.Abort(c, errs.Validation("%s", err.Error()))
		return
	}
	if _, ok := findScoped[models.StudySubject](h, c, id, "study subject"); !ok {
		return
	}
	note := models.StudyNote{
		StudySubjectID: id,
		Title:          dto.Title,
		Content:        dto.Content,
	}
	err := h.DB.WithContext(h.ctx(c)).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&note).Error; err != nil {
			return err
		}
		return versioning.RecordNoteVersion(tx, &note, versioning.ChangeInitial, "", "")
	})
	if err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, note)
}

func getNote(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	note, ok := findScoped[models.StudyNote](h, c, id, "note")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, note)
}

func updateNote(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var dto models.StudyNoteDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		errs.Abort(c, errs.Validation("%s", err.Error()))
		return
	}
	note, ok := findScoped[models.StudyNote](h, c, id, "note")
	if !ok {
		return
	}
	note.Title = dto.Title
	note.Content = dto.Content
	err := h.DB.WithContext(h.ctx(c)).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(note).Error; err != nil {
			return err
		}
		return versioning.RecordNoteVersion(tx, note, versioning.ChangeManualEdit, "", "")
	})
	if err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

func deleteNote(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	note, ok := findScoped[models.StudyNote](h, c, id, "note")
	if !ok {
		return
	}
	if err := h.DB.WithContext(h.ctx(c)).Delete(note).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func noteHistory(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if _, ok := findScoped[models.StudyNote](h, c, id, "note"); !ok {
		return
	}
	versions, err := versioning.NoteHistory(h.DB.WithContext(h.ctx(c)), id)
	if err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, versions)
}

func rollbackNote(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	versionID, ok := pathID(c, "versionId")
	if !ok {
		return
	}
	note, ok := findScoped[models.StudyNote](h, c, id, "note")
	if !ok {
		return
	}
	if err := versioning.RollbackNote(h.DB.WithContext(h.ctx(c)), note, versionID); err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

func listQuizzes(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if _, ok := findScoped[models.StudySubject](h, c, id, "study subject"); !ok {
		return
	}
	var quizzes []models.Quiz
	if err := h.scoped(c).Where("study_subject_id = ?", id).Order("id").Find(&quizzes).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, quizzes)
}

func createQuiz(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var dto models.QuizDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		errs.Abort(c, errs.Validation("%s", err.Error()))
		return
	}
	if _, ok := findScoped[models.StudySubject](h, c, id, "study subject"); !ok {
		return
	}
	quiz := models.Quiz{
		StudySubjectID: id,
		Title:          dto.Title,
		Questions:      dto.Questions,
	}
	if err := h.DB.WithContext(h.ctx(c)).Create(&quiz).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, quiz)
}

func deleteQuiz(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	quizID, ok := pathID(c, "quizId")
	if !ok {
		return
	}
	if _, ok := findScoped[models.StudySubject](h, c, id, "study subject"); !ok {
		return
	}
	quiz, ok := findChild[models.Quiz](h, c, "id = ? AND study_subject_id = ?", []any{quizID, id}, "quiz")
	if !ok {
		return
	}
	if err := h.DB.WithContext(h.ctx(c)).Delete(quiz).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": quizID})
}

func listSessions(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if _, ok := findScoped[models.StudySubject](h, c, id, "study subject"); !ok {
		return
	}
	var sessions []models.StudySession
	if err := h.scoped(c).Where("study_subject_id = ?", id).Order("started_at DESC").Find(&sessions).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

func createSession(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var dto models.StudySessionDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		errs.Abort(c, errs.Validation("%s", err.Error()))
		return
	}
	if _, ok := findScoped[models.StudySubject](h, c, id, "study subject"); !ok {
		return
	}
	session := models.StudySession{
		StudySubjectID: id,
		EndedAt:        dto.EndedAt,
		Note:           dto.Note,
	}
	if dto.StartedAt != nil {
		session.StartedAt = *dto.StartedAt
	} else {
		session.StartedAt = time.Now()
	}
	if err := h.DB.WithContext(h.ctx(c)).Create(&session).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

func updateSession(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	sessionID, ok := pathID(c, "sessionId")
	if !ok {
		return
	}
	var dto models.StudySessionDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		errs.Abort(c, errs.Validation("%s", err.Error()))
		return
	}
	if _, ok := findScoped[models.StudySubject](h, c, id, "study subject"); !ok {
		return
	}
	session, ok := findChild[models.StudySession](h, c, "id = ? AND study_subject_id = ?", []any{sessionID, id}, "study session")
	if !ok {
		return
	}
	if dto.StartedAt != nil {
		session.StartedAt = *dto.StartedAt
	}
	session.EndedAt = dto.EndedAt
	session.Note = dto.Note
	if err := h.DB.WithContext(h.ctx(c)).Save(session).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func listResources(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if _, ok := findScoped[models.StudySubject](h, c, id, "study subject"); !ok {
		return
	}
	var resources []models.StudyResource
	if err := h.scoped(c).Where("study_subject_id = ?", id).Order("id").Find(&resources).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resources)
}

func createResource(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var dto models.StudyResourceDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		errs.Abort(c, errs.Validation("%s", err.Error()))
		return
	}
	if _, ok := findScoped[models.StudySubject](h, c, id, "study subject"); !ok {
		return
	}
	resource := models.StudyResource{
		StudySubjectID: id,
		Title:          dto.Title,
		URL:            dto.URL,
		Kind:           dto.Kind,
	}
	if resource.Kind == "" {
		resource.Kind = "LINK"
	}
	if err := h.DB.WithContext(h.ctx(c)).Create(&resource).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, resource)
}

func deleteResource(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resourceID, ok := pathID(c, "resourceId")
	if !ok {
		return
	}
	if _, ok := findScoped[models.StudySubject](h, c, id, "study subject"); !ok {
		return
	}
	resource, ok := findChild[models.StudyResource](h, c, "id = ? AND study_subject_id = ?", []any{resourceID, id}, "study resource")
	if !ok {
		return
	}
	if err := h.DB.WithContext(h.ctx(c)).Delete(resource).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": resourceID})
}
