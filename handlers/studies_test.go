package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyforge/studyforge/models"
)

// Full path from workspace down to a versioned note, the way a client
// would drive it.
func TestWorkspaceSubjectNoteFlow(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerUser(t, "ana@example.com", "")

	w := env.do(t, http.MethodPost, "/api/workspaces", token, gin.H{"name": "Semester 1", "type": "STUDY"})
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())
	ws := decode[models.Workspace](t, w)
	assert.Equal(t, "STUDY", ws.Type)
	assert.False(t, ws.CreatedAt.IsZero())

	w = env.do(t, http.MethodPost, "/api/workspaces/"+itoa(ws.ID)+"/subjects", token, gin.H{"name": "Calculus"})
	require.Equal(t, http.StatusCreated, w.Code)
	subject := decode[models.StudySubject](t, w)
	assert.Equal(t, ws.ID, subject.WorkspaceID)

	w = env.do(t, http.MethodPost, "/api/studies/subjects/"+itoa(subject.ID)+"/notes", token, gin.H{
		"title":   "Derivatives",
		"content": "d/dx x^2 = 2x",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	note := decode[models.StudyNote](t, w)
	assert.Equal(t, note.CreatedAt, note.UpdatedAt)

	versions := decode[[]models.StudyNoteVersion](t, env.do(t, http.MethodGet, "/api/notes/"+itoa(note.ID)+"/versions", token, nil))
	require.Len(t, versions, 1)
	assert.Equal(t, "INITIAL", versions[0].ChangeType)
	assert.Equal(t, "Derivatives", versions[0].Title)

	w = env.do(t, http.MethodPut, "/api/notes/"+itoa(note.ID), token, gin.H{
		"title":   "Derivatives",
		"content": "d/dx x^2 = 2x, chain rule next",
	})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[models.StudyNote](t, w)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt) || updated.UpdatedAt.Equal(updated.CreatedAt))

	versions = decode[[]models.StudyNoteVersion](t, env.do(t, http.MethodGet, "/api/notes/"+itoa(note.ID)+"/versions", token, nil))
	require.Len(t, versions, 2)
	assert.Equal(t, "MANUAL_EDIT", versions[0].ChangeType)
}

func TestNoteRollbackViaAPI(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerUser(t, "ana@example.com", "")

	ws := decode[models.Workspace](t, env.do(t, http.MethodPost, "/api/workspaces", token, gin.H{"name": "W"}))
	subject := decode[models.StudySubject](t, env.do(t, http.MethodPost, "/api/workspaces/"+itoa(ws.ID)+"/subjects", token, gin.H{"name": "S"}))
	note := decode[models.StudyNote](t, env.do(t, http.MethodPost, "/api/studies/subjects/"+itoa(subject.ID)+"/notes", token, gin.H{"title": "T", "content": "v1"}))

	env.do(t, http.MethodPut, "/api/notes/"+itoa(note.ID), token, gin.H{"title": "T", "content": "v2"})

	versions := decode[[]models.StudyNoteVersion](t, env.do(t, http.MethodGet, "/api/notes/"+itoa(note.ID)+"/versions", token, nil))
	require.Len(t, versions, 2)
	initialID := versions[1].ID

	w := env.do(t, http.MethodPost, "/api/notes/"+itoa(note.ID)+"/versions/"+itoa(initialID)+"/rollback", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	rolled := decode[models.StudyNote](t, w)
	assert.Equal(t, "v1", rolled.Content)

	versions = decode[[]models.StudyNoteVersion](t, env.do(t, http.MethodGet, "/api/notes/"+itoa(note.ID)+"/versions", token, nil))
	require.Len(t, versions, 3)
	assert.Equal(t, "ROLLBACK", versions[0].ChangeType)
}

func TestNoteRollback_ForeignVersionIs404(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerUser(t, "ana@example.com", "")

	ws := decode[models.Workspace](t, env.do(t, http.MethodPost, "/api/workspaces", token, gin.H{"name": "W"}))
	subject := decode[models.StudySubject](t, env.do(t, http.MethodPost, "/api/workspaces/"+itoa(ws.ID)+"/subjects", token, gin.H{"name": "S"}))
	noteA := decode[models.StudyNote](t, env.do(t, http.MethodPost, "/api/studies/subjects/"+itoa(subject.ID)+"/notes", token, gin.H{"title": "A", "content": "a"}))
	_ = decode[models.StudyNote](t, env.do(t, http.MethodPost, "/api/studies/subjects/"+itoa(subject.ID)+"/notes", token, gin.H{"title": "B", "content": "b"}))

	var foreign models.StudyNoteVersion
	require.NoError(t, env.db.Where("title = ?", "B").First(&foreign).Error)

	w := env.do(t, http.MethodPost, "/api/notes/"+itoa(noteA.ID)+"/versions/"+itoa(foreign.ID)+"/rollback", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteWorkspaceCascades(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerUser(t, "ana@example.com", "")

	ws := decode[models.Workspace](t, env.do(t, http.MethodPost, "/api/workspaces", token, gin.H{"name": "W"}))
	subject := decode[models.StudySubject](t, env.do(t, http.MethodPost, "/api/workspaces/"+itoa(ws.ID)+"/subjects", token, gin.H{"name": "S"}))
	note := decode[models.StudyNote](t, env.do(t, http.MethodPost, "/api/studies/subjects/"+itoa(subject.ID)+"/notes", token, gin.H{"title": "N", "content": "c"}))

	w := env.do(t, http.MethodDelete, "/api/workspaces/"+itoa(ws.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var subjects, notes, versions int64
	env.db.Model(&models.StudySubject{}).Where("id = ?", subject.ID).Count(&subjects)
	env.db.Model(&models.StudyNote{}).Where("id = ?", note.ID).Count(&notes)
	env.db.Model(&models.StudyNoteVersion{}).Where("study_note_id = ?", note.ID).Count(&versions)
	assert.Zero(t, subjects)
	assert.Zero(t, notes)
	assert.Zero(t, versions)
}

func TestSubjectChildEndpoints(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerUser(t, "ana@example.com", "")

	ws := decode[models.Workspace](t, env.do(t, http.MethodPost, "/api/workspaces", token, gin.H{"name": "W"}))
	subject := decode[models.StudySubject](t, env.do(t, http.MethodPost, "/api/workspaces/"+itoa(ws.ID)+"/subjects", token, gin.H{"name": "S"}))
	base := "/api/studies/subjects/" + itoa(subject.ID)

	w := env.do(t, http.MethodPost, base+"/quizzes", token, gin.H{
		"title":     "Chapter quiz",
		"questions": []gin.H{{"question": "2+2?", "options": []string{"3", "4"}, "answer": "4"}},
	})
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
	quiz := decode[models.Quiz](t, w)

	w = env.do(t, http.MethodPost, base+"/resources", token, gin.H{"title": "Course page", "url": "https://example.com"})
	require.Equal(t, http.StatusCreated, w.Code)
	resource := decode[models.StudyResource](t, w)
	assert.Equal(t, "LINK", resource.Kind)

	w = env.do(t, http.MethodPost, base+"/sessions", token, gin.H{"note": "evening review"})
	require.Equal(t, http.StatusCreated, w.Code)
	session := decode[models.StudySession](t, w)
	assert.False(t, session.StartedAt.IsZero())

	quizzes := decode[[]models.Quiz](t, env.do(t, http.MethodGet, base+"/quizzes", token, nil))
	assert.Len(t, quizzes, 1)

	w = env.do(t, http.MethodDelete, base+"/quizzes/"+itoa(quiz.ID), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodDelete, base+"/resources/"+itoa(resource.ID), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPathIDValidation(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerUser(t, "ana@example.com", "")

	w := env.do(t, http.MethodGet, "/api/workspaces/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, "/api/workspaces/0", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
