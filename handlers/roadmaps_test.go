package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyforge/studyforge/models"
)

func TestRoadmapSteps_OrderedByPosition(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerUser(t, "ana@example.com", "")

	ws := decode[models.Workspace](t, env.do(t, http.MethodPost, "/api/workspaces", token, gin.H{"name": "W"}))
	roadmap := decode[models.Roadmap](t, env.do(t, http.MethodPost, "/api/workspaces/"+itoa(ws.ID)+"/roadmaps", token, gin.H{"title": "Learn Go"}))
	base := "/api/roadmaps/" + itoa(roadmap.ID)

	env.do(t, http.MethodPost, base+"/steps", token, gin.H{"title": "Concurrency", "position": 2})
	env.do(t, http.MethodPost, base+"/steps", token, gin.H{"title": "Basics", "position": 1})

	full := decode[models.Roadmap](t, env.do(t, http.MethodGet, base, token, nil))
	require.Len(t, full.Steps, 2)
	assert.Equal(t, "Basics", full.Steps[0].Title)
	assert.Equal(t, "Concurrency", full.Steps[1].Title)
}

func TestRoadmapStep_MarkDone(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerUser(t, "ana@example.com", "")

	ws := decode[models.Workspace](t, env.do(t, http.MethodPost, "/api/workspaces", token, gin.H{"name": "W"}))
	roadmap := decode[models.Roadmap](t, env.do(t, http.MethodPost, "/api/workspaces/"+itoa(ws.ID)+"/roadmaps", token, gin.H{"title": "R"}))
	base := "/api/roadmaps/" + itoa(roadmap.ID)

	step := decode[models.RoadmapStep](t, env.do(t, http.MethodPost, base+"/steps", token, gin.H{"title": "Basics", "position": 1}))
	assert.False(t, step.Done)

	w := env.do(t, http.MethodPut, base+"/steps/"+itoa(step.ID), token, gin.H{
		"title":    "Basics",
		"position": 1,
		"done":     true,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[models.RoadmapStep](t, w).Done)
}

func TestRoadmapStep_ForeignRoadmapIs404(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerUser(t, "ana@example.com", "")

	ws := decode[models.Workspace](t, env.do(t, http.MethodPost, "/api/workspaces", token, gin.H{"name": "W"}))
	roadmapA := decode[models.Roadmap](t, env.do(t, http.MethodPost, "/api/workspaces/"+itoa(ws.ID)+"/roadmaps", token, gin.H{"title": "A"}))
	roadmapB := decode[models.Roadmap](t, env.do(t, http.MethodPost, "/api/workspaces/"+itoa(ws.ID)+"/roadmaps", token, gin.H{"title": "B"}))
	step := decode[models.RoadmapStep](t, env.do(t, http.MethodPost, "/api/roadmaps/"+itoa(roadmapA.ID)+"/steps", token, gin.H{"title": "S"}))

	w := env.do(t, http.MethodDelete, "/api/roadmaps/"+itoa(roadmapB.ID)+"/steps/"+itoa(step.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
