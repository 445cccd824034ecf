// Package handlers wires the HTTP API: one route-registration function
// per resource family, all closing over the shared Handlers dependencies.
package handlers

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/studyforge/studyforge/auth"
	"github.com/studyforge/studyforge/errs"
	"github.com/studyforge/studyforge/githubapi"
	"github.com/studyforge/studyforge/llm"
	"github.com/studyforge/studyforge/storage"
	"github.com/studyforge/studyforge/tenant"
)

// Handlers bundles everything the route handlers need.
type Handlers struct {
	DB         *gorm.DB
	Logger     zerolog.Logger
	Auth       *auth.Manager
	Dispatcher *llm.Dispatcher
	Proposals  *llm.ProposalCache
	Files      *storage.FileStore
	GitHub     *githubapi.Client
}

// Register mounts the full API under /api. Auth routes are open; every
// other group requires a bearer token, which also binds the tenant to the
// request context.
func Register(r *gin.Engine, h *Handlers) {
	api := r.Group("/api")
	api.Use(RequestLogger(h.Logger))

	RegisterAuthRoutes(api.Group("/auth"), h)

	protected := api.Group("")
	protected.Use(h.RequireAuth())
	RegisterTenantRoutes(protected.Group("/tenants"), h)
	RegisterWorkspaceRoutes(protected.Group("/workspaces"), h)
	RegisterProjectRoutes(protected.Group("/projects"), h)
	RegisterStudyRoutes(protected.Group("/studies"), h)
	RegisterNoteRoutes(protected.Group("/notes"), h)
	RegisterRoadmapRoutes(protected.Group("/roadmaps"), h)
	RegisterKanbanRoutes(protected.Group("/kanban"), h)
	RegisterMindMapRoutes(protected.Group("/mind-map"), h)
	RegisterProposalRoutes(protected.Group("/ai"), h)
	RegisterDocumentRoutes(protected.Group("/documents"), h)
	RegisterChatRoutes(protected.Group("/chat"), h)
	RegisterAgentRoutes(protected.Group("/agents"), h)
	RegisterGitHubRoutes(protected.Group("/github"), h)
}

// ctx returns the request context, which carries the tenant binding.
func (h *Handlers) ctx(c *gin.Context) context.Context {
	return c.Request.Context()
}

// scoped returns a query builder carrying the request context and the
// tenant filter.
func (h *Handlers) scoped(c *gin.Context) *gorm.DB {
	ctx := h.ctx(c)
	return h.DB.WithContext(ctx).Scopes(tenant.Scope(ctx))
}

// pathID parses a numeric path parameter, aborting with Validation on
// malformed input.
func pathID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		errs.Abort(c, errs.Validation("invalid %s %q", name, raw))
		return 0, false
	}
	return uint(id), true
}

// findScoped loads one tenant-scoped row by id, aborting with the mapped
// error when it is missing.
func findScoped[T any](h *Handlers, c *gin.Context, id uint, entity string) (*T, bool) {
	var row T
	if err := h.scoped(c).First(&row, id).Error; err != nil {
		errs.Abort(c, errs.FromDB(err, entity))
		return nil, false
	}
	return &row, true
}

// findChild loads a child row (scoped through its parent, not by tenant
// column) by id.
func findChild[T any](h *Handlers, c *gin.Context, query string, args []any, entity string) (*T, bool) {
	var row T
	if err := h.DB.WithContext(h.ctx(c)).Where(query, args...).First(&row).Error; err != nil {
		errs.Abort(c, errs.FromDB(err, entity))
		return nil, false
	}
	return &row, true
}
