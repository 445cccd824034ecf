package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studyforge/studyforge/auth"
	"github.com/studyforge/studyforge/errs"
	"github.com/studyforge/studyforge/models"
)

// RegisterAuthRoutes mounts the open registration and login endpoints.
func RegisterAuthRoutes(rg *gin.RouterGroup, h *Handlers) {
	rg.POST("/register", func(c *gin.Context) { register(c, h) })
	rg.POST("/login", func(c *gin.Context) { login(c, h) })
}

// resolveTenant maps an optional slug to a tenant, defaulting to the
// seeded tenant for single-tenant installs.
func resolveTenant(c *gin.Context, h *Handlers, slug string) (*models.Tenant, bool) {
	var t models.Tenant
	query := h.DB.WithContext(c.Request.Context())
	var err error
	if slug == "" {
		err = query.First(&t, models.DefaultTenantID).Error
	} else {
		err = query.Where("slug = ?", slug).First(&t).Error
	}
	if err != nil {
		errs.Abort(c, errs.FromDB(err, "tenant"))
		return nil, false
	}
	if !t.Active {
		errs.Abort(c, errs.Business("tenant %q is inactive", t.Slug))
		return nil, false
	}
	return &t, true
}

func register(c *gin.Context, h *Handlers) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errs.Abort(c, errs.Validation("%s", err.Error()))
		return
	}
	t, ok := resolveTenant(c, h, req.TenantSlug)
	if !ok {
		return
	}

	var existing int64
	if err := h.DB.Model(&models.User{}).Where("tenant_id = ? AND email = ?", t.ID, req.Email).Count(&existing).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	if existing > 0 {
		errs.Abort(c, errs.Conflict("email %s is already registered", req.Email))
		return
	}

	var userCount int64
	if err := h.DB.Model(&models.User{}).Where("tenant_id = ?", t.ID).Count(&userCount).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	if t.MaxUsers > 0 && userCount >= int64(t.MaxUsers) {
		errs.Abort(c, errs.Business("tenant %q reached its user limit", t.Slug))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		errs.Abort(c, err)
		return
	}
	user := models.User{
		Email:        req.Email,
		PasswordHash: hash,
		DisplayName:  req.DisplayName,
	}
	user.TenantID = t.ID
	if err := h.DB.Create(&user).Error; err != nil {
		errs.Abort(c, err)
		return
	}

	token, err := h.Auth.Issue(user.ID, t.ID)
	if err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.AuthResponse{Token: token, User: user})
}

func login(c *gin.Context, h *Handlers) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errs.Abort(c, errs.Validation("%s", err.Error()))
		return
	}
	t, ok := resolveTenant(c, h, req.TenantSlug)
	if !ok {
		return
	}

	var user models.User
	if err := h.DB.Where("tenant_id = ? AND email = ?", t.ID, req.Email).First(&user).Error; err != nil {
		errs.Abort(c, errs.ErrInvalidCredentials)
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		errs.Abort(c, errs.ErrInvalidCredentials)
		return
	}

	token, err := h.Auth.Issue(user.ID, t.ID)
	if err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, models.AuthResponse{Token: token, User: user})
}
