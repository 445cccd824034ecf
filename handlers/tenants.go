package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/studyforge/studyforge/errs"
	"github.com/studyforge/studyforge/models"
)

// RegisterTenantRoutes mounts tenant administration endpoints.
func RegisterTenantRoutes(rg *gin.RouterGroup, h *Handlers) {
	rg.GET("", func(c *gin.Context) { listTenants(c, h) })
	rg.POST("", func(c *gin.Context) { createTenant(c, h) })
	rg.GET("/:id", func(c *gin.Context) { getTenant(c, h) })
	rg.PUT("/:id", func(c *gin.Context) { updateTenant(c, h) })
	rg.DELETE("/:id", func(c *gin.Context) { deleteTenant(c, h) })
}

func listTenants(c *gin.Context, h *Handlers) {
	var tenants []models.Tenant
	if err := h.DB.WithContext(h.ctx(c)).Order("id").Find(&tenants).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, tenants)
}

func createTenant(c *gin.Context, h *Handlers) {
	var dto models.TenantDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		errs.Abort(c, errs.Validation("%s", err.Error()))
		return
	}
	dto.Slug = strings.ToLower(strings.TrimSpace(dto.Slug))

	var count int64
	if err := h.DB.WithContext(h.ctx(c)).Model(&models.Tenant{}).Where("slug = ?", dto.Slug).Count(&count).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	if count > 0 {
		errs.Abort(c, errs.Conflict("slug %q is already taken", dto.Slug))
		return
	}

	t := dto.ToTenant()
	if err := h.DB.WithContext(h.ctx(c)).Create(&t).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func getTenant(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var t models.Tenant
	if err := h.DB.WithContext(h.ctx(c)).First(&t, id).Error; err != nil {
		errs.Abort(c, errs.FromDB(err, "tenant"))
		return
	}
	c.JSON(http.StatusOK, t)
}

func updateTenant(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var dto models.TenantDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		errs.Abort(c, errs.Validation("%s", err.Error()))
		return
	}

	var t models.Tenant
	if err := h.DB.WithContext(h.ctx(c)).First(&t, id).Error; err != nil {
		errs.Abort(c, errs.FromDB(err, "tenant"))
		return
	}

	dto.Slug = strings.ToLower(strings.TrimSpace(dto.Slug))
	if dto.Slug != t.Slug {
		var count int64
		if err := h.DB.WithContext(h.ctx(c)).Model(&models.Tenant{}).Where("slug = ? AND id <> ?", dto.Slug, id).Count(&count).Error; err != nil {
			errs.Abort(c, err)
			return
		}
		if count > 0 {
			errs.Abort(c, errs.Conflict("slug %q is already taken", dto.Slug))
			return
		}
	}

	t.Name = dto.Name
	t.Slug = dto.Slug
	if dto.Plan != "" {
		t.Plan = dto.Plan
	}
	if dto.MaxUsers != 0 {
		t.MaxUsers = dto.MaxUsers
	}
	if dto.Active != nil {
		t.Active = *dto.Active
	}
	if err := h.DB.WithContext(h.ctx(c)).Save(&t).Error; err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func deleteTenant(c *gin.Context, h *Handlers) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if id == models.DefaultTenantID {
		errs.Abort(c, errs.ErrDefaultTenantProtected)
		return
	}
	err := h.DB.WithContext(h.ctx(c)).Transaction(func(tx *gorm.DB) error {
		var t models.Tenant
		if err := tx.First(&t, id).Error; err != nil {
			return errs.FromDB(err, "tenant")
		}
		return tx.Delete(&t).Error
	})
	if err != nil {
		errs.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
