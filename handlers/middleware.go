package handlers

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/studyforge/studyforge/errs"
	"github.com/studyforge/studyforge/tenant"
)

const userIDKey = "studyforge.userID"

// RequireAuth verifies the bearer token and binds its tenant claim to the
// request context. Everything downstream reads the tenant from there. A
// missing or invalid token aborts with Unauthorized, so tenant-scoped
// handlers never run without a tenant.
func (h *Handlers) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			errs.Abort(c, errs.ErrInvalidToken)
			return
		}
		claims, err := h.Auth.Parse(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			errs.Abort(c, err)
			return
		}
		if claims.TenantID == 0 {
			errs.Abort(c, errs.ErrMissingTenant)
			return
		}
		c.Set(userIDKey, claims.UserID)
		c.Request = c.Request.WithContext(tenant.WithTenant(c.Request.Context(), claims.TenantID))
		c.Next()
	}
}

// currentUserID returns the authenticated user id set by RequireAuth.
func currentUserID(c *gin.Context) uint {
	id, _ := c.Get(userIDKey)
	uid, _ := id.(uint)
	return uid
}

// RequestLogger logs one line per request.
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}
