// Package tenant carries the current tenant through request contexts and
// scopes every tenant-owned query and insert to it. The tenant travels on
// the context.Context of the request, so it dies with the request and can
// never leak into an unrelated one.
package tenant

import (
	"context"

	"gorm.io/gorm"

	"github.com/studyforge/studyforge/errs"
)

type contextKey struct{}

// WithTenant returns a child context bound to the given tenant id.
func WithTenant(ctx context.Context, tenantID uint) context.Context {
	return context.WithValue(ctx, contextKey{}, tenantID)
}

// FromContext reports the tenant bound to ctx, if any.
func FromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(contextKey{}).(uint)
	return id, ok
}

// MustFromContext returns the bound tenant or an Unauthorized error.
// Tenant-scoped operations never fall back to a default tenant.
func MustFromContext(ctx context.Context) (uint, error) {
	id, ok := FromContext(ctx)
	if !ok {
		return 0, errs.ErrMissingTenant
	}
	return id, nil
}

// Scope filters a query to rows owned by the tenant bound to ctx. A query
// built with Scope on a tenant-less context matches nothing rather than
// everything.
func Scope(ctx context.Context) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		id, ok := FromContext(ctx)
		if !ok {
			return db.Where("tenant_id = ?", 0)
		}
		return db.Where("tenant_id = ?", id)
	}
}

// Owned is embedded by every tenant-scoped entity. Its BeforeCreate hook
// stamps the row with the tenant bound to the statement context, so a
// handler can never persist a row under the wrong tenant by forgetting to
// set the column.
type Owned struct {
	TenantID uint `json:"tenantId" gorm:"index;not null"`
}

func (o *Owned) BeforeCreate(tx *gorm.DB) error {
	if o.TenantID != 0 {
		return nil
	}
	id, ok := FromContext(tx.Statement.Context)
	if !ok {
		return errs.ErrMissingTenant
	}
	o.TenantID = id
	return nil
}
