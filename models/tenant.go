package models

import (
	"time"
)

// DefaultTenantID is the tenant seeded at first migration. It backs
// single-tenant installs and can never be deleted.
const DefaultTenantID uint = 1

// Tenant is an isolated customer whose rows are invisible to every other
// tenant.
type Tenant struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Slug      string    `json:"slug" gorm:"uniqueIndex;not null"`
	Active    bool      `json:"active" gorm:"default:true"`
	Plan      string    `json:"plan" gorm:"default:'free'"`
	MaxUsers  int       `json:"maxUsers" gorm:"default:5"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Tenant) TableName() string {
	return "tenants"
}

// TenantDTO carries create/update payloads for tenants.
type TenantDTO struct {
	Name     string `json:"name" binding:"required"`
	Slug     string `json:"slug" binding:"required"`
	Plan     string `json:"plan"`
	MaxUsers int    `json:"maxUsers"`
	Active   *bool  `json:"active"`
}

func (dto TenantDTO) ToTenant() Tenant {
	t := Tenant{
		Name:     dto.Name,
		Slug:     dto.Slug,
		Plan:     dto.Plan,
		MaxUsers: dto.MaxUsers,
		Active:   true,
	}
	if dto.Plan == "" {
		t.Plan = "free"
	}
	if dto.MaxUsers == 0 {
		t.MaxUsers = 5
	}
	if dto.Active != nil {
		t.Active = *dto.Active
	}
	return t
}
