package models

import (
	"time"

	"github.com/studyforge/studyforge/tenant"
)

// User is an account inside one tenant. The GitHub token is stored after
// the OAuth exchange and used for authenticated content retrieval.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	tenant.Owned `gorm:"embedded"`
	Email        string    `json:"email" gorm:"index;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	DisplayName  string    `json:"displayName"`
	GitHubToken  string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"displayName"`
	TenantSlug  string `json:"tenantSlug"`
}

type LoginRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	TenantSlug string `json:"tenantSlug"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
