package models

import (
	"time"

	"github.com/studyforge/studyforge/tenant"
)

// Roadmap is an ordered learning path inside a workspace.
type Roadmap struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	tenant.Owned `gorm:"embedded"`
	WorkspaceID  uint      `json:"workspaceId" gorm:"index;not null"`
	Title        string    `json:"title" gorm:"not null"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	Steps []RoadmapStep `json:"steps,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

func (Roadmap) TableName() string {
	return "roadmaps"
}

type RoadmapStep struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	RoadmapID uint      `json:"roadmapId" gorm:"index;not null"`
	Title     string    `json:"title" gorm:"not null"`
	Position  int       `json:"position"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (RoadmapStep) TableName() string {
	return "roadmap_steps"
}

type RoadmapDTO struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type RoadmapStepDTO struct {
	Title    string `json:"title" binding:"required"`
	Position int    `json:"position"`
	Done     *bool  `json:"done"`
}
