package models

import (
	"time"

	"github.com/studyforge/studyforge/tenant"
)

// Project lives inside a workspace and owns its milestones and decision
// records; deleting the project cascades to both.
type Project struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	tenant.Owned `gorm:"embedded"`
	WorkspaceID  uint      `json:"workspaceId" gorm:"index;not null"`
	Name         string    `json:"name" gorm:"not null"`
	Description  string    `json:"description"`
	Status       string    `json:"status" gorm:"default:'ACTIVE'"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	Milestones []Milestone      `json:"milestones,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Decisions  []DecisionRecord `json:"decisions,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

func (Project) TableName() string {
	return "projects"
}

type Milestone struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	ProjectID uint       `json:"projectId" gorm:"index;not null"`
	Title     string     `json:"title" gorm:"not null"`
	DueDate   *time.Time `json:"dueDate"`
	Status    string     `json:"status" gorm:"default:'PENDING'"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (Milestone) TableName() string {
	return "milestones"
}

// DecisionRecord is a lightweight architecture-decision entry attached to
// a project.
type DecisionRecord struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ProjectID uint      `json:"projectId" gorm:"index;not null"`
	Title     string    `json:"title" gorm:"not null"`
	Context   string    `json:"context"`
	Decision  string    `json:"decision"`
	Status    string    `json:"status" gorm:"default:'PROPOSED'"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (DecisionRecord) TableName() string {
	return "decision_records"
}

type ProjectDTO struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

type MilestoneDTO struct {
	Title   string     `json:"title" binding:"required"`
	DueDate *time.Time `json:"dueDate"`
	Status  string     `json:"status"`
}

type DecisionRecordDTO struct {
	Title    string `json:"title" binding:"required"`
	Context  string `json:"context"`
	Decision string `json:"decision"`
	Status   string `json:"status"`
}
