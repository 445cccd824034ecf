package models

import (
	"time"

	"github.com/studyforge/studyforge/tenant"
)

const (
	WorkspaceTypeStudy   = "STUDY"
	WorkspaceTypeProject = "PROJECT"
	WorkspaceTypeMixed   = "MIXED"
)

// Workspace is the top-level aggregate under a tenant; projects, study
// subjects, roadmaps and kanban boards all hang off one.
type Workspace struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	tenant.Owned `gorm:"embedded"`
	Name         string    `json:"name" gorm:"not null"`
	Type         string    `json:"type" gorm:"default:'MIXED'"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	Projects []Project      `json:"projects,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Subjects []StudySubject `json:"subjects,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Roadmaps []Roadmap      `json:"roadmaps,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Boards   []KanbanBoard  `json:"boards,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

func (Workspace) TableName() string {
	return "workspaces"
}

type WorkspaceDTO struct {
	Name        string `json:"name" binding:"required"`
	Type        string `json:"type" binding:"omitempty,oneof=STUDY PROJECT MIXED"`
	Description string `json:"description"`
}

func (dto WorkspaceDTO) ToWorkspace() Workspace {
	ws := Workspace{Name: dto.Name, Type: dto.Type, Description: dto.Description}
	if ws.Type == "" {
		ws.Type = WorkspaceTypeMixed
	}
	return ws
}
