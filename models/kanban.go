package models

import (
	"time"

	"github.com/studyforge/studyforge/tenant"
)

// KanbanBoard owns ordered columns which own ordered tasks. Deleting a
// board cascades down the whole tree.
type KanbanBoard struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	tenant.Owned `gorm:"embedded"`
	WorkspaceID  uint      `json:"workspaceId" gorm:"index;not null"`
	Name         string    `json:"name" gorm:"not null"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	Columns []KanbanColumn `json:"columns,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

func (KanbanBoard) TableName() string {
	return "kanban_boards"
}

type KanbanColumn struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	KanbanBoardID uint      `json:"boardId" gorm:"index;not null"`
	Name          string    `json:"name" gorm:"not null"`
	Position      int       `json:"position"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	Tasks []KanbanTask `json:"tasks,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

func (KanbanColumn) TableName() string {
	return "kanban_columns"
}

type KanbanTask struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	KanbanColumnID uint      `json:"columnId" gorm:"index;not null"`
	Title          string    `json:"title" gorm:"not null"`
	Description    string    `json:"description"`
	Position       int       `json:"position"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (KanbanTask) TableName() string {
	return "kanban_tasks"
}

type KanbanBoardDTO struct {
	Name string `json:"name" binding:"required"`
}

type KanbanColumnDTO struct {
	Name     string `json:"name" binding:"required"`
	Position int    `json:"position"`
}

type KanbanTaskDTO struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Position    int    `json:"position"`
	ColumnID    uint   `json:"columnId"`
}
