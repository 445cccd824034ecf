package models

import (
	"time"

	"github.com/studyforge/studyforge/tenant"
)

// DefaultMindMapName is the per-tenant map created on demand when a
// knowledge item arrives without an explicit mind map.
const DefaultMindMapName = "Geral"

// MindMap groups knowledge items for one tenant.
type MindMap struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	tenant.Owned `gorm:"embedded"`
	Name         string    `json:"name" gorm:"not null"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	Items []KnowledgeItem `json:"items,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

func (MindMap) TableName() string {
	return "mind_maps"
}

// KnowledgeItem is an editable knowledge node with append-only version
// history and an AI proposal flow for suggested edits.
type KnowledgeItem struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	tenant.Owned `gorm:"embedded"`
	MindMapID    uint      `json:"mindMapId" gorm:"index;not null"`
	Title        string    `json:"title" gorm:"not null"`
	Content      string    `json:"content"`
	Category     string    `json:"category"`
	Tags         string    `json:"tags"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	Versions []KnowledgeVersion `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (KnowledgeItem) TableName() string {
	return "knowledge_items"
}

type KnowledgeVersion struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	KnowledgeItemID uint      `json:"itemId" gorm:"index;not null"`
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	ChangeType      string    `json:"changeType" gorm:"not null"`
	ProposalID      string    `json:"proposalId,omitempty"`
	ChangeSummary   string    `json:"changeSummary,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

func (KnowledgeVersion) TableName() string {
	return "knowledge_versions"
}

type MindMapDTO struct {
	Name string `json:"name" binding:"required"`
}

type KnowledgeItemDTO struct {
	MindMapID uint   `json:"mindMapId"`
	Title     string `json:"title" binding:"required"`
	Content   string `json:"content"`
	Category  string `json:"category"`
	Tags      string `json:"tags"`
}
