package models

import (
	"time"

	"github.com/studyforge/studyforge/tenant"
)

// Document is an uploaded file stored on local disk. At most one of the
// optional links is set by the endpoint that created it.
type Document struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	tenant.Owned `gorm:"embedded"`
	FileName     string `json:"fileName" gorm:"not null"`
	StoredPath   string `json:"-" gorm:"not null"`
	ContentType  string `json:"contentType"`
	Size         int64  `json:"size"`

	KanbanTaskID    *uint `json:"taskId,omitempty" gorm:"index"`
	KnowledgeItemID *uint `json:"knowledgeItemId,omitempty" gorm:"index"`
	StudySessionID  *uint `json:"studySessionId,omitempty" gorm:"index"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Document) TableName() string {
	return "documents"
}
