package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/studyforge/studyforge/tenant"
)

// StudySubject groups notes, quizzes, sessions and resources inside a
// workspace.
type StudySubject struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	tenant.Owned `gorm:"embedded"`
	WorkspaceID  uint      `json:"workspaceId" gorm:"index;not null"`
	Name         string    `json:"name" gorm:"not null"`
	Description  string    `json:"description"`
	Color        string    `json:"color"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	Notes     []StudyNote     `json:"notes,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Quizzes   []Quiz          `json:"quizzes,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Sessions  []StudySession  `json:"sessions,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Resources []StudyResource `json:"resources,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

func (StudySubject) TableName() string {
	return "study_subjects"
}

// StudyNote carries editable content with append-only version history.
type StudyNote struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	tenant.Owned   `gorm:"embedded"`
	StudySubjectID uint      `json:"subjectId" gorm:"index;not null"`
	Title          string    `json:"title" gorm:"not null"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`

	Versions []StudyNoteVersion `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (StudyNote) TableName() string {
	return "study_notes"
}

// StudyNoteVersion is an immutable snapshot of a note. History only ever
// grows; rollback appends, never rewrites.
type StudyNoteVersion struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	StudyNoteID   uint      `json:"noteId" gorm:"index;not null"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	ChangeType    string    `json:"changeType" gorm:"not null"`
	ProposalID    string    `json:"proposalId,omitempty"`
	ChangeSummary string    `json:"changeSummary,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (StudyNoteVersion) TableName() string {
	return "study_note_versions"
}

// Quiz stores its questions as a JSON document, typically produced by the
// quiz-generator agent.
type Quiz struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	tenant.Owned   `gorm:"embedded"`
	StudySubjectID uint           `json:"subjectId" gorm:"index;not null"`
	Title          string         `json:"title" gorm:"not null"`
	Questions      datatypes.JSON `json:"questions"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

type StudySession struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	tenant.Owned   `gorm:"embedded"`
	StudySubjectID uint       `json:"subjectId" gorm:"index;not null"`
	StartedAt      time.Time  `json:"startedAt"`
	EndedAt        *time.Time `json:"endedAt"`
	Note           string     `json:"note"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

func (StudySession) TableName() string {
	return "study_sessions"
}

type StudyResource struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	tenant.Owned   `gorm:"embedded"`
	StudySubjectID uint      `json:"subjectId" gorm:"index;not null"`
	Title          string    `json:"title" gorm:"not null"`
	URL            string    `json:"url"`
	Kind           string    `json:"kind" gorm:"default:'LINK'"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (StudyResource) TableName() string {
	return "study_resources"
}

type StudySubjectDTO struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

type StudyNoteDTO struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
}

type QuizDTO struct {
	Title     string         `json:"title" binding:"required"`
	Questions datatypes.JSON `json:"questions"`
}

type StudySessionDTO struct {
	StartedAt *time.Time `json:"startedAt"`
	EndedAt   *time.Time `json:"endedAt"`
	Note      string     `json:"note"`
}

type StudyResourceDTO struct {
	Title string `json:"title" binding:"required"`
	URL   string `json:"url"`
	Kind  string `json:"kind"`
}
