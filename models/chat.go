package models

import (
	"time"

	"github.com/studyforge/studyforge/tenant"
)

const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatSession binds a conversation to one agent profile; posting a user
// message runs the agent and appends the assistant reply.
type ChatSession struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	tenant.Owned `gorm:"embedded"`
	UserID       uint      `json:"userId" gorm:"index;not null"`
	Title        string    `json:"title" gorm:"not null"`
	Agent        string    `json:"agent"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	Messages []ChatMessage `json:"messages,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}

type ChatMessage struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	ChatSessionID uint      `json:"sessionId" gorm:"index;not null"`
	Role          string    `json:"role" gorm:"not null"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}

type ChatSessionDTO struct {
	Title string `json:"title" binding:"required"`
	Agent string `json:"agent"`
}

type ChatMessageDTO struct {
	Content  string `json:"content" binding:"required"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}
