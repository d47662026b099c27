package models

import (
	"time"

	"gorm.io/datatypes"
)

type ConversationLog struct {
	ID          string         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID      string         `gorm:"column:user_id;type:text;index" json:"user_id"`
	CandidateID string         `gorm:"column:candidate_id;type:text;index" json:"candidate_id"`
	Role        string         `gorm:"column:role;type:text" json:"role"` // "user" | "assistant"
	Content     string         `gorm:"column:content;type:text" json:"content"`
	Timestamp   time.Time      `gorm:"column:timestamp;type:timestamptz;index" json:"timestamp"`
	Metadata    datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata"`
}

func (ConversationLog) TableName() string { return "conversation_logs" }

type ChatMessage struct {
	Role    string `json:"role" binding:"required,oneof=system user assistant"`
	Content string `json:"content"`
}

// ChatRequest mirrors the completion endpoint payload. CandidateID is local
// and never forwarded.
type ChatRequest struct {
	Model       string        `json:"model,omitempty"`
	Messages    []ChatMessage `json:"messages" binding:"required,min=1,dive"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature *float64      `json:"temperature,omitempty"`
	CandidateID string        `json:"candidate_id,omitempty"`
}

type ChatChoice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason,omitempty"`
}

type ChatResponse struct {
	ID      string       `json:"id,omitempty"`
	Model   string       `json:"model,omitempty"`
	Choices []ChatChoice `json:"choices"`
}

// Content returns the first choice's message content.
func (r ChatResponse) Content() string {
	if len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}
