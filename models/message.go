package models

import (
	"time"
)

const MessageStatusSent = "SENT"

// Message is append-only; rows are never updated or deleted once written.
type Message struct {
	ID             string    `gorm:"primaryKey" json:"id"`
	ConversationID string    `gorm:"not null;index" json:"conversation_id"`
	SenderID       string    `gorm:"not null" json:"sender_id"`
	Body           string    `gorm:"not null" json:"content"`
	Status         string    `gorm:"default:SENT" json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

func (Message) TableName() string {
	return "messages"
}

type SendMessageRequest struct {
	Content string `json:"content" binding:"required" conform:"trim"`
}

// MessagePayload is the fan-out shape for message:new, carrying the sender's
// public identity so connected clients can render without a lookup.
type MessagePayload struct {
	ID             string      `json:"id"`
	ConversationID string      `json:"conversation_id"`
	SenderID       string      `json:"sender_id"`
	Content        string      `json:"content"`
	CreatedAt      time.Time   `json:"created_at"`
	Sender         *PublicUser `json:"users,omitempty"`
}
