package models

import (
	"time"
)

// Conversation is the single durable record for an unordered pair of users,
// optionally tied to the listing the first contact happened on. The two
// participant ids are stored in lexicographic order so the same pair always
// maps to the same row no matter which side starts the conversation.
type Conversation struct {
	ID             string    `gorm:"primaryKey" json:"id"`
	LeastUserID    string    `gorm:"not null;uniqueIndex:idx_conversation_pair" json:"least_user_id"`
	GreatestUserID string    `gorm:"not null;uniqueIndex:idx_conversation_pair" json:"greatest_user_id"`
	ListingID      *string   `gorm:"index" json:"listing_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func (Conversation) TableName() string {
	return "conversations"
}

// HasParticipant reports whether userID is one of the two members.
func (c *Conversation) HasParticipant(userID string) bool {
	return c.LeastUserID == userID || c.GreatestUserID == userID
}

// OtherParticipant returns the peer of userID. Caller must have passed the
// participant check first.
func (c *Conversation) OtherParticipant(userID string) string {
	if c.LeastUserID == userID {
		return c.GreatestUserID
	}
	return c.LeastUserID
}

// ConversationHidden marks a conversation as deleted from ONE user's list.
// The row's presence is the whole signal; removing it un-hides.
type ConversationHidden struct {
	ID             string    `gorm:"primaryKey" json:"id"`
	ConversationID string    `gorm:"not null;uniqueIndex:idx_hidden_conversation_user" json:"conversation_id"`
	UserID         string    `gorm:"not null;uniqueIndex:idx_hidden_conversation_user" json:"user_id"`
	HiddenAt       time.Time `json:"hidden_at"`
}

func (ConversationHidden) TableName() string {
	return "conversation_hidden"
}

// ConversationSummary is what the conversation list endpoint returns per row.
type ConversationSummary struct {
	ID               string              `json:"id"`
	LeastUserID      string              `json:"least_user_id"`
	GreatestUserID   string              `json:"greatest_user_id"`
	ListingID        *string             `json:"listing_id,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	OtherParticipant *PublicUser         `json:"otherParticipant"`
	Listing          *ListingPreview     `json:"listing,omitempty"`
	LastMessage      *LastMessagePreview `json:"lastMessage,omitempty"`
	UnreadCount      int64               `json:"unreadCount"`
}

type LastMessagePreview struct {
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	SenderID   string    `json:"sender_id"`
	SenderName string    `json:"sender_name"`
}

type CreateConversationRequest struct {
	ReceiverID string  `json:"receiverId" binding:"required" conform:"trim"`
	ListingID  *string `json:"listingId"`
}

type CreateFromListingRequest struct {
	ListingID string `json:"listingId" binding:"required" conform:"trim"`
}
