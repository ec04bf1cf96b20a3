package models

import (
	"time"
)

// ConversationUnreadCounter holds one participant's unread count for one
// conversation. Rows are created lazily on the first unread message and are
// the authoritative source the per-user aggregate is recomputed from.
type ConversationUnreadCounter struct {
	ID             string    `gorm:"primaryKey" json:"id"`
	ConversationID string    `gorm:"not null;uniqueIndex:idx_unread_conversation_user" json:"conversation_id"`
	UserID         string    `gorm:"not null;uniqueIndex:idx_unread_conversation_user" json:"user_id"`
	UnreadCount    int64     `gorm:"not null;default:0" json:"unread_count"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (ConversationUnreadCounter) TableName() string {
	return "conversation_unread_counters"
}

// UserUnreadCounter is the denormalized messaging badge total. It is always
// written as SUM(conversation_unread_counters.unread_count) for the user, so
// any drift heals on the next mutation.
type UserUnreadCounter struct {
	UserID      string    `gorm:"primaryKey" json:"user_id"`
	TotalUnread int64     `gorm:"not null;default:0" json:"total_unread"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (UserUnreadCounter) TableName() string {
	return "user_unread_counters"
}

// NotificationUnreadCounter is the badge for the notification store. Kept
// separate from UserUnreadCounter: the two are distinct client channels
// (badge:update vs unreadCountUpdate) and must not bleed into each other.
type NotificationUnreadCounter struct {
	UserID      string    `gorm:"primaryKey" json:"user_id"`
	UnreadCount int64     `gorm:"not null;default:0" json:"unread_count"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (NotificationUnreadCounter) TableName() string {
	return "notification_unread_counters"
}
