package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

type NotificationType string

const (
	NotificationNewMessage       NotificationType = "NEW_MESSAGE"
	NotificationListingApproved  NotificationType = "LISTING_APPROVED"
	NotificationListingRejected  NotificationType = "LISTING_REJECTED"
	NotificationFeedbackResponse NotificationType = "FEEDBACK_RESPONSE"
	NotificationGeneral          NotificationType = "GENERAL"
)

// Notification is a generic per-user notification created by any subsystem
// (listing moderation, feedback responses, messaging) through one interface.
type Notification struct {
	ID        string            `gorm:"primaryKey" json:"id"`
	UserID    string            `gorm:"not null;index" json:"user_id"`
	Type      NotificationType  `gorm:"not null;default:GENERAL" json:"type"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Data      *NotificationData `gorm:"type:jsonb" json:"data,omitempty"`
	IsRead    bool              `gorm:"not null;default:false" json:"is_read"`
	CreatedAt time.Time         `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

// NotificationData is the structured payload attached to a notification.
// Known producers fill the typed fields; anything else rides in Extra so new
// notification types stay forward compatible.
type NotificationData struct {
	ConversationID string                 `json:"conversation_id,omitempty"`
	ListingID      string                 `json:"listing_id,omitempty"`
	ListingTitle   string                 `json:"listing_title,omitempty"`
	OldStatus      string                 `json:"old_status,omitempty"`
	NewStatus      string                 `json:"new_status,omitempty"`
	ResolutionNote string                 `json:"resolution_note,omitempty"`
	Extra          map[string]interface{} `json:"extra,omitempty"`
}

func (d NotificationData) Value() (driver.Value, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return nil, errors.Wrap(err, "marshal notification data")
	}
	return string(b), nil
}

func (d *NotificationData) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.Errorf("unsupported notification data type %T", value)
	}
	return json.Unmarshal(raw, d)
}
