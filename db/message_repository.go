package db

import (
	"time"

	"github.com/ekremdev/pazarca/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MessageRepository owns the message log, the unread counter engine and the
// visibility ledger. Everything that touches more than one of those runs in
// a single transaction: a message is never visible without its counter and
// visibility side effects, and vice versa.
type MessageRepository interface {
	SendMessage(conversationID, senderID, receiverID, body string) (*models.Message, int64, error)
	ListMessages(conversationID string, limit int) ([]models.Message, error)
	LastMessage(conversationID string) (*models.Message, error)
	MarkConversationRead(conversationID, userID string) (int64, error)
	HideConversation(conversationID, userID string) (int64, error)
	GetConversationUnreadCount(conversationID, userID string) (int64, error)
	GetUserUnreadTotal(userID string) (int64, error)
}

type messageRepo struct {
	DB *gorm.DB
}

func NewMessageRepo(db *GormDB) MessageRepository {
	return &messageRepo{db.DB}
}

// SendMessage appends a message and lands all its side effects atomically:
//  1. drop the receiver's hidden mark, if any (inbound activity un-hides;
//     the sender's own mark is left alone)
//  2. insert the message
//  3. bump the receiver's per-conversation unread counter
//  4. recompute the receiver's total from the per-conversation rows
//
// Returns the message and the receiver's new unread total.
func (r *messageRepo) SendMessage(conversationID, senderID, receiverID, body string) (*models.Message, int64, error) {
	now := time.Now()
	msg := &models.Message{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Body:           body,
		Status:         models.MessageStatusSent,
		CreatedAt:      now,
	}

	var total int64
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ? AND user_id = ?", conversationID, receiverID).
			Delete(&models.ConversationHidden{}).Error; err != nil {
			return errors.Wrap(err, "unhide conversation for receiver")
		}

		if err := tx.Create(msg).Error; err != nil {
			return errors.Wrap(err, "insert message")
		}

		counter := models.ConversationUnreadCounter{
			ID:             uuid.New().String(),
			ConversationID: conversationID,
			UserID:         receiverID,
			UnreadCount:    1,
			UpdatedAt:      now,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "conversation_id"}, {Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"unread_count": gorm.Expr("unread_count + 1"),
				"updated_at":   now,
			}),
		}).Create(&counter).Error; err != nil {
			return errors.Wrap(err, "bump unread counter")
		}

		var err error
		total, err = recomputeUserTotal(tx, receiverID)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return msg, total, nil
}

// recomputeUserTotal rewrites the user's aggregate as the sum over their
// per-conversation rows. Recompute-from-source rather than delta arithmetic:
// the per-conversation counters are mutated from several call sites and the
// sum self-heals any prior drift.
func recomputeUserTotal(tx *gorm.DB, userID string) (int64, error) {
	var sum int64
	if err := tx.Model(&models.ConversationUnreadCounter{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(unread_count), 0)").
		Scan(&sum).Error; err != nil {
		return 0, errors.Wrap(err, "sum unread counters")
	}

	row := models.UserUnreadCounter{UserID: userID, TotalUnread: sum, UpdatedAt: time.Now()}
	if err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"total_unread": sum,
			"updated_at":   row.UpdatedAt,
		}),
	}).Create(&row).Error; err != nil {
		return 0, errors.Wrap(err, "upsert user unread total")
	}
	return sum, nil
}

func (r *messageRepo) ListMessages(conversationID string, limit int) ([]models.Message, error) {
	var msgs []models.Message
	err := r.DB.Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&msgs).Error
	if err != nil {
		return nil, errors.Wrap(err, "list messages")
	}
	return msgs, nil
}

func (r *messageRepo) LastMessage(conversationID string) (*models.Message, error) {
	var msg models.Message
	err := r.DB.Where("conversation_id = ?", conversationID).
		Order("created_at DESC, id DESC").
		First(&msg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "last message")
	}
	return &msg, nil
}

// MarkConversationRead zeroes the caller's counter for one conversation and
// recomputes their total. Safe to repeat; the second call is a no-op on both
// counters. Returns the new total.
func (r *messageRepo) MarkConversationRead(conversationID, userID string) (int64, error) {
	var total int64
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := zeroConversationCounter(tx, conversationID, userID); err != nil {
			return err
		}
		var err error
		total, err = recomputeUserTotal(tx, userID)
		return err
	})
	return total, err
}

// HideConversation is a one-sided delete: upsert the hidden mark with a
// fresh timestamp, zero the hider's unread counter for it, recompute their
// total. Messages and the conversation row are untouched, so the other
// participant sees nothing change. Returns the hider's new total.
func (r *messageRepo) HideConversation(conversationID, userID string) (int64, error) {
	now := time.Now()
	var total int64
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		mark := models.ConversationHidden{
			ID:             uuid.New().String(),
			ConversationID: conversationID,
			UserID:         userID,
			HiddenAt:       now,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "conversation_id"}, {Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"hidden_at": now,
			}),
		}).Create(&mark).Error; err != nil {
			return errors.Wrap(err, "upsert hidden mark")
		}

		if err := zeroConversationCounter(tx, conversationID, userID); err != nil {
			return err
		}
		var err error
		total, err = recomputeUserTotal(tx, userID)
		return err
	})
	return total, err
}

func zeroConversationCounter(tx *gorm.DB, conversationID, userID string) error {
	now := time.Now()
	counter := models.ConversationUnreadCounter{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		UserID:         userID,
		UnreadCount:    0,
		UpdatedAt:      now,
	}
	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "conversation_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"unread_count": 0,
			"updated_at":   now,
		}),
	}).Create(&counter).Error
	return errors.Wrap(err, "zero unread counter")
}

func (r *messageRepo) GetConversationUnreadCount(conversationID, userID string) (int64, error) {
	var counter models.ConversationUnreadCounter
	err := r.DB.Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		First(&counter).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "get conversation unread count")
	}
	return counter.UnreadCount, nil
}

func (r *messageRepo) GetUserUnreadTotal(userID string) (int64, error) {
	var row models.UserUnreadCounter
	err := r.DB.Where("user_id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "get user unread total")
	}
	return row.TotalUnread, nil
}
