package db

import (
	"time"

	"github.com/ekremdev/pazarca/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NotificationRepository stores typed per-user notifications and their badge
// counter. The counter moves by exact deltas: +1 per created notification,
// -N for the N rows a mark-read call actually flips, never below zero.
type NotificationRepository interface {
	Create(n *models.Notification) (int64, error)
	ListForUser(userID string, limit int) ([]models.Notification, error)
	MarkRead(ids []string, userID string) (updated int64, unread int64, err error)
	MarkAllRead(userID string) (updated int64, unread int64, err error)
	GetUnreadCount(userID string) (int64, error)
}

type notificationRepo struct {
	DB *gorm.DB
}

func NewNotificationRepo(db *GormDB) NotificationRepository {
	return &notificationRepo{db.DB}
}

// Create persists the notification and bumps the user's badge in one
// transaction. Returns the new unread count.
func (r *notificationRepo) Create(n *models.Notification) (int64, error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.Type == "" {
		n.Type = models.NotificationGeneral
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	var unread int64
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(n).Error; err != nil {
			return errors.Wrap(err, "insert notification")
		}
		counter := models.NotificationUnreadCounter{
			UserID:      n.UserID,
			UnreadCount: 1,
			UpdatedAt:   n.CreatedAt,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"unread_count": gorm.Expr("unread_count + 1"),
				"updated_at":   n.CreatedAt,
			}),
		}).Create(&counter).Error; err != nil {
			return errors.Wrap(err, "bump notification counter")
		}
		return tx.Model(&models.NotificationUnreadCounter{}).
			Where("user_id = ?", n.UserID).
			Select("unread_count").
			Scan(&unread).Error
	})
	return unread, err
}

func (r *notificationRepo) ListForUser(userID string, limit int) ([]models.Notification, error) {
	var rows []models.Notification
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "list notifications")
	}
	return rows, nil
}

// MarkRead flips the caller's listed notifications to read. Rows the caller
// does not own, or that are already read, do not count toward the decrement,
// which is what keeps repeated calls from dragging the badge negative.
func (r *notificationRepo) MarkRead(ids []string, userID string) (int64, int64, error) {
	if len(ids) == 0 {
		unread, err := r.GetUnreadCount(userID)
		return 0, unread, err
	}
	return r.markRead(userID, func(tx *gorm.DB) *gorm.DB {
		return tx.Model(&models.Notification{}).
			Where("id IN ? AND user_id = ? AND is_read = ?", ids, userID, false)
	})
}

func (r *notificationRepo) MarkAllRead(userID string) (int64, int64, error) {
	return r.markRead(userID, func(tx *gorm.DB) *gorm.DB {
		return tx.Model(&models.Notification{}).
			Where("user_id = ? AND is_read = ?", userID, false)
	})
}

func (r *notificationRepo) markRead(userID string, scope func(tx *gorm.DB) *gorm.DB) (int64, int64, error) {
	var updated, unread int64
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		res := scope(tx).Update("is_read", true)
		if res.Error != nil {
			return errors.Wrap(res.Error, "mark notifications read")
		}
		updated = res.RowsAffected
		if updated > 0 {
			if err := tx.Model(&models.NotificationUnreadCounter{}).
				Where("user_id = ?", userID).
				Updates(map[string]interface{}{
					"unread_count": gorm.Expr("CASE WHEN unread_count >= ? THEN unread_count - ? ELSE 0 END", updated, updated),
					"updated_at":   time.Now(),
				}).Error; err != nil {
				return errors.Wrap(err, "decrement notification counter")
			}
		}
		return tx.Model(&models.NotificationUnreadCounter{}).
			Where("user_id = ?", userID).
			Select("COALESCE(MAX(unread_count), 0)").
			Scan(&unread).Error
	})
	return updated, unread, err
}

func (r *notificationRepo) GetUnreadCount(userID string) (int64, error) {
	var row models.NotificationUnreadCounter
	err := r.DB.Where("user_id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "get notification unread count")
	}
	return row.UnreadCount, nil
}
