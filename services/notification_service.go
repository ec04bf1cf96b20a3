package services

import (
	"context"

	"github.com/ekremdev/pazarca/config"
	"github.com/ekremdev/pazarca/db"
	"github.com/ekremdev/pazarca/models"
	"github.com/ekremdev/pazarca/realtime"
	"go.uber.org/zap"
)

// NotificationService is the single entry point other subsystems call to
// notify a user: feedback responses, listing moderation results, anything.
// Its unread counter is a separate channel from the messaging badge.
type NotificationService interface {
	Create(ctx context.Context, userID string, typ models.NotificationType, title, message string, data *models.NotificationData) (*models.Notification, error)
	NotifyAdmins(ctx context.Context, typ models.NotificationType, title, message string, data *models.NotificationData) error
	ListForUser(userID string) ([]models.Notification, error)
	MarkRead(ctx context.Context, ids []string, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
	UnreadCount(userID string) (int64, error)
}

type notificationService struct {
	Config           *config.Config
	notificationRepo db.NotificationRepository
	userRepo         db.UserRepository
	publisher        realtime.Publisher
	logger           *zap.SugaredLogger
}

func NewNotificationService(notificationRepo db.NotificationRepository, userRepo db.UserRepository, publisher realtime.Publisher, logger *zap.SugaredLogger, conf *config.Config) NotificationService {
	return &notificationService{
		Config:           conf,
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		publisher:        publisher,
		logger:           logger,
	}
}

func (s *notificationService) Create(ctx context.Context, userID string, typ models.NotificationType, title, message string, data *models.NotificationData) (*models.Notification, error) {
	n := &models.Notification{
		UserID:  userID,
		Type:    typ,
		Title:   title,
		Message: message,
		Data:    data,
	}
	unread, err := s.notificationRepo.Create(n)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, realtime.UserChannel(userID), realtime.EventNotification, n)
	s.publish(ctx, realtime.UserChannel(userID), realtime.EventUnreadCountUpdate, map[string]interface{}{
		"total_unread": unread,
	})
	return n, nil
}

// NotifyAdmins stores one notification per admin and broadcasts the payload
// once on the admin channel.
func (s *notificationService) NotifyAdmins(ctx context.Context, typ models.NotificationType, title, message string, data *models.NotificationData) error {
	adminIDs, err := s.userRepo.FindAdminIDs()
	if err != nil {
		return err
	}
	for _, adminID := range adminIDs {
		if _, err := s.Create(ctx, adminID, typ, title, message, data); err != nil {
			return err
		}
	}
	s.publish(ctx, realtime.AdminChannel, realtime.EventNotification, map[string]interface{}{
		"type":    typ,
		"title":   title,
		"message": message,
		"data":    data,
	})
	return nil
}

func (s *notificationService) ListForUser(userID string) ([]models.Notification, error) {
	return s.notificationRepo.ListForUser(userID, 50)
}

// MarkRead flips only the caller's unread rows among ids; the badge drops by
// exactly that many.
func (s *notificationService) MarkRead(ctx context.Context, ids []string, userID string) error {
	_, unread, err := s.notificationRepo.MarkRead(ids, userID)
	if err != nil {
		return err
	}
	s.publish(ctx, realtime.UserChannel(userID), realtime.EventUnreadCountUpdate, map[string]interface{}{
		"total_unread": unread,
	})
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) error {
	_, unread, err := s.notificationRepo.MarkAllRead(userID)
	if err != nil {
		return err
	}
	s.publish(ctx, realtime.UserChannel(userID), realtime.EventUnreadCountUpdate, map[string]interface{}{
		"total_unread": unread,
	})
	return nil
}

func (s *notificationService) UnreadCount(userID string) (int64, error) {
	return s.notificationRepo.GetUnreadCount(userID)
}

func (s *notificationService) publish(ctx context.Context, channel, event string, payload interface{}) {
	if err := s.publisher.Publish(ctx, channel, event, payload); err != nil {
		s.logger.Warnw("fanout publish failed", "channel", channel, "event", event, "error", err)
	}
}
