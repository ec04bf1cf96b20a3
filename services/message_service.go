package services

import (
	"context"
	"strings"

	"github.com/ekremdev/pazarca/config"
	"github.com/ekremdev/pazarca/db"
	errs "github.com/ekremdev/pazarca/errors"
	"github.com/ekremdev/pazarca/models"
	"github.com/ekremdev/pazarca/realtime"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MessageService drives the write path: atomic append with its counter and
// visibility side effects, then best-effort fan-out to connected sessions.
type MessageService interface {
	Send(ctx context.Context, conversationID, senderID, content string) (*models.Message, error)
	MarkRead(ctx context.Context, conversationID, userID string) error
	Hide(ctx context.Context, conversationID, userID string) error
	UnreadTotal(userID string) (int64, error)
}

type messageService struct {
	Config      *config.Config
	convRepo    db.ConversationRepository
	messageRepo db.MessageRepository
	userRepo    db.UserRepository
	publisher   realtime.Publisher
	logger      *zap.SugaredLogger
}

func NewMessageService(convRepo db.ConversationRepository, messageRepo db.MessageRepository, userRepo db.UserRepository, publisher realtime.Publisher, logger *zap.SugaredLogger, conf *config.Config) MessageService {
	return &messageService{
		Config:      conf,
		convRepo:    convRepo,
		messageRepo: messageRepo,
		userRepo:    userRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

// Send appends a message for senderID. The repository commits the message,
// the receiver's counters and the un-hide in one transaction; the fan-out
// below runs only after that commit and is never allowed to fail the send.
func (s *messageService) Send(ctx context.Context, conversationID, senderID, content string) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errs.ErrEmptyMessageBody
	}

	conv, err := s.convRepo.FindByID(conversationID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.ErrConversationNotFound
	}
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(senderID) {
		return nil, errs.ErrNotParticipant
	}
	receiverID := conv.OtherParticipant(senderID)

	msg, receiverTotal, err := s.messageRepo.SendMessage(conversationID, senderID, receiverID, content)
	if err != nil {
		return nil, err
	}

	payload := models.MessagePayload{
		ID:             msg.ID,
		ConversationID: msg.ConversationID,
		SenderID:       msg.SenderID,
		Content:        msg.Body,
		CreatedAt:      msg.CreatedAt,
	}
	if sender, err := s.userRepo.FindByID(senderID); err == nil {
		payload.Sender = sender.Public()
	}

	s.publish(ctx, realtime.ConversationChannel(conversationID), realtime.EventMessageNew, map[string]interface{}{
		"conversation_id": conversationID,
		"message":         payload,
	})
	s.publish(ctx, realtime.UserChannel(receiverID), realtime.EventBadgeUpdate, map[string]interface{}{
		"total_unread": receiverTotal,
	})
	s.publish(ctx, realtime.UserChannel(receiverID), realtime.EventConversationUpsert, map[string]interface{}{
		"id": conversationID,
		"lastMessage": models.LastMessagePreview{
			Content:   msg.Body,
			CreatedAt: msg.CreatedAt,
			SenderID:  msg.SenderID,
		},
	})

	return msg, nil
}

// MarkRead zeroes the caller's unread counter for the conversation and
// pushes the fresh badge total. Idempotent.
func (s *messageService) MarkRead(ctx context.Context, conversationID, userID string) error {
	if err := requireParticipant(s.convRepo, conversationID, userID); err != nil {
		return err
	}
	total, err := s.messageRepo.MarkConversationRead(conversationID, userID)
	if err != nil {
		return err
	}
	s.publish(ctx, realtime.UserChannel(userID), realtime.EventBadgeUpdate, map[string]interface{}{
		"total_unread": total,
	})
	return nil
}

// Hide removes the conversation from the caller's list only. The next
// inbound message from the other side un-hides it.
func (s *messageService) Hide(ctx context.Context, conversationID, userID string) error {
	if err := requireParticipant(s.convRepo, conversationID, userID); err != nil {
		return err
	}
	total, err := s.messageRepo.HideConversation(conversationID, userID)
	if err != nil {
		return err
	}
	s.publish(ctx, realtime.UserChannel(userID), realtime.EventBadgeUpdate, map[string]interface{}{
		"total_unread": total,
	})
	return nil
}

func (s *messageService) UnreadTotal(userID string) (int64, error) {
	return s.messageRepo.GetUserUnreadTotal(userID)
}

// publish swallows fan-out errors: the data is committed, a disconnected
// session catches up from the counters on its next poll.
func (s *messageService) publish(ctx context.Context, channel, event string, payload interface{}) {
	if err := s.publisher.Publish(ctx, channel, event, payload); err != nil {
		s.logger.Warnw("fanout publish failed", "channel", channel, "event", event, "error", err)
	}
}
