package services

import (
	"github.com/ekremdev/pazarca/config"
	"github.com/ekremdev/pazarca/db"
	errs "github.com/ekremdev/pazarca/errors"
	"github.com/ekremdev/pazarca/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ConversationService owns conversation identity and the read side of the
// inbox: which conversations a user sees and what each row is decorated with.
type ConversationService interface {
	GetOrCreate(userID, receiverID string, listingID *string) (*models.Conversation, error)
	CreateFromListing(listingID, viewerID string) (*models.Conversation, error)
	ListForUser(userID string) ([]models.ConversationSummary, error)
	GetMessages(conversationID, userID string) ([]models.Message, error)
}

type conversationService struct {
	Config      *config.Config
	convRepo    db.ConversationRepository
	messageRepo db.MessageRepository
	userRepo    db.UserRepository
	listingRepo db.ListingRepository
}

func NewConversationService(convRepo db.ConversationRepository, messageRepo db.MessageRepository, userRepo db.UserRepository, listingRepo db.ListingRepository, conf *config.Config) ConversationService {
	return &conversationService{
		Config:      conf,
		convRepo:    convRepo,
		messageRepo: messageRepo,
		userRepo:    userRepo,
		listingRepo: listingRepo,
	}
}

func (s *conversationService) GetOrCreate(userID, receiverID string, listingID *string) (*models.Conversation, error) {
	if userID == receiverID {
		return nil, errs.ErrSelfConversation
	}
	return s.convRepo.GetOrCreate(userID, receiverID, listingID)
}

// CreateFromListing resolves the listing's owner as the counterpart and
// reuses any conversation the pair already has, attaching the listing only
// when the conversation is created fresh.
func (s *conversationService) CreateFromListing(listingID, viewerID string) (*models.Conversation, error) {
	listing, err := s.listingRepo.FindByID(listingID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.ErrListingNotFound
	}
	if err != nil {
		return nil, err
	}
	if listing.UserID == viewerID {
		return nil, errs.ErrSelfConversation
	}
	return s.convRepo.GetOrCreate(viewerID, listing.UserID, &listingID)
}

func (s *conversationService) ListForUser(userID string) ([]models.ConversationSummary, error) {
	limit := s.Config.ConversationListLimit
	if limit <= 0 {
		limit = 20
	}
	convs, err := s.convRepo.ListVisibleForUser(userID, limit)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.ConversationSummary, 0, len(convs))
	for _, conv := range convs {
		summary := models.ConversationSummary{
			ID:             conv.ID,
			LeastUserID:    conv.LeastUserID,
			GreatestUserID: conv.GreatestUserID,
			ListingID:      conv.ListingID,
			CreatedAt:      conv.CreatedAt,
		}

		other, err := s.userRepo.FindByID(conv.OtherParticipant(userID))
		if err == nil {
			summary.OtherParticipant = other.Public()
		}

		if conv.ListingID != nil {
			if listing, err := s.listingRepo.FindByID(*conv.ListingID); err == nil {
				summary.Listing = listing.Preview()
			}
		}

		last, err := s.messageRepo.LastMessage(conv.ID)
		if err != nil {
			return nil, err
		}
		if last != nil {
			preview := &models.LastMessagePreview{
				Content:   last.Body,
				CreatedAt: last.CreatedAt,
				SenderID:  last.SenderID,
			}
			if last.SenderID == userID {
				preview.SenderName = "Sen"
			} else if other != nil {
				preview.SenderName = other.FullName()
			}
			summary.LastMessage = preview
		}

		unread, err := s.messageRepo.GetConversationUnreadCount(conv.ID, userID)
		if err != nil {
			return nil, err
		}
		summary.UnreadCount = unread

		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// GetMessages returns the conversation's messages oldest first, gated on
// the caller being a participant.
func (s *conversationService) GetMessages(conversationID, userID string) ([]models.Message, error) {
	if err := requireParticipant(s.convRepo, conversationID, userID); err != nil {
		return nil, err
	}
	limit := s.Config.MessageListLimit
	if limit <= 0 {
		limit = 100
	}
	return s.messageRepo.ListMessages(conversationID, limit)
}

// requireParticipant is the authorization gate every conversation-scoped
// operation passes before touching anything.
func requireParticipant(convRepo db.ConversationRepository, conversationID, userID string) error {
	ok, err := convRepo.IsParticipant(conversationID, userID)
	if err != nil {
		return err
	}
	if !ok {
		// Distinguish a missing conversation from an outsider's probe.
		if _, err := convRepo.FindByID(conversationID); errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.ErrConversationNotFound
		}
		return errs.ErrNotParticipant
	}
	return nil
}
