package db

import (
	"time"

	"github.com/ekremdev/pazarca/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConversationRepository is the identity store for participant pairs. A pair
// of users maps to exactly one conversation row regardless of who initiates.
type ConversationRepository interface {
	GetOrCreate(userA, userB string, listingID *string) (*models.Conversation, error)
	FindByID(conversationID string) (*models.Conversation, error)
	IsParticipant(conversationID, userID string) (bool, error)
	ListVisibleForUser(userID string, limit int) ([]models.Conversation, error)
}

type conversationRepo struct {
	DB *gorm.DB
}

func NewConversationRepo(db *GormDB) ConversationRepository {
	return &conversationRepo{db.DB}
}

// NormalizePair orders two user ids so the smaller one always lands in the
// least column. Both sides of a pair resolve to the same (least, greatest)
// key, which the unique index turns into at-most-one conversation.
func NormalizePair(userA, userB string) (least, greatest string) {
	if userA < userB {
		return userA, userB
	}
	return userB, userA
}

func (r *conversationRepo) GetOrCreate(userA, userB string, listingID *string) (*models.Conversation, error) {
	least, greatest := NormalizePair(userA, userB)

	conv := models.Conversation{
		ID:             uuid.New().String(),
		LeastUserID:    least,
		GreatestUserID: greatest,
		ListingID:      listingID,
		CreatedAt:      time.Now(),
	}
	// Idempotent create: a concurrent caller for the same pair wins the
	// insert and we fall through to the fetch below either way.
	if err := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "least_user_id"}, {Name: "greatest_user_id"}},
		DoNothing: true,
	}).Create(&conv).Error; err != nil {
		return nil, errors.Wrap(err, "create conversation")
	}

	var existing models.Conversation
	if err := r.DB.Where("least_user_id = ? AND greatest_user_id = ?", least, greatest).
		First(&existing).Error; err != nil {
		return nil, errors.Wrap(err, "fetch conversation after upsert")
	}
	return &existing, nil
}

func (r *conversationRepo) FindByID(conversationID string) (*models.Conversation, error) {
	var conv models.Conversation
	if err := r.DB.Where("id = ?", conversationID).First(&conv).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *conversationRepo) IsParticipant(conversationID, userID string) (bool, error) {
	var cnt int64
	if err := r.DB.Model(&models.Conversation{}).
		Where("id = ? AND (least_user_id = ? OR greatest_user_id = ?)", conversationID, userID, userID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

// ListVisibleForUser returns the user's conversations minus the ones they
// have hidden, newest first.
func (r *conversationRepo) ListVisibleForUser(userID string, limit int) ([]models.Conversation, error) {
	var convs []models.Conversation
	err := r.DB.
		Where("least_user_id = ? OR greatest_user_id = ?", userID, userID).
		Where("NOT EXISTS (SELECT 1 FROM conversation_hidden h WHERE h.conversation_id = conversations.id AND h.user_id = ?)", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&convs).Error
	if err != nil {
		return nil, errors.Wrap(err, "list conversations")
	}
	return convs, nil
}
