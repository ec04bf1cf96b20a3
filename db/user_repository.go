package db

import (
	"github.com/ekremdev/pazarca/models"
	"gorm.io/gorm"
)

// UserRepository is a read-only view of the account subsystem: just enough
// identity to label the other side of a conversation.
type UserRepository interface {
	FindByID(userID string) (*models.User, error)
	FindAdminIDs() ([]string, error)
}

type userRepo struct {
	DB *gorm.DB
}

func NewUserRepo(db *GormDB) UserRepository {
	return &userRepo{db.DB}
}

func (r *userRepo) FindByID(userID string) (*models.User, error) {
	var user models.User
	if err := r.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindAdminIDs() ([]string, error) {
	var ids []string
	err := r.DB.Model(&models.User{}).
		Where("role = ?", "admin").
		Pluck("id", &ids).Error
	return ids, err
}
