package db

import (
	"github.com/ekremdev/pazarca/models"
	"gorm.io/gorm"
)

// ListingRepository is a read-only view of the listings subsystem, used to
// resolve a listing's owner and decorate conversation summaries.
type ListingRepository interface {
	FindByID(listingID string) (*models.Listing, error)
}

type listingRepo struct {
	DB *gorm.DB
}

func NewListingRepo(db *GormDB) ListingRepository {
	return &listingRepo{db.DB}
}

func (r *listingRepo) FindByID(listingID string) (*models.Listing, error) {
	var listing models.Listing
	if err := r.DB.Where("id = ?", listingID).First(&listing).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}
