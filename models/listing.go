package models

// Listing belongs to the listings subsystem; read here only to resolve the
// owner on first contact and to decorate conversation summaries.
type Listing struct {
	ID       string  `gorm:"primaryKey" json:"id"`
	UserID   string  `gorm:"not null;index" json:"user_id"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"image_url"`
}

func (Listing) TableName() string {
	return "listings"
}

func (l *Listing) Preview() *ListingPreview {
	return &ListingPreview{
		ID:       l.ID,
		Title:    l.Title,
		Price:    l.Price,
		ImageURL: l.ImageURL,
	}
}

type ListingPreview struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"image_url,omitempty"`
}
