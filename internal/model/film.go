package model

import (
	"time"

	"github.com/google/uuid"
)

// ListingType filters the public film listing.
const (
	ListingNone       = "NONE"
	ListingTrending   = "TRENDING"
	ListingComingSoon = "COMING_SOON"
)

// Film is a catalog entry. AverageRating and RatingCount are denormalized
// from the ratings table and recomputed whenever a rating changes.
type Film struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title         string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"title"`
	Description   string     `gorm:"type:text;not null" json:"description"`
	ReleaseDate   time.Time  `gorm:"not null" json:"release_date"`
	PosterURL     string     `gorm:"type:varchar(500);uniqueIndex;not null" json:"poster_url"`
	TrailerURL    string     `gorm:"type:varchar(500);uniqueIndex;not null" json:"trailer_url"`
	ListingType   string     `gorm:"type:varchar(20);not null;default:'NONE'" json:"listing_type"`
	AverageRating float64    `gorm:"not null;default:0" json:"average_rating"`
	RatingCount   int64      `gorm:"not null;default:0" json:"rating_count"`
	Categories    []Category `gorm:"many2many:film_categories;" json:"categories"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// Category groups films; films and categories are many-to-many.
type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:varchar(500)" json:"description"`
	Films       []Film    `gorm:"many2many:film_categories;" json:"-"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
