package model

import (
	"time"

	"github.com/google/uuid"
)

// Rating is one user's score for one film; the (user, film) pair is unique.
type Rating struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_rating_user_film" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"-"`
	FilmID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_rating_user_film" json:"film_id"`
	Film      Film      `gorm:"foreignKey:FilmID;constraint:OnDelete:CASCADE;" json:"-"`
	Score     int       `gorm:"not null" json:"score"` // 1..5
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Favorite marks a film on a user's favorite list. Adds are idempotent.
type Favorite struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_user_film" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"-"`
	FilmID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_user_film" json:"film_id"`
	Film      Film      `gorm:"foreignKey:FilmID;constraint:OnDelete:CASCADE;" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Watched marks a film on a user's watched list. Adds are idempotent.
type Watched struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_watched_user_film" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"-"`
	FilmID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_watched_user_film" json:"film_id"`
	Film      Film      `gorm:"foreignKey:FilmID;constraint:OnDelete:CASCADE;" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
