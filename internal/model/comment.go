package model

import (
	"time"

	"github.com/google/uuid"
)

// DeletedCommentPlaceholder replaces the stored content when a comment
// with replies is soft-deleted.
const DeletedCommentPlaceholder = "This comment was deleted."

// Comment is a threaded film comment. ParentID is nil for root comments.
// Deleted marks a soft delete: the row stays to preserve the reply
// subtree, the content is scrubbed.
type Comment struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Content   string     `gorm:"type:varchar(2000);not null" json:"content"`
	Deleted   bool       `gorm:"not null;default:false" json:"deleted"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User      User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"-"`
	FilmID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"film_id"`
	Film      Film       `gorm:"foreignKey:FilmID;constraint:OnDelete:CASCADE;" json:"-"`
	ParentID  *uuid.UUID `gorm:"type:uuid;index" json:"parent_id"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}
