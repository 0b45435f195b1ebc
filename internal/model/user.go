package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role values carried in the user's role set and in JWT claims.
const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// Account providers.
const (
	ProviderLocal  = "LOCAL"
	ProviderGoogle = "GOOGLE"
)

// User represents the central account entity. Password is empty for
// federated (Google) accounts; Enabled=false means the account is banned.
type User struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username        string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Email           string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	Password        string    `gorm:"type:varchar(255)" json:"-"`
	Enabled         bool      `gorm:"not null;default:true" json:"enabled"`
	Provider        string    `gorm:"type:varchar(20);not null;default:'LOCAL'" json:"provider"`
	Roles           string    `gorm:"type:varchar(100);not null" json:"-"` // comma-joined role set
	ProfileImageURL string    `gorm:"type:varchar(500)" json:"profile_image_url"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// RoleList returns the user's roles as a slice.
func (u *User) RoleList() []string {
	if u.Roles == "" {
		return nil
	}
	return strings.Split(u.Roles, ",")
}

// SetRoles replaces the user's role set.
func (u *User) SetRoles(roles ...string) {
	u.Roles = strings.Join(roles, ",")
}

// HasRole reports whether the user holds the given role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.RoleList() {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.HasRole(RoleAdmin)
}

// RefreshToken is an opaque, single-use token allowing a new access token
// to be minted. Issuing a new one marks all prior tokens for the same
// username as used.
type RefreshToken struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Token     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"token"`
	Username  string    `gorm:"type:varchar(50);index;not null" json:"username"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	Used      bool      `gorm:"not null;default:false" json:"used"`
}

// IsExpired reports whether the token's validity window has passed.
func (t *RefreshToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

// PasswordResetToken holds the OTP sent by email and, once the OTP has
// been verified, the opaque reset token that finalizes the flow. At most
// one exists per user.
type PasswordResetToken struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OTP        string    `gorm:"type:varchar(6);not null" json:"-"`
	ResetToken string    `gorm:"type:varchar(255)" json:"-"` // set after OTP verification
	UserID     uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	User       User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"-"`
	ExpiresAt  time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// IsExpired reports whether the OTP window has passed.
func (t *PasswordResetToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}
