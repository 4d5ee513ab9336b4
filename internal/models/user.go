package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a registered account.
// The websocket layer only ever sees the ID and Username; everything
// else stays behind the REST surface.
type User struct {
	ID           string `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"uniqueIndex;not null" json:"username"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	// IsBlocked marks a platform-wide ban applied by the admin CLI.
	// Room-level bans live on ChatRoom.BannedUsers instead.
	IsBlocked bool `json:"-"`
}

// BeforeCreate is a GORM hook that assigns a UUID if the ID is not set.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}
