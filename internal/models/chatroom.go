package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq" // pq.StringArray for the set-valued columns
	"gorm.io/gorm"
)

// ChatRoom is a chat channel with participants, a ban list and an
// ordered message log (ChatMessage rows keyed by RoomID).
type ChatRoom struct {
	// RoomID is the unique identifier for the chat room (UUID).
	RoomID      string `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"type:text;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	// CreatorID is the user who created the room and may moderate it.
	CreatorID string `gorm:"type:text;not null;index" json:"creatorId"`
	// IsPublic rooms are readable and writable by any user who is not banned.
	IsPublic bool `json:"isPublic"`
	// Participants holds the user IDs that belong to the room.
	Participants pq.StringArray `gorm:"type:text[]" json:"participants"`
	// BannedUsers may never write to the room, public or not.
	BannedUsers pq.StringArray `gorm:"type:text[]" json:"-"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// BeforeCreate assigns a room UUID and ensures the creator is listed as
// a participant, mirroring what the frontend expects after creation.
func (r *ChatRoom) BeforeCreate(tx *gorm.DB) (err error) {
	if r.RoomID == "" {
		r.RoomID = uuid.New().String()
	}
	if !r.HasParticipant(r.CreatorID) {
		r.Participants = append(r.Participants, r.CreatorID)
	}
	return
}

// HasParticipant reports whether userID is in the participant set.
func (r *ChatRoom) HasParticipant(userID string) bool {
	for _, id := range r.Participants {
		if id == userID {
			return true
		}
	}
	return false
}

// HasBanned reports whether userID is in the room's ban list.
func (r *ChatRoom) HasBanned(userID string) bool {
	for _, id := range r.BannedUsers {
		if id == userID {
			return true
		}
	}
	return false
}
