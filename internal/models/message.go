package models

import "gorm.io/gorm"

// RedactionPlaceholder replaces the text of a soft-deleted message.
const RedactionPlaceholder = "[message deleted]"

// ChatMessage is one persisted message in a room's log.
// The embedded gorm.Model provides ID (the message ID handed back to
// clients), CreatedAt and UpdatedAt.
type ChatMessage struct {
	gorm.Model

	// RoomID is the room this message belongs to.
	RoomID string `gorm:"type:text;not null;index:idx_room_msg"`
	// AuthorID is the user who sent the message.
	AuthorID string `gorm:"type:text;not null;index:idx_room_msg"`
	// Text is the message body; replaced by RedactionPlaceholder on delete.
	Text string `gorm:"type:text;not null"`
	// IsAI marks server-generated messages. Always false for the
	// realtime path; kept because the schema has it.
	IsAI bool
	// IsDeleted marks a soft delete. Once true it never goes back.
	IsDeleted bool
}
