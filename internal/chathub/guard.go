package chathub

import "supperchat/backend/internal/models"

// Intent distinguishes read access (join, history) from write access
// (sending messages).
type Intent int

const (
	IntentRead Intent = iota
	IntentWrite
)

// Guard decides room access. Pure decision logic, no side effects.
type Guard struct {
	// BannedPublicRead keeps read access to public rooms for users on
	// the room's ban list. Writes are denied regardless.
	BannedPublicRead bool
}

// CanAccess reports whether the identity may act on the room with the
// given intent. A room ban always overrides public write access.
func (g Guard) CanAccess(identity models.Identity, room *models.ChatRoom, intent Intent) bool {
	if room.HasBanned(identity.UserID) {
		if intent == IntentWrite {
			return false
		}
		if !g.BannedPublicRead {
			return false
		}
	}
	return room.IsPublic || room.HasParticipant(identity.UserID)
}

// CanDeleteMessage allows the message author and the room creator to
// delete a message.
func (g Guard) CanDeleteMessage(identity models.Identity, room *models.ChatRoom, msg *models.ChatMessage) bool {
	return identity.UserID == msg.AuthorID || identity.UserID == room.CreatorID
}
