package chathub

import (
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"

	"supperchat/backend/internal/models"
)

// RelayEvent is the envelope hub instances exchange over Redis so a
// room's members hear about events no matter which instance their
// connection landed on.
type RelayEvent struct {
	// Origin is the publishing hub's InstanceID; a hub skips its own
	// publications since it already delivered them locally.
	Origin string `json:"origin"`
	RoomID string `json:"roomId"`
	// ExcludeUser suppresses delivery to one user's connections on the
	// receiving side (used for typing, which never echoes the sender).
	ExcludeUser string             `json:"excludeUser,omitempty"`
	Event       models.ServerEvent `json:"event"`
}

// StartRelayListener consumes the shared Redis channel and feeds
// remote events into the hub loop.
func (h *Hub) StartRelayListener(pubsub *redis.PubSub) {
	go func() {
		for msg := range pubsub.Channel() {
			var relay RelayEvent
			if err := json.Unmarshal([]byte(msg.Payload), &relay); err != nil {
				log.Printf("Error unmarshalling relay event: %v", err)
				continue
			}
			h.RelayCh <- relay
		}
	}()
}

// publishRelay hands an event to the other instances. Best-effort: a
// publish failure is logged, never surfaced to the requester, and
// never rolls back the local delivery that already happened.
func (h *Hub) publishRelay(roomID, excludeUser string, ev models.ServerEvent) {
	payload, err := json.Marshal(RelayEvent{
		Origin:      h.InstanceID,
		RoomID:      roomID,
		ExcludeUser: excludeUser,
		Event:       ev,
	})
	if err != nil {
		log.Printf("Error encoding relay event for room %s: %v", roomID, err)
		return
	}
	if err := h.Storage.PublishEvent(payload); err != nil {
		log.Printf("Error publishing relay event for room %s: %v", roomID, err)
	}
}
