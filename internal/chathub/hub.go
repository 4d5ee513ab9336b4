package chathub

import (
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"supperchat/backend/internal/models"
	"supperchat/backend/internal/storage"
)

// Error reasons carried in messageError / error payloads. The frontend
// switches on these strings, so they are part of the protocol.
const (
	ReasonValidation      = "ValidationError"
	ReasonRoomNotFound    = "RoomNotFound"
	ReasonMessageNotFound = "MessageNotFound"
	ReasonForbidden       = "Forbidden"
	ReasonStorageError    = "StorageError"
	ReasonUnknownEvent    = "UnknownEvent"
)

// InboundEvent is one decoded client frame together with the
// connection it arrived on.
type InboundEvent struct {
	Client Client
	Event  models.ClientEvent
}

// Hub runs the room protocol: join/leave membership, message
// send/broadcast/acknowledge, soft deletes and the typing relay.
// All state behind the channels is owned by the single Run goroutine;
// persistence calls are the only blocking points inside it.
type Hub struct {
	Registry *Registry
	Guard    Guard

	IncomingCh   chan InboundEvent
	RegisterCh   chan Client
	UnregisterCh chan Client
	RelayCh      chan RelayEvent

	Storage storage.Storage

	// MaxMessageLength bounds trimmed message text, in runes.
	MaxMessageLength int
	// InstanceID tags relay publications so this hub skips its own.
	InstanceID string
}

// NewHub wires a hub around a storage backend. Call Run in its own
// goroutine before registering clients.
func NewHub(s storage.Storage, guard Guard, maxMessageLength int) *Hub {
	return &Hub{
		Registry:         NewRegistry(),
		Guard:            guard,
		IncomingCh:       make(chan InboundEvent),
		RegisterCh:       make(chan Client),
		UnregisterCh:     make(chan Client),
		RelayCh:          make(chan RelayEvent),
		Storage:          s,
		MaxMessageLength: maxMessageLength,
		InstanceID:       uuid.New().String(),
	}
}

// Run is the hub's main event loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.RegisterCh:
			h.Registry.Add(client)
			log.Printf("Client %s registered for user %s. Total clients: %d",
				client.GetConnID(), client.GetIdentity().UserID, h.Registry.Len())

		case client := <-h.UnregisterCh:
			h.disconnect(client)

		case in := <-h.IncomingCh:
			h.dispatch(in.Client, in.Event)

		case relay := <-h.RelayCh:
			h.handleRelay(relay)
		}
	}
}

func (h *Hub) dispatch(c Client, ev models.ClientEvent) {
	switch ev.Event {
	case models.EventJoinChat:
		h.handleJoinChat(c, ev.Data)
	case models.EventLeaveChat:
		h.handleLeaveChat(c, ev.Data)
	case models.EventSendMessage:
		h.handleSendMessage(c, ev.Data)
	case models.EventDeleteMessage:
		h.handleDeleteMessage(c, ev.Data)
	case models.EventTyping:
		h.handleTyping(c, ev.Data)
	default:
		h.sendError(c, ReasonUnknownEvent)
	}
}

func (h *Hub) handleJoinChat(c Client, raw json.RawMessage) {
	var data models.JoinChatData
	if err := json.Unmarshal(raw, &data); err != nil || data.ChatID == "" {
		h.sendError(c, ReasonValidation)
		return
	}

	room, err := h.Storage.FindRoom(data.ChatID)
	if err != nil {
		if errors.Is(err, storage.ErrRoomNotFound) {
			h.sendError(c, ReasonRoomNotFound)
		} else {
			h.sendError(c, ReasonStorageError)
		}
		return
	}

	if !h.Guard.CanAccess(c.GetIdentity(), room, IntentRead) {
		h.sendError(c, ReasonForbidden)
		return
	}

	h.Registry.Join(c.GetConnID(), data.ChatID)
	h.sendEvent(c, models.ServerEvent{
		Event: models.EventJoinedChat,
		Data:  models.JoinedChatData{ChatID: data.ChatID, Success: true},
	})
}

func (h *Hub) handleLeaveChat(c Client, raw json.RawMessage) {
	var data models.LeaveChatData
	if err := json.Unmarshal(raw, &data); err != nil || data.ChatID == "" {
		return // leave is best-effort, no reply either way
	}
	h.Registry.Leave(c.GetConnID(), data.ChatID)
}

// handleSendMessage walks a send request through validation,
// persistence, room broadcast and the direct acknowledgment. Every
// failure turns into exactly one messageError to the sender carrying
// the original tempId; nobody else hears about it.
func (h *Hub) handleSendMessage(c Client, raw json.RawMessage) {
	var data models.SendMessageData
	if err := json.Unmarshal(raw, &data); err != nil {
		h.sendMessageError(c, "", ReasonValidation)
		return
	}

	text := strings.TrimSpace(data.Text)
	if data.ChatID == "" || text == "" || data.TempID == "" {
		h.sendMessageError(c, data.TempID, ReasonValidation)
		return
	}
	if utf8.RuneCountInString(text) > h.MaxMessageLength {
		h.sendMessageError(c, data.TempID, ReasonValidation)
		return
	}

	room, err := h.Storage.FindRoom(data.ChatID)
	if err != nil {
		if errors.Is(err, storage.ErrRoomNotFound) {
			h.sendMessageError(c, data.TempID, ReasonRoomNotFound)
		} else {
			h.sendMessageError(c, data.TempID, ReasonStorageError)
		}
		return
	}

	identity := c.GetIdentity()
	if !h.Guard.CanAccess(identity, room, IntentWrite) {
		h.sendMessageError(c, data.TempID, ReasonForbidden)
		return
	}

	msg := &models.ChatMessage{
		RoomID:   data.ChatID,
		AuthorID: identity.UserID,
		Text:     text,
	}
	if err := h.Storage.AppendMessage(msg); err != nil {
		h.sendMessageError(c, data.TempID, ReasonStorageError)
		return
	}

	// Fan-out happens only after the store confirmed the write. The
	// sender's own connection receives the broadcast too and reconciles
	// its optimistic copy via the tempId.
	broadcast := models.ServerEvent{
		Event: models.EventNewMessage,
		Data: models.NewMessageData{
			ChatID:  data.ChatID,
			Message: msg.View(identity.Username),
			TempID:  data.TempID,
		},
	}
	h.broadcast(data.ChatID, broadcast, nil)
	h.publishRelay(data.ChatID, "", broadcast)

	h.sendEvent(c, models.ServerEvent{
		Event: models.EventMessageSent,
		Data: models.MessageSentData{
			ChatID:    data.ChatID,
			MessageID: msg.WireID(),
			TempID:    data.TempID,
			Timestamp: msg.CreatedAt,
		},
	})
}

func (h *Hub) handleDeleteMessage(c Client, raw json.RawMessage) {
	var data models.DeleteMessageData
	if err := json.Unmarshal(raw, &data); err != nil || data.ChatID == "" || data.MessageID == "" {
		h.sendError(c, ReasonValidation)
		return
	}

	messageID, err := strconv.ParseUint(data.MessageID, 10, 64)
	if err != nil {
		h.sendError(c, ReasonMessageNotFound)
		return
	}

	room, err := h.Storage.FindRoom(data.ChatID)
	if err != nil {
		if errors.Is(err, storage.ErrRoomNotFound) {
			h.sendError(c, ReasonRoomNotFound)
		} else {
			h.sendError(c, ReasonStorageError)
		}
		return
	}

	msg, err := h.Storage.FindMessage(data.ChatID, uint(messageID))
	if err != nil {
		if errors.Is(err, storage.ErrMessageNotFound) {
			h.sendError(c, ReasonMessageNotFound)
		} else {
			h.sendError(c, ReasonStorageError)
		}
		return
	}

	if !h.Guard.CanDeleteMessage(c.GetIdentity(), room, msg) {
		h.sendError(c, ReasonForbidden)
		return
	}

	// The guarded UPDATE keeps the delete monotonic: a message that
	// was deleted between the read above and now reports not-found.
	if err := h.Storage.MarkMessageDeleted(data.ChatID, uint(messageID)); err != nil {
		if errors.Is(err, storage.ErrMessageNotFound) {
			h.sendError(c, ReasonMessageNotFound)
		} else {
			h.sendError(c, ReasonStorageError)
		}
		return
	}

	update := models.ServerEvent{
		Event: models.EventMessageUpdate,
		Data: models.MessageUpdateData{
			ChatID:    data.ChatID,
			MessageID: data.MessageID,
			Update:    models.MessageUpdate{IsDeleted: true},
		},
	}
	h.broadcast(data.ChatID, update, nil)
	h.publishRelay(data.ChatID, "", update)
}

// handleTyping relays the typing flag to everyone else in the room.
// Best-effort: senders that never joined the room are silently
// ignored, and there is no persistence.
func (h *Hub) handleTyping(c Client, raw json.RawMessage) {
	var data models.TypingData
	if err := json.Unmarshal(raw, &data); err != nil || data.ChatID == "" {
		return
	}
	if !h.Registry.IsJoined(c.GetConnID(), data.ChatID) {
		return
	}

	identity := c.GetIdentity()
	ev := models.ServerEvent{
		Event: models.EventUserTyping,
		Data: models.UserTypingData{
			UserID:   identity.UserID,
			Username: identity.Username,
			IsTyping: data.IsTyping,
		},
	}
	senderID := c.GetConnID()
	h.broadcast(data.ChatID, ev, func(member Client) bool {
		return member.GetConnID() == senderID
	})
	h.publishRelay(data.ChatID, identity.UserID, ev)
}

// handleRelay fans out an event published by another hub instance.
func (h *Hub) handleRelay(relay RelayEvent) {
	if relay.Origin == h.InstanceID {
		return
	}
	h.broadcast(relay.RoomID, relay.Event, func(member Client) bool {
		return relay.ExcludeUser != "" && member.GetIdentity().UserID == relay.ExcludeUser
	})
}

// broadcast delivers an event to every connection joined to the room,
// minus those the skip filter rejects. Delivery is per-recipient
// best-effort: a full send buffer drops that client instead of
// stalling the loop or aborting delivery to the rest.
func (h *Hub) broadcast(roomID string, ev models.ServerEvent, skip func(Client) bool) {
	var slow []Client
	for _, member := range h.Registry.MembersOf(roomID) {
		if skip != nil && skip(member) {
			continue
		}
		if !h.trySend(member, ev) {
			slow = append(slow, member)
		}
	}
	for _, member := range slow {
		log.Printf("Client %s send buffer full, dropping connection", member.GetConnID())
		h.disconnect(member)
	}
}

// sendEvent delivers a requester-scoped event to one connection.
func (h *Hub) sendEvent(c Client, ev models.ServerEvent) {
	if !h.trySend(c, ev) {
		log.Printf("Client %s send buffer full, dropping connection", c.GetConnID())
		h.disconnect(c)
	}
}

func (h *Hub) sendMessageError(c Client, tempID, reason string) {
	h.sendEvent(c, models.ServerEvent{
		Event: models.EventMessageError,
		Data:  models.MessageErrorData{TempID: tempID, Error: reason},
	})
}

func (h *Hub) sendError(c Client, reason string) {
	h.sendEvent(c, models.ServerEvent{
		Event: models.EventError,
		Data:  models.ErrorData{Message: reason},
	})
}

// trySend performs a non-blocking send. A connection already removed
// from the registry has a closed send channel, so it is skipped.
func (h *Hub) trySend(c Client, ev models.ServerEvent) bool {
	if _, ok := h.Registry.Get(c.GetConnID()); !ok {
		return true // already gone; nothing to deliver, nothing to drop
	}
	select {
	case c.GetSendChannel() <- ev:
		return true
	default:
		return false
	}
}

// disconnect removes a connection from the registry and every room,
// then closes it. Safe to call twice; the second call is a no-op.
func (h *Hub) disconnect(c Client) {
	removed := h.Registry.Remove(c.GetConnID())
	if removed == nil {
		return
	}
	removed.Close()
	log.Printf("Client %s unregistered. Total clients: %d", c.GetConnID(), h.Registry.Len())
}
