package models

import (
	"encoding/json"
	"strconv"
	"time"
)

// Identity is the authenticated principal bound to one connection.
// Resolved once at handshake time and immutable afterwards.
type Identity struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// Client-to-server event names.
const (
	EventJoinChat      = "joinChat"
	EventLeaveChat     = "leaveChat"
	EventSendMessage   = "sendMessage"
	EventDeleteMessage = "deleteMessage"
	EventTyping        = "typing"
)

// Server-to-client event names.
const (
	EventJoinedChat    = "joinedChat"
	EventNewMessage    = "newMessage"
	EventMessageSent   = "messageSent"
	EventMessageError  = "messageError"
	EventMessageUpdate = "messageUpdate"
	EventUserTyping    = "userTyping"
	EventError         = "error"
)

// ClientEvent is the inbound wire envelope. Data stays raw until the
// hub knows which payload type the event name selects.
type ClientEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// ServerEvent is the outbound wire envelope.
type ServerEvent struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Inbound payloads.

type JoinChatData struct {
	ChatID string `json:"chatId"`
}

type LeaveChatData struct {
	ChatID string `json:"chatId"`
}

type SendMessageData struct {
	ChatID string `json:"chatId"`
	Text   string `json:"text"`
	TempID string `json:"tempId"`
}

type DeleteMessageData struct {
	ChatID    string `json:"chatId"`
	MessageID string `json:"messageId"`
}

type TypingData struct {
	ChatID   string `json:"chatId"`
	IsTyping bool   `json:"isTyping"`
}

// Outbound payloads.

type JoinedChatData struct {
	ChatID  string `json:"chatId"`
	Success bool   `json:"success"`
}

// NewMessageData goes to every member of the room, sender included.
// TempID lets the sender replace its optimistic local copy; other
// members ignore it.
type NewMessageData struct {
	ChatID  string      `json:"chatId"`
	Message MessageView `json:"message"`
	TempID  string      `json:"tempId,omitempty"`
}

// MessageSentData is the direct acknowledgment to the sender only.
// Together with the sender's own NewMessageData it carries the same
// TempID, so the client can deduplicate whichever arrives second.
type MessageSentData struct {
	ChatID    string    `json:"chatId"`
	MessageID string    `json:"messageId"`
	TempID    string    `json:"tempId"`
	Timestamp time.Time `json:"timestamp"`
}

type MessageErrorData struct {
	TempID string `json:"tempId,omitempty"`
	Error  string `json:"error"`
}

type MessageUpdateData struct {
	ChatID    string        `json:"chatId"`
	MessageID string        `json:"messageId"`
	Update    MessageUpdate `json:"update"`
}

type MessageUpdate struct {
	IsDeleted bool `json:"isDeleted"`
}

type UserTypingData struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	IsTyping bool   `json:"isTyping"`
}

type ErrorData struct {
	Message string `json:"message"`
}

// SenderView is the author block embedded in a broadcast message.
type SenderView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// MessageView is the canonical message shape sent over the wire.
type MessageView struct {
	ID        string     `json:"id"`
	Sender    SenderView `json:"sender"`
	Text      string     `json:"text"`
	Timestamp time.Time  `json:"timestamp"`
	IsAI      bool       `json:"isAI"`
	IsDeleted bool       `json:"isDeleted"`
}

// WireID renders a stored message ID the way clients see it. Clients
// treat message IDs as opaque strings.
func (m *ChatMessage) WireID() string {
	return strconv.FormatUint(uint64(m.ID), 10)
}

// View builds the broadcast view of a message. The author's display
// name is not stored on the row, so the caller supplies it.
func (m *ChatMessage) View(username string) MessageView {
	return MessageView{
		ID:        m.WireID(),
		Sender:    SenderView{ID: m.AuthorID, Username: username},
		Text:      m.Text,
		Timestamp: m.CreatedAt,
		IsAI:      m.IsAI,
		IsDeleted: m.IsDeleted,
	}
}
