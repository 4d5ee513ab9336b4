package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"supperchat/backend/internal/chathub"
	"supperchat/backend/internal/models"
	"supperchat/backend/internal/storage"
)

type createChatRequest struct {
	Title       string `json:"title" binding:"required,min=3,max=100"`
	Description string `json:"description" binding:"required,min=10,max=1000"`
	IsPublic    *bool  `json:"isPublic"`
}

// CreateChat creates a room with the caller as creator and first
// participant.
func (h *Handler) CreateChat(c *gin.Context) {
	var req createChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	room := &models.ChatRoom{
		Title:       req.Title,
		Description: req.Description,
		CreatorID:   currentIdentity(c).UserID,
		IsPublic:    isPublic,
	}
	if err := h.Storage.CreateRoom(room); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create chat"})
		return
	}

	c.JSON(http.StatusCreated, room)
}

// ListChats returns the public rooms plus the caller's private ones.
func (h *Handler) ListChats(c *gin.Context) {
	rooms, err := h.Storage.ListRooms(currentIdentity(c).UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load chats"})
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// GetChat returns one room and its full message log. Soft-deleted
// messages are included with their redacted text.
func (h *Handler) GetChat(c *gin.Context) {
	identity := currentIdentity(c)

	room, err := h.Storage.FindRoom(c.Param("id"))
	if err != nil {
		if errors.Is(err, storage.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Chat not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load chat"})
		return
	}

	if !h.Hub.Guard.CanAccess(identity, room, chathub.IntentRead) {
		c.JSON(http.StatusForbidden, gin.H{"error": "No access to this chat"})
		return
	}

	messages, err := h.Storage.GetRoomMessages(room.RoomID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load messages"})
		return
	}

	// Usernames are not denormalized onto the message rows; resolve
	// each author once per request.
	usernames := make(map[string]string)
	views := make([]models.MessageView, 0, len(messages))
	for i := range messages {
		msg := &messages[i]
		name, ok := usernames[msg.AuthorID]
		if !ok {
			name = "Unknown"
			if user, err := h.Storage.GetUserByID(msg.AuthorID); err == nil {
				name = user.Username
			}
			usernames[msg.AuthorID] = name
		}
		views = append(views, msg.View(name))
	}

	c.JSON(http.StatusOK, gin.H{"chat": room, "messages": views})
}

// JoinChat adds the caller to a public room's participant set.
func (h *Handler) JoinChat(c *gin.Context) {
	identity := currentIdentity(c)

	room, err := h.Storage.FindRoom(c.Param("id"))
	if err != nil {
		if errors.Is(err, storage.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Chat not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load chat"})
		return
	}

	if room.HasBanned(identity.UserID) || !room.IsPublic {
		c.JSON(http.StatusForbidden, gin.H{"error": "No access to this chat"})
		return
	}

	if !room.HasParticipant(identity.UserID) {
		room.Participants = append(room.Participants, identity.UserID)
		if err := h.Storage.SaveRoom(room); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join chat"})
			return
		}
	}

	c.JSON(http.StatusOK, room)
}

type banRequest struct {
	UserID string `json:"userId" binding:"required"`
}

// BanFromChat puts a user on the room's ban list and removes them from
// the participants. Creator only.
func (h *Handler) BanFromChat(c *gin.Context) {
	identity := currentIdentity(c)

	room, err := h.Storage.FindRoom(c.Param("id"))
	if err != nil {
		if errors.Is(err, storage.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Chat not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load chat"})
		return
	}

	if room.CreatorID != identity.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the creator can ban users"})
		return
	}

	var req banRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !room.HasBanned(req.UserID) {
		room.BannedUsers = append(room.BannedUsers, req.UserID)
	}
	participants := room.Participants[:0]
	for _, id := range room.Participants {
		if id != req.UserID {
			participants = append(participants, id)
		}
	}
	room.Participants = participants

	if err := h.Storage.SaveRoom(room); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update chat"})
		return
	}

	c.JSON(http.StatusOK, room)
}
