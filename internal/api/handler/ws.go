package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"supperchat/backend/internal/chathub"
	"supperchat/backend/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allows connections from any origin. Lock down in production!
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket authenticates the handshake and upgrades the
// connection. Authentication happens before the upgrade: a connection
// that fails it never reaches the room protocol.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	identity, err := h.Auth.Verify(bearerToken(c))
	if err != nil {
		if !h.Cfg.AllowGuests {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication failed"})
			return
		}
		// Legacy anonymous mode, off by default.
		identity = models.Identity{
			UserID:   "guest-" + uuid.New().String(),
			Username: "Guest",
		}
	}

	banned, err := h.Storage.IsUserBanned(identity.UserID)
	if err != nil {
		log.Printf("Ban check failed for user %s: %v", identity.UserID, err)
	}
	if banned {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Account is banned"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		log.Printf("Failed to upgrade connection for user %s: %v", identity.UserID, err)
		return
	}

	client := &chathub.WebSocketClient{
		ConnID:   uuid.New().String(),
		Identity: identity,
		Conn:     conn,
		Hub:      h.Hub,
		Send:     make(chan models.ServerEvent, chathub.SendBufferSize),
	}

	h.Hub.RegisterCh <- client
	client.Run()
}
