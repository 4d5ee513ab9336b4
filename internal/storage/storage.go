// Package storage is the persistence boundary: rooms, messages and
// users in PostgreSQL via GORM, the global ban cache and the
// cross-instance event channel in Redis.
package storage

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"supperchat/backend/internal/models"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrUserExists      = errors.New("user already exists")
	ErrRoomNotFound    = errors.New("chat room not found")
	ErrMessageNotFound = errors.New("message not found")
)

// EventsChannel is the Redis Pub/Sub channel hub instances use to
// relay room events to each other.
const EventsChannel = "chat:events"

type Storage interface {
	// User operations
	CreateUser(user *models.User) error
	GetUserByID(id string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	UpdateUser(user *models.User) error

	// Room operations
	CreateRoom(room *models.ChatRoom) error
	SaveRoom(room *models.ChatRoom) error
	FindRoom(roomID string) (*models.ChatRoom, error)
	ListRooms(userID string) ([]models.ChatRoom, error)

	// Message operations
	AppendMessage(msg *models.ChatMessage) error
	FindMessage(roomID string, messageID uint) (*models.ChatMessage, error)
	MarkMessageDeleted(roomID string, messageID uint) error
	GetRoomMessages(roomID string) ([]models.ChatMessage, error)

	// Ban cache
	IsUserBanned(userID string) (bool, error)

	// Cross-instance relay
	PublishEvent(payload []byte) error
}

// Service implements Storage on top of GORM and Redis.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// --- Users ---

func (s *Service) CreateUser(user *models.User) error {
	if err := s.DB.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserExists
		}
		return err
	}
	return nil
}

func (s *Service) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := s.DB.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.DB.First(&user, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) UpdateUser(user *models.User) error {
	return s.DB.Save(user).Error
}

// --- Rooms ---

func (s *Service) CreateRoom(room *models.ChatRoom) error {
	return s.DB.Create(room).Error
}

func (s *Service) SaveRoom(room *models.ChatRoom) error {
	return s.DB.Save(room).Error
}

func (s *Service) FindRoom(roomID string) (*models.ChatRoom, error) {
	var room models.ChatRoom
	err := s.DB.First(&room, "room_id = ?", roomID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		log.Printf("ERROR: Failed to get room %s: %v", roomID, err)
		return nil, err
	}
	return &room, nil
}

// ListRooms returns every public room plus the private rooms the user
// participates in.
func (s *Service) ListRooms(userID string) ([]models.ChatRoom, error) {
	var rooms []models.ChatRoom
	err := s.DB.
		Where("is_public = ?", true).
		Or("? = ANY(participants)", userID).
		Order("created_at desc").
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

// --- Messages ---

// AppendMessage persists a new message row. The INSERT is atomic, so
// the generated ID and CreatedAt fix the message's position in the
// room's log; both are filled in on msg before returning.
func (s *Service) AppendMessage(msg *models.ChatMessage) error {
	if err := s.DB.Create(msg).Error; err != nil {
		log.Printf("ERROR: Failed to save message for room %s: %v", msg.RoomID, err)
		return err
	}
	return nil
}

func (s *Service) FindMessage(roomID string, messageID uint) (*models.ChatMessage, error) {
	var msg models.ChatMessage
	err := s.DB.First(&msg, "id = ? AND room_id = ?", messageID, roomID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMessageNotFound
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// MarkMessageDeleted soft-deletes a message in place. The is_deleted
// guard in the WHERE clause makes the operation monotonic: a message
// already deleted reports ErrMessageNotFound instead of being touched
// again.
func (s *Service) MarkMessageDeleted(roomID string, messageID uint) error {
	result := s.DB.Model(&models.ChatMessage{}).
		Where("id = ? AND room_id = ? AND is_deleted = ?", messageID, roomID, false).
		Updates(map[string]interface{}{
			"is_deleted": true,
			"text":       models.RedactionPlaceholder,
		})
	if result.Error != nil {
		log.Printf("ERROR: Failed to delete message %d in room %s: %v", messageID, roomID, result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMessageNotFound
	}
	return nil
}

// GetRoomMessages loads a room's log in append order. Soft-deleted
// messages stay in the result with their redacted text.
func (s *Service) GetRoomMessages(roomID string) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	err := s.DB.Where("room_id = ?", roomID).Order("id asc").Find(&messages).Error
	if err != nil {
		log.Printf("ERROR: Failed to get messages for room %s: %v", roomID, err)
		return nil, err
	}
	return messages, nil
}

// --- Ban cache ---

const banKeyPrefix = "ban:"

// IsUserBanned checks the platform-wide ban key in Redis.
func (s *Service) IsUserBanned(userID string) (bool, error) {
	status, err := s.Redis.Get(s.Ctx, banKeyPrefix+userID).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return status != "", nil
}

// BanUser sets the ban key; duration 0 means no expiry. Used by the
// admin CLI, checked at handshake time by the websocket handler.
func (s *Service) BanUser(userID string, duration time.Duration) error {
	return s.Redis.Set(s.Ctx, banKeyPrefix+userID, "active", duration).Err()
}

// UnbanUser removes the ban key.
func (s *Service) UnbanUser(userID string) error {
	return s.Redis.Del(s.Ctx, banKeyPrefix+userID).Err()
}

// --- Cross-instance relay ---

// PublishEvent pushes an already-encoded room event onto the shared
// channel for the other hub instances.
func (s *Service) PublishEvent(payload []byte) error {
	return s.Redis.Publish(s.Ctx, EventsChannel, payload).Err()
}

// SubscribeEvents subscribes to the shared event channel.
func (s *Service) SubscribeEvents() *redis.PubSub {
	return s.Redis.Subscribe(s.Ctx, EventsChannel)
}
