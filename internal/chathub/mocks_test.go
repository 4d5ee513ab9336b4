package chathub_test

import (
	"github.com/stretchr/testify/mock"

	"supperchat/backend/internal/models"
)

// MockStorage is a testify mock of the storage.Storage interface.
type MockStorage struct {
	mock.Mock
}

// User operations
func (m *MockStorage) CreateUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockStorage) GetUserByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) GetUserByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) UpdateUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

// Room operations
func (m *MockStorage) CreateRoom(room *models.ChatRoom) error {
	args := m.Called(room)
	return args.Error(0)
}

func (m *MockStorage) SaveRoom(room *models.ChatRoom) error {
	args := m.Called(room)
	return args.Error(0)
}

func (m *MockStorage) FindRoom(roomID string) (*models.ChatRoom, error) {
	args := m.Called(roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatRoom), args.Error(1)
}

func (m *MockStorage) ListRooms(userID string) ([]models.ChatRoom, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChatRoom), args.Error(1)
}

// Message operations
func (m *MockStorage) AppendMessage(msg *models.ChatMessage) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockStorage) FindMessage(roomID string, messageID uint) (*models.ChatMessage, error) {
	args := m.Called(roomID, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatMessage), args.Error(1)
}

func (m *MockStorage) MarkMessageDeleted(roomID string, messageID uint) error {
	args := m.Called(roomID, messageID)
	return args.Error(0)
}

func (m *MockStorage) GetRoomMessages(roomID string) ([]models.ChatMessage, error) {
	args := m.Called(roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChatMessage), args.Error(1)
}

// Ban cache
func (m *MockStorage) IsUserBanned(userID string) (bool, error) {
	args := m.Called(userID)
	return args.Bool(0), args.Error(1)
}

// Cross-instance relay
func (m *MockStorage) PublishEvent(payload []byte) error {
	args := m.Called(payload)
	return args.Error(0)
}

// MockClient is a plain test double for the chathub.Client interface.
// Its send channel is buffered so hub deliveries never block in tests.
type MockClient struct {
	connID   string
	identity models.Identity
	send     chan models.ServerEvent
	closed   bool
}

func newMockClient(connID, userID, username string) *MockClient {
	return &MockClient{
		connID:   connID,
		identity: models.Identity{UserID: userID, Username: username},
		send:     make(chan models.ServerEvent, 16),
	}
}

func (c *MockClient) GetConnID() string                         { return c.connID }
func (c *MockClient) GetIdentity() models.Identity              { return c.identity }
func (c *MockClient) GetSendChannel() chan<- models.ServerEvent { return c.send }
func (c *MockClient) Run()                                      {}

func (c *MockClient) Close() {
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// Drain empties the send channel and returns everything delivered so far.
func (c *MockClient) Drain() []models.ServerEvent {
	var events []models.ServerEvent
	for {
		select {
		case ev, ok := <-c.send:
			if !ok {
				return events
			}
			events = append(events, ev)
		default:
			return events
		}
	}
}
