package chathub

import "supperchat/backend/internal/models"

// Client is the interface for one live connection. It abstracts the
// underlying transport so the hub can manage websocket clients and
// test doubles uniformly.
type Client interface {
	// GetConnID returns the unique identifier of this connection.
	// One user may hold several connections at once.
	GetConnID() string
	// GetIdentity returns the identity bound at handshake time.
	// Immutable for the connection's lifetime.
	GetIdentity() models.Identity

	// GetSendChannel returns the channel the hub writes outbound
	// events to. The channel is buffered; the hub never blocks on it.
	GetSendChannel() chan<- models.ServerEvent

	// Run starts the client's read and write pumps.
	Run()
	// Close shuts down the outbound side. Called exactly once, by the
	// hub, when the connection is removed from the registry.
	Close()
}
