package chathub

// Registry tracks live connections and their room memberships. It is
// owned by the hub's event loop and must only be touched from that
// goroutine; that single ownership is what makes disconnect cleanup
// atomic with respect to fan-out.
type Registry struct {
	clients map[string]Client            // connID -> client
	rooms   map[string]map[string]Client // roomID -> connID -> client
	joined  map[string]map[string]bool   // connID -> roomID set
}

func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[string]Client),
		rooms:   make(map[string]map[string]Client),
		joined:  make(map[string]map[string]bool),
	}
}

// Add registers a connection. Re-adding the same connID overwrites.
func (r *Registry) Add(c Client) {
	r.clients[c.GetConnID()] = c
}

// Remove drops a connection and clears it out of every room it had
// joined. Returns the client if it was registered, nil otherwise, so
// the caller can close it exactly once.
func (r *Registry) Remove(connID string) Client {
	c, ok := r.clients[connID]
	if !ok {
		return nil
	}
	delete(r.clients, connID)
	for roomID := range r.joined[connID] {
		r.removeFromRoom(connID, roomID)
	}
	delete(r.joined, connID)
	return c
}

// Get returns a registered client by connection ID.
func (r *Registry) Get(connID string) (Client, bool) {
	c, ok := r.clients[connID]
	return c, ok
}

// Join adds the connection to a room. Joining an already-joined room
// is a no-op; membership stays a set.
func (r *Registry) Join(connID, roomID string) {
	c, ok := r.clients[connID]
	if !ok {
		return
	}
	if r.rooms[roomID] == nil {
		r.rooms[roomID] = make(map[string]Client)
	}
	r.rooms[roomID][connID] = c
	if r.joined[connID] == nil {
		r.joined[connID] = make(map[string]bool)
	}
	r.joined[connID][roomID] = true
}

// Leave removes the connection from a room. Leaving a room the
// connection never joined is a no-op.
func (r *Registry) Leave(connID, roomID string) {
	r.removeFromRoom(connID, roomID)
	if set := r.joined[connID]; set != nil {
		delete(set, roomID)
	}
}

// IsJoined reports whether the connection is currently in the room.
func (r *Registry) IsJoined(connID, roomID string) bool {
	return r.joined[connID][roomID]
}

// MembersOf returns the clients currently joined to a room.
func (r *Registry) MembersOf(roomID string) []Client {
	members := make([]Client, 0, len(r.rooms[roomID]))
	for _, c := range r.rooms[roomID] {
		members = append(members, c)
	}
	return members
}

// Len returns the number of live connections.
func (r *Registry) Len() int {
	return len(r.clients)
}

func (r *Registry) removeFromRoom(connID, roomID string) {
	if members := r.rooms[roomID]; members != nil {
		delete(members, connID)
		if len(members) == 0 {
			delete(r.rooms, roomID)
		}
	}
}
