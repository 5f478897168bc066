// File: realtime/registry.go
package realtime

import "sync"

// Conn is the minimal live-connection surface the registry needs. Satisfied
// by *websocket.Conn.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// connEntry pairs a connection with its write lock. The underlying websocket
// supports at most one concurrent writer, so every WriteJSON goes through mu.
type connEntry struct {
	mu   sync.Mutex
	conn Conn
}

func (e *connEntry) write(payload interface{}) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.conn.WriteJSON(payload)
}

// ConnectionRegistry is an injected, mutex-guarded directory of live client
// connections grouped by room and user id. Entries are added on connect and
// removed on disconnect; Send against an absent entry is a no-op.
type ConnectionRegistry struct {
	mu    sync.RWMutex
	rooms map[string]map[string]*connEntry
}

// NewConnectionRegistry creates an empty registry.
func NewConnectionRegistry() *ConnectionRegistry {
	return &ConnectionRegistry{
		rooms: make(map[string]map[string]*connEntry),
	}
}

// Add registers a connection for (room, userID). A previous connection for
// the same pair is closed first so a user can never hold two live entries.
func (r *ConnectionRegistry) Add(room, userID string, conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, ok := r.rooms[room]
	if !ok {
		users = make(map[string]*connEntry)
		r.rooms[room] = users
	}
	if old, ok := users[userID]; ok && old.conn != conn {
		old.conn.Close()
	}
	users[userID] = &connEntry{conn: conn}
}

// Remove drops the entry for (room, userID). Empty rooms are pruned so churn
// does not leak map shells.
func (r *ConnectionRegistry) Remove(room, userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, ok := r.rooms[room]
	if !ok {
		return
	}
	delete(users, userID)
	if len(users) == 0 {
		delete(r.rooms, room)
	}
}

// Send pushes payload to the connection for (room, userID). Absent entries
// are a no-op; a failed write evicts the stale entry and reports false.
// Delivery is at-most-once and not retried. Writes to one connection are
// serialized through the entry's lock.
func (r *ConnectionRegistry) Send(room, userID string, payload interface{}) bool {
	r.mu.RLock()
	entry, ok := r.rooms[room][userID]
	r.mu.RUnlock()
	if !ok {
		return false
	}

	if err := entry.write(payload); err != nil {
		r.mu.Lock()
		// Re-check under the write lock: the entry may have been replaced.
		if cur, still := r.rooms[room][userID]; still && cur == entry {
			delete(r.rooms[room], userID)
			if len(r.rooms[room]) == 0 {
				delete(r.rooms, room)
			}
		}
		r.mu.Unlock()
		entry.conn.Close()
		return false
	}
	return true
}

// Connected reports whether (room, userID) has a live entry.
func (r *ConnectionRegistry) Connected(room, userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.rooms[room][userID]
	return ok
}
