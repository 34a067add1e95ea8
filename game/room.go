package game

import "sync"

// Room groups the participants sharing one game and broadcast scope.
// Membership and engine state mutate together, so both live behind the
// room's lock; every method below expects the caller to hold it.
// The room never references connections; transport belongs to the
// gateway alone.
type Room struct {
	ID string

	mu     sync.Mutex
	closed bool
	hostID string
	engine *Engine
}

// NewRoom creates an empty room. Rooms are created lazily on first join
// through RoomStore.Upsert.
func NewRoom(id string) *Room {
	return &Room{ID: id, engine: NewEngine()}
}

// Lock acquires the room's lock, serializing membership and engine
// mutations with each other.
func (r *Room) Lock() { r.mu.Lock() }

// Unlock releases the room's lock.
func (r *Room) Unlock() { r.mu.Unlock() }

// Engine returns the room's game engine.
func (r *Room) Engine() *Engine { return r.engine }

// Closed reports whether the room was removed from the store. A joiner
// that raced a final leave must retry against a fresh room.
func (r *Room) Closed() bool { return r.closed }

// Close marks the room as removed from the store.
func (r *Room) Close() { r.closed = true }

// HostID returns the current host, the first member to have joined.
func (r *Room) HostID() string { return r.hostID }

// Join adds a participant. A duplicate join is an idempotent no-op,
// reported through already. The first member becomes host.
func (r *Room) Join(id, name string) (already bool, err error) {
	if _, ok := r.engine.Player(id); ok {
		return true, nil
	}
	if err := r.engine.AddPlayer(id, name); err != nil {
		return false, err
	}
	if r.hostID == "" {
		r.hostID = id
	}
	return false, nil
}

// Leave removes the participant in any phase, or fails with ErrNotInRoom.
// Host role migrates to the next member in join order. empty reports
// whether the room is now memberless and must be deleted from the store.
func (r *Room) Leave(id string) (empty bool, err error) {
	if _, ok := r.engine.Player(id); !ok {
		return r.engine.PlayerCount() == 0, ErrNotInRoom
	}
	r.engine.RemovePlayer(id)
	if r.hostID == id {
		r.hostID = ""
		if len(r.engine.players) > 0 {
			r.hostID = r.engine.players[0].ID
		}
	}
	return r.engine.PlayerCount() == 0, nil
}

// RequireHost fails with ErrNotHost unless id currently holds the host
// role.
func (r *Room) RequireHost(id string) error {
	if r.hostID != id {
		return ErrNotHost
	}
	return nil
}

// MemberIDs returns participant ids in join order.
func (r *Room) MemberIDs() []string {
	ids := make([]string, 0, len(r.engine.players))
	for _, p := range r.engine.players {
		ids = append(ids, p.ID)
	}
	return ids
}
