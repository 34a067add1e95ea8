package game

import "sync"

// RoomStore is the process-wide room registry. It is constructed once in
// main and passed by reference to the gateway; there is no ambient
// global. All operations are total over the registry.
type RoomStore struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

func NewRoomStore() *RoomStore {
	return &RoomStore{rooms: make(map[string]*Room)}
}

// Get returns the room for id, if present.
func (s *RoomStore) Get(id string) (*Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[id]
	return r, ok
}

// Upsert returns the existing room or installs init(id) under one
// critical section, so concurrent first-joins to the same unknown id
// converge on a single room instance.
func (s *RoomStore) Upsert(id string, init func(id string) *Room) *Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.rooms[id]; ok {
		return r
	}
	r := init(id)
	s.rooms[id] = r
	return r
}

// Remove deletes the room. No-op if absent.
func (s *RoomStore) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, id)
}

// List returns a snapshot of all rooms for diagnostics; order is
// unspecified.
func (s *RoomStore) List() []*Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rooms := make([]*Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		rooms = append(rooms, r)
	}
	return rooms
}
