package game

import "github.com/google/uuid"

// NewPlayerID returns a connection-scoped participant id.
func NewPlayerID() string {
	return uuid.NewString()
}

// NewRoomID returns a generated room id for joins that did not name one.
func NewRoomID() string {
	return uuid.NewString()[:8]
}
