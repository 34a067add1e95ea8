package game

import "errors"

var (
	ErrRoomNotFound           = errors.New("room-not-found")
	ErrRoleCountMismatch      = errors.New("role-count-mismatch")
	ErrInvalidPhaseTransition = errors.New("invalid-phase-transition")
	ErrNotInRoom              = errors.New("not-in-room")
	ErrNotHost                = errors.New("not-host")
)
