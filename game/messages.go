package game

import (
	"encoding/json"
	"fmt"
)

type ClientMessageType string
type ServerMessageType string
type ServerErrorCode string

const (
	ClientMessageJoin        ClientMessageType = "join"
	ClientMessageLeave       ClientMessageType = "leave"
	ClientMessageStartGame   ClientMessageType = "startGame"
	ClientMessageNightAction ClientMessageType = "nightAction"
	ClientMessageEndNight    ClientMessageType = "endNight"
)

const (
	ServerMessageConnectSuccess ServerMessageType = "connectSuccess"
	ServerMessageUpdate         ServerMessageType = "update"
	ServerMessageRoleAssigned   ServerMessageType = "roleAssigned"
	ServerMessageError          ServerMessageType = "error"
)

const (
	ErrorCodeInvalidRequest    ServerErrorCode = "invalidRequest"
	ErrorCodeRoomNotFound      ServerErrorCode = "roomNotFound"
	ErrorCodeNotInRoom         ServerErrorCode = "notInRoom"
	ErrorCodeNotHost           ServerErrorCode = "notHost"
	ErrorCodeInvalidPhase      ServerErrorCode = "invalidPhase"
	ErrorCodeRoleCountMismatch ServerErrorCode = "roleCountMismatch"
	ErrorCodeRateLimited       ServerErrorCode = "rateLimited"
)

// Update payload kinds. Every update broadcast carries exactly one of
// the two shapes and consumers discriminate on Kind, never on structure.
const (
	UpdateKindStatus   = "status"
	UpdateKindSnapshot = "snapshot"
)

// ---------------------------------------------------------------------
// Client messages
// ---------------------------------------------------------------------

type ClientMessage struct {
	Type    ClientMessageType `json:"type"`
	Payload json.RawMessage   `json:"payload"`
}

type ClientJoinPayload struct {
	Player string `json:"player"`
	RoomID string `json:"roomId"`
}

type ClientLeavePayload struct {
	RoomID string `json:"roomId"`
}

type ClientStartGamePayload struct {
	RoomID string `json:"roomId"`
}

type ClientNightActionPayload struct {
	RoomID string `json:"roomId"`
	Target string `json:"target"`
}

type ClientEndNightPayload struct {
	RoomID string `json:"roomId"`
}

// ---------------------------------------------------------------------
// Server messages
// ---------------------------------------------------------------------

type ServerMessage struct {
	Type    ServerMessageType `json:"type"`
	Payload json.RawMessage   `json:"payload"`
}

type ServerConnectSuccessPayload struct {
	PlayerID string `json:"playerId"`
}

// ServerUpdatePayload is the single broadcast schema. Kind is either
// UpdateKindStatus (Status set) or UpdateKindSnapshot (Phase and Players
// set, with roles already redacted for the receiving viewer).
type ServerUpdatePayload struct {
	Kind    string        `json:"kind"`
	RoomID  string        `json:"roomId"`
	Status  string        `json:"status,omitempty"`
	Phase   string        `json:"phase,omitempty"`
	Players []PlayerState `json:"players,omitempty"`
}

type ServerRoleAssignedPayload struct {
	RoomID    string    `json:"roomId"`
	Role      string    `json:"role"`
	Alignment Alignment `json:"alignment"`
}

type ServerErrorPayload struct {
	Code        ServerErrorCode   `json:"code"`
	Message     string            `json:"message"`
	RequestType ClientMessageType `json:"requestType,omitempty"`
}

// UnmarshalClientMessage decodes a ClientMessage payload into the typed
// struct for its message type.
func UnmarshalClientMessage(msg ClientMessage) (any, error) {
	switch msg.Type {
	case ClientMessageJoin:
		var p ClientJoinPayload
		return p, json.Unmarshal(msg.Payload, &p)

	case ClientMessageLeave:
		var p ClientLeavePayload
		return p, json.Unmarshal(msg.Payload, &p)

	case ClientMessageStartGame:
		var p ClientStartGamePayload
		return p, json.Unmarshal(msg.Payload, &p)

	case ClientMessageNightAction:
		var p ClientNightActionPayload
		return p, json.Unmarshal(msg.Payload, &p)

	case ClientMessageEndNight:
		var p ClientEndNightPayload
		return p, json.Unmarshal(msg.Payload, &p)

	default:
		return nil, fmt.Errorf("unknown client message type: %s", msg.Type)
	}
}
