package game

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// Gateway is the per-connection protocol terminus. It translates client
// messages into room store and engine operations and fans the resulting
// state out to every subscriber of the affected room. It holds no
// authoritative game state of its own, only the transport subscription
// mapping.
//
// All mutations for one room run under that room's lock, and broadcasts
// are enqueued while it is still held, so every subscriber observes the
// room's snapshots in mutation order. Rooms stay independent units of
// concurrency.
type Gateway struct {
	store *RoomStore

	mu   sync.Mutex
	subs map[string][]*Client // roomID -> subscribers in join order
}

func NewGateway(store *RoomStore) *Gateway {
	return &Gateway{
		store: store,
		subs:  make(map[string][]*Client),
	}
}

// Dispatch routes one inbound message. Errors stay local to the
// triggering client: it gets a rejection acknowledgment, nobody else
// sees a broadcast.
func (g *Gateway) Dispatch(c *Client, msg ClientMessage) {
	payload, err := UnmarshalClientMessage(msg)
	if err != nil {
		c.SendError(ErrorCodeInvalidRequest, "Malformed client payload.", msg.Type)
		return
	}

	switch p := payload.(type) {
	case ClientJoinPayload:
		g.handleJoin(c, p)
	case ClientLeavePayload:
		g.handleLeave(c, p.RoomID, msg.Type, true)
	case ClientStartGamePayload:
		g.handleStartGame(c, p)
	case ClientNightActionPayload:
		g.handleNightAction(c, p)
	case ClientEndNightPayload:
		g.handleEndNight(c, p)
	default:
		c.SendError(ErrorCodeInvalidRequest, "Unknown request.", msg.Type)
	}
}

// Disconnect is the transport-level close signal: an implicit leave for
// every room the connection was subscribed to, so no membership is
// orphaned. Called from the client's read goroutine only.
func (g *Gateway) Disconnect(c *Client) {
	for roomID := range c.rooms {
		g.handleLeave(c, roomID, "", false)
	}
}

// lookupRoom resolves a client-supplied room id to a live room, or
// fails with ErrRoomNotFound. Join is the only path that may create.
func (g *Gateway) lookupRoom(id string) (*Room, error) {
	room, ok := g.store.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, id)
	}
	return room, nil
}

func (g *Gateway) handleJoin(c *Client, p ClientJoinPayload) {
	roomID := p.RoomID
	if roomID == "" {
		roomID = NewRoomID()
	}
	name := p.Player
	if name == "" {
		name = c.ID
	}

	for {
		room := g.store.Upsert(roomID, NewRoom)
		room.Lock()
		if room.Closed() {
			// Lost a race against the final leave; the store no longer
			// holds this instance.
			room.Unlock()
			continue
		}

		already, err := room.Join(c.ID, name)
		if err != nil {
			room.Unlock()
			c.SendError(errorCode(err), "Cannot join a running game.", ClientMessageJoin)
			return
		}
		if already {
			c.SendMessage(ServerMessageUpdate, snapshotUpdate(room, c.ID))
			room.Unlock()
			log.Debug().Str("client", c.ID).Str("room", roomID).Msg("duplicate join ignored")
			return
		}

		g.subscribe(roomID, c)
		c.rooms[roomID] = struct{}{}

		g.broadcastStatus(room, fmt.Sprintf("Player %s joined!", name))
		g.broadcastSnapshot(room)
		room.Unlock()

		log.Info().Str("client", c.ID).Str("room", roomID).Msg("joined room")
		return
	}
}

// handleLeave removes the participant and, when the room empties, the
// room itself. ack toggles the explicit-leave acknowledgments off for
// the implicit disconnect path.
func (g *Gateway) handleLeave(c *Client, roomID string, reqType ClientMessageType, ack bool) {
	room, err := g.lookupRoom(roomID)
	if err != nil {
		log.Info().Str("client", c.ID).Str("room", roomID).Msg("leave on unknown room")
		if ack {
			c.SendError(errorCode(err), "Room not found.", reqType)
		}
		return
	}

	room.Lock()
	name := c.ID
	if player, ok := room.Engine().Player(c.ID); ok {
		name = player.Name
	}
	empty, err := room.Leave(c.ID)
	if err != nil {
		room.Unlock()
		log.Info().Str("client", c.ID).Str("room", roomID).Msg("leave by non-member")
		if ack {
			c.SendError(errorCode(err), "Not in this room.", reqType)
		}
		return
	}

	g.unsubscribe(roomID, c)
	delete(c.rooms, roomID)

	if empty {
		room.Close()
		g.store.Remove(roomID)
		room.Unlock()
		log.Info().Str("room", roomID).Msg("room deleted")
		return
	}

	g.broadcastStatus(room, fmt.Sprintf("Player %s left.", name))
	g.broadcastSnapshot(room)
	room.Unlock()

	log.Info().Str("client", c.ID).Str("room", roomID).Msg("left room")
}

func (g *Gateway) handleStartGame(c *Client, p ClientStartGamePayload) {
	room, err := g.lookupRoom(p.RoomID)
	if err != nil {
		c.SendError(errorCode(err), "Room not found.", ClientMessageStartGame)
		return
	}

	room.Lock()
	defer room.Unlock()

	if err := room.RequireHost(c.ID); err != nil {
		c.SendError(errorCode(err), "Only the host can start the game.", ClientMessageStartGame)
		return
	}

	engine := room.Engine()
	if err := engine.AssignRoles(RolesFor(engine.PlayerCount())); err != nil {
		c.SendError(errorCode(err), err.Error(), ClientMessageStartGame)
		return
	}
	if err := engine.BeginNight(); err != nil {
		c.SendError(errorCode(err), err.Error(), ClientMessageStartGame)
		return
	}

	// Each player learns their own role privately; the snapshot below is
	// redacted per viewer.
	for _, sub := range g.subscribers(room.ID) {
		player, ok := engine.Player(sub.ID)
		if !ok || player.Role == nil {
			continue
		}
		sub.SendMessage(ServerMessageRoleAssigned, ServerRoleAssignedPayload{
			RoomID:    room.ID,
			Role:      player.Role.Name,
			Alignment: player.Role.Alignment,
		})
	}

	g.broadcastStatus(room, "Night falls.")
	g.broadcastSnapshot(room)

	log.Info().Str("room", room.ID).Int("players", engine.PlayerCount()).Msg("game started")
}

func (g *Gateway) handleNightAction(c *Client, p ClientNightActionPayload) {
	room, err := g.lookupRoom(p.RoomID)
	if err != nil {
		c.SendError(errorCode(err), "Room not found.", ClientMessageNightAction)
		return
	}

	room.Lock()
	defer room.Unlock()

	engine := room.Engine()
	actor, ok := engine.Player(c.ID)
	if !ok {
		c.SendError(ErrorCodeNotInRoom, "Not in this room.", ClientMessageNightAction)
		return
	}
	if actor.Role == nil || !actor.Alive {
		c.SendError(ErrorCodeInvalidPhase, "No night action available.", ClientMessageNightAction)
		return
	}

	// Night actions are secret: on success nothing is broadcast until
	// the night resolves.
	if err := actor.Role.NightAction(engine, p.Target); err != nil {
		c.SendError(errorCode(err), err.Error(), ClientMessageNightAction)
		return
	}

	log.Debug().Str("room", room.ID).Str("actor", c.ID).Str("role", actor.Role.Name).Msg("night action")
}

func (g *Gateway) handleEndNight(c *Client, p ClientEndNightPayload) {
	room, err := g.lookupRoom(p.RoomID)
	if err != nil {
		c.SendError(errorCode(err), "Room not found.", ClientMessageEndNight)
		return
	}

	room.Lock()
	defer room.Unlock()

	if err := room.RequireHost(c.ID); err != nil {
		c.SendError(errorCode(err), "Only the host can end the night.", ClientMessageEndNight)
		return
	}
	if err := room.Engine().ResolveNight(); err != nil {
		c.SendError(errorCode(err), err.Error(), ClientMessageEndNight)
		return
	}

	g.broadcastStatus(room, "Day breaks.")
	g.broadcastSnapshot(room)

	log.Info().Str("room", room.ID).Msg("night resolved")
}

// ---------------------------------------------------------------------
// Subscriptions and broadcast
// ---------------------------------------------------------------------

func (g *Gateway) subscribe(roomID string, c *Client) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.subs[roomID] = append(g.subs[roomID], c)
}

func (g *Gateway) unsubscribe(roomID string, c *Client) {
	g.mu.Lock()
	defer g.mu.Unlock()
	subs := g.subs[roomID]
	for i, sub := range subs {
		if sub == c {
			g.subs[roomID] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	if len(g.subs[roomID]) == 0 {
		delete(g.subs, roomID)
	}
}

// subscribers returns a copy of the room's subscriber list in join
// order. Callers hold the room lock, which serializes all changes to
// this room's entry, so the copy is consistent with the room state.
func (g *Gateway) subscribers(roomID string) []*Client {
	g.mu.Lock()
	defer g.mu.Unlock()
	subs := g.subs[roomID]
	out := make([]*Client, len(subs))
	copy(out, subs)
	return out
}

// broadcastStatus sends a status update to every subscriber. Must be
// called with the room lock held.
func (g *Gateway) broadcastStatus(room *Room, status string) {
	payload := ServerUpdatePayload{Kind: UpdateKindStatus, RoomID: room.ID, Status: status}
	for _, sub := range g.subscribers(room.ID) {
		sub.SendMessage(ServerMessageUpdate, payload)
	}
}

// broadcastSnapshot sends each subscriber its own redacted view of the
// room. Must be called with the room lock held.
func (g *Gateway) broadcastSnapshot(room *Room) {
	for _, sub := range g.subscribers(room.ID) {
		sub.SendMessage(ServerMessageUpdate, snapshotUpdate(room, sub.ID))
	}
}

func snapshotUpdate(room *Room, viewerID string) ServerUpdatePayload {
	engine := room.Engine()
	return ServerUpdatePayload{
		Kind:    UpdateKindSnapshot,
		RoomID:  room.ID,
		Phase:   engine.Phase().String(),
		Players: engine.SnapshotFor(viewerID),
	}
}

func errorCode(err error) ServerErrorCode {
	switch {
	case errors.Is(err, ErrRoleCountMismatch):
		return ErrorCodeRoleCountMismatch
	case errors.Is(err, ErrInvalidPhaseTransition):
		return ErrorCodeInvalidPhase
	case errors.Is(err, ErrRoomNotFound):
		return ErrorCodeRoomNotFound
	case errors.Is(err, ErrNotInRoom):
		return ErrorCodeNotInRoom
	case errors.Is(err, ErrNotHost):
		return ErrorCodeNotHost
	default:
		return ErrorCodeInvalidRequest
	}
}
