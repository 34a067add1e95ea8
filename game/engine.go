package game

import (
	"fmt"
	"math/rand"
	"time"
)

// Phase is the current stage of the turn-based game.
type Phase int

const (
	PhaseWaiting Phase = iota
	PhaseNight
	PhaseDay
)

func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhaseNight:
		return "night"
	case PhaseDay:
		return "day"
	default:
		return "unknown"
	}
}

// Participant is one player's record inside an engine. Role stays nil
// until AssignRoles runs.
type Participant struct {
	ID    string
	Name  string
	Role  *Role
	Alive bool
}

// PlayerState is the broadcast-safe projection of a Participant.
// Role is nil when unassigned or redacted for the viewer.
type PlayerState struct {
	ID    string  `json:"id"`
	Role  *string `json:"role"`
	Alive bool    `json:"alive"`
}

// Engine owns one room's game state: the phase machine, the player list
// and the night save/kill resolution. It is not safe for concurrent use;
// callers serialize access per room (the gateway holds the room lock).
//
// Phase alternates Waiting -> Night -> Day -> Night -> ... Win-condition
// detection and re-entry into Waiting are left to the caller.
type Engine struct {
	phase   Phase
	players []*Participant
	// saved and pending are per-night and cleared by ResolveNight;
	// killed is the cumulative dead log.
	saved   map[string]struct{}
	pending map[string]struct{}
	killed  map[string]struct{}
	rng     *rand.Rand
}

// NewEngine creates an engine in the Waiting phase.
func NewEngine() *Engine {
	return NewEngineWithRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewEngineWithRand creates an engine with an injected randomness source,
// so role assignment can be made deterministic in tests.
func NewEngineWithRand(rng *rand.Rand) *Engine {
	return &Engine{
		phase:   PhaseWaiting,
		saved:   make(map[string]struct{}),
		pending: make(map[string]struct{}),
		killed:  make(map[string]struct{}),
		rng:     rng,
	}
}

// Phase returns the current phase.
func (e *Engine) Phase() Phase {
	return e.phase
}

// AddPlayer appends a participant with no role, alive. Joining an
// already-assigned game would leave a role gap, so it is only legal
// while waiting.
func (e *Engine) AddPlayer(id, name string) error {
	if e.phase != PhaseWaiting {
		return fmt.Errorf("%w: add player during %s", ErrInvalidPhaseTransition, e.phase)
	}
	e.players = append(e.players, &Participant{ID: id, Name: name, Alive: true})
	return nil
}

// RemovePlayer deletes the participant in any phase. This models a
// disconnect: the player vanishes from subsequent snapshots rather than
// being counted as a death.
func (e *Engine) RemovePlayer(id string) {
	for i, p := range e.players {
		if p.ID == id {
			e.players = append(e.players[:i], e.players[i+1:]...)
			return
		}
	}
}

// PlayerCount returns the number of participants.
func (e *Engine) PlayerCount() int {
	return len(e.players)
}

// Player returns the participant with the given id, if present.
func (e *Engine) Player(id string) (*Participant, bool) {
	for _, p := range e.players {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// AssignRoles shuffles roles uniformly and assigns them positionally to
// the current player order. The list must match the player count exactly;
// on mismatch no player is mutated.
func (e *Engine) AssignRoles(roles []Role) error {
	if e.phase != PhaseWaiting {
		return fmt.Errorf("%w: assign roles during %s", ErrInvalidPhaseTransition, e.phase)
	}
	if len(roles) != len(e.players) {
		return fmt.Errorf("%w: %d roles for %d players", ErrRoleCountMismatch, len(roles), len(e.players))
	}
	shuffled := make([]Role, len(roles))
	copy(shuffled, roles)
	e.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	for i, p := range e.players {
		role := shuffled[i]
		p.Role = &role
	}
	return nil
}

// BeginNight advances Waiting or Day to Night.
func (e *Engine) BeginNight() error {
	if e.phase == PhaseNight {
		return fmt.Errorf("%w: begin night during %s", ErrInvalidPhaseTransition, e.phase)
	}
	e.phase = PhaseNight
	return nil
}

// SavePlayer records targetID as protected for the current night.
// Idempotent; legal only during Night.
func (e *Engine) SavePlayer(targetID string) error {
	if e.phase != PhaseNight {
		return fmt.Errorf("%w: save during %s", ErrInvalidPhaseTransition, e.phase)
	}
	e.saved[targetID] = struct{}{}
	return nil
}

// KillPlayer records a kill against targetID for the current night.
// Unknown or already-dead targets are a no-op, as is a repeated kill.
// The kill does not apply until ResolveNight, so a save recorded in the
// same night protects the target no matter which call came first.
// Legal only during Night.
func (e *Engine) KillPlayer(targetID string) error {
	if e.phase != PhaseNight {
		return fmt.Errorf("%w: kill during %s", ErrInvalidPhaseTransition, e.phase)
	}
	p, ok := e.Player(targetID)
	if !ok || !p.Alive {
		return nil
	}
	e.pending[targetID] = struct{}{}
	return nil
}

// ResolveNight ends the night: pending kills are applied with saves
// checked first, both per-night sets are cleared for the next cycle and
// the phase advances to Day. The transition is explicit; the external
// orchestrator (timer, all-actions-received) decides when to call it.
func (e *Engine) ResolveNight() error {
	if e.phase != PhaseNight {
		return fmt.Errorf("%w: resolve night during %s", ErrInvalidPhaseTransition, e.phase)
	}
	for targetID := range e.pending {
		if _, protected := e.saved[targetID]; protected {
			continue
		}
		if p, ok := e.Player(targetID); ok && p.Alive {
			p.Alive = false
			e.killed[targetID] = struct{}{}
		}
	}
	e.pending = make(map[string]struct{})
	e.saved = make(map[string]struct{})
	e.phase = PhaseDay
	return nil
}

// Snapshot returns the full projection with every role visible. Internal
// use only; anything sent to a client goes through SnapshotFor.
func (e *Engine) Snapshot() []PlayerState {
	states := make([]PlayerState, 0, len(e.players))
	for _, p := range e.players {
		states = append(states, PlayerState{ID: p.ID, Role: roleName(p.Role), Alive: p.Alive})
	}
	return states
}

// SnapshotFor returns the projection as seen by viewerID: the viewer's
// own role and the roles of dead players are visible, living opponents'
// roles are redacted.
func (e *Engine) SnapshotFor(viewerID string) []PlayerState {
	states := make([]PlayerState, 0, len(e.players))
	for _, p := range e.players {
		state := PlayerState{ID: p.ID, Alive: p.Alive}
		if p.ID == viewerID || !p.Alive {
			state.Role = roleName(p.Role)
		}
		states = append(states, state)
	}
	return states
}

func roleName(r *Role) *string {
	if r == nil {
		return nil
	}
	name := r.Name
	return &name
}
