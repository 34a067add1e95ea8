package game

// Alignment is the faction a role wins with.
type Alignment string

const (
	AlignmentTown     Alignment = "town"
	AlignmentMafia    Alignment = "mafia"
	AlignmentVillager Alignment = "villager"
)

// RoleKind enumerates the closed set of role variants.
type RoleKind int

const (
	RoleVillager RoleKind = iota
	RoleDoctor
	RoleMafioso
)

// Role is an immutable variant shared read-only by all rooms.
type Role struct {
	Kind      RoleKind
	Name      string
	Alignment Alignment
}

var (
	Villager = Role{Kind: RoleVillager, Name: "Villager", Alignment: AlignmentVillager}
	Doctor   = Role{Kind: RoleDoctor, Name: "Doctor", Alignment: AlignmentTown}
	Mafioso  = Role{Kind: RoleMafioso, Name: "Mafioso", Alignment: AlignmentMafia}
)

// nightActions maps each role to the engine operation its night action
// routes to. Roles never mutate engine state directly; the engine stays
// the sole owner of game state. A nil entry is a no-op night action.
var nightActions = map[RoleKind]func(*Engine, string) error{
	RoleDoctor:  (*Engine).SavePlayer,
	RoleMafioso: (*Engine).KillPlayer,
}

// NightAction applies the role's night effect to targetID through the
// engine's public operations. Adding a role means adding a variant above
// and an entry to nightActions; the engine contract does not change.
func (r Role) NightAction(e *Engine, targetID string) error {
	act, ok := nightActions[r.Kind]
	if !ok {
		return nil
	}
	return act(e, targetID)
}

// RolesFor builds the role list for a game of n players: one Mafioso,
// one Doctor once there are at least three players, Villagers for the rest.
func RolesFor(n int) []Role {
	roles := make([]Role, 0, n)
	if n >= 1 {
		roles = append(roles, Mafioso)
	}
	if n >= 3 {
		roles = append(roles, Doctor)
	}
	for len(roles) < n {
		roles = append(roles, Villager)
	}
	return roles
}
