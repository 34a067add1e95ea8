package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoom_JoinLeave(t *testing.T) {
	t.Parallel()
	r := NewRoom("5")

	already, err := r.Join("A", "alice")
	require.NoError(t, err)
	assert.False(t, already)
	assert.Equal(t, "A", r.HostID())

	already, err = r.Join("B", "bob")
	require.NoError(t, err)
	assert.False(t, already)

	// Duplicate join is an idempotent no-op.
	already, err = r.Join("A", "alice")
	require.NoError(t, err)
	assert.True(t, already)
	assert.Equal(t, []string{"A", "B"}, r.MemberIDs())

	empty, err := r.Leave("A")
	require.NoError(t, err)
	assert.False(t, empty)
	assert.Equal(t, "B", r.HostID()) // host migrates in join order

	empty, err = r.Leave("nobody")
	assert.ErrorIs(t, err, ErrNotInRoom)
	assert.False(t, empty)

	empty, err = r.Leave("B")
	require.NoError(t, err)
	assert.True(t, empty)
}

func TestRoom_RequireHost(t *testing.T) {
	t.Parallel()
	r := NewRoom("5")
	for _, id := range []string{"A", "B"} {
		_, err := r.Join(id, id)
		require.NoError(t, err)
	}

	require.NoError(t, r.RequireHost("A"))
	assert.ErrorIs(t, r.RequireHost("B"), ErrNotHost)

	_, err := r.Leave("A")
	require.NoError(t, err)
	require.NoError(t, r.RequireHost("B"))
	assert.ErrorIs(t, r.RequireHost("A"), ErrNotHost)
}

func TestRoom_JoinAfterStartRejected(t *testing.T) {
	t.Parallel()
	r := NewRoom("5")
	_, err := r.Join("A", "alice")
	require.NoError(t, err)
	require.NoError(t, r.Engine().BeginNight())

	_, err = r.Join("B", "bob")
	assert.ErrorIs(t, err, ErrInvalidPhaseTransition)
	assert.Equal(t, []string{"A"}, r.MemberIDs())
}

func TestRoom_LeaveDuringGame(t *testing.T) {
	t.Parallel()
	r := NewRoom("5")
	for _, id := range []string{"A", "B", "C"} {
		_, err := r.Join(id, id)
		require.NoError(t, err)
	}
	require.NoError(t, r.Engine().AssignRoles(RolesFor(3)))
	require.NoError(t, r.Engine().BeginNight())

	empty, err := r.Leave("B")
	require.NoError(t, err)
	assert.False(t, empty)
	assert.Equal(t, []string{"A", "C"}, r.MemberIDs())
}
