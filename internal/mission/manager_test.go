package mission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager(t *testing.T) {
	f := newFixture()
	ppl := f.people("Alice", "Bob", "Carol")
	alice, bob, carol := ppl[0], ppl[1], ppl[2]

	low := f.mission(t, alice, 1, 1)
	high, err := NewMissionProject(f.svc, Params{Type: "rescue", Leader: bob, MinMembers: 1, MaxMembers: 1, Priority: 5})
	require.NoError(t, err)
	assert.Equal(t, "rescue", high.Name(), "name defaults to the type")

	mgr := NewManager()
	mgr.Add(low)
	mgr.Add(high)
	mgr.Add(low)

	missions := mgr.Missions()
	require.Len(t, missions, 2)
	assert.Equal(t, high.ID(), missions[0].ID())
	assert.Equal(t, low.ID(), missions[1].ID())

	got, ok := mgr.Get(low.ID())
	require.True(t, ok)
	assert.Equal(t, low.ID(), got.ID())

	require.NoError(t, low.SetSteps(nil))
	require.NoError(t, high.SetSteps(nil))

	assert.False(t, mgr.PerformMission(carol), "carol has no mission")
	carol.SetMissionID("msn_unknown")
	assert.False(t, mgr.PerformMission(carol))

	mgr.PerformMission(alice)
	assert.True(t, low.IsDone())
	assert.False(t, mgr.AllDone())

	pruned := mgr.Prune()
	require.Len(t, pruned, 1)
	assert.Equal(t, low.ID(), pruned[0].ID())
	_, ok = mgr.Get(low.ID())
	assert.False(t, ok)
	assert.Len(t, mgr.Missions(), 1)

	mgr.PerformMission(bob)
	assert.True(t, mgr.AllDone())
}
