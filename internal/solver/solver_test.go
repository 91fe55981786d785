package solver

import (
	"testing"

	"github.com/elektrokombinacija/mapf-lifelong/internal/core"
	"github.com/stretchr/testify/require"
)

func emptyGrid(h, w int) *core.Grid {
	return core.NewGrid(h, w)
}

// S1 — straight line, no conflict (spec §8).
func TestSolver_StraightLineNoConflict(t *testing.T) {
	g := emptyGrid(3, 7)
	sc := core.NewScenario(core.Pos{Row: 1, Col: 1}, core.Pos{Row: 1, Col: 5}, 4, 0)

	s := New(g, WaitingAware, 0)
	s.InitScenario(sc, 0, 100)
	path := s.Run(1000)
	require.NotNil(t, path)
	require.True(t, s.Success())

	want := core.Path{
		{Pos: core.Pos{Row: 1, Col: 1}, LeaveTime: 0},
		{Pos: core.Pos{Row: 1, Col: 2}, LeaveTime: 1},
		{Pos: core.Pos{Row: 1, Col: 3}, LeaveTime: 2},
		{Pos: core.Pos{Row: 1, Col: 4}, LeaveTime: 3},
		{Pos: core.Pos{Row: 1, Col: 5}, LeaveTime: 4},
	}
	require.Equal(t, want, path)
}

// S2 — wait to let another pass (spec §8): node (0,2) occupied [2,3).
func TestSolver_WaitForOccupiedNode(t *testing.T) {
	g := emptyGrid(1, 5)
	g.AddNodeOccupied(core.Pos{Row: 0, Col: 2}, 2, 3)
	sc := core.NewScenario(core.Pos{Row: 0, Col: 0}, core.Pos{Row: 0, Col: 4}, 4, 0)

	s := New(g, WaitingAware, 0)
	s.InitScenario(sc, 0, 100)
	path := s.Run(10000)
	require.NotNil(t, path)
	require.Equal(t, int64(5), path[len(path)-1].LeaveTime)
}

// S3 — edge swap prevention (spec §8): edge (0,1)->(0,0) occupied [0,1).
func TestSolver_EdgeSwapPrevention(t *testing.T) {
	g := emptyGrid(1, 2)
	g.AddEdgeOccupied(core.Pos{Row: 0, Col: 1}, core.Left, 0, 1)
	sc := core.NewScenario(core.Pos{Row: 0, Col: 0}, core.Pos{Row: 0, Col: 1}, 1, 0)

	s := New(g, WaitingAware, 0)
	s.InitScenario(sc, 0, 100)
	path := s.Run(10000)
	require.NotNil(t, path)
	require.Equal(t, int64(2), path[len(path)-1].LeaveTime)
}

// Solver soundness (spec §8): every step is a wait or 4-adjacent move,
// strictly increasing in time, and respects node/edge freeness.
func assertSound(t *testing.T, g *core.Grid, path core.Path) {
	t.Helper()
	for i := 0; i+1 < len(path); i++ {
		a, b := path[i], path[i+1]
		require.Less(t, a.LeaveTime, b.LeaveTime)
		if a.Pos != b.Pos {
			require.Equal(t, 1, a.Pos.Manhattan(b.Pos), "must be 4-adjacent or equal")
			dir := g.GetDirectionByPos(a.Pos, b.Pos)
			require.NotEqual(t, core.None, dir)
		}
	}
}

func TestSolver_SoundnessBothVariants(t *testing.T) {
	for _, algo := range []Algorithm{WaitingAware, SafeInterval} {
		g := emptyGrid(5, 5)
		sc := core.NewScenario(core.Pos{Row: 0, Col: 0}, core.Pos{Row: 4, Col: 4}, 8, 0)
		s := New(g, algo, 0)
		s.InitScenario(sc, 0, 100)
		path := s.Run(20000)
		require.NotNil(t, path, "algorithm %d", algo)
		assertSound(t, g, path)
	}
}

func TestSolver_BlockedStartFails(t *testing.T) {
	g := emptyGrid(3, 3)
	g.SetBlocked(core.Pos{Row: 0, Col: 0}, true)
	sc := core.NewScenario(core.Pos{Row: 0, Col: 0}, core.Pos{Row: 2, Col: 2}, 4, 0)
	s := New(g, WaitingAware, 0)
	s.InitScenario(sc, 0, 100)
	require.Nil(t, s.Run(100))
}

func TestSolver_DeadlineCutoffFails(t *testing.T) {
	g := emptyGrid(1, 10)
	sc := core.NewScenario(core.Pos{Row: 0, Col: 0}, core.Pos{Row: 0, Col: 9}, 9, 0)
	s := New(g, WaitingAware, 0)
	s.InitScenario(sc, 0, 3) // deadline far shorter than the 9-step trip
	require.Nil(t, s.Run(1000))
}
