package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGrid_NeighborsRespectBoundsAndBlocking(t *testing.T) {
	g := NewGrid(3, 3)
	g.SetBlocked(Pos{Row: 0, Col: 1}, true)

	nbs := g.Neighbors(Pos{Row: 0, Col: 0})
	require.Len(t, nbs, 1) // only Down is open; Up/Left are out of bounds, Right is blocked
	require.Equal(t, Pos{Row: 1, Col: 0}, nbs[0].Pos)
	require.Equal(t, Down, nbs[0].Dir)
}

func TestGrid_BlockedOutOfBounds(t *testing.T) {
	g := NewGrid(2, 2)
	require.True(t, g.Blocked(Pos{Row: -1, Col: 0}))
	require.True(t, g.Blocked(Pos{Row: 0, Col: 2}))
	require.False(t, g.Blocked(Pos{Row: 0, Col: 0}))
}

func TestGrid_IsParking(t *testing.T) {
	g := NewGrid(2, 2)
	p := Pos{Row: 1, Col: 1}
	require.False(t, g.IsParking(p))
	g.SetParking(p)
	require.True(t, g.IsParking(p))
	require.Equal(t, []Pos{p}, g.ParkingLocations())
}

func TestGrid_GetGraphDistance(t *testing.T) {
	g := NewGrid(1, 5)
	require.Equal(t, 4, g.GetGraphDistance(Pos{Row: 0, Col: 0}, Pos{Row: 0, Col: 4}))
	require.Equal(t, 0, g.GetGraphDistance(Pos{Row: 0, Col: 2}, Pos{Row: 0, Col: 2}))

	// Distances are memoized (see TestGrid_GetGraphDistanceIsMemoized), so
	// the blocked case uses a grid that has not been queried yet.
	walled := NewGrid(1, 5)
	walled.SetBlocked(Pos{Row: 0, Col: 2}, true)
	require.Equal(t, -1, walled.GetGraphDistance(Pos{Row: 0, Col: 0}, Pos{Row: 0, Col: 4}))
}

func TestGrid_GetGraphDistanceIsMemoized(t *testing.T) {
	g := NewGrid(1, 3)
	d1 := g.GetGraphDistance(Pos{Row: 0, Col: 0}, Pos{Row: 0, Col: 2})
	// Mutating the grid after the first call must not affect the cached
	// value - distCache is a point-in-time memo per spec §4.2 "Derived".
	g.SetBlocked(Pos{Row: 0, Col: 1}, true)
	d2 := g.GetGraphDistance(Pos{Row: 0, Col: 0}, Pos{Row: 0, Col: 2})
	require.Equal(t, d1, d2)
}

func TestGrid_NodeOccupancyRoundTrip(t *testing.T) {
	g := NewGrid(2, 2)
	p := Pos{Row: 0, Col: 0}
	require.False(t, g.IsOccupied(p, None, 0, 10))

	g.AddNodeOccupied(p, 5, 10)
	require.True(t, g.IsOccupied(p, None, 0, 10))
	require.False(t, g.IsOccupied(p, None, 10, 20))

	g.RemoveNodeOccupied(p, 5, 10)
	require.False(t, g.IsOccupied(p, None, 0, 10))
}

func TestGrid_EdgeOccupancyCanonicalizes(t *testing.T) {
	g := NewGrid(2, 2)
	a := Pos{Row: 0, Col: 0}

	g.AddEdgeOccupied(a, Right, 0, 5)
	// Same physical edge, opposite direction, must see the reservation.
	b := Pos{Row: 0, Col: 1}
	require.True(t, g.IsOccupied(b, Left, 0, 5))

	g.RemoveEdgeOccupied(a, Right, 0, 5)
	require.False(t, g.IsOccupied(b, Left, 0, 5))
}

func TestGrid_InfiniteWaitingRefCounting(t *testing.T) {
	g := NewGrid(1, 1)
	p := Pos{Row: 0, Col: 0}

	g.AddInfiniteWaiting(p, 10)
	require.Equal(t, 1, g.InfiniteWaitingCount(p))
	require.True(t, g.IsOccupied(p, None, 100, 101))

	g.AddInfiniteWaiting(p, 10)
	require.Equal(t, 2, g.InfiniteWaitingCount(p))

	prev := g.RemoveInfiniteWaiting(p, 10)
	require.Equal(t, 2, prev)
	require.Equal(t, 1, g.InfiniteWaitingCount(p))
	require.True(t, g.IsOccupied(p, None, 100, 101)) // still held by the remaining reference

	g.RemoveInfiniteWaiting(p, 10)
	require.Equal(t, 0, g.InfiniteWaitingCount(p))
	require.False(t, g.IsOccupied(p, None, 100, 101))
}

func TestGrid_WaitingAgentStack(t *testing.T) {
	g := NewGrid(1, 1)
	p := Pos{Row: 0, Col: 0}

	_, ok := g.GetLastWaitingAgent(p)
	require.False(t, ok)

	g.AddWaitingAgent(p, 1, 100)
	g.AddWaitingAgent(p, 2, 200)

	last, ok := g.GetLastWaitingAgent(p)
	require.True(t, ok)
	require.Equal(t, 200, last.AgentID)

	g.RemoveWaitingAgent(p, 200)
	last, ok = g.GetLastWaitingAgent(p)
	require.True(t, ok)
	require.Equal(t, 100, last.AgentID)

	all := g.WaitingAgents(p)
	require.Len(t, all, 1)
	require.Equal(t, 100, all[0].AgentID)
}

func TestGrid_ExtraCost(t *testing.T) {
	g := NewGrid(1, 1)
	p := Pos{Row: 0, Col: 0}
	require.Equal(t, int64(-1), g.GetExtraCostTime(p))
	g.SetExtraCost(p, 42)
	require.Equal(t, int64(42), g.GetExtraCostTime(p))
}
