package manager

import "github.com/elektrokombinacija/mapf-lifelong/internal/core"

// guard records reservation-table mutations in order and can replay their
// inverses to make a probe or a failed assignment invisible (spec §9's
// lift/restore discipline for the Manager's atomic commit/rollback).
type guard struct {
	table *core.ReservationTable
	grid  *core.Grid
	undo  []func()
}

func newGuard(grid *core.Grid) *guard {
	return &guard{table: grid.Reservations, grid: grid}
}

func (g *guard) addNode(pos core.Pos, lo, hi int64) {
	g.table.AddNode(pos, lo, hi)
	g.undo = append(g.undo, func() { g.table.RemoveNode(pos, lo, hi) })
}

func (g *guard) removeNode(pos core.Pos, lo, hi int64) {
	g.table.RemoveNode(pos, lo, hi)
	g.undo = append(g.undo, func() { g.table.AddNode(pos, lo, hi) })
}

func (g *guard) addEdge(pos core.Pos, dir core.Direction, lo, hi int64) {
	g.table.AddEdge(pos, dir, lo, hi)
	g.undo = append(g.undo, func() { g.table.RemoveEdge(pos, dir, lo, hi) })
}

func (g *guard) removeEdge(pos core.Pos, dir core.Direction, lo, hi int64) {
	g.table.RemoveEdge(pos, dir, lo, hi)
	g.undo = append(g.undo, func() { g.table.AddEdge(pos, dir, lo, hi) })
}

// addInfiniteWaiting and removeInfiniteWaiting mirror the grid's ref-counted
// parking marker, recording the exact inverse call.
func (g *guard) addInfiniteWaiting(pos core.Pos, from int64) {
	g.grid.AddInfiniteWaiting(pos, from)
	g.undo = append(g.undo, func() { g.grid.RemoveInfiniteWaiting(pos, from) })
}

func (g *guard) removeInfiniteWaiting(pos core.Pos, from int64) {
	g.grid.RemoveInfiniteWaiting(pos, from)
	g.undo = append(g.undo, func() { g.grid.AddInfiniteWaiting(pos, from) })
}

func (g *guard) addWaitingAgent(pos core.Pos, ts int64, agentID int) {
	g.grid.AddWaitingAgent(pos, ts, agentID)
	g.undo = append(g.undo, func() { g.grid.RemoveWaitingAgent(pos, agentID) })
}

func (g *guard) removeWaitingAgent(pos core.Pos, ts int64, agentID int) {
	g.grid.RemoveWaitingAgent(pos, agentID)
	g.undo = append(g.undo, func() { g.grid.AddWaitingAgent(pos, ts, agentID) })
}

// onUndo appends fn to the undo log directly, for callers that mutate a
// plain Go field (not the reservation table) alongside a guard-tracked
// change, so restore() unwinds both together in the same order.
func (g *guard) onUndo(fn func()) {
	g.undo = append(g.undo, fn)
}

// restore replays every recorded mutation's inverse, in reverse order,
// returning the table and grid to the state before this guard's first
// call. Safe to call multiple times; a no-op once restored or committed.
func (g *guard) restore() {
	for i := len(g.undo) - 1; i >= 0; i-- {
		g.undo[i]()
	}
	g.undo = nil
}

// commit discards the recorded undo log, making every mutation permanent.
func (g *guard) commit() {
	g.undo = nil
}
