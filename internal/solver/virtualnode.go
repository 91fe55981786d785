// Package solver implements the single-agent, time-expanded path planner
// (spec §4.4, C4): a waiting-aware A* and a safe-interval-style A*, both
// operating read-only against a shared interval reservation table.
package solver

import "github.com/elektrokombinacija/mapf-lifelong/internal/core"

// VirtualNode is one (position, time, checkpoint) search state, the unit
// of the OPEN/CLOSED lists (spec §3, "VirtualNode").
type VirtualNode struct {
	Pos          core.Pos
	LeaveTime    int64
	Checkpoint   int // index of the scenario segment currently being traveled
	ExtraCost    float64
	EstimateTime float64

	Parent   *VirtualNode
	Child    core.Pos
	HasChild bool // true in the safe-interval variant once a target edge is pre-committed

	IsOpen bool

	seq       int64 // insertion sequence: stable identity for tiebreaks
	heapIndex int   // position in the open-list heap, -1 when not queued
}
