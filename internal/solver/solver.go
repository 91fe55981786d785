package solver

import "github.com/elektrokombinacija/mapf-lifelong/internal/core"

// Algorithm selects between the two search variants (spec §4.4).
type Algorithm int

const (
	// WaitingAware is algorithmId=0: plain time-expanded A* with an
	// explicit wait-move heuristic.
	WaitingAware Algorithm = 0
	// SafeInterval is algorithmId=1: child-commitment search that
	// pre-reserves a target edge before committing to it.
	SafeInterval Algorithm = 1
)

// jointSearchBound caps the iteration count of the joint edge/node
// free-time search used by the safe-interval variant, guaranteeing
// termination on pathological occupancy patterns.
const jointSearchBound = 10000

// Solver is the single-agent, time-expanded path planner (spec §4.4,
// C4). It holds only read-only references into the grid's reservation
// table for the duration of one scenario; it never mutates the table.
type Solver struct {
	Grid        *core.Grid
	AlgorithmID Algorithm
	ExtraCostID float64

	scenario  *core.Scenario
	startTime int64
	deadline  float64

	open    *openList
	byCell  map[core.Pos]*cellIndex
	success *VirtualNode
	seq     int64
	failed  bool
}

// New builds a Solver bound to grid, with the given algorithm variant and
// extraCostId tolerance (spec §4.4, §4.5).
func New(grid *core.Grid, algorithm Algorithm, extraCostID float64) *Solver {
	return &Solver{Grid: grid, AlgorithmID: algorithm, ExtraCostID: extraCostID}
}

// InitScenario resets the search to start at scenario.Start() at
// startTime, with estimateTime < deadline as the admissibility cutoff
// (spec §4.4). If the start or end cell is blocked the search is marked
// failed; Step will never return a node.
func (s *Solver) InitScenario(scenario *core.Scenario, startTime int64, deadline float64) {
	s.scenario = scenario
	s.startTime = startTime
	s.deadline = deadline
	s.open = newOpenList(s.ExtraCostID)
	s.byCell = make(map[core.Pos]*cellIndex)
	s.success = nil
	s.seq = 0
	s.failed = false

	start, end := scenario.Start(), scenario.End()
	if s.Grid.Blocked(start) || s.Grid.Blocked(end) {
		s.failed = true
		return
	}
	if s.Grid.Reservations.NodeIntersects(start, startTime, startTime+1) {
		s.failed = true
		return
	}

	root := s.makeNode(nil, start, startTime, 0, 0, core.Pos{}, false)
	if root.EstimateTime >= s.deadline {
		s.failed = true
		return
	}
	s.pushOpen(root)
}

func (s *Solver) makeNode(parent *VirtualNode, pos core.Pos, leaveTime int64, checkpoint int, parentExtraCost float64, child core.Pos, hasChild bool) *VirtualNode {
	s.seq++
	h := float64(pos.Manhattan(s.scenario.GetEnd(checkpoint))) + s.scenario.GetDistance(checkpoint)
	extraCost := parentExtraCost
	if ts := s.Grid.GetExtraCostTime(pos); ts >= 0 && leaveTime >= ts {
		extraCost++
	}
	return &VirtualNode{
		Pos:          pos,
		LeaveTime:    leaveTime,
		Checkpoint:   checkpoint,
		ExtraCost:    extraCost,
		EstimateTime: float64(leaveTime) + h,
		Parent:       parent,
		Child:        child,
		HasChild:     hasChild,
		seq:          s.seq,
		heapIndex:    -1,
	}
}

func (s *Solver) cellIndexFor(pos core.Pos) *cellIndex {
	idx, ok := s.byCell[pos]
	if !ok {
		idx = &cellIndex{}
		s.byCell[pos] = idx
	}
	return idx
}

func (s *Solver) pushOpen(n *VirtualNode) {
	s.open.push(n)
	s.cellIndexFor(n.Pos).insert(n)
}

// Step performs one A* expansion and returns the popped VirtualNode, or
// nil if OPEN is empty (search exhausted). Callers drive it in a loop
// until Success() or exhaustion, bounded externally by a step cap (spec
// §4.4).
func (s *Solver) Step() *VirtualNode {
	if s.failed || s.success != nil {
		return nil
	}
	v := s.open.popMin()
	if v == nil {
		return nil
	}

	for v.Checkpoint < s.scenario.Size()-1 && v.Pos == s.scenario.GetEnd(v.Checkpoint) {
		v.Checkpoint++
	}
	if v.Pos == s.scenario.End() && v.Checkpoint == s.scenario.Size()-1 && !v.HasChild {
		s.success = v
		return v
	}

	if s.AlgorithmID == SafeInterval {
		s.expandSafeInterval(v)
	} else {
		s.expandWaitingAware(v)
	}
	return v
}

// Success reports whether a goal VirtualNode has been recorded.
func (s *Solver) Success() bool { return s.success != nil }

// ConstructPath walks parent pointers from the success node back to the
// start, returned start-first (spec §4.4). Safe-interval (variant B)
// child-commitment nodes (HasChild=true) are bookkeeping for a
// not-yet-arrived move, not a distinct waypoint, and are skipped.
func (s *Solver) ConstructPath() core.Path {
	if s.success == nil {
		return nil
	}
	var rev core.Path
	for n := s.success; n != nil; n = n.Parent {
		if n.HasChild {
			continue
		}
		rev = append(rev, core.PathNode{Pos: n.Pos, LeaveTime: n.LeaveTime})
	}
	path := make(core.Path, len(rev))
	for i, n := range rev {
		path[len(rev)-1-i] = n
	}
	return path
}

// Run drives Step in a loop up to maxStep times and returns the committed
// path, or nil if the search fails, exhausts OPEN, or exceeds the step
// cap (spec §4.4 failure semantics; used by the Manager's computePath).
func (s *Solver) Run(maxStep int) core.Path {
	if s.failed {
		return nil
	}
	for i := 0; i < maxStep; i++ {
		n := s.Step()
		if s.Success() {
			return s.ConstructPath()
		}
		if n == nil {
			return nil
		}
	}
	return nil
}

// IsOccupied is a thin query into the grid's reservation table (spec
// §4.4).
func (s *Solver) IsOccupied(pos core.Pos, dir core.Direction, lo, hi int64) bool {
	return s.Grid.IsOccupied(pos, dir, lo, hi)
}

// GetNearestParkingLocation returns, among parking cells not permanently
// blocked by an active infinite-waiting marker, the one minimizing graph
// distance to pos (spec §4.4).
func (s *Solver) GetNearestParkingLocation(pos core.Pos) (core.Pos, bool) {
	var best core.Pos
	bestDist := -1
	found := false
	for _, p := range s.Grid.ParkingLocations() {
		if s.Grid.IsOccupied(p, core.None, core.Infinity-1, core.Infinity) {
			continue
		}
		d := s.Grid.GetGraphDistance(pos, p)
		if d < 0 {
			continue
		}
		if !found || d < bestDist {
			found, bestDist, best = true, d, p
		}
	}
	return best, found
}

// expandWaitingAware is algorithmId=0 (spec §4.4, "Expansion — variant
// A").
func (s *Solver) expandWaitingAware(v *VirtualNode) {
	ckpt := v.Checkpoint
	waitFlag := false

	for _, nb := range s.Grid.Neighbors(v.Pos) {
		if v.Parent != nil && nb.Pos == v.Parent.Pos {
			continue
		}
		if hi, ok := s.Grid.Reservations.NodeLastUpperBound(nb.Pos); ok && hi > v.LeaveTime {
			waitFlag = true
		}
		if hi, ok := s.Grid.Reservations.EdgeLastUpperBound(v.Pos, nb.Dir); ok && hi > v.LeaveTime {
			waitFlag = true
		}

		arrival := v.LeaveTime + 1
		freeLo, freeHi := s.Grid.Reservations.NodeFreeCovering(nb.Pos, arrival, arrival+1)
		if freeLo == 0 && freeHi == 0 {
			continue
		}
		if s.Grid.Reservations.EdgeIntersects(v.Pos, nb.Dir, v.LeaveTime, arrival) {
			continue
		}

		idx := s.cellIndexFor(nb.Pos)
		if idx.dominates(freeLo, arrival, ckpt) {
			continue
		}
		purged := idx.purge(arrival, freeHi, ckpt)
		for _, p := range purged {
			s.open.remove(p)
		}

		child := s.makeNode(v, nb.Pos, arrival, ckpt, v.ExtraCost, core.Pos{}, false)
		if child.EstimateTime < s.deadline {
			s.pushOpen(child)
		}
	}

	if waitFlag && !s.Grid.Reservations.NodeIntersects(v.Pos, v.LeaveTime+1, v.LeaveTime+2) {
		idx := s.cellIndexFor(v.Pos)
		if !idx.dominates(v.LeaveTime+1, v.LeaveTime+1, ckpt) {
			waitNode := s.makeNode(v, v.Pos, v.LeaveTime+1, ckpt, v.ExtraCost, core.Pos{}, false)
			if waitNode.EstimateTime < s.deadline {
				s.pushOpen(waitNode)
			}
		}
	}
}

// firstFreeJoint returns the smallest t' >= from such that the edge
// (pos,dir) is free during [t', t'+1) and neighbor is free during
// [t'+1, t'+2) — the joint edge/node free-time search variant B's
// child-commitment phase needs (spec §4.4 "Expansion — variant B").
func (s *Solver) firstFreeJoint(pos core.Pos, dir core.Direction, neighbor core.Pos, from int64) int64 {
	t := from
	for i := 0; i < jointSearchBound; i++ {
		te := s.Grid.Reservations.EdgeFirstFreeFrom(pos, dir, t, 1)
		tn := s.Grid.Reservations.NodeFirstFreeFrom(neighbor, te+1, 1)
		if tn == te+1 {
			return te
		}
		t = tn - 1
		if t < te+1 {
			t = te + 1
		}
	}
	return t
}

// expandSafeInterval is algorithmId=1 (spec §4.4, "Expansion — variant
// B").
func (s *Solver) expandSafeInterval(v *VirtualNode) {
	ckpt := v.Checkpoint

	if !v.HasChild {
		for _, nb := range s.Grid.Neighbors(v.Pos) {
			if v.Parent != nil && nb.Pos == v.Parent.Pos {
				continue
			}
			newTime := s.firstFreeJoint(v.Pos, nb.Dir, nb.Pos, v.LeaveTime)
			if s.Grid.Reservations.NodeIntersects(v.Pos, v.LeaveTime, newTime+1) {
				continue
			}
			child := s.makeNode(v, v.Pos, newTime, ckpt, 0, nb.Pos, true)
			if child.EstimateTime >= s.deadline {
				continue
			}
			// No dominance check here: a child-carrying node is an
			// alternative commitment at v's own cell, not a candidate
			// competing with v under the step 3 rule (spec §4.4,
			// variant B phase 1 has no replaceNode call).
			s.pushOpen(child)
		}
		return
	}

	childPos := v.Child
	if hi, ok := s.Grid.Reservations.NodeLastUpperBound(childPos); ok && hi > v.LeaveTime+1 {
		dir := s.Grid.GetDirectionByPos(v.Pos, childPos)
		newTime := s.firstFreeJoint(v.Pos, dir, childPos, hi)
		if !s.Grid.Reservations.NodeIntersects(v.Pos, v.LeaveTime, newTime+1) {
			delayed := s.makeNode(v.Parent, v.Pos, newTime, ckpt, 0, childPos, true)
			if delayed.EstimateTime < s.deadline {
				s.pushOpen(delayed)
			}
		}
	}

	s.commitChild(v, childPos, ckpt)
}

// commitChild is the replace-or-insert routine shared with variant A
// (steps 3-5) but without the dominance check (needExamine=false, spec
// §4.4): a committed child always goes straight to purge-then-insert.
func (s *Solver) commitChild(v *VirtualNode, childPos core.Pos, ckpt int) {
	arrival := v.LeaveTime + 1
	freeLo, freeHi := s.Grid.Reservations.NodeFreeCovering(childPos, arrival, arrival+1)
	if freeLo == 0 && freeHi == 0 {
		return
	}
	idx := s.cellIndexFor(childPos)
	purged := idx.purge(arrival, freeHi, ckpt)
	for _, p := range purged {
		s.open.remove(p)
	}
	child := s.makeNode(v, childPos, arrival, ckpt, v.ExtraCost, core.Pos{}, false)
	if child.EstimateTime < s.deadline {
		s.pushOpen(child)
	}
}
