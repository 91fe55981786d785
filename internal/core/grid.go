package core

import "container/list"

// WaitingAgent records an agent parked (or about to depart) at a cell,
// used by the Manager's priority-1 displacement rule (spec §4.5,
// assignTask step 3).
type WaitingAgent struct {
	Timestamp int64
	AgentID   int
}

// Grid is the 4-connected grid map (spec §4.2, C2): blocked cells, parking
// cells, extra-cost cells, the shared reservation table, per-position
// waiting-agent stacks, and infinite-waiting reference counts.
type Grid struct {
	H, W      int
	blocked   []bool // row-major, len H*W
	parking   map[Pos]bool
	extraCost map[Pos]int64 // pos -> timestamp extra cost begins accruing

	Reservations *ReservationTable

	waiting         map[Pos]*list.List // stack of *WaitingAgent, most-recent at Back
	infiniteWaiting map[Pos]int        // reference count per parking position

	distCache map[[2]Pos]int // memoized getGraphDistance results
}

// NewGrid allocates an H x W grid with every cell free.
func NewGrid(h, w int) *Grid {
	return &Grid{
		H:               h,
		W:               w,
		blocked:         make([]bool, h*w),
		parking:         make(map[Pos]bool),
		extraCost:       make(map[Pos]int64),
		Reservations:    NewReservationTable(),
		waiting:         make(map[Pos]*list.List),
		infiniteWaiting: make(map[Pos]int),
		distCache:       make(map[[2]Pos]int),
	}
}

func (g *Grid) idx(p Pos) int { return p.Row*g.W + p.Col }

// InBounds reports whether p lies within the grid.
func (g *Grid) InBounds(p Pos) bool {
	return p.Row >= 0 && p.Row < g.H && p.Col >= 0 && p.Col < g.W
}

// Blocked reports whether p is an obstacle cell.
func (g *Grid) Blocked(p Pos) bool {
	if !g.InBounds(p) {
		return true
	}
	return g.blocked[g.idx(p)]
}

// SetBlocked marks p as blocked or free.
func (g *Grid) SetBlocked(p Pos, blocked bool) {
	if g.InBounds(p) {
		g.blocked[g.idx(p)] = blocked
	}
}

// SetParking marks p as a parking cell.
func (g *Grid) SetParking(p Pos) { g.parking[p] = true }

// IsParking reports whether p is a designated parking cell.
func (g *Grid) IsParking(p Pos) bool { return g.parking[p] }

// ParkingLocations returns all designated parking cells.
func (g *Grid) ParkingLocations() []Pos {
	out := make([]Pos, 0, len(g.parking))
	for p := range g.parking {
		out = append(out, p)
	}
	return out
}

// SetExtraCost marks p as accruing extra cost from timestamp ts onward.
func (g *Grid) SetExtraCost(p Pos, ts int64) { g.extraCost[p] = ts }

// GetExtraCostTime returns the timestamp at which p begins accruing extra
// cost, or -1 if p never does (spec §4.2).
func (g *Grid) GetExtraCostTime(p Pos) int64 {
	if ts, ok := g.extraCost[p]; ok {
		return ts
	}
	return -1
}

// GetPosByDirection returns the neighbor of pos in direction d and whether
// that neighbor is in bounds (spec §4.2). A blocked neighbor is still
// reported as a valid position; occupancy is a separate concern.
func (g *Grid) GetPosByDirection(pos Pos, d Direction) (Pos, bool) {
	n := pos.Move(d)
	return n, g.InBounds(n)
}

// GetDirectionByPos returns the cardinal direction from a to b, or None
// if they are not 4-adjacent (spec §4.2).
func (g *Grid) GetDirectionByPos(a, b Pos) Direction {
	return DirectionBetween(a, b)
}

// Neighbors returns the open (in-bounds, unblocked) 4-connected neighbors
// of pos, paired with the direction used to reach them.
func (g *Grid) Neighbors(pos Pos) []struct {
	Pos Pos
	Dir Direction
} {
	dirs := [4]Direction{Up, Right, Down, Left}
	out := make([]struct {
		Pos Pos
		Dir Direction
	}, 0, 4)
	for _, d := range dirs {
		n, ok := g.GetPosByDirection(pos, d)
		if ok && !g.Blocked(n) {
			out = append(out, struct {
				Pos Pos
				Dir Direction
			}{Pos: n, Dir: d})
		}
	}
	return out
}

// GetGraphDistance returns the obstacle-aware shortest-path distance
// between a and b on the static grid, memoized (spec §4.2 "Derived").
func (g *Grid) GetGraphDistance(a, b Pos) int {
	if a == b {
		return 0
	}
	key := [2]Pos{a, b}
	if d, ok := g.distCache[key]; ok {
		return d
	}
	d := g.bfsDistance(a, b)
	g.distCache[key] = d
	g.distCache[[2]Pos{b, a}] = d
	return d
}

func (g *Grid) bfsDistance(a, b Pos) int {
	if g.Blocked(a) || g.Blocked(b) {
		return -1
	}
	type qitem struct {
		p Pos
		d int
	}
	visited := map[Pos]bool{a: true}
	queue := []qitem{{p: a, d: 0}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.p == b {
			return cur.d
		}
		for _, nb := range g.Neighbors(cur.p) {
			if !visited[nb.Pos] {
				visited[nb.Pos] = true
				queue = append(queue, qitem{p: nb.Pos, d: cur.d + 1})
			}
		}
	}
	return -1
}

// AddNodeOccupied reserves [lo,hi) on pos's node occupancy.
func (g *Grid) AddNodeOccupied(pos Pos, lo, hi int64) { g.Reservations.AddNode(pos, lo, hi) }

// RemoveNodeOccupied releases [lo,hi) from pos's node occupancy.
func (g *Grid) RemoveNodeOccupied(pos Pos, lo, hi int64) { g.Reservations.RemoveNode(pos, lo, hi) }

// AddEdgeOccupied reserves [lo,hi) on the canonicalized (pos,dir) edge.
func (g *Grid) AddEdgeOccupied(pos Pos, dir Direction, lo, hi int64) {
	g.Reservations.AddEdge(pos, dir, lo, hi)
}

// RemoveEdgeOccupied releases [lo,hi) from the canonicalized (pos,dir)
// edge.
func (g *Grid) RemoveEdgeOccupied(pos Pos, dir Direction, lo, hi int64) {
	g.Reservations.RemoveEdge(pos, dir, lo, hi)
}

// IsOccupied reports whether pos's node occupancy (or, with dir != None,
// the canonicalized edge) intersects [lo,hi).
func (g *Grid) IsOccupied(pos Pos, dir Direction, lo, hi int64) bool {
	if dir == None {
		return g.Reservations.NodeIntersects(pos, lo, hi)
	}
	return g.Reservations.EdgeIntersects(pos, dir, lo, hi)
}

// AddInfiniteWaiting increments the infinite-waiting reference count at
// pos and, on the 0->1 transition, installs a [from, Infinity) node
// constraint protecting a parked agent's cell indefinitely (spec §3
// global invariant, §4.2).
func (g *Grid) AddInfiniteWaiting(pos Pos, from int64) {
	g.AddInfiniteWaitingCount(pos, from, 1)
}

// AddInfiniteWaitingCount increments the reference count by count (spec
// §4.2 "addInfiniteWaiting(pos [, count])").
func (g *Grid) AddInfiniteWaitingCount(pos Pos, from int64, count int) {
	prev := g.infiniteWaiting[pos]
	g.infiniteWaiting[pos] = prev + count
	if prev == 0 && count > 0 {
		g.AddNodeOccupied(pos, from, Infinity)
	}
}

// RemoveInfiniteWaiting decrements the reference count at pos, removing
// the [from, Infinity) marker on the transition to 0, and returns the
// previous count (spec §4.2).
func (g *Grid) RemoveInfiniteWaiting(pos Pos, from int64) int {
	prev := g.infiniteWaiting[pos]
	if prev == 0 {
		return 0
	}
	g.infiniteWaiting[pos] = prev - 1
	if prev == 1 {
		delete(g.infiniteWaiting, pos)
		g.RemoveNodeOccupied(pos, from, Infinity)
	}
	return prev
}

// InfiniteWaitingCount returns the current reference count at pos.
func (g *Grid) InfiniteWaitingCount(pos Pos) int { return g.infiniteWaiting[pos] }

// AddWaitingAgent pushes (ts, agentID) onto pos's waiting stack.
func (g *Grid) AddWaitingAgent(pos Pos, ts int64, agentID int) {
	l, ok := g.waiting[pos]
	if !ok {
		l = list.New()
		g.waiting[pos] = l
	}
	l.PushBack(&WaitingAgent{Timestamp: ts, AgentID: agentID})
}

// RemoveWaitingAgent pops the most recently pushed waiting agent at pos,
// if one matches agentID; no-op otherwise.
func (g *Grid) RemoveWaitingAgent(pos Pos, agentID int) {
	l, ok := g.waiting[pos]
	if !ok {
		return
	}
	for e := l.Back(); e != nil; e = e.Prev() {
		if e.Value.(*WaitingAgent).AgentID == agentID {
			l.Remove(e)
			return
		}
	}
}

// GetLastWaitingAgent returns the most recently pushed waiting agent at
// pos, or (WaitingAgent{}, false) if none.
func (g *Grid) GetLastWaitingAgent(pos Pos) (WaitingAgent, bool) {
	l, ok := g.waiting[pos]
	if !ok || l.Len() == 0 {
		return WaitingAgent{}, false
	}
	return *l.Back().Value.(*WaitingAgent), true
}

// WaitingAgents returns a snapshot of the waiting stack at pos, oldest
// first, used by the Manager's priority-1 displacement scan.
func (g *Grid) WaitingAgents(pos Pos) []WaitingAgent {
	l, ok := g.waiting[pos]
	if !ok {
		return nil
	}
	out := make([]WaitingAgent, 0, l.Len())
	for e := l.Front(); e != nil; e = e.Next() {
		out = append(out, *e.Value.(*WaitingAgent))
	}
	return out
}
