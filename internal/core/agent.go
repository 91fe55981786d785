package core

// PathNode is one step of a committed or tentative path (spec §3,
// "PathNode"). The agent occupies Pos during [arriveTime, LeaveTime+1);
// LeaveTime is the integer time at which it begins the move to the next
// node.
type PathNode struct {
	Pos       Pos
	LeaveTime int64
}

// Path is a PathNode sequence, start first.
type Path []PathNode

// Flexibility is a scored (agent, task) candidate (spec §3,
// "Flexibility"). Beta < 0 is the sentinel meaning no feasible plan was
// found for this pair.
type Flexibility struct {
	Beta          float64
	Path          Path
	Task          *Task
	OccupiedAgent int // NoAgent if the delivery cell is not currently held
}

// Agent is a fleet member with committed and tentative (parking) paths
// (spec §3, "Agent").
type Agent struct {
	ID int

	OriginPos     Pos // permanent home/parking cell
	ReservePos    Pos // cell currently protected by an infinite-waiting marker
	ReserveSince  int64
	CurrentPos    Pos
	LastTimeStamp int64

	Path         Path // committed, no longer revokable
	ReservedPath Path // tentative parking route

	// Flexibility holds the most recently computed Flexibility record per
	// task ID, reused by the Manager's skipFlag caching (spec §4.5).
	Flexibility map[int]*Flexibility
}

// NewAgent places an agent at start, with its reserve position equal to
// its origin (spec §3 global invariant: an un-dispatched agent's cell is
// itself the infinite-waiting marker).
func NewAgent(id int, start Pos) *Agent {
	return &Agent{
		ID:            id,
		OriginPos:     start,
		ReservePos:    start,
		CurrentPos:    start,
		LastTimeStamp: 0,
		Flexibility:   make(map[int]*Flexibility),
	}
}

// MaxTimestamp returns the highest LeaveTime among all committed path
// nodes, or LastTimeStamp if the path is empty.
func (a *Agent) MaxTimestamp() int64 {
	if len(a.Path) == 0 {
		return a.LastTimeStamp
	}
	return a.Path[len(a.Path)-1].LeaveTime
}
