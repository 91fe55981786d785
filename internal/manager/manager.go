package manager

import (
	"sort"

	"github.com/elektrokombinacija/mapf-lifelong/internal/core"
	"github.com/elektrokombinacija/mapf-lifelong/internal/solver"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// relocationSlack bounds the deadline given to a displaced agent's reroute
// to an alternate parking cell; displacement is housekeeping, not a timed
// delivery, so a generous constant margin is enough to let the solver find
// a detour around any transient congestion.
const relocationSlack = 1000

// Manager assigns released tasks to agents and commits the resulting
// paths into the shared reservation table (spec §4.5, C5).
type Manager struct {
	Grid   *core.Grid
	Tasks  []*core.Task
	Config Config
	Logger *zap.SugaredLogger

	agents   []*core.Agent
	byID     map[int]*core.Agent
	parkedAt map[core.Pos]int // parking cell -> agent ID currently resting there

	// agentMaxTimestamp/agentMaxTimestampAgent track the busiest agent seen
	// so far, used by taskBoundSkip's branch-and-bound pruning (spec §4.5
	// "taskBoundFlag"; Manager.cpp:239-249, 677-679).
	agentMaxTimestamp      int64
	agentMaxTimestampAgent int
}

// New builds a Manager over grid/agents/tasks, installing each agent's
// initial infinite-waiting marker at its starting ReservePos (spec §3
// global invariant).
func New(grid *core.Grid, agents []*core.Agent, tasks []*core.Task, logger *zap.SugaredLogger, opts ...Option) *Manager {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	m := &Manager{
		Grid:     grid,
		Tasks:    tasks,
		Config:   cfg,
		Logger:   logger,
		agents:   agents,
		byID:     make(map[int]*core.Agent, len(agents)),
		parkedAt: make(map[core.Pos]int, len(agents)),
	}
	for _, a := range agents {
		m.byID[a.ID] = a
		m.parkedAt[a.ReservePos] = a.ID
		grid.AddInfiniteWaiting(a.ReservePos, a.ReserveSince)
		grid.AddWaitingAgent(a.ReservePos, a.ReserveSince, a.ID)
	}
	return m
}

func (m *Manager) agentByID(id int) *core.Agent { return m.byID[id] }

func (m *Manager) pendingTasks() []*core.Task {
	out := make([]*core.Task, 0, len(m.Tasks))
	for _, t := range m.Tasks {
		if t.Released && !t.Assigned && !t.Failed {
			out = append(out, t)
		}
	}
	return out
}

// deadlineAbs returns the absolute time by which task must be completed:
// the task's (1+Phi)*Optimal completion-time bound.
func (m *Manager) deadlineAbs(task *core.Task) float64 {
	return task.Deadline(m.Config.Phi)
}

// computePath plans an agent's route to pick up and deliver task, either
// as one multi-waypoint search (MultiLabelFlag) or as two sequential
// single-leg searches spliced together (spec §4.5 "computePath").
func (m *Manager) computePath(agent *core.Agent, task *core.Task) core.Path {
	startTime := agent.LastTimeStamp
	if task.StartTime() > startTime {
		startTime = task.StartTime()
	}
	deadline := m.deadlineAbs(task)
	if m.Config.DeadlineBoundFlag && float64(startTime) >= deadline {
		return nil
	}

	if m.Config.MultiLabelFlag {
		pickupDist := float64(m.Grid.GetGraphDistance(agent.CurrentPos, task.Pickup()))
		sc := core.NewScenarioFromWaypoints(
			[]core.Pos{agent.CurrentPos, task.Pickup(), task.Delivery()},
			[]float64{pickupDist, task.Optimal},
			startTime,
		)
		sv := solver.New(m.Grid, m.Config.Algorithm, m.Config.ExtraCostID)
		sv.InitScenario(sc, startTime, deadline)
		return sv.Run(m.Config.MaxStep)
	}

	pickupDist := float64(m.Grid.GetGraphDistance(agent.CurrentPos, task.Pickup()))
	sc1 := core.NewScenario(agent.CurrentPos, task.Pickup(), pickupDist, startTime)
	sv1 := solver.New(m.Grid, m.Config.Algorithm, m.Config.ExtraCostID)
	sv1.InitScenario(sc1, startTime, deadline)
	leg1 := sv1.Run(m.Config.MaxStep)
	if leg1 == nil {
		return nil
	}

	mid := leg1[len(leg1)-1].LeaveTime
	sc2 := core.NewScenario(task.Pickup(), task.Delivery(), task.Optimal, mid)
	sv2 := solver.New(m.Grid, m.Config.Algorithm, m.Config.ExtraCostID)
	sv2.InitScenario(sc2, mid, deadline)
	leg2 := sv2.Run(m.Config.MaxStep)
	if leg2 == nil {
		return nil
	}

	full := make(core.Path, 0, len(leg1)+len(leg2)-1)
	full = append(full, leg1...)
	full = append(full, leg2[1:]...) // leg2[0] duplicates leg1's last node
	return full
}

// computeFlex scores one (agent, task) pair (spec §3 "Flexibility").
func (m *Manager) computeFlex(agent *core.Agent, task *core.Task) *core.Flexibility {
	path := m.computePath(agent, task)
	if path == nil {
		return &core.Flexibility{Beta: -1, Task: task, OccupiedAgent: core.NoAgent}
	}
	completion := path[len(path)-1].LeaveTime
	beta := m.deadlineAbs(task) - float64(completion)
	occ := core.NoAgent
	if holder, ok := m.parkedAt[task.Delivery()]; ok {
		occ = holder
	}
	return &core.Flexibility{Beta: beta, Path: path, Task: task, OccupiedAgent: occ}
}

// taskBoundSkip reports whether task can be skipped for this round without
// scoring a single agent: TaskBoundFlag prunes a task once even the
// busiest agent's minimum possible travel time can no longer beat the
// best beta already recorded for it (spec §4.5 "taskBoundFlag";
// Manager.cpp:239-249).
func (m *Manager) taskBoundSkip(task *core.Task) bool {
	if !m.Config.TaskBoundFlag || task.MaxBeta < 0 || m.agentMaxTimestamp <= 0 {
		return false
	}
	agent := m.agentByID(m.agentMaxTimestampAgent)
	if agent == nil {
		return false
	}
	toPickup := m.Grid.GetGraphDistance(agent.CurrentPos, task.Pickup())
	toDelivery := m.Grid.GetGraphDistance(task.Pickup(), task.Delivery())
	if toPickup < 0 || toDelivery < 0 {
		return false
	}
	minTime := float64(toPickup + toDelivery)
	return float64(m.agentMaxTimestamp)+minTime >= m.deadlineAbs(task)-task.MaxBeta
}

// computeAgentForTask scores every non-excluded agent against task and
// returns the highest-flexibility feasible pair (spec §4.5
// "computeAgentForTask"). Each freshly-computed probe lifts the agent's
// own occupancy (its pending ReservedPath, or else its node at CurrentPos
// for LastTimeStamp) and its resting marker for the duration of the call
// and restores them before moving to the next agent — a pure read with no
// visible side effect on the shared table. SkipFlag reuses a prior round's cached Flexibility
// instead of recomputing it, as long as it still doesn't conflict with the
// current reservation table (Manager.cpp:268-302's cache-reuse pass,
// simplified to a per-agent check instead of a separate bulk pass).
// excluded lets RetryFlag's re-selection loop rule out an agent that just
// failed to commit (Manager.cpp:778-851's selectTask).
func (m *Manager) computeAgentForTask(task *core.Task, excluded map[int]bool) (int, *core.Flexibility) {
	if m.taskBoundSkip(task) {
		return core.NoAgent, nil
	}

	bestAgent := core.NoAgent
	var bestFlex *core.Flexibility

	candidates := m.agents
	if m.Config.SortFlag {
		candidates = append([]*core.Agent(nil), m.agents...)
		sort.Slice(candidates, func(i, j int) bool {
			di := m.Grid.GetGraphDistance(candidates[i].CurrentPos, task.Pickup())
			dj := m.Grid.GetGraphDistance(candidates[j].CurrentPos, task.Pickup())
			return di < dj
		})
	}

	for _, agent := range candidates {
		if excluded[agent.ID] {
			continue
		}

		var flex *core.Flexibility
		if m.Config.SkipFlag {
			if cached, ok := agent.Flexibility[task.ID]; ok && cached.Beta >= 0 && !m.isPathConflict(cached.Path) {
				flex = cached
			}
		}
		if flex == nil {
			g := newGuard(m.Grid)
			if len(agent.ReservedPath) > 0 {
				removeAgentPathConstraints(g, agent.ReservedPath)
			} else if m.Grid.IsOccupied(agent.CurrentPos, core.None, agent.LastTimeStamp, agent.LastTimeStamp+1) {
				g.removeNode(agent.CurrentPos, agent.LastTimeStamp, agent.LastTimeStamp+1)
			}
			g.removeInfiniteWaiting(agent.ReservePos, agent.ReserveSince)
			flex = m.computeFlex(agent, task)
			g.restore()
			agent.Flexibility[task.ID] = flex
		}

		if flex.Beta < 0 {
			continue
		}
		if m.Config.OccupiedFlag && flex.OccupiedAgent != core.NoAgent && flex.OccupiedAgent != agent.ID {
			continue
		}
		if bestFlex == nil || flex.Beta > bestFlex.Beta {
			bestAgent, bestFlex = agent.ID, flex
			if m.Config.BoundFlag && m.Config.SortFlag {
				break // sorted order already tries the likeliest agent first
			}
		}
	}
	if bestFlex != nil {
		task.MaxBeta, task.MaxBetaAgent = bestFlex.Beta, bestAgent
	}
	return bestAgent, bestFlex
}

type nodeConstraint struct {
	Pos    core.Pos
	Lo, Hi int64
}

type edgeConstraint struct {
	Pos    core.Pos
	Dir    core.Direction
	Lo, Hi int64
}

// generateConstraints turns a committed path into the node and edge
// occupancy ranges it must reserve (spec §3 occupancy semantics:
// "agent occupies pos during [arriveTime, leaveTime+1)").
func generateConstraints(path core.Path) ([]nodeConstraint, []edgeConstraint) {
	nodes := make([]nodeConstraint, 0, len(path))
	var edges []edgeConstraint
	for i := range path {
		arrive := path[i].LeaveTime
		if i > 0 {
			arrive = path[i-1].LeaveTime + 1
		}
		nodes = append(nodes, nodeConstraint{Pos: path[i].Pos, Lo: arrive, Hi: path[i].LeaveTime + 1})
		if i+1 < len(path) && path[i].Pos != path[i+1].Pos {
			dir := core.DirectionBetween(path[i].Pos, path[i+1].Pos)
			edges = append(edges, edgeConstraint{Pos: path[i].Pos, Dir: dir, Lo: path[i].LeaveTime, Hi: path[i].LeaveTime + 1})
		}
	}
	return nodes, edges
}

// isPathConflict reports whether path intersects anything already
// reserved in the grid's table.
func (m *Manager) isPathConflict(path core.Path) bool {
	nodes, edges := generateConstraints(path)
	for _, nc := range nodes {
		if m.Grid.Reservations.NodeIntersects(nc.Pos, nc.Lo, nc.Hi) {
			return true
		}
	}
	for _, ec := range edges {
		if m.Grid.Reservations.EdgeIntersects(ec.Pos, ec.Dir, ec.Lo, ec.Hi) {
			return true
		}
	}
	return false
}

// addAgentPathConstraints records path's node and edge occupancy through
// g, failing (and leaving g untouched beyond what it already recorded) if
// anything in path now conflicts with the table — it can, since the
// table may have changed between the probe that produced path and this
// commit attempt.
func addAgentPathConstraints(g *guard, grid *core.Grid, path core.Path) bool {
	nodes, edges := generateConstraints(path)
	for _, nc := range nodes {
		if grid.Reservations.NodeIntersects(nc.Pos, nc.Lo, nc.Hi) {
			return false
		}
	}
	for _, ec := range edges {
		if grid.Reservations.EdgeIntersects(ec.Pos, ec.Dir, ec.Lo, ec.Hi) {
			return false
		}
	}
	for _, nc := range nodes {
		g.addNode(nc.Pos, nc.Lo, nc.Hi)
	}
	for _, ec := range edges {
		g.addEdge(ec.Pos, ec.Dir, ec.Lo, ec.Hi)
	}
	return true
}

// removeAgentPathConstraints is addAgentPathConstraints' inverse, used
// when a committed path must later be revoked (spec §4.5 "recalculateFlag"
// replanning path).
func removeAgentPathConstraints(g *guard, path core.Path) {
	nodes, edges := generateConstraints(path)
	for _, nc := range nodes {
		g.removeNode(nc.Pos, nc.Lo, nc.Hi)
	}
	for _, ec := range edges {
		g.removeEdge(ec.Pos, ec.Dir, ec.Lo, ec.Hi)
	}
}

// reservePath lifts agent's own resting marker, stages path's occupancy
// through g, then immediately restores the same marker — a pure
// lift-and-restore around the new path's reservation (Manager.cpp:557-563).
// Whether the marker actually moves elsewhere is decided separately, by
// reservingAgents/relocateAgent.
func (m *Manager) reservePath(g *guard, agent *core.Agent, path core.Path) bool {
	pos, since := agent.ReservePos, agent.ReserveSince
	g.removeInfiniteWaiting(pos, since)
	if !addAgentPathConstraints(g, m.Grid, path) {
		return false
	}
	g.addInfiniteWaiting(pos, since)
	return true
}

// relocateAgent moves holder's parking reservation off its current cell
// and onto a new one — ReserveNearestFlag picks the nearest free parking
// location via the solver, otherwise the agent returns to its permanent
// OriginPos (spec §4.5 "reserveNearestFlag"; Manager.cpp:494-540's
// reservePath). The move itself is staged into holder.ReservedPath, not
// holder.Path: it becomes visible only once ApplyReservedPath runs, so a
// holder relocated more than once before that point simply supersedes its
// own pending route rather than accumulating dangling segments.
func (m *Manager) relocateAgent(g *guard, holderID int) bool {
	holder := m.agentByID(holderID)
	if holder == nil {
		return false
	}

	if len(holder.ReservedPath) > 0 {
		stale := holder.ReservedPath
		removeAgentPathConstraints(g, stale)
		g.onUndo(func() { holder.ReservedPath = stale })
		holder.ReservedPath = nil
	} else if m.Grid.IsOccupied(holder.CurrentPos, core.None, holder.LastTimeStamp, holder.LastTimeStamp+1) {
		g.removeNode(holder.CurrentPos, holder.LastTimeStamp, holder.LastTimeStamp+1)
	}

	oldReserve, oldSince := holder.ReservePos, holder.ReserveSince
	g.removeInfiniteWaiting(oldReserve, oldSince)

	var target core.Pos
	found := false
	if m.Config.ReserveNearestFlag {
		sv := solver.New(m.Grid, m.Config.Algorithm, m.Config.ExtraCostID)
		target, found = sv.GetNearestParkingLocation(holder.CurrentPos)
	} else {
		target, found = holder.OriginPos, true
	}
	if !found {
		return false
	}

	dist := m.Grid.GetGraphDistance(holder.CurrentPos, target)
	if dist < 0 {
		return false
	}

	sc := core.NewScenario(holder.CurrentPos, target, float64(dist), holder.LastTimeStamp)
	sv := solver.New(m.Grid, m.Config.Algorithm, m.Config.ExtraCostID)
	sv.InitScenario(sc, holder.LastTimeStamp, float64(holder.LastTimeStamp)+float64(dist)+relocationSlack)
	path := sv.Run(m.Config.MaxStep)
	if path == nil {
		return false
	}
	if !addAgentPathConstraints(g, m.Grid, path) {
		return false
	}

	finalTime := path[len(path)-1].LeaveTime
	g.addInfiniteWaiting(target, finalTime)

	g.onUndo(func() {
		delete(m.parkedAt, target)
		m.parkedAt[oldReserve] = holder.ID
		holder.ReservePos, holder.ReserveSince, holder.ReservedPath = oldReserve, oldSince, nil
	})
	delete(m.parkedAt, oldReserve)
	m.parkedAt[target] = holder.ID
	holder.ReservedPath = path
	holder.ReservePos = target
	holder.ReserveSince = finalTime
	return true
}

// reservingAgents computes which agents must have their parking
// reservation relocated to make way for agentID's just-staged arrival at
// path's final cell, tagged by the spec §4.5 priority rule that selected
// them (cross-referenced against Manager.cpp:565-592's reservingAgentSet —
// a std::map, so ties on membership keep whichever rule inserted first;
// the tag itself is bookkeeping only, never read back). Callers must apply
// the returned agent IDs in ascending order, matching std::map's iteration
// order.
func (m *Manager) reservingAgents(agentID int, path core.Path, occupiedAgent int) map[int]int {
	set := make(map[int]int)
	add := func(id, rule int) {
		if _, ok := set[id]; !ok {
			set[id] = rule
		}
	}
	finalPos := path[len(path)-1].Pos
	finalTime := path[len(path)-1].LeaveTime

	// Priority 0: ReserveAllFlag sends the arriving agent itself back to
	// parking after every delivery, unless its final cell is a parking cell.
	if m.Config.ReserveAllFlag && !m.Grid.IsParking(finalPos) {
		add(agentID, 0)
	}
	if !m.Config.OccupiedFlag {
		return set
	}

	// Priority 3: the task's delivery cell is already somebody's parking
	// spot; whichever of the two is there first (the arriving agent's
	// completion time vs. the holder's LastTimeStamp) must vacate, the
	// holder on a tie.
	if occupiedAgent != core.NoAgent && occupiedAgent != agentID {
		holder := m.agentByID(occupiedAgent)
		reserving := occupiedAgent
		if holder != nil && finalTime < holder.LastTimeStamp {
			reserving = agentID
		}
		add(reserving, 3)
	}

	// Priority 2: the delivery cell is reserved again at some future time
	// (by a marker installed after this probe was computed) — the arriving
	// agent itself must move on.
	if m.Grid.IsOccupied(finalPos, core.None, finalTime+1, core.Infinity) {
		add(agentID, 2)
	}

	// Priority 1: some other agent is waiting, mid-errand, on a cell this
	// path passes through, and would be displaced by it.
	for _, node := range path {
		wa, ok := m.Grid.GetLastWaitingAgent(node.Pos)
		if !ok {
			continue
		}
		other := m.agentByID(wa.AgentID)
		if other == nil || other.ID == agentID {
			continue
		}
		if m.Grid.IsParking(other.ReservePos) {
			continue
		}
		if len(other.ReservedPath) > 0 || other.LastTimeStamp > node.LeaveTime {
			continue
		}
		if other.ReservePos == node.Pos {
			continue
		}
		add(other.ID, 1)
	}
	return set
}

// assignTask atomically commits path for agentID against task: stage the
// path's occupancy, relocate whichever agents reservingAgents names, then
// either commit every mutation or roll all of them back (spec §4.5
// "assignTask", §9 commit/rollback invariant; Manager.cpp:542-683).
// occupiedAgent is the agent currently parked at path's destination, or
// core.NoAgent, as scored by computeFlex.
func (m *Manager) assignTask(agentID int, task *core.Task, path core.Path, occupiedAgent int) bool {
	agent := m.agentByID(agentID)
	if agent == nil || path == nil {
		return false
	}

	prevCurrentPos, prevLastTimeStamp := agent.CurrentPos, agent.LastTimeStamp

	g := newGuard(m.Grid)
	g.removeWaitingAgent(prevCurrentPos, prevLastTimeStamp, agent.ID)

	if len(agent.ReservedPath) > 0 {
		stale := agent.ReservedPath
		removeAgentPathConstraints(g, stale)
		g.onUndo(func() { agent.ReservedPath = stale })
		agent.ReservedPath = nil
	} else if m.Grid.IsOccupied(prevCurrentPos, core.None, prevLastTimeStamp, prevLastTimeStamp+1) {
		g.removeNode(prevCurrentPos, prevLastTimeStamp, prevLastTimeStamp+1)
	}

	if !m.reservePath(g, agent, path) {
		g.restore()
		return false
	}

	finalPos := path[len(path)-1].Pos
	finalTime := path[len(path)-1].LeaveTime

	g.onUndo(func() { agent.CurrentPos, agent.LastTimeStamp = prevCurrentPos, prevLastTimeStamp })
	agent.CurrentPos, agent.LastTimeStamp = finalPos, finalTime

	set := m.reservingAgents(agent.ID, path, occupiedAgent)
	ids := make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		if !m.relocateAgent(g, id) {
			g.restore()
			return false
		}
	}

	g.commit()

	m.Grid.AddWaitingAgent(finalPos, finalTime, agent.ID)
	agent.Path = append(agent.Path, path...)

	if agent.LastTimeStamp > m.agentMaxTimestamp {
		m.agentMaxTimestamp, m.agentMaxTimestampAgent = agent.LastTimeStamp, agent.ID
	}

	task.Assigned = true
	task.Failed = false
	if m.Logger != nil {
		m.Logger.Infow("task assigned", "task", task.ID, "agent", agent.ID, "completion", finalTime, "beta", task.MaxBeta)
	}
	return true
}

// ApplyReservedPath merges every agent's pending relocation route into its
// committed Path and clears it, making this round's parking moves visible
// (spec §4.5; Manager.cpp:208-216 applyReservedPath). Called once at the
// end of a full EDF or LFF run, never mid-round, so an agent relocated
// several times over the run only ever shows its final destination.
func (m *Manager) ApplyReservedPath() {
	for _, agent := range m.agents {
		if len(agent.ReservedPath) > 0 {
			agent.Path = append(agent.Path, agent.ReservedPath...)
			agent.ReservedPath = nil
		}
	}
}

// Recalculate replaces agent's committed tail (everything at or after the
// node matching fromIndex) with newPath, atomically: the old tail's
// occupancy is released and the new one reserved, or neither mutation
// survives (spec §4.5 "recalculateFlag"). fromIndex must address a node
// still in agent.Path.
func (m *Manager) Recalculate(agentID int, fromIndex int, newPath core.Path) bool {
	if !m.Config.RecalculateFlag {
		return false
	}
	agent := m.agentByID(agentID)
	if agent == nil || fromIndex < 0 || fromIndex >= len(agent.Path) || newPath == nil {
		return false
	}
	oldTail := agent.Path[fromIndex:]

	g := newGuard(m.Grid)
	removeAgentPathConstraints(g, oldTail)
	if !addAgentPathConstraints(g, m.Grid, newPath) {
		g.restore()
		return false
	}
	g.commit()

	agent.Path = append(append(core.Path{}, agent.Path[:fromIndex]...), newPath...)
	finalNode := newPath[len(newPath)-1]
	agent.CurrentPos = finalNode.Pos
	agent.LastTimeStamp = finalNode.LeaveTime
	return true
}

// RunEDF runs the earliest-deadline-first commit policy (spec §4.5):
// tasks are offered to the Manager in deadline order, each taking the
// best-scoring agent available at the time it is considered.
func (m *Manager) RunEDF() error {
	tasks := append([]*core.Task(nil), m.pendingTasks()...)
	sort.Slice(tasks, func(i, j int) bool { return m.deadlineAbs(tasks[i]) < m.deadlineAbs(tasks[j]) })
	if m.Config.WindowSize > 0 && len(tasks) > m.Config.WindowSize {
		// tasks beyond the window are left released and pending; a later
		// call considers them once they fall inside it (spec §4.5
		// "windowSize"; Manager.cpp:966-988).
		tasks = tasks[:m.Config.WindowSize]
	}

	var errs error
	for _, task := range tasks {
		agentID, flex := m.computeAgentForTask(task, nil)
		if flex == nil || !m.assignTask(agentID, task, flex.Path, flex.OccupiedAgent) {
			task.Failed = true
			errs = multierr.Append(errs, errors.Errorf("task %d: no feasible agent under current deadline", task.ID))
			continue
		}
	}
	m.ApplyReservedPath()
	return errs
}

// RunLFF runs the least-flexibility-first commit policy (spec §4.5): at
// each round, among all still-pending tasks, the one whose best agent has
// the smallest flexibility is committed first — the task closest to
// becoming infeasible gets priority over one with slack to spare.
func (m *Manager) RunLFF() error {
	var errs error
	for {
		pending := m.pendingTasks()
		if len(pending) == 0 {
			m.ApplyReservedPath()
			return errs
		}
		if m.Config.WindowSize > 0 && len(pending) > m.Config.WindowSize {
			pending = pending[:m.Config.WindowSize]
		}

		chosenTask, chosenAgent := -1, core.NoAgent
		var chosenFlex *core.Flexibility
		for i, task := range pending {
			agentID, flex := m.computeAgentForTask(task, nil)
			if flex == nil {
				continue
			}
			if chosenFlex == nil || flex.Beta < chosenFlex.Beta {
				chosenTask, chosenAgent, chosenFlex = i, agentID, flex
			}
		}
		if chosenTask < 0 {
			for _, task := range pending {
				task.Failed = true
				errs = multierr.Append(errs, errors.Errorf("task %d: no feasible agent", task.ID))
			}
			m.ApplyReservedPath()
			return errs
		}

		task := pending[chosenTask]
		agentID, flex := chosenAgent, chosenFlex
		excluded := make(map[int]bool)
		for {
			if m.assignTask(agentID, task, flex.Path, flex.OccupiedAgent) {
				break
			}
			if !m.Config.RetryFlag {
				task.Failed = true
				errs = multierr.Append(errs, errors.Errorf("task %d: assignment committed then rejected", task.ID))
				break
			}
			// RetryFlag: the chosen agent's commit was rejected by a
			// concurrent reservation change; exclude it and pick the next
			// best agent for the same task (spec §4.5 "retryFlag";
			// Manager.cpp:778-851 selectTask).
			excluded[agentID] = true
			agentID, flex = m.computeAgentForTask(task, excluded)
			if flex == nil {
				task.Failed = true
				errs = multierr.Append(errs, errors.Errorf("task %d: no feasible agent after retry", task.ID))
				break
			}
		}
	}
}
