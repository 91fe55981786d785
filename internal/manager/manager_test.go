package manager

import (
	"testing"

	"github.com/elektrokombinacija/mapf-lifelong/internal/core"
	"github.com/elektrokombinacija/mapf-lifelong/internal/solver"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testLogger(t *testing.T) *zap.SugaredLogger {
	t.Helper()
	logger, err := zap.NewDevelopment()
	require.NoError(t, err)
	return logger.Sugar()
}

// S4 — single task, single agent: the only agent gets the only task.
func TestManager_EDF_SingleAgentSingleTask(t *testing.T) {
	g := core.NewGrid(1, 5)
	agents := []*core.Agent{core.NewAgent(0, core.Pos{Row: 0, Col: 0})}
	tasks := []*core.Task{core.NewTask(0, core.Pos{Row: 0, Col: 2}, core.Pos{Row: 0, Col: 4}, 2, 0)}

	m := New(g, agents, tasks, testLogger(t), WithMaxStep(2000), WithPhi(2))
	require.NoError(t, m.RunEDF())
	require.True(t, tasks[0].Assigned)
	require.Equal(t, 0, tasks[0].MaxBetaAgent)
	require.NotEmpty(t, agents[0].Path)
	require.Equal(t, core.Pos{Row: 0, Col: 4}, agents[0].CurrentPos)
}

// S5 — two tasks, two agents: EDF considers the tasks in deadline order
// and both tasks end up committed to distinct agents.
func TestManager_EDF_TwoAgentsTwoTasks(t *testing.T) {
	g := core.NewGrid(3, 10)
	agents := []*core.Agent{
		core.NewAgent(0, core.Pos{Row: 0, Col: 0}),
		core.NewAgent(1, core.Pos{Row: 2, Col: 0}),
	}
	tasks := []*core.Task{
		core.NewTask(0, core.Pos{Row: 0, Col: 3}, core.Pos{Row: 0, Col: 6}, 3, 0),
		core.NewTask(1, core.Pos{Row: 2, Col: 3}, core.Pos{Row: 2, Col: 6}, 3, 0),
	}

	m := New(g, agents, tasks, testLogger(t), WithMaxStep(4000), WithPhi(2))
	require.NoError(t, m.RunEDF())
	for _, task := range tasks {
		require.True(t, task.Assigned, "task %d", task.ID)
	}
	require.NotEqual(t, tasks[0].MaxBetaAgent, -1)
	require.NotEqual(t, tasks[1].MaxBetaAgent, -1)
	require.NotEqual(t, tasks[0].MaxBetaAgent, tasks[1].MaxBetaAgent)
}

// S6 — an unreachable task (blocked delivery cell) is marked Failed rather
// than silently dropped, and RunEDF reports it as an error.
func TestManager_EDF_UnreachableTaskFails(t *testing.T) {
	g := core.NewGrid(1, 5)
	g.SetBlocked(core.Pos{Row: 0, Col: 4}, true)
	agents := []*core.Agent{core.NewAgent(0, core.Pos{Row: 0, Col: 0})}
	tasks := []*core.Task{core.NewTask(0, core.Pos{Row: 0, Col: 1}, core.Pos{Row: 0, Col: 4}, 3, 0)}

	m := New(g, agents, tasks, testLogger(t), WithMaxStep(2000))
	err := m.RunEDF()
	require.Error(t, err)
	require.True(t, tasks[0].Failed)
	require.False(t, tasks[0].Assigned)
}

// LFF should pick the task with the least flexibility (the one closest to
// its deadline) first when multiple tasks compete for a single agent.
// With Phi 4, task 1 (deadline 10, done at t=3, beta 7) is less flexible
// than task 0 (deadline 25, done at t=15, beta 10). Had task 0 gone first,
// task 1 would finish at t=31, past its deadline, so both tasks being
// assigned shows that task 1 was committed first.
func TestManager_LFF_PrioritizesLeastFlexible(t *testing.T) {
	g := core.NewGrid(1, 20)
	agents := []*core.Agent{core.NewAgent(0, core.Pos{Row: 0, Col: 0})}
	tasks := []*core.Task{
		core.NewTask(0, core.Pos{Row: 0, Col: 10}, core.Pos{Row: 0, Col: 15}, 5, 0),
		core.NewTask(1, core.Pos{Row: 0, Col: 1}, core.Pos{Row: 0, Col: 3}, 2, 0),
	}

	m := New(g, agents, tasks, testLogger(t), WithMaxStep(4000), WithPhi(4))
	require.NoError(t, m.RunLFF())
	require.True(t, tasks[0].Assigned)
	require.True(t, tasks[1].Assigned)
}

// Committed paths for distinct agents must never occupy the same cell at
// the same time (spec §8 soundness, extended to the Manager).
func TestManager_CommittedPathsDoNotConflict(t *testing.T) {
	g := core.NewGrid(3, 10)
	agents := []*core.Agent{
		core.NewAgent(0, core.Pos{Row: 0, Col: 0}),
		core.NewAgent(1, core.Pos{Row: 1, Col: 0}),
		core.NewAgent(2, core.Pos{Row: 2, Col: 0}),
	}
	tasks := []*core.Task{
		core.NewTask(0, core.Pos{Row: 0, Col: 4}, core.Pos{Row: 0, Col: 8}, 4, 0),
		core.NewTask(1, core.Pos{Row: 1, Col: 4}, core.Pos{Row: 1, Col: 8}, 4, 0),
		core.NewTask(2, core.Pos{Row: 2, Col: 4}, core.Pos{Row: 2, Col: 8}, 4, 0),
	}

	m := New(g, agents, tasks, testLogger(t), WithMaxStep(6000), WithPhi(2))
	require.NoError(t, m.RunEDF())

	type cellTime struct {
		Pos core.Pos
		T   int64
	}
	occ := make(map[cellTime]bool)
	for _, a := range agents {
		for _, n := range a.Path {
			key := cellTime{Pos: n.Pos, T: n.LeaveTime}
			require.False(t, occ[key], "node %v double-booked at t=%d", n.Pos, n.LeaveTime)
			occ[key] = true
		}
	}
}

// Probing computeAgentForTask must leave the reservation table exactly as
// it found it: every guard restore is a true inverse (spec §9 idempotence
// on probe).
func TestManager_ProbeIsIdempotent(t *testing.T) {
	g := core.NewGrid(2, 8)
	agents := []*core.Agent{core.NewAgent(0, core.Pos{Row: 0, Col: 0})}
	tasks := []*core.Task{core.NewTask(0, core.Pos{Row: 0, Col: 3}, core.Pos{Row: 0, Col: 6}, 3, 0)}

	m := New(g, agents, tasks, testLogger(t), WithMaxStep(2000))
	before := g.Reservations.Snapshot()
	m.computeAgentForTask(tasks[0], nil)
	require.True(t, g.Reservations.EqualSnapshot(before))
}

// A single agent on a clear row takes the committed path step by step,
// with no detours or waits; cmp.Diff pinpoints exactly which node
// diverges rather than just failing on the first mismatch.
func TestManager_EDF_PathMatchesExpectedNodes(t *testing.T) {
	g := core.NewGrid(1, 5)
	agents := []*core.Agent{core.NewAgent(0, core.Pos{Row: 0, Col: 0})}
	tasks := []*core.Task{core.NewTask(0, core.Pos{Row: 0, Col: 2}, core.Pos{Row: 0, Col: 4}, 2, 0)}

	m := New(g, agents, tasks, testLogger(t), WithMaxStep(2000), WithPhi(2))
	require.NoError(t, m.RunEDF())

	want := core.Path{
		{Pos: core.Pos{Row: 0, Col: 0}, LeaveTime: 0},
		{Pos: core.Pos{Row: 0, Col: 1}, LeaveTime: 1},
		{Pos: core.Pos{Row: 0, Col: 2}, LeaveTime: 2},
		{Pos: core.Pos{Row: 0, Col: 3}, LeaveTime: 3},
		{Pos: core.Pos{Row: 0, Col: 4}, LeaveTime: 4},
	}
	if diff := cmp.Diff(want, agents[0].Path); diff != "" {
		t.Fatalf("committed path mismatch (-want +got):\n%s", diff)
	}
}

func TestManager_DefaultAlgorithmIsWaitingAware(t *testing.T) {
	require.Equal(t, solver.WaitingAware, DefaultConfig().Algorithm)
}

// Recalculate must release the old tail's occupancy before reserving the
// new one, so a path identical to the one just replaced is never reported
// as conflicting with itself.
func TestManager_RecalculateReplacesTail(t *testing.T) {
	g := core.NewGrid(1, 6)
	agents := []*core.Agent{core.NewAgent(0, core.Pos{Row: 0, Col: 0})}
	tasks := []*core.Task{core.NewTask(0, core.Pos{Row: 0, Col: 2}, core.Pos{Row: 0, Col: 5}, 3, 0)}

	m := New(g, agents, tasks, testLogger(t), WithMaxStep(2000), WithPhi(2), WithRecalculateFlag(true))
	require.NoError(t, m.RunEDF())

	agent := agents[0]
	before := g.Reservations.Snapshot()
	require.True(t, m.isPathConflict(agent.Path), "an already-committed path intersects its own reservation")

	replayed := append(core.Path{}, agent.Path...)
	require.True(t, m.Recalculate(agent.ID, 0, replayed))
	require.True(t, g.Reservations.EqualSnapshot(before), "replaying an identical path leaves the table unchanged")
}
