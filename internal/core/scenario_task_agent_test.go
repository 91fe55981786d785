package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScenario_TwoWaypoint(t *testing.T) {
	s := NewScenario(Pos{Row: 0, Col: 0}, Pos{Row: 0, Col: 5}, 5, 10)
	require.Equal(t, 1, s.Size())
	require.Equal(t, Pos{Row: 0, Col: 0}, s.Start())
	require.Equal(t, Pos{Row: 0, Col: 5}, s.End())
	require.Equal(t, Pos{Row: 0, Col: 5}, s.GetEnd(0))
	require.Zero(t, s.GetDistance(0))
	require.Equal(t, 5.0, s.TotalOptimal())
}

func TestScenario_MultiWaypoint(t *testing.T) {
	wps := []Pos{{Row: 0, Col: 0}, {Row: 0, Col: 3}, {Row: 0, Col: 8}}
	s := NewScenarioFromWaypoints(wps, []float64{3, 5}, 0)
	require.Equal(t, 2, s.Size())
	require.Equal(t, 8.0, s.TotalOptimal())
	require.Equal(t, Pos{Row: 0, Col: 3}, s.GetEnd(0))
	require.Equal(t, 5.0, s.GetDistance(0)) // remaining optimal beyond segment 0
	require.Zero(t, s.GetDistance(1))       // final segment, nothing remains
}

func TestTask_NewTaskDefaults(t *testing.T) {
	task := NewTask(1, Pos{Row: 0, Col: 0}, Pos{Row: 2, Col: 2}, 4, 7)
	require.True(t, task.Released)
	require.False(t, task.Failed)
	require.False(t, task.Assigned)
	require.Equal(t, -1.0, task.MaxBeta)
	require.Equal(t, NoAgent, task.MaxBetaAgent)
	require.Equal(t, Pos{Row: 0, Col: 0}, task.Pickup())
	require.Equal(t, Pos{Row: 2, Col: 2}, task.Delivery())
	require.Equal(t, int64(7), task.StartTime())
}

func TestTask_Deadline(t *testing.T) {
	task := NewTask(1, Pos{Row: 0, Col: 0}, Pos{Row: 0, Col: 4}, 4, 0)
	require.Equal(t, 6.0, task.Deadline(0.5))
	require.Equal(t, 4.0, task.Deadline(0))
}

func TestAgent_NewAgentInvariant(t *testing.T) {
	start := Pos{Row: 1, Col: 1}
	a := NewAgent(9, start)
	require.Equal(t, start, a.OriginPos)
	require.Equal(t, start, a.ReservePos)
	require.Equal(t, start, a.CurrentPos)
	require.Zero(t, a.LastTimeStamp)
	require.NotNil(t, a.Flexibility)
	require.Equal(t, int64(0), a.MaxTimestamp())
}

func TestAgent_MaxTimestamp(t *testing.T) {
	a := NewAgent(1, Pos{Row: 0, Col: 0})
	a.LastTimeStamp = 3
	require.Equal(t, int64(3), a.MaxTimestamp())

	a.Path = Path{
		{Pos: Pos{Row: 0, Col: 0}, LeaveTime: 1},
		{Pos: Pos{Row: 0, Col: 1}, LeaveTime: 5},
	}
	require.Equal(t, int64(5), a.MaxTimestamp())
}
