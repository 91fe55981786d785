// Package state manages the visualization state.
package state

import (
	"github.com/elektrokombinacija/mapf-lifelong/internal/core"
)

// State is the renderer's view of a solved fleet: the grid, the agents'
// committed paths, the tasks they serve, and the scrubber position that
// drives playback.
type State struct {
	Grid   *core.Grid
	Agents []*core.Agent
	Tasks  []*core.Task

	Playback *PlaybackState
}

// NewState creates a new visualization state. MaxTime is the highest
// LeaveTime committed by any agent.
func NewState(grid *core.Grid, agents []*core.Agent, tasks []*core.Task) *State {
	var maxTime float64
	for _, a := range agents {
		if t := float64(a.MaxTimestamp()); t > maxTime {
			maxTime = t
		}
	}
	return &State{
		Grid:     grid,
		Agents:   agents,
		Tasks:    tasks,
		Playback: NewPlaybackState(maxTime),
	}
}

// CurrentPositions returns each agent's position at the current playback
// time, keyed by agent ID.
func (s *State) CurrentPositions() map[int]core.Pos {
	positions := make(map[int]core.Pos, len(s.Agents))
	for _, a := range s.Agents {
		positions[a.ID] = positionAtTime(a.Path, a.OriginPos, s.Playback.CurrentTime)
	}
	return positions
}

// positionAtTime walks a committed path to the node active at t. Moves are
// unit-time and discrete (spec §3 "PathNode"), so the agent's rendered
// position snaps to the node whose LeaveTime has not yet elapsed rather
// than interpolating continuously between cells.
func positionAtTime(path core.Path, origin core.Pos, t float64) core.Pos {
	if len(path) == 0 {
		return origin
	}
	for _, node := range path {
		if t <= float64(node.LeaveTime) {
			return node.Pos
		}
	}
	return path[len(path)-1].Pos
}

// PathHistory returns the positions an agent has already visited up to
// the current playback time, oldest first, for drawing a trail.
func (s *State) PathHistory(agentID int) []core.Pos {
	a := s.agentByID(agentID)
	if a == nil {
		return nil
	}
	var history []core.Pos
	for _, node := range a.Path {
		if float64(node.LeaveTime) > s.Playback.CurrentTime {
			break
		}
		history = append(history, node.Pos)
	}
	return history
}

func (s *State) agentByID(id int) *core.Agent {
	for _, a := range s.Agents {
		if a.ID == id {
			return a
		}
	}
	return nil
}
