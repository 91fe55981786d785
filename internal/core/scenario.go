package core

// Scenario is an ordered waypoint route p0...pk with per-segment optimal
// distances and a release time (spec §4.3, C3).
type Scenario struct {
	Waypoints []Pos
	// Distances[i] is the optimal cost from Waypoints[i] to
	// Waypoints[i+1]; len(Distances) == len(Waypoints)-1.
	Distances []float64
	StartTime int64
}

// NewScenario builds a two-waypoint (start, end) scenario with a single
// optimal distance.
func NewScenario(start, end Pos, optimal float64, startTime int64) *Scenario {
	return &Scenario{
		Waypoints: []Pos{start, end},
		Distances: []float64{optimal},
		StartTime: startTime,
	}
}

// NewScenarioFromWaypoints builds a multi-waypoint scenario; len(distances)
// must equal len(waypoints)-1.
func NewScenarioFromWaypoints(waypoints []Pos, distances []float64, startTime int64) *Scenario {
	return &Scenario{Waypoints: waypoints, Distances: distances, StartTime: startTime}
}

// Size returns k, the number of segments (spec §3: "size() = k").
func (s *Scenario) Size() int { return len(s.Waypoints) - 1 }

// Start returns p0.
func (s *Scenario) Start() Pos { return s.Waypoints[0] }

// End returns pk.
func (s *Scenario) End() Pos { return s.Waypoints[len(s.Waypoints)-1] }

// GetEnd returns the next mandatory waypoint after checkpoint.
func (s *Scenario) GetEnd(checkpoint int) Pos { return s.Waypoints[checkpoint+1] }

// GetDistance returns the remaining optimal distance AFTER reaching
// GetEnd(checkpoint) — i.e. the sum of segments strictly beyond the one
// ending at the next mandatory waypoint (spec §4.4 heuristic,
// "remainingOptimal(c)"). It is 0 once checkpoint addresses the final
// segment.
func (s *Scenario) GetDistance(checkpoint int) float64 {
	var total float64
	for i := checkpoint + 1; i < len(s.Distances); i++ {
		total += s.Distances[i]
	}
	return total
}

// TotalOptimal returns the scenario's total optimal cost (distance from
// Start to End along mandatory waypoints).
func (s *Scenario) TotalOptimal() float64 {
	var total float64
	for _, d := range s.Distances {
		total += d
	}
	return total
}
