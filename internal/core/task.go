package core

// Task wraps a pickup-and-delivery Scenario with assignment bookkeeping
// (spec §3, "Task"). Optimal is the basis for Deadline = (1+phi)*Optimal
// (spec GLOSSARY).
type Task struct {
	ID       int
	Scenario *Scenario
	Optimal  float64
	Released bool

	// MaxBeta/MaxBetaAgent record the best (agent, beta) pair found for
	// this task by computeAgentForTask during the current round; MaxBeta
	// < 0 means no feasible plan was found for any agent (spec §3
	// Flexibility sentinel, reused here for the task-level best).
	MaxBeta      float64
	MaxBetaAgent int

	Failed   bool // set when a task is abandoned (deadline or no-agent)
	Assigned bool // set once a committing Manager round reserves a path for it
}

// NoAgent is the MaxBetaAgent sentinel meaning "no agent scored yet".
const NoAgent = -1

// NewTask builds a released task from a two-waypoint scenario.
func NewTask(id int, pickup, delivery Pos, optimal float64, startTime int64) *Task {
	return &Task{
		ID:           id,
		Scenario:     NewScenario(pickup, delivery, optimal, startTime),
		Optimal:      optimal,
		Released:     true,
		MaxBeta:      -1,
		MaxBetaAgent: NoAgent,
	}
}

// Deadline returns (1+phi)*Optimal, the task's completion-time bound
// (spec GLOSSARY, "Deadline (of a task)").
func (t *Task) Deadline(phi float64) float64 {
	return (1 + phi) * t.Optimal
}

// Pickup returns the task's pickup position (scenario start).
func (t *Task) Pickup() Pos { return t.Scenario.Start() }

// Delivery returns the task's delivery position (scenario end).
func (t *Task) Delivery() Pos { return t.Scenario.End() }

// StartTime returns the task's release time.
func (t *Task) StartTime() int64 { return t.Scenario.StartTime }
