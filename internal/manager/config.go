// Package manager implements the task-assignment engine built on top of
// the solver (spec §4.5, C5): scoring (agent, task) pairs by flexibility,
// EDF/LFF commit policies, parking reservation, and atomic commit/rollback
// of reservation-table mutations.
package manager

import "github.com/elektrokombinacija/mapf-lifelong/internal/solver"

// Config holds the Manager's policy flags (spec §4.5 table), built via
// functional options in the idiom the wider retrieved pack's robotics
// module uses for config construction.
type Config struct {
	Phi         float64 // suboptimality factor: deadline = (1+Phi)*optimal
	Algorithm   solver.Algorithm
	ExtraCostID float64
	MaxStep     int
	WindowSize  int // 0 means unbounded

	BoundFlag         bool
	SortFlag          bool
	MultiLabelFlag    bool
	OccupiedFlag      bool
	DeadlineBoundFlag bool
	TaskBoundFlag     bool
	RecalculateFlag   bool
	ReserveAllFlag    bool
	SkipFlag          bool
	ReserveNearestFlag bool
	RetryFlag         bool
}

// DefaultConfig returns the Manager's baseline policy: EDF-friendly,
// waiting-aware solver, no bound pruning, bounded step budget.
func DefaultConfig() Config {
	return Config{
		Phi:         0,
		Algorithm:   solver.WaitingAware,
		ExtraCostID: 0,
		MaxStep:     10000,
		WindowSize:  0,
	}
}

// Option mutates a Config; New applies options over DefaultConfig.
type Option func(*Config)

func WithPhi(phi float64) Option            { return func(c *Config) { c.Phi = phi } }
func WithAlgorithm(a solver.Algorithm) Option { return func(c *Config) { c.Algorithm = a } }
func WithExtraCostID(v float64) Option       { return func(c *Config) { c.ExtraCostID = v } }
func WithMaxStep(n int) Option               { return func(c *Config) { c.MaxStep = n } }
func WithWindowSize(n int) Option            { return func(c *Config) { c.WindowSize = n } }
func WithBoundFlag(b bool) Option            { return func(c *Config) { c.BoundFlag = b } }
func WithSortFlag(b bool) Option             { return func(c *Config) { c.SortFlag = b } }
func WithMultiLabelFlag(b bool) Option       { return func(c *Config) { c.MultiLabelFlag = b } }
func WithOccupiedFlag(b bool) Option         { return func(c *Config) { c.OccupiedFlag = b } }
func WithDeadlineBoundFlag(b bool) Option    { return func(c *Config) { c.DeadlineBoundFlag = b } }
func WithTaskBoundFlag(b bool) Option        { return func(c *Config) { c.TaskBoundFlag = b } }
func WithRecalculateFlag(b bool) Option      { return func(c *Config) { c.RecalculateFlag = b } }
func WithReserveAllFlag(b bool) Option       { return func(c *Config) { c.ReserveAllFlag = b } }
func WithSkipFlag(b bool) Option             { return func(c *Config) { c.SkipFlag = b } }
func WithReserveNearestFlag(b bool) Option   { return func(c *Config) { c.ReserveNearestFlag = b } }
func WithRetryFlag(b bool) Option            { return func(c *Config) { c.RetryFlag = b } }
