// Package config loads named Manager policy presets from YAML, the way
// the retrieved pack's robotics modules load fixture/config YAML rather
// than hand-building flag structs in code.
package config

import (
	"io"

	"github.com/elektrokombinacija/mapf-lifelong/internal/manager"
	"github.com/elektrokombinacija/mapf-lifelong/internal/solver"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Preset is the YAML-serializable form of manager.Config (spec §4.5 flag
// table). Algorithm is spelled out as a name rather than an int so
// presets stay readable.
type Preset struct {
	Phi         float64 `yaml:"phi"`
	Algorithm   string  `yaml:"algorithm"` // "waiting-aware" | "safe-interval"
	ExtraCostID float64 `yaml:"extraCostId"`
	MaxStep     int     `yaml:"maxStep"`
	WindowSize  int     `yaml:"windowSize"`

	BoundFlag          bool `yaml:"boundFlag"`
	SortFlag           bool `yaml:"sortFlag"`
	MultiLabelFlag     bool `yaml:"multiLabelFlag"`
	OccupiedFlag       bool `yaml:"occupiedFlag"`
	DeadlineBoundFlag  bool `yaml:"deadlineBoundFlag"`
	TaskBoundFlag      bool `yaml:"taskBoundFlag"`
	RecalculateFlag    bool `yaml:"recalculateFlag"`
	ReserveAllFlag     bool `yaml:"reserveAllFlag"`
	SkipFlag           bool `yaml:"skipFlag"`
	ReserveNearestFlag bool `yaml:"reserveNearestFlag"`
	RetryFlag          bool `yaml:"retryFlag"`
}

// LoadPreset decodes a Preset from YAML.
func LoadPreset(r io.Reader) (*Preset, error) {
	var p Preset
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return nil, errors.Wrap(err, "decode manager preset")
	}
	return &p, nil
}

// Options converts the preset to manager.Option values, ready to pass to
// manager.New.
func (p *Preset) Options() ([]manager.Option, error) {
	algo, err := parseAlgorithm(p.Algorithm)
	if err != nil {
		return nil, err
	}
	return []manager.Option{
		manager.WithPhi(p.Phi),
		manager.WithAlgorithm(algo),
		manager.WithExtraCostID(p.ExtraCostID),
		manager.WithMaxStep(p.MaxStep),
		manager.WithWindowSize(p.WindowSize),
		manager.WithBoundFlag(p.BoundFlag),
		manager.WithSortFlag(p.SortFlag),
		manager.WithMultiLabelFlag(p.MultiLabelFlag),
		manager.WithOccupiedFlag(p.OccupiedFlag),
		manager.WithDeadlineBoundFlag(p.DeadlineBoundFlag),
		manager.WithTaskBoundFlag(p.TaskBoundFlag),
		manager.WithRecalculateFlag(p.RecalculateFlag),
		manager.WithReserveAllFlag(p.ReserveAllFlag),
		manager.WithSkipFlag(p.SkipFlag),
		manager.WithReserveNearestFlag(p.ReserveNearestFlag),
		manager.WithRetryFlag(p.RetryFlag),
	}, nil
}

func parseAlgorithm(name string) (solver.Algorithm, error) {
	switch name {
	case "", "waiting-aware":
		return solver.WaitingAware, nil
	case "safe-interval":
		return solver.SafeInterval, nil
	default:
		return 0, errors.Errorf("unrecognized algorithm preset %q", name)
	}
}
