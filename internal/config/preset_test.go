package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadPreset(t *testing.T) {
	src := `
phi: 0.5
algorithm: safe-interval
extraCostId: 1
maxStep: 5000
windowSize: 0
boundFlag: true
sortFlag: true
multiLabelFlag: false
occupiedFlag: true
deadlineBoundFlag: true
taskBoundFlag: false
recalculateFlag: false
reserveAllFlag: false
skipFlag: false
reserveNearestFlag: true
retryFlag: false
`
	p, err := LoadPreset(strings.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, 0.5, p.Phi)
	require.Equal(t, "safe-interval", p.Algorithm)

	opts, err := p.Options()
	require.NoError(t, err)
	require.Len(t, opts, 16)
}

func TestLoadPreset_UnknownAlgorithm(t *testing.T) {
	p := &Preset{Algorithm: "quantum-annealing"}
	_, err := p.Options()
	require.Error(t, err)
}
