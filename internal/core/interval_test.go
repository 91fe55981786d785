package core

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestIntervalSet_AddCoalesces(t *testing.T) {
	s := NewIntervalSet()
	s.Add(0, 5)
	s.Add(5, 10) // touches, must merge
	require.Equal(t, []Interval{{Lo: 0, Hi: 10}}, s.Intervals())

	s.Add(20, 25)
	require.Equal(t, []Interval{{Lo: 0, Hi: 10}, {Lo: 20, Hi: 25}}, s.Intervals())

	s.Add(9, 21) // bridges the gap, absorbing both
	require.Equal(t, []Interval{{Lo: 0, Hi: 25}}, s.Intervals())
}

func TestIntervalSet_RemoveSplits(t *testing.T) {
	s := NewIntervalSet()
	s.Add(0, 10)
	s.Remove(3, 6)
	require.Equal(t, []Interval{{Lo: 0, Hi: 3}, {Lo: 6, Hi: 10}}, s.Intervals())

	s.Remove(0, 3)
	require.Equal(t, []Interval{{Lo: 6, Hi: 10}}, s.Intervals())
}

func TestIntervalSet_RemoveTolerant(t *testing.T) {
	s := NewIntervalSet()
	s.Add(0, 10)
	s.Remove(5, 100) // no interval at [10,100), only the overlap is cut
	require.Equal(t, []Interval{{Lo: 0, Hi: 5}}, s.Intervals())
}

func TestIntervalSet_FirstFreeFrom(t *testing.T) {
	s := NewIntervalSet()
	s.Add(0, 5)
	s.Add(10, 15)
	require.Equal(t, int64(5), s.FirstFreeFrom(0, 3))
	require.Equal(t, int64(15), s.FirstFreeFrom(12, 4))
	require.Equal(t, int64(18), s.FirstFreeFrom(18, 2))
}

func TestIntervalSet_FreeIntervalCovering(t *testing.T) {
	s := NewIntervalSet()
	s.Add(0, 5)
	s.Add(10, 15)
	lo, hi := s.FreeIntervalCovering(5, 10)
	require.Equal(t, int64(5), lo)
	require.Equal(t, int64(10), hi)

	lo, hi = s.FreeIntervalCovering(2, 3)
	require.Zero(t, lo)
	require.Zero(t, hi)
}

// TestIntervalSet_PropertyAgainstTimeline checks the set against a brute
// force boolean timeline after a random sequence of Add/Remove calls: the
// stored intervals must stay sorted and pairwise non-adjacent, and
// Intersects must agree with the timeline for every probed range.
func TestIntervalSet_PropertyAgainstTimeline(t *testing.T) {
	const horizon = 64

	rapid.Check(t, func(t *rapid.T) {
		s := NewIntervalSet()
		var timeline [horizon]bool

		ops := rapid.SliceOfN(rapid.Custom(func(t *rapid.T) [3]int64 {
			lo := rapid.Int64Range(0, horizon-1).Draw(t, "lo")
			hi := rapid.Int64Range(lo+1, horizon).Draw(t, "hi")
			kind := rapid.Int64Range(0, 1).Draw(t, "kind")
			return [3]int64{lo, hi, kind}
		}), 0, 30).Draw(t, "ops")

		for _, op := range ops {
			lo, hi, kind := op[0], op[1], op[2]
			if kind == 0 {
				s.Add(lo, hi)
				for i := lo; i < hi; i++ {
					timeline[i] = true
				}
			} else {
				s.Remove(lo, hi)
				for i := lo; i < hi; i++ {
					timeline[i] = false
				}
			}
		}

		ivs := s.Intervals()
		for i := range ivs {
			require.Less(t, ivs[i].Lo, ivs[i].Hi, "stored interval must be non-empty")
			if i > 0 {
				require.Less(t, ivs[i-1].Hi, ivs[i].Lo, "stored intervals must be sorted and non-adjacent")
			}
		}

		for probeLo := int64(0); probeLo < horizon; probeLo++ {
			for probeHi := probeLo + 1; probeHi <= horizon; probeHi++ {
				want := false
				for i := probeLo; i < probeHi; i++ {
					if timeline[i] {
						want = true
						break
					}
				}
				require.Equal(t, want, s.Intersects(probeLo, probeHi),
					"Intersects(%d,%d) mismatch", probeLo, probeHi)
			}
		}
	})
}
