package core

import "sort"

// Infinity is the sentinel for an unbounded interval upper bound. Spec §3
// calls for "a large sentinel (e.g. 2^63/2)" rather than a true infinite
// value, so arithmetic on it (e.g. Infinity-1 probes) stays well-defined.
const Infinity = int64(1) << 62

// Interval is a half-open time range [Lo, Hi). Lo < Hi always holds for a
// stored interval.
type Interval struct {
	Lo, Hi int64
}

func (iv Interval) empty() bool { return iv.Lo >= iv.Hi }

// overlapsOrTouches reports whether iv and other overlap or are adjacent
// (share an endpoint), the condition for coalescing on insert.
func (iv Interval) overlapsOrTouches(other Interval) bool {
	return iv.Lo <= other.Hi && other.Lo <= iv.Hi
}

func (iv Interval) overlaps(other Interval) bool {
	return iv.Lo < other.Hi && other.Lo < iv.Hi
}

// IntervalSet is a sorted set of pairwise-disjoint half-open intervals for
// one occupancy key, automatically coalesced on insert and split on
// remove (spec §4.1, C1). It is the one stdlib-only data structure in the
// module — see DESIGN.md for why no pack library covers ordered interval
// sets.
type IntervalSet struct {
	ivs []Interval // sorted by Lo, pairwise disjoint, never adjacent
}

// NewIntervalSet returns an empty interval set.
func NewIntervalSet() *IntervalSet {
	return &IntervalSet{}
}

// Empty reports whether the set holds no intervals.
func (s *IntervalSet) Empty() bool { return len(s.ivs) == 0 }

// searchLo returns the index of the first interval whose Lo is >= lo.
func (s *IntervalSet) searchLo(lo int64) int {
	return sort.Search(len(s.ivs), func(i int) bool { return s.ivs[i].Lo >= lo })
}

// Add unions [lo,hi) into the set, merging any overlapping or adjacent
// intervals.
func (s *IntervalSet) Add(lo, hi int64) {
	if lo >= hi {
		return
	}
	target := Interval{Lo: lo, Hi: hi}

	// Find the first interval that could overlap or touch target: scan
	// left from the insertion point since an earlier interval may still
	// touch (its Hi >= target.Lo).
	i := s.searchLo(lo)
	for i > 0 && s.ivs[i-1].Hi >= target.Lo {
		i--
	}
	j := i
	for j < len(s.ivs) && s.ivs[j].overlapsOrTouches(target) {
		if s.ivs[j].Lo < target.Lo {
			target.Lo = s.ivs[j].Lo
		}
		if s.ivs[j].Hi > target.Hi {
			target.Hi = s.ivs[j].Hi
		}
		j++
	}

	merged := make([]Interval, 0, len(s.ivs)-(j-i)+1)
	merged = append(merged, s.ivs[:i]...)
	merged = append(merged, target)
	merged = append(merged, s.ivs[j:]...)
	s.ivs = merged
}

// Remove subtracts [lo,hi) from the set, splitting any bordering interval.
// Removing a range not exactly present is tolerated: only the overlapping
// part is removed (spec §4.1 error note).
func (s *IntervalSet) Remove(lo, hi int64) {
	if lo >= hi || len(s.ivs) == 0 {
		return
	}
	target := Interval{Lo: lo, Hi: hi}

	out := make([]Interval, 0, len(s.ivs)+1)
	for _, iv := range s.ivs {
		if !iv.overlaps(target) {
			out = append(out, iv)
			continue
		}
		if iv.Lo < target.Lo {
			out = append(out, Interval{Lo: iv.Lo, Hi: target.Lo})
		}
		if iv.Hi > target.Hi {
			out = append(out, Interval{Lo: target.Hi, Hi: iv.Hi})
		}
	}
	s.ivs = out
}

// Intersects reports whether [lo,hi) overlaps any stored interval.
func (s *IntervalSet) Intersects(lo, hi int64) bool {
	if lo >= hi {
		return false
	}
	target := Interval{Lo: lo, Hi: hi}
	i := s.searchLo(lo)
	if i > 0 && s.ivs[i-1].overlaps(target) {
		return true
	}
	return i < len(s.ivs) && s.ivs[i].overlaps(target)
}

// FirstFreeFrom returns the smallest t >= start such that [t, t+dur) is
// disjoint from the set.
func (s *IntervalSet) FirstFreeFrom(start int64, dur int64) int64 {
	t := start
	for {
		i := s.searchLo(t)
		// An interval to the left may still cover t.
		if i > 0 && s.ivs[i-1].Hi > t {
			t = s.ivs[i-1].Hi
			continue
		}
		if i < len(s.ivs) && s.ivs[i].Lo < t+dur {
			t = s.ivs[i].Hi
			continue
		}
		return t
	}
}

// FreeIntervalCovering returns the maximal free [a,b) containing
// [start,end), or (0,0) if [start,end) is occupied.
func (s *IntervalSet) FreeIntervalCovering(start, end int64) (int64, int64) {
	if s.Intersects(start, end) {
		return 0, 0
	}
	lo := int64(0)
	hi := Infinity
	i := s.searchLo(start)
	if i > 0 {
		lo = s.ivs[i-1].Hi
	}
	if i < len(s.ivs) {
		hi = s.ivs[i].Lo
	}
	return lo, hi
}

// Equal reports whether s and other hold the same intervals, used by the
// round-trip and idempotence property tests (spec §8).
func (s *IntervalSet) Equal(other *IntervalSet) bool {
	if len(s.ivs) != len(other.ivs) {
		return false
	}
	for i := range s.ivs {
		if s.ivs[i] != other.ivs[i] {
			return false
		}
	}
	return true
}

// Intervals returns a copy of the stored intervals, ascending.
func (s *IntervalSet) Intervals() []Interval {
	out := make([]Interval, len(s.ivs))
	copy(out, s.ivs)
	return out
}

// LastUpperBound returns the Hi of the last (latest) stored interval, or
// false if the set is empty.
func (s *IntervalSet) LastUpperBound() (int64, bool) {
	if len(s.ivs) == 0 {
		return 0, false
	}
	return s.ivs[len(s.ivs)-1].Hi, true
}

// ReservationTable maps occupancy keys to interval sets (spec §3, "Map ...
// occupiedMap"). Node occupancy is keyed with Dir=None; edge occupancy is
// canonicalized (Left/Up rewritten to the neighbor's Right/Down) so each
// undirected edge has exactly one key.
type ReservationTable struct {
	sets map[OccKey]*IntervalSet
}

// NewReservationTable returns an empty table.
func NewReservationTable() *ReservationTable {
	return &ReservationTable{sets: make(map[OccKey]*IntervalSet)}
}

func (t *ReservationTable) setFor(key OccKey) *IntervalSet {
	s, ok := t.sets[key]
	if !ok {
		s = NewIntervalSet()
		t.sets[key] = s
	}
	return s
}

// AddNode reserves [lo,hi) on pos's node occupancy.
func (t *ReservationTable) AddNode(pos Pos, lo, hi int64) {
	t.setFor(OccKey{Pos: pos, Dir: None}).Add(lo, hi)
}

// RemoveNode releases [lo,hi) from pos's node occupancy.
func (t *ReservationTable) RemoveNode(pos Pos, lo, hi int64) {
	t.setFor(OccKey{Pos: pos, Dir: None}).Remove(lo, hi)
}

// AddEdge reserves [lo,hi) on the canonicalized (pos,dir) edge.
func (t *ReservationTable) AddEdge(pos Pos, dir Direction, lo, hi int64) {
	cp, cd := canonicalEdge(pos, dir)
	t.setFor(OccKey{Pos: cp, Dir: cd}).Add(lo, hi)
}

// RemoveEdge releases [lo,hi) from the canonicalized (pos,dir) edge.
func (t *ReservationTable) RemoveEdge(pos Pos, dir Direction, lo, hi int64) {
	cp, cd := canonicalEdge(pos, dir)
	t.setFor(OccKey{Pos: cp, Dir: cd}).Remove(lo, hi)
}

// NodeIntersects reports whether pos's node occupancy overlaps [lo,hi).
func (t *ReservationTable) NodeIntersects(pos Pos, lo, hi int64) bool {
	s, ok := t.sets[OccKey{Pos: pos, Dir: None}]
	return ok && s.Intersects(lo, hi)
}

// EdgeIntersects reports whether the canonicalized (pos,dir) edge overlaps
// [lo,hi).
func (t *ReservationTable) EdgeIntersects(pos Pos, dir Direction, lo, hi int64) bool {
	cp, cd := canonicalEdge(pos, dir)
	s, ok := t.sets[OccKey{Pos: cp, Dir: cd}]
	return ok && s.Intersects(lo, hi)
}

// NodeFreeCovering returns the maximal free node interval at pos covering
// [start,end).
func (t *ReservationTable) NodeFreeCovering(pos Pos, start, end int64) (int64, int64) {
	return t.setFor(OccKey{Pos: pos, Dir: None}).FreeIntervalCovering(start, end)
}

// NodeFirstFreeFrom returns the smallest t >= start with [t,t+dur) free on
// pos's node occupancy.
func (t *ReservationTable) NodeFirstFreeFrom(pos Pos, start, dur int64) int64 {
	return t.setFor(OccKey{Pos: pos, Dir: None}).FirstFreeFrom(start, dur)
}

// EdgeFirstFreeFrom returns the smallest t >= start with [t,t+dur) free on
// the canonicalized (pos,dir) edge.
func (t *ReservationTable) EdgeFirstFreeFrom(pos Pos, dir Direction, start, dur int64) int64 {
	cp, cd := canonicalEdge(pos, dir)
	return t.setFor(OccKey{Pos: cp, Dir: cd}).FirstFreeFrom(start, dur)
}

// NodeLastUpperBound returns the Hi of the last stored node-occupancy
// interval at pos, used by the solver's wait-flag and delayed-depart
// logic to detect "something schedules this cell later" (spec §4.4).
func (t *ReservationTable) NodeLastUpperBound(pos Pos) (int64, bool) {
	s, ok := t.sets[OccKey{Pos: pos, Dir: None}]
	if !ok {
		return 0, false
	}
	return s.LastUpperBound()
}

// EdgeLastUpperBound returns the Hi of the last stored interval on the
// canonicalized (pos,dir) edge, used alongside NodeLastUpperBound by the
// solver's wait-flag heuristic.
func (t *ReservationTable) EdgeLastUpperBound(pos Pos, dir Direction) (int64, bool) {
	cp, cd := canonicalEdge(pos, dir)
	s, ok := t.sets[OccKey{Pos: cp, Dir: cd}]
	if !ok {
		return 0, false
	}
	return s.LastUpperBound()
}

// Snapshot returns a deep copy keyed identically, used by the guard
// (internal/manager) and by determinism/idempotence property tests to
// compare table state before and after a probe.
func (t *ReservationTable) Snapshot() map[OccKey][]Interval {
	out := make(map[OccKey][]Interval, len(t.sets))
	for k, s := range t.sets {
		if s.Empty() {
			continue
		}
		out[k] = s.Intervals()
	}
	return out
}

// EqualSnapshot compares a snapshot taken earlier against the table's
// current state.
func (t *ReservationTable) EqualSnapshot(snap map[OccKey][]Interval) bool {
	cur := t.Snapshot()
	if len(cur) != len(snap) {
		return false
	}
	for k, ivs := range snap {
		other, ok := cur[k]
		if !ok || len(other) != len(ivs) {
			return false
		}
		for i := range ivs {
			if ivs[i] != other[i] {
				return false
			}
		}
	}
	return true
}
