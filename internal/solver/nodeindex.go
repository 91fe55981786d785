package solver

import "sort"

// cellIndex is the per-cell ordered index of every virtual node (open or
// closed) created at one grid cell during a search, sorted by LeaveTime.
// The dominance check is a binary search plus a walk over the k nodes in
// range, O(log n + k); the purge walk, insert and remove are linear in
// the cell's node count (spec §4.4 steps 3-4; §9 "Dominance index" — a
// slice-backed ordered index rather than a balanced tree, adequate at the
// node counts this planner explores).
type cellIndex struct {
	nodes []*VirtualNode
}

func (c *cellIndex) insert(n *VirtualNode) {
	i := sort.Search(len(c.nodes), func(i int) bool { return c.nodes[i].LeaveTime >= n.LeaveTime })
	c.nodes = append(c.nodes, nil)
	copy(c.nodes[i+1:], c.nodes[i:])
	c.nodes[i] = n
}

func (c *cellIndex) remove(n *VirtualNode) {
	for i, m := range c.nodes {
		if m == n {
			c.nodes = append(c.nodes[:i], c.nodes[i+1:]...)
			return
		}
	}
}

// dominates reports whether an existing node (open or closed) already
// covers [leaveLo, leaveHi] with Checkpoint >= ckpt and no child — such a
// node reaches the goal no later and no less progressed, so the
// candidate is redundant (spec §4.4 step 3).
func (c *cellIndex) dominates(leaveLo, leaveHi int64, ckpt int) bool {
	lo := sort.Search(len(c.nodes), func(i int) bool { return c.nodes[i].LeaveTime >= leaveLo })
	for i := lo; i < len(c.nodes) && c.nodes[i].LeaveTime <= leaveHi; i++ {
		m := c.nodes[i]
		if m.Checkpoint >= ckpt && !m.HasChild {
			return true
		}
	}
	return false
}

// purge removes and returns every OPEN node with LeaveTime strictly
// between afterLeave and beforeLeave, Checkpoint <= ckpt, and no child —
// nodes the candidate being inserted now dominates (spec §4.4 step 4).
// The caller must also remove the returned nodes from the open heap.
func (c *cellIndex) purge(afterLeave, beforeLeave int64, ckpt int) []*VirtualNode {
	var removed []*VirtualNode
	kept := c.nodes[:0]
	for _, m := range c.nodes {
		if m.IsOpen && m.LeaveTime > afterLeave && m.LeaveTime < beforeLeave && m.Checkpoint <= ckpt && !m.HasChild {
			removed = append(removed, m)
			continue
		}
		kept = append(kept, m)
	}
	c.nodes = kept
	return removed
}
