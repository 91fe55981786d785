package solver

import "container/heap"

// openList is the OPEN priority queue, ordered by (EstimateTime,
// ExtraCost) with an extraCostId tolerance: within extraCostId of each
// other, the tiebreak flips to extraCost-primary (spec §4.4, "Priority
// key"). Implemented with container/heap, the idiom the teacher uses for
// its A* open list (astar.go's astarHeap), generalized to support
// arbitrary removal for the purge step via a tracked heapIndex.
type openList struct {
	items       []*VirtualNode
	extraCostID float64
}

func newOpenList(extraCostID float64) *openList {
	return &openList{extraCostID: extraCostID}
}

func (o *openList) Len() int { return len(o.items) }

func (o *openList) Less(i, j int) bool {
	a, b := o.items[i], o.items[j]

	if o.extraCostID == 0 {
		// mirrors Solver.h:74-76's extraCostId==0 branch: EstimateTime is
		// primary, ExtraCost only breaks an exact tie.
		if a.EstimateTime != b.EstimateTime {
			return a.EstimateTime < b.EstimateTime
		}
		if a.ExtraCost != b.ExtraCost {
			return a.ExtraCost < b.ExtraCost
		}
		return a.seq < b.seq
	}

	diff := a.EstimateTime - b.EstimateTime
	if diff < 0 {
		diff = -diff
	}
	if diff < o.extraCostID {
		if a.ExtraCost != b.ExtraCost {
			return a.ExtraCost < b.ExtraCost
		}
		if a.EstimateTime != b.EstimateTime {
			return a.EstimateTime < b.EstimateTime
		}
		return a.seq < b.seq
	}
	if a.EstimateTime != b.EstimateTime {
		return a.EstimateTime < b.EstimateTime
	}
	return a.seq < b.seq
}

func (o *openList) Swap(i, j int) {
	o.items[i], o.items[j] = o.items[j], o.items[i]
	o.items[i].heapIndex = i
	o.items[j].heapIndex = j
}

func (o *openList) Push(x any) {
	n := x.(*VirtualNode)
	n.heapIndex = len(o.items)
	o.items = append(o.items, n)
}

func (o *openList) Pop() any {
	old := o.items
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.heapIndex = -1
	o.items = old[:n-1]
	return item
}

func (o *openList) push(n *VirtualNode) {
	n.IsOpen = true
	heap.Push(o, n)
}

func (o *openList) popMin() *VirtualNode {
	if o.Len() == 0 {
		return nil
	}
	n := heap.Pop(o).(*VirtualNode)
	n.IsOpen = false
	return n
}

// remove drops n from the heap if it is currently queued; used by the
// purge step (spec §4.4 step 4) to discard dominated OPEN nodes.
func (o *openList) remove(n *VirtualNode) {
	if n.heapIndex < 0 || n.heapIndex >= len(o.items) || o.items[n.heapIndex] != n {
		return
	}
	heap.Remove(o, n.heapIndex)
	n.IsOpen = false
}
