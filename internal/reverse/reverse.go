// Package reverse implements the reverse-implication engine used to
// certify implicit deletion of input clauses: instead of requiring an
// explicit RUP hint list for every deleted input clause, it discovers
// the chain of POG node implications that follow from asserting the
// clause's complement, using fanout adjacency and a saturating event
// counter per node, and declares success once that chain reaches the
// POG's root.
//
// The fanout-array/event-counter/binary-heap design is a direct port of
// the original C checker's build_deletion_structures/process_fanout/
// rup_run_input. The occurrence-list idiom (tracking, per variable, which
// POG nodes mention it) is grounded more generally in the gini solver's
// internal/xo/active.go Occs bookkeeping, generalized here from
// per-clause occurrence lists to per-variable POG-node fanout lists.
package reverse

import (
	"fmt"

	"github.com/rebryant/cpogcheck/internal/pog"
	"github.com/rebryant/cpogcheck/z"
)

// Engine holds the (read-only, shared-across-workers) fanout adjacency
// built once from the completed POG.
type Engine struct {
	inputVarCount int32
	declaredRoot  int32
	// negFanouts[v-1] lists node ids having literal -v as a child, for
	// v in 1..inputVarCount (POG NNF forbids negative node-id children).
	negFanouts [][]int32
	// posFanouts[v-1] lists node ids having literal +v as a child, for v
	// in 1..declaredRoot (v may be an input variable or another node id).
	posFanouts [][]int32
}

// Build constructs the fanout adjacency from every registered POG node.
func Build(arena *pog.Arena, inputVarCount, declaredRoot int32) *Engine {
	e := &Engine{
		inputVarCount: inputVarCount,
		declaredRoot:  declaredRoot,
		negFanouts:    make([][]int32, inputVarCount),
		posFanouts:    make([][]int32, declaredRoot),
	}
	for id := arena.Base(); id < arena.Len(); id++ {
		n := arena.Find(id)
		if n == nil {
			continue
		}
		for _, clit := range n.Children {
			v := int32(clit.Var())
			if clit.IsPos() {
				e.posFanouts[v-1] = append(e.posFanouts[v-1], id)
			} else {
				e.negFanouts[v-1] = append(e.negFanouts[v-1], id)
			}
		}
	}
	return e
}

// saturating event counter max; matches plusplus_max2's cap of 2.
const eventCap = 2

// Propagator is per-worker mutable state for running reverse implication;
// each concurrent worker in the deletion pool owns its own Propagator so
// that no locking is needed during propagation itself.
type Propagator struct {
	eng          *Engine
	heap         []int32
	eventCount   []uint8 // indexed by id - (inputVarCount+1)
	events       int64
	implicitDels int64
}

// NewPropagator returns a fresh Propagator sharing e's fanout tables.
func (e *Engine) NewPropagator() *Propagator {
	return &Propagator{
		eng:        e,
		eventCount: make([]uint8, e.declaredRoot-e.inputVarCount),
	}
}

// Events returns the number of heap-pop propagation events processed so
// far by this propagator.
func (p *Propagator) Events() int64 { return p.events }

// ImplicitDeletions returns how many input clauses this propagator has
// certified for implicit deletion.
func (p *Propagator) ImplicitDeletions() int64 { return p.implicitDels }

func (p *Propagator) reset() {
	for _, id := range p.heap {
		idx := id - (p.eng.inputVarCount + 1)
		p.eventCount[idx] = 0
	}
	p.heap = p.heap[:0]
}

func (p *Propagator) bump(idx int32) int {
	c := p.eventCount[idx]
	if c < eventCap {
		p.eventCount[idx]++
	}
	return int(c)
}

func (p *Propagator) siftUp(idx int) {
	for idx > 0 {
		parent := (idx - 1) / 2
		if p.heap[idx] < p.heap[parent] {
			p.heap[idx], p.heap[parent] = p.heap[parent], p.heap[idx]
			idx = parent
		} else {
			return
		}
	}
}

func (p *Propagator) siftDown(idx int) {
	for {
		left := 2*idx + 1
		if left >= len(p.heap) {
			return
		}
		min := idx
		if p.heap[left] < p.heap[min] {
			min = left
		}
		right := left + 1
		if right < len(p.heap) && p.heap[right] < p.heap[min] {
			min = right
		}
		if min == idx {
			return
		}
		p.heap[min], p.heap[idx] = p.heap[idx], p.heap[min]
		idx = min
	}
}

func (p *Propagator) priorityAdd(id int32) {
	idx := id - (p.eng.inputVarCount + 1)
	if p.bump(int32(idx)) == 0 {
		p.heap = append(p.heap, id)
		p.siftUp(len(p.heap) - 1)
	}
}

func (p *Propagator) priorityNext() int32 {
	if len(p.heap) == 0 {
		return -1
	}
	id := p.heap[0]
	last := len(p.heap) - 1
	p.heap[0] = p.heap[last]
	p.heap = p.heap[:last]
	if len(p.heap) > 0 {
		p.siftDown(0)
	}
	p.events++
	return id
}

// processFanout enqueues every node affected by literal lit becoming
// true (its complement becoming false): if lit < 0, nodes that had
// +|lit| as a child; otherwise, nodes that had -lit as a child.
func (p *Propagator) processFanout(lit int32) {
	var fanouts []int32
	v := lit
	if v < 0 {
		v = -v
	}
	if lit < 0 {
		if v-1 < int32(len(p.eng.posFanouts)) {
			fanouts = p.eng.posFanouts[v-1]
		}
	} else {
		if v-1 < int32(len(p.eng.negFanouts)) {
			fanouts = p.eng.negFanouts[v-1]
		}
	}
	for _, id := range fanouts {
		p.priorityAdd(id)
	}
}

// RunInput attempts to certify that the input clause with the given
// literals is implied by the POG graph, by asserting each of its
// literals false and following reverse implication until the root node
// is forced. It returns an error if propagation dies out without
// reaching the root.
func (p *Propagator) RunInput(arena *pog.Arena, tcid int32, lits []z.Lit) error {
	for _, m := range lits {
		p.processFanout(-int32(m.Dimacs()))
	}
	conflict := false
	for !conflict {
		id := p.priorityNext()
		if id <= 0 {
			break
		}
		idx := id - (p.eng.inputVarCount + 1)
		n := arena.Find(id)
		if n == nil {
			continue
		}
		ecount := int(p.eventCount[idx])
		p.eventCount[idx] = 0
		threshold := 1
		if n.Kind == pog.Sum {
			threshold = len(n.Children)
		}
		if ecount >= threshold {
			if id == p.eng.declaredRoot {
				conflict = true
			}
			p.processFanout(-id)
		}
	}
	p.reset()
	if !conflict {
		return fmt.Errorf("implicit deletion failed for input clause %d: reverse implication did not reach the root", tcid)
	}
	p.implicitDels++
	return nil
}
