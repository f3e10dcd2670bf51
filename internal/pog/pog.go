// Package pog implements the node arena for the Partitioned Operation
// Graph: PRODUCT, SUM, and SKOLEM nodes over input variables and other
// POG nodes, each carrying a disjoint dependency set.
//
// The arena shape (flat node slice, grown on demand) is adapted
// from the gini solver's logic/c.go AND-gate arena (C.nodes, newNode,
// grow). Unlike logic.C, nodes here are never hash-consed: POG node ids
// are assigned externally by the proof file under verification, not
// generated fresh by this package, and a node may have any number of
// children of any of the three node kinds rather than only binary AND.
package pog

import (
	"fmt"
	"sort"

	"github.com/rebryant/cpogcheck/z"
)

// Kind distinguishes the three POG node shapes.
type Kind uint8

const (
	None Kind = iota
	Product
	Sum
	Skolem
)

func (k Kind) String() string {
	switch k {
	case Product:
		return "product"
	case Sum:
		return "sum"
	case Skolem:
		return "skolem"
	default:
		return "none"
	}
}

// Node is one POG operation node. Children are literals: a positive
// literal referring to an input variable denotes that variable directly;
// a literal whose variable is > inputVariableCount refers to another POG
// node (always positive, since POG children must be in NNF).
type Node struct {
	ID       int32
	Kind     Kind
	FirstCID int32 // id of this node's first defining clause
	Children []z.Lit
	Dep      []z.Var // sorted, disjoint-by-construction dependency set
}

// Arena holds nodes indexed by id. Ids are sparse relative to input
// variables (the first POG node id is inputVariableCount+1), so nodes
// are stored offset by that base.
type Arena struct {
	base  int32 // first valid node id (== inputVariableCount+1)
	nodes []Node
}

// New returns an Arena for node ids starting at base.
func New(base int32) *Arena {
	return &Arena{base: base}
}

func (a *Arena) index(id int32) int32 { return id - a.base }

func (a *Arena) ensure(id int32) {
	idx := a.index(id)
	if int(idx) < len(a.nodes) {
		return
	}
	grown := make([]Node, idx+1)
	copy(grown, a.nodes)
	a.nodes = grown
}

// New Node creates and registers a node of the given kind, id and first
// defining clause id.
func (a *Arena) NewNode(kind Kind, id, firstCID int32) *Node {
	a.ensure(id)
	n := &a.nodes[a.index(id)]
	n.ID = id
	n.Kind = kind
	n.FirstCID = firstCID
	return n
}

// Find returns the node with the given id, or nil if none has been
// registered (including ids beyond the current high-water mark).
func (a *Arena) Find(id int32) *Node {
	idx := a.index(id)
	if idx < 0 || int(idx) >= len(a.nodes) {
		return nil
	}
	n := &a.nodes[idx]
	if n.Kind == None {
		return nil
	}
	return n
}

// Len returns one past the highest node id registered (base + count).
func (a *Arena) Len() int32 { return a.base + int32(len(a.nodes)) }

// Base returns the lowest valid node id.
func (a *Arena) Base() int32 { return a.base }

// DepUnion returns the disjoint union of two sorted dependency sets, or
// an error naming the offending variable if they overlap.
func DepUnion(a, b []z.Var) ([]z.Var, error) {
	i, j := 0, 0
	out := make([]z.Var, 0, len(a)+len(b))
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		case b[j] < a[i]:
			out = append(out, b[j])
			j++
		default:
			return nil, fmt.Errorf("dependency sets not disjoint on variable %d", a[i])
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out, nil
}

// SortVars sorts a slice of Vars in place and returns it, for
// constructing dependency sets from locally-collected variable lists.
func SortVars(vs []z.Var) []z.Var {
	sort.Slice(vs, func(i, j int) bool { return vs[i] < vs[j] })
	return vs
}

// FindDuplicate reports the first repeated element in a sorted slice, if
// any.
func FindDuplicate(vs []z.Var) (z.Var, bool) {
	for i := 1; i < len(vs); i++ {
		if vs[i] == vs[i-1] {
			return vs[i], true
		}
	}
	return 0, false
}

// Dedup removes adjacent duplicates from a sorted slice.
func Dedup(vs []z.Var) []z.Var {
	if len(vs) == 0 {
		return vs
	}
	out := vs[:1]
	for _, v := range vs[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
