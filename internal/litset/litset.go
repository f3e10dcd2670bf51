// Package litset implements a generation-stamped literal set, used by the
// RUP engine to record the complement of a target clause (and any
// literals derived from unit propagation) without having to clear a map
// on every call.
//
// The generation counter is bumped on every Clear; an entry is only
// considered live if its stored generation matches the current one. This
// gives O(1) amortized clear at the cost of an occasional full reset when
// the generation counter wraps.
package litset

import "github.com/rebryant/cpogcheck/z"

// Set holds, for each variable, either no literal, or exactly one of its
// two literals, tagged by a generation stamp.
type Set struct {
	gen  int32
	mark []int32 // mark[v] == gen -> positive in set; == -gen -> negative; else absent
}

// New returns an empty Set.
func New() *Set {
	return &Set{gen: 1}
}

func (s *Set) ensure(v z.Var) {
	if int(v) < len(s.mark) {
		return
	}
	n := int(v) + 1
	if n < 16 {
		n = 16
	}
	grown := make([]int32, n*2)
	copy(grown, s.mark)
	s.mark = grown
}

// Clear empties the set. Amortized O(1); occasionally O(n) on generation
// wraparound.
func (s *Set) Clear() {
	s.gen++
	if s.gen < 0 {
		for i := range s.mark {
			s.mark[i] = 0
		}
		s.gen = 1
	}
}

// Get returns the literal of v currently in the set, or z.LitNull if
// neither polarity is present.
func (s *Set) Get(v z.Var) z.Lit {
	if int(v) >= len(s.mark) {
		return z.LitNull
	}
	g := s.mark[v]
	switch g {
	case s.gen:
		return v.Pos()
	case -s.gen:
		return v.Neg()
	default:
		return z.LitNull
	}
}

// Add attempts to add m to the set. It returns false if the opposite
// literal of the same variable is already present (a conflict), true
// otherwise (including when m was already present).
func (s *Set) Add(m z.Lit) bool {
	v := m.Var()
	s.ensure(v)
	existing := s.Get(v)
	if existing != z.LitNull && existing != m {
		return false
	}
	if m.IsPos() {
		s.mark[v] = s.gen
	} else {
		s.mark[v] = -s.gen
	}
	return true
}

// Contains reports whether the set contains m.
func (s *Set) Contains(m z.Lit) bool {
	return s.Get(m.Var()) == m
}

// Literals returns the set's contents, in increasing variable order, for
// diagnostics.
func (s *Set) Literals() []z.Lit {
	var out []z.Lit
	for v := 1; v < len(s.mark); v++ {
		if m := s.Get(z.Var(v)); m != z.LitNull {
			out = append(out, m)
		}
	}
	return out
}
