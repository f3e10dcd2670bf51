// Package rup implements reverse unit propagation, used to validate
// clause additions and sum-node mutual-exclusion proofs against their
// hint lists, and to detect tautological clauses. Implicit deletion of
// input clauses is handled separately by the reverse package.
package rup

import (
	"fmt"

	"github.com/rebryant/cpogcheck/internal/litset"
	"github.com/rebryant/cpogcheck/internal/store"
	"github.com/rebryant/cpogcheck/z"
)

// Result classifies the outcome of propagating a single hint clause.
type Result int

const (
	// Unit means the hint clause reduced to exactly one undetermined
	// literal, which should now be added to the working set.
	Unit Result = iota
	// Conflict means every literal of the hint clause is already false.
	Conflict
	// Stall means the hint clause did not become unit or conflicting
	// under the current assignment (not a valid hint at this point).
	Stall
)

// Engine drives reverse unit propagation against one target clause at a
// time. It is not safe for concurrent use by multiple goroutines.
type Engine struct {
	set *litset.Set
}

// New returns a fresh Engine.
func New() *Engine {
	return &Engine{set: litset.New()}
}

// Setup clears the working set and seeds it with the negation of every
// literal in lits (the target clause being proved). Returns false if
// lits is internally contradictory (making it trivially satisfied, i.e.
// a tautology), mirroring rup_setup's reported conflict.
func (e *Engine) Setup(lits []z.Lit) bool {
	e.set.Clear()
	for _, m := range lits {
		if !e.set.Add(m.Not()) {
			return false
		}
	}
	return true
}

// AddUnit adds a derived unit literal to the working set.
func (e *Engine) AddUnit(m z.Lit) bool {
	return e.set.Add(m)
}

// Contains reports whether m is in the working set.
func (e *Engine) Contains(m z.Lit) bool {
	return e.set.Contains(m)
}

// Literals returns the working set's contents, for diagnostics.
func (e *Engine) Literals() []z.Lit {
	return e.set.Literals()
}

// Propagate evaluates the clause at loc under the current working set.
// It returns Conflict if every literal is false, Unit (with the
// surviving literal) if exactly one literal is undetermined and the rest
// false, or Stall otherwise (including when the clause is already
// satisfied by the set, or has more than one undetermined literal).
func (e *Engine) Propagate(s *store.Store, loc store.Loc) (Result, z.Lit) {
	lits := s.LiteralsAt(loc)
	var unit z.Lit
	haveUnit := false
	for _, m := range lits {
		if m == unit && haveUnit {
			continue // repeated literal
		}
		r := e.set.Get(m.Var())
		if r == m {
			return Stall, 0 // clause already satisfied by the set
		} else if r == m.Not() {
			continue // false under the set
		} else if !haveUnit {
			unit = m
			haveUnit = true
		} else {
			return Stall, 0 // more than one undetermined literal
		}
	}
	if !haveUnit {
		return Conflict, 0
	}
	return Unit, unit
}

// TypeCompatible reports whether a hint clause of type hint may be used
// to justify a target clause of type target, per the legality table: the
// proof's trust boundary only allows hints to move "toward" clauses of
// equal or lesser-trusted provenance.
func TypeCompatible(hint, target store.Type) bool {
	switch hint {
	case store.TSEITIN:
		return true
	case store.FORWARD:
		return target == store.FORWARD || target == store.ROOT
	case store.INPUT:
		return target == store.FORWARD || target == store.ROOT || target == store.INPUT
	case store.SKOLEM, store.ROOT:
		return target == store.INPUT
	case store.STRUCTURAL, store.DISABLE:
		return target == store.FORWARD || target == store.ROOT || target == store.STRUCTURAL
	default:
		return false
	}
}

// ErrNoConflict is returned by a caller-driven RUP run that exhausts its
// hint list without reaching a conflict.
type ErrNoConflict struct {
	TargetCID int32
}

func (e *ErrNoConflict) Error() string {
	return fmt.Sprintf("RUP failure for clause %d: no conflict on final hint", e.TargetCID)
}
