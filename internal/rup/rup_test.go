package rup

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rebryant/cpogcheck/internal/store"
	"github.com/rebryant/cpogcheck/z"
)

func clause(s *store.Store, cid int32, typ store.Type, lits ...z.Lit) {
	s.Start(cid)
	for _, m := range lits {
		s.PushLiteral(m)
	}
	s.Finish(cid, typ)
}

func TestSetupDetectsTautology(t *testing.T) {
	e := New()
	require.False(t, e.Setup([]z.Lit{z.Var(1).Pos(), z.Var(1).Neg()}))
}

func TestPropagateUnit(t *testing.T) {
	s := store.New()
	clause(s, 1, store.INPUT, z.Var(1).Pos(), z.Var(2).Pos())

	e := New()
	// Proving unit clause (2): assume its negation, -2, is true.
	require.True(t, e.Setup([]z.Lit{z.Var(2).Pos()}))
	loc, _ := s.Find(1)
	result, unit := e.Propagate(s, loc)
	require.Equal(t, Unit, result)
	require.Equal(t, z.Var(1).Pos(), unit)
}

func TestPropagateConflict(t *testing.T) {
	s := store.New()
	clause(s, 1, store.INPUT, z.Var(1).Pos())

	e := New()
	// Proving unit clause (1): assume its negation, -1, is true; the
	// hint clause (1) is then fully falsified.
	require.True(t, e.Setup([]z.Lit{z.Var(1).Pos()}))
	loc, _ := s.Find(1)
	result, _ := e.Propagate(s, loc)
	require.Equal(t, Conflict, result)
}

func TestPropagateStallOnSatisfiedClause(t *testing.T) {
	s := store.New()
	clause(s, 1, store.INPUT, z.Var(1).Pos(), z.Var(2).Pos())

	e := New()
	require.True(t, e.Setup([]z.Lit{z.Var(3).Pos()}))
	require.True(t, e.AddUnit(z.Var(1).Pos()))
	loc, _ := s.Find(1)
	result, _ := e.Propagate(s, loc)
	require.Equal(t, Stall, result)
}

func TestTypeCompatibleTable(t *testing.T) {
	require.True(t, TypeCompatible(store.TSEITIN, store.INPUT))
	require.True(t, TypeCompatible(store.FORWARD, store.ROOT))
	require.False(t, TypeCompatible(store.FORWARD, store.INPUT))
	require.True(t, TypeCompatible(store.INPUT, store.FORWARD))
	require.True(t, TypeCompatible(store.SKOLEM, store.INPUT))
	require.False(t, TypeCompatible(store.SKOLEM, store.FORWARD))
	require.True(t, TypeCompatible(store.STRUCTURAL, store.STRUCTURAL))
	require.False(t, TypeCompatible(store.UNKNOWN, store.INPUT))
}
