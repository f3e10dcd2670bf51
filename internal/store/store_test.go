package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rebryant/cpogcheck/z"
)

func addClause(t *testing.T, s *Store, cid int32, typ Type, lits ...z.Lit) {
	t.Helper()
	require.NoError(t, s.Start(cid))
	for _, m := range lits {
		s.PushLiteral(m)
	}
	require.NoError(t, s.Finish(cid, typ))
}

func TestFindRoundTrip(t *testing.T) {
	s := New()
	addClause(t, s, 1, INPUT, z.Var(1).Pos(), z.Var(2).Neg())
	addClause(t, s, 2, INPUT, z.Var(2).Pos())

	loc, ok := s.Find(1)
	require.True(t, ok)
	require.Equal(t, int32(1), s.ID(loc))
	require.Equal(t, INPUT, s.TypeAt(loc))
	require.Equal(t, []z.Lit{z.Var(1).Pos(), z.Var(2).Neg()}, s.LiteralsAt(loc))

	_, ok = s.Find(3)
	require.False(t, ok)
}

func TestDeleteMarksHole(t *testing.T) {
	s := New()
	addClause(t, s, 1, FORWARD, z.Var(1).Pos())
	loc, ok := s.Find(1)
	require.True(t, ok)
	require.True(t, s.Delete(loc))
	require.False(t, s.Delete(loc))
	require.Nil(t, s.LiteralsAt(loc))
	require.Equal(t, UNKNOWN, s.TypeAt(loc))
}

func TestGapAcrossIds(t *testing.T) {
	s := New()
	addClause(t, s, 1, INPUT, z.Var(1).Pos())
	addClause(t, s, 5, TSEITIN, z.Var(2).Pos())

	gapLoc, ok := s.Find(3)
	require.True(t, ok)
	require.Equal(t, UNKNOWN, s.TypeAt(gapLoc))
	require.Nil(t, s.LiteralsAt(gapLoc))

	loc, ok := s.Find(5)
	require.True(t, ok)
	require.Equal(t, TSEITIN, s.TypeAt(loc))
}

func TestNextIteratesInOrder(t *testing.T) {
	s := New()
	addClause(t, s, 1, INPUT, z.Var(1).Pos())
	addClause(t, s, 2, INPUT, z.Var(2).Pos())
	addClause(t, s, 200, TSEITIN, z.Var(3).Pos())

	loc, ok := s.First()
	require.True(t, ok)
	var ids []int32
	for ok {
		ids = append(ids, s.ID(loc))
		loc, ok = s.Next(loc)
	}
	require.Equal(t, []int32{1, 2, 200}, ids)
}

func TestStartRejectsNonIncreasingIds(t *testing.T) {
	s := New()
	addClause(t, s, 5, INPUT, z.Var(1).Pos())
	require.Error(t, s.Start(5))
	require.Error(t, s.Start(4))
}

func TestFreeNonInputTruncates(t *testing.T) {
	s := New()
	addClause(t, s, 1, INPUT, z.Var(1).Pos())
	addClause(t, s, 2, INPUT, z.Var(2).Pos())
	addClause(t, s, 3, TSEITIN, z.Var(3).Pos())
	addClause(t, s, 4, TSEITIN, z.Var(3).Neg())

	s.FreeNonInput(2)

	loc, ok := s.Find(2)
	require.True(t, ok)
	require.Equal(t, INPUT, s.TypeAt(loc))
	_, ok = s.Find(3)
	require.False(t, ok)
}
