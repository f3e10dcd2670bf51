package litset

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rebryant/cpogcheck/z"
)

func TestAddAndContains(t *testing.T) {
	s := New()
	require.True(t, s.Add(z.Var(1).Pos()))
	require.True(t, s.Contains(z.Var(1).Pos()))
	require.False(t, s.Contains(z.Var(1).Neg()))
}

func TestAddConflict(t *testing.T) {
	s := New()
	require.True(t, s.Add(z.Var(3).Pos()))
	require.False(t, s.Add(z.Var(3).Neg()))
}

func TestAddIdempotent(t *testing.T) {
	s := New()
	require.True(t, s.Add(z.Var(2).Neg()))
	require.True(t, s.Add(z.Var(2).Neg()))
}

func TestClearResets(t *testing.T) {
	s := New()
	require.True(t, s.Add(z.Var(5).Pos()))
	s.Clear()
	require.False(t, s.Contains(z.Var(5).Pos()))
	require.True(t, s.Add(z.Var(5).Neg()))
}

func TestLiteralsOrdered(t *testing.T) {
	s := New()
	s.Add(z.Var(4).Neg())
	s.Add(z.Var(1).Pos())
	s.Add(z.Var(2).Pos())
	got := s.Literals()
	require.Equal(t, []z.Lit{z.Var(1).Pos(), z.Var(2).Pos(), z.Var(4).Neg()}, got)
}

func TestGetAbsentVariable(t *testing.T) {
	s := New()
	require.Equal(t, z.LitNull, s.Get(z.Var(100)))
}
