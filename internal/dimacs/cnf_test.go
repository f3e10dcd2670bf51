package dimacs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rebryant/cpogcheck/z"
)

func TestReadCNFBasic(t *testing.T) {
	src := "c a comment\np cnf 3 2\n1 -2 0\n2 3 0\n"
	cnf, err := ReadCNF(strings.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, int32(3), cnf.VarCount)
	require.Equal(t, int32(2), cnf.ClauseCount)
	require.Equal(t, [][]z.Lit{
		{z.Var(1).Pos(), z.Var(2).Neg()},
		{z.Var(2).Pos(), z.Var(3).Pos()},
	}, cnf.Clauses)
	require.False(t, cnf.IsPKC)
}

func TestReadCNFProjectedWithShow(t *testing.T) {
	src := "c t pmc\np cnf 4 1\nc p show 1 2 0\n1 2 3 4 0\n"
	cnf, err := ReadCNF(strings.NewReader(src))
	require.NoError(t, err)
	require.True(t, cnf.IsPKC)
	require.Equal(t, []bool{true, true, false, false}, cnf.ShowVars)
}

func TestReadCNFClauseCountMismatch(t *testing.T) {
	src := "p cnf 2 2\n1 2 0\n"
	_, err := ReadCNF(strings.NewReader(src))
	require.Error(t, err)
}

func TestReadCNFShowVariableOutOfRange(t *testing.T) {
	src := "p cnf 2 1\nc p show 9 0\n1 2 0\n"
	_, err := ReadCNF(strings.NewReader(src))
	require.Error(t, err)
}
