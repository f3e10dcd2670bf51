package checker

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunNoCPOGIsNothingChecked(t *testing.T) {
	c := New(DefaultOptions(), io.Discard)
	res, err := c.Run(strings.NewReader("p cnf 1 1\n1 0\n"), nil, nil)
	require.NoError(t, err)
	require.Equal(t, NothingChecked, res.Outcome)
}

// TestRunRootUnitClauseSucceeds exercises the common root-detection path:
// a declared root of 1 is certified by adding the unit clause (1) via RUP
// against the original input clause, then the input clause is explicitly
// deleted so the implicit-deletion engine never has to run.
func TestRunRootUnitClauseSucceeds(t *testing.T) {
	cnf := "p cnf 1 1\n1 0\n"
	cpog := "r 1\n2 a 1 0 1 0\nd 1\n"

	c := New(DefaultOptions(), io.Discard)
	res, err := c.Run(strings.NewReader(cnf), strings.NewReader(cpog), nil)
	require.NoError(t, err)
	require.Equal(t, FullProofSuccess, res.Outcome)
	require.EqualValues(t, 1, res.Root)
	require.NotNil(t, res.Regular)
	require.Equal(t, "1", res.Regular.String())
}

// TestRunUnsatDerivesEmptyClause exercises the unsatisfiable-root path: the
// root literal is declared 0, and the empty clause is derived by RUP
// against the two complementary input clauses.
func TestRunUnsatDerivesEmptyClause(t *testing.T) {
	cnf := "p cnf 1 2\n1 0\n-1 0\n"
	cpog := "r 0\n3 a 0 1 2 0\n"

	c := New(DefaultOptions(), io.Discard)
	res, err := c.Run(strings.NewReader(cnf), strings.NewReader(cpog), nil)
	require.NoError(t, err)
	require.Equal(t, FullProofSuccessUnsat, res.Outcome)
	require.EqualValues(t, 0, res.Root)
	require.NotNil(t, res.Regular)
	require.Equal(t, "0", res.Regular.String())
}

// TestRunUnsatDeclaredWithoutProofFails checks that declaring root 0
// without ever deriving the empty clause is rejected rather than silently
// accepted.
func TestRunUnsatDeclaredWithoutProofFails(t *testing.T) {
	cnf := "p cnf 1 1\n1 0\n"
	cpog := "r 0\n"

	c := New(DefaultOptions(), io.Discard)
	_, err := c.Run(strings.NewReader(cnf), strings.NewReader(cpog), nil)
	require.Error(t, err)
}
