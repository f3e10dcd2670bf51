package reverse

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rebryant/cpogcheck/internal/pog"
	"github.com/rebryant/cpogcheck/z"
)

// buildAndRoot constructs a 2-variable POG with a single PRODUCT root node
// (3 = AND(1, 2)), matching the shape cpog_add_product emits.
func buildAndRoot() *pog.Arena {
	a := pog.New(3)
	n := a.NewNode(pog.Product, 3, 100)
	n.Children = []z.Lit{z.Var(1).Pos(), z.Var(2).Pos()}
	return a
}

func TestRunInputCertifiesImpliedClause(t *testing.T) {
	a := buildAndRoot()
	eng := Build(a, 2, 3)
	p := eng.NewPropagator()

	err := p.RunInput(a, 1, []z.Lit{z.Var(1).Pos(), z.Var(2).Pos()})
	require.NoError(t, err)
	require.Equal(t, int64(1), p.ImplicitDeletions())
}

func TestRunInputFailsForUnrelatedClause(t *testing.T) {
	a := pog.New(4) // variables 1-3 unused by any node; node id 4 never built
	eng := Build(a, 3, 4)
	p := eng.NewPropagator()

	err := p.RunInput(a, 1, []z.Lit{z.Var(1).Pos()})
	require.Error(t, err)
}

func TestSumNodeRequiresBothEvents(t *testing.T) {
	a := pog.New(3)
	n := a.NewNode(pog.Sum, 3, 100)
	n.Children = []z.Lit{z.Var(1).Pos(), z.Var(2).Pos()}
	eng := Build(a, 2, 3)
	p := eng.NewPropagator()

	// Only literal 1 appears in the deleted clause: a SUM node needs
	// both children falsified (threshold == len(children)) before it is
	// forced, so this alone must not certify the deletion.
	err := p.RunInput(a, 1, []z.Lit{z.Var(1).Pos()})
	require.Error(t, err)
}
