// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package z

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVar(t *testing.T) {
	v := Var(33)
	m := v.Pos()
	n := v.Neg()
	require.Equal(t, 1, m.Sign())
	require.Equal(t, -1, n.Sign())
	require.Equal(t, n, m.Not())
	require.Equal(t, v, m.Var())
	require.Equal(t, v, n.Var())
	require.Equal(t, fmt.Sprintf("v%d", uint32(v)), v.String())
}

func TestLitDimacs(t *testing.T) {
	for i := 1; i < 100; i++ {
		require.Equal(t, i, Dimacs2Lit(i).Dimacs())
		require.Equal(t, -i, Dimacs2Lit(-i).Dimacs())
		require.True(t, Dimacs2Lit(i).IsPos())
		require.False(t, Dimacs2Lit(-i).IsPos())
	}
}

func TestLitNull(t *testing.T) {
	require.Equal(t, "litnull", LitNull.String())
}
