package dimacs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadWeightsAbsent(t *testing.T) {
	src := "p cnf 2 1\n1 2 0\n"
	w, ok, err := ReadWeights(strings.NewReader(src), 2)
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, w)
}

func TestReadWeightsBothPolarities(t *testing.T) {
	src := "c t wmc\np cnf 1 1\nc p weight 1 0.3 0\nc p weight -1 0.7 0\n1 0\n"
	w, ok, err := ReadWeights(strings.NewReader(src), 1)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotNil(t, w.Positive[0])
	require.NotNil(t, w.Negative[0])
	require.Equal(t, "3/10", w.Positive[0].String())
	require.Equal(t, "7/10", w.Negative[0].String())
}

func TestReadWeightsBeforeHeader(t *testing.T) {
	src := "c t wmc\nc p weight 1 0.25 0\np cnf 1 1\n1 0\n"
	w, ok, err := ReadWeights(strings.NewReader(src), 1)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotNil(t, w.Positive[0])
	require.Equal(t, "1/4", w.Positive[0].String())
}

func TestReadWeightsOutOfRangeLiteral(t *testing.T) {
	src := "c t wmc\np cnf 1 1\nc p weight 5 0.5 0\n1 0\n"
	_, _, err := ReadWeights(strings.NewReader(src), 1)
	require.Error(t, err)
}
