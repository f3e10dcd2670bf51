package q25

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromIntString(t *testing.T) {
	v := FromInt(7)
	require.True(t, v.IsValid())
	require.Equal(t, "7", v.String())
}

func TestAddBasic(t *testing.T) {
	a := FromInt(3)
	b := FromInt(4)
	require.Equal(t, "7", Add(a, b).String())
}

func TestMulBasic(t *testing.T) {
	a := FromInt(6)
	b := FromInt(7)
	require.Equal(t, "42", Mul(a, b).String())
}

func TestOneMinus(t *testing.T) {
	half, err := FromDecimalString("0.5")
	require.NoError(t, err)
	require.True(t, OneMinus(half).IsValid())
	require.Equal(t, "1/2", OneMinus(half).String())
}

func TestRecipOfTwo(t *testing.T) {
	two := FromInt(2)
	half := Recip(two)
	require.True(t, half.IsValid())
	require.True(t, Mul(half, two).IsOne())
}

func TestScalePow2(t *testing.T) {
	one := FromInt(1)
	require.Equal(t, "4", ScalePow2(one, 2).String())
}

func TestIsZero(t *testing.T) {
	require.True(t, FromInt(0).IsZero())
	require.False(t, FromInt(1).IsZero())
}

func TestInvalidPropagates(t *testing.T) {
	zero := FromInt(0)
	inv := Recip(zero)
	require.False(t, inv.IsValid())
	require.False(t, Add(inv, FromInt(1)).IsValid())
}

func TestReadWriteRoundTrip(t *testing.T) {
	r := strings.NewReader("0.25 ")
	v, err := Read(r)
	require.NoError(t, err)
	require.True(t, v.IsValid())

	var sb strings.Builder
	require.NoError(t, Write(v, &sb))
	require.Equal(t, "1/4", sb.String())
}

func TestFromDecimalStringRejectsGarbage(t *testing.T) {
	_, err := FromDecimalString("not-a-number")
	require.Error(t, err)
}
