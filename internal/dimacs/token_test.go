package dimacs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenizerBasicSequence(t *testing.T) {
	tk := NewTokenizer(strings.NewReader("a -12 * \n"))
	require.Equal(t, Token{Kind: String, Text: "a"}, tk.Next())
	require.Equal(t, Token{Kind: Int, Int: -12, Text: "-12"}, tk.Next())
	require.Equal(t, Token{Kind: Star, Text: "*"}, tk.Next())
	require.Equal(t, Token{Kind: EOL}, tk.Next())
	require.Equal(t, Token{Kind: EOF}, tk.Next())
}

func TestTokenizerConfirmEOL(t *testing.T) {
	tk := NewTokenizer(strings.NewReader("1 0\n"))
	tk.Next()
	tk.Next()
	require.NoError(t, tk.ConfirmEOL())
}

func TestTokenizerConfirmEOLFailure(t *testing.T) {
	tk := NewTokenizer(strings.NewReader("1 2\n"))
	tk.Next()
	require.Error(t, tk.ConfirmEOL())
}

func TestTokenizerFindEOLSkipsRestOfLine(t *testing.T) {
	tk := NewTokenizer(strings.NewReader("garbage tokens here\nnext\n"))
	tk.FindEOL()
	require.Equal(t, Token{Kind: String, Text: "next"}, tk.Next())
}

func TestTokenizerLineCounting(t *testing.T) {
	tk := NewTokenizer(strings.NewReader("a\nb\nc"))
	require.Equal(t, 0, tk.Line())
	tk.Next() // a
	tk.Next() // EOL
	require.Equal(t, 1, tk.Line())
}
