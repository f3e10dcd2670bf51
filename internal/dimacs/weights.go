package dimacs

import (
	"fmt"
	"io"

	"github.com/rebryant/cpogcheck/internal/q25"
)

// Weights holds per-literal weights read from a `c t wmc|pwmc` annotated
// CNF file, one positive and one negative weight per variable (either may
// be absent).
type Weights struct {
	VarCount int32
	Positive []*q25.Value // indexed by var-1
	Negative []*q25.Value
}

// ReadWeights scans an already-opened CNF stream for a `c t wmc|pwmc` tag
// and `c p weight LIT VALUE 0` directives. Both are preamble comments and
// may appear anywhere in the file relative to the `p cnf` header — MCC
// inputs commonly place weights before it — so the whole stream is
// scanned in one pass rather than stopping at the header. It returns
// ok=false (no error) if the file never declares itself as a weighted
// counting problem, matching cnf_read_weights's early return.
func ReadWeights(r io.Reader, varCount int32) (w *Weights, ok bool, err error) {
	t := NewTokenizer(r)
	foundWMC := false
	w = &Weights{
		VarCount: varCount,
		Positive: make([]*q25.Value, varCount),
		Negative: make([]*q25.Value, varCount),
	}
	for {
		tok := t.Next()
		switch tok.Kind {
		case EOF:
			if !foundWMC {
				return nil, false, nil
			}
			return w, true, nil
		case EOL:
			continue
		case String:
			if tok.Text != "c" {
				t.FindEOL()
				continue
			}
			tag, isWeight, err := peekCommentKind(t)
			if err != nil {
				return nil, false, err
			}
			if tag {
				foundWMC = true
				continue
			}
			if isWeight {
				if err := finishWeightLine(t, w); err != nil {
					return nil, false, err
				}
				continue
			}
			t.FindEOL()
		default:
			t.FindEOL()
		}
	}
}

// peekCommentKind reads the second token of a `c` comment line to
// classify it as a `c t wmc|pwmc` tag or a `c p weight` directive. For a
// `c p weight` line, the `p` and `weight` tokens are consumed and the
// caller continues by reading the literal and value; any other comment
// is left for the caller to discard with FindEOL.
func peekCommentKind(t *Tokenizer) (isTag, isWeight bool, err error) {
	a := t.Next()
	if a.Kind != String {
		t.FindEOL()
		return false, false, nil
	}
	switch a.Text {
	case "t":
		b := t.Next()
		if b.Kind == String && (b.Text == "wmc" || b.Text == "pwmc") {
			t.FindEOL()
			return true, false, nil
		}
		t.FindEOL()
		return false, false, nil
	case "p":
		b := t.Next()
		if b.Kind == String && b.Text == "weight" {
			return false, true, nil
		}
		t.FindEOL()
		return false, false, nil
	default:
		t.FindEOL()
		return false, false, nil
	}
}

// finishWeightLine parses the remainder of a `c p weight LIT VALUE 0`
// line; the `c`, `p`, and `weight` tokens have already been consumed by
// peekCommentKind.
func finishWeightLine(t *Tokenizer, w *Weights) error {
	lit := t.Next()
	if lit.Kind != Int {
		t.FindEOL()
		return nil
	}
	if !t.SkipSpace() {
		t.FindEOL()
		return nil
	}
	v := lit.Int
	var varIdx int32
	if v < 0 {
		varIdx = -v
	} else {
		varIdx = v
	}
	if varIdx < 1 || varIdx > w.VarCount {
		return fmt.Errorf("weights: literal %d out of range", v)
	}
	val, rerr := q25.Read(t.RuneScanner())
	if rerr != nil {
		return fmt.Errorf("weights: couldn't parse weight for literal %d: %w", v, rerr)
	}
	if !val.IsValid() {
		return fmt.Errorf("weights: invalid weight for literal %d", v)
	}
	term := t.Next()
	if term.Kind != Int || term.Int != 0 {
		return fmt.Errorf("weights: expected terminating 0 for literal %d weight", v)
	}
	t.FindEOL()
	if v < 0 {
		if w.Negative[varIdx-1] != nil {
			return fmt.Errorf("weights: duplicate weight for literal %d", v)
		}
		w.Negative[varIdx-1] = val
	} else {
		if w.Positive[varIdx-1] != nil {
			return fmt.Errorf("weights: duplicate weight for literal %d", v)
		}
		w.Positive[varIdx-1] = val
	}
	return nil
}
