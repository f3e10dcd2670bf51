package dimacs

import (
	"fmt"
	"io"

	"github.com/rebryant/cpogcheck/z"
)

// CNF holds the result of reading a DIMACS CNF file, including the
// checker's extension directives (`c t pmc|pwmc`, `c p show ...`).
type CNF struct {
	VarCount    int32
	ClauseCount int32
	Clauses     [][]z.Lit
	IsPKC       bool   // "c t pmc" or "c t pwmc" declared: projected (weighted) model counting
	ShowVars    []bool // indexed by var-1; true if variable is a data/"show" variable
}

// ReadCNF reads a DIMACS CNF file, including the `c t pmc|pwmc` and
// `c p show ... 0` extension comments recognized by the checker.
func ReadCNF(r io.Reader) (*CNF, error) {
	t := NewTokenizer(r)
	cnf := &CNF{}
	sawHeader := false
	var cur []z.Lit
	for {
		tok := t.Next()
		switch tok.Kind {
		case EOF:
			if cur != nil && len(cur) != 0 {
				return nil, fmt.Errorf("cnf: trailing unterminated clause")
			}
			return finalizeCNF(cnf)
		case EOL:
			continue
		case String:
			if tok.Text == "c" {
				if err := readCNFComment(t, cnf); err != nil {
					return nil, err
				}
				continue
			}
			if tok.Text == "p" {
				if sawHeader {
					return nil, fmt.Errorf("cnf: duplicate p-line")
				}
				if err := readCNFHeader(t, cnf); err != nil {
					return nil, err
				}
				sawHeader = true
				continue
			}
			return nil, fmt.Errorf("cnf: unexpected token %q", tok.Text)
		case Int:
			if !sawHeader {
				return nil, fmt.Errorf("cnf: clause literal before p-line")
			}
			if tok.Int == 0 {
				cnf.Clauses = append(cnf.Clauses, cur)
				cur = []z.Lit{}
				continue
			}
			cur = append(cur, z.Dimacs2Lit(int(tok.Int)))
		default:
			return nil, fmt.Errorf("cnf: unexpected token kind %s", tok.Kind)
		}
	}
}

func readCNFHeader(t *Tokenizer, cnf *CNF) error {
	tok := t.Next()
	if tok.Kind != String || tok.Text != "cnf" {
		return fmt.Errorf("cnf: expected 'cnf' after 'p', got %q", tok.Text)
	}
	vtok := t.Next()
	if vtok.Kind != Int {
		return fmt.Errorf("cnf: expected variable count")
	}
	ctok := t.Next()
	if ctok.Kind != Int {
		return fmt.Errorf("cnf: expected clause count")
	}
	cnf.VarCount = vtok.Int
	cnf.ClauseCount = ctok.Int
	cnf.ShowVars = make([]bool, cnf.VarCount)
	return t.ConfirmEOL()
}

func readCNFComment(t *Tokenizer, cnf *CNF) error {
	tok := t.Next()
	if tok.Kind != String {
		t.FindEOL()
		return nil
	}
	switch tok.Text {
	case "t":
		kind := t.Next()
		if kind.Kind == String && (kind.Text == "pmc" || kind.Text == "pwmc") {
			cnf.IsPKC = true
		}
		t.FindEOL()
	case "p":
		sub := t.Next()
		if sub.Kind == String && sub.Text == "show" {
			for {
				vtok := t.Next()
				if vtok.Kind != Int {
					return fmt.Errorf("cnf: malformed show directive")
				}
				if vtok.Int == 0 {
					break
				}
				v := vtok.Int
				if v < 1 || int(v) > len(cnf.ShowVars) {
					return fmt.Errorf("cnf: show variable %d out of range", v)
				}
				cnf.ShowVars[v-1] = true
			}
		}
		t.FindEOL()
	default:
		t.FindEOL()
	}
	return nil
}

func finalizeCNF(cnf *CNF) (*CNF, error) {
	if int32(len(cnf.Clauses)) != cnf.ClauseCount {
		return nil, fmt.Errorf("cnf: header promised %d clauses, found %d", cnf.ClauseCount, len(cnf.Clauses))
	}
	return cnf, nil
}
