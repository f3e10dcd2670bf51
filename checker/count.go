package checker

import (
	"io"

	"github.com/rebryant/cpogcheck/internal/dimacs"
	"github.com/rebryant/cpogcheck/internal/pog"
	"github.com/rebryant/cpogcheck/internal/q25"
	"github.com/rebryant/cpogcheck/z"
)

// ring evaluates every POG node once, bottom-up by increasing id, folding
// literal and child values through q25 arithmetic: PRODUCT nodes start at
// 1 and multiply, SUM nodes start at 0 and add, and SKOLEM nodes carry no
// counting weight of their own (they exist purely to support projection),
// so they're assigned 1, and a SKOLEM child contributes 1 to whichever
// node it appears under. This is a direct port of ring_evaluate.
func (c *Checker) ring(litValue func(z.Lit) *q25.Value) *q25.Value {
	if c.declaredUnsat {
		return q25.FromInt(0)
	}
	values := make(map[int32]*q25.Value, c.arena.Len()-c.arena.Base())
	var last *q25.Value
	for id := c.arena.Base(); id < c.arena.Len(); id++ {
		n := c.arena.Find(id)
		if n == nil {
			continue
		}
		var acc *q25.Value
		switch n.Kind {
		case pog.Product:
			acc = q25.FromInt(1)
			for _, ch := range n.Children {
				acc = q25.Mul(acc, c.childValue(ch, values, litValue))
			}
		case pog.Sum:
			acc = q25.FromInt(0)
			for _, ch := range n.Children {
				acc = q25.Add(acc, c.childValue(ch, values, litValue))
			}
		case pog.Skolem:
			acc = q25.FromInt(1)
		}
		values[id] = acc
		last = acc
	}
	if int32(c.declaredRoot) <= c.inputVariableCount {
		return litValue(z.Var(c.declaredRoot).Pos())
	}
	v, ok := values[c.declaredRoot]
	if !ok {
		return last
	}
	return v
}

// childValue resolves one child literal of a PRODUCT or SUM node to its
// q25 value: either a (possibly negated) input variable's literal weight,
// or another node's already-computed value (node children are always
// positive per NNF, and a SKOLEM child contributes the multiplicative
// identity).
func (c *Checker) childValue(lit z.Lit, values map[int32]*q25.Value, litValue func(z.Lit) *q25.Value) *q25.Value {
	v := int32(lit.Var())
	if v <= c.inputVariableCount {
		return litValue(lit)
	}
	n := c.arena.Find(v)
	if n != nil && n.Kind == pog.Skolem {
		return q25.FromInt(1)
	}
	if val, ok := values[v]; ok {
		return val
	}
	return q25.FromInt(0)
}

// countRegular computes the unweighted model count: ring-evaluates with
// every data variable weighted at 1/2 for both polarities (in projected
// mode, non-data variables are weighted 1), then rescales by
// 2^(data variable count) so each counted model contributes 1 rather than
// 2^-n, mirroring count_regular.
func (c *Checker) countRegular() *q25.Value {
	half := q25.Recip(q25.FromInt(2))
	dataVars := int32(0)
	litValue := func(m z.Lit) *q25.Value {
		v := int32(m.Var())
		if c.cnf.IsPKC && (int(v)-1 >= len(c.cnf.ShowVars) || !c.cnf.ShowVars[v-1]) {
			return q25.FromInt(1)
		}
		return half
	}
	for v := int32(1); v <= c.inputVariableCount; v++ {
		if !c.cnf.IsPKC || (int(v)-1 < len(c.cnf.ShowVars) && c.cnf.ShowVars[v-1]) {
			dataVars++
		}
	}
	result := c.ring(litValue)
	return q25.ScalePow2(result, int(dataVars))
}

// countWeighted reads the optional `c p weight` directives from the
// original CNF stream and ring-evaluates with those weights, mirroring
// count_weighted / cnf_read_weights's exact missing-weight-inference
// rules: a variable with neither weight declared gets the regular 1/2
// split (and its contribution to the final rescale factor); one with only
// one polarity declared gets the other inferred as (1-declared); one
// with both declared is normalized by the reciprocal of their sum, and
// that sum is folded into the overall rescale.
func (c *Checker) countWeighted(r io.Reader) (*q25.Value, error) {
	w, ok, err := dimacs.ReadWeights(r, c.inputVariableCount)
	if err != nil {
		return nil, &ParseError{Msg: err.Error()}
	}
	if !ok {
		return nil, &IntegrityError{Msg: "no weight directives present in CNF"}
	}

	pos := make([]*q25.Value, c.inputVariableCount+1)
	rescale := q25.FromInt(1)
	half := q25.Recip(q25.FromInt(2))

	for v := int32(1); v <= c.inputVariableCount; v++ {
		p := w.Positive[v-1]
		n := w.Negative[v-1]
		switch {
		case p == nil && n == nil:
			pos[v] = half
			rescale = q25.Mul(rescale, q25.FromInt(2))
		case p != nil && n == nil:
			pos[v] = p
		case p == nil && n != nil:
			pos[v] = q25.OneMinus(n)
		default:
			sum := q25.Add(p, n)
			pos[v] = q25.Mul(p, q25.Recip(sum))
			rescale = q25.Mul(rescale, sum)
		}
	}

	litValue := func(m z.Lit) *q25.Value {
		v := int32(m.Var())
		p := pos[v]
		if p == nil {
			p = half
		}
		if m.IsPos() {
			return p
		}
		return q25.OneMinus(p)
	}
	result := c.ring(litValue)
	return q25.Mul(result, rescale), nil
}
