// Package q25 implements an exact-rational numeric kernel of the shape
// the ring evaluator needs: a sign, an arbitrary-precision magnitude, a
// decimal exponent, and a binary exponent, so that weighted model counts
// (which accumulate long chains of multiplications by values like 1/2,
// and need exact scaling by powers of two) never lose precision or pay
// for a general big.Rat's GCD reduction on every operation.
//
// Values are conceptually sign * mantissa * 10^decExp * 2^binExp, with
// mantissa a non-negative big.Int. No ecosystem library in reach of this
// module models that exact representation (see DESIGN.md), so this is
// built directly on math/big.
package q25

import (
	"fmt"
	"io"
	"math/big"
)

// Value is an exact rational number in sign/mantissa/decExp/binExp form.
// A nil *Value or one with valid == false denotes an invalid result
// (division by zero, parse failure, etc.), propagated the way the
// original q25_ptr contract does rather than panicking.
type Value struct {
	valid   bool
	sign    int // -1, 0, or 1; 0 iff mantissa is zero
	mag     *big.Int
	decExp  int
	binExp  int
}

var opCount int64

// OperationCount returns the number of binary q25 operations performed
// so far, mirroring the original's q25_operation_count diagnostic.
func OperationCount() int64 { return opCount }

func invalid() *Value { return &Value{} }

// FromInt returns the exact value of n.
func FromInt(n int64) *Value {
	v := &Value{valid: true, mag: big.NewInt(n)}
	v.sign = v.mag.Sign()
	v.mag.Abs(v.mag)
	return v
}

// IsValid reports whether v represents a well-defined number.
func (v *Value) IsValid() bool { return v != nil && v.valid }

// IsOne reports whether v is exactly 1.
func (v *Value) IsOne() bool {
	if !v.IsValid() {
		return false
	}
	return v.toRat().Cmp(big.NewRat(1, 1)) == 0
}

// IsZero reports whether v is exactly 0.
func (v *Value) IsZero() bool {
	return v.IsValid() && v.sign == 0
}

func (v *Value) clone() *Value {
	return &Value{valid: v.valid, sign: v.sign, mag: new(big.Int).Set(v.mag), decExp: v.decExp, binExp: v.binExp}
}

// normalized strips common factors of 10 and 2 out of the mantissa into
// the exponents, keeping the mantissa from growing unboundedly across
// long operation chains.
func (v *Value) normalized() *Value {
	if !v.IsValid() || v.sign == 0 {
		return v
	}
	r := v.clone()
	ten := big.NewInt(10)
	two := big.NewInt(2)
	mod, div := new(big.Int), new(big.Int)
	for r.mag.Sign() != 0 {
		div.DivMod(r.mag, ten, mod)
		if mod.Sign() != 0 {
			break
		}
		r.mag.Set(div)
		r.decExp++
	}
	for r.mag.Sign() != 0 {
		div.DivMod(r.mag, two, mod)
		if mod.Sign() != 0 {
			break
		}
		r.mag.Set(div)
		r.binExp++
	}
	return r
}

// Add returns a+b.
func Add(a, b *Value) *Value {
	opCount++
	if !a.IsValid() || !b.IsValid() {
		return invalid()
	}
	af, bf := alignDec(a, b)
	af, bf = alignBin(af, bf)
	am := signedMag(af)
	bm := signedMag(bf)
	sum := new(big.Int).Add(am, bm)
	r := &Value{valid: true, mag: new(big.Int).Abs(sum), decExp: af.decExp, binExp: af.binExp, sign: sum.Sign()}
	return r.normalized()
}

// Mul returns a*b.
func Mul(a, b *Value) *Value {
	opCount++
	if !a.IsValid() || !b.IsValid() {
		return invalid()
	}
	r := &Value{
		valid:  true,
		sign:   a.sign * b.sign,
		mag:    new(big.Int).Mul(a.mag, b.mag),
		decExp: a.decExp + b.decExp,
		binExp: a.binExp + b.binExp,
	}
	return r.normalized()
}

// OneMinus returns 1-a.
func OneMinus(a *Value) *Value {
	return Add(FromInt(1), Negate(a))
}

// Negate returns -a.
func Negate(a *Value) *Value {
	if !a.IsValid() {
		return invalid()
	}
	r := a.clone()
	r.sign = -r.sign
	return r
}

// Recip returns 1/a, or an invalid value if a is zero or if 1/a has no
// exact q25 form (its reduced denominator has a prime factor other than 2
// or 5, e.g. 1/3 or 1/0.9).
func Recip(a *Value) *Value {
	opCount++
	if !a.IsValid() || a.sign == 0 {
		return invalid()
	}
	// The reciprocal is computed exactly with big.Rat and converted back
	// by fromRat, which reports invalid when the result is not
	// representable.
	rat := a.toRat()
	inv := new(big.Rat).Inv(rat)
	return fromRat(inv)
}

// ScalePow2 returns a * 2^k.
func ScalePow2(a *Value, k int) *Value {
	if !a.IsValid() {
		return invalid()
	}
	r := a.clone()
	r.binExp += k
	return r
}

// Copy returns a deep copy of a.
func Copy(a *Value) *Value {
	if !a.IsValid() {
		return invalid()
	}
	return a.clone()
}

func alignDec(a, b *Value) (*Value, *Value) {
	if a.decExp == b.decExp {
		return a, b
	}
	af, bf := a.clone(), b.clone()
	if af.decExp > bf.decExp {
		d := af.decExp - bf.decExp
		af.mag.Mul(af.mag, pow10(d))
		af.decExp = bf.decExp
	} else {
		d := bf.decExp - af.decExp
		bf.mag.Mul(bf.mag, pow10(d))
		bf.decExp = af.decExp
	}
	return af, bf
}

func alignBin(a, b *Value) (*Value, *Value) {
	if a.binExp == b.binExp {
		return a, b
	}
	af, bf := a.clone(), b.clone()
	if af.binExp > bf.binExp {
		d := af.binExp - bf.binExp
		af.mag.Mul(af.mag, pow2(d))
		af.binExp = bf.binExp
	} else {
		d := bf.binExp - af.binExp
		bf.mag.Mul(bf.mag, pow2(d))
		bf.binExp = af.binExp
	}
	return af, bf
}

func pow10(n int) *big.Int { return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil) }
func pow2(n int) *big.Int  { return new(big.Int).Exp(big.NewInt(2), big.NewInt(int64(n)), nil) }

func signedMag(v *Value) *big.Int {
	m := new(big.Int).Set(v.mag)
	if v.sign < 0 {
		m.Neg(m)
	}
	return m
}

func (v *Value) toRat() *big.Rat {
	num := signedMag(v)
	r := new(big.Rat).SetInt(num)
	if v.decExp > 0 {
		r.Mul(r, new(big.Rat).SetInt(pow10(v.decExp)))
	} else if v.decExp < 0 {
		r.Quo(r, new(big.Rat).SetInt(pow10(-v.decExp)))
	}
	if v.binExp > 0 {
		r.Mul(r, new(big.Rat).SetInt(pow2(v.binExp)))
	} else if v.binExp < 0 {
		r.Quo(r, new(big.Rat).SetInt(pow2(-v.binExp)))
	}
	return r
}

// fromRat converts an exact rational into q25 form. Every q25 value is
// sign*mantissa*10^decExp*2^binExp, so a reduced fraction p/q converts
// exactly whenever q's only prime factors are 2 and 5 (any terminating
// decimal); denominators with other prime factors (e.g. 1/3) have no
// exact representation in this shape and report invalid rather than
// silently truncating.
func fromRat(r *big.Rat) *Value {
	denom := new(big.Int).Set(r.Denom())
	if denom.Sign() == 0 {
		return invalid()
	}
	two, five := big.NewInt(2), big.NewInt(5)
	mod, div := new(big.Int), new(big.Int)
	a, b := 0, 0
	for denom.Cmp(big.NewInt(1)) != 0 {
		div.DivMod(denom, five, mod)
		if mod.Sign() == 0 {
			denom.Set(div)
			b++
			continue
		}
		div.DivMod(denom, two, mod)
		if mod.Sign() == 0 {
			denom.Set(div)
			a++
			continue
		}
		return invalid()
	}
	num := new(big.Int).Set(r.Num())
	var decExp, binExp int
	if a >= b {
		binExp = -(a - b)
		decExp = -b
	} else {
		num.Mul(num, new(big.Int).Exp(two, big.NewInt(int64(b-a)), nil))
		binExp = 0
		decExp = -b
	}
	v := &Value{valid: true, mag: new(big.Int).Abs(num), sign: num.Sign(), decExp: decExp, binExp: binExp}
	return v.normalized()
}

// FromDecimalString parses a decimal literal (e.g. "0.25", "-3", "1e-2")
// into a Value, mirroring q25_parse.
func FromDecimalString(s string) (*Value, error) {
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmt.Errorf("q25: invalid literal %q", s)
	}
	v := fromRat(r)
	if !v.IsValid() {
		return nil, fmt.Errorf("q25: literal %q not representable", s)
	}
	return v, nil
}

// Read parses the next q25 literal token from r, mirroring q25_read's
// direct-from-stream reading. Delegates to FromDecimalString after
// extracting one whitespace-delimited token.
func Read(r io.RuneScanner) (*Value, error) {
	var b []rune
	for {
		c, _, err := r.ReadRune()
		if err != nil {
			break
		}
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			if len(b) > 0 {
				r.UnreadRune()
				break
			}
			continue
		}
		b = append(b, c)
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("q25: nothing to read")
	}
	return FromDecimalString(string(b))
}

// Write renders v in decimal form.
func Write(v *Value, w io.Writer) error {
	if !v.IsValid() {
		_, err := io.WriteString(w, "INVALID")
		return err
	}
	rat := v.toRat()
	if rat.IsInt() {
		_, err := fmt.Fprintf(w, "%s", rat.Num().String())
		return err
	}
	_, err := fmt.Fprintf(w, "%s", rat.FloatString(64))
	return err
}

func (v *Value) String() string {
	if !v.IsValid() {
		return "INVALID"
	}
	rat := v.toRat()
	if rat.IsInt() {
		return rat.Num().String()
	}
	return rat.RatString()
}
