package gosolve

import (
	"math"
	"math/cmplx"
	"strconv"
)

// ============================================================
// Num: real/imaginary pair with a distinguished Undefined value
// ============================================================

const (
	// epsilon is the relative tolerance used for every numeric comparison.
	epsilon = 1e-9
	// maxDenominator bounds rational recognition for display and exactness checks.
	maxDenominator = 10000
)

// Num is a complex number made of two float64 parts. Undefined marks results
// of domain-illegal operations such as division by zero; it is a value, not a panic.
type Num struct {
	re, im    float64
	undefined bool
}

func N(v float64) *Num { return num(v, 0) }

// F returns the rational p/q as a Num.
func F(p, q int64) *Num {
	if q == 0 {
		panic("gosolve: F: zero denominator")
	}
	return num(float64(p)/float64(q), 0)
}

// NC returns the complex number re + im*i.
func NC(re, im float64) *Num { return num(re, im) }

// Undefined returns the distinguished undefined number.
func Undefined() *Num { return &Num{undefined: true} }

func num(re, im float64) *Num {
	if math.IsNaN(re) || math.IsNaN(im) || math.IsInf(re, 0) || math.IsInf(im, 0) {
		return Undefined()
	}
	return &Num{re: snap(re), im: snap(im)}
}

// snap pulls values within tolerance of an integer onto it so that keys built
// from String() stay stable across different evaluation orders.
func snap(v float64) float64 {
	if v == 0 {
		return 0
	}
	r := math.Round(v)
	if math.Abs(v-r) <= 1e-12*math.Max(1, math.Abs(v)) {
		if r == 0 {
			return 0
		}
		return r
	}
	return v
}

func (n *Num) Simplify() Expr        { return n }
func (n *Num) Sub(string, Expr) Expr { return n }
func (n *Num) Children() []Expr      { return nil }
func (n *Num) exprType() string      { return "num" }

func (n *Num) Rebuild(children []Expr) Expr {
	if len(children) != 0 {
		panic("gosolve: Num.Rebuild: numbers have no children")
	}
	return n
}

func (n *Num) Eval() (*Num, bool) {
	if n.undefined {
		return nil, false
	}
	return n, true
}

func (n *Num) Equal(other Expr) bool {
	o, ok := other.(*Num)
	return ok && numEqual(n, o)
}

func (n *Num) Re() float64         { return n.re }
func (n *Num) Im() float64         { return n.im }
func (n *Num) Float64() float64    { return n.re }
func (n *Num) IsUndefined() bool   { return n.undefined }
func (n *Num) IsReal() bool        { return !n.undefined && closeTo(n.im, 0) }
func (n *Num) IsZero() bool        { return n.IsReal() && closeTo(n.re, 0) }
func (n *Num) IsOne() bool         { return n.IsReal() && closeTo(n.re, 1) }
func (n *Num) IsNegOne() bool      { return n.IsReal() && closeTo(n.re, -1) }
func (n *Num) IsNegative() bool    { return n.IsReal() && n.re < 0 && !closeTo(n.re, 0) }
func (n *Num) IsPositive() bool    { return n.IsReal() && n.re > 0 && !closeTo(n.re, 0) }
func (n *Num) Complex() complex128 { return complex(n.re, n.im) }

// IsInteger reports whether n is a real integer within tolerance.
func (n *Num) IsInteger() bool { return n.IsReal() && isInt(n.re) }

// Int returns the nearest integer to the real part.
func (n *Num) Int() int64 { return int64(math.Round(n.re)) }

// Rational returns p/q when the real value is recognisable as a small-denominator fraction.
func (n *Num) Rational() (p, q int64, ok bool) {
	if !n.IsReal() {
		return 0, 0, false
	}
	return rational(n.re)
}

func (n *Num) String() string {
	if n.undefined {
		return "undefined"
	}
	if closeTo(n.im, 0) {
		return formatReal(n.re)
	}
	im := formatImag(n.im)
	if closeTo(n.re, 0) {
		return im
	}
	if n.im < 0 {
		return formatReal(n.re) + im
	}
	return formatReal(n.re) + "+" + im
}

func (n *Num) LaTeX() string {
	if n.undefined {
		return `\text{undefined}`
	}
	if !closeTo(n.im, 0) {
		return n.String()
	}
	p, q, ok := rational(n.re)
	if !ok || q == 1 {
		return formatReal(n.re)
	}
	if p < 0 {
		return `-\frac{` + strconv.FormatInt(-p, 10) + `}{` + strconv.FormatInt(q, 10) + `}`
	}
	return `\frac{` + strconv.FormatInt(p, 10) + `}{` + strconv.FormatInt(q, 10) + `}`
}

func (n *Num) toJSON() map[string]interface{} {
	if n.undefined {
		return map[string]interface{}{"type": "num", "undefined": true}
	}
	m := map[string]interface{}{"type": "num", "re": n.re}
	if !closeTo(n.im, 0) {
		m["im"] = n.im
	}
	return m
}

func formatReal(v float64) string {
	if p, q, ok := rational(v); ok {
		if q == 1 {
			return strconv.FormatInt(p, 10)
		}
		return strconv.FormatInt(p, 10) + "/" + strconv.FormatInt(q, 10)
	}
	return strconv.FormatFloat(v, 'g', 12, 64)
}

func formatImag(v float64) string {
	switch {
	case closeTo(v, 1):
		return "i"
	case closeTo(v, -1):
		return "-i"
	}
	return formatReal(v) + "i"
}

// rational recognises v as p/q with q <= maxDenominator using continued fractions.
func rational(v float64) (int64, int64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > 1e12 {
		return 0, 0, false
	}
	if isInt(v) {
		return int64(math.Round(v)), 1, true
	}
	sign := int64(1)
	if v < 0 {
		sign, v = -1, -v
	}
	h0, h1 := int64(0), int64(1)
	k0, k1 := int64(1), int64(0)
	x := v
	for i := 0; i < 40; i++ {
		a := int64(math.Floor(x))
		h0, h1 = h1, a*h1+h0
		k0, k1 = k1, a*k1+k0
		if k1 > maxDenominator {
			return 0, 0, false
		}
		if math.Abs(v-float64(h1)/float64(k1)) <= epsilon*math.Max(1, v) {
			return sign * h1, k1, true
		}
		frac := x - float64(a)
		if frac < 1e-15 {
			break
		}
		x = 1 / frac
	}
	return 0, 0, false
}

func isInt(v float64) bool {
	return math.Abs(v-math.Round(v)) <= epsilon*math.Max(1, math.Abs(v))
}

func closeTo(a, b float64) bool {
	return math.Abs(a-b) <= epsilon*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func numEqual(a, b *Num) bool {
	if a.undefined || b.undefined {
		return a.undefined && b.undefined
	}
	return closeTo(a.re, b.re) && closeTo(a.im, b.im)
}

// exact reports whether a folded value can stand in for its symbolic source
// without losing information.
func exact(v *Num) bool {
	if v.undefined {
		return false
	}
	if _, _, ok := rational(v.re); !ok {
		return false
	}
	_, _, ok := rational(v.im)
	return ok
}

// snapRational replaces each part of v by the nearest small-denominator
// rational, so folded values like sin(pi/6) become exactly 1/2.
func snapRational(v *Num) *Num {
	if v.undefined {
		return v
	}
	re, im := v.re, v.im
	if p, q, ok := rational(re); ok {
		re = float64(p) / float64(q)
	}
	if p, q, ok := rational(im); ok {
		im = float64(p) / float64(q)
	}
	return num(re, im)
}

func numAdd(a, b *Num) *Num {
	if a.undefined || b.undefined {
		return Undefined()
	}
	return num(a.re+b.re, a.im+b.im)
}

func numSub(a, b *Num) *Num { return numAdd(a, numNeg(b)) }

func numNeg(a *Num) *Num {
	if a.undefined {
		return a
	}
	return num(-a.re, -a.im)
}

func numMul(a, b *Num) *Num {
	if a.undefined || b.undefined {
		return Undefined()
	}
	return num(a.re*b.re-a.im*b.im, a.re*b.im+a.im*b.re)
}

func numDiv(a, b *Num) *Num {
	if a.undefined || b.undefined || (closeTo(b.re, 0) && closeTo(b.im, 0)) {
		return Undefined()
	}
	v := complex(a.re, a.im) / complex(b.re, b.im)
	return num(real(v), imag(v))
}

func numAbs(a *Num) *Num {
	if a.undefined {
		return a
	}
	return num(cmplx.Abs(complex(a.re, a.im)), 0)
}

// numPow raises b to e. The boolean is false when the result has no real
// value and the inputs are real (even roots of negatives).
func numPow(b, e *Num) (*Num, bool) {
	if b.undefined || e.undefined {
		return Undefined(), true
	}
	if b.IsZero() {
		switch {
		case !e.IsReal():
			return nil, false
		case e.IsZero():
			return N(1), true
		case e.re > 0:
			return N(0), true
		}
		return Undefined(), true
	}
	if b.IsReal() && e.IsReal() {
		if b.re < 0 && !isInt(e.re) {
			p, q, ok := rational(e.re)
			if !ok || q%2 == 0 {
				return nil, false
			}
			v := math.Pow(-b.re, e.re)
			if p%2 != 0 {
				v = -v
			}
			return N(v), true
		}
		return N(math.Pow(b.re, e.re)), true
	}
	v := cmplx.Pow(complex(b.re, b.im), complex(e.re, e.im))
	return NC(real(v), imag(v)), true
}

// numPowExact folds b^e only when nothing is lost: integer exponents always,
// other exponents when the result is a recognisable rational.
func numPowExact(b, e *Num) (*Num, bool) {
	v, ok := numPow(b, e)
	if !ok {
		return nil, false
	}
	if v.undefined || e.IsInteger() {
		return v, true
	}
	if exact(v) {
		return snapRational(v), true
	}
	return nil, false
}

func gcdInt(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func lcmInt(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	return a / gcdInt(a, b) * b
}
