package gosolve

import (
	"math"
	"sort"
	"strings"
)

// ============================================================
// StaticCombine: canonical constructors
// ============================================================
//
// Canonical sums are Terms of add/sub ops whose nodes are products; products
// are Terms of mul/div ops led by an optional numeric coefficient, with every
// negative numeric power moved behind a single division. Internally both are
// handled as a list of monomials, each a coefficient times factors keyed by
// the String() of their base.

type factor struct {
	base Expr
	exp  Expr
}

func (f factor) expr() Expr {
	if IsOne(f.exp) {
		return f.base
	}
	return &Func{kind: KindPow, args: []Expr{f.base, f.exp}}
}

type monomial struct {
	coeff   *Num
	factors []factor
}

func (m monomial) key() string {
	parts := make([]string, len(m.factors))
	for i, f := range m.factors {
		parts[i] = f.expr().String()
	}
	return strings.Join(parts, "*")
}

// degree is the total numeric power of plain variables, used for ordering.
func (m monomial) degree() float64 {
	d := 0.0
	for _, f := range m.factors {
		s, ok := f.base.(*Sym)
		if !ok || s.constant {
			continue
		}
		if n, ok := f.exp.(*Num); ok && n.IsReal() {
			d += n.re
		}
	}
	return d
}

func (m monomial) inverse() monomial {
	out := monomial{coeff: numDiv(N(1), m.coeff), factors: make([]factor, len(m.factors))}
	for i, f := range m.factors {
		out.factors[i] = factor{base: f.base, exp: NegOf(f.exp)}
	}
	return out
}

func (m monomial) scale(c *Num) monomial {
	return monomial{coeff: numMul(m.coeff, c), factors: m.factors}
}

func (m monomial) pow(n *Num) monomial {
	c, ok := numPow(m.coeff, n)
	if !ok {
		c = Undefined()
	}
	out := monomial{coeff: c, factors: make([]factor, len(m.factors))}
	for i, f := range m.factors {
		out.factors[i] = factor{base: f.base, exp: MulOf(f.exp, n)}
	}
	return out
}

func factorRank(e Expr) int {
	switch v := e.(type) {
	case *Sym:
		if v.constant {
			return 2
		}
		return 0
	case *Num:
		return 3
	}
	return 1
}

func sortFactors(fs []factor) {
	sort.SliceStable(fs, func(i, j int) bool {
		ri, rj := factorRank(fs[i].base), factorRank(fs[j].base)
		if ri != rj {
			return ri < rj
		}
		return fs[i].base.String() < fs[j].base.String()
	})
}

func mulMonomials(a, b monomial) monomial {
	out := monomial{coeff: numMul(a.coeff, b.coeff)}
	idx := map[string]int{}
	merged := make([]factor, 0, len(a.factors)+len(b.factors))
	for _, f := range append(append([]factor(nil), a.factors...), b.factors...) {
		k := f.base.String()
		if i, ok := idx[k]; ok {
			merged[i].exp = AddOf(merged[i].exp, f.exp)
			continue
		}
		idx[k] = len(merged)
		merged = append(merged, f)
	}
	for _, f := range merged {
		if IsZero(f.exp) {
			continue
		}
		if bn, ok := f.base.(*Num); ok {
			if en, ok := f.exp.(*Num); ok {
				if v, ok := numPowExact(bn, en); ok {
					out.coeff = numMul(out.coeff, v)
					continue
				}
			}
		}
		out.factors = append(out.factors, f)
	}
	sortFactors(out.factors)
	return out
}

// factorMonomial turns base^exp into a monomial, pulling the numeric content
// out of a sum base so that 2x+2 and x+1 share a key.
func factorMonomial(base, exp Expr) monomial {
	if isSumExpr(base) {
		if en, ok := exp.(*Num); ok {
			c, prim := content(base)
			if !c.IsOne() {
				if cv, ok := numPowExact(c, en); ok && !cv.undefined {
					return monomial{coeff: cv, factors: []factor{{base: prim, exp: exp}}}
				}
			}
		}
	}
	return monomial{coeff: N(1), factors: []factor{{base: base, exp: exp}}}
}

// content splits a canonical sum into a numeric content and a primitive sum
// whose leading group has a positive coefficient.
func content(s Expr) (*Num, Expr) {
	ms := toSum(s)
	if len(ms) < 2 {
		return N(1), s
	}
	ints := true
	for _, m := range ms {
		if !m.coeff.IsReal() {
			return N(1), s
		}
		if !m.coeff.IsInteger() {
			ints = false
		}
	}
	lead := ms[0].coeff.re
	var c float64
	if ints {
		var g int64
		for _, m := range ms {
			g = gcdInt(g, m.coeff.Int())
		}
		c = float64(g)
	} else {
		c = lead
		if c < 0 {
			c = -c
		}
	}
	if lead < 0 {
		c = -c
	}
	cn := N(c)
	if cn.IsOne() || cn.IsZero() {
		return N(1), s
	}
	inv := numDiv(N(1), cn)
	scaled := make([]monomial, len(ms))
	for i, m := range ms {
		scaled[i] = m.scale(inv)
	}
	return cn, fromSum(scaled)
}

func toMonomial(e Expr) monomial {
	switch v := e.(type) {
	case *Num:
		return monomial{coeff: v}
	case *Term:
		if v.class() == classProduct {
			m := monomial{coeff: N(1)}
			for i, n := range v.nodes {
				nm := toMonomial(n)
				if i > 0 && v.ops[i-1] == OpDiv {
					nm = nm.inverse()
				}
				m = mulMonomials(m, nm)
			}
			return m
		}
		if v.class() == classSingle {
			return toMonomial(v.nodes[0])
		}
	case *Func:
		if v.kind == KindPow {
			return factorMonomial(v.args[0], v.args[1])
		}
	}
	return factorMonomial(e, N(1))
}

// monomialOf multiplies factors without distributing a lone sum, keeping a
// factored form such as 2*(x - 1) intact.
func monomialOf(fs ...Expr) monomial {
	m := monomial{coeff: N(1)}
	for _, f := range fs {
		m = mulMonomials(m, toMonomial(f))
	}
	return m
}

func fromMonomial(m monomial) Expr {
	if m.coeff.undefined {
		return Undefined()
	}
	if m.coeff.IsZero() {
		return N(0)
	}
	if len(m.factors) == 0 {
		return m.coeff
	}
	if len(m.factors) == 1 && IsOne(m.factors[0].exp) && isSumExpr(m.factors[0].base) {
		if m.coeff.IsOne() {
			return m.factors[0].base
		}
		ms := toSum(m.factors[0].base)
		for i := range ms {
			ms[i] = ms[i].scale(m.coeff)
		}
		return fromSum(ms)
	}
	var num, den []Expr
	for _, f := range m.factors {
		if en, ok := f.exp.(*Num); ok && en.IsNegative() {
			den = append(den, factor{base: f.base, exp: numNeg(en)}.expr())
			continue
		}
		num = append(num, f.expr())
	}
	cNum, cDen := m.coeff, (*Num)(nil)
	if p, q, ok := m.coeff.Rational(); ok && q > 1 {
		cNum, cDen = N(float64(p)), N(float64(q))
	}
	var nodes []Expr
	var ops []Op
	if len(num) == 0 {
		nodes = append(nodes, cNum)
	} else {
		if !cNum.IsOne() {
			nodes = append(nodes, cNum)
		}
		for _, n := range num {
			if len(nodes) > 0 {
				ops = append(ops, OpMul)
			}
			nodes = append(nodes, n)
		}
	}
	if cDen != nil || len(den) > 0 {
		var dn []Expr
		if cDen != nil {
			dn = append(dn, cDen)
		}
		dn = append(dn, den...)
		var d Expr = dn[0]
		if len(dn) > 1 {
			dops := make([]Op, len(dn)-1)
			for i := range dops {
				dops[i] = OpMul
			}
			d = &Term{nodes: dn, ops: dops}
		}
		ops = append(ops, OpDiv)
		nodes = append(nodes, d)
	}
	if len(nodes) == 1 {
		return nodes[0]
	}
	return &Term{nodes: nodes, ops: ops}
}

func toSum(e Expr) []monomial {
	if t, ok := e.(*Term); ok && t.class() == classSum {
		out := make([]monomial, 0, len(t.nodes))
		for i, n := range t.nodes {
			parts := toSum(n)
			if i > 0 && t.ops[i-1] == OpSub {
				for j := range parts {
					parts[j] = parts[j].scale(N(-1))
				}
			}
			out = append(out, parts...)
		}
		return out
	}
	return []monomial{toMonomial(e)}
}

func collectLike(ms []monomial) []monomial {
	idx := map[string]int{}
	out := make([]monomial, 0, len(ms))
	for _, m := range ms {
		k := m.key()
		if i, ok := idx[k]; ok {
			out[i].coeff = numAdd(out[i].coeff, m.coeff)
			continue
		}
		idx[k] = len(out)
		out = append(out, m)
	}
	kept := out[:0]
	for _, m := range out {
		if !m.coeff.undefined && m.coeff.IsZero() {
			continue
		}
		kept = append(kept, m)
	}
	sort.SliceStable(kept, func(i, j int) bool {
		ci, cj := len(kept[i].factors) == 0, len(kept[j].factors) == 0
		if ci != cj {
			return cj
		}
		di, dj := kept[i].degree(), kept[j].degree()
		if di != dj {
			return di > dj
		}
		return kept[i].key() < kept[j].key()
	})
	return kept
}

func negativeLead(c *Num) bool {
	if c.IsReal() {
		return c.re < 0
	}
	return closeTo(c.re, 0) && c.im < 0 || c.re < 0
}

func fromSum(ms []monomial) Expr {
	for _, m := range ms {
		if m.coeff.undefined {
			return Undefined()
		}
	}
	switch len(ms) {
	case 0:
		return N(0)
	case 1:
		return fromMonomial(ms[0])
	}
	nodes := []Expr{fromMonomial(ms[0])}
	ops := make([]Op, 0, len(ms)-1)
	for _, m := range ms[1:] {
		if negativeLead(m.coeff) {
			ops = append(ops, OpSub)
			nodes = append(nodes, fromMonomial(m.scale(N(-1))))
			continue
		}
		ops = append(ops, OpAdd)
		nodes = append(nodes, fromMonomial(m))
	}
	return &Term{nodes: nodes, ops: ops}
}

// AddOf returns the canonical sum of terms, combining like groups.
func AddOf(terms ...Expr) Expr {
	var ms []monomial
	for _, t := range terms {
		s := t.Simplify()
		if isUndefined(s) {
			return Undefined()
		}
		ms = append(ms, toSum(s)...)
	}
	return fromSum(collectLike(ms))
}

// MulOf returns the canonical product of factors. Products are not expanded,
// except that a numeric coefficient times a single sum is distributed.
func MulOf(factors ...Expr) Expr {
	m := monomial{coeff: N(1)}
	for _, f := range factors {
		s := f.Simplify()
		if isUndefined(s) {
			return Undefined()
		}
		m = mulMonomials(m, toMonomial(s))
	}
	return fromMonomial(m)
}

// PowOf returns base^exp. Pow(b, 0) is 1 and Pow(b, 1) is b for every b.
func PowOf(base, exp Expr) Expr { return powOf(base.Simplify(), exp.Simplify()) }

func powOf(b, x Expr) Expr {
	if isUndefined(b) || isUndefined(x) {
		return Undefined()
	}
	xn, xNum := x.(*Num)
	if xNum && xn.IsZero() {
		return N(1)
	}
	if xNum && xn.IsOne() {
		return b
	}
	if lf, ok := x.(*Func); ok && lf.kind == KindLog && lf.args[1].Equal(b) {
		return lf.args[0]
	}
	raw := &Func{kind: KindPow, args: []Expr{b, x}}
	if bn, ok := b.(*Num); ok {
		switch {
		case bn.IsZero():
			if xNum && xn.IsReal() {
				if xn.re > 0 {
					return N(0)
				}
				return Undefined()
			}
			return raw
		case bn.IsOne():
			return N(1)
		}
		if xNum {
			if v, ok := numPowExact(bn, xn); ok {
				return v
			}
			if v, ok := extractRoot(bn, xn); ok {
				return v
			}
		}
		return raw
	}
	if inner, ok := b.(*Func); ok && inner.kind == KindPow {
		combine := xNum && xn.IsInteger()
		if ie, ok := inner.args[1].(*Num); ok && !(ie.IsInteger() && ie.Int()%2 == 0) {
			combine = true
		}
		if combine {
			return powOf(inner.args[0], MulOf(inner.args[1], x))
		}
		return raw
	}
	if isProductExpr(b) && xNum && xn.IsInteger() {
		return fromMonomial(toMonomial(b).pow(xn))
	}
	return fromMonomial(toMonomial(raw))
}

// extractRoot pulls perfect powers out of an integer radical:
// 8^(1/2) becomes 2*2^(1/2).
func extractRoot(b, e *Num) (Expr, bool) {
	if !b.IsInteger() || b.re < 4 || b.re > 1e9 {
		return nil, false
	}
	p, q, ok := e.Rational()
	if !ok || q < 2 || q > 12 {
		return nil, false
	}
	n := b.Int()
	for k := int64(math.Floor(math.Pow(float64(n), 1/float64(q)) + 1e-9)); k >= 2; k-- {
		kq := int64(math.Round(math.Pow(float64(k), float64(q))))
		if n%kq != 0 {
			continue
		}
		c, _ := numPow(N(float64(k)), N(float64(p)))
		return MulOf(c, powOf(N(float64(n/kq)), e)), true
	}
	return nil, false
}

// DivOf returns a/b; division by a literal zero is Undefined.
func DivOf(a, b Expr) Expr { return MulOf(a, PowOf(b, N(-1))) }

// SubOf returns a - b.
func SubOf(a, b Expr) Expr { return AddOf(a, NegOf(b)) }

// NegOf returns -a.
func NegOf(a Expr) Expr { return MulOf(N(-1), a) }
