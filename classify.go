package gosolve

// ============================================================
// Classification
// ============================================================

var (
	linear       Strategy = linearStrategy{}
	quadratic    Strategy = quadraticStrategy{}
	polynomial   Strategy = polynomialStrategy{}
	exponent     Strategy = exponentStrategy{}
	logarithm    Strategy = logStrategy{}
	logBase      Strategy = logBaseStrategy{}
	trig         Strategy = trigStrategy{}
	absolute     Strategy = absStrategy{}
	fractional   Strategy = fractionalStrategy{}
	power        Strategy = powerStrategy{}
	factored     Strategy = factorStrategy{}
	substitution Strategy = substitutionStrategy{}
)

// Strategies lists every built-in strategy in classification priority.
func Strategies() []Strategy {
	return []Strategy{factored, absolute, trig, logBase, logarithm, exponent, fractional, power, substitution, linear, quadratic, polynomial}
}

// profile is what classification looks at: the function kinds applied to
// the symbol, where the symbol sits inside powers and the polynomial degree.
type profile struct {
	kinds         map[FunctionKind]bool
	logInBase     bool
	logInArg      bool
	inExponent    bool
	inDenominator bool
	radical       bool
	powerBase     bool
	degree        int
	productZero   bool
	gcfHasSymbol  bool
}

func inspect(symbol string, left, right Expr) profile {
	p := profile{kinds: map[FunctionKind]bool{}}
	for _, side := range []Expr{left, right} {
		walkSymbolNodes(side, symbol, &p)
		for _, g := range Groups(side) {
			for _, f := range Factors(g) {
				if !Contains(f, symbol) {
					continue
				}
				if _, k := powParts(f); isNegativeNum(k) {
					p.inDenominator = true
				}
			}
		}
	}
	diff := SubOf(left, right)
	p.degree = Degree(diff, symbol)
	if IsZero(right) && !isSumExpr(left) {
		bearing := 0
		for _, f := range Factors(left) {
			if Contains(f, symbol) {
				bearing++
				if b, k := powParts(f); isSumExpr(b) && isNum(k) {
					bearing++
				}
			}
		}
		p.productZero = bearing >= 2
	}
	if isSumExpr(diff) {
		p.gcfHasSymbol = Contains(GroupGCF(diff), symbol)
	}
	return p
}

func walkSymbolNodes(e Expr, symbol string, p *profile) {
	if !Contains(e, symbol) {
		return
	}
	if f, ok := e.(*Func); ok {
		switch f.kind {
		case KindPow:
			if Contains(f.args[1], symbol) {
				p.inExponent = true
			}
			if Contains(f.args[0], symbol) {
				p.powerBase = true
				if k, ok := f.args[1].(*Num); ok && !k.IsInteger() {
					p.radical = true
				}
			}
		case KindLog:
			if Contains(f.args[1], symbol) {
				p.logInBase = true
			}
			if Contains(f.args[0], symbol) {
				p.logInArg = true
			}
		default:
			p.kinds[f.kind] = true
		}
	}
	for _, c := range e.Children() {
		walkSymbolNodes(c, symbol, p)
	}
}

func isNum(e Expr) bool {
	_, ok := e.(*Num)
	return ok
}

func isNegativeNum(e Expr) bool {
	n, ok := e.(*Num)
	return ok && n.IsNegative()
}

func hasTrig(kinds map[FunctionKind]bool) bool {
	for k := range kinds {
		if k.IsTrig() {
			return true
		}
	}
	return false
}

// classify returns candidate strategies, most specific first. Later
// candidates are fallbacks tried when earlier ones fail.
func classify(symbol string, left, right Expr) []Strategy {
	p := inspect(symbol, left, right)
	var out []Strategy
	add := func(s Strategy) {
		for _, x := range out {
			if x == s {
				return
			}
		}
		out = append(out, s)
	}

	if p.productZero {
		add(factored)
	}
	if p.kinds[KindAbs] {
		add(absolute)
	}
	if hasTrig(p.kinds) {
		add(trig)
	}
	if p.logInBase {
		add(logBase)
	}
	if p.logInArg {
		add(logarithm)
	}
	if p.inExponent {
		add(exponent)
	}
	if p.inDenominator {
		add(fractional)
	}
	if p.radical || p.powerBase && p.degree != 1 && p.degree != 2 {
		add(power)
	}

	transcendental := len(p.kinds) > 0 || p.logInArg || p.logInBase || p.inExponent
	if transcendental || p.degree >= 4 {
		add(substitution)
	}
	switch {
	case p.degree == 1:
		add(linear)
	case p.degree == 2:
		add(quadratic)
	case p.degree >= 3:
		add(polynomial)
	}
	if p.gcfHasSymbol {
		add(factored)
	}
	if p.powerBase {
		add(power)
	}
	if p.degree < 0 && !transcendental {
		// the symbol is linear after clearing fractions or compounding
		add(linear)
	}
	return out
}
