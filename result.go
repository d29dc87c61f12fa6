package gosolve

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// ============================================================
// Equations
// ============================================================

// Comparison is the relation between the two sides of an equation.
type Comparison int

const (
	EqualTo Comparison = iota
	GreaterThan
	LessThan
	GreaterOrEqual
	LessOrEqual
	NotEqualTo
)

var comparisonSymbols = map[Comparison]string{
	EqualTo:        "=",
	GreaterThan:    ">",
	LessThan:       "<",
	GreaterOrEqual: ">=",
	LessOrEqual:    "<=",
	NotEqualTo:     "!=",
}

func (c Comparison) String() string {
	if s, ok := comparisonSymbols[c]; ok {
		return s
	}
	return fmt.Sprintf("Comparison(%d)", int(c))
}

// ParseComparison maps "=", ">", "<", ">=", "<=" and "!=" to a Comparison.
func ParseComparison(s string) (Comparison, bool) {
	switch s {
	case "==":
		return EqualTo, true
	case "≥":
		return GreaterOrEqual, true
	case "≤":
		return LessOrEqual, true
	case "≠":
		return NotEqualTo, true
	}
	for c, sym := range comparisonSymbols {
		if sym == s {
			return c, true
		}
	}
	return 0, false
}

// Mirror returns the relation that holds after swapping the two sides, or
// after multiplying both sides by a negative number.
func (c Comparison) Mirror() Comparison {
	switch c {
	case GreaterThan:
		return LessThan
	case LessThan:
		return GreaterThan
	case GreaterOrEqual:
		return LessOrEqual
	case LessOrEqual:
		return GreaterOrEqual
	}
	return c
}

// Holds reports whether l c r holds for real numbers.
func (c Comparison) Holds(l, r float64) bool {
	eq := closeTo(l, r)
	switch c {
	case EqualTo:
		return eq
	case NotEqualTo:
		return !eq
	case GreaterThan:
		return l > r && !eq
	case LessThan:
		return l < r && !eq
	case GreaterOrEqual:
		return l > r || eq
	case LessOrEqual:
		return l < r || eq
	}
	panic(fmt.Sprintf("gosolve: Comparison.Holds: unknown comparison %d", int(c)))
}

// Equation is Left Comparison Right together with the occurrence count of
// every symbol, which the system solver uses to rank symbols.
type Equation struct {
	Left         Expr
	Right        Expr
	Comparison   Comparison
	SymbolCounts map[string]int
}

// NewEquation returns left = right.
func NewEquation(left, right Expr) Equation {
	return NewRelation(left, EqualTo, right)
}

// NewRelation returns left c right.
func NewRelation(left Expr, c Comparison, right Expr) Equation {
	counts := CountSymbols(left)
	for k, v := range CountSymbols(right) {
		counts[k] += v
	}
	return Equation{Left: left, Right: right, Comparison: c, SymbolCounts: counts}
}

func (e Equation) String() string {
	return e.Left.String() + " " + e.Comparison.String() + " " + e.Right.String()
}

// Symbols returns the variables of both sides in lexical order.
func (e Equation) Symbols() []string {
	return SortedSymbols(&Term{nodes: []Expr{e.Left, e.Right}, ops: []Op{OpAdd}})
}

// ============================================================
// Solutions
// ============================================================

type SolutionKind int

const (
	SolutionExact SolutionKind = iota
	SolutionGeneral
	SolutionAll
	SolutionNone
)

func (k SolutionKind) String() string {
	switch k {
	case SolutionExact:
		return "exact"
	case SolutionGeneral:
		return "general"
	case SolutionAll:
		return "all"
	case SolutionNone:
		return "none"
	}
	return fmt.Sprintf("SolutionKind(%d)", int(k))
}

// GeneralSolution is Principal + Period*Iterator for every integer Iterator.
type GeneralSolution struct {
	Principal Expr
	Period    Expr
	Iterator  string
}

// Expr returns the solution as an expression in the iterator symbol.
func (g GeneralSolution) Expr() Expr {
	return AddOf(g.Principal, MulOf(g.Period, S(g.Iterator)))
}

func (g GeneralSolution) String() string { return g.Expr().String() }

// At returns the solution for one value of the iterator.
func (g GeneralSolution) At(n int) Expr {
	return AddOf(g.Principal, MulOf(g.Period, N(float64(n))))
}

// Solution is one answer for Symbol. Value is set for exact solutions and
// General for periodic ones; All and None carry neither.
type Solution struct {
	Symbol       string
	Kind         SolutionKind
	Value        Expr
	General      *GeneralSolution
	Comparison   Comparison
	Multiplicity int
}

func exactSolution(symbol string, v Expr) Solution {
	return Solution{Symbol: symbol, Kind: SolutionExact, Value: v, Multiplicity: 1}
}

func allSolutions(symbol string) Solution {
	return Solution{Symbol: symbol, Kind: SolutionAll}
}

func noSolutions(symbol string) Solution {
	return Solution{Symbol: symbol, Kind: SolutionNone}
}

func (s Solution) String() string {
	switch s.Kind {
	case SolutionAll:
		return s.Symbol + ": all solutions"
	case SolutionNone:
		return s.Symbol + ": no solutions"
	case SolutionGeneral:
		return s.Symbol + " = " + s.General.String()
	}
	out := s.Symbol + " " + s.Comparison.String() + " " + s.Value.String()
	if s.Multiplicity > 1 {
		out += fmt.Sprintf(" (multiplicity %d)", s.Multiplicity)
	}
	return out
}

// sameSolution compares two solutions by value, numerically when both are
// constant.
func sameSolution(a, b Solution) bool {
	if a.Kind != b.Kind || a.Symbol != b.Symbol || a.Comparison != b.Comparison {
		return false
	}
	switch a.Kind {
	case SolutionExact:
		return sameValue(a.Value, b.Value)
	case SolutionGeneral:
		return sameValue(a.General.Principal, b.General.Principal) && sameValue(a.General.Period, b.General.Period)
	}
	return true
}

func sameValue(a, b Expr) bool {
	if a.Equal(b) {
		return true
	}
	if hasVariables(a) || hasVariables(b) {
		return AreEqual(a, b)
	}
	av, ok1 := a.Eval()
	bv, ok2 := b.Eval()
	return ok1 && ok2 && numEqual(av, bv)
}

// mergeSolutions unions solution lists: All absorbs everything, None is
// dropped when any real solution exists, duplicates keep the largest
// multiplicity.
func mergeSolutions(lists ...[]Solution) []Solution {
	var out []Solution
	none := false
	var symbol string
	for _, l := range lists {
		for _, s := range l {
			symbol = s.Symbol
			switch s.Kind {
			case SolutionAll:
				return []Solution{s}
			case SolutionNone:
				none = true
				continue
			}
			dup := false
			for i := range out {
				if sameSolution(out[i], s) {
					if s.Multiplicity > out[i].Multiplicity {
						out[i].Multiplicity = s.Multiplicity
					}
					dup = true
					break
				}
			}
			if !dup {
				out = append(out, s)
			}
		}
	}
	if len(out) == 0 && none {
		return []Solution{noSolutions(symbol)}
	}
	return out
}

// sortSolutions orders constant exact solutions ascending; everything else
// keeps its relative order after them.
func sortSolutions(sols []Solution) {
	key := func(s Solution) (float64, bool) {
		if s.Kind != SolutionExact || hasVariables(s.Value) {
			return 0, false
		}
		v, ok := s.Value.Eval()
		if !ok {
			return 0, false
		}
		return v.re, true
	}
	sort.SliceStable(sols, func(i, j int) bool {
		vi, oki := key(sols[i])
		vj, okj := key(sols[j])
		if oki != okj {
			return oki
		}
		return oki && vi < vj && !closeTo(vi, vj)
	})
}

// ============================================================
// Restrictions
// ============================================================

// Restriction is a domain constraint Expr Comparison Bound on the solutions.
type Restriction struct {
	Expr       Expr
	Comparison Comparison
	Bound      Expr
}

func (r Restriction) String() string {
	return r.Expr.String() + " " + r.Comparison.String() + " " + r.Bound.String()
}

// Satisfied evaluates the restriction after substituting symbol = v. It
// returns true when the restriction cannot be decided numerically.
func (r Restriction) Satisfied(symbol string, v Expr) bool {
	l := r.Expr.Sub(symbol, v)
	b := r.Bound.Sub(symbol, v)
	if hasVariables(l) || hasVariables(b) {
		return true
	}
	lv, ok1 := l.Eval()
	bv, ok2 := b.Eval()
	if !ok1 || !ok2 {
		return false
	}
	if !lv.IsReal() || !bv.IsReal() {
		return r.Comparison == NotEqualTo && !numEqual(lv, bv) || r.Comparison == EqualTo && numEqual(lv, bv)
	}
	return r.Comparison.Holds(lv.re, bv.re)
}

// ============================================================
// Results
// ============================================================

// SolveResult is the outcome of solving one equation for one symbol.
// Partial marks a successful result that is known to be missing roots;
// Messages then explains what is missing. A failed result always carries
// at least one message.
type SolveResult struct {
	Success      bool
	Partial      bool
	Strategy     string
	Symbol       string
	Solutions    []Solution
	Restrictions []Restriction
	Messages     []string
}

// Values returns the exact solution values in order.
func (r SolveResult) Values() []Expr {
	var out []Expr
	for _, s := range r.Solutions {
		if s.Kind == SolutionExact {
			out = append(out, s.Value)
		}
	}
	return out
}

// Floats returns the real values of constant exact solutions.
func (r SolveResult) Floats() []float64 {
	var out []float64
	for _, v := range r.Values() {
		if n, ok := v.Eval(); ok && n.IsReal() {
			out = append(out, n.re)
		}
	}
	return out
}

// General returns the periodic solutions.
func (r SolveResult) General() []GeneralSolution {
	var out []GeneralSolution
	for _, s := range r.Solutions {
		if s.Kind == SolutionGeneral {
			out = append(out, *s.General)
		}
	}
	return out
}

// AllSolutions reports an identity.
func (r SolveResult) AllSolutions() bool {
	return r.Success && len(r.Solutions) == 1 && r.Solutions[0].Kind == SolutionAll
}

// NoSolutions reports a contradiction or an empty real solution set.
func (r SolveResult) NoSolutions() bool {
	return r.Success && len(r.Solutions) == 1 && r.Solutions[0].Kind == SolutionNone
}

func (r SolveResult) String() string {
	if !r.Success {
		return "no result: " + strings.Join(r.Messages, "; ")
	}
	parts := make([]string, len(r.Solutions))
	for i, s := range r.Solutions {
		parts[i] = s.String()
	}
	out := strings.Join(parts, ", ")
	if len(r.Restrictions) > 0 {
		rs := make([]string, len(r.Restrictions))
		for i, x := range r.Restrictions {
			rs[i] = x.String()
		}
		out += " where " + strings.Join(rs, ", ")
	}
	if r.Partial {
		out += " (partial)"
	}
	return out
}

// SolutionSet binds every symbol of a system to one value.
type SolutionSet map[string]Expr

func (s SolutionSet) String() string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = n + " = " + s[n].String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// SystemResult is the outcome of solving a system of equations. A
// consistent system has one SolutionSet per branch; NoSolutions marks an
// inconsistent system and Dependent one with infinitely many solutions.
type SystemResult struct {
	Success     bool
	Mode        SystemMode
	Sets        []SolutionSet
	NoSolutions bool
	Dependent   bool
	Messages    []string
}

func (r SystemResult) String() string {
	switch {
	case !r.Success:
		return "no result: " + strings.Join(r.Messages, "; ")
	case r.NoSolutions:
		return "no solutions"
	case r.Dependent && len(r.Sets) == 0:
		return "infinitely many solutions"
	}
	parts := make([]string, len(r.Sets))
	for i, s := range r.Sets {
		parts[i] = s.String()
	}
	return strings.Join(parts, " or ")
}

// closeRel compares two numbers with a looser tolerance for verification
// of candidates that went through several floating point steps.
func closeRel(a, b *Num) bool {
	scale := math.Max(1, math.Max(cmplxAbs(a), cmplxAbs(b)))
	return math.Abs(a.re-b.re) <= 1e-7*scale && math.Abs(a.im-b.im) <= 1e-7*scale
}

func cmplxAbs(n *Num) float64 { return math.Hypot(n.re, n.im) }
