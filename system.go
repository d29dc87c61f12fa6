package gosolve

import (
	"fmt"
	"sort"
	"strings"
)

// ============================================================
// Systems of equations
// ============================================================

type SystemMode int

const (
	// SystemAuto tries elimination and falls back to substitution.
	SystemAuto SystemMode = iota
	SystemSubstitution
	SystemElimination
)

var systemModeNames = map[SystemMode]string{
	SystemAuto:         "auto",
	SystemSubstitution: "substitution",
	SystemElimination:  "elimination",
}

func (m SystemMode) String() string {
	if s, ok := systemModeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("SystemMode(%d)", int(m))
}

// ParseSystemMode maps "auto", "substitution" or "elimination" to a mode.
func ParseSystemMode(s string) (SystemMode, bool) {
	for m, name := range systemModeNames {
		if name == strings.ToLower(strings.TrimSpace(s)) {
			return m, true
		}
	}
	return 0, false
}

// systemState is the per-call state of SolveSystem.
type systemState struct {
	solver   *AlgebraSolver
	symbols  []string
	counts   map[string]int
	messages []string
	none     bool
}

func (st *systemState) fail(format string, args ...interface{}) ([]SolutionSet, bool) {
	msg := fmt.Sprintf(format, args...)
	for _, m := range st.messages {
		if m == msg {
			return nil, false
		}
	}
	st.messages = append(st.messages, msg)
	st.solver.opts.Logger.Debug("system note", "msg", msg)
	return nil, false
}

// SolveSystem solves up to MaxEquations simultaneous equations. Direct
// assignments x = c are substituted first; the rest is solved by
// elimination, substitution or both depending on mode.
func (s *AlgebraSolver) SolveSystem(eqs []Equation, mode SystemMode) SystemResult {
	res := SystemResult{Mode: mode}
	switch {
	case len(eqs) == 0:
		res.Messages = []string{"system has no equations"}
		return res
	case len(eqs) > s.opts.MaxEquations:
		res.Messages = []string{fmt.Sprintf("system has %d equations, at most %d are supported", len(eqs), s.opts.MaxEquations)}
		return res
	}
	st := &systemState{solver: s, counts: map[string]int{}}
	seen := map[string]bool{}
	for _, eq := range eqs {
		if eq.Left == nil || eq.Right == nil {
			res.Messages = []string{"equation has a missing side"}
			return res
		}
		if eq.Comparison != EqualTo {
			res.Messages = []string{fmt.Sprintf("%s: systems of inequalities are not supported", eq)}
			return res
		}
		for _, name := range eq.Symbols() {
			if !seen[name] {
				seen[name] = true
				st.symbols = append(st.symbols, name)
			}
		}
		counts := eq.SymbolCounts
		if counts == nil {
			counts = NewEquation(eq.Left, eq.Right).SymbolCounts
		}
		for k, v := range counts {
			st.counts[k] += v
		}
	}
	sort.Strings(st.symbols)
	s.opts.Logger.Debug("solve system", "n", len(eqs), "mode", mode.String(), "symbols", st.symbols)

	rest, assigned, ok := DoAssignments(eqs)
	if !ok {
		res.Success, res.NoSolutions = true, true
		return res
	}
	diffs := make([]Expr, len(rest))
	for i, eq := range rest {
		diffs[i] = Canonicalize(SubOf(eq.Left, eq.Right))
	}

	var sets []SolutionSet
	switch mode {
	case SystemSubstitution:
		sets, ok = st.substitution(diffs)
	case SystemElimination:
		sets, ok = st.elimination(diffs)
	case SystemAuto:
		sets, ok = st.elimination(diffs)
		if !ok && !st.none {
			sets, ok = st.substitution(diffs)
		}
	default:
		panic(fmt.Sprintf("gosolve: SolveSystem: unknown mode %d", int(mode)))
	}
	if !ok {
		res.Messages = st.messages
		if len(res.Messages) == 0 {
			res.Messages = []string{"could not solve the system"}
		}
		return res
	}
	if st.none {
		res.Success, res.NoSolutions = true, true
		return res
	}

	var out []SolutionSet
	for _, set := range sets {
		full := SolutionSet{}
		for k, v := range assigned {
			full[k] = v
		}
		for k, v := range set {
			full[k] = Canonicalize(SubAll(v, assigned))
		}
		if !satisfiesAll(eqs, full) {
			s.opts.Logger.Debug("reject solution set", "set", full.String())
			continue
		}
		out = append(out, full)
	}
	if len(out) == 0 {
		res.Success, res.NoSolutions = true, true
		return res
	}
	out = dedupeSets(out)
	for _, set := range out {
		for _, name := range st.symbols {
			if v, bound := set[name]; !bound || hasVariables(v) {
				res.Dependent = true
			}
		}
	}
	res.Success = true
	res.Sets = out
	return res
}

// DoAssignments substitutes equations of the form symbol = constant into
// the others and removes them. It reports false when two assignments
// contradict each other or a substitution leaves a false constant equation.
func DoAssignments(eqs []Equation) ([]Equation, SolutionSet, bool) {
	rest := make([]Equation, len(eqs))
	copy(rest, eqs)
	assigned := SolutionSet{}
	for changed := true; changed; {
		changed = false
		for i, eq := range rest {
			name, v, ok := assignment(eq)
			if !ok {
				continue
			}
			if prev, dup := assigned[name]; dup && !AreEqual(prev, v) {
				return nil, nil, false
			}
			assigned[name] = v
			rest = append(rest[:i:i], rest[i+1:]...)
			for j := range rest {
				rest[j] = NewEquation(rest[j].Left.Sub(name, v), rest[j].Right.Sub(name, v))
			}
			changed = true
			break
		}
	}
	var out []Equation
	for _, eq := range rest {
		diff := Canonicalize(SubOf(eq.Left, eq.Right))
		if hasVariables(diff) {
			out = append(out, eq)
			continue
		}
		if !IsZero(diff) {
			return nil, nil, false
		}
	}
	return out, assigned, true
}

// assignment recognises symbol = constant in either orientation.
func assignment(eq Equation) (string, Expr, bool) {
	l, r := Canonicalize(eq.Left), Canonicalize(eq.Right)
	if s, ok := l.(*Sym); ok && !s.constant && !hasVariables(r) {
		return s.name, r, true
	}
	if s, ok := r.(*Sym); ok && !s.constant && !hasVariables(l) {
		return s.name, l, true
	}
	return "", nil, false
}

// pruneConstant drops diffs without variables. A non-zero constant makes
// the system inconsistent.
func (st *systemState) pruneConstant(diffs []Expr) ([]Expr, bool) {
	var out []Expr
	for _, d := range diffs {
		if hasVariables(d) {
			out = append(out, d)
			continue
		}
		if !IsZero(d) {
			st.none = true
			return nil, false
		}
	}
	return out, true
}

// ranked returns the symbols of diffs ordered by the weighted complexity of
// their occurrences, cheapest first.
func (st *systemState) ranked(diffs []Expr) []string {
	score := map[string]int{}
	for _, d := range diffs {
		for _, g := range Groups(d) {
			for name := range FreeSymbols(g) {
				score[name] += Complexity(g)
			}
		}
	}
	names := make([]string, 0, len(score))
	for n := range score {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := names[i], names[j]
		if score[a] != score[b] {
			return score[a] < score[b]
		}
		if st.counts[a] != st.counts[b] {
			return st.counts[a] < st.counts[b]
		}
		return a < b
	})
	return names
}

// solveFor runs the dispatcher on diff = 0. ok is false on failure; none
// reports an empty solution set.
func (st *systemState) solveFor(diff Expr, name string) (values []Expr, none, ok bool) {
	res := st.solver.Solve(NewEquation(diff, N(0)), name)
	if !res.Success {
		st.fail("%s = 0 for %s: %s", diff, name, strings.Join(res.Messages, "; "))
		return nil, false, false
	}
	if res.Partial {
		st.messages = append(st.messages, res.Messages...)
	}
	for _, sol := range res.Solutions {
		switch sol.Kind {
		case SolutionExact:
			if !Contains(sol.Value, name) {
				values = append(values, sol.Value)
			}
		case SolutionNone:
			return nil, true, true
		case SolutionAll:
			return nil, false, true
		case SolutionGeneral:
			st.fail("%s = 0 has periodic solutions for %s", diff, name)
			return nil, false, false
		}
	}
	return values, false, true
}

// ------------------------------------------------------------
// Substitution
// ------------------------------------------------------------

func (st *systemState) substitution(diffs []Expr) ([]SolutionSet, bool) {
	diffs, ok := st.pruneConstant(diffs)
	if !ok {
		return nil, true
	}
	if len(diffs) == 0 {
		return []SolutionSet{{}}, true
	}
	for _, name := range st.ranked(diffs) {
		idx := -1
		for i, d := range diffs {
			if Contains(d, name) && (idx < 0 || Complexity(d) < Complexity(diffs[idx])) {
				idx = i
			}
		}
		values, none, ok := st.solveFor(diffs[idx], name)
		if !ok {
			continue
		}
		if none {
			st.none = true
			return nil, true
		}
		others := append(append([]Expr(nil), diffs[:idx]...), diffs[idx+1:]...)
		if len(values) == 0 {
			// identity in name: the equation carries no information
			return st.substitution(others)
		}
		var out []SolutionSet
		for _, v := range values {
			st.solver.opts.Steps.Step("substitute "+name, S(name), v)
			reduced := make([]Expr, len(others))
			for i, d := range others {
				reduced[i] = Canonicalize(d.Sub(name, v))
			}
			sets, ok := st.substitution(reduced)
			if !ok {
				return nil, false
			}
			if st.none {
				st.none = false
				continue
			}
			for _, set := range sets {
				set = copySet(set)
				set[name] = Canonicalize(SubAll(v, set))
				out = append(out, set)
			}
		}
		if len(out) == 0 {
			st.none = true
		}
		return out, true
	}
	return st.fail("substitution: no equation could be solved for any of %s", strings.Join(st.ranked(diffs), ", "))
}

// ------------------------------------------------------------
// Elimination
// ------------------------------------------------------------

func (st *systemState) elimination(diffs []Expr) ([]SolutionSet, bool) {
	diffs, ok := st.pruneConstant(diffs)
	if !ok {
		return nil, true
	}
	switch len(diffs) {
	case 0:
		return []SolutionSet{{}}, true
	case 1:
		return st.substitution(diffs)
	}

	for _, name := range st.ranked(diffs) {
		pivot := -1
		for i, d := range diffs {
			if Degree(d, name) == 1 {
				pivot = i
				break
			}
		}
		if pivot < 0 {
			continue
		}
		var reduced []Expr
		usable := true
		for i, d := range diffs {
			if i == pivot {
				continue
			}
			if !Contains(d, name) {
				reduced = append(reduced, d)
				continue
			}
			c, ok := eliminate(diffs[pivot], d, name)
			if !ok {
				usable = false
				break
			}
			st.solver.opts.Steps.Step("eliminate "+name, d, c)
			reduced = append(reduced, c)
		}
		if !usable {
			continue
		}

		sets, ok := st.elimination(reduced)
		if !ok || st.none {
			return sets, ok
		}
		var out []SolutionSet
		for _, set := range sets {
			back := Canonicalize(SubAll(diffs[pivot], set))
			values, none, ok := st.solveFor(back, name)
			if !ok {
				return nil, false
			}
			if none {
				continue
			}
			if len(values) == 0 {
				out = append(out, set)
				continue
			}
			for _, v := range values {
				ext := copySet(set)
				ext[name] = v
				out = append(out, ext)
			}
		}
		if len(out) == 0 {
			st.none = true
		}
		return out, true
	}
	return st.fail("elimination: no symbol is linear in a pair of equations")
}

// eliminate combines a and b so that name cancels. Both are scaled by the
// smallest multipliers that equalise the coefficients of name up to sign,
// then added or subtracted.
func eliminate(a, b Expr, name string) (Expr, bool) {
	if Degree(a, name) != 1 || Degree(b, name) != 1 {
		return nil, false
	}
	pa, _ := PolyCoeffs(a, name)
	pb, _ := PolyCoeffs(b, name)
	ca, cb := pa.Coefficient(1), pb.Coefficient(1)
	if IsZero(ca) || IsZero(cb) {
		return nil, false
	}
	ma, mb := eliminationMultipliers(ca, cb)
	sa, sb := MulOf(ma, ca), MulOf(mb, cb)
	var combined Expr
	if AreEqual(sa, sb) {
		combined = SubOf(MulOf(ma, a), MulOf(mb, b))
	} else {
		combined = AddOf(MulOf(ma, a), MulOf(mb, b))
	}
	combined = Canonicalize(Expand(combined))
	if Contains(combined, name) {
		return nil, false
	}
	return combined, true
}

// eliminationMultipliers returns ma, mb with |ma*ca| = |mb*cb|, using the
// least common multiple for integer coefficients.
func eliminationMultipliers(ca, cb Expr) (Expr, Expr) {
	an, ok1 := ca.(*Num)
	bn, ok2 := cb.(*Num)
	if !ok1 || !ok2 {
		return cb, ca
	}
	if an.IsInteger() && bn.IsInteger() {
		x, y := an.Int(), bn.Int()
		if x < 0 {
			x = -x
		}
		if y < 0 {
			y = -y
		}
		l := lcmInt(x, y)
		return N(float64(l / x)), N(float64(l / y))
	}
	return numAbs(bn), numAbs(an)
}

func copySet(s SolutionSet) SolutionSet {
	out := make(SolutionSet, len(s)+1)
	for k, v := range s {
		out[k] = v
	}
	return out
}

func dedupeSets(sets []SolutionSet) []SolutionSet {
	seen := map[string]bool{}
	var out []SolutionSet
	for _, s := range sets {
		k := s.String()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// satisfiesAll checks a fully numeric set against every equation. Sets
// that leave free symbols are accepted.
func satisfiesAll(eqs []Equation, set SolutionSet) bool {
	for _, eq := range eqs {
		l := Canonicalize(SubAll(eq.Left, set))
		r := Canonicalize(SubAll(eq.Right, set))
		if hasVariables(l) || hasVariables(r) {
			continue
		}
		lv, ok1 := l.Eval()
		rv, ok2 := r.Eval()
		if !ok1 || !ok2 || !closeRel(lv, rv) {
			return false
		}
	}
	return true
}
