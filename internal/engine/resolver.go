package engine

import (
	"github.com/udisondev/charsheet/internal/formula"
	"github.com/udisondev/charsheet/internal/model"
)

// resolveEffect computes an effect's calculation once and caches the result
// for the rest of the pass. Resolution order: cached result, occurrence
// markers counting 1, conditional text kept verbatim, stored literal, bare
// calculation counting 1, then full formula evaluation against the
// workspace.
func (e *Evaluator) resolveEffect(eff *model.Effect) formula.Value {
	if eff.Computed {
		return eff.Result
	}

	var v formula.Value
	n, ok := eff.Literal()
	switch {
	case eff.Op.Marker():
		v = formula.Num(1)
	case eff.Op == model.OpConditional:
		v = formula.Text(eff.Calc)
	case ok:
		v = formula.Num(n)
	case eff.Calc == "":
		v = formula.Num(1)
	default:
		v = formula.Evaluate(eff.Calc, e)
	}

	eff.Result = v
	eff.Computed = true
	e.ws.RecordComputed(eff)
	return v
}

// Resolve makes the evaluator a formula resolver: a variable reference
// forces the named stat to compute and reads its result. Unknown names
// stay unresolved so the surrounding formula degrades to text.
func (e *Evaluator) Resolve(name string) (float64, bool) {
	s, ok := e.ws.Lookup(name)
	if !ok {
		return 0, false
	}
	e.computeStat(s)
	return s.Result, true
}
