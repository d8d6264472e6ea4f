// Package engine computes character sheets. Build assembles an evaluation
// workspace from a raw snapshot; an Evaluator then runs the lazy,
// memoized, cycle-safe computation pass over it.
//
// Every stat and every effect computes at most once per pass. Stats pull
// their dependencies on demand through formula references, so the visit
// order never changes results. A dependency cycle resolves every stat on
// the cycle to NaN and leaves independent stats intact.
package engine

import (
	"math"

	"github.com/udisondev/charsheet/internal/model"
)

// Evaluator runs one computation pass over a workspace. It doubles as the
// formula resolver, so formulas reach stats through the same memoized path
// the pass itself uses.
type Evaluator struct {
	ws *model.Workspace
}

// New returns an evaluator over the workspace.
func New(ws *model.Workspace) *Evaluator {
	return &Evaluator{ws: ws}
}

// Compute runs the full pass and flattens the workspace into the write
// contract. The primary stat groups go first, then unrouted effects so
// their results reach the audit trail, then a sweep over everything
// registered so aliases, levels and properties end up computed even when
// nothing referenced them.
func (e *Evaluator) Compute() model.ComputedSheet {
	for _, s := range e.ws.Attributes {
		e.computeStat(s)
	}
	for _, s := range e.ws.Skills {
		e.computeStat(s)
	}
	for _, s := range e.ws.DamageMultipliers {
		e.computeStat(s)
	}
	for _, eff := range e.ws.Unrouted {
		e.resolveEffect(eff)
	}
	for _, s := range e.ws.Ordered {
		e.computeStat(s)
	}
	return e.ws.Sheet()
}

// computeStat drives the per-stat state machine. Re-entering a busy stat
// means the dependency chain looped back onto itself; the stat then
// resolves to NaN immediately and the poisoned result is terminal, so a
// finished stat is never overwritten when the recursion unwinds.
func (e *Evaluator) computeStat(s *model.Stat) {
	if s.Computed {
		return
	}

	if s.Kind == model.KindAbilityMod {
		e.computeAlias(s)
		return
	}

	if s.Busy {
		s.Result = math.NaN()
		s.Mod = math.NaN()
		s.Computed = true
		s.Busy = false
		return
	}
	s.Busy = true

	// Effects apply in attachment order. The loop runs to the end even if
	// an inner cycle already finished this stat: remaining effects still
	// resolve once and reach the audit trail.
	for _, eff := range s.Effects {
		v := e.resolveEffect(eff)
		s.Apply(eff.Op, v)
	}

	if s.Computed {
		return
	}

	e.combine(s)
	s.Computed = true
	s.Busy = false
}

// computeAlias reads the owning attribute's modifier through the alias.
// The alias itself is never busy; cycle detection rides on the owner.
func (e *Evaluator) computeAlias(s *model.Stat) {
	owner, ok := e.ws.Lookup(s.Owner)
	if !ok {
		s.Result = math.NaN()
		s.Computed = true
		return
	}
	e.computeStat(owner)
	if s.Computed {
		return
	}
	s.Result = owner.Mod
	s.Computed = true
}
