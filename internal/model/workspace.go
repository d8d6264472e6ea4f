package model

// Workspace is the in-memory evaluation graph for one character: every stat,
// the routed and unrouted effects, and the flat variable registry formulas
// resolve against. It is built fresh for each computation pass, fully
// computed, handed to persistence, and discarded; no state survives a pass.
type Workspace struct {
	CharID int64

	// Primary stat groups in builder order; the evaluator visits them in
	// exactly this order so identical input produces identical output.
	Attributes        []*Stat
	Skills            []*Stat
	DamageMultipliers []*Stat

	// Unrouted effects target no known stat. They are still resolved at the
	// end of a pass so their results reach the audit trail.
	Unrouted []*Effect

	// Variables maps every symbol a formula may reference to its owning
	// stat: stat keys, ability-mod aliases, class levels, the character
	// level and scalar creature properties.
	Variables map[string]*Stat

	// Ordered lists every registered stat in registration order, for the
	// deterministic end-of-pass sweep over stats outside the primary groups.
	Ordered []*Stat

	// ComputedEffects records every resolved effect in resolution order.
	// Persistence reads it; evaluation never does.
	ComputedEffects []*Effect
}

// NewWorkspace returns an empty workspace for the character.
func NewWorkspace(charID int64) *Workspace {
	return &Workspace{
		CharID:    charID,
		Variables: make(map[string]*Stat),
	}
}

// Register adds a stat to the variable registry. Keys are unique within a
// character; a duplicate registration is rejected and the first stat keeps
// the name.
func (w *Workspace) Register(s *Stat) bool {
	if _, exists := w.Variables[s.Key]; exists {
		return false
	}
	w.Variables[s.Key] = s
	w.Ordered = append(w.Ordered, s)
	return true
}

// Lookup resolves a variable name to its stat.
func (w *Workspace) Lookup(name string) (*Stat, bool) {
	s, ok := w.Variables[name]
	return s, ok
}

// Target resolves an effect's target key to a stat that can actually carry
// effects. Aliases, levels and properties are formula-readable but never
// effect targets; an effect aimed at one of those stays unrouted.
func (w *Workspace) Target(key string) (*Stat, bool) {
	s, ok := w.Variables[key]
	if !ok {
		return nil, false
	}
	switch s.Kind {
	case KindAttribute, KindSkill, KindDamageMultiplier:
		return s, true
	default:
		return nil, false
	}
}

// RecordComputed appends an effect to the audit list.
func (w *Workspace) RecordComputed(e *Effect) {
	w.ComputedEffects = append(w.ComputedEffects, e)
}
