package model

import "math"

// ComputedSheet is the write contract: the flattened results of one fully
// computed workspace, ready for the result sink. Numbers may be NaN where a
// dependency cycle poisoned a stat; the sink stores them as-is.
type ComputedSheet struct {
	CharID int64

	// Level is the character level variable's result.
	Level float64

	// Variables holds every registry symbol's scalar result.
	Variables map[string]float64

	Attributes        []ComputedAttribute
	Skills            []ComputedSkill
	DamageMultipliers []ComputedDamageMultiplier

	// Effects lists every resolved effect, routed or not, in resolution
	// order.
	Effects []ComputedEffect
}

// ComputedAttribute carries an attribute's final value. Mod is present only
// for ability attributes whose result is numeric.
type ComputedAttribute struct {
	Key   string
	Value float64
	Mod   *float64
}

// ComputedSkill carries a skill's final value plus the check bookkeeping
// (advantage counts, passive bonus, conditional benefits, forced failures).
type ComputedSkill struct {
	Key                 string
	Value               float64
	AbilityMod          float64
	Proficiency         float64
	Advantage           int
	Disadvantage        int
	PassiveBonus        float64
	ConditionalBenefits int
	Fail                int
}

// ComputedDamageMultiplier carries a damage multiplier's final factor.
type ComputedDamageMultiplier struct {
	Key   string
	Value float64
}

// ComputedEffect carries one effect's resolved result: a number or, when
// the calculation degraded to text, the text.
type ComputedEffect struct {
	ID    int64
	Value *float64
	Text  *string
}

// Sheet flattens a fully computed workspace into the write contract.
func (w *Workspace) Sheet() ComputedSheet {
	sheet := ComputedSheet{
		CharID:    w.CharID,
		Variables: make(map[string]float64, len(w.Ordered)),
	}

	for _, s := range w.Ordered {
		sheet.Variables[s.Key] = s.Result
	}
	if level, ok := w.Lookup("level"); ok {
		sheet.Level = level.Result
	}

	for _, s := range w.Attributes {
		attr := ComputedAttribute{Key: s.Key, Value: s.Result}
		if s.Ability && !math.IsNaN(s.Mod) {
			mod := s.Mod
			attr.Mod = &mod
		}
		sheet.Attributes = append(sheet.Attributes, attr)
	}

	for _, s := range w.Skills {
		sheet.Skills = append(sheet.Skills, ComputedSkill{
			Key:                 s.Key,
			Value:               s.Result,
			AbilityMod:          s.AbilityMod,
			Proficiency:         s.Proficiency,
			Advantage:           s.Advantage,
			Disadvantage:        s.Disadvantage,
			PassiveBonus:        s.PassiveAdd,
			ConditionalBenefits: s.Conditional,
			Fail:                s.Fail,
		})
	}

	for _, s := range w.DamageMultipliers {
		sheet.DamageMultipliers = append(sheet.DamageMultipliers, ComputedDamageMultiplier{
			Key:   s.Key,
			Value: s.Result,
		})
	}

	for _, e := range w.ComputedEffects {
		ce := ComputedEffect{ID: e.ID}
		if e.Result.IsText {
			text := e.Result.Text
			ce.Text = &text
		} else {
			val := e.Result.Number
			ce.Value = &val
		}
		sheet.Effects = append(sheet.Effects, ce)
	}

	return sheet
}
