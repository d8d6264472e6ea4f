package engine

import (
	"math"

	"github.com/udisondev/charsheet/internal/model"
)

// combine folds a stat's accumulators into its final result. Aliases never
// reach here; they read through their owner.
func (e *Evaluator) combine(s *model.Stat) {
	switch s.Kind {
	case model.KindAttribute:
		e.combineAttribute(s)
	case model.KindSkill:
		e.combineSkill(s)
	case model.KindDamageMultiplier:
		s.Result = combineDamage(s)
	default:
		// Levels and properties carry their seeded value.
		s.Result = s.Base
	}
}

// combineAttribute folds the arithmetic accumulators, flooring unless the
// attribute is declared decimal.
// Formula: value = clamp(Min, Max, (Base + Add) * Mul)
// Formula: mod = floor((value - 10) / 2)
func (e *Evaluator) combineAttribute(s *model.Stat) {
	v := (s.Base + s.Add) * s.Mul
	v = math.Min(s.Max, math.Max(s.Min, v))
	if !s.Decimal {
		v = math.Floor(v)
	}
	s.Result = v
	if s.Ability {
		s.Mod = math.Floor((v - 10) / 2)
	}
}

// combineSkill folds the check bonus. The governing ability contributes its
// modifier, the best proficiency grade its share of the proficiency bonus,
// and the base acts as a floor the final result never drops below. The
// bonus share stays fractional inside the check; only the whole check is
// floored.
// Formula: value = max(Base, clamp(Min, Max, floor((mod + grade * bonus + Add) * Mul)))
func (e *Evaluator) combineSkill(s *model.Stat) {
	mod := 0.0
	if s.AbilityKey != "" {
		if m, ok := e.Resolve(s.AbilityKey + "Mod"); ok {
			mod = m
		}
	}

	grade := s.BaseProficiency
	for _, p := range s.Proficiencies {
		grade = math.Max(grade, p.Value)
	}

	s.AbilityMod = mod
	s.Proficiency = grade

	v := math.Floor((mod + grade*e.proficiencyBonus() + s.Add) * s.Mul)
	v = math.Min(s.Max, math.Max(s.Min, v))
	s.Result = math.Max(v, s.Base)
}

// proficiencyBonus reads the sheet's proficiency bonus: an explicit
// "proficiencyBonus" stat when the sheet defines one, the level-derived
// default otherwise.
// Formula: bonus = floor(level / 4 + 1.75)
func (e *Evaluator) proficiencyBonus() float64 {
	if pb, ok := e.Resolve("proficiencyBonus"); ok {
		return pb
	}
	level, _ := e.Resolve("level")
	return math.Floor(level/4 + 1.75)
}

// combineDamage folds the damage counters into the final factor. Immunity
// always wins; resistance and vulnerability together cancel out; whichever
// of the two is present alone sets the factor. Counts beyond the first do
// not stack.
// Formula: factor = 0 if immune, 0.5 if resistant, 2 if vulnerable, else 1
func combineDamage(s *model.Stat) float64 {
	switch {
	case s.Immunity > 0:
		return 0
	case s.Resistance > 0 && s.Vulnerability > 0:
		return 1
	case s.Resistance > 0:
		return 0.5
	case s.Vulnerability > 0:
		return 2
	}
	return 1
}
