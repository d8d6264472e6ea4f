package model

import (
	"math"

	"github.com/udisondev/charsheet/internal/formula"
)

// StatKind tags every stat with its evaluation rules. Each kind declares the
// effect operations it supports (see kindOps); applying anything else is a
// no-op rather than an error.
type StatKind int

const (
	// KindAttribute is a plain numeric attribute (strength, armor, hitPoints).
	// Ability attributes additionally derive a modifier.
	KindAttribute StatKind = iota
	// KindSkill is a d20-style check bonus combining an ability modifier,
	// proficiency and flat adjustments.
	KindSkill
	// KindDamageMultiplier folds resistance/immunity/vulnerability effects
	// into a single damage factor (0, 0.5, 1 or 2).
	KindDamageMultiplier
	// KindAbilityMod is a read-through alias exposing an ability attribute's
	// modifier under its own variable name ("strengthMod"). It never carries
	// effects and is only ever computed through its owner.
	KindAbilityMod
	// KindCharacterLevel holds the character's total level.
	KindCharacterLevel
	// KindClassLevel holds one class's level ("rogueLevel").
	KindClassLevel
	// KindProperty holds a scalar creature property ("xp", "weightCarried").
	KindProperty
)

func (k StatKind) String() string {
	switch k {
	case KindAttribute:
		return "attribute"
	case KindSkill:
		return "skill"
	case KindDamageMultiplier:
		return "damageMultiplier"
	case KindAbilityMod:
		return "abilityMod"
	case KindCharacterLevel:
		return "characterLevel"
	case KindClassLevel:
		return "classLevel"
	case KindProperty:
		return "property"
	default:
		return "unknown"
	}
}

// Operation names an effect's accumulation rule. Stored as text in the
// effects table; unknown values simply never match a supported operation.
type Operation string

const (
	OpBase         Operation = "base"
	OpAdd          Operation = "add"
	OpMul          Operation = "mul"
	OpMin          Operation = "min"
	OpMax          Operation = "max"
	OpAdvantage    Operation = "advantage"
	OpDisadvantage Operation = "disadvantage"
	OpPassiveAdd   Operation = "passiveAdd"
	OpFail         Operation = "fail"
	OpConditional  Operation = "conditional"
)

// Marker reports whether the operation only counts occurrences. Marker
// effects resolve to 1; any attached calculation is ignored.
func (o Operation) Marker() bool {
	return o == OpAdvantage || o == OpDisadvantage || o == OpFail
}

// kindOps declares which operations each stat kind accumulates.
// Attributes take only the arithmetic operations; skills take everything
// (advantage, passive bonuses and conditionals describe d20 checks);
// damage multipliers take mul alone, which feeds the damage counters.
// Kinds without entries never have effects routed to them.
var kindOps = map[StatKind]map[Operation]bool{
	KindAttribute: {
		OpBase: true, OpAdd: true, OpMul: true, OpMin: true, OpMax: true,
	},
	KindSkill: {
		OpBase: true, OpAdd: true, OpMul: true, OpMin: true, OpMax: true,
		OpAdvantage: true, OpDisadvantage: true, OpPassiveAdd: true,
		OpFail: true, OpConditional: true,
	},
	KindDamageMultiplier: {
		OpMul: true,
	},
}

// Stat is one computed quantity on a character sheet. The zero value is not
// usable; NewStat sets the accumulator identities (mul 1, clamps at ±Inf).
type Stat struct {
	Key  string
	Kind StatKind

	// Accumulators, filled by applying effects.
	Base float64
	Add  float64
	Mul  float64
	Min  float64 // lower clamp; effects tighten it upward
	Max  float64 // upper clamp; effects tighten it downward

	// Check counters (skill kind).
	Advantage    int
	Disadvantage int
	PassiveAdd   float64
	Fail         int
	Conditional  int

	// Damage counters (damageMultiplier kind), fed by mul effects.
	Immunity      int
	Resistance    int
	Vulnerability int

	// Attribute extras.
	Ability bool
	Decimal bool // keep fractional results instead of flooring
	Mod     float64

	// AbilityMod alias: key of the owning attribute.
	Owner string

	// Skill extras.
	AbilityKey      string
	BaseProficiency float64
	Proficiency     float64 // effective grade: max of record and attached grants
	AbilityMod      float64 // computed ability modifier share of the total

	Effects       []*Effect
	Proficiencies []*Proficiency

	// Evaluation state machine. Busy implies !Computed; a dependency cycle
	// resolves to Computed=true, Result=NaN, Busy=false and stays there.
	Computed bool
	Busy     bool
	Result   float64
}

// NewStat returns a stat of the given kind with identity accumulators.
func NewStat(key string, kind StatKind) *Stat {
	return &Stat{
		Key:  key,
		Kind: kind,
		Mul:  1,
		Min:  math.Inf(-1),
		Max:  math.Inf(1),
	}
}

// Supports reports whether this stat's kind accumulates the operation.
func (s *Stat) Supports(op Operation) bool {
	return kindOps[s.Kind][op]
}

// Apply folds one resolved effect result into the stat's accumulators.
// Unsupported operations are no-ops by construction. Counter operations
// ignore the result value entirely; numeric operations skip non-numeric
// results (a formula that degraded to text contributes nothing).
//
// Every rule is associative and commutative, so permuting effects of the
// same operation never changes the outcome.
func (s *Stat) Apply(op Operation, v formula.Value) {
	if !s.Supports(op) {
		return
	}

	if s.Kind == KindDamageMultiplier {
		// The only supported operation is mul; the multiplier value is
		// bucketed into counters and combined later (immunity wins, then
		// resistance and vulnerability cancel pairwise).
		if v.IsNumber() {
			switch v.Number {
			case 0:
				s.Immunity++
			case 0.5:
				s.Resistance++
			case 2:
				s.Vulnerability++
			}
		}
		return
	}

	switch op {
	case OpAdvantage:
		s.Advantage++
		return
	case OpDisadvantage:
		s.Disadvantage++
		return
	case OpFail:
		s.Fail++
		return
	case OpConditional:
		s.Conditional++
		return
	}

	if !v.IsNumber() {
		return
	}
	switch op {
	case OpBase:
		s.Base = math.Max(s.Base, v.Number)
	case OpAdd:
		s.Add += v.Number
	case OpMul:
		s.Mul *= v.Number
	case OpMin:
		s.Min = math.Max(s.Min, v.Number)
	case OpMax:
		s.Max = math.Min(s.Max, v.Number)
	case OpPassiveAdd:
		s.PassiveAdd += v.Number
	}
}
