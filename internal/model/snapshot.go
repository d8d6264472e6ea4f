package model

// Snapshot is the read contract: everything raw the builder needs for one
// character, already filtered to that character and, for effects and
// proficiencies, to enabled records. Slices arrive in storage order, which
// fixes effect attachment order and therefore the whole pass.
type Snapshot struct {
	Attributes        []AttributeRecord
	Skills            []SkillRecord
	DamageMultipliers []DamageMultiplierRecord
	Effects           []EffectRecord
	Proficiencies     []ProficiencyRecord
	Classes           []ClassLevel
	Scalars           *CreatureScalars
}

// AttributeRecord is a raw attribute row. Ability attributes derive a
// modifier and register a read-through "<key>Mod" alias. Decimal attributes
// keep fractional results instead of flooring.
type AttributeRecord struct {
	Key       string
	Ability   bool
	BaseValue float64
	Decimal   bool
}

// SkillRecord is a raw skill row. AbilityKey names the governing ability
// attribute and may be empty, in which case the ability modifier counts 0.
type SkillRecord struct {
	Key             string
	AbilityKey      string
	BaseValue       float64
	BaseProficiency float64
}

// DamageMultiplierRecord is a raw damage multiplier row; its value is
// entirely effect-driven.
type DamageMultiplierRecord struct {
	Key string
}

// EffectRecord is a raw enabled effect row. StatKey may be empty or point
// at nothing, producing an unrouted effect. Exactly one of Value and Calc
// normally carries the calculation; Value wins when both are present.
type EffectRecord struct {
	ID      int64
	StatKey string
	Op      Operation
	Name    string
	Value   *float64
	Calc    string
}

// ProficiencyRecord is a raw enabled proficiency row.
type ProficiencyRecord struct {
	ID       int64
	SkillKey string
	Value    float64
}

// CreatureScalars carries the free-standing numeric properties formulas may
// reference. Nil when the character has no scalars row.
type CreatureScalars struct {
	XP            float64
	WeightCarried float64
}
