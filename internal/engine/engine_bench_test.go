package engine

import (
	"fmt"
	"testing"

	"github.com/udisondev/charsheet/internal/model"
)

// --- helpers ---

// benchSnapshot builds a mid-sized character: six abilities, a dozen
// skills, a handful of damage multipliers and a mix of literal and
// formula effects.
func benchSnapshot() model.Snapshot {
	snap := model.Snapshot{
		Classes: []model.ClassLevel{{Name: "rogue", Level: 3}, {Name: "fighter", Level: 2}},
		Scalars: &model.CreatureScalars{XP: 6500, WeightCarried: 55},
	}

	abilities := []string{"strength", "dexterity", "constitution", "intelligence", "wisdom", "charisma"}
	for i, key := range abilities {
		snap.Attributes = append(snap.Attributes, model.AttributeRecord{
			Key: key, Ability: true, BaseValue: float64(10 + i),
		})
	}
	snap.Attributes = append(snap.Attributes,
		model.AttributeRecord{Key: "armorClass", BaseValue: 10},
		model.AttributeRecord{Key: "hitPoints", BaseValue: 8},
		model.AttributeRecord{Key: "carryWeight", Decimal: true},
	)

	for i := range 12 {
		snap.Skills = append(snap.Skills, model.SkillRecord{
			Key:        fmt.Sprintf("skill%d", i),
			AbilityKey: abilities[i%len(abilities)],
		})
		if i%3 == 0 {
			snap.Proficiencies = append(snap.Proficiencies, model.ProficiencyRecord{
				ID: int64(i + 1), SkillKey: fmt.Sprintf("skill%d", i), Value: 1,
			})
		}
	}

	for _, key := range []string{"fire", "cold", "poison", "slashing"} {
		snap.DamageMultipliers = append(snap.DamageMultipliers, model.DamageMultiplierRecord{Key: key})
	}

	v1, v2 := 1.0, 0.5
	snap.Effects = []model.EffectRecord{
		{ID: 1, StatKey: "armorClass", Op: model.OpAdd, Calc: "dexterityMod"},
		{ID: 2, StatKey: "armorClass", Op: model.OpAdd, Value: &v1},
		{ID: 3, StatKey: "hitPoints", Op: model.OpAdd, Calc: "constitutionMod * level"},
		{ID: 4, StatKey: "carryWeight", Op: model.OpBase, Calc: "strength * 15"},
		{ID: 5, StatKey: "fire", Op: model.OpMul, Value: &v2},
		{ID: 6, StatKey: "skill0", Op: model.OpAdvantage},
		{ID: 7, StatKey: "skill3", Op: model.OpPassiveAdd, Calc: "wisdomMod + 2"},
	}

	return snap
}

// --- full pass benchmarks ---

// BenchmarkRecomputePass benchmarks one complete pass: build the workspace
// from a snapshot, compute every stat, flatten the results. The workspace
// is single-use, so the build is part of the measured cost.
func BenchmarkRecomputePass(b *testing.B) {
	b.ReportAllocs()
	snap := benchSnapshot()

	b.ResetTimer()
	for range b.N {
		ws := Build(1, snap)
		_ = New(ws).Compute()
	}
}

// BenchmarkBuild benchmarks workspace construction alone: routing effects
// and proficiencies, registering the variable registry.
func BenchmarkBuild(b *testing.B) {
	b.ReportAllocs()
	snap := benchSnapshot()

	b.ResetTimer()
	for range b.N {
		_ = Build(1, snap)
	}
}

// BenchmarkRecomputePass_FormulaHeavy benchmarks a sheet where every stat
// depends on another through a formula, so the pass is dominated by
// parsing and recursive resolution.
func BenchmarkRecomputePass_FormulaHeavy(b *testing.B) {
	b.ReportAllocs()

	snap := model.Snapshot{}
	snap.Attributes = append(snap.Attributes, model.AttributeRecord{Key: "stat0", BaseValue: 10})
	for i := 1; i < 20; i++ {
		snap.Attributes = append(snap.Attributes, model.AttributeRecord{
			Key: fmt.Sprintf("stat%d", i),
		})
		snap.Effects = append(snap.Effects, model.EffectRecord{
			ID:      int64(i),
			StatKey: fmt.Sprintf("stat%d", i),
			Op:      model.OpBase,
			Calc:    fmt.Sprintf("stat%d + %d", i-1, i),
		})
	}

	b.ResetTimer()
	for range b.N {
		ws := Build(1, snap)
		_ = New(ws).Compute()
	}
}
