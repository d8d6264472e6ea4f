package integration

import (
	"encoding/json"
	"math"

	"github.com/udisondev/charsheet/internal/db"
	"github.com/udisondev/charsheet/internal/model"
)

func val(f float64) *float64 { return &f }

// seedRogue creates a level 5 rogue/fighter exercising every record type.
func (s *SheetSuite) seedRogue() int64 {
	charID, err := s.characters.CreateCharacter(s.ctx, "Mirelle")
	s.Require().NoError(err)

	attributes := []model.AttributeRecord{
		{Key: "strength", Ability: true, BaseValue: 14},
		{Key: "dexterity", Ability: true, BaseValue: 16},
		{Key: "constitution", Ability: true, BaseValue: 12},
		{Key: "wisdom", Ability: true, BaseValue: 13},
		{Key: "armorClass", BaseValue: 10},
		{Key: "hitPoints", BaseValue: 8},
		{Key: "carryWeight", Decimal: true},
	}
	for _, a := range attributes {
		s.Require().NoError(s.characters.AddAttribute(s.ctx, charID, a))
	}

	skills := []model.SkillRecord{
		{Key: "athletics", AbilityKey: "strength"},
		{Key: "stealth", AbilityKey: "dexterity"},
		{Key: "perception", AbilityKey: "wisdom"},
	}
	for _, sk := range skills {
		s.Require().NoError(s.characters.AddSkill(s.ctx, charID, sk))
	}

	for _, key := range []string{"fire", "poison", "slashing"} {
		s.Require().NoError(s.characters.AddDamageMultiplier(s.ctx, charID, key))
	}

	effects := []model.EffectRecord{
		{StatKey: "armorClass", Op: model.OpAdd, Name: "leather armor", Calc: "dexterityMod"},
		{StatKey: "armorClass", Op: model.OpAdd, Name: "ring of protection", Value: val(1)},
		{StatKey: "hitPoints", Op: model.OpAdd, Name: "tough", Calc: "constitutionMod * level"},
		{StatKey: "carryWeight", Op: model.OpBase, Name: "carrying capacity", Calc: "strength * 15"},
		{StatKey: "fire", Op: model.OpMul, Name: "fire resistance", Value: val(0.5)},
		{StatKey: "poison", Op: model.OpMul, Name: "poison immunity", Value: val(0)},
		{StatKey: "stealth", Op: model.OpAdvantage, Name: "cloak of elvenkind"},
		{StatKey: "perception", Op: model.OpPassiveAdd, Name: "observant", Value: val(5)},
		{StatKey: "perception", Op: model.OpConditional, Name: "keen smell", Calc: "advantage on checks that rely on smell"},
		{StatKey: "luck", Op: model.OpAdd, Name: "unrouted blessing", Value: val(1)},
	}
	for _, e := range effects {
		_, err := s.characters.AddEffect(s.ctx, charID, e, true)
		s.Require().NoError(err)
	}

	// Disabled records must never reach the computation.
	_, err = s.characters.AddEffect(s.ctx, charID,
		model.EffectRecord{StatKey: "armorClass", Op: model.OpAdd, Name: "broken shield", Value: val(100)}, false)
	s.Require().NoError(err)
	_, err = s.characters.AddProficiency(s.ctx, charID,
		model.ProficiencyRecord{SkillKey: "athletics", Value: 2}, false)
	s.Require().NoError(err)

	proficiencies := []model.ProficiencyRecord{
		{SkillKey: "stealth", Value: 2},
		{SkillKey: "perception", Value: 1},
		{SkillKey: "athletics", Value: 1},
	}
	for _, p := range proficiencies {
		_, err := s.characters.AddProficiency(s.ctx, charID, p, true)
		s.Require().NoError(err)
	}

	for _, cl := range []model.ClassLevel{{Name: "rogue", Level: 3}, {Name: "fighter", Level: 2}} {
		s.Require().NoError(s.characters.AddClassLevel(s.ctx, charID, cl))
	}

	s.Require().NoError(s.characters.SetCreatureScalars(s.ctx, charID, model.CreatureScalars{XP: 6500, WeightCarried: 55}))

	return charID
}

func (s *SheetSuite) attrColumns(charID int64, key string) (*float64, *float64) {
	var value, mod *float64
	err := s.db.Pool().QueryRow(s.ctx,
		`SELECT computed_value, computed_mod FROM attributes WHERE character_id = $1 AND key = $2`,
		charID, key).Scan(&value, &mod)
	s.Require().NoError(err)
	return value, mod
}

func (s *SheetSuite) TestRecomputeAndStore() {
	charID := s.seedRogue()

	sheet, err := s.svc.RecomputeAndStore(s.ctx, charID)
	s.Require().NoError(err)

	// Returned sheet.
	s.Equal(float64(5), sheet.Level)
	s.Equal(float64(14), sheet.Variables["armorClass"])
	s.Equal(float64(13), sheet.Variables["hitPoints"])
	s.Equal(float64(210), sheet.Variables["carryWeight"])
	s.Equal(float64(9), sheet.Variables["stealth"])
	s.Equal(float64(3), sheet.Variables["rogueLevel"])
	s.Equal(float64(6500), sheet.Variables["xp"])

	// Attribute columns.
	acValue, acMod := s.attrColumns(charID, "armorClass")
	s.Require().NotNil(acValue)
	s.Equal(float64(14), *acValue, "10 base + dex mod 3 + ring 1")
	s.Nil(acMod, "non-ability attributes store no modifier")

	strValue, strMod := s.attrColumns(charID, "strength")
	s.Require().NotNil(strValue)
	s.Equal(float64(14), *strValue)
	s.Require().NotNil(strMod)
	s.Equal(float64(2), *strMod)

	// Skill columns.
	var stealthValue, stealthProf *float64
	var advantage, conditional int
	err = s.db.Pool().QueryRow(s.ctx,
		`SELECT computed_value, computed_proficiency, advantage, conditional_benefits
		 FROM skills WHERE character_id = $1 AND key = 'stealth'`,
		charID).Scan(&stealthValue, &stealthProf, &advantage, &conditional)
	s.Require().NoError(err)
	s.Require().NotNil(stealthValue)
	s.Equal(float64(9), *stealthValue, "dex mod 3 + expertise 6")
	s.Require().NotNil(stealthProf)
	s.Equal(float64(2), *stealthProf, "the stored grade, not the bonus share")
	s.Equal(1, advantage)
	s.Equal(0, conditional)

	var perceptionValue, passive *float64
	err = s.db.Pool().QueryRow(s.ctx,
		`SELECT computed_value, passive_bonus FROM skills WHERE character_id = $1 AND key = 'perception'`,
		charID).Scan(&perceptionValue, &passive)
	s.Require().NoError(err)
	s.Require().NotNil(perceptionValue)
	s.Equal(float64(4), *perceptionValue, "wis mod 1 + bonus 3")
	s.Require().NotNil(passive)
	s.Equal(float64(5), *passive)

	// Damage multiplier columns.
	for key, want := range map[string]float64{"fire": 0.5, "poison": 0, "slashing": 1} {
		var dmValue *float64
		err = s.db.Pool().QueryRow(s.ctx,
			`SELECT computed_value FROM damage_multipliers WHERE character_id = $1 AND key = $2`,
			charID, key).Scan(&dmValue)
		s.Require().NoError(err)
		s.Require().NotNil(dmValue, key)
		s.Equal(want, *dmValue, key)
	}

	// Effect audit columns.
	var condText *string
	var condResult *float64
	err = s.db.Pool().QueryRow(s.ctx,
		`SELECT computed_result, computed_text FROM effects WHERE character_id = $1 AND name = 'keen smell'`,
		charID).Scan(&condResult, &condText)
	s.Require().NoError(err)
	s.Nil(condResult)
	s.Require().NotNil(condText)
	s.Equal("advantage on checks that rely on smell", *condText)

	var markerResult *float64
	err = s.db.Pool().QueryRow(s.ctx,
		`SELECT computed_result FROM effects WHERE character_id = $1 AND name = 'cloak of elvenkind'`,
		charID).Scan(&markerResult)
	s.Require().NoError(err)
	s.Require().NotNil(markerResult)
	s.Equal(float64(1), *markerResult, "bare marker resolves to 1")

	var unroutedResult *float64
	err = s.db.Pool().QueryRow(s.ctx,
		`SELECT computed_result FROM effects WHERE character_id = $1 AND name = 'unrouted blessing'`,
		charID).Scan(&unroutedResult)
	s.Require().NoError(err)
	s.Require().NotNil(unroutedResult)
	s.Equal(float64(1), *unroutedResult, "unrouted effects still resolve for the audit trail")

	// Character summary row.
	row, err := s.characters.GetCharacter(s.ctx, charID)
	s.Require().NoError(err)
	s.Require().NotNil(row)
	s.Require().NotNil(row.ComputedLevel)
	s.Equal(float64(5), *row.ComputedLevel)
	s.NotNil(row.ComputedAt)

	var rawVars []byte
	err = s.db.Pool().QueryRow(s.ctx,
		`SELECT variables FROM characters WHERE id = $1`, charID).Scan(&rawVars)
	s.Require().NoError(err)
	var vars map[string]*float64
	s.Require().NoError(json.Unmarshal(rawVars, &vars))
	s.Require().NotNil(vars["stealth"])
	s.Equal(float64(9), *vars["stealth"])
	s.Require().NotNil(vars["weightCarried"])
	s.Equal(float64(55), *vars["weightCarried"])
}

func (s *SheetSuite) TestRecomputeDoesNotPersist() {
	charID := s.seedRogue()

	_, err := s.svc.Recompute(s.ctx, charID)
	s.Require().NoError(err)

	value, _ := s.attrColumns(charID, "armorClass")
	s.Nil(value, "plain recompute leaves computed columns empty")

	row, err := s.characters.GetCharacter(s.ctx, charID)
	s.Require().NoError(err)
	s.Require().NotNil(row)
	s.Nil(row.ComputedAt)
}

func (s *SheetSuite) TestDisabledRecordsAreFilteredOut() {
	charID := s.seedRogue()

	snap, err := s.sheets.LoadSnapshot(s.ctx, charID)
	s.Require().NoError(err)

	s.Len(snap.Effects, 10, "disabled effect not loaded")
	s.Len(snap.Proficiencies, 3, "disabled proficiency not loaded")
	for _, e := range snap.Effects {
		s.NotEqual("broken shield", e.Name)
	}

	sheet, err := s.svc.Recompute(s.ctx, charID)
	s.Require().NoError(err)
	s.Equal(float64(14), sheet.Variables["armorClass"], "disabled +100 ignored")
	s.Equal(float64(5), sheet.Variables["athletics"], "disabled expertise ignored")
}

func (s *SheetSuite) TestUnknownCharacter() {
	_, err := s.svc.Recompute(s.ctx, 99999)
	s.Require().Error(err)
	s.ErrorIs(err, db.ErrCharacterNotFound)
}

func (s *SheetSuite) TestCycleStoredAsNaN() {
	charID, err := s.characters.CreateCharacter(s.ctx, "Ouroboros")
	s.Require().NoError(err)
	s.Require().NoError(s.characters.AddAttribute(s.ctx, charID,
		model.AttributeRecord{Key: "hp", BaseValue: 20}))
	_, err = s.characters.AddEffect(s.ctx, charID,
		model.EffectRecord{StatKey: "hp", Op: model.OpAdd, Name: "feedback loop", Calc: "hp + 5"}, true)
	s.Require().NoError(err)

	sheet, err := s.svc.RecomputeAndStore(s.ctx, charID)
	s.Require().NoError(err)
	s.True(math.IsNaN(sheet.Variables["hp"]))

	value, _ := s.attrColumns(charID, "hp")
	s.Require().NotNil(value)
	s.True(math.IsNaN(*value), "NaN survives the double precision column")

	var rawVars []byte
	err = s.db.Pool().QueryRow(s.ctx,
		`SELECT variables FROM characters WHERE id = $1`, charID).Scan(&rawVars)
	s.Require().NoError(err)
	var vars map[string]*float64
	s.Require().NoError(json.Unmarshal(rawVars, &vars))
	s.Contains(vars, "hp")
	s.Nil(vars["hp"], "NaN becomes null in the jsonb summary")
}

func (s *SheetSuite) TestListCharacters() {
	first := s.seedRogue()
	second, err := s.characters.CreateCharacter(s.ctx, "Bystander")
	s.Require().NoError(err)

	rows, err := s.characters.ListCharacters(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(rows, 2)
	s.Equal(first, rows[0].ID)
	s.Equal("Mirelle", rows[0].Name)
	s.Equal(second, rows[1].ID)

	missing, err := s.characters.GetCharacter(s.ctx, 424242)
	s.Require().NoError(err)
	s.Nil(missing)
}
