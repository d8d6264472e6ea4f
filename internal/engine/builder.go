package engine

import "github.com/udisondev/charsheet/internal/model"

// Build assembles the evaluation workspace for one character from its raw
// snapshot. Registration order is fixed: attributes (each ability attribute
// followed by its "<key>Mod" alias), skills, damage multipliers, class
// levels, creature properties, then the character level unless the sheet
// already carries an explicit "level" stat. Effects and proficiencies are
// routed last, when every possible target exists.
func Build(charID int64, snap model.Snapshot) *model.Workspace {
	ws := model.NewWorkspace(charID)

	for _, rec := range snap.Attributes {
		s := model.NewStat(rec.Key, model.KindAttribute)
		s.Base = rec.BaseValue
		s.Ability = rec.Ability
		s.Decimal = rec.Decimal
		if !ws.Register(s) {
			continue
		}
		ws.Attributes = append(ws.Attributes, s)
		if rec.Ability {
			alias := model.NewStat(rec.Key+"Mod", model.KindAbilityMod)
			alias.Owner = rec.Key
			ws.Register(alias)
		}
	}

	for _, rec := range snap.Skills {
		s := model.NewStat(rec.Key, model.KindSkill)
		s.Base = rec.BaseValue
		s.AbilityKey = rec.AbilityKey
		s.BaseProficiency = rec.BaseProficiency
		if ws.Register(s) {
			ws.Skills = append(ws.Skills, s)
		}
	}

	for _, rec := range snap.DamageMultipliers {
		s := model.NewStat(rec.Key, model.KindDamageMultiplier)
		if ws.Register(s) {
			ws.DamageMultipliers = append(ws.DamageMultipliers, s)
		}
	}

	for _, cl := range snap.Classes {
		s := model.NewStat(cl.Name+"Level", model.KindClassLevel)
		s.Base = float64(cl.Level)
		ws.Register(s)
	}

	if snap.Scalars != nil {
		xp := model.NewStat("xp", model.KindProperty)
		xp.Base = snap.Scalars.XP
		ws.Register(xp)

		weight := model.NewStat("weightCarried", model.KindProperty)
		weight.Base = snap.Scalars.WeightCarried
		ws.Register(weight)
	}

	// The character level is the class level sum unless the sheet defines
	// "level" itself, in which case the explicit stat wins.
	if _, ok := ws.Lookup("level"); !ok {
		total := 0
		for _, cl := range snap.Classes {
			total += cl.Level
		}
		level := model.NewStat("level", model.KindCharacterLevel)
		level.Base = float64(total)
		ws.Register(level)
	}

	for _, rec := range snap.Effects {
		eff := &model.Effect{
			ID:      rec.ID,
			StatKey: rec.StatKey,
			Op:      rec.Op,
			Name:    rec.Name,
			Value:   rec.Value,
			Calc:    rec.Calc,
		}
		if target, ok := ws.Target(rec.StatKey); ok {
			target.Effects = append(target.Effects, eff)
		} else {
			ws.Unrouted = append(ws.Unrouted, eff)
		}
	}

	for _, rec := range snap.Proficiencies {
		s, ok := ws.Lookup(rec.SkillKey)
		if !ok || s.Kind != model.KindSkill {
			continue
		}
		s.Proficiencies = append(s.Proficiencies, &model.Proficiency{
			ID:       rec.ID,
			SkillKey: rec.SkillKey,
			Value:    rec.Value,
		})
	}

	return ws
}
