// seeddemo creates a demo character that exercises every record type:
// ability attributes with derived modifiers, formula-driven attributes,
// proficient and expert skills, damage multipliers, markers, conditional
// benefits, a disabled effect and multiclass levels.
//
// Usage:
//
//	go run ./cmd/seeddemo
//	go run ./cmd/seeddemo -config config/sheetserver.yaml -name Mirelle
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/udisondev/charsheet/internal/config"
	"github.com/udisondev/charsheet/internal/db"
	"github.com/udisondev/charsheet/internal/model"
)

func main() {
	cfgPath := flag.String("config", "config/sheetserver.yaml", "path to config file")
	name := flag.String("name", "Demo Rogue", "character name")
	flag.Parse()

	if err := run(context.Background(), *cfgPath, *name); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfgPath, name string) error {
	cfg, err := config.LoadServer(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Level(),
	})))

	database, err := db.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()

	if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	id, err := seed(ctx, db.NewCharacterRepository(database.Pool()), name)
	if err != nil {
		return err
	}

	slog.Info("demo character created", "char_id", id, "name", name)
	fmt.Println(id)
	return nil
}

func seed(ctx context.Context, repo *db.CharacterRepository, name string) (int64, error) {
	id, err := repo.CreateCharacter(ctx, name)
	if err != nil {
		return 0, err
	}

	attributes := []model.AttributeRecord{
		{Key: "strength", Ability: true, BaseValue: 14},
		{Key: "dexterity", Ability: true, BaseValue: 16},
		{Key: "constitution", Ability: true, BaseValue: 12},
		{Key: "intelligence", Ability: true, BaseValue: 10},
		{Key: "wisdom", Ability: true, BaseValue: 13},
		{Key: "charisma", Ability: true, BaseValue: 8},
		{Key: "armorClass", BaseValue: 10},
		{Key: "hitPoints", BaseValue: 8},
		{Key: "speed", BaseValue: 30},
		{Key: "carryWeight", Decimal: true},
	}
	for _, a := range attributes {
		if err := repo.AddAttribute(ctx, id, a); err != nil {
			return 0, err
		}
	}

	skills := []model.SkillRecord{
		{Key: "athletics", AbilityKey: "strength"},
		{Key: "stealth", AbilityKey: "dexterity"},
		{Key: "perception", AbilityKey: "wisdom"},
		{Key: "arcana", AbilityKey: "intelligence"},
	}
	for _, s := range skills {
		if err := repo.AddSkill(ctx, id, s); err != nil {
			return 0, err
		}
	}

	for _, key := range []string{"fire", "poison", "slashing"} {
		if err := repo.AddDamageMultiplier(ctx, id, key); err != nil {
			return 0, err
		}
	}

	val := func(f float64) *float64 { return &f }
	effects := []model.EffectRecord{
		{StatKey: "armorClass", Op: model.OpAdd, Name: "leather armor", Calc: "dexterityMod"},
		{StatKey: "armorClass", Op: model.OpAdd, Name: "ring of protection", Value: val(1)},
		{StatKey: "hitPoints", Op: model.OpAdd, Name: "tough constitution", Calc: "constitutionMod * level"},
		{StatKey: "carryWeight", Op: model.OpBase, Name: "carrying capacity", Calc: "strength * 15"},
		{StatKey: "fire", Op: model.OpMul, Name: "fire resistance", Value: val(0.5)},
		{StatKey: "poison", Op: model.OpMul, Name: "poison immunity", Value: val(0)},
		{StatKey: "stealth", Op: model.OpAdvantage, Name: "cloak of elvenkind"},
		{StatKey: "perception", Op: model.OpPassiveAdd, Name: "observant", Value: val(5)},
		{StatKey: "perception", Op: model.OpConditional, Name: "keen smell", Calc: "advantage on checks that rely on smell"},
		{StatKey: "luck", Op: model.OpAdd, Name: "unrouted blessing", Value: val(1)},
	}
	for _, e := range effects {
		if _, err := repo.AddEffect(ctx, id, e, true); err != nil {
			return 0, err
		}
	}

	// Disabled effects must never reach the computation.
	off := model.EffectRecord{StatKey: "armorClass", Op: model.OpAdd, Name: "broken shield", Value: val(100)}
	if _, err := repo.AddEffect(ctx, id, off, false); err != nil {
		return 0, err
	}

	proficiencies := []model.ProficiencyRecord{
		{SkillKey: "stealth", Value: 2},
		{SkillKey: "perception", Value: 1},
		{SkillKey: "athletics", Value: 1},
	}
	for _, p := range proficiencies {
		if _, err := repo.AddProficiency(ctx, id, p, true); err != nil {
			return 0, err
		}
	}

	for _, cl := range []model.ClassLevel{{Name: "rogue", Level: 3}, {Name: "fighter", Level: 2}} {
		if err := repo.AddClassLevel(ctx, id, cl); err != nil {
			return 0, err
		}
	}

	if err := repo.SetCreatureScalars(ctx, id, model.CreatureScalars{XP: 6500, WeightCarried: 55}); err != nil {
		return 0, err
	}

	return id, nil
}
