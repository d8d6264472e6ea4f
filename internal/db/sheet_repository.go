package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/charsheet/internal/model"
)

// SheetRepository loads raw sheet records for the builder.
type SheetRepository struct {
	pool *pgxpool.Pool
}

// NewSheetRepository creates a new sheet repository.
func NewSheetRepository(pool *pgxpool.Pool) *SheetRepository {
	return &SheetRepository{pool: pool}
}

// LoadSnapshot loads everything the builder needs for one character.
// Effects and proficiencies come back enabled-only; every category is
// ordered by id so attachment order, and with it the whole pass, is
// deterministic. A character with no rows in a category simply gets an
// empty slice. An unknown character id returns ErrCharacterNotFound.
func (r *SheetRepository) LoadSnapshot(ctx context.Context, charID int64) (model.Snapshot, error) {
	var snap model.Snapshot

	var exists int64
	err := r.pool.QueryRow(ctx,
		`SELECT id FROM characters WHERE id = $1`, charID).Scan(&exists)
	if errors.Is(err, pgx.ErrNoRows) {
		return snap, fmt.Errorf("character %d: %w", charID, ErrCharacterNotFound)
	}
	if err != nil {
		return snap, fmt.Errorf("querying character %d: %w", charID, err)
	}

	if snap.Attributes, err = r.loadAttributes(ctx, charID); err != nil {
		return snap, err
	}
	if snap.Skills, err = r.loadSkills(ctx, charID); err != nil {
		return snap, err
	}
	if snap.DamageMultipliers, err = r.loadDamageMultipliers(ctx, charID); err != nil {
		return snap, err
	}
	if snap.Effects, err = r.loadEffects(ctx, charID); err != nil {
		return snap, err
	}
	if snap.Proficiencies, err = r.loadProficiencies(ctx, charID); err != nil {
		return snap, err
	}
	if snap.Classes, err = r.loadClassLevels(ctx, charID); err != nil {
		return snap, err
	}
	if snap.Scalars, err = r.loadScalars(ctx, charID); err != nil {
		return snap, err
	}

	return snap, nil
}

func (r *SheetRepository) loadAttributes(ctx context.Context, charID int64) ([]model.AttributeRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT key, ability, base_value, is_decimal
		 FROM attributes WHERE character_id = $1 ORDER BY id`, charID)
	if err != nil {
		return nil, fmt.Errorf("query attributes: %w", err)
	}
	defer rows.Close()

	var result []model.AttributeRecord
	for rows.Next() {
		var rec model.AttributeRecord
		if err := rows.Scan(&rec.Key, &rec.Ability, &rec.BaseValue, &rec.Decimal); err != nil {
			return nil, fmt.Errorf("scan attributes: %w", err)
		}
		result = append(result, rec)
	}
	return result, rows.Err()
}

func (r *SheetRepository) loadSkills(ctx context.Context, charID int64) ([]model.SkillRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT key, ability_key, base_value, base_proficiency
		 FROM skills WHERE character_id = $1 ORDER BY id`, charID)
	if err != nil {
		return nil, fmt.Errorf("query skills: %w", err)
	}
	defer rows.Close()

	var result []model.SkillRecord
	for rows.Next() {
		var rec model.SkillRecord
		if err := rows.Scan(&rec.Key, &rec.AbilityKey, &rec.BaseValue, &rec.BaseProficiency); err != nil {
			return nil, fmt.Errorf("scan skills: %w", err)
		}
		result = append(result, rec)
	}
	return result, rows.Err()
}

func (r *SheetRepository) loadDamageMultipliers(ctx context.Context, charID int64) ([]model.DamageMultiplierRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT key FROM damage_multipliers WHERE character_id = $1 ORDER BY id`, charID)
	if err != nil {
		return nil, fmt.Errorf("query damage_multipliers: %w", err)
	}
	defer rows.Close()

	var result []model.DamageMultiplierRecord
	for rows.Next() {
		var rec model.DamageMultiplierRecord
		if err := rows.Scan(&rec.Key); err != nil {
			return nil, fmt.Errorf("scan damage_multipliers: %w", err)
		}
		result = append(result, rec)
	}
	return result, rows.Err()
}

func (r *SheetRepository) loadEffects(ctx context.Context, charID int64) ([]model.EffectRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, stat_key, operation, name, value, calc
		 FROM effects WHERE character_id = $1 AND enabled ORDER BY id`, charID)
	if err != nil {
		return nil, fmt.Errorf("query effects: %w", err)
	}
	defer rows.Close()

	var result []model.EffectRecord
	for rows.Next() {
		var rec model.EffectRecord
		var op string
		if err := rows.Scan(&rec.ID, &rec.StatKey, &op, &rec.Name, &rec.Value, &rec.Calc); err != nil {
			return nil, fmt.Errorf("scan effects: %w", err)
		}
		rec.Op = model.Operation(op)
		result = append(result, rec)
	}
	return result, rows.Err()
}

func (r *SheetRepository) loadProficiencies(ctx context.Context, charID int64) ([]model.ProficiencyRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, skill_key, value
		 FROM proficiencies WHERE character_id = $1 AND enabled ORDER BY id`, charID)
	if err != nil {
		return nil, fmt.Errorf("query proficiencies: %w", err)
	}
	defer rows.Close()

	var result []model.ProficiencyRecord
	for rows.Next() {
		var rec model.ProficiencyRecord
		if err := rows.Scan(&rec.ID, &rec.SkillKey, &rec.Value); err != nil {
			return nil, fmt.Errorf("scan proficiencies: %w", err)
		}
		result = append(result, rec)
	}
	return result, rows.Err()
}

func (r *SheetRepository) loadClassLevels(ctx context.Context, charID int64) ([]model.ClassLevel, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT name, level FROM class_levels WHERE character_id = $1 ORDER BY id`, charID)
	if err != nil {
		return nil, fmt.Errorf("query class_levels: %w", err)
	}
	defer rows.Close()

	var result []model.ClassLevel
	for rows.Next() {
		var rec model.ClassLevel
		if err := rows.Scan(&rec.Name, &rec.Level); err != nil {
			return nil, fmt.Errorf("scan class_levels: %w", err)
		}
		result = append(result, rec)
	}
	return result, rows.Err()
}

func (r *SheetRepository) loadScalars(ctx context.Context, charID int64) (*model.CreatureScalars, error) {
	var sc model.CreatureScalars
	err := r.pool.QueryRow(ctx,
		`SELECT xp, weight_carried FROM creature_properties WHERE character_id = $1`, charID,
	).Scan(&sc.XP, &sc.WeightCarried)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query creature_properties: %w", err)
	}
	return &sc, nil
}
