package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/charsheet/internal/model"
)

// CharacterRepository manages character rows and their raw sheet records.
type CharacterRepository struct {
	pool *pgxpool.Pool
}

// NewCharacterRepository creates a new character repository.
func NewCharacterRepository(pool *pgxpool.Pool) *CharacterRepository {
	return &CharacterRepository{pool: pool}
}

// CharacterRow is a characters row with its last computed summary.
type CharacterRow struct {
	ID            int64
	Name          string
	ComputedLevel *float64
	ComputedAt    *time.Time
}

// CreateCharacter inserts a new character and returns its id.
func (r *CharacterRepository) CreateCharacter(ctx context.Context, name string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO characters (name) VALUES ($1) RETURNING id`, name,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("creating character %q: %w", name, err)
	}
	return id, nil
}

// GetCharacter loads one character row.
// Returns nil, nil if the character does not exist.
func (r *CharacterRepository) GetCharacter(ctx context.Context, id int64) (*CharacterRow, error) {
	var row CharacterRow
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, computed_level, computed_at FROM characters WHERE id = $1`, id,
	).Scan(&row.ID, &row.Name, &row.ComputedLevel, &row.ComputedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying character %d: %w", id, err)
	}
	return &row, nil
}

// ListCharacters loads all character rows ordered by id.
func (r *CharacterRepository) ListCharacters(ctx context.Context) ([]CharacterRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, computed_level, computed_at FROM characters ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query characters: %w", err)
	}
	defer rows.Close()

	var result []CharacterRow
	for rows.Next() {
		var row CharacterRow
		if err := rows.Scan(&row.ID, &row.Name, &row.ComputedLevel, &row.ComputedAt); err != nil {
			return nil, fmt.Errorf("scan characters: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// AddAttribute inserts a raw attribute record.
func (r *CharacterRepository) AddAttribute(ctx context.Context, charID int64, rec model.AttributeRecord) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO attributes (character_id, key, ability, base_value, is_decimal)
		 VALUES ($1, $2, $3, $4, $5)`,
		charID, rec.Key, rec.Ability, rec.BaseValue, rec.Decimal,
	)
	if err != nil {
		return fmt.Errorf("adding attribute %q: %w", rec.Key, err)
	}
	return nil
}

// AddSkill inserts a raw skill record.
func (r *CharacterRepository) AddSkill(ctx context.Context, charID int64, rec model.SkillRecord) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO skills (character_id, key, ability_key, base_value, base_proficiency)
		 VALUES ($1, $2, $3, $4, $5)`,
		charID, rec.Key, rec.AbilityKey, rec.BaseValue, rec.BaseProficiency,
	)
	if err != nil {
		return fmt.Errorf("adding skill %q: %w", rec.Key, err)
	}
	return nil
}

// AddDamageMultiplier inserts a raw damage multiplier record.
func (r *CharacterRepository) AddDamageMultiplier(ctx context.Context, charID int64, key string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO damage_multipliers (character_id, key) VALUES ($1, $2)`,
		charID, key,
	)
	if err != nil {
		return fmt.Errorf("adding damage multiplier %q: %w", key, err)
	}
	return nil
}

// AddEffect inserts an effect record and returns its id.
func (r *CharacterRepository) AddEffect(ctx context.Context, charID int64, rec model.EffectRecord, enabled bool) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO effects (character_id, stat_key, operation, name, value, calc, enabled)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		charID, rec.StatKey, string(rec.Op), rec.Name, rec.Value, rec.Calc, enabled,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("adding effect %q: %w", rec.Name, err)
	}
	return id, nil
}

// AddProficiency inserts a proficiency record and returns its id.
func (r *CharacterRepository) AddProficiency(ctx context.Context, charID int64, rec model.ProficiencyRecord, enabled bool) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO proficiencies (character_id, skill_key, value, enabled)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		charID, rec.SkillKey, rec.Value, enabled,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("adding proficiency for %q: %w", rec.SkillKey, err)
	}
	return id, nil
}

// AddClassLevel inserts a class level record.
func (r *CharacterRepository) AddClassLevel(ctx context.Context, charID int64, cl model.ClassLevel) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO class_levels (character_id, name, level) VALUES ($1, $2, $3)`,
		charID, cl.Name, cl.Level,
	)
	if err != nil {
		return fmt.Errorf("adding class level %q: %w", cl.Name, err)
	}
	return nil
}

// SetCreatureScalars upserts the character's scalar properties row.
func (r *CharacterRepository) SetCreatureScalars(ctx context.Context, charID int64, sc model.CreatureScalars) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO creature_properties (character_id, xp, weight_carried)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (character_id) DO UPDATE SET xp = $2, weight_carried = $3`,
		charID, sc.XP, sc.WeightCarried,
	)
	if err != nil {
		return fmt.Errorf("setting creature scalars: %w", err)
	}
	return nil
}
