package db

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/charsheet/internal/model"
)

// ResultRepository writes computed sheets back to the database.
type ResultRepository struct {
	pool *pgxpool.Pool
}

// NewResultRepository creates a new result repository.
func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

// SaveComputed persists one computed sheet. Each result category goes out
// as its own batch and the batches are independent: a failure in one is
// logged and the others still land. The returned error only reports how
// many categories failed; callers treat it as observability, not as a
// reason to fail the computation.
func (r *ResultRepository) SaveComputed(ctx context.Context, sheet model.ComputedSheet) error {
	failed := 0

	store := func(category string, batch *pgx.Batch) {
		if batch.Len() == 0 {
			return
		}
		if err := r.sendBatch(ctx, batch); err != nil {
			failed++
			slog.Error("failed to store result category",
				"category", category, "char_id", sheet.CharID, "err", err)
		}
	}

	store("attributes", attributeBatch(sheet))
	store("skills", skillBatch(sheet))
	store("damage_multipliers", damageMultiplierBatch(sheet))
	store("effects", effectBatch(sheet))
	store("character", characterBatch(sheet))

	if failed > 0 {
		return fmt.Errorf("storing sheet for character %d: %d categories failed", sheet.CharID, failed)
	}
	return nil
}

func (r *ResultRepository) sendBatch(ctx context.Context, batch *pgx.Batch) error {
	br := r.pool.SendBatch(ctx, batch)
	for range batch.Len() {
		if _, err := br.Exec(); err != nil {
			br.Close() //nolint:errcheck
			return err
		}
	}
	return br.Close()
}

func attributeBatch(sheet model.ComputedSheet) *pgx.Batch {
	batch := &pgx.Batch{}
	for _, a := range sheet.Attributes {
		batch.Queue(
			`UPDATE attributes SET computed_value = $3, computed_mod = $4
			 WHERE character_id = $1 AND key = $2`,
			sheet.CharID, a.Key, a.Value, a.Mod,
		)
	}
	return batch
}

func skillBatch(sheet model.ComputedSheet) *pgx.Batch {
	batch := &pgx.Batch{}
	for _, s := range sheet.Skills {
		batch.Queue(
			`UPDATE skills SET
			  computed_value = $3, computed_ability_mod = $4, computed_proficiency = $5,
			  advantage = $6, disadvantage = $7, passive_bonus = $8,
			  conditional_benefits = $9, fail = $10
			 WHERE character_id = $1 AND key = $2`,
			sheet.CharID, s.Key, s.Value, s.AbilityMod, s.Proficiency,
			s.Advantage, s.Disadvantage, s.PassiveBonus, s.ConditionalBenefits, s.Fail,
		)
	}
	return batch
}

func damageMultiplierBatch(sheet model.ComputedSheet) *pgx.Batch {
	batch := &pgx.Batch{}
	for _, d := range sheet.DamageMultipliers {
		batch.Queue(
			`UPDATE damage_multipliers SET computed_value = $3
			 WHERE character_id = $1 AND key = $2`,
			sheet.CharID, d.Key, d.Value,
		)
	}
	return batch
}

func effectBatch(sheet model.ComputedSheet) *pgx.Batch {
	batch := &pgx.Batch{}
	for _, e := range sheet.Effects {
		batch.Queue(
			`UPDATE effects SET computed_result = $2, computed_text = $3 WHERE id = $1`,
			e.ID, e.Value, e.Text,
		)
	}
	return batch
}

func characterBatch(sheet model.ComputedSheet) *pgx.Batch {
	batch := &pgx.Batch{}
	vars, err := variablesJSON(sheet.Variables)
	if err != nil {
		// Should not happen: non-finite numbers are nulled out beforehand.
		slog.Error("failed to encode sheet variables", "char_id", sheet.CharID, "err", err)
		vars = []byte(`{}`)
	}
	batch.Queue(
		`UPDATE characters SET computed_level = $2, variables = $3, computed_at = now()
		 WHERE id = $1`,
		sheet.CharID, sheet.Level, vars,
	)
	return batch
}

// variablesJSON encodes the variable map for the jsonb column. JSON has no
// encoding for NaN or infinities, so non-finite results become null; the
// numeric columns still carry them verbatim.
func variablesJSON(vars map[string]float64) ([]byte, error) {
	out := make(map[string]*float64, len(vars))
	for k, v := range vars {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			out[k] = nil
			continue
		}
		val := v
		out[k] = &val
	}
	return json.Marshal(out)
}
