package sheetserver

import (
	"math"

	"github.com/udisondev/charsheet/internal/model"
)

// SheetResponse is the JSON shape of a computed sheet. JSON cannot encode
// NaN or infinities, so every number that may be non-finite is a pointer
// and poisoned results serialize as null.
type SheetResponse struct {
	CharID            int64                      `json:"charId"`
	Level             *float64                   `json:"level"`
	Variables         map[string]*float64        `json:"variables"`
	Attributes        []AttributeResponse        `json:"attributes"`
	Skills            []SkillResponse            `json:"skills"`
	DamageMultipliers []DamageMultiplierResponse `json:"damageMultipliers"`
	Effects           []EffectResponse           `json:"effects"`
}

// AttributeResponse carries one computed attribute.
type AttributeResponse struct {
	Key   string   `json:"key"`
	Value *float64 `json:"value"`
	Mod   *float64 `json:"mod,omitempty"`
}

// SkillResponse carries one computed skill with its check bookkeeping.
type SkillResponse struct {
	Key                 string   `json:"key"`
	Value               *float64 `json:"value"`
	AbilityMod          *float64 `json:"abilityMod"`
	Proficiency         *float64 `json:"proficiency"`
	Advantage           int      `json:"advantage"`
	Disadvantage        int      `json:"disadvantage"`
	PassiveBonus        *float64 `json:"passiveBonus"`
	ConditionalBenefits int      `json:"conditionalBenefits"`
	Fail                int      `json:"fail"`
}

// DamageMultiplierResponse carries one computed damage factor.
type DamageMultiplierResponse struct {
	Key   string   `json:"key"`
	Value *float64 `json:"value"`
}

// EffectResponse carries one resolved effect: a number or the text its
// calculation degraded to.
type EffectResponse struct {
	ID    int64    `json:"id"`
	Value *float64 `json:"value,omitempty"`
	Text  *string  `json:"text,omitempty"`
}

// NewSheetResponse converts a computed sheet into its JSON shape.
func NewSheetResponse(sheet model.ComputedSheet) SheetResponse {
	resp := SheetResponse{
		CharID:    sheet.CharID,
		Level:     finite(sheet.Level),
		Variables: make(map[string]*float64, len(sheet.Variables)),
	}
	for k, v := range sheet.Variables {
		resp.Variables[k] = finite(v)
	}

	for _, a := range sheet.Attributes {
		resp.Attributes = append(resp.Attributes, AttributeResponse{
			Key:   a.Key,
			Value: finite(a.Value),
			Mod:   a.Mod,
		})
	}
	for _, s := range sheet.Skills {
		resp.Skills = append(resp.Skills, SkillResponse{
			Key:                 s.Key,
			Value:               finite(s.Value),
			AbilityMod:          finite(s.AbilityMod),
			Proficiency:         finite(s.Proficiency),
			Advantage:           s.Advantage,
			Disadvantage:        s.Disadvantage,
			PassiveBonus:        finite(s.PassiveBonus),
			ConditionalBenefits: s.ConditionalBenefits,
			Fail:                s.Fail,
		})
	}
	for _, d := range sheet.DamageMultipliers {
		resp.DamageMultipliers = append(resp.DamageMultipliers, DamageMultiplierResponse{
			Key:   d.Key,
			Value: finite(d.Value),
		})
	}
	for _, e := range sheet.Effects {
		er := EffectResponse{ID: e.ID, Text: e.Text}
		if e.Value != nil {
			er.Value = finite(*e.Value)
		}
		resp.Effects = append(resp.Effects, er)
	}

	return resp
}

// finite returns the value boxed, or nil when it has no JSON encoding.
func finite(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
