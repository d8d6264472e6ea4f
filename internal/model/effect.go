package model

import (
	"math"
	"strconv"
	"strings"

	"github.com/udisondev/charsheet/internal/formula"
)

// Effect is a single sheet modifier: an operation plus a calculation that is
// either a literal number, a formula referencing other stats, or free text.
// An effect with an empty StatKey is unrouted: it is still evaluated for the
// audit trail but its result is not applied to any stat.
type Effect struct {
	ID      int64
	StatKey string
	Op      Operation
	Name    string

	// Value carries a pre-parsed literal when the stored calculation is a
	// plain number; otherwise Calc holds the raw calculation text.
	Value *float64
	Calc  string

	// Computed is set the first time the effect resolves in a pass; Result
	// is then served from cache so each effect computes at most once.
	Computed bool
	Result   formula.Value
}

// Literal returns the effect's literal numeric calculation, if it has one.
// A stored numeric Value wins; otherwise a Calc that is nothing but a
// finite number counts as a literal too.
func (e *Effect) Literal() (float64, bool) {
	if e.Value != nil {
		if !math.IsInf(*e.Value, 0) && !math.IsNaN(*e.Value) {
			return *e.Value, true
		}
		return 0, false
	}
	return parseLiteral(e.Calc)
}

// parseLiteral interprets s as a literal finite number. Formulas, text and
// non-finite spellings all fail and flow to formula evaluation instead.
func parseLiteral(s string) (float64, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, false
	}
	return n, true
}
