package formula

import (
	"math"
	"strconv"
)

// Value is the result of evaluating a formula: either a number or, when the
// expression could not be fully resolved, its textual form.
type Value struct {
	Number float64
	Text   string
	IsText bool
}

// Num wraps a numeric result.
func Num(n float64) Value {
	return Value{Number: n}
}

// Text wraps a textual result.
func Text(s string) Value {
	return Value{Text: s, IsText: true}
}

// IsNumber reports whether the value carries a numeric result.
// NaN counts as a number (it encodes an evaluation cycle, not text).
func (v Value) IsNumber() bool {
	return !v.IsText
}

// String renders the value for logs and audit output.
func (v Value) String() string {
	if v.IsText {
		return v.Text
	}
	return formatNumber(v.Number)
}

// formatNumber renders a float the way it would appear in a formula:
// integers without a decimal point, everything else in shortest form.
func formatNumber(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
