package model

// Proficiency grants a skill a share of the proficiency bonus. Value is the
// multiplier applied to the bonus: 0 none, 0.5 half (jack of all trades),
// 1 proficient, 2 expertise. A skill keeps the best value it was granted.
type Proficiency struct {
	ID       int64
	SkillKey string
	Value    float64
}

// ClassLevel is one class entry on the sheet; the character's total level is
// the sum over all entries unless an explicit "level" variable overrides it.
type ClassLevel struct {
	Name  string
	Level int
}
