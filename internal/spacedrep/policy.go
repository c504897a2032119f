package spacedrep

// Outcome is the judged result of one answer.
type Outcome struct {
	// HadDifficulty is the learner's own "I struggled" flag.
	HadDifficulty bool `json:"had_difficulty"`

	Fluent     bool `json:"fluent"`
	HasFillers bool `json:"has_fillers"`

	// MinimalUsage marks a fluent answer that used the word only in a
	// minimally adequate way.
	MinimalUsage bool `json:"minimal_usage"`
}

// Rule names which branch of NextState an outcome falls into.
type Rule string

const (
	RuleDifficulty   Rule = "difficulty"
	RuleNotFluent    Rule = "not-fluent"
	RuleMinimalUsage Rule = "minimal-usage"
	RuleSuccess      Rule = "success"
)

// Rule returns the first matching scheduling rule for the outcome.
func (o Outcome) Rule() Rule {
	switch {
	case o.HadDifficulty:
		return RuleDifficulty
	case !o.Fluent || o.HasFillers:
		return RuleNotFluent
	case o.MinimalUsage:
		return RuleMinimalUsage
	default:
		return RuleSuccess
	}
}

// NextState computes the next review offset and progress count for an
// outcome given the current progress count. It is pure: the caller adds
// the offset to its own clock.
func NextState(o Outcome, progress int) (offsetMinutes, newProgress int) {
	switch o.Rule() {
	case RuleDifficulty:
		return DifficultyOffsetMinutes, 0
	case RuleNotFluent:
		return NotFluentOffsetMinutes, 0
	case RuleMinimalUsage:
		return MinimalUsageOffsetMinutes, 0
	}

	if progress < 0 {
		progress = 0
	}
	return SuccessIntervalMinutes(progress), progress + 1
}

// SuccessIntervalMinutes returns the interval granted for a full success
// at the given progress count. Counts past the end of SuccessSequence
// reuse the last entry.
func SuccessIntervalMinutes(progress int) int {
	if progress < 0 {
		progress = 0
	}
	if progress >= len(SuccessSequence) {
		return GraduatedIntervalMinutes()
	}
	return SuccessSequence[progress]
}
