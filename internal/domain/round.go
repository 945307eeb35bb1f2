package domain

const (
	MinRound = 1
	MaxRound = 3
)

// ValidRound reports whether n is a round number.
func ValidRound(n int) bool {
	return n >= MinRound && n <= MaxRound
}

// EligibleForRound decides whether a registrant who wants to train
// frequency times per week takes part in round n. Round 2 needs at least
// two weekly trainings, round 3 exactly three.
func EligibleForRound(round, frequency int) bool {
	switch round {
	case 1:
		return true
	case 2:
		return frequency >= 2
	case 3:
		return frequency == 3
	default:
		return false
	}
}
