package app

import "strings"

type PlanningErrorCode string

const (
	PlanningErrInvalidRound      PlanningErrorCode = "INVALID_ROUND"
	PlanningErrRoundNotActive    PlanningErrorCode = "ROUND_NOT_ACTIVE"
	PlanningErrRoundCompleted    PlanningErrorCode = "ROUND_COMPLETED"
	PlanningErrRoundNotReached   PlanningErrorCode = "ROUND_NOT_REACHED"
	PlanningErrLaterRoundPlanned PlanningErrorCode = "LATER_ROUND_PLANNED"
	PlanningErrNoManualEntry     PlanningErrorCode = "NO_MANUAL_ENTRY"
	PlanningErrAlreadyResolved   PlanningErrorCode = "ALREADY_RESOLVED"
	PlanningErrDuplicateSlot     PlanningErrorCode = "DUPLICATE_SLOT"
	PlanningErrUnknownSlot       PlanningErrorCode = "UNKNOWN_SLOT"
)

// PlanningError is an operator-sequencing rejection. The planning status
// is left unchanged when one is returned.
type PlanningError struct {
	Code    PlanningErrorCode
	Message string
}

func (e *PlanningError) Error() string {
	return string(e.Code) + ": " + e.Message
}

// ValidationError lists every problem found in a request.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid registration: " + strings.Join(e.Problems, "; ")
}
