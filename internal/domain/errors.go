package domain

import "errors"

var (
	ErrInvalidRound      = errors.New("round must be between 1 and 3")
	ErrRoundNotActive    = errors.New("round is not the active round")
	ErrRoundCompleted    = errors.New("round is already completed")
	ErrRoundNotReached   = errors.New("round has not been reached yet")
	ErrLaterRoundPlanned = errors.New("a later round has already been planned; reset that round first")
	ErrNoManualEntry     = errors.New("no manual-needed entry for this person in this round")
	ErrAlreadyResolved   = errors.New("person was already assigned manually in this round")
	ErrDuplicateSlot     = errors.New("person already holds this slot")
)
