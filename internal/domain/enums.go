package domain

// Origin tells how an assignment came to exist.
type Origin string

const (
	OriginAutomatic Origin = "automatic"
	OriginManual    Origin = "manual"
)

// RoundState is the lifecycle of a single round.
type RoundState string

const (
	RoundPending   RoundState = "pending"
	RoundActive    RoundState = "active"
	RoundCompleted RoundState = "completed"
)

// ReasonCode categorizes why the allocator could not place a registrant.
type ReasonCode string

const (
	ReasonNoPreferences   ReasonCode = "NO_PREFERENCES"
	ReasonLevelMissing    ReasonCode = "LEVEL_MISSING"
	ReasonLevelTooLow     ReasonCode = "LEVEL_TOO_LOW"
	ReasonLevelTooHigh    ReasonCode = "LEVEL_TOO_HIGH"
	ReasonNoMatch         ReasonCode = "NO_MATCH"
	ReasonAlreadyAssigned ReasonCode = "ALREADY_ASSIGNED"
)

var reasonMessages = map[ReasonCode]string{
	ReasonNoPreferences:   "no preferences given",
	ReasonLevelMissing:    "level missing",
	ReasonLevelTooLow:     "level too low for all slots",
	ReasonLevelTooHigh:    "level too high for all slots",
	ReasonNoMatch:         "all preferences full or no match",
	ReasonAlreadyAssigned: "already assigned to this slot in a previous round",
}

// Message returns the human-readable text for the reason code.
func (r ReasonCode) Message() string {
	if msg, ok := reasonMessages[r]; ok {
		return msg
	}
	return string(r)
}
