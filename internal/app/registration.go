package app

import "time"

// SubmitRequest is one registration form submission. Occurrences holds the
// ranked slot preferences for each weekly training asked for; the first
// entry goes to dataset 1, the second to dataset 2 and so on.
type SubmitRequest struct {
	Phone        string
	Name         string
	LevelText    string
	Frequency    int
	PermitHigher bool
	Occurrences  [][3]string
	Note         string
	SubmittedAt  *time.Time
}

type SubmitResult struct {
	Identity string
	Rows     int
	// Replaced is true when an earlier submission for the same identity
	// was removed from at least one dataset.
	Replaced        bool
	ReplacedChoices []int
	Warnings        []PermissionWarning
}

// PermissionWarning flags a preference for a slot whose minimum level is
// above the registrant's level while no permission was given. Preference
// holds the option as submitted.
type PermissionWarning struct {
	Choice     int
	Preference string
	Slot       string
	MinLevel   int
	Level      float64
}

type CleanResult struct {
	Choice  int
	Kept    int
	Removed int
}
