package importer

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/slotter/internal/domain"
)

var registrationColumns = map[string][]string{
	"name":       {"naam", "name"},
	"phone":      {"telefoon", "telefoonnummer", "phone", "phone number"},
	"level":      {"speelsterkte", "niveau", "level"},
	"pref1":      {"voorkeur 1", "voorkeur1", "preference 1", "pref1"},
	"pref2":      {"voorkeur 2", "voorkeur2", "preference 2", "pref2"},
	"pref3":      {"voorkeur 3", "voorkeur3", "preference 3", "pref3"},
	"frequency":  {"trainingen per week", "per week", "frequency"},
	"permission": {"toestemming hoger niveau", "permit higher", "permission"},
	"submitted":  {"inschrijfdatum", "submitted at", "submitted", "timestamp"},
	"note":       {"extra bericht", "opmerking", "note"},
}

var requiredRegistrationColumns = []string{"name", "phone", "level", "pref1", "frequency"}

var yesValues = map[string]bool{"ja": true, "yes": true, "true": true, "1": true, "x": true, "y": true, "j": true}

// ParseRegistrations converts a form export into registrant rows in file
// order. Levels and timestamps are kept as text: defects there are handled
// by planning, not rejected here. Rows without a phone number or with an
// unreadable trainings-per-week value are reported.
func ParseRegistrations(rows [][]string) ([]domain.Registrant, []error) {
	if len(rows) == 0 {
		return nil, []error{ErrNoData}
	}
	idx := headerIndex(rows[0], registrationColumns)
	if err := missingColumns(idx, requiredRegistrationColumns); err != nil {
		return nil, []error{err}
	}

	var (
		regs []domain.Registrant
		errs []error
	)
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if blankRow(row) {
			continue
		}
		line := i + 1

		r := domain.Registrant{
			Name:         cell(row, idx["name"]),
			Phone:        cell(row, idx["phone"]),
			LevelText:    cell(row, idx["level"]),
			PermitHigher: yesValues[strings.ToLower(cell(row, idx["permission"]))],
			Preferences: [3]string{
				cell(row, idx["pref1"]),
				cell(row, idx["pref2"]),
				cell(row, idx["pref3"]),
			},
			SubmittedAt: cell(row, idx["submitted"]),
			Note:        cell(row, idx["note"]),
		}
		if r.Phone == "" {
			errs = append(errs, fmt.Errorf("row %d: phone number is missing", line))
			continue
		}
		freq, err := domain.ParseFrequency(cell(row, idx["frequency"]))
		if err != nil {
			errs = append(errs, fmt.Errorf("row %d: %w", line, err))
			continue
		}
		r.Frequency = freq
		regs = append(regs, r)
	}
	return regs, errs
}
