package importer

import (
	"fmt"
	"strconv"

	"github.com/alexanderramin/slotter/internal/domain"
)

var slotColumns = map[string][]string{
	"day":       {"dag", "day"},
	"time":      {"tijd", "time"},
	"min_level": {"minniveau", "min niveau", "min level", "minlevel"},
	"max_level": {"maxniveau", "max niveau", "max level", "maxlevel"},
	"capacity":  {"capaciteit", "capacity"},
	"trainer":   {"trainer"},
}

var requiredSlotColumns = []string{"day", "time", "min_level", "max_level", "capacity"}

// ParseSlots converts a slot table into catalog entries in file order. The
// header may use the Dutch names (Dag, Tijd, MinNiveau, MaxNiveau,
// Capaciteit, Trainer) or English ones. Every defective row is reported.
func ParseSlots(rows [][]string) ([]domain.Slot, []error) {
	if len(rows) == 0 {
		return nil, []error{ErrNoData}
	}
	idx := headerIndex(rows[0], slotColumns)
	if err := missingColumns(idx, requiredSlotColumns); err != nil {
		return nil, []error{err}
	}

	var (
		slots []domain.Slot
		errs  []error
	)
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if blankRow(row) {
			continue
		}
		line := i + 1

		slot := domain.Slot{
			Day:     cell(row, idx["day"]),
			Time:    cell(row, idx["time"]),
			Trainer: cell(row, idx["trainer"]),
		}
		var rowErrs []error
		for _, num := range []struct {
			field string
			dst   *int
		}{
			{"min_level", &slot.MinLevel},
			{"max_level", &slot.MaxLevel},
			{"capacity", &slot.Capacity},
		} {
			v := cell(row, idx[num.field])
			n, err := strconv.Atoi(v)
			if err != nil {
				rowErrs = append(rowErrs, fmt.Errorf("row %d: %s %q is not a whole number", line, num.field, v))
				continue
			}
			*num.dst = n
		}
		if len(rowErrs) == 0 {
			if err := slot.Validate(); err != nil {
				rowErrs = append(rowErrs, fmt.Errorf("row %d: %w", line, err))
			}
		}
		if len(rowErrs) > 0 {
			errs = append(errs, rowErrs...)
			continue
		}
		slots = append(slots, slot)
	}
	return slots, errs
}
