package scheduler

import (
	"sort"

	"github.com/alexanderramin/slotter/internal/domain"
)

// SortFIFO orders registrants by submission time, earliest first. Rows
// with an unparsable timestamp count as the epoch and sort first. Equal
// timestamps keep their input order, so the result is deterministic for a
// fixed dataset.
func SortFIFO(pool []domain.Registrant) {
	sort.SliceStable(pool, func(i, j int) bool {
		a, aok := pool[i].SubmittedTime()
		b, bok := pool[j].SubmittedTime()
		if aok != bok {
			return !aok
		}
		return a.Before(b)
	})
}
