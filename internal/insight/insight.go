// Package insight derives the monthly analytical view from a notebook.
// Everything here is a pure function of its input: no storage access, no
// mutation of the notebook, no randomness. Insights are computed on demand
// and discarded after render.
package insight

import (
	"fmt"
	"sort"

	"github.com/lifelab-app/lifelab/internal/domain"
)

// maxObservations caps the observation list. Fewer is fine; the list is
// never padded with filler.
const maxObservations = 3

// highParticipation is the share of days above which a domain is called out
// as a through-line of the month.
const highParticipation = 0.7

// minGapDays is the shortest run of zero-signal days reported as a gap.
const minGapDays = 5

// Build derives the monthly insight for nb.
//
// Heatmap cells are 0 or 1. The value 2 is reserved for a "strong presence"
// encoding that no writer currently produces; readers must tolerate it but
// Build never emits it.
func Build(nb domain.Notebook) domain.MonthlyInsight {
	count := domain.DaysInMonth(nb.Year, nb.Month)

	days := make([]int, count)
	signal := make([]int, count)
	domainSet := make(map[string]bool)

	for i := 0; i < count; i++ {
		days[i] = i + 1
		if d, ok := nb.Day(i + 1); ok {
			signal[i] = len(d.Domains)
			for _, id := range d.Domains {
				domainSet[id] = true
			}
		}
	}

	domains := make([]string, 0, len(domainSet))
	for id := range domainSet {
		domains = append(domains, id)
	}
	sort.Strings(domains)

	matrix := make([][]int, count)
	for i := 0; i < count; i++ {
		row := make([]int, len(domains))
		if d, ok := nb.Day(i + 1); ok {
			for j, id := range domains {
				if d.HasDomain(id) {
					row[j] = 1
				}
			}
		}
		matrix[i] = row
	}

	return domain.MonthlyInsight{
		Days:          days,
		Domains:       domains,
		SignalArray:   signal,
		HeatmapMatrix: matrix,
		Observations:  observations(nb, domains, signal, matrix),
	}
}

// observations builds the capped descriptive list in fixed priority order:
// participation pattern, then gap detection, then consistency change.
// Language is descriptive only — never evaluative, never ranking one month
// against another.
func observations(nb domain.Notebook, domains []string, signal []int, matrix [][]int) []string {
	var out []string
	add := func(s string) bool {
		out = append(out, s)
		return len(out) >= maxObservations
	}

	count := len(signal)

	// 1. Participation patterns.
	for j, id := range domains {
		active := 0
		for i := 0; i < count; i++ {
			if matrix[i][j] > 0 {
				active++
			}
		}
		if active == 0 {
			continue // an all-zero column cannot occur; domains come from presence
		}
		if float64(active) >= highParticipation*float64(count) {
			if add(fmt.Sprintf("%s appears on %d of %d days this month", id, active, count)) {
				return out
			}
		}
	}
	if len(domains) == 1 {
		if add(fmt.Sprintf("all logged activity this month is in %s", domains[0])) {
			return out
		}
	}

	// 2. Gap detection: the longest run of zero-signal days, if long enough.
	gapStart, gapLen := longestZeroRun(signal)
	if gapLen >= minGapDays && gapLen < count {
		if add(fmt.Sprintf("a %d-day stretch without entries, from day %d to day %d",
			gapLen, gapStart+1, gapStart+gapLen)) {
			return out
		}
	}

	// 3. Consistency change between the two halves of the month.
	half := count / 2
	first, second := 0, 0
	for i, v := range signal {
		if v > 0 {
			if i < half {
				first++
			} else {
				second++
			}
		}
	}
	switch {
	case first > 0 && second == 0:
		add("logging happens only in the first half of the month")
	case second > 0 && first == 0:
		add("logging happens only in the second half of the month")
	case first >= 2*second && second > 0:
		add("most active days fall in the first half of the month")
	case second >= 2*first && first > 0:
		add("most active days fall in the second half of the month")
	}

	return out
}

// longestZeroRun returns the start index and length of the longest run of
// zeros in signal.
func longestZeroRun(signal []int) (start, length int) {
	curStart, curLen := 0, 0
	for i, v := range signal {
		if v == 0 {
			if curLen == 0 {
				curStart = i
			}
			curLen++
			if curLen > length {
				start, length = curStart, curLen
			}
		} else {
			curLen = 0
		}
	}
	return start, length
}
