// Package engine forms weekly meetup groups from a roster under a
// recency cooldown: people who met in the two preceding weeks are kept
// out of this week's groups when the roster allows it.
package engine

import (
	"math/rand"

	"github.com/lanchinho/scheduler/internal/domain"
)

// FormWeekGroups produces the groups for the week at weekIndex (0-based).
//
// priorWeeks holds the already-generated weeks of the current month.
// carryOver is the last group of the previous month and only extends the
// exclusion set when weekIndex is 0. The cooldown is relaxed in two
// steps when too few people remain: first to a one-week window, then to
// no exclusions at all, so formation never fails outright.
//
// Callers are expected to validate groupSize and roster beforehand; the
// result is always best effort.
func FormWeekGroups(roster []string, groupSize int, formation domain.Formation, priorWeeks []domain.Week, weekIndex int, carryOver []string, rng *rand.Rand) [][]string {
	if len(roster) == 0 || groupSize <= 0 {
		return nil
	}

	recent := recentMembers(priorWeeks, weekIndex-2, weekIndex)
	if weekIndex == 0 {
		for _, name := range carryOver {
			recent[name] = true
		}
	}
	available := subtract(roster, recent)

	// Relaxation tier 1: only the immediately preceding week counts.
	if len(available) < groupSize {
		recent = recentMembers(priorWeeks, weekIndex-1, weekIndex)
		available = subtract(roster, recent)
	}
	// Relaxation tier 2: drop the cooldown entirely.
	if len(available) < groupSize {
		available = append([]string(nil), roster...)
	}

	rng.Shuffle(len(available), func(i, j int) {
		available[i], available[j] = available[j], available[i]
	})

	if formation == domain.FormationSingle {
		if len(available) > groupSize {
			available = available[:groupSize]
		}
		return [][]string{available}
	}

	var groups [][]string
	for start := 0; start < len(available); start += groupSize {
		end := start + groupSize
		if end > len(available) {
			end = len(available)
		}
		groups = append(groups, available[start:end])
	}
	return groups
}

// recentMembers collects everyone placed in weeks [from, to).
func recentMembers(weeks []domain.Week, from, to int) map[string]bool {
	recent := make(map[string]bool)
	if from < 0 {
		from = 0
	}
	if to > len(weeks) {
		to = len(weeks)
	}
	for i := from; i < to; i++ {
		for _, group := range weeks[i].Groups {
			for _, name := range group {
				recent[name] = true
			}
		}
	}
	return recent
}

// subtract returns the roster members not in excluded, preserving roster order.
func subtract(roster []string, excluded map[string]bool) []string {
	available := make([]string, 0, len(roster))
	for _, name := range roster {
		if !excluded[name] {
			available = append(available, name)
		}
	}
	return available
}
