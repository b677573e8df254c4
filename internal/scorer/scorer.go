// Package scorer ranks available resolvers for assignment. The ranking is
// advisory: it is computed from a point-in-time snapshot of active ticket
// counts and makes no exclusivity guarantee between concurrent callers.
package scorer

import (
	"sort"

	"github.com/facilityops/resolution-service/internal/domain"
)

// Weights for the scoring formula. Active load dominates; floor proximity
// and historical speed act as tie-breakers.
const (
	activeLoadWeight = 0.6
	floorWeight      = 0.2
	avgSpeedWeight   = 0.2

	// avgHoursClamp caps the avg-resolution term so one pathologically slow
	// resolver cannot dwarf the other terms.
	avgHoursClamp = 10
)

// Ranked pairs a candidate with its computed score. Lower is better.
type Ranked struct {
	Stat  domain.ResolverStat
	Score float64
}

// Score computes the assignment cost for a single candidate.
func Score(stat domain.ResolverStat, activeTickets int) float64 {
	avgHours := stat.AvgResolutionMinutes / 60
	if avgHours > avgHoursClamp {
		avgHours = avgHoursClamp
	}
	return activeLoadWeight*float64(activeTickets) +
		floorWeight*float64(stat.CurrentFloor) +
		avgSpeedWeight*avgHours
}

// Rank orders candidates ascending by score, best first. Equal scores are
// broken by user id ascending so the ordering is deterministic. An empty
// candidate list is a valid empty result, not an error.
func Rank(candidates []domain.ResolverStat, activeCounts map[string]int) []Ranked {
	ranked := make([]Ranked, 0, len(candidates))
	for _, stat := range candidates {
		ranked = append(ranked, Ranked{
			Stat:  stat,
			Score: Score(stat, activeCounts[stat.UserID]),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score < ranked[j].Score
		}
		return ranked[i].Stat.UserID < ranked[j].Stat.UserID
	})
	return ranked
}
