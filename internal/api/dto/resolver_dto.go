package dto

import "github.com/facilityops/resolution-service/internal/scorer"

// CheckInRequest payload.
type CheckInRequest struct {
	PropertyID string `json:"property_id"`
	Floor      int    `json:"floor"`
}

// CheckOutRequest payload.
type CheckOutRequest struct {
	PropertyID string `json:"property_id"`
}

// RankedResolver response.
type RankedResolver struct {
	UserID               string  `json:"user_id"`
	SkillGroupID         string  `json:"skill_group_id"`
	CurrentFloor         int     `json:"current_floor"`
	TotalResolved        int     `json:"total_resolved"`
	AvgResolutionMinutes float64 `json:"avg_resolution_minutes"`
	Score                float64 `json:"score"`
}

// FromRanked converts scorer output.
func FromRanked(ranked []scorer.Ranked) []RankedResolver {
	out := make([]RankedResolver, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, RankedResolver{
			UserID:               r.Stat.UserID,
			SkillGroupID:         r.Stat.SkillGroupID,
			CurrentFloor:         r.Stat.CurrentFloor,
			TotalResolved:        r.Stat.TotalResolved,
			AvgResolutionMinutes: r.Stat.AvgResolutionMinutes,
			Score:                r.Score,
		})
	}
	return out
}
