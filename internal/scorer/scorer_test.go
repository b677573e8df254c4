package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facilityops/resolution-service/internal/domain"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name   string
		stat   domain.ResolverStat
		active int
		want   float64
	}{
		{
			name:   "loaded resolver",
			stat:   domain.ResolverStat{UserID: "a", CurrentFloor: 3, AvgResolutionMinutes: 90},
			active: 2,
			want:   2.1,
		},
		{
			name:   "light resolver",
			stat:   domain.ResolverStat{UserID: "b", CurrentFloor: 1, AvgResolutionMinutes: 30},
			active: 1,
			want:   0.9,
		},
		{
			name:   "avg resolution term is clamped",
			stat:   domain.ResolverStat{UserID: "c", CurrentFloor: 0, AvgResolutionMinutes: 6000},
			active: 0,
			want:   2.0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Score(tt.stat, tt.active), 1e-9)
		})
	}
}

func TestRankOrdersAscending(t *testing.T) {
	candidates := []domain.ResolverStat{
		{UserID: "resolver-a", CurrentFloor: 3, AvgResolutionMinutes: 90},
		{UserID: "resolver-b", CurrentFloor: 1, AvgResolutionMinutes: 30},
	}
	counts := map[string]int{"resolver-a": 2, "resolver-b": 1}

	ranked := Rank(candidates, counts)
	require.Len(t, ranked, 2)
	assert.Equal(t, "resolver-b", ranked[0].Stat.UserID)
	assert.Equal(t, "resolver-a", ranked[1].Stat.UserID)
	assert.InDelta(t, 0.9, ranked[0].Score, 1e-9)
	assert.InDelta(t, 2.1, ranked[1].Score, 1e-9)
}

func TestRankBreaksTiesByUserID(t *testing.T) {
	candidates := []domain.ResolverStat{
		{UserID: "zed", CurrentFloor: 2, AvgResolutionMinutes: 60},
		{UserID: "amy", CurrentFloor: 2, AvgResolutionMinutes: 60},
	}

	ranked := Rank(candidates, map[string]int{})
	require.Len(t, ranked, 2)
	assert.Equal(t, "amy", ranked[0].Stat.UserID)
	assert.Equal(t, "zed", ranked[1].Stat.UserID)
	assert.Equal(t, ranked[0].Score, ranked[1].Score)
}

func TestRankMissingCountMeansZeroLoad(t *testing.T) {
	ranked := Rank([]domain.ResolverStat{
		{UserID: "idle", CurrentFloor: 1, AvgResolutionMinutes: 60},
	}, nil)
	require.Len(t, ranked, 1)
	assert.InDelta(t, 0.4, ranked[0].Score, 1e-9)
}

func TestRankEmptyCandidates(t *testing.T) {
	assert.Empty(t, Rank(nil, map[string]int{"x": 3}))
}
