package generator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lauraredmond/pilates-class-generator-sub004/internal/catalog"
	"github.com/Lauraredmond/pilates-class-generator-sub004/internal/history"
	"github.com/Lauraredmond/pilates-class-generator-sub004/internal/params"
)

func TestNoveltyScore(t *testing.T) {
	p := params.Defaults()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	t.Run("never used is maximally novel", func(t *testing.T) {
		assert.Equal(t, 1.0, noveltyScore(nil, now, p))
		assert.Equal(t, 1.0, noveltyScore(&history.UsageRecord{Count: 0}, now, p))
	})

	t.Run("used today at the usage cap scores zero", func(t *testing.T) {
		rec := &history.UsageRecord{LastUsed: now, Count: p.NoveltyUsageCap}
		assert.Equal(t, 0.0, noveltyScore(rec, now, p))
	})

	t.Run("recency and frequency multiply", func(t *testing.T) {
		// half the lookback window ago, at half the usage cap
		rec := &history.UsageRecord{
			LastUsed: now.Add(-15 * 24 * time.Hour),
			Count:    5,
		}
		assert.InDelta(t, 0.25, noveltyScore(rec, now, p), 1e-9)
	})

	t.Run("older than the lookback window is fully recent", func(t *testing.T) {
		rec := &history.UsageRecord{
			LastUsed: now.Add(-300 * 24 * time.Hour),
			Count:    1,
		}
		assert.InDelta(t, 0.9, noveltyScore(rec, now, p), 1e-9)
	})

	t.Run("count beyond the cap clamps", func(t *testing.T) {
		rec := &history.UsageRecord{
			LastUsed: now.Add(-15 * 24 * time.Hour),
			Count:    100,
		}
		assert.Equal(t, 0.0, noveltyScore(rec, now, p))
	})
}

func TestBuildCandidates(t *testing.T) {
	p := params.Defaults()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	movements := []catalog.Movement{
		{ID: "hundred", SortOrder: 1},
		{ID: "roll-up", SortOrder: 2},
		{ID: "rolling-like-a-ball", SortOrder: 3},
		{ID: "teaser", SortOrder: 4},
	}
	usage := map[string]history.UsageRecord{
		"hundred": {MovementID: "hundred", LastUsed: now.Add(-24 * time.Hour), Count: 8},
	}
	avoided := map[string]bool{"teaser": true}

	candidates := buildCandidates(movements, usage, avoided, now, p)
	require.Len(t, candidates, 3)

	// never-used movements lead in catalog order, the recently used one trails
	assert.Equal(t, "roll-up", candidates[0].movement.ID)
	assert.Equal(t, "rolling-like-a-ball", candidates[1].movement.ID)
	assert.Equal(t, "hundred", candidates[2].movement.ID)
}

func TestBuildCandidates_anchorBoost(t *testing.T) {
	p := params.Defaults()
	p.AnchorBoosts = map[string]float64{"hundred": 1.5}
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	movements := []catalog.Movement{
		{ID: "roll-up", SortOrder: 1},
		{ID: "hundred", SortOrder: 2},
	}
	usage := map[string]history.UsageRecord{
		// score 0.25 before the boost, ahead of nothing
		"hundred": {MovementID: "hundred", LastUsed: now.Add(-15 * 24 * time.Hour), Count: 5},
		// score ~0.03
		"roll-up": {MovementID: "roll-up", LastUsed: now.Add(-1 * 24 * time.Hour), Count: 9},
	}

	candidates := buildCandidates(movements, usage, nil, now, p)
	require.Len(t, candidates, 2)
	assert.Equal(t, "hundred", candidates[0].movement.ID)
	assert.InDelta(t, 0.375, candidates[0].novelty, 1e-9)
}
