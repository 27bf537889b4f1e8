package generator

import (
	"sort"
	"time"

	"github.com/Lauraredmond/pilates-class-generator-sub004/internal/catalog"
	"github.com/Lauraredmond/pilates-class-generator-sub004/internal/history"
	"github.com/Lauraredmond/pilates-class-generator-sub004/internal/params"
)

// candidate is a movement with its novelty score for the requesting user.
type candidate struct {
	movement catalog.Movement
	novelty  float64
}

// noveltyScore combines recency and frequency of past use into [0,1].
// A movement the user never saw is maximally novel by definition.
func noveltyScore(rec *history.UsageRecord, now time.Time, p params.Params) float64 {
	if rec == nil || rec.Count == 0 {
		return 1.0
	}

	lookbackDays := float64(p.NoveltyLookbackDays)
	daysSince := now.Sub(rec.LastUsed).Hours() / 24
	if daysSince < 0 {
		daysSince = 0
	}
	if daysSince > lookbackDays {
		daysSince = lookbackDays
	}
	recency := daysSince / lookbackDays

	usageCap := float64(p.NoveltyUsageCap)
	count := float64(rec.Count)
	if count > usageCap {
		count = usageCap
	}
	frequency := 1 - count/usageCap

	return recency * frequency
}

// buildCandidates filters the movement pool by the avoid-list and scores
// the remainder. The result is sorted by boosted novelty descending, ties
// broken by stable catalog order so generation stays deterministic.
func buildCandidates(
	movements []catalog.Movement,
	usage map[string]history.UsageRecord,
	avoided map[string]bool,
	now time.Time,
	p params.Params,
) []candidate {
	candidates := make([]candidate, 0, len(movements))
	for _, m := range movements {
		if avoided[m.ID] {
			continue
		}

		var rec *history.UsageRecord
		if r, ok := usage[m.ID]; ok {
			rec = &r
		}

		novelty := noveltyScore(rec, now, p)
		if boost, ok := p.AnchorBoosts[m.ID]; ok {
			novelty *= boost
		}

		candidates = append(candidates, candidate{
			movement: m,
			novelty:  novelty,
		})
	}

	return resortCandidates(candidates)
}

// resortCandidates orders by novelty descending, then stable catalog
// order, then ID. The full ordering is total, so generation for an
// identical snapshot is reproducible.
func resortCandidates(candidates []candidate) []candidate {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].novelty != candidates[j].novelty {
			return candidates[i].novelty > candidates[j].novelty
		}
		if candidates[i].movement.SortOrder != candidates[j].movement.SortOrder {
			return candidates[i].movement.SortOrder < candidates[j].movement.SortOrder
		}
		return candidates[i].movement.ID < candidates[j].movement.ID
	})
	return candidates
}
