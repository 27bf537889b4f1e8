package generator

import (
	"fmt"
	"time"

	"github.com/Lauraredmond/pilates-class-generator-sub004/internal/catalog"
	"github.com/Lauraredmond/pilates-class-generator-sub004/internal/history"
	"github.com/Lauraredmond/pilates-class-generator-sub004/internal/params"

	"go.uber.org/multierr"
)

// Composite score weights. The two safety rules dominate, repertoire
// coverage is informational.
const (
	weightMuscleRepetition   = 0.4
	weightFamilyBalance      = 0.4
	weightRepertoireCoverage = 0.2
)

// validateSequence re-derives the three quality rules from the finished
// sequence, on purpose without reusing any of the builder's incremental
// bookkeeping. Movement metadata comes from the snapshot's own index.
func validateSequence(
	seq GeneratedSequence,
	movementIndex map[string]catalog.Movement,
	usage map[string]history.UsageRecord,
	pool []catalog.Movement,
	now time.Time,
	p params.Params,
) ([]RuleOutcome, error) {
	movements := seq.Movements()

	resolved := make([]catalog.Movement, 0, len(movements))
	var err error
	for _, section := range movements {
		m, ok := movementIndex[section.ItemID]
		if !ok {
			err = multierr.Append(err, fmt.Errorf("unknown movement in sequence: %s", section.ItemID))
			continue
		}
		resolved = append(resolved, m)
	}
	if err != nil {
		return nil, err
	}

	outcomes := []RuleOutcome{
		checkMuscleRepetition(resolved, p),
		checkFamilyBalance(resolved, p),
		checkRepertoireCoverage(pool, usage, now, p),
	}
	return outcomes, nil
}

// checkMuscleRepetition verifies no adjacent movement pair exceeds the
// overlap threshold anywhere in the sequence.
func checkMuscleRepetition(movements []catalog.Movement, p params.Params) RuleOutcome {
	maxOverlap := 0.0
	details := ""
	for i := 0; i < len(movements)-1; i++ {
		overlap := muscleOverlap(movements[i], movements[i+1])
		if overlap > maxOverlap {
			maxOverlap = overlap
		}
		if overlap > p.MuscleOverlapThreshold {
			if details != "" {
				details += "; "
			}
			details += fmt.Sprintf(
				"%s -> %s overlap %.0f%%",
				movements[i].ID, movements[i+1].ID, overlap*100,
			)
		}
	}

	deviation := maxOverlap - p.MuscleOverlapThreshold
	if deviation < 0 {
		deviation = 0
	}
	return RuleOutcome{
		Rule:      RuleMuscleRepetition,
		Pass:      deviation == 0,
		Deviation: deviation,
		Details:   details,
	}
}

// checkFamilyBalance verifies no single movement family takes more than
// the threshold share of the sequence. A family holding a single slot is
// always fine, short sequences cannot dilute below the threshold.
func checkFamilyBalance(movements []catalog.Movement, p params.Params) RuleOutcome {
	if len(movements) == 0 {
		return RuleOutcome{Rule: RuleFamilyBalance, Pass: true}
	}

	counts := make(map[catalog.Family]int)
	for _, m := range movements {
		counts[m.Family]++
	}

	maxShare := 0.0
	worstFamily := catalog.Family("")
	for family, count := range counts {
		if count <= 1 {
			continue
		}
		share := float64(count) / float64(len(movements))
		if share > maxShare || (share == maxShare && family < worstFamily) {
			maxShare = share
			worstFamily = family
		}
	}

	deviation := maxShare - p.FamilyBalanceThreshold
	if deviation < 0 {
		deviation = 0
	}
	details := ""
	if deviation > 0 {
		details = fmt.Sprintf("family %s holds %.0f%% of the sequence", worstFamily, maxShare*100)
	}
	return RuleOutcome{
		Rule:      RuleFamilyBalance,
		Pass:      deviation == 0,
		Deviation: deviation,
		Details:   details,
	}
}

// checkRepertoireCoverage flags available movements the user has not seen
// for longer than the staleness window. Informational only, it never
// blocks generation. Movements without any usage record are not stale,
// novelty scoring already pulls those forward.
func checkRepertoireCoverage(
	pool []catalog.Movement,
	usage map[string]history.UsageRecord,
	now time.Time,
	p params.Params,
) RuleOutcome {
	staleCount := 0
	window := time.Duration(p.StalenessWindowDays) * 24 * time.Hour
	for _, m := range pool {
		rec, ok := usage[m.ID]
		if !ok || rec.Count == 0 {
			continue
		}
		if now.Sub(rec.LastUsed) > window {
			staleCount++
		}
	}

	pass := staleCount < p.StaleMovementThreshold
	deviation := 0.0
	details := ""
	if !pass && len(pool) > 0 {
		deviation = float64(staleCount-p.StaleMovementThreshold+1) / float64(len(pool))
		details = fmt.Sprintf("%d movements unused for over %d days", staleCount, p.StalenessWindowDays)
	}
	return RuleOutcome{
		Rule:      RuleRepertoireCoverage,
		Pass:      pass,
		Deviation: deviation,
		Details:   details,
	}
}

// scoreFromOutcomes computes the composite quality score in [0,1] from
// the stored rule outcomes alone, so a persisted report can always
// reproduce its own score. A failing rule contributes its weight
// discounted by twice the deviation past the threshold.
func scoreFromOutcomes(outcomes []RuleOutcome) float64 {
	weights := map[string]float64{
		RuleMuscleRepetition:   weightMuscleRepetition,
		RuleFamilyBalance:      weightFamilyBalance,
		RuleRepertoireCoverage: weightRepertoireCoverage,
	}

	score := 0.0
	for _, outcome := range outcomes {
		weight := weights[outcome.Rule]
		if outcome.Pass {
			score += weight
			continue
		}
		term := 1 - 2*outcome.Deviation
		if term < 0 {
			term = 0
		}
		score += weight * term
	}
	return score
}
