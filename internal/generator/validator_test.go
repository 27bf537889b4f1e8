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

func TestCheckMuscleRepetition(t *testing.T) {
	p := params.Defaults()

	clean := []catalog.Movement{
		{ID: "a", PrimaryMuscles: []string{"abdominals", "obliques"}},
		{ID: "b", PrimaryMuscles: []string{"glutes", "hamstrings"}},
		{ID: "c", PrimaryMuscles: []string{"abdominals", "shoulders"}},
	}
	outcome := checkMuscleRepetition(clean, p)
	assert.True(t, outcome.Pass)
	assert.Equal(t, 0.0, outcome.Deviation)

	// a -> b overlap is 75%, 15 points past the 60% threshold
	violating := []catalog.Movement{
		{ID: "a", PrimaryMuscles: []string{"m1", "m2", "m3", "m4"}},
		{ID: "b", PrimaryMuscles: []string{"m1", "m2", "m3"}},
	}
	outcome = checkMuscleRepetition(violating, p)
	assert.False(t, outcome.Pass)
	assert.InDelta(t, 0.15, outcome.Deviation, 1e-9)
	assert.Contains(t, outcome.Details, "a -> b")
}

func TestCheckFamilyBalance(t *testing.T) {
	p := params.Defaults()

	balanced := []catalog.Movement{
		{ID: "a", Family: catalog.FamilyRolling},
		{ID: "b", Family: catalog.FamilySupineAbdominal},
		{ID: "c", Family: catalog.FamilyBackExtension},
	}
	outcome := checkFamilyBalance(balanced, p)
	assert.True(t, outcome.Pass)

	// rolling holds 3 of 5 slots, 60% against a 40% threshold
	skewed := []catalog.Movement{
		{ID: "a", Family: catalog.FamilyRolling},
		{ID: "b", Family: catalog.FamilyRolling},
		{ID: "c", Family: catalog.FamilyRolling},
		{ID: "d", Family: catalog.FamilySideLying},
		{ID: "e", Family: catalog.FamilyInversion},
	}
	outcome = checkFamilyBalance(skewed, p)
	assert.False(t, outcome.Pass)
	assert.InDelta(t, 0.2, outcome.Deviation, 1e-9)
	assert.Contains(t, outcome.Details, string(catalog.FamilyRolling))

	// a lone movement of a family can never violate the rule
	single := []catalog.Movement{
		{ID: "a", Family: catalog.FamilyRolling},
	}
	outcome = checkFamilyBalance(single, p)
	assert.True(t, outcome.Pass)
}

func TestCheckRepertoireCoverage(t *testing.T) {
	p := params.Defaults()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	pool := make([]catalog.Movement, 0, 10)
	usage := make(map[string]history.UsageRecord)
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"} {
		pool = append(pool, catalog.Movement{ID: id})
	}

	t.Run("never used movements are not stale", func(t *testing.T) {
		outcome := checkRepertoireCoverage(pool, usage, now, p)
		assert.True(t, outcome.Pass)
	})

	t.Run("stale count below threshold passes", func(t *testing.T) {
		for _, id := range []string{"a", "b", "c", "d"} {
			usage[id] = history.UsageRecord{
				MovementID: id,
				LastUsed:   now.Add(-60 * 24 * time.Hour),
				Count:      3,
			}
		}
		outcome := checkRepertoireCoverage(pool, usage, now, p)
		assert.True(t, outcome.Pass)
	})

	t.Run("stale count at threshold fails", func(t *testing.T) {
		usage["e"] = history.UsageRecord{
			MovementID: "e",
			LastUsed:   now.Add(-50 * 24 * time.Hour),
			Count:      1,
		}
		outcome := checkRepertoireCoverage(pool, usage, now, p)
		assert.False(t, outcome.Pass)
		assert.InDelta(t, 0.1, outcome.Deviation, 1e-9)
	})

	t.Run("recent usage resets staleness", func(t *testing.T) {
		usage["e"] = history.UsageRecord{
			MovementID: "e",
			LastUsed:   now.Add(-2 * 24 * time.Hour),
			Count:      2,
		}
		outcome := checkRepertoireCoverage(pool, usage, now, p)
		assert.True(t, outcome.Pass)
	})
}

func TestScoreFromOutcomes(t *testing.T) {
	t.Run("all passing scores one", func(t *testing.T) {
		outcomes := []RuleOutcome{
			{Rule: RuleMuscleRepetition, Pass: true},
			{Rule: RuleFamilyBalance, Pass: true},
			{Rule: RuleRepertoireCoverage, Pass: true},
		}
		assert.InDelta(t, 1.0, scoreFromOutcomes(outcomes), 1e-9)
	})

	t.Run("failures discount by deviation", func(t *testing.T) {
		outcomes := []RuleOutcome{
			{Rule: RuleMuscleRepetition, Pass: false, Deviation: 0.15},
			{Rule: RuleFamilyBalance, Pass: true},
			{Rule: RuleRepertoireCoverage, Pass: true},
		}
		// 0.4*0.7 + 0.4 + 0.2
		assert.InDelta(t, 0.88, scoreFromOutcomes(outcomes), 1e-9)
	})

	t.Run("deviation past half zeroes the term", func(t *testing.T) {
		outcomes := []RuleOutcome{
			{Rule: RuleMuscleRepetition, Pass: false, Deviation: 0.7},
			{Rule: RuleFamilyBalance, Pass: false, Deviation: 0.6},
			{Rule: RuleRepertoireCoverage, Pass: true},
		}
		assert.InDelta(t, 0.2, scoreFromOutcomes(outcomes), 1e-9)
	})
}

func TestValidateSequence_unknownMovement(t *testing.T) {
	p := params.Defaults()
	seq := GeneratedSequence{
		Sections: []Section{
			{Type: catalog.SectionMovement, ItemID: "ghost"},
		},
	}

	_, err := validateSequence(seq, map[string]catalog.Movement{}, nil, nil, time.Now(), p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}
