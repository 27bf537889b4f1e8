package generator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lauraredmond/pilates-class-generator-sub004/internal/catalog"
	"github.com/Lauraredmond/pilates-class-generator-sub004/internal/params"
)

func TestComputeBudget(t *testing.T) {
	p := params.Defaults()

	testCases := []struct {
		name            string
		durationMinutes int
		difficulty      catalog.Difficulty
		expectedCount   int
	}{
		{
			// 45 min available after 15 min of flanking overhead,
			// 5 min per beginner movement, nudged to the target of 8
			name:            "beginner one hour",
			durationMinutes: 60,
			difficulty:      catalog.DifficultyBeginner,
			expectedCount:   8,
		},
		{
			// raw fit is 7, below the intermediate target of 9,
			// so the raw fit wins
			name:            "intermediate one hour",
			durationMinutes: 60,
			difficulty:      catalog.DifficultyIntermediate,
			expectedCount:   7,
		},
		{
			name:            "advanced one hour",
			durationMinutes: 60,
			difficulty:      catalog.DifficultyAdvanced,
			expectedCount:   6,
		},
		{
			// 75 min available, raw fit 15, target scales to 12
			name:            "beginner ninety minutes",
			durationMinutes: 90,
			difficulty:      catalog.DifficultyBeginner,
			expectedCount:   12,
		},
		{
			name:            "beginner two hours",
			durationMinutes: 120,
			difficulty:      catalog.DifficultyBeginner,
			expectedCount:   16,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := computeBudget(tc.durationMinutes, tc.difficulty, p)
			require.NoError(t, err)
			assert.Equal(t, tc.expectedCount, b.TargetCount)
			assert.Equal(t, 900, b.FixedOverheadSeconds)
		})
	}
}

func TestComputeBudget_tooShort(t *testing.T) {
	p := params.Defaults()

	t.Run("overhead alone exceeds the duration", func(t *testing.T) {
		_, err := computeBudget(10, catalog.DifficultyBeginner, p)
		var tooShort *DurationTooShortError
		require.True(t, errors.As(err, &tooShort))
		assert.Equal(t, 10, tooShort.RequestedMinutes)
		assert.Equal(t, 30, tooShort.MinimumViableMinutes)
	})

	t.Run("advanced movements do not fit half an hour", func(t *testing.T) {
		// 15 min remain after overhead, 7 min per advanced movement:
		// only 2 fit, below the scaled minimum of 3
		_, err := computeBudget(30, catalog.DifficultyAdvanced, p)
		var tooShort *DurationTooShortError
		require.True(t, errors.As(err, &tooShort))
		assert.Equal(t, 30, tooShort.RequestedMinutes)
		assert.Equal(t, 50, tooShort.MinimumViableMinutes)
	})

	t.Run("same half hour works for beginners", func(t *testing.T) {
		b, err := computeBudget(30, catalog.DifficultyBeginner, p)
		require.NoError(t, err)
		assert.Equal(t, 3, b.TargetCount)
	})
}

func TestComputeBudget_maxClamp(t *testing.T) {
	p := params.Defaults()
	// make movements so quick the raw fit exceeds the max per hour
	p.TeachingTimePerMovement[catalog.DifficultyBeginner] = 60
	p.TransitionTimeSeconds = 30

	b, err := computeBudget(60, catalog.DifficultyBeginner, p)
	require.NoError(t, err)
	// raw fit of 30 clamps to the max of 12, then nudges to the target 8
	assert.Equal(t, 8, b.TargetCount)

	p.TargetMovementsPerHour[catalog.DifficultyBeginner] = 20
	b, err = computeBudget(60, catalog.DifficultyBeginner, p)
	require.NoError(t, err)
	// target out of bounds, the clamped max stands
	assert.Equal(t, 12, b.TargetCount)
}
