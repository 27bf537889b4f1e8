package params

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Lauraredmond/pilates-class-generator-sub004/internal/catalog"
)

func TestDefaults(t *testing.T) {
	p := Defaults()

	assert.Equal(t, 240, p.TeachingTimePerMovement[catalog.DifficultyBeginner])
	assert.Equal(t, 300, p.TeachingTimePerMovement[catalog.DifficultyIntermediate])
	assert.Equal(t, 360, p.TeachingTimePerMovement[catalog.DifficultyAdvanced])
	assert.Equal(t, 6, p.MinMovementsPerHour)
	assert.Equal(t, 12, p.MaxMovementsPerHour)
	assert.Equal(t, 0.60, p.MuscleOverlapThreshold)
	assert.Equal(t, 0.40, p.FamilyBalanceThreshold)

	// 2 min prep + 4 min warm-up + 4 min cool-down + 3 min meditation
	// + 2 min home care
	assert.Equal(t, 900, p.FixedOverheadSeconds())
}

func TestParams_apply(t *testing.T) {
	p := Defaults()
	beginner := catalog.DifficultyBeginner

	p.apply(KeyTeachingTimePerMovement, &beginner, 180)
	assert.Equal(t, 180, p.TeachingTimePerMovement[beginner])
	// other difficulties untouched
	assert.Equal(t, 300, p.TeachingTimePerMovement[catalog.DifficultyIntermediate])

	// a difficulty-scoped key without difficulty is ignored
	p.apply(KeyTargetMovementsPerHour, nil, 99)
	assert.Equal(t, 8, p.TargetMovementsPerHour[beginner])

	p.apply(KeyMuscleOverlapThreshold, nil, 0.5)
	assert.Equal(t, 0.5, p.MuscleOverlapThreshold)

	p.apply(KeyWarmupDuration, nil, 300)
	assert.Equal(t, 300, p.SectionDurations[catalog.SectionWarmup])
	assert.Equal(t, 960, p.FixedOverheadSeconds())

	p.apply(KeyStaleMovementThreshold, nil, 7)
	assert.Equal(t, 7, p.StaleMovementThreshold)

	// unknown keys are ignored without error
	before := p
	p.apply("no_such_key", nil, 42)
	assert.Equal(t, before.MinMovementsPerHour, p.MinMovementsPerHour)
}
