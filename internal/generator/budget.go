package generator

import (
	"math"

	"github.com/Lauraredmond/pilates-class-generator-sub004/internal/catalog"
	"github.com/Lauraredmond/pilates-class-generator-sub004/internal/params"
)

// budget is what the requested duration buys: a target movement count for
// the main sequence plus the fixed time of the flanking sections.
type budget struct {
	TargetCount          int
	FixedOverheadSeconds int
	AvailableMinutes     float64
	PerMovementMinutes   float64
}

// computeBudget converts a requested duration and difficulty into a target
// movement count. The count is clamped to the min/max movements-per-hour
// bounds scaled to the requested duration and nudged toward the
// difficulty-specific target when that target fits.
func computeBudget(durationMinutes int, difficulty catalog.Difficulty, p params.Params) (budget, error) {
	overheadSeconds := p.FixedOverheadSeconds()
	availableMinutes := float64(durationMinutes) - float64(overheadSeconds)/60

	perMovementMinutes := float64(p.TeachingTimePerMovement[difficulty]+p.TransitionTimeSeconds) / 60

	if availableMinutes <= 0 {
		return budget{}, &DurationTooShortError{
			RequestedMinutes:     durationMinutes,
			MinimumViableMinutes: minimumViableMinutes(durationMinutes, difficulty, p),
		}
	}

	rawCount := int(math.Floor(availableMinutes / perMovementMinutes))

	scale := float64(durationMinutes) / 60
	minScaled := int(math.Round(float64(p.MinMovementsPerHour) * scale))
	if minScaled < 1 {
		minScaled = 1
	}
	maxScaled := int(math.Round(float64(p.MaxMovementsPerHour) * scale))
	if maxScaled < minScaled {
		maxScaled = minScaled
	}

	// fewer movements fit than the scaled minimum allows, the class
	// would be under-filled rather than merely short
	if rawCount < minScaled {
		return budget{}, &DurationTooShortError{
			RequestedMinutes:     durationMinutes,
			MinimumViableMinutes: minimumViableMinutes(durationMinutes, difficulty, p),
		}
	}

	targetCount := rawCount
	if targetCount > maxScaled {
		targetCount = maxScaled
	}

	// nudge toward the difficulty target when it lies within the clamped
	// bounds; never above rawCount since more movements would not fit
	difficultyTarget := int(math.Round(float64(p.TargetMovementsPerHour[difficulty]) * scale))
	if difficultyTarget >= minScaled && difficultyTarget <= maxScaled && difficultyTarget <= rawCount {
		targetCount = difficultyTarget
	}

	return budget{
		TargetCount:          targetCount,
		FixedOverheadSeconds: overheadSeconds,
		AvailableMinutes:     availableMinutes,
		PerMovementMinutes:   perMovementMinutes,
	}, nil
}

// minimumViableMinutes finds the smallest duration, in 5 minute steps,
// for which a budget for the given difficulty is feasible. Used only to
// enrich the DurationTooShort error for the caller.
func minimumViableMinutes(fromMinutes int, difficulty catalog.Difficulty, p params.Params) int {
	perMovementMinutes := float64(p.TeachingTimePerMovement[difficulty]+p.TransitionTimeSeconds) / 60
	overheadMinutes := float64(p.FixedOverheadSeconds()) / 60

	start := fromMinutes - fromMinutes%5
	if start < 5 {
		start = 5
	}
	for d := start; d <= 240; d += 5 {
		available := float64(d) - overheadMinutes
		if available <= 0 {
			continue
		}
		raw := int(math.Floor(available / perMovementMinutes))
		minScaled := int(math.Round(float64(p.MinMovementsPerHour) * float64(d) / 60))
		if minScaled < 1 {
			minScaled = 1
		}
		if raw >= minScaled {
			return d
		}
	}
	return 240
}
