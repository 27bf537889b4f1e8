package params

import (
	"github.com/Lauraredmond/pilates-class-generator-sub004/internal/catalog"
)

// Parameter keys as stored in the planning_param table.
// Numeric thresholds live in data, not in code, so rule changes
// don't need a deploy.
const (
	KeyTeachingTimePerMovement = "teaching_time_per_movement" // seconds, per difficulty
	KeyTargetMovementsPerHour  = "target_movements_per_hour"  // per difficulty
	KeyMinMovementsPerHour     = "min_movements_per_hour"     // global
	KeyMaxMovementsPerHour     = "max_movements_per_hour"     // global
	KeyTransitionTime          = "transition_time"            // seconds, global
	KeyPreparationDuration     = "preparation_duration"       // seconds, global
	KeyWarmupDuration          = "warmup_duration"            // seconds, global
	KeyCooldownDuration        = "cooldown_duration"          // seconds, global
	KeyMeditationDuration      = "meditation_duration"        // seconds, global
	KeyHomeCareDuration        = "homecare_duration"          // seconds, global
	KeyMuscleOverlapThreshold  = "muscle_overlap_threshold"   // ratio, global
	KeyFamilyBalanceThreshold  = "family_balance_threshold"   // ratio, global
	KeyNoveltyLookbackDays     = "novelty_lookback_days"      // global
	KeyNoveltyUsageCap         = "novelty_usage_cap"          // global
	KeyStalenessWindowDays     = "staleness_window_days"      // global
	KeyStaleMovementThreshold  = "stale_movement_threshold"   // global
)

// Params is the full set of planning parameters a single generation
// request works with, loaded once up front.
type Params struct {
	TeachingTimePerMovement map[catalog.Difficulty]int `json:"teachingTimePerMovement"`
	TargetMovementsPerHour  map[catalog.Difficulty]int `json:"targetMovementsPerHour"`
	MinMovementsPerHour     int                        `json:"minMovementsPerHour"`
	MaxMovementsPerHour     int                        `json:"maxMovementsPerHour"`
	TransitionTimeSeconds   int                        `json:"transitionTimeSeconds"`

	SectionDurations map[catalog.SectionType]int `json:"sectionDurations"`

	MuscleOverlapThreshold float64 `json:"muscleOverlapThreshold"`
	FamilyBalanceThreshold float64 `json:"familyBalanceThreshold"`

	NoveltyLookbackDays    int `json:"noveltyLookbackDays"`
	NoveltyUsageCap        int `json:"noveltyUsageCap"`
	StalenessWindowDays    int `json:"stalenessWindowDays"`
	StaleMovementThreshold int `json:"staleMovementThreshold"`

	// AnchorBoosts maps movement codes to a novelty multiplier, loaded from
	// the anchor_boost table.
	AnchorBoosts map[string]float64 `json:"anchorBoosts"`
}

// FixedOverheadSeconds is the total duration of all flanking sections,
// independent of difficulty.
func (p Params) FixedOverheadSeconds() int {
	total := 0
	for _, sectionType := range []catalog.SectionType{
		catalog.SectionPreparation,
		catalog.SectionWarmup,
		catalog.SectionCooldown,
		catalog.SectionMeditation,
		catalog.SectionHomeCare,
	} {
		total += p.SectionDurations[sectionType]
	}
	return total
}

// Defaults returns a Params value with the documented fallback thresholds.
// Repo-loaded values override these; the defaults keep the engine usable
// in tests and local development without a seeded planning_param table.
func Defaults() Params {
	return Params{
		TeachingTimePerMovement: map[catalog.Difficulty]int{
			catalog.DifficultyBeginner:     240,
			catalog.DifficultyIntermediate: 300,
			catalog.DifficultyAdvanced:     360,
		},
		TargetMovementsPerHour: map[catalog.Difficulty]int{
			catalog.DifficultyBeginner:     8,
			catalog.DifficultyIntermediate: 9,
			catalog.DifficultyAdvanced:     10,
		},
		MinMovementsPerHour:   6,
		MaxMovementsPerHour:   12,
		TransitionTimeSeconds: 60,
		SectionDurations: map[catalog.SectionType]int{
			catalog.SectionPreparation: 120,
			catalog.SectionWarmup:      240,
			catalog.SectionCooldown:    240,
			catalog.SectionMeditation:  180,
			catalog.SectionHomeCare:    120,
		},
		MuscleOverlapThreshold: 0.60,
		FamilyBalanceThreshold: 0.40,
		NoveltyLookbackDays:    30,
		NoveltyUsageCap:        10,
		StalenessWindowDays:    45,
		StaleMovementThreshold: 5,
		AnchorBoosts:           map[string]float64{},
	}
}
