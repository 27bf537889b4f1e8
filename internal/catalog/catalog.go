package catalog

// Difficulty is the teaching tier of a movement or a requested class.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// Level is a progression level of a movement.
// Not every movement declares all levels; Full is the default.
type Level string

const (
	LevelOne   Level = "L1"
	LevelTwo   Level = "L2"
	LevelThree Level = "L3"
	LevelFull  Level = "full"
)

var levelRank = map[Level]int{
	LevelOne:   1,
	LevelTwo:   2,
	LevelThree: 3,
	LevelFull:  4,
}

// Rank returns the progression order of the level, higher is more advanced.
func (l Level) Rank() int {
	return levelRank[l]
}

// Family is the movement pattern category, used for variety balancing.
type Family string

const (
	FamilyRolling            Family = "rolling"
	FamilySupineAbdominal    Family = "supine_abdominal"
	FamilyInversion          Family = "inversion"
	FamilyBackExtension      Family = "back_extension"
	FamilyHipExtensor        Family = "hip_extensor"
	FamilySideLying          Family = "side_lying"
	FamilySeatedArticulation Family = "seated_spinal_articulation"
	FamilyOther              Family = "other"
)

// Position is the starting body position of a movement,
// used to pick the transition narrative between two movements.
type Position string

const (
	PositionSupine    Position = "supine"
	PositionProne     Position = "prone"
	PositionSeated    Position = "seated"
	PositionSideLying Position = "side_lying"
	PositionKneeling  Position = "kneeling"
	PositionStanding  Position = "standing"
)

// SectionType is the type of a generated class section.
type SectionType string

const (
	SectionPreparation SectionType = "preparation"
	SectionWarmup      SectionType = "warmup"
	SectionMovement    SectionType = "movement"
	SectionTransition  SectionType = "transition"
	SectionCooldown    SectionType = "cooldown"
	SectionMeditation  SectionType = "meditation"
	SectionHomeCare    SectionType = "homecare"
)

// Movement is an immutable catalog entry. SortOrder is the stable catalog
// order, used as the deterministic tie-breaker everywhere in the engine.
type Movement struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Difficulty       Difficulty `json:"difficulty"`
	Family           Family     `json:"family"`
	StartPosition    Position   `json:"startPosition"`
	PrimaryMuscles   []string   `json:"primaryMuscles"`
	SecondaryMuscles []string   `json:"secondaryMuscles"`
	Levels           []Level    `json:"levels"`
	DurationSeconds  int        `json:"durationSeconds"`
	SortOrder        int        `json:"sortOrder"`
}

// HighestLevelAtMost returns the most advanced declared level whose rank
// does not exceed maxRank. Falls back to the lowest declared level, and to
// Full when the movement declares no distinct levels.
func (m Movement) HighestLevelAtMost(maxRank int) Level {
	if len(m.Levels) == 0 {
		return LevelFull
	}
	best := Level("")
	lowest := m.Levels[0]
	for _, l := range m.Levels {
		if l.Rank() < lowest.Rank() {
			lowest = l
		}
		if l.Rank() <= maxRank && (best == "" || l.Rank() > best.Rank()) {
			best = l
		}
	}
	if best == "" {
		return lowest
	}
	return best
}

type MuscleGroup struct {
	Name     string `json:"name"`
	Category string `json:"category"` // stability / strengthening / flexibility / control
}

// Transition holds the narrative read between two consecutive movements.
// A same-position pair represents a "reset" transition.
type Transition struct {
	FromPosition    Position `json:"fromPosition"`
	ToPosition      Position `json:"toPosition"`
	Narrative       string   `json:"narrative"`
	DurationSeconds int      `json:"durationSeconds"`
}

// FlankingItem is a non-movement content item bracketing the main sequence.
// MuscleGroups is set for warm-up and cool-down items only.
type FlankingItem struct {
	ID              string      `json:"id"`
	SectionType     SectionType `json:"sectionType"`
	Narrative       string      `json:"narrative"`
	DurationSeconds int         `json:"durationSeconds"`
	MuscleGroups    []string    `json:"muscleGroups"`
	Active          bool        `json:"active"`
	SortOrder       int         `json:"sortOrder"`
}
