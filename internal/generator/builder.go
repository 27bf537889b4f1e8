package generator

import (
	"fmt"

	"github.com/Lauraredmond/pilates-class-generator-sub004/internal/catalog"
	"github.com/Lauraredmond/pilates-class-generator-sub004/internal/params"
)

// builtSequence is the main-sequence output of the builder, before the
// flanking sections are attached.
type builtSequence struct {
	Movements           []chosenMovement
	RelaxationsUsed     []RelaxationLevel
	TransitionFallbacks []string
}

type chosenMovement struct {
	Movement   catalog.Movement
	Level      catalog.Level
	Transition *catalog.Transition // transition to the next movement, nil for the last
	Fallback   bool                // transition narrative fell back to the reset entry
}

// transitionKey indexes the snapshot's transition repertoire.
type transitionKey struct {
	From catalog.Position
	To   catalog.Position
}

func transitionLookup(transitions []catalog.Transition) map[transitionKey]catalog.Transition {
	lookup := make(map[transitionKey]catalog.Transition, len(transitions))
	for _, t := range transitions {
		lookup[transitionKey{From: t.FromPosition, To: t.ToPosition}] = t
	}
	return lookup
}

// maxLevelRank maps the requested difficulty to the most advanced
// progression level it allows.
func maxLevelRank(difficulty catalog.Difficulty) int {
	switch difficulty {
	case catalog.DifficultyBeginner:
		return catalog.LevelTwo.Rank()
	case catalog.DifficultyIntermediate:
		return catalog.LevelThree.Rank()
	default:
		return catalog.LevelFull.Rank()
	}
}

// muscleOverlap computes |primary(prev) ∩ primary(next)| / |primary(prev)|.
// The ratio is taken against the previous movement's primary set, the rule
// is deliberately asymmetric and evaluated on adjacent pairs only.
func muscleOverlap(prev, next catalog.Movement) float64 {
	if len(prev.PrimaryMuscles) == 0 {
		return 0
	}
	nextPrimary := make(map[string]bool, len(next.PrimaryMuscles))
	for _, m := range next.PrimaryMuscles {
		nextPrimary[m] = true
	}
	shared := 0
	for _, m := range prev.PrimaryMuscles {
		if nextPrimary[m] {
			shared++
		}
	}
	return float64(shared) / float64(len(prev.PrimaryMuscles))
}

// familyShareOK checks the family-balance rule for a hypothetical
// addition: after adding the candidate, no single family may exceed the
// threshold share of the selected movements. A family's first occurrence
// is always allowed, otherwise no sequence could ever start.
func familyShareOK(familyCounts map[catalog.Family]int, f catalog.Family, selectedSoFar int, threshold float64) bool {
	newCount := familyCounts[f] + 1
	if newCount <= 1 {
		return true
	}
	return float64(newCount)/float64(selectedSoFar+1) <= threshold
}

// buildMainSequence assembles the ordered movement sequence. At each
// position it takes the highest-novelty candidate passing both soft
// rules; on exhaustion it walks the relaxation ladder one level at a time
// before giving up with InsufficientRepertoire.
func buildMainSequence(
	candidates []candidate,
	target int,
	difficulty catalog.Difficulty,
	transitions []catalog.Transition,
	p params.Params,
) (*builtSequence, error) {
	lookup := transitionLookup(transitions)
	maxRank := maxLevelRank(difficulty)

	remaining := make([]candidate, len(candidates))
	copy(remaining, candidates)

	selected := make([]chosenMovement, 0, target)
	familyCounts := make(map[catalog.Family]int)
	relaxations := make([]RelaxationLevel, 0)

	for position := 0; position < target; position++ {
		pickIdx := -1
		pickRelax := RelaxNone

		for relax := RelaxNone; relax <= RelaxOverlapAndFamily; relax++ {
			pickIdx = pickCandidate(remaining, selected, familyCounts, relax, p)
			if pickIdx >= 0 {
				pickRelax = relax
				break
			}
		}

		// at the top relaxation level every remaining candidate is
		// acceptable, so a failed pick means the pool ran dry
		if pickIdx < 0 {
			return nil, &InsufficientRepertoireError{
				UnsatisfiedConstraints: []string{"candidate pool exhausted"},
				RemainingCandidates:    len(remaining),
				SelectedCount:          len(selected),
				TargetCount:            target,
			}
		}

		if pickRelax != RelaxNone {
			relaxations = append(relaxations, pickRelax)
		}

		pick := remaining[pickIdx]
		remaining = append(remaining[:pickIdx], remaining[pickIdx+1:]...)
		familyCounts[pick.movement.Family]++

		selected = append(selected, chosenMovement{
			Movement: pick.movement,
			Level:    pick.movement.HighestLevelAtMost(maxRank),
		})
	}

	fallbacks := insertTransitions(selected, lookup, p)

	return &builtSequence{
		Movements:           selected,
		RelaxationsUsed:     relaxations,
		TransitionFallbacks: fallbacks,
	}, nil
}

// pickCandidate returns the index of the best candidate passing the rules
// active at the given relaxation level, or -1. Candidates are already
// sorted by novelty, the first pass wins.
func pickCandidate(
	remaining []candidate,
	selected []chosenMovement,
	familyCounts map[catalog.Family]int,
	relax RelaxationLevel,
	p params.Params,
) int {
	for i, c := range remaining {
		if relax < RelaxOverlap && len(selected) > 0 {
			prev := selected[len(selected)-1].Movement
			if muscleOverlap(prev, c.movement) > p.MuscleOverlapThreshold {
				continue
			}
		}
		if relax < RelaxOverlapAndFamily {
			if !familyShareOK(familyCounts, c.movement.Family, len(selected), p.FamilyBalanceThreshold) {
				continue
			}
		}
		return i
	}
	return -1
}

// insertTransitions attaches the transition to the next movement for every
// movement except the last. A missing exact pair falls back to the
// same-position reset narrative, which is flagged but never fatal.
func insertTransitions(
	selected []chosenMovement,
	lookup map[transitionKey]catalog.Transition,
	p params.Params,
) []string {
	var fallbacks []string
	for i := 0; i < len(selected)-1; i++ {
		from := selected[i].Movement.StartPosition
		to := selected[i+1].Movement.StartPosition

		if t, ok := lookup[transitionKey{From: from, To: to}]; ok {
			selected[i].Transition = &t
			continue
		}

		// last resort: the reset narrative for the current position
		if t, ok := lookup[transitionKey{From: from, To: from}]; ok {
			selected[i].Transition = &t
			selected[i].Fallback = true
			fallbacks = append(fallbacks, fmt.Sprintf("%s->%s", from, to))
			continue
		}

		selected[i].Transition = &catalog.Transition{
			FromPosition:    from,
			ToPosition:      to,
			DurationSeconds: p.TransitionTimeSeconds,
		}
		selected[i].Fallback = true
		fallbacks = append(fallbacks, fmt.Sprintf("%s->%s", from, to))
	}
	return fallbacks
}
