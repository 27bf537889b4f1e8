package generator

import (
	"github.com/Lauraredmond/pilates-class-generator-sub004/internal/catalog"
)

// muscleGroupUnion collects every muscle group touched by the selected
// movements, primary and secondary.
func muscleGroupUnion(selected []chosenMovement) map[string]bool {
	union := make(map[string]bool)
	for _, chosen := range selected {
		for _, m := range chosen.Movement.PrimaryMuscles {
			union[m] = true
		}
		for _, m := range chosen.Movement.SecondaryMuscles {
			union[m] = true
		}
	}
	return union
}

// pickByCoverage selects the item whose declared muscle groups intersect
// the sequence union the most. Items arrive in stable catalog order, so
// ties resolve deterministically to the earlier item.
func pickByCoverage(items []catalog.FlankingItem, union map[string]bool) *catalog.FlankingItem {
	if len(items) == 0 {
		return nil
	}
	bestIdx := 0
	bestCoverage := -1
	for i, item := range items {
		coverage := 0
		for _, m := range item.MuscleGroups {
			if union[m] {
				coverage++
			}
		}
		if coverage > bestCoverage {
			bestCoverage = coverage
			bestIdx = i
		}
	}
	return &items[bestIdx]
}

// pickGeneric selects a flanking item whose content carries no muscle
// coverage implication: the first active item in catalog order.
func pickGeneric(items []catalog.FlankingItem) *catalog.FlankingItem {
	if len(items) == 0 {
		return nil
	}
	return &items[0]
}

// flankingSelection holds one chosen item per flanking section.
// Any entry may be nil when the repertoire has no active item for it;
// the section is then simply omitted from the class.
type flankingSelection struct {
	Preparation *catalog.FlankingItem
	Warmup      *catalog.FlankingItem
	Cooldown    *catalog.FlankingItem
	Meditation  *catalog.FlankingItem
	HomeCare    *catalog.FlankingItem
}

// selectFlanking picks the flanking content around a fixed main sequence.
// Warm-up and cool-down follow the muscle groups the sequence touches,
// the rest are generic.
func selectFlanking(
	selected []chosenMovement,
	repertoire map[catalog.SectionType][]catalog.FlankingItem,
) flankingSelection {
	union := muscleGroupUnion(selected)
	return flankingSelection{
		Preparation: pickGeneric(repertoire[catalog.SectionPreparation]),
		Warmup:      pickByCoverage(repertoire[catalog.SectionWarmup], union),
		Cooldown:    pickByCoverage(repertoire[catalog.SectionCooldown], union),
		Meditation:  pickGeneric(repertoire[catalog.SectionMeditation]),
		HomeCare:    pickGeneric(repertoire[catalog.SectionHomeCare]),
	}
}
