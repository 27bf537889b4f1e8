package generator

import (
	"github.com/Lauraredmond/pilates-class-generator-sub004/internal/catalog"
)

// RelaxationLevel is the explicit, ordered ladder of soft rule
// relaxations the builder walks through when the candidate pool runs dry.
// The order is part of the engine contract and is asserted in tests.
type RelaxationLevel int

const (
	// RelaxNone applies both soft rules strictly.
	RelaxNone RelaxationLevel = iota
	// RelaxOverlap drops the muscle-overlap rule.
	RelaxOverlap
	// RelaxOverlapAndFamily drops both the muscle-overlap
	// and family-balance rules.
	RelaxOverlapAndFamily
)

func (r RelaxationLevel) String() string {
	switch r {
	case RelaxNone:
		return "none"
	case RelaxOverlap:
		return "muscle_overlap"
	case RelaxOverlapAndFamily:
		return "muscle_overlap_and_family_balance"
	}
	return "unknown"
}

// Section is a single entry of the generated class, in teaching order.
type Section struct {
	Type            catalog.SectionType `json:"type"`
	ItemID          string              `json:"itemId,omitempty"`
	Name            string              `json:"name,omitempty"`
	ChosenLevel     catalog.Level       `json:"chosenLevel,omitempty"`
	DurationSeconds int                 `json:"durationSeconds"`
	Narrative       string              `json:"narrative,omitempty"`
}

// GeneratedSequence is the assembled class. It is produced fresh per
// request and never mutated afterwards.
type GeneratedSequence struct {
	Sections      []Section          `json:"sections"`
	MovementCount int                `json:"movementCount"`
	Difficulty    catalog.Difficulty `json:"difficulty"`
	TotalSeconds  int                `json:"totalSeconds"`
}

// Movements returns the movement sections only, in order.
func (s GeneratedSequence) Movements() []Section {
	var movements []Section
	for _, section := range s.Sections {
		if section.Type == catalog.SectionMovement {
			movements = append(movements, section)
		}
	}
	return movements
}

// Rule names used in the quality report.
const (
	RuleMuscleRepetition   = "muscle_repetition"
	RuleFamilyBalance      = "family_balance"
	RuleRepertoireCoverage = "repertoire_coverage"
)

// RuleOutcome is a single re-derived rule check.
// Deviation is 0 on a pass and grows with how far past the threshold
// the sequence landed, so the composite score is reproducible from the
// stored outcomes alone.
type RuleOutcome struct {
	Rule      string  `json:"rule"`
	Pass      bool    `json:"pass"`
	Deviation float64 `json:"deviation"`
	Details   string  `json:"details,omitempty"`
}

// QualityReport holds the validator's verdict on a generated sequence,
// plus warnings about soft rule relaxations and transition fallbacks the
// builder had to take. Warnings are not errors, generation succeeded.
type QualityReport struct {
	Outcomes            []RuleOutcome     `json:"outcomes"`
	Score               float64           `json:"score"`
	RelaxationsUsed     []RelaxationLevel `json:"relaxationsUsed,omitempty"`
	TransitionFallbacks []string          `json:"transitionFallbacks,omitempty"`
}

// Relaxed reports whether the builder had to relax the given rule.
func (r QualityReport) Relaxed(level RelaxationLevel) bool {
	for _, used := range r.RelaxationsUsed {
		if used >= level {
			return true
		}
	}
	return false
}

// Result is the full generation output.
type Result struct {
	Sequence GeneratedSequence `json:"sequence"`
	Report   QualityReport     `json:"report"`
}
