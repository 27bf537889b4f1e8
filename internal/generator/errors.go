package generator

import (
	"fmt"
	"strings"
)

// MedicalExclusionError blocks generation before any other computation.
// It must surface verbatim to the caller and is never suppressed.
type MedicalExclusionError struct {
	StudentProfileID string
	Reason           string
}

func (e *MedicalExclusionError) Error() string {
	return fmt.Sprintf("class generation blocked for profile [%s]: %s", e.StudentProfileID, e.Reason)
}

// DurationTooShortError is returned when the requested duration can not
// fit the minimum viable sequence for the requested difficulty.
type DurationTooShortError struct {
	RequestedMinutes     int
	MinimumViableMinutes int
}

func (e *DurationTooShortError) Error() string {
	return fmt.Sprintf(
		"requested duration of %d minutes is too short, minimum viable duration is %d minutes",
		e.RequestedMinutes, e.MinimumViableMinutes,
	)
}

// InsufficientRepertoireError is returned only after every relaxation
// level is exhausted and the candidate pool is still empty.
type InsufficientRepertoireError struct {
	UnsatisfiedConstraints []string
	RemainingCandidates    int
	SelectedCount          int
	TargetCount            int
}

func (e *InsufficientRepertoireError) Error() string {
	return fmt.Sprintf(
		"insufficient repertoire: selected %d of %d movements, %d candidates remained, unsatisfied: %s",
		e.SelectedCount, e.TargetCount, e.RemainingCandidates,
		strings.Join(e.UnsatisfiedConstraints, ", "),
	)
}
