package po

import (
	"fmt"

	"potrack/internal/pkg/errs"
)

// Stage represents the PO-level stage tracker. It is a coarse, advisory
// signal that is deliberately independent of the per-machine completed-stage
// sets: machines progress on their own (see Machine.NextIncompleteStage),
// while the PO-level stage is only moved by an explicit advance operation.
//
// Stage transitions:
//
//	Requirement -> Extrusion -> Printing -> Cutting -> Punch -> Packaging -> Completed
//
// Completed is terminal; there are no backward transitions.
type Stage int

const (
	// StageUnknown represents an invalid or undefined stage.
	// This value (0) helps catch uninitialized Stage values.
	StageUnknown Stage = iota

	// StageRequirement is the initial PO-level stage.
	StageRequirement

	// StageExtrusion indicates extrusion production is underway.
	StageExtrusion

	// StagePrinting indicates printing is underway.
	StagePrinting

	// StageCutting indicates cutting & sealing is underway.
	StageCutting

	// StagePunch indicates punching is underway.
	StagePunch

	// StagePackaging indicates packaging & dispatch is underway.
	StagePackaging

	// StageCompleted is the terminal stage. Reaching it completes and
	// finalizes the owning PO.
	StageCompleted
)

func getStageStrings() map[Stage]string {
	return map[Stage]string{
		StageUnknown:     "unknown",
		StageRequirement: "requirement",
		StageExtrusion:   "extrusion",
		StagePrinting:    "printing",
		StageCutting:     "cutting",
		StagePunch:       "punch",
		StagePackaging:   "packaging",
		StageCompleted:   "completed",
	}
}

// StageFromString parses the persisted/wire representation of a PO-level stage.
func StageFromString(s string) (Stage, error) {
	for stage, name := range getStageStrings() {
		if name == s && stage != StageUnknown {
			return stage, nil
		}
	}
	return StageUnknown, errs.NewValueIsInvalidErrorWithCause(
		"stage",
		fmt.Errorf("%q is not a known stage", s),
	)
}

// Validate checks if the Stage value is valid.
//
// Valid stages are Requirement through Completed. Unknown (0) and any other
// values are invalid.
func (s Stage) Validate() error {
	if s <= StageUnknown || s > StageCompleted {
		return errs.NewValueIsInvalidErrorWithCause(
			"stage",
			fmt.Errorf("%d is not a valid stage", s),
		)
	}
	return nil
}

// String returns the lower-case name used in persistence and API payloads.
// Implements the fmt.Stringer interface and is safe to call on any value.
func (s Stage) String() string {
	if str, ok := getStageStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// DisplayName returns the human-readable label for the stage.
func (s Stage) DisplayName() string {
	switch s {
	case StageRequirement:
		return "Requirement"
	case StageExtrusion:
		return "Extrusion Production"
	case StagePrinting:
		return "Printing"
	case StageCutting:
		return "Cutting & Sealing"
	case StagePunch:
		return "Punch"
	case StagePackaging:
		return "Packaging & Dispatch"
	case StageCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}

// Next transitions the stage one step forward in the fixed order.
//
// Valid transitions move linearly from Requirement toward Completed.
// Completed is terminal: advancing it returns an error.
//
// Returns:
//   - (next stage, nil) on a valid transition
//   - (0, error) if the stage is already Completed or invalid
func (s Stage) Next() (Stage, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}
	if s == StageCompleted {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"stage",
			fmt.Errorf("%s is terminal and cannot advance", s.String()),
		)
	}
	return s + 1, nil
}
