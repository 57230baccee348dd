package po

import (
	"fmt"

	"potrack/internal/pkg/errs"
)

// StageKey identifies one of the six production stages tracked per machine.
// Machines progress through the stages independently of each other and of the
// PO-level Stage tracker; the fixed order below is the canonical production
// sequence used to resolve the next incomplete stage.
type StageKey int

const (
	// StageKeyUnknown represents an invalid or undefined stage key.
	// This value (0) helps catch uninitialized StageKey values.
	StageKeyUnknown StageKey = iota

	// StageKeyRequirement is the intake stage capturing the bag specification.
	StageKeyRequirement

	// StageKeyExtrusionProduction covers film extrusion on the blown-film line.
	StageKeyExtrusionProduction

	// StageKeyPrinting covers roll printing.
	StageKeyPrinting

	// StageKeyCuttingSealing covers cutting and sealing of printed rolls.
	StageKeyCuttingSealing

	// StageKeyPunch covers handle punching.
	StageKeyPunch

	// StageKeyPackagingDispatch is the final stage; recording it issues a
	// delivery challan number for the machine.
	StageKeyPackagingDispatch
)

// StageKeyOrder returns the six stage keys in canonical production order.
// The returned slice is a fresh copy on every call.
func StageKeyOrder() []StageKey {
	return []StageKey{
		StageKeyRequirement,
		StageKeyExtrusionProduction,
		StageKeyPrinting,
		StageKeyCuttingSealing,
		StageKeyPunch,
		StageKeyPackagingDispatch,
	}
}

func getStageKeyStrings() map[StageKey]string {
	return map[StageKey]string{
		StageKeyUnknown:             "unknown",
		StageKeyRequirement:         "requirement",
		StageKeyExtrusionProduction: "extrusionProduction",
		StageKeyPrinting:            "printing",
		StageKeyCuttingSealing:      "cuttingSealing",
		StageKeyPunch:               "punch",
		StageKeyPackagingDispatch:   "packagingDispatch",
	}
}

// StageKeyFromString parses the persisted/wire representation of a stage key.
// Returns an error for unknown names, including the zero value name.
func StageKeyFromString(s string) (StageKey, error) {
	for key, name := range getStageKeyStrings() {
		if name == s && key != StageKeyUnknown {
			return key, nil
		}
	}
	return StageKeyUnknown, errs.NewValueIsInvalidErrorWithCause(
		"stageKey",
		fmt.Errorf("%q is not a known stage key", s),
	)
}

// Validate checks if the StageKey value is one of the six known stages.
func (k StageKey) Validate() error {
	if k <= StageKeyUnknown || k > StageKeyPackagingDispatch {
		return errs.NewValueIsInvalidErrorWithCause(
			"stageKey",
			fmt.Errorf("%d is not a valid stage key", k),
		)
	}
	return nil
}

// String returns the camelCase name used in persistence and API payloads.
// Implements the fmt.Stringer interface and is safe to call on any value.
func (k StageKey) String() string {
	if s, ok := getStageKeyStrings()[k]; ok {
		return s
	}
	return "unknown"
}

// DisplayName returns the human-readable label for the stage.
func (k StageKey) DisplayName() string {
	switch k {
	case StageKeyRequirement:
		return "Requirement"
	case StageKeyExtrusionProduction:
		return "Extrusion Production"
	case StageKeyPrinting:
		return "Printing"
	case StageKeyCuttingSealing:
		return "Cutting & Sealing"
	case StageKeyPunch:
		return "Punch"
	case StageKeyPackagingDispatch:
		return "Packaging & Dispatch"
	default:
		return "Unknown"
	}
}

// IsEntryStage reports whether a machine may be created by submitting this
// stage first. Only the requirement intake and the packaging & dispatch
// stage are valid machine entry points.
func (k StageKey) IsEntryStage() bool {
	return k == StageKeyRequirement || k == StageKeyPackagingDispatch
}
