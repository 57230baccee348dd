package po

import (
	"fmt"

	"potrack/internal/pkg/errs"
)

// Status represents the coarse lifecycle state of a PO.
// It implements a state machine whose transitions only ever move forward.
//
// State transitions:
//
//	Draft ──> InProgress ──> Completed
//
// Completed is a final state; no transition reverts an earlier one.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	StatusUnknown Status = iota

	// StatusDraft is the initial status of a freshly created PO with no
	// machines attached yet.
	StatusDraft

	// StatusInProgress indicates production work has been recorded against
	// at least one machine.
	StatusInProgress

	// StatusCompleted indicates the PO has been finalized. This is a final
	// state with no further transitions allowed.
	StatusCompleted
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:    "unknown",
		StatusDraft:      "draft",
		StatusInProgress: "in-progress",
		StatusCompleted:  "completed",
	}
}

// StatusFromString parses the persisted/wire representation of a status.
func StatusFromString(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if name == s && status != StatusUnknown {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause(
		"status",
		fmt.Errorf("%q is not a known status", s),
	)
}

// Validate checks if the Status value is valid.
//
// Valid statuses are: Draft, InProgress, Completed.
// Unknown (0) and any other values are invalid.
func (s Status) Validate() error {
	if s <= StatusUnknown || s > StatusCompleted {
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%d is not a valid status", s),
		)
	}
	return nil
}

// String returns the lower-case name of the status as used in persistence
// and API payloads. Implements the fmt.Stringer interface and is safe to
// call on any Status value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Start transitions the status to InProgress.
//
// Valid transitions:
//   - Draft -> InProgress (first production activity)
//   - InProgress -> InProgress (idempotent)
//
// Invalid transitions:
//   - Completed -> InProgress (status never reverts)
//
// Returns:
//   - (InProgress, nil) on valid transition
//   - (0, error) if the transition is not allowed from the current status
func (s Status) Start() (Status, error) {
	if s != StatusDraft && s != StatusInProgress {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to start", s.String()),
		)
	}
	return StatusInProgress, nil
}

// Complete transitions the status to Completed.
//
// Any valid status may complete (finalization is permitted for drafts as
// well as in-progress POs); Completed -> Completed is idempotent.
//
// Returns:
//   - (Completed, nil) on valid transition
//   - (0, error) if the current status is invalid
func (s Status) Complete() (Status, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}
	return StatusCompleted, nil
}
