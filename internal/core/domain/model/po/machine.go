package po

import (
	"errors"
	"fmt"

	"potrack/internal/core/domain/model/kernel"
	"potrack/internal/pkg/errs"
	"potrack/internal/pkg/guard"
)

var (
	// ErrMachineIsNotConstructed is returned when using a Machine that was not
	// created via NewMachine or RestoreMachine.
	ErrMachineIsNotConstructed = errors.New("Machine must be created via NewMachine constructor")

	// ErrStageRecordIsRequired is returned when recording a nil stage payload.
	ErrStageRecordIsRequired = errs.NewValueIsRequiredError("stageRecord")

	// ErrChallanAlreadyAssigned is returned when attempting to assign a challan
	// number to a packaging & dispatch record that already carries one.
	ErrChallanAlreadyAssigned = errors.New("challan number is already assigned and cannot be reassigned")

	// ErrPackagingDispatchNotRecorded is returned when assigning a challan
	// number before the packaging & dispatch stage has been recorded.
	ErrPackagingDispatchNotRecorded = errors.New("packaging & dispatch stage has not been recorded")
)

// Machine represents one size variant within a PO, identified by its machine
// number (1-6). It is an entity owned by the PO aggregate and progresses
// through the six production stages independently of its sibling machines.
//
// Machine maintains these invariants:
//   - machineNo is in [1, 6] and immutable after creation
//   - completedStages is a duplicate-free subset of the six known stage keys
//   - a stage key is marked completed if and only if its record has been
//     written at least once (or explicitly confirmed via MarkStageCompleted)
//   - a packaging & dispatch challan number, once set, is never reassigned
type Machine struct {
	// id uniquely identifies the machine entry across all POs
	id kernel.UUID

	// machineNo is the slot (1-6) this machine occupies within its PO
	machineNo MachineNo

	// one optional record per production stage
	requirement         *Requirement
	extrusionProduction *ExtrusionProduction
	printing            *Printing
	cuttingSealing      *CuttingSealing
	punch               *Punch
	packagingDispatch   *PackagingDispatch

	// completedStages records which stages have been submitted, without duplicates
	completedStages []StageKey

	// guard ensures the machine was properly constructed
	guard guard.ConstructorGuard
}

// NewMachine creates an empty machine for the given slot. Stage records are
// attached afterwards via RecordStage.
//
// Returns a validation error if the id or machine number is invalid.
func NewMachine(id kernel.UUID, machineNo MachineNo) (*Machine, error) {
	machine := &Machine{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		machine.setID(id),
		machine.setMachineNo(machineNo),
	); err != nil {
		return nil, err
	}

	return machine, nil
}

// RestoreMachine reconstructs a machine from persistent storage, including
// its stage records and completed-stage markers. The restored machine behaves
// identically to one built through normal domain operations.
func RestoreMachine(
	id kernel.UUID,
	machineNo MachineNo,
	records []StageRecord,
	completedStages []StageKey,
) (*Machine, error) {
	machine, err := NewMachine(id, machineNo)
	if err != nil {
		return nil, err
	}

	for _, record := range records {
		if record == nil {
			return nil, ErrStageRecordIsRequired
		}
		machine.storeRecord(record)
	}

	for _, key := range completedStages {
		if err = key.Validate(); err != nil {
			return nil, err
		}
		machine.markCompleted(key)
	}

	return machine, nil
}

// Validate ensures the Machine instance was properly constructed.
func (m *Machine) Validate() error {
	if m == nil {
		return ErrMachineIsNotConstructed
	}
	return m.guard.Validate(ErrMachineIsNotConstructed)
}

// IsEqual compares two machines by their unique identifiers.
func (m *Machine) IsEqual(other *Machine) bool {
	return other != nil && m.id.IsEqual(other.id)
}

// ID returns the machine's unique identifier.
func (m *Machine) ID() kernel.UUID {
	return m.id
}

// MachineNo returns the slot (1-6) this machine occupies within its PO.
func (m *Machine) MachineNo() MachineNo {
	return m.machineNo
}

// Requirement returns the requirement record, nil if not recorded.
func (m *Machine) Requirement() *Requirement {
	return m.requirement
}

// ExtrusionProduction returns the extrusion record, nil if not recorded.
func (m *Machine) ExtrusionProduction() *ExtrusionProduction {
	return m.extrusionProduction
}

// Printing returns the printing record, nil if not recorded.
func (m *Machine) Printing() *Printing {
	return m.printing
}

// CuttingSealing returns the cutting & sealing record, nil if not recorded.
func (m *Machine) CuttingSealing() *CuttingSealing {
	return m.cuttingSealing
}

// Punch returns the punch record, nil if not recorded.
func (m *Machine) Punch() *Punch {
	return m.punch
}

// PackagingDispatch returns the packaging & dispatch record, nil if not recorded.
func (m *Machine) PackagingDispatch() *PackagingDispatch {
	return m.packagingDispatch
}

// CompletedStages returns a copy of the completed-stage markers.
func (m *Machine) CompletedStages() []StageKey {
	out := make([]StageKey, len(m.completedStages))
	copy(out, m.completedStages)
	return out
}

// HasCompleted reports whether the given stage has been recorded on this machine.
func (m *Machine) HasCompleted(key StageKey) bool {
	for _, completed := range m.completedStages {
		if completed == key {
			return true
		}
	}
	return false
}

// IsCompleted reports whether all six stages have been recorded.
func (m *Machine) IsCompleted() bool {
	return len(m.completedStages) == len(StageKeyOrder())
}

// NextIncompleteStage resolves the first stage, in canonical production
// order, that has not been completed on this machine. It is side-effect-free
// and authoritative for "continue" navigation.
//
// Returns:
//   - (stage key, true) for the first incomplete stage
//   - (StageKeyUnknown, false) when all six stages are complete
func (m *Machine) NextIncompleteStage() (StageKey, bool) {
	for _, key := range StageKeyOrder() {
		if !m.HasCompleted(key) {
			return key, true
		}
	}
	return StageKeyUnknown, false
}

// RecordStage stores the record for its stage, replacing any existing record
// wholesale. The one exception to the full overwrite is the packaging &
// dispatch challan number: when the existing record already carries one, it
// is copied onto the incoming record so the number survives the replace.
//
// The stage is marked completed idempotently: re-submitting the same stage
// never duplicates the marker.
func (m *Machine) RecordStage(record StageRecord) error {
	if record == nil {
		return ErrStageRecordIsRequired
	}

	if pd, ok := record.(*PackagingDispatch); ok {
		if existing := m.packagingDispatch; existing != nil && existing.ChallanNo != 0 {
			pd.ChallanNo = existing.ChallanNo
		}
	}

	m.storeRecord(record)
	m.markCompleted(record.StageKey())
	return nil
}

// MarkStageCompleted adds the stage to the completed set without touching its
// record. Used by the explicit per-machine stage confirmation operation.
func (m *Machine) MarkStageCompleted(key StageKey) error {
	if err := key.Validate(); err != nil {
		return err
	}
	m.markCompleted(key)
	return nil
}

// NeedsChallan reports whether the machine has a packaging & dispatch record
// that has not yet been assigned a challan number.
func (m *Machine) NeedsChallan() bool {
	return m.packagingDispatch != nil && m.packagingDispatch.ChallanNo == 0
}

// AssignChallanNo attaches the issued challan number to the packaging &
// dispatch record. The number is write-once: assigning over an existing
// number fails with ErrChallanAlreadyAssigned.
func (m *Machine) AssignChallanNo(challanNo int64) error {
	if challanNo <= 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"challanNo",
			fmt.Errorf("%d is not greater than 0", challanNo),
		)
	}
	if m.packagingDispatch == nil {
		return ErrPackagingDispatchNotRecorded
	}
	if m.packagingDispatch.ChallanNo != 0 {
		return ErrChallanAlreadyAssigned
	}

	m.packagingDispatch.ChallanNo = challanNo
	return nil
}

// ChallanNo returns the assigned challan number, 0 when none has been issued.
func (m *Machine) ChallanNo() int64 {
	if m.packagingDispatch == nil {
		return 0
	}
	return m.packagingDispatch.ChallanNo
}

// StageRecords returns every recorded stage payload, in canonical order.
func (m *Machine) StageRecords() []StageRecord {
	records := make([]StageRecord, 0, len(StageKeyOrder()))
	if m.requirement != nil {
		records = append(records, m.requirement)
	}
	if m.extrusionProduction != nil {
		records = append(records, m.extrusionProduction)
	}
	if m.printing != nil {
		records = append(records, m.printing)
	}
	if m.cuttingSealing != nil {
		records = append(records, m.cuttingSealing)
	}
	if m.punch != nil {
		records = append(records, m.punch)
	}
	if m.packagingDispatch != nil {
		records = append(records, m.packagingDispatch)
	}
	return records
}

func (m *Machine) storeRecord(record StageRecord) {
	switch r := record.(type) {
	case *Requirement:
		m.requirement = r
	case *ExtrusionProduction:
		m.extrusionProduction = r
	case *Printing:
		m.printing = r
	case *CuttingSealing:
		m.cuttingSealing = r
	case *Punch:
		m.punch = r
	case *PackagingDispatch:
		m.packagingDispatch = r
	}
}

func (m *Machine) markCompleted(key StageKey) {
	if !m.HasCompleted(key) {
		m.completedStages = append(m.completedStages, key)
	}
}

func (m *Machine) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	m.id = id
	return nil
}

func (m *Machine) setMachineNo(machineNo MachineNo) error {
	if err := machineNo.Validate(); err != nil {
		return err
	}
	m.machineNo = machineNo
	return nil
}
