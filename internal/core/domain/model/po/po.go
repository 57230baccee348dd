package po

import (
	"errors"
	"strings"
	"time"

	"potrack/internal/core/domain/model/kernel"
	"potrack/internal/pkg/errs"
	"potrack/internal/pkg/guard"
)

// Domain errors for PO operations. Each maps to a distinct business-rule
// violation so callers can always tell which precondition failed.
var (
	// ErrPOIsNotConstructed is returned when using a PO that was not created
	// via NewPO or RestorePO.
	ErrPOIsNotConstructed = errors.New("PO must be created via NewPO constructor")

	// ErrJobTitleIsRequired is returned when creating a PO with an empty job title.
	ErrJobTitleIsRequired = errs.NewValueIsRequiredError("jobTitle")

	// ErrPONumberIsRequired is returned when creating a PO without a PO number.
	ErrPONumberIsRequired = errs.NewValueIsRequiredError("poNumber")

	// ErrPOIsFinalized is returned when mutating a finalized PO.
	ErrPOIsFinalized = errors.New("PO is finalized and can no longer be modified")

	// ErrMachineLimitReached is returned when adding a 7th machine.
	ErrMachineLimitReached = errors.New("machine limit reached: maximum 6 machines allowed per PO")

	// ErrDuplicateMachineNo is returned when the machine number is already
	// used within the PO.
	ErrDuplicateMachineNo = errors.New("machine number already used in this PO")

	// ErrMachineNotFound is returned when the referenced machine does not
	// belong to the PO.
	ErrMachineNotFound = errors.New("machine not found in this PO")

	// ErrPOAlreadyCompleted is returned when advancing a PO whose stage
	// tracker is already terminal.
	ErrPOAlreadyCompleted = errors.New("PO is already completed")
)

// PO is the purchase-order aggregate root: one job with up to six machine
// (size variant) entries, each progressing through the six production stages
// independently.
//
// PO maintains these invariants:
//   - poNumber is assigned exactly once at creation and never changes
//   - jobTitle is non-empty after trimming
//   - at most 6 machines, with pairwise distinct machine numbers
//   - once finalized, no machine admission or stage mutation is permitted
//   - status only moves forward: draft -> in-progress -> completed
//
// The PO-level currentStage tracker and the per-machine completed-stage sets
// are two deliberately separate state machines. Machines advance on their
// own as stage records arrive; currentStage only moves through
// AdvanceToNextStage and may diverge from what the machines have reached.
type PO struct {
	// id is the unique identifier for the PO
	id kernel.UUID

	// poNumber is the immutable human-readable identifier ("PO-<n>")
	poNumber string

	// jobTitle names the job this PO tracks
	jobTitle string

	// createdBy identifies the admin who created the PO
	createdBy kernel.UUID

	// createdAt is set once at creation
	createdAt time.Time

	// currentStage is the advisory PO-level stage tracker
	currentStage Stage

	// status is the coarse lifecycle state
	status Status

	// stageCompletedAt records when each PO-level stage transition happened
	stageCompletedAt map[Stage]time.Time

	// isFinalized closes the PO to further mutation
	isFinalized bool

	// machines holds the 0-6 machine entries
	machines []*Machine

	// guard ensures the PO was properly constructed
	guard guard.ConstructorGuard
}

// NewPO creates a new purchase order in draft status with an empty machine
// collection and the requirement stage as its current PO-level stage.
//
// Parameters:
//   - id: unique identifier (must be a valid UUID)
//   - poNumber: the issued "PO-<n>" number (must be non-empty; assigned once)
//   - jobTitle: required job name (must be non-empty after trimming)
//   - createdBy: identity of the creating admin
//   - createdAt: creation timestamp, recorded once
//
// Returns a validation error if any parameter is invalid.
func NewPO(
	id kernel.UUID,
	poNumber string,
	jobTitle string,
	createdBy kernel.UUID,
	createdAt time.Time,
) (*PO, error) {
	order := &PO{
		currentStage:     StageRequirement,
		status:           StatusDraft,
		stageCompletedAt: make(map[Stage]time.Time),
		createdAt:        createdAt,
		guard:            guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		order.setID(id),
		order.setPONumber(poNumber),
		order.setJobTitle(jobTitle),
		order.setCreatedBy(createdBy),
	); err != nil {
		return nil, err
	}

	return order, nil
}

// RestorePO reconstructs a PO aggregate from persistent storage, including
// its machines and stage bookkeeping. The restored PO behaves identically to
// one built through normal domain operations.
func RestorePO(
	id kernel.UUID,
	poNumber string,
	jobTitle string,
	createdBy kernel.UUID,
	createdAt time.Time,
	currentStage Stage,
	status Status,
	stageCompletedAt map[Stage]time.Time,
	isFinalized bool,
	machines []*Machine,
) (*PO, error) {
	order, err := NewPO(id, poNumber, jobTitle, createdBy, createdAt)
	if err != nil {
		return nil, err
	}

	if err = errors.Join(currentStage.Validate(), status.Validate()); err != nil {
		return nil, err
	}

	order.currentStage = currentStage
	order.status = status
	order.isFinalized = isFinalized
	if stageCompletedAt != nil {
		order.stageCompletedAt = stageCompletedAt
	}

	for _, machine := range machines {
		if err = machine.Validate(); err != nil {
			return nil, err
		}
	}
	order.machines = machines

	return order, nil
}

// Validate ensures the PO instance was properly constructed.
func (p *PO) Validate() error {
	if p == nil {
		return ErrPOIsNotConstructed
	}
	return p.guard.Validate(ErrPOIsNotConstructed)
}

// IsEqual compares two POs by their unique identifiers.
func (p *PO) IsEqual(other *PO) bool {
	return other != nil && p.id.IsEqual(other.id)
}

// ID returns the PO's unique identifier.
func (p *PO) ID() kernel.UUID {
	return p.id
}

// PONumber returns the immutable human-readable PO number.
func (p *PO) PONumber() string {
	return p.poNumber
}

// JobTitle returns the job name.
func (p *PO) JobTitle() string {
	return p.jobTitle
}

// CreatedBy returns the identity of the creating admin.
func (p *PO) CreatedBy() kernel.UUID {
	return p.createdBy
}

// CreatedAt returns the creation timestamp.
func (p *PO) CreatedAt() time.Time {
	return p.createdAt
}

// CurrentStage returns the PO-level stage tracker value.
func (p *PO) CurrentStage() Stage {
	return p.currentStage
}

// Status returns the coarse lifecycle status.
func (p *PO) Status() Status {
	return p.status
}

// IsFinalized reports whether the PO is closed to further mutation.
func (p *PO) IsFinalized() bool {
	return p.isFinalized
}

// StageCompletedAt returns a copy of the PO-level stage transition timestamps.
func (p *PO) StageCompletedAt() map[Stage]time.Time {
	out := make(map[Stage]time.Time, len(p.stageCompletedAt))
	for stage, at := range p.stageCompletedAt {
		out[stage] = at
	}
	return out
}

// Machines returns the machine entries. The returned slice is a copy; the
// machines themselves are shared entity references.
func (p *PO) Machines() []*Machine {
	out := make([]*Machine, len(p.machines))
	copy(out, p.machines)
	return out
}

// MachineByID finds a machine entry by its unique identifier.
// Returns ErrMachineNotFound if the machine does not belong to this PO.
func (p *PO) MachineByID(machineID kernel.UUID) (*Machine, error) {
	for _, machine := range p.machines {
		if machine.ID().IsEqual(machineID) {
			return machine, nil
		}
	}
	return nil, ErrMachineNotFound
}

// MachineByNo finds a machine entry by its slot number.
// Returns ErrMachineNotFound if the slot is unused.
func (p *PO) MachineByNo(machineNo MachineNo) (*Machine, error) {
	for _, machine := range p.machines {
		if machine.MachineNo().IsEqual(machineNo) {
			return machine, nil
		}
	}
	return nil, ErrMachineNotFound
}

// CanAddMoreMachines reports whether the machine ceiling has not been reached.
func (p *PO) CanAddMoreMachines() bool {
	return len(p.machines) < MaxMachinesPerPO
}

// AvailableMachineNumbers returns the machine slots (1-6) not yet used on
// this PO, in ascending order.
func (p *PO) AvailableMachineNumbers() []int {
	available := make([]int, 0, MaxMachinesPerPO)
	for no := minMachineNo; no <= maxMachineNo; no++ {
		used := false
		for _, machine := range p.machines {
			if machine.MachineNo().Int() == no {
				used = true
				break
			}
		}
		if !used {
			available = append(available, no)
		}
	}
	return available
}

// AddMachine admits a new machine entry into the PO.
//
// Preconditions are checked in order, each with a distinct error:
//  1. the PO must not be finalized (ErrPOIsFinalized)
//  2. fewer than 6 machines attached (ErrMachineLimitReached)
//  3. the machine number must be unused (ErrDuplicateMachineNo)
//
// A draft PO is promoted to in-progress on successful admission.
func (p *PO) AddMachine(machine *Machine) error {
	if err := machine.Validate(); err != nil {
		return err
	}
	if p.isFinalized {
		return ErrPOIsFinalized
	}
	if !p.CanAddMoreMachines() {
		return ErrMachineLimitReached
	}
	if _, err := p.MachineByNo(machine.MachineNo()); err == nil {
		return ErrDuplicateMachineNo
	}

	p.machines = append(p.machines, machine)
	return p.startIfDraft()
}

// RecordMachineStage stores a stage record on one of the PO's machines.
// The write is rejected on a finalized PO; otherwise it delegates to
// Machine.RecordStage (full overwrite, challan preservation, idempotent
// completed-stage marking) and promotes a draft PO to in-progress.
func (p *PO) RecordMachineStage(machineID kernel.UUID, record StageRecord) (*Machine, error) {
	if p.isFinalized {
		return nil, ErrPOIsFinalized
	}

	machine, err := p.MachineByID(machineID)
	if err != nil {
		return nil, err
	}
	if err = machine.RecordStage(record); err != nil {
		return nil, err
	}
	if err = p.startIfDraft(); err != nil {
		return nil, err
	}

	return machine, nil
}

// CompleteMachineStage marks a stage complete on one machine without
// replacing its record. Rejected on a finalized PO.
func (p *PO) CompleteMachineStage(machineID kernel.UUID, key StageKey) (*Machine, error) {
	if p.isFinalized {
		return nil, ErrPOIsFinalized
	}

	machine, err := p.MachineByID(machineID)
	if err != nil {
		return nil, err
	}
	if err = machine.MarkStageCompleted(key); err != nil {
		return nil, err
	}

	return machine, nil
}

// AllMachinesCompleted reports whether every machine on the PO has the given
// stage in its completed set. False for a PO with no machines.
func (p *PO) AllMachinesCompleted(key StageKey) bool {
	if len(p.machines) == 0 {
		return false
	}
	for _, machine := range p.machines {
		if !machine.HasCompleted(key) {
			return false
		}
	}
	return true
}

// AdvanceToNextStage moves the PO-level stage tracker one step forward and
// records the transition timestamp under the new stage. Reaching the
// terminal stage completes and finalizes the PO; any earlier advance
// promotes a draft PO to in-progress.
//
// Returns ErrPOAlreadyCompleted when the tracker is already terminal and
// ErrPOIsFinalized when the PO was finalized before reaching it.
func (p *PO) AdvanceToNextStage() error {
	if p.currentStage == StageCompleted {
		return ErrPOAlreadyCompleted
	}
	if p.isFinalized {
		return ErrPOIsFinalized
	}

	next, err := p.currentStage.Next()
	if err != nil {
		return err
	}

	p.currentStage = next
	p.stageCompletedAt[next] = time.Now()

	if next == StageCompleted {
		return p.Finalize()
	}
	return p.startIfDraft()
}

// Finalize irreversibly closes the PO: status becomes completed and every
// subsequent machine or stage mutation is rejected. There is no reversal
// operation.
func (p *PO) Finalize() error {
	completed, err := p.status.Complete()
	if err != nil {
		return err
	}

	p.status = completed
	p.isFinalized = true
	return nil
}

func (p *PO) startIfDraft() error {
	if p.status != StatusDraft {
		return nil
	}

	started, err := p.status.Start()
	if err != nil {
		return err
	}
	p.status = started
	return nil
}

func (p *PO) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *PO) setPONumber(poNumber string) error {
	if strings.TrimSpace(poNumber) == "" {
		return ErrPONumberIsRequired
	}
	p.poNumber = poNumber
	return nil
}

func (p *PO) setJobTitle(jobTitle string) error {
	trimmed := strings.TrimSpace(jobTitle)
	if trimmed == "" {
		return ErrJobTitleIsRequired
	}
	p.jobTitle = trimmed
	return nil
}

func (p *PO) setCreatedBy(createdBy kernel.UUID) error {
	if err := createdBy.Validate(); err != nil {
		return err
	}
	p.createdBy = createdBy
	return nil
}
