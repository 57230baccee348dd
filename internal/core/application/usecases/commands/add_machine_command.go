package commands

import (
	"errors"

	"potrack/internal/core/domain/model/kernel"
	"potrack/internal/core/domain/model/po"
	"potrack/internal/pkg/guard"
)

var (
	ErrAddMachineCommandIsNotConstructed = errors.New(
		"AddMachineCommand must be created via NewAddMachineCommand constructor",
	)
	ErrStageRecordIsRequired = errors.New("stage record is required")

	// ErrInvalidEntryStage is returned when a machine is created with a stage
	// other than requirement or packaging & dispatch. Confirmed product
	// decision: those two are the only machine entry points.
	ErrInvalidEntryStage = errors.New("machine can only be created from the requirement or packaging & dispatch stage")
)

// AddMachineCommand represents a request to admit a new machine (size
// variant) into a PO, seeded with its first stage record.
type AddMachineCommand struct { //nolint:recvcheck //using for validation
	poID      kernel.UUID
	machineNo po.MachineNo
	record    po.StageRecord

	guard guard.ConstructorGuard
}

// NewAddMachineCommand creates a command to admit a machine into a PO.
// Validates the PO id, the machine number range, and that the seeding record
// belongs to a valid entry stage. A requirement record must additionally
// carry a positive quantity.
func NewAddMachineCommand(poID kernel.UUID, machineNo po.MachineNo, record po.StageRecord) (AddMachineCommand, error) {
	cmd := AddMachineCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setPOID(poID),
		cmd.setMachineNo(machineNo),
		cmd.setRecord(record),
	); err != nil {
		return AddMachineCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AddMachineCommand) Validate() error {
	return c.guard.Validate(ErrAddMachineCommandIsNotConstructed)
}

// POID returns the owning PO's identifier.
func (c AddMachineCommand) POID() kernel.UUID {
	return c.poID
}

// MachineNo returns the requested machine slot.
func (c AddMachineCommand) MachineNo() po.MachineNo {
	return c.machineNo
}

// Record returns the seeding stage record.
func (c AddMachineCommand) Record() po.StageRecord {
	return c.record
}

func (c *AddMachineCommand) setPOID(poID kernel.UUID) error {
	if err := poID.Validate(); err != nil {
		return err
	}

	c.poID = poID
	return nil
}

func (c *AddMachineCommand) setMachineNo(machineNo po.MachineNo) error {
	if err := machineNo.Validate(); err != nil {
		return err
	}

	c.machineNo = machineNo
	return nil
}

func (c *AddMachineCommand) setRecord(record po.StageRecord) error {
	if record == nil {
		return ErrStageRecordIsRequired
	}
	if !record.StageKey().IsEntryStage() {
		return ErrInvalidEntryStage
	}
	if req, ok := record.(*po.Requirement); ok {
		if err := req.Validate(); err != nil {
			return err
		}
	}

	c.record = record
	return nil
}
