package commands

import (
	"errors"

	"potrack/internal/core/domain/model/kernel"
	"potrack/internal/core/domain/model/po"
	"potrack/internal/pkg/guard"
)

var ErrUpdateMachineStageCommandIsNotConstructed = errors.New(
	"UpdateMachineStageCommand must be created via NewUpdateMachineStageCommand constructor",
)

// UpdateMachineStageCommand represents a request to replace one stage record
// on one machine of a PO. The replacement is a full overwrite, not a merge:
// fields absent from the incoming record are lost, with the single exception
// of an already-issued challan number, which always survives.
type UpdateMachineStageCommand struct { //nolint:recvcheck //using for validation
	poID      kernel.UUID
	machineID kernel.UUID
	record    po.StageRecord

	guard guard.ConstructorGuard
}

// NewUpdateMachineStageCommand creates a command to replace a stage record.
// Any of the six stages may be written; the record itself carries its stage key.
func NewUpdateMachineStageCommand(
	poID kernel.UUID,
	machineID kernel.UUID,
	record po.StageRecord,
) (UpdateMachineStageCommand, error) {
	cmd := UpdateMachineStageCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setPOID(poID),
		cmd.setMachineID(machineID),
		cmd.setRecord(record),
	); err != nil {
		return UpdateMachineStageCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateMachineStageCommand) Validate() error {
	return c.guard.Validate(ErrUpdateMachineStageCommandIsNotConstructed)
}

// POID returns the owning PO's identifier.
func (c UpdateMachineStageCommand) POID() kernel.UUID {
	return c.poID
}

// MachineID returns the target machine's identifier.
func (c UpdateMachineStageCommand) MachineID() kernel.UUID {
	return c.machineID
}

// Record returns the replacement stage record.
func (c UpdateMachineStageCommand) Record() po.StageRecord {
	return c.record
}

func (c *UpdateMachineStageCommand) setPOID(poID kernel.UUID) error {
	if err := poID.Validate(); err != nil {
		return err
	}

	c.poID = poID
	return nil
}

func (c *UpdateMachineStageCommand) setMachineID(machineID kernel.UUID) error {
	if err := machineID.Validate(); err != nil {
		return err
	}

	c.machineID = machineID
	return nil
}

func (c *UpdateMachineStageCommand) setRecord(record po.StageRecord) error {
	if record == nil {
		return ErrStageRecordIsRequired
	}

	// A requirement overwrite must not erase the mandatory quantity.
	if requirement, ok := record.(*po.Requirement); ok {
		if err := requirement.Validate(); err != nil {
			return err
		}
	}

	c.record = record
	return nil
}
