package commands

import (
	"errors"

	"potrack/internal/core/domain/model/kernel"
	"potrack/internal/core/domain/model/po"
	"potrack/internal/pkg/guard"
)

var ErrCompleteMachineStageCommandIsNotConstructed = errors.New(
	"CompleteMachineStageCommand must be created via NewCompleteMachineStageCommand constructor",
)

// CompleteMachineStageCommand represents a request to confirm a stage as
// complete on one machine without replacing its stored record.
type CompleteMachineStageCommand struct { //nolint:recvcheck //using for validation
	poID      kernel.UUID
	machineID kernel.UUID
	stageKey  po.StageKey

	guard guard.ConstructorGuard
}

// NewCompleteMachineStageCommand creates a command to confirm stage completion.
func NewCompleteMachineStageCommand(
	poID kernel.UUID,
	machineID kernel.UUID,
	stageKey po.StageKey,
) (CompleteMachineStageCommand, error) {
	cmd := CompleteMachineStageCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setPOID(poID),
		cmd.setMachineID(machineID),
		cmd.setStageKey(stageKey),
	); err != nil {
		return CompleteMachineStageCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CompleteMachineStageCommand) Validate() error {
	return c.guard.Validate(ErrCompleteMachineStageCommandIsNotConstructed)
}

// POID returns the owning PO's identifier.
func (c CompleteMachineStageCommand) POID() kernel.UUID {
	return c.poID
}

// MachineID returns the target machine's identifier.
func (c CompleteMachineStageCommand) MachineID() kernel.UUID {
	return c.machineID
}

// StageKey returns the stage to confirm.
func (c CompleteMachineStageCommand) StageKey() po.StageKey {
	return c.stageKey
}

func (c *CompleteMachineStageCommand) setPOID(poID kernel.UUID) error {
	if err := poID.Validate(); err != nil {
		return err
	}

	c.poID = poID
	return nil
}

func (c *CompleteMachineStageCommand) setMachineID(machineID kernel.UUID) error {
	if err := machineID.Validate(); err != nil {
		return err
	}

	c.machineID = machineID
	return nil
}

func (c *CompleteMachineStageCommand) setStageKey(stageKey po.StageKey) error {
	if err := stageKey.Validate(); err != nil {
		return err
	}

	c.stageKey = stageKey
	return nil
}
