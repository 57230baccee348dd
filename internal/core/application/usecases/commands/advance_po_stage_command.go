package commands

import (
	"errors"

	"potrack/internal/core/domain/model/kernel"
	"potrack/internal/pkg/guard"
)

var ErrAdvancePOStageCommandIsNotConstructed = errors.New(
	"AdvancePOStageCommand must be created via NewAdvancePOStageCommand constructor",
)

// AdvancePOStageCommand represents a request to move the PO-level stage
// tracker one step forward. This tracker is independent of the per-machine
// progression; advancing into the terminal stage completes and finalizes
// the PO.
type AdvancePOStageCommand struct { //nolint:recvcheck //using for validation
	poID kernel.UUID

	guard guard.ConstructorGuard
}

// NewAdvancePOStageCommand creates a command to advance the PO-level stage.
func NewAdvancePOStageCommand(poID kernel.UUID) (AdvancePOStageCommand, error) {
	cmd := AdvancePOStageCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setPOID(poID); err != nil {
		return AdvancePOStageCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AdvancePOStageCommand) Validate() error {
	return c.guard.Validate(ErrAdvancePOStageCommandIsNotConstructed)
}

// POID returns the target PO's identifier.
func (c AdvancePOStageCommand) POID() kernel.UUID {
	return c.poID
}

func (c *AdvancePOStageCommand) setPOID(poID kernel.UUID) error {
	if err := poID.Validate(); err != nil {
		return err
	}

	c.poID = poID
	return nil
}
