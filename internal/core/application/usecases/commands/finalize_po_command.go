package commands

import (
	"errors"

	"potrack/internal/core/domain/model/kernel"
	"potrack/internal/pkg/guard"
)

var ErrFinalizePOCommandIsNotConstructed = errors.New(
	"FinalizePOCommand must be created via NewFinalizePOCommand constructor",
)

// FinalizePOCommand represents a request to irreversibly close a PO.
// After finalization no machine admission or stage mutation is permitted,
// and no reversal operation exists.
type FinalizePOCommand struct { //nolint:recvcheck //using for validation
	poID kernel.UUID

	guard guard.ConstructorGuard
}

// NewFinalizePOCommand creates a command to finalize a PO.
func NewFinalizePOCommand(poID kernel.UUID) (FinalizePOCommand, error) {
	cmd := FinalizePOCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setPOID(poID); err != nil {
		return FinalizePOCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c FinalizePOCommand) Validate() error {
	return c.guard.Validate(ErrFinalizePOCommandIsNotConstructed)
}

// POID returns the target PO's identifier.
func (c FinalizePOCommand) POID() kernel.UUID {
	return c.poID
}

func (c *FinalizePOCommand) setPOID(poID kernel.UUID) error {
	if err := poID.Validate(); err != nil {
		return err
	}

	c.poID = poID
	return nil
}
