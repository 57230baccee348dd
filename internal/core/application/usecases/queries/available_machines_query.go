package queries

import (
	"errors"

	"potrack/internal/core/domain/model/kernel"
	"potrack/internal/pkg/guard"
)

var ErrAvailableMachinesQueryIsNotConstructed = errors.New(
	"AvailableMachinesQuery must be created via NewAvailableMachinesQuery constructor",
)

// AvailableMachinesQuery reports which machine numbers are still free on a
// PO, so the caller can offer only admissible numbers when adding a machine.
type AvailableMachinesQuery struct { //nolint:recvcheck //using for validation
	poID kernel.UUID

	guard guard.ConstructorGuard
}

// NewAvailableMachinesQuery creates a query for free machine numbers on one PO.
func NewAvailableMachinesQuery(poID kernel.UUID) (AvailableMachinesQuery, error) {
	query := AvailableMachinesQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := query.setPOID(poID); err != nil {
		return AvailableMachinesQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q AvailableMachinesQuery) Validate() error {
	return q.guard.Validate(ErrAvailableMachinesQueryIsNotConstructed)
}

// POID returns the target PO's identifier.
func (q AvailableMachinesQuery) POID() kernel.UUID {
	return q.poID
}

func (q *AvailableMachinesQuery) setPOID(poID kernel.UUID) error {
	if err := poID.Validate(); err != nil {
		return err
	}

	q.poID = poID
	return nil
}
