// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases.
package queries

import (
	"errors"

	"potrack/internal/core/domain/model/kernel"
	"potrack/internal/pkg/guard"
)

var ErrGetPOQueryIsNotConstructed = errors.New(
	"GetPOQuery must be created via NewGetPOQuery constructor",
)

// GetPOQuery retrieves one PO with all machine entries and stage records.
// The full aggregate is returned so callers can render details, resolve
// next-incomplete-stage navigation, or feed the document renderer from one
// consistent snapshot.
type GetPOQuery struct { //nolint:recvcheck //using for validation
	poID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetPOQuery creates a query for one PO by id.
func NewGetPOQuery(poID kernel.UUID) (GetPOQuery, error) {
	query := GetPOQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := query.setPOID(poID); err != nil {
		return GetPOQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q GetPOQuery) Validate() error {
	return q.guard.Validate(ErrGetPOQueryIsNotConstructed)
}

// POID returns the requested PO's identifier.
func (q GetPOQuery) POID() kernel.UUID {
	return q.poID
}

func (q *GetPOQuery) setPOID(poID kernel.UUID) error {
	if err := poID.Validate(); err != nil {
		return err
	}

	q.poID = poID
	return nil
}
