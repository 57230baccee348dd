package ports

import (
	"context"

	"potrack/internal/core/domain/model/kernel"
	"potrack/internal/core/domain/model/po"
)

// PORepository defines the persistence contract for PO aggregates.
// One PO is persisted as a single document: the PO row plus its embedded
// machine rows are written together so the aggregate's invariants (machine
// ceiling, unique machine numbers) hold under concurrent writers.
type PORepository interface {
	// Add persists a new PO aggregate to storage.
	// The PO must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *po.PO) error

	// Update persists changes to an existing PO aggregate, including its
	// machine entries. The PO must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *po.PO) error

	// Get retrieves a PO aggregate by its unique identifier, with all
	// machine entries and stage records attached.
	Get(ctx context.Context, id kernel.UUID) (*po.PO, error)
}
