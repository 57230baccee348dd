package queries

import (
	"context"

	"potrack/internal/core/ports"
)

// AvailableMachinesQueryResponse lists the machine numbers not yet used on a
// PO. CanAddMore is false once the PO holds six machines.
type AvailableMachinesQueryResponse struct {
	AvailableNumbers []int
	UsedCount        int
	CanAddMore       bool
}

// AvailableMachinesQueryHandler resolves free machine numbers through the
// aggregate so the same admission rules apply here as on the write path.
type AvailableMachinesQueryHandler struct {
	repo ports.PORepository
}

// NewAvailableMachinesQueryHandler creates a handler for machine availability queries.
func NewAvailableMachinesQueryHandler(repo ports.PORepository) AvailableMachinesQueryHandler {
	return AvailableMachinesQueryHandler{repo: repo}
}

// Handle executes the query. Returns an ObjectNotFoundError when no PO with
// the given id exists.
func (h AvailableMachinesQueryHandler) Handle(
	ctx context.Context, query AvailableMachinesQuery,
) (AvailableMachinesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return AvailableMachinesQueryResponse{}, err
	}

	aggregate, err := h.repo.Get(ctx, query.POID())
	if err != nil {
		return AvailableMachinesQueryResponse{}, err
	}

	return AvailableMachinesQueryResponse{
		AvailableNumbers: aggregate.AvailableMachineNumbers(),
		UsedCount:        len(aggregate.Machines()),
		CanAddMore:       aggregate.CanAddMoreMachines(),
	}, nil
}
