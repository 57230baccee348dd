package queries

import (
	"context"

	"potrack/internal/core/domain/model/po"
	"potrack/internal/core/ports"
)

// GetPOQueryHandler loads one PO aggregate through the repository so the
// result carries full domain behavior (available machine numbers,
// next-incomplete-stage resolution) rather than a flattened row.
type GetPOQueryHandler struct {
	repo ports.PORepository
}

// NewGetPOQueryHandler creates a handler for single-PO retrieval.
func NewGetPOQueryHandler(repo ports.PORepository) GetPOQueryHandler {
	return GetPOQueryHandler{repo: repo}
}

// Handle executes the query. Returns an ObjectNotFoundError when no PO with
// the given id exists.
func (h GetPOQueryHandler) Handle(ctx context.Context, query GetPOQuery) (*po.PO, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	return h.repo.Get(ctx, query.POID())
}
