package commands

import (
	"context"
	"log/slog"

	"potrack/internal/core/domain/model/po"
	"potrack/internal/core/ports"
)

// FinalizePOCommandHandler irreversibly closes a PO: status becomes
// completed and every subsequent machine admission or stage write is
// rejected by the aggregate.
type FinalizePOCommandHandler struct {
	uowFactory POUoWFactory
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

// NewFinalizePOCommandHandler creates a handler for PO finalization.
func NewFinalizePOCommandHandler(
	uowFactory POUoWFactory,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) FinalizePOCommandHandler {
	return FinalizePOCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger,
	}
}

// Handle processes the finalization and returns the PO in its closed state.
func (h *FinalizePOCommandHandler) Handle(ctx context.Context, cmd FinalizePOCommand) (*po.PO, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	poRepo := uow.PORepository()
	aggregate, err := poRepo.Get(ctx, cmd.POID())
	if err != nil {
		return nil, err
	}

	if err = aggregate.Finalize(); err != nil {
		return nil, err
	}

	if err = poRepo.Update(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	publishEvent(ctx, h.publisher, h.logger, ports.EventPOUpdated, POUpdatedPayload{POID: aggregate.ID().String()})
	return aggregate, nil
}
