package commands

import (
	"context"
	"log/slog"

	"potrack/internal/core/domain/model/po"
	"potrack/internal/core/ports"
)

// AdvancePOStageCommandHandler moves the PO-level stage tracker forward.
// Advancing an already-completed PO is rejected; reaching the terminal stage
// completes and finalizes the PO as a side effect.
type AdvancePOStageCommandHandler struct {
	uowFactory POUoWFactory
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

// NewAdvancePOStageCommandHandler creates a handler for PO-level stage advancement.
func NewAdvancePOStageCommandHandler(
	uowFactory POUoWFactory,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) AdvancePOStageCommandHandler {
	return AdvancePOStageCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger,
	}
}

// Handle processes the advancement and returns the PO in its new state.
func (h *AdvancePOStageCommandHandler) Handle(ctx context.Context, cmd AdvancePOStageCommand) (*po.PO, error) {
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

	if err = aggregate.AdvanceToNextStage(); err != nil {
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
