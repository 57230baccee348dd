package commands

import (
	"context"
	"log/slog"

	"potrack/internal/core/domain/model/po"
	"potrack/internal/core/ports"
)

// CompleteMachineStageCommandHandler confirms a stage as complete on one
// machine. Unlike a stage update, the stored record is left untouched; only
// the completed-stage marker is added, idempotently.
type CompleteMachineStageCommandHandler struct {
	uowFactory POUoWFactory
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

// NewCompleteMachineStageCommandHandler creates a handler for stage confirmation.
func NewCompleteMachineStageCommandHandler(
	uowFactory POUoWFactory,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) CompleteMachineStageCommandHandler {
	return CompleteMachineStageCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger,
	}
}

// Handle processes the stage confirmation and returns the machine.
func (h *CompleteMachineStageCommandHandler) Handle(
	ctx context.Context,
	cmd CompleteMachineStageCommand,
) (*po.Machine, error) {
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

	machine, err := aggregate.CompleteMachineStage(cmd.MachineID(), cmd.StageKey())
	if err != nil {
		return nil, err
	}

	if err = poRepo.Update(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	publishEvent(ctx, h.publisher, h.logger, ports.EventPOUpdated, POUpdatedPayload{POID: aggregate.ID().String()})
	return machine, nil
}
