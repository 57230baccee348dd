package commands

import (
	"context"
	"log/slog"

	"potrack/internal/core/domain/model/po"
	"potrack/internal/core/ports"
)

// UpdateMachineStageResult carries the outcome of a stage update.
type UpdateMachineStageResult struct {
	// Machine is the machine after the write, with the updated record and
	// completed-stage markers attached.
	Machine *po.Machine

	// AllMachinesCompleted is true iff every machine in the PO now has the
	// written stage in its completed set.
	AllMachinesCompleted bool
}

// UpdateMachineStageCommandHandler handles stage-record replacement on a
// machine. Writes on a finalized PO are rejected, matching the admission
// rule; the completed-stage marker is added idempotently; a packaging &
// dispatch record without a challan number gets one issued, while an
// existing number always survives the overwrite.
type UpdateMachineStageCommandHandler struct {
	uowFactory POUoWFactory
	issuer     ports.SequenceIssuer
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

// NewUpdateMachineStageCommandHandler creates a handler for stage updates.
func NewUpdateMachineStageCommandHandler(
	uowFactory POUoWFactory,
	issuer ports.SequenceIssuer,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) UpdateMachineStageCommandHandler {
	return UpdateMachineStageCommandHandler{
		uowFactory: uowFactory,
		issuer:     issuer,
		publisher:  publisher,
		logger:     logger,
	}
}

// Handle processes the stage update and returns the updated machine together
// with the all-machines-completed signal for the written stage.
func (h *UpdateMachineStageCommandHandler) Handle(
	ctx context.Context,
	cmd UpdateMachineStageCommand,
) (UpdateMachineStageResult, error) {
	if err := cmd.Validate(); err != nil {
		return UpdateMachineStageResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return UpdateMachineStageResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	poRepo := uow.PORepository()
	aggregate, err := poRepo.Get(ctx, cmd.POID())
	if err != nil {
		return UpdateMachineStageResult{}, err
	}

	machine, err := aggregate.RecordMachineStage(cmd.MachineID(), cmd.Record())
	if err != nil {
		return UpdateMachineStageResult{}, err
	}

	if machine.NeedsChallan() {
		challanNo, issueErr := h.issuer.Next(ctx, ports.ChallanSequence)
		if issueErr != nil {
			return UpdateMachineStageResult{}, issueErr
		}
		if err = machine.AssignChallanNo(challanNo); err != nil {
			return UpdateMachineStageResult{}, err
		}
	}

	if err = poRepo.Update(ctx, aggregate); err != nil {
		return UpdateMachineStageResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return UpdateMachineStageResult{}, err
	}

	publishEvent(ctx, h.publisher, h.logger, ports.EventPOUpdated, POUpdatedPayload{POID: aggregate.ID().String()})

	return UpdateMachineStageResult{
		Machine:              machine,
		AllMachinesCompleted: aggregate.AllMachinesCompleted(cmd.Record().StageKey()),
	}, nil
}
