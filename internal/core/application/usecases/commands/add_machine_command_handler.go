package commands

import (
	"context"
	"log/slog"

	"potrack/internal/core/domain/model/kernel"
	"potrack/internal/core/domain/model/po"
	"potrack/internal/core/ports"
)

// AddMachineCommandHandler handles machine admission into a PO.
//
// Preconditions are enforced by the aggregate in order: the PO must not be
// finalized, must hold fewer than six machines, and the machine number must
// be unused. When the seeding stage is packaging & dispatch, a challan number
// is issued from the challan sequence and attached before the write.
type AddMachineCommandHandler struct {
	uowFactory POUoWFactory
	issuer     ports.SequenceIssuer
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

// NewAddMachineCommandHandler creates a handler for machine admission.
func NewAddMachineCommandHandler(
	uowFactory POUoWFactory,
	issuer ports.SequenceIssuer,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) AddMachineCommandHandler {
	return AddMachineCommandHandler{
		uowFactory: uowFactory,
		issuer:     issuer,
		publisher:  publisher,
		logger:     logger,
	}
}

// Handle processes the machine admission command and returns the stored
// machine, including its assigned internal id.
func (h *AddMachineCommandHandler) Handle(ctx context.Context, cmd AddMachineCommand) (*po.Machine, error) {
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

	machine, err := po.NewMachine(kernel.NewUUID(), cmd.MachineNo())
	if err != nil {
		return nil, err
	}
	if err = machine.RecordStage(cmd.Record()); err != nil {
		return nil, err
	}

	if err = aggregate.AddMachine(machine); err != nil {
		return nil, err
	}

	// The challan counter lives outside the transaction: a failed write
	// burns the number, it is never reused.
	if machine.NeedsChallan() {
		challanNo, issueErr := h.issuer.Next(ctx, ports.ChallanSequence)
		if issueErr != nil {
			return nil, issueErr
		}
		if err = machine.AssignChallanNo(challanNo); err != nil {
			return nil, err
		}
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
