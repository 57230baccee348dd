package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"potrack/internal/core/domain/model/kernel"
	"potrack/internal/core/domain/model/po"
	"potrack/internal/core/ports"
)

// CreatePOCommandHandler handles the business logic for PO creation.
// It issues the next PO number, persists a draft PO with no machines, and
// publishes a po_created notification carrying the full snapshot.
//
// The PO number is issued before the transaction opens. If the write then
// fails, the number is burned: the sequence tolerates gaps, never duplicates,
// and no half-constructed PO is ever visible to readers.
type CreatePOCommandHandler struct {
	uowFactory POUoWFactory
	issuer     ports.SequenceIssuer
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

// NewCreatePOCommandHandler creates a handler for PO creation operations.
func NewCreatePOCommandHandler(
	uowFactory POUoWFactory,
	issuer ports.SequenceIssuer,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) CreatePOCommandHandler {
	return CreatePOCommandHandler{
		uowFactory: uowFactory,
		issuer:     issuer,
		publisher:  publisher,
		logger:     logger,
	}
}

// Handle processes the PO creation command.
// Exactly one sequence increment and at most one notification occur per
// successful call.
func (h *CreatePOCommandHandler) Handle(ctx context.Context, cmd CreatePOCommand) (*po.PO, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	seq, err := h.issuer.Next(ctx, ports.POSequence)
	if err != nil {
		return nil, err
	}
	poNumber := fmt.Sprintf("PO-%d", seq)

	aggregate, err := po.NewPO(kernel.NewUUID(), poNumber, cmd.JobTitle(), cmd.CreatedBy(), time.Now())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.PORepository().Add(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	publishEvent(ctx, h.publisher, h.logger, ports.EventPOCreated, newPOCreatedPayload(aggregate))
	return aggregate, nil
}
