package commands

import (
	"context"
	"log/slog"
	"time"

	"potrack/internal/core/domain/model/po"
	"potrack/internal/core/ports"
)

// POCreatedPayload is the full snapshot published with a po_created event.
type POCreatedPayload struct {
	POID         string    `json:"poId"`
	PONumber     string    `json:"poNumber"`
	JobTitle     string    `json:"jobTitle"`
	Status       string    `json:"status"`
	CurrentStage string    `json:"currentStage"`
	CreatedBy    string    `json:"createdBy"`
	CreatedAt    time.Time `json:"createdAt"`
}

// POUpdatedPayload identifies the PO changed by a mutation.
type POUpdatedPayload struct {
	POID string `json:"poId"`
}

func newPOCreatedPayload(aggregate *po.PO) POCreatedPayload {
	return POCreatedPayload{
		POID:         aggregate.ID().String(),
		PONumber:     aggregate.PONumber(),
		JobTitle:     aggregate.JobTitle(),
		Status:       aggregate.Status().String(),
		CurrentStage: aggregate.CurrentStage().String(),
		CreatedBy:    aggregate.CreatedBy().String(),
		CreatedAt:    aggregate.CreatedAt(),
	}
}

// publishEvent emits a change notification after a successful mutation.
// Delivery is best-effort: failures are logged and never surfaced to the
// caller, so a broken bus cannot fail or roll back the mutation itself.
func publishEvent(ctx context.Context, publisher ports.EventPublisher, logger *slog.Logger, event string, payload any) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event, payload); err != nil && logger != nil {
		logger.WarnContext(ctx, "change notification failed", "event", event, "error", err)
	}
}
