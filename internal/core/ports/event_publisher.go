package ports

import "context"

// Event names published by the core after successful mutations.
const (
	// EventPOCreated carries the full snapshot of a newly created PO.
	EventPOCreated = "po_created"

	// EventPOUpdated carries at least the id of the changed PO.
	EventPOUpdated = "po_updated"
)

// EventPublisher is the outbound boundary to the notification fan-out.
// Publishing is fire-and-forget from the core's perspective: handlers invoke
// it after a successful commit and log failures without surfacing them to
// the caller, so a broken bus never rolls back a mutation.
type EventPublisher interface {
	Publish(ctx context.Context, event string, payload any) error
}
