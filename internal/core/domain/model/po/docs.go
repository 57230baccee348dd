// Package po contains the purchase-order aggregate and its building blocks:
// the PO aggregate root, the Machine entity (one size variant per slot 1-6),
// the six typed stage records, and the two independent state machines the
// system tracks — the coarse PO-level stage/status pair and the per-machine
// completed-stage sets.
//
// The two trackers are intentionally not derived from one another. Machines
// advance independently as stage records are submitted; the PO-level stage is
// a secondary signal moved only by an explicit advance operation.
package po
