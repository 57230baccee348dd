package ports

import "context"

// Counter names used by the core. PO numbers and challan numbers come from
// two independent sequences.
const (
	POSequence      = "po_sequence"
	ChallanSequence = "challan_sequence"
)

// SequenceIssuer issues globally unique, monotonically increasing values for
// a named counter. Concurrent callers never observe the same value for the
// same counter name. Gaps from failed transactions are acceptable;
// duplicates are not, so on error the caller must fail rather than
// fabricate a number.
type SequenceIssuer interface {
	// Next atomically increments the named counter and returns its new value.
	Next(ctx context.Context, name string) (int64, error)
}
