package po

import "potrack/internal/pkg/errs"

// Machine number bounds. A PO runs at most six size variants, one per machine
// slot, so machine numbers are drawn from the closed range [1, 6].
const (
	minMachineNo = 1
	maxMachineNo = 6

	// MaxMachinesPerPO is the hard ceiling on machines attached to one PO.
	MaxMachinesPerPO = 6
)

// MachineNo is a value object identifying one machine slot (size variant)
// within a PO. It is immutable once assigned to a machine and unique within
// the owning PO's machine collection.
//
// The zero value is invalid; construct via NewMachineNo.
type MachineNo int

// NewMachineNo creates a validated machine number.
//
// Returns an out-of-range error when no lies outside [1, 6].
func NewMachineNo(no int) (MachineNo, error) {
	if no < minMachineNo || no > maxMachineNo {
		return 0, errs.NewValueIsOutOfRangeError("machineNo", no, minMachineNo, maxMachineNo)
	}
	return MachineNo(no), nil
}

// Validate checks the machine number lies within [1, 6].
func (n MachineNo) Validate() error {
	if n < minMachineNo || n > maxMachineNo {
		return errs.NewValueIsOutOfRangeError("machineNo", int(n), minMachineNo, maxMachineNo)
	}
	return nil
}

// Int returns the plain integer value.
func (n MachineNo) Int() int {
	return int(n)
}

// IsEqual compares two machine numbers for equality.
func (n MachineNo) IsEqual(other MachineNo) bool {
	return n == other
}
