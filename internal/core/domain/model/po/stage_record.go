package po

import (
	"fmt"
	"time"

	"potrack/internal/pkg/errs"
)

// StageRecord is the tagged union over the six per-machine stage payloads.
// Each concrete record reports its own StageKey; the Machine entity stores at
// most one record per key. Records carry JSON tags because they are persisted
// as jsonb documents inside the machine row.
type StageRecord interface {
	StageKey() StageKey
}

// Requirement captures the bag specification collected at intake.
// Quantity is the only mandatory field.
type Requirement struct {
	MachineNo     int        `json:"machineNo"`
	Size          string     `json:"size,omitempty"`
	Micron        string     `json:"micron,omitempty"`
	BagType       string     `json:"bagType,omitempty"`
	Quantity      int        `json:"quantity"`
	Print         string     `json:"print,omitempty"`
	Color         string     `json:"color,omitempty"`
	PackagingType string     `json:"packagingType,omitempty"`
	Material      string     `json:"material,omitempty"`
	Image         string     `json:"image,omitempty"`
	Date          *time.Time `json:"date,omitempty"`
}

// StageKey implements StageRecord.
func (Requirement) StageKey() StageKey { return StageKeyRequirement }

// Validate checks that the requirement carries a positive quantity.
func (r Requirement) Validate() error {
	if r.Quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"quantity",
			fmt.Errorf("%d is not greater than 0", r.Quantity),
		)
	}
	return nil
}

// ExtrusionProduction records a run on the blown-film extrusion line.
type ExtrusionProduction struct {
	ExtrusionNo  string     `json:"extrusionNo,omitempty"`
	Size         string     `json:"size,omitempty"`
	OperatorName string     `json:"operatorName,omitempty"`
	Ampere       float64    `json:"ampere,omitempty"`
	Frequency    float64    `json:"frequency,omitempty"`
	Kgs          float64    `json:"kgs,omitempty"`
	NoOfRolls    int        `json:"noOfRolls,omitempty"`
	Waste        float64    `json:"waste,omitempty"`
	QCApprovedBy string     `json:"qcApprovedBy,omitempty"`
	Remark       string     `json:"remark,omitempty"`
	Date         *time.Time `json:"date,omitempty"`
}

// StageKey implements StageRecord.
func (ExtrusionProduction) StageKey() StageKey { return StageKeyExtrusionProduction }

// Printing records a roll-printing run.
type Printing struct {
	MachineNo    int        `json:"machineNo,omitempty"`
	Size         string     `json:"size,omitempty"`
	OperatorName string     `json:"operatorName,omitempty"`
	NoOfRolls    int        `json:"noOfRolls,omitempty"`
	Waste        float64    `json:"waste,omitempty"`
	Kgs          float64    `json:"kgs,omitempty"`
	Date         *time.Time `json:"date,omitempty"`
}

// StageKey implements StageRecord.
func (Printing) StageKey() StageKey { return StageKeyPrinting }

// CuttingSealing records a cutting & sealing run, including both heater
// settings and the waste split between cutting and print waste.
type CuttingSealing struct {
	MachineNo    int        `json:"machineNo,omitempty"`
	Size         string     `json:"size,omitempty"`
	OperatorName string     `json:"operatorName,omitempty"`
	Heating1     float64    `json:"heating1,omitempty"`
	Heating2     float64    `json:"heating2,omitempty"`
	NoOfRolls    int        `json:"noOfRolls,omitempty"`
	CuttingWaste float64    `json:"cuttingWaste,omitempty"`
	PrintWaste   float64    `json:"printWaste,omitempty"`
	Kgs          float64    `json:"kgs,omitempty"`
	Date         *time.Time `json:"date,omitempty"`
}

// StageKey implements StageRecord.
func (CuttingSealing) StageKey() StageKey { return StageKeyCuttingSealing }

// Punch records a handle-punching run.
type Punch struct {
	MachineNo    int        `json:"machineNo,omitempty"`
	BagSize      string     `json:"bagSize,omitempty"`
	OperatorName string     `json:"operatorName,omitempty"`
	PunchName    string     `json:"punchName,omitempty"`
	Kgs          float64    `json:"kgs,omitempty"`
	Waste        float64    `json:"waste,omitempty"`
	Date         *time.Time `json:"date,omitempty"`
}

// StageKey implements StageRecord.
func (Punch) StageKey() StageKey { return StageKeyPunch }

// PackagingDispatch is the final stage record. ChallanNo is issued once from
// the challan sequence when the stage is first recorded and survives every
// subsequent overwrite of the record (see Machine.RecordStage).
type PackagingDispatch struct {
	Size        string     `json:"size,omitempty"`
	TotalWeight float64    `json:"totalWeight,omitempty"`
	NoOfRolls   int        `json:"noOfRolls,omitempty"`
	NoOfBags    int        `json:"noOfBags,omitempty"`
	ChallanNo   int64      `json:"challanNo,omitempty"`
	Image       string     `json:"image,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
}

// StageKey implements StageRecord.
func (PackagingDispatch) StageKey() StageKey { return StageKeyPackagingDispatch }
