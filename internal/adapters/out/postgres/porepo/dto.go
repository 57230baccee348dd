// Package porepo provides data transfer objects and mapping functions for PO persistence.
// This package implements the repository pattern for the purchase-order aggregate, handling
// the conversion between domain entities and database representations.
package porepo

import (
	"encoding/json"
	"time"

	"potrack/internal/core/domain/model/kernel"
	"potrack/internal/core/domain/model/po"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// PODTO represents the database structure for persisting PO aggregates.
// Stage transition timestamps are stored as a jsonb object keyed by stage name.
type PODTO struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey"`
	PONumber         string         `gorm:"type:varchar(32);not null;uniqueIndex"`
	JobTitle         string         `gorm:"type:varchar(255);not null"`
	CreatedBy        uuid.UUID      `gorm:"type:uuid;not null;index"`
	CreatedAt        time.Time      `gorm:"not null"`
	CurrentStage     int            `gorm:"type:int;not null"`
	Status           int            `gorm:"type:int;not null"`
	StageCompletedAt datatypes.JSON `gorm:"type:jsonb"`
	IsFinalized      bool           `gorm:"not null;default:false"`
	Machines         []MachineDTO   `gorm:"foreignKey:POID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for PO entities.
// Overrides GORM's default naming convention to use "pos" instead of "po_dtos".
func (PODTO) TableName() string {
	return "pos"
}

// MachineDTO represents the database structure for persisting machine entries.
// Each stage record is stored as its own jsonb column; completed stage keys are
// kept in a text array. The (po_id, machine_no) pair is unique so two machines
// can never occupy the same slot on one PO.
type MachineDTO struct {
	ID                  uuid.UUID      `gorm:"type:uuid;primaryKey"`
	POID                uuid.UUID      `gorm:"type:uuid;not null;index;uniqueIndex:idx_po_machine_no"`
	MachineNo           int            `gorm:"type:smallint;not null;uniqueIndex:idx_po_machine_no"`
	Requirement         datatypes.JSON `gorm:"type:jsonb"`
	ExtrusionProduction datatypes.JSON `gorm:"type:jsonb"`
	Printing            datatypes.JSON `gorm:"type:jsonb"`
	CuttingSealing      datatypes.JSON `gorm:"type:jsonb"`
	Punch               datatypes.JSON `gorm:"type:jsonb"`
	PackagingDispatch   datatypes.JSON `gorm:"type:jsonb"`
	CompletedStages     pq.StringArray `gorm:"type:text[]"`
}

// TableName specifies the database table name for machine entities.
// Overrides GORM's default naming convention to use "po_machines" instead of "machine_dtos".
func (MachineDTO) TableName() string {
	return "po_machines"
}

// fromDomain converts a PO domain aggregate to its database representation.
// Maps all machine entries and serializes stage bookkeeping to jsonb.
func fromDomain(aggregate *po.PO) (PODTO, error) {
	poID := aggregate.ID().Bytes()

	stageTimestamps := make(map[string]time.Time, len(aggregate.StageCompletedAt()))
	for stage, at := range aggregate.StageCompletedAt() {
		stageTimestamps[stage.String()] = at
	}
	stageCompletedAt, err := json.Marshal(stageTimestamps)
	if err != nil {
		return PODTO{}, err
	}

	machines := make([]MachineDTO, 0, len(aggregate.Machines()))
	for _, machine := range aggregate.Machines() {
		machineDTO, machineErr := machineFromDomain(poID, machine)
		if machineErr != nil {
			return PODTO{}, machineErr
		}
		machines = append(machines, machineDTO)
	}

	return PODTO{
		ID:               poID,
		PONumber:         aggregate.PONumber(),
		JobTitle:         aggregate.JobTitle(),
		CreatedBy:        aggregate.CreatedBy().Bytes(),
		CreatedAt:        aggregate.CreatedAt(),
		CurrentStage:     int(aggregate.CurrentStage()),
		Status:           int(aggregate.Status()),
		StageCompletedAt: stageCompletedAt,
		IsFinalized:      aggregate.IsFinalized(),
		Machines:         machines,
	}, nil
}

// machineFromDomain converts a machine entity to its database row, marshaling
// each recorded stage to its jsonb column.
func machineFromDomain(poID uuid.UUID, machine *po.Machine) (MachineDTO, error) {
	dto := MachineDTO{
		ID:        machine.ID().Bytes(),
		POID:      poID,
		MachineNo: machine.MachineNo().Int(),
	}

	completedStages := make(pq.StringArray, 0, len(machine.CompletedStages()))
	for _, key := range machine.CompletedStages() {
		completedStages = append(completedStages, key.String())
	}
	dto.CompletedStages = completedStages

	for _, record := range machine.StageRecords() {
		payload, err := json.Marshal(record)
		if err != nil {
			return MachineDTO{}, err
		}

		switch record.StageKey() {
		case po.StageKeyRequirement:
			dto.Requirement = payload
		case po.StageKeyExtrusionProduction:
			dto.ExtrusionProduction = payload
		case po.StageKeyPrinting:
			dto.Printing = payload
		case po.StageKeyCuttingSealing:
			dto.CuttingSealing = payload
		case po.StageKeyPunch:
			dto.Punch = payload
		case po.StageKeyPackagingDispatch:
			dto.PackagingDispatch = payload
		}
	}

	return dto, nil
}

// toDomain converts a database DTO to a PO domain aggregate.
// Reconstructs the complete aggregate including all machines using RestorePO.
func toDomain(dto PODTO) (*po.PO, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	createdBy, err := kernel.UUIDFromBytes(dto.CreatedBy[:])
	if err != nil {
		return nil, err
	}

	stageCompletedAt := make(map[po.Stage]time.Time)
	if len(dto.StageCompletedAt) > 0 {
		raw := make(map[string]time.Time)
		if err = json.Unmarshal(dto.StageCompletedAt, &raw); err != nil {
			return nil, err
		}
		for name, at := range raw {
			stage, stageErr := po.StageFromString(name)
			if stageErr != nil {
				return nil, stageErr
			}
			stageCompletedAt[stage] = at
		}
	}

	machines := make([]*po.Machine, 0, len(dto.Machines))
	for _, machineDTO := range dto.Machines {
		machine, machineErr := machineToDomain(machineDTO)
		if machineErr != nil {
			return nil, machineErr
		}
		machines = append(machines, machine)
	}

	return po.RestorePO(
		id,
		dto.PONumber,
		dto.JobTitle,
		createdBy,
		dto.CreatedAt,
		po.Stage(dto.CurrentStage),
		po.Status(dto.Status),
		stageCompletedAt,
		dto.IsFinalized,
		machines,
	)
}

// machineToDomain converts a machine row to its domain entity.
// Uses RestoreMachine to reconstruct the entity with its persisted state.
func machineToDomain(dto MachineDTO) (*po.Machine, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	machineNo, err := po.NewMachineNo(dto.MachineNo)
	if err != nil {
		return nil, err
	}

	records := make([]po.StageRecord, 0, 6)

	if len(dto.Requirement) > 0 {
		record := &po.Requirement{}
		if err = json.Unmarshal(dto.Requirement, record); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if len(dto.ExtrusionProduction) > 0 {
		record := &po.ExtrusionProduction{}
		if err = json.Unmarshal(dto.ExtrusionProduction, record); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if len(dto.Printing) > 0 {
		record := &po.Printing{}
		if err = json.Unmarshal(dto.Printing, record); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if len(dto.CuttingSealing) > 0 {
		record := &po.CuttingSealing{}
		if err = json.Unmarshal(dto.CuttingSealing, record); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if len(dto.Punch) > 0 {
		record := &po.Punch{}
		if err = json.Unmarshal(dto.Punch, record); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if len(dto.PackagingDispatch) > 0 {
		record := &po.PackagingDispatch{}
		if err = json.Unmarshal(dto.PackagingDispatch, record); err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	completedStages := make([]po.StageKey, 0, len(dto.CompletedStages))
	for _, name := range dto.CompletedStages {
		key, keyErr := po.StageKeyFromString(name)
		if keyErr != nil {
			return nil, keyErr
		}
		completedStages = append(completedStages, key)
	}

	return po.RestoreMachine(id, machineNo, records, completedStages)
}
