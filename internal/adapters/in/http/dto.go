package http

import (
	"encoding/json"
	"time"

	"potrack/internal/core/application/usecases/queries"
	"potrack/internal/core/domain/model/po"
)

// Error is the uniform error body returned by every failing endpoint.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token   string `json:"token"`
	ActorID string `json:"actorId"`
	Role    string `json:"role"`
}

type createPORequest struct {
	JobTitle string `json:"jobTitle"`
}

type addMachineRequest struct {
	MachineNo int             `json:"machineNo"`
	Stage     string          `json:"stage"`
	Data      json.RawMessage `json:"data"`
}

type updateStageRequest struct {
	Stage string          `json:"stage"`
	Data  json.RawMessage `json:"data"`
}

type machineResponse struct {
	ID                  string                  `json:"id"`
	MachineNo           int                     `json:"machineNo"`
	Requirement         *po.Requirement         `json:"requirement,omitempty"`
	ExtrusionProduction *po.ExtrusionProduction `json:"extrusionProduction,omitempty"`
	Printing            *po.Printing            `json:"printing,omitempty"`
	CuttingSealing      *po.CuttingSealing      `json:"cuttingSealing,omitempty"`
	Punch               *po.Punch               `json:"punch,omitempty"`
	PackagingDispatch   *po.PackagingDispatch   `json:"packagingDispatch,omitempty"`
	CompletedStages     []string                `json:"completedStages"`
	IsCompleted         bool                    `json:"isCompleted"`
	NextStage           string                  `json:"nextStage,omitempty"`
	ChallanNo           int64                   `json:"challanNo,omitempty"`
}

type poResponse struct {
	ID                      string               `json:"id"`
	PONumber                string               `json:"poNumber"`
	JobTitle                string               `json:"jobTitle"`
	CreatedBy               string               `json:"createdBy"`
	CreatedAt               time.Time            `json:"createdAt"`
	Status                  string               `json:"status"`
	CurrentStage            string               `json:"currentStage"`
	CurrentStageDisplay     string               `json:"currentStageDisplay"`
	StageCompletedAt        map[string]time.Time `json:"stageCompletedAt"`
	IsFinalized             bool                 `json:"isFinalized"`
	Machines                []machineResponse    `json:"machines"`
	AvailableMachineNumbers []int                `json:"availableMachineNumbers"`
	CanAddMoreMachines      bool                 `json:"canAddMoreMachines"`
}

type poListItemResponse struct {
	ID                  string    `json:"id"`
	PONumber            string    `json:"poNumber"`
	JobTitle            string    `json:"jobTitle"`
	Status              string    `json:"status"`
	CurrentStage        string    `json:"currentStage"`
	CurrentStageDisplay string    `json:"currentStageDisplay"`
	MachineCount        int       `json:"machineCount"`
	IsFinalized         bool      `json:"isFinalized"`
	CreatedAt           time.Time `json:"createdAt"`
}

type availableMachinesResponse struct {
	AvailableNumbers []int `json:"availableNumbers"`
	UsedCount        int   `json:"usedCount"`
	CanAddMore       bool  `json:"canAddMore"`
}

type updateStageResponse struct {
	Machine              machineResponse `json:"machine"`
	AllMachinesCompleted bool            `json:"allMachinesCompleted"`
}

type uploadResponse struct {
	Reference string `json:"reference"`
}

// decodeStageRecord unmarshals the raw payload into the concrete record type
// for the given stage key.
func decodeStageRecord(key po.StageKey, raw json.RawMessage) (po.StageRecord, error) {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}

	var record po.StageRecord
	switch key {
	case po.StageKeyRequirement:
		record = &po.Requirement{}
	case po.StageKeyExtrusionProduction:
		record = &po.ExtrusionProduction{}
	case po.StageKeyPrinting:
		record = &po.Printing{}
	case po.StageKeyCuttingSealing:
		record = &po.CuttingSealing{}
	case po.StageKeyPunch:
		record = &po.Punch{}
	case po.StageKeyPackagingDispatch:
		record = &po.PackagingDispatch{}
	default:
		return nil, po.ErrStageRecordIsRequired
	}

	if err := json.Unmarshal(raw, record); err != nil {
		return nil, err
	}

	// Challan numbers come from the sequence issuer only. A value carried in
	// the request body must not survive decoding.
	if dispatch, ok := record.(*po.PackagingDispatch); ok {
		dispatch.ChallanNo = 0
	}
	return record, nil
}

func machineToResponse(machine *po.Machine) machineResponse {
	resp := machineResponse{
		ID:                  machine.ID().String(),
		MachineNo:           machine.MachineNo().Int(),
		Requirement:         machine.Requirement(),
		ExtrusionProduction: machine.ExtrusionProduction(),
		Printing:            machine.Printing(),
		CuttingSealing:      machine.CuttingSealing(),
		Punch:               machine.Punch(),
		PackagingDispatch:   machine.PackagingDispatch(),
		CompletedStages:     make([]string, 0, len(machine.CompletedStages())),
		IsCompleted:         machine.IsCompleted(),
		ChallanNo:           machine.ChallanNo(),
	}

	for _, key := range machine.CompletedStages() {
		resp.CompletedStages = append(resp.CompletedStages, key.String())
	}
	if next, ok := machine.NextIncompleteStage(); ok {
		resp.NextStage = next.String()
	}

	return resp
}

func poToResponse(aggregate *po.PO) poResponse {
	stageCompletedAt := make(map[string]time.Time, len(aggregate.StageCompletedAt()))
	for stage, at := range aggregate.StageCompletedAt() {
		stageCompletedAt[stage.String()] = at
	}

	machines := make([]machineResponse, 0, len(aggregate.Machines()))
	for _, machine := range aggregate.Machines() {
		machines = append(machines, machineToResponse(machine))
	}

	return poResponse{
		ID:                      aggregate.ID().String(),
		PONumber:                aggregate.PONumber(),
		JobTitle:                aggregate.JobTitle(),
		CreatedBy:               aggregate.CreatedBy().String(),
		CreatedAt:               aggregate.CreatedAt(),
		Status:                  aggregate.Status().String(),
		CurrentStage:            aggregate.CurrentStage().String(),
		CurrentStageDisplay:     aggregate.CurrentStage().DisplayName(),
		StageCompletedAt:        stageCompletedAt,
		IsFinalized:             aggregate.IsFinalized(),
		Machines:                machines,
		AvailableMachineNumbers: aggregate.AvailableMachineNumbers(),
		CanAddMoreMachines:      aggregate.CanAddMoreMachines(),
	}
}

func listItemToResponse(item queries.ListPOsQueryResponse) poListItemResponse {
	return poListItemResponse{
		ID:                  item.ID.String(),
		PONumber:            item.PONumber,
		JobTitle:            item.JobTitle,
		Status:              item.Status.String(),
		CurrentStage:        item.CurrentStage.String(),
		CurrentStageDisplay: item.CurrentStageDisplay,
		MachineCount:        item.MachineCount,
		IsFinalized:         item.IsFinalized,
		CreatedAt:           item.CreatedAt,
	}
}
