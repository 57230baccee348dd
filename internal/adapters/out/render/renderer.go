// Package render produces the downloadable plain-text documents: the PO
// summary and the per-machine delivery challan. Layout lives in templates so
// the core stays free of formatting concerns.
package render

import (
	"bytes"
	"text/template"
	"time"

	"potrack/internal/core/domain/model/po"
)

const poTemplateText = `PURCHASE ORDER {{.PONumber}}
Job: {{.JobTitle}}
Status: {{.Status}} | Stage: {{.Stage}}{{if .IsFinalized}} | FINALIZED{{end}}
Created: {{.CreatedAt}}

Machines ({{len .Machines}}):
{{- range .Machines}}
  Machine {{.No}}: {{if .Completed}}completed{{else}}next stage {{.NextStage}}{{end}}
    Stages done: {{range $i, $s := .Done}}{{if $i}}, {{end}}{{$s}}{{end}}
    {{- if .ChallanNo}}
    Challan: {{.ChallanNo}}
    {{- end}}
{{- end}}
`

const challanTemplateText = `DELIVERY CHALLAN No. {{.ChallanNo}}
PO: {{.PONumber}}
Job: {{.JobTitle}}
Machine: {{.MachineNo}}
Date: {{.Date}}

Size: {{.Size}}
Total weight: {{.TotalWeight}} kg
Rolls: {{.NoOfRolls}}
Bags: {{.NoOfBags}}
`

type machineView struct {
	No        int
	Completed bool
	NextStage string
	Done      []string
	ChallanNo int64
}

type poView struct {
	PONumber    string
	JobTitle    string
	Status      string
	Stage       string
	IsFinalized bool
	CreatedAt   string
	Machines    []machineView
}

type challanView struct {
	ChallanNo   int64
	PONumber    string
	JobTitle    string
	MachineNo   int
	Date        string
	Size        string
	TotalWeight float64
	NoOfRolls   int
	NoOfBags    int
}

// TextRenderer implements DocumentRenderer with plain-text templates.
type TextRenderer struct {
	poTemplate      *template.Template
	challanTemplate *template.Template
}

// NewTextRenderer creates a renderer with the built-in templates parsed.
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{
		poTemplate:      template.Must(template.New("po").Parse(poTemplateText)),
		challanTemplate: template.Must(template.New("challan").Parse(challanTemplateText)),
	}
}

// RenderPO produces the downloadable summary document for a whole PO.
func (r *TextRenderer) RenderPO(aggregate *po.PO) ([]byte, error) {
	view := poView{
		PONumber:    aggregate.PONumber(),
		JobTitle:    aggregate.JobTitle(),
		Status:      aggregate.Status().String(),
		Stage:       aggregate.CurrentStage().DisplayName(),
		IsFinalized: aggregate.IsFinalized(),
		CreatedAt:   aggregate.CreatedAt().Format(time.RFC3339),
	}

	for _, machine := range aggregate.Machines() {
		mv := machineView{
			No:        machine.MachineNo().Int(),
			ChallanNo: machine.ChallanNo(),
		}
		for _, key := range machine.CompletedStages() {
			mv.Done = append(mv.Done, key.DisplayName())
		}
		if next, ok := machine.NextIncompleteStage(); ok {
			mv.NextStage = next.DisplayName()
		} else {
			mv.Completed = true
		}
		view.Machines = append(view.Machines, mv)
	}

	var buf bytes.Buffer
	if err := r.poTemplate.Execute(&buf, view); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderChallan produces the delivery challan for one machine. The machine
// must carry a packaging & dispatch record with an issued challan number.
func (r *TextRenderer) RenderChallan(aggregate *po.PO, machine *po.Machine) ([]byte, error) {
	dispatch := machine.PackagingDispatch()
	if dispatch == nil {
		return nil, po.ErrPackagingDispatchNotRecorded
	}
	if dispatch.ChallanNo == 0 {
		return nil, po.ErrPackagingDispatchNotRecorded
	}

	view := challanView{
		ChallanNo:   dispatch.ChallanNo,
		PONumber:    aggregate.PONumber(),
		JobTitle:    aggregate.JobTitle(),
		MachineNo:   machine.MachineNo().Int(),
		Size:        dispatch.Size,
		TotalWeight: dispatch.TotalWeight,
		NoOfRolls:   dispatch.NoOfRolls,
		NoOfBags:    dispatch.NoOfBags,
	}
	if dispatch.Date != nil {
		view.Date = dispatch.Date.Format("2006-01-02")
	}

	var buf bytes.Buffer
	if err := r.challanTemplate.Execute(&buf, view); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
