package queries

import (
	"context"
	"time"

	"potrack/internal/core/domain/model/kernel"
	"potrack/internal/core/domain/model/po"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListPOsQueryResponse is the summary read model for PO listings.
type ListPOsQueryResponse struct {
	ID                  kernel.UUID
	PONumber            string
	JobTitle            string
	Status              po.Status
	CurrentStage        po.Stage
	CurrentStageDisplay string
	MachineCount        int
	IsFinalized         bool
	CreatedAt           time.Time
}

// ListPOsQueryHandler retrieves PO summaries from the database, newest
// first, with the machine count aggregated per PO.
type ListPOsQueryHandler struct {
	db *gorm.DB
}

// NewListPOsQueryHandler creates a handler for PO listing queries.
// Requires a GORM database connection for query execution.
func NewListPOsQueryHandler(db *gorm.DB) ListPOsQueryHandler {
	return ListPOsQueryHandler{db: db}
}

// Handle executes the listing query with the filters carried by the query.
func (h ListPOsQueryHandler) Handle(ctx context.Context, query ListPOsQuery) ([]ListPOsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	sql := `
		SELECT
			p.id,
			p.po_number,
			p.job_title,
			p.status,
			p.current_stage,
			p.is_finalized,
			p.created_at,
			COUNT(m.id) AS machine_count
		FROM pos p
		LEFT JOIN po_machines m ON m.po_id = p.id
		WHERE 1=1
	`
	args := make([]any, 0, 3)

	if createdBy := query.CreatedBy(); createdBy != nil {
		sql += " AND p.created_by = ?"
		args = append(args, createdBy.Bytes())
	}
	if search := query.Search(); search != "" {
		sql += " AND p.po_number ILIKE ?"
		args = append(args, "%"+search+"%")
	}
	if stage := query.Stage(); stage != nil {
		sql += " AND p.current_stage = ?"
		args = append(args, int(*stage))
	}

	sql += `
		GROUP BY p.id, p.po_number, p.job_title, p.status, p.current_stage, p.is_finalized, p.created_at
		ORDER BY p.created_at DESC
	`

	rows, err := h.db.WithContext(ctx).Raw(sql, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]ListPOsQueryResponse, 0)
	for rows.Next() {
		var (
			id           uuid.UUID
			summary      ListPOsQueryResponse
			status       int
			currentStage int
		)

		err = rows.Scan(
			&id,
			&summary.PONumber,
			&summary.JobTitle,
			&status,
			&currentStage,
			&summary.IsFinalized,
			&summary.CreatedAt,
			&summary.MachineCount,
		)
		if err != nil {
			return nil, err
		}

		poID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		summary.ID = poID
		summary.Status = po.Status(status)
		summary.CurrentStage = po.Stage(currentStage)
		summary.CurrentStageDisplay = summary.CurrentStage.DisplayName()

		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return summaries, nil
}
