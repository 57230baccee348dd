package jobs

import (
	"context"
	"log/slog"

	"potrack/internal/core/domain/model/po"
	"potrack/internal/core/ports"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// DigestPayload is the per-run summary of PO counts by lifecycle status.
type DigestPayload struct {
	Draft      int64 `json:"draft"`
	InProgress int64 `json:"inProgress"`
	Completed  int64 `json:"completed"`
	Total      int64 `json:"total"`
}

// ProgressDigestJob periodically counts POs by status, logs the digest and
// publishes it on the event bus so connected dashboards stay current without
// polling.
type ProgressDigestJob struct {
	db        *gorm.DB
	publisher ports.EventPublisher
	schedule  string
	cron      *cron.Cron
	logger    *slog.Logger
}

// EventProgressDigest is published on every digest run.
const EventProgressDigest = "progress_digest"

// NewProgressDigestJob creates the digest job with a cron schedule
// (seconds-granularity expression, e.g. "0 */15 * * * *").
func NewProgressDigestJob(
	db *gorm.DB,
	publisher ports.EventPublisher,
	schedule string,
	logger *slog.Logger,
) *ProgressDigestJob {
	return &ProgressDigestJob{
		db:        db,
		publisher: publisher,
		schedule:  schedule,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.With("component", "progress_digest_job"),
	}
}

// Start schedules the digest runs.
func (j *ProgressDigestJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()

		digest, digestErr := j.collect(ctx)
		if digestErr != nil {
			j.logger.ErrorContext(ctx, "Progress digest job failed", "error", digestErr)
			return
		}

		j.logger.InfoContext(ctx, "PO progress digest",
			slog.Int64("draft", digest.Draft),
			slog.Int64("in_progress", digest.InProgress),
			slog.Int64("completed", digest.Completed),
			slog.Int64("total", digest.Total),
		)

		if publishErr := j.publisher.Publish(ctx, EventProgressDigest, digest); publishErr != nil {
			j.logger.WarnContext(ctx, "Failed to publish progress digest", "error", publishErr)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Progress digest job started", slog.String("schedule", j.schedule))
	return nil
}

// Stop stops the digest job.
func (j *ProgressDigestJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Progress digest job stopped")
}

func (j *ProgressDigestJob) collect(ctx context.Context) (DigestPayload, error) {
	var digest DigestPayload

	rows, err := j.db.WithContext(ctx).
		Raw(`SELECT status, COUNT(*) FROM pos GROUP BY status`).
		Rows()
	if err != nil {
		return DigestPayload{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status int
			count  int64
		)
		if err = rows.Scan(&status, &count); err != nil {
			return DigestPayload{}, err
		}

		switch po.Status(status) {
		case po.StatusDraft:
			digest.Draft = count
		case po.StatusInProgress:
			digest.InProgress = count
		case po.StatusCompleted:
			digest.Completed = count
		}
		digest.Total += count
	}
	if err = rows.Err(); err != nil {
		return DigestPayload{}, err
	}

	return digest, nil
}
