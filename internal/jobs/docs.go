// Package jobs provides scheduled background tasks for the PO tracking system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. ProgressDigestJob - Periodically counts POs by lifecycle status, logs the
// digest and publishes it on the event bus for connected dashboards.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(progressDigestJob)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The digest job's schedule is configurable (seconds-granularity cron
// expression); the default runs every fifteen minutes.
//
// # Error Handling
//
// Digest collection errors are logged and the run is skipped; publish
// failures are logged as warnings and never interrupt scheduling.
package jobs
