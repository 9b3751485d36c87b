// Package jobs provides scheduled background tasks for the marketplace.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic maintenance the request path must not carry.
//
// # Available Jobs
//
// 1. AuditRetentionJob - Runs nightly to delete audit entries older than the
// configured retention horizon
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required dependencies
//	jobManager := jobs.NewJobManager(recorder, 90*24*time.Hour, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - The retention job logs sweep failures and retries on the next schedule
// - Failed job starts are reported to the caller so startup can abort
package jobs
