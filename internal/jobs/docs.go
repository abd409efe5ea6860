// Package jobs provides the scheduled background tasks of both services.
//
// Jobs are cron-based, built on github.com/robfig/cron/v3, and never overlap:
// a tick that fires while the previous one is still running is skipped.
//
// # Available Jobs
//
//  1. OutboxPublisherJob - ships pending outbox rows to the broker on a fixed interval
//  2. ExpireInvitationsJob - cancels orders whose invitations expired before every workshop answered
//
// # Usage
//
//	publisherJob, err := jobs.NewOutboxPublisherJob(publishHandler, time.Second, 100, logger)
//	if err != nil {
//		return err
//	}
//	jobManager := jobs.NewJobManager(logger, publisherJob)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
//   - The publisher logs broker unavailability as a warning; the same rows are retried on the next tick
//   - Every other failure is logged as an error
//   - Failed job starts stop any already running jobs
package jobs
