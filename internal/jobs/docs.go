// Package jobs provides scheduled background tasks for the delivery system,
// implemented with github.com/robfig/cron/v3.
//
// The only scheduled task is the nightly archival sweep: orders that reached a
// terminal checkpoint longer than the retention window ago are archived, and
// archived orders reject status changes until restored. Courier distribution
// is deliberately not scheduler-driven; it runs on request per area.
//
// Jobs are managed through JobManager:
//
//	jobManager := jobs.NewJobManager(archiveHandler, "0 3 * * *", retention, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
package jobs
