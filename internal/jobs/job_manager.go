package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"lastmile/internal/core/application/usecases/commands"
)

// JobManager coordinates the scheduled jobs of the application behind a
// single start/stop interface.
type JobManager struct {
	archivalJob *ArchivalJob
}

// NewJobManager creates a job manager wiring the archival sweep.
func NewJobManager(
	archiveHandler commands.ArchiveOrdersCommandHandler,
	archivalSchedule string,
	archivalRetention time.Duration,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		archivalJob: NewArchivalJob(archiveHandler, archivalSchedule, archivalRetention, logger),
	}
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() error {
	if err := jm.archivalJob.Start(); err != nil {
		return fmt.Errorf("failed to start archival job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.archivalJob.Stop()
}
