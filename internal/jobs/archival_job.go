package jobs

import (
	"context"
	"log/slog"
	"time"

	"lastmile/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// ArchivalJob runs the nightly archival sweep. Orders that reached a terminal
// checkpoint longer than the retention window ago are moved out of the active
// working set.
type ArchivalJob struct {
	handler   commands.ArchiveOrdersCommandHandler
	retention time.Duration
	schedule  string
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewArchivalJob creates the archival job with the given cron schedule and
// retention window.
func NewArchivalJob(
	handler commands.ArchiveOrdersCommandHandler,
	schedule string,
	retention time.Duration,
	logger *slog.Logger,
) *ArchivalJob {
	return &ArchivalJob{
		handler:   handler,
		retention: retention,
		schedule:  schedule,
		cron:      cron.New(),
		logger:    logger.With("component", "archival_job"),
	}
}

// Start schedules the archival sweep.
func (j *ArchivalJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()

		cmd, err := commands.NewArchiveOrdersCommand(j.retention)
		if err != nil {
			j.logger.ErrorContext(ctx, "archival sweep misconfigured", "error", err)
			return
		}

		archived, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			j.logger.ErrorContext(ctx, "archival sweep failed", "error", err)
			return
		}

		j.logger.InfoContext(ctx, "archival sweep finished", "archived", archived)
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("archival job started", "schedule", j.schedule, "retention", j.retention.String())
	return nil
}

// Stop stops the archival job.
func (j *ArchivalJob) Stop() {
	j.cron.Stop()
	j.logger.Info("archival job stopped")
}
