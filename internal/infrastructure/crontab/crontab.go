package crontab

import (
	"context"
	"time"

	"loom-server/services/chat-api/internal/config"
	"loom-server/services/chat-api/internal/domain"
	"loom-server/services/chat-api/internal/domain/project"
	"loom-server/services/chat-api/internal/domain/thread"
	"loom-server/services/chat-api/internal/infrastructure/logger"
	"loom-server/services/chat-api/internal/infrastructure/metrics"
	"loom-server/services/chat-api/internal/utils/platformerrors"

	"github.com/mileusna/crontab"
)

const (
	// retentionSchedule runs the sweep once a day at 03:15.
	retentionSchedule = "15 3 * * *"
	CronJobTimeout    = 10 * time.Minute
)

// Crontab owns the in-process scheduled jobs: the guest retention sweep and a
// periodic environment reload.
type Crontab struct {
	ctab        *crontab.Crontab
	cfg         *config.Config
	threadRepo  thread.Repository
	projectRepo project.Repository
}

func NewCrontab(
	cfg *config.Config,
	threadRepo thread.Repository,
	projectRepo project.Repository,
) *Crontab {
	return &Crontab{
		ctab:        crontab.New(),
		cfg:         cfg,
		threadRepo:  threadRepo,
		projectRepo: projectRepo,
	}
}

func (c *Crontab) Run(ctx context.Context) error {
	log := logger.GetLogger()

	if c.cfg.GuestRetentionEnabled {
		if err := c.ctab.AddJob(retentionSchedule, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), CronJobTimeout)
			defer cancel()
			c.sweepIdleGuestData(jobCtx)
		}); err != nil {
			return platformerrors.AsError(ctx, platformerrors.LayerInfrastructure, err, "failed to add guest retention job")
		}
		log.Info().Dur("idle_window", c.cfg.GuestRetentionIdle).Msg("guest retention sweep scheduled")
	}

	// Schedule environment reload job
	if err := c.ctab.AddJob("* * * * *", func() {
		config.Load()
	}); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerInfrastructure, err, "failed to add env reload job")
	}

	<-ctx.Done()
	c.ctab.Shutdown()
	return nil
}

// sweepIdleGuestData removes guest-owned threads and projects that have been
// idle past the configured window. Authenticated users are never touched; the
// owner-prefix filter only matches cookie-minted guest keys.
func (c *Crontab) sweepIdleGuestData(ctx context.Context) {
	log := logger.GetLogger()
	cutoff := time.Now().UTC().Add(-c.cfg.GuestRetentionIdle)

	threadsDeleted, err := c.threadRepo.DeleteIdleByOwnerPrefix(ctx, domain.GuestIDPrefix, cutoff)
	if err != nil {
		log.Error().Err(err).Msg("guest thread retention sweep failed")
	} else {
		metrics.RecordRetentionDeletes("thread", threadsDeleted)
	}

	projectsDeleted, err := c.projectRepo.DeleteIdleByOwnerPrefix(ctx, domain.GuestIDPrefix, cutoff)
	if err != nil {
		log.Error().Err(err).Msg("guest project retention sweep failed")
	} else {
		metrics.RecordRetentionDeletes("project", projectsDeleted)
	}

	if threadsDeleted > 0 || projectsDeleted > 0 {
		log.Info().
			Int64("threads", threadsDeleted).
			Int64("projects", projectsDeleted).
			Time("cutoff", cutoff).
			Msg("guest retention sweep removed idle data")
	}
}
