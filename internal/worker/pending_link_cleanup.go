package worker

import (
	"context"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/logger"
)

// PendingLinkCleaner removes expired pending links. linking.Service satisfies it.
type PendingLinkCleaner interface {
	CleanupExpired(ctx context.Context) (int64, error)
}

// PendingLinkCleanupJob sweeps pending links whose confirmation window closed
type PendingLinkCleanupJob struct {
	cleaner PendingLinkCleaner
}

func NewPendingLinkCleanupJob(cleaner PendingLinkCleaner) *PendingLinkCleanupJob {
	return &PendingLinkCleanupJob{cleaner: cleaner}
}

func (j *PendingLinkCleanupJob) Process(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Debug(LogMsgPendingCleanupStarting)

	removed, err := j.cleaner.CleanupExpired(ctx)
	if err != nil {
		return err
	}
	log.Debug(LogMsgPendingCleanupCompleted, "removed", removed)
	return nil
}
