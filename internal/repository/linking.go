package repository

import (
	"context"
	"time"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/domain"
)

// PendingLink stores link requests awaiting confirmation
type PendingLink interface {
	// Save inserts or replaces the pending link for (HolderUserID, TargetPlatform)
	Save(ctx context.Context, link *domain.PendingLink) error
	// Get returns domain.ErrPendingLinkNotFound when absent
	Get(ctx context.Context, holderUserID, targetPlatform string) (*domain.PendingLink, error)
	// FindByTarget returns the newest link, unexpired at now, addressed to
	// targetUsername on targetPlatform (case-insensitive), or
	// domain.ErrPendingLinkNotFound
	FindByTarget(ctx context.Context, targetPlatform, targetUsername string, now time.Time) (*domain.PendingLink, error)
	Delete(ctx context.Context, holderUserID, targetPlatform string) error
	// CleanupExpired removes links that expired before now and reports how many
	CleanupExpired(ctx context.Context, now time.Time) (int64, error)
}
