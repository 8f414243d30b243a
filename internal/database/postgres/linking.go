package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/domain"
)

// PendingLinkRepository implements repository.PendingLink
type PendingLinkRepository struct {
	db *pgxpool.Pool
}

// NewPendingLinkRepository creates a new pending link repository
func NewPendingLinkRepository(db *pgxpool.Pool) *PendingLinkRepository {
	return &PendingLinkRepository{db: db}
}

// Save inserts the pending link, replacing any earlier one for the same holder and target
func (r *PendingLinkRepository) Save(ctx context.Context, link *domain.PendingLink) error {
	if link.ID == "" {
		link.ID = uuid.NewString()
	}
	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO pending_links (
			pending_link_id, holder_user_id, origin_platform, origin_id, origin_username,
			target_platform, target_username, created_at, expires_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (holder_user_id, target_platform) DO UPDATE SET
			pending_link_id = EXCLUDED.pending_link_id,
			origin_platform = EXCLUDED.origin_platform,
			origin_id       = EXCLUDED.origin_id,
			origin_username = EXCLUDED.origin_username,
			target_username = EXCLUDED.target_username,
			created_at      = EXCLUDED.created_at,
			expires_at      = EXCLUDED.expires_at
	`
	tag, err := r.db.Exec(ctx, query,
		link.ID,
		link.HolderUserID,
		link.OriginPlatform,
		link.OriginID,
		link.OriginUsername,
		link.TargetPlatform,
		link.TargetUsername,
		link.CreatedAt,
		link.ExpiresAt,
	)
	if err != nil {
		if isPgError(err, PgErrorCodeForeignKeyViolation) {
			return fmt.Errorf("%s: %w", ErrMsgFailedToSavePendingLink, domain.ErrUserNotFound)
		}
		return fmt.Errorf("%s: %w", ErrMsgFailedToSavePendingLink, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", ErrMsgFailedToSavePendingLink, domain.ErrNotAcknowledged)
	}
	return nil
}

const pendingLinkColumns = `pending_link_id::text, holder_user_id::text, origin_platform, origin_id, origin_username,
		       target_platform, target_username, created_at, expires_at`

func scanPendingLink(row pgx.Row) (*domain.PendingLink, error) {
	var link domain.PendingLink
	err := row.Scan(
		&link.ID,
		&link.HolderUserID,
		&link.OriginPlatform,
		&link.OriginID,
		&link.OriginUsername,
		&link.TargetPlatform,
		&link.TargetUsername,
		&link.CreatedAt,
		&link.ExpiresAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPendingLinkNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetPendingLink, err)
	}
	return &link, nil
}

// Get retrieves the pending link for a holder and target platform
func (r *PendingLinkRepository) Get(ctx context.Context, holderUserID, targetPlatform string) (*domain.PendingLink, error) {
	if !validUUID(holderUserID) {
		return nil, domain.ErrPendingLinkNotFound
	}

	query := `SELECT ` + pendingLinkColumns + `
		FROM pending_links
		WHERE holder_user_id = $1 AND target_platform = $2`
	return scanPendingLink(r.db.QueryRow(ctx, query, holderUserID, targetPlatform))
}

// FindByTarget returns the newest live link addressed to targetUsername
func (r *PendingLinkRepository) FindByTarget(ctx context.Context, targetPlatform, targetUsername string, now time.Time) (*domain.PendingLink, error) {
	query := `SELECT ` + pendingLinkColumns + `
		FROM pending_links
		WHERE target_platform = $1 AND LOWER(target_username) = LOWER($2) AND expires_at > $3
		ORDER BY created_at DESC
		LIMIT 1`
	return scanPendingLink(r.db.QueryRow(ctx, query, targetPlatform, targetUsername, now))
}

// Delete removes a pending link. Deleting a missing link is not an error.
func (r *PendingLinkRepository) Delete(ctx context.Context, holderUserID, targetPlatform string) error {
	if !validUUID(holderUserID) {
		return nil
	}

	query := `DELETE FROM pending_links WHERE holder_user_id = $1 AND target_platform = $2`
	if _, err := r.db.Exec(ctx, query, holderUserID, targetPlatform); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToDeletePendingLink, err)
	}
	return nil
}

// CleanupExpired removes links that expired before now
func (r *PendingLinkRepository) CleanupExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM pending_links WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToCleanupLinks, err)
	}
	return tag.RowsAffected(), nil
}
