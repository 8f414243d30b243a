package repository

import (
	"context"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/domain"
)

// User is the keyed document store holding one record per logical identity.
// There are no multi-call transactions; callers sequence writes themselves.
type User interface {
	// GetByID returns domain.ErrUserNotFound when absent
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// GetByPlatformField finds the record whose platform sub-record has field == value.
	// Returns domain.ErrUserNotFound when absent.
	GetByPlatformField(ctx context.Context, platform, field, value string) (*domain.User, error)
	// Create stores a new record with a freshly generated id
	Create(ctx context.Context, patch domain.UserPatch) (*domain.User, error)
	// Update shallow-merges patch into the record and returns the post-update record
	Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error)
	// Delete removes the record and returns what was deleted
	Delete(ctx context.Context, id string) (*domain.User, error)
}
