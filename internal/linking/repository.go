package linking

import (
	"context"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/domain"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/repository"
)

// Repository is a local interface for pending-link storage.
// Test doubles live in mocks_test.go
type Repository interface {
	repository.PendingLink
}

// UserRepository is the subset of the user store the linker writes through
type UserRepository interface {
	repository.User
}

// Verifier resolves a username on a platform. *verifier.Registry satisfies it.
type Verifier interface {
	Supports(platform string) bool
	Verify(ctx context.Context, platform, username string) (domain.Account, error)
}
