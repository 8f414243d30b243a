package linking

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/domain"
)

// MockUserRepository implements UserRepository for testing
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByPlatformField(ctx context.Context, platform, field, value string) (*domain.User, error) {
	args := m.Called(ctx, platform, field, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, patch domain.UserPatch) (*domain.User, error) {
	args := m.Called(ctx, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockRepository implements Repository for testing
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Save(ctx context.Context, link *domain.PendingLink) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *MockRepository) Get(ctx context.Context, holderUserID, targetPlatform string) (*domain.PendingLink, error) {
	args := m.Called(ctx, holderUserID, targetPlatform)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PendingLink), args.Error(1)
}

func (m *MockRepository) FindByTarget(ctx context.Context, targetPlatform, targetUsername string, now time.Time) (*domain.PendingLink, error) {
	args := m.Called(ctx, targetPlatform, targetUsername, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PendingLink), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, holderUserID, targetPlatform string) error {
	args := m.Called(ctx, holderUserID, targetPlatform)
	return args.Error(0)
}

func (m *MockRepository) CleanupExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockVerifier implements Verifier for testing
type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Supports(platform string) bool {
	args := m.Called(platform)
	return args.Bool(0)
}

func (m *MockVerifier) Verify(ctx context.Context, platform, username string) (domain.Account, error) {
	args := m.Called(ctx, platform, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Account), args.Error(1)
}

var (
	_ UserRepository = (*MockUserRepository)(nil)
	_ Repository     = (*MockRepository)(nil)
	_ Verifier       = (*MockVerifier)(nil)
)
