package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/beename"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/domain"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/linking"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/user"
)

// MockUserService mocks user.Service
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetOrCreate(ctx context.Context, identity domain.PlatformInfo) (*domain.User, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) FindByPlatformID(ctx context.Context, platform, platformID string) (*domain.User, error) {
	args := m.Called(ctx, platform, platformID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) LinkedPlatforms(ctx context.Context, platform, platformID string) ([]string, error) {
	args := m.Called(ctx, platform, platformID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockUserService) GetCacheStats() user.CacheStats {
	args := m.Called()
	return args.Get(0).(user.CacheStats)
}

// MockLinkingService mocks linking.Service
type MockLinkingService struct {
	mock.Mock
}

func (m *MockLinkingService) LinkAccount(ctx context.Context, origin, target domain.PlatformInfo, caller *domain.User) linking.LinkResult {
	args := m.Called(ctx, origin, target, caller)
	return args.Get(0).(linking.LinkResult)
}

func (m *MockLinkingService) Status(ctx context.Context, u *domain.User) (*linking.LinkStatus, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*linking.LinkStatus), args.Error(1)
}

func (m *MockLinkingService) CleanupExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockBeeNameService mocks beename.Service
type MockBeeNameService struct {
	mock.Mock
}

func (m *MockBeeNameService) Random(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockBeeNameService) Upload(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}

func (m *MockBeeNameService) Delete(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}

func (m *MockBeeNameService) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBeeNameService) Submit(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}

func (m *MockBeeNameService) Suggestions(ctx context.Context, amount int) ([]string, error) {
	args := m.Called(ctx, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockBeeNameService) Accept(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}

func (m *MockBeeNameService) Reject(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}

var (
	_ user.Service    = (*MockUserService)(nil)
	_ linking.Service = (*MockLinkingService)(nil)
	_ beename.Service = (*MockBeeNameService)(nil)
)
