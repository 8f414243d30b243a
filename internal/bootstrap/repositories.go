package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/config"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/database"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/database/memory"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/database/mongodb"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/database/postgres"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/database/redis"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/handler"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/repository"
)

// Repositories holds the repository implementations chosen by configuration
type Repositories struct {
	User        repository.User
	PendingLink repository.PendingLink
	BeeName     repository.BeeName

	// Dependencies are checked by /readyz
	Dependencies map[string]handler.Pinger

	closers []func(ctx context.Context) error
}

// Close releases every store connection, returning the first error
func (r *Repositories) Close(ctx context.Context) error {
	var first error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](ctx); err != nil {
			slog.Error(LogMsgStoreCloseFailed, "error", err)
			if first == nil {
				first = err
			}
		}
	}
	return first
}

// InitializeRepositories connects the user store selected by STORE_DRIVER and,
// with PENDING_STORE=redis, moves pending links to redis.
func InitializeRepositories(ctx context.Context, cfg *config.Config) (*Repositories, error) {
	repos := &Repositories{Dependencies: make(map[string]handler.Pinger)}

	connectCtx, cancel := context.WithTimeout(ctx, StoreConnectTimeout)
	defer cancel()

	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		pool, err := database.NewPool(cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxIdle, cfg.DBMaxLife)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedConnectDB, err)
		}
		repos.closers = append(repos.closers, func(context.Context) error { pool.Close(); return nil })

		if cfg.AutoMigrate {
			if err := database.Migrate(connectCtx, pool); err != nil {
				_ = repos.Close(ctx)
				return nil, fmt.Errorf("%s: %w", ErrMsgFailedMigrate, err)
			}
		} else {
			slog.Info(LogMsgMigrationsSkipped)
		}

		repos.User = postgres.NewUserRepository(pool)
		repos.PendingLink = postgres.NewPendingLinkRepository(pool)
		repos.BeeName = postgres.NewBeeNameRepository(pool)
		repos.Dependencies[DependencyPostgres] = pool

	case config.StoreDriverMongo:
		store, err := mongodb.Open(connectCtx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedConnectMongo, err)
		}
		repos.closers = append(repos.closers, store.Close)

		if err := store.EnsureIndexes(connectCtx); err != nil {
			_ = repos.Close(ctx)
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedMongoIndexes, err)
		}

		repos.User = mongodb.NewUserRepository(store)
		repos.PendingLink = mongodb.NewPendingLinkRepository(store)
		repos.BeeName = mongodb.NewBeeNameRepository(store)
		repos.Dependencies[DependencyMongo] = store

	case config.StoreDriverMemory:
		slog.Warn(LogMsgMemoryStoreWarning)
		store := memory.NewStore()
		repos.User = store.Users()
		repos.PendingLink = store.PendingLinks()
		repos.BeeName = store.BeeNames()

	default:
		return nil, fmt.Errorf("%s: %q", ErrMsgUnknownStoreDriver, cfg.StoreDriver)
	}

	if cfg.UsesRedisPending() {
		client, err := redis.Open(connectCtx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			_ = repos.Close(ctx)
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedConnectRedis, err)
		}
		repos.closers = append(repos.closers, func(context.Context) error { return client.Close() })

		repos.PendingLink = redis.NewPendingLinkRepository(client)
		repos.Dependencies[DependencyRedis] = handler.PingFunc(func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		})
	}

	slog.Info(LogMsgStoreSelected, "store_driver", cfg.StoreDriver, "pending_store", cfg.PendingStore)
	return repos, nil
}
