// Package bootstrap builds the runtime object graph from a config.Config:
// the database, the engine with its guarded catalog source, the generate
// lock and the service bundle. The HTTP server and recsctl share it so both
// run generation under the same lock and settings defaults.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/tbourn/go-recs-backend/internal/config"
	"github.com/tbourn/go-recs-backend/internal/recommend"
	"github.com/tbourn/go-recs-backend/internal/repo"
	"github.com/tbourn/go-recs-backend/internal/services"
)

const redisPingTimeout = 3 * time.Second

// OpenDB opens the SQLite database, registers the tracing plugin when
// tracing is on and migrates the schema.
func OpenDB(cfg config.Config) (*gorm.DB, error) {
	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", cfg.DBPath, err)
	}
	if cfg.OTEL.Enabled {
		if err := repo.WithTracing(db); err != nil {
			return nil, fmt.Errorf("gorm tracing: %w", err)
		}
	}
	if err := repo.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Runtime is everything Build creates. Close releases what it owns; the
// database handle stays with the caller.
type Runtime struct {
	Services *services.Bundle
	Engine   *recommend.Engine
	Source   *recommend.BreakerSource
	Locker   recommend.Locker

	redis *redis.Client
}

// Close releases the Redis client, if any.
func (rt *Runtime) Close() error {
	if rt.redis == nil {
		return nil
	}
	return rt.redis.Close()
}

// Build wires the engine and services over db. With REDIS_ADDR set the
// generate lock lives in Redis and Build fails when Redis does not answer;
// otherwise the lock is in-process.
func Build(ctx context.Context, db *gorm.DB, cfg config.Config, logger zerolog.Logger) (*Runtime, error) {
	var defaults recommend.Settings
	if cfg.Engine.DefaultsFile != "" {
		s, err := recommend.LoadDefaultsFile(cfg.Engine.DefaultsFile)
		if err != nil {
			return nil, err
		}
		defaults = s
		logger.Info().Str("file", cfg.Engine.DefaultsFile).Msg("engine defaults loaded")
	}

	source := recommend.NewBreakerSource(recommend.NewGormSource(db), recommend.BreakerConfig{
		ConsecutiveFailures: cfg.Engine.BreakerFailures,
		Timeout:             cfg.Engine.BreakerTimeout,
	}, logger)
	engine := recommend.NewEngine(source, logger, recommend.WithGeneratorTimeout(cfg.Engine.GeneratorTimeout))

	rt := &Runtime{Engine: engine, Source: source}
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			return nil, errors.Join(fmt.Errorf("redis %s: %w", cfg.Redis.Addr, err), client.Close())
		}
		rt.redis = client
		rt.Locker = recommend.NewRedisLocker(client, cfg.Engine.LockTTL)
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("generate lock: redis")
	} else {
		rt.Locker = recommend.NewLocalLocker()
		logger.Info().Msg("generate lock: in-process")
	}

	rt.Services = services.NewBundle(db, logger, services.BundleOptions{
		Engine:         engine,
		Locker:         rt.Locker,
		Defaults:       defaults,
		IdempotencyTTL: cfg.IdempotencyTTL,
	})
	return rt, nil
}
