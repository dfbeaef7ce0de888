package app

import (
	"cafe_directory/internal/config" // Application configuration
	"cafe_directory/internal/db"     // Database connection and migration
	"context"                        // Context for Redis ping
	"errors"                         // Joining close errors
	"fmt"                            // Error wrapping

	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/gorm"                 // GORM ORM library
)

// App carries the shared resources every handler needs for a request.
// It is built once at startup and closed on shutdown.
type App struct {
	Config *config.Config // Loaded configuration
	DB     *gorm.DB       // Relational store
	Redis  *redis.Client  // Optional read cache, nil when disabled
}

// New opens the database and the optional Redis cache described by cfg
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	gdb, err := db.Open(cfg)
	if err != nil {
		return nil, err
	}
	a := &App{Config: cfg, DB: gdb}
	// Create tables on first start
	if cfg.AutoMigrate {
		if err := db.Migrate(gdb); err != nil {
			_ = a.Close()
			return nil, err
		}
	}
	// Setup Redis client when configured
	if cfg.RedisAddr != "" {
		a.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		// Test Redis connection
		if err := a.Redis.Ping(ctx).Err(); err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		logrus.WithField("addr", cfg.RedisAddr).Info("Redis cache enabled")
	}
	return a, nil
}

// Close releases the database and cache connections
func (a *App) Close() error {
	var errs []error
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	return errors.Join(errs...)
}
