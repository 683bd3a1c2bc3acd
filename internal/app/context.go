package app

import (
	"log/slog"

	"github.com/codespark/backend/internal/cache"
	"github.com/codespark/backend/internal/db"
)

// AppContext holds shared dependencies (Mongo, Redis, Logger, etc.)
type AppContext struct {
	DB         *db.Client
	RedisCache *cache.RedisCache
	Logger     *slog.Logger
}

// New creates a new AppContext
func New(client *db.Client, rdb *cache.RedisCache, logger *slog.Logger) *AppContext {
	return &AppContext{
		DB:         client,
		RedisCache: rdb,
		Logger:     logger,
	}
}
