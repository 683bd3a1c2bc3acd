package main

import (
	"context"

	"github.com/codespark/backend/internal/app"
	"github.com/codespark/backend/internal/cache"
	"github.com/codespark/backend/internal/config"
	"github.com/codespark/backend/internal/db"
	"github.com/codespark/backend/internal/handlers"
	"github.com/codespark/backend/internal/logger"
	"github.com/codespark/backend/internal/pictures"
	"github.com/codespark/backend/internal/repository"
	"github.com/codespark/backend/internal/server"
	"github.com/codespark/backend/internal/service/oauth"
	"github.com/codespark/backend/internal/service/relationship"
	"github.com/codespark/backend/internal/service/session"
)

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	ctx := context.Background()

	// Init Mongo
	client, err := db.New(ctx, cfg)
	if err != nil {
		log.Error("failed to init mongo", "err", err)
		return
	}
	defer func() { _ = client.Close(context.Background()) }()

	if err := client.EnsureIndexes(ctx); err != nil {
		log.Error("failed to ensure indexes", "err", err)
		return
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(ctx); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return
	}

	appCtx := app.New(client, redisCache, log)

	if cfg.App.ENV == "development" {
		if err := db.SeedTestData(ctx, client); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	// Repositories and services
	userRepo := repository.NewUserRepository(client)
	sessionRepo := repository.NewSessionRepository(client)

	engine := relationship.NewFromApp(appCtx)
	sessions := session.New(sessionRepo, userRepo, log)
	workflow := oauth.NewWorkflow(oauth.NewClient(cfg), userRepo, sessions, log)

	pics, err := pictures.NewService(cfg.Pictures.Dir)
	if err != nil {
		log.Error("failed to init picture storage", "err", err)
		return
	}

	router := server.NewRouter(
		sessions,
		handlers.NewAuthHandler(workflow, log),
		handlers.NewProfileHandler(engine, userRepo, pics, log),
		handlers.NewRelationshipHandler(engine, log),
	)

	addr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Info("starting http server", "addr", addr)

	if err := server.Start(cfg, router); err != nil {
		log.Error("http server exited", "err", err)
	}
}
