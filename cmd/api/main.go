// ExpenSpend API server.
//
// Components are constructed here in dependency order — token service,
// credential store, auth orchestrator, federated bridge — and injected
// explicitly. There is no global registry.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/expenspend/expenspend-api/internal/api"
	"github.com/expenspend/expenspend-api/internal/core/service"
	"github.com/expenspend/expenspend-api/internal/infrastructure/config"
	mongodb "github.com/expenspend/expenspend-api/internal/infrastructure/db/mongo"
	redisdb "github.com/expenspend/expenspend-api/internal/infrastructure/db/redis"
	"github.com/expenspend/expenspend-api/internal/infrastructure/email"
	"github.com/expenspend/expenspend-api/internal/infrastructure/queue"
	"github.com/expenspend/expenspend-api/pkg/logger"
)

// @title        ExpenSpend API
// @version      1.0
// @description  Shared-expense tracking backend: accounts, authentication and friendships.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// Config problems are fatal before logging is even up.
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		_ = rdb.Close()
	}()

	// --- Repositories & stores ---
	userRepo := mongodb.NewUserRepository(db)
	friendshipRepo := mongodb.NewFriendshipRepository(db)
	securityTokens := redisdb.NewSecurityTokenStore(rdb)
	denylist := redisdb.NewTokenDenylist(rdb)

	// --- Email pipeline ---
	sender := email.NewSMTPSender(email.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
	outbox := queue.NewDispatcher(0, sender, log)
	outbox.Start(ctx)

	// --- Core services, in dependency order ---
	tokenService := service.NewTokenService([]byte(cfg.JWT.Secret), cfg.JWT.Issuer, cfg.JWT.Audience)
	credentialStore := service.NewCredentialStore(userRepo, securityTokens, log)
	authService := service.NewAuthService(credentialStore, tokenService, sender, outbox, denylist, cfg.PublicBaseURL, log)
	auth0Service := service.NewAuth0Service(
		credentialStore,
		authService,
		tokenService,
		&http.Client{Timeout: 10 * time.Second},
		cfg.Auth0.Domain,
		log,
	)
	friendshipService := service.NewFriendshipService(friendshipRepo, log)

	e := api.NewRouter(api.Dependencies{
		Auth:        authService,
		Auth0:       auth0Service,
		Tokens:      tokenService,
		Friendships: friendshipService,
		Email:       sender,
		Revocations: denylist,
		Mongo:       db,
		Redis:       rdb,
		Log:         log,
	})

	srv := api.NewServer(":"+cfg.Port, e)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
}
