package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/dtplatform/auth-service/internal/api"
	"github.com/dtplatform/auth-service/internal/api/middleware"
	"github.com/dtplatform/auth-service/internal/core/service"
	"github.com/dtplatform/auth-service/internal/infrastructure/db/gormdb"
	"github.com/dtplatform/auth-service/internal/pkg/config"
	"github.com/dtplatform/auth-service/pkg/logger"
)

// @title        Digital Twin Platform: Authentication API
// @version      1.0
// @description  Credential-issuing and role-based access-control service.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	db, err := gormdb.Connect(gormdb.Config{
		Driver:   cfg.DB.Driver,
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		Name:     cfg.DB.Name,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Path:     cfg.DB.Path,
		Debug:    cfg.DB.Debug,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}

	repo := gormdb.NewIdentityRepository(db)
	if err := repo.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("schema migration failed")
	}

	codec, err := service.NewTokenCodec([]byte(cfg.JWT.SecretKey), cfg.JWT.Algorithm)
	if err != nil {
		log.Fatal().Err(err).Msg("token codec configuration invalid")
	}
	hasher := service.NewBcryptHasher(0)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Bootstrap must complete before any request is served: it guarantees
	// the admin user exists and holds the admin role.
	boot := service.NewBootstrapper(repo, hasher, cfg.Bootstrap.AdminPassword, log)
	if err := boot.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("bootstrap failed")
	}

	e := api.NewRouter(api.Dependencies{
		DB:           db,
		AuthService:  service.NewAuthService(repo, hasher, codec, log),
		AdminService: service.NewAdminService(repo, hasher, log),
		Authorizer:   middleware.NewAuthorizer(codec, repo),
		Log:          log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Msg("server started")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
