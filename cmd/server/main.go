package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"

	_ "github.com/userhub/accounts-api/docs" // swagger docs

	"github.com/userhub/accounts-api/internal/api"
	"github.com/userhub/accounts-api/internal/api/handler"
	"github.com/userhub/accounts-api/internal/core/ports"
	"github.com/userhub/accounts-api/internal/core/service"
	"github.com/userhub/accounts-api/internal/infrastructure/auth"
	"github.com/userhub/accounts-api/internal/infrastructure/config"
	"github.com/userhub/accounts-api/internal/infrastructure/db/mongo"
	"github.com/userhub/accounts-api/internal/infrastructure/db/redis"
	"github.com/userhub/accounts-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title Accounts API
// @version 1.0
// @description User registration, login and self-service profile management.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token.
func main() {
	// A missing .env is fine: the environment may already be populated.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		l := logger.Init(logger.Options{Service: "accounts-api"})
		l.Fatal().Err(err).Msg("load configuration")
	}

	logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "accounts-api",
	})

	if err := run(ctx, cfg); err != nil {
		l := logger.Get()
		l.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	log := logger.Get()

	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "accounts-api",
	})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := mongo.Disconnect(dctx, mongoClient); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	users := mongo.NewUserRepository(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		return err
	}

	// The profile cache is optional: without Redis the service reads through
	// to the store on every lookup.
	var (
		cache       ports.ProfileCache
		redisClient *goredis.Client
	)
	if cfg.Redis.Addr != "" {
		redisClient, err = redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, profile cache disabled")
			redisClient = nil
		} else {
			cache = redis.NewProfileCache(redisClient, cfg.Redis.CacheTTL)
			defer func() {
				if err := redisClient.Close(); err != nil {
					log.Warn().Err(err).Msg("redis close")
				}
			}()
			log.Info().Str("addr", cfg.Redis.Addr).Msg("profile cache enabled")
		}
	}

	accounts := service.NewAccountService(
		users,
		auth.NewBcryptHasher(auth.DefaultCost),
		auth.NewTokenIssuer(cfg.AppKey),
		cache,
		log,
	)

	e := api.NewRouter(api.Dependencies{
		Accounts:       accounts,
		Health:         handler.NewHealthHandler(db, redisClient),
		Logger:         log,
		APIPrefix:      cfg.APIPrefix,
		MetricsEnabled: cfg.MetricsEnabled,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("prefix", cfg.APIPrefix).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
