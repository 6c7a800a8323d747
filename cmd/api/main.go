package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	_ "github.com/bankdemo/banking-api/docs"
	"github.com/bankdemo/banking-api/internal/api"
	"github.com/bankdemo/banking-api/internal/api/handler"
	"github.com/bankdemo/banking-api/internal/core/ports"
	"github.com/bankdemo/banking-api/internal/core/service"
	"github.com/bankdemo/banking-api/internal/infrastructure/db/mongo"
	redisdb "github.com/bankdemo/banking-api/internal/infrastructure/db/redis"
	"github.com/bankdemo/banking-api/internal/infrastructure/lock"
	"github.com/bankdemo/banking-api/internal/infrastructure/security"
	"github.com/bankdemo/banking-api/internal/pkg/config"
	"github.com/bankdemo/banking-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// @title           Banking API
// @version         1.0
// @description     Demo retail banking service: signup, sessions, accounts and ledger postings.
// @BasePath        /

// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name session

func main() {
	if err := run(); err != nil {
		l := logger.Get()
		l.Fatal().Err(err).Msg("application error")
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger options come from config, so fall back to a plain JSON logger.
		logger.Init(logger.Options{Service: "banking-api"})
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "banking-api",
	})
	log.Info().Str("env", cfg.Env).Str("port", cfg.Port).Str("session_lock", cfg.Auth.SessionLock).Msg("starting")

	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(dctx)
	}()

	users := mongo.NewUserRepository(db)
	sessions := mongo.NewSessionRepository(db)
	accounts := mongo.NewAccountRepository(db)
	transactions := mongo.NewTransactionRepository(db)
	if err := mongo.EnsureIndexes(ctx, users, sessions, accounts, transactions); err != nil {
		return err
	}

	health := map[string]handler.Pinger{
		"mongodb": handler.PingFunc(func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) }),
	}

	var locker ports.SessionLocker
	switch cfg.Auth.SessionLock {
	case config.LockRedis:
		rdb, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			Timeout:      cfg.Redis.Timeout,
		})
		if err != nil {
			return err
		}
		defer func(c *redis.Client) { _ = c.Close() }(rdb)
		locker = redisdb.NewSessionLock(rdb, 0, 0)
		health["redis"] = handler.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	default:
		locker = lock.NewStriped(0)
	}

	tokens := security.NewJWTIssuer(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)
	policy := service.NewSessionPolicy(sessions, tokens, locker, log.With().Str("component", "sessions").Logger())
	authService, err := service.NewAuthService(
		users,
		policy,
		security.NewBcryptHasher(cfg.Auth.BcryptCost),
		security.NewSSNHasher(cfg.Auth.SSNSalt),
		log.With().Str("component", "auth").Logger(),
	)
	if err != nil {
		return err
	}
	accountService := service.NewAccountService(accounts, transactions, rand.Reader, log.With().Str("component", "ledger").Logger())

	router := api.NewRouter(api.Deps{
		Log:      log,
		Auth:     authService,
		Accounts: accountService,
		Cookie:   handler.CookieOptions{TTL: cfg.Auth.SessionTTL, Secure: cfg.Auth.CookieSecure},
		Health:   health,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("http server listening")
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(sctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}
	return nil
}
