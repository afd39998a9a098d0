package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"toko-voucher/internal/config"
	"toko-voucher/internal/domain/ports/repository"
	pg "toko-voucher/internal/infra/db/postgres"
	"toko-voucher/internal/infra/logging"
	"toko-voucher/internal/infra/metrics"
	red "toko-voucher/internal/infra/redis"
	"toko-voucher/internal/infra/sched"
	"toko-voucher/internal/infra/web"
	"toko-voucher/internal/usecase"

	"github.com/joho/godotenv"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "development mode (console logging)")
	flag.Parse()

	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err == nil {
		log.Printf("loaded settings from .env")
	}

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("migrations failed")
	}

	// ---- Repositories ----
	tm := pg.NewTxManager(pool)
	var users repository.UserRepository = pg.NewPostgresUserRepo(pool)
	voucherRepo := pg.NewPostgresVoucherRepo(pool)

	// Redis is optional: with redis.url set, user-by-id lookups (the guard
	// path on every authenticated request) go through a read-through cache.
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis connect failed")
		}
		defer redisClient.Close()
		users = pg.NewUserRepoCacheDecorator(users, redisClient, cfg.Redis.TTL)
		logger.Info().Msg("user cache enabled")
	}

	// ---- Use cases ----
	userUC := usecase.NewUserUseCase(users, cfg.Auth.BcryptCost, logger)
	voucherUC := usecase.NewVoucherUseCase(users, voucherRepo, tm, logger)

	// ---- HTTP ----
	tokens := web.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	srv := web.NewServer(userUC, voucherUC, tokens, logger)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	// ---- Stats worker ----
	worker := sched.NewStatsWorker(cfg.Stats.Interval, userUC, voucherUC, pool, logger)
	go func() { _ = worker.Run(ctx) }()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
