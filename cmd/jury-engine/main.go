package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/terra-clan/jury-engine/internal/api"
	"github.com/terra-clan/jury-engine/internal/catalog"
	"github.com/terra-clan/jury-engine/internal/config"
	"github.com/terra-clan/jury-engine/internal/grading"
	"github.com/terra-clan/jury-engine/internal/hierarchy"
	"github.com/terra-clan/jury-engine/internal/report"
	"github.com/terra-clan/jury-engine/internal/services"
	"github.com/terra-clan/jury-engine/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	slog.Info("starting jury-engine",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"redis", cfg.Redis.Enabled,
	)

	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer initCancel()

	// Run database migrations
	slog.Info("running database migrations", "dir", cfg.Database.MigrationsDir)
	if err := storage.MigrateFromDSN(initCtx, cfg.Database.DSN, cfg.Database.MigrationsDir); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	pg, err := storage.NewPostgresRepository(initCtx, storage.PostgresConfig{
		DSN:      cfg.Database.DSN,
		MaxConns: int32(cfg.Database.MaxConns),
		MinConns: int32(cfg.Database.MinConns),
		Retry: storage.RetryPolicy{
			Attempts: cfg.Storage.RetryAttempts,
			Backoff:  cfg.Storage.RetryBackoff,
		},
	})
	if err != nil {
		slog.Error("failed to create database repository", "error", err)
		os.Exit(1)
	}
	defer pg.Close()
	slog.Info("database connected successfully")

	// Dependency registry for readiness
	registry := services.NewRegistry(2 * time.Second)

	postgresProvider, err := services.NewPostgresProvider(cfg.Database.DSN)
	if err != nil {
		slog.Error("failed to create postgres provider", "error", err)
		os.Exit(1)
	}
	defer postgresProvider.Close()
	registry.Register("postgres", postgresProvider)

	var repo storage.Repository = pg
	if cfg.Redis.Enabled {
		redisProvider, err := services.NewRedisProvider(initCtx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			slog.Error("failed to create redis provider", "error", err)
			os.Exit(1)
		}
		defer redisProvider.Close()
		registry.Register("redis", redisProvider)

		repo = storage.NewCachedRepository(pg, storage.NewRedisCache(redisProvider.Client()), cfg.Redis.TTL)
		slog.Info("reference data cache enabled", "ttl", cfg.Redis.TTL)
	}

	// Promotion catalog
	cat := catalog.Default()
	if cfg.Catalog.File != "" {
		cat, err = catalog.LoadFromFile(cfg.Catalog.File)
		if err != nil {
			slog.Error("failed to load catalog", "file", cfg.Catalog.File, "error", err)
			os.Exit(1)
		}
	}
	slog.Info("catalog loaded", "promotions", len(cat.Entries()))

	policy := grading.Policy{
		MaxMark:             cfg.Grading.MaxMark,
		ValidationThreshold: cfg.Grading.ValidationThreshold,
		PassCredits:         cfg.Grading.PassCredits,
	}
	reports := report.NewService(
		repo,
		hierarchy.NewBuilder(cat),
		grading.NewAggregator(repo, policy, cfg.Grading.Workers),
		report.Options{
			Institution:  cfg.Report.Institution,
			AcademicYear: cfg.Report.AcademicYear,
			Workers:      cfg.Grading.Workers,
		},
	)

	// Setup HTTP server
	server := api.NewServer(cfg.Server, reports, registry)
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Server.RequestTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("HTTP server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("jury-engine stopped")
}
