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

	"mgnrega/internal/config"
	apphttp "mgnrega/internal/http"
	applog "mgnrega/internal/log"
	"mgnrega/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(cfg.LogLevel),
		Format:    cfg.LogFormat,
		Component: applog.ComponentApp,
		Output:    os.Stdout,
	})
	applog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err,
			applog.FieldErrorType, applog.ErrorTypeConfiguration)
		os.Exit(1)
	}

	openCtx, openCancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := storage.Open(openCtx, storage.Config{
		Path:            cfg.DBPath,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		RunMigrations:   cfg.RunMigrations,
	})
	openCancel()
	if err != nil {
		logger.Error("Failed to open database", "error", err, applog.FieldDBPath, cfg.DBPath,
			applog.FieldErrorType, applog.ErrorTypeDatabase)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("Database ready", applog.FieldDBPath, db.Path(), "migrations", cfg.RunMigrations)

	repo := storage.NewRepository(db)

	srv := apphttp.NewServer(cfg.Addr(), repo, apphttp.Options{
		Logger:                logger,
		Health:                repo,
		QueryTimeout:          cfg.DBQueryTimeout,
		ReportRequireSnapshot: cfg.ReportRequireSnapshot,
		ReportRateLimit:       cfg.ReportRateLimit,
		MetricsEnabled:        cfg.MetricsEnabled,
		TrustedProxies:        cfg.TrustedProxies,
	})

	// Configure server timeouts and limits; long trend series make larger PDFs.
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting mgnrega server", "port", cfg.Port, "metrics", cfg.MetricsEnabled)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
