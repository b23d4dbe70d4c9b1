package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bizzops/internal/config"
	"bizzops/internal/infra"
	"bizzops/internal/repository"
	"bizzops/internal/router"
	"bizzops/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger — dev: pretty console, prod: JSON
	if cfg.Env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	if err := infra.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Redis powers the job queue and dashboard cache. A connection failure is
	// fatal in production; in development the app degrades to synchronous-only
	// behavior (no async invoicing, no cache).
	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		if cfg.Env == "production" {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		log.Warn().Err(err).Msg("redis unavailable, running without queue and cache")
		rdb = nil
	}

	// Worker pool for async invoice PDF generation and email delivery. Wired
	// here (composition root) so the pool sees the same infra as the services.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := infra.NewMailer(cfg)
	dispatcher := worker.NewDispatcher(rdb)
	invoiceWorker := worker.NewInvoiceWorker(
		repository.NewInvoiceRepository(db),
		repository.NewOwnerRepository(db),
		mailer,
		cfg.PDFStoragePath,
	)
	if rdb != nil {
		worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, invoiceWorker)
	}

	r := router.New(cfg, db, rdb, dispatcher)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("bizzops backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
