package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"padron/internal/config"
	"padron/internal/email/noop"
	"padron/internal/email/ses"
	"padron/internal/handler"
	"padron/internal/logger"
	"padron/internal/metrics"
	"padron/internal/port"
	"padron/internal/repository/memory"
	"padron/internal/repository/postgres"
	"padron/internal/repository/redis"
	"padron/internal/router"
	"padron/internal/service"
	s3storage "padron/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.New(cfg.Log)

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	patientRepo := postgres.NewPatientRepo(db)
	obraSocialRepo := postgres.NewObraSocialRepo(db)
	batchRepo := postgres.NewImportBatchRepo(db)

	sessions, err := newSessionStore(cfg.Session, log)
	if err != nil {
		return err
	}

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	sender, err := newEmailSender(cfg.Email, log)
	if err != nil {
		return err
	}

	m := metrics.NewImport()

	// Initialize services
	importSvc := service.NewImportService(sessions, patientRepo, obraSocialRepo, batchRepo, s3Client, sender, m, &cfg.S3, &cfg.Import, log)
	obraSocialSvc := service.NewObraSocialService(obraSocialRepo)

	// Setup router
	r := router.Setup(router.Handlers{
		Import:     handler.NewImportHandler(importSvc, cfg.Import.PreviewRows),
		ObraSocial: handler.NewObraSocialHandler(obraSocialSvc),
		Health:     handler.NewHealthHandler(db),
		Metrics:    m.Handler(),
	}, cfg.CORS.AllowedOrigins, log)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Port).Str("env", cfg.Server.Environment).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return importSvc.Shutdown(ctx)
}

func newSessionStore(cfg config.SessionConfig, log zerolog.Logger) (port.SessionStore, error) {
	switch cfg.Store {
	case "redis":
		client, err := redis.NewClient(context.Background(), cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		log.Info().Dur("ttl", cfg.TTL).Msg("import sessions stored in redis")
		return redis.NewSessionStore(client, cfg.TTL), nil
	case "memory", "":
		log.Info().Dur("ttl", cfg.TTL).Msg("import sessions stored in memory")
		return memory.NewSessionStore(cfg.TTL), nil
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Store)
	}
}

func newEmailSender(cfg config.EmailConfig, log zerolog.Logger) (port.EmailSender, error) {
	if cfg.Provider == "ses" {
		sender, err := ses.NewSESSender(cfg.Region, cfg.FromAddress, cfg.FromName)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SES sender: %w", err)
		}
		return sender, nil
	}
	return noop.NewNoopSender(log), nil
}
