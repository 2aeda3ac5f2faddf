package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"filedrop/internal/auth/jwks"
	"filedrop/internal/auth/sharedsecret"
	"filedrop/internal/config"
	"filedrop/internal/handler"
	"filedrop/internal/port"
	"filedrop/internal/repository/postgres"
	"filedrop/internal/router"
	"filedrop/internal/service"
	s3storage "filedrop/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := config.SetupLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewDB(ctx, &cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	fileRepo := postgres.NewFileRecordRepo(db)

	// Initialize storage
	signer, err := s3storage.NewS3Signer(ctx, &cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 signer: %w", err)
	}

	// Initialize identity gate
	verifier, err := newVerifier(ctx, cfg.Auth, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize token verifier: %w", err)
	}

	// Initialize services
	uploadSvc := service.NewUploadService(fileRepo, signer, &cfg.S3, logger)

	// Initialize handlers
	uploadH := handler.NewUploadHandler(uploadSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(router.Options{
		Verifier:       verifier,
		UploadHandler:  uploadH,
		HealthHandler:  healthH,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting",
			slog.String("addr", cfg.Server.Port),
			slog.String("environment", cfg.Server.Environment),
			slog.String("bucket", cfg.S3.Bucket),
			slog.String("auth_mode", cfg.Auth.Mode),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newVerifier(ctx context.Context, cfg config.AuthConfig, logger *slog.Logger) (port.TokenVerifier, error) {
	if cfg.Mode == config.AuthModeJWKS {
		return jwks.NewVerifier(ctx, cfg, logger)
	}
	return sharedsecret.NewVerifier(cfg), nil
}
