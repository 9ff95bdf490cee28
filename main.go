package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"paint-matcher/internal/env"
	"paint-matcher/internal/handler"
	"paint-matcher/internal/repository"
	csvrepo "paint-matcher/internal/repository/csv"
	pgrepo "paint-matcher/internal/repository/postgres"
	s3repo "paint-matcher/internal/repository/s3"
	sqliterepo "paint-matcher/internal/repository/sqlite"
	"paint-matcher/internal/routes"
	"paint-matcher/internal/service"
)

func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	cfg := env.MustLoad()
	logger.Info("konfiguration geladen",
		zap.String("data_source", cfg.DataSource),
		zap.String("catalog_file_path", cfg.CatalogFilePath),
		zap.String("server_addr", cfg.ServerAddr),
		zap.Float64("rate_limit", cfg.RateLimit),
		zap.Int("max_paints", cfg.MaxPaints),
	)

	repo, cleanup := mustInitRepo(cfg, logger)
	if cleanup != nil {
		defer cleanup()
	}

	paints := handler.NewPaintHandler(service.NewPaintService(repo, logger), logger)
	matches := handler.NewMatchHandler(service.NewMatchService(repo, logger), logger)

	r := chi.NewRouter()
	routes.Setup(r, paints, matches, logger, cfg.RateLimit)

	srv := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		logger.Info("server wird gestartet", zap.String("adresse", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server wird heruntergefahren")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("erzwungenes herunterfahren", zap.Error(err))
	}
	logger.Info("server gestoppt")
}

// mustInitRepo erstellt je nach DATA_SOURCE das passende PaintRepository.
// Die zurückgegebene cleanup-Funktion schließt ggf. die DB-Verbindung.
func mustInitRepo(cfg env.Config, logger *zap.Logger) (repository.PaintRepository, func()) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch cfg.DataSource {
	case "sqlite":
		repo, err := sqliterepo.NewPaintRepository(cfg.SQLiteDSN, cfg.MaxPaints, logger)
		if err != nil {
			logger.Fatal("sqlite-repository konnte nicht initialisiert werden", zap.Error(err))
		}
		return repo, func() { _ = repo.Close() }

	case "postgres":
		repo, err := pgrepo.NewPaintRepository(ctx, cfg.PostgresDSN, cfg.MaxPaints, logger)
		if err != nil {
			logger.Fatal("postgres-repository konnte nicht initialisiert werden", zap.Error(err))
		}
		return repo, func() { _ = repo.Close() }

	case "s3":
		client, err := s3repo.NewClient(s3repo.Config{
			Endpoint:      cfg.S3.Endpoint,
			Region:        cfg.S3.Region,
			Bucket:        cfg.S3.Bucket,
			AccessKey:     cfg.S3.AccessKey,
			SecretKey:     cfg.S3.SecretKey,
			UseSSL:        cfg.S3.UseSSL,
			MaxObjectSize: int64(cfg.S3.MaxBytes),
		})
		if err != nil {
			logger.Fatal("s3-client konnte nicht erstellt werden", zap.Error(err))
		}
		repo, err := s3repo.NewPaintRepository(ctx, client, cfg.S3.CatalogKey, cfg.MaxPaints, logger)
		if err != nil {
			logger.Fatal("s3-katalog konnte nicht geladen werden", zap.Error(err))
		}
		return repo, nil

	default:
		repo, err := csvrepo.NewPaintRepository(cfg.CatalogFilePath, cfg.MaxPaints, logger)
		if err != nil {
			logger.Fatal("csv-repository konnte nicht geladen werden", zap.Error(err))
		}
		return repo, nil
	}
}
