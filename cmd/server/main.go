package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"wine-model-service/internal/adapters/primary/http/handlers"
	"wine-model-service/internal/adapters/primary/http/middleware"
	"wine-model-service/internal/adapters/secondary/filestore"
	"wine-model-service/internal/adapters/secondary/lrucache"
	"wine-model-service/internal/adapters/secondary/postgres"
	"wine-model-service/internal/adapters/secondary/prometheus"
	"wine-model-service/internal/adapters/secondary/sqlite"
	"wine-model-service/internal/config"
	ports "wine-model-service/internal/core/ports/output"
	"wine-model-service/internal/core/services"
	"wine-model-service/internal/logging"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logCloser := logging.Init(cfg.Logger)
	defer logCloser.Close()

	ctx := context.Background()

	// ============================================================================
	// Hexagonal Architecture Wiring
	// ============================================================================

	// Secondary Adapters
	store := filestore.NewStore(&cfg.Artifact)
	recorder := prometheus.NewRecorder()

	var cache ports.PredictionCache
	if cfg.Cache.Size > 0 {
		c, err := lrucache.New(cfg.Cache.Size)
		if err != nil {
			log.Fatalf("create prediction cache: %v", err)
		}
		cache = c
		log.Infof("prediction cache enabled (size %d)", cfg.Cache.Size)
	}

	predLog, err := openPredictionLog(ctx, cfg)
	if err != nil {
		log.Fatalf("open prediction log: %v", err)
	}
	if predLog != nil {
		defer predLog.Close()
	}

	// Core Services
	loader := services.NewArtifactLoader(store, recorder)
	inferenceSvc := services.NewInferenceService(loader, cache, predLog, recorder)

	loader.Warm(ctx)

	// Primary Adapter (HTTP Handlers)
	h := handlers.New(inferenceSvc, cfg.Server.MaxBodyBytes)

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), middleware.Metrics(recorder), gin.Recovery())
	h.RegisterRoutes(router)

	if cfg.Metrics.Enabled {
		router.GET(cfg.Metrics.Path, gin.WrapH(recorder.Handler()))
	}

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Infof("starting server on %s (artifacts: %s)", addr, store.ModelPath())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("server forced shutdown: %v", err)
	}

	log.Info("server stopped")
}

func openPredictionLog(ctx context.Context, cfg *config.Config) (ports.PredictionLog, error) {
	switch cfg.PredictionLog.Driver {
	case config.LogDriverPostgres:
		pool, err := postgres.NewPool(ctx, &cfg.Database)
		if err != nil {
			return nil, err
		}
		repo, err := postgres.NewPredictionLogRepository(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		log.Info("prediction log: postgres")
		return repo, nil
	case config.LogDriverSQLite:
		repo, err := sqlite.NewPredictionLogRepository(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		log.Infof("prediction log: sqlite (%s)", cfg.SQLite.Path)
		return repo, nil
	default:
		log.Info("prediction log disabled")
		return nil, nil
	}
}
