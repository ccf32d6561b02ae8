package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"socialgraph/backend/internal/api"
	"socialgraph/backend/internal/graph"
	"socialgraph/backend/internal/metrics"
	"socialgraph/backend/internal/persistence"
	"socialgraph/backend/pkg/config"
	"socialgraph/backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	// Initialize logger
	if err := logger.Init(cfg.Env, cfg.LogLevel); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting social graph server...",
		zap.String("env", cfg.Env),
		zap.String("snapshot_backend", cfg.SnapshotBackend),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("Server exited with error", zap.Error(err))
	}
	log.Info("Server exited")
}

// run wires the graph, store, metrics and HTTP server and blocks until ctx
// is cancelled or one of the components fails
func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	store, err := persistence.Open(ctx, cfg)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close(context.Background())
	}

	g := graph.New(logger.Named("graph"))
	m := metrics.New(g)
	server := api.New(g, store, m, logger.Named("api"))

	if store != nil {
		switch err := server.Load(ctx); {
		case err == nil:
			log.Info("Restored graph from snapshot", zap.String("store", store.Name()))
		case persistence.IsEmpty(err):
			log.Info("No snapshot found, starting empty", zap.String("store", store.Name()))
		default:
			return err
		}
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: server.Router(),
	}

	group, gctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info("Server started", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Server forced to shutdown", zap.Error(err))
		}

		if store == nil {
			return nil
		}
		// Final snapshot so a restart picks up where we stopped
		if _, err := server.Save(shutdownCtx); err != nil {
			log.Error("Final snapshot failed", zap.Error(err))
		}
		return nil
	})

	if store != nil && cfg.SnapshotInterval > 0 {
		group.Go(func() error {
			return autosave(gctx, server, cfg.SnapshotInterval, log)
		})
	}

	return group.Wait()
}

// snapshotter is the part of the API server autosave drives
type snapshotter interface {
	Save(ctx context.Context) (*graph.Snapshot, error)
}

// autosave saves a snapshot every interval until ctx is done. Failed saves
// are logged and retried on the next tick.
func autosave(ctx context.Context, s snapshotter, interval time.Duration, log *zap.Logger) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			snap, err := s.Save(ctx)
			if err != nil {
				log.Warn("Autosave failed", zap.Error(err))
				continue
			}
			log.Debug("Autosaved snapshot", zap.String("snapshot_id", snap.ID))
		}
	}
}
