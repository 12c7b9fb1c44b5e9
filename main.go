package main

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/RoamLine/trip-progress-engine/config"
	"github.com/RoamLine/trip-progress-engine/handlers"
	"github.com/RoamLine/trip-progress-engine/internal/outbox"
	"github.com/RoamLine/trip-progress-engine/logger"
	"github.com/RoamLine/trip-progress-engine/models/progress"
	"github.com/RoamLine/trip-progress-engine/router"
	"github.com/RoamLine/trip-progress-engine/store"
	"github.com/RoamLine/trip-progress-engine/store/memory"
	pgstore "github.com/RoamLine/trip-progress-engine/store/postgres"
	redisstore "github.com/RoamLine/trip-progress-engine/store/redis"
	"github.com/RoamLine/trip-progress-engine/templates"
	"github.com/RoamLine/trip-progress-engine/types"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	logger.InitLogger()
	log := logger.GetLogger()
	defer func() {
		_ = logger.Close()
	}()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	snapshots, err := buildSnapshotStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize snapshot store: %v", err)
	}
	defer func() {
		_ = snapshots.Close()
	}()

	// Remote mirroring is optional; without it the engine records
	// intents into a no-op sink.
	var recorder types.SyncRecorder = types.NoopSyncRecorder{}
	var box *outbox.Outbox
	if cfg.Sync.Enabled {
		box = outbox.New(outbox.Config{
			RemoteBaseURL:  cfg.Sync.RemoteBaseURL,
			APIKey:         cfg.Sync.APIKey,
			QueueSize:      cfg.Sync.QueueSize,
			MaxAttempts:    cfg.Sync.MaxAttempts,
			RequestTimeout: time.Duration(cfg.Sync.TimeoutSeconds) * time.Second,
			RetryBackoff:   time.Duration(cfg.Sync.RetryBackoffSeconds) * time.Second,
		})
		box.Start()
		recorder = box
	}

	engine := progress.NewEngine(templates.NewStaticProvider(), snapshots, recorder, progress.Config{
		SaveTimeout: time.Duration(cfg.Store.SaveTimeoutSeconds) * time.Second,
	})

	// Rehydrate once before serving; in-memory state is authoritative
	// from here on.
	hydrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	if err := engine.Hydrate(hydrateCtx); err != nil {
		cancel()
		log.Fatalf("Failed to hydrate progress state: %v", err)
	}
	cancel()

	r := router.SetupRouter(router.Dependencies{
		Config:          cfg,
		ProgressHandler: handlers.NewProgressHandler(engine, cfg.Server.Version),
		HealthHandler:   handlers.NewHealthHandler(snapshots, cfg.Server.Version),
		Logger:          log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infow("Server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Server shutdown failed", "error", err)
	}
	if box != nil {
		box.Stop(shutdownCtx)
	}
}

// buildSnapshotStore wires the configured persistence backend.
func buildSnapshotStore(ctx context.Context, cfg *config.Config) (store.SnapshotStore, error) {
	log := logger.GetLogger()

	switch cfg.Store.Backend {
	case config.StoreBackendRedis:
		opts := &redis.Options{
			Addr:         cfg.Redis.Address,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		}
		if cfg.Redis.UseTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, err
		}
		log.Infow("Using redis snapshot store", "address", cfg.Redis.Address)
		return redisstore.New(client), nil

	case config.StoreBackendPostgres:
		poolCfg, err := pgxpool.ParseConfig(cfg.Database.URL())
		if err != nil {
			return nil, err
		}
		poolCfg.MaxConns = int32(cfg.Database.MaxOpenConns)
		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return nil, err
		}
		log.Infow("Using postgres snapshot store",
			"url", logger.MaskConnectionString(cfg.Database.URL()))
		return pgstore.New(ctx, pool)

	default:
		log.Warn("Using in-memory snapshot store; progress will not survive restarts")
		return memory.New(), nil
	}
}
