package main

import (
	"context"
	"log"
	"runtime"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/custdir/api/handler"
	"github.com/fastygo/custdir/domain"
	"github.com/fastygo/custdir/internal/config"
	"github.com/fastygo/custdir/internal/infrastructure/monitor"
	pgInfra "github.com/fastygo/custdir/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/custdir/internal/infrastructure/redis"
	"github.com/fastygo/custdir/internal/middleware"
	"github.com/fastygo/custdir/internal/router"
	"github.com/fastygo/custdir/internal/services"
	"github.com/fastygo/custdir/internal/services/lifecycle"
	"github.com/fastygo/custdir/pkg/httpcontext"
	"github.com/fastygo/custdir/pkg/logger"
	"github.com/fastygo/custdir/repository"
	"github.com/fastygo/custdir/repository/blob"
	boltRepo "github.com/fastygo/custdir/repository/bolt"
	pgRepo "github.com/fastygo/custdir/repository/postgres"
	redisRepo "github.com/fastygo/custdir/repository/redis"
	"github.com/fastygo/custdir/usecase/directory"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
		AppName:  cfg.AppName,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	store, err := openBlobStore(appCtx, cfg, manager, zapLogger)
	if err != nil {
		zapLogger.Fatal("storage unavailable", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}

	repo := blob.NewAggregateRepository(store, cfg.Storage.Key, zapLogger)
	uc, err := directory.Open(appCtx, repo, zapLogger,
		directory.WithDeviceInfo(domain.DeviceInfo{Platform: runtime.GOOS, AppVersion: cfg.AppVersion}),
	)
	if err != nil {
		zapLogger.Fatal("failed to load customer directory", zap.Error(err))
	}
	zapLogger.Info("customer directory loaded", zap.Int("customers", uc.Count()))

	mon := monitor.New(cfg.Storage.Driver, store, 10*time.Second, zapLogger)
	manager.Go("monitor", mon.Start, func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	if cfg.Backup.Enabled {
		scheduler := services.NewBackupScheduler(uc, services.SchedulerConfig{
			Dir:      cfg.Backup.Dir,
			Interval: cfg.Backup.Interval,
			Retain:   cfg.Backup.Retain,
		}, zapLogger)
		manager.Go("backup_scheduler", scheduler.Start, scheduler.Stop)
	}

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Customer: apiHandler.NewCustomerHandler(uc, ctxAdapter, zapLogger),
		Backup:   apiHandler.NewBackupHandler(uc, ctxAdapter, zapLogger),
		Health:   apiHandler.NewHealthHandler(mon, uc, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.Passthrough
	if cfg.JWT.Secret != "" {
		authMiddleware = middleware.JWTAuth(cfg.JWT.Secret, cfg.JWT.Issuer, zapLogger)
	} else {
		zapLogger.Warn("JWT_SECRET not set, API is unauthenticated")
	}
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:            r.Handler,
		ReadTimeout:        cfg.HTTP.ReadTimeout,
		WriteTimeout:       cfg.HTTP.WriteTimeout,
		IdleTimeout:        cfg.HTTP.IdleTimeout,
		MaxRequestBodySize: cfg.HTTP.MaxBodySize,
		Name:               cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}

// openBlobStore connects the configured storage driver and registers its
// close hook. Hooks run in reverse, so storage closes after the server.
func openBlobStore(ctx context.Context, cfg *config.Config, manager *lifecycle.Manager, zapLogger *zap.Logger) (repository.BlobStore, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		zapLogger.Warn("memory storage selected, directory will not survive restarts")
		return blob.NewMemoryStore(), nil

	case config.DriverRedis:
		client, err := redisInfra.NewClient(ctx, cfg.Redis, zapLogger)
		if err != nil {
			return nil, err
		}
		manager.Register("redis", func(context.Context) error {
			return client.Close()
		})
		return redisRepo.NewBlobRepository(client, cfg.Redis.KeyPrefix), nil

	case config.DriverPostgres:
		if err := pgInfra.RunMigrations(cfg.Database, cfg.Migrations, zapLogger); err != nil {
			return nil, err
		}
		pool, err := pgInfra.NewPool(ctx, cfg.Database, zapLogger)
		if err != nil {
			return nil, err
		}
		manager.Register("postgres", func(context.Context) error {
			pool.Close()
			return nil
		})
		return pgRepo.NewBlobRepository(pool), nil

	default:
		store, err := boltRepo.Open(cfg.Bolt.Path, cfg.Bolt.Bucket)
		if err != nil {
			return nil, err
		}
		manager.Register("bolt", func(context.Context) error {
			return store.Close()
		})
		return store, nil
	}
}
