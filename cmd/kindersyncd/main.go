package main

import (
	"context"
	"expvar"
	"log"
	"runtime"
	"time"

	"github.com/jinxingedu/kindersync/internal/domain"
	"github.com/jinxingedu/kindersync/internal/infrastructure/configs"
	"github.com/jinxingedu/kindersync/internal/infrastructure/logging"
	"github.com/jinxingedu/kindersync/internal/infrastructure/tracing"
	"github.com/jinxingedu/kindersync/internal/infrastructure/ws"
	"github.com/jinxingedu/kindersync/internal/mirror"
	"github.com/jinxingedu/kindersync/internal/persistence/kv"
	"github.com/jinxingedu/kindersync/internal/persistence/store"
	"github.com/jinxingedu/kindersync/internal/presentation/api"
	"github.com/jinxingedu/kindersync/internal/presentation/handler/events"
	"github.com/jinxingedu/kindersync/internal/presentation/handler/logs"
	"github.com/jinxingedu/kindersync/internal/presentation/handler/pending"
	"github.com/jinxingedu/kindersync/internal/presentation/handler/records"
	"github.com/jinxingedu/kindersync/internal/presentation/handler/syncops"
	"github.com/jinxingedu/kindersync/internal/syncer"
)

func main() {
	configPath := configs.DetermineConfigPath()
	cfg, err := configs.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.NewLogger(logging.NewDefaultConfig())

	shutdownTracer, err := tracing.InitTracer(tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		Environment: cfg.Tracing.Environment,
		Endpoint:    cfg.Tracing.Endpoint,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer shutdownTracer(context.Background())

	fileStore, err := kv.NewFileStore(cfg.Store.DataDir)
	if err != nil {
		log.Fatal(err)
	}
	recordStore := store.New(fileStore, logger)

	mirrorClient := mirror.New(mirror.Config{
		Region:         cfg.Mirror.Region,
		AccessKey:      cfg.Mirror.AccessKey,
		AccessSecret:   cfg.Mirror.AccessSecret,
		Bucket:         cfg.Mirror.Bucket,
		Namespace:      cfg.Mirror.Namespace,
		Endpoint:       cfg.Mirror.Endpoint,
		Timeout:        cfg.Mirror.Timeout,
		BatchSize:      cfg.Sync.BatchSize,
		BatchThreshold: cfg.Sync.BatchThreshold,
	}, logger)

	protected := make(map[domain.StorageKey]int, len(cfg.Sync.ProtectedKeys))
	for key, minCount := range cfg.Sync.ProtectedKeys {
		protected[domain.StorageKey(key)] = minCount
	}
	coordinator := syncer.New(recordStore, mirrorClient, logger, cfg.Sync.Debounce, protected)

	hub := ws.NewHub(logger)
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go hub.Run(hubCtx)

	recordStore.SetScheduler(coordinator)
	recordStore.SetNotifier(hub)

	// Converge the replicas before serving traffic. Bounded so an unreachable
	// bucket cannot hold up startup forever.
	if mirrorClient.Configured() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		coordinator.Reconcile(ctx, domain.RegisteredKeys())
		cancel()
	}

	app := api.NewApplication(
		*cfg,
		logger,
		coordinator,
		records.NewHandler(recordStore),
		logs.NewHandler(recordStore),
		pending.NewHandler(recordStore),
		syncops.NewHandler(recordStore, mirrorClient, coordinator),
		events.NewHandler(hub, logger),
	)

	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.Mount()
	if err := app.Run(mux); err != nil {
		log.Fatal(err)
	}
}
