package api

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jinxingedu/kindersync/internal/infrastructure/configs"
	"github.com/jinxingedu/kindersync/internal/infrastructure/logging"
	"github.com/jinxingedu/kindersync/internal/presentation/handler/events"
	"github.com/jinxingedu/kindersync/internal/presentation/handler/health"
	"github.com/jinxingedu/kindersync/internal/presentation/handler/logs"
	"github.com/jinxingedu/kindersync/internal/presentation/handler/pending"
	"github.com/jinxingedu/kindersync/internal/presentation/handler/records"
	"github.com/jinxingedu/kindersync/internal/presentation/handler/syncops"
)

// Flusher is what the application drains before the listener shuts down, so
// debounced uploads still reach the cloud on exit.
type Flusher interface {
	Flush(ctx context.Context)
	Close()
}

type Application struct {
	config  configs.Config
	logger  logging.Logger
	flusher Flusher

	healthHandler  *health.Handler
	recordsHandler *records.Handler
	logsHandler    *logs.Handler
	pendingHandler *pending.Handler
	syncHandler    *syncops.Handler
	eventsHandler  *events.Handler
}

func NewApplication(
	config configs.Config,
	logger logging.Logger,
	flusher Flusher,
	recordsHandler *records.Handler,
	logsHandler *logs.Handler,
	pendingHandler *pending.Handler,
	syncHandler *syncops.Handler,
	eventsHandler *events.Handler,
) *Application {
	return &Application{
		config:         config,
		logger:         logger,
		flusher:        flusher,
		healthHandler:  health.NewHandler(),
		recordsHandler: recordsHandler,
		logsHandler:    logsHandler,
		pendingHandler: pendingHandler,
		syncHandler:    syncHandler,
		eventsHandler:  eventsHandler,
	}
}

func (app *Application) Mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(app.enableCors)

	r.Get("/health", app.healthHandler.GetHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/debug/vars", expvar.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/events", app.eventsHandler.SubscribeHandler)

		// The websocket route sits outside the timeout; everything below is
		// plain request/response.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			r.Route("/data/{key}", func(r chi.Router) {
				r.Get("/", app.recordsHandler.ListRecordsHandler)
				r.Put("/", app.recordsHandler.ReplaceRecordsHandler)
				r.Post("/records", app.recordsHandler.SaveRecordHandler)
				r.Post("/batch", app.recordsHandler.BatchSaveRecordsHandler)
				r.Delete("/records/{id}", app.recordsHandler.DeleteRecordHandler)
			})

			r.Get("/logs", app.logsHandler.ListLogsHandler)

			r.Route("/pending", func(r chi.Router) {
				r.Post("/", app.pendingHandler.StagePendingHandler)
				r.Get("/", app.pendingHandler.ListPendingHandler)
				r.Post("/{pendingId}/confirm", app.pendingHandler.ConfirmPendingHandler)
				r.Post("/{pendingId}/cancel", app.pendingHandler.CancelPendingHandler)
			})

			r.Route("/sync", func(r chi.Router) {
				r.Get("/status", app.syncHandler.GetStatusHandler)
				r.Get("/health", app.syncHandler.GetMirrorHealthHandler)
				r.Post("/upload-all", app.syncHandler.UploadAllHandler)
				r.Post("/reconcile", app.syncHandler.ReconcileHandler)
			})

			r.Get("/export", app.syncHandler.ExportHandler)
			r.Get("/stats", app.syncHandler.GetStatsHandler)
		})
	})

	if app.config.Tracing.Enabled {
		return otelhttp.NewHandler(r, "kindersyncd")
	}
	return r
}

// Run serves mux until SIGINT/SIGTERM, then flushes pending uploads and shuts
// the listener down gracefully.
func (app *Application) Run(mux http.Handler) error {
	addr := fmt.Sprintf("%s:%d", app.config.HTTP.Host, app.config.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  app.config.HTTP.ReadTimeout,
		WriteTimeout: app.config.HTTP.WriteTimeout,
	}

	shutdownErr := make(chan error, 1)
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		app.logger.Info(logging.General, logging.Shutdown, "shutting down", nil)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		app.flusher.Flush(ctx)
		app.flusher.Close()
		shutdownErr <- srv.Shutdown(ctx)
	}()

	app.logger.Info(logging.General, logging.Startup, "listening on "+addr, nil)

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-shutdownErr
}
