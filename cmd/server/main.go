package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/contrib/instrumentation/runtime"

	"github.com/joao-fontenele/part-order-service/internal/catalog"
	"github.com/joao-fontenele/part-order-service/internal/config"
	"github.com/joao-fontenele/part-order-service/internal/messaging"
	"github.com/joao-fontenele/part-order-service/internal/session"
	"github.com/joao-fontenele/part-order-service/internal/telemetry"
	"github.com/joao-fontenele/part-order-service/internal/transport"
)

const (
	serviceName    = "part-order-service"
	serviceVersion = "0.1.0"
)

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, serviceName, serviceVersion)
	if err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(ctx) }()

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider(serviceName, serviceVersion)
	if err != nil {
		logger.Error("failed to initialize meter", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownMeter(ctx) }()

	if err := runtime.Start(); err != nil {
		logger.Error("failed to start runtime instrumentation", "error", err)
		os.Exit(1)
	}

	provider, closeCatalog, err := buildCatalog(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize part catalog", "error", err)
		os.Exit(1)
	}
	defer closeCatalog()

	httpClient := &http.Client{
		Timeout:   cfg.CallTimeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	simulator := transport.NewSimulator(transport.WithDelay(cfg.SimulatedDelay))
	factory := func(endpoint string) transport.OrderTransport {
		if endpoint == "" {
			return simulator
		}
		return transport.NewClient(endpoint, httpClient)
	}

	managerOpts := []session.ManagerOption{
		session.WithFacility(cfg.Facility),
		session.WithCancelPolicy(cfg.CancelPolicy),
		session.WithCallTimeout(cfg.CallTimeout),
		session.WithIdleTTL(cfg.SessionTTL),
	}

	if len(cfg.KafkaBrokers) > 0 {
		publisher := messaging.NewEventPublisher(cfg.KafkaBrokers)
		defer func() { _ = publisher.Close() }()
		managerOpts = append(managerOpts, session.WithPublisher(publisher))
	}

	manager := session.NewManager(factory, provider, logger, managerOpts...)
	handler, err := session.NewHandler(manager, logger)
	if err != nil {
		logger.Error("failed to create handler", "error", err)
		os.Exit(1)
	}

	sweepCtx, stopSweeper := context.WithCancel(ctx)
	defer stopSweeper()
	go manager.RunSweeper(sweepCtx, time.Minute)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /parts", telemetry.WithHTTPRoute(handler.HandleListParts))
	mux.HandleFunc("POST /sessions", telemetry.WithHTTPRoute(handler.HandleCreateSession))
	mux.HandleFunc("GET /sessions/{id}", telemetry.WithHTTPRoute(handler.HandleGetSession))
	mux.HandleFunc("PATCH /sessions/{id}/draft", telemetry.WithHTTPRoute(handler.HandleEditDraft))
	mux.HandleFunc("POST /sessions/{id}/submit", telemetry.WithHTTPRoute(handler.HandleSubmit))
	mux.HandleFunc("POST /sessions/{id}/confirm", telemetry.WithHTTPRoute(handler.HandleConfirm))
	mux.HandleFunc("POST /sessions/{id}/cancel", telemetry.WithHTTPRoute(handler.HandleCancel))
	mux.HandleFunc("POST /sessions/{id}/reset", telemetry.WithHTTPRoute(handler.HandleReset))
	mux.Handle("GET /metrics", metricsHandler)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: otelhttp.NewHandler(mux, serviceName,
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				if r.Pattern != "" {
					return r.Pattern
				}
				return r.Method + " " + r.URL.Path
			}),
		),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.CallTimeout + 5*time.Second,
	}

	go func() {
		logger.Info("starting part order service", "port", cfg.Port, "facility", cfg.Facility)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}

// buildCatalog picks the Postgres-backed catalog when POSTGRES_URL is set
// and the built-in static one otherwise. The Postgres cache is warmed once
// at startup so part lookups work before the first list request.
func buildCatalog(ctx context.Context, cfg *config.Config, logger *slog.Logger) (catalog.Provider, func(), error) {
	if cfg.PostgresURL == "" {
		provider := catalog.NewStaticProvider(catalog.DefaultParts(), cfg.CatalogDelay)
		return provider, func() {}, nil
	}

	db, err := telemetry.OpenDB("postgres", cfg.PostgresURL)
	if err != nil {
		return nil, nil, err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	provider := catalog.NewPostgresProvider(db)
	if _, err := provider.ListParts(ctx); err != nil {
		logger.Error("initial catalog load failed", "error", err)
	}

	return provider, func() { _ = db.Close() }, nil
}
