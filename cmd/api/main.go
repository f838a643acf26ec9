package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"

	catalogadapter "github.com/formation/products-api/internal/catalog/adapters/http"
	catalogmem "github.com/formation/products-api/internal/catalog/adapters/memory"
	catalogpostgres "github.com/formation/products-api/internal/catalog/adapters/postgres"
	catalogapp "github.com/formation/products-api/internal/catalog/app"
	catalogmetrics "github.com/formation/products-api/internal/catalog/metrics"
	catalogports "github.com/formation/products-api/internal/catalog/ports"
	"github.com/formation/products-api/internal/config"
	"github.com/formation/products-api/internal/database"
	"github.com/formation/products-api/internal/httpapi"
	idemmem "github.com/formation/products-api/internal/idempotency/memory"
	idempostgres "github.com/formation/products-api/internal/idempotency/postgres"
	"github.com/formation/products-api/internal/kafka"
	ordersadapters "github.com/formation/products-api/internal/orders/adapters"
	ordersadapter "github.com/formation/products-api/internal/orders/adapters/http"
	ordersmem "github.com/formation/products-api/internal/orders/adapters/memory"
	orderspostgres "github.com/formation/products-api/internal/orders/adapters/postgres"
	ordersapp "github.com/formation/products-api/internal/orders/app"
	ordersmetrics "github.com/formation/products-api/internal/orders/metrics"
	ordersports "github.com/formation/products-api/internal/orders/ports"
	statsadapter "github.com/formation/products-api/internal/stats/adapters/http"
	statsmem "github.com/formation/products-api/internal/stats/adapters/memory"
	statspostgres "github.com/formation/products-api/internal/stats/adapters/postgres"
	statsapp "github.com/formation/products-api/internal/stats/app"
	statsports "github.com/formation/products-api/internal/stats/ports"
	"github.com/formation/products-api/internal/telemetry"
)

func main() {
	bootLogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(bootLogger)

	cfg, err := config.Load()
	if err != nil {
		bootLogger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.Initialize(ctx, telemetry.Config{
		ServiceName:    cfg.Service.Name,
		ServiceVersion: cfg.Service.Version,
		Environment:    cfg.Service.Environment,
		OTLPEndpoint:   cfg.Telemetry.OTelEndpoint,
		EnableTracing:  cfg.Telemetry.EnableTracing,
		EnableMetrics:  cfg.Telemetry.EnableMetrics,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		bootLogger.Error("failed to initialize telemetry", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			slog.Error("telemetry shutdown failed", "error", err)
		}
	}()

	logger := telemetry.NewLogger(parseLogLevel(cfg.Telemetry.LogLevel))
	slog.SetDefault(logger)

	// Initialize registered the providers globally; the global meter falls
	// back to a noop when metrics are disabled.
	meter := otel.Meter("github.com/formation/products-api")

	ordersMetrics, err := ordersmetrics.NewMetrics(meter)
	if err != nil {
		logger.Error("failed to create order metrics", "error", err)
		os.Exit(1)
	}
	catalogMetrics, err := catalogmetrics.NewMetrics(meter)
	if err != nil {
		logger.Error("failed to create catalog metrics", "error", err)
		os.Exit(1)
	}
	httpMetrics, err := httpapi.NewMetrics(meter)
	if err != nil {
		logger.Error("failed to create http metrics", "error", err)
		os.Exit(1)
	}
	dbMetrics, err := database.NewMetrics(meter)
	if err != nil {
		logger.Error("failed to create database metrics", "error", err)
		os.Exit(1)
	}
	kafkaMetrics, err := kafka.NewMetrics(meter)
	if err != nil {
		logger.Error("failed to create kafka metrics", "error", err)
		os.Exit(1)
	}

	if len(cfg.Kafka.Brokers) > 0 {
		logger.Warn("kafka brokers configured but no producer is wired, events are logged only",
			"brokers", strings.Join(cfg.Kafka.Brokers, ","))
	}
	eventBus := kafka.NewObservableEventBus(kafka.NewNoopEventBus(), kafkaMetrics)

	var (
		pool         *pgxpool.Pool
		orderRepo    ordersports.OrderRepository
		productRepo  catalogports.ProductRepository
		categoryRepo catalogports.CategoryRepository
		supplierRepo catalogports.SupplierRepository
		idemStore    ordersports.IdempotencyStore
		statsReader  statsports.StatsReader
	)

	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		pool, err = database.NewPool(ctx, cfg.Database.URL)
		if err != nil {
			logger.Error("failed to create database pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		if cfg.Database.AutoMigrate {
			logger.Info("running database migrations", "path", cfg.Database.MigrationsPath)
			if err := database.RunMigrations(cfg.Database.URL, cfg.Database.MigrationsPath); err != nil {
				logger.Error("failed to run migrations", "error", err)
				os.Exit(1)
			}
			logger.Info("migrations completed successfully")
		}

		orderRepo = orderspostgres.NewRepository(pool)
		productRepo = catalogpostgres.NewProductRepository(pool)
		categoryRepo = catalogpostgres.NewCategoryRepository(pool)
		supplierRepo = catalogpostgres.NewSupplierRepository(pool)
		idemStore = idempostgres.NewStore(pool)
		statsReader = statspostgres.NewReader(pool)

	case config.BackendMemory:
		logger.Info("using in-memory storage, data is lost on restart")
		memOrders := ordersmem.NewRepository()
		memProducts := catalogmem.NewProductRepository()
		memCategories := catalogmem.NewCategoryRepository()

		orderRepo = memOrders
		productRepo = memProducts
		categoryRepo = memCategories
		supplierRepo = catalogmem.NewSupplierRepository()
		idemStore = idemmem.NewStore()
		statsReader = statsmem.NewReader(memProducts, memCategories, memOrders)
	}

	orderRepo = ordersadapters.NewObservableRepository(orderRepo, dbMetrics)

	catalogService := catalogapp.NewService(productRepo, categoryRepo, supplierRepo, eventBus, logger, catalogMetrics)
	ordersService := ordersapp.NewService(orderRepo, catalogService, eventBus, idemStore, logger, ordersMetrics)
	statsService := statsapp.NewService(statsReader, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httpapi.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if pool != nil {
			if err := database.CheckHealth(r.Context(), pool); err != nil {
				httpapi.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready", "error": err.Error()})
				return
			}
		}
		httpapi.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})
	mux.HandleFunc(cfg.HTTP.MetricsPath, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("# metrics are exported via OTLP, see OTEL_EXPORTER_OTLP_ENDPOINT\n"))
	})

	ordersadapter.NewHandler(ordersService).Register(mux)
	catalogadapter.NewHandler(catalogService).Register(mux)
	statsadapter.NewHandler(statsService).Register(mux)

	handler := httpapi.WithMetrics(withRecovery(withLogging(mux)), httpMetrics)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "port", cfg.HTTP.Port, "backend", cfg.Storage.Backend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownGrace)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	} else {
		logger.Info("http server stopped")
	}
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		slog.InfoContext(r.Context(), "http request",
			"method", r.Method, "path", r.URL.Path, "status", rw.status, "duration", time.Since(start))
	})
}

func withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.ErrorContext(r.Context(), "panic recovered", "error", rec)
				httpapi.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
