package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"

	"angopay/internal/domain/adjustment"
	"angopay/internal/domain/audit"
	"angopay/internal/domain/auth"
	"angopay/internal/domain/core"
	"angopay/internal/domain/leave"
	"angopay/internal/domain/payroll"
	"angopay/internal/domain/termination"
	"angopay/internal/platform/config"
	"angopay/internal/platform/db"
	"angopay/internal/platform/idempotency"
	"angopay/internal/platform/jobs"
	"angopay/internal/platform/logging"
	"angopay/internal/platform/metrics"
	"angopay/internal/store/memory"
	"angopay/internal/store/postgres"
	"angopay/internal/transport/http/api"
	adjustmentshandler "angopay/internal/transport/http/handlers/adjustments"
	audithandler "angopay/internal/transport/http/handlers/audit"
	corehandler "angopay/internal/transport/http/handlers/core"
	payrollhandler "angopay/internal/transport/http/handlers/payroll"
	synchandler "angopay/internal/transport/http/handlers/sync"
	terminationshandler "angopay/internal/transport/http/handlers/terminations"
	"angopay/internal/transport/http/middleware"
)

// storeBackend is the method set shared by the memory and postgres stores.
type storeBackend interface {
	core.StoreAPI
	leave.StoreAPI
	payroll.StoreAPI
	adjustment.StoreAPI
	termination.StoreAPI
	audit.StoreAPI
	jobs.RunStore
	synchandler.RunLister
	Ping(ctx context.Context) error
}

type txManager interface {
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type App struct {
	Config  config.Config
	Logger  *slog.Logger
	Router  http.Handler
	Payroll *payroll.Service
	Jobs    *jobs.Service

	cancel  context.CancelFunc
	closers []func()
}

// Close stops the job workers and releases the store.
func (a *App) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.New(cfg.LogLevel, cfg.LogFormat)
	}
	app := &App{Config: cfg, Logger: logger}

	var (
		store storeBackend
		tx    txManager
		keys  idempotency.Store
	)
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		mem := memory.New()
		store, tx, keys = mem, mem, idempotency.NewMemory()
	default:
		if cfg.RunMigrations {
			if err := db.Migrate(cfg.DatabaseURL); err != nil {
				return nil, fmt.Errorf("migrations failed: %w", err)
			}
		}
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("db connect failed: %w", err)
		}
		app.closers = append(app.closers, pool.Close)
		pg := postgres.New(pool)
		store, tx, keys = pg, db.NewTransactionManager(pool), pg
	}

	table := payroll.DefaultRateTable()
	if cfg.RateTablePath != "" {
		loaded, err := payroll.LoadRateTableFile(cfg.RateTablePath)
		if err != nil {
			app.Close()
			return nil, err
		}
		table = loaded
	}
	calc, err := payroll.NewCalculator(table)
	if err != nil {
		app.Close()
		return nil, err
	}

	collector := metrics.New()
	auditSvc := audit.New(store)
	coreSvc := core.NewService(store)
	leaveSvc := leave.NewService(store)
	payrollSvc := payroll.NewService(store, store, leaveSvc, calc,
		payroll.WithTransactionManager(tx),
		payroll.WithAudit(auditSvc),
		payroll.WithLogger(logger),
	)
	adjustmentSvc := adjustment.NewService(store, store,
		adjustment.WithTransactionManager(tx),
		adjustment.WithAudit(auditSvc),
		adjustment.WithLogger(logger),
	)
	terminationSvc := termination.NewService(store, store, calc,
		termination.WithTransactionManager(tx),
		termination.WithAudit(auditSvc),
		termination.WithLogger(logger),
	)

	jobCtx, cancel := context.WithCancel(context.Background())
	app.cancel = cancel
	jobsSvc := jobs.New(store, cfg.JobQueueSize, logger)
	jobsSvc.Observe(collector.RecordJob)
	jobsSvc.Start(jobCtx)

	app.Payroll = payrollSvc
	app.Jobs = jobsSvc

	perms := auth.StaticPermissions{}
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))
	router.Use(chimw.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", middleware.IdempotencyHeader},
			ExposedHeaders: []string{middleware.RequestIDHeader},
			MaxAge:         300,
		}))
	}
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Metrics(collector))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			http.Error(w, "store not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, collector.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		corehandler.NewHandler(coreSvc, leaveSvc, perms).RegisterRoutes(r)
		payrollhandler.NewHandler(payrollSvc, perms, keys, collector, cfg.CompanyName).RegisterRoutes(r)
		adjustmentshandler.NewHandler(adjustmentSvc, perms).RegisterRoutes(r)
		terminationshandler.NewHandler(terminationSvc, perms, keys).RegisterRoutes(r)
		audithandler.NewHandler(auditSvc, perms).RegisterRoutes(r)
		synchandler.NewHandler(payrollSvc, jobsSvc, store, perms).RegisterRoutes(r)
	})

	app.Router = router
	return app, nil
}

func Run() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "error", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("server listening", "addr", cfg.Addr, "store", cfg.StoreDriver)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server failed", "error", err)
	}
}
