package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ezequiel-arevalo/uba-bedelia/internal/attendance"
	"github.com/ezequiel-arevalo/uba-bedelia/internal/config"
	apperrors "github.com/ezequiel-arevalo/uba-bedelia/internal/errors"
	"github.com/ezequiel-arevalo/uba-bedelia/internal/files"
	customMiddleware "github.com/ezequiel-arevalo/uba-bedelia/internal/middleware"
	"github.com/ezequiel-arevalo/uba-bedelia/internal/services"
	"github.com/ezequiel-arevalo/uba-bedelia/internal/storage"
	handlers "github.com/ezequiel-arevalo/uba-bedelia/internal/transport/http"
	"github.com/ezequiel-arevalo/uba-bedelia/internal/validation"
	"github.com/ezequiel-arevalo/uba-bedelia/pkg/contracts"
)

// Application represents the main application container
type Application struct {
	Config   *config.Config
	Paths    *config.Paths
	Logger   *slog.Logger
	Registry *prometheus.Registry
	Files    *files.Manager

	// FileValidator checks attendance files and output directories.
	FileValidator *validation.FileValidator
	Repository    *storage.Repository
	Attendance    *services.AttendanceService
	Health        *services.HealthService
	Router        *chi.Mux
	Server        *http.Server

	errorHandler *apperrors.ErrorHandler
	listener     net.Listener
}

// New wires every component from cfg. Nothing listens until Start.
func New(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if logger == nil {
		logger = slog.Default()
	}

	paths, err := cfg.GetPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to get paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	logger.Debug("application paths",
		slog.String("base_dir", paths.BaseDir),
		slog.String("data_dir", paths.DataDir),
		slog.String("exports_dir", paths.ExportsDir),
		slog.String("logs_dir", paths.LogsDir))

	a := &Application{
		Config: cfg,
		Paths:  paths,
		Logger: logger,
	}
	a.initializeServices()
	a.setupRouter()
	a.createServer()
	return a, nil
}

// initializeServices builds storage, the attendance service and metrics.
func (a *Application) initializeServices() {
	a.Registry = prometheus.NewRegistry()
	a.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	a.Files = files.NewManager(a.Paths)
	a.Repository = storage.NewRepository(storage.NewFileKV(a.Files))

	a.FileValidator = validation.NewFileValidator(a.Logger, a.Config.Server.MaxUploadBytes)

	ac := a.Config.Attendance
	a.Attendance = services.NewAttendanceService(a.Repository,
		services.WithLogger(a.Logger),
		services.WithPolicy(attendance.Policy{
			PassPercentage:      ac.PassPercentage,
			DefaultTotalClasses: ac.DefaultTotalClasses,
		}),
		services.WithValidators(
			validation.NewEntityValidator(ac.MaxTotalClasses),
			a.FileValidator,
		),
		services.WithImportWorkers(ac.ImportWorkers),
		services.WithMetrics(services.NewMetrics(a.Registry)),
	)
	a.Health = services.NewHealthService(a.Paths, a.Repository, a.Logger)
	a.errorHandler = apperrors.NewErrorHandler(a.Logger, a.Config.Server.IncludeStack)
}

func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// RequestID → RealIP → metrics → Logger → Recoverer
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.NewHTTPMetrics(a.Registry).Handler)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.errorHandler))
	r.Use(customMiddleware.SecurityHeaders)
	r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Server.AllowedOrigins,
		Logger:         a.Logger,
	}))

	r.NotFound(a.errorHandler.NotFound)
	r.MethodNotAllowed(a.errorHandler.MethodNotAllowed)

	a.setupAPIRoutes(r)
	r.Handle("/metrics", promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{}))

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	students := handlers.NewStudentsHandler(a.Attendance, a.Logger, a.errorHandler)
	diplomaturas := handlers.NewDiplomaturasHandler(a.Attendance, a.Logger, a.errorHandler)
	sessions := handlers.NewSessionsHandler(a.Attendance, a.Logger, a.errorHandler, a.Config.Server.MaxUploadBytes)
	views := handlers.NewViewsHandler(a.Attendance, a.Logger, a.errorHandler)
	health := handlers.NewHealthHandler(a.Health, a.Logger, a.errorHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(customMiddleware.ContentTypeValidator(a.errorHandler, "application/json", "multipart/form-data"))
		r.Use(customMiddleware.MaxBodySize(a.Config.Server.MaxUploadBytes+handlers.MultipartOverhead, a.errorHandler))

		r.Mount("/health", health.Routes())
		r.Mount("/students", students.Routes())
		r.Mount("/diplomaturas", diplomaturas.Routes())
		r.Mount("/sessions", sessions.Routes())
		r.Mount("/stats", views.StatsRoutes())
		r.Mount("/export", views.ExportRoutes())
	})
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           a.Config.Server.Addr(),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(a.Logger.Handler(), slog.LevelWarn),
	}
}

// Start binds the listen address and serves in the background. Serve
// errors cancel ctx through cancel.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}
	a.listener = ln

	go func() {
		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.Logger.InfoContext(ctx, "desk server started",
		slog.String("version", contracts.Version),
		slog.String("address", "http://"+ln.Addr().String()),
		slog.String("data_dir", a.Paths.DataDir))
	return nil
}

// Addr returns the bound address once Start succeeded.
func (a *Application) Addr() string {
	if a.listener == nil {
		return a.Server.Addr
	}
	return a.listener.Addr().String()
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down desk server")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	a.Logger.InfoContext(ctx, "shutdown complete")
	return nil
}

// Run serves until ctx ends or the process receives SIGINT or SIGTERM.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	<-ctx.Done()
	return a.Stop(ctx)
}
