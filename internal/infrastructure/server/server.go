package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"runtime"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	httpapi "github.com/GriffinCanCode/browserctl/internal/api/http"
	grpcapi "github.com/GriffinCanCode/browserctl/internal/api/grpc"
	"github.com/GriffinCanCode/browserctl/internal/api/middleware"
	"github.com/GriffinCanCode/browserctl/internal/api/ws"
	"github.com/GriffinCanCode/browserctl/internal/domain/browser"
	"github.com/GriffinCanCode/browserctl/internal/infrastructure/config"
	"github.com/GriffinCanCode/browserctl/internal/infrastructure/logging"
	"github.com/GriffinCanCode/browserctl/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/browserctl/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/browserctl/internal/platform"
)

// Deps are the environment adapters the controller drives. Zero fields
// are filled with the real implementations for the running OS.
type Deps struct {
	Platform browser.Platform
	Spawner  browser.Spawner
	Remover  browser.ProfileRemover
}

// Server wraps the HTTP and gRPC servers and their dependencies
type Server struct {
	config     *config.Config
	logger     *logging.Logger
	metrics    *monitoring.Metrics
	tracer     *tracing.Tracer
	hub        *browser.Hub
	controller *browser.Controller
	router     *gin.Engine
	httpServer *http.Server
	grpcServer *grpc.Server
}

// NewServer creates a server for the current OS.
func NewServer(cfg *config.Config) (*Server, error) {
	return NewServerWithDeps(cfg, Deps{})
}

// NewServerWithDeps creates a server with the given adapters.
func NewServerWithDeps(cfg *config.Config, deps Deps) (*Server, error) {
	logger, err := newLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}

	if deps.Platform == nil {
		p, err := newPlatform(cfg.Browser, logger)
		if err != nil {
			return nil, err
		}
		deps.Platform = p
	}
	if deps.Spawner == nil {
		deps.Spawner = platform.NewSpawner()
	}
	if deps.Remover == nil {
		deps.Remover = platform.NewRemover()
	}

	logger.Info("Initializing browserctl server",
		zap.String("platform", deps.Platform.Name()),
		zap.String("http_addr", cfg.HTTPAddr()),
		zap.Bool("grpc_enabled", cfg.Server.GRPCEnabled),
		zap.Bool("reap_on_exit", cfg.Browser.ReapOnExit),
	)

	metrics := monitoring.NewMetrics()
	tracer := tracing.New("browserctl", logger.Named("trace").Logger)
	hub := browser.NewHub(64)

	controller := browser.NewController(deps.Platform, deps.Spawner, deps.Remover).
		WithLogger(logger.Named("controller")).
		WithMetrics(metrics).
		WithEvents(hub).
		WithReapOnExit(cfg.Browser.ReapOnExit)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig().WithOrigins(cfg.CORS.Origins)))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed", "code": "method_not_allowed"})
	})
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found", "code": "not_found"})
	})

	handlers := httpapi.NewHandlers(controller, httpapi.Options{
		Platform: deps.Platform.Name(),
		Metrics:  metrics,
		Tracer:   tracer,
		Logger:   logger.Named("http"),
		Timeout:  cfg.Browser.OperationTimeout,
	})
	handlers.Register(router)

	wsHandler := ws.NewHandler(hub, controller, logger.Named("events"))
	router.GET("/api/events", wsHandler.HandleConnection)

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	s := &Server{
		config:     cfg,
		logger:     logger,
		metrics:    metrics,
		tracer:     tracer,
		hub:        hub,
		controller: controller,
		router:     router,
		httpServer: &http.Server{
			Addr:    cfg.HTTPAddr(),
			Handler: router,
		},
	}

	if cfg.Server.GRPCEnabled {
		s.grpcServer = grpc.NewServer(grpc.UnaryInterceptor(tracing.GRPCUnaryInterceptor(tracer)))
		grpcapi.RegisterBrowserControllerServer(s.grpcServer,
			grpcapi.NewServer(controller, logger.Named("grpc"), cfg.Browser.OperationTimeout))
	}

	logger.Info("Server initialized successfully")
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Controller returns the browser controller.
func (s *Server) Controller() *browser.Controller {
	return s.controller
}

// Run serves HTTP, and gRPC when enabled, until ctx is cancelled or a
// listener fails. It shuts everything down before returning.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 2)

	go func() {
		s.logger.Info("Starting HTTP server", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	if s.grpcServer != nil {
		lis, err := net.Listen("tcp", s.config.GRPCAddr())
		if err != nil {
			_ = s.httpServer.Close()
			return fmt.Errorf("listen grpc: %w", err)
		}
		go func() {
			s.logger.Info("Starting gRPC server", zap.String("addr", lis.Addr().String()))
			if err := s.grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				errCh <- fmt.Errorf("grpc server: %w", err)
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
		s.logger.Error("Server failed", zap.Error(runErr))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()
	return errors.Join(runErr, s.Shutdown(shutdownCtx))
}

// Shutdown stops accepting requests, terminates every managed browser and
// flushes telemetry.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	var errs []error
	if err := s.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if s.grpcServer != nil {
		stopped := make(chan struct{})
		go func() {
			s.grpcServer.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-ctx.Done():
			s.grpcServer.Stop()
		}
	}

	if err := s.controller.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("browser shutdown: %w", err))
	}
	s.hub.Close()
	s.tracer.Close()

	_ = s.logger.Sync()
	return errors.Join(errs...)
}

func newLogger(cfg config.LogConfig) (*logging.Logger, error) {
	logger, err := logging.New(logging.Config{Level: cfg.Level, Development: cfg.Development})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}

func newPlatform(cfg config.BrowserConfig, logger *logging.Logger) (*platform.Strategy, error) {
	catalog := platform.DefaultCatalog(runtime.GOOS)
	if cfg.Catalog != "" {
		c, err := platform.LoadCatalog(cfg.Catalog, catalog)
		if err != nil {
			return nil, err
		}
		catalog = c
		logger.Info("Browser catalog loaded", zap.String("path", cfg.Catalog))
	}

	p, err := platform.New(runtime.GOOS, catalog, cfg.Home, platform.ExecRunner{})
	if err != nil {
		return nil, fmt.Errorf("failed to create platform: %w", err)
	}
	return p, nil
}
