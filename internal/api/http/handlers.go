package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/browserctl/internal/domain/browser"
	"github.com/GriffinCanCode/browserctl/internal/infrastructure/logging"
	"github.com/GriffinCanCode/browserctl/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/browserctl/internal/infrastructure/tracing"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	controller browser.Service
	platform   string
	metrics    *monitoring.Metrics
	tracer     *tracing.Tracer
	logger     *logging.Logger
	timeout    time.Duration
}

// Options configures optional handler dependencies.
type Options struct {
	Platform string
	Metrics  *monitoring.Metrics
	Tracer   *tracing.Tracer
	Logger   *logging.Logger
	// Timeout bounds every controller call. Zero means no deadline.
	Timeout time.Duration
}

// NewHandlers creates a new handler set
func NewHandlers(controller browser.Service, opts Options) *Handlers {
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	return &Handlers{
		controller: controller,
		platform:   opts.Platform,
		metrics:    opts.Metrics,
		tracer:     opts.Tracer,
		logger:     opts.Logger,
		timeout:    opts.Timeout,
	}
}

// Register mounts the browser endpoints on r.
func (h *Handlers) Register(r gin.IRouter) {
	methods := []string{http.MethodGet, http.MethodPost}

	r.GET("/health", h.Health)

	api := r.Group("/api")
	api.Match(methods, "/start", h.Start)
	api.Match(methods, "/stop", h.Stop)
	api.Match(methods, "/geturl", h.GetURL)
	api.Match(methods, "/cleanup", h.Cleanup)
	api.GET("/status", h.Status)
}

// request carries the browser parameters from the query string, a form or
// a JSON body.
type request struct {
	Browser string `form:"browser" json:"browser"`
	URL     string `form:"url" json:"url"`
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	resp := gin.H{
		"status":   "healthy",
		"service":  "browserctl",
		"platform": h.platform,
		"browsers": h.controller.Status(),
	}
	if h.metrics != nil {
		resp["metrics"] = h.metrics.Snapshot()
		resp["uptime_seconds"] = h.metrics.UptimeSeconds()
	}
	c.JSON(http.StatusOK, resp)
}

// Start launches a browser at the requested url
func (h *Handlers) Start(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}
	if req.Browser == "" || req.URL == "" {
		badRequest(c, "browser and url are required")
		return
	}
	kind, ok := h.kind(c, req.Browser)
	if !ok {
		return
	}

	ctx, done := h.begin(c, "browser.launch", kind)
	inst, err := h.controller.Launch(ctx, kind, req.URL)
	done(err)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  kind.DisplayName() + " started successfully",
		"instance": inst,
	})
}

// Stop terminates a running browser
func (h *Handlers) Stop(c *gin.Context) {
	kind, ok := h.requireKind(c)
	if !ok {
		return
	}

	ctx, done := h.begin(c, "browser.terminate", kind)
	err := h.controller.Terminate(ctx, kind)
	done(err)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": kind.DisplayName() + " stopped successfully",
	})
}

// GetURL reads the active address of a running browser
func (h *Handlers) GetURL(c *gin.Context) {
	kind, ok := h.requireKind(c)
	if !ok {
		return
	}

	ctx, done := h.begin(c, "browser.query", kind)
	url, err := h.controller.QueryAddress(ctx, kind)
	done(err)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

// Cleanup resets the default profile of a stopped browser
func (h *Handlers) Cleanup(c *gin.Context) {
	kind, ok := h.requireKind(c)
	if !ok {
		return
	}

	ctx, done := h.begin(c, "browser.reset", kind)
	res, err := h.controller.ResetProfile(ctx, kind)
	done(err)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": kind.DisplayName() + " cleaned up successfully",
		"dirs":    res.Dirs,
		"files":   res.Files,
		"bytes":   res.Bytes,
	})
}

// Status lists every supported browser and its table state
func (h *Handlers) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"browsers": h.controller.Status(),
	})
}

func (h *Handlers) bind(c *gin.Context) (request, bool) {
	var req request
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "invalid parameters: "+err.Error())
		return req, false
	}
	return req, true
}

func (h *Handlers) requireKind(c *gin.Context) (browser.Kind, bool) {
	req, ok := h.bind(c)
	if !ok {
		return "", false
	}
	if req.Browser == "" {
		badRequest(c, "browser parameter is required")
		return "", false
	}
	return h.kind(c, req.Browser)
}

func (h *Handlers) kind(c *gin.Context, name string) (browser.Kind, bool) {
	kind, err := browser.ParseKind(name)
	if err != nil {
		writeError(c, err)
		return "", false
	}
	return kind, true
}

// begin derives the operation context and opens a span. The returned func
// closes both and logs the outcome.
func (h *Handlers) begin(c *gin.Context, name string, kind browser.Kind) (context.Context, func(error)) {
	ctx := c.Request.Context()
	cancel := context.CancelFunc(func() {})
	if h.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
	}

	var span *tracing.Span
	if h.tracer != nil {
		span, ctx = h.tracer.StartSpan(ctx, name)
		span.SetTag("browser", string(kind))
	}

	start := time.Now()
	return ctx, func(err error) {
		cancel()
		if span != nil {
			if err != nil {
				span.SetError(err)
			}
			h.tracer.End(span)
		}
		if err != nil {
			h.logger.Debug("request failed",
				zap.String("op", name),
				zap.String("browser", string(kind)),
				zap.Duration("duration", time.Since(start)),
				zap.Error(err),
			)
		}
	}
}
