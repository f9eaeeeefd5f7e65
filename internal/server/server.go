package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/specialistvlad/tracegraph/internal/ctxlog"
	"github.com/specialistvlad/tracegraph/internal/graph"
	"github.com/specialistvlad/tracegraph/internal/graphio"
	"github.com/specialistvlad/tracegraph/internal/pipeline"
	"github.com/specialistvlad/tracegraph/internal/telemetry"
	"github.com/specialistvlad/tracegraph/internal/trace"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/time/rate"
)

// GraphIDHeader carries the stored graph id on convert responses.
const GraphIDHeader = "X-Graph-ID"

// Config tunes the HTTP server.
type Config struct {
	Addr string `validate:"required"`
	// ConvertRate is the sustained convert requests per second. Zero disables limiting.
	ConvertRate  float64 `validate:"gte=0"`
	ConvertBurst int     `validate:"gte=0"`
	// MaxTraceBytes caps the request body of a convert call.
	MaxTraceBytes   int64         `validate:"gt=0"`
	ShutdownTimeout time.Duration `validate:"gte=0"`
}

// DefaultConfig returns the settings used by `tracegraph serve`.
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		ConvertRate:     10,
		ConvertBurst:    20,
		MaxTraceBytes:   64 << 20,
		ShutdownTimeout: 5 * time.Second,
	}
}

// Server serves the conversion pipeline over HTTP.
type Server struct {
	cfg      Config
	logger   *slog.Logger
	pipeline *pipeline.Pipeline
	limiter  *rate.Limiter
	engine   *gin.Engine
}

// New builds the server and its routes.
func New(logger *slog.Logger, p *pipeline.Pipeline, cfg Config) *Server {
	if cfg.MaxTraceBytes <= 0 {
		cfg.MaxTraceBytes = DefaultConfig().MaxTraceBytes
	}
	s := &Server{cfg: cfg, logger: logger, pipeline: p}
	if cfg.ConvertRate > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.ConvertRate), max(cfg.ConvertBurst, 1))
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), otelgin.Middleware("tracegraph"), s.requestID(), accessLog())

	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(telemetry.MetricsHandler()))

	v1 := r.Group("/v1")
	v1.POST("/graphs", rateLimit(s.limiter), s.convert)
	v1.GET("/graphs", s.listGraphs)
	v1.GET("/graphs/:id", s.getGraph)
	v1.GET("/metatypes", s.metatypes)

	s.engine = r
	return s
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("🌐 HTTP server starting", "address", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultConfig().ShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	s.logger.Info("🛑 Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	s.logger.Debug("HTTP server shut down gracefully.")
	return nil
}

func (s *Server) health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// traceFormat picks the trace decoder from the request content type.
func traceFormat(contentType string) trace.Format {
	if strings.Contains(contentType, "yaml") {
		return trace.FormatYAML
	}
	return trace.FormatJSON
}

// splitList parses a comma-separated query value, dropping empty items.
func splitList(raw string) []string {
	var out []string
	for item := range strings.SplitSeq(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func (s *Server) convert(c *gin.Context) {
	ctx := c.Request.Context()

	format, err := graphio.ParseFormat(c.Query("format"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxTraceBytes))
	if err != nil {
		abortWithError(c, fmt.Errorf("failed to read trace: %w", err))
		return
	}
	t, err := trace.Decode(body, traceFormat(c.ContentType()))
	if err != nil {
		abortWithError(c, err)
		return
	}

	res, err := s.pipeline.Run(ctx, pipeline.Request{Trace: t, Remove: splitList(c.Query("remove"))})
	if err != nil {
		abortWithError(c, err)
		return
	}
	if res.Cached {
		graphCacheHits.Inc()
	}
	ctxlog.FromContext(ctx).Debug("HTTP: Trace converted.", "graph_id", res.ID, "cached", res.Cached)

	c.Header(GraphIDHeader, res.ID)
	s.render(c, http.StatusOK, res.Graph, format)
}

func (s *Server) listGraphs(c *gin.Context) {
	store := s.pipeline.Store()
	if store == nil {
		c.JSON(http.StatusOK, gin.H{"graphs": []string{}})
		return
	}
	ids, err := store.List(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"graphs": ids})
}

func (s *Server) getGraph(c *gin.Context) {
	format, err := graphio.ParseFormat(c.Query("format"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	store := s.pipeline.Store()
	if store == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, errorResponse{Error: "graph storage is disabled", RequestID: c.GetString(requestIDKey)})
		return
	}
	g, err := store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	s.render(c, http.StatusOK, g, format)
}

func (s *Server) render(c *gin.Context, status int, g *graph.Graph, format graphio.Format) {
	data, err := graphio.Marshal(g, format)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Data(status, format.ContentType(), data)
}
