// Package server hosts the recommendation form over HTTP. Every request builds
// a fresh view.Document from the posted fields, lets the controller act on it
// and renders the resulting snapshot as a full page, so the browser needs no
// script. Clients that accept application/json get the results area as JSON.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/goliatone/go-fertform/internal/metrics"
	"github.com/goliatone/go-fertform/pkg/catalog"
	"github.com/goliatone/go-fertform/pkg/controller"
	"github.com/goliatone/go-fertform/pkg/predict"
	"github.com/goliatone/go-fertform/pkg/render"
	"github.com/goliatone/go-fertform/pkg/renderers/page"
	"github.com/goliatone/go-fertform/pkg/view"
)

const shutdownTimeout = 5 * time.Second

// Options wires the host.
type Options struct {
	Predictor predict.Predictor
	// Page renders snapshots. Defaults to page.New() with Catalog.
	Page    *page.Renderer
	Catalog *catalog.Catalog
	Logger  *zap.Logger
	// Metrics, when set, observes controllers and serves /metrics.
	Metrics     *metrics.Recorder
	SubmitLabel string
	BusyLabel   string
	BannerDelay time.Duration
}

// Server is the HTTP host.
type Server struct {
	predictor   predict.Predictor
	page        *page.Renderer
	catalog     *catalog.Catalog
	logger      *zap.Logger
	metrics     *metrics.Recorder
	submitLabel string
	busyLabel   string
	bannerDelay time.Duration
	renderers   *render.Registry
	engine      *gin.Engine
}

// New validates opts and builds the gin engine.
func New(opts Options) (*Server, error) {
	if opts.Predictor == nil {
		return nil, errors.New("server: predictor is required")
	}
	s := &Server{
		predictor:   opts.Predictor,
		page:        opts.Page,
		catalog:     opts.Catalog,
		logger:      opts.Logger,
		metrics:     opts.Metrics,
		submitLabel: opts.SubmitLabel,
		busyLabel:   opts.BusyLabel,
		bannerDelay: opts.BannerDelay,
	}
	if s.catalog == nil {
		s.catalog = catalog.Default()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.bannerDelay <= 0 {
		s.bannerDelay = controller.DefaultBannerDelay
	}
	if s.page == nil {
		renderer, err := page.New(page.WithCatalog(s.catalog), page.WithBannerDelay(s.bannerDelay), page.WithStylesheet(StylesheetURL))
		if err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
		s.page = renderer
	}
	s.renderers = render.NewRegistry()
	s.renderers.MustRegister(render.Func("html", "text/html; charset=utf-8", s.renderPage))
	s.renderers.MustRegister(render.JSON{})

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(requestID(), logging(s.logger), recovery(s.logger))
	if s.metrics != nil {
		engine.Use(instrument(s.metrics))
	}
	s.registerRoutes(engine)
	s.engine = engine
	return s, nil
}

func (s *Server) renderPage(_ context.Context, snap view.Snapshot) ([]byte, error) {
	html, err := s.page.Render(snap)
	if err != nil {
		return nil, err
	}
	return []byte(html), nil
}

// Handler exposes the engine, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              Addr(addr),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

// Addr normalizes a listen address; a bare port gains a leading colon.
func Addr(listen string) string {
	if listen == "" {
		return ":8080"
	}
	if listen[0] == ':' {
		return listen
	}
	for _, r := range listen {
		if r < '0' || r > '9' {
			return listen
		}
	}
	return ":" + listen
}
