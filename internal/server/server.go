package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"investcharts/internal/charts"
	"investcharts/internal/config"
	"investcharts/internal/logger"
	"investcharts/internal/reports"
	"investcharts/internal/storage"
)

// maxBodySize caps dataset uploads.
const maxBodySize = 10 << 20

// Server represents the HTTP chart service
type Server struct {
	Config       *config.Config
	Storage      storage.StorageClient
	ChartGen     *charts.ChartGenerator
	FileGen      *reports.FileGenerator
	Orchestrator *reports.StorageOrchestrator
	ECharts      *charts.EChartsRenderer
	PNG          charts.Renderer
	HTMLGen      *reports.Generator
	ChartHTML    *reports.ChartHTMLBuilder
	Now          func() time.Time

	generateMutex sync.Mutex
	log           *logger.Logger
}

// NewServer creates a server that stores dashboards in client.
func NewServer(cfg *config.Config, client storage.StorageClient) *Server {
	chartGen := charts.NewChartGenerator(cfg.LocalOutputDir, charts.OptionsFromConfig(cfg))
	echarts := charts.NewEChartsRenderer(cfg.ChartAssetsHost)
	return &Server{
		Config:       cfg,
		Storage:      client,
		ChartGen:     chartGen,
		FileGen:      reports.NewFileGenerator(chartGen, echarts),
		Orchestrator: reports.NewStorageOrchestrator(client),
		ECharts:      echarts,
		PNG:          charts.NewPNGRenderer(),
		HTMLGen:      reports.NewGenerator(),
		ChartHTML:    reports.NewChartHTMLBuilder(),
		Now:          time.Now,
		log:          logger.Component("server"),
	}
}

// Routes returns the HTTP handler with all routes registered.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/", s.HandleRoot)
	r.Get("/health", s.HandleHealth)
	r.Post("/scenario", s.HandleScenario)
	r.Post("/charts/{name}", s.HandleChart)
	r.Post("/dashboard", s.HandleDashboard)
	r.Get("/dashboards", s.HandleListDashboards)
	r.Get("/files/*", s.HandleFileProxy)
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:         ":" + s.Config.Port,
		Handler:      s.Routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Server listening", map[string]interface{}{"port": s.Config.Port})
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	s.log.Info("Server stopped")
	return nil
}

// Close cleans up server resources
func (s *Server) Close() error {
	if s.Storage != nil {
		return s.Storage.Close()
	}
	return nil
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug("Request served", map[string]interface{}{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   ww.Status(),
			"duration": time.Since(start).String(),
		})
	})
}
