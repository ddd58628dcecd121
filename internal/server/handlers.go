package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"investcharts/internal/charts"
	"investcharts/internal/performance"
	"investcharts/internal/scenario"
	"investcharts/internal/storage"
)

// ScenarioRequest is the body of POST /scenario
type ScenarioRequest struct {
	MonthlyInvestment float64 `json:"monthlyInvestment"`
	MonthlySavings    float64 `json:"monthlySavings"`
}

// ScenarioResponse carries the scenario amounts and their legend captions
type ScenarioResponse struct {
	Amounts scenario.Amounts `json:"amounts"`
	Labels  scenario.Labels  `json:"labels"`
}

// DashboardResponse describes a stored dashboard
type DashboardResponse struct {
	Folder string   `json:"folder"`
	URL    string   `json:"url"`
	Files  []string `json:"files"`
}

// HandleRoot redirects to the latest stored dashboard
func (s *Server) HandleRoot(w http.ResponseWriter, r *http.Request) {
	latest, err := s.latestDashboards(r.Context(), 1)
	if err != nil || len(latest) == 0 {
		if err != nil {
			s.log.Warn("Failed to look up dashboards", map[string]interface{}{"error": err.Error()})
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, initialPage)
		return
	}
	http.Redirect(w, r, fileURL(latest[0], "index.html"), http.StatusFound)
}

// HandleHealth provides health check endpoint
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": s.Now().UTC().Format(time.RFC3339),
		"storage":   s.Config.DeploymentMode,
	})
}

// HandleScenario computes the scenario amounts for a savings budget
func (s *Server) HandleScenario(w http.ResponseWriter, r *http.Request) {
	var req ScenarioRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid scenario request: %w", err))
		return
	}
	amounts := scenario.Calculate(req.MonthlyInvestment, req.MonthlySavings)
	writeJSON(w, http.StatusOK, ScenarioResponse{Amounts: amounts, Labels: amounts.Labels()})
}

// HandleChart renders one dashboard chart of the posted dataset, as an HTML
// page (default) or a PNG image.
func (s *Server) HandleChart(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "html"
	}
	if format != "html" && format != "png" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("unsupported format %q", format))
		return
	}
	rng, err := performance.ParseRange(r.URL.Query().Get("range"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	ds, err := decodeDataset(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	d, err := s.ChartGen.BuildRange(ds, rng)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	cfg := d.Chart(name)
	if cfg == nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("chart %q not found", name))
		return
	}

	var buf bytes.Buffer
	switch format {
	case "png":
		if err := charts.Draw(r.Context(), s.PNG, cfg, &buf); err != nil {
			s.log.Error("Failed to render chart", err, map[string]interface{}{"chart": name})
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		w.Header().Set("Content-Type", storage.GetContentType(".png"))
	default:
		snippet, err := s.ECharts.Snippet(cfg)
		if err != nil {
			s.log.Error("Failed to render chart", err, map[string]interface{}{"chart": name})
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		page, err := s.HTMLGen.GenerateHTML(s.chartPage(cfg, snippet))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		buf.WriteString(page)
		w.Header().Set("Content-Type", storage.GetContentType(".html"))
	}
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// HandleDashboard renders the full dashboard of the posted dataset and
// stores it. Only one generation runs at a time.
func (s *Server) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if !s.generateMutex.TryLock() {
		s.log.Warn("Dashboard generation already in progress, rejecting new request")
		writeJSON(w, http.StatusConflict, map[string]interface{}{
			"error":   "Dashboard generation already in progress",
			"message": "Another dashboard is currently being generated. Please retry when it completes.",
			"status":  "conflict",
		})
		return
	}
	defer s.generateMutex.Unlock()

	rng, err := performance.ParseRange(r.URL.Query().Get("range"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	ds, err := decodeDataset(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	ctx := r.Context()
	files, err := s.FileGen.GenerateAllFiles(ctx, ds, rng, r.URL.Query().Get("title"), s.Now())
	if err != nil {
		s.log.Error("Dashboard generation failed", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	stored, err := s.Orchestrator.StoreAllFiles(ctx, files)
	if err != nil {
		s.log.Error("Failed to store dashboard", err, map[string]interface{}{"folder": files.FolderPath})
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.log.Info("Dashboard generated", map[string]interface{}{
		"folder": files.FolderPath,
		"files":  len(stored),
	})
	writeJSON(w, http.StatusCreated, DashboardResponse{
		Folder: files.FolderPath,
		URL:    fileURL(files.FolderPath, "index.html"),
		Files:  stored,
	})
}

// HandleListDashboards lists stored dashboards, newest first
func (s *Server) HandleListDashboards(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > 100 {
		limit = 100
	}

	folders, err := s.latestDashboards(r.Context(), limit)
	if err != nil {
		s.log.Error("Failed to list dashboards", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if folders == nil {
		folders = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"dashboards": folders,
		"count":      len(folders),
		"timestamp":  s.Now().UTC().Format(time.RFC3339),
	})
}

// HandleFileProxy serves stored files from local storage or GCS
func (s *Server) HandleFileProxy(w http.ResponseWriter, r *http.Request) {
	filePath, err := storage.CleanPath(chi.URLParam(r, "*"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	data, err := s.Storage.GetFile(r.Context(), filePath)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, fmt.Errorf("file %s not found", filePath))
		return
	}
	if err != nil {
		s.log.Error("Failed to get file from storage", err, map[string]interface{}{"path": filePath})
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", storage.GetContentType(filePath))
	w.Write(data)
}
