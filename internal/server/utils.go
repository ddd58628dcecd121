package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"sort"
	"strings"

	"investcharts/internal/charts"
	"investcharts/internal/models"
	"investcharts/internal/reports"
)

const initialPage = `<!DOCTYPE html>
<html><head><title>investcharts</title></head>
<body><h1>No dashboards yet</h1><p>POST a dataset to /dashboard to generate one.</p></body></html>`

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]interface{}{
		"error":  err.Error(),
		"status": http.StatusText(status),
	})
}

// decodeDataset reads a JSON dataset from the request body, or TOML when
// the content type says so.
func decodeDataset(r *http.Request) (*models.Dataset, error) {
	if r.Body == nil {
		return nil, fmt.Errorf("missing dataset body")
	}
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("missing dataset body")
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if strings.HasSuffix(mediaType, "toml") {
		return models.ParseDatasetTOML(data)
	}
	return models.ParseDatasetJSON(data)
}

func fileURL(folder, name string) string {
	return "/files/" + path.Join(folder, name)
}

// latestDashboards returns up to limit dashboard folders, newest first.
// Folder names embed the generation time, so lexical order is time order.
func (s *Server) latestDashboards(ctx context.Context, limit int) ([]string, error) {
	files, err := s.Storage.ListDir(ctx, "", true)
	if err != nil {
		return nil, err
	}
	var folders []string
	for _, f := range files {
		if path.Base(f) == "index.html" && path.Dir(f) != "." {
			folders = append(folders, path.Dir(f))
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(folders)))
	if len(folders) > limit {
		folders = folders[:limit]
	}
	return folders, nil
}

func (s *Server) chartPage(cfg *charts.Config, snippet charts.ChartSnippet) reports.Page {
	return reports.Page{
		Title:       cfg.Title,
		Charts:      s.ChartHTML.BuildSnippetsHTML([]charts.ChartSnippet{snippet}),
		Theme:       s.ChartGen.Theme(),
		GeneratedAt: s.Now(),
	}
}
