package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"investcharts/internal/budget"
	"investcharts/internal/charts"
	"investcharts/internal/logger"
	"investcharts/internal/models"
	"investcharts/internal/performance"
	"investcharts/internal/projection"
	"investcharts/internal/scenario"
	"investcharts/internal/storage"
)

// GeneratedFiles contains all files generated for a dashboard
type GeneratedFiles struct {
	HTMLContent string
	ChartFiles  map[string][]byte // PNG images by file name
	JSONFiles   map[string][]byte
	FolderPath  string // storage folder for consistency
	Timestamp   time.Time
}

// DashboardData is the computed figures stored next to the page
type DashboardData struct {
	GeneratedAt time.Time                   `json:"generatedAt"`
	Range       performance.Range           `json:"range"`
	Summary     projection.Summary          `json:"summary"`
	Performance performance.Overview        `json:"performance"`
	Wallets     []performance.WalletMetrics `json:"wallets"`
	Outlook     projection.Outlook          `json:"outlook"`
	Amounts     scenario.Amounts            `json:"amounts"`
	Stages      []projection.Stage          `json:"stages"`
	Budget      *budget.Summary             `json:"budget,omitempty"`
	Charts      []string                    `json:"charts"`
}

// FileGenerator handles generation of all dashboard files
type FileGenerator struct {
	chartGen  *charts.ChartGenerator
	echarts   *charts.EChartsRenderer
	png       charts.Renderer
	htmlGen   *Generator
	chartHTML *ChartHTMLBuilder
	log       *logger.Logger
}

// NewFileGenerator creates a new file generator
func NewFileGenerator(chartGen *charts.ChartGenerator, echarts *charts.EChartsRenderer) *FileGenerator {
	return &FileGenerator{
		chartGen:  chartGen,
		echarts:   echarts,
		png:       charts.NewPNGRenderer(),
		htmlGen:   NewGenerator(),
		chartHTML: NewChartHTMLBuilder(),
		log:       logger.Component("files"),
	}
}

// GenerateAllFiles builds the dashboard of ds over rng and renders the
// page, a PNG per chart and dashboard.json. Charts that fail to render as
// PNG are logged and left out.
func (fg *FileGenerator) GenerateAllFiles(ctx context.Context, ds *models.Dataset, rng performance.Range, title string, timestamp time.Time) (*GeneratedFiles, error) {
	files := &GeneratedFiles{
		ChartFiles: make(map[string][]byte),
		JSONFiles:  make(map[string][]byte),
		FolderPath: storage.GenerateDashboardFolderPath(timestamp),
		Timestamp:  timestamp,
	}

	d, err := fg.chartGen.BuildRange(ds, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}

	// 1. Interactive page
	snippets, err := fg.chartGen.GenerateSnippets(d, fg.echarts)
	if err != nil {
		return nil, fmt.Errorf("failed to generate chart snippets: %w", err)
	}
	files.HTMLContent, err = fg.htmlGen.GenerateHTML(Page{
		Title:       title,
		Notes:       ds.Notes,
		Charts:      fg.chartHTML.BuildSnippetsHTML(snippets),
		Theme:       fg.chartGen.Theme(),
		Summary:     &d.Summary,
		Outlook:     &d.Outlook,
		Budget:      d.Budget,
		Stages:      d.Stages,
		Range:       d.Range,
		Performance: &d.Performance,
		Wallets:     d.Wallets,
		GeneratedAt: timestamp,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	// 2. Static images
	for _, cfg := range d.Charts {
		var buf bytes.Buffer
		if err := charts.Draw(ctx, fg.png, cfg, &buf); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			fg.log.Warn("Failed to render chart image", map[string]interface{}{
				"chart": cfg.Name,
				"error": err.Error(),
			})
			continue
		}
		files.ChartFiles[cfg.Name+".png"] = buf.Bytes()
	}

	// 3. Computed figures
	data := DashboardData{
		GeneratedAt: timestamp,
		Range:       d.Range,
		Summary:     d.Summary,
		Performance: d.Performance,
		Wallets:     d.Wallets,
		Outlook:     d.Outlook,
		Amounts:     d.Amounts,
		Stages:      d.Stages,
		Budget:      d.Budget,
	}
	for _, cfg := range d.Charts {
		data.Charts = append(data.Charts, cfg.Name)
	}
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode dashboard data: %w", err)
	}
	files.JSONFiles["dashboard.json"] = raw

	fg.log.Info("Generated dashboard files", map[string]interface{}{
		"folder": files.FolderPath,
		"charts": len(files.ChartFiles),
		"range":  string(d.Range),
	})
	return files, nil
}
