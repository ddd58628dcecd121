package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"investcharts/internal/charts"
	"investcharts/internal/config"
	"investcharts/internal/logger"
	"investcharts/internal/models"
	"investcharts/internal/performance"
	"investcharts/internal/reports"
)

var (
	renderInput  string
	renderOut    string
	renderFormat string
	renderTitle  string
	renderRange  string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the dashboard of a dataset file into a directory",
	Long: `Render every dashboard chart of a .json or .toml dataset into the output
directory, one file per chart, plus an index.html page linking them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		index, err := renderDashboard(ctx, cfg, renderOptions{
			Input:  renderInput,
			Out:    renderOut,
			Format: renderFormat,
			Title:  renderTitle,
			Range:  renderRange,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), index)
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVarP(&renderInput, "input", "i", "", "dataset file (.json or .toml)")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "./out", "output directory")
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", "html", "chart format: html or png")
	renderCmd.Flags().StringVar(&renderTitle, "title", "", "page title")
	renderCmd.Flags().StringVarP(&renderRange, "range", "r", "ALL", "time range of the balance and budget charts: MTD, YTD, 1Y, 3Y, 5Y or ALL")
	renderCmd.MarkFlagRequired("input")
}

type renderOptions struct {
	Input  string
	Out    string
	Format string
	Title  string
	Range  string
	Now    func() time.Time
}

// renderDashboard writes the charts of opts.Input and an index page into
// opts.Out and returns the index path.
func renderDashboard(ctx context.Context, cfg *config.Config, opts renderOptions) (string, error) {
	log := logger.Component("render")
	if opts.Now == nil {
		opts.Now = time.Now
	}
	rng, err := performance.ParseRange(opts.Range)
	if err != nil {
		return "", err
	}

	ds, err := models.LoadDataset(opts.Input)
	if err != nil {
		return "", err
	}

	chartOpts := charts.OptionsFromConfig(cfg)
	chartOpts.Now = opts.Now
	gen := charts.NewChartGenerator(opts.Out, chartOpts)
	d, err := gen.BuildRange(ds, rng)
	if err != nil {
		return "", err
	}

	chartHTML := reports.NewChartHTMLBuilder()
	page := reports.Page{
		Title:       opts.Title,
		Notes:       ds.Notes,
		Theme:       gen.Theme(),
		Summary:     &d.Summary,
		Outlook:     &d.Outlook,
		Budget:      d.Budget,
		Stages:      d.Stages,
		Range:       d.Range,
		Performance: &d.Performance,
		Wallets:     d.Wallets,
		GeneratedAt: opts.Now(),
	}

	switch opts.Format {
	case "png":
		files, err := gen.GenerateCharts(ctx, d, charts.NewPNGRenderer(), "png")
		if err != nil {
			return "", err
		}
		page.Charts = chartHTML.BuildChartsHTML(files, "")
	case "html":
		echarts := charts.NewEChartsRenderer(cfg.ChartAssetsHost)
		if _, err := gen.GenerateCharts(ctx, d, echarts, "html"); err != nil {
			return "", err
		}
		snippets, err := gen.GenerateSnippets(d, echarts)
		if err != nil {
			return "", err
		}
		page.Charts = chartHTML.BuildSnippetsHTML(snippets)
	default:
		return "", fmt.Errorf("unsupported format %q", opts.Format)
	}

	html, err := reports.NewGenerator().GenerateHTML(page)
	if err != nil {
		return "", err
	}
	index := filepath.Join(opts.Out, "index.html")
	if err := os.WriteFile(index, []byte(html), 0644); err != nil {
		return "", fmt.Errorf("failed to write index page: %w", err)
	}

	log.Info("Rendered dashboard", map[string]interface{}{
		"input":  opts.Input,
		"out":    opts.Out,
		"format": opts.Format,
		"range":  string(rng),
		"charts": len(d.Charts),
	})
	return index, nil
}
