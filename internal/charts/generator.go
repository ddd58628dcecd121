package charts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"investcharts/internal/budget"
	"investcharts/internal/config"
	"investcharts/internal/currency"
	"investcharts/internal/logger"
	"investcharts/internal/models"
	"investcharts/internal/performance"
	"investcharts/internal/projection"
	"investcharts/internal/scenario"
	"investcharts/internal/theme"
)

// Options are the defaults a ChartGenerator falls back to when a dataset
// leaves a value unset
type Options struct {
	Theme      theme.Theme
	FireTarget float64
	Inflation  float64
	Years      int
	Width      int
	Height     int
	Now        func() time.Time
}

// OptionsFromConfig takes the projection defaults, chart size and theme
// overrides from cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Theme:      theme.Lookup(theme.MapSource(cfg.ThemeOverrides())),
		FireTarget: cfg.FireTarget,
		Inflation:  cfg.Inflation,
		Years:      cfg.ProjectionYears,
		Width:      cfg.ChartWidth,
		Height:     cfg.ChartHeight,
	}
}

// Dashboard is everything built from one dataset
type Dashboard struct {
	Range       performance.Range
	Charts      []*Config
	Stages      []projection.Stage
	Summary     projection.Summary
	Outlook     projection.Outlook
	Amounts     scenario.Amounts
	Budget      *budget.Summary
	Performance performance.Overview
	Wallets     []performance.WalletMetrics
}

// Chart returns the chart with the given name, or nil.
func (d *Dashboard) Chart(name string) *Config {
	for _, c := range d.Charts {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChartGenerator builds and renders the dashboard charts
type ChartGenerator struct {
	outputDir string
	opts      Options
	log       *logger.Logger
}

// NewChartGenerator creates a new chart generator
func NewChartGenerator(outputDir string, opts Options) *ChartGenerator {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Years <= 0 {
		opts.Years = 5
	}
	if opts.Theme == (theme.Theme{}) {
		opts.Theme = theme.Default()
	}
	return &ChartGenerator{
		outputDir: outputDir,
		opts:      opts,
		log:       logger.Component("charts"),
	}
}

// Theme is the theme charts are built with.
func (cg *ChartGenerator) Theme() theme.Theme {
	return cg.opts.Theme
}

// Build computes the projection and budget figures of ds and returns the
// full set of dashboard charts. Charts with nothing to show are left out.
func (cg *ChartGenerator) Build(ds *models.Dataset) (*Dashboard, error) {
	return cg.BuildRange(ds, performance.RangeAll)
}

// BuildRange is Build with the portfolio balance and budget charts limited
// to rng.
func (cg *ChartGenerator) BuildRange(ds *models.Dataset, rng performance.Range) (*Dashboard, error) {
	if ds == nil {
		return nil, fmt.Errorf("no dataset")
	}
	if rng == "" {
		rng = performance.RangeAll
	}
	conv := currency.NewConverter(ds.Rates)
	th := cg.opts.Theme
	now := cg.opts.Now()
	d := &Dashboard{Range: rng}

	points, err := performance.Aggregate(ds.Wallets, conv)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate wallets: %w", err)
	}
	if d.Wallets, err = performance.CompareWallets(ds.Wallets, conv); err != nil {
		return nil, fmt.Errorf("failed to compare wallets: %w", err)
	}
	if cfg := PortfolioBalance(performance.Balances(points, rng, now), rng, th); cfg != nil {
		d.Charts = append(d.Charts, cfg)
	}

	for i := range ds.Wallets {
		w := &ds.Wallets[i]
		if len(w.Snapshots) == 0 {
			continue
		}
		d.Charts = append(d.Charts, WalletBalanceDeposits(w, th))

		s := w.Series()
		earnings, err := WalletEarnings(walletName(NameWalletEarnings, w), s.Dates, s.Balances, s.Deposits, th)
		if err != nil {
			return nil, fmt.Errorf("wallet %s: %w", w.Name, err)
		}
		earnings.Title = w.Name + ": earnings"
		d.Charts = append(d.Charts, earnings)
	}

	summary, err := projection.Summarize(ds.Wallets, conv, now)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize wallets: %w", err)
	}
	d.Summary = summary

	inflation := cg.opts.Inflation
	if ds.Inflation != nil {
		inflation = *ds.Inflation
	}
	d.Performance = performance.Summarize(points, decimal.NewFromFloat(inflation))
	monthlyReturn := summary.MonthlyReturn(inflation)
	d.Outlook = summary.NextYear(inflation)

	savings := ds.MonthlySavings.InexactFloat64()
	if savings <= 0 {
		savings = summary.AvgMonthlyDeposit
	}
	years := ds.Years
	if years <= 0 {
		years = cg.opts.Years
	}

	d.Amounts = scenario.Calculate(summary.AvgMonthlyDeposit, savings)
	p := projection.Project(projection.Input{
		CurrentBalance:       summary.Balance.InexactFloat64(),
		AvgMonthlyInvestment: summary.AvgMonthlyDeposit,
		MonthlySavings:       savings,
		MonthlyReturn:        monthlyReturn,
		Years:                years,
	})
	d.Charts = append(d.Charts, FireProjection(p, d.Amounts, th))

	target := ds.FireTarget
	if !target.IsPositive() {
		target = decimal.NewFromFloat(cg.opts.FireTarget)
	}
	if target.IsPositive() {
		d.Stages = projection.Stages(target, summary.Balance, summary.AvgMonthlyDeposit, monthlyReturn)
	}

	if len(ds.Wallets) > 0 {
		for _, g := range []GroupBy{GroupByCurrency, GroupByRiskLevel, GroupByWallet} {
			cfg, err := AssetAllocation(ds.Wallets, conv, g, th)
			if err != nil {
				return nil, fmt.Errorf("failed to build allocation by %s: %w", g, err)
			}
			d.Charts = append(d.Charts, cfg)
		}
	}

	agg := budget.NewAggregator(ds.BudgetEntries)
	if start, end, ok := budgetWindow(agg, rng, now); ok {
		d.Charts = append(d.Charts, BudgetIncomeExpense(agg.MonthlyIncomeExpense(start, end), th))
		if cfg := CategoryTrends(agg.CategoryTrends(start, end).ByCategory(), th); cfg != nil {
			d.Charts = append(d.Charts, cfg)
		}
		bs := agg.Summary(start, end)
		d.Budget = &bs
	}

	for _, h := range ds.Strategies {
		cfg, err := StrategyHistory(h, th)
		if err != nil {
			return nil, err
		}
		d.Charts = append(d.Charts, cfg)
	}

	if cfg := MonthlyReturns(performance.MonthlyReturns(points), th); cfg != nil {
		d.Charts = append(d.Charts, cfg)
	}

	for _, c := range d.Charts {
		if cg.opts.Width > 0 {
			c.Style.Width = cg.opts.Width
		}
		if cg.opts.Height > 0 && c.Kind != KindHeatmap {
			c.Style.Height = cg.opts.Height
		}
	}

	cg.log.Info("Built dashboard charts", map[string]interface{}{
		"charts":  len(d.Charts),
		"wallets": len(ds.Wallets),
		"stages":  len(d.Stages),
		"range":   string(rng),
	})
	return d, nil
}

// budgetWindow clips the span of the budget entries to rng.
func budgetWindow(agg *budget.Aggregator, rng performance.Range, now time.Time) (time.Time, time.Time, bool) {
	start, end, ok := agg.Span()
	if !ok || rng == performance.RangeAll {
		return start, end, ok
	}
	from, to := rng.Window(now, models.Date{Time: start})
	if from.After(start) {
		start = from.Time
	}
	if to.Before(end) {
		end = to.Time
	}
	return start, end, !start.After(end)
}

// GenerateCharts renders every dashboard chart with r into the output
// directory as <name>.<ext> and returns the written paths. A chart that
// fails to render is logged and skipped.
func (cg *ChartGenerator) GenerateCharts(ctx context.Context, d *Dashboard, r Renderer, ext string) ([]string, error) {
	if err := os.MkdirAll(cg.outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var chartFiles []string
	for _, cfg := range d.Charts {
		if err := ctx.Err(); err != nil {
			return chartFiles, err
		}

		path := filepath.Join(cg.outputDir, cfg.Name+"."+ext)
		if err := cg.renderFile(ctx, r, cfg, path); err != nil {
			cg.log.Warn("Failed to render chart", map[string]interface{}{
				"chart": cfg.Name,
				"error": err.Error(),
			})
			continue
		}
		chartFiles = append(chartFiles, path)
	}
	return chartFiles, nil
}

func (cg *ChartGenerator) renderFile(ctx context.Context, r Renderer, cfg *Config, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Draw(ctx, r, cfg, f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

// GenerateSnippets renders every dashboard chart as an embeddable echarts
// snippet.
func (cg *ChartGenerator) GenerateSnippets(d *Dashboard, r *EChartsRenderer) ([]ChartSnippet, error) {
	snippets := make([]ChartSnippet, 0, len(d.Charts))
	for _, cfg := range d.Charts {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid chart %q: %w", cfg.Name, err)
		}
		s, err := r.Snippet(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to render chart %q: %w", cfg.Name, err)
		}
		snippets = append(snippets, s)
	}
	return snippets, nil
}
