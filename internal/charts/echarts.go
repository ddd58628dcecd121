package charts

import (
	"context"
	"fmt"
	"io"
	"math"
	"regexp"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// funcMarkers delimit JavaScript functions inside go-echarts option JSON.
var funcMarkers = regexp.MustCompile(`(__f__")|("__f__)|(__f__)`)

// EChartsRenderer renders configs as embeddable go-echarts HTML snippets
type EChartsRenderer struct {
	AssetsHost string
}

// NewEChartsRenderer creates a renderer loading echarts from assetsHost.
func NewEChartsRenderer(assetsHost string) *EChartsRenderer {
	return &EChartsRenderer{AssetsHost: assetsHost}
}

// Render writes the complete snippet HTML to w.
func (r *EChartsRenderer) Render(ctx context.Context, cfg *Config, w io.Writer) error {
	snippet, err := r.Snippet(cfg)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, snippet.HTML); err != nil {
		return fmt.Errorf("failed to write %s snippet: %w", cfg.Name, err)
	}
	return nil
}

// Snippet builds the div and initialisation script for cfg.
func (r *EChartsRenderer) Snippet(cfg *Config) (ChartSnippet, error) {
	if err := cfg.Validate(); err != nil {
		return ChartSnippet{}, err
	}

	var optionJSON string
	switch cfg.Kind {
	case KindLine:
		c := r.line(cfg)
		c.Validate()
		optionJSON = string(c.JSONNotEscaped())
	case KindBar, KindStackedBar:
		c := r.bar(cfg)
		c.Validate()
		optionJSON = string(c.JSONNotEscaped())
	case KindPie, KindDoughnut:
		c := r.pie(cfg)
		c.Validate()
		optionJSON = string(c.JSONNotEscaped())
	case KindHeatmap:
		c := r.heatmap(cfg)
		c.Validate()
		optionJSON = string(c.JSONNotEscaped())
	default:
		return ChartSnippet{}, fmt.Errorf("unsupported chart kind %q", cfg.Kind)
	}

	optionJSON = funcMarkers.ReplaceAllString(optionJSON, "")
	return newSnippet(cfg, optionJSON, r.AssetsHost), nil
}

func (r *EChartsRenderer) globalOpts(cfg *Config) []charts.GlobalOpts {
	w, h := cfg.Size()
	th := cfg.Style.Theme
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			Width:           fmt.Sprintf("%dpx", w),
			Height:          fmt.Sprintf("%dpx", h),
			ChartID:         cfg.ID,
			BackgroundColor: th.Surface,
			AssetsHost:      r.AssetsHost,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:      cfg.Title,
			TitleStyle: &opts.TextStyle{Color: th.TextPrimary},
		}),
		charts.WithLegendOpts(opts.Legend{
			Show:      opts.Bool(len(cfg.Series) > 0),
			Top:       "bottom",
			TextStyle: &opts.TextStyle{Color: th.TextSecondary},
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	}
}

func (r *EChartsRenderer) axisOpts(cfg *Config) []charts.GlobalOpts {
	th := cfg.Style.Theme
	yLabel := &opts.AxisLabel{Show: opts.Bool(true), Color: th.TextSecondary}
	if cfg.Style.ValueFormat != "" {
		yLabel.Formatter = opts.FuncOpts(fmt.Sprintf("function(v){return %s;}", jsFormat(cfg.Style.ValueFormat)))
	}
	return []charts.GlobalOpts{
		charts.WithXAxisOpts(opts.XAxis{
			Type:      "category",
			AxisLabel: &opts.AxisLabel{Show: opts.Bool(true), Color: th.TextSecondary},
			SplitLine: &opts.SplitLine{Show: opts.Bool(false)},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:      "value",
			Scale:     opts.Bool(!cfg.Style.BeginAtZero),
			AxisLabel: yLabel,
			SplitLine: &opts.SplitLine{Show: opts.Bool(true), LineStyle: &opts.LineStyle{Color: th.Grid}},
		}),
	}
}

func (r *EChartsRenderer) line(cfg *Config) *charts.Line {
	c := charts.NewLine()
	c.SetGlobalOptions(append(r.globalOpts(cfg), r.axisOpts(cfg)...)...)
	c.SetXAxis(cfg.Labels)

	for _, s := range cfg.Series {
		data := make([]opts.LineData, len(s.Values))
		for i, v := range s.Values {
			data[i] = opts.LineData{Value: jsonValue(v)}
		}

		lineType := "solid"
		if s.Dashed {
			lineType = "dashed"
		}
		seriesOpts := []charts.SeriesOpts{
			charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(cfg.Style.Smooth), Stack: s.Stack}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: s.Color, Width: 2, Type: lineType}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}),
		}
		if s.Fill != "" {
			seriesOpts = append(seriesOpts, charts.WithAreaStyleOpts(opts.AreaStyle{Color: s.Fill}))
		}
		c.AddSeries(s.Label, data, seriesOpts...)
	}
	return c
}

func (r *EChartsRenderer) bar(cfg *Config) *charts.Bar {
	c := charts.NewBar()
	c.SetGlobalOptions(append(r.globalOpts(cfg), r.axisOpts(cfg)...)...)
	c.SetXAxis(cfg.Labels)

	for _, s := range cfg.Series {
		data := make([]opts.BarData, len(s.Values))
		for i, v := range s.Values {
			data[i] = opts.BarData{Value: jsonValue(v)}
		}

		stack := s.Stack
		if cfg.Kind == KindStackedBar && stack == "" {
			stack = "total"
		}
		fill := s.Fill
		if fill == "" {
			fill = s.Color
		}
		c.AddSeries(s.Label, data,
			charts.WithBarChartOpts(opts.BarChart{Stack: stack}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: fill, BorderColor: s.Color}),
		)
	}
	return c
}

func (r *EChartsRenderer) pie(cfg *Config) *charts.Pie {
	c := charts.NewPie()
	global := r.globalOpts(cfg)
	global[len(global)-1] = charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"})
	c.SetGlobalOptions(global...)

	s := cfg.Series[0]
	data := make([]opts.PieData, len(s.Values))
	for i, v := range s.Values {
		d := opts.PieData{Name: cfg.Labels[i], Value: jsonValue(v)}
		if i < len(s.Colors) {
			d.ItemStyle = &opts.ItemStyle{Color: s.Colors[i]}
		}
		data[i] = d
	}

	radius := "70%"
	var pieRadius interface{} = radius
	if cfg.Kind == KindDoughnut {
		pieRadius = []string{"45%", radius}
	}
	c.AddSeries(s.Label, data,
		charts.WithPieChartOpts(opts.PieChart{Radius: pieRadius}),
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Color: cfg.Style.Theme.TextSecondary, Formatter: "{b}: {d}%"}),
	)
	return c
}

func (r *EChartsRenderer) heatmap(cfg *Config) *charts.HeatMap {
	th := cfg.Style.Theme

	years := make([]string, len(cfg.Series))
	var data []opts.HeatMapData
	for y, s := range cfg.Series {
		years[y] = s.Label
		for m, v := range s.Values {
			if math.IsNaN(v) {
				continue
			}
			data = append(data, opts.HeatMapData{Value: [3]interface{}{m, y, math.Round(v*10) / 10}})
		}
	}

	colors := make([]string, 0, len(heatmapColors))
	colors = append(colors, heatmapColors[:]...)

	c := charts.NewHeatMap()
	global := r.globalOpts(cfg)
	global[len(global)-1] = charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"})
	c.SetGlobalOptions(append(global,
		charts.WithXAxisOpts(opts.XAxis{
			Type:      "category",
			Data:      cfg.Labels,
			AxisLabel: &opts.AxisLabel{Show: opts.Bool(true), Color: th.TextSecondary},
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:      "category",
			Data:      years,
			AxisLabel: &opts.AxisLabel{Show: opts.Bool(true), Color: th.TextSecondary},
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(false),
			Min:        -5,
			Max:        5,
			Show:       opts.Bool(false),
			InRange:    &opts.VisualMapInRange{Color: colors},
		}),
	)...)
	c.AddSeries("Return %", data,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Color: th.TextPrimary}),
	)
	return c
}

// jsonValue maps values JSON cannot carry to null.
func jsonValue(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

// jsFormat turns a printf value format such as "%.1f%%" into a JavaScript
// expression over v.
func jsFormat(format string) string {
	digits := 0
	suffix := ""
	if n, err := fmt.Sscanf(format, "%%.%df", &digits); n != 1 || err != nil {
		digits = 0
	}
	if len(format) >= 2 && format[len(format)-2:] == "%%" {
		suffix = "%"
	}
	return fmt.Sprintf("v.toFixed(%d)+'%s'", digits, suffix)
}
