package charts

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"investcharts/internal/theme"
)

// maxXTicks bounds the category labels drawn under a line chart
const maxXTicks = 12

// PNGRenderer draws configs as PNG images with go-chart. Heatmaps are drawn
// by the Heatmap renderer.
type PNGRenderer struct {
	Heatmap *HeatmapRenderer
}

// NewPNGRenderer creates a PNG renderer.
func NewPNGRenderer() *PNGRenderer {
	return &PNGRenderer{Heatmap: NewHeatmapRenderer()}
}

// Render implements Renderer.
func (r *PNGRenderer) Render(ctx context.Context, cfg *Config, w io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	var err error
	switch cfg.Kind {
	case KindLine:
		err = r.renderLine(cfg, w)
	case KindBar:
		if len(cfg.Series) == 1 {
			err = r.renderBar(cfg, w)
		} else {
			err = r.renderStacked(cfg, w)
		}
	case KindStackedBar:
		err = r.renderStacked(cfg, w)
	case KindPie, KindDoughnut:
		err = r.renderPie(cfg, w)
	case KindHeatmap:
		hm := r.Heatmap
		if hm == nil {
			hm = NewHeatmapRenderer()
		}
		return hm.Render(ctx, cfg, w)
	default:
		return fmt.Errorf("unsupported chart kind %q", cfg.Kind)
	}
	if err != nil {
		return fmt.Errorf("failed to render %s chart %q: %w", cfg.Kind, cfg.Name, err)
	}
	return nil
}

type palette struct {
	text, muted, grid, surface drawing.Color
}

func newPalette(th theme.Theme) palette {
	def := theme.Default()
	return palette{
		text:    theme.MustParseColor(th.TextPrimary, theme.MustParseColor(def.TextPrimary, drawing.ColorWhite)),
		muted:   theme.MustParseColor(th.TextSecondary, theme.MustParseColor(def.TextSecondary, drawing.ColorSilver)),
		grid:    theme.MustParseColor(th.Grid, theme.MustParseColor(def.Grid, drawing.ColorSilver)),
		surface: theme.MustParseColor(th.Surface, theme.MustParseColor(def.Surface, drawing.ColorBlack)),
	}
}

func (p palette) titleStyle() chart.Style {
	return chart.Style{FontSize: 14, FontColor: p.text}
}

func (p palette) background() chart.Style {
	return chart.Style{
		FillColor: p.surface,
		Padding:   chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
	}
}

func (p palette) axisStyle() chart.Style {
	return chart.Style{FontColor: p.muted, StrokeColor: p.grid, FontSize: 9}
}

func valueFormatter(format string) chart.ValueFormatter {
	if format == "" {
		format = "%.0f"
	}
	return func(v interface{}) string {
		if f, ok := v.(float64); ok {
			return fmt.Sprintf(format, f)
		}
		return fmt.Sprintf("%v", v)
	}
}

func categoryTicks(labels []string) []chart.Tick {
	step := 1
	if len(labels) > maxXTicks {
		step = (len(labels) + maxXTicks - 1) / maxXTicks
	}
	var ticks []chart.Tick
	for i := 0; i < len(labels); i += step {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: labels[i]})
	}
	return ticks
}

func (r *PNGRenderer) renderLine(cfg *Config, w io.Writer) error {
	if len(cfg.Labels) == 0 {
		return fmt.Errorf("line chart has no points")
	}
	single := len(cfg.Labels) == 1
	p := newPalette(cfg.Style.Theme)
	width, height := cfg.Size()

	xs := make([]float64, len(cfg.Labels))
	for i := range xs {
		xs[i] = float64(i)
	}

	series := make([]chart.Series, 0, len(cfg.Series))
	for _, s := range cfg.Series {
		style := chart.Style{
			StrokeColor: theme.MustParseColor(s.Color, drawing.ColorBlue),
			StrokeWidth: 2,
		}
		if s.Fill != "" {
			style.FillColor = theme.MustParseColor(s.Fill, drawing.ColorTransparent)
		}
		if s.Dashed {
			style.StrokeDashArray = []float64{5, 5}
		}
		if single {
			style.FillColor = drawing.ColorTransparent
			style.DotWidth = 4
			style.DotColor = style.StrokeColor
		}
		series = append(series, chart.ContinuousSeries{
			Name:    s.Label,
			Style:   style,
			XValues: xs,
			YValues: s.Values,
		})
	}

	graph := chart.Chart{
		Title:      cfg.Title,
		TitleStyle: p.titleStyle(),
		Width:      width,
		Height:     height,
		Background: p.background(),
		Canvas:     chart.Style{FillColor: p.surface},
		XAxis: chart.XAxis{
			Style: p.axisStyle(),
			Ticks: categoryTicks(cfg.Labels),
		},
		YAxis: chart.YAxis{
			Style:          p.axisStyle(),
			ValueFormatter: valueFormatter(cfg.Style.ValueFormat),
			GridMajorStyle: chart.Style{StrokeColor: p.grid, StrokeWidth: 1},
		},
		Series: series,
	}
	if single {
		graph.XAxis.Range = &chart.ContinuousRange{Min: -0.5, Max: 0.5}
	}
	if cfg.Style.BeginAtZero {
		graph.YAxis.Range = &chart.ContinuousRange{Min: 0, Max: maxValue(cfg.Series)}
	} else if v, flat := flatValue(cfg.Series); flat {
		pad := math.Max(math.Abs(v)*0.1, 1)
		graph.YAxis.Range = &chart.ContinuousRange{Min: v - pad, Max: v + pad}
	}
	if len(series) > 1 {
		graph.Elements = []chart.Renderable{chart.LegendThin(&graph, chart.Style{FontColor: p.muted, FillColor: p.surface, StrokeColor: p.grid})}
	}
	return graph.Render(chart.PNG, w)
}

// flatValue reports whether every finite value of series is the same.
func flatValue(series []Series) (float64, bool) {
	found := false
	var first float64
	for _, s := range series {
		for _, v := range s.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			if !found {
				first, found = v, true
				continue
			}
			if v != first {
				return 0, false
			}
		}
	}
	return first, found
}

func maxValue(series []Series) float64 {
	top := 0.0
	for _, s := range series {
		for _, v := range s.Values {
			if v > top {
				top = v
			}
		}
	}
	if top == 0 {
		top = 1
	}
	return top
}

func (r *PNGRenderer) renderBar(cfg *Config, w io.Writer) error {
	p := newPalette(cfg.Style.Theme)
	width, height := cfg.Size()
	s := cfg.Series[0]

	fill := s.Fill
	if fill == "" {
		fill = s.Color
	}
	style := chart.Style{
		FillColor:   theme.MustParseColor(fill, drawing.ColorBlue),
		StrokeColor: theme.MustParseColor(s.Color, drawing.ColorBlue),
		StrokeWidth: 1,
	}

	bars := make([]chart.Value, len(s.Values))
	for i, v := range s.Values {
		bars[i] = chart.Value{Label: cfg.Labels[i], Value: v, Style: style}
	}

	graph := chart.BarChart{
		Title:      cfg.Title,
		TitleStyle: p.titleStyle(),
		Width:      width,
		Height:     height,
		Background: p.background(),
		Canvas:     chart.Style{FillColor: p.surface},
		XAxis:      p.axisStyle(),
		YAxis: chart.YAxis{
			Style:          p.axisStyle(),
			ValueFormatter: valueFormatter(cfg.Style.ValueFormat),
		},
		BarSpacing: 8,
		Bars:       bars,
	}
	return graph.Render(chart.PNG, w)
}

func (r *PNGRenderer) renderStacked(cfg *Config, w io.Writer) error {
	p := newPalette(cfg.Style.Theme)
	width, height := cfg.Size()

	styles := make([]chart.Style, len(cfg.Series))
	for i, s := range cfg.Series {
		fill := s.Fill
		if fill == "" {
			fill = s.Color
		}
		styles[i] = chart.Style{
			FillColor:   theme.MustParseColor(fill, drawing.ColorBlue),
			StrokeColor: p.surface,
			StrokeWidth: 1,
		}
	}

	bars := make([]chart.StackedBar, len(cfg.Labels))
	for i, label := range cfg.Labels {
		values := make([]chart.Value, len(cfg.Series))
		for j, s := range cfg.Series {
			values[j] = chart.Value{Label: s.Label, Value: s.Values[i], Style: styles[j]}
		}
		bars[i] = chart.StackedBar{Name: label, Values: values}
	}

	graph := chart.StackedBarChart{
		Title:      cfg.Title,
		TitleStyle: p.titleStyle(),
		Width:      width,
		Height:     height,
		Background: p.background(),
		Canvas:     chart.Style{FillColor: p.surface},
		XAxis:      p.axisStyle(),
		YAxis:      p.axisStyle(),
		BarSpacing: 10,
		Bars:       bars,
	}
	return graph.Render(chart.PNG, w)
}

func (r *PNGRenderer) renderPie(cfg *Config, w io.Writer) error {
	p := newPalette(cfg.Style.Theme)
	width, height := cfg.Size()
	s := cfg.Series[0]

	colors := s.Colors
	if len(colors) == 0 {
		colors = PaletteColors(len(s.Values))
	}

	values := make([]chart.Value, len(s.Values))
	for i, v := range s.Values {
		values[i] = chart.Value{
			Label: cfg.Labels[i],
			Value: v,
			Style: chart.Style{
				FillColor:   theme.MustParseColor(colors[i%len(colors)], drawing.ColorBlue),
				StrokeColor: p.surface,
				FontColor:   p.text,
			},
		}
	}

	if cfg.Kind == KindDoughnut {
		graph := chart.DonutChart{
			Title:      cfg.Title,
			TitleStyle: p.titleStyle(),
			Width:      width,
			Height:     height,
			Background: chart.Style{FillColor: p.surface},
			Canvas:     chart.Style{FillColor: p.surface},
			Values:     values,
		}
		return graph.Render(chart.PNG, w)
	}

	graph := chart.PieChart{
		Title:      cfg.Title,
		TitleStyle: p.titleStyle(),
		Width:      width,
		Height:     height,
		Background: chart.Style{FillColor: p.surface},
		Canvas:     chart.Style{FillColor: p.surface},
		Values:     values,
	}
	return graph.Render(chart.PNG, w)
}
