package charts

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/fogleman/gg"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"investcharts/internal/theme"
)

// HeatmapRenderer draws the monthly returns grid as a PNG with gg.
type HeatmapRenderer struct {
	CellHeight  float64
	LabelWidth  float64
	HeaderSpace float64
}

// NewHeatmapRenderer creates a heatmap renderer with the default layout.
func NewHeatmapRenderer() *HeatmapRenderer {
	return &HeatmapRenderer{CellHeight: 28, LabelWidth: 56, HeaderSpace: 56}
}

// Render implements Renderer. Each series is a row, each label a column.
// NaN values are drawn as empty cells.
func (h *HeatmapRenderer) Render(ctx context.Context, cfg *Config, w io.Writer) error {
	if cfg.Kind != KindHeatmap {
		return fmt.Errorf("heatmap renderer cannot draw %s charts", cfg.Kind)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if len(cfg.Labels) == 0 {
		return fmt.Errorf("heatmap needs at least one column")
	}

	p := newPalette(cfg.Style.Theme)
	width, _ := cfg.Size()
	height := int(h.HeaderSpace + h.CellHeight*float64(len(cfg.Series)) + 12)
	cellW := (float64(width) - h.LabelWidth - 12) / float64(len(cfg.Labels))

	dc := gg.NewContext(width, height)
	dc.SetColor(p.surface)
	dc.Clear()

	dc.SetColor(p.text)
	dc.DrawStringAnchored(cfg.Title, float64(width)/2, 16, 0.5, 0.5)

	dc.SetColor(p.muted)
	for i, label := range cfg.Labels {
		x := h.LabelWidth + cellW*float64(i) + cellW/2
		dc.DrawStringAnchored(label, x, h.HeaderSpace-12, 0.5, 0.5)
	}

	format := cfg.Style.ValueFormat
	if format == "" {
		format = "%.1f"
	}
	empty := theme.MustParseColor(cfg.Style.Theme.Grid, drawing.ColorSilver)

	for row, s := range cfg.Series {
		if err := ctx.Err(); err != nil {
			return err
		}
		y := h.HeaderSpace + h.CellHeight*float64(row)

		dc.SetColor(p.muted)
		dc.DrawStringAnchored(s.Label, h.LabelWidth/2, y+h.CellHeight/2, 0.5, 0.5)

		for col, v := range s.Values {
			x := h.LabelWidth + cellW*float64(col)
			text := "-"
			fill := empty
			if !math.IsNaN(v) {
				text = fmt.Sprintf(format, v)
				fill = theme.MustParseColor(HeatmapColor(HeatmapLevel(v)), empty)
			}

			dc.SetColor(fill)
			dc.DrawRectangle(x+1, y+1, cellW-2, h.CellHeight-2)
			dc.Fill()

			dc.SetColor(p.text)
			dc.DrawStringAnchored(text, x+cellW/2, y+h.CellHeight/2, 0.5, 0.5)
		}
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("failed to encode heatmap: %w", err)
	}
	return nil
}
