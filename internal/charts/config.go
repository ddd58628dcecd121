package charts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"

	"investcharts/internal/theme"
)

// Kind is the type of chart a Config describes
type Kind string

const (
	KindLine       Kind = "line"
	KindBar        Kind = "bar"
	KindStackedBar Kind = "stacked-bar"
	KindPie        Kind = "pie"
	KindDoughnut   Kind = "doughnut"
	KindHeatmap    Kind = "heatmap"
)

// Series is one labelled row of values
type Series struct {
	Label  string    `json:"label"`
	Values []float64 `json:"values"`
	Color  string    `json:"color,omitempty"` // line/border colour
	Fill   string    `json:"fill,omitempty"`  // area or bar fill
	Dashed bool      `json:"dashed,omitempty"`
	Stack  string    `json:"stack,omitempty"`
	Colors []string  `json:"colors,omitempty"` // per value, pie and doughnut only
}

// Style carries presentation settings independent of the data
type Style struct {
	Theme       theme.Theme `json:"theme"`
	Width       int         `json:"width"`
	Height      int         `json:"height"`
	Smooth      bool        `json:"smooth,omitempty"`
	BeginAtZero bool        `json:"beginAtZero,omitempty"`
	ValueFormat string      `json:"valueFormat,omitempty"` // fmt verb for value labels
}

// Default chart size in pixels
const (
	DefaultWidth  = 900
	DefaultHeight = 400
)

// Config is a declarative chart description handed to a Renderer.
// Name is stable across renders and identifies the chart; ID is unique per
// build and is used as the DOM element id.
type Config struct {
	Kind   Kind     `json:"kind"`
	Name   string   `json:"name"`
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Labels []string `json:"labels"`
	Series []Series `json:"series"`
	Style  Style    `json:"style"`
}

// Size returns the configured size, falling back to the defaults.
func (c *Config) Size() (int, int) {
	w, h := c.Style.Width, c.Style.Height
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	return w, h
}

// Validate checks that every series lines up with the labels.
func (c *Config) Validate() error {
	switch c.Kind {
	case KindLine, KindBar, KindStackedBar, KindHeatmap:
		for _, s := range c.Series {
			if len(s.Values) != len(c.Labels) {
				return fmt.Errorf("series %q has %d values for %d labels", s.Label, len(s.Values), len(c.Labels))
			}
		}
	case KindPie, KindDoughnut:
		if len(c.Series) != 1 {
			return fmt.Errorf("%s chart needs exactly one series, got %d", c.Kind, len(c.Series))
		}
		if len(c.Series[0].Values) != len(c.Labels) {
			return fmt.Errorf("%s chart has %d values for %d labels", c.Kind, len(c.Series[0].Values), len(c.Labels))
		}
	default:
		return fmt.Errorf("unknown chart kind %q", c.Kind)
	}
	return nil
}

// Renderer draws a chart onto a surface.
type Renderer interface {
	Render(ctx context.Context, cfg *Config, w io.Writer) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(ctx context.Context, cfg *Config, w io.Writer) error

// Render implements Renderer.
func (f RendererFunc) Render(ctx context.Context, cfg *Config, w io.Writer) error {
	return f(ctx, cfg, w)
}

// ErrNoRenderer is returned by Draw when there is a surface but no renderer.
var ErrNoRenderer = errors.New("charts: no renderer")

// Draw renders cfg onto surface with r. A missing surface or config is not
// an error: nothing is drawn and nil is returned.
func Draw(ctx context.Context, r Renderer, cfg *Config, surface io.Writer) error {
	if isNil(surface) || cfg == nil {
		return nil
	}
	if r == nil {
		return ErrNoRenderer
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid %s chart %q: %w", cfg.Kind, cfg.Name, err)
	}
	return r.Render(ctx, cfg, surface)
}

func isNil(w io.Writer) bool {
	if w == nil {
		return true
	}
	v := reflect.ValueOf(w)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}
