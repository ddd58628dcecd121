// Package theme resolves the colours charts are styled with.
package theme

import (
	"os"
	"strings"
)

// CSS custom properties a theme is read from
const (
	VarTextPrimary   = "--invest-text-primary"
	VarTextSecondary = "--invest-text-secondary"
	VarGrid          = "--invest-grid"
	VarSurface       = "--invest-surface"
)

// Dark-theme fallbacks
const (
	DefaultTextPrimary   = "#e8eaed"
	DefaultTextSecondary = "#9aa0a6"
	DefaultGrid          = "rgba(255, 255, 255, 0.1)"
	DefaultSurface       = "#1f2123"
)

// Series colours shared by the dashboards
const (
	Blue       = "rgba(54, 162, 235, 1)"
	BlueFill   = "rgba(54, 162, 235, 0.2)"
	Orange     = "rgb(241, 175, 85)"
	DarkBorder = "rgb(58, 49, 49)"
	Green      = "rgba(75, 192, 120, 1)"
	Red        = "rgba(255, 99, 132, 1)"
	Gray       = "rgba(160, 160, 160, 1)"
)

// Source looks up the computed value of a CSS custom property.
type Source interface {
	Lookup(name string) (string, bool)
}

// MapSource is a Source backed by a map, e.g. config overrides.
type MapSource map[string]string

// Lookup implements Source.
func (m MapSource) Lookup(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// EnvSource reads properties from environment variables, mapping
// --invest-text-primary to INVEST_TEXT_PRIMARY.
type EnvSource struct{}

// Lookup implements Source.
func (EnvSource) Lookup(name string) (string, bool) {
	key := strings.ToUpper(strings.ReplaceAll(strings.TrimLeft(name, "-"), "-", "_"))
	return os.LookupEnv(key)
}

// Theme is the set of colours a chart is styled with
type Theme struct {
	TextPrimary   string `json:"textPrimary"`
	TextSecondary string `json:"textSecondary"`
	Grid          string `json:"grid"`
	Surface       string `json:"surface"`
}

// Default returns the dark theme.
func Default() Theme {
	return Theme{
		TextPrimary:   DefaultTextPrimary,
		TextSecondary: DefaultTextSecondary,
		Grid:          DefaultGrid,
		Surface:       DefaultSurface,
	}
}

// Lookup resolves a theme from src. Missing or blank properties fall back to
// the dark theme. A nil src yields Default.
func Lookup(src Source) Theme {
	t := Default()
	if src == nil {
		return t
	}
	resolve(src, VarTextPrimary, &t.TextPrimary)
	resolve(src, VarTextSecondary, &t.TextSecondary)
	resolve(src, VarGrid, &t.Grid)
	resolve(src, VarSurface, &t.Surface)
	return t
}

func resolve(src Source, name string, dst *string) {
	if v, ok := src.Lookup(name); ok {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
}
