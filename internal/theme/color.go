package theme

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ParseColor converts a CSS colour (#rgb, #rrggbb, #rrggbbaa, rgb(), rgba()
// or transparent) into a drawing colour usable by the raster renderers.
// Unlike drawing.ParseColor it rejects malformed input.
func ParseColor(s string) (drawing.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	switch {
	case strings.HasPrefix(s, "#"):
		return parseHex(s[1:])
	case strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ")"):
		if err := checkComponents(s[len("rgba("):len(s)-1], 4); err != nil {
			return drawing.Color{}, err
		}
		return drawing.ColorFromRGBA(s), nil
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		if err := checkComponents(s[len("rgb("):len(s)-1], 3); err != nil {
			return drawing.Color{}, err
		}
		return drawing.ColorFromRGB(s), nil
	case s == "transparent":
		return drawing.ColorTransparent, nil
	}
	return drawing.Color{}, fmt.Errorf("unsupported colour %q", s)
}

// MustParseColor is like ParseColor but returns fallback on error.
func MustParseColor(s string, fallback drawing.Color) drawing.Color {
	c, err := ParseColor(s)
	if err != nil {
		return fallback
	}
	return c
}

func parseHex(h string) (drawing.Color, error) {
	if _, err := strconv.ParseUint(h, 16, 64); err != nil {
		return drawing.Color{}, fmt.Errorf("invalid hex colour #%s", h)
	}

	switch len(h) {
	case 3, 6:
		return drawing.ColorFromHex(h), nil
	case 8:
		a, _ := strconv.ParseUint(h[6:], 16, 8)
		return drawing.ColorFromHex(h[:6]).WithAlpha(uint8(a)), nil
	}
	return drawing.Color{}, fmt.Errorf("invalid hex colour #%s", h)
}

func checkComponents(args string, want int) error {
	parts := strings.Split(args, ",")
	if len(parts) != want {
		return fmt.Errorf("expected %d colour components, got %d", want, len(parts))
	}
	for _, p := range parts[:3] {
		v, err := strconv.ParseInt(strings.TrimSpace(p), 10, 16)
		if err != nil || v < 0 || v > 255 {
			return fmt.Errorf("invalid colour component %q", p)
		}
	}
	if want == 4 {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil || a < 0 || a > 1 {
			return fmt.Errorf("invalid alpha %q", parts[3])
		}
	}
	return nil
}
