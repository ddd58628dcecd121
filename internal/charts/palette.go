package charts

// AllocationPalette is cycled through for pie and doughnut slices
var AllocationPalette = []string{
	"rgba(99, 102, 241, 0.8)",  // indigo
	"rgba(34, 211, 238, 0.8)",  // cyan
	"rgba(16, 185, 129, 0.8)",  // emerald
	"rgba(245, 158, 11, 0.8)",  // amber
	"rgba(239, 68, 68, 0.8)",   // red
	"rgba(139, 92, 246, 0.8)",  // violet
	"rgba(236, 72, 153, 0.8)",  // pink
	"rgba(59, 130, 246, 0.8)",  // blue
	"rgba(168, 162, 158, 0.8)", // stone
	"rgba(251, 191, 36, 0.8)",  // yellow
}

// PaletteColors returns n colours from AllocationPalette, wrapping around.
func PaletteColors(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = AllocationPalette[i%len(AllocationPalette)]
	}
	return out
}

// heatmapColors indexed by level+5
var heatmapColors = [11]string{
	"#b71c1c", "#d32f2f", "#e53935", "#ef5350", "#ef9a9a",
	"#616161",
	"#a5d6a7", "#66bb6a", "#43a047", "#2e7d32", "#1b5e20",
}

// HeatmapLevel buckets a percentage return into -5 (worst) .. +5 (best).
func HeatmapLevel(pct float64) int {
	switch {
	case pct >= 5:
		return 5
	case pct >= 3:
		return 4
	case pct >= 2:
		return 3
	case pct >= 1:
		return 2
	case pct >= 0.5:
		return 1
	case pct >= -0.5:
		return 0
	case pct >= -1:
		return -1
	case pct >= -2:
		return -2
	case pct >= -3:
		return -3
	case pct >= -5:
		return -4
	default:
		return -5
	}
}

// HeatmapColor is the cell colour of a heatmap level.
func HeatmapColor(level int) string {
	if level < -5 {
		level = -5
	}
	if level > 5 {
		level = 5
	}
	return heatmapColors[level+5]
}
