package reports

import (
	"fmt"
	"html/template"
	"path"
	"strings"

	"investcharts/internal/charts"
)

// ChartHTMLBuilder handles chart HTML generation
type ChartHTMLBuilder struct{}

// NewChartHTMLBuilder creates a new chart HTML builder
func NewChartHTMLBuilder() *ChartHTMLBuilder {
	return &ChartHTMLBuilder{}
}

// BuildSnippetsHTML lays out interactive echarts snippets.
func (c *ChartHTMLBuilder) BuildSnippetsHTML(snippets []charts.ChartSnippet) template.HTML {
	if len(snippets) == 0 {
		return template.HTML("<p>No charts available</p>")
	}

	var html strings.Builder
	html.WriteString("<h2>Charts</h2>\n")
	for _, s := range snippets {
		html.WriteString(s.HTML)
		html.WriteString("\n")
	}
	return template.HTML(html.String())
}

// BuildChartsHTML creates HTML for chart images. Images are served through
// /files/ below folderPath; an empty folderPath links them relative to the
// page.
func (c *ChartHTMLBuilder) BuildChartsHTML(chartFiles []string, folderPath string) template.HTML {
	if len(chartFiles) == 0 {
		return template.HTML("<p>No charts available</p>")
	}

	var html strings.Builder
	html.WriteString("<h2>Charts</h2>\n")

	for _, chartFile := range chartFiles {
		filename := path.Base(strings.ReplaceAll(chartFile, "\\", "/"))
		title := ChartTitle(filename)

		imageSrc := filename
		if folderPath != "" {
			imageSrc = fmt.Sprintf("/files/%s/%s", strings.Trim(folderPath, "/"), filename)
		}

		html.WriteString(fmt.Sprintf(`
		<div class="chart-container">
			<h3>%s</h3>
			<img src="%s" alt="%s" class="chart-image">
		</div>
		`, template.HTMLEscapeString(title), template.HTMLEscapeString(imageSrc), template.HTMLEscapeString(title)))
	}

	return template.HTML(html.String())
}

// ChartTitle turns a chart file name such as wallet-balance-etf.png into
// "Wallet Balance Etf".
func ChartTitle(filename string) string {
	title := strings.TrimSuffix(filename, path.Ext(filename))
	title = strings.NewReplacer("-", " ", "_", " ").Replace(title)
	return ToTitleCase(title)
}
