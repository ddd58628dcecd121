package charts

import (
	"fmt"
	"html"
	"strings"
)

// DefaultAssetsHost serves echarts.min.js for generated snippets
const DefaultAssetsHost = "https://cdn.jsdelivr.net/npm/echarts@5.4.3/dist/"

// ChartSnippet represents an embeddable go-echarts chart fragment.
// Div contains a single root <div id="..." style="..."></div>.
// Script contains the <script>...</script> block that initializes the chart in that div.
// HTML contains the complete snippet with div + script combined for template substitution.
type ChartSnippet struct {
	ID     string
	Name   string
	Title  string
	Div    string
	Script string
	HTML   string
}

// scriptEscaper keeps option JSON from closing the surrounding script
// element. The replacements are valid escapes inside JSON strings.
var scriptEscaper = strings.NewReplacer(
	"<", `\u003c`,
	">", `\u003e`,
	"&", `\u0026`,
	"\u2028", `\u2028`,
	"\u2029", `\u2029`,
)

// newSnippet wraps an echarts option object into an embeddable fragment.
// The script does nothing when the element is missing from the page.
func newSnippet(cfg *Config, optionJSON, assetsHost string) ChartSnippet {
	w, h := cfg.Size()
	if assetsHost == "" {
		assetsHost = DefaultAssetsHost
	}
	if !strings.HasSuffix(assetsHost, "/") {
		assetsHost += "/"
	}

	div := fmt.Sprintf(`<div id="%s" style="width:100%%;max-width:%dpx;height:%dpx;"></div>`, cfg.ID, w, h)
	script := fmt.Sprintf(`<script>(function(){var el=document.getElementById('%s');if(!el)return;var c=echarts.init(el);var option=%s;c.setOption(option);window.addEventListener('resize',function(){c.resize();});})();</script>`,
		cfg.ID, scriptEscaper.Replace(strings.TrimSpace(optionJSON)))

	fragment := fmt.Sprintf(`<script src="%secharts.min.js"></script>
<div class="chart-container">
	<h3>%s</h3>
	%s
</div>
%s`, assetsHost, html.EscapeString(cfg.Title), div, script)

	return ChartSnippet{ID: cfg.ID, Name: cfg.Name, Title: cfg.Title, Div: div, Script: script, HTML: fragment}
}
