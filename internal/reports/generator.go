package reports

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"investcharts/internal/budget"
	"investcharts/internal/config"
	"investcharts/internal/logger"
	"investcharts/internal/performance"
	"investcharts/internal/projection"
	"investcharts/internal/theme"
)

// Page is the content of one dashboard page
type Page struct {
	Title       string
	Notes       string        // markdown
	Charts      template.HTML // chart snippets or images
	Theme       theme.Theme
	Summary     *projection.Summary
	Outlook     *projection.Outlook
	Budget      *budget.Summary
	Stages      []projection.Stage
	Range       performance.Range
	Performance *performance.Overview
	Wallets     []performance.WalletMetrics
	GeneratedAt time.Time
}

// Generator handles dashboard HTML generation
type Generator struct {
	templateLoader *TemplateLoader
	log            *logger.Logger
}

// NewGenerator creates a new report generator
func NewGenerator() *Generator {
	return &Generator{
		templateLoader: NewTemplateLoader(),
		log:            logger.Component("reports"),
	}
}

// GenerateHTML renders the dashboard page: summary cards, markdown notes,
// FIRE stages and charts.
func (g *Generator) GenerateHTML(p Page) (string, error) {
	if p.Title == "" {
		p.Title = "Investment dashboard"
	}
	if p.GeneratedAt.IsZero() {
		p.GeneratedAt = time.Now()
	}

	data := TemplateData{
		Title:       p.Title,
		GeneratedAt: p.GeneratedAt.Format("2006-01-02 15:04:05 MST"),
		Version:     config.GetVersion(),
		Colors:      cssColors(p.Theme),
		Range:       string(p.Range),
		Cards:       buildCards(p),
		Wallets:     buildWalletRows(p.Wallets),
		Stages:      buildStageRows(p.Stages),
		Charts:      p.Charts,
	}
	if p.Notes != "" {
		data.Notes = template.HTML(g.MarkdownToHTML(p.Notes))
	}

	page, err := g.executeTemplate(data)
	if err != nil {
		return "", err
	}

	g.log.Debugf("Generated dashboard HTML (%d characters)", len(page))
	return page, nil
}

// MarkdownToHTML converts markdown to HTML. Raw HTML in the input is
// dropped.
func (g *Generator) MarkdownToHTML(markdownText string) string {
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse([]byte(markdownText))

	htmlFlags := html.CommonFlags | html.HrefTargetBlank | html.SkipHTML
	opts := html.RendererOptions{Flags: htmlFlags}
	renderer := html.NewRenderer(opts)

	return string(markdown.Render(doc, renderer))
}

// executeTemplate executes the HTML template with the provided data
func (g *Generator) executeTemplate(data TemplateData) (string, error) {
	htmlTemplate, err := g.templateLoader.LoadHTMLTemplate()
	if err != nil {
		return "", fmt.Errorf("failed to load HTML template: %w", err)
	}

	tmpl, err := template.New("dashboard").Parse(htmlTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}
