package render

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"

	"github.com/msalah0e/skillgraph/internal/graph"
	"github.com/msalah0e/skillgraph/internal/panel"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// HTMLRenderer renders a self-contained page with an SVG snapshot, a
// legend and one detail card per node.
type HTMLRenderer struct {
	tmpl *template.Template
}

// NewHTMLRenderer parses the embedded page template.
func NewHTMLRenderer() (*HTMLRenderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/page.html.tmpl")
	if err != nil {
		return nil, err
	}
	return &HTMLRenderer{tmpl: tmpl}, nil
}

type legendItem struct {
	Name  string
	Color string
}

// Render builds the page for g. svg is inlined as-is.
func (r *HTMLRenderer) Render(title string, svg []byte, idx *graph.Index, g *graph.Graph) (string, error) {
	graphJSON, err := json.Marshal(g)
	if err != nil {
		return "", err
	}

	cards := make([]panel.Details, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		cards = append(cards, panel.Build(idx, g, n))
	}
	var legend []legendItem
	for _, k := range legendEntries(g) {
		legend = append(legend, legendItem{Name: k.Badge(), Color: k.Color()})
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, map[string]any{
		"Title":         title,
		"SVG":           template.HTML(svg),
		"GraphData":     template.JS(graphJSON),
		"Legend":        legend,
		"Cards":         cards,
		"Stats":         g.GetStats(),
		"NoConnections": panel.NoConnections,
	}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
