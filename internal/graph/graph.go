package graph

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Node is one vertex of the skill graph. Positions are owned by the
// layout engine, not stored here.
type Node struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Kind              Kind     `json:"kind"`
	Size              float64  `json:"size"`
	Color             string   `json:"color"`
	Category          string   `json:"category,omitempty"`
	Title             string   `json:"title,omitempty"`
	Description       string   `json:"description,omitempty"`
	RelatedProjects   []string `json:"related_projects,omitempty"`
	RelatedExperience []string `json:"related_experience,omitempty"`
}

// LinkKind says which rule produced a link.
type LinkKind int

const (
	LinkMembership LinkKind = iota
	LinkSemantic
	LinkPortfolio
)

// Weight is the layout weight attached to links of this kind.
func (k LinkKind) Weight() float64 {
	switch k {
	case LinkMembership:
		return 1
	case LinkSemantic:
		return 2
	case LinkPortfolio:
		return 1.5
	}
	return 1
}

func (k LinkKind) String() string {
	switch k {
	case LinkMembership:
		return "membership"
	case LinkSemantic:
		return "semantic"
	case LinkPortfolio:
		return "portfolio"
	}
	return fmt.Sprintf("LinkKind(%d)", int(k))
}

// MarshalText encodes the link kind by name.
func (k LinkKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Link is an undirected edge. Source and Target only matter for particle
// direction when rendering.
type Link struct {
	Source string   `json:"source"`
	Target string   `json:"target"`
	Value  float64  `json:"value"`
	Kind   LinkKind `json:"kind"`
}

// Touches reports whether id is either endpoint.
func (l Link) Touches(id string) bool {
	return id != "" && (l.Source == id || l.Target == id)
}

// Other returns the endpoint opposite id.
func (l Link) Other(id string) string {
	if l.Source == id {
		return l.Target
	}
	return l.Source
}

// Graph is one generation of nodes and links. A Graph is never mutated
// after Build returns it.
type Graph struct {
	Nodes    []*Node `json:"nodes"`
	Links    []Link  `json:"links"`
	Extended bool    `json:"extended"`

	byID map[string]*Node
}

func newGraph(extended bool) *Graph {
	return &Graph{Extended: extended, byID: make(map[string]*Node)}
}

func (g *Graph) add(n *Node) {
	g.Nodes = append(g.Nodes, n)
	g.byID[n.ID] = n
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.byID[id]
	return n, ok
}

// Has reports whether a node with the given id exists.
func (g *Graph) Has(id string) bool {
	_, ok := g.byID[id]
	return ok
}

// Members returns the nodes whose category is categoryID, in build order.
func (g *Graph) Members(categoryID string) []*Node {
	var out []*Node
	for _, n := range g.Nodes {
		if n.Category == categoryID {
			out = append(out, n)
		}
	}
	return out
}

// LinksOf returns all links touching id.
func (g *Graph) LinksOf(id string) []Link {
	var out []Link
	for _, l := range g.Links {
		if l.Touches(id) {
			out = append(out, l)
		}
	}
	return out
}

// Stats holds summary counts.
type Stats struct {
	Nodes      int
	Links      int
	Categories int
	Skills     int
	Portfolio  int
	ByKind     map[Kind]int
}

// GetStats returns summary statistics.
func (g *Graph) GetStats() Stats {
	s := Stats{Nodes: len(g.Nodes), Links: len(g.Links), ByKind: make(map[Kind]int)}
	for _, n := range g.Nodes {
		s.ByKind[n.Kind]++
		switch {
		case n.Kind.IsCategory():
			s.Categories++
		case n.Kind.IsSkill():
			s.Skills++
		case n.Kind.IsPortfolio():
			s.Portfolio++
		}
	}
	return s
}

// SearchResult holds a scored search hit.
type SearchResult struct {
	Node  *Node `json:"node"`
	Score int   `json:"score"`
}

// Search finds nodes matching a query string.
// Scored: name(100 exact, 50 partial) > kind(20, 15) > description(10).
func (g *Graph) Search(query string) []SearchResult {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var results []SearchResult

	for _, n := range g.Nodes {
		score := 0
		nameLower := strings.ToLower(n.Name)
		kindLower := strings.ToLower(n.Kind.Badge())

		if nameLower == q || n.ID == q {
			score += 100
		} else if strings.Contains(nameLower, q) || strings.Contains(strings.ToLower(n.Title), q) {
			score += 50
		}

		if kindLower == q || strings.ToLower(n.Kind.String()) == q {
			score += 20
		} else if strings.Contains(kindLower, q) {
			score += 15
		}

		if strings.Contains(strings.ToLower(n.Description), q) {
			score += 10
		}

		if score > 0 {
			results = append(results, SearchResult{Node: n, Score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Node.Name < results[j].Node.Name
	})
	return results
}

// ExportJSON returns the graph as pretty-printed JSON.
func (g *Graph) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(g, "", "  ")
}

// ExportDOT returns the graph in Graphviz DOT format, clustered by category.
func (g *Graph) ExportDOT() string {
	var b strings.Builder
	b.WriteString("graph skillgraph {\n")
	b.WriteString("  layout=neato;\n  overlap=false;\n")
	b.WriteString("  bgcolor=\"#111827\";\n")
	b.WriteString("  node [shape=circle, style=filled, fontcolor=white, fontname=Helvetica];\n\n")

	for _, n := range g.Nodes {
		b.WriteString(fmt.Sprintf("  %q [label=%q, fillcolor=%q, width=%.2f];\n",
			n.ID, n.Name, n.Color, n.Size/15))
	}

	b.WriteString("\n")
	for _, l := range g.Links {
		b.WriteString(fmt.Sprintf("  %q -- %q [penwidth=%.1f, color=\"#ffffff33\"];\n", l.Source, l.Target, l.Value))
	}

	b.WriteString("}\n")
	return b.String()
}
