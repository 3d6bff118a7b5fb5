// Package panel computes and renders the detail panel for a selected node.
package panel

import (
	"fmt"
	"strings"

	"github.com/msalah0e/skillgraph/internal/graph"
)

// Empty-state messages.
const (
	NoConnections = "No connections available for this node"
	NoDetails     = "No details available for this node"
)

// Section titles.
const (
	SectionProjects   = "Related Projects"
	SectionExperience = "Experience"
	SectionConnected  = "Connected Skills & Tools"
	SectionUsedBy     = "Skills & Tools"
	SectionMembers    = "Members"
)

// Item is one resolved entry in a connections section. InGraph is false
// when the entry is not part of the current graph generation, e.g. a
// project while the extended dataset is hidden.
type Item struct {
	ID      string     `json:"id"`
	Name    string     `json:"name"`
	Kind    graph.Kind `json:"kind"`
	Color   string     `json:"color"`
	InGraph bool       `json:"in_graph"`
}

// Section is a titled list of connections.
type Section struct {
	Title string `json:"title"`
	Items []Item `json:"items"`
}

// Details is everything the panel shows for one node.
type Details struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Title       string     `json:"title,omitempty"`
	Kind        graph.Kind `json:"kind"`
	Badge       string     `json:"badge"`
	Color       string     `json:"color"`
	Connections []Section  `json:"connections"`
	Description string     `json:"description,omitempty"`
}

// HasConnections reports whether any section has an item.
func (d Details) HasConnections() bool {
	for _, s := range d.Connections {
		if len(s.Items) > 0 {
			return true
		}
	}
	return false
}

// DetailsText is the description or the empty-state message.
func (d Details) DetailsText() string {
	if strings.TrimSpace(d.Description) == "" {
		return NoDetails
	}
	return d.Description
}

// Build resolves the panel for n. g is the current generation and only
// decides Item.InGraph; all lookups go through idx, so the panel does not
// depend on layout or on which dataset is shown.
func Build(idx *graph.Index, g *graph.Graph, n *graph.Node) Details {
	d := Details{
		ID:          n.ID,
		Name:        n.Name,
		Title:       n.Title,
		Kind:        n.Kind,
		Badge:       n.Kind.Badge(),
		Color:       n.Kind.Color(),
		Description: n.Description,
	}
	if d.Description == "" {
		d.Description = idx.Description(n.ID)
	}

	section := func(title string, ids []string) {
		if len(ids) == 0 {
			return
		}
		s := Section{Title: title}
		for _, id := range ids {
			s.Items = append(s.Items, resolve(idx, g, id))
		}
		d.Connections = append(d.Connections, s)
	}

	switch {
	case n.Kind.IsSkill():
		section(SectionProjects, idx.Projects(n.ID))
		section(SectionExperience, idx.Experience(n.ID))
		section(SectionConnected, idx.Related(n.ID))
	case n.Kind.IsPortfolio():
		section(SectionUsedBy, idx.ReferencedBy(n.ID))
	case n.Kind.IsCategory():
		section(SectionMembers, idx.Members(n.ID))
	}
	return d
}

func resolve(idx *graph.Index, g *graph.Graph, id string) Item {
	it := Item{ID: id, Name: idx.Name(id)}
	if k, ok := idx.Kind(id); ok {
		it.Kind = k
		it.Color = k.Color()
	}
	if g != nil {
		it.InGraph = g.Has(id)
	}
	return it
}

// Render produces the terminal tree view of d. The style functions colour
// names, secondary text and descriptions.
func Render(d Details, brandFn, subtleFn, infoFn func(string) string) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("  ● %s\n", brandFn(d.Name)))
	b.WriteString(fmt.Sprintf("  │  %s\n", subtleFn(d.Badge)))
	if d.Title != "" && d.Title != d.Name {
		b.WriteString(fmt.Sprintf("  │  %s\n", subtleFn(d.Title)))
	}
	b.WriteString(fmt.Sprintf("  │  %s\n", infoFn("\""+d.DetailsText()+"\"")))
	b.WriteString("  │\n")

	if !d.HasConnections() {
		b.WriteString(fmt.Sprintf("  └── %s\n", subtleFn(NoConnections)))
		return b.String()
	}

	for si, s := range d.Connections {
		last := si == len(d.Connections)-1
		prefix, indent := "  ├── ", "  │   "
		if last {
			prefix, indent = "  └── ", "      "
		}
		b.WriteString(fmt.Sprintf("%s%s %s\n", prefix, brandFn(s.Title), subtleFn(fmt.Sprintf("(%d)", len(s.Items)))))
		for i, it := range s.Items {
			branch := "├── "
			if i == len(s.Items)-1 {
				branch = "└── "
			}
			name := it.Name
			if !it.InGraph {
				name = subtleFn(name)
			}
			b.WriteString(fmt.Sprintf("%s%s%s\n", indent, branch, name))
		}
	}
	return b.String()
}
