package panel

import (
	"strings"
	"testing"

	"github.com/msalah0e/skillgraph/internal/catalog"
	"github.com/msalah0e/skillgraph/internal/graph"
)

func fixture(t *testing.T, extended bool) (*graph.Index, *graph.Graph) {
	t.Helper()
	src, err := catalog.New(catalog.Document{
		Management: []catalog.Entry{
			{Name: "Skill A", Description: "Leads things", Projects: []string{"p1"}, Experience: []string{"e1"}},
			{Name: "Skill B", Projects: []string{"p1"}},
		},
		DevTech:    []catalog.Entry{{Name: "Tool X"}, {Name: "Tool Y"}},
		Project:    []catalog.Entry{{ID: "p1", Description: "First project"}, {ID: "p2"}},
		Experience: []catalog.Entry{{ID: "e1", Name: "Acme: Founder"}},
		Relationship: []catalog.Relationship{
			{Source: "skill-a", Target: "tool-x"},
			{Source: "tool-x", Target: "skill-a"},
			{Source: "skill-b", Target: "tool-x"},
		},
	})
	if err != nil {
		t.Fatalf("catalog.New failed: %v", err)
	}
	b := graph.NewBuilder(src)
	g, _ := b.Build(extended)
	return b.Index(), g
}

func node(t *testing.T, g *graph.Graph, id string) *graph.Node {
	t.Helper()
	n, ok := g.Node(id)
	if !ok {
		t.Fatalf("node %q not in graph", id)
	}
	return n
}

func section(d Details, title string) *Section {
	for i := range d.Connections {
		if d.Connections[i].Title == title {
			return &d.Connections[i]
		}
	}
	return nil
}

func names(s *Section) []string {
	var out []string
	for _, it := range s.Items {
		out = append(out, it.Name)
	}
	return out
}

func TestBuildSkill(t *testing.T) {
	idx, g := fixture(t, false)
	d := Build(idx, g, node(t, g, "skill-a"))

	if d.Name != "Skill A" || d.Badge != "Management Skill" || d.Color != "#3b82f6" {
		t.Errorf("unexpected header: %+v", d)
	}

	conn := section(d, SectionConnected)
	if conn == nil {
		t.Fatal("expected connected section")
	}
	if got := names(conn); len(got) != 1 || got[0] != "Tool X" {
		t.Errorf("expected [Tool X], got %v", got)
	}

	proj := section(d, SectionProjects)
	if proj == nil || len(proj.Items) != 1 || proj.Items[0].Name != "P1" {
		t.Fatalf("expected project P1, got %+v", proj)
	}
	if proj.Items[0].InGraph {
		t.Error("expected project outside the base graph")
	}

	exp := section(d, SectionExperience)
	if exp == nil || exp.Items[0].Name != "Acme" {
		t.Errorf("expected experience Acme, got %+v", exp)
	}

	if d.DetailsText() != "Leads things" {
		t.Errorf("expected description, got %q", d.DetailsText())
	}
}

func TestBuildPortfolioInverseLookup(t *testing.T) {
	idx, g := fixture(t, true)
	d := Build(idx, g, node(t, g, "p1"))

	used := section(d, SectionUsedBy)
	if used == nil {
		t.Fatal("expected referencing skills")
	}
	got := names(used)
	if len(got) != 2 || got[0] != "Skill A" || got[1] != "Skill B" {
		t.Errorf("expected [Skill A Skill B], got %v", got)
	}
	for _, it := range used.Items {
		if !it.InGraph {
			t.Errorf("expected %s in graph", it.ID)
		}
	}
}

func TestBuildCategoryMembers(t *testing.T) {
	idx, g := fixture(t, false)
	d := Build(idx, g, node(t, g, "category:management"))

	if d.Badge != "Category" {
		t.Errorf("expected Category badge, got %q", d.Badge)
	}
	m := section(d, SectionMembers)
	if m == nil {
		t.Fatal("expected members section")
	}
	got := names(m)
	if len(got) != 2 || got[0] != "Skill A" || got[1] != "Skill B" {
		t.Errorf("expected [Skill A Skill B], got %v", got)
	}
}

func TestBuildEmptyStates(t *testing.T) {
	idx, g := fixture(t, true)
	d := Build(idx, g, node(t, g, "p2"))

	if d.HasConnections() {
		t.Errorf("expected no connections, got %+v", d.Connections)
	}
	if d.DetailsText() != NoDetails {
		t.Errorf("expected %q, got %q", NoDetails, d.DetailsText())
	}

	out := Render(d, plain, plain, plain)
	if !strings.Contains(out, NoConnections) {
		t.Errorf("expected empty-state message in:\n%s", out)
	}
}

func TestBuildUnknownNode(t *testing.T) {
	idx, g := fixture(t, false)
	d := Build(idx, g, &graph.Node{ID: "ghost", Name: "Ghost", Kind: graph.KindDevTech})
	if d.HasConnections() {
		t.Errorf("expected no connections for unknown node, got %+v", d.Connections)
	}
}

func plain(s string) string { return s }

func TestRender(t *testing.T) {
	idx, g := fixture(t, false)
	out := Render(Build(idx, g, node(t, g, "tool-x")), plain, plain, plain)

	for _, want := range []string{"● Tool X", "Dev & Tech Tool", NoDetails, SectionConnected + " (2)", "├── Skill A", "└── Skill B"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
}
