package graph

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/msalah0e/skillgraph/internal/catalog"
	"go.uber.org/zap"
)

// WarningCode classifies a data integrity problem found while building.
type WarningCode string

const (
	WarnDanglingRelationship WarningCode = "dangling_relationship"
	WarnSelfRelationship     WarningCode = "self_relationship"
	WarnNonSkillRelationship WarningCode = "non_skill_relationship"
	WarnUnknownProject       WarningCode = "unknown_project"
	WarnUnknownExperience    WarningCode = "unknown_experience"
)

// Warning describes an input record that was dropped. Warnings are never
// fatal.
type Warning struct {
	Code   WarningCode `json:"code"`
	Source string      `json:"source"`
	Target string      `json:"target"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s -> %s", w.Code, w.Source, w.Target)
}

// Builder turns a catalog Source into graphs. The source is validated once
// when the builder is created; each Build call produces a fresh Graph.
type Builder struct {
	src      *catalog.Source
	log      *zap.Logger
	index    *Index
	semantic []catalog.Relationship
	warnings []Warning
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger used for integrity warnings.
func WithLogger(l *zap.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.log = l
		}
	}
}

type groupSpec struct {
	group catalog.Group
	cat   category
	kind  Kind
}

var skillGroups = []groupSpec{
	{catalog.Management, catManagement, KindManagement},
	{catalog.Proficiency, catProficiency, KindProficiency},
	{catalog.OpsDesign, catOpsDesign, KindOpsDesign},
	{catalog.DevTech, catDevTech, KindDevTech},
}

// NewBuilder validates src and prepares the relationship index.
func NewBuilder(src *catalog.Source, opts ...Option) *Builder {
	b := &Builder{src: src, log: zap.NewNop()}
	for _, o := range opts {
		o(b)
	}
	b.validate()
	for _, w := range b.warnings {
		b.log.Warn("dropping catalog reference",
			zap.String("code", string(w.Code)),
			zap.String("source", w.Source),
			zap.String("target", w.Target))
	}
	return b
}

// Index returns the relationship index used by the detail panel.
func (b *Builder) Index() *Index { return b.index }

// Source returns the catalog the builder reads.
func (b *Builder) Source() *catalog.Source { return b.src }

// Warnings returns the integrity warnings found in the source.
func (b *Builder) Warnings() []Warning {
	return append([]Warning(nil), b.warnings...)
}

// validate resolves every reference in the source, recording a warning and
// dropping the reference when it cannot be resolved.
func (b *Builder) validate() {
	idx := newIndex()
	kinds := make(map[string]Kind)

	for _, c := range []category{catManagement, catProficiency, catOpsDesign, catDevTech, catProjects, catExperience} {
		idx.entries[c.ID] = indexEntry{Name: c.Name, Kind: c.Kind, Description: c.Description}
	}
	for _, gs := range skillGroups {
		for _, e := range b.src.Skills(gs.group) {
			kinds[e.ID] = gs.kind
			idx.entries[e.ID] = indexEntry{Name: e.Name, Kind: gs.kind, Description: e.Description}
			idx.members[gs.cat.ID] = append(idx.members[gs.cat.ID], e.ID)
		}
	}
	for _, e := range b.src.Projects {
		kinds[e.ID] = KindProject
		idx.entries[e.ID] = indexEntry{Name: projectName(e), Kind: KindProject, Description: e.Description}
		idx.members[catProjects.ID] = append(idx.members[catProjects.ID], e.ID)
	}
	for _, e := range b.src.Experience {
		kinds[e.ID] = KindExperience
		idx.entries[e.ID] = indexEntry{Name: experienceName(e), Title: e.Name, Kind: KindExperience, Description: e.Description}
		idx.members[catExperience.ID] = append(idx.members[catExperience.ID], e.ID)
	}

	for _, r := range b.src.Relationships {
		sk, sok := kinds[r.Source]
		tk, tok := kinds[r.Target]
		switch {
		case !sok || !tok:
			b.warn(WarnDanglingRelationship, r.Source, r.Target)
		case r.Source == r.Target:
			b.warn(WarnSelfRelationship, r.Source, r.Target)
		case !sk.IsSkill() || !tk.IsSkill():
			b.warn(WarnNonSkillRelationship, r.Source, r.Target)
		default:
			b.semantic = append(b.semantic, r)
			idx.relate(r.Source, r.Target)
		}
	}

	for _, gs := range skillGroups {
		for _, e := range b.src.Skills(gs.group) {
			for _, p := range b.src.SkillProjects[e.ID] {
				if k, ok := kinds[p]; !ok || k != KindProject {
					b.warn(WarnUnknownProject, e.ID, p)
					continue
				}
				idx.addProject(e.ID, p)
			}
			for _, x := range b.src.SkillExperience[e.ID] {
				if k, ok := kinds[x]; !ok || k != KindExperience {
					b.warn(WarnUnknownExperience, e.ID, x)
					continue
				}
				idx.addExperience(e.ID, x)
			}
		}
	}

	b.index = idx
}

func (b *Builder) warn(code WarningCode, source, target string) {
	b.warnings = append(b.warnings, Warning{Code: code, Source: source, Target: target})
}

// Build produces a new graph. The four skill categories are always present;
// showExtended adds the project and experience categories, their records and
// the skill-to-portfolio links. Output depends only on the source and the flag.
func (b *Builder) Build(showExtended bool) (*Graph, []Warning) {
	g := newGraph(showExtended)

	for _, gs := range skillGroups {
		g.add(categoryNode(gs.cat))
	}
	for _, gs := range skillGroups {
		for _, e := range b.src.Skills(gs.group) {
			g.add(&Node{
				ID:                e.ID,
				Name:              e.Name,
				Kind:              gs.kind,
				Color:             gs.kind.Color(),
				Category:          gs.cat.ID,
				Description:       e.Description,
				RelatedProjects:   b.index.Projects(e.ID),
				RelatedExperience: b.index.Experience(e.ID),
			})
			g.Links = append(g.Links, newLink(gs.cat.ID, e.ID, LinkMembership))
		}
	}

	for _, r := range b.semantic {
		g.Links = append(g.Links, newLink(r.Source, r.Target, LinkSemantic))
	}

	if showExtended {
		g.add(categoryNode(catProjects))
		g.add(categoryNode(catExperience))

		for _, e := range b.src.Projects {
			g.add(&Node{
				ID:          e.ID,
				Name:        projectName(e),
				Kind:        KindProject,
				Color:       KindProject.Color(),
				Category:    catProjects.ID,
				Description: e.Description,
			})
			g.Links = append(g.Links, newLink(catProjects.ID, e.ID, LinkMembership))
		}
		for _, e := range b.src.Experience {
			g.add(&Node{
				ID:          e.ID,
				Name:        experienceName(e),
				Title:       e.Name,
				Kind:        KindExperience,
				Color:       KindExperience.Color(),
				Category:    catExperience.ID,
				Description: e.Description,
			})
			g.Links = append(g.Links, newLink(catExperience.ID, e.ID, LinkMembership))
		}

		for _, gs := range skillGroups {
			for _, e := range b.src.Skills(gs.group) {
				for _, p := range b.index.Projects(e.ID) {
					g.Links = append(g.Links, newLink(e.ID, p, LinkPortfolio))
				}
				for _, x := range b.index.Experience(e.ID) {
					g.Links = append(g.Links, newLink(e.ID, x, LinkPortfolio))
				}
			}
		}
	}

	sizeNodes(g)
	return g, b.Warnings()
}

func categoryNode(c category) *Node {
	return &Node{
		ID:          c.ID,
		Name:        c.Name,
		Kind:        c.Kind,
		Color:       c.Kind.Color(),
		Description: c.Description,
	}
}

func newLink(source, target string, kind LinkKind) Link {
	return Link{Source: source, Target: target, Value: kind.Weight(), Kind: kind}
}

const (
	categorySize   = 15
	sizeBase       = 3
	skillCountCap  = 12
	recordCountCap = 10
)

// sizeNodes sets Size from connectivity: every node starts at 1 and gains
// one per link endpoint occurrence.
func sizeNodes(g *Graph) {
	count := make(map[string]int, len(g.Nodes))
	for _, n := range g.Nodes {
		count[n.ID] = 1
	}
	for _, l := range g.Links {
		count[l.Source]++
		count[l.Target]++
	}
	for _, n := range g.Nodes {
		n.Size = SizeFor(n.Kind, count[n.ID])
	}
}

// SizeFor returns the node size for a kind with the given connectivity count.
func SizeFor(k Kind, count int) float64 {
	switch {
	case k.IsCategory():
		return categorySize
	case k.IsPortfolio():
		return float64(sizeBase + min(count, recordCountCap))
	default:
		return float64(sizeBase + min(count, skillCountCap))
	}
}

// projectName title-cases slug ids unless the catalog gives a display name.
func projectName(e catalog.Entry) string {
	if e.Name != "" && e.Name != e.ID {
		return e.Name
	}
	words := strings.Split(e.ID, "-")
	for i, w := range words {
		r := []rune(w)
		if len(r) > 0 {
			r[0] = unicode.ToUpper(r[0])
		}
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// experienceName shows the organisation part of "Org: Role (dates)".
func experienceName(e catalog.Entry) string {
	name, _, _ := strings.Cut(e.Name, ":")
	return strings.TrimSpace(name)
}
