package graph

// Index answers detail-panel questions independently of the current graph
// generation and of layout.
type Index struct {
	entries      map[string]indexEntry
	related      map[string][]string
	projects     map[string][]string
	experience   map[string][]string
	referencedBy map[string][]string
	members      map[string][]string
}

type indexEntry struct {
	Name        string
	Title       string
	Kind        Kind
	Description string
}

func newIndex() *Index {
	return &Index{
		entries:      make(map[string]indexEntry),
		related:      make(map[string][]string),
		projects:     make(map[string][]string),
		experience:   make(map[string][]string),
		referencedBy: make(map[string][]string),
		members:      make(map[string][]string),
	}
}

func appendUnique(list []string, id string) []string {
	for _, x := range list {
		if x == id {
			return list
		}
	}
	return append(list, id)
}

func (x *Index) relate(a, b string) {
	x.related[a] = appendUnique(x.related[a], b)
	x.related[b] = appendUnique(x.related[b], a)
}

func (x *Index) addProject(skill, project string) {
	x.projects[skill] = appendUnique(x.projects[skill], project)
	x.referencedBy[project] = appendUnique(x.referencedBy[project], skill)
}

func (x *Index) addExperience(skill, exp string) {
	x.experience[skill] = appendUnique(x.experience[skill], exp)
	x.referencedBy[exp] = appendUnique(x.referencedBy[exp], skill)
}

func clone(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return append([]string(nil), s...)
}

// Known reports whether id names any catalog record or category.
func (x *Index) Known(id string) bool {
	_, ok := x.entries[id]
	return ok
}

// Name returns the display name for id, or id itself when unknown.
func (x *Index) Name(id string) string {
	if e, ok := x.entries[id]; ok {
		return e.Name
	}
	return id
}

// Title returns the full record title, set for experience entries.
func (x *Index) Title(id string) string {
	return x.entries[id].Title
}

// Kind returns the kind of id.
func (x *Index) Kind(id string) (Kind, bool) {
	e, ok := x.entries[id]
	return e.Kind, ok
}

// Description returns the description of id.
func (x *Index) Description(id string) string {
	return x.entries[id].Description
}

// Related returns the skills sharing a semantic relationship with id,
// without repeats, in catalog order.
func (x *Index) Related(id string) []string { return clone(x.related[id]) }

// Projects returns the valid project ids a skill lists.
func (x *Index) Projects(id string) []string { return clone(x.projects[id]) }

// Experience returns the valid experience ids a skill lists.
func (x *Index) Experience(id string) []string { return clone(x.experience[id]) }

// ReferencedBy returns the skills listing a project or experience id.
func (x *Index) ReferencedBy(id string) []string { return clone(x.referencedBy[id]) }

// Members returns the static member list of a category id.
func (x *Index) Members(categoryID string) []string { return clone(x.members[categoryID]) }
