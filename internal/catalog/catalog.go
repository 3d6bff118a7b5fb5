package catalog

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyID     = errors.New("catalog entry has neither id nor name")
	ErrDuplicateID = errors.New("duplicate catalog id")
	ErrReservedID  = errors.New("catalog id may not contain ':'")
)

// Source is the static input the graph is built from. It is read-only once
// constructed and safe to share between goroutines.
type Source struct {
	Management  []Entry
	Proficiency []Entry
	OpsDesign   []Entry
	DevTech     []Entry
	Projects    []Entry
	Experience  []Entry

	Relationships []Relationship

	// Lookups keyed by id.
	Descriptions    map[string]string
	SkillProjects   map[string][]string
	SkillExperience map[string][]string
}

// Document mirrors the on-disk layout of a catalog file.
type Document struct {
	Management   []Entry        `toml:"management" yaml:"management"`
	Proficiency  []Entry        `toml:"proficiency" yaml:"proficiency"`
	OpsDesign    []Entry        `toml:"ops_design" yaml:"ops_design"`
	DevTech      []Entry        `toml:"dev_tech" yaml:"dev_tech"`
	Project      []Entry        `toml:"project" yaml:"project"`
	Experience   []Entry        `toml:"experience" yaml:"experience"`
	Relationship []Relationship `toml:"relationship" yaml:"relationship"`
}

// Skills returns the entries of one skill group.
func (s *Source) Skills(g Group) []Entry {
	switch g {
	case Management:
		return s.Management
	case Proficiency:
		return s.Proficiency
	case OpsDesign:
		return s.OpsDesign
	case DevTech:
		return s.DevTech
	}
	return nil
}

// Get returns the entry with the given id from any group.
func (s *Source) Get(id string) (Entry, bool) {
	for _, list := range s.lists() {
		for _, e := range list {
			if e.ID == id {
				return e, true
			}
		}
	}
	return Entry{}, false
}

// Len returns the number of entries across all groups.
func (s *Source) Len() int {
	n := 0
	for _, list := range s.lists() {
		n += len(list)
	}
	return n
}

func (s *Source) lists() [][]Entry {
	return [][]Entry{s.Management, s.Proficiency, s.OpsDesign, s.DevTech, s.Projects, s.Experience}
}

// New assembles a Source from parsed documents applied in order. Entries
// with the same id in the same group replace earlier ones in place; the
// same id in two different groups is an error. Missing ids are derived
// from the name with Slug.
func New(docs ...Document) (*Source, error) {
	var merged Document
	for _, d := range docs {
		merged.Management = overlay(merged.Management, d.Management)
		merged.Proficiency = overlay(merged.Proficiency, d.Proficiency)
		merged.OpsDesign = overlay(merged.OpsDesign, d.OpsDesign)
		merged.DevTech = overlay(merged.DevTech, d.DevTech)
		merged.Project = overlay(merged.Project, d.Project)
		merged.Experience = overlay(merged.Experience, d.Experience)
		merged.Relationship = append(merged.Relationship, d.Relationship...)
	}

	s := &Source{
		Management:    merged.Management,
		Proficiency:   merged.Proficiency,
		OpsDesign:     merged.OpsDesign,
		DevTech:       merged.DevTech,
		Projects:      merged.Project,
		Experience:    merged.Experience,
		Relationships: merged.Relationship,
	}
	if err := s.index(); err != nil {
		return nil, err
	}
	return s, nil
}

// overlay appends entries to base, replacing any with a matching id.
func overlay(base, add []Entry) []Entry {
	out := append([]Entry(nil), base...)
	pos := make(map[string]int, len(out))
	for i := range out {
		pos[entryID(out[i])] = i
	}
	for _, e := range add {
		id := entryID(e)
		if i, ok := pos[id]; ok && id != "" {
			out[i] = e
			continue
		}
		pos[id] = len(out)
		out = append(out, e)
	}
	return out
}

func entryID(e Entry) string {
	if id := strings.TrimSpace(e.ID); id != "" {
		return id
	}
	return Slug(e.Name)
}

// index fills derived ids and names and builds the id lookups.
func (s *Source) index() error {
	seen := make(map[string]bool)
	s.Descriptions = make(map[string]string)
	s.SkillProjects = make(map[string][]string)
	s.SkillExperience = make(map[string][]string)

	for gi, list := range s.lists() {
		for i := range list {
			e := &list[i]
			e.ID = entryID(*e)
			if e.ID == "" {
				return fmt.Errorf("%w (group %d, position %d)", ErrEmptyID, gi, i)
			}
			if strings.Contains(e.ID, ":") {
				return fmt.Errorf("%w: %s", ErrReservedID, e.ID)
			}
			if seen[e.ID] {
				return fmt.Errorf("%w: %s", ErrDuplicateID, e.ID)
			}
			seen[e.ID] = true
			if e.Name == "" {
				e.Name = e.ID
			}
			if e.Description != "" {
				s.Descriptions[e.ID] = e.Description
			}
			if gi < len(SkillGroups) {
				if len(e.Projects) > 0 {
					s.SkillProjects[e.ID] = e.Projects
				}
				if len(e.Experience) > 0 {
					s.SkillExperience[e.ID] = e.Experience
				}
			}
		}
	}
	return nil
}
