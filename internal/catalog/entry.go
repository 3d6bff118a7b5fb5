package catalog

import "strings"

// Group names one of the four skill/tool categories.
type Group string

const (
	Management  Group = "management"
	Proficiency Group = "proficiency"
	OpsDesign   Group = "ops_design"
	DevTech     Group = "dev_tech"
)

// SkillGroups lists the skill groups in display order.
var SkillGroups = []Group{Management, Proficiency, OpsDesign, DevTech}

// Entry is one record in the catalog: a skill, tool, project or experience.
type Entry struct {
	ID          string   `toml:"id" yaml:"id" json:"id"`
	Name        string   `toml:"name" yaml:"name" json:"name"`
	Description string   `toml:"description" yaml:"description" json:"description,omitempty"`
	Projects    []string `toml:"projects" yaml:"projects" json:"projects,omitempty"`
	Experience  []string `toml:"experience" yaml:"experience" json:"experience,omitempty"`
}

// Relationship is an undirected semantic link between two skill ids.
type Relationship struct {
	Source string `toml:"source" yaml:"source" json:"source"`
	Target string `toml:"target" yaml:"target" json:"target"`
}

// Slug derives a stable id from a display name: lower case, runs of
// anything other than letters and digits collapsed to a single dash.
func Slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
