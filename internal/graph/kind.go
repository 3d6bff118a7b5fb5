package graph

import "fmt"

// Kind is the closed set of node kinds. Every switch over Kind in this
// module is exhaustive.
type Kind int

const (
	KindManagement Kind = iota
	KindProficiency
	KindOpsDesign
	KindDevTech
	KindProject
	KindExperience
	KindCategoryManagement
	KindCategoryProficiency
	KindCategoryOpsDesign
	KindCategoryDevTech
	KindCategoryProject
	KindCategoryExperience
)

// Kinds lists every kind in legend order.
var Kinds = []Kind{
	KindCategoryManagement, KindManagement,
	KindCategoryProficiency, KindProficiency,
	KindCategoryOpsDesign, KindOpsDesign,
	KindCategoryDevTech, KindDevTech,
	KindCategoryProject, KindProject,
	KindCategoryExperience, KindExperience,
}

const fallbackColor = "#6b7280"

func (k Kind) String() string {
	switch k {
	case KindManagement:
		return "management"
	case KindProficiency:
		return "proficiency"
	case KindOpsDesign:
		return "opsDesign"
	case KindDevTech:
		return "devTech"
	case KindProject:
		return "project"
	case KindExperience:
		return "experience"
	case KindCategoryManagement:
		return "categoryManagement"
	case KindCategoryProficiency:
		return "categoryProficiency"
	case KindCategoryOpsDesign:
		return "categoryOpsDesign"
	case KindCategoryDevTech:
		return "categoryDevTech"
	case KindCategoryProject:
		return "categoryProject"
	case KindCategoryExperience:
		return "categoryExperience"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Color returns the #rrggbb fill for the kind. Categories share their
// members' colour.
func (k Kind) Color() string {
	switch k {
	case KindManagement, KindCategoryManagement:
		return "#3b82f6"
	case KindProficiency, KindCategoryProficiency:
		return "#10b981"
	case KindOpsDesign, KindCategoryOpsDesign:
		return "#f59e0b"
	case KindDevTech, KindCategoryDevTech:
		return "#8b5cf6"
	case KindProject, KindCategoryProject:
		return "#ef4444"
	case KindExperience, KindCategoryExperience:
		return "#d946ef"
	}
	return fallbackColor
}

// Badge is the human label shown in the detail panel header.
func (k Kind) Badge() string {
	switch k {
	case KindManagement:
		return "Management Skill"
	case KindProficiency:
		return "Proficiency"
	case KindOpsDesign:
		return "Ops & Design Tool"
	case KindDevTech:
		return "Dev & Tech Tool"
	case KindProject:
		return "Project"
	case KindExperience:
		return "Experience"
	case KindCategoryManagement, KindCategoryProficiency, KindCategoryOpsDesign,
		KindCategoryDevTech, KindCategoryProject, KindCategoryExperience:
		return "Category"
	}
	return "Unknown"
}

// IsCategory reports whether k is one of the category hub kinds.
func (k Kind) IsCategory() bool {
	switch k {
	case KindCategoryManagement, KindCategoryProficiency, KindCategoryOpsDesign,
		KindCategoryDevTech, KindCategoryProject, KindCategoryExperience:
		return true
	case KindManagement, KindProficiency, KindOpsDesign, KindDevTech,
		KindProject, KindExperience:
		return false
	}
	return false
}

// IsSkill reports whether k is a skill or tool kind, the only kinds that
// take part in semantic relationships.
func (k Kind) IsSkill() bool {
	switch k {
	case KindManagement, KindProficiency, KindOpsDesign, KindDevTech:
		return true
	case KindProject, KindExperience,
		KindCategoryManagement, KindCategoryProficiency, KindCategoryOpsDesign,
		KindCategoryDevTech, KindCategoryProject, KindCategoryExperience:
		return false
	}
	return false
}

// IsPortfolio reports whether k is a project or experience kind.
func (k Kind) IsPortfolio() bool {
	return k == KindProject || k == KindExperience
}

// CategoryKind returns the hub kind owning members of kind k. Categories
// return themselves.
func (k Kind) CategoryKind() Kind {
	switch k {
	case KindManagement, KindCategoryManagement:
		return KindCategoryManagement
	case KindProficiency, KindCategoryProficiency:
		return KindCategoryProficiency
	case KindOpsDesign, KindCategoryOpsDesign:
		return KindCategoryOpsDesign
	case KindDevTech, KindCategoryDevTech:
		return KindCategoryDevTech
	case KindProject, KindCategoryProject:
		return KindCategoryProject
	case KindExperience, KindCategoryExperience:
		return KindCategoryExperience
	}
	return k
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *Kind) UnmarshalText(b []byte) error {
	for _, c := range Kinds {
		if c.String() == string(b) {
			*k = c
			return nil
		}
	}
	return fmt.Errorf("unknown node kind %q", string(b))
}

// category describes one hub node.
type category struct {
	ID          string
	Name        string
	Kind        Kind
	Description string
}

var (
	catManagement = category{
		ID: "category:management", Name: "Management Skills", Kind: KindCategoryManagement,
		Description: "Core management skills including strategic planning, business development, and team leadership.",
	}
	catProficiency = category{
		ID: "category:proficiencies", Name: "Proficiencies", Kind: KindCategoryProficiency,
		Description: "Technical and creative proficiencies spanning both software and hardware domains.",
	}
	catOpsDesign = category{
		ID: "category:ops-design", Name: "Ops & Design Tools", Kind: KindCategoryOpsDesign,
		Description: "Tools and platforms used for operations, design, and creative work.",
	}
	catDevTech = category{
		ID: "category:dev-tech", Name: "Dev & Tech Tools", Kind: KindCategoryDevTech,
		Description: "Development tools, frameworks, and technologies used for software and AI projects.",
	}
	catProjects = category{
		ID: "category:projects", Name: "Projects", Kind: KindCategoryProject,
		Description: "Portfolio of projects spanning AI, web development, 3D printing, and more.",
	}
	catExperience = category{
		ID: "category:experience", Name: "Experience", Kind: KindCategoryExperience,
		Description: "Professional roles and responsibilities across various organizations.",
	}
)
