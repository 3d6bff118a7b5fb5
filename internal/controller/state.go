package controller

// Tab selects the detail panel view.
type Tab string

const (
	TabConnections Tab = "connections"
	TabDetails     Tab = "details"
)

// ViewState is every user-visible flag of the widget. The controller owns
// it; the renderer and detail panel only read it.
type ViewState struct {
	Selected      string  `json:"selected,omitempty" toml:"selected"`
	Hovered       string  `json:"hovered,omitempty" toml:"hovered"`
	ShowAllLabels bool    `json:"show_all_labels" toml:"show_all_labels"`
	ShowExtended  bool    `json:"show_extended" toml:"show_extended"`
	Spacing       float64 `json:"spacing" toml:"spacing"`
	Zoom          float64 `json:"zoom" toml:"zoom"`
	Fullscreen    bool    `json:"fullscreen" toml:"fullscreen"`
	PanelOpen     bool    `json:"panel_open" toml:"panel_open"`
	PanelTab      Tab     `json:"panel_tab" toml:"panel_tab"`
	Width         float64 `json:"width" toml:"width"`
	Height        float64 `json:"height" toml:"height"`
}

// IsSelected reports whether id is the selected node.
func (v *ViewState) IsSelected(id string) bool {
	return id != "" && v.Selected == id
}

// IsHovered reports whether id is the hovered node.
func (v *ViewState) IsHovered(id string) bool {
	return id != "" && v.Hovered == id
}

// IsFocused reports whether id is selected or hovered.
func (v *ViewState) IsFocused(id string) bool {
	return v.IsSelected(id) || v.IsHovered(id)
}
