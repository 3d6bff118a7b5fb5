// Package tui is the interactive terminal host for the skill graph.
package tui

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/msalah0e/skillgraph/internal/config"
	"github.com/msalah0e/skillgraph/internal/controller"
	"github.com/msalah0e/skillgraph/internal/graph"
	"github.com/msalah0e/skillgraph/internal/layout"
	"github.com/msalah0e/skillgraph/internal/panel"
	"github.com/msalah0e/skillgraph/internal/render"
	"go.uber.org/zap"
)

const (
	frameRate   = time.Second / 30
	panelWidth  = 40
	headerRows  = 1
	footerRows  = 1
	spacingStep = 10.0
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	infoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	paneStyle   = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
)

type frameMsg time.Time

func frame() tea.Cmd {
	return tea.Tick(frameRate, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// Model is the bubbletea model. It owns one controller and one engine for
// its whole life.
type Model struct {
	ctl   *controller.Controller
	eng   *layout.Engine
	idx   *graph.Index
	rend  *render.Renderer
	host  *termHost
	alt   *altScreen
	keys  keyMap
	help  help.Model
	panel viewport.Model

	width, height int
	cursor        int
}

// New builds the initial graph and wires a controller to the terminal.
func New(b *graph.Builder, cfg *config.Config, log *zap.Logger, rec controller.Recorder) *Model {
	if log == nil {
		log = zap.NewNop()
	}
	g, _ := b.Build(cfg.View.ShowExtended)
	host := newTermHost()
	w, h := host.ContainerSize()
	eng := layout.NewEngine(g, layout.FromConfig(cfg.Layout), w, h, time.Now, layout.WithLogger(log))
	alt := newAltScreen()

	opts := []controller.Option{
		controller.WithConfig(cfg),
		controller.WithHost(host),
		controller.WithFullscreen(alt),
		controller.WithLogger(log),
	}
	if rec != nil {
		opts = append(opts, controller.WithRecorder(rec))
	}
	ctl := controller.New(g, eng, controller.FromBuilder(b), opts...)

	rend := render.New()
	if bg, err := render.ParseColor(cfg.Render.Background); err == nil {
		rend.Background = bg
	}

	m := &Model{
		ctl:   ctl,
		eng:   eng,
		idx:   b.Index(),
		rend:  rend,
		host:  host,
		alt:   alt,
		keys:  defaultKeys(),
		help:  help.New(),
		panel: viewport.New(panelWidth-4, 10),
	}
	ctl.Mount()
	return m
}

// Controller exposes the controller, mainly for tests.
func (m *Model) Controller() *controller.Controller { return m.ctl }

func (m *Model) Init() tea.Cmd {
	return frame()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width

	case frameMsg:
		m.ctl.Frame(time.Time(msg))
		cmds = append(cmds, frame())

	case tea.MouseMsg:
		m.mouse(msg)

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.ctl.Unmount()
			return m, tea.Sequence(append(m.alt.drain(), tea.Quit)...)
		}
		if !m.key(msg) {
			var cmd tea.Cmd
			m.panel, cmd = m.panel.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.relayout()
	m.panel.SetContent(m.panelContent())
	cmds = append(cmds, m.alt.drain()...)
	return m, tea.Batch(cmds...)
}

// key handles one key press and reports whether it was bound.
func (m *Model) key(msg tea.KeyMsg) bool {
	st := m.ctl.State()
	switch {
	case key.Matches(msg, m.keys.Next):
		m.step(1)
	case key.Matches(msg, m.keys.Prev):
		m.step(-1)
	case key.Matches(msg, m.keys.Select):
		if st.Hovered != "" {
			m.ctl.Click(st.Hovered)
		}
	case key.Matches(msg, m.keys.ZoomIn):
		m.ctl.ZoomIn()
	case key.Matches(msg, m.keys.ZoomOut):
		m.ctl.ZoomOut()
	case key.Matches(msg, m.keys.Wider):
		m.ctl.SetSpacing(st.Spacing + spacingStep)
	case key.Matches(msg, m.keys.Tighter):
		m.ctl.SetSpacing(st.Spacing - spacingStep)
	case key.Matches(msg, m.keys.Labels):
		m.ctl.ToggleLabels()
	case key.Matches(msg, m.keys.Extended):
		m.ctl.ToggleExtended()
	case key.Matches(msg, m.keys.Reset):
		m.ctl.ResetView()
	case key.Matches(msg, m.keys.Fullscreen):
		m.ctl.ToggleFullscreen()
	case key.Matches(msg, m.keys.Tab):
		if st.PanelTab == controller.TabDetails {
			m.ctl.SetPanelTab(controller.TabConnections)
		} else {
			m.ctl.SetPanelTab(controller.TabDetails)
		}
	case key.Matches(msg, m.keys.Close):
		m.ctl.ClosePanel()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	default:
		return false
	}
	return true
}

// step moves the hover cursor through nodes in name order.
func (m *Model) step(delta int) {
	order := m.order()
	if len(order) == 0 {
		return
	}
	if cur := m.ctl.State().Hovered; cur != "" {
		for i, id := range order {
			if id == cur {
				m.cursor = i
				break
			}
		}
		m.cursor = (m.cursor + delta + len(order)) % len(order)
	} else if delta < 0 {
		m.cursor = len(order) - 1
	} else {
		m.cursor = 0
	}
	m.ctl.Hover(order[m.cursor])
}

func (m *Model) order() []string {
	g := m.ctl.Graph()
	nodes := append([]*graph.Node(nil), g.Nodes...)
	sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].Name < nodes[j].Name })
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

func (m *Model) mouse(msg tea.MouseMsg) {
	cols, rows := m.canvasSize()
	if msg.X >= cols || msg.Y < headerRows || msg.Y >= headerRows+rows {
		return
	}
	sx := (float64(msg.X) + 0.5) * render.CellW
	sy := (float64(msg.Y-headerRows) + 0.5) * render.CellH
	id, _ := m.eng.NodeAt(sx, sy)

	switch {
	case msg.Action == tea.MouseActionMotion:
		m.ctl.Hover(id)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.ctl.Hover(id)
		if id != "" {
			m.ctl.Click(id)
		}
	}
}

// relayout keeps the host's canvas area in step with the terminal and the
// panel.
func (m *Model) relayout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	cols := m.width
	if m.ctl.State().PanelOpen && cols > panelWidth*2 {
		cols -= panelWidth
	}
	rows := max(1, m.height-headerRows-footerRows)
	if cols != m.host.cols || rows != m.host.rows || m.width != m.host.tcols {
		m.host.resize(cols, rows, m.width, rows)
	}
	m.panel.Width = panelWidth - 4
	m.panel.Height = max(1, rows-2)
}

// canvasSize is the drawn grid: the controller's surface size cropped to
// the rows available.
func (m *Model) canvasSize() (int, int) {
	st := m.ctl.State()
	avail := m.width
	if st.PanelOpen && avail > panelWidth*2 {
		avail -= panelWidth
	}
	cols := int(st.Width / render.CellW)
	rows := int(math.Ceil(st.Height / render.CellH))
	return max(1, min(cols, avail)), max(1, min(rows, m.host.rows))
}

func (m *Model) panelContent() string {
	n, ok := m.ctl.SelectedNode()
	if !ok {
		return ""
	}
	d := panel.Build(m.idx, m.ctl.Graph(), n)
	brand := func(s string) string {
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(d.Color)).Render(s)
	}
	if m.ctl.State().PanelTab == controller.TabDetails {
		body := lipgloss.NewStyle().Width(panelWidth - 6).Render(d.DetailsText())
		return fmt.Sprintf("%s\n%s\n\n%s", brand(d.Name), subtleStyle.Render(d.Badge), infoStyle.Render(body))
	}
	subtle := func(s string) string { return subtleStyle.Render(s) }
	info := func(s string) string { return infoStyle.Render(s) }
	return panel.Render(d, brand, subtle, info)
}

func (m *Model) header() string {
	st := m.ctl.State()
	g := m.ctl.Graph()
	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}
	parts := []string{
		titleStyle.Render("◉ skillgraph"),
		subtleStyle.Render(fmt.Sprintf("%d nodes", len(g.Nodes))),
		subtleStyle.Render(fmt.Sprintf("spacing %.0f", st.Spacing)),
		subtleStyle.Render(fmt.Sprintf("zoom %.2f", st.Zoom)),
		subtleStyle.Render("labels " + onOff(st.ShowAllLabels)),
		subtleStyle.Render("projects " + onOff(st.ShowExtended)),
	}
	if m.eng.Busy() {
		parts = append(parts, subtleStyle.Render("settling"))
	}
	if n, ok := g.Node(st.Hovered); ok {
		parts = append(parts, infoStyle.Render("▸ "+n.Name))
	}
	return strings.Join(parts, "  ")
}

func (m *Model) View() string {
	if m.width == 0 {
		return "\n  Initializing..."
	}
	st := m.ctl.State()
	cols, rows := m.canvasSize()

	cells := render.NewCells(cols, rows)
	m.rend.Draw(cells, render.Scene{Graph: m.ctl.Graph(), Sim: m.eng.Sim(), Camera: m.eng.Camera(), View: &st})
	body := cells.String()
	if st.PanelOpen {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, paneStyle.Render(m.panel.View()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.header(), body, m.help.View(m.keys))
}
