package terminal

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/askelund/geopick/internal/adapter/capture"
	"github.com/askelund/geopick/internal/domain/entity"
	"github.com/askelund/geopick/internal/domain/valueobject"
	"github.com/askelund/geopick/internal/pkg/spatialindex"
)

var (
	landColor   = lipgloss.Color("71")
	accentColor = lipgloss.Color("214")
	dimColor    = lipgloss.AdaptiveColor{Light: "245", Dark: "241"}

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	mapStyle    = lipgloss.NewStyle().Foreground(landColor)
	markerStyle = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	statusStyle = lipgloss.NewStyle().Foreground(dimColor)
)

// model runs the interactive pick. The viewport is the single source for
// both drawing and mouse mapping; pan and zoom replace it wholesale.
type model struct {
	worldMap *entity.WorldMap
	index    *spatialindex.Index

	initial  valueobject.Extent
	viewport valueobject.Extent

	keys keyMap
	help help.Model

	width  int
	height int

	first   *valueobject.Point
	second  *valueobject.Point
	hover   *valueobject.Point
	aborted bool
}

func newModel(req capture.Request) (model, error) {
	index, err := spatialindex.New(req.Map.Landmasses)
	if err != nil {
		return model{}, fmt.Errorf("building spatial index: %w", err)
	}
	return model{
		worldMap: req.Map,
		index:    index,
		initial:  req.Viewport,
		viewport: req.Viewport,
		keys:     defaultKeyMap(),
		help:     help.New(),
	}, nil
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Abort):
			m.aborted = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			m.viewport = panViewport(m.viewport, 0, panFraction, m.initial)
		case key.Matches(msg, m.keys.Down):
			m.viewport = panViewport(m.viewport, 0, -panFraction, m.initial)
		case key.Matches(msg, m.keys.Left):
			m.viewport = panViewport(m.viewport, -panFraction, 0, m.initial)
		case key.Matches(msg, m.keys.Right):
			m.viewport = panViewport(m.viewport, panFraction, 0, m.initial)
		case key.Matches(msg, m.keys.ZoomIn):
			m.viewport = zoomViewport(m.viewport, zoomStep, m.initial)
		case key.Matches(msg, m.keys.ZoomOut):
			m.viewport = zoomViewport(m.viewport, 1/zoomStep, m.initial)
		case key.Matches(msg, m.keys.Reset):
			m.viewport = m.initial
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}

	case tea.MouseMsg:
		return m.handleMouse(tea.MouseEvent(msg))
	}
	return m, nil
}

func (m model) handleMouse(ev tea.MouseEvent) (tea.Model, tea.Cmd) {
	switch {
	case ev.Button == tea.MouseButtonWheelUp:
		m.viewport = zoomViewport(m.viewport, zoomStep, m.initial)
	case ev.Button == tea.MouseButtonWheelDown:
		m.viewport = zoomViewport(m.viewport, 1/zoomStep, m.initial)
	case ev.Action == tea.MouseActionMotion:
		m.hover = m.pointUnder(ev.X, ev.Y)
	case ev.Action == tea.MouseActionPress && ev.Button == tea.MouseButtonLeft:
		pt := m.pointUnder(ev.X, ev.Y)
		if pt == nil {
			return m, nil
		}
		m.hover = pt
		if m.first == nil {
			m.first = pt
			return m, nil
		}
		m.second = pt
		return m, tea.Quit
	}
	return m, nil
}

// pointUnder maps a terminal position to geographic coordinates, or nil
// when the position is outside the map area.
func (m model) pointUnder(x, y int) *valueobject.Point {
	mapW, mapH := m.mapSize()
	cellX, cellY := x, y-1
	if cellX < 0 || cellX >= mapW || cellY < 0 || cellY >= mapH {
		return nil
	}
	proj := newProjection(m.viewport, mapW, mapH)
	pt := proj.pointAt(cellX, cellY)
	return &pt
}

// mapSize is the cell grid left for the map once the header, status and
// help lines are taken. View and mouse handling both rely on it.
func (m model) mapSize() (int, int) {
	helpH := lipgloss.Height(m.helpView())
	w := max(m.width, 8)
	h := max(m.height-2-helpH, 4)
	return w, h
}

func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	mapW, mapH := m.mapSize()

	c := newCanvas(mapW, mapH)
	proj := newProjection(m.viewport, mapW, mapH)
	m.drawMap(c, proj)
	m.drawBand(c, proj)

	header := titleStyle.Render(" geopick · select an extent")
	mapView := m.composeMap(c.rows(), proj)
	status := statusStyle.Render(m.statusLine())

	return lipgloss.JoinVertical(lipgloss.Left, header, mapView, status, m.helpView())
}

func (m model) helpView() string {
	return m.help.View(m.keys)
}

func (m model) drawMap(c *canvas, proj projection) {
	positions, err := m.index.Intersecting(m.viewport)
	if err != nil {
		positions = make([]int, len(m.worldMap.Landmasses))
		for i := range positions {
			positions[i] = i
		}
	}
	for _, pos := range positions {
		lm := m.worldMap.Landmasses[pos]
		rings := make([][][2]int, 0, 1+len(lm.Holes))
		rings = append(rings, projectRing(proj, lm.Outer))
		for _, hole := range lm.Holes {
			rings = append(rings, projectRing(proj, hole))
		}
		c.fillRings(rings)
		for _, ring := range rings {
			drawRing(c, ring)
		}
	}
}

// drawBand rubber-bands the rectangle between the first corner and the
// cursor so the user sees the extent before committing it.
func (m model) drawBand(c *canvas, proj projection) {
	if m.first == nil || m.hover == nil {
		return
	}
	fx, fy := proj.micro(*m.first)
	hx, hy := proj.micro(*m.hover)
	c.rect(fx, fy, hx, hy)
}

// composeMap styles the canvas rows and overlays the first corner marker.
func (m model) composeMap(rows []string, proj projection) string {
	markerRow := -1
	if m.first != nil {
		mx, my := proj.micro(*m.first)
		cx, cy := mx/microPerCellX, my/microPerCellY
		if cy >= 0 && cy < len(rows) {
			r := []rune(rows[cy])
			if cx >= 0 && cx < len(r) {
				rows[cy] = mapStyle.Render(string(r[:cx])) +
					markerStyle.Render("+") +
					mapStyle.Render(string(r[cx+1:]))
				markerRow = cy
			}
		}
	}
	for y := range rows {
		if y != markerRow {
			rows[y] = mapStyle.Render(rows[y])
		}
	}
	return strings.Join(rows, "\n")
}

func (m model) statusLine() string {
	instruction := "click the first corner"
	if m.first != nil {
		instruction = "click the opposite corner"
	}
	parts := []string{instruction}
	if m.hover != nil {
		parts = append(parts, fmt.Sprintf("cursor %.3f, %.3f", m.hover.Lon, m.hover.Lat))
	}
	parts = append(parts, "view "+m.viewport.Vector(valueobject.Precision(3)))
	return " " + strings.Join(parts, " · ")
}

func projectRing(proj projection, ring entity.Ring) [][2]int {
	out := make([][2]int, 0, len(ring))
	for _, pt := range ring {
		x, y := proj.micro(pt)
		out = append(out, [2]int{x, y})
	}
	return out
}

func drawRing(c *canvas, ring [][2]int) {
	if len(ring) < 2 {
		return
	}
	for i := range ring {
		a := ring[i]
		b := ring[(i+1)%len(ring)]
		c.line(a[0], a[1], b[0], b[1])
	}
}
