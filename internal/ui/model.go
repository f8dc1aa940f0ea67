// Package ui implements the interactive catalog browser.
package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/trolleyhk/trolley/internal/core/browse"
	"github.com/trolleyhk/trolley/internal/core/domain"
	"github.com/trolleyhk/trolley/internal/core/port"
	"github.com/trolleyhk/trolley/internal/core/search"
)

const compareLimit = 3

type (
	loadResultMsg struct {
		seq      uint64
		products []domain.Product
		err      error
	}

	searchResultMsg struct {
		seq      uint64
		products []domain.Product
		err      error
	}
)

// Model drives the browse screen: a filterable product table with a
// small compare tray underneath.
type Model struct {
	ctrl   *browse.Controller
	source port.CatalogSource

	input textinput.Model
	spin  spinner.Model
	tbl   table.Model

	styles    Styles
	width     int
	height    int
	searching bool

	compare      map[string]domain.Product
	compareOrder []string
}

func NewModel(source port.CatalogSource, mode search.Mode) Model {
	styles := DefaultStyles()

	input := textinput.New()
	input.Placeholder = "name or category"
	input.CharLimit = 64
	input.Width = 32

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = styles.Active

	tbl := table.New(
		table.WithColumns(tableColumns(defaultNameWidth)),
		table.WithFocused(true),
		table.WithHeight(defaultTableHeight),
	)
	tblStyles := table.DefaultStyles()
	tblStyles.Header = tblStyles.Header.
		Bold(true).
		Foreground(lipgloss.Color(colorWhite)).
		BorderForeground(lipgloss.Color(colorDarkGray))
	tblStyles.Selected = tblStyles.Selected.
		Bold(true).
		Foreground(lipgloss.Color(colorAccent))
	tbl.SetStyles(tblStyles)

	return Model{
		ctrl:    browse.New(mode),
		source:  source,
		input:   input,
		spin:    spin,
		tbl:     tbl,
		styles:  styles,
		compare: make(map[string]domain.Product),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.beginLoad())
}

// beginLoad allocates a load sequence and returns the command that
// performs the fetch. The sequence travels with the result message so
// stale completions can be told apart from current ones.
func (m Model) beginLoad() tea.Cmd {
	seq := m.ctrl.BeginLoad()
	src := m.source
	return func() tea.Msg {
		ps, err := src.FetchAll(context.Background())
		return loadResultMsg{seq: seq, products: ps, err: err}
	}
}

func (m Model) beginSearch(q string) tea.Cmd {
	seq, async := m.ctrl.Search(q)
	if !async {
		return nil
	}
	src := m.source
	return func() tea.Msg {
		ps, err := src.SearchByCategory(context.Background(), q)
		return searchResultMsg{seq: seq, products: ps, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case loadResultMsg:
		if m.ctrl.ApplyLoad(msg.seq, msg.products, msg.err) {
			m.syncRows()
			m.tbl.SetCursor(0)
		}
		return m, nil

	case searchResultMsg:
		if m.ctrl.ApplySearch(msg.seq, msg.products, msg.err) {
			m.syncRows()
			m.tbl.SetCursor(0)
		}
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearching(msg)
		}
		return m.updateBrowsing(msg)
	}

	return m, nil
}

func (m Model) updateSearching(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.input.Blur()
		m.input.SetValue("")
		m.ctrl.Reset()
		m.syncRows()
		return m, nil

	case "enter":
		m.searching = false
		m.input.Blur()
		cmd := m.beginSearch(m.input.Value())
		m.syncRows()
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	// Client mode filters as the user types; server mode waits for
	// enter, a request per keystroke would hammer the backend.
	if m.ctrl.Mode() == search.ModeClient {
		m.ctrl.Search(m.input.Value())
		m.syncRows()
	}
	return m, cmd
}

func (m Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "/":
		m.searching = true
		m.input.SetValue(m.ctrl.Query())
		return m, m.input.Focus()

	case "r":
		m.input.SetValue("")
		return m, m.beginLoad()

	case "esc":
		m.input.SetValue("")
		m.ctrl.Reset()
		m.syncRows()
		return m, nil

	case " ":
		m.toggleCompare()
		return m, nil

	case "c":
		m.compare = make(map[string]domain.Product)
		m.compareOrder = nil
		return m, nil
	}

	var cmd tea.Cmd
	m.tbl, cmd = m.tbl.Update(msg)
	return m, cmd
}

func (m *Model) toggleCompare() {
	ps := m.ctrl.Products()
	cur := m.tbl.Cursor()
	if cur < 0 || cur >= len(ps) {
		return
	}
	p := ps[cur]

	if _, ok := m.compare[p.ProductID]; ok {
		delete(m.compare, p.ProductID)
		for i, id := range m.compareOrder {
			if id == p.ProductID {
				m.compareOrder = append(
					m.compareOrder[:i], m.compareOrder[i+1:]...,
				)
				break
			}
		}
		return
	}

	if len(m.compareOrder) >= compareLimit {
		return
	}
	m.compare[p.ProductID] = p
	m.compareOrder = append(m.compareOrder, p.ProductID)
}

func (m *Model) syncRows() {
	m.tbl.SetRows(tableRows(m.ctrl.Products()))
}

func (m *Model) resize() {
	nameWidth := m.width - fixedColumnsWidth
	if nameWidth < minNameWidth {
		nameWidth = minNameWidth
	}
	m.tbl.SetColumns(tableColumns(nameWidth))

	tableHeight := m.height - chromeHeight
	if len(m.compareOrder) > 0 {
		tableHeight -= compareTrayHeight
	}
	if tableHeight < minTableHeight {
		tableHeight = minTableHeight
	}
	m.tbl.SetHeight(tableHeight)
}
