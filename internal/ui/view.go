package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"

	"github.com/trolleyhk/trolley/internal/core/browse"
	"github.com/trolleyhk/trolley/internal/core/domain"
)

const (
	defaultNameWidth   = 32
	minNameWidth       = 20
	defaultTableHeight = 14
	minTableHeight     = 5

	// fixed column widths plus cell padding
	fixedColumnsWidth = 16 + 14 + 12 + 12 + 12 + 14

	chromeHeight      = 7
	compareTrayHeight = 7
)

func tableColumns(nameWidth int) []table.Column {
	return []table.Column{
		{Title: "Name", Width: nameWidth},
		{Title: "Brand", Width: 16},
		{Title: "Category", Width: 14},
		{Title: "Price", Width: 12},
		{Title: "Pack", Width: 12},
		{Title: "Unit price", Width: 12},
	}
}

func tableRows(ps []domain.Product) []table.Row {
	rows := make([]table.Row, 0, len(ps))
	for _, p := range ps {
		rows = append(rows, table.Row{
			p.Name,
			p.Brand,
			p.Category,
			formatPrice(p.Price),
			formatPack(p.PackSize),
			formatUnitPrice(p),
		})
	}
	return rows
}

func formatPrice(pp domain.ProductPrice) string {
	if pp.Currency == "" {
		return fmt.Sprintf("%.2f", pp.Amount)
	}
	return fmt.Sprintf("%s %.2f", pp.Currency, pp.Amount)
}

func formatPack(ps domain.PackSize) string {
	if ps.Quantity <= 0 {
		return "-"
	}
	q := strconv.FormatFloat(ps.Quantity, 'f', -1, 64)
	if ps.Unit == "" {
		return q
	}
	return q + " " + ps.Unit
}

func formatUnitPrice(p domain.Product) string {
	up, ok := p.UnitPrice()
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%.3f/%s", up, p.PackSize.Unit)
}

// bestValueID returns the product id with the lowest unit price among
// the compared products. Products without a computable unit price are
// skipped; ties keep the earlier selection.
func bestValueID(ps []domain.Product) string {
	bestID := ""
	bestPrice := 0.0
	for _, p := range ps {
		up, ok := p.UnitPrice()
		if !ok {
			continue
		}
		if bestID == "" || up < bestPrice {
			bestID = p.ProductID
			bestPrice = up
		}
	}
	return bestID
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

func (m Model) View() string {
	sections := []string{
		m.renderHeader(),
		m.renderSearch(),
		m.renderBody(),
	}
	if tray := m.renderCompare(); tray != "" {
		sections = append(sections, tray)
	}
	sections = append(sections, m.renderStatus())
	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	title := m.styles.Header.Render("Trolley")
	mode := m.styles.Label.Render(
		fmt.Sprintf("%s search", m.ctrl.Mode()),
	)
	return title + "  " + mode
}

func (m Model) renderSearch() string {
	if m.searching {
		return m.input.View()
	}
	if q := m.ctrl.Query(); q != "" {
		return m.styles.Label.Render("filter: ") +
			m.styles.Active.Render(q) +
			m.styles.Dim.Render("  (esc clears)")
	}
	return m.styles.Dim.Render("press / to search")
}

func (m Model) renderBody() string {
	switch m.ctrl.Phase() {
	case browse.PhaseLoading:
		return m.spin.View() + m.styles.Label.Render(" loading catalog...")

	case browse.PhaseError:
		return m.styles.Error.Render(
			"catalog unavailable: "+m.ctrl.ErrMessage(),
		) + "\n" + m.styles.Dim.Render("r to retry")

	case browse.PhaseIdle:
		return m.styles.Dim.Render("no catalog loaded, press r")
	}

	if len(m.ctrl.Products()) == 0 {
		return m.styles.Dim.Render("no products match")
	}
	return m.tbl.View()
}

func (m Model) renderCompare() string {
	if len(m.compareOrder) == 0 {
		return ""
	}

	selected := make([]domain.Product, 0, len(m.compareOrder))
	for _, id := range m.compareOrder {
		selected = append(selected, m.compare[id])
	}
	bestID := bestValueID(selected)

	lines := make([]string, 0, len(selected))
	for _, p := range selected {
		line := fmt.Sprintf(
			"%-26s %10s %8s %10s",
			truncate(p.Name, 26),
			formatPrice(p.Price),
			formatPack(p.PackSize),
			formatUnitPrice(p),
		)
		if p.ProductID == bestID {
			line = m.styles.Good.Render(line + "  best value")
		} else {
			line = m.styles.Label.Render(line)
		}
		lines = append(lines, line)
	}

	title := m.styles.Header.Render("Compare")
	return title + "\n" + m.styles.Panel.Render(strings.Join(lines, "\n"))
}

func (m Model) renderStatus() string {
	count := m.styles.Status.Render(
		fmt.Sprintf("%d products", len(m.ctrl.Products())),
	)
	keys := m.styles.Dim.Render(
		"/ search  space compare  c clear  r reload  esc reset  q quit",
	)
	return count + m.styles.Dim.Render("  |  ") + keys
}
