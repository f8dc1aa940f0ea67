package ui

import "github.com/charmbracelet/lipgloss"

// Color palette. A single warm accent keeps the list readable on both
// dark and light terminals.
const (
	colorAccent   = "208" // highlighted rows, active elements
	colorWhite    = "255" // headers
	colorGray     = "245" // secondary text, labels
	colorDarkGray = "238" // borders, separators
	colorGreen    = "77"  // deals, best value
	colorRed      = "196" // errors
)

// Styles holds the lipgloss styles the browse views render with.
type Styles struct {
	Header lipgloss.Style
	Active lipgloss.Style
	Dim    lipgloss.Style
	Label  lipgloss.Style
	Good   lipgloss.Style
	Error  lipgloss.Style
	Border lipgloss.Style
	Panel  lipgloss.Style
	Status lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorWhite)),
		Active: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorAccent)),
		Dim:    lipgloss.NewStyle().Foreground(lipgloss.Color(colorDarkGray)),
		Label:  lipgloss.NewStyle().Foreground(lipgloss.Color(colorGray)),
		Good:   lipgloss.NewStyle().Foreground(lipgloss.Color(colorGreen)),
		Error:  lipgloss.NewStyle().Foreground(lipgloss.Color(colorRed)),
		Border: lipgloss.NewStyle().Foreground(lipgloss.Color(colorDarkGray)),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorDarkGray)).
			Padding(0, 1),
		Status: lipgloss.NewStyle().Foreground(lipgloss.Color(colorGray)),
	}
}
