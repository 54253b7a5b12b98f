package methods

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title    lipgloss.Style
	header   lipgloss.Style
	category lipgloss.Style
	method   lipgloss.Style
	param    lipgloss.Style
	optional lipgloss.Style
	returns  lipgloss.Style
	detail   lipgloss.Style
	count    lipgloss.Style
	section  lipgloss.Style
	empty    lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true),
		header:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		category: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		method:   lipgloss.NewStyle().Foreground(lipgloss.Color("159")),
		param:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		optional: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		returns:  lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		detail:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")).PaddingLeft(2),
		count:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		section:  lipgloss.NewStyle().MarginTop(1),
		empty:    lipgloss.NewStyle().Faint(true),
	}
}
