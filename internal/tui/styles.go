package tui

import "github.com/charmbracelet/lipgloss"

var (
	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(lipgloss.Color("236")).
			Padding(0, 1).
			Bold(true)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 1)

	quoteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Italic(true).
			Padding(1, 2)

	authorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Padding(0, 4)

	triggerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	docStyle = lipgloss.NewStyle().Padding(1, 2)
)
