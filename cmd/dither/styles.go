package main

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ccff"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466")).
			Padding(0, 1)

	idStyle = lipgloss.NewStyle().
		Width(20).
		Foreground(lipgloss.Color("#ffffff"))

	nameStyle = lipgloss.NewStyle().
			Width(26)

	familyStyle = lipgloss.NewStyle().
			Width(11).
			Foreground(lipgloss.Color("#888899"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#00ff88"))

	fallbackStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffaa00"))

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666688"))
)
