package main

import "github.com/charmbracelet/lipgloss"

var (
	colorBenign  = lipgloss.Color("#98C379")
	colorHostile = lipgloss.Color("#E06C75")
	colorMuted   = lipgloss.Color("#636B78")
	colorAccent  = lipgloss.Color("#E5C07B")
	colorBorder  = lipgloss.Color("#3F4451")
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	boardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Width(6).
			Align(lipgloss.Center)

	benignStyle  = cellStyle.Foreground(colorBenign)
	hostileStyle = cellStyle.Foreground(colorHostile)
	emptyStyle   = cellStyle.Foreground(colorMuted)

	statusStyle = lipgloss.NewStyle().Foreground(colorMuted)
	wonStyle    = lipgloss.NewStyle().Foreground(colorBenign).Bold(true)
	lostStyle   = lipgloss.NewStyle().Foreground(colorHostile).Bold(true)
)
