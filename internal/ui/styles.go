package ui

import "github.com/charmbracelet/lipgloss"

// Color palette
// - Default (white/black): primary text
// - Accent (soft teal #5EEAD4): paths, type names, interactive elements
// - Muted (gray): secondary info, line numbers
// - No colored success/error/warning - unicode symbols only

var (
	// Accent style for file paths and type names
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color("#5EEAD4"))

	// Muted style for secondary info, hints, line numbers
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	// Bold style for emphasis
	Bold = lipgloss.NewStyle().Bold(true)

	// AccentBold combines accent color with bold
	AccentBold = lipgloss.NewStyle().Foreground(lipgloss.Color("#5EEAD4")).Bold(true)
)
