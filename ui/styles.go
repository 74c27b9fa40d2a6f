package ui

import "github.com/charmbracelet/lipgloss"

var (
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	pathStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	historyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39")) // Bright cyan
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	matchStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Underline(true)
	createStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Italic(true)
	vaultStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("62")) // Blurple
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	titleStyle    = lipgloss.NewStyle().Bold(true)
)
