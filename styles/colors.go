package styles

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Monokai Pro color palette
const (
	// Base colors
	Background = "#2D2A2E"
	Foreground = "#FCFCFA"

	// Accent colors
	Red     = "#FF6188" // Errors, danger
	Orange  = "#FC9867" // Warnings
	Yellow  = "#FFD866" // Highlights
	Green   = "#A9DC76" // Success
	Cyan    = "#78DCE8" // Info
	Blue    = "#AB9DF2" // Links
	Magenta = "#FF6188" // Titles, emphasis

	// UI colors
	Comment = "#727072" // Dim text, help
	Border  = "#5B595C" // Borders, separators
)

// Common styles
var (
	SuccessStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Green))
	ErrorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(Red))
	WarningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Orange))
	DimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color(Comment))
	TitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(Magenta))
	HighlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Yellow)).Bold(true)
	PositionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(Cyan))
	KeyStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color(Blue))
)

// OK renders a green check line for a file
func OK(file string) string {
	return SuccessStyle.Render("✓ " + file)
}

// Fail renders a red cross line for a file with its error
func Fail(file string, err error) string {
	return ErrorStyle.Render("✗ "+file) + " " + err.Error()
}

// Position renders a line:column pair the way editors expect it
func Position(line, column int) string {
	return PositionStyle.Render(fmt.Sprintf("%d:%d", line, column))
}
