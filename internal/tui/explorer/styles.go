// ============================================================================
// vera - tokenizer and parser toolkit
// ============================================================================
//
// Package:     explorer
// Description: Styles for the explorer TUI
// Author:      Mike Stoffels
// Created:     2026-10-03
// License:     MIT
// ============================================================================

package explorer

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	ColorPrimary   = lipgloss.Color("#8B5CF6") // Violet
	ColorSecondary = lipgloss.Color("#06B6D4") // Cyan
	ColorSuccess   = lipgloss.Color("#10B981") // Emerald
	ColorError     = lipgloss.Color("#EF4444") // Red
	ColorMuted     = lipgloss.Color("#6B7280") // Gray
	ColorText      = lipgloss.Color("#F8FAFC") // Slate 50
	ColorTextDim   = lipgloss.Color("#64748B") // Slate 500
)

var (
	LogoStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	TabStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim).
			Padding(0, 1)

	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Background(ColorPrimary).
			Bold(true).
			Padding(0, 1)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted)

	FocusedPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorPrimary)

	TokenPosStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)

	TokenKindStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Bold(true)

	StatusOKStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	StatusErrorStyle = lipgloss.NewStyle().
				Foreground(ColorError)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)
)
