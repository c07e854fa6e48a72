// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/charmbracelet/lipgloss"

// Palette for CLI messages. Each color has a light- and dark-background
// variant; lipgloss picks one from the terminal.
var (
	colorPrimary   = lipgloss.AdaptiveColor{Light: "#5B21B6", Dark: "#A78BFA"}
	colorMuted     = lipgloss.AdaptiveColor{Light: "#4B5563", Dark: "#9CA3AF"}
	colorSuccess   = lipgloss.AdaptiveColor{Light: "#047857", Dark: "#34D399"}
	colorError     = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}
	colorWarning   = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}
	colorHighlight = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#60A5FA"}
)

var (
	// TitleStyle marks headers such as "Staging plan".
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	// SubtitleStyle is for descriptions and "(default)" placeholders.
	SubtitleStyle = lipgloss.NewStyle().Foreground(colorMuted)
	SuccessStyle  = lipgloss.NewStyle().Foreground(colorSuccess)
	ErrorStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorError)
	WarningStyle  = lipgloss.NewStyle().Foreground(colorWarning)
	// PathStyle highlights staging paths and command lines.
	PathStyle = lipgloss.NewStyle().Foreground(colorHighlight)
)
