// Package ui provides the console styling and reporting surface for
// grimoire: lipgloss styles, the Logger used by the engine, a yes/no
// confirmation prompt, and unified-diff rendering for update previews.
package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
)

// IsTTY indicates whether stdout is an interactive terminal.
// When false, UI functions produce plain text without colors or decorations.
var IsTTY = term.IsTerminal(os.Stdout.Fd())

// ═══════════════════════════════════════════════════════════════════════════════
// COLOR PALETTE - Old grimoire meets modern terminal
// ═══════════════════════════════════════════════════════════════════════════════

var (
	Gold     = lipgloss.Color("#F4D03F") // Bright gold
	Amber    = lipgloss.Color("#E59866") // Warm amber
	Copper   = lipgloss.Color("#DC7633") // Copper accent
	Purple   = lipgloss.Color("#9B59B6") // Mystical purple
	Blue     = lipgloss.Color("#5DADE2") // Arcane blue
	Green    = lipgloss.Color("#58D68D") // Nature green
	Pink     = lipgloss.Color("#FF6B9D") // Enchanted pink
	Gray     = lipgloss.Color("#AAB7B8")
	DarkGray = lipgloss.Color("#5D6D7E")
)

// ═══════════════════════════════════════════════════════════════════════════════
// TEXT STYLES
// ═══════════════════════════════════════════════════════════════════════════════

var (
	// Title for primary headings
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Gold)

	// Success messages
	Success = lipgloss.NewStyle().
		Foreground(Green)

	// Error messages
	Error = lipgloss.NewStyle().
		Foreground(Pink).
		Bold(true)

	// Warning messages
	Warning = lipgloss.NewStyle().
		Foreground(Copper)

	// Info messages
	Info = lipgloss.NewStyle().
		Foreground(Blue)

	// Muted/secondary text
	Muted = lipgloss.NewStyle().
		Foreground(Gray)

	// Highlight for important items
	Highlight = lipgloss.NewStyle().
		Foreground(Gold).
		Bold(true)

	// Added lines in diff previews
	DiffAdd = lipgloss.NewStyle().
		Foreground(Green)

	// Removed lines in diff previews
	DiffDel = lipgloss.NewStyle().
		Foreground(Pink)
)

// Logo returns the banner shown on the root help screen.
func Logo() string {
	if !IsTTY {
		return "\n  GRIMOIRE - Agent Spellcraft, Compiled\n"
	}

	lines := []struct {
		text  string
		color lipgloss.Color
	}{
		{"", DarkGray},
		{"   ▄▄▄▄ ▄▄▄▄  ▄▄▄ ▄▄   ▄▄  ▄▄▄  ▄▄ ▄▄▄▄  ▄▄▄▄", Gold},
		{"   █ ▄▄ █▄▄▀  █ █ █ █▄█ █ █ ▄ █ ██ █▄▄▀  █▄▄ ", Amber},
		{"   █▄▄█ █  █  █▄█ █     █ █▄▄▄█ ██ █  █  █▄▄▄", Copper},
		{"        ✦ agent spellcraft, compiled", Purple},
		{"", DarkGray},
	}

	var result strings.Builder
	for _, line := range lines {
		result.WriteString(lipgloss.NewStyle().Foreground(line.color).Render(line.text))
		result.WriteString("\n")
	}
	return result.String()
}

// Divider returns a horizontal rule of the given width.
func Divider(width int) string {
	return lipgloss.NewStyle().
		Foreground(DarkGray).
		Render(strings.Repeat("─", width))
}
