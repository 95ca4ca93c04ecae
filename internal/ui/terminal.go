// Package ui provides terminal styling for wend CLI output.
package ui

import (
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// IsTerminal returns true if stdout is attached to a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// ShouldUseColor determines whether output should be colorized.
// Honors NO_COLOR (https://no-color.org/) and CLICOLOR/CLICOLOR_FORCE
// (https://bixense.com/clicolors/); otherwise colors only when stdout
// is a terminal. NO_COLOR wins over CLICOLOR_FORCE.
func ShouldUseColor() bool {
	return termenv.EnvColorProfile() != termenv.Ascii
}

// ShouldUseEmoji determines whether unicode status icons should be used.
// WEND_NO_EMOJI disables them; otherwise falls back to the TTY check.
func ShouldUseEmoji() bool {
	if os.Getenv("WEND_NO_EMOJI") != "" {
		return false
	}
	return IsTerminal()
}

// IsAgentMode returns true when output is being consumed by a script or
// coding agent rather than a human at a terminal. Agent output stays
// plain and parseable: no markdown rendering, no interactive prompts.
// WEND_AGENT_MODE overrides the TTY heuristic in either direction.
func IsAgentMode() bool {
	if v := os.Getenv("WEND_AGENT_MODE"); v != "" {
		return v != "0"
	}
	return !IsTerminal()
}

// TerminalWidth returns the column width of the attached terminal, or
// the given fallback when stdout is not a terminal.
func TerminalWidth(fallback int) int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return fallback
}
