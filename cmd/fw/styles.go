package main

import (
	"errors"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/kvanderzwet/fieldwork/pkg/scaffold"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
	headingStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// interactive reports whether stdout is a terminal; huh forms and glamour
// rendering are skipped when piping.
func interactive() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// renderMarkdown pretty-prints md for the terminal, falling back to the
// raw text when not on a TTY or when rendering fails.
func renderMarkdown(md string) string {
	if !interactive() {
		return md
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

// remediation maps well-known failures onto a one-line hint.
func remediation(err error) string {
	var exists *scaffold.ErrSlugExists
	if errors.As(err, &exists) {
		return "pick a different name, or open the existing project directory"
	}
	if os.IsNotExist(err) {
		return "run 'fw init <name>' to create a project first"
	}
	return ""
}
