// Package ui holds the console styling used by every command: colored
// status lines for health verdicts, pipeline stages, and maintenance
// sub-steps. Styling is disabled automatically when stdout is not a TTY.
package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	// Colors
	colorGreen  = lipgloss.Color("#22c55e")
	colorRed    = lipgloss.Color("#ef4444")
	colorYellow = lipgloss.Color("#eab308")
	colorBlue   = lipgloss.Color("#3b82f6")
	colorDim    = lipgloss.Color("#6b7280")
	colorWhite  = lipgloss.Color("#f9fafb")

	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue)

	okStyle = lipgloss.NewStyle().
		Foreground(colorGreen)

	failStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	warnStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)
)

const (
	okMark   = "[OK]"
	failMark = "[!!]"
	warnMark = "[??]"
	skipMark = "[--]"
)

// styled reports whether output should carry ANSI styling.
var styled = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

func render(style lipgloss.Style, s string) string {
	if !styled {
		return s
	}
	return style.Render(s)
}

// Title prints a bold heading.
func Title(s string) {
	fmt.Println(render(titleStyle, s))
}

// Section prints a section heading.
func Section(s string) {
	fmt.Println(render(sectionStyle, s))
}

// OK prints a green status line.
func OK(name, extra string) {
	statusLine(okStyle, okMark, name, extra)
}

// Fail prints a red status line.
func Fail(name, extra string) {
	statusLine(failStyle, failMark, name, extra)
}

// Warn prints a yellow status line.
func Warn(name, extra string) {
	statusLine(warnStyle, warnMark, name, extra)
}

// Skip prints a dim status line for checks that were not configured.
func Skip(name, extra string) {
	statusLine(dimStyle, skipMark, name, extra)
}

// Dim prints dimmed supplementary text.
func Dim(s string) {
	fmt.Println(render(dimStyle, s))
}

func statusLine(style lipgloss.Style, mark, name, extra string) {
	if extra != "" {
		fmt.Printf("  %s %s %s\n", render(style, mark), name, render(dimStyle, extra))
		return
	}
	fmt.Printf("  %s %s\n", render(style, mark), name)
}
