package cli

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/diaconv/pkg/errors"
	"github.com/matzehuels/diaconv/pkg/pipeline"
)

// ANSI 256 palette.
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

// Styles shared by the commands and the shape browser.
var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCached      = lipgloss.NewStyle().Foreground(colorGreen)
	styleFresh       = lipgloss.NewStyle().Foreground(colorGray)
)

// Line markers. Each status line starts with one.
var (
	markSuccess = lipgloss.NewStyle().Foreground(colorGreen).SetString("✓")
	markError   = lipgloss.NewStyle().Foreground(colorRed).SetString("✗")
	markWarning = lipgloss.NewStyle().Foreground(colorYellow).SetString("!")
	markInfo    = lipgloss.NewStyle().Foreground(colorGray).SetString("›")
	markFile    = lipgloss.NewStyle().Foreground(colorDim).SetString("→")
)

func status(mark lipgloss.Style, format string, args ...any) {
	fmt.Println(mark.String() + " " + fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...any) { status(markSuccess, format, args...) }
func printError(format string, args ...any)   { status(markError, format, args...) }
func printInfo(format string, args ...any)    { status(markInfo, format, args...) }

func printWarning(format string, args ...any) {
	status(markWarning, "%s", StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printDetail prints an indented dim line under a status line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints "  → path" for a written file.
func printFile(path string) {
	fmt.Println("  " + markFile.String() + " " + StyleValue.Render(path))
}

// ErrorMessage formats err for the terminal: the message of a coded error
// followed by its cause, without the code.
func ErrorMessage(err error) string {
	var e *errors.Error
	if stderrors.As(err, &e) && e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return errors.UserMessage(err)
}

// printStats prints one conversion's counts, as in
// "12 shapes · 9 connectors · 1 polylines · fresh".
func printStats(res *pipeline.Result) {
	fmt.Println("  " + formatStats(statParts(res)))
}

func statParts(res *pipeline.Result) []string {
	s := res.Stats
	parts := []string{StyleDim.Render(fmt.Sprintf("%d shapes", s.Shapes))}
	if s.Routed > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d connectors", s.Routed)))
	}
	if s.Degraded > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d polylines", s.Degraded)))
	}
	if n := len(res.Diagnostics); n > 0 {
		parts = append(parts, StyleWarning.Render(fmt.Sprintf("%d warnings", n)))
	}
	if res.CacheInfo.ConvertHit {
		parts = append(parts, styleCached.Render("cached"))
	} else {
		parts = append(parts, styleFresh.Render("fresh"))
	}
	return parts
}

func formatStats(parts []string) string {
	return strings.Join(parts, StyleDim.Render(" · "))
}
