package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/android-clojure/droid/internal/pipeline"
)

// Semantic colors. Adaptive colors pick the light or dark variant from the
// terminal background.
//
//nolint:gochecknoglobals // style palette
var (
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#0087AF", Dark: "#00D7FF"}
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#008700", Dark: "#00FF87"}
	ColorWarning = lipgloss.AdaptiveColor{Light: "#AF8700", Dark: "#FFD700"}
	ColorError   = lipgloss.AdaptiveColor{Light: "#AF0000", Dark: "#FF5F5F"}
	ColorMuted   = lipgloss.AdaptiveColor{Light: "#585858", Dark: "#6C6C6C"}

	StyleBold = lipgloss.NewStyle().Bold(true)
	StyleDim  = lipgloss.NewStyle().Faint(true)
)

// OutputStyles holds the message styles used by TTYOutput.
type OutputStyles struct {
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Dim     lipgloss.Style
	Header  lipgloss.Style
}

// NewOutputStyles creates the default message styles.
func NewOutputStyles() *OutputStyles {
	return &OutputStyles{
		Success: lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(ColorError).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(ColorWarning),
		Info:    lipgloss.NewStyle().Foreground(ColorPrimary),
		Dim:     lipgloss.NewStyle().Foreground(ColorMuted),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#DDDDDD"}),
	}
}

// CheckNoColor switches lipgloss to plain ASCII when colors are disabled.
func CheckNoColor() {
	if !HasColorSupport() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// HasColorSupport reports whether colored output is allowed.
// NO_COLOR (any value, https://no-color.org) and TERM=dumb disable it.
func HasColorSupport() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

// StageStatusIcon returns the glyph shown next to a stage.
func StageStatusIcon(status pipeline.Status) string {
	switch status {
	case pipeline.StatusSuccess:
		return "✓"
	case pipeline.StatusFailed:
		return "✗"
	case pipeline.StatusCanceled:
		return "⚠"
	case pipeline.StatusSkipped:
		return "○"
	default:
		return "?"
	}
}

// StageStatusStyle returns the style for a stage line.
func (s *OutputStyles) StageStatusStyle(status pipeline.Status) lipgloss.Style {
	switch status {
	case pipeline.StatusSuccess:
		return s.Success
	case pipeline.StatusFailed:
		return s.Error
	case pipeline.StatusCanceled:
		return s.Warning
	default:
		return s.Dim
	}
}

// StageTitle turns a stage name such as "package-resources" into
// "Package Resources".
func StageTitle(name pipeline.StageName) string {
	words := []rune(string(name))
	for i, r := range words {
		if r == '-' || r == '_' {
			words[i] = ' '
		}
	}
	return cases.Title(language.English).String(string(words))
}
