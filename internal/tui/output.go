// Package tui renders command output: styled text for terminals and
// line-delimited JSON for scripts.
package tui

import (
	"fmt"
	"io"
	"time"

	"github.com/android-clojure/droid/internal/pipeline"
	"github.com/android-clojure/droid/internal/toolchain"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Output is the command output surface.
type Output interface {
	Success(msg string)
	Error(err error)
	Warning(msg string)
	Info(msg string)
	Table(headers []string, rows [][]string)
	JSON(v any) error

	// Observer reports stage progress while a pipeline runs.
	Observer() pipeline.Observer
	// Report prints the summary of a finished run.
	Report(r *pipeline.Report) error
	// Doctor prints a toolchain check report.
	Doctor(r *toolchain.Report) error
}

// NewOutput creates the output for format. Anything other than "json" is
// styled text.
func NewOutput(w io.Writer, format string) Output {
	if format == FormatJSON {
		return NewJSONOutput(w)
	}
	return NewTTYOutput(w)
}

// FormatDuration renders d rounded for humans: "850ms", "12.4s", "2m05s".
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return d.Round(time.Millisecond).String()
	case d < time.Minute:
		return d.Round(100 * time.Millisecond).String()
	default:
		d = d.Round(time.Second)
		m := d / time.Minute
		s := (d % time.Minute) / time.Second
		return fmt.Sprintf("%dm%02ds", int(m), int(s))
	}
}
