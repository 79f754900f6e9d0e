package tui

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/android-clojure/droid/internal/errors"
	"github.com/android-clojure/droid/internal/pipeline"
	"github.com/android-clojure/droid/internal/toolchain"
)

// TTYOutput provides styled terminal output. NO_COLOR is respected.
type TTYOutput struct {
	w      io.Writer
	styles *OutputStyles
}

// NewTTYOutput creates a TTYOutput writing to w.
func NewTTYOutput(w io.Writer) *TTYOutput {
	CheckNoColor()
	return &TTYOutput{w: w, styles: NewOutputStyles()}
}

// Success prints a success message.
func (o *TTYOutput) Success(msg string) {
	_, _ = fmt.Fprintln(o.w, o.styles.Success.Render("✓ "+msg))
}

// Error prints err and, when one is known, the suggested next step.
func (o *TTYOutput) Error(err error) {
	_, _ = fmt.Fprintln(o.w, o.styles.Error.Render("✗ "+err.Error()))
	if _, action := errors.Actionable(err); action != "" {
		_, _ = fmt.Fprintln(o.w, o.styles.Dim.Render("  ▸ Try: "+action))
	}
}

// Warning prints a warning.
func (o *TTYOutput) Warning(msg string) {
	_, _ = fmt.Fprintln(o.w, o.styles.Warning.Render("⚠ "+msg))
}

// Info prints an informational line.
func (o *TTYOutput) Info(msg string) {
	_, _ = fmt.Fprintln(o.w, o.styles.Info.Render("ℹ "+msg))
}

// Table prints rows in aligned columns under a bold header.
func (o *TTYOutput) Table(headers []string, rows [][]string) {
	if len(headers) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && utf8.RuneCountInString(cell) > widths[i] {
				widths[i] = utf8.RuneCountInString(cell)
			}
		}
	}

	parts := make([]string, 0, len(headers))
	for i, h := range headers {
		parts = append(parts, o.styles.Header.Render(padRight(h, widths[i])))
	}
	_, _ = fmt.Fprintln(o.w, strings.TrimRight(strings.Join(parts, "  "), " "))

	for _, row := range rows {
		parts = parts[:0]
		for i := range headers {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			parts = append(parts, padRight(cell, widths[i]))
		}
		_, _ = fmt.Fprintln(o.w, strings.TrimRight(strings.Join(parts, "  "), " "))
	}
}

// JSON prints v as indented JSON.
func (o *TTYOutput) JSON(v any) error {
	encoder := json.NewEncoder(o.w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// Observer returns a stage observer printing one line per stage.
func (o *TTYOutput) Observer() pipeline.Observer {
	return &ttyObserver{out: o}
}

// Report prints the per-stage summary of a run.
func (o *TTYOutput) Report(r *pipeline.Report) error {
	rows := make([][]string, 0, len(r.Stages))
	for _, s := range r.Stages {
		duration := ""
		if s.Status != pipeline.StatusSkipped {
			duration = FormatDuration(s.Duration)
		}
		rows = append(rows, []string{
			StageStatusIcon(s.Status) + " " + StageTitle(s.Name),
			string(s.Status),
			duration,
		})
	}
	o.Table([]string{"STAGE", "STATUS", "DURATION"}, rows)

	summary := fmt.Sprintf("%s finished in %s", r.Task, FormatDuration(r.Duration))
	if r.Success {
		o.Success(summary)
		return nil
	}
	if failed, ok := r.Failed(); ok {
		o.Warning(fmt.Sprintf("%s stopped at %s (run %s)", r.Task, failed.Name, r.RunID))
	}
	return nil
}

// Doctor prints the toolchain checks.
func (o *TTYOutput) Doctor(r *toolchain.Report) error {
	rows := make([][]string, 0, len(r.Checks))
	for _, c := range r.Checks {
		icon := "✓"
		if c.Status == toolchain.CheckMissing {
			icon = "✗"
		}
		rows = append(rows, []string{icon + " " + c.Name, c.Status.String(), c.Path})
	}
	o.Table([]string{"CHECK", "STATUS", "PATH"}, rows)

	if r.Healthy {
		o.Success("toolchain ready")
		return nil
	}
	for _, c := range r.Missing() {
		if c.Hint != "" {
			_, _ = fmt.Fprintln(o.w, o.styles.Dim.Render("  ▸ "+c.Name+": "+c.Hint))
		}
	}
	o.Warning(fmt.Sprintf("%d toolchain check(s) failed", len(r.Missing())))
	return nil
}

type ttyObserver struct {
	out *TTYOutput
}

func (t *ttyObserver) OnStageStart(name pipeline.StageName) {
	_, _ = fmt.Fprintln(t.out.w, t.out.styles.Info.Render("● "+StageTitle(name)+"..."))
}

func (t *ttyObserver) OnStageComplete(r pipeline.StageResult) {
	style := t.out.styles.StageStatusStyle(r.Status)
	line := fmt.Sprintf("%s %s (%s)", StageStatusIcon(r.Status), StageTitle(r.Name), FormatDuration(r.Duration))
	_, _ = fmt.Fprintln(t.out.w, style.Render(line))
}

// padRight pads s with spaces to width runes.
func padRight(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}
