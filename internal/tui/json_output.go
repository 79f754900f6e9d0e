package tui

import (
	"encoding/json"
	"io"

	"github.com/android-clojure/droid/internal/errors"
	"github.com/android-clojure/droid/internal/pipeline"
	"github.com/android-clojure/droid/internal/toolchain"
)

// JSONOutput writes one JSON object per line.
type JSONOutput struct {
	encoder *json.Encoder
}

// NewJSONOutput creates a JSONOutput writing to w.
func NewJSONOutput(w io.Writer) *JSONOutput {
	return &JSONOutput{encoder: json.NewEncoder(w)}
}

type jsonMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type jsonError struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
	Tool       string `json:"tool,omitempty"`
	ExitCode   *int   `json:"exit_code,omitempty"`
}

type jsonStage struct {
	Type   string                `json:"type"`
	Stage  pipeline.StageName    `json:"stage"`
	Event  string                `json:"event"`
	Result *pipeline.StageResult `json:"result,omitempty"`
}

// Success writes {"type":"success","message":...}.
func (o *JSONOutput) Success(msg string) {
	//nolint:errchkjson // no error return in the interface
	_ = o.encoder.Encode(jsonMessage{Type: "success", Message: msg})
}

// Error writes the error with its user-facing explanation and, for tool
// failures, the tool name and exit code.
func (o *JSONOutput) Error(err error) {
	msg, action := errors.Actionable(err)
	out := jsonError{Type: "error", Message: err.Error(), Suggestion: action}
	if msg != err.Error() {
		out.Details = msg
	}
	if te, ok := errors.AsToolError(err); ok {
		out.Tool = te.Tool
		code := te.ExitCode
		out.ExitCode = &code
	}
	//nolint:errchkjson // no error return in the interface
	_ = o.encoder.Encode(out)
}

// Warning writes {"type":"warning","message":...}.
func (o *JSONOutput) Warning(msg string) {
	//nolint:errchkjson // no error return in the interface
	_ = o.encoder.Encode(jsonMessage{Type: "warning", Message: msg})
}

// Info writes {"type":"info","message":...}.
func (o *JSONOutput) Info(msg string) {
	//nolint:errchkjson // no error return in the interface
	_ = o.encoder.Encode(jsonMessage{Type: "info", Message: msg})
}

// Table writes the rows as an array of header-keyed objects.
func (o *JSONOutput) Table(headers []string, rows [][]string) {
	result := make([]map[string]string, 0, len(rows))
	if len(headers) > 0 {
		for _, row := range rows {
			obj := make(map[string]string, len(headers))
			for i, h := range headers {
				if i < len(row) {
					obj[h] = row[i]
				} else {
					obj[h] = ""
				}
			}
			result = append(result, obj)
		}
	}
	//nolint:errchkjson // no error return in the interface
	_ = o.encoder.Encode(result)
}

// JSON writes v.
func (o *JSONOutput) JSON(v any) error {
	return o.encoder.Encode(v)
}

// Observer returns an observer writing stage events.
func (o *JSONOutput) Observer() pipeline.Observer {
	return &jsonObserver{out: o}
}

// Report writes the run report.
func (o *JSONOutput) Report(r *pipeline.Report) error {
	return o.encoder.Encode(r)
}

// Doctor writes the check report.
func (o *JSONOutput) Doctor(r *toolchain.Report) error {
	return o.encoder.Encode(r)
}

type jsonObserver struct {
	out *JSONOutput
}

func (j *jsonObserver) OnStageStart(name pipeline.StageName) {
	//nolint:errchkjson // no error return in the interface
	_ = j.out.encoder.Encode(jsonStage{Type: "stage", Stage: name, Event: "start"})
}

func (j *jsonObserver) OnStageComplete(r pipeline.StageResult) {
	//nolint:errchkjson // no error return in the interface
	_ = j.out.encoder.Encode(jsonStage{Type: "stage", Stage: r.Name, Event: "complete", Result: &r})
}
