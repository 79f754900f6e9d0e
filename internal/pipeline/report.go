package pipeline

import (
	"encoding/json"
	"time"
)

// Status is the outcome of a single stage.
type Status string

// Stage outcomes.
const (
	StatusSuccess  Status = "success"
	StatusFailed   Status = "failed"
	StatusCanceled Status = "canceled"
	StatusSkipped  Status = "skipped"
)

// StageResult records one stage of a run.
type StageResult struct {
	Name     StageName     `json:"name"`
	Status   Status        `json:"status"`
	Duration time.Duration `json:"-"`
	Error    string        `json:"error,omitempty"`
}

// MarshalJSON renders the duration in milliseconds.
func (r StageResult) MarshalJSON() ([]byte, error) {
	type alias StageResult
	return json.Marshal(struct {
		alias

		DurationMS int64 `json:"duration_ms"`
	}{alias: alias(r), DurationMS: r.Duration.Milliseconds()})
}

// Report summarizes a pipeline run.
type Report struct {
	RunID     string        `json:"run_id"`
	Task      string        `json:"task"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"-"`
	Success   bool          `json:"success"`
	Stages    []StageResult `json:"stages"`
}

// MarshalJSON renders the duration in milliseconds.
func (r *Report) MarshalJSON() ([]byte, error) {
	type alias Report
	return json.Marshal(struct {
		*alias

		DurationMS int64 `json:"duration_ms"`
	}{alias: (*alias)(r), DurationMS: r.Duration.Milliseconds()})
}

// Failed returns the first stage that did not succeed, if any.
func (r *Report) Failed() (StageResult, bool) {
	for _, s := range r.Stages {
		if s.Status == StatusFailed || s.Status == StatusCanceled {
			return s, true
		}
	}
	return StageResult{}, false
}

func (r *Report) record(name StageName, status Status, d time.Duration, err error) {
	res := StageResult{Name: name, Status: status, Duration: d}
	if err != nil {
		res.Error = err.Error()
	}
	r.Stages = append(r.Stages, res)
}
