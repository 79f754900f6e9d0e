// Package pipeline drives the build stages for a task: one stage at a time,
// stopping at the first failure and checking for cancellation between stages.
package pipeline

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/android-clojure/droid/internal/clock"
	"github.com/android-clojure/droid/internal/ctxutil"
	"github.com/android-clojure/droid/internal/errors"
)

// StageFunc runs one stage.
type StageFunc func(ctx context.Context) error

// Stages binds every stage name to its implementation.
type Stages map[StageName]StageFunc

// Observer is notified as stages start and finish.
type Observer interface {
	OnStageStart(name StageName)
	OnStageComplete(result StageResult)
}

// Pipeline runs tasks over a fixed set of stages.
type Pipeline struct {
	stages   Stages
	clock    clock.Clock
	newID    func() string
	observer Observer
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithClock sets the clock used for stage timing.
func WithClock(c clock.Clock) Option {
	return func(p *Pipeline) { p.clock = c }
}

// WithRunID sets the run id generator.
func WithRunID(fn func() string) Option {
	return func(p *Pipeline) { p.newID = fn }
}

// WithObserver registers a stage observer.
func WithObserver(o Observer) Option {
	return func(p *Pipeline) { p.observer = o }
}

// New creates a pipeline over stages.
func New(stages Stages, opts ...Option) *Pipeline {
	p := &Pipeline{
		stages: stages,
		clock:  clock.RealClock{},
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes task. The report is returned even when a stage fails; stages
// after the failing one are recorded as skipped and their inputs are left in
// place so the failed stage can be rerun on its own.
func (p *Pipeline) Run(ctx context.Context, task string) (*Report, error) {
	names, err := StagesFor(task)
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		if p.stages[name] == nil {
			return nil, fmt.Errorf("%w: stage %s is not wired", errors.ErrUnknownTask, name)
		}
	}

	report := &Report{
		RunID:     p.newID(),
		Task:      task,
		StartedAt: p.clock.Now(),
	}
	logger := zerolog.Ctx(ctx).With().Str("run_id", report.RunID).Str("task", task).Logger()
	ctx = logger.WithContext(ctx)

	logger.Info().Int("stages", len(names)).Msg("pipeline started")

	var runErr error
	for i, name := range names {
		if cerr := ctxutil.Canceled(ctx); cerr != nil {
			runErr = fmt.Errorf("%w before %s: %w", errors.ErrOperationCanceled, name, cerr)
			p.complete(report, name, StatusCanceled, 0, runErr)
			p.skip(report, names[i+1:])
			break
		}

		if p.observer != nil {
			p.observer.OnStageStart(name)
		}
		stageLogger := logger.With().Str("stage", string(name)).Logger()
		stageLogger.Info().Msg("stage started")

		start := p.clock.Now()
		err := p.stages[name](ctx)
		elapsed := p.clock.Now().Sub(start)

		if err != nil {
			status := StatusFailed
			if stderrors.Is(err, errors.ErrOperationCanceled) {
				status = StatusCanceled
			}
			stageLogger.Error().Err(err).Dur("duration", elapsed).Msg("stage failed")
			runErr = errors.Wrap(err, string(name))
			p.complete(report, name, status, elapsed, err)
			p.skip(report, names[i+1:])
			break
		}

		stageLogger.Info().Dur("duration", elapsed).Msg("stage finished")
		p.complete(report, name, StatusSuccess, elapsed, nil)
	}

	report.Duration = p.clock.Now().Sub(report.StartedAt)
	report.Success = runErr == nil

	event := logger.Info()
	if runErr != nil {
		event = logger.Warn()
	}
	event.Bool("success", report.Success).Dur("duration", report.Duration).Msg("pipeline finished")

	return report, runErr
}

func (p *Pipeline) complete(report *Report, name StageName, status Status, d time.Duration, err error) {
	report.record(name, status, d, err)
	if p.observer != nil {
		p.observer.OnStageComplete(report.Stages[len(report.Stages)-1])
	}
}

func (p *Pipeline) skip(report *Report, rest []StageName) {
	for _, name := range rest {
		report.record(name, StatusSkipped, 0, nil)
	}
}
