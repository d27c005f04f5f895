package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/bakeryscan/internal/model"
)

// Step is one stage of an analysis. Steps run in sequence and each one
// reads what earlier steps left on the shared report: fetch fills Document,
// normalize fills Text, extract fills Items, and so on.
//
// Design decision: a step reports bad input (a 404, unparsable markup, an
// empty CSV) as a *model.Failure value instead of a Go error. The report
// then carries the "Error: ..." sentinel to every writer, and the caller
// sees a rendered report rather than a process error.
type Step interface {
	// Do runs the step against report. Input problems are returned as
	// *model.Failure; the pipeline records them on the report. Any other
	// error aborts the pipeline.
	Do(ctx context.Context, report *model.AnalysisReport) error

	// Name returns the step's name for logging and PerformedSteps.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
// A Pipeline is built per source and is not safe for concurrent Execute
// calls; the batch processor builds one per source through a Factory.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates an empty Pipeline. Steps are added with AddStep or
// AddSteps; Analyzer.Pipeline assembles the standard web and review
// pipelines.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs the steps in sequence.
//
// Cancellation is checked before each step. A fatal failure stops the
// run and Execute returns nil, because the failure is part of the
// report rather than an error of the program. Execute returns an error
// only for cancellation or for a step error that is not a Failure.
func (p *Pipeline) Execute(ctx context.Context, report *model.AnalysisReport) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"source", report.Source,
				"reason", ctx.Err(),
			)
			report.TimedOut = true
			report.Fail(model.NewFailure(model.FailureFetch, "analysis cancelled: "+ctx.Err().Error()))
			return ctx.Err()
		default:
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"source", report.Source,
		)

		err := step.Do(ctx, report)
		report.PerformedSteps = append(report.PerformedSteps, step.Name())

		if err != nil {
			f, ok := model.AsFailure(err)
			if !ok {
				p.logger.Error("step failed",
					"step", step.Name(),
					"source", report.Source,
					"error", err,
				)
				return err
			}
			report.Fail(f)
		}

		if report.Failed() {
			p.logger.Warn("pipeline stopped",
				"step", step.Name(),
				"source", report.Source,
				"failure", report.Failure.Error(),
			)
			return nil
		}
	}

	return nil
}

// StepCount returns the number of steps in the pipeline.
// It is mainly useful for testing and logging.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
