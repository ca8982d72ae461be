package deduce

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gitrdm/godeduce/internal/parallel"
)

// Engine drives a fixed, ordered set of rules over a formula context. The
// engine itself holds no mutable state between calls; rule applications are
// pure, so one Engine can serve many goroutines.
type Engine struct {
	rules   []Rule
	logger  *slog.Logger
	workers int
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger attaches a structured logger. Without one the engine is silent.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// WithParallelism sets the worker count used by StepParallel. Zero or
// negative selects one worker per CPU.
func WithParallelism(n int) EngineOption {
	return func(e *Engine) { e.workers = n }
}

// NewEngine creates an engine over the given rules, applied in order.
func NewEngine(rules []Rule, opts ...EngineOption) *Engine {
	e := &Engine{rules: rules}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rules returns the engine's rules in application order. Read-only.
func (e *Engine) Rules() []Rule { return e.rules }

// Step runs every rule's Apply over the context, concatenating results in
// rule order. The context is checked between rules; a cancelled ctx returns
// the deductions gathered so far along with ctx.Err().
func (e *Engine) Step(ctx context.Context, fc *FormulaContext) ([]Deduction, error) {
	var out []Deduction
	for _, rule := range e.rules {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		ds := rule.Apply(fc, nil, nil)
		if e.logger != nil {
			e.logger.Debug("rule applied",
				slog.String("rule", rule.Name()),
				slog.Int("deductions", len(ds)))
		}
		out = append(out, ds...)
	}
	return out, nil
}

// StepToward tries each rule's ApplyToward in order, returning the first
// Reached result. When no rule reaches the goal, the candidates of every
// rule are aggregated into a single NotReached.
func (e *Engine) StepToward(ctx context.Context, fc *FormulaContext, desired Formula) (TowardResult, error) {
	var candidates []Deduction
	for _, rule := range e.rules {
		if err := ctx.Err(); err != nil {
			return NotReached{Candidates: candidates}, err
		}
		switch res := rule.ApplyToward(fc, nil, nil, desired).(type) {
		case Reached:
			if e.logger != nil {
				e.logger.Debug("goal reached",
					slog.String("rule", rule.Name()),
					slog.String("goal", desired.String()))
			}
			return res, nil
		case NotReached:
			candidates = append(candidates, res.Candidates...)
		}
	}
	return NotReached{Candidates: candidates}, nil
}

// StepParallel is Step with rules fanned out over a worker pool. Rule
// applications never share mutable state, so they parallelize freely; the
// result is still ordered by rule, identical to Step on the same inputs.
func (e *Engine) StepParallel(ctx context.Context, fc *FormulaContext) ([]Deduction, error) {
	pool := parallel.NewWorkerPool(e.workers)
	defer pool.Shutdown()

	perRule := make([][]Deduction, len(e.rules))
	var wg sync.WaitGroup
	for i, rule := range e.rules {
		i, rule := i, rule
		wg.Add(1)
		err := pool.Submit(ctx, func() {
			defer wg.Done()
			perRule[i] = rule.Apply(fc, nil, nil)
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return nil, err
		}
	}
	wg.Wait()

	var out []Deduction
	for i, ds := range perRule {
		if e.logger != nil {
			e.logger.Debug("rule applied",
				slog.String("rule", e.rules[i].Name()),
				slog.Int("deductions", len(ds)))
		}
		out = append(out, ds...)
	}
	return out, nil
}
