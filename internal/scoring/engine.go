// Package scoring implements the rule-based health scoring engine: a pure
// pipeline from a validated ParameterSet through seven independent category
// scorers and an additive weighted aggregation to a structured
// HealthScoreResult.
package scoring

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/felixphool/healthtwin/internal/domain"
)

// EngineVersion is stamped into every HealthScoreResult.
const EngineVersion = "1.0.0"

// Engine evaluates a ParameterSet into a HealthScoreResult. It is
// stateless and safe for concurrent use; every call operates on its own
// inputs and outputs with no shared mutable state.
type Engine struct {
	logger *logrus.Logger
	now    func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the engine's time source. Used by tests and by
// callers replaying historical runs; it only affects the next review date
// and the ScoredAt stamp, never the score.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates a new scoring engine.
func NewEngine(logger *logrus.Logger, opts ...Option) *Engine {
	e := &Engine{
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ScoreRaw validates a raw parameter mapping and scores it. Validation
// failures abort the run with a ValidationError; no partial result is
// returned.
func (e *Engine) ScoreRaw(ctx context.Context, raw map[string]any) (*domain.HealthScoreResult, error) {
	params, err := ParseParameters(raw)
	if err != nil {
		e.logger.WithError(err).Warn("Parameter validation failed")
		return nil, err
	}
	return e.Score(ctx, params)
}

// Score runs the full pipeline on an already-validated ParameterSet. The
// seven category scorers are evaluated concurrently; the result builder
// re-imposes the canonical category order, so the output is byte-identical
// across runs with the same input and run date.
func (e *Engine) Score(ctx context.Context, params *domain.ParameterSet) (*domain.HealthScoreResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var results [7]domain.CategoryResult
	var wg sync.WaitGroup

	for i, scorer := range categoryScorers {
		wg.Add(1)
		go func(idx int, score categoryScorer) {
			defer wg.Done()
			results[idx] = score(params)
		}(i, scorer)
	}
	wg.Wait()

	score, category := aggregate(&results)
	result := buildResult(score, category, &results, e.now())

	e.logger.WithFields(logrus.Fields{
		"overall_score": result.OverallScore,
		"category":      result.Category.String(),
		"risk_factors":  len(result.RiskFactors),
		"strengths":     len(result.Strengths),
		"alerts":        len(result.Alerts),
	}).Info("Health scoring completed")

	return result, nil
}
