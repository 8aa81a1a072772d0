package attribution

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"discoveryspark/domain/core"
	"discoveryspark/domain/feature"
	"discoveryspark/domain/insight"
	"discoveryspark/ports"
)

// Engine is the insight ranking and trend attribution core. It owns no
// state across runs: every Run builds one AnalysisReport from an
// in-memory matrix and discards everything else.
type Engine struct {
	opts       Options
	classifier *TaskTypeClassifier
	normalizer ImportanceNormalizer
	signer     *TrendSigner
	ranker     InsightRanker
	analyzer   *InteractionAnalyzer
}

// NewEngine validates options and wires the component chain
func NewEngine(opts Options) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		opts:       opts,
		classifier: NewTaskTypeClassifier(opts.ClassThreshold),
		signer:     NewTrendSigner(opts.NeutralEpsilon),
		analyzer:   NewInteractionAnalyzer(opts.MinInteraction),
	}, nil
}

// Request defines one analysis run
type Request struct {
	Project string
	Matrix  *feature.Matrix
	Targets []core.TargetKey
	Model   ports.ImportanceModelPort
}

// targetOutcome collects one target's pipeline output for deterministic
// assembly in requested order
type targetOutcome struct {
	result   *insight.TargetResult
	spec     *feature.TargetSpec
	failure  *insight.TargetFailure
	warnings insight.WarningCounts
}

// Run executes the per-target pipeline (classify, score, normalize, sign,
// rank) for every requested target, then the cross-target interaction
// analysis. One target's failure is recorded on the report without
// aborting its siblings; structural problems abort the run with no report.
func (e *Engine) Run(ctx context.Context, req Request) (*insight.AnalysisReport, error) {
	if err := e.validateRequest(req); err != nil {
		return nil, err
	}

	// Targets are mutually independent and read only the shared matrix,
	// so they can run in parallel. Outcomes are indexed by requested
	// position, never by completion order.
	outcomes := make([]targetOutcome, len(req.Targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, target := range req.Targets {
		i, target := i, target
		g.Go(func() error {
			outcomes[i] = e.analyzeTarget(gctx, req, target)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := insight.NewAnalysisReport(req.Project)
	var specs []*feature.TargetSpec
	for _, out := range outcomes {
		report.Warnings.ZeroImportanceSum += out.warnings.ZeroImportanceSum
		report.Warnings.ZeroVariance += out.warnings.ZeroVariance
		if out.failure != nil {
			report.Failures = append(report.Failures, *out.failure)
			continue
		}
		report.Results = append(report.Results, *out.result)
		specs = append(specs, out.spec)
	}

	// Interactions need every target's aligned value column, so this step
	// only starts after all per-target results exist.
	if len(specs) > 1 {
		interactions, dropped := e.analyzer.Analyze(specs)
		report.Interactions = interactions
		report.Warnings.DroppedPairs = dropped
	}
	return report, nil
}

// validateRequest rejects structural problems before any work starts
func (e *Engine) validateRequest(req Request) error {
	if req.Matrix == nil {
		return core.NewConfigurationError("matrix", "must be set")
	}
	if err := req.Matrix.Validate(); err != nil {
		return err
	}
	if req.Model == nil {
		return core.NewConfigurationError("model", "importance model must be set")
	}
	if len(req.Targets) == 0 {
		return core.NewConfigurationError("targets", "at least one target is required")
	}
	for _, target := range req.Targets {
		if _, ok := req.Matrix.Column(core.FeatureKey(target)); !ok {
			return core.NewTargetNotFoundError(target.String())
		}
	}
	return nil
}

// analyzeTarget runs the single-target pipeline. All failures are
// captured as recorded outcomes, never returned as errors.
func (e *Engine) analyzeTarget(ctx context.Context, req Request, target core.TargetKey) targetOutcome {
	fail := func(err error) targetOutcome {
		return targetOutcome{failure: &insight.TargetFailure{Target: target, Reason: err.Error()}}
	}

	values, _ := req.Matrix.Column(core.FeatureKey(target))
	task, err := e.classifier.Classify(values)
	if err != nil {
		return fail(fmt.Errorf("target %s: %w", target, err))
	}
	spec, err := feature.NewTargetSpec(target, task, values)
	if err != nil {
		return fail(err)
	}

	raw, err := req.Model.FitAndScore(ctx, req.Matrix, spec)
	if err != nil {
		return fail(fmt.Errorf("importance model failed for target %s: %w", target, err))
	}

	var out targetOutcome
	impacts, degenerate := e.normalizer.Normalize(raw)
	if degenerate {
		out.warnings.ZeroImportanceSum++
	}

	signed, _ := req.Model.(ports.SignedCoefficients)
	trends := make(map[core.FeatureKey]TrendResult, len(impacts))
	for key := range impacts {
		var trend TrendResult
		if coef, ok := coefficient(signed, key, target); ok {
			trend = e.signer.SignFromCoefficient(coef)
		} else if featVals, ok := req.Matrix.Column(key); ok {
			trend = e.signer.Sign(featVals, spec.Values, spec.Task, spec.Classes)
		} else {
			trend = TrendResult{Direction: insight.DirectionNeutral, Degenerate: true}
		}
		if trend.Degenerate {
			out.warnings.ZeroVariance++
		}
		trends[key] = trend
	}

	insights, err := e.ranker.Rank(impacts, trends, e.opts.TopN)
	if err != nil {
		return fail(err)
	}

	out.result = &insight.TargetResult{Target: target, Task: task, Insights: insights}
	out.spec = spec
	return out
}

func coefficient(signed ports.SignedCoefficients, feat core.FeatureKey, target core.TargetKey) (float64, bool) {
	if signed == nil {
		return 0, false
	}
	return signed.Coefficient(feat, target)
}
