package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"discoveryspark/domain/core"
	"discoveryspark/domain/feature"
	"discoveryspark/domain/insight"
	"discoveryspark/internal"
	"discoveryspark/internal/attribution"
	"discoveryspark/internal/dataset"
	"discoveryspark/ports"
)

// AnalysisService wires feature synthesis, the attribution engine, label
// translation, rendering, and optional persistence into one run.
type AnalysisService struct {
	engine      *attribution.Engine
	synthesizer ports.FeatureSynthesizerPort
	model       ports.ImportanceModelPort
	translator  ports.FeatureTranslatorPort
	repository  ports.ReportRepositoryPort // nil disables persistence
	logger      *internal.Logger
}

// NewAnalysisService creates an analysis service
func NewAnalysisService(
	engine *attribution.Engine,
	synthesizer ports.FeatureSynthesizerPort,
	model ports.ImportanceModelPort,
	translator ports.FeatureTranslatorPort,
	repository ports.ReportRepositoryPort,
	logger *internal.Logger,
) *AnalysisService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &AnalysisService{
		engine:      engine,
		synthesizer: synthesizer,
		model:       model,
		translator:  translator,
		repository:  repository,
		logger:      logger,
	}
}

// RunRequest defines one end-to-end analysis
type RunRequest struct {
	Project string
	Bundle  *dataset.RelationalBundle
	Targets []core.TargetKey
}

// RunResult carries the report plus the synthesized matrix for exports
type RunResult struct {
	Report    *insight.AnalysisReport
	Matrix    *feature.Matrix
	RuntimeMs int64
}

// Run synthesizes the feature matrix, executes the attribution engine,
// applies business labels, and persists the report when a repository is
// configured.
func (s *AnalysisService) Run(ctx context.Context, req RunRequest) (*RunResult, error) {
	start := time.Now()

	matrix, err := s.synthesizer.Synthesize(ctx, req.Bundle)
	if err != nil {
		return nil, fmt.Errorf("feature synthesis failed: %w", err)
	}
	s.logger.Info("synthesized %d features over %d entities", matrix.ColumnCount(), matrix.RowCount())

	report, err := s.engine.Run(ctx, attribution.Request{
		Project: req.Project,
		Matrix:  matrix,
		Targets: req.Targets,
		Model:   s.model,
	})
	if err != nil {
		return nil, err
	}

	s.applyLabels(report)

	if degenerate := report.Warnings.Total(); degenerate > 0 {
		s.logger.Warn("run %s recovered from %d degenerate inputs (zero-sum=%d zero-variance=%d dropped-pairs=%d)",
			report.RunID, degenerate,
			report.Warnings.ZeroImportanceSum, report.Warnings.ZeroVariance, report.Warnings.DroppedPairs)
	}
	for _, failure := range report.Failures {
		s.logger.Warn("target %s skipped: %s", failure.Target, failure.Reason)
	}

	if s.repository != nil {
		if err := s.repository.SaveReport(ctx, report); err != nil {
			return nil, fmt.Errorf("failed to persist report %s: %w", report.RunID, err)
		}
	}

	return &RunResult{
		Report:    report,
		Matrix:    matrix,
		RuntimeMs: time.Since(start).Milliseconds(),
	}, nil
}

// applyLabels fills the business label on every insight
func (s *AnalysisService) applyLabels(report *insight.AnalysisReport) {
	if s.translator == nil {
		return
	}
	for ti := range report.Results {
		insights := report.Results[ti].Insights
		for i := range insights {
			insights[i].Label = s.translator.Translate(insights[i].Feature)
		}
	}
}

// WriteReports renders the report to markdown and xlsx and exports the
// feature matrix CSV into resultsDir, returning the written paths.
func (s *AnalysisService) WriteReports(result *RunResult, resultsDir string, renderers map[string]ports.ReportRendererPort, writeMatrix func(string, *feature.Matrix) error) ([]string, error) {
	if err := os.MkdirAll(resultsDir, 0o755); err != nil {
		return nil, err
	}

	stamp := result.Report.CreatedAt.Time().Format("20060102150405")
	base := fmt.Sprintf("result_%s_%s", result.Report.Project, stamp)
	var written []string

	for ext, renderer := range renderers {
		data, err := renderer.Render(result.Report)
		if err != nil {
			return written, fmt.Errorf("failed to render %s report: %w", ext, err)
		}
		path := filepath.Join(resultsDir, base+"."+ext)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	if writeMatrix != nil {
		path := filepath.Join(resultsDir, base+".csv")
		if err := writeMatrix(path, result.Matrix); err != nil {
			return written, fmt.Errorf("failed to export feature matrix: %w", err)
		}
		written = append(written, path)
	}
	return written, nil
}
