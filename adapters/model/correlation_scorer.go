package model

import (
	"context"
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"discoveryspark/domain/core"
	"discoveryspark/domain/feature"
	"discoveryspark/ports"
)

// CorrelationScorer is the default ImportanceModelPort implementation: raw
// importance is the absolute Pearson correlation between each feature and
// the target. It is a substitutable stand-in for an external supervised
// model; the engine only ever sees the RawImportance contract.
type CorrelationScorer struct{}

// NewCorrelationScorer creates a correlation-based importance scorer
func NewCorrelationScorer() *CorrelationScorer {
	return &CorrelationScorer{}
}

// FitAndScore scores every numeric column except the target itself.
// Constant and unusable columns get weight 0 rather than failing the
// target.
func (s *CorrelationScorer) FitAndScore(ctx context.Context, matrix *feature.Matrix, target *feature.TargetSpec) (ports.RawImportance, error) {
	raw := make(ports.RawImportance)
	for _, key := range matrix.NumericKeys() {
		if key == core.FeatureKey(target.Name) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		values, _ := matrix.Column(key)
		raw[key] = s.score(values, target.Values)
	}
	if len(raw) == 0 {
		return nil, core.NewInsufficientDataError(target.Name.String(), 0)
	}
	return raw, nil
}

func (s *CorrelationScorer) score(featVals, targetVals []float64) float64 {
	x, y := feature.AlignPairs(featVals, targetVals)
	if len(x) < 2 {
		return 0
	}
	// Cheap variance guard before the correlation itself
	if sd, err := stats.StandardDeviation(x); err != nil || sd == 0 {
		return 0
	}
	if sd, err := stats.StandardDeviation(y); err != nil || sd == 0 {
		return 0
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) {
		return 0
	}
	return math.Abs(r)
}
