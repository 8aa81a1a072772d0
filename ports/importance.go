package ports

import (
	"context"

	"discoveryspark/domain/core"
	"discoveryspark/domain/feature"
)

// RawImportance maps feature keys to non-negative raw weights for one
// target. Produced by the importance model, consumed exactly once by the
// normalizer; not retained.
type RawImportance map[core.FeatureKey]float64

// ImportanceModelPort is the boundary to the external supervised model.
// The engine is responsible for normalizing, signing, and ranking the raw
// scores, never for fitting models. A test double can inject deterministic
// values.
type ImportanceModelPort interface {
	FitAndScore(ctx context.Context, matrix *feature.Matrix, target *feature.TargetSpec) (RawImportance, error)
}

// SignedCoefficients optionally exposes a signed per-feature coefficient
// (e.g. a partial-dependence slope). When the model implements it, the
// trend signer uses the coefficient's sign directly instead of computing
// correlations.
type SignedCoefficients interface {
	Coefficient(feat core.FeatureKey, target core.TargetKey) (float64, bool)
}
