package ports

import (
	"context"

	"discoveryspark/domain/feature"
	"discoveryspark/internal/dataset"
)

// FeatureSynthesizerPort turns a relational bundle (parent table plus child
// tables related by keys) into a flat feature matrix keyed by entity id.
// The attribution engine never synthesizes features itself; it consumes
// this port's output.
type FeatureSynthesizerPort interface {
	Synthesize(ctx context.Context, bundle *dataset.RelationalBundle) (*feature.Matrix, error)
}
