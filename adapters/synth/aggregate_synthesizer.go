package synth

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"discoveryspark/domain/core"
	"discoveryspark/domain/feature"
	"discoveryspark/internal/dataset"
)

// AggregateSynthesizer is the default FeatureSynthesizerPort
// implementation: a depth-1 aggregate synthesis over the relational
// bundle. Parent columns become features directly (categoricals
// label-encoded); every numeric child column yields SUM/MEAN/MAX/MIN/STD
// aggregates per parent key, plus a COUNT of child rows.
type AggregateSynthesizer struct{}

// NewAggregateSynthesizer creates an aggregate feature synthesizer
func NewAggregateSynthesizer() *AggregateSynthesizer {
	return &AggregateSynthesizer{}
}

// Synthesize produces a flat feature matrix keyed by the parent entity,
// one row per parent table row.
func (s *AggregateSynthesizer) Synthesize(ctx context.Context, bundle *dataset.RelationalBundle) (*feature.Matrix, error) {
	parent := bundle.Parent
	matrix := feature.NewMatrix()

	// Parent's own columns, key column excluded
	for _, header := range parent.Headers {
		if header == parent.KeyCol {
			continue
		}
		kind := parent.InferKind(header)
		var values []float64
		switch kind {
		case feature.KindNumeric, feature.KindOrdinal:
			values, _ = parent.NumericColumn(header)
		default:
			values = labelEncode(parent, header)
			kind = feature.KindOrdinal
		}
		if err := matrix.AddColumn(core.FeatureKey(header), kind, values); err != nil {
			return nil, err
		}
	}

	parentKeys := keyColumn(parent)
	for _, child := range bundle.Children {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.addChildAggregates(matrix, parentKeys, child); err != nil {
			return nil, err
		}
	}

	if err := matrix.Validate(); err != nil {
		return nil, err
	}
	return matrix, nil
}

// addChildAggregates groups child rows by key and appends one aggregate
// column per (function, numeric child column) pair, plus the row count.
func (s *AggregateSynthesizer) addChildAggregates(matrix *feature.Matrix, parentKeys []string, child *dataset.Table) error {
	groups := groupRows(child)

	counts := make([]float64, len(parentKeys))
	for i, key := range parentKeys {
		counts[i] = float64(len(groups[key]))
	}
	countKey := core.FeatureKey(fmt.Sprintf("COUNT(%s)", child.Name))
	if err := matrix.AddColumn(countKey, feature.KindNumeric, counts); err != nil {
		return err
	}

	for _, header := range child.Headers {
		if header == child.KeyCol {
			continue
		}
		kind := child.InferKind(header)
		if kind != feature.KindNumeric && kind != feature.KindOrdinal {
			continue
		}
		column, _ := child.NumericColumn(header)

		for _, agg := range aggregators {
			values := make([]float64, len(parentKeys))
			for i, key := range parentKeys {
				values[i] = agg.fn(pick(column, groups[key]))
			}
			name := core.FeatureKey(fmt.Sprintf("%s(%s.%s)", agg.name, child.Name, header))
			if err := matrix.AddColumn(name, feature.KindNumeric, values); err != nil {
				return err
			}
		}
	}
	return nil
}

type aggregator struct {
	name string
	fn   func([]float64) float64
}

var aggregators = []aggregator{
	{"SUM", guard(stats.Sum)},
	{"MEAN", guard(stats.Mean)},
	{"MAX", guard(stats.Max)},
	{"MIN", guard(stats.Min)},
	{"STD", guard(stats.StandardDeviation)},
}

// guard adapts a stats function to the NaN-for-missing convention
func guard(fn func(stats.Float64Data) (float64, error)) func([]float64) float64 {
	return func(values []float64) float64 {
		values = feature.DropMissing(values)
		if len(values) == 0 {
			return math.NaN()
		}
		v, err := fn(values)
		if err != nil {
			return math.NaN()
		}
		return v
	}
}

// keyColumn returns the parent key column as raw strings
func keyColumn(t *dataset.Table) []string {
	idx := t.ColumnIndex(t.KeyCol)
	keys := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		keys[i] = row[idx]
	}
	return keys
}

// groupRows maps child key value to the row indexes carrying it
func groupRows(t *dataset.Table) map[string][]int {
	idx := t.ColumnIndex(t.KeyCol)
	groups := make(map[string][]int)
	for i, row := range t.Rows {
		groups[row[idx]] = append(groups[row[idx]], i)
	}
	return groups
}

// pick selects column values at the given row indexes
func pick(column []float64, rows []int) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = column[r]
	}
	return out
}

// labelEncode maps a categorical column onto deterministic integer codes
// (sorted distinct values), with NaN for blanks
func labelEncode(t *dataset.Table, header string) []float64 {
	idx := t.ColumnIndex(header)
	distinct := make(map[string]struct{})
	for _, row := range t.Rows {
		if row[idx] != "" {
			distinct[row[idx]] = struct{}{}
		}
	}
	labels := make([]string, 0, len(distinct))
	for v := range distinct {
		labels = append(labels, v)
	}
	sort.Strings(labels)
	codes := make(map[string]float64, len(labels))
	for i, v := range labels {
		codes[v] = float64(i)
	}

	out := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		if row[idx] == "" {
			out[i] = math.NaN()
			continue
		}
		out[i] = codes[row[idx]]
	}
	return out
}
