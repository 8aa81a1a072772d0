package feature

import (
	"math"
	"sort"

	"discoveryspark/domain/core"
)

// SemanticKind classifies a column once at ingestion. Components never
// re-infer a column's kind ad hoc.
type SemanticKind string

const (
	KindNumeric     SemanticKind = "numeric"
	KindCategorical SemanticKind = "categorical"
	KindOrdinal     SemanticKind = "ordinal"
)

// ColumnMeta contains metadata for each matrix column
type ColumnMeta struct {
	Key  core.FeatureKey `json:"key"`
	Kind SemanticKind    `json:"kind"`
}

// Matrix is the canonical data object for all attribution computation:
// an ordered set of named float64 columns, one row per entity instance.
// Missing values are represented as NaN. Row order corresponds 1:1 across
// all columns and across target columns for the same run.
type Matrix struct {
	columns map[core.FeatureKey][]float64
	meta    []ColumnMeta
	rows    int
}

// NewMatrix creates an empty feature matrix
func NewMatrix() *Matrix {
	return &Matrix{
		columns: make(map[core.FeatureKey][]float64),
	}
}

// AddColumn appends a named column. The first column fixes the row count;
// later columns must match it.
func (m *Matrix) AddColumn(key core.FeatureKey, kind SemanticKind, values []float64) error {
	if len(m.meta) == 0 {
		m.rows = len(values)
	} else if len(values) != m.rows {
		return core.NewColumnMismatchError(key.String(), len(values), m.rows)
	}
	if _, exists := m.columns[key]; exists {
		return core.NewConfigurationError("matrix", "duplicate column "+key.String())
	}
	m.columns[key] = values
	m.meta = append(m.meta, ColumnMeta{Key: key, Kind: kind})
	return nil
}

// Column returns the values for a feature key
func (m *Matrix) Column(key core.FeatureKey) ([]float64, bool) {
	values, ok := m.columns[key]
	return values, ok
}

// Meta returns column metadata in insertion order
func (m *Matrix) Meta() []ColumnMeta {
	return m.meta
}

// Keys returns all column keys in insertion order
func (m *Matrix) Keys() []core.FeatureKey {
	keys := make([]core.FeatureKey, len(m.meta))
	for i, cm := range m.meta {
		keys[i] = cm.Key
	}
	return keys
}

// NumericKeys returns the keys of numeric and ordinal columns, sorted for
// deterministic iteration.
func (m *Matrix) NumericKeys() []core.FeatureKey {
	var keys []core.FeatureKey
	for _, cm := range m.meta {
		if cm.Kind == KindNumeric || cm.Kind == KindOrdinal {
			keys = append(keys, cm.Key)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// RowCount returns the number of rows (entity instances)
func (m *Matrix) RowCount() int {
	return m.rows
}

// ColumnCount returns the number of columns
func (m *Matrix) ColumnCount() int {
	return len(m.meta)
}

// Validate ensures the matrix is internally consistent
func (m *Matrix) Validate() error {
	if len(m.meta) == 0 || m.rows == 0 {
		return core.ErrInsufficientData
	}
	for _, cm := range m.meta {
		if len(m.columns[cm.Key]) != m.rows {
			return core.NewColumnMismatchError(cm.Key.String(), len(m.columns[cm.Key]), m.rows)
		}
	}
	return nil
}

// Missing reports whether a value is a missing-data marker
func Missing(v float64) bool {
	return math.IsNaN(v)
}

// AlignPairs returns the values of x and y at positions where both are
// present. The returned slices are freshly allocated and equal length.
func AlignPairs(x, y []float64) ([]float64, []float64) {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	ax := make([]float64, 0, n)
	ay := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if Missing(x[i]) || Missing(y[i]) {
			continue
		}
		ax = append(ax, x[i])
		ay = append(ay, y[i])
	}
	return ax, ay
}

// DropMissing returns the non-missing values of a column
func DropMissing(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !Missing(v) {
			out = append(out, v)
		}
	}
	return out
}
