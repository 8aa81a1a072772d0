package synth

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"discoveryspark/domain/core"
	"discoveryspark/internal/dataset"
)

func retailBundle(t *testing.T) *dataset.RelationalBundle {
	t.Helper()
	customers := &dataset.Table{
		Name:    "customers",
		Role:    dataset.RoleParent,
		KeyCol:  "customer_id",
		Headers: []string{"customer_id", "age", "segment"},
		Rows: [][]string{
			{"c1", "30", "gold"},
			{"c2", "40", "silver"},
			{"c3", "", "gold"},
		},
	}
	sales := &dataset.Table{
		Name:    "sales",
		Role:    dataset.RoleChild,
		KeyCol:  "customer_id",
		Headers: []string{"sale_id", "customer_id", "amount"},
		Rows: [][]string{
			{"s1", "c1", "100"},
			{"s2", "c1", "50"},
			{"s3", "c2", "200"},
		},
	}
	bundle, err := dataset.NewRelationalBundle([]*dataset.Table{customers, sales})
	require.NoError(t, err)
	return bundle
}

func TestSynthesize(t *testing.T) {
	s := NewAggregateSynthesizer()

	matrix, err := s.Synthesize(context.Background(), retailBundle(t))
	require.NoError(t, err)

	assert.Equal(t, 3, matrix.RowCount(), "one row per parent entity")

	// Parent key column is not a feature
	_, ok := matrix.Column("customer_id")
	assert.False(t, ok)

	age, ok := matrix.Column("age")
	require.True(t, ok)
	assert.Equal(t, 30.0, age[0])
	assert.Equal(t, 40.0, age[1])
	assert.True(t, math.IsNaN(age[2]), "blank cell becomes missing")

	// Categorical parent column is label-encoded deterministically
	segment, ok := matrix.Column("segment")
	require.True(t, ok)
	assert.Equal(t, []float64{0, 1, 0}, segment, "gold < silver lexicographically")

	count, ok := matrix.Column("COUNT(sales)")
	require.True(t, ok)
	assert.Equal(t, []float64{2, 1, 0}, count)

	sum, ok := matrix.Column("SUM(sales.amount)")
	require.True(t, ok)
	assert.Equal(t, 150.0, sum[0])
	assert.Equal(t, 200.0, sum[1])
	assert.True(t, math.IsNaN(sum[2]), "no child rows means missing, not zero")

	mean, ok := matrix.Column("MEAN(sales.amount)")
	require.True(t, ok)
	assert.Equal(t, 75.0, mean[0])

	maxCol, ok := matrix.Column("MAX(sales.amount)")
	require.True(t, ok)
	assert.Equal(t, 100.0, maxCol[0])

	minCol, ok := matrix.Column("MIN(sales.amount)")
	require.True(t, ok)
	assert.Equal(t, 50.0, minCol[0])

	std, ok := matrix.Column("STD(sales.amount)")
	require.True(t, ok)
	assert.InDelta(t, 25.0, std[0], 1e-9)
	assert.Equal(t, 0.0, std[1], "single-row group has zero spread")

	// Non-numeric child columns yield no aggregates
	_, ok = matrix.Column("SUM(sales.sale_id)")
	assert.False(t, ok)
}

func TestSynthesize_ChildKeyExcluded(t *testing.T) {
	s := NewAggregateSynthesizer()

	matrix, err := s.Synthesize(context.Background(), retailBundle(t))
	require.NoError(t, err)

	for _, key := range matrix.Keys() {
		assert.NotEqual(t, core.FeatureKey("SUM(sales.customer_id)"), key)
	}
}

func TestSynthesize_CancelledContext(t *testing.T) {
	s := NewAggregateSynthesizer()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Synthesize(ctx, retailBundle(t))
	require.Error(t, err)
}
