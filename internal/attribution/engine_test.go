package attribution

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"discoveryspark/domain/core"
	"discoveryspark/domain/feature"
	"discoveryspark/domain/insight"
	"discoveryspark/ports"
)

// stubModel returns canned raw importances per target
type stubModel struct {
	scores map[core.TargetKey]ports.RawImportance
	err    error
}

func (m *stubModel) FitAndScore(_ context.Context, _ *feature.Matrix, target *feature.TargetSpec) (ports.RawImportance, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.scores[target.Name], nil
}

// signedStubModel additionally exposes signed coefficients
type signedStubModel struct {
	stubModel
	coefs map[core.FeatureKey]float64
}

func (m *signedStubModel) Coefficient(feat core.FeatureKey, _ core.TargetKey) (float64, bool) {
	coef, ok := m.coefs[feat]
	return coef, ok
}

func column(n int, f func(i int) float64) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = f(i)
	}
	return values
}

func ticketMatrix(t *testing.T) *feature.Matrix {
	t.Helper()
	m := feature.NewMatrix()
	require.NoError(t, m.AddColumn("ticket_price", feature.KindNumeric, column(12, func(i int) float64 { return 100 + float64(i)*10 })))
	require.NoError(t, m.AddColumn("flight_distance", feature.KindNumeric, column(12, func(i int) float64 { return 200 + float64(i)*50 })))
	require.NoError(t, m.AddColumn("origin_airport_id", feature.KindOrdinal, column(12, func(i int) float64 { return float64(i + 1) })))
	require.NoError(t, m.AddColumn("seats_sold", feature.KindNumeric, column(12, func(i int) float64 { return float64(24 - 2*i) })))
	return m
}

func TestEngine_TicketPriceScenario(t *testing.T) {
	engine, err := NewEngine(DefaultOptions())
	require.NoError(t, err)

	model := &stubModel{scores: map[core.TargetKey]ports.RawImportance{
		"ticket_price": {
			"flight_distance":   44.33,
			"origin_airport_id": 34.81,
			"seats_sold":        20.86,
		},
	}}

	report, err := engine.Run(context.Background(), Request{
		Project: "airline",
		Matrix:  ticketMatrix(t),
		Targets: []core.TargetKey{"ticket_price"},
		Model:   model,
	})
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.Empty(t, report.Failures)
	assert.NotEmpty(t, report.RunID)

	result := report.Results[0]
	assert.Equal(t, core.TargetKey("ticket_price"), result.Target)
	assert.Equal(t, feature.TaskRegression, result.Task)
	require.Len(t, result.Insights, 3)

	first, second, third := result.Insights[0], result.Insights[1], result.Insights[2]

	assert.Equal(t, core.FeatureKey("flight_distance"), first.Feature)
	assert.Equal(t, 1, first.Rank)
	assert.InDelta(t, 0.4433, first.Impact, 1e-4)
	assert.Equal(t, insight.DirectionPositive, first.Direction)

	assert.Equal(t, core.FeatureKey("origin_airport_id"), second.Feature)
	assert.Equal(t, 2, second.Rank)
	assert.InDelta(t, 0.3481, second.Impact, 1e-4)
	assert.Equal(t, insight.DirectionPositive, second.Direction)

	assert.Equal(t, core.FeatureKey("seats_sold"), third.Feature)
	assert.Equal(t, 3, third.Rank)
	assert.InDelta(t, 0.2086, third.Impact, 1e-4)
	assert.Equal(t, insight.DirectionNegative, third.Direction)
}

func TestEngine_PartialFailureKeepsSiblings(t *testing.T) {
	engine, err := NewEngine(DefaultOptions())
	require.NoError(t, err)

	m := ticketMatrix(t)
	require.NoError(t, m.AddColumn("broken", feature.KindNumeric, column(12, func(int) float64 { return math.NaN() })))

	model := &stubModel{scores: map[core.TargetKey]ports.RawImportance{
		"ticket_price": {"flight_distance": 1.0},
	}}

	report, err := engine.Run(context.Background(), Request{
		Project: "airline",
		Matrix:  m,
		Targets: []core.TargetKey{"ticket_price", "broken"},
		Model:   model,
	})
	require.NoError(t, err)

	require.Len(t, report.Results, 1)
	assert.Equal(t, core.TargetKey("ticket_price"), report.Results[0].Target)

	require.Len(t, report.Failures, 1)
	assert.Equal(t, core.TargetKey("broken"), report.Failures[0].Target)
	assert.NotEmpty(t, report.Failures[0].Reason)

	// A single surviving target yields no interaction records
	assert.Empty(t, report.Interactions)
}

func TestEngine_MissingTargetIsFatal(t *testing.T) {
	engine, err := NewEngine(DefaultOptions())
	require.NoError(t, err)

	_, err = engine.Run(context.Background(), Request{
		Project: "airline",
		Matrix:  ticketMatrix(t),
		Targets: []core.TargetKey{"ticket_price", "no_such_column"},
		Model:   &stubModel{},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrTargetNotFound))
}

func TestEngine_RequestValidation(t *testing.T) {
	engine, err := NewEngine(DefaultOptions())
	require.NoError(t, err)

	_, err = engine.Run(context.Background(), Request{
		Project: "p",
		Matrix:  nil,
		Targets: []core.TargetKey{"x"},
		Model:   &stubModel{},
	})
	assert.True(t, core.IsConfigurationError(err), "nil matrix: %v", err)

	_, err = engine.Run(context.Background(), Request{
		Project: "p",
		Matrix:  ticketMatrix(t),
		Targets: []core.TargetKey{"ticket_price"},
		Model:   nil,
	})
	assert.True(t, core.IsConfigurationError(err), "nil model: %v", err)

	_, err = engine.Run(context.Background(), Request{
		Project: "p",
		Matrix:  ticketMatrix(t),
		Model:   &stubModel{},
	})
	assert.True(t, core.IsConfigurationError(err), "no targets: %v", err)
}

func TestEngine_InvalidOptionsRejected(t *testing.T) {
	opts := DefaultOptions()
	opts.TopN = 0

	_, err := NewEngine(opts)
	require.Error(t, err)
	assert.True(t, core.IsConfigurationError(err))
}

func TestEngine_MultiTargetInteractions(t *testing.T) {
	engine, err := NewEngine(DefaultOptions())
	require.NoError(t, err)

	m := feature.NewMatrix()
	require.NoError(t, m.AddColumn("revenue", feature.KindNumeric, column(20, func(i int) float64 { return float64(10 + i*5) })))
	require.NoError(t, m.AddColumn("churn_score", feature.KindNumeric, column(20, func(i int) float64 { return float64(100 - i*4) })))
	require.NoError(t, m.AddColumn("visits", feature.KindNumeric, column(20, func(i int) float64 { return float64(i * i) })))

	model := &stubModel{scores: map[core.TargetKey]ports.RawImportance{
		"revenue":     {"visits": 3.0, "churn_score": 1.0},
		"churn_score": {"visits": 2.0, "revenue": 2.0},
	}}

	report, err := engine.Run(context.Background(), Request{
		Project: "retail",
		Matrix:  m,
		Targets: []core.TargetKey{"revenue", "churn_score"},
		Model:   model,
	})
	require.NoError(t, err)
	require.Len(t, report.Results, 2)

	// Requested order survives the parallel pipeline
	assert.Equal(t, core.TargetKey("revenue"), report.Results[0].Target)
	assert.Equal(t, core.TargetKey("churn_score"), report.Results[1].Target)

	require.Len(t, report.Interactions, 1)
	ia := report.Interactions[0]
	assert.Equal(t, core.TargetKey("revenue"), ia.TargetA)
	assert.Equal(t, core.TargetKey("churn_score"), ia.TargetB)
	assert.InDelta(t, -1.0, ia.Correlation, 1e-9)
	assert.Equal(t, insight.StrengthStrong, ia.Strength)
	assert.Equal(t, insight.DirectionNegative, ia.Direction)
}

func TestEngine_ZeroImportanceRecovered(t *testing.T) {
	engine, err := NewEngine(DefaultOptions())
	require.NoError(t, err)

	model := &stubModel{scores: map[core.TargetKey]ports.RawImportance{
		"ticket_price": {
			"flight_distance": 0.0,
			"seats_sold":      math.NaN(),
		},
	}}

	report, err := engine.Run(context.Background(), Request{
		Project: "airline",
		Matrix:  ticketMatrix(t),
		Targets: []core.TargetKey{"ticket_price"},
		Model:   model,
	})
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.Empty(t, report.Failures, "degenerate importance is a recovery, not a failure")
	assert.Equal(t, 1, report.Warnings.ZeroImportanceSum)

	for _, ins := range report.Results[0].Insights {
		assert.Equal(t, 0.0, ins.Impact)
	}
}

func TestEngine_ModelErrorRecordedAsFailure(t *testing.T) {
	engine, err := NewEngine(DefaultOptions())
	require.NoError(t, err)

	model := &stubModel{err: errors.New("model blew up")}

	report, err := engine.Run(context.Background(), Request{
		Project: "airline",
		Matrix:  ticketMatrix(t),
		Targets: []core.TargetKey{"ticket_price"},
		Model:   model,
	})
	require.NoError(t, err)
	assert.Empty(t, report.Results)
	require.Len(t, report.Failures, 1)
	assert.Contains(t, report.Failures[0].Reason, "model blew up")
}

func TestEngine_SignedCoefficientsOverridePearson(t *testing.T) {
	engine, err := NewEngine(DefaultOptions())
	require.NoError(t, err)

	// flight_distance correlates positively with ticket_price, but the
	// model supplies a negative partial slope that takes precedence.
	model := &signedStubModel{
		stubModel: stubModel{scores: map[core.TargetKey]ports.RawImportance{
			"ticket_price": {"flight_distance": 1.0},
		}},
		coefs: map[core.FeatureKey]float64{"flight_distance": -0.8},
	}

	report, err := engine.Run(context.Background(), Request{
		Project: "airline",
		Matrix:  ticketMatrix(t),
		Targets: []core.TargetKey{"ticket_price"},
		Model:   model,
	})
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	require.Len(t, report.Results[0].Insights, 1)
	assert.Equal(t, insight.DirectionNegative, report.Results[0].Insights[0].Direction)
}
