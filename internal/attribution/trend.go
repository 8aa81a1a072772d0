package attribution

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"discoveryspark/domain/feature"
	"discoveryspark/domain/insight"
)

// TrendSigner determines whether increasing a feature is associated with
// an increase or decrease in a target, independent of importance
// magnitude.
type TrendSigner struct {
	epsilon float64
}

// NewTrendSigner creates a signer with the given neutral epsilon
func NewTrendSigner(epsilon float64) *TrendSigner {
	return &TrendSigner{epsilon: epsilon}
}

// TrendResult carries the direction plus the recoveries that produced it
type TrendResult struct {
	Direction insight.Direction
	// Ambiguous marks a direction that is undefined rather than measured
	// (classification targets with more than two classes).
	Ambiguous bool
	// Degenerate marks a neutral result forced by zero variance or an
	// empty aligned sample.
	Degenerate bool
}

// Sign computes the direction of one feature against one target's value
// column. Rows where either side is missing are removed first. Never
// raises on constant columns: an undefined correlation is neutral.
func (s *TrendSigner) Sign(featVals, targetVals []float64, task feature.TaskType, classes int) TrendResult {
	if task == feature.TaskClassification && classes > 2 {
		// Sign is undefined per class; reported neutral and flagged as a
		// documented approximation.
		return TrendResult{Direction: insight.DirectionNeutral, Ambiguous: true}
	}

	x, y := feature.AlignPairs(featVals, targetVals)
	if len(x) < 2 {
		return TrendResult{Direction: insight.DirectionNeutral, Degenerate: true}
	}
	if task == feature.TaskClassification {
		y = encodeBinary(y)
	}

	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) {
		// Zero variance on either side
		return TrendResult{Direction: insight.DirectionNeutral, Degenerate: true}
	}
	return TrendResult{Direction: s.direction(r)}
}

// SignFromCoefficient applies the same epsilon rules to a signed
// coefficient supplied by the model (e.g. a partial-dependence slope), so
// either trend source behaves identically downstream.
func (s *TrendSigner) SignFromCoefficient(coef float64) TrendResult {
	if math.IsNaN(coef) || math.IsInf(coef, 0) {
		return TrendResult{Direction: insight.DirectionNeutral, Degenerate: true}
	}
	return TrendResult{Direction: s.direction(coef)}
}

func (s *TrendSigner) direction(v float64) insight.Direction {
	if math.Abs(v) < s.epsilon {
		return insight.DirectionNeutral
	}
	if v > 0 {
		return insight.DirectionPositive
	}
	return insight.DirectionNegative
}

// encodeBinary maps a two-valued column onto a 0/1 indicator, preserving
// the numeric order of the class labels
func encodeBinary(values []float64) []float64 {
	lo := math.Inf(1)
	for _, v := range values {
		if v < lo {
			lo = v
		}
	}
	out := make([]float64, len(values))
	for i, v := range values {
		if v > lo {
			out[i] = 1
		}
	}
	return out
}
