package attribution

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"discoveryspark/domain/feature"
	"discoveryspark/domain/insight"
)

// InteractionAnalyzer computes pairwise correlation between every pair of
// targets in a multi-target run and classifies strength and direction.
type InteractionAnalyzer struct {
	minReport float64
}

// NewInteractionAnalyzer creates an analyzer with the given minimum
// reporting magnitude
func NewInteractionAnalyzer(minReport float64) *InteractionAnalyzer {
	return &InteractionAnalyzer{minReport: minReport}
}

// Analyze walks every unordered target pair in requested order. Pairs with
// fewer than 2 aligned rows or undefined correlation are dropped (counted,
// not errors); correlations below the reporting magnitude simply produce
// no record. Each pair is reported at most once.
func (a *InteractionAnalyzer) Analyze(targets []*feature.TargetSpec) ([]insight.TargetInteraction, int) {
	var interactions []insight.TargetInteraction
	dropped := 0

	for i := 0; i < len(targets); i++ {
		for j := i + 1; j < len(targets); j++ {
			x, y := feature.AlignPairs(targets[i].Values, targets[j].Values)
			if len(x) < 2 {
				dropped++
				continue
			}

			r := stat.Correlation(x, y, nil)
			if math.IsNaN(r) {
				// Constant column on either side
				dropped++
				continue
			}
			if math.Abs(r) < a.minReport {
				continue
			}

			record, err := insight.NewTargetInteraction(targets[i].Name, targets[j].Name, clampCorrelation(r))
			if err != nil {
				dropped++
				continue
			}
			interactions = append(interactions, record)
		}
	}
	return interactions, dropped
}

// clampCorrelation absorbs floating-point drift outside [-1, 1]
func clampCorrelation(r float64) float64 {
	if r > 1 {
		return 1
	}
	if r < -1 {
		return -1
	}
	return r
}
