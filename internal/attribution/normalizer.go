package attribution

import (
	"math"

	"discoveryspark/domain/core"
	"discoveryspark/ports"
)

// ImportanceNormalizer converts raw per-feature importance weights into a
// probability-like distribution summing to 1. A report must never crash or
// produce NaN/Inf here, whatever the model hands us.
type ImportanceNormalizer struct{}

// Normalize divides each weight by the total. NaN, Inf, and negative
// weights count as 0 before summing. A zero total is the explicit
// degenerate case: every feature gets exactly 0.0 and the second return
// value is true so the caller can count the recovery.
func (ImportanceNormalizer) Normalize(raw ports.RawImportance) (map[core.FeatureKey]float64, bool) {
	normalized := make(map[core.FeatureKey]float64, len(raw))

	sum := 0.0
	for _, w := range raw {
		if !usableWeight(w) {
			continue
		}
		sum += w
	}

	if sum == 0 {
		for key := range raw {
			normalized[key] = 0.0
		}
		return normalized, true
	}

	for key, w := range raw {
		if !usableWeight(w) {
			normalized[key] = 0.0
			continue
		}
		v := w / sum
		// Clamp to absorb floating-point drift
		if v < 0 {
			v = 0
		} else if v > 1 {
			v = 1
		}
		normalized[key] = v
	}
	return normalized, false
}

func usableWeight(w float64) bool {
	return !math.IsNaN(w) && !math.IsInf(w, 0) && w > 0
}
