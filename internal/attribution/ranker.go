package attribution

import (
	"sort"

	"discoveryspark/domain/core"
	"discoveryspark/domain/insight"
)

// InsightRanker merges normalized importance with trend direction into a
// ranked, truncated insight list.
type InsightRanker struct{}

// Rank sorts by impact descending with ties broken by feature name
// ascending, keeps the first topN entries, and assigns dense 1-based
// ranks. Zero-impact features stay eligible and sort to the bottom; no
// feature is dropped except by the cutoff.
func (InsightRanker) Rank(impacts map[core.FeatureKey]float64, trends map[core.FeatureKey]TrendResult, topN int) ([]insight.Insight, error) {
	keys := make([]core.FeatureKey, 0, len(impacts))
	for key := range impacts {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if impacts[keys[i]] != impacts[keys[j]] {
			return impacts[keys[i]] > impacts[keys[j]]
		}
		return keys[i] < keys[j]
	})

	if len(keys) > topN {
		keys = keys[:topN]
	}

	insights := make([]insight.Insight, 0, len(keys))
	for i, key := range keys {
		trend, ok := trends[key]
		if !ok {
			trend = TrendResult{Direction: insight.DirectionNeutral}
		}
		ins, err := insight.NewInsight(key, impacts[key], trend.Direction, trend.Ambiguous, i+1)
		if err != nil {
			return nil, err
		}
		insights = append(insights, ins)
	}
	return insights, nil
}
