package insight

import (
	"fmt"
	"math"

	"discoveryspark/domain/core"
	"discoveryspark/domain/feature"
)

// Direction is the sign of the monotonic association between a feature
// and a target
type Direction string

const (
	DirectionPositive Direction = "positive"
	DirectionNegative Direction = "negative"
	DirectionNeutral  Direction = "neutral"
)

// Insight is one ranked (feature, target) association.
// INVARIANTS:
// - Impact always in [0, 1]
// - Rank is 1-based and dense within a target's insight list
// Immutable once created; lifetime is one report generation.
type Insight struct {
	Feature   core.FeatureKey `json:"feature"`
	Label     string          `json:"label,omitempty"` // business label, applied downstream
	Impact    float64         `json:"impact"`
	Direction Direction       `json:"direction"`
	Ambiguous bool            `json:"ambiguous,omitempty"` // direction undefined (multi-class target)
	Rank      int             `json:"rank"`
}

// NewInsight creates an insight with validation
func NewInsight(feat core.FeatureKey, impact float64, dir Direction, ambiguous bool, rank int) (Insight, error) {
	if feat == "" {
		return Insight{}, fmt.Errorf("feature key must be set")
	}
	if math.IsNaN(impact) || impact < 0.0 || impact > 1.0 {
		return Insight{}, fmt.Errorf("impact must be in [0.0, 1.0], got %f", impact)
	}
	if rank < 1 {
		return Insight{}, fmt.Errorf("rank must be >= 1, got %d", rank)
	}
	return Insight{Feature: feat, Impact: impact, Direction: dir, Ambiguous: ambiguous, Rank: rank}, nil
}

// InteractionStrength buckets the absolute correlation between two targets
type InteractionStrength string

const (
	StrengthWeak     InteractionStrength = "weak"     // |r| < 0.3
	StrengthModerate InteractionStrength = "moderate" // 0.3 <= |r| <= 0.7
	StrengthStrong   InteractionStrength = "strong"   // |r| > 0.7
)

// TargetInteraction is a measured correlation between two targets' own
// value columns. One per unordered pair above the reporting threshold.
type TargetInteraction struct {
	TargetA     core.TargetKey      `json:"target_a"`
	TargetB     core.TargetKey      `json:"target_b"`
	Correlation float64             `json:"correlation"`
	Strength    InteractionStrength `json:"strength"`
	Direction   Direction           `json:"direction"`
}

// NewTargetInteraction creates an interaction record with validation
func NewTargetInteraction(a, b core.TargetKey, r float64) (TargetInteraction, error) {
	if a == "" || b == "" {
		return TargetInteraction{}, fmt.Errorf("both target keys must be set")
	}
	if math.IsNaN(r) || r < -1.0 || r > 1.0 {
		return TargetInteraction{}, fmt.Errorf("correlation must be in [-1.0, 1.0], got %f", r)
	}
	dir := DirectionPositive
	if r < 0 {
		dir = DirectionNegative
	}
	return TargetInteraction{
		TargetA:     a,
		TargetB:     b,
		Correlation: r,
		Strength:    ClassifyStrength(r),
		Direction:   dir,
	}, nil
}

// ClassifyStrength buckets a correlation by absolute value
func ClassifyStrength(r float64) InteractionStrength {
	abs := math.Abs(r)
	switch {
	case abs < 0.3:
		return StrengthWeak
	case abs <= 0.7:
		return StrengthModerate
	default:
		return StrengthStrong
	}
}

// TargetResult holds one target's ranked insight list
type TargetResult struct {
	Target   core.TargetKey   `json:"target"`
	Task     feature.TaskType `json:"task"`
	Insights []Insight        `json:"insights"`
}

// TargetFailure records a per-target failure without aborting the run
type TargetFailure struct {
	Target core.TargetKey `json:"target"`
	Reason string         `json:"reason"`
}

// WarningCounts tracks degenerate-input recoveries for diagnosis.
// These are observable, non-fatal: the run continues with sentinel outputs.
type WarningCounts struct {
	ZeroImportanceSum int `json:"zero_importance_sum"` // all-zero/NaN raw weight sets
	ZeroVariance      int `json:"zero_variance"`       // constant columns seen by the trend signer
	DroppedPairs      int `json:"dropped_pairs"`       // interaction pairs with <2 aligned rows
}

// Total returns the overall degenerate-input count
func (w WarningCounts) Total() int {
	return w.ZeroImportanceSum + w.ZeroVariance + w.DroppedPairs
}

// AnalysisReport is the top-level aggregate handed to renderers and
// repositories. Built once per invocation; the engine holds no state
// across runs.
type AnalysisReport struct {
	RunID        core.RunID          `json:"run_id"`
	Project      string              `json:"project"`
	Results      []TargetResult      `json:"results"`  // requested target order
	Failures     []TargetFailure     `json:"failures"` // explicit, not silently omitted
	Interactions []TargetInteraction `json:"interactions,omitempty"`
	Warnings     WarningCounts       `json:"warnings"`
	CreatedAt    core.Timestamp      `json:"created_at"`
}

// NewAnalysisReport creates an empty report for a run
func NewAnalysisReport(project string) *AnalysisReport {
	return &AnalysisReport{
		RunID:     core.RunID(core.NewID()),
		Project:   project,
		CreatedAt: core.Now(),
	}
}

// Result returns the result for a target, if present
func (r *AnalysisReport) Result(target core.TargetKey) (*TargetResult, bool) {
	for i := range r.Results {
		if r.Results[i].Target == target {
			return &r.Results[i], true
		}
	}
	return nil, false
}
